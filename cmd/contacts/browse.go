package main

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/aanand-mishra/student-contacts/internal/coordinator"
	"github.com/aanand-mishra/student-contacts/internal/types"
	"github.com/aanand-mishra/student-contacts/internal/view"
	"github.com/spf13/cobra"
)

const browseHelp = `Commands:
  search [text]   filter by name or roll number (no text clears the filter)
  show <id>       show one student
  back            close the detail view
  refresh         fetch the roster again
  retry           retry a failed fetch
  help            show this help
  quit            exit`

func newBrowseCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "browse",
		Short: "Browse the roster interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()
			return browse(cmd, s, cmd.InOrStdin())
		},
	}
}

func browse(cmd *cobra.Command, s *session, in io.Reader) error {
	out := cmd.OutOrStdout()
	ctx := cmd.Context()

	snap, err := s.Load(ctx)
	if err != nil {
		return err
	}
	render(out, snap)

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		verb, arg, _ := strings.Cut(strings.TrimSpace(scanner.Text()), " ")
		switch verb {
		case "":
		case "search":
			render(out, s.Search(arg))
		case "show":
			if arg == "" {
				fmt.Fprintln(out, "usage: show <id>")
				continue
			}
			if err := show(cmd, s, types.RecordID(strings.TrimSpace(arg))); err != nil {
				fmt.Fprintln(out, err)
			}
		case "back":
			render(out, s.Back())
		case "refresh":
			if snap, err = s.Load(ctx); err != nil {
				return err
			}
			render(out, snap)
		case "retry":
			snap, ok, err := s.Retry(ctx)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "Nothing to retry.")
				continue
			}
			render(out, snap)
		case "help":
			fmt.Fprintln(out, browseHelp)
		case "quit", "exit":
			return nil
		default:
			fmt.Fprintf(out, "unknown command %q, type help for a list\n", verb)
		}
	}
}

// render prints the status line and, once a roster is loaded, the table.
func render(w io.Writer, snap coordinator.Snapshot) {
	view.Status(w, snap)
	if snap.Phase == coordinator.PhaseSuccess {
		view.List(w, snap.Filtered)
	}
}
