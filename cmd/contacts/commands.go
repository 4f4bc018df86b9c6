package main

import (
	"fmt"
	"io"

	"github.com/aanand-mishra/student-contacts/internal/coordinator"
	"github.com/aanand-mishra/student-contacts/internal/types"
	"github.com/aanand-mishra/student-contacts/internal/view"
	"github.com/spf13/cobra"
)

func newListCommand(opts *rootOptions) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List students, optionally filtered by name or roll number",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			snap, err := s.Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := reportFailure(out, snap); err != nil {
				return err
			}

			if query != "" {
				snap = s.Search(query)
			}
			view.Status(out, snap)
			return view.List(out, snap.Filtered)
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Case-insensitive match on name or roll number")
	return cmd
}

func newShowCommand(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show one student's full record",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.open(cmd)
			if err != nil {
				return err
			}
			defer s.Close()

			out := cmd.OutOrStdout()
			snap, err := s.Load(cmd.Context())
			if err != nil {
				return err
			}
			if err := reportFailure(out, snap); err != nil {
				return err
			}

			return show(cmd, s, types.RecordID(args[0]))
		},
	}
}

func show(cmd *cobra.Command, s *session, id types.RecordID) error {
	snap, ok, err := s.Show(cmd.Context(), id)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("no student with id %s in the roster", id)
	}
	return view.Detail(cmd.OutOrStdout(), *snap.Selected, snap.DetailNotFound)
}

// reportFailure prints a terminal fetch failure and returns errReported.
func reportFailure(w io.Writer, snap coordinator.Snapshot) error {
	if snap.Phase != coordinator.PhaseError {
		return nil
	}
	view.Status(w, snap)
	return errReported
}
