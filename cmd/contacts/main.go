// contacts is the terminal client for the student roster API.
//
//	contacts list --query cs
//	contacts show 7
//	contacts browse
//
// The config file is taken from --config, then from CONFIG_PATH.
package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/aanand-mishra/student-contacts/internal/config"
	"github.com/aanand-mishra/student-contacts/internal/coordinator"
	"github.com/aanand-mishra/student-contacts/internal/fetch"
	"github.com/aanand-mishra/student-contacts/internal/logger"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

// errReported is returned after the failure has already been printed.
var errReported = errors.New("reported")

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	root := newRootCommand()
	if err := root.ExecuteContext(ctx); err != nil {
		if !errors.Is(err, errReported) {
			fmt.Fprintln(os.Stderr, err)
		}
		os.Exit(1)
	}
}

type rootOptions struct {
	configPath string
	noColor    bool
	verbose    bool
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "contacts",
		Short:         "Browse the student roster",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if opts.noColor {
				color.NoColor = true
			}
		},
	}
	cmd.CompletionOptions.DisableDefaultCmd = true
	cmd.PersistentFlags().StringVarP(&opts.configPath, "config", "c", "", "Path to the configuration YAML file (default $CONFIG_PATH)")
	cmd.PersistentFlags().BoolVar(&opts.noColor, "no-color", false, "Disable colored output")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Log requests and retries to stderr")

	cmd.AddCommand(
		newListCommand(opts),
		newShowCommand(opts),
		newBrowseCommand(opts),
	)
	return cmd
}

// open loads the config and starts a session against the configured backend.
func (o *rootOptions) open(cmd *cobra.Command) (*session, error) {
	path := o.configPath
	if path == "" {
		path = os.Getenv("CONFIG_PATH")
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	baseURL, err := cfg.BaseURL()
	if err != nil {
		return nil, err
	}

	log := logger.Discard()
	if o.verbose {
		log = logger.Setup(cfg.Env, cmd.ErrOrStderr())
	}

	ctrl := fetch.New(baseURL, cfg.Fetch.Timeout, log)
	policy := coordinator.Policy{
		MaxRetries:  cfg.Fetch.MaxRetries,
		BaseBackoff: cfg.Fetch.BaseBackoff,
	}
	return newSession(coordinator.New(ctrl, policy, log)), nil
}
