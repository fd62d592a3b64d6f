// Package cli defines the root Cobra command and global flag/context setup.
package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/f9-o/nexusflow/internal/cli/commands"
	"github.com/f9-o/nexusflow/internal/core/config"
	"github.com/f9-o/nexusflow/internal/core/logger"
	"github.com/f9-o/nexusflow/internal/core/state"
	"github.com/f9-o/nexusflow/pkg/errs"
	"github.com/f9-o/nexusflow/pkg/pprint"
)

// globalFlags holds values bound to persistent global flags.
type globalFlags struct {
	configFile string
	debug      bool
	jsonOutput bool
}

// app owns the resources opened for a single CLI invocation.
type app struct {
	flags globalFlags
	rt    *commands.Runtime
}

// Execute runs the CLI with os.Args and exits with its status. Called by main().
// SIGINT/SIGTERM cancel the running command; checks not yet started are
// reported as cancelled.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := Run(ctx, os.Args[1:])
	stop()
	os.Exit(code)
}

// Run executes the CLI with args under ctx and returns the process exit
// status: 0 on success, 1 on any error or failed check.
func Run(ctx context.Context, args []string) int {
	a := &app{}
	root := a.rootCmd()
	root.SetArgs(args)

	err := root.ExecuteContext(ctx)
	a.close()
	if err != nil {
		pprint.Error("%s", err)
		if fe := errs.AsFlow(err); fe != nil && fe.Advice != "" {
			fmt.Fprintln(pprint.ErrOut, pprint.StyleMuted.Render("  "+fe.UserMessage()))
		}
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "nexusflow",
		Short:         "NexusFlow — run the flow and verify its contracts",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch cmd.Name() {
			case "version", "init", "help", "completion":
				return nil
			}
			return a.initRuntime(cmd)
		},
	}

	origHelp := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		pprint.PrintBanner(commands.Version, commands.BuildDate)
		origHelp(cmd, args)
	})

	root.PersistentFlags().StringVarP(&a.flags.configFile, "config", "c", "", "Path to nexusflow.yaml (defaults to auto-discovery)")
	root.PersistentFlags().BoolVar(&a.flags.debug, "debug", false, "Enable debug-level logging")
	root.PersistentFlags().BoolVar(&a.flags.jsonOutput, "json", false, "Output in machine-readable JSON")

	root.AddCommand(
		commands.NewInitCmd(),
		commands.NewRunCmd(),
		commands.NewCheckCmd(),
		commands.NewHistoryCmd(),
		commands.NewVersionCmd(),
	)
	return root
}

// initRuntime loads config, logger, and state before each command runs.
func (a *app) initRuntime(cmd *cobra.Command) error {
	cfg, err := config.Load(a.flags.configFile)
	if err != nil {
		return errs.Wrap(err, errs.ErrConfig, "config.load")
	}

	home := config.Home()
	if err := os.MkdirAll(home, 0750); err != nil {
		return errs.Wrap(err, errs.ErrInternal, "cli.home")
	}

	log := logger.Init(cfg.Log.Level, cfg.Log.Format, cfg.LogFile(), home, a.flags.debug)
	log.Debug("config loaded", "source", cfg.Source)

	dbPath := cfg.StatePath()
	if err := os.MkdirAll(filepath.Dir(dbPath), 0750); err != nil {
		_ = log.Close()
		return errs.Wrap(err, errs.ErrInternal, "cli.state_dir")
	}
	db, err := state.Open(dbPath)
	if err != nil {
		_ = log.Close()
		return err
	}

	a.rt = &commands.Runtime{
		Config: cfg,
		Log:    log,
		State:  db,
		Flags: commands.GlobalFlags{
			Debug:      a.flags.debug,
			JSONOutput: a.flags.jsonOutput,
		},
	}
	cmd.SetContext(commands.NewContext(cmd.Context(), a.rt))
	return nil
}

func (a *app) close() {
	if a.rt == nil {
		return
	}
	if a.rt.State != nil {
		_ = a.rt.State.Close()
	}
	if a.rt.Log != nil {
		_ = a.rt.Log.Close()
	}
	a.rt = nil
}
