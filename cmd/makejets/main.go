package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"runtime"
	"runtime/debug"
	"strings"
	"syscall"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/multierr"
	"go.uber.org/zap"

	"makejets/analysis"
	"makejets/config"
	"makejets/generate"
	"makejets/misc"
	"makejets/state"
)

// initializeAppContext prepares application context before command execution but
// after command line has been parsed
func initializeAppContext(ctx context.Context, cmd *cli.Command) (context.Context, error) {
	var err error

	if cmd.NArg() == 0 {
		// nothing to do, just return
		return ctx, nil
	}

	env := state.EnvFromContext(ctx)

	configFile := cmd.String("config")
	if env.Cfg, err = config.LoadConfiguration(configFile); err != nil {
		return ctx, fmt.Errorf("unable to prepare configuration: %w", err)
	}
	if cmd.Bool("debug") {
		if env.Rpt, err = env.Cfg.Reporting.Prepare(); err != nil {
			return ctx, fmt.Errorf("unable to prepare debug reporter: %w", err)
		}
		if data, err := config.Dump(env.Cfg); err == nil {
			name := "config/default.yaml"
			if len(configFile) > 0 {
				name = fmt.Sprintf("config/%s", filepath.Base(configFile))
			}
			env.Rpt.StoreData(name, data)
		}
	}
	if env.Log, err = env.Cfg.Logging.Prepare(env.Rpt); err != nil {
		return ctx, fmt.Errorf("unable to prepare logs: %w", err)
	}
	env.RedirectStdLog()

	env.Log.Debug("Program started", zap.Strings("args", os.Args), zap.String("ver", misc.GetVersion()), zap.String("runtime", runtime.Version()), zap.String("hash", misc.GetGitHash()))

	if env.Rpt != nil {
		env.Log.Info("Creating debug report", zap.String("location", env.Rpt.Name()))
	}
	if len(configFile) == 0 {
		env.Log.Debug("Using defaults (no configuration file)")
	}
	return ctx, nil
}

func destroyAppContext(ctx context.Context, cmd *cli.Command) (err error) {
	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Debug("Program ended", zap.Duration("elapsed", env.Uptime()), zap.Strings("parsed args", cmd.Args().Slice()))
	}

	// close logging
	env.RestoreStdLog()

	// log is synced now and result can be used in report if necessary, errors
	// must be reported directly to stderr from now on
	if env.Rpt != nil {
		if er := env.Rpt.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close debug report: %w", er))
		}
	}
	// reporting is closed now - remove empty panic file if any
	if env.Cfg != nil && len(env.Cfg.Logging.FileLogger.Destination) > 0 {
		debug.SetCrashOutput(nil, debug.CrashOptions{})
		fname := env.Cfg.Logging.PanicLogName()
		if fi, er := os.Stat(fname); er == nil && fi.Size() == 0 {
			if er := os.Remove(fname); er != nil {
				err = multierr.Append(err, fmt.Errorf("unable to remove empty panic log file '%s': %w", fname, er))
			}
		}
	}
	return
}

// Subcommands return regular errors, they are logged once here and program
// exits with non zero code.
var errWasHandled bool

// this is called before appContext is destroyed, so we have a chance to
// properly log any error from subcommand
func exitErrHandler(ctx context.Context, _ *cli.Command, err error) {

	env := state.EnvFromContext(ctx)

	if env.Log != nil {
		env.Log.Error("Program ended with error", zap.Error(err))
		errWasHandled = true
	}
}

func usageErrorHandler(_ context.Context, _ *cli.Command, err error, _ bool) error {
	// do nothing special, error is reported either by exitErrHandler or on
	// exit directly to stderr.
	return err
}

func subcommandNotFoundHandler(ctx context.Context, _ *cli.Command, name string) {
	state.EnvFromContext(ctx).Log.Warn("Unknown command, nothing to do", zap.String("command", name))
}

func main() {

	// interrupt stops processing between events, outputs of interrupted run
	// are incomplete
	ctx, stop := signal.NotifyContext(state.ContextWithEnv(context.Background()), os.Interrupt, syscall.SIGTERM)

	app := &cli.Command{
		Name:            misc.GetAppName(),
		Usage:           "clusters particles into jets, matches them to partons and produces histograms and info tables",
		Version:         misc.GetVersion() + " (" + runtime.Version() + ") : " + misc.GetGitHash(),
		HideHelpCommand: true,
		Before:          initializeAppContext,
		After:           destroyAppContext,
		OnUsageError:    usageErrorHandler,
		ExitErrHandler:  exitErrHandler,
		CommandNotFound: subcommandNotFoundHandler,
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, DefaultText: "", Usage: "load configuration from `FILE` (YAML)"},
			&cli.BoolFlag{Name: "debug", Aliases: []string{"d"}, Usage: "changes program behavior to help troubleshooting, produces report archive"},
		},
		Commands: []*cli.Command{
			{
				Name:         "run",
				Usage:        "Processes single input file producing histograms and info table",
				OnUsageError: usageErrorHandler,
				Action:       analysis.Run,
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "job", Aliases: []string{"j"},
						Usage: "take collection and cuts from configured batch job `NAME`"},
					&cli.StringFlag{Name: "collection",
						Usage: "particle `COLLECTION` to cluster (supported: " + strings.Join(config.CollectionNames(), ", ") + ")"},
					&cli.BoolFlag{Name: "cuts", Usage: "apply kinematic cuts and matching requirement from configuration"},
					&cli.StringFlag{Name: "plots", Usage: "also render histograms as PNG files into `DIRECTORY`"},
				},
				ArgsUsage: "INPUT HISTOS INFO",
				CustomHelpTemplate: fmt.Sprintf(`%s
INPUT:
    ROOT file with event tree (see "analysis.tree_name" in configuration)

HISTOS:
    ROOT file to write histograms to, overwritten if exists

INFO:
    text file to write matched parton and jet kinematics to, overwritten if exists

All three arguments are required. Missing output directories are created.
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "batch",
				Usage:        "Runs jobs defined in configuration",
				OnUsageError: usageErrorHandler,
				Action:       analysis.Batch,
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "parallel", Aliases: []string{"p"}, Usage: "run up to `N` jobs at the same time (overrides configuration)"},
				},
				ArgsUsage: "[JOB...]",
				CustomHelpTemplate: fmt.Sprintf(`%s
JOB:
    name of the job from "batch.jobs" in configuration, if absent - all configured jobs

Output names of jobs are templates, {{.Job}}, {{.Input}} (input file name
without extension) and {{.Collection}} are available.
`, cli.CommandHelpTemplate),
			},
			{
				Name:         "generate",
				Usage:        "Writes toy event file usable as input",
				OnUsageError: usageErrorHandler,
				Action:       generate.Run,
				Flags: []cli.Flag{
					&cli.Int64Flag{Name: "events", Aliases: []string{"n"}, Value: generate.DefaultOptions().Events, Usage: "number of events to generate"},
					&cli.Uint64Flag{Name: "seed", Aliases: []string{"s"}, Value: generate.DefaultOptions().Seed, Usage: "random generator seed"},
				},
				ArgsUsage: "OUTPUT",
			},
			{
				Name:         "inspect",
				Usage:        "Lists histograms stored in output file",
				OnUsageError: usageErrorHandler,
				Action:       inspectHistograms,
				ArgsUsage:    "HISTOS",
			},
			{
				Name:  "dumpconfig",
				Usage: "Dumps either default or actual configuration (YAML)",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "default", Usage: "output default embedded configuration"},
				},
				OnUsageError: usageErrorHandler,
				Action:       outputConfiguration,
				ArgsUsage:    "DESTINATION",
				CustomHelpTemplate: fmt.Sprintf(`%s

DESTINATION:
    file name to write configuration to, if absent - STDOUT

Produces file with actual "active" configuration values which is composition of
default values and values specified in configuration file. To see default
configuration embedded into the program use --default flag.
`, cli.CommandHelpTemplate),
			},
		},
	}

	var err error
	// NOTE: os.Exit is called at the end of main to set exit code, make sure
	// there are no other deffered functions after that
	defer func() {
		stop()
		if err != nil {
			// It may happen that log is either not set yet (argument parsing) or already closed,
			// report errors to stderr directly
			if !errWasHandled {
				fmt.Fprintf(os.Stderr, "Program ended with error: %v\n", err)
			}
			os.Exit(1)
		}
	}()
	err = app.Run(ctx, os.Args)
}
