package generate

import (
	"context"
	"errors"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"

	"makejets/state"
)

// Run is the action of "generate" command.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("generate")

	dst := cmd.Args().Get(0)
	if len(dst) == 0 {
		return errors.New("no output file has been specified")
	}
	if dst, err = filepath.Abs(dst); err != nil {
		return err
	}
	if cmd.Args().Len() > 1 {
		log.Warn("Malformed command line, too many destinations", zap.Strings("ignoring", cmd.Args().Slice()[1:]))
	}

	opts := DefaultOptions()
	if cmd.IsSet("events") {
		opts.Events = cmd.Int64("events")
	}
	if cmd.IsSet("seed") {
		opts.Seed = cmd.Uint64("seed")
	}

	log.Info("Generation starting", zap.String("destination", dst), zap.Int64("events", opts.Events), zap.Uint64("seed", opts.Seed))
	defer func(start time.Time) {
		log.Info("Generation completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	n, err := Generate(ctx, dst, env.Cfg.Analysis.TreeName, opts, log)
	if err != nil {
		return err
	}
	env.StoreResult("generate", dst)
	log.Debug("Events written", zap.Int64("count", n))
	return nil
}
