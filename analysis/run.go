package analysis

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	cli "github.com/urfave/cli/v3"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"makejets/config"
	"makejets/state"
)

// Run is the action of "run" command: a single job with input and outputs
// given on command line.
func Run(ctx context.Context, cmd *cli.Command) (err error) {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("run")

	if cmd.Args().Len() != 3 {
		return fmt.Errorf("%w: expected <input.root> <output_histos.root> <output_info.txt>, got %d argument(s)", ErrArgs, cmd.Args().Len())
	}

	job := Job{
		Name:       "run",
		Collection: env.Cfg.Jets.Collection,
		Cuts:       cmd.Bool("cuts"),
	}
	// settings of configured job are used as defaults
	if name := cmd.String("job"); len(name) > 0 {
		jc, ok := env.Cfg.Job(name)
		if !ok {
			return fmt.Errorf("%w: unknown job %q", ErrArgs, name)
		}
		job.Name, job.Collection = jc.Name, jc.Collection
		if !cmd.IsSet("cuts") {
			job.Cuts = jc.Cuts
		}
	}
	if cmd.IsSet("collection") {
		if job.Collection, err = config.ParseCollection(cmd.String("collection")); err != nil {
			return fmt.Errorf("%w: %w", ErrArgs, err)
		}
	}

	for i, p := range []*string{&job.Input, &job.Histos, &job.Info} {
		if *p, err = filepath.Abs(cmd.Args().Get(i)); err != nil {
			return err
		}
	}
	if plots := cmd.String("plots"); len(plots) > 0 {
		if job.Plots, err = filepath.Abs(plots); err != nil {
			return err
		}
	}

	log.Info("Processing starting", zap.String("input", job.Input), zap.String("histos", job.Histos), zap.String("info", job.Info))
	defer func(start time.Time) {
		log.Info("Processing completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	sum, err := Process(ctx, job, log)
	if err != nil {
		return err
	}
	log.Info("Run summary", zap.Object("summary", sum))
	return nil
}

// Batch is the action of "batch" command: configured jobs selected by name
// (all of them when none is given).
func Batch(ctx context.Context, cmd *cli.Command) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	env := state.EnvFromContext(ctx)
	log := env.Log.Named("batch")

	jobs, err := selectJobs(env.Cfg, cmd.Args().Slice())
	if err != nil {
		return err
	}

	parallel := env.Cfg.Batch.Parallel
	if cmd.IsSet("parallel") {
		parallel = int(cmd.Int("parallel"))
	}

	log.Info("Batch starting", zap.Int("jobs", len(jobs)), zap.Int("parallel", parallel))
	defer func(start time.Time) {
		log.Info("Batch completed", zap.Duration("elapsed", time.Since(start)))
	}(time.Now())

	sums, err := processBatch(ctx, jobs, parallel, log)
	for _, sum := range sums {
		if sum != nil {
			log.Info("Job summary", zap.Object("summary", sum))
		}
	}
	return err
}

// processBatch runs independent jobs with at most parallel of them at the
// same time. First failure cancels jobs which did not finish yet. Summaries
// are returned in job order, failed jobs have nil summary.
func processBatch(ctx context.Context, jobs []Job, parallel int, log *zap.Logger) ([]*Summary, error) {
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(max(parallel, 1))

	sums := make([]*Summary, len(jobs))
	for i, job := range jobs {
		g.Go(func() error {
			jlog := log.With(zap.String("job", job.Name))
			jlog.Debug("Job starting", zap.String("input", job.Input))

			sum, err := Process(gctx, job, jlog)
			if err != nil {
				jlog.Error("Job failed", zap.Error(err))
				return fmt.Errorf("job %s: %w", job.Name, err)
			}
			sums[i] = sum
			return nil
		})
	}
	return sums, g.Wait()
}
