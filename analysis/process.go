// Package analysis drives analysis runs: reads events, builds and matches
// jets, fills histograms and writes outputs.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"go.uber.org/multierr"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot/vg"

	"makejets/event"
	"makejets/histos"
	"makejets/info"
	"makejets/jets"
	"makejets/state"
)

// ErrArgs is returned when command line arguments or requested job names
// cannot be used.
var ErrArgs = errors.New("bad arguments")

// Summary has counters of a finished run.
type Summary struct {
	RunID uuid.UUID
	Job   string

	Events   int64
	Accepted int64
	Jets     int64
	Partons  int64
	Matched  int64
	Pairs    int64

	// Efficiency is the fraction of selected partons matched to a jet over
	// all events read, rejected included.
	Efficiency     float64
	ResponseMean   float64
	ResponseStdDev float64

	Plots   []string
	Elapsed time.Duration
}

func (s *Summary) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("run_id", s.RunID.String())
	enc.AddString("job", s.Job)
	enc.AddInt64("events", s.Events)
	enc.AddInt64("accepted", s.Accepted)
	enc.AddInt64("jets", s.Jets)
	enc.AddInt64("partons", s.Partons)
	enc.AddInt64("pairs", s.Pairs)
	enc.AddFloat64("efficiency", s.Efficiency)
	enc.AddFloat64("response_mean", s.ResponseMean)
	enc.AddFloat64("response_stddev", s.ResponseStdDev)
	if len(s.Plots) > 0 {
		enc.AddInt("plots", len(s.Plots))
	}
	enc.AddDuration("elapsed", s.Elapsed)
	return nil
}

// Process runs job to completion. Outputs are created from scratch, existing
// files are overwritten.
func Process(ctx context.Context, job Job, log *zap.Logger) (_ *Summary, err error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	env := state.EnvFromContext(ctx)
	cfg := env.Cfg

	start := time.Now()
	sum := &Summary{RunID: uuid.New(), Job: job.Name}

	def := jets.DefinitionFrom(&cfg.Jets)
	var cuts jets.Cuts
	if job.Cuts {
		cuts = jets.CutsFrom(&cfg.Cuts)
	}

	r, err := event.Open(job.Input, cfg.Analysis.TreeName)
	if err != nil {
		return nil, err
	}
	defer r.Close()

	log.Debug("Input opened", zap.String("input", job.Input), zap.Int64("entries", r.Entries()),
		zap.Stringer("collection", job.Collection), zap.Bool("cuts", job.Cuts))

	if err := os.MkdirAll(filepath.Dir(job.Histos), 0755); err != nil {
		return nil, fmt.Errorf("unable to create output directory: %w", err)
	}

	iw, err := info.Create(job.Info, info.Header{RunID: sum.RunID, Job: job.Name, Input: filepath.Base(job.Input)})
	if err != nil {
		return nil, err
	}
	infoClosed := false
	defer func() {
		if !infoClosed {
			err = multierr.Append(err, iw.Close(info.Footer{Events: sum.Events, Accepted: sum.Accepted, Pairs: sum.Pairs}))
		}
	}()

	hc := histos.New()
	var responses []float64

	sum.Events, err = r.Scan(ctx, cfg.Analysis.MaxEvents, func(evt *event.Event) error {
		all, err := jets.Cluster(evt.Particles(job.Collection), def)
		if err != nil {
			return fmt.Errorf("event %d: %w", evt.Number, err)
		}
		js := jets.SelectJets(all, cuts.Jet)
		partons := jets.SelectPartons(evt.Partons, cuts.Parton)
		pairs := jets.Match(partons, js, cfg.Matching.MaxDeltaR)

		sum.Partons += int64(len(partons))
		sum.Matched += int64(len(pairs))
		if cuts.RequireAllMatched && len(pairs) != len(partons) {
			log.Debug("Event rejected", zap.Int64("event", evt.Number), zap.Int("partons", len(partons)), zap.Int("matched", len(pairs)))
			return nil
		}

		sum.Accepted++
		sum.Jets += int64(len(js))
		hc.Fill(js, partons, pairs)
		for _, p := range pairs {
			parton, jet := &partons[p.Parton].P4, &js[p.Jet].P4
			if err := iw.Add(info.Row{Parton: jets.Values(parton), Jet: jets.Values(jet)}); err != nil {
				return err
			}
			if pt := parton.Pt(); pt > 0 {
				responses = append(responses, jet.Pt()/pt)
			}
		}
		sum.Pairs += int64(len(pairs))
		return nil
	})
	if err != nil {
		return nil, err
	}

	infoClosed = true
	if err := iw.Close(info.Footer{Events: sum.Events, Accepted: sum.Accepted, Pairs: sum.Pairs}); err != nil {
		return nil, fmt.Errorf("unable to finish %s: %w", job.Info, err)
	}
	env.StoreResult(job.Name, job.Info)

	if err := hc.WriteROOT(job.Histos); err != nil {
		return nil, err
	}
	env.StoreResult(job.Name, job.Histos)

	if len(job.Plots) > 0 {
		width, height := vg.Length(cfg.Plots.Width)*vg.Inch, vg.Length(cfg.Plots.Height)*vg.Inch
		if sum.Plots, err = hc.Plot(job.Plots, width, height); err != nil {
			return nil, err
		}
		for _, p := range sum.Plots {
			env.StoreResult(job.Name, p)
		}
	}

	if sum.Partons > 0 {
		sum.Efficiency = float64(sum.Matched) / float64(sum.Partons)
	}
	switch len(responses) {
	case 0:
	case 1:
		sum.ResponseMean = responses[0]
	default:
		sum.ResponseMean, sum.ResponseStdDev = stat.MeanStdDev(responses, nil)
	}
	sum.Elapsed = time.Since(start)
	return sum, nil
}
