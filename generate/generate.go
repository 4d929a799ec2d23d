// Package generate produces toy event files usable as analysis input.
package generate

import (
	"context"
	"fmt"
	"math"
	"math/rand/v2"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"gonum.org/v1/gonum/stat/distuv"

	"makejets/event"
)

// Options control toy event content. Non-positive counts, pT and scales are
// replaced with defaults, zero resolution, inefficiency and soft activity are
// kept as is.
type Options struct {
	Events int64
	Seed   uint64

	// mean number of hard partons, at least one parton is always produced
	MeanPartons float64
	// partons get PtMin plus exponentially distributed pT with this mean
	PtMin   float64
	PtScale float64
	EtaMax  float64

	// relative energy resolution and loss probability of pf particles
	Resolution   float64
	Inefficiency float64

	// soft particles not related to partons, added to every event
	MeanSoft float64
}

func DefaultOptions() Options {
	return Options{
		Events:       1000,
		Seed:         1,
		MeanPartons:  3,
		PtMin:        20,
		PtScale:      60,
		EtaMax:       2.5,
		Resolution:   0.1,
		Inefficiency: 0.05,
		MeanSoft:     10,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.Events <= 0 {
		o.Events = def.Events
	}
	if o.MeanPartons <= 0 {
		o.MeanPartons = def.MeanPartons
	}
	if o.PtMin <= 0 {
		o.PtMin = def.PtMin
	}
	if o.PtScale <= 0 {
		o.PtScale = def.PtScale
	}
	if o.EtaMax <= 0 {
		o.EtaMax = def.EtaMax
	}
	if o.Resolution < 0 {
		o.Resolution = def.Resolution
	}
	if o.Inefficiency < 0 || o.Inefficiency >= 1 {
		o.Inefficiency = def.Inefficiency
	}
	if o.MeanSoft < 0 {
		o.MeanSoft = def.MeanSoft
	}
	return o
}

var partonIDs = []int32{1, -1, 2, -2, 3, -3, 4, -4, 5, -5, 21}

type generator struct {
	opts Options
	rnd  *rand.Rand

	partons distuv.Poisson
	soft    distuv.Poisson
	pt      distuv.Exponential
	softPt  distuv.Exponential
	eta     distuv.Uniform
	softEta distuv.Uniform
	phi     distuv.Uniform
	spread  distuv.Normal
	smear   distuv.Normal
}

func newGenerator(opts Options) *generator {
	src := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	return &generator{
		opts:    opts,
		rnd:     src,
		partons: distuv.Poisson{Lambda: opts.MeanPartons, Src: src},
		soft:    distuv.Poisson{Lambda: max(opts.MeanSoft, 1e-9), Src: src},
		pt:      distuv.Exponential{Rate: 1 / opts.PtScale, Src: src},
		softPt:  distuv.Exponential{Rate: 1, Src: src},
		eta:     distuv.Uniform{Min: -opts.EtaMax, Max: opts.EtaMax, Src: src},
		softEta: distuv.Uniform{Min: -4, Max: 4, Src: src},
		phi:     distuv.Uniform{Min: -math.Pi, Max: math.Pi, Src: src},
		spread:  distuv.Normal{Mu: 0, Sigma: 0.05, Src: src},
		smear:   distuv.Normal{Mu: 1, Sigma: opts.Resolution, Src: src},
	}
}

func massless(pt, eta, phi float64, pdg int32) event.Particle {
	px, py, pz := pt*math.Cos(phi), pt*math.Sin(phi), pt*math.Sinh(eta)
	return event.NewParticle(px, py, pz, pt*math.Cosh(eta), pdg)
}

func (g *generator) event(run, number int64) *event.Event {
	evt := &event.Event{Run: run, Number: number}

	n := 1 + int(g.partons.Rand())
	for range n {
		pt, eta, phi := g.opts.PtMin+g.pt.Rand(), g.eta.Rand(), g.phi.Rand()
		evt.Partons = append(evt.Partons, massless(pt, eta, phi, partonIDs[g.rnd.IntN(len(partonIDs))]))

		// collinear fragments sharing parton pT
		k := 2 + g.rnd.IntN(6)
		fractions := make([]float64, k)
		var sum float64
		for i := range fractions {
			fractions[i] = 0.05 + g.rnd.Float64()
			sum += fractions[i]
		}
		for _, z := range fractions {
			evt.Gen = append(evt.Gen, massless(pt*z/sum, eta+g.spread.Rand(), phi+g.spread.Rand(), 0))
		}
	}
	for range int(g.soft.Rand()) {
		evt.Gen = append(evt.Gen, massless(0.5+g.softPt.Rand(), g.softEta.Rand(), g.phi.Rand(), 0))
	}

	for i := range evt.Gen {
		if g.rnd.Float64() < g.opts.Inefficiency {
			continue
		}
		p := &evt.Gen[i].P4
		s := max(g.smear.Rand(), 0.01)
		evt.PF = append(evt.PF, event.NewParticle(s*p.Px(), s*p.Py(), s*p.Pz(), s*p.E(), 0))
	}
	return evt
}

// Generate writes opts.Events toy events into a new file at path and returns
// number of events written. Output is fully determined by options.
func Generate(ctx context.Context, path, treeName string, opts Options, log *zap.Logger) (written int64, err error) {
	opts = opts.withDefaults()

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return 0, fmt.Errorf("unable to create output directory: %w", err)
	}
	w, err := event.Create(path, treeName)
	if err != nil {
		return 0, err
	}
	defer func() {
		if er := w.Close(); er != nil && err == nil {
			err = er
		}
	}()

	log.Debug("Generating events", zap.Int64("events", opts.Events), zap.Uint64("seed", opts.Seed), zap.String("tree", treeName))

	g := newGenerator(opts)
	for i := range opts.Events {
		if err := ctx.Err(); err != nil {
			return written, err
		}
		if err := w.Write(g.event(1, i+1)); err != nil {
			return written, err
		}
		written++
	}
	return written, nil
}
