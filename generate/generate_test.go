package generate

import (
	"context"
	"errors"
	"math"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap/zaptest"

	"makejets/event"
)

func readAll(t *testing.T, path string) []*event.Event {
	t.Helper()
	r, err := event.Open(path, "events")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	var out []*event.Event
	if _, err := r.Scan(context.Background(), 0, func(evt *event.Event) error {
		out = append(out, evt)
		return nil
	}); err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	return out
}

// compare plain components, not four-vector internals
var flatten = cmp.Transformer("flatten", func(p event.Particle) [5]float64 {
	return [5]float64{p.P4.Px(), p.P4.Py(), p.P4.Pz(), p.P4.E(), float64(p.PDG)}
})

func TestGenerate_Deterministic(t *testing.T) {
	dir := t.TempDir()
	log := zaptest.NewLogger(t)
	opts := Options{Events: 25, Seed: 42}

	a, b, c := filepath.Join(dir, "a.root"), filepath.Join(dir, "b.root"), filepath.Join(dir, "c.root")
	for _, p := range []string{a, b} {
		n, err := Generate(context.Background(), p, "events", opts, log)
		if err != nil {
			t.Fatalf("Generate() error = %v", err)
		}
		if n != opts.Events {
			t.Fatalf("Generate() = %d events, want %d", n, opts.Events)
		}
	}
	opts.Seed = 43
	if _, err := Generate(context.Background(), c, "events", opts, log); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	first, second, other := readAll(t, a), readAll(t, b), readAll(t, c)
	if diff := cmp.Diff(first, second, flatten); diff != "" {
		t.Errorf("same seed produced different events (-first +second):\n%s", diff)
	}
	if cmp.Equal(first, other, flatten) {
		t.Error("different seeds produced identical events")
	}
}

func TestGenerate_Content(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "toy.root")
	if _, err := Generate(context.Background(), path, "events", Options{Events: 50, Seed: 7}, zaptest.NewLogger(t)); err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	opts := DefaultOptions()
	for i, evt := range readAll(t, path) {
		if evt.Number != int64(i+1) {
			t.Errorf("event %d has number %d", i, evt.Number)
		}
		if len(evt.Partons) == 0 {
			t.Errorf("event %d has no partons", evt.Number)
		}
		if len(evt.Gen) < 2*len(evt.Partons) {
			t.Errorf("event %d: %d gen particles for %d partons", evt.Number, len(evt.Gen), len(evt.Partons))
		}
		if len(evt.PF) > len(evt.Gen) {
			t.Errorf("event %d: more pf (%d) than gen (%d) particles", evt.Number, len(evt.PF), len(evt.Gen))
		}
		for k := range evt.Partons {
			p := &evt.Partons[k].P4
			if p.Pt() < opts.PtMin-1e-9 || math.Abs(p.Eta()) > opts.EtaMax+1e-9 {
				t.Errorf("event %d parton %d out of range: pt %v eta %v", evt.Number, k, p.Pt(), p.Eta())
			}
			if evt.Partons[k].PDG == 0 {
				t.Errorf("event %d parton %d has no pdg id", evt.Number, k)
			}
		}
	}
}

func TestGenerate_Cancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	n, err := Generate(ctx, filepath.Join(t.TempDir(), "toy.root"), "events", Options{Events: 10}, zaptest.NewLogger(t))
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Generate() error = %v, want %v", err, context.Canceled)
	}
	if n != 0 {
		t.Errorf("Generate() = %d events, want 0", n)
	}
}

func TestOptions_Defaults(t *testing.T) {
	got := Options{Events: 5, Seed: 9, PtMin: -1}.withDefaults()
	want := DefaultOptions()
	want.Events, want.Seed = 5, 9
	// zero smearing, loss and soft activity are valid settings
	want.Resolution, want.Inefficiency, want.MeanSoft = 0, 0, 0
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("withDefaults() mismatch (-want +got):\n%s", diff)
	}

	custom := Options{PtMin: 35, PtScale: 10, Resolution: 0.2}.withDefaults()
	if custom.PtMin != 35 || custom.PtScale != 10 || custom.Resolution != 0.2 {
		t.Errorf("withDefaults() overrode explicit values: %+v", custom)
	}
}
