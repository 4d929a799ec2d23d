package event

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"makejets/config"
)

func sampleEvents() []*Event {
	return []*Event{
		{
			Run: 1, Number: 10,
			Partons: []Particle{NewParticle(50, 0, 10, 51, 5), NewParticle(-40, 5, -3, 40.5, -5)},
			PF:      []Particle{NewParticle(30, 1, 6, 30.6, 0), NewParticle(20, -1, 4, 20.4, 0)},
			Gen:     []Particle{NewParticle(31, 1, 6, 31.6, 0), NewParticle(19, -1, 4, 19.4, 0), NewParticle(-39, 5, -3, 39.5, 0)},
		},
		{
			// empty collections must survive too
			Run: 1, Number: 11,
		},
		{
			Run: 2, Number: 12,
			Partons: []Particle{NewParticle(0, 70, 0, 70, 21)},
			Gen:     []Particle{NewParticle(0, 69, 1, 69.1, 0)},
		},
	}
}

func writeSample(t *testing.T, events []*Event) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "events.root")
	w, err := Create(path, "events")
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	for _, evt := range events {
		if err := w.Write(evt); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	return path
}

// normalize makes absent and empty collections equal for comparison.
var normalize = cmp.Transformer("normalize", func(ps []Particle) []Particle {
	if len(ps) == 0 {
		return nil
	}
	return ps
})

func TestRoundTrip(t *testing.T) {
	want := sampleEvents()
	path := writeSample(t, want)

	r, err := Open(path, "events")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	if r.Entries() != int64(len(want)) {
		t.Errorf("Entries() = %d, want %d", r.Entries(), len(want))
	}

	var got []*Event
	n, err := r.Scan(context.Background(), 0, func(evt *Event) error {
		got = append(got, evt)
		return nil
	})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if n != int64(len(want)) {
		t.Errorf("Scan() = %d events, want %d", n, len(want))
	}
	if diff := cmp.Diff(want, got, normalize); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestScan_Limit(t *testing.T) {
	path := writeSample(t, sampleEvents())
	r, err := Open(path, "events")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	var numbers []int64
	n, err := r.Scan(context.Background(), 2, func(evt *Event) error {
		numbers = append(numbers, evt.Number)
		return nil
	})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if n != 2 {
		t.Errorf("Scan() = %d, want 2", n)
	}
	if diff := cmp.Diff([]int64{10, 11}, numbers); diff != "" {
		t.Errorf("events mismatch (-want +got):\n%s", diff)
	}
}

func TestScan_StopsOnError(t *testing.T) {
	path := writeSample(t, sampleEvents())
	r, err := Open(path, "events")
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	defer r.Close()

	stop := errors.New("stop")
	_, err = r.Scan(context.Background(), 0, func(evt *Event) error {
		return stop
	})
	if !errors.Is(err, stop) {
		t.Errorf("Scan() error = %v, want %v", err, stop)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := r.Scan(ctx, 0, func(*Event) error { return nil }); !errors.Is(err, context.Canceled) {
		t.Errorf("Scan() with cancelled context error = %v", err)
	}
}

func TestOpen_Errors(t *testing.T) {
	dir := t.TempDir()

	text := filepath.Join(dir, "events.root")
	if err := os.WriteFile(text, []byte("1 2 3 4\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(text, "events"); !errors.Is(err, ErrNotROOT) {
		t.Errorf("Open(text) error = %v, want ErrNotROOT", err)
	}

	if _, err := Open(filepath.Join(dir, "absent.root"), "events"); err == nil {
		t.Error("Open(absent) expected error")
	}

	path := writeSample(t, sampleEvents())
	if _, err := Open(path, "nosuchtree"); !errors.Is(err, ErrNoTree) {
		t.Errorf("Open(wrong tree) error = %v, want ErrNoTree", err)
	}
}

func TestIsROOT(t *testing.T) {
	dir := t.TempDir()
	tests := []struct {
		name    string
		content []byte
		want    bool
	}{
		{"empty", nil, false},
		{"short", []byte("ro"), false},
		{"magic only", []byte("root"), true},
		{"text", []byte("# partonPt partonEta\n"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := filepath.Join(dir, tt.name)
			if err := os.WriteFile(path, tt.content, 0644); err != nil {
				t.Fatal(err)
			}
			got, err := IsROOT(path)
			if err != nil {
				t.Fatalf("IsROOT() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("IsROOT() = %v, want %v", got, tt.want)
			}
		})
	}

	got, err := IsROOT(writeSample(t, sampleEvents()))
	if err != nil || !got {
		t.Errorf("IsROOT(written file) = %v, %v", got, err)
	}
}

func TestMalformedColumns(t *testing.T) {
	c := columns{N: 2, Px: []float64{1}, Py: []float64{1}, Pz: []float64{1}, E: []float64{1}}
	if _, err := c.particles(nil); err == nil {
		t.Error("expected error for count mismatch")
	}
	c = columns{N: 1, Px: []float64{1}, Py: []float64{1}, Pz: []float64{1}, E: []float64{2}}
	if _, err := c.particles([]int32{1, 2}); err == nil {
		t.Error("expected error for pdg mismatch")
	}
}

func TestParticles(t *testing.T) {
	evt := sampleEvents()[0]
	if got := evt.Particles(config.CollectionGen); len(got) != 3 {
		t.Errorf("gen particles = %d, want 3", len(got))
	}
	if got := evt.Particles(config.CollectionPf); len(got) != 2 {
		t.Errorf("pf particles = %d, want 2", len(got))
	}
}
