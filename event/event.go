// Package event describes event records and their ROOT tree layout.
//
// Input tree keeps one entry per event. Scalar branches "run" and "evt"
// identify the event, every collection X (parton, pf, gen) is stored as count
// branch "nX" and variable length branches "X_px", "X_py", "X_pz", "X_e".
// Partons also have "parton_pdg".
package event

import (
	"errors"
	"fmt"

	"go-hep.org/x/hep/fmom"

	"makejets/config"
)

var (
	ErrNotROOT = errors.New("not a ROOT file")
	ErrNoTree  = errors.New("tree not found")
)

// Particle is a four-momentum with PDG id, id is only meaningful for partons.
type Particle struct {
	P4  fmom.PxPyPzE
	PDG int32
}

func NewParticle(px, py, pz, e float64, pdg int32) Particle {
	return Particle{P4: fmom.NewPxPyPzE(px, py, pz, e), PDG: pdg}
}

// Event is a single record of the input file.
type Event struct {
	Run    int64
	Number int64

	Partons []Particle
	PF      []Particle
	Gen     []Particle
}

// Particles returns requested collection of final state particles.
func (e *Event) Particles(c config.Collection) []Particle {
	switch c {
	case config.CollectionGen:
		return e.Gen
	default:
		return e.PF
	}
}

// columns holds flat representation of one collection as it is kept in the tree.
type columns struct {
	N  int32
	Px []float64
	Py []float64
	Pz []float64
	E  []float64
}

// record is what a single tree entry is read into or written from.
type record struct {
	Run     int64
	Evt     int64
	Partons columns
	PDG     []int32
	PF      columns
	Gen     columns
}

type namedColumns struct {
	prefix string
	cols   *columns
}

func (r *record) collections() []namedColumns {
	return []namedColumns{
		{"parton", &r.Partons},
		{"pf", &r.PF},
		{"gen", &r.Gen},
	}
}

func (c *columns) particles(pdg []int32) ([]Particle, error) {
	n := int(c.N)
	if len(c.Px) != n || len(c.Py) != n || len(c.Pz) != n || len(c.E) != n || (pdg != nil && len(pdg) != n) {
		return nil, fmt.Errorf("malformed collection: count %d, px %d, py %d, pz %d, e %d", n, len(c.Px), len(c.Py), len(c.Pz), len(c.E))
	}
	out := make([]Particle, n)
	for i := range n {
		var id int32
		if pdg != nil {
			id = pdg[i]
		}
		out[i] = NewParticle(c.Px[i], c.Py[i], c.Pz[i], c.E[i], id)
	}
	return out, nil
}

func (c *columns) set(ps []Particle) {
	c.N = int32(len(ps))
	c.Px, c.Py, c.Pz, c.E = c.Px[:0], c.Py[:0], c.Pz[:0], c.E[:0]
	for i := range ps {
		p := &ps[i].P4
		c.Px = append(c.Px, p.Px())
		c.Py = append(c.Py, p.Py())
		c.Pz = append(c.Pz, p.Pz())
		c.E = append(c.E, p.E())
	}
}

func (r *record) event() (*Event, error) {
	evt := &Event{Run: r.Run, Number: r.Evt}

	var err error
	if evt.Partons, err = r.Partons.particles(r.PDG); err != nil {
		return nil, fmt.Errorf("event %d partons: %w", r.Evt, err)
	}
	if evt.PF, err = r.PF.particles(nil); err != nil {
		return nil, fmt.Errorf("event %d pf: %w", r.Evt, err)
	}
	if evt.Gen, err = r.Gen.particles(nil); err != nil {
		return nil, fmt.Errorf("event %d gen: %w", r.Evt, err)
	}
	return evt, nil
}

func (r *record) fill(evt *Event) {
	r.Run, r.Evt = evt.Run, evt.Number
	r.Partons.set(evt.Partons)
	r.PDG = r.PDG[:0]
	for i := range evt.Partons {
		r.PDG = append(r.PDG, evt.Partons[i].PDG)
	}
	r.PF.set(evt.PF)
	r.Gen.set(evt.Gen)
}
