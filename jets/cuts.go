package jets

import (
	"math"

	"go-hep.org/x/hep/fmom"

	"makejets/config"
	"makejets/event"
)

// Cut is a simple kinematic acceptance. Zero AbsEtaMax means no eta cut.
type Cut struct {
	PtMin     float64
	AbsEtaMax float64
}

// Cuts groups selections applied to jets and partons of an event.
type Cuts struct {
	Jet               Cut
	Parton            Cut
	RequireAllMatched bool
}

func CutsFrom(cfg *config.CutsConfig) Cuts {
	return Cuts{
		Jet:               Cut{PtMin: cfg.JetPtMin, AbsEtaMax: cfg.JetEtaMax},
		Parton:            Cut{PtMin: cfg.PartonPtMin, AbsEtaMax: cfg.PartonEtaMax},
		RequireAllMatched: cfg.RequireAllMatched,
	}
}

func (c Cut) Pass(p *fmom.PxPyPzE) bool {
	if p.Pt() < c.PtMin {
		return false
	}
	return c.AbsEtaMax == 0 || math.Abs(p.Eta()) <= c.AbsEtaMax
}

// SelectJets keeps order of accepted jets.
func SelectJets(js []Jet, c Cut) []Jet {
	out := make([]Jet, 0, len(js))
	for i := range js {
		if c.Pass(&js[i].P4) {
			out = append(out, js[i])
		}
	}
	return out
}

// SelectPartons keeps order of accepted partons.
func SelectPartons(ps []event.Particle, c Cut) []event.Particle {
	out := make([]event.Particle, 0, len(ps))
	for i := range ps {
		if c.Pass(&ps[i].P4) {
			out = append(out, ps[i])
		}
	}
	return out
}
