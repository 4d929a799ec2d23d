// Package jets clusters particles into jets and relates jets to partons.
package jets

import (
	"fmt"
	"sort"

	"go-hep.org/x/hep/fastjet"
	"go-hep.org/x/hep/fmom"

	"makejets/config"
	"makejets/event"
)

// Jet is a clustered jet, four-momentum is the E-scheme sum of constituents.
type Jet struct {
	P4 fmom.PxPyPzE
}

// Definition selects clustering algorithm and its parameters.
type Definition struct {
	Algorithm config.Algorithm
	Radius    float64
	PtMin     float64
}

func DefinitionFrom(cfg *config.JetsConfig) Definition {
	return Definition{Algorithm: cfg.Algorithm, Radius: cfg.Radius, PtMin: cfg.PtMin}
}

func (d Definition) fastjet() (fastjet.JetDefinition, error) {
	var alg fastjet.JetAlgorithm
	switch d.Algorithm {
	case config.AlgorithmAntikt:
		alg = fastjet.AntiKtAlgorithm
	case config.AlgorithmKt:
		alg = fastjet.KtAlgorithm
	case config.AlgorithmCambridge:
		alg = fastjet.CambridgeAlgorithm
	default:
		return fastjet.JetDefinition{}, fmt.Errorf("unsupported clustering algorithm %s", d.Algorithm)
	}
	return fastjet.NewJetDefinition(alg, d.Radius, fastjet.EScheme, fastjet.BestStrategy), nil
}

// Cluster runs inclusive clustering over particles and returns jets above
// PtMin ordered by decreasing pT.
func Cluster(particles []event.Particle, def Definition) ([]Jet, error) {
	if len(particles) == 0 {
		return nil, nil
	}

	jd, err := def.fastjet()
	if err != nil {
		return nil, err
	}

	input := make([]fastjet.Jet, 0, len(particles))
	for i := range particles {
		p := &particles[i].P4
		input = append(input, fastjet.NewJet(p.Px(), p.Py(), p.Pz(), p.E()))
	}

	cs, err := fastjet.NewClusterSequence(input, jd)
	if err != nil {
		return nil, fmt.Errorf("unable to cluster %d particles: %w", len(particles), err)
	}
	inclusive, err := cs.InclusiveJets(def.PtMin)
	if err != nil {
		return nil, fmt.Errorf("unable to get inclusive jets: %w", err)
	}

	out := make([]Jet, 0, len(inclusive))
	for i := range inclusive {
		j := &inclusive[i]
		out = append(out, Jet{P4: fmom.NewPxPyPzE(j.Px(), j.Py(), j.Pz(), j.E())})
	}
	sort.SliceStable(out, func(i, k int) bool {
		return out[i].P4.Pt() > out[k].P4.Pt()
	})
	return out, nil
}
