package jets

import (
	"go-hep.org/x/hep/fmom"
)

// DeltaR is the distance in (eta, phi) plane, phi difference is wrapped.
func DeltaR(a, b *fmom.PxPyPzE) float64 {
	return fmom.DeltaR(a, b)
}

// Values returns (pT, eta, phi, E) in the order info files keep them.
func Values(p *fmom.PxPyPzE) [4]float64 {
	return [4]float64{p.Pt(), p.Eta(), p.Phi(), p.E()}
}
