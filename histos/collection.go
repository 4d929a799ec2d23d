// Package histos keeps histograms filled by an analysis run.
package histos

import (
	"go-hep.org/x/hep/hbook"

	"makejets/event"
	"makejets/jets"
)

// Names of histograms as they appear in output file.
const (
	NJets       = "njets"
	JetPt       = "jet_pt"
	JetEta      = "jet_eta"
	JetPhi      = "jet_phi"
	JetE        = "jet_e"
	PartonPt    = "parton_pt"
	PartonEta   = "parton_eta"
	MatchDR     = "match_dr"
	ResponsePt  = "response_pt"
	ResponseE   = "response_e"
	PartonJetPt = "parton_jet_pt"
)

type h1def struct {
	name, title string
	bins        int
	low, high   float64
}

var h1defs = []h1def{
	{NJets, "number of jets", 20, -0.5, 19.5},
	{JetPt, "jet p_{T} [GeV]", 100, 0, 500},
	{JetEta, "jet #eta", 60, -3, 3},
	{JetPhi, "jet #phi", 64, -3.2, 3.2},
	{JetE, "jet E [GeV]", 100, 0, 1000},
	{PartonPt, "parton p_{T} [GeV]", 100, 0, 500},
	{PartonEta, "parton #eta", 60, -3, 3},
	{MatchDR, "#DeltaR(parton, jet)", 50, 0, 0.5},
	{ResponsePt, "p_{T}^{jet} / p_{T}^{parton}", 100, 0, 2},
	{ResponseE, "E^{jet} / E^{parton}", 100, 0, 2},
}

// Collection is the fixed set of histograms of a run. It is owned by a
// single run and not safe for concurrent use.
type Collection struct {
	h1    map[string]*hbook.H1D
	order []string
	ptPt  *hbook.H2D
}

func New() *Collection {
	c := &Collection{h1: make(map[string]*hbook.H1D, len(h1defs))}
	for _, d := range h1defs {
		h := hbook.NewH1D(d.bins, d.low, d.high)
		h.Annotation()["name"] = d.name
		h.Annotation()["title"] = d.title
		c.h1[d.name] = h
		c.order = append(c.order, d.name)
	}
	c.ptPt = hbook.NewH2D(50, 0, 500, 50, 0, 500)
	c.ptPt.Annotation()["name"] = PartonJetPt
	c.ptPt.Annotation()["title"] = "parton p_{T} vs jet p_{T} [GeV]"
	return c
}

// H1D returns histogram by name or nil.
func (c *Collection) H1D(name string) *hbook.H1D {
	return c.h1[name]
}

// H2D returns the only 2D histogram: parton pT (x) vs jet pT (y) of matched pairs.
func (c *Collection) H2D() *hbook.H2D {
	return c.ptPt
}

// Fill accounts for a single accepted event.
func (c *Collection) Fill(js []jets.Jet, partons []event.Particle, pairs []jets.Pair) {
	c.h1[NJets].Fill(float64(len(js)), 1)
	for i := range js {
		p := &js[i].P4
		c.h1[JetPt].Fill(p.Pt(), 1)
		c.h1[JetEta].Fill(p.Eta(), 1)
		c.h1[JetPhi].Fill(p.Phi(), 1)
		c.h1[JetE].Fill(p.E(), 1)
	}
	for i := range partons {
		p := &partons[i].P4
		c.h1[PartonPt].Fill(p.Pt(), 1)
		c.h1[PartonEta].Fill(p.Eta(), 1)
	}
	for _, pair := range pairs {
		parton, jet := &partons[pair.Parton].P4, &js[pair.Jet].P4
		c.h1[MatchDR].Fill(pair.DeltaR, 1)
		if pt := parton.Pt(); pt > 0 {
			c.h1[ResponsePt].Fill(jet.Pt()/pt, 1)
		}
		if e := parton.E(); e > 0 {
			c.h1[ResponseE].Fill(jet.E()/e, 1)
		}
		c.ptPt.Fill(parton.Pt(), jet.Pt(), 1)
	}
}
