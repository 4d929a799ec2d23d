package histos

import (
	"fmt"
	"sort"

	"github.com/maruel/natural"
	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/hbook/rootcnv"
)

// Stat is a short description of a stored histogram.
type Stat struct {
	Name    string
	Class   string
	Entries int64
	Mean    float64
	StdDev  float64
}

// Inspect reads histograms back from ROOT file, ordered by name. Means are
// only computed for 1D histograms.
func Inspect(path string) ([]Stat, error) {
	f, err := groot.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}
	defer f.Close()

	keys := f.Keys()
	names := make([]string, 0, len(keys))
	for _, k := range keys {
		names = append(names, k.Name())
	}
	sort.Sort(natural.StringSlice(names))

	stats := make([]Stat, 0, len(names))
	for _, name := range names {
		obj, err := f.Get(name)
		if err != nil {
			return nil, fmt.Errorf("unable to read %s: %w", name, err)
		}
		st := Stat{Name: name, Class: obj.Class()}
		switch h := obj.(type) {
		case rhist.H1:
			hh := rootcnv.H1D(h)
			st.Entries, st.Mean, st.StdDev = hh.Entries(), hh.XMean(), hh.XStdDev()
		case rhist.H2:
			st.Entries = rootcnv.H2D(h).Entries()
		default:
			// not ours, but still worth listing
		}
		stats = append(stats, st)
	}
	return stats, nil
}
