package histos

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/gosimple/slug"
	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rhist"
	"go-hep.org/x/hep/hplot"
	"go.uber.org/multierr"
	"gonum.org/v1/plot/vg"
)

// WriteROOT stores all histograms into a new ROOT file, existing file is
// overwritten.
func (c *Collection) WriteROOT(path string) (err error) {
	f, err := groot.Create(path)
	if err != nil {
		return fmt.Errorf("unable to create %s: %w", path, err)
	}
	defer func() {
		if er := f.Close(); er != nil {
			err = multierr.Append(err, fmt.Errorf("unable to close %s: %w", path, er))
		}
	}()

	for _, name := range c.order {
		if err := f.Put(name, rhist.NewH1DFrom(c.h1[name])); err != nil {
			return fmt.Errorf("unable to store %s: %w", name, err)
		}
	}
	if err := f.Put(PartonJetPt, rhist.NewH2DFrom(c.ptPt)); err != nil {
		return fmt.Errorf("unable to store %s: %w", PartonJetPt, err)
	}
	return nil
}

// Plot renders every 1D histogram as PNG into dir and returns created files.
func (c *Collection) Plot(dir string, width, height vg.Length) ([]string, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("unable to create plots directory: %w", err)
	}

	files := make([]string, 0, len(c.order))
	for _, name := range c.order {
		h := c.h1[name]

		p := hplot.New()
		p.Title.Text = name
		if title, ok := h.Annotation()["title"].(string); ok {
			p.X.Label.Text = title
		}
		p.Y.Label.Text = "entries"
		p.Add(hplot.NewH1D(h))

		fname := filepath.Join(dir, slug.Make(name)+".png")
		if err := p.Save(width, height, fname); err != nil {
			return files, fmt.Errorf("unable to save plot %s: %w", fname, err)
		}
		files = append(files, fname)
	}
	return files, nil
}
