package event

import (
	"fmt"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rtree"
	"go.uber.org/multierr"
)

// Writer stores events into a new ROOT file using layout Reader expects.
type Writer struct {
	f   *groot.File
	w   rtree.Writer
	rec *record
}

// Create truncates path and starts event tree in it.
func Create(path, treeName string) (*Writer, error) {
	f, err := groot.Create(path)
	if err != nil {
		return nil, fmt.Errorf("unable to create %s: %w", path, err)
	}

	// tree writer keeps pointers into the record
	rec := new(record)
	w, err := rtree.NewWriter(f, treeName, rec.writeVars())
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("unable to create tree %q: %w", treeName, err)
	}
	return &Writer{f: f, w: w, rec: rec}, nil
}

func (w *Writer) Write(evt *Event) error {
	w.rec.fill(evt)
	if _, err := w.w.Write(); err != nil {
		return fmt.Errorf("unable to write event %d: %w", evt.Number, err)
	}
	return nil
}

// Close flushes the tree and closes the file.
func (w *Writer) Close() (err error) {
	if er := w.w.Close(); er != nil {
		err = multierr.Append(err, fmt.Errorf("unable to close tree: %w", er))
	}
	if er := w.f.Close(); er != nil {
		err = multierr.Append(err, fmt.Errorf("unable to close file: %w", er))
	}
	return err
}

func (r *record) writeVars() []rtree.WriteVar {
	vars := []rtree.WriteVar{
		{Name: "run", Value: &r.Run},
		{Name: "evt", Value: &r.Evt},
	}
	for _, c := range r.collections() {
		count := "n" + c.prefix
		vars = append(vars,
			rtree.WriteVar{Name: count, Value: &c.cols.N},
			rtree.WriteVar{Name: c.prefix + "_px", Value: &c.cols.Px, Count: count},
			rtree.WriteVar{Name: c.prefix + "_py", Value: &c.cols.Py, Count: count},
			rtree.WriteVar{Name: c.prefix + "_pz", Value: &c.cols.Pz, Count: count},
			rtree.WriteVar{Name: c.prefix + "_e", Value: &c.cols.E, Count: count},
		)
	}
	return append(vars, rtree.WriteVar{Name: "parton_pdg", Value: &r.PDG, Count: "nparton"})
}
