package event

import (
	"context"
	"fmt"

	"go-hep.org/x/hep/groot"
	"go-hep.org/x/hep/groot/rtree"
)

// Reader iterates over event records stored in ROOT tree.
type Reader struct {
	f    *groot.File
	tree rtree.Tree
	rec  record
}

// Open checks that path is a ROOT file and locates event tree in it.
func Open(path, treeName string) (*Reader, error) {
	ok, err := IsROOT(path)
	if err != nil {
		return nil, fmt.Errorf("unable to check input file: %w", err)
	}
	if !ok {
		return nil, fmt.Errorf("%s: %w", path, ErrNotROOT)
	}

	f, err := groot.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable to open %s: %w", path, err)
	}

	obj, err := f.Get(treeName)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("%w: %q in %s: %w", ErrNoTree, treeName, path, err)
	}
	tree, ok := obj.(rtree.Tree)
	if !ok {
		f.Close()
		return nil, fmt.Errorf("%w: %q in %s is %s", ErrNoTree, treeName, path, obj.Class())
	}
	return &Reader{f: f, tree: tree}, nil
}

// Entries returns number of events in the tree.
func (r *Reader) Entries() int64 {
	return r.tree.Entries()
}

// Scan calls fn for every event in file order, stopping after limit events
// when limit is positive. It returns number of events handed to fn.
func (r *Reader) Scan(ctx context.Context, limit int64, fn func(*Event) error) (int64, error) {
	var opts []rtree.ReadOption
	if limit > 0 && limit < r.tree.Entries() {
		opts = append(opts, rtree.WithRange(0, limit))
	}

	rr, err := rtree.NewReader(r.tree, r.rec.readVars(), opts...)
	if err != nil {
		return 0, fmt.Errorf("unable to prepare tree reader: %w", err)
	}
	defer rr.Close()

	var count int64
	err = rr.Read(func(rctx rtree.RCtx) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		evt, err := r.rec.event()
		if err != nil {
			return fmt.Errorf("entry %d: %w", rctx.Entry, err)
		}
		count++
		return fn(evt)
	})
	return count, err
}

func (r *Reader) Close() error {
	return r.f.Close()
}

func (r *record) readVars() []rtree.ReadVar {
	vars := []rtree.ReadVar{
		{Name: "run", Value: &r.Run},
		{Name: "evt", Value: &r.Evt},
	}
	for _, c := range r.collections() {
		vars = append(vars,
			rtree.ReadVar{Name: "n" + c.prefix, Value: &c.cols.N},
			rtree.ReadVar{Name: c.prefix + "_px", Value: &c.cols.Px},
			rtree.ReadVar{Name: c.prefix + "_py", Value: &c.cols.Py},
			rtree.ReadVar{Name: c.prefix + "_pz", Value: &c.cols.Pz},
			rtree.ReadVar{Name: c.prefix + "_e", Value: &c.cols.E},
		)
	}
	return append(vars, rtree.ReadVar{Name: "parton_pdg", Value: &r.PDG})
}
