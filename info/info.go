// Package info writes and reads plain text files with matched parton and jet
// kinematics, one pair per line.
//
// File starts with two comment lines: run description and column names. Rows
// carry 8 whitespace separated numbers, parton (pt eta phi E) followed by jet
// (pt eta phi E). Run counters are appended as a trailing comment line.
package info

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"go.uber.org/multierr"
)

// Columns is the second header line without leading comment marker.
const Columns = "partonPt partonEta partonPhi partonE jetPt jetEta jetPhi jetE"

const comment = '#'

type Header struct {
	RunID uuid.UUID
	Job   string
	Input string
}

type Footer struct {
	Events   int64
	Accepted int64
	Pairs    int64
}

// Row is a single matched pair, each side is [pt, eta, phi, E].
type Row struct {
	Parton [4]float64
	Jet    [4]float64
}

// Writer streams rows into a freshly created file.
type Writer struct {
	f    *os.File
	w    *bufio.Writer
	buf  []byte
	rows int64
}

// Create truncates or creates file at path (making missing directories) and
// writes header lines.
func Create(path string, h Header) (*Writer, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("unable to create directory for %s: %w", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0644)
	if err != nil {
		return nil, fmt.Errorf("unable to create %s: %w", path, err)
	}

	w := &Writer{f: f, w: bufio.NewWriter(f)}
	fmt.Fprintf(w.w, "%c run %s job %s input %s\n", comment, h.RunID, h.Job, h.Input)
	fmt.Fprintf(w.w, "%c %s\n", comment, Columns)
	return w, nil
}

func (w *Writer) Add(r Row) error {
	w.buf = w.buf[:0]
	for i, v := range append(r.Parton[:], r.Jet[:]...) {
		if i > 0 {
			w.buf = append(w.buf, ' ')
		}
		w.buf = strconv.AppendFloat(w.buf, v, 'g', -1, 64)
	}
	w.buf = append(w.buf, '\n')
	if _, err := w.w.Write(w.buf); err != nil {
		return fmt.Errorf("unable to write row: %w", err)
	}
	w.rows++
	return nil
}

// Rows returns number of rows added so far.
func (w *Writer) Rows() int64 {
	return w.rows
}

// Close writes footer and closes the file.
func (w *Writer) Close(ft Footer) (err error) {
	fmt.Fprintf(w.w, "%c events %d accepted %d pairs %d\n", comment, ft.Events, ft.Accepted, ft.Pairs)
	err = w.w.Flush()
	return multierr.Append(err, w.f.Close())
}

// ErrMalformed is returned by Read for rows which are not 8 numbers.
var ErrMalformed = errors.New("malformed info row")

// Read loads all rows of an info file, comment and empty lines are skipped.
func Read(path string) ([]Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var rows []Row
	sc := bufio.NewScanner(f)
	for line := 1; sc.Scan(); line++ {
		text := sc.Bytes()
		if len(text) == 0 || text[0] == comment {
			continue
		}
		r, err := parseRow(text)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, line, err)
		}
		rows = append(rows, r)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("unable to read %s: %w", path, err)
	}
	return rows, nil
}

func parseRow(text []byte) (Row, error) {
	var (
		r      Row
		fields = strings.Fields(string(text))
	)
	if len(fields) != 8 {
		return r, fmt.Errorf("%w: %d columns", ErrMalformed, len(fields))
	}
	for i, s := range fields {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return r, fmt.Errorf("%w: %w", ErrMalformed, err)
		}
		if i < 4 {
			r.Parton[i] = v
		} else {
			r.Jet[i-4] = v
		}
	}
	return r, nil
}
