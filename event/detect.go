package event

import (
	"bytes"
	"errors"
	"io"
	"os"

	"github.com/h2non/filetype"
)

// ROOT files always start with this magic.
var rootMagic = []byte("root")

var rootType = filetype.NewType("root", "application/x-root")

func init() {
	filetype.AddMatcher(rootType, func(buf []byte) bool {
		return bytes.HasPrefix(buf, rootMagic)
	})
}

// IsROOT checks file content (not name) to see if it could be opened as ROOT
// file.
func IsROOT(path string) (bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return false, err
	}
	defer f.Close()

	// the same header size filetype uses for its own matchers
	head := make([]byte, 262)
	n, err := io.ReadFull(f, head)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return false, err
	}
	return filetype.Is(head[:n], rootType.Extension), nil
}
