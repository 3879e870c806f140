package patch

import (
	"fmt"
	"io"

	"github.com/joshuapare/hicattr/internal/buf"
	"github.com/joshuapare/hicattr/internal/format"
	"github.com/joshuapare/hicattr/internal/logger"
)

// ReadWriterAt is the random-access view of a finished output file.
type ReadWriterAt interface {
	io.ReaderAt
	io.WriterAt
}

// ApplyInPlace writes every field into out at its output location. Each field
// is read back first and must still hold its old value; this catches a file
// that was already patched or does not match the input the Set was built
// from. Fields are written strictly in patch order.
func (s *Set) ApplyInPlace(out ReadWriterAt) error {
	cur := make([]byte, format.Int64Size)
	for _, f := range s.Fields {
		at := s.OutputOffset(f)
		b := cur[:f.Width]
		if _, err := out.ReadAt(b, at); err != nil {
			return &format.IOError{Op: "read", Field: f.Name, Offset: at, Cause: err}
		}
		if got := buf.Decode(b, f.Width); got != f.Old {
			return &format.FormatError{
				Field:  f.Name,
				Offset: at,
				Cause:  fmt.Errorf("expected stored offset %d, found %d", f.Old, got),
			}
		}
		if f.New == f.Old {
			continue
		}
		if _, err := out.WriteAt(buf.Encode(f.New, f.Width), at); err != nil {
			return &format.IOError{Op: "write", Field: f.Name, Offset: at, Cause: err}
		}
		logger.Debug("patched field", "field", f.Name, "offset", at, "old", f.Old, "new", f.New)
	}
	return nil
}
