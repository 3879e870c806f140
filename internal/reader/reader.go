// Package reader parses .hic headers and walks the offset-bearing indexes.
// The header is consumed strictly in field order from a plain io.Reader so
// that only the preamble is ever read; the indexes are read through an
// io.ReaderAt at their recorded positions.
package reader

import (
	"bufio"
	"errors"
	"fmt"
	"io"

	"github.com/joshuapare/hicattr/internal/buf"
	"github.com/joshuapare/hicattr/internal/format"
)

// Options controls header parsing.
type Options struct {
	// ParseTrailer walks the chromosome dictionary and resolution arrays to
	// find where the header proper ends.
	ParseTrailer bool
	// AllowAnyMagic accepts files whose signature is not format.Magic.
	AllowAnyMagic bool
	// MaxStringLen overrides format.MaxStringLen when positive.
	MaxStringLen int
}

// decoder reads fields sequentially and tracks the absolute offset.
type decoder struct {
	br      *bufio.Reader
	off     int64
	maxStr  int
	scratch [8]byte
}

func newDecoder(r io.Reader, base int64, maxStr int) *decoder {
	if maxStr <= 0 {
		maxStr = format.MaxStringLen
	}
	return &decoder{br: bufio.NewReader(r), off: base, maxStr: maxStr}
}

func (d *decoder) fail(field string, at int64, err error) error {
	if errors.Is(err, io.EOF) || errors.Is(err, io.ErrUnexpectedEOF) {
		err = format.ErrTruncated
	}
	if errors.Is(err, format.ErrTruncated) || errors.Is(err, format.ErrStringTooLong) ||
		errors.Is(err, format.ErrNegativeCount) || errors.Is(err, format.ErrBadMagic) {
		return &format.FormatError{Field: field, Offset: at, Cause: err}
	}
	return &format.IOError{Op: "read", Field: field, Offset: at, Cause: err}
}

// cstring reads a null-terminated string and consumes the terminator.
func (d *decoder) cstring(field string) (string, error) {
	start := d.off
	var out []byte
	for {
		frag, err := d.br.ReadSlice(0)
		d.off += int64(len(frag))
		if len(out)+len(frag) > d.maxStr+1 {
			return "", d.fail(field, start, format.ErrStringTooLong)
		}
		switch {
		case err == nil:
			out = append(out, frag[:len(frag)-1]...)
			return string(out), nil
		case errors.Is(err, bufio.ErrBufferFull):
			out = append(out, frag...)
		default:
			return "", d.fail(field, start, err)
		}
	}
}

func (d *decoder) fixed(field string, width int) (int64, error) {
	start := d.off
	b := d.scratch[:width]
	n, err := io.ReadFull(d.br, b)
	d.off += int64(n)
	if err != nil {
		return 0, d.fail(field, start, err)
	}
	return buf.Decode(b, width), nil
}

func (d *decoder) i32(field string) (int32, error) {
	v, err := d.fixed(field, format.Int32Size)
	return int32(v), err
}

func (d *decoder) i64(field string) (int64, error) {
	return d.fixed(field, format.Int64Size)
}

func (d *decoder) count(field string) (int32, error) {
	at := d.off
	n, err := d.i32(field)
	if err != nil {
		return 0, err
	}
	if n < 0 {
		return 0, d.fail(field, at, fmt.Errorf("%w: %d", format.ErrNegativeCount, n))
	}
	return n, nil
}

func (d *decoder) skip(field string, n int64) error {
	start := d.off
	got, err := d.br.Discard(int(n))
	d.off += int64(got)
	if err != nil {
		return d.fail(field, start, err)
	}
	return nil
}

// ReadHeader parses the header from the start of r.
func ReadHeader(r io.Reader, opts Options) (*format.Header, error) {
	d := newDecoder(r, 0, opts.MaxStringLen)
	h := &format.Header{Fields: make(map[format.FieldName]int64, 4)}

	var err error
	if h.Magic, err = d.cstring("magic"); err != nil {
		return nil, err
	}
	if !opts.AllowAnyMagic && h.Magic != format.Magic {
		return nil, &format.FormatError{
			Field: "magic", Offset: 0,
			Cause: fmt.Errorf("%w: got %q", format.ErrBadMagic, h.Magic),
		}
	}
	if h.Version, err = d.i32("version"); err != nil {
		return nil, err
	}

	h.Fields[format.FieldFooterPosition] = d.off
	if h.FooterPosition, err = d.i64(string(format.FieldFooterPosition)); err != nil {
		return nil, err
	}
	if h.GenomeID, err = d.cstring("genomeID"); err != nil {
		return nil, err
	}

	if h.HasNormVectorIndex() {
		h.Fields[format.FieldNormVectorIndexPosition] = d.off
		if h.NormVectorIndexPosition, err = d.i64(string(format.FieldNormVectorIndexPosition)); err != nil {
			return nil, err
		}
		h.Fields[format.FieldNormVectorIndexLength] = d.off
		if h.NormVectorIndexLength, err = d.i64(string(format.FieldNormVectorIndexLength)); err != nil {
			return nil, err
		}
	}

	h.Fields[format.FieldAttributeCount] = d.off
	n, err := d.count(string(format.FieldAttributeCount))
	if err != nil {
		return nil, err
	}
	h.AttributesStart = d.off
	h.Attributes = make([]format.Attribute, 0, min(int(n), 1024))
	for i := range int(n) {
		key, err := d.cstring(fmt.Sprintf("attribute[%d].key", i))
		if err != nil {
			return nil, err
		}
		value, err := d.cstring(fmt.Sprintf("attribute[%d].value", i))
		if err != nil {
			return nil, err
		}
		h.Attributes = append(h.Attributes, format.Attribute{Key: key, Value: value})
	}
	h.AttributesEnd = d.off
	h.TrailerEnd = d.off

	if opts.ParseTrailer {
		if err := readTrailer(d, h); err != nil {
			return nil, err
		}
	}
	return h, nil
}

// readTrailer walks the chromosome dictionary and resolution arrays without
// keeping their contents.
func readTrailer(d *decoder, h *format.Header) error {
	var err error
	if h.ChromosomeCount, err = d.count("chromosomeCount"); err != nil {
		return err
	}
	lenWidth := int64(format.ChromosomeLengthWidth(h.Version))
	for i := range int(h.ChromosomeCount) {
		if _, err := d.cstring(fmt.Sprintf("chromosome[%d].name", i)); err != nil {
			return err
		}
		if err := d.skip(fmt.Sprintf("chromosome[%d].length", i), lenWidth); err != nil {
			return err
		}
	}
	if h.BpResolutions, err = d.count("bpResolutionCount"); err != nil {
		return err
	}
	if err := d.skip("bpResolutions", int64(h.BpResolutions)*format.Int32Size); err != nil {
		return err
	}
	if h.FragResolutions, err = d.count("fragResolutionCount"); err != nil {
		return err
	}
	if err := d.skip("fragResolutions", int64(h.FragResolutions)*format.Int32Size); err != nil {
		return err
	}
	h.TrailerEnd = d.off
	h.TrailerParsed = true
	return nil
}
