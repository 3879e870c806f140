package edit

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"github.com/joshuapare/hicattr/internal/format"
)

// FilePrefix marks a value argument that names a file. A doubled prefix
// escapes a literal value starting with '@'.
const FilePrefix = "@"

// ValueEncoding selects how value files are decoded.
type ValueEncoding string

const (
	// EncodingRaw passes file bytes through unchanged.
	EncodingRaw ValueEncoding = "raw"
	// EncodingLatin1 decodes ISO-8859-1 text to UTF-8.
	EncodingLatin1 ValueEncoding = "latin1"
	// EncodingWindows1252 decodes Windows-1252 text to UTF-8.
	EncodingWindows1252 ValueEncoding = "windows1252"
)

// ParseValueEncoding validates an encoding name. Empty means raw.
func ParseValueEncoding(s string) (ValueEncoding, error) {
	switch ValueEncoding(strings.ToLower(s)) {
	case "", EncodingRaw:
		return EncodingRaw, nil
	case EncodingLatin1, "iso-8859-1":
		return EncodingLatin1, nil
	case EncodingWindows1252, "cp1252":
		return EncodingWindows1252, nil
	default:
		return "", &format.InvalidArgumentError{Arg: s, Message: "unknown value encoding (raw, latin1, windows1252)"}
	}
}

func (e ValueEncoding) decoder() *encoding.Decoder {
	switch e {
	case EncodingLatin1:
		return charmap.ISO8859_1.NewDecoder()
	case EncodingWindows1252:
		return charmap.Windows1252.NewDecoder()
	default:
		return nil
	}
}

// Source resolves value arguments.
type Source struct {
	Encoding ValueEncoding
}

// Resolve returns the attribute value for arg: the arg itself, or the
// contents of the file it names when prefixed with FilePrefix.
func (s Source) Resolve(arg string) (string, error) {
	switch {
	case strings.HasPrefix(arg, FilePrefix+FilePrefix):
		return arg[len(FilePrefix):], nil
	case strings.HasPrefix(arg, FilePrefix):
		return s.ReadFile(arg[len(FilePrefix):])
	default:
		return arg, nil
	}
}

// ReadFile reads a value file as raw bytes and strips exactly one trailing
// NUL byte if present.
func (s Source) ReadFile(path string) (string, error) {
	if path == "" {
		return "", &format.InvalidArgumentError{Arg: FilePrefix, Message: "missing value file path"}
	}
	f, err := os.Open(path)
	if err != nil {
		return "", &format.FileOpenError{Path: path, Op: "open", Cause: err}
	}
	defer f.Close()

	var r io.Reader = f
	if dec := s.Encoding.decoder(); dec != nil {
		r = transform.NewReader(f, dec)
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return "", &format.IOError{Op: "read", Field: "value file " + path, Cause: err}
	}
	data = bytes.TrimSuffix(data, []byte{0})
	if i := bytes.IndexByte(data, 0); i >= 0 {
		return "", &format.InvalidArgumentError{
			Arg:     path,
			Message: fmt.Sprintf("value file contains a NUL byte at offset %d", i),
		}
	}
	return string(data), nil
}

// ParsePairs turns alternating key/value arguments into attributes,
// resolving each value through s.
func (s Source) ParsePairs(args []string) ([]format.Attribute, error) {
	if len(args) == 0 || len(args)%2 != 0 {
		return nil, &format.InvalidArgumentError{
			Message: fmt.Sprintf("expected key/value pairs, got %d argument(s)", len(args)),
		}
	}
	pairs := make([]format.Attribute, 0, len(args)/2)
	for i := 0; i < len(args); i += 2 {
		if args[i] == "" {
			return nil, &format.InvalidArgumentError{Arg: "key", Message: fmt.Sprintf("key %d is empty", i/2+1)}
		}
		v, err := s.Resolve(args[i+1])
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, format.Attribute{Key: args[i], Value: v})
	}
	return pairs, nil
}
