package hic

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/joshuapare/hicattr/internal/format"
	"github.com/joshuapare/hicattr/internal/logger"
	"github.com/joshuapare/hicattr/internal/mmfile"
	"github.com/joshuapare/hicattr/internal/patch"
	"github.com/joshuapare/hicattr/internal/reader"
	"github.com/joshuapare/hicattr/internal/writer"
)

// EditResult summarizes a completed edit.
type EditResult struct {
	Output         string `json:"output"`
	Changed        int    `json:"changed"`
	Delta          int64  `json:"delta"`
	AttributeCount int    `json:"attributeCount"`
	FieldsPatched  int    `json:"fieldsPatched"`
	MasterEntries  int    `json:"masterEntries"`
	NormEntries    int    `json:"normVectorEntries"`
	BytesWritten   int64  `json:"bytesWritten"`
	PayloadBytes   int64  `json:"payloadBytes"`

	Attributes []Attribute   `json:"-"`
	Verify     *VerifyReport `json:"-"`
}

// sizedFile gives *os.File the Size method the rewriter expects.
type sizedFile struct {
	*os.File
	size int64
}

func (f *sizedFile) Size() int64 { return f.size }

func openSized(path string) (*sizedFile, os.FileInfo, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, &format.FileOpenError{Path: path, Op: "open", Cause: err}
	}
	info, err := f.Stat()
	if err != nil {
		f.Close()
		return nil, nil, &format.FileOpenError{Path: path, Op: "stat", Cause: err}
	}
	if !info.Mode().IsRegular() {
		f.Close()
		return nil, nil, &format.FileOpenError{Path: path, Op: "open", Cause: fmt.Errorf("not a regular file")}
	}
	return &sizedFile{File: f, size: info.Size()}, info, nil
}

// checkDistinct rejects an output that is, or resolves to, the input.
func checkDistinct(inPath string, in os.FileInfo, outPath string) error {
	if outPath == "" {
		return &format.InvalidArgumentError{Arg: "output", Message: "output path is required"}
	}
	absIn, err1 := filepath.Abs(inPath)
	absOut, err2 := filepath.Abs(outPath)
	if err1 == nil && err2 == nil && absIn == absOut {
		return &format.InvalidArgumentError{Arg: outPath, Message: "output must differ from input"}
	}
	if out, err := os.Stat(outPath); err == nil && os.SameFile(in, out) {
		return &format.InvalidArgumentError{Arg: outPath, Message: "output is the same file as input"}
	}
	return nil
}

// ReadHeader parses the header of the file at path.
func ReadHeader(path string, skipTrailer bool) (*Header, error) {
	f, _, err := openSized(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return reader.ReadHeader(io.NewSectionReader(f, 0, f.Size()), reader.Options{ParseTrailer: !skipTrailer})
}

// EditFile applies plan to the attributes of inPath and writes the result to
// outPath. Nothing is created at outPath unless every step succeeds.
func EditFile(inPath, outPath string, plan Plan, opts *EditOptions) (*EditResult, error) {
	o := opts.withDefaults()

	in, info, err := openSized(inPath)
	if err != nil {
		return nil, err
	}
	defer in.Close()
	if err := checkDistinct(inPath, info, outPath); err != nil {
		return nil, err
	}

	hdr, err := reader.ReadHeader(io.NewSectionReader(in, 0, in.Size()), reader.Options{
		ParseTrailer:  !o.SkipTrailer,
		AllowAnyMagic: o.AllowAnyMagic,
	})
	if err != nil {
		return nil, err
	}
	logger.Debug("read header",
		"version", hdr.Version, "attributes", len(hdr.Attributes),
		"attributesEnd", hdr.AttributesEnd, "trailerEnd", hdr.TrailerEnd)

	res, err := plan.Apply(hdr.Attributes)
	if err != nil {
		return nil, err
	}
	delta := Delta(hdr.Attributes, res.Attributes)

	set, err := patch.Build(in, hdr, delta)
	if err != nil {
		return nil, err
	}
	logger.Debug("patch plan", "delta", delta, "fields", len(set.Fields),
		"masterEntries", set.MasterEntries, "normEntries", set.NormEntries)

	out, err := writer.Create(outPath, info.Mode(), o.Sync)
	if err != nil {
		return nil, err
	}
	committed := false
	defer func() {
		if !committed {
			if err := out.Abort(); err != nil {
				logger.Warn("discard temp output", "path", out.TempPath(), "error", err)
			}
		}
	}()

	streamSet := set
	if o.TwoPass {
		streamSet = nil
	}
	rw := writer.NewRewriter(in, hdr, streamSet, o.BufferSize)
	stats, err := rw.WriteTo(out.File(), res.Attributes)
	rw.Close()
	if err != nil {
		return nil, err
	}

	if o.TwoPass {
		f, err := out.Reopen()
		if err != nil {
			return nil, err
		}
		if err := set.ApplyInPlace(f); err != nil {
			return nil, err
		}
	}
	if err := out.Commit(); err != nil {
		return nil, err
	}
	committed = true

	result := &EditResult{
		Output:         outPath,
		Changed:        res.Changed,
		Delta:          delta,
		AttributeCount: len(res.Attributes),
		FieldsPatched:  set.Changed(),
		MasterEntries:  set.MasterEntries,
		NormEntries:    set.NormEntries,
		BytesWritten:   stats.BytesWritten,
		PayloadBytes:   stats.PayloadBytes,
		Attributes:     res.Attributes,
	}
	logger.Info("edit complete", "output", outPath, "changed", result.Changed,
		"delta", delta, "bytes", stats.BytesWritten)

	if o.Verify {
		rep, err := VerifyFiles(inPath, outPath, o.BufferSize)
		result.Verify = rep
		if err != nil {
			return result, fmt.Errorf("verify %s: %w", outPath, err)
		}
	}
	return result, nil
}

// VerifyFiles checks that outPath is a correct attribute edit of inPath.
// Both files are memory-mapped for the comparison.
func VerifyFiles(inPath, outPath string, bufSize int) (*VerifyReport, error) {
	in, err := mmfile.Open(inPath)
	if err != nil {
		return nil, &format.FileOpenError{Path: inPath, Op: "map", Cause: err}
	}
	defer in.Close()
	out, err := mmfile.Open(outPath)
	if err != nil {
		return nil, &format.FileOpenError{Path: outPath, Op: "map", Cause: err}
	}
	defer out.Close()
	return patch.Verify(in, out, bufSize)
}
