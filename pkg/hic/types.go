package hic

import (
	"github.com/joshuapare/hicattr/internal/edit"
	"github.com/joshuapare/hicattr/internal/format"
	"github.com/joshuapare/hicattr/internal/patch"
)

// Attribute is a header key/value pair.
type Attribute = format.Attribute

// Header is a parsed .hic header with field offsets.
type Header = format.Header

// Well-known attribute keys.
const (
	SoftwareKey   = edit.SoftwareKey
	StatisticsKey = edit.StatisticsKey
	GraphsKey     = edit.GraphsKey
)

// Edit operations (re-exported for convenience).
type (
	Operation         = edit.Operation
	Plan              = edit.Plan
	Append            = edit.Append
	InsertAfterAnchor = edit.InsertAfterAnchor
	ReplaceNamed      = edit.ReplaceNamed
	Reorder           = edit.Reorder
	Source            = edit.Source
	ValueEncoding     = edit.ValueEncoding
)

// Error types (re-exported for errors.As).
type (
	FileOpenError        = format.FileOpenError
	FormatError          = format.FormatError
	AnchorNotFoundError  = format.AnchorNotFoundError
	InvalidArgumentError = format.InvalidArgumentError
	IOError              = format.IOError
)

// VerifyReport is the outcome of comparing an output with its input.
type VerifyReport = patch.Report

// ErrVerifyMismatch is returned when verification finds a difference.
var ErrVerifyMismatch = patch.ErrMismatch

// InsertStatisticsAndGraphs places statistics and graphs right after software.
func InsertStatisticsAndGraphs(statistics, graphs string) *InsertAfterAnchor {
	return edit.InsertStatisticsAndGraphs(statistics, graphs)
}

// Delta is the byte-size change between two attribute lists.
func Delta(orig, next []Attribute) int64 {
	return edit.Delta(orig, next)
}
