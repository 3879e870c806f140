// Package writer emits the rewritten file. Output goes to a temp file in the
// destination directory and is renamed into place only after every byte,
// including two-pass patches, has been written.
package writer

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/joshuapare/hicattr/internal/format"
	"github.com/joshuapare/hicattr/internal/logger"
)

// Output is a pending destination file.
type Output struct {
	Path string

	tmpPath string
	f       *os.File
	sync    bool
	done    bool
}

// Create opens a temp file next to path. mode is applied to the final file.
func Create(path string, mode os.FileMode, sync bool) (*Output, error) {
	dir := filepath.Dir(path)
	f, err := os.CreateTemp(dir, ".hicattr-tmp-*")
	if err != nil {
		return nil, &format.FileOpenError{Path: path, Op: "create", Cause: err}
	}
	o := &Output{Path: path, tmpPath: f.Name(), f: f, sync: sync}
	if err := f.Chmod(mode.Perm()); err != nil {
		_ = o.Abort()
		return nil, &format.FileOpenError{Path: path, Op: "create", Cause: err}
	}
	logger.Debug("created temp output", "tmp", o.tmpPath, "dest", path)
	return o, nil
}

// File is the handle for the current phase.
func (o *Output) File() *os.File { return o.f }

// TempPath is where bytes are written until Commit.
func (o *Output) TempPath() string { return o.tmpPath }

// Reopen closes the write handle and reopens the temp file for random
// read-write access. The first phase's handle is fully closed first.
func (o *Output) Reopen() (*os.File, error) {
	if err := o.closeCurrent(); err != nil {
		return nil, err
	}
	f, err := os.OpenFile(o.tmpPath, os.O_RDWR, 0)
	if err != nil {
		return nil, &format.FileOpenError{Path: o.tmpPath, Op: "reopen", Cause: err}
	}
	o.f = f
	return f, nil
}

func (o *Output) closeCurrent() error {
	if o.f == nil {
		return nil
	}
	f := o.f
	o.f = nil
	if o.sync {
		if err := datasync(f); err != nil {
			_ = f.Close()
			return &format.IOError{Op: "sync", Field: "output", Cause: err}
		}
	}
	if err := f.Close(); err != nil {
		return &format.IOError{Op: "close", Field: "output", Cause: err}
	}
	return nil
}

// Commit flushes and closes the temp file and renames it onto Path.
func (o *Output) Commit() error {
	if o.done {
		return errors.New("writer: output already finalized")
	}
	if err := o.closeCurrent(); err != nil {
		return err
	}
	if err := os.Rename(o.tmpPath, o.Path); err != nil {
		_ = os.Remove(o.tmpPath)
		o.done = true
		return &format.FileOpenError{Path: o.Path, Op: "rename", Cause: err}
	}
	o.done = true
	if o.sync {
		if err := syncDir(filepath.Dir(o.Path)); err != nil {
			logger.Warn("directory sync failed", "dir", filepath.Dir(o.Path), "error", err)
		}
	}
	return nil
}

// Abort discards the temp file. It is a no-op after Commit.
func (o *Output) Abort() error {
	if o.done {
		return nil
	}
	o.done = true
	if o.f != nil {
		_ = o.f.Close()
		o.f = nil
	}
	if err := os.Remove(o.tmpPath); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("remove temp output: %w", err)
	}
	return nil
}

// syncDir fsyncs a directory so the rename survives a crash.
func syncDir(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return fmt.Errorf("opening directory: %w", err)
	}
	defer d.Close()
	return d.Sync()
}
