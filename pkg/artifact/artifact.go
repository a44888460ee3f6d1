// Package artifact holds the file plumbing shared by the manufacturing
// writers: output directory preparation, buffered file creation, and the
// per-run result that collects written paths and per-file failures.
package artifact

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// DirPerm is the mode used when creating an output directory
const DirPerm = 0o700

// FileError records a failure to produce one artifact
type FileError struct {
	Kind string // Artifact kind (e.g., "top copper", "drill")
	Path string
	Err  error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Kind, e.Path, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Result lists what one generation call produced
type Result struct {
	Files  []string     // Paths written successfully, in generation order
	Failed []*FileError // Artifacts that could not be written
}

// Add records the outcome of writing one artifact
func (r *Result) Add(kind, path string, err error) {
	if err != nil {
		r.Failed = append(r.Failed, &FileError{Kind: kind, Path: path, Err: err})
		return
	}
	r.Files = append(r.Files, path)
}

// Merge appends other's files and failures to r
func (r *Result) Merge(other *Result) {
	if other == nil {
		return
	}
	r.Files = append(r.Files, other.Files...)
	r.Failed = append(r.Failed, other.Failed...)
}

// Err joins all per-file failures, or returns nil if there were none
func (r *Result) Err() error {
	if r == nil || len(r.Failed) == 0 {
		return nil
	}
	errs := make([]error, len(r.Failed))
	for i, f := range r.Failed {
		errs[i] = f
	}
	return errors.Join(errs...)
}

// EnsureDir creates dir if it does not exist. Failure is only logged; the
// writers report any resulting problem when they open their files.
func EnsureDir(dir string, logger zerolog.Logger) {
	if _, err := os.Stat(dir); err == nil {
		return
	}
	if err := os.MkdirAll(dir, DirPerm); err != nil {
		logger.Warn().Err(err).Str("dir", dir).Msg("could not create output directory")
	}
}

// Path joins the output directory with "<base><suffix>.<ext>"
func Path(dir, base, suffix, ext string) string {
	return filepath.Join(dir, base+suffix+"."+ext)
}

// WriteFile creates path, hands a buffered writer to fn, then flushes and
// closes the file. The file is closed on every path out of WriteFile, and
// removed again if anything after its creation failed.
func WriteFile(path string, fn func(w *bufio.Writer) error) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
		if err != nil {
			os.Remove(path)
		}
	}()

	w := bufio.NewWriter(f)
	if err := fn(w); err != nil {
		return err
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("failed to flush file: %w", err)
	}
	return nil
}
