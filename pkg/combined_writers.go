package pkg

import (
	"io"

	"go.uber.org/multierr"
)

// CombinedWriter fans every write out to all of its writers, e.g. stdout and
// the rotated log file. A failing writer does not stop the others.
type CombinedWriter struct {
	writers []io.Writer
}

func NewCombinedWriter(writers ...io.Writer) *CombinedWriter {
	return &CombinedWriter{writers: writers}
}

// Write returns the most bytes any single writer accepted, along with
// the combined errors of the writers that failed.
func (cw *CombinedWriter) Write(p []byte) (int, error) {
	var (
		written int
		errs    error
	)
	for _, w := range cw.writers {
		n, err := w.Write(p)
		if err != nil {
			errs = multierr.Append(errs, err)
		}
		if n > written {
			written = n
		}
	}
	return written, errs
}
