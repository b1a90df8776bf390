package fastaload

import (
	"io"

	"github.com/bitmark-inc/logger"

	"github.com/0xRadioAc7iv/go-fastaload/core"
	"github.com/0xRadioAc7iv/go-fastaload/internal"
)

type Option func(*internal.Config)

// WithStrategy selects "array" or "list" storage. Unknown names make New
// fail.
func WithStrategy(strategy string) Option {
	return func(c *internal.Config) {
		c.Strategy = core.Strategy(strategy)
	}
}

func WithRepeats(repeats int) Option {
	return func(c *internal.Config) {
		c.Repeats = repeats
	}
}

func WithInitialCapacity(capacity int) Option {
	return func(c *internal.Config) {
		c.InitialCapacity = capacity
	}
}

// WithMemoryLimit caps the bytes a single pass may reserve. 0 is unlimited.
func WithMemoryLimit(limit int64) Option {
	return func(c *internal.Config) {
		c.MemoryLimit = limit
	}
}

func WithVerify(verify bool) Option {
	return func(c *internal.Config) {
		c.Verify = verify
	}
}

// WithProgress prints a '.' to w every interval records and a line after
// each pass.
func WithProgress(w io.Writer, interval int) Option {
	return func(c *internal.Config) {
		c.Progress = w
		c.ProgressInterval = interval
	}
}

func WithLogger(log *logger.L) Option {
	return func(c *internal.Config) {
		c.Log = log
	}
}

// WithMetrics reports every pass to o.
func WithMetrics(o core.Observer) Option {
	return func(c *internal.Config) {
		c.Observer = o
	}
}

// WithKeepGoing continues with the remaining files after one fails.
func WithKeepGoing(keepGoing bool) Option {
	return func(c *internal.Config) {
		c.KeepGoing = keepGoing
	}
}

// WithOpener replaces the FASTA file opener.
func WithOpener(open core.Opener) Option {
	return func(c *internal.Config) {
		c.Opener = open
	}
}

// WithFileDone calls f after the passes over each file.
func WithFileDone(f func(summary core.Summary, err error)) Option {
	return func(c *internal.Config) {
		c.FileDone = f
	}
}
