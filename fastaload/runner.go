package fastaload

import (
	"errors"

	"github.com/0xRadioAc7iv/go-fastaload/core"
	"github.com/0xRadioAc7iv/go-fastaload/internal"
	"github.com/0xRadioAc7iv/go-fastaload/internal/fasta"
	"github.com/0xRadioAc7iv/go-fastaload/internal/fault"
)

type Runner struct {
	config  *internal.Config
	harness *core.Harness
}

func New(opts ...Option) (*Runner, error) {
	cfg := internal.DefaultConfig()

	for _, opt := range opts {
		opt(cfg)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Opener == nil {
		cfg.Opener = OpenFASTA
	}

	return &Runner{
		config:  cfg,
		harness: cfg.Harness(),
	}, nil
}

// OpenFASTA opens a FASTA file, plain or gzipped, or standard input for "-".
func OpenFASTA(path string) (core.Source, error) {
	r, err := fasta.Open(path)
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Strategy returns the resolved storage strategy.
func (r *Runner) Strategy() core.Strategy {
	return r.harness.Strategy
}

// Run makes the configured number of passes over each path in turn. It
// stops at the first file that fails unless keep going was set, in which
// case the errors of all failed files are joined. The summary of a failed
// file holds the passes made before the failure.
func (r *Runner) Run(paths ...string) ([]core.Summary, error) {
	if len(paths) == 0 {
		return nil, fault.ErrNoFiles
	}

	summaries := make([]core.Summary, 0, len(paths))
	errs := []error{}

	for _, path := range paths {
		summary, err := r.harness.Repeat(path, r.config.Repeats)
		summaries = append(summaries, summary)

		if r.config.FileDone != nil {
			r.config.FileDone(summary, err)
		}

		if err != nil {
			if !r.config.KeepGoing {
				return summaries, err
			}
			errs = append(errs, err)
		}
	}

	return summaries, errors.Join(errs...)
}
