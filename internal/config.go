package internal

import (
	"io"

	"github.com/bitmark-inc/logger"

	"github.com/0xRadioAc7iv/go-fastaload/core"
	"github.com/0xRadioAc7iv/go-fastaload/internal/fault"
)

// Config holds everything a runner needs to load a set of files.
type Config struct {
	Strategy         core.Strategy
	Repeats          int
	InitialCapacity  int
	MemoryLimit      int64
	Verify           bool
	KeepGoing        bool
	Progress         io.Writer
	ProgressInterval int
	Opener           core.Opener
	Observer         core.Observer
	Log              *logger.L
	FileDone         func(summary core.Summary, err error)
}

const DEFAULT_STRATEGY = core.ArrayStrategy
const DEFAULT_REPEATS = core.DefaultRepeats
const DEFAULT_INITIAL_CAPACITY = core.DefaultInitialCapacity
const DEFAULT_MEMORY_LIMIT = core.DefaultMemoryLimit
const DEFAULT_PROGRESS_INTERVAL = core.DefaultProgressInterval

func DefaultConfig() *Config {
	return &Config{
		Strategy:         DEFAULT_STRATEGY,
		Repeats:          DEFAULT_REPEATS,
		InitialCapacity:  DEFAULT_INITIAL_CAPACITY,
		MemoryLimit:      DEFAULT_MEMORY_LIMIT,
		ProgressInterval: DEFAULT_PROGRESS_INTERVAL,
	}
}

// Validate checks the numeric settings and the strategy name.
func (c *Config) Validate() error {
	if _, err := core.ParseStrategy(string(c.Strategy)); err != nil {
		return err
	}
	if c.Repeats < 1 {
		return fault.ErrInvalidRepeats
	}
	if c.InitialCapacity < 1 {
		return fault.ErrInvalidCapacity
	}
	if c.MemoryLimit < 0 {
		return fault.ErrInvalidMemoryLimit
	}
	if c.ProgressInterval < 0 {
		return fault.ErrInvalidProgress
	}
	return nil
}

// Harness builds the pass harness described by the config.
func (c *Config) Harness() *core.Harness {
	strategy, _ := core.ParseStrategy(string(c.Strategy))
	return &core.Harness{
		Open:             c.Opener,
		Strategy:         strategy,
		InitialCapacity:  c.InitialCapacity,
		MemoryLimit:      c.MemoryLimit,
		Verify:           c.Verify,
		Progress:         c.Progress,
		ProgressInterval: c.ProgressInterval,
		Observer:         c.Observer,
		Log:              c.Log,
	}
}
