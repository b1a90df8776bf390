package core

import (
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/bitmark-inc/logger"

	"github.com/0xRadioAc7iv/go-fastaload/internal/alloc"
	"github.com/0xRadioAc7iv/go-fastaload/internal/fault"
	"github.com/0xRadioAc7iv/go-fastaload/internal/record"
)

// Source yields borrowed records until io.EOF. A borrowed record is only
// valid until the next call to Next.
type Source interface {
	Next() (record.Record, error)
	Close() error
}

// Opener turns a path into a Source.
type Opener func(path string) (Source, error)

// Observer is told about the outcome of every pass.
type Observer interface {
	PassCompleted(result Result)
	PassFailed(path string, strategy Strategy, err error)
}

// Result describes one completed pass.
type Result struct {
	Path      string
	Strategy  Strategy
	Records   int
	Elapsed   time.Duration
	Capacity  int     // array only
	Waste     float64 // array only, percent
	PeakBytes int64
}

// String formats the per pass line printed after the progress dots.
func (r Result) String() string {
	if r.Strategy == ArrayStrategy {
		return fmt.Sprintf(" %d FASTA records -- %d allocated (%.3f%% waste)", r.Records, r.Capacity, r.Waste)
	}
	return fmt.Sprintf(" %d FASTA records", r.Records)
}

// Summary collects the passes made over one file.
type Summary struct {
	Path     string
	Strategy Strategy
	Passes   []Result
}

// Records is the record count of the last pass.
func (s Summary) Records() int {
	if len(s.Passes) == 0 {
		return 0
	}
	return s.Passes[len(s.Passes)-1].Records
}

// Total is the time spent in all passes.
func (s Summary) Total() time.Duration {
	total := time.Duration(0)
	for _, p := range s.Passes {
		total += p.Elapsed
	}
	return total
}

// Mean is the average time per pass.
func (s Summary) Mean() time.Duration {
	if len(s.Passes) == 0 {
		return 0
	}
	return s.Total() / time.Duration(len(s.Passes))
}

// MeanParts splits Mean into whole minutes and the remaining seconds.
func (s Summary) MeanParts() (int, float64) {
	seconds := s.Mean().Seconds()
	minutes := int(seconds / 60)
	return minutes, seconds - float64(minutes)*60
}

// State is the position of a pass in Idle, Opened, Draining, Closed.
type State int

const (
	StateIdle State = iota
	StateOpened
	StateDraining
	StateClosed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "Idle"
	case StateOpened:
		return "Opened"
	case StateDraining:
		return "Draining"
	case StateClosed:
		return "Closed"
	default:
		return "*Unknown*"
	}
}

// Harness times repeated loads of a record source into a store.
//
// Only Open is required. A pass never shares storage with another pass; a
// fresh allocator is created for each one.
type Harness struct {
	Open             Opener
	Strategy         Strategy // default ArrayStrategy
	InitialCapacity  int      // array only, default 1
	MemoryLimit      int64    // bytes per pass, 0 is unlimited
	Allocator        func(limit int64) alloc.Allocator
	Verify           bool
	Progress         io.Writer // dots and per pass lines, nil for none
	ProgressInterval int       // records per dot, 0 selects the default, <0 disables
	Observer         Observer
	Log              *logger.L
	Clock            func() time.Time

	state State
}

// State returns the state of the pass in progress, Idle between passes.
func (h *Harness) State() State {
	return h.state
}

// Repeat makes repeats sequential passes over path, stopping at the first
// failure. The passes made before a failure are in the returned Summary.
func (h *Harness) Repeat(path string, repeats int) (Summary, error) {
	summary := Summary{
		Path:     path,
		Strategy: h.strategy(),
	}
	if repeats < 1 {
		return summary, fault.ErrInvalidRepeats
	}

	summary.Passes = make([]Result, 0, repeats)
	for i := 0; i < repeats; i += 1 {
		result, err := h.Pass(path)
		if err != nil {
			return summary, err
		}
		summary.Passes = append(summary.Passes, result)
	}
	return summary, nil
}

// Pass opens path, drains it into a new store, closes it and destroys the
// store. Storage is always released before Pass returns.
func (h *Harness) Pass(path string) (Result, error) {
	if h.Open == nil {
		panic("core: harness has no opener")
	}
	strategy := h.strategy()
	defer h.nextState(StateIdle)

	h.infof("pass start: %s  strategy: %s", path, strategy)

	src, err := h.Open(path)
	if err != nil {
		if !fault.IsErrSourceUnavailable(err) {
			err = &fault.SourceUnavailableError{Path: path, Err: err}
		}
		return Result{}, h.failed(path, strategy, err)
	}
	h.nextState(StateOpened)

	start := h.now()
	a := h.allocator()

	store, err := NewStore(strategy, a, h.InitialCapacity)
	if err != nil {
		h.close(src, path)
		return Result{}, h.failed(path, strategy, err)
	}
	defer store.Destroy()

	h.nextState(StateDraining)
	count, err := h.drain(path, src, store, a)

	h.close(src, path)
	elapsed := h.now().Sub(start)
	h.nextState(StateClosed)

	if err != nil {
		return Result{}, h.failed(path, strategy, err)
	}

	if h.Verify {
		if err := verify(store); err != nil {
			return Result{}, h.failed(path, strategy, fmt.Errorf("verify %s: %w", path, err))
		}
	}

	result := Result{
		Path:     path,
		Strategy: strategy,
		Records:  count,
		Elapsed:  elapsed,
	}
	if d, ok := store.(Diagnostics); ok {
		result.Capacity = d.Cap()
		result.Waste = d.WastePercentage()
		h.debugf("capacity: %d  waste: %.3f%%", result.Capacity, result.Waste)
	}
	if p, ok := a.(interface{ Peak() int64 }); ok {
		result.PeakBytes = p.Peak()
		h.debugf("peak allocation: %d bytes", result.PeakBytes)
	}

	if h.Progress != nil {
		fmt.Fprintln(h.Progress, result.String())
	}
	h.infof("pass finish: %s  records: %d  elapsed: %s", path, count, elapsed)
	if h.Observer != nil {
		h.Observer.PassCompleted(result)
	}
	return result, nil
}

// read every record from src, cloning each one into storage owned memory
func (h *Harness) drain(path string, src Source, store Store, a alloc.Allocator) (int, error) {
	interval := h.ProgressInterval
	if interval == 0 {
		interval = DefaultProgressInterval
	}

	count := 0
	for {
		if h.Progress != nil && interval > 0 && count%interval == 0 {
			fmt.Fprint(h.Progress, ".")
		}

		borrowed, err := src.Next()
		if errors.Is(err, io.EOF) {
			return count, nil
		}
		if err != nil {
			return count, parseError(path, err)
		}

		owned, err := borrowed.Clone(a)
		if err != nil {
			return count, err
		}
		if err := store.Append(owned); err != nil {
			owned.Release(a)
			return count, err
		}
		count += 1
	}
}

// pass a source ParseError through, filling in the path, otherwise wrap err
func parseError(path string, err error) error {
	var pe *fault.ParseError
	if errors.As(err, &pe) {
		if pe.Path == "" {
			pe.Path = path
		}
		return err
	}
	return &fault.ParseError{Path: path, Detail: err.Error(), Err: err}
}

// check the stored records before they are destroyed
func verify(store Store) error {
	count := 0
	previous := int64(0)
	for r := range store.All() {
		if !r.Valid() {
			return fault.ErrVerifyChecksum
		}
		if count > 0 && r.ID <= previous {
			return fault.ErrVerifyOrder
		}
		previous = r.ID
		count += 1
	}
	if count != store.Len() {
		return fault.ErrVerifyCount
	}
	if l, ok := store.(interface{ consistent() bool }); ok && !l.consistent() {
		return fault.ErrVerifyLinks
	}
	return nil
}

func (h *Harness) close(src Source, path string) {
	if err := src.Close(); err != nil {
		h.warnf("close: %s  error: %s", path, err)
	}
}

func (h *Harness) failed(path string, strategy Strategy, err error) error {
	h.errorf("pass failed: %s  error: %s", path, err)
	if h.Observer != nil {
		h.Observer.PassFailed(path, strategy, err)
	}
	return err
}

func (h *Harness) nextState(s State) {
	h.debugf("state: %s -> %s", h.state, s)
	h.state = s
}

func (h *Harness) strategy() Strategy {
	if h.Strategy == "" {
		return ArrayStrategy
	}
	return h.Strategy
}

func (h *Harness) allocator() alloc.Allocator {
	if h.Allocator != nil {
		return h.Allocator(h.MemoryLimit)
	}
	return alloc.NewHeap(h.MemoryLimit)
}

func (h *Harness) now() time.Time {
	if h.Clock != nil {
		return h.Clock()
	}
	return time.Now()
}

// logging is optional
func (h *Harness) infof(format string, arguments ...interface{}) {
	if h.Log != nil {
		h.Log.Infof(format, arguments...)
	}
}

func (h *Harness) debugf(format string, arguments ...interface{}) {
	if h.Log != nil {
		h.Log.Debugf(format, arguments...)
	}
}

func (h *Harness) warnf(format string, arguments ...interface{}) {
	if h.Log != nil {
		h.Log.Warnf(format, arguments...)
	}
}

func (h *Harness) errorf(format string, arguments ...interface{}) {
	if h.Log != nil {
		h.Log.Errorf(format, arguments...)
	}
}
