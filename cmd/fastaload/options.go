package main

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/0xRadioAc7iv/go-fastaload/core"
	"github.com/0xRadioAc7iv/go-fastaload/internal/configuration"
	"github.com/0xRadioAc7iv/go-fastaload/internal/fault"
)

var flags = []getoptions.Option{
	{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
	{Long: "verbose", HasArg: getoptions.NO_ARGUMENT, Short: 'v'},
	{Long: "quiet", HasArg: getoptions.NO_ARGUMENT, Short: 'q'},
	{Long: "version", HasArg: getoptions.NO_ARGUMENT, Short: 'V'},
	{Long: "config-file", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'c'},
	{Long: "repeats", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'R'},
	{Long: "strategy", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 's'},
	{Long: "initial-capacity", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'i'},
	{Long: "memory-limit", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'm'},
	{Long: "jobs", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'j'},
	{Long: "keep-going", HasArg: getoptions.NO_ARGUMENT, Short: 'k'},
	{Long: "verify", HasArg: getoptions.NO_ARGUMENT},
	{Long: "report-file", HasArg: getoptions.REQUIRED_ARGUMENT},
	{Long: "metrics-file", HasArg: getoptions.REQUIRED_ARGUMENT},
}

// everything main needs after option and configuration processing
type settings struct {
	jobs             []job
	initialCapacity  int
	memoryLimit      int64
	progressInterval int
	verify           bool
	keepGoing        bool
	quiet            bool
	reportFile       string
	metricsFile      string
	logging          logger.Configuration
}

func usage(program string) string {
	return fmt.Sprintf(`usage: %s [<OPTIONS>] <file> [<file>...]

Prints timing of loading and storing FASTA records.

Options:
  -h, --help                   this message
  -V, --version                print the version
  -c, --config-file=FILE       Lua configuration file
  -R, --repeats=N              number of times to repeat each load
                               time reported will be the average time
  -s, --strategy=NAME          storage strategy: array or list
  -i, --initial-capacity=N     initial array capacity
  -m, --memory-limit=BYTES     per pass memory limit, K/M/G suffixes allowed
  -j, --jobs=FILE              job file: "<strategy> <repeats> <file>..." per line
  -k, --keep-going             continue with the remaining files after a failure
      --verify                 verify stored records before they are released
      --report-file=FILE       write a YAML run report
      --metrics-file=FILE      write Prometheus text format metrics
  -q, --quiet                  no progress output
  -v, --verbose                log to the console`, program)
}

// combine the configuration file (if any) with the command line
func getSettings(options map[string][]string, arguments []string) (*settings, error) {

	var conf *configuration.Configuration
	switch n := len(options["config-file"]); n {
	case 0:
		conf = configuration.Default()
		conf.Logging.Directory = filepath.Join(os.TempDir(), "fastaload")
	case 1:
		c, err := configuration.Load(options["config-file"][0])
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration from: %q  error: %w", options["config-file"][0], err)
		}
		conf = c
	default:
		return nil, fmt.Errorf("only one config-file option is allowed, %d were detected", n)
	}

	if v, ok := last(options, "strategy"); ok {
		conf.Strategy = v
	}
	strategy, err := core.ParseStrategy(conf.Strategy)
	if err != nil {
		return nil, fmt.Errorf("strategy: %q: %w", conf.Strategy, err)
	}

	if v, ok := last(options, "repeats"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("cannot parse repeats requested from %q: %w", v, fault.ErrInvalidRepeats)
		}
		conf.Repeats = n
	}

	if v, ok := last(options, "initial-capacity"); ok {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("initial capacity: %q: %w", v, fault.ErrInvalidCapacity)
		}
		conf.InitialCapacity = n
	}

	if v, ok := last(options, "memory-limit"); ok {
		n, err := parseSize(v)
		if err != nil {
			return nil, fmt.Errorf("memory limit: %q: %w", v, err)
		}
		conf.MemoryLimit = n
	}

	if v, ok := last(options, "report-file"); ok {
		conf.ReportFile = v
	}
	if v, ok := last(options, "metrics-file"); ok {
		conf.MetricsFile = v
	}

	s := &settings{
		initialCapacity:  conf.InitialCapacity,
		memoryLimit:      conf.MemoryLimit,
		progressInterval: conf.ProgressInterval,
		verify:           conf.Verify || len(options["verify"]) > 0,
		keepGoing:        conf.KeepGoing || len(options["keep-going"]) > 0,
		quiet:            len(options["quiet"]) > 0,
		reportFile:       conf.ReportFile,
		metricsFile:      conf.MetricsFile,
		logging:          conf.Logging,
	}

	if len(options["verbose"]) > 0 {
		s.logging.Console = true
		s.logging.Levels = map[string]string{
			logger.DefaultTag: "info",
		}
	}

	// files on the command line replace those from the configuration
	files := arguments
	if len(files) == 0 {
		files = conf.Files
	}
	if len(files) > 0 {
		s.jobs = append(s.jobs, job{
			strategy: strategy,
			repeats:  conf.Repeats,
			files:    files,
		})
	}

	for _, fileName := range options["jobs"] {
		jobs, err := readJobFile(fileName)
		if err != nil {
			return nil, fmt.Errorf("jobs: %q: %w", fileName, err)
		}
		s.jobs = append(s.jobs, jobs...)
	}

	return s, nil
}

// the last occurrence of a repeatable option
func last(options map[string][]string, name string) (string, bool) {
	values := options[name]
	if len(values) == 0 {
		return "", false
	}
	return values[len(values)-1], true
}

// a byte count with an optional K, M or G suffix
func parseSize(s string) (int64, error) {
	multiplier := int64(1)
	digits := strings.TrimSpace(s)
	if digits != "" {
		switch strings.ToUpper(digits[len(digits)-1:]) {
		case "K":
			multiplier = core.OneKilobyte
		case "M":
			multiplier = core.OneMegabyte
		case "G":
			multiplier = core.OneGigabyte
		}
		if multiplier != 1 {
			digits = digits[:len(digits)-1]
		}
	}

	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil || n < 0 || n > math.MaxInt64/multiplier {
		return 0, fault.ErrInvalidMemoryLimit
	}
	return n * multiplier, nil
}
