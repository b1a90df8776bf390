package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
	"github.com/bitmark-inc/logger"

	"github.com/0xRadioAc7iv/go-fastaload/core"
	"github.com/0xRadioAc7iv/go-fastaload/fastaload"
	"github.com/0xRadioAc7iv/go-fastaload/internal/configuration"
	"github.com/0xRadioAc7iv/go-fastaload/internal/lock"
	"github.com/0xRadioAc7iv/go-fastaload/internal/metrics"
	"github.com/0xRadioAc7iv/go-fastaload/internal/report"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

// main program
func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	program, options, arguments, err := getoptions.GetOS(flags)
	if err != nil {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}

	if len(options["version"]) > 0 {
		exitwithstatus.Message("%s: version: %s", program, version)
	}

	if len(options["help"]) > 0 {
		exitwithstatus.Message("%s", usage(program))
	}

	s, err := getSettings(options, arguments)
	if err != nil {
		exitwithstatus.Message("%s: %s", program, err)
	}

	if len(s.jobs) == 0 {
		fmt.Fprintln(os.Stderr, usage(program))
		exitwithstatus.Message("No data processed -- provide the name of a file on the command line")
	}

	// start logging
	if err := configuration.PrepareLogging(s.logging); err != nil {
		exitwithstatus.Message("%s: cannot create log directory: %s", program, err)
	}
	directoryLock, err := lock.Acquire(s.logging.Directory)
	if err != nil {
		exitwithstatus.Message("%s: %s", program, err)
	}
	defer directoryLock.Release()

	if err = logger.Initialise(s.logging); err != nil {
		exitwithstatus.Message("%s: logger setup failed with error: %s", program, err)
	}
	defer logger.Finalise()

	// create a logger channel for the main program
	log := logger.New("main")
	defer log.Info("shutting down…")
	log.Info("starting…")
	log.Infof("version: %s", version)

	if rc := process(s, os.Stdout, os.Stderr); rc != 0 {
		exitwithstatus.Exit(rc)
	}
}

// run every job, printing one summary per file, and return the
// process exit status
func process(s *settings, stdout io.Writer, stderr io.Writer) int {
	log := logger.New("main")

	var collector *metrics.Collector
	if s.metricsFile != "" {
		collector = metrics.NewCollector()
	}

	run := report.New(time.Now())
	rc := 0

	fileDone := func(summary core.Summary, err error) {
		run.Add(summary, err)
		if err == nil {
			report.WriteText(stdout, summary)
			return
		}
		fmt.Fprintf(stderr, "Error: %s\n", err)
		if s.keepGoing {
			fmt.Fprintf(stderr, "Error: Processing '%s' failed -- continuing\n", summary.Path)
		} else {
			fmt.Fprintf(stderr, "Error: Processing '%s' failed -- exiting\n", summary.Path)
		}
	}

jobs:
	for i, j := range s.jobs {
		log.Infof("job: %d  strategy: %s  repeats: %d  files: %d", i, j.strategy, j.repeats, len(j.files))

		opts := []fastaload.Option{
			fastaload.WithStrategy(j.strategy.String()),
			fastaload.WithRepeats(j.repeats),
			fastaload.WithInitialCapacity(s.initialCapacity),
			fastaload.WithMemoryLimit(s.memoryLimit),
			fastaload.WithVerify(s.verify),
			fastaload.WithKeepGoing(s.keepGoing),
			fastaload.WithLogger(logger.New("harness")),
			fastaload.WithFileDone(fileDone),
		}
		if !s.quiet {
			opts = append(opts, fastaload.WithProgress(stdout, s.progressInterval))
		}
		if collector != nil {
			opts = append(opts, fastaload.WithMetrics(collector))
		}

		runner, err := fastaload.New(opts...)
		if err != nil {
			fmt.Fprintf(stderr, "Error: job %d: %s\n", i+1, err)
			rc = 1
			break jobs
		}

		if _, err := runner.Run(j.files...); err != nil {
			log.Errorf("job: %d  error: %s", i, err)
			rc = 1
			if !s.keepGoing {
				break jobs
			}
		}
	}

	if rc == 0 || s.keepGoing {
		run.WriteTotal(stdout)
	}

	if s.reportFile != "" {
		if err := run.WriteYAML(s.reportFile); err != nil {
			fmt.Fprintf(stderr, "Error: report: %s\n", err)
			rc = 1
		}
	}
	if collector != nil {
		if err := collector.WriteTextfile(s.metricsFile); err != nil {
			fmt.Fprintf(stderr, "Error: metrics: %s\n", err)
			rc = 1
		}
	}

	return rc
}
