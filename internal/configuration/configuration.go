// Package configuration reads a Lua configuration file for the loader.
//
// The file is an ordinary Lua chunk that must return a table, so base
// Lua such as os.getenv is available to compute values.
//
//	return {
//	    strategy = "list",
//	    repeats = 3,
//	    files = { "data/small.fa" },
//	    logging = { directory = "log", levels = { DEFAULT = "info" } },
//	}
package configuration

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bitmark-inc/logger"

	"github.com/0xRadioAc7iv/go-fastaload/core"
	"github.com/0xRadioAc7iv/go-fastaload/internal/fault"
	"github.com/0xRadioAc7iv/go-fastaload/internal/utils"
)

// basic defaults (paths are relative to the directory of the configuration file)
const (
	defaultLogDirectory = "log"
	defaultLogFile      = "fastaload.log"
	defaultLogCount     = 10          //  number of log files retained
	defaultLogSize      = 1024 * 1024 // rotate when <logfile> exceeds this size
)

// Configuration is the decoded file. Zero values from the file leave the
// defaults in place.
type Configuration struct {
	Strategy         string               `gluamapper:"strategy" json:"strategy"`
	Repeats          int                  `gluamapper:"repeats" json:"repeats"`
	InitialCapacity  int                  `gluamapper:"initial_capacity" json:"initial_capacity"`
	MemoryLimit      int64                `gluamapper:"memory_limit" json:"memory_limit"`
	ProgressInterval int                  `gluamapper:"progress_interval" json:"progress_interval"`
	Verify           bool                 `gluamapper:"verify" json:"verify"`
	KeepGoing        bool                 `gluamapper:"keep_going" json:"keep_going"`
	ReportFile       string               `gluamapper:"report_file" json:"report_file"`
	MetricsFile      string               `gluamapper:"metrics_file" json:"metrics_file"`
	Files            []string             `gluamapper:"files" json:"files"`
	Logging          logger.Configuration `gluamapper:"logging" json:"logging"`
}

// Default returns the configuration used when no file is given. The log
// directory is relative to the working directory.
func Default() *Configuration {
	return &Configuration{
		Strategy:         string(core.ArrayStrategy),
		Repeats:          core.DefaultRepeats,
		InitialCapacity:  core.DefaultInitialCapacity,
		MemoryLimit:      core.DefaultMemoryLimit,
		ProgressInterval: core.DefaultProgressInterval,
		Logging: logger.Configuration{
			Directory: defaultLogDirectory,
			File:      defaultLogFile,
			Size:      defaultLogSize,
			Count:     defaultLogCount,
			Levels: map[string]string{
				logger.DefaultTag: "critical",
			},
		},
	}
}

// Load reads, decodes and verifies a configuration file.
func Load(configurationFileName string) (*Configuration, error) {

	configurationFileName, err := filepath.Abs(filepath.Clean(configurationFileName))
	if err != nil {
		return nil, err
	}

	if !utils.PathExists(configurationFileName) {
		return nil, fault.ErrNotFoundConfigFile
	}

	// absolute path to the main directory
	baseDirectory, _ := filepath.Split(configurationFileName)

	options := Default()

	if err := parseConfigurationFile(configurationFileName, options); err != nil {
		return nil, err
	}

	strategy, err := core.ParseStrategy(options.Strategy)
	if err != nil {
		return nil, fmt.Errorf("strategy: %q: %w", options.Strategy, err)
	}
	options.Strategy = string(strategy)

	switch {
	case options.Repeats < 1:
		return nil, fault.ErrInvalidRepeats
	case options.InitialCapacity < 1:
		return nil, fault.ErrInvalidCapacity
	case options.MemoryLimit < 0:
		return nil, fault.ErrInvalidMemoryLimit
	case options.ProgressInterval < 0:
		return nil, fault.ErrInvalidProgress
	}

	for _, level := range options.Logging.Levels {
		if !validLevel(level) {
			return nil, fmt.Errorf("log level: %q: %w", level, fault.ErrInvalidLogLevel)
		}
	}

	// the log file must be a plain name
	switch filepath.Dir(options.Logging.File) {
	case "", ".":
	default:
		return nil, fmt.Errorf("files: %q is not plain name", options.Logging.File)
	}

	// force all relevant items to be absolute paths
	mustBeAbsolute := []*string{
		&options.Logging.Directory,
	}
	for i := range options.Files {
		mustBeAbsolute = append(mustBeAbsolute, &options.Files[i])
	}
	for _, f := range mustBeAbsolute {
		*f = utils.EnsureAbsolute(baseDirectory, *f)
	}

	// optional absolute paths i.e. blank or an absolute path
	optionalAbsolute := []*string{
		&options.ReportFile,
		&options.MetricsFile,
	}
	for _, f := range optionalAbsolute {
		if *f != "" {
			*f = utils.EnsureAbsolute(baseDirectory, *f)
		}
	}

	return options, nil
}

// PrepareLogging creates the log directory so that logger.Initialise
// can open its file.
func PrepareLogging(logging logger.Configuration) error {
	if logging.Directory == "" {
		return fault.ErrInvalidLogDir
	}
	return os.MkdirAll(logging.Directory, 0700)
}

func validLevel(level string) bool {
	switch level {
	case "trace", "debug", "info", "warn", "error", "critical", "off":
		return true
	}
	return false
}
