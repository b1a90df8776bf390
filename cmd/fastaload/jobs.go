package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/kballard/go-shellquote"

	"github.com/0xRadioAc7iv/go-fastaload/core"
	"github.com/0xRadioAc7iv/go-fastaload/internal/fault"
)

// a set of files loaded with one strategy and repeat count
type job struct {
	strategy core.Strategy
	repeats  int
	files    []string
}

// read a job file: one job per line, words split by shell rules
//
//	# strategy repeats file...
//	array 3 small.fa "with space.fa"
//	list  1 large.fa.gz
func readJobFile(fileName string) ([]job, error) {
	fh, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	return readJobs(fh)
}

func readJobs(r io.Reader) ([]job, error) {
	jobs := []job{}

	scanner := bufio.NewScanner(r)
	lineNumber := 0
	for scanner.Scan() {
		lineNumber += 1

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		words, err := shellquote.Split(line)
		if err != nil {
			return nil, fmt.Errorf("job line %d: %s: %w", lineNumber, err, fault.ErrInvalidJob)
		}
		if len(words) < 3 {
			return nil, fmt.Errorf("job line %d: need strategy, repeats and at least one file: %w", lineNumber, fault.ErrInvalidJob)
		}

		strategy, err := core.ParseStrategy(words[0])
		if err != nil {
			return nil, fmt.Errorf("job line %d: %q: %w", lineNumber, words[0], err)
		}
		repeats, err := strconv.Atoi(words[1])
		if err != nil || repeats < 1 {
			return nil, fmt.Errorf("job line %d: %q: %w", lineNumber, words[1], fault.ErrInvalidRepeats)
		}

		jobs = append(jobs, job{
			strategy: strategy,
			repeats:  repeats,
			files:    words[2:],
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return jobs, nil
}
