/*
	Basic Script that generates random FASTA data for timing the loader.

	go run ./scripts/fasta-gen.go --count=100000 --output=big.fa
*/

package main

import (
	"bufio"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/bitmark-inc/getoptions"
)

const (
	defaultCount     = 1000
	defaultMinLength = 50
	defaultMaxLength = 5000
	defaultWidth     = 60

	progressEvery = 100000
)

var bases = []byte("ACGT")

type generator struct {
	count     int
	minLength int
	maxLength int
	width     int
	rng       *rand.Rand
}

func main() {
	defer exitwithstatus.Handler()

	flags := []getoptions.Option{
		{Long: "help", HasArg: getoptions.NO_ARGUMENT, Short: 'h'},
		{Long: "count", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'n'},
		{Long: "min-length", HasArg: getoptions.REQUIRED_ARGUMENT},
		{Long: "max-length", HasArg: getoptions.REQUIRED_ARGUMENT},
		{Long: "width", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'w'},
		{Long: "seed", HasArg: getoptions.REQUIRED_ARGUMENT},
		{Long: "output", HasArg: getoptions.REQUIRED_ARGUMENT, Short: 'o'},
	}

	program, options, _, err := getoptions.GetOS(flags)
	if err != nil {
		exitwithstatus.Message("%s: getoptions error: %s", program, err)
	}
	if len(options["help"]) > 0 {
		exitwithstatus.Message("usage: %s [--count=N] [--min-length=N] [--max-length=N] [--width=N] [--seed=N] [--output=FILE]", program)
	}

	g := generator{
		count:     intOption(program, options, "count", defaultCount),
		minLength: intOption(program, options, "min-length", defaultMinLength),
		maxLength: intOption(program, options, "max-length", defaultMaxLength),
		width:     intOption(program, options, "width", defaultWidth),
		rng:       rand.New(rand.NewSource(int64(intOption(program, options, "seed", int(time.Now().UnixNano()))))),
	}
	if g.minLength < 0 || g.maxLength < g.minLength || g.width < 1 || g.count < 0 {
		exitwithstatus.Message("%s: need 0 <= min-length <= max-length, width >= 1 and count >= 0", program)
	}

	out := io.Writer(os.Stdout)
	if output := options["output"]; len(output) > 0 {
		fh, err := os.Create(output[len(output)-1])
		if err != nil {
			exitwithstatus.Message("%s: %s", program, err)
		}
		defer fh.Close()
		out = fh
	}

	start := time.Now()
	w := bufio.NewWriter(out)
	if err := g.write(w); err != nil {
		exitwithstatus.Message("%s: write error: %s", program, err)
	}
	if err := w.Flush(); err != nil {
		exitwithstatus.Message("%s: write error: %s", program, err)
	}
	fmt.Fprintf(os.Stderr, "%d records generated in %v\n", g.count, time.Since(start))
}

func (g generator) write(w *bufio.Writer) error {
	line := make([]byte, g.width)
	for i := 1; i <= g.count; i++ {
		length := g.minLength
		if g.maxLength > g.minLength {
			length += g.rng.Intn(g.maxLength - g.minLength + 1)
		}

		if _, err := fmt.Fprintf(w, ">seq%d random length=%d\n", i, length); err != nil {
			return err
		}
		for length > 0 {
			n := min(length, g.width)
			for j := 0; j < n; j++ {
				line[j] = bases[g.rng.Intn(len(bases))]
			}
			if _, err := w.Write(line[:n]); err != nil {
				return err
			}
			if err := w.WriteByte('\n'); err != nil {
				return err
			}
			length -= n
		}

		if i%progressEvery == 0 {
			fmt.Fprintf(os.Stderr, "%d records\n", i)
		}
	}
	return nil
}

func intOption(program string, options map[string][]string, name string, value int) int {
	values := options[name]
	if len(values) == 0 {
		return value
	}
	n, err := strconv.Atoi(values[len(values)-1])
	if err != nil {
		exitwithstatus.Message("%s: %s: %q is not a number", program, name, values[len(values)-1])
	}
	return n
}
