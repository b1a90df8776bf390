// Package fastaload times the loading of FASTA files into in-memory
// record storage.
//
// Each file is loaded one or more times. Every pass reads the whole file,
// copies each record into storage owned by the pass, and releases all of
// it again before the next pass starts.
//
// Example:
//
//	runner, err := fastaload.New(
//	    fastaload.WithStrategy("list"),
//	    fastaload.WithRepeats(3),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	summaries, err := runner.Run("small.fa", "large.fa.gz")
//	for _, s := range summaries {
//	    fmt.Println(s.Path, s.Records(), s.Mean())
//	}
package fastaload
