package fasta

import (
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/0xRadioAc7iv/go-fastaload/internal/fault"
)

type want struct {
	id          int64
	description string
	sequence    string
}

func readAll(t *testing.T, r *Reader) []want {
	t.Helper()

	var got []want
	for {
		rec, err := r.Next()
		if err == io.EOF {
			return got
		}
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		got = append(got, want{rec.ID, string(rec.Description), string(rec.Sequence)})
	}
}

func expectRecords(t *testing.T, got, expected []want) {
	t.Helper()

	if len(got) != len(expected) {
		t.Fatalf("got %d records, want %d: %+v", len(got), len(expected), got)
	}
	for i := range expected {
		if got[i] != expected[i] {
			t.Errorf("record %d: got %+v, want %+v", i, got[i], expected[i])
		}
	}
}

func TestReader(t *testing.T) {
	t.Run("multi line sequences are concatenated", func(t *testing.T) {
		input := ">seq1 first\nACGT\nTTGA\n>seq2 second\nGGCC\n"
		got := readAll(t, NewReader(strings.NewReader(input)))
		expectRecords(t, got, []want{
			{1, "seq1 first", "ACGTTTGA"},
			{2, "seq2 second", "GGCC"},
		})
	})

	t.Run("blank lines, carriage returns and padding are ignored", func(t *testing.T) {
		input := "\n\n>a\r\n  AC GT \r\n\r\n>b\r\nAA\r\n\n"
		got := readAll(t, NewReader(strings.NewReader(input)))
		expectRecords(t, got, []want{
			{1, "a", "AC GT"},
			{2, "b", "AA"},
		})
	})

	t.Run("header without sequence gives an empty sequence", func(t *testing.T) {
		got := readAll(t, NewReader(strings.NewReader(">only\n>next\nA")))
		expectRecords(t, got, []want{
			{1, "only", ""},
			{2, "next", "A"},
		})
	})

	t.Run("empty input is immediately exhausted", func(t *testing.T) {
		r := NewReader(strings.NewReader(""))
		if _, err := r.Next(); err != io.EOF {
			t.Fatalf("expected io.EOF, got %v", err)
		}
		if _, err := r.Next(); err != io.EOF {
			t.Fatalf("expected io.EOF to be sticky, got %v", err)
		}
	})

	t.Run("sequence before the first header is malformed", func(t *testing.T) {
		r := NewReader(strings.NewReader("\nACGT\n>a\nAC\n"))
		_, err := r.Next()

		var parseErr *fault.ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected ParseError, got %v", err)
		}
		if parseErr.Line != 2 {
			t.Errorf("Line = %d, want 2", parseErr.Line)
		}
		if _, again := r.Next(); again != err {
			t.Errorf("error is not sticky: %v", again)
		}
	})

	t.Run("read failure is malformed at the next line", func(t *testing.T) {
		failure := errors.New("device gone")
		r := NewReader(io.MultiReader(strings.NewReader(">a\nAC"), iotest.ErrReader(failure)))

		_, err := r.Next()
		var parseErr *fault.ParseError
		if !errors.As(err, &parseErr) {
			t.Fatalf("expected ParseError, got %v", err)
		}
		if !errors.Is(err, failure) {
			t.Errorf("expected the read error to be wrapped, got %v", err)
		}
		if parseErr.Line != 2 {
			t.Errorf("Line = %d, want 2", parseErr.Line)
		}
	})

	t.Run("header after other leading whitespace", func(t *testing.T) {
		got := readAll(t, NewReader(strings.NewReader("\f>x\nAC\n\v >y \nGG")))
		expectRecords(t, got, []want{
			{1, "x", "AC"},
			{2, "y", "GG"},
		})
	})
}

func TestReaderLongLines(t *testing.T) {
	lengths := []int{readBufferSize - 1, readBufferSize, readBufferSize + 1, 5*readBufferSize + 7}
	if !testing.Short() {
		// longer than any scanner token limit
		lengths = append(lengths, 64*1024*1024+1)
	}

	for _, n := range lengths {
		sequence := strings.Repeat("A", n)
		description := "chr " + strings.Repeat("d", n)
		input := ">" + description + "\n" + sequence + "\n>tail\nC"

		r := NewReader(strings.NewReader(input))
		rec, err := r.Next()
		if err != nil {
			t.Fatalf("length %d: unexpected error: %v", n, err)
		}
		if len(rec.Sequence) != n || string(rec.Sequence) != sequence {
			t.Fatalf("length %d: got sequence of length %d", n, len(rec.Sequence))
		}
		if string(rec.Description) != description {
			t.Fatalf("length %d: got description of length %d", n, len(rec.Description))
		}

		rec, err = r.Next()
		if err != nil {
			t.Fatalf("length %d: unexpected error on second record: %v", n, err)
		}
		if string(rec.Description) != "tail" || string(rec.Sequence) != "C" {
			t.Errorf("length %d: got second record %q %q", n, rec.Description, rec.Sequence)
		}
		if r.Line() != 4 {
			t.Errorf("length %d: Line() = %d, want 4", n, r.Line())
		}
	}
}

func TestReaderReusesBuffers(t *testing.T) {
	r := NewReader(strings.NewReader(">first\nAAAA\n>second\nCCCC\n"))

	first, err := r.Next()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, err := r.Next(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// a borrowed record is only valid until the next read
	if string(first.Sequence) != "CCCC" {
		t.Fatalf("expected the sequence buffer to be reused, got %q", first.Sequence)
	}
}

func TestOpen(t *testing.T) {
	dir := t.TempDir()

	t.Run("plain file", func(t *testing.T) {
		path := filepath.Join(dir, "plain.fa")
		if err := os.WriteFile(path, []byte(">x\nACGT\n"), 0644); err != nil {
			t.Fatal(err)
		}

		r, err := Open(path)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		defer r.Close()

		expectRecords(t, readAll(t, r), []want{{1, "x", "ACGT"}})
		if r.Line() != 2 {
			t.Errorf("Line() = %d, want 2", r.Line())
		}
	})

	t.Run("gzip file", func(t *testing.T) {
		path := filepath.Join(dir, "packed.fa.gz")
		f, err := os.Create(path)
		if err != nil {
			t.Fatal(err)
		}
		zw := gzip.NewWriter(f)
		if _, err := zw.Write([]byte(">z\nGG\nCC\n")); err != nil {
			t.Fatal(err)
		}
		if err := zw.Close(); err != nil {
			t.Fatal(err)
		}
		if err := f.Close(); err != nil {
			t.Fatal(err)
		}

		r, err := Open(path)
		if err != nil {
			t.Fatalf("Open failed: %v", err)
		}
		defer r.Close()

		expectRecords(t, readAll(t, r), []want{{1, "z", "GGCC"}})
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := Open(filepath.Join(dir, "missing.fa"))
		if !errors.Is(err, os.ErrNotExist) {
			t.Fatalf("expected not exist error, got %v", err)
		}
	})
}
