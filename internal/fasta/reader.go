// Package fasta reads FASTA files one record at a time.
//
// A '>' line starts a record and carries its description; the lines that
// follow, up to the next '>' line, are concatenated into the sequence.
// Records are returned borrowed: their fields point into buffers the
// Reader reuses on the next call to Next.
package fasta

import (
	"bufio"
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"strings"

	"github.com/0xRadioAc7iv/go-fastaload/internal/fault"
	"github.com/0xRadioAc7iv/go-fastaload/internal/record"
)

// lines longer than the buffer are read in pieces, there is no line limit
const readBufferSize = 64 * 1024

// Reader yields records from FASTA input.
type Reader struct {
	path    string
	rd      *bufio.Reader
	closers []io.Closer

	line   int   // number of the last line read
	nextID int64 // id given to the next record

	header  []byte // description of the record after the current one
	pending bool   // header holds an unread description

	buf         []byte // the line being read
	description []byte
	sequence    []byte

	err error // sticky error, io.EOF once input is exhausted
}

// Open opens path for reading. "-" reads standard input. Gzip input is
// detected by its magic number or a ".gz" suffix.
func Open(path string) (*Reader, error) {
	if path == "-" {
		r := NewReader(os.Stdin)
		r.path = path
		return r, nil
	}

	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	var sig [2]byte
	n, _ := io.ReadFull(fh, sig[:])
	if _, err := fh.Seek(0, io.SeekStart); err != nil {
		fh.Close()
		return nil, err
	}

	if (n == 2 && sig[0] == 0x1f && sig[1] == 0x8b) || strings.HasSuffix(path, ".gz") {
		gr, err := gzip.NewReader(fh)
		if err != nil {
			fh.Close()
			return nil, err
		}
		r := NewReader(gr)
		r.path = path
		r.closers = []io.Closer{gr, fh}
		return r, nil
	}

	r := NewReader(fh)
	r.path = path
	r.closers = []io.Closer{fh}
	return r, nil
}

// NewReader reads FASTA from an already open stream. Close does not close rd.
func NewReader(rd io.Reader) *Reader {
	return &Reader{
		rd:     bufio.NewReaderSize(rd, readBufferSize),
		nextID: 1,
	}
}

// Next returns the next record, io.EOF when the input is exhausted, or a
// *fault.ParseError when the input is malformed. After an error every
// further call returns the same error.
func (r *Reader) Next() (record.Record, error) {
	if r.err != nil {
		return record.Record{}, r.err
	}

	if !r.pending {
		if err := r.seekHeader(); err != nil {
			r.err = err
			return record.Record{}, err
		}
	}

	r.description = append(r.description[:0], r.header...)
	r.sequence = r.sequence[:0]
	r.pending = false

	for {
		ok, err := r.readLine()
		if err != nil {
			r.err = err
			return record.Record{}, err
		}
		if !ok {
			break
		}
		line := bytes.TrimSpace(r.buf)
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' {
			r.setHeader(line)
			break
		}
		r.sequence = append(r.sequence, line...)
	}

	id := r.nextID
	r.nextID += 1
	return record.Borrow(id, r.description, r.sequence), nil
}

// seekHeader skips blank lines up to the first header.
func (r *Reader) seekHeader() error {
	for {
		ok, err := r.readLine()
		if err != nil {
			return err
		}
		if !ok {
			return io.EOF
		}
		line := bytes.TrimSpace(r.buf)
		if len(line) == 0 {
			continue
		}
		if line[0] != '>' {
			return &fault.ParseError{Path: r.path, Line: r.line, Detail: "sequence data before first header"}
		}
		r.setHeader(line)
		return nil
	}
}

// readLine reads the next whole line into buf. It returns false once the
// input is exhausted.
func (r *Reader) readLine() (bool, error) {
	r.buf = r.buf[:0]
	for {
		chunk, err := r.rd.ReadSlice('\n')
		r.buf = append(r.buf, chunk...)

		switch {
		case err == nil:
			r.line += 1
			return true, nil
		case errors.Is(err, bufio.ErrBufferFull):
			continue
		case err == io.EOF:
			if len(r.buf) == 0 {
				return false, nil
			}
			r.line += 1
			return true, nil
		default:
			return false, r.readError(err)
		}
	}
}

// line is trimmed and starts with '>'
func (r *Reader) setHeader(line []byte) {
	r.header = append(r.header[:0], line[1:]...)
	r.pending = true
}

func (r *Reader) readError(err error) error {
	return &fault.ParseError{Path: r.path, Line: r.line + 1, Detail: err.Error(), Err: err}
}

// Line returns the number of the last input line read.
func (r *Reader) Line() int {
	return r.line
}

// Close releases the underlying file, if the Reader opened one.
func (r *Reader) Close() error {
	var err error
	for _, c := range r.closers {
		if cerr := c.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	r.closers = nil
	return err
}
