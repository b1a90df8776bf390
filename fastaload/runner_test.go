package fastaload_test

import (
	"bytes"
	"compress/gzip"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bitmark-inc/logger"
	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0xRadioAc7iv/go-fastaload/core"
	"github.com/0xRadioAc7iv/go-fastaload/core/mocks"
	"github.com/0xRadioAc7iv/go-fastaload/fastaload"
	"github.com/0xRadioAc7iv/go-fastaload/internal/fault"
	"github.com/0xRadioAc7iv/go-fastaload/internal/record"
)

const sample = `>seq1 first
ACGT
ACGT
>seq2 second
TTTT
>seq3 third

GGGGCCCC
`

func TestMain(m *testing.M) {
	dir, err := os.MkdirTemp("", "fastaload-test")
	if err != nil {
		panic(err)
	}
	logging := logger.Configuration{
		Directory: dir,
		File:      "testing.log",
		Size:      1048576,
		Count:     10,
		Levels: map[string]string{
			logger.DefaultTag: "critical",
		},
	}
	if err := logger.Initialise(logging); err != nil {
		panic(err)
	}

	rc := m.Run()

	logger.Finalise()
	_ = os.RemoveAll(dir)
	os.Exit(rc)
}

func writeFile(t *testing.T, name string, text string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(text), 0600))
	return path
}

func TestNewRejectsInvalidOptions(t *testing.T) {
	tests := []struct {
		option fastaload.Option
		err    error
	}{
		{fastaload.WithStrategy("tree"), fault.ErrInvalidStrategy},
		{fastaload.WithRepeats(0), fault.ErrInvalidRepeats},
		{fastaload.WithInitialCapacity(0), fault.ErrInvalidCapacity},
		{fastaload.WithMemoryLimit(-1), fault.ErrInvalidMemoryLimit},
		{fastaload.WithProgress(&bytes.Buffer{}, -1), fault.ErrInvalidProgress},
	}

	for i, tt := range tests {
		r, err := fastaload.New(tt.option)
		assert.Nil(t, r, "%d: runner", i)
		assert.Equal(t, tt.err, err, "%d: error", i)
	}
}

func TestRunBothStrategies(t *testing.T) {
	path := writeFile(t, "sample.fa", sample)

	for _, strategy := range []string{"array", "llheadtail"} {
		r, err := fastaload.New(
			fastaload.WithStrategy(strategy),
			fastaload.WithRepeats(2),
			fastaload.WithVerify(true),
			fastaload.WithLogger(logger.New("runner")),
		)
		require.NoError(t, err)

		summaries, err := r.Run(path)
		require.NoError(t, err, "strategy %s", strategy)
		require.Len(t, summaries, 1)
		assert.Len(t, summaries[0].Passes, 2)
		assert.Equal(t, 3, summaries[0].Records(), "strategy %s", strategy)
	}
}

func TestRunGzip(t *testing.T) {
	buffer := &bytes.Buffer{}
	zw := gzip.NewWriter(buffer)
	_, err := zw.Write([]byte(sample))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := writeFile(t, "sample.fa.gz", buffer.String())

	r, err := fastaload.New()
	require.NoError(t, err)
	summaries, err := r.Run(path)
	require.NoError(t, err)
	assert.Equal(t, 3, summaries[0].Records())
}

func TestRunProgress(t *testing.T) {
	path := writeFile(t, "sample.fa", sample)

	progress := &bytes.Buffer{}
	r, err := fastaload.New(fastaload.WithProgress(progress, 1))
	require.NoError(t, err)

	_, err = r.Run(path)
	require.NoError(t, err)
	assert.Equal(t, ".... 3 FASTA records -- 4 allocated (25.000% waste)\n", progress.String())
}

func TestRunNoFiles(t *testing.T) {
	r, err := fastaload.New()
	require.NoError(t, err)
	_, err = r.Run()
	assert.Equal(t, fault.ErrNoFiles, err)
}

func TestRunStopsAtFirstFailure(t *testing.T) {
	good := writeFile(t, "good.fa", sample)
	bad := writeFile(t, "bad.fa", "ACGT\n>seq1\nACGT\n")
	missing := filepath.Join(t.TempDir(), "missing.fa")

	done := []string{}
	r, err := fastaload.New(fastaload.WithFileDone(func(s core.Summary, err error) {
		done = append(done, filepath.Base(s.Path))
	}))
	require.NoError(t, err)

	summaries, err := r.Run(good, bad, missing)
	require.Error(t, err)
	assert.True(t, fault.IsErrParse(err), "expected parse error, got %v", err)
	assert.Len(t, summaries, 2, "the missing file must not be attempted")
	assert.Equal(t, []string{"good.fa", "bad.fa"}, done)
}

func TestRunKeepGoing(t *testing.T) {
	good := writeFile(t, "good.fa", sample)
	bad := writeFile(t, "bad.fa", "ACGT\n")
	missing := filepath.Join(t.TempDir(), "missing.fa")

	r, err := fastaload.New(fastaload.WithKeepGoing(true))
	require.NoError(t, err)

	summaries, err := r.Run(bad, missing, good)
	require.Error(t, err)
	assert.True(t, fault.IsErrParse(err), "joined error must hold the parse error")
	assert.True(t, fault.IsErrSourceUnavailable(err), "joined error must hold the open error")
	assert.True(t, errors.Is(err, os.ErrNotExist))
	require.Len(t, summaries, 3)
	assert.Equal(t, 3, summaries[2].Records(), "files after a failure are still loaded")
	assert.True(t, strings.Contains(err.Error(), "missing.fa"))
}

func TestRunWithOpenerAndMetrics(t *testing.T) {
	ctl := gomock.NewController(t)
	defer ctl.Finish()

	src := mocks.NewMockSource(ctl)
	gomock.InOrder(
		src.EXPECT().Next().Return(record.Borrow(1, []byte("seq1"), []byte("ACGT")), nil),
		src.EXPECT().Next().Return(record.Record{}, io.EOF),
	)
	src.EXPECT().Close().Return(nil)

	observer := mocks.NewMockObserver(ctl)
	observer.EXPECT().PassCompleted(gomock.Any()).Do(func(result core.Result) {
		assert.Equal(t, "virtual", result.Path)
		assert.Equal(t, 1, result.Records)
	})

	r, err := fastaload.New(
		fastaload.WithOpener(func(path string) (core.Source, error) { return src, nil }),
		fastaload.WithMetrics(observer),
		fastaload.WithStrategy("list"),
	)
	require.NoError(t, err)
	assert.Equal(t, core.ListStrategy, r.Strategy())

	_, err = r.Run("virtual")
	require.NoError(t, err)
}
