// Package report collects the outcome of a run for printing and for a
// YAML report file.
package report

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/0xRadioAc7iv/go-fastaload/core"
)

// Report is the outcome of one run over a set of files.
type Report struct {
	ID           string    `yaml:"id"`
	Started      time.Time `yaml:"started"`
	TotalRecords int       `yaml:"total_records"`
	Files        []File    `yaml:"files"`
}

// File is the outcome of the repeated passes over one file.
type File struct {
	Path         string  `yaml:"path"`
	Strategy     string  `yaml:"strategy"`
	Records      int     `yaml:"records"`
	TotalSeconds float64 `yaml:"total_seconds"`
	MeanMinutes  int     `yaml:"mean_minutes"`
	MeanSeconds  float64 `yaml:"mean_seconds"`
	Passes       []Pass  `yaml:"passes"`
	Error        string  `yaml:"error,omitempty"`
}

// Pass is one completed pass.
type Pass struct {
	Seconds      float64 `yaml:"seconds"`
	Capacity     int     `yaml:"capacity,omitempty"`
	WastePercent float64 `yaml:"waste_percent,omitempty"`
	PeakBytes    int64   `yaml:"peak_bytes"`
}

// New starts a report with a fresh run id.
func New(started time.Time) *Report {
	return &Report{
		ID:      uuid.New().String(),
		Started: started.UTC(),
		Files:   []File{},
	}
}

// Add appends the summary of one file. A non-nil err marks the file as
// failed; its records are not counted in the total.
func (r *Report) Add(summary core.Summary, err error) {
	minutes, seconds := summary.MeanParts()
	f := File{
		Path:         summary.Path,
		Strategy:     summary.Strategy.String(),
		Records:      summary.Records(),
		TotalSeconds: summary.Total().Seconds(),
		MeanMinutes:  minutes,
		MeanSeconds:  seconds,
		Passes:       make([]Pass, 0, len(summary.Passes)),
	}
	for _, p := range summary.Passes {
		f.Passes = append(f.Passes, Pass{
			Seconds:      p.Elapsed.Seconds(),
			Capacity:     p.Capacity,
			WastePercent: p.Waste,
			PeakBytes:    p.PeakBytes,
		})
	}
	if err != nil {
		f.Error = err.Error()
	} else {
		r.TotalRecords += f.Records
	}
	r.Files = append(r.Files, f)
}

// Failed reports whether any file failed.
func (r *Report) Failed() bool {
	for _, f := range r.Files {
		if f.Error != "" {
			return true
		}
	}
	return false
}

// WriteYAML writes the report to fileName.
func (r *Report) WriteYAML(fileName string) error {
	fh, err := os.Create(fileName)
	if err != nil {
		return err
	}

	encoder := yaml.NewEncoder(fh)
	encoder.SetIndent(2)
	if err := encoder.Encode(r); err != nil {
		fh.Close()
		return err
	}
	if err := encoder.Close(); err != nil {
		fh.Close()
		return err
	}
	return fh.Close()
}

// Read loads a report written by WriteYAML.
func Read(fileName string) (*Report, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	r := &Report{}
	if err := yaml.Unmarshal(data, r); err != nil {
		return nil, err
	}
	return r, nil
}

// WriteText prints the timing lines for one file.
func WriteText(w io.Writer, summary core.Summary) {
	minutes, seconds := summary.MeanParts()
	fmt.Fprintf(w, "%.3f seconds taken for processing total\n", summary.Total().Seconds())
	fmt.Fprintf(w, "On average: %d minutes, %.3f seconds per run\n", minutes, seconds)
	fmt.Fprintf(w, "%d records processed from '%s'\n", summary.Records(), summary.Path)
}

// WriteTotal prints the closing line of a run.
func (r *Report) WriteTotal(w io.Writer) {
	fmt.Fprintf(w, "Total records processed: %d\n", r.TotalRecords)
}
