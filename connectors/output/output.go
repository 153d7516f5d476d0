// Package output creates the timestamped directory tree a run writes into.
package output

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/m-mizutani/goerr/v2"
)

const rootPrefix = "IRIS_manuscript_outputs_"

// Layout is the directory tree of one run.
type Layout struct {
	Root      string
	Figure1   string
	Figure2   string
	Figure3   string
	Summaries string
	Datasets  string
}

// Create makes a fresh tree under parent named after now. It fails if the
// root already exists.
func Create(parent string, now time.Time) (*Layout, error) {
	root := filepath.Join(parent, rootPrefix+now.Format("20060102-150405"))
	l := &Layout{
		Root:      root,
		Figure1:   filepath.Join(root, "figure_1"),
		Figure2:   filepath.Join(root, "figure_2"),
		Figure3:   filepath.Join(root, "figure_3"),
		Summaries: filepath.Join(root, "data_and_summaries"),
	}
	l.Datasets = filepath.Join(l.Summaries, "publication_datasets")

	if err := os.MkdirAll(parent, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create output parent", goerr.V("path", parent))
	}
	if err := os.Mkdir(root, 0o755); err != nil {
		return nil, goerr.Wrap(err, "failed to create output root", goerr.V("path", root))
	}
	for _, dir := range []string{l.Figure1, l.Figure2, l.Figure3, l.Summaries, l.Datasets} {
		if err := os.Mkdir(dir, 0o755); err != nil {
			return nil, goerr.Wrap(err, "failed to create output directory", goerr.V("path", dir))
		}
	}
	return l, nil
}

func (l *Layout) Figure1Base() string { return filepath.Join(l.Figure1, "figure_1") }
func (l *Layout) Figure1Data() string { return filepath.Join(l.Figure1, "figure_1_data.xlsx") }
func (l *Layout) Figure2Data() string { return filepath.Join(l.Figure2, "figure_2_data.csv") }
func (l *Layout) Figure3Base() string { return filepath.Join(l.Figure3, "figure_3") }
func (l *Layout) Figure3Data() string { return filepath.Join(l.Figure3, "figure_3_data.csv") }
func (l *Layout) SummaryBook() string { return filepath.Join(l.Summaries, "publication_summaries.xlsx") }
func (l *Layout) IsolateDataset() string { return filepath.Join(l.Datasets, "publication_dataset_iris.csv") }
func (l *Layout) PolicyDataset() string { return filepath.Join(l.Datasets, "publication_dataset_oxcgrt.csv") }
func (l *Layout) MobilityDataset() string { return filepath.Join(l.Datasets, "publication_dataset_google.csv") }

// Figure2Base names the per-species figure, e.g. figure_2_Spneumoniae.
func (l *Layout) Figure2Base(species string) string {
	return filepath.Join(l.Figure2, "figure_2_"+strings.ReplaceAll(species, ". ", ""))
}
