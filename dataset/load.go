package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/Amansingh-afk/hdspace/hdc"
)

// LoadDataset reads a delimited sample file: the header's first column is
// a sample-id label, the remaining columns are feature names up to an
// optional "#" sentinel cell (anything after it, including more cells, is
// a trailing comment and is ignored). Without a sentinel the header may
// also name the class column last: when the first data row has exactly one
// field per header cell, that last header cell is taken as the class
// column's name, not a feature. Each data row is sample-id, one numeric
// cell per feature, then a trailing class label. Blank lines and lines
// starting with "#" are skipped entirely.
//
// It returns the sample-id column, the feature names, the parsed numeric
// matrix (rows x features), and the trailing class label per row — shaped
// so the result feeds classify.MLModel.Fit(X, classes, features) directly.
func LoadDataset(path string, sep rune) (samples, features []string, X [][]float64, classes []string, err error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("%w: opening %q: %v", hdc.ErrIO, path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = sep
	r.FieldsPerRecord = -1
	r.Comment = '#'
	r.TrimLeadingSpace = true

	header, err := r.Read()
	if err != nil {
		return nil, nil, nil, nil, fmt.Errorf("%w: reading header of %q: %v", hdc.ErrIO, path, err)
	}
	if len(header) < 2 {
		return nil, nil, nil, nil, fmt.Errorf("%w: header of %q needs a sample-id column and at least one feature", hdc.ErrDataShape, path)
	}
	features = headerFeatures(header[1:])
	if len(features) == 0 {
		return nil, nil, nil, nil, fmt.Errorf("%w: header of %q names no feature columns", hdc.ErrDataShape, path)
	}

	for {
		row, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, nil, nil, fmt.Errorf("%w: reading %q: %v", hdc.ErrIO, path, err)
		}
		line, _ := r.FieldPos(0)

		if len(X) == 0 && len(features) > 1 && len(features) == len(header)-1 && len(row) == len(header) {
			features = features[:len(features)-1]
		}

		want := len(features) + 2
		if len(row) != want {
			return nil, nil, nil, nil, fmt.Errorf("%w: line %d of %q has %d fields, want %d", hdc.ErrDataShape, line, path, len(row), want)
		}

		values := make([]float64, len(features))
		for i, cell := range row[1 : len(row)-1] {
			v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
			if err != nil {
				return nil, nil, nil, nil, fmt.Errorf("%w: line %d of %q: field %q is not numeric", hdc.ErrDataShape, line, path, cell)
			}
			values[i] = v
		}

		samples = append(samples, row[0])
		X = append(X, values)
		classes = append(classes, row[len(row)-1])
	}

	if len(X) == 0 {
		return nil, nil, nil, nil, fmt.Errorf("%w: %q has a header but no data rows", hdc.ErrDataShape, path)
	}
	return samples, features, X, classes, nil
}

// headerFeatures returns the feature-name cells up to (not including) the
// first "#" sentinel cell, if any.
func headerFeatures(cells []string) []string {
	out := make([]string, 0, len(cells))
	for _, c := range cells {
		if strings.HasPrefix(strings.TrimSpace(c), "#") {
			break
		}
		out = append(out, c)
	}
	return out
}
