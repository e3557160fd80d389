// Package datasource loads analysis inputs from local files: price series
// and numeric matrices from CSV, and option books from TOML.
package datasource

import (
	"encoding/csv"
	"io"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/seenimoa/finmath/pkg/errors"
	"github.com/seenimoa/finmath/pkg/models"
)

// LoadSeries reads a CSV price series from path. The series is named after
// the file without its extension.
func LoadSeries(path string) (models.PriceSeries, error) {
	f, err := os.Open(path)
	if err != nil {
		return models.PriceSeries{}, errors.Wrapf(err, "open series %s", path)
	}
	defer f.Close()

	name := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	s, err := ReadSeries(f, name)
	if err != nil {
		return models.PriceSeries{}, errors.Wrapf(err, "series %s", path)
	}
	return s, nil
}

// ReadSeries parses a series with either one column (value) or two columns
// (time,value). An optional header row is skipped; lines starting with '#'
// are comments.
func ReadSeries(r io.Reader, name string) (models.PriceSeries, error) {
	rows, _, err := readNumeric(r)
	if err != nil {
		return models.PriceSeries{}, err
	}

	s := models.PriceSeries{Name: name, Values: make([]float64, 0, len(rows))}
	switch len(rows[0]) {
	case 1:
		for _, row := range rows {
			s.Values = append(s.Values, row[0])
		}
	case 2:
		s.Times = make([]float64, 0, len(rows))
		for _, row := range rows {
			s.Times = append(s.Times, row[0])
			s.Values = append(s.Values, row[1])
		}
	default:
		return models.PriceSeries{}, errors.Wrapf(errors.ErrInvalidArgument,
			"series needs 1 or 2 columns, got %d", len(rows[0]))
	}
	return s, nil
}

// LoadMatrix reads a rectangular numeric CSV file, returning its rows and
// the header if one was present.
func LoadMatrix(path string) ([][]float64, []string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "open matrix %s", path)
	}
	defer f.Close()

	rows, header, err := ReadMatrix(f)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "matrix %s", path)
	}
	return rows, header, nil
}

// ReadMatrix parses a rectangular numeric CSV document.
func ReadMatrix(r io.Reader) ([][]float64, []string, error) {
	return readNumeric(r)
}

// SplitTarget separates the last column of rows as the dependent variable.
func SplitTarget(rows [][]float64) ([][]float64, []float64, error) {
	if len(rows) == 0 || len(rows[0]) < 2 {
		return nil, nil, errors.Wrap(errors.ErrInvalidArgument, "need at least one feature column and a target column")
	}
	X := make([][]float64, len(rows))
	y := make([]float64, len(rows))
	for i, row := range rows {
		X[i] = row[:len(row)-1]
		y[i] = row[len(row)-1]
	}
	return X, y, nil
}

func readNumeric(r io.Reader) ([][]float64, []string, error) {
	cr := csv.NewReader(r)
	cr.Comment = '#'
	cr.TrimLeadingSpace = true

	records, err := cr.ReadAll()
	if err != nil {
		return nil, nil, errors.Wrapf(errors.ErrInvalidArgument, "parse csv: %v", err)
	}

	var header []string
	if len(records) > 0 && !isNumeric(records[0][0]) {
		header = records[0]
		records = records[1:]
	}
	if len(records) == 0 {
		return nil, nil, errors.Wrap(errors.ErrInvalidArgument, "no data rows")
	}

	rows := make([][]float64, len(records))
	for i, rec := range records {
		rows[i] = make([]float64, len(rec))
		for j, field := range rec {
			v, err := strconv.ParseFloat(strings.TrimSpace(field), 64)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				return nil, nil, errors.Wrapf(errors.ErrInvalidArgument, "row %d column %d: %q is not a finite number", i+1, j+1, field)
			}
			rows[i][j] = v
		}
	}
	return rows, header, nil
}

func isNumeric(s string) bool {
	_, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return err == nil
}
