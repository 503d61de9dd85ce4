package simulator

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/OldStager01/sales-forecaster/pkg/models"
)

// PredictCSV scores every data row of a CSV with the profit model. Cells are
// read as features in column order; a first row that does not parse is
// treated as the header.
func (s *Simulator) PredictCSV(r io.Reader) ([]float64, error) {
	reader := csv.NewReader(r)
	reader.TrimLeadingSpace = true

	m := s.models[models.ModelProfit]
	var predictions []float64
	for line := 1; ; line++ {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		features, err := parseRow(record)
		if err != nil {
			if line == 1 {
				continue
			}
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		value, err := m.Predict(features)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}
		predictions = append(predictions, value)
	}

	if len(predictions) == 0 {
		return nil, ErrNotEnoughInput
	}
	return predictions, nil
}

func parseRow(record []string) ([]float64, error) {
	features := make([]float64, len(record))
	for i, cell := range record {
		v, err := strconv.ParseFloat(strings.TrimSpace(cell), 64)
		if err != nil {
			return nil, fmt.Errorf("column %d: %q is not a number", i+1, cell)
		}
		features[i] = v
	}
	return features, nil
}
