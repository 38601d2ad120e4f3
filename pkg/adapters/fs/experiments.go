package fs

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aretw0/memoria/pkg/core"
)

// decodeExperiments parses the experiment store. The first row names the columns;
// rows may be shorter or longer than the header. It returns the rows read before
// a corrupt row together with the error.
func decodeExperiments(content string, delim rune) ([]core.ExperimentRecord, error) {
	reader := csv.NewReader(strings.NewReader(content))
	reader.Comma = delim
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	headers, err := reader.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("%w: header: %v", core.ErrMalformedStore, err)
	}
	for i, h := range headers {
		headers[i] = strings.ToLower(strings.TrimSpace(h))
	}

	var records []core.ExperimentRecord
	for n := 0; ; n++ {
		row, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return records, fmt.Errorf("%w: row %d: %v", core.ErrMalformedStore, n+2, err)
		}
		records = append(records, newExperimentRecord(n+2, headers, row))
	}
	return records, nil
}

func newExperimentRecord(rowNum int, headers, row []string) core.ExperimentRecord {
	fields := make(map[string]string, len(headers))
	for i, h := range headers {
		if i < len(row) {
			fields[h] = row[i]
		} else {
			fields[h] = ""
		}
	}
	return core.ExperimentRecord{
		Row:           rowNum,
		Timestamp:     fields["timestamp"],
		ExperimentID:  fields["experiment_id"],
		Hypothesis:    fields["hypothesis"],
		Dataset:       fields["dataset"],
		Model:         fields["model"],
		Spec:          fields["spec"],
		Metrics:       fields["metrics"],
		Notes:         fields["notes"],
		ResearchPhase: fields["research_phase"],
		Fields:        fields,
	}
}

// encodeExperiments writes rows (and the header when requested) as delimited text.
func encodeExperiments(rows [][]string, delim rune, withHeader bool) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = delim
	if withHeader {
		if err := w.Write(core.ExperimentColumns); err != nil {
			return nil, err
		}
	}
	if err := w.WriteAll(rows); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// experimentRow lays out an experiment in column order.
func experimentRow(e core.ExperimentInput, timestamp, id string, phases []string) ([]string, error) {
	metrics, err := marshalMetrics(e.Metrics)
	if err != nil {
		return nil, err
	}
	return []string{
		timestamp,
		id,
		e.Hypothesis,
		e.Dataset,
		e.Model,
		e.Spec,
		metrics,
		e.Notes,
		strings.Join(phases, ","),
	}, nil
}

// marshalMetrics keeps metrics opaque, compacting JSON and defaulting to "{}".
func marshalMetrics(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "{}", nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, raw); err != nil {
		return "", errors.Join(errors.New("invalid metrics"), err)
	}
	return buf.String(), nil
}
