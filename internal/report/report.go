// Package report writes run reports as REL lines, CSV or JSON.
package report

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	internalErrors "github.com/gcbaptista/go-retrieval-engine/internal/errors"
	"github.com/gcbaptista/go-retrieval-engine/model"
)

// Format selects the output encoding of a report.
type Format string

const (
	FormatREL  Format = "rel"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat accepts a format name, case-insensitively.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatREL, FormatCSV, FormatJSON:
		return f, nil
	}
	return "", internalErrors.NewValidationError("format", fmt.Sprintf("unknown report format '%s' (must be rel, csv or json)", name))
}

// Write encodes report to w in the given format.
func Write(w io.Writer, format Format, report *model.RunReport) error {
	switch format {
	case FormatREL:
		return WriteREL(w, report)
	case FormatCSV:
		return WriteCSV(w, report)
	case FormatJSON:
		return WriteJSON(w, report)
	}
	return internalErrors.NewValidationError("format", fmt.Sprintf("unknown report format '%s'", format))
}

// WriteREL writes one line per query:
//
//	Q<id> D<doc> <score> ... P<precision> R<recall> F<f-measure> AP<average precision>
//
// Queries that were not evaluated carry no metric fields.
func WriteREL(w io.Writer, report *model.RunReport) error {
	var b strings.Builder
	for _, result := range report.Results {
		b.Reset()
		b.WriteString("Q")
		b.WriteString(result.QueryID)
		for _, hit := range result.Hits {
			b.WriteString(" D")
			b.WriteString(hit.DocumentID)
			b.WriteString(" ")
			b.WriteString(formatFloat(hit.Score))
		}
		if result.Evaluated {
			m := result.Metrics
			fmt.Fprintf(&b, " P%s R%s F%s AP%s",
				formatFloat(m.Precision),
				formatFloat(m.Recall),
				formatFloat(m.FMeasure),
				formatFloat(m.AveragePrecision),
			)
		}
		b.WriteString("\n")
		if _, err := io.WriteString(w, b.String()); err != nil {
			return fmt.Errorf("failed to write query %s: %w", result.QueryID, err)
		}
	}
	return nil
}

var csvHeader = []string{
	"query_id", "rank", "document_id", "score",
	"evaluated", "precision", "recall", "f_measure", "average_precision", "precision_at_k",
}

// WriteCSV writes a header and one row per hit. Query metrics repeat on
// every row of the query; a query without hits gets one row with empty
// rank, document and score.
func WriteCSV(w io.Writer, report *model.RunReport) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}

	for _, result := range report.Results {
		m := result.Metrics
		tail := []string{
			strconv.FormatBool(result.Evaluated),
			formatFloat(m.Precision),
			formatFloat(m.Recall),
			formatFloat(m.FMeasure),
			formatFloat(m.AveragePrecision),
			formatFloat(m.PrecisionAtK),
		}
		if len(result.Hits) == 0 {
			if err := cw.Write(append([]string{result.QueryID, "", "", ""}, tail...)); err != nil {
				return err
			}
			continue
		}
		for rank, hit := range result.Hits {
			row := append([]string{result.QueryID, strconv.Itoa(rank + 1), hit.DocumentID, formatFloat(hit.Score)}, tail...)
			if err := cw.Write(row); err != nil {
				return err
			}
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteJSON writes the whole report as indented JSON.
func WriteJSON(w io.Writer, report *model.RunReport) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(report)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
