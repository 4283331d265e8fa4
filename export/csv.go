/*
Package export serializes report rows for download.

PURPOSE:
  Turns the tabular rows shaped by engine.TabularRows into a CSV byte
  stream with the conventional report filename. Field escaping has already
  been applied by the engine (fields containing the separator arrive
  quoted), so serialization here is a plain join - re-escaping would
  double-quote the escaped fields.
*/
package export

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/warp/pto-center/engine"
)

// MediaType is the content type for the exported report.
const MediaType = "text/csv; charset=utf-8"

// filenamePrefix is the fixed report filename prefix.
const filenamePrefix = "pto_report"

// Filename returns the download filename for a report generated now:
// pto_report_YYYY-MM-DD.csv.
func Filename(now time.Time) string {
	return fmt.Sprintf("%s_%s.csv", filenamePrefix, engine.DateOf(now))
}

// WriteCSV writes the header and rows as CSV to w.
func WriteCSV(w io.Writer, rows [][]string) error {
	if _, err := io.WriteString(w, strings.Join(engine.ReportHeader, ",")+"\n"); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := io.WriteString(w, strings.Join(row, ",")+"\n"); err != nil {
			return err
		}
	}
	return nil
}
