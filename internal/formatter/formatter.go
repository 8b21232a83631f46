// package formatter renders events and favorites for the CLI (table, JSON, YAML, CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/desertthunder/niagara/internal/models"
	"github.com/desertthunder/niagara/internal/shared"
	"gopkg.in/yaml.v3"
)

// Format names an output format.
type Format string

const (
	Table    Format = "table"
	JSON     Format = "json"
	YAML     Format = "yaml"
	CSV      Format = "csv"
	Markdown Format = "markdown"
	Text     Format = "text"
)

// Formats lists every supported format.
var Formats = []Format{Table, JSON, YAML, CSV, Markdown, Text}

// ParseFormat validates s. An empty string is [Table].
func ParseFormat(s string) (Format, error) {
	if s == "" {
		return Table, nil
	}
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	if f == "md" {
		return Markdown, nil
	}
	for _, known := range Formats {
		if f == known {
			return f, nil
		}
	}
	return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, s)
}

// EventRow is an event with its favorite marker.
type EventRow struct {
	models.Event `yaml:",inline"`
	Saved        bool `json:"saved" yaml:"saved"`
}

// Heart returns the marker shown next to an event.
func (r EventRow) Heart() string {
	if r.Saved {
		return "♥"
	}
	return "♡"
}

// Rows pairs events with their membership in saved.
func Rows(events []models.Event, saved models.FavoriteSet) []EventRow {
	rows := make([]EventRow, 0, len(events))
	for _, e := range events {
		rows = append(rows, EventRow{Event: e, Saved: saved.Has(e.ID)})
	}
	return rows
}

// Write renders rows in format to w. title heads the Markdown and text forms.
func Write(w io.Writer, format Format, title string, rows []EventRow) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case Table, "":
		return WriteTable(w, rows)
	case JSON:
		data, err = ExportToJSON(rows)
	case YAML:
		data, err = ExportToYAML(rows)
	case CSV:
		data, err = ExportToCSV(rows)
	case Markdown:
		data, err = ExportToMarkdown(title, rows)
	case Text:
		data, err = ExportToText(title, rows)
	default:
		return fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}
	if err != nil {
		return err
	}
	_, err = w.Write(data)
	return err
}

// WriteTable writes aligned columns: marker, id, title, date, category, price.
func WriteTable(w io.Writer, rows []EventRow) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, " \tID\tTITLE\tDATE\tCATEGORY\tPRICE")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Heart(), r.ID, r.Title, r.Date, r.Category, r.PriceLabel())
	}
	return tw.Flush()
}

// ExportToJSON renders rows as an indented JSON array.
func ExportToJSON(rows []EventRow) ([]byte, error) {
	if rows == nil {
		rows = []EventRow{}
	}
	data, err := json.MarshalIndent(rows, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to marshal JSON: %w", err)
	}
	return append(data, '\n'), nil
}

// ExportToYAML renders rows as a YAML sequence.
func ExportToYAML(rows []EventRow) ([]byte, error) {
	if rows == nil {
		rows = []EventRow{}
	}
	data, err := yaml.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal YAML: %w", err)
	}
	return data, nil
}

// ExportToCSV renders rows with columns: ID, Title, Date, Time, Category, Location, Price, Interested, Saved
func ExportToCSV(rows []EventRow) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"ID", "Title", "Date", "Time", "Category", "Location", "Price", "Interested", "Saved"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range rows {
		record := []string{
			string(r.ID),
			r.Title,
			r.Date,
			r.Time,
			r.Category,
			r.Location,
			strconv.FormatFloat(r.Price, 'f', -1, 64),
			strconv.Itoa(r.Interested),
			strconv.FormatBool(r.Saved),
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToMarkdown renders rows as a heading and a numbered list.
func ExportToMarkdown(title string, rows []EventRow) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "# %s\n\n", title)
	fmt.Fprintf(&buf, "**Events**: %d\n\n", len(rows))

	for i, r := range rows {
		fmt.Fprintf(&buf, "%d. %s **%s** (%s)\n", i+1, r.Heart(), r.Title, r.Category)
		fmt.Fprintf(&buf, "   %s, %s at %s. %s\n", r.Date, r.Time, r.Location, r.PriceLabel())
	}

	return buf.Bytes(), nil
}

// ExportToText renders rows as plain lines.
func ExportToText(title string, rows []EventRow) ([]byte, error) {
	var buf bytes.Buffer

	fmt.Fprintf(&buf, "%s\n", title)
	fmt.Fprintf(&buf, "Events: %d\n\n", len(rows))

	for i, r := range rows {
		fmt.Fprintf(&buf, "%d. [%s] %s - %s (%s)\n", i+1, r.ID, r.Title, r.Date, r.PriceLabel())
	}

	return buf.Bytes(), nil
}

// WriteFile renders rows in format to the file at path.
func WriteFile(path string, format Format, title string, rows []EventRow) error {
	var buf bytes.Buffer
	if err := Write(&buf, format, title, rows); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}
