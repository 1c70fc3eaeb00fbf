package commands

import (
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"gopkg.in/yaml.v3"

	"github.com/fivetwenty-io/beer-client/internal/constants"
	"github.com/fivetwenty-io/beer-client/pkg/beer"
)

const timestampLayout = "2006-01-02 15:04:05"

// writeStructured encodes v as JSON or YAML. It reports false for any other
// format so the caller can render a table instead.
func writeStructured(w io.Writer, format string, v interface{}) (bool, error) {
	switch format {
	case constants.FormatJSON:
		encoder := json.NewEncoder(w)
		encoder.SetIndent("", "  ")

		return true, encoder.Encode(v)
	case constants.FormatYAML:
		encoder := yaml.NewEncoder(w)
		defer func() { _ = encoder.Close() }()

		return true, encoder.Encode(v)
	default:
		return false, nil
	}
}

func renderTable(table *tablewriter.Table) error {
	err := table.Render()
	if err != nil {
		return fmt.Errorf("failed to render table: %w", err)
	}

	return nil
}

func formatTimestamp(ts beer.Timestamp) string {
	if ts.IsZero() {
		return constants.NotAvailable
	}

	return ts.Local().Format(timestampLayout)
}

func outputBeers(w io.Writer, format string, beers []beer.Beer) error {
	handled, err := writeStructured(w, format, beers)
	if handled {
		return err
	}

	if len(beers) == 0 {
		_, _ = fmt.Fprintln(w, "No beers found")

		return nil
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Name", "Style", "UPC", "Price", "Quantity")

	for _, item := range beers {
		_ = table.Append(
			item.ID.String(),
			item.Name,
			item.Style.String(),
			item.UPC,
			item.Price.StringFixed(2),
			strconv.Itoa(item.QuantityOnHand),
		)
	}

	return renderTable(table)
}

func outputBeerPage(w io.Writer, format string, page *beer.Page[beer.Beer]) error {
	handled, err := writeStructured(w, format, page)
	if handled {
		return err
	}

	err = outputBeers(w, format, page.Content)
	if err != nil {
		return err
	}

	if page.TotalPages > 0 {
		_, _ = fmt.Fprintf(w, "Page %d of %d (%d total)\n", page.Number+1, page.TotalPages, page.TotalElements)
	}

	return nil
}

func outputBeer(w io.Writer, format string, item *beer.Beer) error {
	handled, err := writeStructured(w, format, item)
	if handled {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("Property", "Value")
	_ = table.Append("ID", item.ID.String())
	_ = table.Append("Version", strconv.Itoa(item.Version))
	_ = table.Append("Name", item.Name)
	_ = table.Append("Style", item.Style.String())
	_ = table.Append("UPC", item.UPC)
	_ = table.Append("Price", item.Price.StringFixed(2))
	_ = table.Append("Quantity", strconv.Itoa(item.QuantityOnHand))
	_ = table.Append("Created", formatTimestamp(item.CreatedDate))
	_ = table.Append("Updated", formatTimestamp(item.UpdatedDate))

	return renderTable(table)
}

// batchRow is the serialized form of a batch result.
type batchRow struct {
	ID       string `json:"id"              yaml:"id"`
	Success  bool   `json:"success"         yaml:"success"`
	Error    string `json:"error,omitempty" yaml:"error,omitempty"`
	Duration string `json:"duration"        yaml:"duration"`
}

func outputBatchResults(w io.Writer, format string, results []beer.BatchResult) error {
	rows := make([]batchRow, 0, len(results))

	for _, result := range results {
		row := batchRow{
			ID:       result.ID,
			Success:  result.Success,
			Duration: result.Duration.Round(time.Millisecond).String(),
		}
		if result.Error != nil {
			row.Error = result.Error.Error()
		}

		rows = append(rows, row)
	}

	handled, err := writeStructured(w, format, rows)
	if handled {
		return err
	}

	table := tablewriter.NewWriter(w)
	table.Header("ID", "Result", "Duration")

	for _, row := range rows {
		status := "ok"
		if !row.Success {
			status = row.Error
		}

		_ = table.Append(row.ID, status, row.Duration)
	}

	return renderTable(table)
}
