// Package transfer encodes document sets to and from tabular CSV for the
// bulk import and export endpoints.
package transfer

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
)

// ParseCSV reads a header row followed by data rows and produces one raw
// document per row. Cell values are typed by shape: integer, then float,
// then text. Empty cells become nil so absent values stay absent instead of
// turning into empty strings.
func ParseCSV(r io.Reader) ([]bson.M, error) {
	reader := csv.NewReader(r)

	header, err := reader.Read()
	if err == io.EOF {
		return nil, fmt.Errorf("parsing csv: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("parsing csv header: %w", err)
	}

	var docs []bson.M
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("parsing csv row %d: %w", len(docs)+2, err)
		}

		doc := make(bson.M, len(header))
		for i, field := range header {
			if i >= len(record) {
				break
			}
			doc[field] = parseCell(record[i])
		}
		docs = append(docs, doc)
	}
	return docs, nil
}

// WriteCSV encodes documents as CSV with the store identifier column first
// and the remaining columns in alphabetical order, so output is stable
// regardless of document key order.
func WriteCSV(w io.Writer, docs []bson.M) error {
	header := columnOrder(docs)

	writer := csv.NewWriter(w)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("writing csv header: %w", err)
	}

	record := make([]string, len(header))
	for _, doc := range docs {
		for i, field := range header {
			record[i] = formatCell(doc[field])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("writing csv row: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

func columnOrder(docs []bson.M) []string {
	seen := make(map[string]bool)
	var fields []string
	hasID := false
	for _, doc := range docs {
		for field := range doc {
			if seen[field] {
				continue
			}
			seen[field] = true
			if field == "_id" {
				hasID = true
				continue
			}
			fields = append(fields, field)
		}
	}
	sort.Strings(fields)

	if hasID {
		return append([]string{"_id"}, fields...)
	}
	return fields
}

func parseCell(cell string) interface{} {
	if cell == "" {
		return nil
	}
	if n, err := strconv.ParseInt(cell, 10, 64); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(cell, 64); err == nil {
		return f
	}
	return cell
}

func formatCell(value interface{}) string {
	switch v := value.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(v), 'g', -1, 32)
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case bool:
		return strconv.FormatBool(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
