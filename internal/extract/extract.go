// Package extract turns repeated elements of a page, typically table rows,
// into flat records.
package extract

import (
	"context"
	"fmt"
	"strings"

	"github.com/themizzi/shopcheck/internal/browser"
)

// Record maps a field name to the visible text read for it.
type Record map[string]string

// Field binds a record key to a selector relative to the row.
type Field struct {
	Name     string
	Selector string
}

// Schema describes how to read records out of a container.
type Schema struct {
	// Rows selects the row elements inside the container.
	Rows string
	// Fields are read from every data row, in order.
	Fields []Field
	// HeaderRows leading rows are skipped by index.
	HeaderRows int
}

// Extract reads one Record per data row of root, in document order. A field
// whose cell cannot be resolved fails the whole extraction.
func Extract(ctx context.Context, root browser.Locator, schema Schema) ([]Record, error) {
	rows, err := root.Locator(schema.Rows).All(ctx)
	if err != nil {
		return nil, fmt.Errorf("list rows: %w", err)
	}

	skip := schema.HeaderRows
	if skip < 0 {
		skip = 0
	}
	if skip >= len(rows) {
		return []Record{}, nil
	}

	records := make([]Record, 0, len(rows)-skip)
	for i, row := range rows[skip:] {
		rec := make(Record, len(schema.Fields))
		for _, f := range schema.Fields {
			text, err := row.Locator(f.Selector).InnerText(ctx)
			if err != nil {
				return nil, fmt.Errorf("row %d field %s: %w", i+skip, f.Name, err)
			}
			rec[f.Name] = text
		}
		records = append(records, rec)
	}
	return records, nil
}

// Filter keeps the records whose field equals value, ignoring case. Order is
// preserved and no match yields an empty slice.
func Filter(records []Record, field, value string) []Record {
	want := strings.ToLower(value)
	out := make([]Record, 0)
	for _, r := range records {
		if strings.ToLower(r[field]) == want {
			out = append(out, r)
		}
	}
	return out
}

// ExtractAs is Extract followed by a conversion of every record.
func ExtractAs[T any](ctx context.Context, root browser.Locator, schema Schema, conv func(Record) T) ([]T, error) {
	records, err := Extract(ctx, root, schema)
	if err != nil {
		return nil, err
	}
	out := make([]T, len(records))
	for i, r := range records {
		out[i] = conv(r)
	}
	return out, nil
}

// FilterBy keeps the items whose key equals value, ignoring case.
func FilterBy[T any](items []T, key func(T) string, value string) []T {
	want := strings.ToLower(value)
	out := make([]T, 0)
	for _, it := range items {
		if strings.ToLower(key(it)) == want {
			out = append(out, it)
		}
	}
	return out
}
