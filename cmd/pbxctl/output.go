package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/tidwall/gjson"
	"gopkg.in/yaml.v3"
)

// column is a table column read from the record's JSON by gjson path
type column struct {
	Header string
	Path   string
}

// printRecords writes records in format. Tables show columns; json and yaml
// show every field the API returned.
func printRecords(out io.Writer, format string, records interface{}, columns []column) error {
	raw, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}

	switch format {
	case OutputJSON:
		data, err := json.MarshalIndent(records, "", "  ")
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		_, err = fmt.Fprintf(out, "%s\n", data)
		return err

	case OutputYAML:
		var generic interface{}
		if err := json.Unmarshal(raw, &generic); err != nil {
			return err
		}
		data, err := yaml.Marshal(generic)
		if err != nil {
			return fmt.Errorf("encoding output: %w", err)
		}
		_, err = out.Write(data)
		return err

	default:
		rows := gjson.ParseBytes(raw)
		if !rows.IsArray() {
			rows = gjson.Parse("[" + rows.Raw + "]")
		}
		return printTable(out, rows.Array(), columns)
	}
}

func printTable(out io.Writer, rows []gjson.Result, columns []column) error {
	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)

	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = c.Header
	}
	fmt.Fprintln(w, strings.Join(headers, "\t"))

	for _, row := range rows {
		cells := make([]string, len(columns))
		for i, c := range columns {
			v := row.Get(c.Path)
			if !v.Exists() || v.Type == gjson.Null {
				cells[i] = "-"
				continue
			}
			cells[i] = v.String()
		}
		fmt.Fprintln(w, strings.Join(cells, "\t"))
	}
	return w.Flush()
}
