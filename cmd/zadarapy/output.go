package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"golang.org/x/term"

	"github.com/liliang-cn/zadarapy/pkg/client"
)

const (
	msgSuccess     = "Command returned success"
	msgEmptyResult = "An empty result set was returned"
)

// printer renders an API response according to the output flags.
type printer struct {
	out         io.Writer
	in          io.Reader
	json        bool
	fields      []string
	vertical    bool
	interactive bool
}

// parseFields splits the --return-fields value. Empty entries are dropped.
func parseFields(s string) []string {
	var fields []string
	for _, f := range strings.Split(s, ",") {
		if f = strings.TrimSpace(f); f != "" {
			fields = append(fields, f)
		}
	}
	return fields
}

// print writes resp to the output. returnKey names the section of the body
// holding the result and may be empty for commands that return nothing.
func (p *printer) print(resp *client.Response, returnKey string) error {
	if p.json {
		return p.printJSON(resp)
	}
	if returnKey == "" {
		_, err := fmt.Fprintln(p.out, msgSuccess)
		return err
	}

	data, ok := resp.Section(returnKey)
	if !ok {
		_, err := fmt.Fprintln(p.out, msgEmptyResult)
		return err
	}

	switch v := data.(type) {
	case []any:
		records := toRecords(v)
		if len(records) == 0 {
			_, err := fmt.Fprintln(p.out, msgEmptyResult)
			return err
		}
		return p.printRecords(p.filter(records))
	case map[string]any:
		return p.printRecords(p.filter([]map[string]any{v}))
	default:
		_, err := fmt.Fprintln(p.out, formatValue(v))
		return err
	}
}

func (p *printer) printJSON(resp *client.Response) error {
	if len(resp.Raw) == 0 {
		_, err := fmt.Fprintln(p.out, "{}")
		return err
	}
	_, err := fmt.Fprintln(p.out, strings.TrimSpace(string(resp.Raw)))
	return err
}

func (p *printer) printRecords(records []map[string]any) error {
	if p.vertical {
		for _, r := range records {
			if _, err := fmt.Fprintln(p.out, RenderStaticTable(recordTitle(r), nil, keyValueRows(r))); err != nil {
				return err
			}
		}
		return nil
	}

	headers, rows := tabulate(records)
	title := fmt.Sprintf("Count: %d", len(records))
	if p.interactive && isTerminal(p.out) {
		return runInteractive(p.in, p.out, NewTableModel(title, headers, rows, 20))
	}
	_, err := fmt.Fprintln(p.out, RenderStaticTable(title, headers, rows))
	return err
}

// isTerminal reports whether w is an interactive terminal. The interactive
// table falls back to the static one when output is piped.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// filter keeps only the requested fields of every record.
func (p *printer) filter(records []map[string]any) []map[string]any {
	if len(p.fields) == 0 {
		return records
	}
	out := make([]map[string]any, 0, len(records))
	for _, r := range records {
		kept := make(map[string]any, len(p.fields))
		for _, f := range p.fields {
			if v, ok := r[f]; ok {
				kept[f] = v
			}
		}
		out = append(out, kept)
	}
	return out
}

// toRecords converts list items to records. Scalar items are wrapped under
// a "value" key.
func toRecords(items []any) []map[string]any {
	records := make([]map[string]any, 0, len(items))
	for _, item := range items {
		if m, ok := item.(map[string]any); ok {
			records = append(records, m)
			continue
		}
		records = append(records, map[string]any{"value": item})
	}
	return records
}

// tabulate uses the sorted keys of the first record as columns.
func tabulate(records []map[string]any) ([]string, [][]string) {
	headers := sortedKeys(records[0])
	rows := make([][]string, 0, len(records))
	for _, r := range records {
		row := make([]string, len(headers))
		for i, h := range headers {
			if v, ok := r[h]; ok {
				row[i] = formatValue(v)
			}
		}
		rows = append(rows, row)
	}
	return headers, rows
}

func keyValueRows(r map[string]any) [][]string {
	keys := sortedKeys(r)
	rows := make([][]string, 0, len(keys))
	for _, k := range keys {
		rows = append(rows, []string{k, formatValue(r[k])})
	}
	return rows
}

func recordTitle(r map[string]any) string {
	for _, k := range []string{"display_name", "name"} {
		if v, ok := r[k]; ok && v != nil {
			return formatValue(v)
		}
	}
	return ""
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// formatValue renders a cell. Nested values are compact JSON.
func formatValue(v any) string {
	switch t := v.(type) {
	case nil:
		return "null"
	case string:
		return t
	case json.Number:
		return t.String()
	case bool:
		if t {
			return "true"
		}
		return "false"
	case []any, map[string]any:
		b, err := json.Marshal(t)
		if err != nil {
			return fmt.Sprint(t)
		}
		return string(b)
	default:
		return fmt.Sprint(t)
	}
}
