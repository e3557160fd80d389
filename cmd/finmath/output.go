package main

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/seenimoa/finmath/pkg/errors"
)

// Output formats accepted by --output and output.format.
const (
	formatTable = "table"
	formatJSON  = "json"
	formatYAML  = "yaml"
)

// render writes v as JSON or YAML, or calls table for the tabular form.
func render(w io.Writer, format string, v any, table func(tw *tabwriter.Writer)) error {
	switch format {
	case formatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case formatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	case formatTable, "":
		tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
		table(tw)
		return tw.Flush()
	default:
		return fmt.Errorf("unknown output format %q (want table, json or yaml)", format)
	}
}

// errorKind names the taxonomy class of err, or "error" for anything else.
func errorKind(err error) string {
	if k := errors.Kind(err); k != nil {
		return k.Error()
	}
	return "error"
}

// money formats an amount with thousands separators and two decimals.
func money(v float64) string {
	return humanize.FormatFloat("#,###.##", v)
}

// num formats a model value for tables.
func num(v float64) string {
	return fmt.Sprintf("%.4f", v)
}

// row writes tab-separated cells followed by a newline.
func row(tw io.Writer, cells ...any) {
	for i, c := range cells {
		if i > 0 {
			fmt.Fprint(tw, "\t")
		}
		fmt.Fprint(tw, c)
	}
	fmt.Fprintln(tw)
}
