// Copyright (c) 2025 BVK Chaitanya

package cmdutil

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"golang.org/x/term"
)

// IsTerminal reports if the standard output is a terminal.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// PrintJSON writes the value as indented json.
func PrintJSON(w io.Writer, v any) error {
	js, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\n", js)
	return err
}

// PrintTable writes the rows as aligned columns under the header.
func PrintTable(w io.Writer, header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// Print writes the rows as a table when standard output is a terminal and
// the value as json otherwise.
func Print(v any, header []string, rows [][]string) error {
	if IsTerminal() {
		return PrintTable(os.Stdout, header, rows)
	}
	return PrintJSON(os.Stdout, v)
}
