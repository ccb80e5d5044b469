package utils

import (
	"io"

	"bom-dashboard/internal/bom"

	"github.com/jedib0t/go-pretty/v6/table"
)

func NewTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetStyle(table.StyleRounded)
	t.SetOutputMirror(w)
	return t
}

// RenderRecords prints rows with one column per field.
func RenderRecords(w io.Writer, rows []bom.Record) {
	columns := bom.Columns(rows)

	t := NewTable(w)
	header := table.Row{}
	for _, column := range columns {
		header = append(header, column)
	}
	t.AppendHeader(header)

	for _, row := range rows {
		out := make(table.Row, len(columns))
		for i, column := range columns {
			out[i] = row.Text(column)
		}
		t.AppendRow(out)
	}
	t.Render()
}

// RenderPairs prints a two column key/value table.
func RenderPairs(w io.Writer, title string, pairs [][2]any) {
	t := NewTable(w)
	t.SetTitle(title)
	for _, pair := range pairs {
		t.AppendRow(table.Row{pair[0], pair[1]})
	}
	t.Render()
}
