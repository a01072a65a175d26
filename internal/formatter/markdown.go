package formatter

import (
	"fmt"
	"io"

	"github.com/tordrt/spiderschema/internal/schema"
)

// MarkdownFormatter formats schema as markdown
type MarkdownFormatter struct {
	writer io.Writer
}

// NewMarkdownFormatter creates a new markdown formatter
func NewMarkdownFormatter(w io.Writer) *MarkdownFormatter {
	return &MarkdownFormatter{writer: w}
}

// Format writes the schema in markdown format
func (f *MarkdownFormatter) Format(s *schema.Schema) error {
	title := "# Database Schema"
	if s.Name != "" {
		title += ": " + s.Name
	}
	if _, err := fmt.Fprintf(f.writer, "%s\n\n", title); err != nil {
		return err
	}

	for _, table := range s.Tables {
		f.FormatTable(table)
	}
	return nil
}

// FormatTable writes a single table section (shared with the multi-file formatter)
func (f *MarkdownFormatter) FormatTable(table schema.Table) {
	_, _ = fmt.Fprintf(f.writer, "## %s\n\n", table.Name)
	f.formatColumns(table)
	f.formatReferences(table)
}

func (f *MarkdownFormatter) formatColumns(table schema.Table) {
	_, _ = fmt.Fprintln(f.writer, "### Columns")
	_, _ = fmt.Fprintln(f.writer)

	if len(table.Columns) == 0 {
		_, _ = fmt.Fprintln(f.writer, "_none_")
	}
	for _, col := range table.Columns {
		if table.IsPrimaryKey(col.Name) {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s, PK\n", col.Name, col.Type)
		} else {
			_, _ = fmt.Fprintf(f.writer, "- **%s:** %s\n", col.Name, col.Type)
		}
	}
	_, _ = fmt.Fprintln(f.writer)
}

func (f *MarkdownFormatter) formatReferences(table schema.Table) {
	if len(table.Relations) == 0 {
		return
	}

	_, _ = fmt.Fprintln(f.writer, "### References")
	_, _ = fmt.Fprintln(f.writer)
	for _, rel := range table.Relations {
		_, _ = fmt.Fprintf(f.writer, "- %s → %s.%s\n", rel.SourceColumn, rel.TargetTable, rel.TargetColumn)
	}
	_, _ = fmt.Fprintln(f.writer)
}
