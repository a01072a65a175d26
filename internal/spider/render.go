package spider

import (
	"strings"

	"github.com/tordrt/spiderschema/internal/schema"
)

// Option configures a Renderer
type Option func(*Renderer)

// WithLegacyFormat reproduces the reference output byte for byte: an empty
// foreign key list renders as "]" and GetDBSchema swaps the key labels.
func WithLegacyFormat() Option {
	return func(r *Renderer) {
		r.legacy = true
	}
}

// Renderer produces text schemas from a Catalog. All methods are pure
// functions of the database name; unknown names yield empty output.
type Renderer struct {
	catalog *Catalog
	legacy  bool
}

// NewRenderer creates a renderer over a loaded catalog
func NewRenderer(c *Catalog, opts ...Option) *Renderer {
	r := &Renderer{catalog: c}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Catalog returns the catalog the renderer reads from
func (r *Renderer) Catalog() *Catalog {
	return r.catalog
}

// ListFields writes one "Table t, columns = [a,b]" line per table, tables in
// first-seen order and fields in record order.
func (r *Renderer) ListFields(dbID string) string {
	var order []string
	fields := make(map[string][]string)
	for _, col := range r.catalog.lookup(dbID).columns {
		if _, ok := fields[col.Table]; !ok {
			order = append(order, col.Table)
		}
		fields[col.Table] = append(fields[col.Table], col.Field)
	}

	var b strings.Builder
	for _, table := range order {
		b.WriteString("Table ")
		b.WriteString(table)
		b.WriteString(", columns = [")
		b.WriteString(strings.Join(fields[table], ","))
		b.WriteString("]\n")
	}
	return b.String()
}

// ListPrimaryKeys renders "[t.k,t.k]\n"
func (r *Renderer) ListPrimaryKeys(dbID string) string {
	pks := r.catalog.lookup(dbID).primaryKeys
	items := make([]string, 0, len(pks))
	for _, pk := range pks {
		items = append(items, pk.Table+"."+pk.Column)
	}
	return "[" + strings.Join(items, ",") + "]\n"
}

// ListForeignKeys renders "[t1.c1 = t2.c2,...]" without a trailing newline
func (r *Renderer) ListForeignKeys(dbID string) string {
	fks := r.catalog.lookup(dbID).foreignKeys
	if len(fks) == 0 && r.legacy {
		return "]"
	}

	items := make([]string, 0, len(fks))
	for _, fk := range fks {
		items = append(items, fk.FirstTable+"."+fk.FirstColumn+" = "+fk.SecondTable+"."+fk.SecondColumn)
	}
	return "[" + strings.Join(items, ",") + "]"
}

// GetDBSchema concatenates the field listing with the primary and foreign key lines
func (r *Renderer) GetDBSchema(dbID string) string {
	var b strings.Builder
	b.WriteString(r.ListFields(dbID))
	if r.legacy {
		b.WriteString("Foreign_keys = ")
		b.WriteString(r.ListPrimaryKeys(dbID))
		b.WriteString("Primary_keys = ")
		b.WriteString(r.ListForeignKeys(dbID))
		return b.String()
	}
	b.WriteString("Primary_keys = ")
	b.WriteString(r.ListPrimaryKeys(dbID))
	b.WriteString("Foreign_keys = ")
	b.WriteString(r.ListForeignKeys(dbID))
	return b.String()
}

// Schema groups one database by table for the structured formatters.
// Tables follow the document's table list, wildcard columns are dropped and
// each foreign key becomes a relation of its first table.
func (r *Renderer) Schema(dbID string) *schema.Schema {
	db := r.catalog.lookup(dbID)
	s := &schema.Schema{Name: dbID}

	for _, name := range db.tables {
		if s.FindTable(name) == nil {
			s.Tables = append(s.Tables, schema.Table{Name: name})
		}
	}

	for _, col := range db.columns {
		if col.Field == Wildcard {
			continue
		}
		table := s.FindTable(col.Table)
		table.Columns = append(table.Columns, schema.Column{Name: col.Field, Type: col.Type})
	}

	for _, pk := range db.primaryKeys {
		table := s.FindTable(pk.Table)
		table.PrimaryKey = append(table.PrimaryKey, pk.Column)
	}

	for _, fk := range db.foreignKeys {
		table := s.FindTable(fk.FirstTable)
		table.Relations = append(table.Relations, schema.Relation{
			SourceColumn: fk.FirstColumn,
			TargetTable:  fk.SecondTable,
			TargetColumn: fk.SecondColumn,
		})
	}

	return s
}
