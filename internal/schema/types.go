package schema

// Schema represents one database grouped by table
type Schema struct {
	Name   string
	Tables []Table
}

// Table represents a database table
type Table struct {
	Name       string
	Columns    []Column
	Relations  []Relation
	PrimaryKey []string
}

// Column represents a table column
type Column struct {
	Name string
	Type string
}

// Relation represents a foreign key from SourceColumn to TargetTable.TargetColumn
type Relation struct {
	SourceColumn string
	TargetTable  string
	TargetColumn string
}

// FindTable returns the table with the given name, or nil
func (s *Schema) FindTable(name string) *Table {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// IsPrimaryKey reports whether column is part of the table's primary key
func (t *Table) IsPrimaryKey(column string) bool {
	for _, pk := range t.PrimaryKey {
		if pk == column {
			return true
		}
	}
	return false
}
