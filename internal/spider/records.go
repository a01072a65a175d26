package spider

// Wildcard is the field name emitted for the "any column" entry of each table
const (
	Wildcard     = "*"
	WildcardType = "text"
)

// ColumnRecord is one column of one table
type ColumnRecord struct {
	Database string
	Table    string
	Field    string
	Type     string
}

// PrimaryKeyRecord marks Column of Table as part of its primary key
type PrimaryKeyRecord struct {
	Database string
	Table    string
	Column   string
}

// ForeignKeyRecord links FirstTable.FirstColumn to SecondTable.SecondColumn
type ForeignKeyRecord struct {
	Database     string
	FirstTable   string
	SecondTable  string
	FirstColumn  string
	SecondColumn string
}

// Stats summarizes one database of a catalog
type Stats struct {
	Tables      int
	Columns     int
	PrimaryKeys int
	ForeignKeys int
}
