package spider

import "fmt"

// resolvedColumn is a column entry with its table index already looked up
type resolvedColumn struct {
	tableIndex int
	table      string
	name       string
	typ        string
}

func (c resolvedColumn) wildcard() bool {
	return c.tableIndex == -1
}

// columnIndex maps positions in column_names_original to resolved columns.
// It is built once per entry so that every bad reference fails in one place.
type columnIndex struct {
	database string
	columns  []resolvedColumn
}

func newColumnIndex(e Entry) (*columnIndex, error) {
	ix := &columnIndex{
		database: e.DBID,
		columns:  make([]resolvedColumn, 0, len(e.Columns)),
	}

	for i, ref := range e.Columns {
		if i >= len(e.ColumnTypes) {
			return nil, &MalformedInputError{
				Database: e.DBID,
				Field:    "column_types",
				Index:    i,
				Len:      len(e.ColumnTypes),
			}
		}

		if ref.TableIndex == -1 {
			ix.columns = append(ix.columns, resolvedColumn{tableIndex: -1, name: Wildcard, typ: WildcardType})
			continue
		}

		if ref.TableIndex < 0 || ref.TableIndex >= len(e.TableNames) {
			return nil, &MalformedInputError{
				Database: e.DBID,
				Field:    "column_names_original",
				Index:    ref.TableIndex,
				Len:      len(e.TableNames),
				Reason: fmt.Sprintf("column %d (%s): table index %d out of range [0, %d)",
					i, ref.Name, ref.TableIndex, len(e.TableNames)),
			}
		}

		ix.columns = append(ix.columns, resolvedColumn{
			tableIndex: ref.TableIndex,
			table:      e.TableNames[ref.TableIndex],
			name:       ref.Name,
			typ:        e.ColumnTypes[i],
		})
	}

	return ix, nil
}

// key resolves a primary or foreign key reference. Keys may not point at the
// wildcard entry.
func (ix *columnIndex) key(field string, i int) (resolvedColumn, error) {
	if i < 0 || i >= len(ix.columns) {
		return resolvedColumn{}, &MalformedInputError{
			Database: ix.database,
			Field:    field,
			Index:    i,
			Len:      len(ix.columns),
		}
	}

	col := ix.columns[i]
	if col.wildcard() {
		return resolvedColumn{}, &MalformedInputError{
			Database: ix.database,
			Field:    field,
			Index:    i,
			Len:      len(ix.columns),
			Reason:   fmt.Sprintf("index %d references the wildcard column", i),
		}
	}
	return col, nil
}
