package spider

import (
	"fmt"
	"strings"

	"github.com/tordrt/spiderschema/internal/schema"
)

// Column types used by the Spider dataset
const (
	TypeText    = "text"
	TypeNumber  = "number"
	TypeTime    = "time"
	TypeBoolean = "boolean"
	TypeOthers  = "others"
)

var numberTypes = map[string]bool{
	"int": true, "integer": true, "bigint": true, "smallint": true, "tinyint": true, "mediumint": true,
	"int2": true, "int4": true, "int8": true, "serial": true, "bigserial": true, "smallserial": true,
	"real": true, "float": true, "float4": true, "float8": true, "double": true,
	"decimal": true, "numeric": true, "number": true, "money": true,
}

var textTypes = map[string]bool{
	"string": true, "uuid": true, "enum": true, "set": true, "json": true, "jsonb": true, "xml": true,
}

// NormalizeType maps a database column type onto the Spider type set
func NormalizeType(dbType string) string {
	t := strings.ToLower(strings.TrimSpace(dbType))
	if i := strings.IndexAny(t, "( "); i >= 0 {
		t = t[:i]
	}

	switch {
	case t == "":
		return TypeOthers
	case strings.HasPrefix(t, "bool"):
		return TypeBoolean
	case strings.Contains(t, "date"), strings.Contains(t, "time"), t == "year", t == "interval":
		return TypeTime
	case strings.Contains(t, "char"), strings.Contains(t, "text"), strings.Contains(t, "clob"), textTypes[t]:
		return TypeText
	case numberTypes[t]:
		return TypeNumber
	default:
		return TypeOthers
	}
}

// EntryFromSchema builds a document entry from an extracted schema. The
// wildcard column comes first, as in the Spider dataset. Relations whose
// target is not part of s are dropped.
func EntryFromSchema(dbID string, s *schema.Schema) (Entry, error) {
	e := Entry{
		DBID:        dbID,
		Columns:     []ColumnRef{{TableIndex: -1, Name: Wildcard}},
		ColumnTypes: []string{WildcardType},
		PrimaryKeys: []int{},
		ForeignKeys: [][2]int{},

		NormalizedColumns: []ColumnRef{{TableIndex: -1, Name: Wildcard}},
	}

	positions := make(map[string]map[string]int, len(s.Tables))
	for ti, table := range s.Tables {
		e.TableNames = append(e.TableNames, table.Name)
		e.NormalizedTables = append(e.NormalizedTables, normalizeName(table.Name))

		positions[table.Name] = make(map[string]int, len(table.Columns))
		for _, col := range table.Columns {
			positions[table.Name][col.Name] = len(e.Columns)
			e.Columns = append(e.Columns, ColumnRef{TableIndex: ti, Name: col.Name})
			e.NormalizedColumns = append(e.NormalizedColumns, ColumnRef{TableIndex: ti, Name: normalizeName(col.Name)})
			e.ColumnTypes = append(e.ColumnTypes, NormalizeType(col.Type))
		}
	}

	for _, table := range s.Tables {
		for _, pk := range table.PrimaryKey {
			i, ok := positions[table.Name][pk]
			if !ok {
				return Entry{}, fmt.Errorf("primary key column %s.%s not found", table.Name, pk)
			}
			e.PrimaryKeys = append(e.PrimaryKeys, i)
		}

		for _, rel := range table.Relations {
			source, ok := positions[table.Name][rel.SourceColumn]
			if !ok {
				return Entry{}, fmt.Errorf("foreign key column %s.%s not found", table.Name, rel.SourceColumn)
			}
			target, ok := positions[rel.TargetTable][rel.TargetColumn]
			if !ok {
				continue
			}
			e.ForeignKeys = append(e.ForeignKeys, [2]int{source, target})
		}
	}

	return e, nil
}

func normalizeName(name string) string {
	return strings.ToLower(strings.ReplaceAll(name, "_", " "))
}
