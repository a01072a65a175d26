package spider

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func concertSinger() Entry {
	return Entry{
		DBID:       "concert_singer",
		TableNames: []string{"stadium", "singer"},
		Columns: []ColumnRef{
			{TableIndex: -1, Name: "*"},
			{TableIndex: 0, Name: "Stadium_ID"},
			{TableIndex: 1, Name: "Singer_ID"},
		},
		ColumnTypes: []string{"text", "int", "int"},
		PrimaryKeys: []int{1, 2},
	}
}

func petStore() Entry {
	return Entry{
		DBID:       "pets_1",
		TableNames: []string{"Student", "Has_Pet", "Pets"},
		Columns: []ColumnRef{
			{TableIndex: -1, Name: "*"},
			{TableIndex: 0, Name: "StuID"},
			{TableIndex: 0, Name: "LName"},
			{TableIndex: 1, Name: "StuID"},
			{TableIndex: 1, Name: "PetID"},
			{TableIndex: 2, Name: "PetID"},
			{TableIndex: 2, Name: "PetType"},
		},
		ColumnTypes: []string{"text", "number", "text", "number", "number", "number", "text"},
		PrimaryKeys: []int{1, 5},
		ForeignKeys: [][2]int{{3, 1}, {4, 5}},
	}
}

func TestLoad(t *testing.T) {
	c, err := Load(Document{concertSinger(), petStore()})
	require.NoError(t, err)

	assert.Equal(t, []string{"concert_singer", "pets_1"}, c.Databases())

	cols := c.Columns()
	require.Len(t, cols, 4+9)
	assert.Equal(t, ColumnRecord{Database: "concert_singer", Table: "stadium", Field: "*", Type: "text"}, cols[0])
	assert.Equal(t, ColumnRecord{Database: "concert_singer", Table: "singer", Field: "*", Type: "text"}, cols[1])
	assert.Equal(t, ColumnRecord{Database: "concert_singer", Table: "stadium", Field: "Stadium_ID", Type: "int"}, cols[2])
	assert.Equal(t, ColumnRecord{Database: "pets_1", Table: "Pets", Field: "PetType", Type: "text"}, cols[len(cols)-1])

	assert.Equal(t, []PrimaryKeyRecord{
		{Database: "concert_singer", Table: "stadium", Column: "Stadium_ID"},
		{Database: "concert_singer", Table: "singer", Column: "Singer_ID"},
		{Database: "pets_1", Table: "Student", Column: "StuID"},
		{Database: "pets_1", Table: "Pets", Column: "PetID"},
	}, c.PrimaryKeys())

	assert.Equal(t, []ForeignKeyRecord{
		{Database: "pets_1", FirstTable: "Has_Pet", SecondTable: "Student", FirstColumn: "StuID", SecondColumn: "StuID"},
		{Database: "pets_1", FirstTable: "Has_Pet", SecondTable: "Pets", FirstColumn: "PetID", SecondColumn: "PetID"},
	}, c.ForeignKeys())
}

func TestLoadAccessorsReturnCopies(t *testing.T) {
	c, err := Load(Document{concertSinger()})
	require.NoError(t, err)

	cols := c.Columns()
	cols[0].Field = "mutated"
	dbs := c.Databases()
	dbs[0] = "mutated"

	assert.Equal(t, "*", c.Columns()[0].Field)
	assert.Equal(t, []string{"concert_singer"}, c.Databases())
}

func TestExpandWildcards(t *testing.T) {
	tables := []string{"a", "b", "c"}
	resolved := []resolvedColumn{
		{tableIndex: -1, name: "*", typ: "ignored"},
		{tableIndex: 1, table: "b", name: "id", typ: "number"},
	}

	records := expandWildcards("db", tables, resolved)

	require.Len(t, records, 4)
	wildcards := map[string]int{}
	for _, r := range records[:3] {
		assert.Equal(t, Wildcard, r.Field)
		assert.Equal(t, WildcardType, r.Type)
		wildcards[r.Table]++
	}
	assert.Equal(t, map[string]int{"a": 1, "b": 1, "c": 1}, wildcards)
	assert.Equal(t, ColumnRecord{Database: "db", Table: "b", Field: "id", Type: "number"}, records[3])
}

func TestLoadMalformed(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(e *Entry)
		wantField string
	}{
		{
			name:      "primary key out of range",
			mutate:    func(e *Entry) { e.PrimaryKeys = []int{7} },
			wantField: "primary_keys",
		},
		{
			name:      "negative primary key",
			mutate:    func(e *Entry) { e.PrimaryKeys = []int{-1} },
			wantField: "primary_keys",
		},
		{
			name:      "foreign key out of range",
			mutate:    func(e *Entry) { e.ForeignKeys = [][2]int{{1, 3}} },
			wantField: "foreign_keys",
		},
		{
			name:      "table index out of range",
			mutate:    func(e *Entry) { e.Columns[2].TableIndex = 2 },
			wantField: "column_names_original",
		},
		{
			name:      "table index below wildcard",
			mutate:    func(e *Entry) { e.Columns[1].TableIndex = -2 },
			wantField: "column_names_original",
		},
		{
			name:      "missing column type",
			mutate:    func(e *Entry) { e.ColumnTypes = e.ColumnTypes[:2] },
			wantField: "column_types",
		},
		{
			name:      "key on wildcard",
			mutate:    func(e *Entry) { e.PrimaryKeys = []int{0} },
			wantField: "primary_keys",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := concertSinger()
			tt.mutate(&e)

			c, err := Load(Document{petStore(), e})
			require.Error(t, err)
			assert.Nil(t, c)
			assert.True(t, errors.Is(err, ErrMalformedInput))

			var malformed *MalformedInputError
			require.True(t, errors.As(err, &malformed))
			assert.Equal(t, "concert_singer", malformed.Database)
			assert.Equal(t, tt.wantField, malformed.Field)
		})
	}
}

func TestLoadRepeatedDatabase(t *testing.T) {
	second := Entry{
		DBID:        "concert_singer",
		TableNames:  []string{"concert"},
		Columns:     []ColumnRef{{TableIndex: 0, Name: "concert_ID"}},
		ColumnTypes: []string{"number"},
	}

	c, err := Load(Document{concertSinger(), second})
	require.NoError(t, err)

	assert.Equal(t, []string{"concert_singer"}, c.Databases())
	assert.Equal(t, Stats{Tables: 3, Columns: 3, PrimaryKeys: 2, ForeignKeys: 0}, c.Stats("concert_singer"))
}

func TestStats(t *testing.T) {
	c, err := Load(Document{concertSinger(), petStore()})
	require.NoError(t, err)

	assert.Equal(t, Stats{Tables: 3, Columns: 6, PrimaryKeys: 2, ForeignKeys: 2}, c.Stats("pets_1"))
	assert.Equal(t, Stats{}, c.Stats("unknown"))
	assert.True(t, c.Has("pets_1"))
	assert.False(t, c.Has("unknown"))
}
