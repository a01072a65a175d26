package spider

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tordrt/spiderschema/internal/schema"
)

func newTestRenderer(t *testing.T, opts ...Option) *Renderer {
	t.Helper()

	empty := Entry{DBID: "empty_db"}
	c, err := Load(Document{concertSinger(), petStore(), empty})
	require.NoError(t, err)
	return NewRenderer(c, opts...)
}

func TestListFields(t *testing.T) {
	r := newTestRenderer(t)

	assert.Equal(t,
		"Table stadium, columns = [*,Stadium_ID]\n"+
			"Table singer, columns = [*,Singer_ID]\n",
		r.ListFields("concert_singer"))

	assert.Equal(t,
		"Table Student, columns = [*,StuID,LName]\n"+
			"Table Has_Pet, columns = [*,StuID,PetID]\n"+
			"Table Pets, columns = [*,PetID,PetType]\n",
		r.ListFields("pets_1"))

	assert.Equal(t, "", r.ListFields("empty_db"))
	assert.Equal(t, "", r.ListFields("unknown"))
}

func TestListFieldsFirstSeenOrder(t *testing.T) {
	// No wildcard, columns interleaved across tables
	e := Entry{
		DBID:       "order_db",
		TableNames: []string{"a", "b"},
		Columns: []ColumnRef{
			{TableIndex: 1, Name: "b1"},
			{TableIndex: 0, Name: "a1"},
			{TableIndex: 1, Name: "b2"},
		},
		ColumnTypes: []string{"text", "text", "text"},
	}
	c, err := Load(Document{e})
	require.NoError(t, err)

	assert.Equal(t,
		"Table b, columns = [b1,b2]\nTable a, columns = [a1]\n",
		NewRenderer(c).ListFields("order_db"))
}

func TestListPrimaryKeys(t *testing.T) {
	r := newTestRenderer(t)

	assert.Equal(t, "[stadium.Stadium_ID,singer.Singer_ID]\n", r.ListPrimaryKeys("concert_singer"))
	assert.Equal(t, "[Student.StuID,Pets.PetID]\n", r.ListPrimaryKeys("pets_1"))
	assert.Equal(t, "[]\n", r.ListPrimaryKeys("empty_db"))
	assert.Equal(t, "[]\n", r.ListPrimaryKeys("unknown"))
}

func TestListForeignKeys(t *testing.T) {
	tests := []struct {
		name   string
		opts   []Option
		dbID   string
		expect string
	}{
		{
			name:   "two keys",
			dbID:   "pets_1",
			expect: "[Has_Pet.StuID = Student.StuID,Has_Pet.PetID = Pets.PetID]",
		},
		{
			name:   "no keys",
			dbID:   "concert_singer",
			expect: "[]",
		},
		{
			name:   "unknown database",
			dbID:   "unknown",
			expect: "[]",
		},
		{
			name:   "legacy no keys",
			opts:   []Option{WithLegacyFormat()},
			dbID:   "concert_singer",
			expect: "]",
		},
		{
			name:   "legacy two keys",
			opts:   []Option{WithLegacyFormat()},
			dbID:   "pets_1",
			expect: "[Has_Pet.StuID = Student.StuID,Has_Pet.PetID = Pets.PetID]",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newTestRenderer(t, tt.opts...)
			assert.Equal(t, tt.expect, r.ListForeignKeys(tt.dbID))
		})
	}
}

func TestGetDBSchema(t *testing.T) {
	fields := "Table stadium, columns = [*,Stadium_ID]\n" +
		"Table singer, columns = [*,Singer_ID]\n"

	r := newTestRenderer(t)
	assert.Equal(t,
		fields+
			"Primary_keys = [stadium.Stadium_ID,singer.Singer_ID]\n"+
			"Foreign_keys = []",
		r.GetDBSchema("concert_singer"))
	assert.Equal(t, "Primary_keys = []\nForeign_keys = []", r.GetDBSchema("unknown"))

	legacy := newTestRenderer(t, WithLegacyFormat())
	assert.Equal(t,
		fields+
			"Foreign_keys = [stadium.Stadium_ID,singer.Singer_ID]\n"+
			"Primary_keys = ]",
		legacy.GetDBSchema("concert_singer"))
	assert.Equal(t,
		"Table Student, columns = [*,StuID,LName]\n"+
			"Table Has_Pet, columns = [*,StuID,PetID]\n"+
			"Table Pets, columns = [*,PetID,PetType]\n"+
			"Foreign_keys = [Student.StuID,Pets.PetID]\n"+
			"Primary_keys = [Has_Pet.StuID = Student.StuID,Has_Pet.PetID = Pets.PetID]",
		legacy.GetDBSchema("pets_1"))
}

func TestRenderDeterministic(t *testing.T) {
	r := newTestRenderer(t)
	want := r.GetDBSchema("pets_1")

	var wg sync.WaitGroup
	results := make([]string, 16)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i] = r.GetDBSchema("pets_1")
		}(i)
	}
	wg.Wait()

	for _, got := range results {
		assert.Equal(t, want, got)
	}
}

func TestRendererSchema(t *testing.T) {
	r := newTestRenderer(t)

	s := r.Schema("pets_1")
	assert.Equal(t, "pets_1", s.Name)
	require.Len(t, s.Tables, 3)

	hasPet := s.FindTable("Has_Pet")
	require.NotNil(t, hasPet)
	assert.Equal(t, []schema.Column{{Name: "StuID", Type: "number"}, {Name: "PetID", Type: "number"}}, hasPet.Columns)
	assert.Empty(t, hasPet.PrimaryKey)
	assert.Equal(t, []schema.Relation{
		{SourceColumn: "StuID", TargetTable: "Student", TargetColumn: "StuID"},
		{SourceColumn: "PetID", TargetTable: "Pets", TargetColumn: "PetID"},
	}, hasPet.Relations)

	student := s.FindTable("Student")
	require.NotNil(t, student)
	assert.Equal(t, []string{"StuID"}, student.PrimaryKey)
	assert.True(t, student.IsPrimaryKey("StuID"))
	assert.False(t, student.IsPrimaryKey("LName"))

	unknown := r.Schema("unknown")
	assert.Equal(t, "unknown", unknown.Name)
	assert.Empty(t, unknown.Tables)
}
