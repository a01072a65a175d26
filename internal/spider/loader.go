package spider

import "slices"

// Catalog holds the flattened records of every database in a document.
// It is immutable once Load returns and may be shared between goroutines.
type Catalog struct {
	columns     []ColumnRecord
	primaryKeys []PrimaryKeyRecord
	foreignKeys []ForeignKeyRecord

	databases  []string
	byDatabase map[string]*database
}

// database is the slice of the catalog owned by one db_id
type database struct {
	tables      []string
	columns     []ColumnRecord
	primaryKeys []PrimaryKeyRecord
	foreignKeys []ForeignKeyRecord
}

// Load flattens a document into a Catalog. Records keep document order, both
// within an entry and across entries. Any unresolvable index aborts the load.
func Load(doc Document) (*Catalog, error) {
	c := &Catalog{byDatabase: make(map[string]*database)}

	for _, e := range doc {
		db, err := loadEntry(e)
		if err != nil {
			return nil, err
		}
		c.add(e.DBID, db)
	}

	return c, nil
}

func loadEntry(e Entry) (*database, error) {
	ix, err := newColumnIndex(e)
	if err != nil {
		return nil, err
	}

	db := &database{
		tables:  slices.Clone(e.TableNames),
		columns: expandWildcards(e.DBID, e.TableNames, ix.columns),
	}

	for _, i := range e.PrimaryKeys {
		col, err := ix.key("primary_keys", i)
		if err != nil {
			return nil, err
		}
		db.primaryKeys = append(db.primaryKeys, PrimaryKeyRecord{
			Database: e.DBID,
			Table:    col.table,
			Column:   col.name,
		})
	}

	for _, pair := range e.ForeignKeys {
		first, err := ix.key("foreign_keys", pair[0])
		if err != nil {
			return nil, err
		}
		second, err := ix.key("foreign_keys", pair[1])
		if err != nil {
			return nil, err
		}
		db.foreignKeys = append(db.foreignKeys, ForeignKeyRecord{
			Database:     e.DBID,
			FirstTable:   first.table,
			SecondTable:  second.table,
			FirstColumn:  first.name,
			SecondColumn: second.name,
		})
	}

	return db, nil
}

// expandWildcards turns resolved columns into records. Each wildcard entry is
// replaced, in place, by one "*" record per table of the database.
func expandWildcards(dbID string, tables []string, resolved []resolvedColumn) []ColumnRecord {
	records := make([]ColumnRecord, 0, len(resolved)+len(tables))
	for _, col := range resolved {
		if col.wildcard() {
			for _, table := range tables {
				records = append(records, ColumnRecord{
					Database: dbID,
					Table:    table,
					Field:    Wildcard,
					Type:     WildcardType,
				})
			}
			continue
		}
		records = append(records, ColumnRecord{
			Database: dbID,
			Table:    col.table,
			Field:    col.name,
			Type:     col.typ,
		})
	}
	return records
}

func (c *Catalog) add(dbID string, db *database) {
	c.columns = append(c.columns, db.columns...)
	c.primaryKeys = append(c.primaryKeys, db.primaryKeys...)
	c.foreignKeys = append(c.foreignKeys, db.foreignKeys...)

	existing, ok := c.byDatabase[dbID]
	if !ok {
		c.databases = append(c.databases, dbID)
		c.byDatabase[dbID] = db
		return
	}

	// Repeated db_id: later entries extend the earlier one
	existing.tables = append(existing.tables, db.tables...)
	existing.columns = append(existing.columns, db.columns...)
	existing.primaryKeys = append(existing.primaryKeys, db.primaryKeys...)
	existing.foreignKeys = append(existing.foreignKeys, db.foreignKeys...)
}

// lookup returns the records of one database, or an empty view
func (c *Catalog) lookup(dbID string) *database {
	if db, ok := c.byDatabase[dbID]; ok {
		return db
	}
	return &database{}
}

// Columns returns a copy of every column record
func (c *Catalog) Columns() []ColumnRecord {
	return slices.Clone(c.columns)
}

// PrimaryKeys returns a copy of every primary key record
func (c *Catalog) PrimaryKeys() []PrimaryKeyRecord {
	return slices.Clone(c.primaryKeys)
}

// ForeignKeys returns a copy of every foreign key record
func (c *Catalog) ForeignKeys() []ForeignKeyRecord {
	return slices.Clone(c.foreignKeys)
}

// Databases returns database ids in the order they first appear
func (c *Catalog) Databases() []string {
	return slices.Clone(c.databases)
}

// Has reports whether the document described dbID
func (c *Catalog) Has(dbID string) bool {
	_, ok := c.byDatabase[dbID]
	return ok
}

// Stats counts the tables, real columns and keys of one database
func (c *Catalog) Stats(dbID string) Stats {
	db := c.lookup(dbID)

	columns := 0
	for _, col := range db.columns {
		if col.Field != Wildcard {
			columns++
		}
	}

	return Stats{
		Tables:      len(db.tables),
		Columns:     columns,
		PrimaryKeys: len(db.primaryKeys),
		ForeignKeys: len(db.foreignKeys),
	}
}
