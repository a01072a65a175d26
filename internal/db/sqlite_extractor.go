package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/tordrt/spiderschema/internal/schema"
)

// sqliteReader reads the catalog through PRAGMA statements
type sqliteReader struct{}

type sqliteColumn struct {
	name    string
	colType string
	pkOrder int
}

func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func (sqliteReader) tableNames(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT name
		FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		ORDER BY name
	`)
	if err != nil {
		return nil, err
	}
	return scanStrings(rows)
}

func (sqliteReader) tableInfo(ctx context.Context, db *sql.DB, table string) ([]sqliteColumn, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quoteIdent(table)))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []sqliteColumn
	for rows.Next() {
		var cid, notNull int
		var col sqliteColumn
		var defaultValue sql.NullString

		if err := rows.Scan(&cid, &col.name, &col.colType, &notNull, &defaultValue, &col.pkOrder); err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func (r sqliteReader) columns(ctx context.Context, db *sql.DB, table string) ([]schema.Column, error) {
	info, err := r.tableInfo(ctx, db, table)
	if err != nil {
		return nil, err
	}

	columns := make([]schema.Column, 0, len(info))
	for _, col := range info {
		columns = append(columns, schema.Column{Name: col.name, Type: col.colType})
	}
	return columns, nil
}

// primaryKey orders columns by their position in the key, not in the table
func (r sqliteReader) primaryKey(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	info, err := r.tableInfo(ctx, db, table)
	if err != nil {
		return nil, err
	}

	var pk []string
	for order := 1; ; order++ {
		found := false
		for _, col := range info {
			if col.pkOrder == order {
				pk = append(pk, col.name)
				found = true
			}
		}
		if !found {
			return pk, nil
		}
	}
}

func (r sqliteReader) relations(ctx context.Context, db *sql.DB, table string) ([]schema.Relation, error) {
	rows, err := db.QueryContext(ctx, fmt.Sprintf("PRAGMA foreign_key_list(%s)", quoteIdent(table)))
	if err != nil {
		return nil, err
	}

	type pending struct {
		rel schema.Relation
		seq int
		// target column omitted: the key references the target's primary key
		implicit bool
	}

	var found []pending
	for rows.Next() {
		var id, seq int
		var targetTable, fromCol, onUpdate, onDelete, match string
		var toCol sql.NullString

		if err := rows.Scan(&id, &seq, &targetTable, &fromCol, &toCol, &onUpdate, &onDelete, &match); err != nil {
			_ = rows.Close()
			return nil, err
		}

		found = append(found, pending{
			rel: schema.Relation{
				SourceColumn: fromCol,
				TargetTable:  targetTable,
				TargetColumn: toCol.String,
			},
			seq:      seq,
			implicit: !toCol.Valid,
		})
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	relations := make([]schema.Relation, 0, len(found))
	for _, p := range found {
		if p.implicit {
			pk, err := r.primaryKey(ctx, db, p.rel.TargetTable)
			if err != nil {
				return nil, err
			}
			if p.seq >= len(pk) {
				continue
			}
			p.rel.TargetColumn = pk[p.seq]
		}
		relations = append(relations, p.rel)
	}
	return relations, nil
}
