package db

import (
	"context"
	"database/sql"

	"github.com/tordrt/spiderschema/internal/schema"
)

// infoSchemaReader reads information_schema. Every per-table query takes
// (schema, table) as its two arguments, in that order.
type infoSchemaReader struct {
	schemaName     string
	tablesQuery    string
	columnsQuery   string
	primaryQuery   string
	relationsQuery string
}

func newPostgresReader(schemaName string) infoSchemaReader {
	if schemaName == "" {
		schemaName = "public"
	}

	return infoSchemaReader{
		schemaName: schemaName,
		tablesQuery: `
			SELECT table_name
			FROM information_schema.tables
			WHERE table_schema = $1 AND table_type = 'BASE TABLE'
			ORDER BY table_name
		`,
		columnsQuery: `
			SELECT column_name, data_type
			FROM information_schema.columns
			WHERE table_schema = $1 AND table_name = $2
			ORDER BY ordinal_position
		`,
		primaryQuery: `
			SELECT kcu.column_name
			FROM information_schema.table_constraints tc
			JOIN information_schema.key_column_usage kcu
				ON tc.constraint_name = kcu.constraint_name
				AND tc.table_schema = kcu.table_schema
				AND tc.table_name = kcu.table_name
			WHERE tc.constraint_type = 'PRIMARY KEY'
				AND tc.table_schema = $1
				AND tc.table_name = $2
			ORDER BY kcu.ordinal_position
		`,
		relationsQuery: `
			SELECT
				kcu.column_name,
				ccu.table_name AS foreign_table_name,
				ccu.column_name AS foreign_column_name
			FROM information_schema.table_constraints AS tc
			JOIN information_schema.key_column_usage AS kcu
				ON tc.constraint_name = kcu.constraint_name
				AND tc.table_schema = kcu.table_schema
			JOIN information_schema.constraint_column_usage AS ccu
				ON ccu.constraint_name = tc.constraint_name
				AND ccu.table_schema = tc.table_schema
			WHERE tc.constraint_type = 'FOREIGN KEY'
				AND tc.table_schema = $1
				AND tc.table_name = $2
			ORDER BY tc.constraint_name, kcu.ordinal_position
		`,
	}
}

func newMySQLReader(schemaName string) infoSchemaReader {
	return infoSchemaReader{
		schemaName: schemaName,
		tablesQuery: `
			SELECT table_name
			FROM information_schema.tables
			WHERE table_schema = ? AND table_type = 'BASE TABLE'
			ORDER BY table_name
		`,
		columnsQuery: `
			SELECT column_name, column_type
			FROM information_schema.columns
			WHERE table_schema = ? AND table_name = ?
			ORDER BY ordinal_position
		`,
		primaryQuery: `
			SELECT column_name
			FROM information_schema.key_column_usage
			WHERE table_schema = ?
				AND table_name = ?
				AND constraint_name = 'PRIMARY'
			ORDER BY ordinal_position
		`,
		relationsQuery: `
			SELECT column_name, referenced_table_name, referenced_column_name
			FROM information_schema.key_column_usage
			WHERE table_schema = ?
				AND table_name = ?
				AND referenced_table_name IS NOT NULL
			ORDER BY constraint_name, ordinal_position
		`,
	}
}

func (r infoSchemaReader) tableNames(ctx context.Context, db *sql.DB) ([]string, error) {
	rows, err := db.QueryContext(ctx, r.tablesQuery, r.schemaName)
	if err != nil {
		return nil, err
	}
	return scanStrings(rows)
}

func (r infoSchemaReader) columns(ctx context.Context, db *sql.DB, table string) ([]schema.Column, error) {
	rows, err := db.QueryContext(ctx, r.columnsQuery, r.schemaName, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []schema.Column
	for rows.Next() {
		var col schema.Column
		if err := rows.Scan(&col.Name, &col.Type); err != nil {
			return nil, err
		}
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func (r infoSchemaReader) primaryKey(ctx context.Context, db *sql.DB, table string) ([]string, error) {
	rows, err := db.QueryContext(ctx, r.primaryQuery, r.schemaName, table)
	if err != nil {
		return nil, err
	}
	return scanStrings(rows)
}

func (r infoSchemaReader) relations(ctx context.Context, db *sql.DB, table string) ([]schema.Relation, error) {
	rows, err := db.QueryContext(ctx, r.relationsQuery, r.schemaName, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var relations []schema.Relation
	for rows.Next() {
		var rel schema.Relation
		if err := rows.Scan(&rel.SourceColumn, &rel.TargetTable, &rel.TargetColumn); err != nil {
			return nil, err
		}
		relations = append(relations, rel)
	}
	return relations, rows.Err()
}
