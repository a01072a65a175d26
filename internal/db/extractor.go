package db

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/tordrt/spiderschema/internal/schema"
)

// catalogReader reads one engine's system catalog
type catalogReader interface {
	tableNames(ctx context.Context, db *sql.DB) ([]string, error)
	columns(ctx context.Context, db *sql.DB, table string) ([]schema.Column, error)
	primaryKey(ctx context.Context, db *sql.DB, table string) ([]string, error)
	relations(ctx context.Context, db *sql.DB, table string) ([]schema.Relation, error)
}

// Extractor handles schema extraction for any supported dialect
type Extractor struct {
	client *Client
	reader catalogReader
}

// NewExtractor creates a schema extractor. schemaName selects the PostgreSQL
// schema or MySQL database and is ignored for SQLite.
func NewExtractor(client *Client, schemaName string) (*Extractor, error) {
	var reader catalogReader
	switch client.Dialect() {
	case Postgres:
		reader = newPostgresReader(schemaName)
	case MySQL:
		reader = newMySQLReader(schemaName)
	case SQLite:
		reader = sqliteReader{}
	default:
		return nil, fmt.Errorf("unsupported database type: %s", client.Dialect())
	}

	return &Extractor{client: client, reader: reader}, nil
}

// ExtractSchema extracts the complete schema for specified tables
// If tables is empty, extracts all tables in the schema
func (e *Extractor) ExtractSchema(ctx context.Context, tables []string) (*schema.Schema, error) {
	tableNames := tables
	if len(tableNames) == 0 {
		var err error
		tableNames, err = e.reader.tableNames(ctx, e.client.GetDB())
		if err != nil {
			return nil, fmt.Errorf("failed to get table names: %w", err)
		}
	}

	s := &schema.Schema{}
	for _, tableName := range tableNames {
		table, err := e.extractTable(ctx, tableName)
		if err != nil {
			return nil, fmt.Errorf("failed to extract table %s: %w", tableName, err)
		}
		s.Tables = append(s.Tables, *table)
	}

	return s, nil
}

// extractTable extracts all information for a single table
func (e *Extractor) extractTable(ctx context.Context, tableName string) (*schema.Table, error) {
	db := e.client.GetDB()
	table := &schema.Table{Name: tableName}

	columns, err := e.reader.columns(ctx, db, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract columns: %w", err)
	}
	if len(columns) == 0 {
		return nil, fmt.Errorf("table not found or has no columns")
	}
	table.Columns = columns

	pk, err := e.reader.primaryKey(ctx, db, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract primary key: %w", err)
	}
	table.PrimaryKey = pk

	relations, err := e.reader.relations(ctx, db, tableName)
	if err != nil {
		return nil, fmt.Errorf("failed to extract relations: %w", err)
	}
	table.Relations = relations

	return table, nil
}

// scanStrings collects the single string column of a result set
func scanStrings(rows *sql.Rows) ([]string, error) {
	defer rows.Close()

	var out []string
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
