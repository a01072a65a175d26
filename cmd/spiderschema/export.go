package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tordrt/spiderschema"
	"github.com/tordrt/spiderschema/internal/spider"
)

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export a live database as a Spider tables document entry",
	Long: `Export connects to PostgreSQL, MySQL, or SQLite, reads tables, columns,
primary keys and foreign keys, and writes them as a Spider tables document.
Column types are normalized to text, number, time, boolean or others.`,
	RunE: runExport,
}

func init() {
	flags := exportCmd.Flags()
	flags.String("db-url", "", "PostgreSQL connection string")
	flags.String("mysql-url", "", "MySQL connection string")
	flags.String("sqlite", "", "SQLite database file path")
	flags.String("db-id", "", "db_id of the exported entry (default: SQLite file name)")
	flags.StringP("schema", "s", "", "database schema name (default: public for PostgreSQL, DSN database for MySQL)")
	flags.StringP("tables", "t", "", "specific tables (comma-separated, optional)")
	flags.String("exclude", "", "tables to leave out (comma-separated, optional)")
	flags.StringP("output", "o", "", "output document, .json or .yaml (default: JSON on stdout)")
	flags.Bool("append", false, "add the entry to an existing output document, replacing one with the same db_id")

	for _, name := range []string{"db-url", "mysql-url", "sqlite", "db-id", "schema", "tables", "exclude", "output", "append"} {
		mustBind("export."+name, flags.Lookup(name))
	}
}

func runExport(cmd *cobra.Command, args []string) error {
	databaseURL, err := databaseURLFromFlags(
		viper.GetString("export.db-url"),
		viper.GetString("export.mysql-url"),
		viper.GetString("export.sqlite"),
	)
	if err != nil {
		return err
	}

	dbID := viper.GetString("export.db-id")
	if dbID == "" {
		sqlitePath := viper.GetString("export.sqlite")
		if sqlitePath == "" {
			return fmt.Errorf("--db-id is required for PostgreSQL and MySQL")
		}
		dbID = strings.TrimSuffix(filepath.Base(sqlitePath), filepath.Ext(sqlitePath))
	}

	entry, err := spiderschema.ExportDatabase(cmd.Context(), databaseURL, dbID, &spiderschema.ExportOptions{
		Tables:        parseTableList(viper.GetString("export.tables")),
		ExcludeTables: parseTableList(viper.GetString("export.exclude")),
		SchemaName:    viper.GetString("export.schema"),
	})
	if err != nil {
		return fmt.Errorf("failed to export schema: %w", err)
	}
	log.Info().
		Str("db_id", dbID).
		Int("tables", len(entry.TableNames)).
		Int("columns", len(entry.Columns)-1).
		Int("foreign_keys", len(entry.ForeignKeys)).
		Msg("schema exported")

	output := viper.GetString("export.output")
	if output == "" {
		return spider.Encode(cmd.OutOrStdout(), spider.Document{entry}, spider.FormatJSON)
	}

	doc := spider.Document{}
	if viper.GetBool("export.append") {
		doc, err = readExisting(output)
		if err != nil {
			return err
		}
	}
	return spider.WriteFile(output, mergeEntry(doc, entry))
}

// databaseURLFromFlags turns the three connection flags into one URL
func databaseURLFromFlags(dbURL, mysqlURL, sqlitePath string) (string, error) {
	var urls []string
	if dbURL != "" {
		urls = append(urls, dbURL)
	}
	if mysqlURL != "" {
		if !strings.HasPrefix(mysqlURL, "mysql://") {
			mysqlURL = "mysql://" + mysqlURL
		}
		urls = append(urls, mysqlURL)
	}
	if sqlitePath != "" {
		urls = append(urls, "sqlite://"+sqlitePath)
	}

	switch len(urls) {
	case 0:
		return "", fmt.Errorf("one of --db-url, --mysql-url, or --sqlite must be specified")
	case 1:
		return urls[0], nil
	default:
		return "", fmt.Errorf("only one of --db-url, --mysql-url, or --sqlite can be specified")
	}
}

func readExisting(path string) (spider.Document, error) {
	doc, err := spider.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return spider.Document{}, nil
	}
	if err != nil {
		return nil, err
	}
	return doc, nil
}

// mergeEntry replaces the entry with the same db_id, or appends
func mergeEntry(doc spider.Document, entry spider.Entry) spider.Document {
	for i := range doc {
		if doc[i].DBID == entry.DBID {
			doc[i] = entry
			return doc
		}
	}
	return append(doc, entry)
}
