package main

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/tordrt/spiderschema"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the databases of a tables document",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSchemas(false)
		if err != nil {
			return err
		}
		writeDatabaseTable(cmd.OutOrStdout(), s)
		return nil
	},
}

func writeDatabaseTable(w io.Writer, s *spiderschema.Schemas) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"db_id", "tables", "columns", "primary keys", "foreign keys"})
	table.SetAutoFormatHeaders(false)

	for _, dbID := range s.Databases() {
		stats := s.Stats(dbID)
		table.Append([]string{
			dbID,
			strconv.Itoa(stats.Tables),
			strconv.Itoa(stats.Columns),
			strconv.Itoa(stats.PrimaryKeys),
			strconv.Itoa(stats.ForeignKeys),
		})
	}
	table.Render()
}
