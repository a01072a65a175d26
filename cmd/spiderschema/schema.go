package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"golang.org/x/sync/errgroup"

	"github.com/tordrt/spiderschema"
)

// Parts of a spider-format rendering
const (
	partAll     = "all"
	partFields  = "fields"
	partPrimary = "primary"
	partForeign = "foreign"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [db_id...]",
	Short: "Render the schema of one or more databases",
	Long: `Render database schemas from a Spider tables document.

With --format spider (the default) the output is the compact prompt format:

  Table stadium, columns = [*,Stadium_ID,Location]
  Primary_keys = [stadium.Stadium_ID]
  Foreign_keys = []

Unknown db_ids are not an error; they render as an empty schema.`,
	RunE: runSchema,
}

func init() {
	flags := schemaCmd.Flags()
	flags.String("part", partAll, "spider format part: all, fields, primary or foreign")
	flags.StringP("format", "f", spiderschema.FormatSpider, "output format: spider, text or markdown")
	flags.Bool("legacy", false, "reproduce the reference output exactly (swapped key labels, \"]\" for no foreign keys)")
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.StringP("output-dir", "d", "", "write one file (spider) or directory (text, markdown) per database")
	flags.Bool("all", false, "render every database in the document")
	flags.Int("jobs", 4, "databases rendered concurrently with --output-dir")

	for _, name := range []string{"part", "format", "legacy", "output", "output-dir", "all", "jobs"} {
		mustBind("schema."+name, flags.Lookup(name))
	}
}

func runSchema(cmd *cobra.Command, args []string) error {
	format := viper.GetString("schema.format")
	part := viper.GetString("schema.part")
	outputFile := viper.GetString("schema.output")
	outputDir := viper.GetString("schema.output-dir")

	if err := validatePart(format, part); err != nil {
		return err
	}
	if outputDir != "" && outputFile != "" {
		return fmt.Errorf("cannot use both --output-dir and --output flags")
	}

	s, err := loadSchemas(viper.GetBool("schema.legacy"))
	if err != nil {
		return err
	}

	dbIDs := args
	if viper.GetBool("schema.all") {
		dbIDs = s.Databases()
	}
	if len(dbIDs) == 0 {
		return fmt.Errorf("at least one db_id or --all must be given")
	}
	for _, dbID := range dbIDs {
		if !s.Catalog().Has(dbID) {
			log.Warn().Str("db_id", dbID).Msg("database not found in document, rendering empty schema")
		}
	}

	if outputDir != "" {
		return renderToDir(cmd.Context(), s, dbIDs, outputDir, format, part, viper.GetInt("schema.jobs"))
	}

	var writer io.Writer = os.Stdout
	if outputFile != "" {
		f, err := os.Create(outputFile)
		if err != nil {
			return fmt.Errorf("failed to create output file: %w", err)
		}
		defer func() {
			if err := f.Close(); err != nil {
				log.Warn().Err(err).Msg("failed to close output file")
			}
		}()
		writer = f
	}

	for i, dbID := range dbIDs {
		if i > 0 {
			_, _ = fmt.Fprintln(writer)
		}
		if err := renderDatabase(writer, s, dbID, format, part); err != nil {
			return fmt.Errorf("failed to render %s: %w", dbID, err)
		}
	}
	return nil
}

// renderToDir renders each database into dir concurrently. The loaded
// schemas are read-only, so renders share them without locking.
func renderToDir(ctx context.Context, s *spiderschema.Schemas, dbIDs []string, dir, format, part string, jobs int) error {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if jobs < 1 {
		jobs = 1
	}

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(jobs)
	for _, dbID := range dbIDs {
		dbID := dbID
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			if format != spiderschema.FormatSpider {
				target := filepath.Join(dir, dbID)
				log.Debug().Str("db_id", dbID).Str("dir", target).Msg("writing tables")
				return spiderschema.FormatDatabase(s, dbID, &spiderschema.OutputOptions{OutputDir: target, Format: format})
			}

			target := filepath.Join(dir, dbID+".txt")
			log.Debug().Str("db_id", dbID).Str("file", target).Msg("writing schema")
			f, err := os.Create(target)
			if err != nil {
				return fmt.Errorf("failed to create %s: %w", target, err)
			}
			if err := renderDatabase(f, s, dbID, format, part); err != nil {
				_ = f.Close()
				return fmt.Errorf("failed to render %s: %w", dbID, err)
			}
			return f.Close()
		})
	}

	if err := eg.Wait(); err != nil {
		return err
	}
	log.Info().Int("databases", len(dbIDs)).Str("dir", dir).Msg("schemas written")
	return nil
}

func renderDatabase(w io.Writer, s *spiderschema.Schemas, dbID, format, part string) error {
	if format != spiderschema.FormatSpider {
		return spiderschema.FormatDatabase(s, dbID, &spiderschema.OutputOptions{Writer: w, Format: format})
	}

	out, err := renderPart(s, dbID, part)
	if err != nil {
		return err
	}
	if !strings.HasSuffix(out, "\n") {
		out += "\n"
	}
	_, err = io.WriteString(w, out)
	return err
}

func renderPart(s *spiderschema.Schemas, dbID, part string) (string, error) {
	switch part {
	case partAll:
		return s.GetDBSchema(dbID), nil
	case partFields:
		return s.ListFields(dbID), nil
	case partPrimary:
		return s.ListPrimaryKeys(dbID), nil
	case partForeign:
		return s.ListForeignKeys(dbID), nil
	default:
		return "", fmt.Errorf("invalid part: %s (must be all, fields, primary or foreign)", part)
	}
}

func validatePart(format, part string) error {
	switch format {
	case spiderschema.FormatSpider, spiderschema.FormatText, spiderschema.FormatMarkdown:
	default:
		return fmt.Errorf("invalid format: %s (must be 'spider', 'text' or 'markdown')", format)
	}
	switch part {
	case partAll:
		return nil
	case partFields, partPrimary, partForeign:
		if format != spiderschema.FormatSpider {
			return fmt.Errorf("--part requires --format %s", spiderschema.FormatSpider)
		}
		return nil
	default:
		return fmt.Errorf("invalid part: %s (must be all, fields, primary or foreign)", part)
	}
}

func loadSchemas(legacy bool) (*spiderschema.Schemas, error) {
	path := viper.GetString("tables_file")
	s, err := spiderschema.Open(path, &spiderschema.Options{Legacy: legacy})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	log.Debug().Str("file", path).Int("databases", len(s.Databases())).Msg("document loaded")
	return s, nil
}

func mustBind(key string, flag *pflag.Flag) {
	if err := viper.BindPFlag(key, flag); err != nil {
		log.Fatal().Err(err).Str("key", key).Msg("failed to bind flag")
	}
}

// parseTableList splits a comma-separated flag value
func parseTableList(tables string) []string {
	if tables == "" {
		return nil
	}

	tableList := strings.Split(tables, ",")
	for i, t := range tableList {
		tableList[i] = strings.TrimSpace(t)
	}
	return tableList
}
