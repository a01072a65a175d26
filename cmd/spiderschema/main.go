package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/tordrt/spiderschema/internal/logger"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "spiderschema",
	Short: "Render Spider-style database schemas in LLM-friendly format",
	Long: `spiderschema loads a Spider tables.json document and renders the schema of any
database in it as compact text for LLM prompts. It can also export a live
PostgreSQL, MySQL, or SQLite database into the same document format.`,
	SilenceErrors: true,
	SilenceUsage:  true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Setup(viper.GetString("log.level"), viper.GetString("log.format"))
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (yaml, json or toml)")
	rootCmd.PersistentFlags().String("log-format", logger.FormatText, "logging format [text|json]")
	rootCmd.PersistentFlags().String("log-level", zerolog.LevelInfoValue,
		fmt.Sprintf("logging level %s|%s|%s", zerolog.LevelDebugValue, zerolog.LevelInfoValue, zerolog.LevelWarnValue))
	rootCmd.PersistentFlags().StringP("tables-file", "i", "tables.json", "Spider tables document (.json, .yaml)")

	mustBind("log.format", rootCmd.PersistentFlags().Lookup("log-format"))
	mustBind("log.level", rootCmd.PersistentFlags().Lookup("log-level"))
	mustBind("tables_file", rootCmd.PersistentFlags().Lookup("tables-file"))

	rootCmd.AddCommand(schemaCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(exportCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
		if err := viper.ReadInConfig(); err != nil {
			log.Fatal().Err(err).Msg("error reading from config file")
		}
	}

	viper.SetEnvPrefix("spiderschema")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("")
		os.Exit(1)
	}
}
