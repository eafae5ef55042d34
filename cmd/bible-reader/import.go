package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"bible-reader/internal/bolls"
	"bible-reader/internal/database"
	"bible-reader/internal/database/bible"
	"bible-reader/internal/importer"
)

func newImportCmd(v *viper.Viper) *cobra.Command {
	var (
		language string
		group    string
		list     bool
		baseURL  string
	)

	cmd := &cobra.Command{
		Use:   "import [TRANSLATION...]",
		Short: "Import translations from bolls.life into the server database",
		Example: `  # List the English translations
  bible-reader import --list --group English

  # Import two translations
  bible-reader import ASV KJV --language en

  # Import the Statenvertaling under its Dutch language code
  bible-reader import SV --language nl`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(v, cmd, map[string]string{
				"database_path": "db",
			})
			if err != nil {
				return err
			}
			logger := newLogger(cfg.Log, os.Stderr)

			client := bolls.NewClient()
			if baseURL != "" {
				client.SetBaseURL(baseURL)
			}
			ctx := cmd.Context()

			if list {
				translations, err := client.GetTranslations(ctx, group)
				if err != nil {
					return err
				}
				w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
				for _, t := range translations {
					fmt.Fprintf(w, "%s\t%s\n", t.ShortName, t.FullName)
				}
				return w.Flush()
			}

			if len(args) == 0 {
				return fmt.Errorf("name at least one translation, or use --list")
			}

			db, err := database.NewDatabase(cfg.Database.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			imp := importer.New(client, bible.NewRepository(db.DB), logger)
			for _, name := range args {
				result, err := imp.Import(ctx, name, language)
				if err != nil {
					return fmt.Errorf("import %s: %w", name, err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Imported %s: %d books, %d verses\n", result.Version, result.Books, result.Verses)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&language, "language", "en", "Language code stored with the translation")
	cmd.Flags().StringVar(&group, "group", "", "Language group to list, e.g. English or Dutch")
	cmd.Flags().BoolVar(&list, "list", false, "List available translations instead of importing")
	cmd.Flags().StringVar(&baseURL, "source", "", "Provider URL (default https://bolls.life)")
	cmd.Flags().String("db", "", "SQLite database path (default from DATABASE_PATH)")

	return cmd
}
