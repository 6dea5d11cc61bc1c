package main

import (
	"os"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/riskibarqy/castaway-league/internal/platform/logging"
)

type options struct {
	dbURL         string
	migrationsDir string
	logger        *logging.Logger
}

func newRootCmd(logger *logging.Logger) *cobra.Command {
	opts := &options{logger: logger}

	cmd := &cobra.Command{
		Use:           "migration",
		Short:         "Apply schema migrations and seed the question template library",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			opts.dbURL = strings.TrimSpace(opts.dbURL)
			if opts.dbURL == "" {
				return errors.New("DB_URL is required")
			}
			opts.dbURL = normalizeDBURL(opts.dbURL, "castaway-league-migration")
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.dbURL, "db-url", os.Getenv("DB_URL"), "postgres connection url")
	cmd.PersistentFlags().StringVar(&opts.migrationsDir, "migrations-dir", "", "migration directory (defaults to MIGRATIONS_DIR or ./db/migrations)")

	cmd.AddCommand(
		newUpCmd(opts),
		newDownCmd(opts),
		newVersionCmd(opts),
		newForceCmd(opts),
		newGotoCmd(opts),
		newSeedTemplatesCmd(opts),
	)
	return cmd
}
