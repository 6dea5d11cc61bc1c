package main

import (
	"fmt"
	"path/filepath"

	"github.com/cockroachdb/errors"
	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/spf13/cobra"
)

func newUpCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		Args:  cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return withMigrator(opts, func(m *migrate.Migrate, sourceURL string) error {
				if err := handleMigrationErr(opts, m.Up()); err != nil {
					return err
				}
				opts.logger.Info("migrations applied", "source", sourceURL)
				return nil
			})
		},
	}
}

func newDownCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "down [steps]",
		Short: "Roll back migrations (default 1 step)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			steps, err := parseSteps(args)
			if err != nil {
				return err
			}
			return withMigrator(opts, func(m *migrate.Migrate, _ string) error {
				if err := handleMigrationErr(opts, m.Steps(-steps)); err != nil {
					return err
				}
				opts.logger.Info("migrations rolled back", "steps", steps)
				return nil
			})
		},
	}
}

func newVersionCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the current schema version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withMigrator(opts, func(m *migrate.Migrate, _ string) error {
				version, dirty, err := m.Version()
				if errors.Is(err, migrate.ErrNilVersion) {
					fmt.Fprintln(cmd.OutOrStdout(), "version: none")
					fmt.Fprintln(cmd.OutOrStdout(), "dirty: false")
					return nil
				}
				if err != nil {
					return errors.Wrap(err, "read version")
				}
				fmt.Fprintf(cmd.OutOrStdout(), "version: %d\n", version)
				fmt.Fprintf(cmd.OutOrStdout(), "dirty: %t\n", dirty)
				return nil
			})
		},
	}
}

func newForceCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "force <version>",
		Short: "Set the schema version without running migrations",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			version, err := parseVersion(args[0])
			if err != nil {
				return err
			}
			return withMigrator(opts, func(m *migrate.Migrate, _ string) error {
				if err := m.Force(version); err != nil {
					return errors.Wrapf(err, "force version %d", version)
				}
				opts.logger.Info("schema version forced", "version", version)
				return nil
			})
		},
	}
}

func newGotoCmd(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:     "goto <version>",
		Aliases: []string{"migrate"},
		Short:   "Migrate up or down to a target version",
		Args:    cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			target, err := parseTarget(args[0])
			if err != nil {
				return err
			}
			return withMigrator(opts, func(m *migrate.Migrate, _ string) error {
				if err := handleMigrationErr(opts, m.Migrate(target)); err != nil {
					return err
				}
				opts.logger.Info("migrated to version", "version", target)
				return nil
			})
		},
	}
}

func withMigrator(opts *options, fn func(m *migrate.Migrate, sourceURL string) error) error {
	migrationsDir, err := resolveMigrationsDir(opts.migrationsDir)
	if err != nil {
		return err
	}

	sourceURL := "file://" + filepath.ToSlash(migrationsDir)
	m, err := migrate.New(sourceURL, opts.dbURL)
	if err != nil {
		return errors.Wrap(err, "create migrator")
	}
	defer closeMigrator(opts, m)

	return fn(m, sourceURL)
}

func handleMigrationErr(opts *options, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, migrate.ErrNoChange) {
		opts.logger.Info("no migration changes")
		return nil
	}
	return err
}

func closeMigrator(opts *options, m *migrate.Migrate) {
	srcErr, dbErr := m.Close()
	if srcErr != nil {
		opts.logger.Warn("close migration source", "error", srcErr)
	}
	if dbErr != nil {
		opts.logger.Warn("close migration db", "error", dbErr)
	}
}
