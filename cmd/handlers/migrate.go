package handlers

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"newsbrief/internal/persistence"
)

// NewMigrateCmd creates the migrate command for database migrations.
func NewMigrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate",
		Short: "Manage database migrations",
		Long: `Manage database schema migrations.

Subcommands:
  up       Apply all pending migrations
  status   Show migration status

The migration system tracks applied migrations in the schema_migrations
table and applies new migrations in sequential order.

Examples:
  newsbrief migrate up
  newsbrief migrate status`,
	}

	cmd.AddCommand(newMigrateUpCmd())
	cmd.AddCommand(newMigrateStatusCmd())

	return cmd
}

func newMigrateUpCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "up",
		Short: "Apply all pending migrations",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrateUp(cmd.Context())
		},
	}
}

func newMigrateStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show migration status",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMigrateStatus(cmd.Context())
		},
	}
}

func runMigrateUp(ctx context.Context) error {
	builder, err := newBuilder()
	if err != nil {
		return err
	}
	defer builder.Close()

	migrator := persistence.NewMigrationManager(builder.DB())
	if err := migrator.Migrate(ctx); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	fmt.Println("All migrations applied")
	return nil
}

func runMigrateStatus(ctx context.Context) error {
	builder, err := newBuilder()
	if err != nil {
		return err
	}
	defer builder.Close()

	migrator := persistence.NewMigrationManager(builder.DB())
	status, err := migrator.Status(ctx)
	if err != nil {
		return fmt.Errorf("failed to get migration status: %w", err)
	}

	for _, s := range status {
		state := "pending"
		if s.Applied {
			state = "applied"
		}
		fmt.Printf("%03d\t%s\t%s\n", s.Version, state, s.Description)
	}
	return nil
}
