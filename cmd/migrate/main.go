package main

import (
	"context"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

type connKey struct{}

var (
	databaseURL string

	rootCmd = &cobra.Command{
		Use:               "migrate",
		Short:             "Manage the registration portal schema",
		SilenceUsage:      true,
		PersistentPreRunE: connect,
		PersistentPostRunE: func(cmd *cobra.Command, _ []string) error {
			if conn := connFromContext(cmd.Context()); conn != nil {
				return conn.Close(context.Background())
			}
			return nil
		},
	}

	upCmd = &cobra.Command{
		Use:   "up",
		Short: "Create tables, constraints and generate_team_code()",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := execAll(cmd, upStatements); err != nil {
				return fmt.Errorf("create schema: %w", err)
			}
			cmd.Println("Schema created successfully")
			return nil
		},
	}

	dropCmd = &cobra.Command{
		Use:   "drop",
		Short: "Drop all portal tables",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := execAll(cmd, dropStatements); err != nil {
				return fmt.Errorf("drop schema: %w", err)
			}
			cmd.Println("All tables dropped successfully")
			return nil
		},
	}

	seedCmd = &cobra.Command{
		Use:   "seed",
		Short: "Insert demo teams",
		RunE: func(cmd *cobra.Command, _ []string) error {
			conn := connFromContext(cmd.Context())
			if _, err := conn.Exec(cmd.Context(), seedStatement); err != nil {
				return fmt.Errorf("seed: %w", err)
			}
			cmd.Println("Data seeded successfully")
			return nil
		},
	}
)

func init() {
	// .env is optional
	_ = godotenv.Load()

	rootCmd.PersistentFlags().StringVar(&databaseURL, "database-url", os.Getenv("DATABASE_URL"), "Postgres connection string (defaults to DATABASE_URL)")
	rootCmd.AddCommand(upCmd, dropCmd, seedCmd)
	rootCmd.CompletionOptions.HiddenDefaultCmd = true
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func connect(cmd *cobra.Command, _ []string) error {
	if databaseURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable is not set")
	}

	conn, err := pgx.Connect(cmd.Context(), databaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}

	cmd.SetContext(context.WithValue(cmd.Context(), connKey{}, conn))
	return nil
}

func connFromContext(ctx context.Context) *pgx.Conn {
	if ctx == nil {
		return nil
	}
	conn, _ := ctx.Value(connKey{}).(*pgx.Conn)
	return conn
}

func execAll(cmd *cobra.Command, statements []string) error {
	conn := connFromContext(cmd.Context())
	for _, stmt := range statements {
		if _, err := conn.Exec(cmd.Context(), stmt); err != nil {
			return fmt.Errorf("failed to execute query: %w\nQuery: %s", err, stmt)
		}
		cmd.Printf("  Applied: %s\n", summarize(stmt))
	}
	return nil
}

func summarize(stmt string) string {
	if len(stmt) > 50 {
		return stmt[:50] + "..."
	}
	return stmt
}
