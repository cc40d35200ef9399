package db

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"sort"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sirupsen/logrus"
)

//go:embed migrations/*.sql
var migrationFiles embed.FS

type Migration struct {
	Name       string
	Statements []string
}

// Migrations loads the embedded migration files in name order with the
// schema placeholder replaced by the quoted schema name.
func Migrations(schema string) ([]Migration, error) {
	names, err := fs.Glob(migrationFiles, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list migrations: %w", err)
	}
	sort.Strings(names)

	quoted := pgx.Identifier{schema}.Sanitize()

	migrations := make([]Migration, 0, len(names))
	for _, name := range names {
		raw, err := migrationFiles.ReadFile(name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}

		// split before substituting so the schema name cannot add statements
		statements := splitStatements(string(raw))
		for i, stmt := range statements {
			statements[i] = strings.ReplaceAll(stmt, "{{schema}}", quoted)
		}

		migrations = append(migrations, Migration{
			Name:       strings.TrimPrefix(name, "migrations/"),
			Statements: statements,
		})
	}

	return migrations, nil
}

// Migrate applies every migration inside a single transaction. The
// statements are idempotent so running it twice is harmless.
func Migrate(ctx context.Context, pool *pgxpool.Pool, schema string, logger logrus.FieldLogger) error {
	migrations, err := Migrations(schema)
	if err != nil {
		return err
	}

	tx, err := pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin migration: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	for _, m := range migrations {
		for _, stmt := range m.Statements {
			if _, err := tx.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("apply %s: %w", m.Name, err)
			}
		}
		logger.WithField("migration", m.Name).Info("applied migration")
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit migration: %w", err)
	}

	return nil
}

func splitStatements(sql string) []string {
	var statements []string
	for _, part := range strings.Split(sql, ";") {
		if stmt := strings.TrimSpace(part); stmt != "" {
			statements = append(statements, stmt)
		}
	}
	return statements
}
