package db

import (
	"cmp"
	"errors"
	"fmt"
	"io/fs"
	"regexp"
	"slices"
	"strconv"
	"strings"

	embeddedmigrations "github.com/terraincognita07/innerweather/migrations"
	"gorm.io/gorm"
)

var (
	migrationNamePattern = regexp.MustCompile(`^(\d+)_[A-Za-z0-9_]+\.sql$`)
	addColumnPattern     = regexp.MustCompile(`(?is)^ALTER\s+TABLE\s+["` + "`" + `\[]?(\w+)["` + "`" + `\]]?\s+ADD\s+(?:COLUMN\s+)?["` + "`" + `\[]?(\w+)`)
)

var errEmptyMigration = errors.New("migration has no SQL statements")

type schemaMigration struct {
	Version string
	Number  int
	Name    string
	Body    string
}

const schemaMigrationsDDL = `CREATE TABLE IF NOT EXISTS schema_migrations (
  version TEXT PRIMARY KEY,
  name TEXT NOT NULL,
  applied_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
)`

// applyEmbeddedMigrations brings the schema forward and returns the file
// names it applied, in order. Migrations are never rolled back.
func applyEmbeddedMigrations(database *gorm.DB) ([]string, error) {
	if err := database.Exec(schemaMigrationsDDL).Error; err != nil {
		return nil, fmt.Errorf("create schema_migrations table: %w", err)
	}

	pending, err := pendingMigrations(database)
	if err != nil {
		return nil, err
	}

	applied := make([]string, 0, len(pending))
	for _, migration := range pending {
		if err := database.Transaction(func(tx *gorm.DB) error {
			return runMigration(tx, migration)
		}); err != nil {
			return applied, err
		}
		applied = append(applied, migration.Name)
	}
	return applied, nil
}

func pendingMigrations(database *gorm.DB) ([]schemaMigration, error) {
	all, err := loadEmbeddedMigrations()
	if err != nil {
		return nil, err
	}

	var recorded []string
	if err := database.Raw(`SELECT version FROM schema_migrations`).Scan(&recorded).Error; err != nil {
		return nil, fmt.Errorf("load applied migration versions: %w", err)
	}

	return slices.DeleteFunc(all, func(migration schemaMigration) bool {
		return slices.Contains(recorded, migration.Version)
	}), nil
}

// loadEmbeddedMigrations returns every NNNN_name.sql file ordered by its
// numeric prefix. Two files sharing a prefix is an error.
func loadEmbeddedMigrations() ([]schemaMigration, error) {
	files, err := fs.Glob(embeddedmigrations.Files, "*.sql")
	if err != nil {
		return nil, fmt.Errorf("list embedded migrations: %w", err)
	}

	byVersion := make(map[string]string, len(files))
	migrations := make([]schemaMigration, 0, len(files))
	for _, name := range files {
		match := migrationNamePattern.FindStringSubmatch(name)
		if match == nil {
			continue
		}
		version := match[1]
		if previous, dup := byVersion[version]; dup {
			return nil, fmt.Errorf("duplicate migration version %s in %s and %s", version, previous, name)
		}
		byVersion[version] = name

		number, err := strconv.Atoi(version)
		if err != nil {
			return nil, fmt.Errorf("parse migration version from %s: %w", name, err)
		}
		body, err := fs.ReadFile(embeddedmigrations.Files, name)
		if err != nil {
			return nil, fmt.Errorf("read migration %s: %w", name, err)
		}
		migrations = append(migrations, schemaMigration{Version: version, Number: number, Name: name, Body: string(body)})
	}

	slices.SortFunc(migrations, func(a, b schemaMigration) int {
		return cmp.Or(cmp.Compare(a.Number, b.Number), strings.Compare(a.Name, b.Name))
	})
	return migrations, nil
}

func runMigration(tx *gorm.DB, migration schemaMigration) error {
	statements := splitSQLStatements(migration.Body)
	if len(statements) == 0 {
		return fmt.Errorf("%s: %w", migration.Name, errEmptyMigration)
	}

	for _, statement := range statements {
		present, err := addsExistingColumn(tx, statement)
		if err != nil {
			return fmt.Errorf("inspect migration %s: %w", migration.Name, err)
		}
		if present {
			continue
		}
		if err := tx.Exec(statement).Error; err != nil {
			return fmt.Errorf("execute migration %s statement %q: %w", migration.Name, statement, err)
		}
	}

	record := tx.Exec(`INSERT INTO schema_migrations (version, name) VALUES (?, ?)`, migration.Version, migration.Name)
	if record.Error != nil {
		return fmt.Errorf("record migration %s: %w", migration.Name, record.Error)
	}
	return nil
}

// splitSQLStatements drops "--" comment lines and splits on semicolons.
// Migrations must not put semicolons inside string literals.
func splitSQLStatements(body string) []string {
	var cleaned strings.Builder
	for _, line := range strings.Split(body, "\n") {
		if strings.HasPrefix(strings.TrimSpace(line), "--") {
			continue
		}
		cleaned.WriteString(line)
		cleaned.WriteByte('\n')
	}

	var statements []string
	for _, part := range strings.Split(cleaned.String(), ";") {
		if statement := strings.TrimSpace(part); statement != "" {
			statements = append(statements, statement)
		}
	}
	return statements
}

// addsExistingColumn reports whether statement is an ADD COLUMN for a column
// the table already has, which happens on databases created before
// schema_migrations existed.
func addsExistingColumn(database *gorm.DB, statement string) (bool, error) {
	match := addColumnPattern.FindStringSubmatch(statement)
	if match == nil {
		return false, nil
	}
	table, column := match[1], match[2]

	var columns []string
	if err := database.Raw(`SELECT name FROM pragma_table_info(?)`, table).Scan(&columns).Error; err != nil {
		return false, fmt.Errorf("load table_info for %s: %w", table, err)
	}
	return slices.ContainsFunc(columns, func(name string) bool {
		return strings.EqualFold(strings.TrimSpace(name), column)
	}), nil
}
