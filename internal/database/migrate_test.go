// Package database provides connection setup for MySQL and Redis.
// This file validates migration SQL files to catch schema mismatches early.
package database

import (
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
)

// migrationsDir returns the absolute path to db/migrations/ from the project root.
func migrationsDir(t *testing.T) string {
	t.Helper()
	_, thisFile, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine test file path")
	}
	// thisFile is internal/database/migrate_test.go, project root is two dirs up.
	projectRoot := filepath.Join(filepath.Dir(thisFile), "..", "..")
	dir := filepath.Join(projectRoot, "db", "migrations")
	if _, err := os.Stat(dir); err != nil {
		t.Fatalf("migrations directory not found at %s: %v", dir, err)
	}
	return dir
}

// readMigrations concatenates all .up.sql files in order.
func readMigrations(t *testing.T) string {
	t.Helper()
	dir := migrationsDir(t)
	files, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		t.Fatalf("globbing migration files: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no migration files found")
	}

	var sb strings.Builder
	for _, f := range files {
		data, err := os.ReadFile(f)
		if err != nil {
			t.Fatalf("reading %s: %v", f, err)
		}
		sb.Write(data)
		sb.WriteString("\n")
	}
	return sb.String()
}

// TestMigrations_UpDownPairs ensures every .up.sql has a matching .down.sql.
func TestMigrations_UpDownPairs(t *testing.T) {
	dir := migrationsDir(t)
	upFiles, err := filepath.Glob(filepath.Join(dir, "*.up.sql"))
	if err != nil {
		t.Fatalf("globbing up files: %v", err)
	}

	for _, up := range upFiles {
		down := strings.Replace(up, ".up.sql", ".down.sql", 1)
		if _, err := os.Stat(down); err != nil {
			t.Errorf("missing down migration for %s", filepath.Base(up))
		}
	}
}

// TestMigrations_ColumnsMatchRepositories checks that every column the
// repositories scan actually appears in the schema. A renamed column would
// otherwise only surface as a runtime scan error.
func TestMigrations_ColumnsMatchRepositories(t *testing.T) {
	content := readMigrations(t)

	columns := []string{
		// users (auth.userRepository)
		"username", "password_hash", "created_at",
		// patients (records.patientRepository)
		"surname", "forename", "address", "date_of_birth", "doctor_id", "diagnosis",
	}
	for _, col := range columns {
		if !strings.Contains(content, col) {
			t.Errorf("column %q not found in any migration", col)
		}
	}
}

// TestMigrations_SurnameIsCaseInsensitive checks the patients.surname column
// carries a case-insensitive collation. The lookup relies on the database
// for case folding instead of LOWER() in queries.
func TestMigrations_SurnameIsCaseInsensitive(t *testing.T) {
	content := readMigrations(t)

	idx := strings.Index(content, "surname VARCHAR")
	if idx == -1 {
		t.Fatal("patients.surname definition not found")
	}
	line := content[idx:]
	if end := strings.Index(line, "\n"); end != -1 {
		line = line[:end]
	}
	if !strings.Contains(line, "_ci") {
		t.Errorf("surname column must use a case-insensitive collation, got: %s", line)
	}
}
