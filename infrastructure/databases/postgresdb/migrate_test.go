package postgresdb

import (
	"strings"
	"testing"
	"testing/fstest"

	"github.com/jrazmi/tasktracker/schema"
)

func TestGetMigrationFilesSorted(t *testing.T) {
	fsys := fstest.MapFS{
		"pgmigrations/010_late.sql":  {Data: []byte("SELECT 1;")},
		"pgmigrations/001_first.sql": {Data: []byte("SELECT 1;")},
		"pgmigrations/README.md":     {Data: []byte("notes")},
	}

	files, err := getMigrationFiles(fsys, "pgmigrations")
	if err != nil {
		t.Fatalf("get files: %v", err)
	}
	if strings.Join(files, ",") != "001_first.sql,010_late.sql" {
		t.Fatalf("files = %v", files)
	}
}

func TestEmbeddedMigrationsCreateTasks(t *testing.T) {
	files, err := getMigrationFiles(schema.MigrationsFS, "pgmigrations")
	if err != nil {
		t.Fatalf("get files: %v", err)
	}
	if len(files) == 0 {
		t.Fatal("no embedded migrations")
	}

	data, err := schema.MigrationsFS.ReadFile("pgmigrations/" + files[0])
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	for _, want := range []string{"CREATE TABLE", "tasks", "task_version_seq", "owner_id"} {
		if !strings.Contains(string(data), want) {
			t.Errorf("first migration missing %q", want)
		}
	}
}
