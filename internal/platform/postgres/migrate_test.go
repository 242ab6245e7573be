package postgres

import "testing"

func TestMigrateURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{in: "postgres://u:p@localhost:5432/memo?sslmode=disable", want: "pgx5://u:p@localhost:5432/memo?sslmode=disable"},
		{in: "postgresql://localhost/memo", want: "pgx5://localhost/memo"},
		{in: "pgx5://localhost/memo", want: "pgx5://localhost/memo"},
	}

	for _, tt := range tests {
		if got := migrateURL(tt.in); got != tt.want {
			t.Errorf("migrateURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMigrationsEmbedded(t *testing.T) {
	entries, err := migrationsFS.ReadDir("migrations")
	if err != nil {
		t.Fatalf("read embedded migrations: %v", err)
	}
	if len(entries) != 4 {
		t.Errorf("expected 4 migration files, got %d", len(entries))
	}
}
