package repository

import (
	"testing"

	"github.com/snnyvrz/shelfshare/apps/library-api/internal/testutil"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func TestContainsClause(t *testing.T) {
	pg := &gorm.DB{Config: &gorm.Config{Dialector: postgres.Dialector{Config: &postgres.Config{}}}}

	tests := []struct {
		name string
		db   *gorm.DB
		want string
	}{
		{"postgres", pg, `books.title ILIKE ? ESCAPE '\'`},
		{"sqlite", testutil.NewEmptyDB(t), `LOWER(books.title) LIKE ? ESCAPE '\'`},
	}

	for _, tt := range tests {
		if got := containsClause(tt.db, "books.title"); got != tt.want {
			t.Errorf("%s: expected %q, got %q", tt.name, tt.want, got)
		}
	}
}

func TestContainsPattern(t *testing.T) {
	tests := map[string]string{
		"Dune":    "%dune%",
		"50%_off": `%50\%\_off%`,
		`back\`:   `%back\\%`,
		"ÉMILE":   "%émile%",
	}

	for in, want := range tests {
		if got := containsPattern(in); got != want {
			t.Errorf("containsPattern(%q) = %q, want %q", in, got, want)
		}
	}
}
