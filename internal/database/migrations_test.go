package database

import (
	"path/filepath"
	"testing"

	migratedb "github.com/golang-migrate/migrate/v4/database"
	"github.com/golang-migrate/migrate/v4/source"
	_ "github.com/golang-migrate/migrate/v4/source/file"
)

func TestPreviousVersion(t *testing.T) {
	t.Parallel()

	src, err := source.Open("file://" + filepath.Join("..", "..", "migrations"))
	if err != nil {
		t.Fatalf("open migrations: %v", err)
	}
	t.Cleanup(func() { src.Close() })

	tests := map[string]struct {
		version uint
		want    int
		wantErr bool
	}{
		"second migration rolls back to first": {
			version: 2026101902,
			want:    2026101901,
		},
		"first migration rolls back to nothing": {
			version: 2026101901,
			want:    migratedb.NilVersion,
		},
		"unknown version": {
			version: 42,
			wantErr: true,
		},
	}
	for name, tt := range tests {
		tt := tt
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			got, err := previousVersion(src, tt.version)
			if tt.wantErr {
				if err == nil {
					t.Fatalf("expected error, got version %d", got)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("want %d, got %d", tt.want, got)
			}
		})
	}
}
