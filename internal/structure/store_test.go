// internal/structure/store_test.go
//
// Unit-tests for structure_entry query helpers using sqlmock.
//
// Run: go test ./internal/structure -v

package structure

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMockDB(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

func TestByNetwork(t *testing.T) {
	db, mock := newMockDB(t)

	cols := []string{
		"id", "network_id", "asset_domain_id", "optimized_path",
		"domain_role", "domain_status", "index_status", "target_entry_id",
		"ranking_url", "primary_keyword", "ranking_position", "notes",
		"created_at", "updated_at",
	}
	now := time.Now()
	rows := sqlmock.NewRows(cols).
		AddRow(1, 7, 11, "", "main", "primary", "index", nil, nil, nil, nil, "", now, now).
		AddRow(2, 7, 12, "/offers", "supporting", "canonical", "noindex", 1, nil, nil, nil, "", now, now)

	mock.ExpectQuery("SELECT (.+) FROM structure_entry WHERE network_id = \\? ORDER BY id").
		WithArgs(uint64(7)).
		WillReturnRows(rows)

	got, err := ByNetwork(context.Background(), db, 7)
	if err != nil {
		t.Fatalf("ByNetwork: %v", err)
	}
	if len(got) != 2 || got[0].ID != 1 || got[1].TargetEntryID == nil || *got[1].TargetEntryID != 1 {
		t.Fatalf("unexpected result: %+v", got)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Errorf("unmet SQL expectations: %v", err)
	}
}

func TestByID_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT (.+) FROM structure_entry WHERE id = \\?").
		WithArgs(uint64(99)).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := ByID(context.Background(), db, 99)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}

func TestClearTargets(t *testing.T) {
	db, mock := newMockDB(t)

	q := regexp.QuoteMeta(`UPDATE structure_entry SET target_entry_id = NULL WHERE network_id = ? AND target_entry_id = ?`)
	mock.ExpectExec(q).
		WithArgs(uint64(7), uint64(3)).
		WillReturnResult(sqlmock.NewResult(0, 2))

	n, err := ClearTargets(context.Background(), db, 7, 3)
	if err != nil {
		t.Fatalf("ClearTargets: %v", err)
	}
	if n != 2 {
		t.Fatalf("orphaned = %d, want 2", n)
	}
}

func TestDelete_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectExec(regexp.QuoteMeta(`DELETE FROM structure_entry WHERE id = ?`)).
		WithArgs(uint64(5)).
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := Delete(context.Background(), db, 5); !errors.Is(err, ErrNotFound) {
		t.Fatalf("err = %v, want ErrNotFound", err)
	}
}
