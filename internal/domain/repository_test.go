// internal/domain/repository_test.go

package domain

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
)

func newMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return sqlx.NewDb(db, "mysql"), mock
}

func TestRegistry_Exists(t *testing.T) {
	db, mock := newMock(t)
	reg := NewRegistry(db)

	q := regexp.QuoteMeta(`SELECT 1 FROM asset_domain WHERE id = ? AND deleted_at IS NULL LIMIT 1`)
	mock.ExpectQuery(q).WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}).AddRow(1))
	mock.ExpectQuery(q).WithArgs(uint64(8)).
		WillReturnRows(sqlmock.NewRows([]string{"1"}))

	ok, err := reg.Exists(context.Background(), 7)
	if err != nil || !ok {
		t.Fatalf("Exists(7) = %v, %v; want true, nil", ok, err)
	}
	ok, err = reg.Exists(context.Background(), 8)
	if err != nil || ok {
		t.Fatalf("Exists(8) = %v, %v; want false, nil", ok, err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}

func TestRegistry_DomainNameIsCached(t *testing.T) {
	db, mock := newMock(t)
	reg := NewRegistry(db)

	q := regexp.QuoteMeta(`SELECT domain FROM asset_domain WHERE id = ? LIMIT 1`)
	mock.ExpectQuery(q).WithArgs(uint64(7)).
		WillReturnRows(sqlmock.NewRows([]string{"domain"}).AddRow("hub.example"))

	// Second call must come from the cache; only one query is expected.
	for i := 0; i < 2; i++ {
		name, err := reg.DomainName(context.Background(), 7)
		if err != nil {
			t.Fatalf("DomainName: %v", err)
		}
		if name != "hub.example" {
			t.Fatalf("name = %q, want hub.example", name)
		}
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("expectations: %v", err)
	}
}
