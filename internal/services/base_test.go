package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hamzat06/esk-sub000/internal/models"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	gdb, err := gorm.Open(postgres.New(postgres.Config{
		Conn:                 db,
		PreferSimpleProtocol: true,
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("gorm.Open: %v", err)
	}
	return gdb, mock
}

func TestListAcceptsOnlyModelColumns(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewBaseService(gdb, models.Product{})

	// Filter and sort keys come straight from query parameters; only
	// "available" is a real column, the other two must never reach SQL.
	mock.ExpectQuery(`^SELECT count\(\*\) FROM "products" WHERE available = \$1$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(1))
	mock.ExpectQuery(`^SELECT \* FROM "products" WHERE available = \$1 LIMIT \$2$`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "available"}).
			AddRow("p1", "Jollof Rice", true))

	filters := map[string]interface{}{
		"available":              "true",
		`name" = '' OR 1=1; -- `: "x",
	}

	list, total, err := svc.List(context.Background(), 1, 20, filters, "price; DROP TABLE products", "asc")
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 1 || len(list) != 1 {
		t.Fatalf("total = %d, len = %d, want 1 and 1", total, len(list))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("query shape: %v", err)
	}
}

func TestListSortsByKnownColumn(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewBaseService(gdb, models.Product{})

	mock.ExpectQuery(`^SELECT count\(\*\) FROM "products"$`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`^SELECT \* FROM "products" ORDER BY price desc LIMIT \$1$`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	if _, _, err := svc.List(context.Background(), 1, 20, nil, "price", "desc"); err != nil {
		t.Fatalf("List: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("query shape: %v", err)
	}
}
