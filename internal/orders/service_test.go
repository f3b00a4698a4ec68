package orders

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/hamzat06/esk-sub000/internal/apperrors"
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

func orderRow(id, number string, status models.OrderStatus) *sqlmock.Rows {
	return sqlmock.NewRows([]string{"id", "order_number", "user_id", "status"}).
		AddRow(id, number, "user-1", string(status))
}

func TestMarkPaidSkipsAlreadyReconciledOrder(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewService(gdb)

	// Order already moved past pending_payment: the replayed webhook must
	// read the row and stop, issuing no update.
	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = .+`).
		WillReturnRows(orderRow("order-1", "CHN-20260831-001000", models.StatusPending))

	order, err := svc.MarkPaid(context.Background(), "order-1", "pi_replay")
	if err != nil {
		t.Fatalf("MarkPaid: %v", err)
	}
	if order.Status != models.StatusPending {
		t.Fatalf("status changed on replay: %s", order.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected database activity: %v", err)
	}
}

func TestMarkExpiredSkipsPaidOrder(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewService(gdb)

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = .+`).
		WillReturnRows(orderRow("order-1", "CHN-20260831-001000", models.StatusConfirmed))

	order, err := svc.MarkExpired(context.Background(), "order-1")
	if err != nil {
		t.Fatalf("MarkExpired: %v", err)
	}
	if order.Status != models.StatusConfirmed {
		t.Fatalf("expiry must not touch a paid order, got %s", order.Status)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unexpected database activity: %v", err)
	}
}

func TestUpdateStatusRejectsTerminalOrder(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewService(gdb)

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = .+`).
		WillReturnRows(orderRow("order-1", "CHN-20260831-001000", models.StatusDelivered))

	_, err := svc.UpdateStatus(context.Background(), "order-1", models.StatusPreparing, "admin-1", "")
	if err == nil {
		t.Fatal("expected terminal order update to fail")
	}
	if apperrors.KindOf(err) != apperrors.KindInvalidInput {
		t.Fatalf("expected invalid input kind, got %v", apperrors.KindOf(err))
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("rejected transition must not write: %v", err)
	}
}

func TestUpdateStatusRejectsUnknownStatus(t *testing.T) {
	gdb, _ := newMockDB(t)
	svc := NewService(gdb)

	_, err := svc.UpdateStatus(context.Background(), "order-1", "on_the_moon", "admin-1", "")
	if err == nil {
		t.Fatal("expected unknown status to fail")
	}
	if apperrors.KindOf(err) != apperrors.KindInvalidInput {
		t.Fatalf("expected invalid input kind, got %v", apperrors.KindOf(err))
	}
}

func TestUpdateStatusMissingOrderIsNotFound(t *testing.T) {
	gdb, mock := newMockDB(t)
	svc := NewService(gdb)

	mock.ExpectQuery(`SELECT \* FROM "orders" WHERE id = .+`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	_, err := svc.UpdateStatus(context.Background(), "missing", models.StatusConfirmed, "admin-1", "")
	if apperrors.KindOf(err) != apperrors.KindNotFound {
		t.Fatalf("expected not found, got %v", err)
	}
}
