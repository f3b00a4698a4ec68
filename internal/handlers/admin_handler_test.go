package handlers

import (
	"net/http"
	"strings"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestUpdateAccessRejectsSelfEdit(t *testing.T) {
	h := NewAdminHandler(nil)

	c, rec := newJSONContext(t, http.MethodPut, "/api/v1/admin/admins/admin-1/access",
		`{"permissions": ["orders"]}`)
	c.Set("userID", "admin-1")
	c.SetParamNames("id")
	c.SetParamValues("admin-1")

	if err := h.UpdateAccess(c); err != nil {
		t.Fatalf("UpdateAccess: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "You cannot change your own access") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestRevokeAdminRejectsSelfRevocation(t *testing.T) {
	h := NewAdminHandler(nil)

	c, rec := newJSONContext(t, http.MethodDelete, "/api/v1/admin/admins/admin-1", "")
	c.Set("userID", "admin-1")
	c.SetParamNames("id")
	c.SetParamValues("admin-1")

	if err := h.RevokeAdmin(c); err != nil {
		t.Fatalf("RevokeAdmin: %v", err)
	}
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "You cannot change your own access") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestRevokeAdminClearsAccess(t *testing.T) {
	gdb, mock := newMockDB(t)
	h := NewAdminHandler(gdb)

	mock.ExpectQuery(`SELECT \* FROM "profiles" WHERE id = .+ AND role = .+`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "email", "role"}).
			AddRow("admin-2", "kemi@example.com", "admin"))

	// Demotion writes role=customer and access=NULL.
	mock.ExpectBegin()
	mock.ExpectExec(`UPDATE "profiles" SET`).
		WithArgs(nil, "customer", sqlmock.AnyArg(), "admin-2").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	c, rec := newJSONContext(t, http.MethodDelete, "/api/v1/admin/admins/admin-2", "")
	c.Set("userID", "admin-1")
	c.SetParamNames("id")
	c.SetParamValues("admin-2")

	if err := h.RevokeAdmin(c); err != nil {
		t.Fatalf("RevokeAdmin: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200, body: %s", rec.Code, rec.Body.String())
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("database expectations: %v", err)
	}
}
