package permissions

import (
	"encoding/json"
	"testing"
)

type fakeGrantee struct {
	admin  bool
	access Access
}

func (f fakeGrantee) IsAdminRole() bool   { return f.admin }
func (f fakeGrantee) AdminAccess() Access { return f.access }

func TestSuperAdminHasEveryPermission(t *testing.T) {
	super := fakeGrantee{admin: true, access: Unrestricted()}

	for _, perm := range All() {
		if !HasPermission(super, perm) {
			t.Fatalf("super admin should have %s", perm)
		}
	}
	if !IsSuperAdmin(super) {
		t.Fatal("unrestricted admin should report as super admin")
	}
}

func TestScopedAdminOnlyHasGrantedPermissions(t *testing.T) {
	admin := fakeGrantee{admin: true, access: Scoped(PermProducts, PermOrders)}

	if !HasPermission(admin, PermProducts) {
		t.Fatal("expected products permission")
	}
	if !HasPermission(admin, PermOrders) {
		t.Fatal("expected orders permission")
	}
	if HasPermission(admin, PermSettings) {
		t.Fatal("settings was never granted")
	}
	if IsSuperAdmin(admin) {
		t.Fatal("scoped admin must not report as super admin")
	}
}

func TestNonAdminNeverHasPermissions(t *testing.T) {
	// A customer carrying grants (e.g. after a role downgrade) still gets
	// nothing: role is checked before access.
	customer := fakeGrantee{admin: false, access: Scoped(PermProducts)}

	if HasPermission(customer, PermProducts) {
		t.Fatal("non-admin role must not pass permission checks")
	}
	if IsSuperAdmin(fakeGrantee{admin: false, access: Unrestricted()}) {
		t.Fatal("non-admin role must not report as super admin")
	}
	if HasPermission(nil, PermProducts) {
		t.Fatal("nil grantee must not pass permission checks")
	}
}

func TestScopedDropsUnknownTags(t *testing.T) {
	access := Scoped(PermProducts, Permission("everything"), Permission(""))

	grants := access.Grants()
	if len(grants) != 1 || grants[0] != PermProducts {
		t.Fatalf("expected only products to survive, got %v", grants)
	}
}

func TestHasAnyAndAllPermissions(t *testing.T) {
	admin := fakeGrantee{admin: true, access: Scoped(PermProducts, PermCategories)}

	if !HasAnyPermission(admin, PermOrders, PermProducts) {
		t.Fatal("expected any-match on products")
	}
	if HasAnyPermission(admin, PermOrders, PermSettings) {
		t.Fatal("no listed permission is granted")
	}
	if !HasAllPermissions(admin, PermProducts, PermCategories) {
		t.Fatal("both listed permissions are granted")
	}
	if HasAllPermissions(admin, PermProducts, PermOrders) {
		t.Fatal("orders is missing, all-match must fail")
	}
}

func TestAccessJSONNullMeansUnrestricted(t *testing.T) {
	var access Access
	if err := json.Unmarshal([]byte("null"), &access); err != nil {
		t.Fatalf("unmarshal null: %v", err)
	}
	if !access.IsUnrestricted() {
		t.Fatal("JSON null must decode as unrestricted")
	}

	out, err := json.Marshal(Unrestricted())
	if err != nil {
		t.Fatalf("marshal unrestricted: %v", err)
	}
	if string(out) != "null" {
		t.Fatalf("unrestricted must encode as null, got %s", out)
	}
}

func TestAccessJSONScopedRoundTrip(t *testing.T) {
	out, err := json.Marshal(Scoped(PermOrders))
	if err != nil {
		t.Fatalf("marshal scoped: %v", err)
	}

	var decoded Access
	if err := json.Unmarshal(out, &decoded); err != nil {
		t.Fatalf("unmarshal scoped: %v", err)
	}
	if decoded.IsUnrestricted() {
		t.Fatal("scoped access must not decode as unrestricted")
	}
	if grants := decoded.Grants(); len(grants) != 1 || grants[0] != PermOrders {
		t.Fatalf("expected [orders], got %v", grants)
	}
}

func TestAccessSQLNullMeansUnrestricted(t *testing.T) {
	val, err := Unrestricted().Value()
	if err != nil {
		t.Fatalf("value: %v", err)
	}
	if val != nil {
		t.Fatalf("unrestricted must store as SQL NULL, got %v", val)
	}

	var access Access
	if err := access.Scan(nil); err != nil {
		t.Fatalf("scan nil: %v", err)
	}
	if !access.IsUnrestricted() {
		t.Fatal("SQL NULL must scan as unrestricted")
	}

	var scoped Access
	if err := scoped.Scan([]byte(`["catering"]`)); err != nil {
		t.Fatalf("scan array: %v", err)
	}
	if scoped.IsUnrestricted() {
		t.Fatal("stored array must not scan as unrestricted")
	}
	if !scoped.grantsPermission(PermCatering) {
		t.Fatal("expected catering grant after scan")
	}
}
