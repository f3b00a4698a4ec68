// Package permissions holds the pure access-control rules for the back
// office. It performs no I/O: callers resolve the subject's profile and this
// package only answers yes/no.
package permissions

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// Permission is one tag out of a fixed, closed set. Granting anything outside
// the set is rejected at validation time.
type Permission string

const (
	PermProducts   Permission = "products"
	PermOrders     Permission = "orders"
	PermCustomers  Permission = "customers"
	PermCategories Permission = "categories"
	PermCatering   Permission = "catering"
	PermSettings   Permission = "settings"
	PermAnalytics  Permission = "analytics"
)

// All returns the closed permission set in a stable order.
func All() []Permission {
	return []Permission{
		PermProducts, PermOrders, PermCustomers, PermCategories,
		PermCatering, PermSettings, PermAnalytics,
	}
}

func IsValid(p Permission) bool {
	switch p {
	case PermProducts, PermOrders, PermCustomers, PermCategories,
		PermCatering, PermSettings, PermAnalytics:
		return true
	default:
		return false
	}
}

// Access is the tagged alternative to the null-sentinel convention: either
// unrestricted (super admin) or an explicit, possibly empty, grant set. The
// zero value is Scoped with no grants, i.e. no access to any gated feature.
type Access struct {
	unrestricted bool
	grants       map[Permission]struct{}
}

// Unrestricted builds the super-admin variant.
func Unrestricted() Access {
	return Access{unrestricted: true}
}

// Scoped builds an explicit grant set. Unknown tags are dropped rather than
// stored, so a stray value can never widen access later.
func Scoped(perms ...Permission) Access {
	grants := make(map[Permission]struct{}, len(perms))
	for _, p := range perms {
		if IsValid(p) {
			grants[p] = struct{}{}
		}
	}
	return Access{grants: grants}
}

func (a Access) IsUnrestricted() bool {
	return a.unrestricted
}

func (a Access) Grants() []Permission {
	if a.unrestricted {
		return nil
	}
	out := make([]Permission, 0, len(a.grants))
	for _, p := range All() {
		if _, ok := a.grants[p]; ok {
			out = append(out, p)
		}
	}
	return out
}

func (a Access) grantsPermission(p Permission) bool {
	if a.unrestricted {
		return true
	}
	_, ok := a.grants[p]
	return ok
}

// MarshalJSON keeps the wire shape the storefront expects: null means
// unrestricted, an array means a scoped grant set.
func (a Access) MarshalJSON() ([]byte, error) {
	if a.unrestricted {
		return []byte("null"), nil
	}
	return json.Marshal(a.Grants())
}

func (a *Access) UnmarshalJSON(data []byte) error {
	if string(data) == "null" {
		*a = Unrestricted()
		return nil
	}
	var perms []Permission
	if err := json.Unmarshal(data, &perms); err != nil {
		return err
	}
	*a = Scoped(perms...)
	return nil
}

// Value stores unrestricted access as SQL NULL and scoped access as a JSON
// array, matching the column contract relied on by the storefront.
func (a Access) Value() (driver.Value, error) {
	if a.unrestricted {
		return nil, nil
	}
	data, err := json.Marshal(a.Grants())
	if err != nil {
		return nil, err
	}
	return string(data), nil
}

func (a *Access) Scan(src interface{}) error {
	if src == nil {
		*a = Unrestricted()
		return nil
	}
	var data []byte
	switch v := src.(type) {
	case []byte:
		data = v
	case string:
		data = []byte(v)
	default:
		return fmt.Errorf("unsupported access column type %T", src)
	}
	var perms []Permission
	if err := json.Unmarshal(data, &perms); err != nil {
		return fmt.Errorf("decode access column: %w", err)
	}
	*a = Scoped(perms...)
	return nil
}

// Grantee is the minimal profile view the rules need. Implementations must
// tolerate nil receivers so an absent profile simply evaluates to false.
type Grantee interface {
	IsAdminRole() bool
	AdminAccess() Access
}

// IsSuperAdmin reports whether the subject is an admin with unrestricted
// access. Customers never qualify, whatever their access column holds.
func IsSuperAdmin(g Grantee) bool {
	return g != nil && g.IsAdminRole() && g.AdminAccess().IsUnrestricted()
}

// HasPermission reports whether the subject may use the feature gated by p.
// Absent subjects and non-admin roles always evaluate to false.
func HasPermission(g Grantee, p Permission) bool {
	if g == nil || !g.IsAdminRole() {
		return false
	}
	return g.AdminAccess().grantsPermission(p)
}

func HasAnyPermission(g Grantee, perms ...Permission) bool {
	if IsSuperAdmin(g) {
		return true
	}
	for _, p := range perms {
		if HasPermission(g, p) {
			return true
		}
	}
	return false
}

func HasAllPermissions(g Grantee, perms ...Permission) bool {
	if IsSuperAdmin(g) {
		return true
	}
	for _, p := range perms {
		if !HasPermission(g, p) {
			return false
		}
	}
	return g != nil && g.IsAdminRole()
}
