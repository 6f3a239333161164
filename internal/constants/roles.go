package constants

import (
	"database/sql/driver"
	"fmt"
)

// EmployeeRole mirrors the pre-populated employee_roles table
type EmployeeRole string

const (
	RoleSupervisor EmployeeRole = "supervisor"
	RoleManager    EmployeeRole = "manager"
)

// AllRoles is the population set for the employee_roles table.
var AllRoles = []EmployeeRole{RoleSupervisor, RoleManager}

// Stringer ­– convenient for fmt / logs
func (r EmployeeRole) String() string { return string(r) }

/* ---------- DB adapters so sqlx (or database/sql) scans/values cleanly ---------- */

// Scan implements the sql.Scanner interface
func (r *EmployeeRole) Scan(src interface{}) error {
	if src == nil {
		*r = ""
		return nil
	}
	switch v := src.(type) {
	case string:
		*r = EmployeeRole(v)
	case []byte:
		*r = EmployeeRole(v)
	default:
		return fmt.Errorf("EmployeeRole: cannot scan type %T", src)
	}
	return nil
}

// Value implements the driver.Valuer interface
func (r EmployeeRole) Value() (driver.Value, error) { return string(r), nil }
