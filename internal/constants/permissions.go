package constants

// CharityAction names an operation gated by the membership role policy.
type CharityAction string

const (
	ActionEditCharity     CharityAction = "edit_charity"
	ActionDeleteCharity   CharityAction = "delete_charity"
	ActionAddFundraise    CharityAction = "add_fundraise"
	ActionRemoveFundraise CharityAction = "remove_fundraise"
	ActionAdvanceStatus   CharityAction = "advance_fundraise_status"
)

// ActionAllowedRoles maps a charity action to the membership roles that may
// perform it.
var ActionAllowedRoles = map[CharityAction][]EmployeeRole{
	ActionEditCharity:     {RoleSupervisor},
	ActionDeleteCharity:   {RoleSupervisor},
	ActionAddFundraise:    {RoleSupervisor, RoleManager},
	ActionRemoveFundraise: {RoleSupervisor, RoleManager},
	ActionAdvanceStatus:   {RoleSupervisor, RoleManager},
}

// AssignRoleAllowedRoles maps the role being granted to a new or existing
// employee to the caller roles that may grant it. Revoking a role follows the
// same mapping as assigning it.
var AssignRoleAllowedRoles = map[EmployeeRole][]EmployeeRole{
	RoleSupervisor: {RoleSupervisor},
	RoleManager:    {RoleSupervisor, RoleManager},
}

// RemoveEmployeeAllowedRoles maps the highest role held by the employee being
// removed to the caller roles that may remove them.
var RemoveEmployeeAllowedRoles = map[EmployeeRole][]EmployeeRole{
	RoleSupervisor: {RoleSupervisor},
	RoleManager:    {RoleSupervisor, RoleManager},
}

// RoleSetAllowed reports whether any role in the caller's set appears in the
// allowed set.
func RoleSetAllowed(callerRoles []EmployeeRole, allowed []EmployeeRole) bool {
	for _, have := range callerRoles {
		for _, want := range allowed {
			if have == want {
				return true
			}
		}
	}
	return false
}
