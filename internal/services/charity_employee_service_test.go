package services

import (
	"context"
	"sync"
	"testing"

	"donatello/backend/internal/common"
	"donatello/backend/internal/constants"
	"donatello/backend/internal/models/dtos"
	gormModels "donatello/backend/internal/models/gorm"
)

// createCharity registers a charity through the real creation path, seating
// the creator as its first supervisor.
func createCharity(t *testing.T, env *testEnv, creatorID, title string) *dtos.CharityResponse {
	t.Helper()

	charity, err := env.charity.Create(context.Background(), creatorID, &dtos.CharityCreateRequest{
		Title:       title,
		Description: "Test charity " + title,
		Email:       title + "@charity.example.com",
		Phone:       title + "-555-0200",
	})
	if err != nil {
		t.Fatalf("Failed to create charity %s: %v", title, err)
	}
	return charity
}

func addEmployee(t *testing.T, env *testEnv, charityID, callerID, userID, role string) *dtos.EmployeeResponse {
	t.Helper()

	resp, err := env.employee.AddEmployee(context.Background(), charityID, callerID, &dtos.AddEmployeeRequest{
		UserID: userID,
		Role:   role,
	})
	if err != nil {
		t.Fatalf("AddEmployee(%s as %s) failed: %v", userID, role, err)
	}
	return resp
}

func TestCharityCreateSeatsCreatorAsSupervisor(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	creator := registerUser(t, env, "founder")
	charity := createCharity(t, env, creator.ID, "shelter")

	members, err := env.employee.ListMembers(ctx, charity.ID, creator.ID)
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(members) != 1 {
		t.Fatalf("Expected 1 member, got %d", len(members))
	}
	if members[0].UserID != creator.ID {
		t.Errorf("Expected creator on roster, got %s", members[0].UserID)
	}
	if len(members[0].Roles) != 1 || members[0].Roles[0] != string(constants.RoleSupervisor) {
		t.Errorf("Expected supervisor role, got %v", members[0].Roles)
	}
}

func TestAuthorizeRejectsNonMember(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	creator := registerUser(t, env, "owner1")
	outsider := registerUser(t, env, "outsider1")
	charity := createCharity(t, env, creator.ID, "foodbank")

	err := env.employee.Authorize(ctx, charity.ID, outsider.ID, constants.ActionAddFundraise)
	if common.KindOf(err) != common.ErrNotAMember {
		t.Errorf("Expected not-a-member, got %v (%v)", common.KindOf(err), err)
	}

	if _, err := env.employee.ListMembers(ctx, charity.ID, outsider.ID); common.KindOf(err) != common.ErrNotAMember {
		t.Errorf("Expected not-a-member on roster read, got %v (%v)", common.KindOf(err), err)
	}
}

func TestManagerCannotEditCharity(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	creator := registerUser(t, env, "owner2")
	manager := registerUser(t, env, "manager2")
	charity := createCharity(t, env, creator.ID, "hospice")
	addEmployee(t, env, charity.ID, creator.ID, manager.ID, "manager")

	newTitle := "renamed"
	_, err := env.charity.Update(ctx, charity.ID, manager.ID, &dtos.CharityUpdateRequest{Title: &newTitle})
	if common.KindOf(err) != common.ErrForbidden {
		t.Fatalf("Expected forbidden for manager edit, got %v (%v)", common.KindOf(err), err)
	}

	// The supervisor path works.
	updated, err := env.charity.Update(ctx, charity.ID, creator.ID, &dtos.CharityUpdateRequest{Title: &newTitle})
	if err != nil {
		t.Fatalf("Supervisor update failed: %v", err)
	}
	if updated.Title != newTitle {
		t.Errorf("Expected title %q, got %q", newTitle, updated.Title)
	}
}

func TestManagerMaySeatManagersButNotSupervisors(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	creator := registerUser(t, env, "owner3")
	manager := registerUser(t, env, "manager3")
	recruitA := registerUser(t, env, "recruit3a")
	recruitB := registerUser(t, env, "recruit3b")
	charity := createCharity(t, env, creator.ID, "animal-rescue")
	addEmployee(t, env, charity.ID, creator.ID, manager.ID, "manager")

	resp, err := env.employee.AddEmployee(ctx, charity.ID, manager.ID, &dtos.AddEmployeeRequest{
		UserID: recruitA.ID,
		Role:   "manager",
	})
	if err != nil {
		t.Fatalf("Manager seating a manager failed: %v", err)
	}
	if len(resp.Roles) != 1 || resp.Roles[0] != string(constants.RoleManager) {
		t.Errorf("Expected manager role, got %v", resp.Roles)
	}

	_, err = env.employee.AddEmployee(ctx, charity.ID, manager.ID, &dtos.AddEmployeeRequest{
		UserID: recruitB.ID,
		Role:   "supervisor",
	})
	if common.KindOf(err) != common.ErrForbidden {
		t.Errorf("Expected forbidden for manager seating supervisor, got %v (%v)", common.KindOf(err), err)
	}
}

func TestAddEmployeeTwiceConflicts(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	creator := registerUser(t, env, "owner4")
	worker := registerUser(t, env, "worker4")
	charity := createCharity(t, env, creator.ID, "library-fund")
	addEmployee(t, env, charity.ID, creator.ID, worker.ID, "manager")

	_, err := env.employee.AddEmployee(ctx, charity.ID, creator.ID, &dtos.AddEmployeeRequest{
		UserID: worker.ID,
		Role:   "manager",
	})
	if common.KindOf(err) != common.ErrConflict {
		t.Errorf("Expected conflict on duplicate membership, got %v (%v)", common.KindOf(err), err)
	}
}

func TestAssignAndRevokeRole(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	creator := registerUser(t, env, "owner5")
	worker := registerUser(t, env, "worker5")
	charity := createCharity(t, env, creator.ID, "scholarship")
	addEmployee(t, env, charity.ID, creator.ID, worker.ID, "manager")

	resp, err := env.employee.AssignRole(ctx, charity.ID, creator.ID, worker.ID, "supervisor")
	if err != nil {
		t.Fatalf("AssignRole failed: %v", err)
	}
	if len(resp.Roles) != 2 {
		t.Errorf("Expected 2 roles, got %v", resp.Roles)
	}

	if _, err := env.employee.AssignRole(ctx, charity.ID, creator.ID, worker.ID, "supervisor"); common.KindOf(err) != common.ErrConflict {
		t.Errorf("Expected conflict assigning held role, got %v (%v)", common.KindOf(err), err)
	}

	resp, err = env.employee.RevokeRole(ctx, charity.ID, creator.ID, worker.ID, "supervisor")
	if err != nil {
		t.Fatalf("RevokeRole failed: %v", err)
	}
	if len(resp.Roles) != 1 || resp.Roles[0] != string(constants.RoleManager) {
		t.Errorf("Expected manager role left, got %v", resp.Roles)
	}

	if _, err := env.employee.RevokeRole(ctx, charity.ID, creator.ID, worker.ID, "supervisor"); common.KindOf(err) != common.ErrNotFound {
		t.Errorf("Expected not found revoking absent role, got %v (%v)", common.KindOf(err), err)
	}
}

func TestLastSupervisorCannotBeRemoved(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	creator := registerUser(t, env, "owner6")
	charity := createCharity(t, env, creator.ID, "night-shelter")

	err := env.employee.RemoveEmployee(ctx, charity.ID, creator.ID, creator.ID)
	if common.KindOf(err) != common.ErrLastSupervisor {
		t.Fatalf("Expected last-supervisor guard on remove, got %v (%v)", common.KindOf(err), err)
	}

	if _, err := env.employee.RevokeRole(ctx, charity.ID, creator.ID, creator.ID, "supervisor"); common.KindOf(err) != common.ErrLastSupervisor {
		t.Fatalf("Expected last-supervisor guard on revoke, got %v (%v)", common.KindOf(err), err)
	}

	// With a second supervisor seated the first one may leave.
	second := registerUser(t, env, "cofounder6")
	addEmployee(t, env, charity.ID, creator.ID, second.ID, "supervisor")

	if err := env.employee.RemoveEmployee(ctx, charity.ID, second.ID, creator.ID); err != nil {
		t.Fatalf("Removing a supervisor with a backup failed: %v", err)
	}

	members, err := env.employee.ListMembers(ctx, charity.ID, second.ID)
	if err != nil {
		t.Fatalf("ListMembers failed: %v", err)
	}
	if len(members) != 1 || members[0].UserID != second.ID {
		t.Errorf("Expected only the second supervisor on roster, got %v", members)
	}
}

func TestConcurrentSupervisorRemovalsKeepOne(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	first := registerUser(t, env, "owner8a")
	second := registerUser(t, env, "owner8b")
	charity := createCharity(t, env, first.ID, "soup-kitchen")
	addEmployee(t, env, charity.ID, first.ID, second.ID, "supervisor")

	// Each supervisor tries to remove the other at the same time. The
	// guard counts inside the removal transaction, so at most one of the
	// two can commit.
	var wg sync.WaitGroup
	errs := make([]error, 2)
	calls := [][2]string{{first.ID, second.ID}, {second.ID, first.ID}}
	for i, pair := range calls {
		wg.Add(1)
		go func(i int, caller, target string) {
			defer wg.Done()
			errs[i] = env.employee.RemoveEmployee(ctx, charity.ID, caller, target)
		}(i, pair[0], pair[1])
	}
	wg.Wait()

	succeeded := 0
	for _, err := range errs {
		if err == nil {
			succeeded++
		}
	}
	if succeeded > 1 {
		t.Errorf("Expected at most one removal to succeed, got %d", succeeded)
	}

	var remaining int64
	if err := env.db.Model(&gormModels.Membership{}).
		Where("charity_id = ?", charity.ID).
		Count(&remaining).Error; err != nil {
		t.Fatalf("Failed to count memberships: %v", err)
	}
	if remaining < 1 {
		t.Fatalf("Charity lost every supervisor: %d memberships left", remaining)
	}
}

func TestManagerCannotRemoveSupervisor(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	creator := registerUser(t, env, "owner7")
	manager := registerUser(t, env, "manager7")
	backup := registerUser(t, env, "backup7")
	charity := createCharity(t, env, creator.ID, "relief-fund")
	addEmployee(t, env, charity.ID, creator.ID, manager.ID, "manager")
	addEmployee(t, env, charity.ID, creator.ID, backup.ID, "supervisor")

	err := env.employee.RemoveEmployee(ctx, charity.ID, manager.ID, creator.ID)
	if common.KindOf(err) != common.ErrForbidden {
		t.Errorf("Expected forbidden for manager removing supervisor, got %v (%v)", common.KindOf(err), err)
	}
}
