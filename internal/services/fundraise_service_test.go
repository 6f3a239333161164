package services

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"donatello/backend/internal/common"
	"donatello/backend/internal/models/dtos"
)

func createFundraise(t *testing.T, env *testEnv, charityID, callerID, title string) *dtos.FundraiseResponse {
	t.Helper()

	fundraise, err := env.fundraise.Create(context.Background(), callerID, &dtos.FundraiseCreateRequest{
		CharityID:   charityID,
		Title:       title,
		Description: "Fundraise " + title,
		Goal:        decimal.NewFromInt(1000),
	})
	if err != nil {
		t.Fatalf("Failed to create fundraise %s: %v", title, err)
	}
	return fundraise
}

func TestFundraiseCreateStartsAsNewAndDonatable(t *testing.T) {
	env := setupEnv(t)

	creator := registerUser(t, env, "raiser1")
	charity := createCharity(t, env, creator.ID, "river-cleanup")
	fundraise := createFundraise(t, env, charity.ID, creator.ID, "spring-drive")

	if fundraise.Status != "New" {
		t.Errorf("Expected status New, got %q", fundraise.Status)
	}
	if !fundraise.IsDonatable {
		t.Error("Expected a new fundraise to be donatable")
	}
	if fundraise.BalanceID == nil || *fundraise.BalanceID == "" {
		t.Error("Expected a collecting balance to be attached")
	}
}

func TestFundraiseCreateRequiresMembership(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	creator := registerUser(t, env, "raiser2")
	outsider := registerUser(t, env, "stranger2")
	charity := createCharity(t, env, creator.ID, "tree-planting")

	_, err := env.fundraise.Create(ctx, outsider.ID, &dtos.FundraiseCreateRequest{
		CharityID:   charity.ID,
		Title:       "rogue",
		Description: "should not exist",
		Goal:        decimal.NewFromInt(50),
	})
	if common.KindOf(err) != common.ErrNotAMember {
		t.Errorf("Expected not-a-member, got %v (%v)", common.KindOf(err), err)
	}
}

func TestFundraiseCreateRejectsNonPositiveGoal(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	creator := registerUser(t, env, "raiser3")
	charity := createCharity(t, env, creator.ID, "well-digging")

	_, err := env.fundraise.Create(ctx, creator.ID, &dtos.FundraiseCreateRequest{
		CharityID:   charity.ID,
		Title:       "zero-goal",
		Description: "no goal at all",
		Goal:        decimal.Zero,
	})
	if common.KindOf(err) != common.ErrInvalidInput {
		t.Errorf("Expected invalid input for zero goal, got %v (%v)", common.KindOf(err), err)
	}
}

func TestFundraiseStatusTransitions(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	creator := registerUser(t, env, "raiser4")
	charity := createCharity(t, env, creator.ID, "warm-meals")
	fundraise := createFundraise(t, env, charity.ID, creator.ID, "winter-drive")

	env.clock.Advance(time.Minute)
	resp, err := env.fundraise.AdvanceStatus(ctx, fundraise.ID, creator.ID, "In progress")
	if err != nil {
		t.Fatalf("New -> In progress failed: %v", err)
	}
	if resp.Status != "In progress" || !resp.IsDonatable {
		t.Errorf("Expected donatable In progress, got %q donatable=%v", resp.Status, resp.IsDonatable)
	}

	env.clock.Advance(time.Minute)
	resp, err = env.fundraise.AdvanceStatus(ctx, fundraise.ID, creator.ID, "On hold")
	if err != nil {
		t.Fatalf("In progress -> On hold failed: %v", err)
	}
	if resp.Status != "On hold" || resp.IsDonatable {
		t.Errorf("Expected non-donatable On hold, got %q donatable=%v", resp.Status, resp.IsDonatable)
	}

	// Self-loops are illegal.
	env.clock.Advance(time.Minute)
	if _, err := env.fundraise.AdvanceStatus(ctx, fundraise.ID, creator.ID, "On hold"); common.KindOf(err) != common.ErrIllegalTransition {
		t.Errorf("Expected illegal transition on self-loop, got %v (%v)", common.KindOf(err), err)
	}

	// Nothing returns to New once history exists.
	if _, err := env.fundraise.AdvanceStatus(ctx, fundraise.ID, creator.ID, "New"); common.KindOf(err) != common.ErrIllegalTransition {
		t.Errorf("Expected illegal transition back to New, got %v (%v)", common.KindOf(err), err)
	}

	env.clock.Advance(time.Minute)
	resp, err = env.fundraise.AdvanceStatus(ctx, fundraise.ID, creator.ID, "Completed")
	if err != nil {
		t.Fatalf("On hold -> Completed failed: %v", err)
	}
	if resp.Status != "Completed" || resp.IsDonatable {
		t.Errorf("Expected non-donatable Completed, got %q donatable=%v", resp.Status, resp.IsDonatable)
	}

	// Completed is not terminal.
	env.clock.Advance(time.Minute)
	if _, err := env.fundraise.AdvanceStatus(ctx, fundraise.ID, creator.ID, "In progress"); err != nil {
		t.Fatalf("Completed -> In progress failed: %v", err)
	}
}

func TestFundraiseStatusHistoryIsOrdered(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	creator := registerUser(t, env, "raiser5")
	charity := createCharity(t, env, creator.ID, "book-drive")
	fundraise := createFundraise(t, env, charity.ID, creator.ID, "paperbacks")

	env.clock.Advance(time.Minute)
	if _, err := env.fundraise.AdvanceStatus(ctx, fundraise.ID, creator.ID, "In progress"); err != nil {
		t.Fatalf("AdvanceStatus failed: %v", err)
	}
	env.clock.Advance(time.Minute)
	if _, err := env.fundraise.AdvanceStatus(ctx, fundraise.ID, creator.ID, "Completed"); err != nil {
		t.Fatalf("AdvanceStatus failed: %v", err)
	}

	history, err := env.fundraise.StatusHistory(ctx, fundraise.ID)
	if err != nil {
		t.Fatalf("StatusHistory failed: %v", err)
	}
	want := []string{"New", "In progress", "Completed"}
	if len(history) != len(want) {
		t.Fatalf("Expected %d entries, got %d", len(want), len(history))
	}
	for i, entry := range history {
		if entry.Status != want[i] {
			t.Errorf("Entry %d: expected %q, got %q", i, want[i], entry.Status)
		}
		if i > 0 && entry.AppliedAt.Before(history[i-1].AppliedAt) {
			t.Errorf("Entry %d applied before its predecessor", i)
		}
	}
}

func TestFundraiseAdvanceStatusRequiresMemberRole(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	creator := registerUser(t, env, "raiser6")
	outsider := registerUser(t, env, "stranger6")
	charity := createCharity(t, env, creator.ID, "coat-drive")
	fundraise := createFundraise(t, env, charity.ID, creator.ID, "coats")

	_, err := env.fundraise.AdvanceStatus(ctx, fundraise.ID, outsider.ID, "In progress")
	if common.KindOf(err) != common.ErrNotAMember {
		t.Errorf("Expected not-a-member, got %v (%v)", common.KindOf(err), err)
	}
}

func TestFundraiseUpdateAndDelete(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	creator := registerUser(t, env, "raiser7")
	charity := createCharity(t, env, creator.ID, "pet-food")
	fundraise := createFundraise(t, env, charity.ID, creator.ID, "kibble")

	newGoal := decimal.NewFromInt(2500)
	updated, err := env.fundraise.Update(ctx, fundraise.ID, creator.ID, &dtos.FundraiseUpdateRequest{Goal: &newGoal})
	if err != nil {
		t.Fatalf("Update failed: %v", err)
	}
	if !updated.Goal.Equal(newGoal) {
		t.Errorf("Expected goal %s, got %s", newGoal, updated.Goal)
	}

	if err := env.fundraise.Delete(ctx, fundraise.ID, creator.ID); err != nil {
		t.Fatalf("Delete failed: %v", err)
	}
	if _, err := env.fundraise.GetByID(ctx, fundraise.ID); common.KindOf(err) != common.ErrNotFound {
		t.Errorf("Expected not found after delete, got %v (%v)", common.KindOf(err), err)
	}
}
