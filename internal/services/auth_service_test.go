package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"donatello/backend/internal/common"
	"donatello/backend/internal/constants"
	"donatello/backend/internal/models/dtos"
	gormModels "donatello/backend/internal/models/gorm"
)

func TestAuthService_RegisterCreatesUserBalanceAndToken(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	user, err := env.auth.Register(ctx, &dtos.RegisterUserRequest{
		Username:    "alice",
		Email:       "alice@example.com",
		PhoneNumber: "555-0101",
		Password:    "password-alice",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if user.ActivatedAt != nil {
		t.Error("Expected freshly registered user to be inactive")
	}

	var stored gormModels.User
	if err := env.db.Preload("Balance").Where("id = ?", user.ID).First(&stored).Error; err != nil {
		t.Fatalf("User not found: %v", err)
	}
	if stored.Balance.ID == "" {
		t.Error("Expected a balance to be created with the user")
	}
	if !stored.Balance.Amount.IsZero() {
		t.Errorf("Expected zero starting balance, got %s", stored.Balance.Amount)
	}
	if stored.Password == "password-alice" {
		t.Error("Password must not be stored in plain text")
	}

	token := latestToken(t, env, user.ID, constants.TokenKindEmailConfirmation)
	if token.Token == "" {
		t.Error("Expected a confirmation token to be issued")
	}

	if len(env.queue.jobs) != 1 {
		t.Fatalf("Expected 1 letter job, got %d", len(env.queue.jobs))
	}
	job := env.queue.jobs[0]
	if job.Kind != constants.JobKindConfirmationLetter {
		t.Errorf("Expected confirmation letter job, got %s", job.Kind)
	}
	if job.Token != token.Token {
		t.Error("Letter job must carry the issued token")
	}
}

func TestAuthService_RegisterDuplicateUsername(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	registerUser(t, env, "bob")

	_, err := env.auth.Register(ctx, &dtos.RegisterUserRequest{
		Username:    "bob",
		Email:       "other@example.com",
		PhoneNumber: "555-0199",
		Password:    "password-other",
	})
	if common.KindOf(err) != common.ErrConflict {
		t.Errorf("Expected conflict, got %v (%v)", common.KindOf(err), err)
	}
}

func TestAuthService_ResendThrottledInsideCooldown(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	if _, err := env.auth.Register(ctx, &dtos.RegisterUserRequest{
		Username:    "carol",
		Email:       "carol@example.com",
		PhoneNumber: "555-0102",
		Password:    "password-carol",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	env.clock.Advance(2 * time.Minute)

	_, err := env.auth.ResendConfirmation(ctx, "carol@example.com")
	if common.KindOf(err) != common.ErrTokenThrottled {
		t.Fatalf("Expected throttled, got %v (%v)", common.KindOf(err), err)
	}
	// 5m cooldown minus 2m elapsed
	if !strings.Contains(err.Error(), "3m0s") {
		t.Errorf("Expected remaining window in message, got %q", err.Error())
	}
}

func TestAuthService_ResendAfterCooldownRetiresOldToken(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	user, err := env.auth.Register(ctx, &dtos.RegisterUserRequest{
		Username:    "dave",
		Email:       "dave@example.com",
		PhoneNumber: "555-0103",
		Password:    "password-dave",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	first := latestToken(t, env, user.ID, constants.TokenKindEmailConfirmation)

	env.clock.Advance(6 * time.Minute)

	if _, err := env.auth.ResendConfirmation(ctx, "dave@example.com"); err != nil {
		t.Fatalf("ResendConfirmation failed: %v", err)
	}

	second := latestToken(t, env, user.ID, constants.TokenKindEmailConfirmation)
	if second.Token == first.Token {
		t.Error("Expected a fresh token after resend")
	}

	var firstReloaded gormModels.AuthToken
	if err := env.db.Where("id = ?", first.ID).First(&firstReloaded).Error; err != nil {
		t.Fatalf("First token disappeared: %v", err)
	}
	if firstReloaded.ExpiredAt == nil {
		t.Error("Expected the prior token to be retired on reissue")
	}

	// The retired token no longer confirms
	if _, err := env.auth.ConfirmEmail(ctx, first.Token); common.KindOf(err) != common.ErrTokenExpiredInStore {
		t.Errorf("Expected already-expired store error, got %v", err)
	}
}

func TestAuthService_ConfirmEmailActivatesOnce(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	user, err := env.auth.Register(ctx, &dtos.RegisterUserRequest{
		Username:    "erin",
		Email:       "erin@example.com",
		PhoneNumber: "555-0104",
		Password:    "password-erin",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	token := latestToken(t, env, user.ID, constants.TokenKindEmailConfirmation)

	resp, err := env.auth.ConfirmEmail(ctx, token.Token)
	if err != nil {
		t.Fatalf("ConfirmEmail failed: %v", err)
	}
	if !strings.Contains(resp.Message, "erin@example.com") {
		t.Errorf("Expected email in message, got %q", resp.Message)
	}

	var stored gormModels.User
	if err := env.db.Where("id = ?", user.ID).First(&stored).Error; err != nil {
		t.Fatalf("User not found: %v", err)
	}
	if stored.ActivatedAt == nil {
		t.Fatal("Expected user to be activated")
	}

	// Single use: the same token cannot confirm twice
	if _, err := env.auth.ConfirmEmail(ctx, token.Token); common.KindOf(err) != common.ErrTokenExpiredInStore {
		t.Errorf("Expected already-used error on second confirm, got %v", err)
	}
}

func TestAuthService_ConfirmEmailUnknownToken(t *testing.T) {
	env := setupEnv(t)

	_, err := env.auth.ConfirmEmail(context.Background(), "garbage-token")
	if common.KindOf(err) != common.ErrInvalidToken {
		t.Errorf("Expected invalid token, got %v (%v)", common.KindOf(err), err)
	}
}

func TestAuthService_ConfirmEmailAfterLifetimeStampsRow(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	user, err := env.auth.Register(ctx, &dtos.RegisterUserRequest{
		Username:    "frank",
		Email:       "frank@example.com",
		PhoneNumber: "555-0105",
		Password:    "password-frank",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	token := latestToken(t, env, user.ID, constants.TokenKindEmailConfirmation)

	env.clock.Advance(8 * 24 * time.Hour)

	_, err = env.auth.ConfirmEmail(ctx, token.Token)
	if common.KindOf(err) != common.ErrTokenExpiredCrypto {
		t.Fatalf("Expected crypto-expired, got %v (%v)", common.KindOf(err), err)
	}

	// The store row catches up with the envelope expiry
	var reloaded gormModels.AuthToken
	if err := env.db.Where("id = ?", token.ID).First(&reloaded).Error; err != nil {
		t.Fatalf("Token row not found: %v", err)
	}
	if reloaded.ExpiredAt == nil {
		t.Error("Expected expired_at to be stamped after crypto expiry")
	}
}

func TestAuthService_ChangePasswordFlow(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	user := registerUser(t, env, "grace")
	env.clock.Advance(10 * time.Minute)

	if _, err := env.auth.ForgotPassword(ctx, "grace@example.com"); err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}
	token := latestToken(t, env, user.ID, constants.TokenKindChangePassword)

	if _, err := env.auth.ChangePassword(ctx, &dtos.ChangePasswordRequest{
		Token:    token.Token,
		Password: "brand-new-password",
	}); err != nil {
		t.Fatalf("ChangePassword failed: %v", err)
	}

	// Old password no longer works, new one does
	if _, err := env.auth.Login(ctx, &dtos.LoginRequest{
		Username: "grace", Password: "password-grace",
	}); common.KindOf(err) != common.ErrUnauthorized {
		t.Errorf("Expected old password to be rejected, got %v", err)
	}
	if _, err := env.auth.Login(ctx, &dtos.LoginRequest{
		Username: "grace", Password: "brand-new-password",
	}); err != nil {
		t.Errorf("Expected new password to log in: %v", err)
	}

	// The consumed token cannot change the password again
	if _, err := env.auth.ChangePassword(ctx, &dtos.ChangePasswordRequest{
		Token:    token.Token,
		Password: "another-password",
	}); common.KindOf(err) != common.ErrTokenExpiredInStore {
		t.Errorf("Expected already-used error, got %v", err)
	}
}

// Changing the password replaces the signing key, so a reset token issued
// before the change cannot verify even though its row was live.
func TestAuthService_PasswordChangeOrphansOutstandingTokens(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	user := registerUser(t, env, "heidi")
	env.clock.Advance(10 * time.Minute)

	if _, err := env.auth.ForgotPassword(ctx, "heidi@example.com"); err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}
	oldToken := latestToken(t, env, user.ID, constants.TokenKindChangePassword)

	// New password set directly, simulating a change through another session
	newHash, err := env.hasher.Hash("changed-elsewhere")
	if err != nil {
		t.Fatalf("Hash failed: %v", err)
	}
	if err := env.db.Model(&gormModels.User{}).
		Where("id = ?", user.ID).
		Update("password", newHash).Error; err != nil {
		t.Fatalf("Failed to update password: %v", err)
	}

	_, err = env.auth.ChangePassword(ctx, &dtos.ChangePasswordRequest{
		Token:    oldToken.Token,
		Password: "attacker-password",
	})
	if common.KindOf(err) != common.ErrInvalidToken {
		t.Errorf("Expected invalid token after key rotation, got %v (%v)", common.KindOf(err), err)
	}
}

func TestAuthService_ThrottleIsPerKind(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	user, err := env.auth.Register(ctx, &dtos.RegisterUserRequest{
		Username:    "ivan",
		Email:       "ivan@example.com",
		PhoneNumber: "555-0106",
		Password:    "password-ivan",
	})
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	// Confirmation token was just issued; a change-password request is a
	// different kind and must not be throttled by it.
	if _, err := env.auth.ForgotPassword(ctx, "ivan@example.com"); err != nil {
		t.Fatalf("ForgotPassword failed: %v", err)
	}
	latestToken(t, env, user.ID, constants.TokenKindChangePassword)
}

func TestAuthService_LoginRejectsUnknownAndUnconfirmed(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()

	if _, err := env.auth.Login(ctx, &dtos.LoginRequest{
		Username: "nobody", Password: "whatever",
	}); common.KindOf(err) != common.ErrUnauthorized {
		t.Errorf("Expected unauthorized for unknown user, got %v", err)
	}

	if _, err := env.auth.Register(ctx, &dtos.RegisterUserRequest{
		Username:    "judy",
		Email:       "judy@example.com",
		PhoneNumber: "555-0107",
		Password:    "password-judy",
	}); err != nil {
		t.Fatalf("Register failed: %v", err)
	}

	_, err := env.auth.Login(ctx, &dtos.LoginRequest{
		Username: "judy", Password: "password-judy",
	})
	if common.KindOf(err) != common.ErrUnauthorized {
		t.Errorf("Expected unauthorized for unconfirmed user, got %v", err)
	}
}

func TestAuthService_ResendForActivatedUser(t *testing.T) {
	env := setupEnv(t)

	registerUser(t, env, "kate")

	_, err := env.auth.ResendConfirmation(context.Background(), "kate@example.com")
	if common.KindOf(err) != common.ErrUserAlreadyActivated {
		t.Errorf("Expected already-activated error, got %v", err)
	}
}
