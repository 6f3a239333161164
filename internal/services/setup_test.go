package services

import (
	"context"
	"testing"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"donatello/backend/internal/auth"
	"donatello/backend/internal/common"
	"donatello/backend/internal/config"
	"donatello/backend/internal/constants"
	"donatello/backend/internal/db/repositories"
	"donatello/backend/internal/models/dtos"
	gormModels "donatello/backend/internal/models/gorm"
)

type frozenClock struct {
	now time.Time
}

func (c *frozenClock) Now() time.Time { return c.now }

func (c *frozenClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

// Mock letter queue capturing submitted jobs
type mockLetterQueue struct {
	submitFunc func(ctx context.Context, job *common.LetterJob) error
	jobs       []*common.LetterJob
}

func (m *mockLetterQueue) Submit(ctx context.Context, job *common.LetterJob) error {
	m.jobs = append(m.jobs, job)
	if m.submitFunc != nil {
		return m.submitFunc(ctx, job)
	}
	return nil
}

// Setup test database
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := db.AutoMigrate(
		&gormModels.Balance{},
		&gormModels.User{},
		&gormModels.AuthToken{},
		&gormModels.Charity{},
		&gormModels.Employee{},
		&gormModels.Membership{},
		&gormModels.Role{},
		&gormModels.MembershipRole{},
		&gormModels.Fundraise{},
		&gormModels.FundraiseStatus{},
		&gormModels.FundraiseStatusHistory{},
		&gormModels.Refill{},
		&gormModels.Donation{},
	); err != nil {
		t.Fatalf("Failed to migrate: %v", err)
	}

	return db
}

type testEnv struct {
	db        *gorm.DB
	clock     *frozenClock
	queue     *mockLetterQueue
	hasher    *auth.PasswordHasher
	lookup    *LookupService
	auth      *AuthService
	user      *UserService
	charity   *CharityService
	employee  *CharityEmployeeService
	fundraise *FundraiseService
	donation  *DonationService
}

func testTokenConfig() config.TokenConfig {
	return config.TokenConfig{
		EmailConfirmationLifetime: 7 * 24 * time.Hour,
		ChangePasswordLifetime:    24 * time.Hour,
		Cooldown:                  5 * time.Minute,
	}
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()

	db := setupTestDB(t)
	clock := &frozenClock{now: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	queue := &mockLetterQueue{}

	hasher := auth.NewPasswordHasher(config.Argon2Config{
		Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32,
	})
	codec := auth.NewTokenCodec(clock)

	users := repositories.NewUserRepository(db)
	tokens := repositories.NewTokenRepository(db)
	charities := repositories.NewCharityRepository(db)
	employees := repositories.NewEmployeeRepository(db)
	fundraisers := repositories.NewFundraiseRepository(db)
	balances := repositories.NewBalanceRepository(db)
	lookups := repositories.NewLookupRepository(db)

	cache := common.NewCacheService(time.Hour, time.Hour)
	lookupSvc := NewLookupService(lookups, cache)
	if err := lookupSvc.Prepopulate(context.Background()); err != nil {
		t.Fatalf("Failed to prepopulate reference tables: %v", err)
	}

	authSvc := NewAuthService(
		db, users, tokens, balances, codec, hasher, queue, clock,
		testTokenConfig(),
		config.SessionConfig{Secret: "test-session-secret", TTL: time.Hour},
		nil,
	)
	employeeSvc := NewCharityEmployeeService(db, employees, lookupSvc)

	return &testEnv{
		db:        db,
		clock:     clock,
		queue:     queue,
		hasher:    hasher,
		lookup:    lookupSvc,
		auth:      authSvc,
		user:      NewUserService(users),
		charity:   NewCharityService(db, charities, employees, employeeSvc, lookupSvc),
		employee:  employeeSvc,
		fundraise: NewFundraiseService(db, fundraisers, balances, employeeSvc, lookupSvc, clock),
		donation:  NewDonationService(db, users, balances, fundraisers, nil, clock, nil),
	}
}

// registerUser creates an activated user through the real registration path.
func registerUser(t *testing.T, env *testEnv, username string) *dtos.UserResponse {
	t.Helper()

	user, err := env.auth.Register(context.Background(), &dtos.RegisterUserRequest{
		Username:    username,
		Email:       username + "@example.com",
		PhoneNumber: username + "-555-0100",
		Password:    "password-" + username,
	})
	if err != nil {
		t.Fatalf("Register(%s) failed: %v", username, err)
	}

	// Activate directly; the confirmation flow has its own tests
	now := env.clock.Now()
	if err := env.db.Model(&gormModels.User{}).
		Where("id = ?", user.ID).
		Update("activated_at", now).Error; err != nil {
		t.Fatalf("Failed to activate %s: %v", username, err)
	}
	return user
}

func latestToken(t *testing.T, env *testEnv, userID string, kind constants.TokenKind) *gormModels.AuthToken {
	t.Helper()

	var token gormModels.AuthToken
	err := env.db.
		Where("user_id = ? AND kind = ? AND expired_at IS NULL", userID, kind).
		Order("created_at DESC").
		First(&token).Error
	if err != nil {
		t.Fatalf("No active %s token for %s: %v", kind, userID, err)
	}
	return &token
}
