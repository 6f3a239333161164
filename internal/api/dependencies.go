package api

import (
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"donatello/backend/internal/auth"
	"donatello/backend/internal/common"
	"donatello/backend/internal/config"
	"donatello/backend/internal/db/repositories"
	"donatello/backend/internal/metrics"
	"donatello/backend/internal/services"
)

type Repositories struct {
	User      *repositories.UserRepository
	Token     *repositories.TokenRepository
	Charity   *repositories.CharityRepository
	Employee  *repositories.EmployeeRepository
	Fundraise *repositories.FundraiseRepository
	Balance   *repositories.BalanceRepository
	Lookup    *repositories.LookupRepository
	Integrity *repositories.IntegrityRepository
}

type Services struct {
	Cache     *common.CacheService
	Queue     *common.LetterQueueService
	Lookup    *services.LookupService
	Auth      *services.AuthService
	User      *services.UserService
	Charity   *services.CharityService
	Employee  *services.CharityEmployeeService
	Fundraise *services.FundraiseService
	Donation  *services.DonationService
}

type Dependencies struct {
	Repo     *Repositories
	Services *Services
}

// InitDependencies wires repositories and services from the shared handles.
func InitDependencies(
	cfg *config.Config,
	ormDB *gorm.DB,
	sqlxDB *sqlx.DB,
	redisClient *redis.Client,
	metricsReg *metrics.MetricsRegistry,
) *Dependencies {
	repos := &Repositories{
		User:      repositories.NewUserRepository(ormDB),
		Token:     repositories.NewTokenRepository(ormDB),
		Charity:   repositories.NewCharityRepository(ormDB),
		Employee:  repositories.NewEmployeeRepository(ormDB),
		Fundraise: repositories.NewFundraiseRepository(ormDB),
		Balance:   repositories.NewBalanceRepository(ormDB),
		Lookup:    repositories.NewLookupRepository(ormDB),
		Integrity: repositories.NewIntegrityRepository(sqlxDB),
	}

	clock := common.SystemClock{}
	cacheSvc := common.NewCacheService(24*time.Hour, time.Hour)
	queueSvc := common.NewLetterQueueService(redisClient)
	codec := auth.NewTokenCodec(clock)
	hasher := auth.NewPasswordHasher(cfg.Argon2)

	lookupSvc := services.NewLookupService(repos.Lookup, cacheSvc)
	authSvc := services.NewAuthService(
		ormDB, repos.User, repos.Token, repos.Balance,
		codec, hasher, queueSvc, clock,
		cfg.Tokens, cfg.Session, metricsReg,
	)
	userSvc := services.NewUserService(repos.User)
	employeeSvc := services.NewCharityEmployeeService(ormDB, repos.Employee, lookupSvc)
	charitySvc := services.NewCharityService(ormDB, repos.Charity, repos.Employee, employeeSvc, lookupSvc)
	fundraiseSvc := services.NewFundraiseService(ormDB, repos.Fundraise, repos.Balance, employeeSvc, lookupSvc, clock)
	donationSvc := services.NewDonationService(ormDB, repos.User, repos.Balance, repos.Fundraise, repos.Integrity, clock, metricsReg)

	return &Dependencies{
		Repo: repos,
		Services: &Services{
			Cache:     cacheSvc,
			Queue:     queueSvc,
			Lookup:    lookupSvc,
			Auth:      authSvc,
			User:      userSvc,
			Charity:   charitySvc,
			Employee:  employeeSvc,
			Fundraise: fundraiseSvc,
			Donation:  donationSvc,
		},
	}
}
