package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"donatello/backend/internal/auth"
	"donatello/backend/internal/common"
	"donatello/backend/internal/config"
	"donatello/backend/internal/constants"
	"donatello/backend/internal/db/repositories"
	"donatello/backend/internal/logging"
	"donatello/backend/internal/metrics"
	"donatello/backend/internal/models/dtos"
	gormModels "donatello/backend/internal/models/gorm"
)

// AuthService owns registration, login and the full auth token lifecycle:
// issuing with the anti-spam cooldown, single-use consumption, and the two
// expiry dimensions (cryptographic expiry inside the envelope, soft expiry
// in the store).
type AuthService struct {
	db       *gorm.DB
	users    *repositories.UserRepository
	tokens   *repositories.TokenRepository
	balances *repositories.BalanceRepository
	codec    *auth.TokenCodec
	hasher   *auth.PasswordHasher
	queue    common.LetterQueue
	clock    common.Clock
	tokenCfg config.TokenConfig
	session  config.SessionConfig
	metrics  *metrics.MetricsRegistry
}

func NewAuthService(
	db *gorm.DB,
	users *repositories.UserRepository,
	tokens *repositories.TokenRepository,
	balances *repositories.BalanceRepository,
	codec *auth.TokenCodec,
	hasher *auth.PasswordHasher,
	queue common.LetterQueue,
	clock common.Clock,
	tokenCfg config.TokenConfig,
	session config.SessionConfig,
	metricsReg *metrics.MetricsRegistry,
) *AuthService {
	return &AuthService{
		db:       db,
		users:    users,
		tokens:   tokens,
		balances: balances,
		codec:    codec,
		hasher:   hasher,
		queue:    queue,
		clock:    clock,
		tokenCfg: tokenCfg,
		session:  session,
		metrics:  metricsReg,
	}
}

func (s *AuthService) lifetimeFor(kind constants.TokenKind) time.Duration {
	if kind == constants.TokenKindChangePassword {
		return s.tokenCfg.ChangePasswordLifetime
	}
	return s.tokenCfg.EmailConfirmationLifetime
}

// issueTokenTx creates a fresh token of the given kind inside tx. The
// cooldown is measured from the newest non-expired token of the same kind;
// inside the window the request is rejected with the time left. Issuing
// retires every prior live token of the kind, so at most one is ever in
// circulation.
func (s *AuthService) issueTokenTx(ctx context.Context, tx *gorm.DB, user *gormModels.User, kind constants.TokenKind) (string, error) {
	now := s.clock.Now()
	tokens := s.tokens.WithTx(tx)

	latest, err := tokens.LatestActive(ctx, user.ID, kind)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", translateDBError(err, "")
	}
	if latest != nil {
		elapsed := now.Sub(latest.CreatedAt)
		if elapsed < s.tokenCfg.Cooldown {
			remaining := (s.tokenCfg.Cooldown - elapsed).Round(time.Second)
			s.metrics.TokenThrottled(string(kind))
			return "", common.NewServiceError(common.ErrTokenThrottled,
				fmt.Sprintf(constants.MsgTokenSpamFmt, remaining))
		}
		if err := tokens.ExpireAllActive(ctx, user.ID, kind, now); err != nil {
			return "", translateDBError(err, "")
		}
	}

	signed, err := s.codec.Issue(user.ID, user.Password, s.lifetimeFor(kind))
	if err != nil {
		return "", common.WrapServiceError(common.ErrInternal, "Failed to issue token", err)
	}

	record := gormModels.AuthToken{
		UserID:    user.ID,
		Kind:      kind,
		Token:     signed,
		CreatedAt: now,
	}
	if err := tokens.Insert(ctx, &record); err != nil {
		return "", translateDBError(err, "")
	}

	s.metrics.TokenIssued(string(kind))
	return signed, nil
}

// enqueueLetter submits the outbound email job after the issuing transaction
// has committed. Delivery failures are logged, never surfaced: the user can
// always request a resend.
func (s *AuthService) enqueueLetter(ctx context.Context, kind constants.JobKind, user *gormModels.User, token string) {
	job := common.LetterJob{
		Kind:      kind,
		UserID:    user.ID,
		Email:     user.Email,
		Username:  user.Username,
		Token:     token,
		CreatedAt: s.clock.Now(),
	}
	if err := s.queue.Submit(ctx, &job); err != nil {
		logging.Error("Failed to enqueue letter job",
			"kind", kind, "user_id", user.ID, "error", err)
	}
}

// Register creates the user with a zero balance and sends the confirmation
// letter. The account stays inactive until the emailed token is consumed.
func (s *AuthService) Register(ctx context.Context, req *dtos.RegisterUserRequest) (*dtos.UserResponse, error) {
	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, common.WrapServiceError(common.ErrInternal, "Failed to hash password", err)
	}

	var (
		user  gormModels.User
		token string
	)
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		balance, err := s.balances.WithTx(tx).Create(ctx)
		if err != nil {
			return translateDBError(err, "")
		}

		user = gormModels.User{
			Username:    req.Username,
			Email:       req.Email,
			PhoneNumber: req.PhoneNumber,
			Password:    hash,
			BalanceID:   balance.ID,
		}
		if req.FirstName != "" {
			user.FirstName = &req.FirstName
		}
		if req.LastName != "" {
			user.LastName = &req.LastName
		}
		if err := s.users.WithTx(tx).Create(ctx, &user); err != nil {
			if isUniqueViolation(err) {
				return common.WrapServiceError(common.ErrConflict,
					"Username, email or phone number is already taken", err)
			}
			return translateDBError(err, "")
		}

		token, err = s.issueTokenTx(ctx, tx, &user, constants.TokenKindEmailConfirmation)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.enqueueLetter(ctx, constants.JobKindConfirmationLetter, &user, token)

	resp := userToResponse(&user)
	return &resp, nil
}

// ResendConfirmation issues a fresh confirmation token, subject to the
// cooldown. Already-activated accounts are rejected.
func (s *AuthService) ResendConfirmation(ctx context.Context, email string) (*dtos.MessageResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, translateDBError(err, "User with email: '"+email+"' not found")
	}
	if user.ActivatedAt != nil {
		return nil, common.NewServiceError(common.ErrUserAlreadyActivated,
			fmt.Sprintf(constants.MsgUserActivatedFmt, email))
	}

	var token string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		token, err = s.issueTokenTx(ctx, tx, user, constants.TokenKindEmailConfirmation)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.enqueueLetter(ctx, constants.JobKindConfirmationLetter, user, token)
	return &dtos.MessageResponse{Message: "Confirmation email sent to: '" + email + "'"}, nil
}

// ConfirmEmail consumes an email confirmation token and activates the user.
// The lookup is by exact token string; the envelope is then verified with
// the owning user's password hash, so a password change orphans the token.
func (s *AuthService) ConfirmEmail(ctx context.Context, tokenString string) (*dtos.MessageResponse, error) {
	record, user, err := s.loadTokenRecord(ctx, constants.TokenKindEmailConfirmation, tokenString)
	if err != nil {
		return nil, err
	}

	if _, err := s.codec.Decode(tokenString, user.Password); err != nil {
		if common.KindOf(err) == common.ErrTokenExpiredCrypto {
			s.expireBestEffort(ctx, record.ID)
		}
		return nil, err
	}

	if user.ActivatedAt != nil {
		s.expireBestEffort(ctx, record.ID)
		return nil, common.NewServiceError(common.ErrUserAlreadyActivated,
			fmt.Sprintf(constants.MsgUserActivatedFmt, user.Email))
	}

	now := s.clock.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		consumed, err := s.tokens.WithTx(tx).ExpireByID(ctx, record.ID, now)
		if err != nil {
			return translateDBError(err, "")
		}
		if consumed == 0 {
			return common.NewServiceError(common.ErrTokenExpiredInStore, constants.MsgTokenAlreadyUsed)
		}
		flipped, err := s.users.WithTx(tx).MarkActivated(ctx, user.ID, now)
		if err != nil {
			return translateDBError(err, "")
		}
		if flipped == 0 {
			return common.NewServiceError(common.ErrUserAlreadyActivated,
				fmt.Sprintf(constants.MsgUserActivatedFmt, user.Email))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.metrics.TokenConsumed(string(constants.TokenKindEmailConfirmation))
	return &dtos.MessageResponse{
		Message: fmt.Sprintf(constants.MsgUserActivatedOkFmt, user.Email),
	}, nil
}

// ForgotPassword issues a change-password token, subject to the cooldown.
func (s *AuthService) ForgotPassword(ctx context.Context, email string) (*dtos.MessageResponse, error) {
	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		return nil, translateDBError(err, "User with email: '"+email+"' not found")
	}

	var token string
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		token, err = s.issueTokenTx(ctx, tx, user, constants.TokenKindChangePassword)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.enqueueLetter(ctx, constants.JobKindPasswordResetLetter, user, token)
	return &dtos.MessageResponse{Message: "Password reset email sent to: '" + email + "'"}, nil
}

// ChangePassword consumes a change-password token and replaces the user's
// password hash. Since the hash is also the signing key, every token issued
// before the change is invalidated in one move; their store rows are stamped
// as well to keep both expiry dimensions in agreement.
func (s *AuthService) ChangePassword(ctx context.Context, req *dtos.ChangePasswordRequest) (*dtos.MessageResponse, error) {
	record, user, err := s.loadTokenRecord(ctx, constants.TokenKindChangePassword, req.Token)
	if err != nil {
		return nil, err
	}

	if _, err := s.codec.Decode(req.Token, user.Password); err != nil {
		if common.KindOf(err) == common.ErrTokenExpiredCrypto {
			s.expireBestEffort(ctx, record.ID)
		}
		return nil, err
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, common.WrapServiceError(common.ErrInternal, "Failed to hash password", err)
	}

	now := s.clock.Now()
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		tokens := s.tokens.WithTx(tx)
		consumed, err := tokens.ExpireByID(ctx, record.ID, now)
		if err != nil {
			return translateDBError(err, "")
		}
		if consumed == 0 {
			return common.NewServiceError(common.ErrTokenExpiredInStore, constants.MsgTokenAlreadyUsed)
		}
		for _, kind := range []constants.TokenKind{
			constants.TokenKindEmailConfirmation,
			constants.TokenKindChangePassword,
		} {
			if err := tokens.ExpireAllActive(ctx, user.ID, kind, now); err != nil {
				return translateDBError(err, "")
			}
		}
		return translateDBError(s.users.WithTx(tx).UpdatePassword(ctx, user.ID, hash), "")
	})
	if err != nil {
		return nil, err
	}

	s.metrics.TokenConsumed(string(constants.TokenKindChangePassword))
	return &dtos.MessageResponse{
		Message: fmt.Sprintf(constants.MsgPasswordChangedFmt, user.Email),
	}, nil
}

// Login verifies credentials and mints a session token. Unknown usernames
// and wrong passwords are indistinguishable to the caller.
func (s *AuthService) Login(ctx context.Context, req *dtos.LoginRequest) (*dtos.LoginResponse, error) {
	user, err := s.users.GetByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, common.NewServiceError(common.ErrUnauthorized, constants.MsgWrongCredentials)
		}
		return nil, translateDBError(err, "")
	}

	ok, err := s.hasher.Verify(req.Password, user.Password)
	if err != nil {
		return nil, common.WrapServiceError(common.ErrInternal, "Failed to verify password", err)
	}
	if !ok {
		return nil, common.NewServiceError(common.ErrUnauthorized, constants.MsgWrongCredentials)
	}
	if user.ActivatedAt == nil {
		return nil, common.NewServiceError(common.ErrUnauthorized,
			"User email is not confirmed")
	}

	token, err := auth.CreateSessionToken(s.session.Secret, user.Username, user.ID, s.session.TTL, s.clock.Now())
	if err != nil {
		return nil, common.WrapServiceError(common.ErrInternal, "Failed to create session token", err)
	}
	return &dtos.LoginResponse{AccessToken: token}, nil
}

// loadTokenRecord resolves a presented token string to its store row and
// owning user. Unknown token strings read as invalid, not as missing.
func (s *AuthService) loadTokenRecord(ctx context.Context, kind constants.TokenKind, tokenString string) (*gormModels.AuthToken, *gormModels.User, error) {
	record, err := s.tokens.FindByToken(ctx, kind, tokenString)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil, common.NewServiceError(common.ErrInvalidToken, constants.MsgInvalidToken)
		}
		return nil, nil, translateDBError(err, "")
	}
	if record.ExpiredAt != nil {
		return nil, nil, common.NewServiceError(common.ErrTokenExpiredInStore, constants.MsgTokenAlreadyUsed)
	}

	user, err := s.users.GetByID(ctx, record.UserID)
	if err != nil {
		return nil, nil, translateDBError(err, "Token owner not found")
	}
	return record, user, nil
}

// expireBestEffort stamps a token row outside any transaction; used when the
// envelope itself has already expired and the row is just catching up.
func (s *AuthService) expireBestEffort(ctx context.Context, tokenID string) {
	if _, err := s.tokens.ExpireByID(ctx, tokenID, s.clock.Now()); err != nil {
		logging.Warn("Failed to stamp expired token", "token_id", tokenID, "error", err)
	}
}

func userToResponse(user *gormModels.User) dtos.UserResponse {
	return dtos.UserResponse{
		ID:          user.ID,
		FirstName:   user.FirstName,
		LastName:    user.LastName,
		Username:    user.Username,
		Email:       user.Email,
		PhoneNumber: user.PhoneNumber,
		ActivatedAt: user.ActivatedAt,
		CreatedAt:   user.CreatedAt,
	}
}
