package registration

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/willvault/registry/pkg/tiers"
)

// ErrInvalidAuthUserID is returned when an auth user id is not a uuid.
var ErrInvalidAuthUserID = errors.New("invalid auth user id")

// API is the account backend surface the flow depends on. Service is
// the production implementation; tests substitute a mock.
type API interface {
	ValidateUserData(ctx context.Context, payload Payload) Result
	RegisterUser(ctx context.Context, payload Payload, opts RegisterOptions) RegisterResult
	ConfirmUpgrade(ctx context.Context, authUserID string, level tiers.Level) error
}

// Result is the outcome of a pre-registration check. Failures are
// carried in the value rather than raised, so callers can always
// render them.
type Result struct {
	Success bool   `json:"success"`
	Error   string `json:"error,omitempty"`
}

// RegisterResult is the outcome of an account creation attempt.
type RegisterResult struct {
	Success    bool   `json:"success"`
	UserID     string `json:"userId,omitempty"`
	AuthUserID string `json:"authUserId,omitempty"`
	Error      string `json:"error,omitempty"`
}

// RegisterOptions tweaks account creation.
type RegisterOptions struct {
	// Level is the subscription level the account starts on.
	Level tiers.Level

	// SkipAutoLogin suppresses session creation after sign-up. The
	// wizard sets it because a paid plan immediately leaves for the
	// payment processor and the session would be lost anyway.
	SkipAutoLogin bool
}

// Service creates and validates accounts against the AccountStore.
type Service struct {
	store AccountStore
	log   *slog.Logger
}

// NewService returns a Service. A nil logger falls back to the default.
func NewService(store AccountStore, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{store: store, log: log}
}

// ValidateUserData checks payload fields the profile form cannot
// verify locally, currently email and username availability.
func (s *Service) ValidateUserData(ctx context.Context, payload Payload) Result {
	if payload.Email == "" || payload.Username == "" {
		return Result{Error: "email and username are required"}
	}

	taken, err := s.store.EmailExists(ctx, payload.Email)
	if err != nil {
		s.log.ErrorContext(ctx, "email availability check failed", "error", err)
		return Result{Error: "could not verify email availability"}
	}
	if taken {
		return Result{Error: ErrEmailTaken.Error()}
	}

	taken, err = s.store.UsernameExists(ctx, payload.Username)
	if err != nil {
		s.log.ErrorContext(ctx, "username availability check failed", "error", err)
		return Result{Error: "could not verify username availability"}
	}
	if taken {
		return Result{Error: ErrUsernameTaken.Error()}
	}

	return Result{Success: true}
}

// RegisterUser creates the account and returns its identifiers. The
// password is stored as a bcrypt hash, never in plain text.
func (s *Service) RegisterUser(ctx context.Context, payload Payload, opts RegisterOptions) RegisterResult {
	if payload.Email == "" || payload.Username == "" || payload.Password == "" {
		return RegisterResult{Error: "email, username and password are required"}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(payload.Password), bcrypt.DefaultCost)
	if err != nil {
		s.log.ErrorContext(ctx, "password hashing failed", "error", err)
		return RegisterResult{Error: "could not process password"}
	}

	level := opts.Level
	if level == "" {
		level = tiers.LevelBronze
	}

	account := &Account{
		ID:           uuid.New(),
		AuthID:       uuid.New(),
		Email:        payload.Email,
		Username:     payload.Username,
		PasswordHash: string(hash),
		FirstName:    payload.Firstname,
		LastName:     payload.Lastname,
		Level:        level,
	}
	if err := s.store.Create(ctx, account); err != nil {
		switch err {
		case ErrEmailTaken, ErrUsernameTaken:
			return RegisterResult{Error: err.Error()}
		}
		s.log.ErrorContext(ctx, "account creation failed", "error", err, "email", payload.Email)
		return RegisterResult{Error: "could not create account"}
	}

	s.log.InfoContext(ctx, "account created",
		"user_id", account.ID, "level", string(level), "skip_auto_login", opts.SkipAutoLogin)

	return RegisterResult{
		Success:    true,
		UserID:     account.ID.String(),
		AuthUserID: account.AuthID.String(),
	}
}

// ConfirmUpgrade moves the account to the paid level once the processor
// has activated the subscription. Confirming a level the account already
// holds is a no-op, so replayed reconciliation cleanups stay harmless.
func (s *Service) ConfirmUpgrade(ctx context.Context, authUserID string, level tiers.Level) error {
	if !level.Valid() {
		return ErrUnknownLevel
	}
	authID, err := uuid.Parse(authUserID)
	if err != nil {
		return errors.Join(ErrInvalidAuthUserID, err)
	}

	account, err := s.store.GetByAuthID(ctx, authID)
	if err != nil {
		return err
	}
	if account.Level == level {
		return nil
	}

	if err := s.store.UpdateLevel(ctx, authID, level); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "subscription level confirmed",
		"auth_user_id", authUserID, "from", string(account.Level), "to", string(level))
	return nil
}
