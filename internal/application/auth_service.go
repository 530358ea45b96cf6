package application

import (
	"context"
	"crypto/subtle"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/example/desk-booking/internal/persistence"
)

// UserStore exposes the account operations required by the auth service.
type UserStore interface {
	CreateUser(ctx context.Context, user persistence.User) error
	GetUser(ctx context.Context, username string) (persistence.User, error)
	UpdateUserPassword(ctx context.Context, username, salt, hash string) error
	DeleteUserData(ctx context.Context, username string) (persistence.UserDataDeleted, error)
}

// TokenStore exposes the token operations required by the auth service.
type TokenStore interface {
	CreateToken(ctx context.Context, token persistence.AuthToken) error
	GetToken(ctx context.Context, token string) (persistence.AuthToken, error)
	DeleteToken(ctx context.Context, token string) error
	DeleteTokensForUser(ctx context.Context, username string) (int, error)
}

// AuthService coordinates signup, login, token validation and account
// lifecycle operations. Besides database-backed accounts it honours a
// static fallback user list supplied through configuration, kept for
// deployments that predate self-service signup.
type AuthService struct {
	users          UserStore
	tokens         TokenStore
	staticUsers    map[string]string
	tokenGenerator func() string
	now            func() time.Time
	tokenTTL       time.Duration
	logger         *slog.Logger
}

// NewAuthService constructs an AuthService with the provided dependencies.
func NewAuthService(users UserStore, tokens TokenStore, staticUsers map[string]string, tokenGenerator func() string, now func() time.Time, tokenTTL time.Duration, logger *slog.Logger) *AuthService {
	if tokenGenerator == nil {
		tokenGenerator = func() string { return "" }
	}
	if now == nil {
		now = time.Now
	}
	if tokenTTL <= 0 {
		tokenTTL = 30 * 24 * time.Hour
	}
	return &AuthService{
		users:          users,
		tokens:         tokens,
		staticUsers:    staticUsers,
		tokenGenerator: tokenGenerator,
		now:            now,
		tokenTTL:       tokenTTL,
		logger:         defaultLogger(logger),
	}
}

func (s *AuthService) loggerWith(ctx context.Context, operation string, attrs ...any) *slog.Logger {
	return serviceLogger(ctx, s.logger, "AuthService", operation, attrs...)
}

// Login validates credentials and issues a new bearer token. Database
// accounts take precedence; the static fallback list is consulted only when
// no account row exists or its password does not match.
func (s *AuthService) Login(ctx context.Context, username, password string) (result AuthResult, err error) {
	if s == nil || s.tokens == nil {
		err = fmt.Errorf("auth service not configured")
		return
	}

	username = strings.TrimSpace(username)
	logger := s.loggerWith(ctx, "Login", "username", username)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "login failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "login succeeded")
	}()

	if username == "" || password == "" {
		err = ErrInvalidCredentials
		return
	}

	ok := false
	if s.users != nil {
		user, getErr := s.users.GetUser(ctx, username)
		switch {
		case getErr == nil:
			ok = VerifyPassword(password, PasswordRecord{SaltHex: user.PasswordSalt, HashHex: user.PasswordHash})
		case !errors.Is(getErr, persistence.ErrNotFound):
			err = getErr
			return
		}
	}
	if !ok {
		ok = s.matchStaticUser(username, password)
	}
	if !ok {
		err = ErrInvalidCredentials
		return
	}

	result, err = s.issueToken(ctx, username)
	return
}

// Signup registers a new database account and issues its first token.
func (s *AuthService) Signup(ctx context.Context, username, password string) (result AuthResult, err error) {
	if s == nil || s.users == nil || s.tokens == nil {
		err = fmt.Errorf("auth service not configured")
		return
	}

	username = strings.TrimSpace(username)
	logger := s.loggerWith(ctx, "Signup", "username", username)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "signup failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "account created")
	}()

	if username == "" {
		err = validationError("username", "username cannot be empty")
		return
	}

	var record PasswordRecord
	record, err = CreatePasswordRecord(password)
	if err != nil {
		return
	}

	user := persistence.User{
		Username:     username,
		PasswordSalt: record.SaltHex,
		PasswordHash: record.HashHex,
		CreatedAt:    s.now().UTC(),
	}
	if err = s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, persistence.ErrDuplicate) {
			err = ErrAlreadyExists
		}
		return
	}

	result, err = s.issueToken(ctx, username)
	return
}

// Logout revokes the presented token. Revoking an unknown token succeeds.
func (s *AuthService) Logout(ctx context.Context, token string) error {
	if s == nil || s.tokens == nil {
		return fmt.Errorf("auth service not configured")
	}

	token = strings.TrimSpace(token)
	if token == "" {
		return nil
	}

	logger := s.loggerWith(ctx, "Logout")
	if err := s.tokens.DeleteToken(ctx, token); err != nil {
		logger.ErrorContext(ctx, "failed to revoke token", "error", err, "error_kind", ErrorKind(err))
		return err
	}
	logger.InfoContext(ctx, "token revoked")
	return nil
}

// ValidateToken resolves a bearer token to its principal. The effective
// expiry is min(stored expiry, created_at + TTL), recomputed here so a
// lowered TTL retroactively shortens old tokens. Expired tokens are deleted
// on sight; the delete is idempotent and safe to race.
func (s *AuthService) ValidateToken(ctx context.Context, token string) (principal Principal, err error) {
	if s == nil || s.tokens == nil {
		err = fmt.Errorf("auth service not configured")
		return
	}

	token = strings.TrimSpace(token)
	if token == "" {
		err = ErrUnauthorized
		return
	}

	var row persistence.AuthToken
	row, err = s.tokens.GetToken(ctx, token)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = ErrUnauthorized
		}
		return
	}

	effective := row.ExpiresAt
	if capped := row.CreatedAt.Add(s.tokenTTL); capped.Before(effective) {
		effective = capped
	}

	if effective.Before(s.now()) {
		if delErr := s.tokens.DeleteToken(ctx, token); delErr != nil {
			s.loggerWith(ctx, "ValidateToken").ErrorContext(ctx, "failed to delete expired token", "error", delErr)
		}
		err = ErrTokenExpired
		return
	}

	principal = Principal{Username: row.Username}
	return
}

// ChangePassword rotates a database account's password record, revokes
// every outstanding token for the account and issues a fresh one. Static
// fallback users have no stored record and cannot change passwords.
func (s *AuthService) ChangePassword(ctx context.Context, principal Principal, oldPassword, newPassword string) (result AuthResult, err error) {
	if s == nil || s.users == nil || s.tokens == nil {
		err = fmt.Errorf("auth service not configured")
		return
	}

	logger := s.loggerWith(ctx, "ChangePassword", "username", principal.Username)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "password change failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "password changed")
	}()

	var user persistence.User
	user, err = s.users.GetUser(ctx, principal.Username)
	if err != nil {
		if errors.Is(err, persistence.ErrNotFound) {
			err = validationError("username", "password change not available for this user")
		}
		return
	}

	if !VerifyPassword(oldPassword, PasswordRecord{SaltHex: user.PasswordSalt, HashHex: user.PasswordHash}) {
		err = ErrInvalidCredentials
		return
	}

	var record PasswordRecord
	record, err = CreatePasswordRecord(newPassword)
	if err != nil {
		return
	}

	if err = s.users.UpdateUserPassword(ctx, principal.Username, record.SaltHex, record.HashHex); err != nil {
		return
	}
	if _, err = s.tokens.DeleteTokensForUser(ctx, principal.Username); err != nil {
		return
	}

	result, err = s.issueToken(ctx, principal.Username)
	return
}

// DeleteAccount verifies the password and removes the user's tokens,
// bookings and account row. Static fallback users are verified against the
// configured list; their tokens and bookings are still removed.
func (s *AuthService) DeleteAccount(ctx context.Context, principal Principal, password string) (deleted AccountDeleted, err error) {
	if s == nil || s.users == nil {
		err = fmt.Errorf("auth service not configured")
		return
	}

	logger := s.loggerWith(ctx, "DeleteAccount", "username", principal.Username)
	defer func() {
		if err != nil {
			logger.ErrorContext(ctx, "account deletion failed", "error", err, "error_kind", ErrorKind(err))
			return
		}
		logger.InfoContext(ctx, "account deleted",
			"tokens", deleted.Tokens,
			"bookings", deleted.Bookings,
		)
	}()

	var user persistence.User
	user, err = s.users.GetUser(ctx, principal.Username)
	switch {
	case err == nil:
		if !VerifyPassword(password, PasswordRecord{SaltHex: user.PasswordSalt, HashHex: user.PasswordHash}) {
			err = ErrInvalidCredentials
			return
		}
	case errors.Is(err, persistence.ErrNotFound):
		if !s.matchStaticUser(principal.Username, password) {
			err = ErrInvalidCredentials
			return
		}
		err = nil
	default:
		return
	}

	deleted, err = s.DeleteUserData(ctx, principal.Username)
	return
}

// DeleteUserData removes all data linked to a username without a password
// check. The admin transport guards this path.
func (s *AuthService) DeleteUserData(ctx context.Context, username string) (AccountDeleted, error) {
	if s == nil || s.users == nil {
		return AccountDeleted{}, fmt.Errorf("auth service not configured")
	}

	username = strings.TrimSpace(username)
	if username == "" {
		return AccountDeleted{}, validationError("username", "username cannot be empty")
	}

	removed, err := s.users.DeleteUserData(ctx, username)
	if err != nil {
		return AccountDeleted{}, err
	}
	return AccountDeleted{Tokens: removed.Tokens, Bookings: removed.Bookings, User: removed.User}, nil
}

func (s *AuthService) matchStaticUser(username, password string) bool {
	expected, ok := s.staticUsers[username]
	if !ok {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(password), []byte(expected)) == 1
}

func (s *AuthService) issueToken(ctx context.Context, username string) (AuthResult, error) {
	now := s.now().UTC()
	token := persistence.AuthToken{
		Token:     s.tokenGenerator(),
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenTTL),
	}
	if err := s.tokens.CreateToken(ctx, token); err != nil {
		return AuthResult{}, err
	}
	return AuthResult{Token: token.Token, Username: username, ExpiresAt: token.ExpiresAt}, nil
}
