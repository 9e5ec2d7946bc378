package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"dragonden/internal/app/ports"
	"dragonden/internal/app/shared/clock"
	"dragonden/internal/app/shared/ids"
	"dragonden/internal/app/shared/opmetrics"
	"dragonden/internal/crypto"
	"dragonden/internal/domain/account"
	"dragonden/internal/errs"
)

const (
	AdminUsername = "admin"
	AdminName     = "Dragon Master"
)

var ErrInvalidCredentials = fmt.Errorf("%w: invalid username or password", errs.ErrUnauthorized)

type SignupRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
	Name     string `json:"name"`
	UserType string `json:"user_type"`
}

type SignupUseCase struct {
	Users     ports.UserRepository
	TxManager ports.TxManager
	Metrics   ports.OperationMetrics
	Now       func() time.Time
	NewID     func() string
}

// Execute registers a rider or keeper. Administrators only come from SeedAdminUseCase.
func (u SignupUseCase) Execute(ctx context.Context, req SignupRequest) (out account.User, err error) {
	defer func() { opmetrics.Record(u.Metrics, "user_signup", err) }()

	req.Username = strings.TrimSpace(req.Username)
	req.Name = strings.TrimSpace(req.Name)
	if req.Username == "" || req.Password == "" || req.Name == "" {
		return account.User{}, fmt.Errorf("%w: username, password and name are required", errs.ErrInvalidArgument)
	}
	typ, err := account.ParseUserType(req.UserType)
	if err != nil {
		return account.User{}, err
	}
	if typ == account.Admin {
		return account.User{}, fmt.Errorf("%w: administrators cannot sign up", errs.ErrForbidden)
	}

	user, err := newUser(u.NewID, req.Username, req.Name, req.Password, typ, clock.Now(u.Now))
	if err != nil {
		return account.User{}, err
	}
	err = u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		return u.Users.SaveWithVersion(txCtx, user, 0)
	})
	if errors.Is(err, ports.ErrDuplicate) {
		return account.User{}, fmt.Errorf("username %q is taken: %w", req.Username, err)
	}
	if err != nil {
		return account.User{}, err
	}
	return user, nil
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token     string       `json:"token"`
	ExpiresAt time.Time    `json:"expires_at"`
	User      account.User `json:"user"`
}

type LoginUseCase struct {
	Users   ports.UserRepository
	Tokens  Tokens
	Metrics ports.OperationMetrics
	Now     func() time.Time
}

func (u LoginUseCase) Execute(ctx context.Context, req LoginRequest) (out LoginResponse, err error) {
	defer func() { opmetrics.Record(u.Metrics, "user_login", err) }()

	req.Username = strings.TrimSpace(req.Username)
	if req.Username == "" || req.Password == "" {
		return LoginResponse{}, ErrInvalidCredentials
	}
	user, err := u.Users.GetByUsername(ctx, req.Username)
	if errors.Is(err, ports.ErrNotFound) {
		return LoginResponse{}, ErrInvalidCredentials
	}
	if err != nil {
		return LoginResponse{}, err
	}
	if !crypto.VerifyPassword([]byte(req.Password), user.PasswordSalt, user.PasswordHash) {
		return LoginResponse{}, ErrInvalidCredentials
	}

	token, expires, err := u.Tokens.Issue(user.ID, clock.Now(u.Now))
	if err != nil {
		return LoginResponse{}, err
	}
	return LoginResponse{Token: token, ExpiresAt: expires, User: user}, nil
}

type VerifyUseCase struct {
	Users  ports.UserRepository
	Tokens Tokens
	Now    func() time.Time
}

// Execute resolves a bearer token to a live account.
func (u VerifyUseCase) Execute(ctx context.Context, token string) (account.User, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return account.User{}, ErrInvalidToken
	}
	userID, err := u.Tokens.Parse(token, clock.Now(u.Now))
	if err != nil {
		return account.User{}, err
	}
	user, err := u.Users.Get(ctx, userID)
	if errors.Is(err, ports.ErrNotFound) {
		return account.User{}, ErrInvalidToken
	}
	return user, err
}

type SeedAdminUseCase struct {
	Users     ports.UserRepository
	TxManager ports.TxManager
	Now       func() time.Time
	NewID     func() string
}

// Execute creates the admin account unless one already exists. It reports whether it created it.
func (u SeedAdminUseCase) Execute(ctx context.Context, password string) (bool, error) {
	if password == "" {
		return false, fmt.Errorf("%w: admin password is required", errs.ErrInvalidArgument)
	}
	created := false
	err := u.TxManager.RunInTx(ctx, func(txCtx context.Context) error {
		_, err := u.Users.GetByUsername(txCtx, AdminUsername)
		if err == nil {
			return nil
		}
		if !errors.Is(err, ports.ErrNotFound) {
			return err
		}
		admin, err := newUser(u.NewID, AdminUsername, AdminName, password, account.Admin, clock.Now(u.Now))
		if err != nil {
			return err
		}
		if err := u.Users.SaveWithVersion(txCtx, admin, 0); err != nil {
			return err
		}
		created = true
		return nil
	})
	if err != nil {
		return false, err
	}
	return created, nil
}

func newUser(newID func() string, username, name, password string, typ account.UserType, now time.Time) (account.User, error) {
	if newID == nil {
		newID = ids.New
	}
	hash, salt, err := crypto.NewPassword(password)
	if err != nil {
		return account.User{}, err
	}
	return account.User{
		ID:              newID(),
		Username:        username,
		Name:            name,
		Type:            typ,
		PasswordHash:    hash,
		PasswordSalt:    salt,
		AcquiredDragons: []string{},
		Version:         1,
		CreatedAt:       now,
		UpdatedAt:       now,
	}, nil
}
