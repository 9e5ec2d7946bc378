package auth

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dragonden/internal/adapter/repo/memory"
	"dragonden/internal/domain/account"
	"dragonden/internal/errs"
)

var t0 = time.Unix(1700000000, 0).UTC()

type fixture struct {
	users  memory.UserRepo
	tx     memory.TxManager
	tokens Tokens
}

func newFixture() fixture {
	store := memory.NewStore()
	return fixture{
		users:  memory.NewUserRepo(store),
		tx:     memory.NewTxManager(store),
		tokens: Tokens{Key: []byte("test-key"), TTL: time.Hour},
	}
}

func (f fixture) signup() SignupUseCase {
	return SignupUseCase{Users: f.users, TxManager: f.tx, Now: func() time.Time { return t0 }}
}

func TestSignupUseCase_CreatesUserWithHashedPassword(t *testing.T) {
	f := newFixture()
	u, err := f.signup().Execute(context.Background(), SignupRequest{
		Username: " drogo ", Password: "secret", Name: "Khal Drogo", UserType: "dragon rider",
	})
	require.NoError(t, err)
	require.NotEmpty(t, u.ID)
	require.Equal(t, "drogo", u.Username)
	require.Equal(t, account.Rider, u.Type)
	require.Equal(t, int64(1), u.Version)
	require.NotEqual(t, []byte("secret"), u.PasswordHash)
	require.Empty(t, u.AcquiredDragons)

	stored, err := f.users.GetByUsername(context.Background(), "drogo")
	require.NoError(t, err)
	require.Equal(t, u.ID, stored.ID)
}

func TestSignupUseCase_Rejects(t *testing.T) {
	f := newFixture()
	uc := f.signup()
	ctx := context.Background()

	_, err := uc.Execute(ctx, SignupRequest{Username: "a", Password: "", Name: "A", UserType: "Dragon Rider"})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = uc.Execute(ctx, SignupRequest{Username: "a", Password: "p", Name: "A", UserType: "wizard"})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	_, err = uc.Execute(ctx, SignupRequest{Username: "a", Password: "p", Name: "A", UserType: "admin"})
	require.ErrorIs(t, err, errs.ErrForbidden)

	_, err = uc.Execute(ctx, SignupRequest{Username: "a", Password: "p", Name: "A", UserType: "Dragon Keeper"})
	require.NoError(t, err)
	_, err = uc.Execute(ctx, SignupRequest{Username: "a", Password: "q", Name: "B", UserType: "Dragon Rider"})
	require.ErrorIs(t, err, errs.ErrConflict)
}

func TestLoginUseCase_IssuesVerifiableToken(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u, err := f.signup().Execute(ctx, SignupRequest{Username: "dany", Password: "dracarys", Name: "Daenerys", UserType: "Dragon Rider"})
	require.NoError(t, err)

	login := LoginUseCase{Users: f.users, Tokens: f.tokens, Now: func() time.Time { return t0 }}
	resp, err := login.Execute(ctx, LoginRequest{Username: "dany", Password: "dracarys"})
	require.NoError(t, err)
	require.NotEmpty(t, resp.Token)
	require.Equal(t, t0.Add(time.Hour), resp.ExpiresAt)
	require.Equal(t, u.ID, resp.User.ID)

	verify := VerifyUseCase{Users: f.users, Tokens: f.tokens, Now: func() time.Time { return t0.Add(time.Minute) }}
	got, err := verify.Execute(ctx, resp.Token)
	require.NoError(t, err)
	require.Equal(t, u.ID, got.ID)

	expired := VerifyUseCase{Users: f.users, Tokens: f.tokens, Now: func() time.Time { return t0.Add(2 * time.Hour) }}
	_, err = expired.Execute(ctx, resp.Token)
	require.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestLoginUseCase_RejectsInvalidCredentials(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	_, err := f.signup().Execute(ctx, SignupRequest{Username: "dany", Password: "dracarys", Name: "Daenerys", UserType: "Dragon Rider"})
	require.NoError(t, err)

	login := LoginUseCase{Users: f.users, Tokens: f.tokens}
	_, err = login.Execute(ctx, LoginRequest{Username: "dany", Password: "wrong"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = login.Execute(ctx, LoginRequest{Username: "nobody", Password: "dracarys"})
	require.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestVerifyUseCase_RejectsForeignKeyAndDeletedUser(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	u, err := f.signup().Execute(ctx, SignupRequest{Username: "dany", Password: "dracarys", Name: "Daenerys", UserType: "Dragon Rider"})
	require.NoError(t, err)

	forged, _, err := Tokens{Key: []byte("other-key")}.Issue(u.ID, t0)
	require.NoError(t, err)
	verify := VerifyUseCase{Users: f.users, Tokens: f.tokens, Now: func() time.Time { return t0 }}
	_, err = verify.Execute(ctx, forged)
	require.ErrorIs(t, err, ErrInvalidToken)

	token, _, err := f.tokens.Issue(u.ID, t0)
	require.NoError(t, err)
	require.NoError(t, f.users.Delete(ctx, u.ID, u.Version))
	_, err = verify.Execute(ctx, token)
	require.ErrorIs(t, err, ErrInvalidToken)
}

func TestSeedAdminUseCase_IsIdempotent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	seed := SeedAdminUseCase{Users: f.users, TxManager: f.tx, Now: func() time.Time { return t0 }}

	created, err := seed.Execute(ctx, "dragonadmin123")
	require.NoError(t, err)
	require.True(t, created)

	created, err = seed.Execute(ctx, "other")
	require.NoError(t, err)
	require.False(t, created)

	admin, err := f.users.GetByUsername(ctx, AdminUsername)
	require.NoError(t, err)
	require.Equal(t, account.Admin, admin.Type)
	require.Equal(t, AdminName, admin.Name)

	login := LoginUseCase{Users: f.users, Tokens: f.tokens}
	_, err = login.Execute(ctx, LoginRequest{Username: AdminUsername, Password: "dragonadmin123"})
	require.NoError(t, err)
}
