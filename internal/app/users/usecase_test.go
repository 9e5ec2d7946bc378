package users

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dragonden/internal/adapter/repo/memory"
	"dragonden/internal/crypto"
	"dragonden/internal/domain/account"
	"dragonden/internal/domain/dragon"
	"dragonden/internal/domain/fight"
	"dragonden/internal/errs"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	uc      UseCase
	users   memory.UserRepo
	dragons memory.DragonRepo
	fights  memory.FightRepo
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	f := fixture{
		users:   memory.NewUserRepo(store),
		dragons: memory.NewDragonRepo(store),
		fights:  memory.NewFightRepo(store),
	}
	f.uc = UseCase{
		TxManager: memory.NewTxManager(store),
		Users:     f.users,
		Dragons:   f.dragons,
		Fights:    f.fights,
		Now:       func() time.Time { return t0 },
	}
	ctx := context.Background()
	users := []account.User{
		{ID: "r1", Username: "jon", Type: account.Rider, AcquiredDragons: []string{"d1", "gone"}},
		{ID: "r2", Username: "dany", Type: account.Rider, AcquiredDragons: []string{"d2"}},
		{ID: "a1", Username: "admin", Type: account.Admin},
	}
	for _, u := range users {
		u.Name, u.Version = u.Username, 1
		require.NoError(t, f.users.SaveWithVersion(ctx, u, 0))
	}
	for id, rider := range map[string]string{"d1": "r1", "d2": "r2"} {
		d, err := dragon.New(id, dragon.Attributes{Name: id, Size: dragon.SizeSmall, Age: 10, Description: "test"}, t0)
		require.NoError(t, err)
		d.RiderID = rider
		require.NoError(t, f.dragons.SaveWithVersion(ctx, d, 0))
	}
	return f
}

func ptr[T any](v T) *T { return &v }

func TestReads(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.uc.GetByUsername(ctx, " dany ")
	require.NoError(t, err)
	require.Equal(t, "r2", u.ID)

	_, err = f.uc.Get(ctx, "nope")
	require.ErrorIs(t, err, errs.ErrNotFound)

	all, err := f.uc.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
}

func TestUpdate_SelfOrAdmin(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	u, err := f.uc.Update(ctx, UpdateRequest{ActorID: "r1", UserID: "r1", Name: ptr("Jon Snow"), Password: ptr("ghost")})
	require.NoError(t, err)
	require.Equal(t, "Jon Snow", u.Name)
	require.Equal(t, int64(2), u.Version)
	require.True(t, crypto.VerifyPassword([]byte("ghost"), u.PasswordSalt, u.PasswordHash))

	_, err = f.uc.Update(ctx, UpdateRequest{ActorID: "r2", UserID: "r1", Name: ptr("Bastard")})
	require.ErrorIs(t, err, errs.ErrForbidden)

	u, err = f.uc.Update(ctx, UpdateRequest{ActorID: "a1", UserID: "r1", Name: ptr("Lord Commander")})
	require.NoError(t, err)
	require.Equal(t, "Lord Commander", u.Name)

	_, err = f.uc.Update(ctx, UpdateRequest{ActorID: "r1", UserID: "r1", Name: ptr("  ")})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	_, err = f.uc.Update(ctx, UpdateRequest{ActorID: "a1", UserID: "nope", Name: ptr("x")})
	require.ErrorIs(t, err, errs.ErrNotFound)
	_, err = f.uc.Update(ctx, UpdateRequest{UserID: "r1", Name: ptr("x")})
	require.ErrorIs(t, err, errs.ErrUnauthorized)
}

func TestDelete_ReleasesDragonsAndCancelsPendingFights(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	pending := fight.Fight{ID: "f1", Challenger: fight.Side{DragonID: "d2", RiderID: "r2"}, Opponent: fight.Side{DragonID: "d1", RiderID: "r1"}, Status: fight.StatusPending, FightDate: t0, Version: 1}
	other := fight.Fight{ID: "f2", Challenger: fight.Side{DragonID: "d2", RiderID: "r2"}, Opponent: fight.Side{DragonID: "dx", RiderID: "rx"}, Status: fight.StatusPending, FightDate: t0, Version: 1}
	require.NoError(t, f.fights.SaveWithVersion(ctx, pending, 0))
	require.NoError(t, f.fights.SaveWithVersion(ctx, other, 0))

	err := f.uc.Delete(ctx, DeleteRequest{ActorID: "r2", UserID: "r1"})
	require.ErrorIs(t, err, errs.ErrForbidden)

	require.NoError(t, f.uc.Delete(ctx, DeleteRequest{ActorID: "r1", UserID: "r1"}))

	_, err = f.users.Get(ctx, "r1")
	require.ErrorIs(t, err, errs.ErrNotFound)
	d1, err := f.dragons.Get(ctx, "d1")
	require.NoError(t, err)
	require.Empty(t, d1.RiderID)
	d2, err := f.dragons.Get(ctx, "d2")
	require.NoError(t, err)
	require.Equal(t, "r2", d2.RiderID)

	got, err := f.fights.Get(ctx, "f1")
	require.NoError(t, err)
	require.Equal(t, fight.StatusCancelled, got.Status)
	got, err = f.fights.Get(ctx, "f2")
	require.NoError(t, err)
	require.Equal(t, fight.StatusPending, got.Status)

	require.NoError(t, f.uc.Delete(ctx, DeleteRequest{ActorID: "a1", UserID: "r2"}))
	d2, err = f.dragons.Get(ctx, "d2")
	require.NoError(t, err)
	require.Empty(t, d2.RiderID)
}
