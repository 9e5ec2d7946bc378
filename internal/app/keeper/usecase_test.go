package keeper

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dragonden/internal/adapter/repo/memory"
	"dragonden/internal/domain/account"
	"dragonden/internal/domain/dragon"
	"dragonden/internal/errs"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	uc      UseCase
	dragons memory.DragonRepo
}

func newFixture(t *testing.T, now time.Time) fixture {
	t.Helper()
	store := memory.NewStore()
	users := memory.NewUserRepo(store)
	f := fixture{dragons: memory.NewDragonRepo(store)}
	f.uc = UseCase{
		TxManager: memory.NewTxManager(store),
		Dragons:   f.dragons,
		Users:     users,
		Now:       func() time.Time { return now },
	}
	ctx := context.Background()
	for id, typ := range map[string]account.UserType{"keeper": account.Keeper, "rider": account.Rider, "admin": account.Admin} {
		require.NoError(t, users.SaveWithVersion(ctx, account.User{ID: id, Username: id, Name: id, Type: typ, Version: 1}, 0))
	}
	d, err := dragon.New("d1", dragon.Attributes{Name: "Rhaegal", Size: dragon.SizeMedium, Age: 7, Description: "green"}, t0)
	require.NoError(t, err)
	require.NoError(t, f.dragons.SaveWithVersion(ctx, d, 0))
	return f
}

func ptr[T any](v T) *T { return &v }

func TestDamageThenHeal(t *testing.T) {
	f := newFixture(t, t0.Add(time.Hour))
	ctx := context.Background()

	d, err := f.uc.Damage(ctx, DamageRequest{ActorID: "keeper", DragonID: "d1", Amount: 60})
	require.NoError(t, err)
	require.Equal(t, 40, d.Health.CurrentHealth)
	require.Equal(t, dragon.HealthPoor, d.Health.HealthStatus)
	require.Equal(t, t0.Add(time.Hour), d.Health.LastHealthUpdate)

	d, err = f.uc.Heal(ctx, HealRequest{ActorID: "keeper", DragonID: "d1"})
	require.NoError(t, err)
	require.Equal(t, 50, d.Health.CurrentHealth)
	require.Equal(t, dragon.HealthFair, d.Health.HealthStatus)

	d, err = f.uc.Heal(ctx, HealRequest{ActorID: "keeper", DragonID: "d1", Amount: 500})
	require.NoError(t, err)
	require.Equal(t, 100, d.Health.CurrentHealth)
	require.Equal(t, dragon.HealthExcellent, d.Health.HealthStatus)

	stored, err := f.dragons.Get(ctx, "d1")
	require.NoError(t, err)
	require.Equal(t, int64(4), stored.Version)
}

func TestCareOperationsRequireKeeper(t *testing.T) {
	f := newFixture(t, t0)
	ctx := context.Background()

	for _, actorID := range []string{"rider", "admin"} {
		_, err := f.uc.Heal(ctx, HealRequest{ActorID: actorID, DragonID: "d1", Amount: 5})
		require.ErrorIs(t, err, errs.ErrForbidden)
		_, err = f.uc.Feed(ctx, FeedRequest{ActorID: actorID, DragonID: "d1"})
		require.ErrorIs(t, err, errs.ErrForbidden)
	}
	_, err := f.uc.Damage(ctx, DamageRequest{ActorID: "ghost", DragonID: "d1", Amount: 5})
	require.ErrorIs(t, err, errs.ErrUnauthorized)

	_, err = f.uc.Damage(ctx, DamageRequest{ActorID: "keeper", DragonID: "nope", Amount: 5})
	require.ErrorIs(t, err, errs.ErrNotFound)
}

func TestInvalidAmountsLeaveDragonUntouched(t *testing.T) {
	f := newFixture(t, t0)
	ctx := context.Background()

	_, err := f.uc.Heal(ctx, HealRequest{ActorID: "keeper", DragonID: "d1", Amount: -1})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	_, err = f.uc.Damage(ctx, DamageRequest{ActorID: "keeper", DragonID: "d1", Amount: 0})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	stored, err := f.dragons.Get(ctx, "d1")
	require.NoError(t, err)
	require.Equal(t, int64(1), stored.Version)
	require.Equal(t, 100, stored.Health.CurrentHealth)
}

func TestSetHealth_StoresValuesVerbatim(t *testing.T) {
	f := newFixture(t, t0.Add(time.Hour))
	ctx := context.Background()

	d, err := f.uc.SetHealth(ctx, SetHealthRequest{ActorID: "keeper", DragonID: "d1", CurrentHealth: ptr(250)})
	require.NoError(t, err)
	require.Equal(t, 250, d.Health.CurrentHealth)
	require.Equal(t, dragon.HealthExcellent, d.Health.HealthStatus)

	d, err = f.uc.SetHealth(ctx, SetHealthRequest{ActorID: "keeper", DragonID: "d1", HealthStatus: ptr("Critical")})
	require.NoError(t, err)
	require.Equal(t, 250, d.Health.CurrentHealth)
	require.Equal(t, dragon.HealthCritical, d.Health.HealthStatus)

	_, err = f.uc.SetHealth(ctx, SetHealthRequest{ActorID: "keeper", DragonID: "d1", HealthStatus: ptr("Dead")})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
}

func TestFeed_PreferredAndOtherFood(t *testing.T) {
	fedAt := t0.Add(30 * time.Hour)
	f := newFixture(t, fedAt)
	ctx := context.Background()

	before, err := f.dragons.Get(ctx, "d1")
	require.NoError(t, err)
	require.Equal(t, dragon.HungerStarving, before.Project(fedAt).Feeding.HungerLevel)

	_, err = f.uc.Damage(ctx, DamageRequest{ActorID: "keeper", DragonID: "d1", Amount: 50})
	require.NoError(t, err)

	resp, err := f.uc.Feed(ctx, FeedRequest{ActorID: "keeper", DragonID: "d1", Food: " meat "})
	require.NoError(t, err)
	require.True(t, resp.Result.IsPreferred)
	require.Equal(t, 10, resp.Result.HealthBoost)
	require.Equal(t, 60, resp.Dragon.Health.CurrentHealth)
	require.Equal(t, dragon.HungerSatiated, resp.Dragon.Feeding.HungerLevel)
	require.Equal(t, 1, resp.Dragon.Feeding.FeedingCount)
	require.Equal(t, fedAt, resp.Dragon.Feeding.LastFed)

	resp, err = f.uc.Feed(ctx, FeedRequest{ActorID: "keeper", DragonID: "d1", Food: "Fish"})
	require.NoError(t, err)
	require.False(t, resp.Result.IsPreferred)
	require.Equal(t, 5, resp.Result.HealthBoost)
	require.Equal(t, 65, resp.Dragon.Health.CurrentHealth)
	require.Equal(t, 2, resp.Dragon.Feeding.FeedingCount)
}

func TestSetPreferredFood(t *testing.T) {
	f := newFixture(t, t0)
	ctx := context.Background()

	d, err := f.uc.SetPreferredFood(ctx, PreferredFoodRequest{ActorID: "keeper", DragonID: "d1", Food: " Fish "})
	require.NoError(t, err)
	require.Equal(t, "Fish", d.Feeding.PreferredFood)

	_, err = f.uc.SetPreferredFood(ctx, PreferredFoodRequest{ActorID: "keeper", DragonID: "d1", Food: "  "})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	resp, err := f.uc.Feed(ctx, FeedRequest{ActorID: "keeper", DragonID: "d1"})
	require.NoError(t, err)
	require.Equal(t, "Fish", resp.Result.Food)
	require.True(t, resp.Result.IsPreferred)
}
