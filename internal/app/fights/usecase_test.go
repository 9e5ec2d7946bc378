package fights

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"dragonden/internal/adapter/repo/memory"
	"dragonden/internal/app/ports"
	"dragonden/internal/domain/account"
	"dragonden/internal/domain/dragon"
	"dragonden/internal/domain/fight"
	"dragonden/internal/errs"
)

var t0 = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	uc      UseCase
	dragons memory.DragonRepo
	users   memory.UserRepo
	fights  memory.FightRepo
	clock   *time.Time
}

// newFixture seeds riders r1 (on d1), r2 (on d2), r3 with no dragon, keeper k1, admin a1 and
// an unridden dragon d3.
func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore()
	now := t0
	f := fixture{
		dragons: memory.NewDragonRepo(store),
		users:   memory.NewUserRepo(store),
		fights:  memory.NewFightRepo(store),
		clock:   &now,
	}
	var mu sync.Mutex
	seq := 0
	f.uc = UseCase{
		TxManager: memory.NewTxManager(store),
		Dragons:   f.dragons,
		Users:     f.users,
		Fights:    f.fights,
		Now:       func() time.Time { return *f.clock },
		NewID: func() string {
			mu.Lock()
			defer mu.Unlock()
			seq++
			return fmt.Sprintf("f%d", seq)
		},
	}

	ctx := context.Background()
	users := []account.User{
		{ID: "r1", Type: account.Rider, AcquiredDragons: []string{"d1"}},
		{ID: "r2", Type: account.Rider, AcquiredDragons: []string{"d2"}},
		{ID: "r3", Type: account.Rider},
		{ID: "k1", Type: account.Keeper},
		{ID: "a1", Type: account.Admin},
	}
	for _, u := range users {
		u.Username, u.Name, u.Version = u.ID, u.ID, 1
		require.NoError(t, f.users.SaveWithVersion(ctx, u, 0))
	}
	for id, rider := range map[string]string{"d1": "r1", "d2": "r2", "d3": ""} {
		d, err := dragon.New(id, dragon.Attributes{Name: id, Size: dragon.SizeMedium, Age: 7, Description: "test"}, t0)
		require.NoError(t, err)
		d.RiderID = rider
		require.NoError(t, f.dragons.SaveWithVersion(ctx, d, 0))
	}
	return f
}

func (f fixture) advance(d time.Duration) {
	*f.clock = f.clock.Add(d)
}

func (f fixture) initiate(t *testing.T) fight.Fight {
	t.Helper()
	fg, err := f.uc.Initiate(context.Background(), InitiateRequest{ActorID: "r1", ChallengerDragonID: "d1", OpponentDragonID: "d2"})
	require.NoError(t, err)
	return fg
}

func ptr[T any](v T) *T { return &v }

func TestInitiate_AppliesDefaults(t *testing.T) {
	f := newFixture(t)
	fg := f.initiate(t)

	require.Equal(t, "f1", fg.ID)
	require.Equal(t, fight.StatusPending, fg.Status)
	require.Equal(t, fight.Side{DragonID: "d1", RiderID: "r1"}, fg.Challenger)
	require.Equal(t, fight.Side{DragonID: "d2", RiderID: "r2"}, fg.Opponent)
	require.Equal(t, fight.DefaultLocation, fg.Details.Location)
	require.Equal(t, fight.DefaultNotes, fg.Details.Notes)
	require.Equal(t, 1, fg.Details.Rounds)
	require.Nil(t, fg.Result)

	stored, err := f.fights.Get(context.Background(), fg.ID)
	require.NoError(t, err)
	require.Equal(t, fg, stored)
}

func TestInitiate_ErrorOrder(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.uc.Initiate(ctx, InitiateRequest{ActorID: "k1", ChallengerDragonID: "d1", OpponentDragonID: "nope"})
	require.ErrorIs(t, err, errs.ErrNotFound)

	_, err = f.uc.Initiate(ctx, InitiateRequest{ActorID: "k1", ChallengerDragonID: "d1", OpponentDragonID: "d2"})
	require.ErrorIs(t, err, errs.ErrForbidden)

	_, err = f.uc.Initiate(ctx, InitiateRequest{ActorID: "r2", ChallengerDragonID: "d1", OpponentDragonID: "d3"})
	require.ErrorIs(t, err, errs.ErrForbidden)

	_, err = f.uc.Initiate(ctx, InitiateRequest{ActorID: "r1", ChallengerDragonID: "d1", OpponentDragonID: "d3"})
	require.ErrorIs(t, err, errs.ErrInvalidState)

	_, err = f.uc.Initiate(ctx, InitiateRequest{ActorID: "r1", ChallengerDragonID: "d1", OpponentDragonID: "d1"})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	n, err := f.fights.CountAll(ctx, ports.FightFilter{})
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestComplete_WinnerUpdatesBothRecords(t *testing.T) {
	f := newFixture(t)
	fg := f.initiate(t)
	f.advance(time.Hour)

	resp, err := f.uc.Complete(context.Background(), CompleteRequest{
		ActorID: "r2", FightID: fg.ID, WinnerDragonID: "d2",
		ChallengerScore: ptr(3), OpponentScore: ptr(7), Rounds: 5,
	})
	require.NoError(t, err)
	require.Equal(t, fight.StatusCompleted, resp.Fight.Status)
	require.Equal(t, "d2", resp.Fight.Result.WinnerDragonID)
	require.Equal(t, "d1", resp.Fight.Result.LoserDragonID)
	require.Equal(t, 7, resp.Fight.Result.WinnerScore)
	require.Equal(t, 3, resp.Fight.Result.LoserScore)
	require.Equal(t, 5, resp.Fight.Details.Rounds)
	require.Equal(t, 1, resp.Challenger.Fighting.Losses)
	require.Equal(t, 1, resp.Opponent.Fighting.Wins)

	d1, err := f.dragons.Get(context.Background(), "d1")
	require.NoError(t, err)
	require.Equal(t, dragon.Fighting{Losses: 1}, d1.Fighting)
	d2, err := f.dragons.Get(context.Background(), "d2")
	require.NoError(t, err)
	require.Equal(t, dragon.Fighting{Wins: 1}, d2.Fighting)
}

func TestComplete_DrawAndValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fg := f.initiate(t)

	_, err := f.uc.Complete(ctx, CompleteRequest{ActorID: "r3", FightID: fg.ID, IsDraw: true})
	require.ErrorIs(t, err, errs.ErrForbidden)
	_, err = f.uc.Complete(ctx, CompleteRequest{ActorID: "k1", FightID: fg.ID, IsDraw: true})
	require.ErrorIs(t, err, errs.ErrForbidden)
	_, err = f.uc.Complete(ctx, CompleteRequest{ActorID: "r1", FightID: fg.ID})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	_, err = f.uc.Complete(ctx, CompleteRequest{ActorID: "r1", FightID: fg.ID, IsDraw: true, WinnerDragonID: "d1"})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	_, err = f.uc.Complete(ctx, CompleteRequest{ActorID: "r1", FightID: fg.ID, WinnerDragonID: "d3"})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)
	_, err = f.uc.Complete(ctx, CompleteRequest{ActorID: "r1", FightID: "nope", IsDraw: true})
	require.ErrorIs(t, err, errs.ErrNotFound)

	resp, err := f.uc.Complete(ctx, CompleteRequest{ActorID: "a1", FightID: fg.ID, IsDraw: true})
	require.NoError(t, err)
	require.True(t, resp.Fight.Result.IsDraw)
	require.Equal(t, 1, resp.Challenger.Fighting.Draws)
	require.Equal(t, 1, resp.Opponent.Fighting.Draws)

	_, err = f.uc.Complete(ctx, CompleteRequest{ActorID: "r1", FightID: fg.ID, IsDraw: true})
	require.ErrorIs(t, err, errs.ErrInvalidState)
	_, err = f.uc.Cancel(ctx, CancelRequest{ActorID: "r1", FightID: fg.ID})
	require.ErrorIs(t, err, errs.ErrInvalidState)
}

func TestComplete_ConcurrentCallsPropagateOnce(t *testing.T) {
	f := newFixture(t)
	fg := f.initiate(t)

	const n = 10
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		ok      int
		invalid int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(actorID string) {
			defer wg.Done()
			_, err := f.uc.Complete(context.Background(), CompleteRequest{ActorID: actorID, FightID: fg.ID, WinnerDragonID: "d1"})
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, errs.ErrInvalidState):
				invalid++
			default:
				t.Errorf("unexpected error: %v", err)
			}
		}([]string{"r1", "r2"}[i%2])
	}
	wg.Wait()

	require.Equal(t, 1, ok)
	require.Equal(t, n-1, invalid)
	d1, err := f.dragons.Get(context.Background(), "d1")
	require.NoError(t, err)
	require.Equal(t, 1, d1.Fighting.Wins)
	d2, err := f.dragons.Get(context.Background(), "d2")
	require.NoError(t, err)
	require.Equal(t, 1, d2.Fighting.Losses)
}

func TestCancel_LeavesRecordsUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	fg := f.initiate(t)

	_, err := f.uc.Cancel(ctx, CancelRequest{ActorID: "r3", FightID: fg.ID})
	require.ErrorIs(t, err, errs.ErrForbidden)

	cancelled, err := f.uc.Cancel(ctx, CancelRequest{ActorID: "r2", FightID: fg.ID})
	require.NoError(t, err)
	require.Equal(t, fight.StatusCancelled, cancelled.Status)
	require.Nil(t, cancelled.Result)

	_, err = f.uc.Complete(ctx, CompleteRequest{ActorID: "r1", FightID: fg.ID, IsDraw: true})
	require.ErrorIs(t, err, errs.ErrInvalidState)

	d1, err := f.dragons.Get(ctx, "d1")
	require.NoError(t, err)
	require.Zero(t, d1.Fighting.Total())
}

func TestQueries(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 12; i++ {
		f.advance(time.Minute)
		fg := f.initiate(t)
		if i%3 == 0 {
			_, err := f.uc.Complete(ctx, CompleteRequest{ActorID: "r1", FightID: fg.ID, WinnerDragonID: "d1"})
			require.NoError(t, err)
		}
	}

	page, err := f.uc.List(ctx, ListRequest{})
	require.NoError(t, err)
	require.Equal(t, int64(12), page.Total)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 10, page.Limit)
	require.Equal(t, 2, page.Pages)
	require.Len(t, page.Fights, 10)
	require.Equal(t, "f12", page.Fights[0].ID)

	page, err = f.uc.List(ctx, ListRequest{Page: 2})
	require.NoError(t, err)
	require.Len(t, page.Fights, 2)
	require.Equal(t, "f1", page.Fights[1].ID)

	page, err = f.uc.List(ctx, ListRequest{Status: "completed", Limit: 500})
	require.NoError(t, err)
	require.Equal(t, int64(4), page.Total)
	require.Equal(t, MaxPageLimit, page.Limit)
	require.Equal(t, 1, page.Pages)

	_, err = f.uc.List(ctx, ListRequest{Status: "brawling"})
	require.ErrorIs(t, err, errs.ErrInvalidArgument)

	forDragon, err := f.uc.ListForDragon(ctx, "d2")
	require.NoError(t, err)
	require.Len(t, forDragon, 12)
	none, err := f.uc.ListForDragon(ctx, "d3")
	require.NoError(t, err)
	require.Empty(t, none)
	_, err = f.uc.ListForDragon(ctx, "nope")
	require.ErrorIs(t, err, errs.ErrNotFound)

	p, err := f.uc.Participants(ctx, "f1")
	require.NoError(t, err)
	require.Equal(t, "r1", p.Challenger.RiderID)
	require.Equal(t, "d2", p.Opponent.DragonID)
}

func TestStats_MatchesFightLog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	outcomes := []CompleteRequest{
		{ActorID: "r1", WinnerDragonID: "d1"},
		{ActorID: "r1", WinnerDragonID: "d1"},
		{ActorID: "r2", WinnerDragonID: "d2"},
		{ActorID: "r2", IsDraw: true},
	}
	for _, req := range outcomes {
		f.advance(time.Minute)
		fg := f.initiate(t)
		req.FightID = fg.ID
		_, err := f.uc.Complete(ctx, req)
		require.NoError(t, err)
	}
	f.advance(time.Minute)
	f.initiate(t)

	stats, err := f.uc.Stats(ctx, StatsRequest{DragonID: "d1", Verify: true})
	require.NoError(t, err)
	require.Equal(t, 2, stats.Wins)
	require.Equal(t, 1, stats.Losses)
	require.Equal(t, 1, stats.Draws)
	require.Equal(t, 4, stats.TotalFights)
	require.Equal(t, "50.00%", stats.WinRate)
	require.NotNil(t, stats.LastFight)
	require.Equal(t, "f4", stats.LastFight.ID)
	require.NotNil(t, stats.Consistent)
	require.True(t, *stats.Consistent)

	plain, err := f.uc.Stats(ctx, StatsRequest{DragonID: "d3"})
	require.NoError(t, err)
	require.Equal(t, "0.00%", plain.WinRate)
	require.Nil(t, plain.LastFight)
	require.Nil(t, plain.Consistent)

	_, err = f.uc.Stats(ctx, StatsRequest{DragonID: "nope"})
	require.ErrorIs(t, err, errs.ErrNotFound)
}
