package arena

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/quizcraft/arena/internal/ledger"
)

// fakeClock lets tests move time forward deterministically.
type fakeClock struct {
	mu sync.Mutex
	t  time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{t: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(d)
}

// eventCollector records emitted notifications instead of shipping them out.
type eventCollector struct {
	mu     sync.Mutex
	events []Event
}

func (ec *eventCollector) emit(ev Event) {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	ec.events = append(ec.events, ev)
}

func (ec *eventCollector) all() []Event {
	ec.mu.Lock()
	defer ec.mu.Unlock()
	out := make([]Event, len(ec.events))
	copy(out, ec.events)
	return out
}

// setupArena builds an arena over a funded memory bank.
func setupArena(t *testing.T) (*Arena, *ledger.MemoryBank, *fakeClock, *eventCollector) {
	t.Helper()
	bank := ledger.NewMemoryBank()
	clk := newFakeClock()
	ec := &eventCollector{}

	a := New(bank)
	a.Clock = clk.Now
	a.EmitFn = ec.emit
	return a, bank, clk, ec
}

// fundedAccount creates an account holding the given balance.
func fundedAccount(t *testing.T, bank *ledger.MemoryBank, amount uint64) uuid.UUID {
	t.Helper()
	id := uuid.New()
	require.NoError(t, bank.Transfer(context.Background(), id, amount))
	return id
}

func TestCreateLobbyValidation(t *testing.T) {
	a, _, _, _ := setupArena(t)
	creator := uuid.New()

	cases := []struct {
		name       string
		lobbyName  string
		category   string
		entryFee   uint64
		maxPlayers int
		want       error
	}{
		{"empty name", "", "General Knowledge", 100, 4, ErrEmptyName},
		{"empty category", "Test Quiz", "", 100, 4, ErrEmptyCategory},
		{"zero fee", "Test Quiz", "General Knowledge", 0, 4, ErrZeroEntryFee},
		{"max players too low", "Test Quiz", "General Knowledge", 100, 1, ErrInvalidMaxPlayers},
		{"max players too high", "Test Quiz", "General Knowledge", 100, 11, ErrInvalidMaxPlayers},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := a.CreateLobby(tc.lobbyName, tc.category, tc.entryFee, tc.maxPlayers, creator)
			assert.ErrorIs(t, err, tc.want)
		})
	}

	// Rejections allocate nothing.
	assert.Equal(t, uint64(0), a.NextLobbyID())
}

func TestCreateLobbyAssignsSequentialIDs(t *testing.T) {
	a, _, _, _ := setupArena(t)
	creator := uuid.New()

	assert.Equal(t, uint64(0), a.NextLobbyID())

	id0, err := a.CreateLobby("Quiz 1", "Category 1", 100, 3, creator)
	require.NoError(t, err)
	assert.Equal(t, uint64(0), id0)
	assert.Equal(t, uint64(1), a.NextLobbyID())

	id1, err := a.CreateLobby("Quiz 2", "Category 2", 200, 5, creator)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), id1)
	assert.Equal(t, uint64(2), a.NextLobbyID())

	snap, err := a.GetLobby(id0)
	require.NoError(t, err)
	assert.Equal(t, "Quiz 1", snap.Name)
	assert.Equal(t, StatusOpen, snap.Status)
	assert.Equal(t, creator, snap.Creator)
	assert.Equal(t, DistributionPending, snap.Distribution)
	assert.Equal(t, 0, snap.PlayerCount)
	assert.Equal(t, uint64(0), snap.PrizePool)
}

func TestJoinProgressesStatusAndPool(t *testing.T) {
	a, bank, _, _ := setupArena(t)
	creator := uuid.New()
	ctx := context.Background()

	id, err := a.CreateLobby("Test Quiz", "General Knowledge", 100, 4, creator)
	require.NoError(t, err)

	players := make([]uuid.UUID, 4)
	for i := range players {
		players[i] = fundedAccount(t, bank, 100)
	}

	for i, p := range players {
		require.NoError(t, a.JoinLobby(ctx, id, p, 100))

		snap, err := a.GetLobby(id)
		require.NoError(t, err)
		assert.Equal(t, i+1, snap.PlayerCount)
		// The pool always equals playerCount * entryFee until distribution.
		assert.Equal(t, uint64(i+1)*100, snap.PrizePool)

		switch {
		case i == len(players)-1:
			assert.Equal(t, StatusInProgress, snap.Status)
		default:
			assert.Equal(t, StatusStarted, snap.Status)
		}
	}

	// Join order is preserved exactly.
	got, err := a.GetPlayersInLobby(id)
	require.NoError(t, err)
	assert.Equal(t, players, got)

	for _, p := range players {
		joined, err := a.IsPlayerInLobby(id, p)
		require.NoError(t, err)
		assert.True(t, joined)
		assert.Equal(t, uint64(0), bank.Balance(p))
	}
}

func TestJoinRejectsWrongFee(t *testing.T) {
	a, bank, _, _ := setupArena(t)
	creator := uuid.New()
	ctx := context.Background()

	id, err := a.CreateLobby("Test Quiz", "General Knowledge", 100, 4, creator)
	require.NoError(t, err)

	player := fundedAccount(t, bank, 500)

	assert.ErrorIs(t, a.JoinLobby(ctx, id, player, 50), ErrIncorrectFee)
	assert.ErrorIs(t, a.JoinLobby(ctx, id, player, 150), ErrIncorrectFee)

	// No partial credit: nothing was collected and nobody joined.
	assert.Equal(t, uint64(500), bank.Balance(player))
	snap, err := a.GetLobby(id)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.PlayerCount)
	assert.Equal(t, uint64(0), snap.PrizePool)
	assert.Equal(t, StatusOpen, snap.Status)
}

func TestJoinRejectsCreator(t *testing.T) {
	a, bank, _, _ := setupArena(t)
	ctx := context.Background()

	creator := fundedAccount(t, bank, 100)
	id, err := a.CreateLobby("Test Quiz", "General Knowledge", 100, 4, creator)
	require.NoError(t, err)

	assert.ErrorIs(t, a.JoinLobby(ctx, id, creator, 100), ErrCreatorCannotJoin)

	joined, err := a.IsPlayerInLobby(id, creator)
	require.NoError(t, err)
	assert.False(t, joined)
}

func TestJoinRejectsDuplicate(t *testing.T) {
	a, bank, _, _ := setupArena(t)
	creator := uuid.New()
	ctx := context.Background()

	id, err := a.CreateLobby("Test Quiz", "General Knowledge", 100, 4, creator)
	require.NoError(t, err)

	player := fundedAccount(t, bank, 200)
	require.NoError(t, a.JoinLobby(ctx, id, player, 100))
	assert.ErrorIs(t, a.JoinLobby(ctx, id, player, 100), ErrAlreadyJoined)

	snap, err := a.GetLobby(id)
	require.NoError(t, err)
	assert.Equal(t, 1, snap.PlayerCount)
	assert.Equal(t, uint64(100), snap.PrizePool)
	assert.Equal(t, uint64(100), bank.Balance(player))
}

func TestJoinRejectsWhenFull(t *testing.T) {
	a, bank, _, _ := setupArena(t)
	creator := uuid.New()
	ctx := context.Background()

	id, err := a.CreateLobby("Test Quiz", "General Knowledge", 100, 2, creator)
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		require.NoError(t, a.JoinLobby(ctx, id, fundedAccount(t, bank, 100), 100))
	}

	late := fundedAccount(t, bank, 100)
	assert.ErrorIs(t, a.JoinLobby(ctx, id, late, 100), ErrLobbyFull)

	snap, err := a.GetLobby(id)
	require.NoError(t, err)
	assert.Equal(t, 2, snap.PlayerCount)
	assert.Equal(t, uint64(100), bank.Balance(late))
}

func TestJoinRejectsUnknownLobby(t *testing.T) {
	a, bank, _, _ := setupArena(t)
	ctx := context.Background()

	player := fundedAccount(t, bank, 100)
	assert.ErrorIs(t, a.JoinLobby(ctx, 999, player, 100), ErrLobbyNotFound)
}

func TestJoinRejectsExpiredLobby(t *testing.T) {
	a, bank, clk, _ := setupArena(t)
	creator := uuid.New()
	ctx := context.Background()

	id, err := a.CreateLobby("Test Quiz", "General Knowledge", 100, 3, creator)
	require.NoError(t, err)

	clk.Advance(LobbyTimeout + time.Second)

	player := fundedAccount(t, bank, 100)
	assert.ErrorIs(t, a.JoinLobby(ctx, id, player, 100), ErrLobbyExpired)

	// Expiry is a predicate, not a transition: the status is untouched.
	snap, err := a.GetLobby(id)
	require.NoError(t, err)
	assert.Equal(t, StatusOpen, snap.Status)
	assert.Equal(t, uint64(100), bank.Balance(player))
}

func TestJoinAtExactTimeoutBoundaryStillAllowed(t *testing.T) {
	a, bank, clk, _ := setupArena(t)
	creator := uuid.New()
	ctx := context.Background()

	id, err := a.CreateLobby("Test Quiz", "General Knowledge", 100, 3, creator)
	require.NoError(t, err)

	// now == createdAt + TIMEOUT is still joinable; only now > boundary is not.
	clk.Advance(LobbyTimeout)
	require.NoError(t, a.JoinLobby(ctx, id, fundedAccount(t, bank, 100), 100))
}

func TestJoinRejectsUnfundedAccount(t *testing.T) {
	a, bank, _, _ := setupArena(t)
	creator := uuid.New()
	ctx := context.Background()

	id, err := a.CreateLobby("Test Quiz", "General Knowledge", 100, 3, creator)
	require.NoError(t, err)

	poor := fundedAccount(t, bank, 40)
	err = a.JoinLobby(ctx, id, poor, 100)
	assert.ErrorIs(t, err, ledger.ErrInsufficientFunds)

	snap, err := a.GetLobby(id)
	require.NoError(t, err)
	assert.Equal(t, 0, snap.PlayerCount)
	assert.Equal(t, uint64(40), bank.Balance(poor))
}

func TestDirectTransferAlwaysRejected(t *testing.T) {
	a, _, _, _ := setupArena(t)
	assert.ErrorIs(t, a.ReceiveDirectTransfer(uuid.New(), 1000), ErrDirectTransfer)
}

func TestNotificationsEmittedInOrder(t *testing.T) {
	a, bank, _, ec := setupArena(t)
	creator := uuid.New()
	ctx := context.Background()

	id, err := a.CreateLobby("Test Quiz", "General Knowledge", 100, 2, creator)
	require.NoError(t, err)

	p1 := fundedAccount(t, bank, 100)
	p2 := fundedAccount(t, bank, 100)
	require.NoError(t, a.JoinLobby(ctx, id, p1, 100))
	require.NoError(t, a.JoinLobby(ctx, id, p2, 100))
	require.NoError(t, a.ExecuteWinnerPayout(ctx, id, p1, creator))

	events := ec.all()
	require.Len(t, events, 4)

	assert.Equal(t, EventLobbyCreated, events[0].Type)
	assert.Equal(t, "Test Quiz", events[0].Name)
	assert.Equal(t, creator, events[0].Creator)

	assert.Equal(t, EventPlayerJoined, events[1].Type)
	assert.Equal(t, p1, events[1].Player)
	assert.Equal(t, EventPlayerJoined, events[2].Type)
	assert.Equal(t, p2, events[2].Player)

	assert.Equal(t, EventLobbyCompleted, events[3].Type)
	assert.Equal(t, p1, events[3].Winner)
	assert.Equal(t, uint64(200), events[3].AmountPaid)
}

func TestSlowObserverCannotReorderJoinNotifications(t *testing.T) {
	a, bank, _, _ := setupArena(t)
	creator := uuid.New()
	ctx := context.Background()

	id, err := a.CreateLobby("Test Quiz", "General Knowledge", 100, 3, creator)
	require.NoError(t, err)

	p1 := fundedAccount(t, bank, 100)
	p2 := fundedAccount(t, bank, 100)

	// Stall the first join's delivery while a rival join runs. The rival
	// must not get its notification recorded ahead of the stalled one.
	ec := &eventCollector{}
	secondDone := make(chan error, 1)
	var stallOnce sync.Once
	a.EmitFn = func(ev Event) {
		if ev.Type == EventPlayerJoined {
			stallOnce.Do(func() {
				go func() { secondDone <- a.JoinLobby(ctx, id, p2, 100) }()
				time.Sleep(50 * time.Millisecond)
			})
		}
		ec.emit(ev)
	}

	require.NoError(t, a.JoinLobby(ctx, id, p1, 100))
	require.NoError(t, <-secondDone)

	players, err := a.GetPlayersInLobby(id)
	require.NoError(t, err)
	require.Equal(t, []uuid.UUID{p1, p2}, players)

	var notified []uuid.UUID
	for _, ev := range ec.all() {
		if ev.Type == EventPlayerJoined {
			notified = append(notified, ev.Player)
		}
	}
	assert.Equal(t, players, notified)
}

func TestJoinRejectsCompletedLobbyWithOpenSlots(t *testing.T) {
	a, bank, _, _ := setupArena(t)
	creator := uuid.New()
	ctx := context.Background()

	id, err := a.CreateLobby("Test Quiz", "General Knowledge", 100, 5, creator)
	require.NoError(t, err)

	p1 := fundedAccount(t, bank, 100)
	p2 := fundedAccount(t, bank, 100)
	require.NoError(t, a.JoinLobby(ctx, id, p1, 100))
	require.NoError(t, a.JoinLobby(ctx, id, p2, 100))
	require.NoError(t, a.ExecuteWinnerPayout(ctx, id, p1, creator))

	// Three slots remain, so the capacity guard passes; the terminal
	// status is what shuts the door.
	late := fundedAccount(t, bank, 100)
	assert.ErrorIs(t, a.JoinLobby(ctx, id, late, 100), ErrLobbyClosed)

	snap, err := a.GetLobby(id)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, snap.Status)
	assert.Equal(t, 2, snap.PlayerCount)
	assert.Equal(t, uint64(100), bank.Balance(late))
}

func TestGetLobbyResultBeforeAndAfterPayout(t *testing.T) {
	a, bank, _, _ := setupArena(t)
	creator := uuid.New()
	ctx := context.Background()

	id, err := a.CreateLobby("Test Quiz", "General Knowledge", 100, 3, creator)
	require.NoError(t, err)

	p1 := fundedAccount(t, bank, 100)
	p2 := fundedAccount(t, bank, 100)
	require.NoError(t, a.JoinLobby(ctx, id, p1, 100))
	require.NoError(t, a.JoinLobby(ctx, id, p2, 100))

	res, err := a.GetLobbyResult(id)
	require.NoError(t, err)
	assert.Equal(t, StatusStarted, res.Status)
	assert.Equal(t, uuid.Nil, res.Winner)
	assert.Equal(t, uint64(200), res.RemainingPrize)

	require.NoError(t, a.ExecuteWinnerPayout(ctx, id, p2, creator))

	res, err = a.GetLobbyResult(id)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, res.Status)
	assert.Equal(t, p2, res.Winner)
	assert.Equal(t, uint64(0), res.RemainingPrize)
}
