package gamify

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/vigorfit/vigor/internal/constants"
	"github.com/vigorfit/vigor/internal/mirror"
	"github.com/vigorfit/vigor/internal/remote/remotetest"
)

func setupTestService(t *testing.T) (*Service, *remotetest.Store) {
	t.Helper()

	store := remotetest.New()
	cache := mirror.NewStore(filepath.Join(t.TempDir(), "mirror.db"))
	if err := cache.Init(); err != nil {
		t.Fatalf("failed to init mirror: %v", err)
	}
	t.Cleanup(func() { cache.Close() })

	svc := NewService("user-1", store, cache, nil)
	t.Cleanup(svc.Close)
	return svc, store
}

func TestAddXPUpdatesTotalAndLog(t *testing.T) {
	svc, store := setupTestService(t)

	if ok := svc.AddXP(50, constants.XPSourceWorkout, "morning run"); !ok {
		t.Fatal("AddXP should succeed")
	}

	state := svc.State()
	if state.TotalXP != 50 {
		t.Errorf("expected total 50, got %d", state.TotalXP)
	}
	if state.CurrentLevel != LevelFromXP(50) {
		t.Errorf("level must track total, got %d", state.CurrentLevel)
	}
	if len(store.Transactions) != 1 {
		t.Errorf("expected 1 logged transaction, got %d", len(store.Transactions))
	}
}

func TestAddXPConcurrentAwardsSerialize(t *testing.T) {
	svc, store := setupTestService(t)
	store.Latency = 10 * time.Millisecond // widen the read-modify-write window

	// Two near-simultaneous awards: without serialization both would read a
	// stale total and one increment would be lost.
	var wg sync.WaitGroup
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if ok := svc.AddXP(50, constants.XPSourceWorkout, "set"); !ok {
				t.Error("AddXP failed")
			}
		}()
	}
	wg.Wait()

	g := store.Gamification["user-1"]
	if g.TotalXP != 100 {
		t.Errorf("expected total 100, got %d", g.TotalXP)
	}
	if len(store.Transactions) != 2 {
		t.Errorf("expected both transactions logged, got %d", len(store.Transactions))
	}
}

func TestAddXPRejectsNonPositiveAmount(t *testing.T) {
	svc, store := setupTestService(t)

	if svc.AddXP(0, constants.XPSourceWorkout, "") {
		t.Error("zero amount should be rejected")
	}
	if svc.AddXP(-5, constants.XPSourceWorkout, "") {
		t.Error("negative amount should be rejected")
	}
	if len(store.Transactions) != 0 {
		t.Errorf("rejected amounts must not reach the remote store")
	}
}

func TestAddXPRemoteFailureReturnsFalse(t *testing.T) {
	svc, store := setupTestService(t)
	store.FailNext = errTest

	if svc.AddXP(50, constants.XPSourceWorkout, "") {
		t.Error("AddXP should report failure")
	}

	// Next attempt naturally supersedes the failed one
	if !svc.AddXP(50, constants.XPSourceWorkout, "") {
		t.Error("retry should succeed")
	}
	if store.Gamification["user-1"].TotalXP != 50 {
		t.Errorf("expected total 50 after one successful award, got %d",
			store.Gamification["user-1"].TotalXP)
	}
}

func TestAwardBadgeSecondCallNoOp(t *testing.T) {
	svc, store := setupTestService(t)

	if !svc.AwardBadge(constants.BadgeFirstWorkout) {
		t.Fatal("first award should succeed")
	}
	if !svc.AwardBadge(constants.BadgeFirstWorkout) {
		t.Fatal("second award should short-circuit as success")
	}

	if len(store.Badges) != 1 {
		t.Errorf("expected exactly one stored badge, got %d", len(store.Badges))
	}
}

func TestAwardBadgeConflictTreatedAsSuccess(t *testing.T) {
	svc, store := setupTestService(t)

	// Another device already inserted the badge; the local cache is empty,
	// so the fast check passes and the remote insert conflicts.
	other := NewService("user-1", store, newTestMirror(t), nil)
	defer other.Close()
	if !other.AwardBadge(constants.BadgeWeekStreak) {
		t.Fatal("setup award failed")
	}

	if !svc.AwardBadge(constants.BadgeWeekStreak) {
		t.Error("uniqueness conflict must be treated as success")
	}
	if len(store.Badges) != 1 {
		t.Errorf("expected exactly one stored badge, got %d", len(store.Badges))
	}
}

func TestRecordLoginStreakTransitions(t *testing.T) {
	svc, store := setupTestService(t)

	if !svc.RecordLogin("2026-08-27") {
		t.Fatal("first login failed")
	}
	if got := store.Gamification["user-1"].DailyLoginStreak; got != 1 {
		t.Fatalf("expected streak 1, got %d", got)
	}
	if got := store.Gamification["user-1"].TotalXP; got != constants.XPPerLogin {
		t.Fatalf("expected %d xp for first login, got %d", constants.XPPerLogin, got)
	}

	// Same day again: streak unchanged, no extra XP
	if !svc.RecordLogin("2026-08-27") {
		t.Fatal("same-day login failed")
	}
	if got := store.Gamification["user-1"].DailyLoginStreak; got != 1 {
		t.Errorf("same-day login must not change streak, got %d", got)
	}
	if got := store.Gamification["user-1"].TotalXP; got != constants.XPPerLogin {
		t.Errorf("same-day login must not award XP again, got %d", got)
	}

	// Next day: increments and pays out again
	if !svc.RecordLogin("2026-08-28") {
		t.Fatal("next-day login failed")
	}
	if got := store.Gamification["user-1"].DailyLoginStreak; got != 2 {
		t.Errorf("expected streak 2, got %d", got)
	}
	if got := store.Gamification["user-1"].TotalXP; got != 2*constants.XPPerLogin {
		t.Errorf("expected %d xp after second day, got %d", 2*constants.XPPerLogin, got)
	}

	// Gap: resets
	if !svc.RecordLogin("2026-09-01") {
		t.Fatal("post-gap login failed")
	}
	if got := store.Gamification["user-1"].DailyLoginStreak; got != 1 {
		t.Errorf("expected streak reset to 1, got %d", got)
	}
}

func TestRefreshCreatesSingletonLazily(t *testing.T) {
	svc, store := setupTestService(t)

	if !svc.Refresh() {
		t.Fatal("refresh failed")
	}

	g, ok := store.Gamification["user-1"]
	if !ok {
		t.Fatal("refresh should create the gamification row")
	}
	if g.CurrentLevel != 1 || g.TotalXP != 0 {
		t.Errorf("fresh state should be level 1 with 0 xp, got %+v", g)
	}
}

func TestCloseDiscardsQueuedWork(t *testing.T) {
	svc, store := setupTestService(t)
	store.Latency = 50 * time.Millisecond

	done := make(chan bool, 1)
	go func() {
		done <- svc.AddXP(50, constants.XPSourceWorkout, "")
	}()
	time.Sleep(5 * time.Millisecond)
	svc.Close()

	// The in-flight award may or may not land remotely, but the local state
	// must never be committed to a torn-down consumer.
	<-done
	if svc.State().TotalXP != 0 {
		t.Error("no commit may land after teardown")
	}
}

func newTestMirror(t *testing.T) *mirror.Store {
	t.Helper()
	cache := mirror.NewStore(filepath.Join(t.TempDir(), "mirror.db"))
	if err := cache.Init(); err != nil {
		t.Fatalf("failed to init mirror: %v", err)
	}
	t.Cleanup(func() { cache.Close() })
	return cache
}

var errTest = &testError{}

type testError struct{}

func (*testError) Error() string { return "injected failure" }
