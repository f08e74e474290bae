package progress

import (
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/vigorfit/vigor/internal/constants"
	"github.com/vigorfit/vigor/internal/mirror"
	"github.com/vigorfit/vigor/internal/models"
	"github.com/vigorfit/vigor/internal/remote/remotetest"
)

const testDay = "2026-08-29"

func setupTestService(t *testing.T, window time.Duration) (*Service, *remotetest.Store, *notices) {
	t.Helper()

	store := remotetest.New()
	cache := mirror.NewStore(filepath.Join(t.TempDir(), "mirror.db"))
	if err := cache.Init(); err != nil {
		t.Fatalf("failed to init mirror: %v", err)
	}
	t.Cleanup(func() { cache.Close() })

	n := &notices{}
	svc := NewService("user-1", store, cache, window, n.record)
	t.Cleanup(func() { svc.Close() })
	return svc, store, n
}

type notices struct {
	mu    sync.Mutex
	texts []string
}

func (n *notices) record(text string) {
	n.mu.Lock()
	n.texts = append(n.texts, text)
	n.mu.Unlock()
}

func (n *notices) count() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.texts)
}

func seedDay(store *remotetest.Store, steps, water, active int) {
	store.Progress["user-1|"+testDay] = models.DailyProgress{
		ID:                "p-1",
		UserID:            "user-1",
		Day:               testDay,
		Steps:             steps,
		WaterML:           water,
		ActiveMinutes:     active,
		StepsGoal:         constants.DefaultStepsGoal,
		WaterGoalML:       constants.DefaultWaterGoalML,
		ActiveMinutesGoal: constants.DefaultActiveMinutesGoal,
	}
}

func TestLoadCreatesDayLazily(t *testing.T) {
	svc, store, _ := setupTestService(t, constants.DebounceWindow)

	if ok := svc.Load(testDay); !ok {
		t.Fatal("Load should succeed")
	}

	p := svc.Snapshot()
	if p.Day != testDay {
		t.Errorf("expected day %s, got %s", testDay, p.Day)
	}
	if p.StepsGoal != constants.DefaultStepsGoal || p.WaterGoalML != constants.DefaultWaterGoalML {
		t.Error("lazily created day must carry the default goals")
	}
	if _, ok := store.Progress["user-1|"+testDay]; !ok {
		t.Error("lazy creation must also write the remote row")
	}
}

func TestLoadFallsBackToMirrorOffline(t *testing.T) {
	svc, store, _ := setupTestService(t, constants.DebounceWindow)

	seedDay(store, 4000, 500, 10)
	if ok := svc.Load(testDay); !ok {
		t.Fatal("Load should succeed")
	}

	// Remote unreachable on the next load. The mirrored row from the first
	// load must still be served.
	store.FailNext = errTimeout{}
	if ok := svc.Load(testDay); !ok {
		t.Fatal("offline Load should still succeed via mirror")
	}
	if got := svc.Snapshot().Steps; got != 4000 {
		t.Errorf("expected mirrored steps 4000, got %d", got)
	}
}

func TestBurstCoalescesToOneWrite(t *testing.T) {
	svc, store, _ := setupTestService(t, 50*time.Millisecond)

	seedDay(store, 0, 1000, 0)
	if ok := svc.Load(testDay); !ok {
		t.Fatal("Load should succeed")
	}

	// Three quick taps inside the window. Local state reflects each one
	// immediately; the remote sees a single write carrying the final total.
	for i := 0; i < 3; i++ {
		if ok := svc.AddWater(250); !ok {
			t.Fatal("AddWater should succeed")
		}
	}
	if got := svc.Snapshot().WaterML; got != 1750 {
		t.Errorf("expected local water 1750, got %d", got)
	}

	time.Sleep(150 * time.Millisecond)

	if got := store.Progress["user-1|"+testDay].WaterML; got != 1750 {
		t.Errorf("expected remote water 1750, got %d", got)
	}
	if got := store.Calls("UpsertDailyProgress"); got != 1 {
		t.Errorf("expected the burst to coalesce into one remote write, got %d", got)
	}
}

func TestFlushWritesPendingImmediately(t *testing.T) {
	svc, store, _ := setupTestService(t, time.Hour)

	if ok := svc.Load(testDay); !ok {
		t.Fatal("Load should succeed")
	}
	svc.AddSteps(1200)

	if err := svc.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if got := store.Progress["user-1|"+testDay].Steps; got != 1200 {
		t.Errorf("expected remote steps 1200 after flush, got %d", got)
	}
}

func TestCloseFlushesPendingWrite(t *testing.T) {
	store := remotetest.New()
	cache := mirror.NewStore(filepath.Join(t.TempDir(), "mirror.db"))
	if err := cache.Init(); err != nil {
		t.Fatalf("failed to init mirror: %v", err)
	}
	defer cache.Close()

	svc := NewService("user-1", store, cache, time.Hour, nil)
	if ok := svc.Load(testDay); !ok {
		t.Fatal("Load should succeed")
	}
	svc.AddActiveMinutes(25)

	if err := svc.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if got := store.Progress["user-1|"+testDay].ActiveMinutes; got != 25 {
		t.Errorf("expected remote active minutes 25 after close, got %d", got)
	}
}

func TestWriteFailureKeepsLocalState(t *testing.T) {
	svc, store, n := setupTestService(t, 50*time.Millisecond)

	if ok := svc.Load(testDay); !ok {
		t.Fatal("Load should succeed")
	}

	store.FailNext = errTimeout{}
	svc.AddSteps(500)
	time.Sleep(150 * time.Millisecond)

	if got := svc.Snapshot().Steps; got != 500 {
		t.Errorf("local state must survive a failed write, got %d", got)
	}
	if n.count() == 0 {
		t.Error("a failed sync must surface a notification")
	}
}

func TestRefreshDiscardsPendingGuess(t *testing.T) {
	svc, store, _ := setupTestService(t, time.Hour)

	seedDay(store, 0, 0, 0)
	if ok := svc.Load(testDay); !ok {
		t.Fatal("Load should succeed")
	}

	// A pending local write is superseded by remote truth arriving via
	// refresh. The stale guess must not be flushed afterwards.
	svc.AddWater(250)
	seedDay(store, 0, 900, 0)

	if ok := svc.Refresh(testDay); !ok {
		t.Fatal("Refresh should succeed")
	}
	if got := svc.Snapshot().WaterML; got != 900 {
		t.Errorf("expected refreshed water 900, got %d", got)
	}

	if err := svc.Flush(); err != nil {
		t.Fatalf("Flush failed: %v", err)
	}
	if got := store.Progress["user-1|"+testDay].WaterML; got != 900 {
		t.Errorf("cancelled write must not reach the remote, got %d", got)
	}
}

func TestCountersClampAtZero(t *testing.T) {
	svc, _, _ := setupTestService(t, time.Hour)

	if ok := svc.Load(testDay); !ok {
		t.Fatal("Load should succeed")
	}
	svc.AddWater(250)
	svc.AddWater(-1000)

	if got := svc.Snapshot().WaterML; got != 0 {
		t.Errorf("expected clamp at zero, got %d", got)
	}
}

func TestMutationBeforeLoadRejected(t *testing.T) {
	svc, _, _ := setupTestService(t, time.Hour)

	if ok := svc.AddSteps(100); ok {
		t.Error("mutation before load must be rejected")
	}
}

type errTimeout struct{}

func (errTimeout) Error() string { return "dial tcp: i/o timeout" }
