package social

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

func setupTestService(t *testing.T) (*Service, *remotetest.Store) {
	t.Helper()

	store := remotetest.New()
	cache := mirror.NewStore(filepath.Join(t.TempDir(), "mirror.db"))
	if err := cache.Init(); err != nil {
		t.Fatalf("failed to init mirror: %v", err)
	}
	t.Cleanup(func() { cache.Close() })

	svc := NewService("user-1", store, cache, nil, nil)
	t.Cleanup(svc.Close)
	return svc, store
}

func seedPending(store *remotetest.Store, id, sender, receiver string) {
	now := time.Now().UTC()
	store.Friendships[id] = models.Friendship{
		ID:         id,
		SenderID:   sender,
		ReceiverID: receiver,
		Status:     constants.FriendPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestSendRequestCreatesPendingEdge(t *testing.T) {
	svc, store := setupTestService(t)

	if ok := svc.SendRequest("user-2"); !ok {
		t.Fatal("SendRequest should succeed")
	}
	if len(store.Friendships) != 1 {
		t.Fatalf("expected 1 edge, got %d", len(store.Friendships))
	}
	if got := len(svc.Pending()); got != 1 {
		t.Errorf("expected 1 cached pending edge, got %d", got)
	}
}

func TestSendRequestDuplicateIsIdempotent(t *testing.T) {
	svc, store := setupTestService(t)

	if ok := svc.SendRequest("user-2"); !ok {
		t.Fatal("first SendRequest should succeed")
	}
	if ok := svc.SendRequest("user-2"); !ok {
		t.Error("duplicate SendRequest should report success")
	}
	if len(store.Friendships) != 1 {
		t.Errorf("duplicate must not create a second edge, got %d", len(store.Friendships))
	}
}

func TestSendRequestRejectsSelf(t *testing.T) {
	svc, _ := setupTestService(t)

	if ok := svc.SendRequest("user-1"); ok {
		t.Error("self-request must be rejected")
	}
	if ok := svc.SendRequest(""); ok {
		t.Error("empty receiver must be rejected")
	}
}

func TestAcceptTransitionsPendingEdge(t *testing.T) {
	svc, store := setupTestService(t)
	seedPending(store, "f-1", "user-2", "user-1")

	if ok := svc.Accept("f-1"); !ok {
		t.Fatal("Accept should succeed")
	}
	if got := store.Friendships["f-1"].Status; got != constants.FriendAccepted {
		t.Errorf("expected accepted, got %q", got)
	}
	if got := len(svc.Friends()); got != 1 {
		t.Errorf("expected 1 cached friend, got %d", got)
	}
}

func TestAcceptOnlyByReceiver(t *testing.T) {
	svc, store := setupTestService(t)
	seedPending(store, "f-1", "user-1", "user-2")

	if ok := svc.Accept("f-1"); ok {
		t.Error("sender must not accept their own request")
	}
	if got := store.Friendships["f-1"].Status; got != constants.FriendPending {
		t.Errorf("edge must stay pending, got %q", got)
	}
}

func TestRejectIsTerminal(t *testing.T) {
	svc, store := setupTestService(t)
	seedPending(store, "f-1", "user-2", "user-1")

	if ok := svc.Reject("f-1"); !ok {
		t.Fatal("Reject should succeed")
	}
	if ok := svc.Accept("f-1"); ok {
		t.Error("a rejected edge must not be acceptable")
	}
	if got := store.Friendships["f-1"].Status; got != constants.FriendRejected {
		t.Errorf("expected rejected, got %q", got)
	}
}

func TestConcurrentAnswersSingleTransition(t *testing.T) {
	svc, store := setupTestService(t)
	seedPending(store, "f-1", "user-2", "user-1")
	store.Latency = 10 * time.Millisecond // widen the fetch-then-update window

	// A double tap lands Accept and Reject nearly simultaneously. The edge
	// guard admits one; the other returns without touching the edge.
	var wg sync.WaitGroup
	var accepted, rejected bool
	wg.Add(2)
	go func() {
		defer wg.Done()
		accepted = svc.Accept("f-1")
	}()
	go func() {
		defer wg.Done()
		rejected = svc.Reject("f-1")
	}()
	wg.Wait()

	if accepted == rejected {
		t.Fatalf("exactly one answer must win, got accept=%v reject=%v", accepted, rejected)
	}
	status := store.Friendships["f-1"].Status
	if status != constants.FriendAccepted && status != constants.FriendRejected {
		t.Errorf("edge must have transitioned, got %q", status)
	}
}

func TestAcceptLostRaceRefetches(t *testing.T) {
	svc, store := setupTestService(t)
	seedPending(store, "f-1", "user-2", "user-1")

	// Another client answered between our fetch and our update. The
	// conditional update matches zero rows and we must not overwrite.
	if ok := svc.Accept("f-1"); !ok {
		t.Fatal("first Accept should succeed")
	}
	if ok := svc.Accept("f-1"); ok {
		t.Error("second Accept must report failure")
	}
	if got := store.Friendships["f-1"].Status; got != constants.FriendAccepted {
		t.Errorf("expected accepted, got %q", got)
	}
}

func TestAcceptAwardsSocialBadge(t *testing.T) {
	store := remotetest.New()
	cache := mirror.NewStore(filepath.Join(t.TempDir(), "mirror.db"))
	if err := cache.Init(); err != nil {
		t.Fatalf("failed to init mirror: %v", err)
	}
	defer cache.Close()

	var awarded []constants.BadgeType
	svc := NewService("user-1", store, cache, nil, func(b constants.BadgeType) {
		awarded = append(awarded, b)
	})
	defer svc.Close()

	seedPending(store, "f-1", "user-2", "user-1")
	if ok := svc.Accept("f-1"); !ok {
		t.Fatal("Accept should succeed")
	}
	if len(awarded) != 1 || awarded[0] != constants.BadgeSocial {
		t.Errorf("expected social badge award, got %v", awarded)
	}
}

func TestRefreshFallsBackToMirrorOffline(t *testing.T) {
	svc, store := setupTestService(t)
	seedPending(store, "f-1", "user-2", "user-1")

	if ok := svc.Refresh(); !ok {
		t.Fatal("Refresh should succeed")
	}

	store.FailNext = errTimeout{}
	if ok := svc.Refresh(); !ok {
		t.Fatal("offline Refresh should still succeed via mirror")
	}
	if got := len(svc.Pending()); got != 1 {
		t.Errorf("expected 1 mirrored pending edge, got %d", got)
	}
}

type errTimeout struct{}

func (errTimeout) Error() string { return "dial tcp: i/o timeout" }
