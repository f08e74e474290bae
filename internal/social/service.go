// Package social manages the friendship graph. Accept and reject run under
// a per-edge guard so a double tap produces exactly one transition, and the
// remote update is conditional on the current status so two clients racing
// on the same edge cannot both win.
package social

import (
	stderrors "errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/vigorfit/vigor/internal/constants"
	"github.com/vigorfit/vigor/internal/errors"
	"github.com/vigorfit/vigor/internal/logger"
	"github.com/vigorfit/vigor/internal/mirror"
	"github.com/vigorfit/vigor/internal/models"
	"github.com/vigorfit/vigor/internal/remote"
	"github.com/vigorfit/vigor/internal/syncq"
)

type Service struct {
	userID string
	remote remote.Store
	cache  *mirror.Store
	guard  *syncq.KeyedMutex
	token  *syncq.Token
	notify func(text string)
	award  func(badge constants.BadgeType)

	mu      sync.RWMutex
	friends []models.Friendship
	pending []models.Friendship
	loading bool
}

// NewService creates a social service. award, when non-nil, is invoked after
// the first successful accept so the caller can unlock the social badge.
func NewService(userID string, store remote.Store, cache *mirror.Store, notify func(text string), award func(badge constants.BadgeType)) *Service {
	if notify == nil {
		notify = func(string) {}
	}
	if award == nil {
		award = func(constants.BadgeType) {}
	}
	return &Service{
		userID: userID,
		remote: store,
		cache:  cache,
		guard:  syncq.NewKeyedMutex(),
		token:  syncq.NewToken(),
		notify: notify,
		award:  award,
	}
}

func (s *Service) Close() {
	s.token.Cancel()
}

// Friends returns the cached accepted edges.
func (s *Service) Friends() []models.Friendship {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.friends
}

// Pending returns the cached incoming and outgoing pending requests.
func (s *Service) Pending() []models.Friendship {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.pending
}

func (s *Service) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// SendRequest creates a pending edge toward receiverID. Sending the same
// request twice is harmless; the duplicate reports success without creating
// a second edge.
func (s *Service) SendRequest(receiverID string) bool {
	if receiverID == "" || receiverID == s.userID {
		logger.Debug("Rejected friend request", "receiver", receiverID)
		return false
	}

	s.mu.RLock()
	for _, f := range s.friends {
		if f.Involves(receiverID) {
			s.mu.RUnlock()
			s.notify("You're already friends")
			return false
		}
	}
	s.mu.RUnlock()

	now := time.Now().UTC()
	edge := models.Friendship{
		ID:         uuid.New().String(),
		SenderID:   s.userID,
		ReceiverID: receiverID,
		Status:     constants.FriendPending,
		CreatedAt:  now,
		UpdatedAt:  now,
	}

	err := s.remote.InsertFriendRequest(edge)
	switch {
	case err == nil:
	case stderrors.Is(err, errors.ErrConflict):
		// A pending edge for this pair already exists. The intent is
		// satisfied either way.
		logger.Debug("Duplicate friend request", "receiver", receiverID)
		return true
	default:
		logger.Error("Failed to send friend request", "error", err)
		s.notify("Couldn't send the friend request")
		return false
	}

	return s.Refresh()
}

// Accept transitions a pending incoming request to accepted.
func (s *Service) Accept(friendshipID string) bool {
	return s.transition(friendshipID, constants.FriendAccepted)
}

// Reject transitions a pending incoming request to rejected.
func (s *Service) Reject(friendshipID string) bool {
	return s.transition(friendshipID, constants.FriendRejected)
}

func (s *Service) transition(friendshipID string, to constants.FriendStatus) bool {
	release, ok := s.guard.TryAcquire(friendshipID)
	if !ok {
		// A transition for this edge is already in flight.
		logger.Debug("Friendship busy", "id", friendshipID)
		return false
	}
	defer release()

	edge, err := s.remote.GetFriendship(friendshipID)
	if err != nil {
		logger.Error("Failed to fetch friendship", "id", friendshipID, "error", err)
		return false
	}
	if edge.ReceiverID != s.userID {
		logger.Debug("Only the receiver may answer a request", "id", friendshipID)
		return false
	}
	if edge.Status != constants.FriendPending {
		return false
	}

	now := time.Now().UTC().Format(time.RFC3339)
	err = s.remote.UpdateFriendshipStatus(friendshipID, constants.FriendPending, to, now)
	switch {
	case err == nil:
	case stderrors.Is(err, errors.ErrNotFound):
		// Another client answered first. Nothing to do but refetch.
		s.Refresh()
		return false
	default:
		logger.Error("Failed to update friendship", "id", friendshipID, "error", err)
		s.notify("Couldn't update the friend request")
		return false
	}

	if to == constants.FriendAccepted {
		s.award(constants.BadgeSocial)
	}
	return s.Refresh()
}

// Refresh refetches both lists from the remote and rewrites the mirror. On
// a network failure the mirrored lists are served instead.
func (s *Service) Refresh() bool {
	s.setLoading(true)
	defer s.setLoading(false)

	friends, err := s.remote.ListFriendships(s.userID, constants.FriendAccepted)
	if err != nil {
		return s.loadFromMirror(err)
	}
	pending, err := s.remote.ListFriendships(s.userID, constants.FriendPending)
	if err != nil {
		return s.loadFromMirror(err)
	}

	if !s.token.Alive() {
		return false
	}

	s.mu.Lock()
	s.friends = friends
	s.pending = pending
	s.mu.Unlock()

	all := make([]models.Friendship, 0, len(friends)+len(pending))
	all = append(all, friends...)
	all = append(all, pending...)
	if err := s.cache.ReplaceFriendships(s.userID, all); err != nil {
		logger.Warn("Failed to mirror friendships", "error", err)
	}
	return true
}

func (s *Service) loadFromMirror(cause error) bool {
	logger.Warn("Failed to fetch friendships, falling back to mirror", "error", cause)

	friends, ferr := s.cache.ListFriendships(s.userID, constants.FriendAccepted)
	pending, perr := s.cache.ListFriendships(s.userID, constants.FriendPending)
	if ferr != nil || perr != nil {
		return false
	}
	if !s.token.Alive() {
		return false
	}

	s.mu.Lock()
	s.friends = friends
	s.pending = pending
	s.mu.Unlock()
	return true
}

func (s *Service) setLoading(v bool) {
	s.mu.Lock()
	s.loading = v
	s.mu.Unlock()
}
