package store

import (
	"context"
	"fmt"
	"sync"

	"passpoll/internal/poll/models"
	"passpoll/pkg/platform/sentinel"
)

// InMemoryStore keeps poll and voter-state records keyed by derived address.
// It returns copies so callers never alias stored records.
// Record-level atomicity beyond a single call is the transaction's job, not the store's.
type InMemoryStore struct {
	mu          sync.RWMutex
	polls       map[models.Address]models.Poll
	voterStates map[models.Address]models.VoterState
}

func NewInMemory() *InMemoryStore {
	return &InMemoryStore{
		polls:       make(map[models.Address]models.Poll),
		voterStates: make(map[models.Address]models.VoterState),
	}
}

// CreatePoll allocates the poll at its address; an occupied address is a conflict.
func (s *InMemoryStore) CreatePoll(_ context.Context, poll *models.Poll) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.polls[poll.Address]; exists {
		return fmt.Errorf("create poll %d: %w", poll.ID, sentinel.ErrConflict)
	}
	s.polls[poll.Address] = *poll
	return nil
}

func (s *InMemoryStore) FindPoll(_ context.Context, addr models.Address) (*models.Poll, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	poll, ok := s.polls[addr]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &poll, nil
}

// UpdatePoll overwrites an existing poll record.
func (s *InMemoryStore) UpdatePoll(_ context.Context, poll *models.Poll) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.polls[poll.Address]; !ok {
		return sentinel.ErrNotFound
	}
	s.polls[poll.Address] = *poll
	return nil
}

func (s *InMemoryStore) CreateVoterState(_ context.Context, state *models.VoterState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.voterStates[state.Address]; exists {
		return fmt.Errorf("create voter state %s: %w", state.Voter, sentinel.ErrConflict)
	}
	s.voterStates[state.Address] = *state
	return nil
}

func (s *InMemoryStore) FindVoterState(_ context.Context, addr models.Address) (*models.VoterState, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	state, ok := s.voterStates[addr]
	if !ok {
		return nil, sentinel.ErrNotFound
	}
	return &state, nil
}

func (s *InMemoryStore) UpdateVoterState(_ context.Context, state *models.VoterState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.voterStates[state.Address]; !ok {
		return sentinel.ErrNotFound
	}
	s.voterStates[state.Address] = *state
	return nil
}
