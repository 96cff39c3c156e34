package passes

import (
	"context"
	"fmt"
	"sync"

	"passpoll/internal/poll/models"
	"passpoll/pkg/platform/sentinel"
)

// InMemoryLedger keeps pass classes and balances in process memory.
type InMemoryLedger struct {
	mu          sync.RWMutex
	authorities map[models.TokenClass]models.Identity
	balances    map[models.TokenClass]map[models.Identity]uint64
}

func NewInMemory() *InMemoryLedger {
	return &InMemoryLedger{
		authorities: make(map[models.TokenClass]models.Identity),
		balances:    make(map[models.TokenClass]map[models.Identity]uint64),
	}
}

// CreateClass registers a class with its sole mint authority.
func (l *InMemoryLedger) CreateClass(_ context.Context, class models.TokenClass, mintAuthority models.Identity) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if _, exists := l.authorities[class]; exists {
		return fmt.Errorf("create class %s: %w", class, sentinel.ErrConflict)
	}
	l.authorities[class] = mintAuthority
	l.balances[class] = make(map[models.Identity]uint64)
	return nil
}

func (l *InMemoryLedger) MintOne(_ context.Context, authority models.Identity, class models.TokenClass, recipient models.Identity) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	owner, ok := l.authorities[class]
	if !ok {
		return fmt.Errorf("mint %s: %w", class, sentinel.ErrNotFound)
	}
	if owner != authority {
		return fmt.Errorf("mint %s: %w", class, sentinel.ErrForbidden)
	}
	if l.balances[class][recipient] == MaxBalance {
		return ErrBalanceOverflow
	}
	l.balances[class][recipient]++
	return nil
}

func (l *InMemoryLedger) BurnOne(_ context.Context, holderAuthority models.Identity, class models.TokenClass, holder models.Identity) error {
	if holderAuthority != holder {
		return fmt.Errorf("burn %s: %w", class, sentinel.ErrForbidden)
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	held, ok := l.balances[class]
	if !ok {
		return fmt.Errorf("burn %s: %w", class, sentinel.ErrNotFound)
	}
	if held[holder] == 0 {
		return fmt.Errorf("burn %s: %w", class, sentinel.ErrInsufficient)
	}
	held[holder]--
	return nil
}

func (l *InMemoryLedger) BalanceOf(_ context.Context, class models.TokenClass, holder models.Identity) (uint64, error) {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.balances[class][holder], nil
}
