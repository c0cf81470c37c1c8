// Package memory is an in-process implementation of every store contract, used in test mode
// and by tests. Same-key operations are atomic; nothing survives a restart.
package memory

import (
	"strconv"
	"sync"
	"time"

	"github.com/anti-raid/cmdgate/types"
)

type Store struct {
	mu    sync.RWMutex
	locks *keyLocks
	now   func() time.Time

	actors      map[string]*types.Actor
	deployments map[string]*types.Deployment
	resources   map[string]*types.Resource
	connected   map[string]bool

	cooldowns map[string]*types.Cooldown
	requests  map[string]*types.Request
	scopes    map[string]*types.ScopeConfiguration
	usage     map[string]int64

	nextID int
}

func New() *Store {
	return &Store{
		locks:       newKeyLocks(),
		now:         time.Now,
		actors:      map[string]*types.Actor{},
		deployments: map[string]*types.Deployment{},
		resources:   map[string]*types.Resource{},
		connected:   map[string]bool{},
		cooldowns:   map[string]*types.Cooldown{},
		requests:    map[string]*types.Request{},
		scopes:      map[string]*types.ScopeConfiguration{},
		usage:       map[string]int64{},
	}
}

// SetClock replaces the clock used for generated timestamps
func (s *Store) SetClock(now func() time.Time) {
	s.mu.Lock()
	s.now = now
	s.mu.Unlock()
}

// id must be called with mu held for writing
func (s *Store) id(prefix string) string {
	s.nextID++
	return prefix + "-" + strconv.Itoa(s.nextID)
}
