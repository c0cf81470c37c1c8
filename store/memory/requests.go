package memory

import (
	"context"
	"time"

	"github.com/anti-raid/cmdgate/types"
)

func pendingKey(requesteeID, commandName, fingerprint string) string {
	return "request:" + requesteeID + ":" + commandName + ":" + fingerprint
}

func copyRequest(r *types.Request) *types.Request {
	cp := *r
	if r.Accepted != nil {
		a := *r.Accepted
		cp.Accepted = &a
	}
	if r.ResolvedAt != nil {
		t := *r.ResolvedAt
		cp.ResolvedAt = &t
	}
	cp.Arguments = make(map[string]any, len(r.Arguments))
	for k, v := range r.Arguments {
		cp.Arguments[k] = v
	}
	return &cp
}

func (s *Store) CreateRequest(_ context.Context, r *types.Request) error {
	unlock := s.locks.Lock(pendingKey(r.RequesteeID, r.CommandName, r.ArgumentsFingerprint))
	defer unlock()

	s.mu.RLock()
	for _, existing := range s.requests {
		if existing.Pending() &&
			existing.RequesteeID == r.RequesteeID &&
			existing.CommandName == r.CommandName &&
			existing.ArgumentsFingerprint == r.ArgumentsFingerprint {
			s.mu.RUnlock()
			return types.ErrDuplicate
		}
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = s.id("request")
	}

	if r.CreatedAt.IsZero() {
		r.CreatedAt = s.now()
	}

	s.requests[r.ID] = copyRequest(r)
	return nil
}

func (s *Store) FindPendingRequest(_ context.Context, requesteeID, commandName, fingerprint string) (*types.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.requests {
		if r.Pending() && r.RequesteeID == requesteeID && r.CommandName == commandName && r.ArgumentsFingerprint == fingerprint {
			return copyRequest(r), nil
		}
	}

	return nil, nil
}

func (s *Store) FindRequestByRef(_ context.Context, ref string) (*types.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.requests {
		if r.AcceptRef == ref || r.DeclineRef == ref {
			return copyRequest(r), nil
		}
	}

	return nil, types.ErrNotFound
}

func (s *Store) RequestByID(_ context.Context, id string) (*types.Request, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if r, ok := s.requests[id]; ok {
		return copyRequest(r), nil
	}

	return nil, types.ErrNotFound
}

func (s *Store) ResolveRequest(_ context.Context, id string, accepted bool, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.requests[id]

	if !ok {
		return types.ErrNotFound
	}

	if !r.Pending() {
		return types.ErrAlreadyResolved
	}

	r.Accepted = &accepted
	r.ResolvedAt = &at
	return nil
}
