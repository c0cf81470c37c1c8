package memory

import (
	"context"
	"time"

	"github.com/anti-raid/cmdgate/types"
)

func (s *Store) FindCooldown(_ context.Context, key types.CooldownKey) (*types.Cooldown, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.cooldowns[key.String()]; ok {
		cp := *c
		return &cp, nil
	}

	return nil, nil
}

func (s *Store) CommitCooldown(_ context.Context, key types.CooldownKey, setting types.CooldownDuration, startedAt time.Time) (*types.Cooldown, error) {
	unlock := s.locks.Lock("cooldown:" + key.String())
	defer unlock()

	s.mu.RLock()
	existing, ok := s.cooldowns[key.String()]
	var c types.Cooldown
	if ok {
		c = *existing
	}
	s.mu.RUnlock()

	if !ok {
		c = types.Cooldown{CooldownKey: key}
	}

	c.Type = setting.Type
	c.Quantity = setting.Quantity
	c.Count++
	c.LastUsedAt = startedAt
	if setting.Type == types.CooldownTypeDuration {
		c.ExpiresAt = startedAt.Add(setting.Length())
	}

	s.mu.Lock()
	if c.ID == "" {
		c.ID = s.id("cooldown")
	}
	s.cooldowns[key.String()] = &c
	s.mu.Unlock()

	cp := c
	return &cp, nil
}

func (s *Store) ResetCooldown(_ context.Context, key types.CooldownKey) error {
	unlock := s.locks.Lock("cooldown:" + key.String())
	defer unlock()

	s.mu.Lock()
	defer s.mu.Unlock()

	c, ok := s.cooldowns[key.String()]

	if !ok {
		return nil
	}

	c.ExpiresAt = time.Time{}
	c.Count = 0
	return nil
}
