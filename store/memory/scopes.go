package memory

import (
	"context"

	"github.com/anti-raid/cmdgate/types"
)

func scopeKey(deploymentID, commandName string) string {
	return deploymentID + "/" + commandName
}

func (s *Store) ScopeConfiguration(_ context.Context, commandName, deploymentID string) (*types.ScopeConfiguration, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if c, ok := s.scopes[scopeKey(deploymentID, commandName)]; ok {
		cp := *c
		cp.WhitelistedRoleIDs = append([]string{}, c.WhitelistedRoleIDs...)
		return &cp, nil
	}

	return nil, nil
}

func (s *Store) UpsertScopeConfiguration(_ context.Context, c *types.ScopeConfiguration) error {
	cp := *c
	cp.WhitelistedRoleIDs = append([]string{}, c.WhitelistedRoleIDs...)

	s.mu.Lock()
	s.scopes[scopeKey(c.DeploymentID, c.CommandName)] = &cp
	s.mu.Unlock()
	return nil
}

func (s *Store) DeleteScopeConfiguration(_ context.Context, deploymentID, commandName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := scopeKey(deploymentID, commandName)

	if _, ok := s.scopes[key]; !ok {
		return types.ErrNotFound
	}

	delete(s.scopes, key)
	return nil
}

func (s *Store) IncrementUsage(_ context.Context, commandName string) error {
	s.mu.Lock()
	s.usage[commandName]++
	s.mu.Unlock()
	return nil
}

// Usage returns how many successful executions of the command were recorded
func (s *Store) Usage(_ context.Context, commandName string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.usage[commandName], nil
}
