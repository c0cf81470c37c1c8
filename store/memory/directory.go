package memory

import (
	"context"
	"strings"

	"github.com/anti-raid/cmdgate/invocation"
	"github.com/anti-raid/cmdgate/types"
)

const suggestionLimit = 3

func (s *Store) AddActor(a types.Actor) *types.Actor {
	s.mu.Lock()
	defer s.mu.Unlock()

	if a.ID == "" {
		a.ID = s.id("user")
	}

	s.actors[a.ID] = &a
	return &a
}

func (s *Store) AddDeployment(d types.Deployment) *types.Deployment {
	s.mu.Lock()
	defer s.mu.Unlock()

	if d.ID == "" {
		d.ID = s.id("community")
	}

	s.deployments[d.ID] = &d
	return &d
}

func (s *Store) AddResource(r types.Resource) *types.Resource {
	s.mu.Lock()
	defer s.mu.Unlock()

	if r.ID == "" {
		r.ID = s.id("server")
	}

	s.resources[r.ID] = &r
	return &r
}

// SetConnected marks a server as having (or not having) a live connection
func (s *Store) SetConnected(resourceID string, connected bool) {
	s.mu.Lock()
	s.connected[resourceID] = connected
	s.mu.Unlock()
}

func (s *Store) IsConnected(_ context.Context, resourceID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.connected[resourceID], nil
}

func (s *Store) ResolveActor(_ context.Context, discordID string) (*types.Actor, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, a := range s.actors {
		if a.DiscordID == discordID {
			cp := *a
			return &cp, nil
		}
	}

	a := &types.Actor{ID: s.id("user"), DiscordID: discordID}
	s.actors[a.ID] = a
	cp := *a
	return &cp, nil
}

func (s *Store) ActorByID(_ context.Context, id string) (*types.Actor, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, ok := s.actors[id]; ok {
		cp := *a
		return &cp, nil
	}

	return nil, nil
}

func (s *Store) ResolveTargetActor(_ context.Context, raw string) (*types.Actor, error) {
	id := invocation.MentionID(raw)

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, a := range s.actors {
		if a.DiscordID == id {
			cp := *a
			return &cp, nil
		}
	}

	return nil, nil
}

func (s *Store) ResolveDeployment(_ context.Context, guildID string) (*types.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.deployments {
		if d.GuildID == guildID {
			cp := *d
			return &cp, nil
		}
	}

	return nil, nil
}

func (s *Store) DeploymentByID(_ context.Context, id string) (*types.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if d, ok := s.deployments[id]; ok {
		cp := *d
		return &cp, nil
	}

	return nil, nil
}

func (s *Store) ResolveTargetDeployment(_ context.Context, publicID string) (*types.Deployment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, d := range s.deployments {
		if strings.EqualFold(d.PublicID, publicID) {
			cp := *d
			return &cp, nil
		}
	}

	return nil, nil
}

func (s *Store) ResolveTargetResource(_ context.Context, publicID string) (*types.Resource, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, r := range s.resources {
		if strings.EqualFold(r.PublicID, publicID) {
			cp := *r
			return &cp, nil
		}
	}

	return nil, nil
}

func (s *Store) SuggestDeployments(_ context.Context, raw string) ([]string, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.deployments))
	for _, d := range s.deployments {
		ids = append(ids, d.PublicID)
	}
	s.mu.RUnlock()

	return invocation.Suggest(raw, ids, suggestionLimit), nil
}

func (s *Store) SuggestResources(_ context.Context, raw string) ([]string, error) {
	s.mu.RLock()
	ids := make([]string, 0, len(s.resources))
	for _, r := range s.resources {
		ids = append(ids, r.PublicID)
	}
	s.mu.RUnlock()

	return invocation.Suggest(raw, ids, suggestionLimit), nil
}
