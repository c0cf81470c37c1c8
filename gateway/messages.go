package gateway

import (
	"context"

	"github.com/anti-raid/cmdgate/types"
)

// Message is a request to a game server. Exactly one of the operation fields is set.
type Message struct {
	// Target is a resource id, or a deployment id for deployment wide operations
	Target string `cbor:"target"`

	Restart            *RestartMessage   `cbor:"restart,omitempty"`
	AddTerritoryMember *TerritoryMessage `cbor:"add_territory_member,omitempty"`
}

type RestartMessage struct {
	Reason      string `cbor:"reason"`
	RequestedBy string `cbor:"requested_by"`
}

type TerritoryMessage struct {
	TerritoryID string `cbor:"territory_id"`
	MemberID    string `cbor:"member_id"`
	RequestorID string `cbor:"requestor_id"`
}

type Response struct {
	Message string `cbor:"message"`
}

type ErrorResponse struct {
	Message string `cbor:"message"`
}

// Restart asks a game server to restart and returns its acknowledgement
func (c *Client) Restart(ctx context.Context, resource *types.Resource, requestedBy *types.Actor, reason string) (string, error) {
	resp, err := c.Request(ctx, &Message{
		Target: resource.ID,
		Restart: &RestartMessage{
			Reason:      reason,
			RequestedBy: requestedBy.ExternalID,
		},
	})

	if err != nil {
		return "", err
	}

	return resp.Message, nil
}

// AddTerritoryMember asks the game servers of a deployment to add member to a territory
func (c *Client) AddTerritoryMember(ctx context.Context, deploymentID, territoryID string, member, requestor *types.Actor) error {
	_, err := c.Request(ctx, &Message{
		Target: deploymentID,
		AddTerritoryMember: &TerritoryMessage{
			TerritoryID: territoryID,
			MemberID:    member.ExternalID,
			RequestorID: requestor.ExternalID,
		},
	})

	return err
}
