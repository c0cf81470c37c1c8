package gateway

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/anti-raid/cmdgate/types"
)

// loopback answers every published request with answer, as a game server would
func loopback(t *testing.T, answer func(msg *Message) (byte, any)) *Client {
	t.Helper()

	c := &Client{Logger: zap.NewNop()}
	c.publish = func(ctx context.Context, payload []byte) error {
		op, id, body, err := DecodePayload(payload)
		require.NoError(t, err)

		if op != OpRequest {
			go c.dispatch(ctx, payload)
			return nil
		}

		var msg Message
		require.NoError(t, cbor.Unmarshal(body, &msg))

		respOp, resp := answer(&msg)
		reply, err := EncodePayload(respOp, id, resp)
		require.NoError(t, err)

		go c.dispatch(ctx, reply)
		return nil
	}

	return c
}

func TestPayloadRoundTrip(t *testing.T) {
	msg := &Message{Target: "srv-1", Restart: &RestartMessage{Reason: "update", RequestedBy: "steam:1"}}

	payload, err := EncodePayload(OpRequest, "abc123", msg)
	require.NoError(t, err)

	op, id, body, err := DecodePayload(payload)
	require.NoError(t, err)
	assert.Equal(t, byte(OpRequest), op)
	assert.Equal(t, "abc123", id)

	var got Message
	require.NoError(t, cbor.Unmarshal(body, &got))
	assert.Equal(t, msg, &got)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	_, _, _, err := DecodePayload([]byte{OpResponse})
	assert.ErrorIs(t, err, ErrShortPayload)

	_, _, _, err = DecodePayload([]byte{OpResponse, 'a', 'b'})
	assert.ErrorIs(t, err, ErrNoSeparator)
}

func TestRestart(t *testing.T) {
	c := loopback(t, func(msg *Message) (byte, any) {
		require.NotNil(t, msg.Restart)
		assert.Equal(t, "srv-1", msg.Target)
		return OpResponse, &Response{Message: "restarting in 5s, reason: " + msg.Restart.Reason}
	})

	ack, err := c.Restart(context.Background(), &types.Resource{ID: "srv-1"}, &types.Actor{ExternalID: "steam:1"}, "update")
	require.NoError(t, err)
	assert.Equal(t, "restarting in 5s, reason: update", ack)
	assert.Zero(t, c.Pending())
}

func TestRemoteError(t *testing.T) {
	c := loopback(t, func(msg *Message) (byte, any) {
		require.NotNil(t, msg.AddTerritoryMember)
		return OpError, &ErrorResponse{Message: "territory is full"}
	})

	err := c.AddTerritoryMember(context.Background(), "dep-1", "t1", &types.Actor{ExternalID: "steam:2"}, &types.Actor{ExternalID: "steam:1"})

	var remote *RemoteError
	require.True(t, errors.As(err, &remote))
	assert.Equal(t, "territory is full", remote.Message)
}

func TestRequestTimesOut(t *testing.T) {
	c := &Client{Logger: zap.NewNop()}
	c.publish = func(context.Context, []byte) error { return nil }

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := c.Request(ctx, &Message{Target: "srv-1", Restart: &RestartMessage{}})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Zero(t, c.Pending())
}

func TestRequestValidation(t *testing.T) {
	c := NewLocal(nil, zap.NewNop())

	_, err := c.Request(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilMessage)

	_, err = c.Request(context.Background(), &Message{})
	assert.ErrorIs(t, err, ErrNoTarget)
}

func TestHeartbeat(t *testing.T) {
	var mu sync.Mutex
	var seen []string
	done := make(chan struct{})

	c := loopback(t, nil)
	c.OnHeartbeat = func(_ context.Context, resourceID string) error {
		mu.Lock()
		seen = append(seen, resourceID)
		mu.Unlock()
		close(done)
		return nil
	}

	require.NoError(t, c.Heartbeat(context.Background(), "srv-1"))

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("heartbeat was not dispatched")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"srv-1"}, seen)
}

func TestUnknownResponseIsDropped(t *testing.T) {
	c := &Client{Logger: zap.NewNop()}

	payload, err := EncodePayload(OpResponse, "nobody", &Response{Message: "hi"})
	require.NoError(t, err)

	c.dispatch(context.Background(), payload)
	assert.Zero(t, c.Pending())
}

func TestLocalHandler(t *testing.T) {
	c := NewLocal(func(_ context.Context, msg *Message) (*Response, error) {
		return &Response{Message: "ok " + msg.Target}, nil
	}, zap.NewNop())

	ack, err := c.Restart(context.Background(), &types.Resource{ID: "srv-9"}, &types.Actor{}, "")
	require.NoError(t, err)
	assert.Equal(t, "ok srv-9", ack)
}
