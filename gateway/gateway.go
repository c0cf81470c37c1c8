// Package gateway is the redis IPC between cmdgate and the game servers it controls.
//
// Format of payloads: <op: u8><command id: alphanumeric string>/<cbor payload>
//
// Requests are published on a single channel and carry their target; a game server answers on
// the same channel with the command id of the request. Heartbeats carry the resource id in place
// of a command id and have no payload.
package gateway

import (
	"context"
	"errors"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/infinitybotlist/eureka/crypto"
	"github.com/redis/rueidis"
	"go.uber.org/zap"

	"github.com/anti-raid/cmdgate/utils/syncmap"
)

const (
	OpRequest   = 0x0
	OpResponse  = 0x1
	OpError     = 0x2
	OpHeartbeat = 0x3
)

const DefaultChannel = "cmdgate:gateway"

var (
	ErrNilMessage    = errors.New("request validation error: nil message")
	ErrNoTarget      = errors.New("request validation error: message has no target")
	ErrShortPayload  = errors.New("payload too short")
	ErrNoSeparator   = errors.New("payload has no command id separator")
	ErrEmptyResponse = errors.New("game server sent an empty response")
)

// RemoteError is an error reported by the game server
type RemoteError struct {
	Message string
}

func (e *RemoteError) Error() string {
	return "game server error: " + e.Message
}

// Reply is a decoded response to one request
type Reply struct {
	Op    byte
	Resp  *Response
	Error *ErrorResponse
}

// Handler answers messages in process instead of over redis
type Handler func(ctx context.Context, msg *Message) (*Response, error)

type Client struct {
	Redis   rueidis.Client
	Channel string
	Logger  *zap.Logger

	// Local, when set, answers every request without touching redis
	Local Handler

	// OnHeartbeat is called for every heartbeat a game server publishes
	OnHeartbeat func(ctx context.Context, resourceID string) error

	notify  syncmap.Map[string, chan *Reply]
	publish func(ctx context.Context, payload []byte) error
}

func New(redis rueidis.Client, channel string, logger *zap.Logger) *Client {
	c := &Client{Redis: redis, Channel: channel, Logger: logger}
	c.publish = c.redisPublish
	return c
}

// NewLocal returns a client whose requests are answered by h
func NewLocal(h Handler, logger *zap.Logger) *Client {
	return &Client{Local: h, Logger: logger}
}

// EncodePayload creates a payload for the given command id and value. A nil value produces an
// empty payload.
func EncodePayload(op byte, commandID string, v any) ([]byte, error) {
	payload := append([]byte{op}, []byte(commandID+"/")...)

	if v == nil {
		return payload, nil
	}

	body, err := cbor.Marshal(v)

	if err != nil {
		return nil, err
	}

	return append(payload, body...), nil
}

// DecodePayload splits a payload into its op, command id and cbor body
func DecodePayload(data []byte) (op byte, commandID string, body []byte, err error) {
	// op + at least the separator
	if len(data) < 2 {
		return 0, "", nil, ErrShortPayload
	}

	op = data[0]

	for i := 1; i < len(data); i++ {
		if data[i] == '/' {
			return op, string(data[1:i]), data[i+1:], nil
		}
	}

	return 0, "", nil, ErrNoSeparator
}

func (c *Client) redisPublish(ctx context.Context, payload []byte) error {
	return c.Redis.Do(ctx, c.Redis.B().Publish().Channel(c.Channel).Message(rueidis.BinaryString(payload)).Build()).Error()
}

// Heartbeat publishes a heartbeat for the resource, used by game servers and tests
func (c *Client) Heartbeat(ctx context.Context, resourceID string) error {
	payload, err := EncodePayload(OpHeartbeat, resourceID, nil)

	if err != nil {
		return err
	}

	return c.publish(ctx, payload)
}

// ListenOnce starts listening for messages from redis
//
// This is *blocking* and should be run in a goroutine
func (c *Client) ListenOnce(ctx context.Context) error {
	return c.Redis.Dedicated(func(redis rueidis.DedicatedClient) error {
		return redis.Receive(ctx, redis.B().Subscribe().Channel(c.Channel).Build(), func(msg rueidis.PubSubMessage) {
			go c.dispatch(ctx, []byte(msg.Message))
		})
	})
}

// Listen restarts the listener until ctx is done
func (c *Client) Listen(ctx context.Context) {
	for {
		err := c.ListenOnce(ctx)

		if ctx.Err() != nil {
			return
		}

		if err != nil {
			c.Logger.Error("[gateway] error listening to redis", zap.Error(err))
		}

		time.Sleep(1 * time.Second)
	}
}

func (c *Client) dispatch(ctx context.Context, data []byte) {
	op, commandID, body, err := DecodePayload(data)

	if err != nil {
		c.Logger.Debug("[gateway] dropping malformed payload", zap.Error(err))
		return
	}

	switch op {
	case OpHeartbeat:
		if c.OnHeartbeat == nil {
			return
		}

		if err := c.OnHeartbeat(ctx, commandID); err != nil {
			c.Logger.Error("[gateway] failed to record heartbeat", zap.String("resource_id", commandID), zap.Error(err))
		}
	case OpResponse, OpError:
		n, ok := c.notify.LoadAndDelete(commandID)

		if !ok {
			// Either another process sent the request or it already timed out
			return
		}

		n <- decodeReply(op, body)
	}
}

func decodeReply(op byte, body []byte) *Reply {
	if op == OpResponse {
		var resp Response

		if err := cbor.Unmarshal(body, &resp); err != nil {
			return &Reply{Op: OpError, Error: &ErrorResponse{Message: "client error: error unmarshaling payload: " + err.Error()}}
		}

		return &Reply{Op: op, Resp: &resp}
	}

	var data ErrorResponse

	if err := cbor.Unmarshal(body, &data); err != nil {
		data = ErrorResponse{Message: "client error: error unmarshaling payload: " + err.Error()}
	}

	return &Reply{Op: op, Error: &data}
}

// Request sends msg to its target and waits for the answer or for ctx to be done
func (c *Client) Request(ctx context.Context, msg *Message) (*Response, error) {
	if msg == nil {
		return nil, ErrNilMessage
	}

	if msg.Target == "" {
		return nil, ErrNoTarget
	}

	if c.Local != nil {
		return c.Local(ctx, msg)
	}

	commandID := crypto.RandString(16)

	payload, err := EncodePayload(OpRequest, commandID, msg)

	if err != nil {
		return nil, err
	}

	notify := make(chan *Reply, 1)
	c.notify.Store(commandID, notify)

	if err := c.publish(ctx, payload); err != nil {
		c.notify.Delete(commandID)
		return nil, err
	}

	select {
	case <-ctx.Done():
		c.notify.Delete(commandID)
		return nil, ctx.Err()
	case reply := <-notify:
		if reply.Op == OpError {
			return nil, &RemoteError{Message: reply.Error.Message}
		}

		if reply.Resp == nil {
			return nil, ErrEmptyResponse
		}

		return reply.Resp, nil
	}
}

// Pending returns the number of requests waiting for an answer
func (c *Client) Pending() int {
	return c.notify.Length()
}
