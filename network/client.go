package network

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/automoto/doomerang-netsync/shared/messages"
	"github.com/coder/websocket"
	"github.com/leap-fish/necs/esync"
	"github.com/leap-fish/necs/router"
	"github.com/leap-fish/necs/transports"
	"golang.org/x/time/rate"
)

// packetQueueSize bounds how many decoded snapshots may wait for the next frame.
const packetQueueSize = 128

var (
	ErrNotConnected = errors.New("not connected")
	ErrThrottled    = errors.New("input send throttled")
)

type ClientState int

const (
	StateDisconnected ClientState = iota
	StateConnecting
	StateConnected
	StateJoinedGame
	StateError
)

func (s ClientState) String() string {
	switch s {
	case StateDisconnected:
		return "disconnected"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateJoinedGame:
		return "joined"
	case StateError:
		return "error"
	}
	return "unknown"
}

// Packet is one decoded snapshot and the time it arrived.
type Packet struct {
	At    time.Time
	Delta WorldDelta
}

// Client manages a WebSocket connection to the game server.
// All shared fields are protected by mu (router callbacks run on necs goroutines).
type Client struct {
	mu sync.RWMutex

	state        ClientState
	lastError    error
	networkID    esync.NetworkId
	serverName   string
	tickRate     int
	ticksPerSend int
	conn         *websocket.Conn
	inputLimiter *rate.Limiter
	dropped      uint64

	packetCh chan Packet
	now      func() time.Time
}

func NewClient() *Client {
	return &Client{
		state:    StateDisconnected,
		packetCh: make(chan Packet, packetQueueSize),
		now:      time.Now,
	}
}

// Connect dials the server in a background goroutine and initiates the join handshake.
func (c *Client) Connect(address, version, playerName string) {
	c.mu.Lock()
	c.state = StateConnecting
	c.lastError = nil
	c.mu.Unlock()

	router.OnConnect(func(_ *router.NetworkClient) {
		log.Println("[client] connected to server")
		c.mu.Lock()
		c.state = StateConnected
		c.mu.Unlock()

		if err := c.SendMessage(messages.JoinRequest{Version: version, PlayerName: playerName}); err != nil {
			c.setError(fmt.Errorf("failed to send join request: %w", err))
		}
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinAccepted) {
		c.onJoinAccepted(msg)
	})

	router.On(func(_ *router.NetworkClient, msg messages.JoinRejected) {
		log.Printf("[client] join rejected: %s", msg.Reason)
		c.setError(fmt.Errorf("join rejected: %s", msg.Reason))
	})

	router.On(func(_ *router.NetworkClient, snapshot esync.WorldSnapshot) {
		c.onSnapshot(snapshot)
	})

	router.OnDisconnect(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] disconnected: %v", err)
		c.mu.Lock()
		if c.state != StateError {
			c.state = StateDisconnected
		}
		c.conn = nil
		c.mu.Unlock()
	})

	router.OnError(func(_ *router.NetworkClient, err error) {
		log.Printf("[client] error: %v", err)
	})

	go func() {
		transport := transports.NewWsClientTransport("ws://" + address)
		err := transport.Start(func(conn *websocket.Conn) {
			c.mu.Lock()
			c.conn = conn
			c.mu.Unlock()
		})
		if err != nil {
			c.setError(fmt.Errorf("connection failed: %w", err))
		}
	}()
}

func (c *Client) onJoinAccepted(msg messages.JoinAccepted) {
	log.Printf("[client] join accepted: networkID=%d server=%s tickRate=%d ticksPerSend=%d",
		msg.NetworkID, msg.ServerName, msg.TickRate, msg.TicksPerSend)

	tickRate := max(msg.TickRate, 1)
	c.mu.Lock()
	c.networkID = msg.NetworkID
	c.serverName = msg.ServerName
	c.tickRate = tickRate
	c.ticksPerSend = max(msg.TicksPerSend, 1)
	// One input per server tick, with room for a frame that catches up several.
	c.inputLimiter = rate.NewLimiter(rate.Limit(2*tickRate), tickRate)
	c.state = StateJoinedGame
	c.mu.Unlock()
}

// onSnapshot decodes on the router goroutine and queues the result. The frame
// loop is the only consumer, so engine state is never touched from here.
func (c *Client) onSnapshot(snapshot esync.WorldSnapshot) {
	at := c.now()
	delta, err := DecodeSnapshot(snapshot)
	if err != nil {
		log.Printf("[client] dropping snapshot: %v", err)
		return
	}
	c.enqueue(Packet{At: at, Delta: delta})
}

func (c *Client) enqueue(p Packet) {
	select {
	case c.packetCh <- p:
		return
	default:
	}
	// Queue full: the frame loop has stalled. Snapshots carry full state, so
	// the oldest is the one to lose.
	select {
	case <-c.packetCh:
	default:
	}
	c.mu.Lock()
	c.dropped++
	c.mu.Unlock()
	select {
	case c.packetCh <- p:
	default:
	}
}

// DrainPackets returns every queued packet in arrival order. Non-blocking.
func (c *Client) DrainPackets() []Packet {
	return drainChan(c.packetCh)
}

func (c *Client) Disconnect() {
	c.mu.Lock()
	conn := c.conn
	c.state = StateDisconnected
	c.conn = nil
	c.mu.Unlock()

	if conn != nil {
		_ = conn.CloseNow()
	}

	router.ResetRouter()
}

func (c *Client) State() ClientState {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.state
}

func (c *Client) LastError() error {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.lastError
}

func (c *Client) NetworkID() esync.NetworkId {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.networkID
}

func (c *Client) TickRate() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.tickRate
}

func (c *Client) TicksPerSend() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ticksPerSend
}

// Dropped counts snapshots lost to a full queue.
func (c *Client) Dropped() uint64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dropped
}

// SendInput sends one predicted input, subject to the input rate limit.
func (c *Client) SendInput(input messages.PlayerInput) error {
	c.mu.RLock()
	limiter := c.inputLimiter
	c.mu.RUnlock()

	if limiter != nil && !limiter.Allow() {
		return ErrThrottled
	}
	return c.SendMessage(input)
}

func (c *Client) SendMessage(msg any) error {
	c.mu.RLock()
	conn := c.conn
	c.mu.RUnlock()

	if conn == nil {
		return ErrNotConnected
	}

	payload, err := router.Serialize(msg)
	if err != nil {
		return fmt.Errorf("serialize: %w", err)
	}

	return conn.Write(context.Background(), websocket.MessageBinary, payload)
}

func (c *Client) setError(err error) {
	c.mu.Lock()
	c.state = StateError
	c.lastError = err
	c.mu.Unlock()
}

func drainChan[T any](ch chan T) []T {
	var out []T
	for {
		select {
		case v := <-ch:
			out = append(out, v)
		default:
			return out
		}
	}
}
