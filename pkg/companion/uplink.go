package companion

import (
	"fmt"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ThyDrSlen/form-factor-sub005/internal/log"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/protocol"
)

// Uplink is the device side of the hub protocol: it dials an engine
// hub, streams pose frames up, and surfaces coaching updates pushed
// back down. The replay tool uses it to drive a remote engine from a
// recorded set.
type Uplink struct {
	url string

	ws      *websocket.Conn
	wsMutex sync.Mutex

	onCoaching func(update *protocol.CoachingUpdate)

	connected bool
	closed    bool
	done      chan struct{}
}

// NewUplink creates an uplink client for the given hub URL, e.g.
// "ws://localhost:8090/ws/device/phone-1".
func NewUplink(url string) *Uplink {
	return &Uplink{
		url:  url,
		done: make(chan struct{}),
	}
}

// OnCoaching sets the callback for coaching updates from the engine.
// Must be set before Connect.
func (u *Uplink) OnCoaching(callback func(update *protocol.CoachingUpdate)) {
	u.onCoaching = callback
}

// Connect dials the hub and starts the downstream read loop.
func (u *Uplink) Connect() error {
	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}

	ws, _, err := dialer.Dial(u.url, nil)
	if err != nil {
		return fmt.Errorf("hub connect failed: %w", err)
	}
	u.ws = ws
	u.connected = true

	go u.readLoop()

	log.Info("uplink connected", "url", u.url)
	return nil
}

func (u *Uplink) readLoop() {
	defer close(u.done)
	for {
		_, data, err := u.ws.ReadMessage()
		if err != nil {
			if !u.closed {
				log.Debug("uplink read error", "error", err)
			}
			return
		}

		msg, err := protocol.ParseMessage(data)
		if err != nil {
			continue
		}

		switch msg.Type {
		case protocol.TypeCoaching:
			if u.onCoaching != nil {
				var update protocol.CoachingUpdate
				if err := msg.ParseData(&update); err == nil {
					u.onCoaching(&update)
				}
			}
		case protocol.TypePing:
			pong, err := protocol.NewMessage(protocol.TypePong, nil)
			if err == nil {
				_ = u.send(pong)
			}
		}
	}
}

// SendPoseFrame streams one raw frame to the engine.
func (u *Uplink) SendPoseFrame(frame protocol.PoseFrame) error {
	msg, err := protocol.NewMessage(protocol.TypePoseFrame, frame)
	if err != nil {
		return err
	}
	return u.send(msg)
}

// SendPresence notifies the engine of a sensor availability change.
func (u *Uplink) SendPresence(presence interface{}) error {
	msg, err := protocol.NewMessage(protocol.TypePresence, presence)
	if err != nil {
		return err
	}
	return u.send(msg)
}

func (u *Uplink) send(msg *protocol.Message) error {
	if !u.connected {
		return fmt.Errorf("uplink not connected")
	}

	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	u.wsMutex.Lock()
	defer u.wsMutex.Unlock()
	return u.ws.WriteMessage(websocket.TextMessage, data)
}

// Close shuts the uplink down and waits for the read loop to exit.
func (u *Uplink) Close() error {
	if u.closed {
		return nil
	}
	u.closed = true
	u.connected = false

	err := u.ws.Close()
	select {
	case <-u.done:
	case <-time.After(2 * time.Second):
	}
	return err
}
