// Package companion manages WebSocket connections from companion
// devices: the phone capture app pushing pose frames up, and anything
// that wants coaching updates pushed back down.
package companion

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"

	"github.com/ThyDrSlen/form-factor-sub005/internal/log"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/protocol"
	"github.com/ThyDrSlen/form-factor-sub005/pkg/sensors"
)

// DeviceConnection represents a connected companion device
type DeviceConnection struct {
	ID        string
	Conn      *websocket.Conn
	Connected time.Time
	LastSeen  time.Time

	mu sync.Mutex
}

// Send sends a message to the device
func (d *DeviceConnection) Send(msg *protocol.Message) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	data, err := msg.Bytes()
	if err != nil {
		return err
	}

	return d.Conn.WriteMessage(websocket.TextMessage, data)
}

// Hub manages WebSocket connections from companion devices
type Hub struct {
	mu      sync.RWMutex
	devices map[string]*DeviceConnection

	// Callbacks
	onPoseFrame func(deviceID string, frame *protocol.PoseFrame)
	onPresence  func(deviceID string, presence *sensors.Presence)

	// Stats
	messagesReceived atomic.Uint64
	messagesSent     atomic.Uint64
	framesReceived   atomic.Uint64
}

// NewHub creates a new device hub
func NewHub() *Hub {
	return &Hub{
		devices: make(map[string]*DeviceConnection),
	}
}

// OnPoseFrame sets the callback for incoming pose frames
func (h *Hub) OnPoseFrame(callback func(deviceID string, frame *protocol.PoseFrame)) {
	h.mu.Lock()
	h.onPoseFrame = callback
	h.mu.Unlock()
}

// OnPresence sets the callback for sensor availability changes
func (h *Hub) OnPresence(callback func(deviceID string, presence *sensors.Presence)) {
	h.mu.Lock()
	h.onPresence = callback
	h.mu.Unlock()
}

// RegisterRoutes registers WebSocket routes on a Fiber app
func (h *Hub) RegisterRoutes(app *fiber.App) {
	// WebSocket upgrade middleware
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			c.Locals("allowed", true)
			return c.Next()
		}
		return fiber.ErrUpgradeRequired
	})

	// Device connection endpoint
	app.Get("/ws/device", websocket.New(h.handleDevice))
	app.Get("/ws/device/:id", websocket.New(h.handleDevice))
}

// handleDevice handles a companion device WebSocket connection
func (h *Hub) handleDevice(c *websocket.Conn) {
	// Get device ID from path or generate one
	deviceID := c.Params("id")
	if deviceID == "" {
		deviceID = generateDeviceID()
	}

	device := &DeviceConnection{
		ID:        deviceID,
		Conn:      c,
		Connected: time.Now(),
		LastSeen:  time.Now(),
	}

	// Register device
	h.mu.Lock()
	h.devices[deviceID] = device
	deviceCount := len(h.devices)
	h.mu.Unlock()

	log.Info("device connected", "device", deviceID, "total", deviceCount)

	defer func() {
		h.mu.Lock()
		delete(h.devices, deviceID)
		deviceCount := len(h.devices)
		h.mu.Unlock()

		log.Info("device disconnected", "device", deviceID, "total", deviceCount)
	}()

	// Read loop
	for {
		_, data, err := c.ReadMessage()
		if err != nil {
			log.Debug("device read error", "device", deviceID, "error", err)
			return
		}

		device.mu.Lock()
		device.LastSeen = time.Now()
		device.mu.Unlock()

		h.messagesReceived.Add(1)
		h.handleMessage(deviceID, data)
	}
}

// handleMessage processes an incoming message from a device
func (h *Hub) handleMessage(deviceID string, data []byte) {
	msg, err := protocol.ParseMessage(data)
	if err != nil {
		log.Debug("parse error", "device", deviceID, "error", err)
		return
	}

	h.mu.RLock()
	frameCb := h.onPoseFrame
	presenceCb := h.onPresence
	h.mu.RUnlock()

	switch msg.Type {
	case protocol.TypePoseFrame:
		h.framesReceived.Add(1)
		if frameCb != nil {
			var frame protocol.PoseFrame
			if err := msg.ParseData(&frame); err == nil {
				frameCb(deviceID, &frame)
			}
		}

	case protocol.TypePresence:
		if presenceCb != nil {
			var presence sensors.Presence
			if err := msg.ParseData(&presence); err == nil {
				presenceCb(deviceID, &presence)
			}
		}

	case protocol.TypePing:
		// Respond with pong
		h.sendPong(deviceID)
	}
}

// SendCoaching sends a coaching update to a specific device
func (h *Hub) SendCoaching(deviceID string, update protocol.CoachingUpdate) error {
	msg, err := protocol.NewMessage(protocol.TypeCoaching, update)
	if err != nil {
		return err
	}
	return h.sendToDevice(deviceID, msg)
}

// SendSession sends session lifecycle info to a specific device
func (h *Hub) SendSession(deviceID string, info protocol.SessionInfo) error {
	msg, err := protocol.NewMessage(protocol.TypeSession, info)
	if err != nil {
		return err
	}
	return h.sendToDevice(deviceID, msg)
}

// SendCalibration sends a calibration phase change to a specific device
func (h *Hub) SendCalibration(deviceID string, info protocol.CalibrationInfo) error {
	msg, err := protocol.NewMessage(protocol.TypeCalibration, info)
	if err != nil {
		return err
	}
	return h.sendToDevice(deviceID, msg)
}

// sendPong sends a pong response to a device
func (h *Hub) sendPong(deviceID string) {
	msg, err := protocol.NewMessage(protocol.TypePong, nil)
	if err != nil {
		return
	}
	_ = h.sendToDevice(deviceID, msg)
}

// sendToDevice sends a message to a specific device
func (h *Hub) sendToDevice(deviceID string, msg *protocol.Message) error {
	h.mu.RLock()
	device, ok := h.devices[deviceID]
	h.mu.RUnlock()

	if !ok {
		return fiber.NewError(fiber.StatusNotFound, "device not connected")
	}

	h.messagesSent.Add(1)
	return device.Send(msg)
}

// Broadcast sends a message to all connected devices
func (h *Hub) Broadcast(msg *protocol.Message) {
	h.mu.RLock()
	devices := make([]*DeviceConnection, 0, len(h.devices))
	for _, d := range h.devices {
		devices = append(devices, d)
	}
	h.mu.RUnlock()

	for _, device := range devices {
		h.messagesSent.Add(1)
		if err := device.Send(msg); err != nil {
			log.Debug("broadcast error", "device", device.ID, "error", err)
		}
	}
}

// BroadcastCoaching sends a coaching update to all connected devices
func (h *Hub) BroadcastCoaching(update protocol.CoachingUpdate) {
	msg, err := protocol.NewMessage(protocol.TypeCoaching, update)
	if err != nil {
		return
	}
	h.Broadcast(msg)
}

// PublishCoaching implements session.Sink.
func (h *Hub) PublishCoaching(update protocol.CoachingUpdate) {
	h.BroadcastCoaching(update)
}

// GetDevice returns a device connection by ID
func (h *Hub) GetDevice(deviceID string) *DeviceConnection {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return h.devices[deviceID]
}

// DeviceCount returns the number of connected devices
func (h *Hub) DeviceCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.devices)
}

// Stats contains hub statistics
type Stats struct {
	DeviceCount      int    `json:"device_count"`
	MessagesReceived uint64 `json:"messages_received"`
	MessagesSent     uint64 `json:"messages_sent"`
	FramesReceived   uint64 `json:"frames_received"`
}

// GetStats returns hub statistics
func (h *Hub) GetStats() Stats {
	return Stats{
		DeviceCount:      h.DeviceCount(),
		MessagesReceived: h.messagesReceived.Load(),
		MessagesSent:     h.messagesSent.Load(),
		FramesReceived:   h.framesReceived.Load(),
	}
}

// DeviceInfo contains info about a connected device
type DeviceInfo struct {
	ID        string    `json:"id"`
	Connected time.Time `json:"connected"`
	LastSeen  time.Time `json:"last_seen"`
}

// GetDeviceInfos returns info about all connected devices
func (h *Hub) GetDeviceInfos() []DeviceInfo {
	h.mu.RLock()
	defer h.mu.RUnlock()

	infos := make([]DeviceInfo, 0, len(h.devices))
	for _, d := range h.devices {
		d.mu.Lock()
		infos = append(infos, DeviceInfo{
			ID:        d.ID,
			Connected: d.Connected,
			LastSeen:  d.LastSeen,
		})
		d.mu.Unlock()
	}
	return infos
}

// RegisterAPIRoutes registers API routes for device management
func (h *Hub) RegisterAPIRoutes(api fiber.Router) {
	devices := api.Group("/devices")

	// List connected devices
	devices.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"devices": h.GetDeviceInfos(),
			"count":   h.DeviceCount(),
		})
	})

	// Get hub stats
	devices.Get("/stats", func(c *fiber.Ctx) error {
		return c.JSON(h.GetStats())
	})
}

// generateDeviceID generates a unique device ID
func generateDeviceID() string {
	return time.Now().Format("20060102150405.000000")
}
