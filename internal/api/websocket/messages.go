package websocket

import "time"

// MessageType defines the type of WebSocket message
type MessageType string

const (
	// Session-related messages
	MessageTypeSessionInitialized MessageType = "session_initialized"
	MessageTypeSettingApplied     MessageType = "setting_applied"
	MessageTypeDeviceError        MessageType = "device_error"

	// System messages
	MessageTypeSystemStatus MessageType = "system_status"
)

// Message represents a WebSocket message
type Message struct {
	Type      MessageType `json:"type"`
	Timestamp time.Time   `json:"timestamp"`
	SessionID string      `json:"session_id,omitempty"`
	Data      interface{} `json:"data"`
}

// SystemStatusData represents a system status snapshot
type SystemStatusData struct {
	State    string `json:"state"`
	Sessions int    `json:"sessions"`
	Clients  int    `json:"clients"`
}

// NewMessage creates a new message with current timestamp
func NewMessage(msgType MessageType, data interface{}) Message {
	return Message{
		Type:      msgType,
		Timestamp: time.Now(),
		Data:      data,
	}
}

func NewSystemStatusMessage(state string, sessions, clients int) Message {
	return NewMessage(MessageTypeSystemStatus, SystemStatusData{
		State:    state,
		Sessions: sessions,
		Clients:  clients,
	})
}
