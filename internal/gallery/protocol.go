package gallery

import "encoding/json"

type Message struct {
	Type     string          `json:"type"`
	RoomID   string          `json:"roomId,omitempty"`
	ViewerID string          `json:"viewerId,omitempty"`
	Payload  json.RawMessage `json:"payload,omitempty"`
}

// RegeneratePayload asks for a new scene. Both fields are optional: an empty
// seed means the server's fixed seed or a random one, an empty kind a full
// landscape. The seed is a decimal string so it survives JavaScript numbers.
type RegeneratePayload struct {
	Seed string `json:"seed,omitempty"`
	Kind string `json:"kind,omitempty"`
}

type ViewerPayload struct {
	ViewerID string `json:"viewerId"`
	Viewers  int    `json:"viewers"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

const (
	// Server to client; the payload is an engine.Frame.
	TypeSceneFrame = "scene.frame"

	// Client to server
	TypeSceneRegenerate = "scene.regenerate"

	// Presence
	TypeViewerJoin  = "viewer.join"
	TypeViewerLeave = "viewer.leave"

	TypeError = "error"
)

func newMessage(msgType, roomID string, payload any) *Message {
	raw, _ := json.Marshal(payload)
	return &Message{Type: msgType, RoomID: roomID, Payload: raw}
}
