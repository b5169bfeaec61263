package websocket

import "time"

// Envelope - конверт каждого сообщения ленты. По Type фронт решает, что обновить.
type Envelope struct {
	Type      string      `json:"type"`
	Payload   interface{} `json:"payload"`
	Timestamp time.Time   `json:"timestamp"`
}

// ActivityPayload - одна запись ленты активности дашборда.
type ActivityPayload struct {
	Entity   string  `json:"entity"`
	EntityID uint64  `json:"entity_id"`
	Action   string  `json:"action"`
	From     string  `json:"from,omitempty"`
	To       string  `json:"to,omitempty"`
	ActorID  *uint64 `json:"actor_id,omitempty"`
}
