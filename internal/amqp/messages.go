package amqp

import (
	"encoding/json"
	"time"

	"walletbook/internal/ledger"
)

// ChangeMessage announces one ledger mutation. It carries only what changed,
// not the new state; consumers read the ledger for that.
type ChangeMessage struct {
	Seq       uint64    `json:"seq"`
	Op        string    `json:"op"`
	Entity    string    `json:"entity"`
	ID        string    `json:"id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// NewChangeMessage builds a message from a ledger change, stamping it with
// the current time if the change has none.
func NewChangeMessage(c ledger.Change) *ChangeMessage {
	ts := c.At
	if ts.IsZero() {
		ts = time.Now().UTC()
	}
	return &ChangeMessage{
		Seq:       c.Seq,
		Op:        c.Op,
		Entity:    c.Entity,
		ID:        c.ID,
		Timestamp: ts,
	}
}

// ToJSON converts the message to JSON bytes
func (m *ChangeMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ChangeMessageFromJSON creates a message from JSON bytes
func ChangeMessageFromJSON(data []byte) (*ChangeMessage, error) {
	var msg ChangeMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
