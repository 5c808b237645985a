package amqp

import (
	"encoding/json"
	"time"
)

const (
	ActionCreate = "create"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// TransactionEventMessage is the lightweight message published after a
// transaction write. It carries only identifiers; consumers fetch current
// state from the store.
type TransactionEventMessage struct {
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Action    string    `json:"action"`
	Timestamp time.Time `json:"timestamp"`
}

func NewTransactionEventMessage(id, userID, action string) *TransactionEventMessage {
	return &TransactionEventMessage{
		ID:        id,
		UserID:    userID,
		Action:    action,
		Timestamp: time.Now(),
	}
}

func (m *TransactionEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func TransactionEventMessageFromJSON(data []byte) (*TransactionEventMessage, error) {
	var msg TransactionEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
