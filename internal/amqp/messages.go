package amqp

import (
	"encoding/json"
	"time"
)

// Transaction event operations carried on the queue.
const (
	OpCreated = "created"
	OpUpdated = "updated"
	OpDeleted = "deleted"
)

// TransactionEventMessage tells the worker that a transaction changed so the
// owning budget's actual spending can be recalculated. It carries identifiers
// only; the worker reads current state from the store.
type TransactionEventMessage struct {
	TransactionID int64     `json:"transaction_id"`
	UserID        string    `json:"user_id"`
	Category      string    `json:"category"`
	Op            string    `json:"op"`
	Timestamp     time.Time `json:"timestamp"`
}

func NewTransactionEventMessage(transactionID int64, userID, category, op string) *TransactionEventMessage {
	return &TransactionEventMessage{
		TransactionID: transactionID,
		UserID:        userID,
		Category:      category,
		Op:            op,
		Timestamp:     time.Now(),
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
