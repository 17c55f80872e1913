package amqp

import (
	"encoding/json"
	"time"
)

// Event actions carried on the ledger stream.
const (
	ActionEntryCreated  = "entry_created"
	ActionStatusChanged = "entry_status_changed"
	ActionEntryDeleted  = "entry_deleted"
	ActionTransferDone  = "transfer_executed"
	ActionSettlement    = "invoice_settled"
)

// LedgerEventMessage is a lightweight notification that something changed in
// an owner's ledger. Consumers fetch current state from the store; the
// message only says where to look.
type LedgerEventMessage struct {
	Action     string `json:"action"`
	OwnerID    string `json:"owner_id"`
	AccountID  string `json:"account_id"`
	EntryID    string `json:"entry_id,omitempty"`
	GroupID    string `json:"group_id,omitempty"`
	TransferID string `json:"transfer_id,omitempty"`
	// DestAccountID is set on transfer and settlement events.
	DestAccountID string    `json:"dest_account_id,omitempty"`
	AmountCents   int64     `json:"amount_cents,omitempty"`
	Timestamp     time.Time `json:"timestamp"`
}

// NewLedgerEvent creates an event stamped with the current time.
func NewLedgerEvent(action, ownerID, accountID string) *LedgerEventMessage {
	return &LedgerEventMessage{
		Action:    action,
		OwnerID:   ownerID,
		AccountID: accountID,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes.
func (m *LedgerEventMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// LedgerEventFromJSON creates a message from JSON bytes.
func LedgerEventFromJSON(data []byte) (*LedgerEventMessage, error) {
	var msg LedgerEventMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
