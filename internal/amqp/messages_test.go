package amqp

import (
	"testing"
	"time"
)

func TestLedgerEventRoundTrip(t *testing.T) {
	msg := NewLedgerEvent(ActionTransferDone, "owner-1", "acc-1")
	msg.EntryID = "entry-1"
	msg.TransferID = "tr-1"
	msg.DestAccountID = "acc-2"
	msg.AmountCents = 25000

	data, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON: %v", err)
	}

	decoded, err := LedgerEventFromJSON(data)
	if err != nil {
		t.Fatalf("LedgerEventFromJSON: %v", err)
	}
	if decoded.Action != ActionTransferDone {
		t.Errorf("Action = %q, want %q", decoded.Action, ActionTransferDone)
	}
	if decoded.OwnerID != "owner-1" || decoded.AccountID != "acc-1" {
		t.Errorf("scope = %q/%q", decoded.OwnerID, decoded.AccountID)
	}
	if decoded.DestAccountID != "acc-2" || decoded.AmountCents != 25000 {
		t.Errorf("transfer fields = %q/%d", decoded.DestAccountID, decoded.AmountCents)
	}
}

func TestNewLedgerEventStampsTimestamp(t *testing.T) {
	before := time.Now()
	msg := NewLedgerEvent(ActionEntryCreated, "owner-1", "acc-1")
	after := time.Now()

	if msg.Timestamp.Before(before) || msg.Timestamp.After(after) {
		t.Errorf("Timestamp = %v, want between %v and %v", msg.Timestamp, before, after)
	}
}

func TestLedgerEventFromJSONRejectsGarbage(t *testing.T) {
	if _, err := LedgerEventFromJSON([]byte("{not json")); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}
