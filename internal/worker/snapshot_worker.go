// Package worker projects ledger change events into per-account snapshots.
// The HTTP API computes balances and utilization on demand; the worker keeps
// a denormalized copy current so dashboards read one row instead of folding
// the entry history.
package worker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"orcamento/internal/amqp"
	"orcamento/internal/core"
	"orcamento/internal/ledger"
)

// Snapshot is the denormalized per-account projection.
type Snapshot struct {
	OwnerID   string
	AccountID string

	ReceiptsCents int64
	ExpensesCents int64
	CurrentCents  int64

	// Credit fields are zero for accounts without a credit line.
	InvoiceTotalCents  int64
	ForwardUsedCents   int64
	UtilizationPercent float64
	AlertLevel         string

	UpdatedAt time.Time
}

// SnapshotWriter persists projections. Upserts are keyed on
// (owner_id, account_id).
type SnapshotWriter interface {
	UpsertSnapshot(ctx context.Context, snap Snapshot) error
}

// SnapshotWorker consumes ledger events, recomputes the affected accounts
// and writes snapshots. Events only say which account changed; state is
// always re-read from the store, so replays and duplicates are harmless.
type SnapshotWorker struct {
	store     ledger.Store
	snapshots SnapshotWriter
	batchSize int

	mu    sync.Mutex
	dirty map[accountKey]struct{}
}

type accountKey struct {
	ownerID   string
	accountID string
}

func NewSnapshotWorker(store ledger.Store, snapshots SnapshotWriter, batchSize int) *SnapshotWorker {
	if batchSize < 1 {
		batchSize = 1
	}
	return &SnapshotWorker{
		store:     store,
		snapshots: snapshots,
		batchSize: batchSize,
		dirty:     make(map[accountKey]struct{}),
	}
}

// HandleLedgerEvent marks the accounts an event touches as dirty. Transfer
// and settlement events carry both legs; both accounts are queued.
func (w *SnapshotWorker) HandleLedgerEvent(msg *amqp.LedgerEventMessage) error {
	if msg.OwnerID == "" || msg.AccountID == "" {
		return fmt.Errorf("event %s missing owner or account", msg.Action)
	}

	w.mu.Lock()
	w.dirty[accountKey{msg.OwnerID, msg.AccountID}] = struct{}{}
	if msg.DestAccountID != "" {
		w.dirty[accountKey{msg.OwnerID, msg.DestAccountID}] = struct{}{}
	}
	w.mu.Unlock()

	return nil
}

// Run flushes dirty accounts every interval until ctx is cancelled. A final
// flush runs on shutdown so queued work is not lost.
func (w *SnapshotWorker) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			flushCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			w.drain(flushCtx)
			cancel()
			return ctx.Err()
		case <-ticker.C:
			w.Flush(ctx)
		}
	}
}

// drain flushes until the dirty set is empty, batch by batch, so shutdown
// projects everything queued and not just the first batch. A round that
// makes no progress (every projection failing, or the context expired)
// stops the loop.
func (w *SnapshotWorker) drain(ctx context.Context) {
	for {
		before := w.PendingCount()
		if before == 0 {
			return
		}
		w.Flush(ctx)
		if w.PendingCount() >= before {
			return
		}
	}
}

// Flush projects up to batchSize dirty accounts. Accounts that fail stay
// queued for the next round.
func (w *SnapshotWorker) Flush(ctx context.Context) {
	batch := w.takeBatch()
	if len(batch) == 0 {
		return
	}

	for _, key := range batch {
		if err := w.Project(ctx, key.ownerID, key.accountID); err != nil {
			slog.ErrorContext(ctx, "Snapshot projection failed",
				"owner_id", key.ownerID,
				"account_id", key.accountID,
				"error", err)
			w.mu.Lock()
			w.dirty[key] = struct{}{}
			w.mu.Unlock()
		}
	}
}

func (w *SnapshotWorker) takeBatch() []accountKey {
	w.mu.Lock()
	defer w.mu.Unlock()

	batch := make([]accountKey, 0, w.batchSize)
	for key := range w.dirty {
		if len(batch) == w.batchSize {
			break
		}
		batch = append(batch, key)
		delete(w.dirty, key)
	}
	return batch
}

// Project recomputes one account's snapshot from its current entries and
// writes it. An account that was deleted since the event fired is skipped.
func (w *SnapshotWorker) Project(ctx context.Context, ownerID, accountID string) error {
	account, err := w.store.GetAccount(ctx, ownerID, accountID)
	if err != nil {
		if errors.Is(err, core.ErrNotFound) {
			slog.InfoContext(ctx, "Account gone, skipping snapshot",
				"owner_id", ownerID, "account_id", accountID)
			return nil
		}
		return fmt.Errorf("get account: %w", err)
	}

	entries, err := w.store.ListEntries(ctx, ownerID, ledger.EntryFilter{AccountID: accountID})
	if err != nil {
		return fmt.Errorf("list entries: %w", err)
	}

	balance := core.CalculateBalance(account, entries)
	snap := Snapshot{
		OwnerID:       ownerID,
		AccountID:     accountID,
		ReceiptsCents: balance.Receipts.Cents,
		ExpensesCents: balance.Expenses.Cents,
		CurrentCents:  balance.Current.Cents,
		UpdatedAt:     time.Now().UTC(),
	}

	if account.CreditCapable() {
		usage, err := core.CalculateCreditUsage(account, entries, core.DateOf(time.Now()))
		if err != nil {
			return fmt.Errorf("calculate credit usage: %w", err)
		}
		snap.InvoiceTotalCents = usage.InvoiceTotal.Cents
		snap.ForwardUsedCents = usage.ForwardUsed.Cents
		snap.UtilizationPercent = usage.Percent
		snap.AlertLevel = string(usage.Alert)
	}

	if err := w.snapshots.UpsertSnapshot(ctx, snap); err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Snapshot updated",
		"owner_id", ownerID,
		"account_id", accountID,
		"current_cents", snap.CurrentCents,
		"forward_used_cents", snap.ForwardUsedCents)

	return nil
}

// PendingCount reports how many accounts wait for projection.
func (w *SnapshotWorker) PendingCount() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.dirty)
}
