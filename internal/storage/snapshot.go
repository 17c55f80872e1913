package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"orcamento/internal/core"
	"orcamento/internal/worker"
)

var _ worker.SnapshotWriter = (*SQLiteRepository)(nil)

// UpsertSnapshot writes one account projection, replacing any previous row
// for the same owner and account.
func (r *SQLiteRepository) UpsertSnapshot(ctx context.Context, snap worker.Snapshot) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO account_snapshots (
			owner_id, account_id, receipts_cents, expenses_cents, current_cents,
			invoice_total_cents, forward_used_cents, utilization_percent,
			alert_level, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (owner_id, account_id) DO UPDATE SET
			receipts_cents = excluded.receipts_cents,
			expenses_cents = excluded.expenses_cents,
			current_cents = excluded.current_cents,
			invoice_total_cents = excluded.invoice_total_cents,
			forward_used_cents = excluded.forward_used_cents,
			utilization_percent = excluded.utilization_percent,
			alert_level = excluded.alert_level,
			updated_at = excluded.updated_at`,
		snap.OwnerID, snap.AccountID, snap.ReceiptsCents, snap.ExpensesCents,
		snap.CurrentCents, snap.InvoiceTotalCents, snap.ForwardUsedCents,
		snap.UtilizationPercent, snap.AlertLevel, snap.UpdatedAt)
	if err != nil {
		return fmt.Errorf("upsert snapshot: %w", err)
	}
	return nil
}

// GetSnapshot reads one account projection.
func (r *SQLiteRepository) GetSnapshot(ctx context.Context, ownerID, accountID string) (worker.Snapshot, error) {
	var snap worker.Snapshot
	err := r.db.QueryRowContext(ctx, `
		SELECT owner_id, account_id, receipts_cents, expenses_cents,
			current_cents, invoice_total_cents, forward_used_cents,
			utilization_percent, alert_level, updated_at
		FROM account_snapshots WHERE owner_id = ? AND account_id = ?`,
		ownerID, accountID).Scan(
		&snap.OwnerID, &snap.AccountID, &snap.ReceiptsCents, &snap.ExpensesCents,
		&snap.CurrentCents, &snap.InvoiceTotalCents, &snap.ForwardUsedCents,
		&snap.UtilizationPercent, &snap.AlertLevel, &snap.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return worker.Snapshot{}, core.ErrNotFound
	}
	if err != nil {
		return worker.Snapshot{}, fmt.Errorf("get snapshot: %w", err)
	}
	return snap, nil
}
