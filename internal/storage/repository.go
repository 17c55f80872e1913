// Package storage is the SQLite persistence backend. Queries are written
// by hand against database/sql; schema changes go through the embedded
// golang-migrate migrations.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"orcamento/internal/core"
	"orcamento/internal/ledger"

	_ "modernc.org/sqlite"
)

const dateLayout = "2006-01-02"

type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(dbPath string) (*SQLiteRepository, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteRepository{db: db}, nil
}

func (r *SQLiteRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

const entryColumns = `id, owner_id, description, amount_cents, entry_date, kind,
	account_id, category_id, status, notes, method, card_label,
	installment_group_id, installment_index, installment_count, transfer_id`

func scanEntry(row interface{ Scan(...any) error }) (core.LedgerEntry, error) {
	var e core.LedgerEntry
	var dateStr string
	err := row.Scan(
		&e.ID, &e.OwnerID, &e.Description, &e.Amount.Cents, &dateStr, &e.Kind,
		&e.AccountID, &e.CategoryID, &e.Status, &e.Notes, &e.Method, &e.CardLabel,
		&e.InstallmentGroupID, &e.InstallmentIndex, &e.InstallmentCount, &e.TransferID,
	)
	if err != nil {
		return core.LedgerEntry{}, err
	}
	t, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return core.LedgerEntry{}, fmt.Errorf("parse entry date %q: %w", dateStr, err)
	}
	e.Date = core.DateOf(t)
	return e, nil
}

func (r *SQLiteRepository) ListEntries(ctx context.Context, ownerID string, f ledger.EntryFilter) ([]core.LedgerEntry, error) {
	query := `SELECT ` + entryColumns + ` FROM entries WHERE owner_id = ?`
	args := []any{ownerID}
	if f.AccountID != "" {
		query += ` AND account_id = ?`
		args = append(args, f.AccountID)
	}
	if f.Kind != "" {
		query += ` AND kind = ?`
		args = append(args, string(f.Kind))
	}
	if f.Status != "" {
		query += ` AND status = ?`
		args = append(args, string(f.Status))
	}
	if f.Method != "" {
		query += ` AND method = ?`
		args = append(args, string(f.Method))
	}
	if !f.From.IsZero() {
		query += ` AND entry_date >= ?`
		args = append(args, f.From.Format(dateLayout))
	}
	if !f.To.IsZero() {
		query += ` AND entry_date <= ?`
		args = append(args, f.To.Format(dateLayout))
	}
	query += ` ORDER BY entry_date, id`

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list entries: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

func collectEntries(rows *sql.Rows) ([]core.LedgerEntry, error) {
	var out []core.LedgerEntry
	for rows.Next() {
		e, err := scanEntry(rows)
		if err != nil {
			return nil, fmt.Errorf("scan entry: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetEntry(ctx context.Context, ownerID, id string) (core.LedgerEntry, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+entryColumns+` FROM entries WHERE id = ? AND owner_id = ?`, id, ownerID)
	e, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.LedgerEntry{}, core.ErrNotFound
	}
	if err != nil {
		return core.LedgerEntry{}, fmt.Errorf("get entry: %w", err)
	}
	return e, nil
}

func (r *SQLiteRepository) CreateEntry(ctx context.Context, e core.LedgerEntry) (core.LedgerEntry, error) {
	if err := e.Validate(); err != nil {
		return core.LedgerEntry{}, err
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO entries (`+entryColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID, e.OwnerID, e.Description, e.Amount.Cents, e.Date.Format(dateLayout), string(e.Kind),
		e.AccountID, e.CategoryID, string(e.Status), e.Notes, string(e.Method), e.CardLabel,
		e.InstallmentGroupID, e.InstallmentIndex, e.InstallmentCount, e.TransferID,
	)
	if err != nil {
		return core.LedgerEntry{}, fmt.Errorf("create entry: %w", err)
	}

	slog.InfoContext(ctx, "Entry saved to SQLite",
		"id", e.ID,
		"description", e.Description,
		"amount_cents", e.Amount.Cents,
		"kind", e.Kind)

	return e, nil
}

func (r *SQLiteRepository) UpdateEntry(ctx context.Context, e core.LedgerEntry) (core.LedgerEntry, error) {
	if err := e.Validate(); err != nil {
		return core.LedgerEntry{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE entries SET description = ?, amount_cents = ?, entry_date = ?, kind = ?,
			account_id = ?, category_id = ?, status = ?, notes = ?, method = ?, card_label = ?,
			installment_group_id = ?, installment_index = ?, installment_count = ?, transfer_id = ?
		 WHERE id = ? AND owner_id = ?`,
		e.Description, e.Amount.Cents, e.Date.Format(dateLayout), string(e.Kind),
		e.AccountID, e.CategoryID, string(e.Status), e.Notes, string(e.Method), e.CardLabel,
		e.InstallmentGroupID, e.InstallmentIndex, e.InstallmentCount, e.TransferID,
		e.ID, e.OwnerID,
	)
	if err != nil {
		return core.LedgerEntry{}, fmt.Errorf("update entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.LedgerEntry{}, core.ErrNotFound
	}
	return e, nil
}

func (r *SQLiteRepository) DeleteEntry(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM entries WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete entry: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListGroup(ctx context.Context, ownerID, groupID string) ([]core.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries
		 WHERE owner_id = ? AND installment_group_id = ?
		 ORDER BY installment_index`, ownerID, groupID)
	if err != nil {
		return nil, fmt.Errorf("list installment group: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

func (r *SQLiteRepository) ListTransferPair(ctx context.Context, ownerID, transferID string) ([]core.LedgerEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+entryColumns+` FROM entries
		 WHERE owner_id = ? AND transfer_id = ?
		 ORDER BY kind`, ownerID, transferID)
	if err != nil {
		return nil, fmt.Errorf("list transfer pair: %w", err)
	}
	defer rows.Close()
	return collectEntries(rows)
}

const accountColumns = `id, owner_id, name, kind, opening_balance_cents, credit_limit_cents, invested_cents, color`

func scanAccount(row interface{ Scan(...any) error }) (core.Account, error) {
	var a core.Account
	err := row.Scan(&a.ID, &a.OwnerID, &a.Name, &a.Kind,
		&a.OpeningBalance.Cents, &a.CreditLimit.Cents, &a.Invested.Cents, &a.Color)
	return a, err
}

func (r *SQLiteRepository) ListAccounts(ctx context.Context, ownerID string) ([]core.Account, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE owner_id = ? ORDER BY name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list accounts: %w", err)
	}
	defer rows.Close()
	var out []core.Account
	for rows.Next() {
		a, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("scan account: %w", err)
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetAccount(ctx context.Context, ownerID, id string) (core.Account, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+accountColumns+` FROM accounts WHERE id = ? AND owner_id = ?`, id, ownerID)
	a, err := scanAccount(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Account{}, core.ErrNotFound
	}
	if err != nil {
		return core.Account{}, fmt.Errorf("get account: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) CreateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO accounts (`+accountColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.OwnerID, a.Name, string(a.Kind),
		a.OpeningBalance.Cents, a.CreditLimit.Cents, a.Invested.Cents, a.Color)
	if err != nil {
		return core.Account{}, fmt.Errorf("create account: %w", err)
	}
	return a, nil
}

func (r *SQLiteRepository) UpdateAccount(ctx context.Context, a core.Account) (core.Account, error) {
	if err := a.Validate(); err != nil {
		return core.Account{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE accounts SET name = ?, kind = ?, opening_balance_cents = ?,
			credit_limit_cents = ?, invested_cents = ?, color = ?
		 WHERE id = ? AND owner_id = ?`,
		a.Name, string(a.Kind), a.OpeningBalance.Cents,
		a.CreditLimit.Cents, a.Invested.Cents, a.Color, a.ID, a.OwnerID)
	if err != nil {
		return core.Account{}, fmt.Errorf("update account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Account{}, core.ErrNotFound
	}
	return a, nil
}

func (r *SQLiteRepository) DeleteAccount(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM accounts WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete account: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) ListCategories(ctx context.Context, ownerID string) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, owner_id, name, kind, color FROM categories WHERE owner_id = ? ORDER BY name`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()
	var out []core.Category
	for rows.Next() {
		var c core.Category
		if err := rows.Scan(&c.ID, &c.OwnerID, &c.Name, &c.Kind, &c.Color); err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetCategory(ctx context.Context, ownerID, id string) (core.Category, error) {
	var c core.Category
	err := r.db.QueryRowContext(ctx,
		`SELECT id, owner_id, name, kind, color FROM categories WHERE id = ? AND owner_id = ?`,
		id, ownerID).Scan(&c.ID, &c.OwnerID, &c.Name, &c.Kind, &c.Color)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, core.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) CreateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (id, owner_id, name, kind, color) VALUES (?, ?, ?, ?, ?)`,
		c.ID, c.OwnerID, c.Name, string(c.Kind), c.Color)
	if err != nil {
		return core.Category{}, fmt.Errorf("create category: %w", err)
	}
	return c, nil
}

func (r *SQLiteRepository) UpdateCategory(ctx context.Context, c core.Category) (core.Category, error) {
	if err := c.Validate(); err != nil {
		return core.Category{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET name = ?, kind = ?, color = ? WHERE id = ? AND owner_id = ?`,
		c.Name, string(c.Kind), c.Color, c.ID, c.OwnerID)
	if err != nil {
		return core.Category{}, fmt.Errorf("update category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Category{}, core.ErrNotFound
	}
	return c, nil
}

func (r *SQLiteRepository) DeleteCategory(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM categories WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("delete category: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.ErrNotFound
	}
	return nil
}

const debtColumns = `id, owner_id, description, principal_cents, paid_cents, remaining_cents,
	rate, installment_value_cents, installments_paid, installments_total, status`

func scanDebt(row interface{ Scan(...any) error }) (core.Debt, error) {
	var d core.Debt
	err := row.Scan(&d.ID, &d.OwnerID, &d.Description, &d.Principal.Cents, &d.Paid.Cents,
		&d.Remaining.Cents, &d.Rate, &d.InstallmentValue.Cents,
		&d.InstallmentsPaid, &d.InstallmentsTotal, &d.Status)
	return d, err
}

func (r *SQLiteRepository) ListDebts(ctx context.Context, ownerID string) ([]core.Debt, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE owner_id = ? ORDER BY description`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list debts: %w", err)
	}
	defer rows.Close()
	var out []core.Debt
	for rows.Next() {
		d, err := scanDebt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan debt: %w", err)
		}
		out = append(out, d)
	}
	return out, rows.Err()
}

func (r *SQLiteRepository) GetDebt(ctx context.Context, ownerID, id string) (core.Debt, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+debtColumns+` FROM debts WHERE id = ? AND owner_id = ?`, id, ownerID)
	d, err := scanDebt(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Debt{}, core.ErrNotFound
	}
	if err != nil {
		return core.Debt{}, fmt.Errorf("get debt: %w", err)
	}
	return d, nil
}

func (r *SQLiteRepository) CreateDebt(ctx context.Context, d core.Debt) (core.Debt, error) {
	if err := d.Validate(); err != nil {
		return core.Debt{}, err
	}
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO debts (`+debtColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		d.ID, d.OwnerID, d.Description, d.Principal.Cents, d.Paid.Cents, d.Remaining.Cents,
		d.Rate, d.InstallmentValue.Cents, d.InstallmentsPaid, d.InstallmentsTotal, string(d.Status))
	if err != nil {
		return core.Debt{}, fmt.Errorf("create debt: %w", err)
	}
	return d, nil
}

func (r *SQLiteRepository) UpdateDebt(ctx context.Context, d core.Debt) (core.Debt, error) {
	if err := d.Validate(); err != nil {
		return core.Debt{}, err
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE debts SET description = ?, principal_cents = ?, paid_cents = ?, remaining_cents = ?,
			rate = ?, installment_value_cents = ?, installments_paid = ?, installments_total = ?, status = ?
		 WHERE id = ? AND owner_id = ?`,
		d.Description, d.Principal.Cents, d.Paid.Cents, d.Remaining.Cents,
		d.Rate, d.InstallmentValue.Cents, d.InstallmentsPaid, d.InstallmentsTotal, string(d.Status),
		d.ID, d.OwnerID)
	if err != nil {
		return core.Debt{}, fmt.Errorf("update debt: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return core.Debt{}, core.ErrNotFound
	}
	return d, nil
}

var _ ledger.Store = (*SQLiteRepository)(nil)
