package http

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"orcamento/internal/core"
	"orcamento/internal/identity"
	"orcamento/internal/ledger"
	"orcamento/internal/storage/memory"
)

const (
	testToken = "s3cret"
	testOwner = "owner-1"
)

type testServer struct {
	srv      *Server
	store    *memory.Store
	checking core.Account
	card     core.Account
	category core.Category
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	store := memory.New()
	ctx := context.Background()

	checking, err := store.CreateAccount(ctx, core.Account{
		OwnerID:        testOwner,
		Name:           "Conta Corrente",
		Kind:           core.AccountChecking,
		OpeningBalance: core.Cents(100000),
	})
	if err != nil {
		t.Fatalf("seed checking account: %v", err)
	}
	card, err := store.CreateAccount(ctx, core.Account{
		OwnerID:     testOwner,
		Name:        "Cartão",
		Kind:        core.AccountChecking,
		CreditLimit: core.Cents(500000),
	})
	if err != nil {
		t.Fatalf("seed card account: %v", err)
	}
	category, err := store.CreateCategory(ctx, core.Category{
		OwnerID: testOwner,
		Name:    "Compras",
		Kind:    core.KindExpense,
	})
	if err != nil {
		t.Fatalf("seed category: %v", err)
	}

	svc := ledger.NewService(store, nil)
	ids := identity.NewStaticProvider(map[string]string{testToken: testOwner})
	srv := NewServer(":0", svc, ids)
	t.Cleanup(func() { srv.limiter.Stop() })

	return &testServer{srv: srv, store: store, checking: checking, card: card, category: category}
}

func (ts *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("X-Owner-Token", testToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	ts.srv.Handler.ServeHTTP(rr, req)
	return rr
}

func decodeBody[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rr.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode response %q: %v", rr.Body.String(), err)
	}
	return v
}

func (ts *testServer) entryBody(accountID string, cents int64) map[string]any {
	return map[string]any{
		"description":  "Compra teste",
		"amount_cents": cents,
		"date":         "2025-06-10",
		"kind":         "DESPESA",
		"account_id":   accountID,
		"category_id":  ts.category.ID,
	}
}

func TestHealthEndpointsNeedNoAuth(t *testing.T) {
	ts := newTestServer(t)
	for _, path := range []string{"/healthz", "/readyz"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		rr := httptest.NewRecorder()
		ts.srv.Handler.ServeHTTP(rr, req)
		if rr.Code != http.StatusOK {
			t.Errorf("%s status = %d, want 200", path, rr.Code)
		}
	}
}

func TestMissingTokenIsUnauthorized(t *testing.T) {
	ts := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/api/entries", nil)
	rr := httptest.NewRecorder()
	ts.srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("no token status = %d, want 401", rr.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/entries", nil)
	req.Header.Set("X-Owner-Token", "wrong")
	rr = httptest.NewRecorder()
	ts.srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("unknown token status = %d, want 401", rr.Code)
	}
}

func TestSecurityHeadersPresent(t *testing.T) {
	ts := newTestServer(t)
	rr := ts.do(t, http.MethodGet, "/api/entries", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rr.Code)
	}
	if got := rr.Header().Get("X-Content-Type-Options"); got != "nosniff" {
		t.Errorf("X-Content-Type-Options = %q, want nosniff", got)
	}
	if got := rr.Header().Get("X-Frame-Options"); got == "" {
		t.Error("X-Frame-Options header missing")
	}
}

func TestCreateAndGetEntry(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodPost, "/api/entries", ts.entryBody(ts.checking.ID, 4500))
	if rr.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", rr.Code, rr.Body.String())
	}
	created := decodeBody[entryJSON](t, rr)
	if created.ID == "" {
		t.Fatal("created entry has no id")
	}
	if created.Status != string(core.StatusConfirmed) {
		t.Errorf("default status = %q, want CONFIRMADO", created.Status)
	}

	rr = ts.do(t, http.MethodGet, "/api/entries/"+created.ID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("get status = %d", rr.Code)
	}
	fetched := decodeBody[entryJSON](t, rr)
	if fetched.AmountCents != 4500 || fetched.Date != "2025-06-10" {
		t.Errorf("fetched entry mismatch: %+v", fetched)
	}
}

func TestCreateEntryValidationStatuses(t *testing.T) {
	ts := newTestServer(t)

	body := ts.entryBody(ts.checking.ID, 0)
	rr := ts.do(t, http.MethodPost, "/api/entries", body)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Errorf("zero amount status = %d, want 422", rr.Code)
	}

	body = ts.entryBody("acc-missing", 4500)
	rr = ts.do(t, http.MethodPost, "/api/entries", body)
	if rr.Code != http.StatusNotFound {
		t.Errorf("unknown account status = %d, want 404", rr.Code)
	}
}

func TestInstallmentPlanEndpoints(t *testing.T) {
	ts := newTestServer(t)

	body := ts.entryBody(ts.card.ID, 30000)
	body["method"] = "CREDITO"
	body["card_label"] = "final 4242"
	body["count"] = 3

	rr := ts.do(t, http.MethodPost, "/api/installments", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("plan status = %d, body %s", rr.Code, rr.Body.String())
	}
	plan := decodeBody[[]entryJSON](t, rr)
	if len(plan) != 3 {
		t.Fatalf("plan size = %d, want 3", len(plan))
	}
	var total int64
	for _, e := range plan {
		total += e.AmountCents
	}
	if total != 30000 {
		t.Errorf("installment sum = %d, want 30000", total)
	}

	rr = ts.do(t, http.MethodGet, "/api/installments/"+plan[0].InstallmentGroupID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("group status = %d", rr.Code)
	}
	group := decodeBody[[]entryJSON](t, rr)
	if len(group) != 3 {
		t.Errorf("group size = %d, want 3", len(group))
	}
}

func TestInstallmentsRejectDebitMethod(t *testing.T) {
	ts := newTestServer(t)

	body := ts.entryBody(ts.card.ID, 30000)
	body["method"] = "DEBITO"
	body["count"] = 3

	rr := ts.do(t, http.MethodPost, "/api/installments", body)
	if rr.Code != http.StatusConflict {
		t.Fatalf("debit plan status = %d, want 409", rr.Code)
	}
}

func TestTransferAndBalance(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodPost, "/api/transfers", map[string]any{
		"source_account_id": ts.checking.ID,
		"dest_account_id":   ts.card.ID,
		"amount_cents":      25000,
		"date":              "2025-06-10",
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("transfer status = %d, body %s", rr.Code, rr.Body.String())
	}
	res := decodeBody[transferResultJSON](t, rr)
	if res.TransferID == "" {
		t.Fatal("transfer result has no transfer id")
	}
	if res.Debit.Kind != string(core.KindExpense) || res.Credit.Kind != string(core.KindReceipt) {
		t.Errorf("leg kinds = %q/%q", res.Debit.Kind, res.Credit.Kind)
	}

	rr = ts.do(t, http.MethodGet, "/api/transfers/"+res.TransferID, nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("pair status = %d", rr.Code)
	}
	pair := decodeBody[[]entryJSON](t, rr)
	if len(pair) != 2 {
		t.Fatalf("pair size = %d, want 2", len(pair))
	}

	rr = ts.do(t, http.MethodGet, "/api/accounts/"+ts.checking.ID+"/balance", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("balance status = %d", rr.Code)
	}
	balance := decodeBody[balanceJSON](t, rr)
	// opening 1000.00 - 250.00
	if balance.CurrentCents != 75000 {
		t.Errorf("CurrentCents = %d, want 75000", balance.CurrentCents)
	}
}

func TestSelfTransferRejected(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodPost, "/api/transfers", map[string]any{
		"source_account_id": ts.checking.ID,
		"dest_account_id":   ts.checking.ID,
		"amount_cents":      1000,
		"date":              "2025-06-10",
	})
	if rr.Code != http.StatusConflict {
		t.Fatalf("self transfer status = %d, want 409", rr.Code)
	}
}

func TestSettleInvoiceEndpoint(t *testing.T) {
	ts := newTestServer(t)

	body := ts.entryBody(ts.card.ID, 60000)
	body["method"] = "CREDITO"
	rr := ts.do(t, http.MethodPost, "/api/entries", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("seed invoice status = %d", rr.Code)
	}

	settle := map[string]any{
		"card_account_id":   ts.card.ID,
		"origin_account_id": ts.checking.ID,
		"amount_cents":      59999,
		"period_start":      "2025-06-01",
		"period_end":        "2025-06-30",
		"date":              "2025-06-15",
	}
	rr = ts.do(t, http.MethodPost, "/api/invoices/settle", settle)
	if rr.Code != http.StatusConflict {
		t.Fatalf("mismatched settlement status = %d, want 409", rr.Code)
	}

	settle["amount_cents"] = 60000
	rr = ts.do(t, http.MethodPost, "/api/invoices/settle", settle)
	if rr.Code != http.StatusCreated {
		t.Fatalf("settlement status = %d, body %s", rr.Code, rr.Body.String())
	}
	res := decodeBody[transferResultJSON](t, rr)
	if res.Credit.AccountID != ts.card.ID {
		t.Errorf("credit leg account = %q, want card", res.Credit.AccountID)
	}
}

func TestStatusChangeEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodPost, "/api/entries", ts.entryBody(ts.checking.ID, 4500))
	created := decodeBody[entryJSON](t, rr)

	rr = ts.do(t, http.MethodPost, "/api/entries/"+created.ID+"/status", map[string]any{"status": "PENDENTE"})
	if rr.Code != http.StatusOK {
		t.Fatalf("status change = %d, body %s", rr.Code, rr.Body.String())
	}
	updated := decodeBody[[]entryJSON](t, rr)
	if len(updated) != 1 || updated[0].Status != string(core.StatusPending) {
		t.Errorf("updated = %+v", updated)
	}

	rr = ts.do(t, http.MethodPost, "/api/entries/"+created.ID+"/status", map[string]any{"status": "CANCELADO"})
	if rr.Code != http.StatusOK {
		t.Fatalf("cancel status = %d", rr.Code)
	}
	rr = ts.do(t, http.MethodPost, "/api/entries/"+created.ID+"/status", map[string]any{"status": "CONFIRMADO"})
	if rr.Code != http.StatusConflict {
		t.Errorf("leaving CANCELADO status = %d, want 409", rr.Code)
	}
}

func TestDeleteEntryEndpoint(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodPost, "/api/entries", ts.entryBody(ts.checking.ID, 4500))
	created := decodeBody[entryJSON](t, rr)

	rr = ts.do(t, http.MethodDelete, "/api/entries/"+created.ID, nil)
	if rr.Code != http.StatusNoContent {
		t.Fatalf("delete status = %d", rr.Code)
	}

	rr = ts.do(t, http.MethodGet, "/api/entries/"+created.ID, nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("get after delete status = %d, want 404", rr.Code)
	}
}

func TestCreditUsageEndpoint(t *testing.T) {
	ts := newTestServer(t)

	body := ts.entryBody(ts.card.ID, 350000)
	body["method"] = "CREDITO"
	rr := ts.do(t, http.MethodPost, "/api/entries", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("seed status = %d", rr.Code)
	}

	rr = ts.do(t, http.MethodGet, "/api/accounts/"+ts.card.ID+"/credit-usage?date=2025-06-01", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("usage status = %d, body %s", rr.Code, rr.Body.String())
	}
	usage := decodeBody[creditUsageJSON](t, rr)
	if usage.ForwardUsedCents != 350000 {
		t.Errorf("ForwardUsedCents = %d, want 350000", usage.ForwardUsedCents)
	}
	if usage.Alert != string(core.AlertAdvisory) {
		t.Errorf("Alert = %q, want advisory", usage.Alert)
	}

	rr = ts.do(t, http.MethodGet, "/api/accounts/"+ts.checking.ID+"/credit-usage?date=2025-06-01", nil)
	if rr.Code != http.StatusConflict {
		t.Errorf("non-card usage status = %d, want 409", rr.Code)
	}
}

func TestInvoiceEndpointRequiresPeriod(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodGet, "/api/accounts/"+ts.card.ID+"/invoice", nil)
	if rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("missing period status = %d, want 422", rr.Code)
	}

	rr = ts.do(t, http.MethodGet, "/api/accounts/"+ts.card.ID+"/invoice?start=2025-06-01&end=2025-06-30", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("invoice status = %d, body %s", rr.Code, rr.Body.String())
	}
}

func TestDebtEndpoints(t *testing.T) {
	ts := newTestServer(t)

	rr := ts.do(t, http.MethodPost, "/api/debts", map[string]any{
		"description":             "Financiamento",
		"principal_cents":         1200000,
		"installment_value_cents": 100000,
		"rate":                    1.5,
		"installments_total":      12,
	})
	if rr.Code != http.StatusCreated {
		t.Fatalf("create debt status = %d, body %s", rr.Code, rr.Body.String())
	}
	debt := decodeBody[debtJSON](t, rr)
	if debt.RemainingCents != 1200000 || debt.Status != string(core.DebtActive) {
		t.Errorf("created debt = %+v", debt)
	}

	rr = ts.do(t, http.MethodPost, "/api/debts/"+debt.ID+"/payments", map[string]any{"amount_cents": 100000})
	if rr.Code != http.StatusOK {
		t.Fatalf("payment status = %d, body %s", rr.Code, rr.Body.String())
	}
	paid := decodeBody[debtJSON](t, rr)
	if paid.RemainingCents != 1100000 || paid.InstallmentsPaid != 1 {
		t.Errorf("after payment = %+v", paid)
	}

	rr = ts.do(t, http.MethodGet, "/api/debts", nil)
	if rr.Code != http.StatusOK {
		t.Fatalf("list debts status = %d", rr.Code)
	}
	debts := decodeBody[[]debtJSON](t, rr)
	if len(debts) != 1 {
		t.Errorf("debt count = %d, want 1", len(debts))
	}
}

func TestRateLimitKicksIn(t *testing.T) {
	ts := newTestServer(t)

	var limited bool
	for i := 0; i < 70; i++ {
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		rr := httptest.NewRecorder()
		ts.srv.Handler.ServeHTTP(rr, req)
		if rr.Code == http.StatusTooManyRequests {
			limited = true
			break
		}
		if rr.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rr.Code)
		}
	}
	if !limited {
		t.Error("expected a 429 after exhausting the per-minute budget")
	}
	if m := ts.srv.limiter.GetMetrics(); m.TotalHits < 1 {
		t.Errorf("TotalHits = %d, want at least 1", m.TotalHits)
	}
}

func TestCreateEntryDecimalAmount(t *testing.T) {
	ts := newTestServer(t)

	body := ts.entryBody(ts.checking.ID, 0)
	delete(body, "amount_cents")
	body["amount"] = "123,45"
	rr := ts.do(t, http.MethodPost, "/api/entries", body)
	if rr.Code != http.StatusCreated {
		t.Fatalf("decimal amount status = %d: %s", rr.Code, rr.Body.String())
	}
	created := decodeBody[entryJSON](t, rr)
	if created.AmountCents != 12345 {
		t.Fatalf("amount_cents = %d, want 12345", created.AmountCents)
	}

	body = ts.entryBody(ts.checking.ID, 0)
	delete(body, "amount_cents")
	body["amount"] = "abc"
	if rr := ts.do(t, http.MethodPost, "/api/entries", body); rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("malformed amount status = %d, want 422", rr.Code)
	}

	body = ts.entryBody(ts.checking.ID, 12345)
	body["amount"] = "123.45"
	if rr := ts.do(t, http.MethodPost, "/api/entries", body); rr.Code != http.StatusUnprocessableEntity {
		t.Fatalf("both amount fields status = %d, want 422", rr.Code)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	ts := newTestServer(t)

	// A scanner-looking path bumps the suspicious counter on its way to a 404.
	scan := httptest.NewRequest(http.MethodGet, "/.env", nil)
	rr := httptest.NewRecorder()
	ts.srv.Handler.ServeHTTP(rr, scan)

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rr = httptest.NewRecorder()
	ts.srv.Handler.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("metrics status = %d, want 200", rr.Code)
	}
	body := rr.Body.String()
	for _, metric := range []string{
		"http_requests_total",
		"suspicious_requests_total 1",
		"rate_limit_hits_total",
		"active_rate_limit_clients",
		"uptime_seconds",
	} {
		if !strings.Contains(body, metric) {
			t.Errorf("metrics body missing %q:\n%s", metric, body)
		}
	}
}

func TestTrustProxies(t *testing.T) {
	ts := newTestServer(t)

	if err := ts.srv.TrustProxies([]string{"203.0.113.0/24"}); err != nil {
		t.Fatalf("TrustProxies: %v", err)
	}
	if err := ts.srv.TrustProxies([]string{"not-a-cidr"}); err == nil {
		t.Fatal("expected error for malformed CIDR")
	}
}

func TestUnknownJSONFieldRejected(t *testing.T) {
	ts := newTestServer(t)

	body := ts.entryBody(ts.checking.ID, 4500)
	body["surprise"] = true
	rr := ts.do(t, http.MethodPost, "/api/entries", body)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("unknown field status = %d, want 400", rr.Code)
	}
}

func TestOwnersAreIsolated(t *testing.T) {
	ts := newTestServer(t)

	other, err := ts.store.CreateAccount(context.Background(), core.Account{
		OwnerID: "owner-2",
		Name:    "Alheia",
		Kind:    core.AccountChecking,
	})
	if err != nil {
		t.Fatalf("seed foreign account: %v", err)
	}

	rr := ts.do(t, http.MethodGet, fmt.Sprintf("/api/accounts/%s/balance", other.ID), nil)
	if rr.Code != http.StatusNotFound {
		t.Fatalf("foreign balance status = %d, want 404", rr.Code)
	}
}
