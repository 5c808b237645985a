package http

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"fintrack/internal/core"
	"fintrack/internal/services"
	"fintrack/internal/store/memory"
)

func newTestServer(t *testing.T) (*httptest.Server, *memory.Store) {
	t.Helper()
	st := memory.New()
	summaries := services.NewSummaryService(st, st, services.DefaultFanoutLimit, services.DefaultPerUserTimeout)
	srv := NewServer(":0", st, summaries)
	ts := httptest.NewServer(srv.Handler)
	t.Cleanup(ts.Close)
	return ts, st
}

func doJSON(t *testing.T, method, url string, body any) (*http.Response, []byte) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			t.Fatalf("encode body: %v", err)
		}
	}
	req, err := http.NewRequest(method, url, &buf)
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, url, err)
	}
	defer resp.Body.Close()
	var out bytes.Buffer
	if _, err := out.ReadFrom(resp.Body); err != nil {
		t.Fatalf("read body: %v", err)
	}
	return resp, out.Bytes()
}

func createTestUser(t *testing.T, baseURL, name, email string) core.User {
	t.Helper()
	resp, body := doJSON(t, http.MethodPost, baseURL+"/api/users", map[string]string{
		"name":  name,
		"email": email,
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create user status = %d, body %s", resp.StatusCode, body)
	}
	var u core.User
	if err := json.Unmarshal(body, &u); err != nil {
		t.Fatalf("unmarshal user: %v", err)
	}
	return u
}

func TestHealthEndpoints(t *testing.T) {
	ts, _ := newTestServer(t)

	for _, path := range []string{"/healthz", "/readyz"} {
		resp, err := http.Get(ts.URL + path)
		if err != nil {
			t.Fatalf("GET %s: %v", path, err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("GET %s status = %d, want 200", path, resp.StatusCode)
		}
	}
}

func TestCreateAndGetUser(t *testing.T) {
	ts, _ := newTestServer(t)

	u := createTestUser(t, ts.URL, "Ada Lovelace", "ada@example.com")
	if u.ID == "" {
		t.Fatal("created user has empty id")
	}

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/users/"+u.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("get user status = %d", resp.StatusCode)
	}
	var got core.UserWithSummary
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Name != "Ada Lovelace" || got.Email != "ada@example.com" {
		t.Errorf("got user %+v", got.User)
	}
	if got.TotalIncome.Cents != 0 || got.TotalExpense.Cents != 0 {
		t.Errorf("fresh user should have a zero summary, got %+v", got.Summary)
	}
}

func TestGetUserNotFound(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/users/nope", nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", resp.StatusCode)
	}
	var e struct {
		Error string `json:"error"`
	}
	if err := json.Unmarshal(body, &e); err != nil {
		t.Fatalf("error envelope: %v", err)
	}
	if e.Error == "" {
		t.Error("error envelope is empty")
	}
}

func TestCreateUserValidation(t *testing.T) {
	ts, _ := newTestServer(t)

	tests := []struct {
		name string
		body map[string]string
		want int
	}{
		{"missing name", map[string]string{"email": "a@b.com"}, http.StatusUnprocessableEntity},
		{"blank name", map[string]string{"name": "   ", "email": "a@b.com"}, http.StatusUnprocessableEntity},
		{"bad email", map[string]string{"name": "Ada", "email": "not-an-email"}, http.StatusUnprocessableEntity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/users", tt.body)
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestCreateUserMalformedBody(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Post(ts.URL+"/api/users", "application/json", bytes.NewBufferString("{not json"))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", resp.StatusCode)
	}
}

func TestUpdateUserPartial(t *testing.T) {
	ts, _ := newTestServer(t)
	u := createTestUser(t, ts.URL, "Ada", "ada@example.com")

	resp, body := doJSON(t, http.MethodPut, ts.URL+"/api/users/"+u.ID, map[string]string{
		"name": "Ada Lovelace",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, body %s", resp.StatusCode, body)
	}
	var got core.User
	if err := json.Unmarshal(body, &got); err != nil {
		t.Fatal(err)
	}
	if got.Name != "Ada Lovelace" {
		t.Errorf("name = %q", got.Name)
	}
	if got.Email != "ada@example.com" {
		t.Errorf("email changed to %q on a name-only update", got.Email)
	}
}

func TestDeleteUserCascades(t *testing.T) {
	ts, _ := newTestServer(t)
	u := createTestUser(t, ts.URL, "Ada", "ada@example.com")

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/transactions/"+u.ID, map[string]string{
		"type":        "expense",
		"amount":      "12.50",
		"description": "Lunch",
		"category":    "Food",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create transaction status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/users/"+u.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete user status = %d", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodGet, ts.URL+"/api/transactions/"+u.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("transactions of deleted user: status = %d, want 404", resp.StatusCode)
	}

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/users/"+u.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func TestTransactionLifecycle(t *testing.T) {
	ts, _ := newTestServer(t)
	u := createTestUser(t, ts.URL, "Ada", "ada@example.com")

	resp, body := doJSON(t, http.MethodPost, ts.URL+"/api/transactions/"+u.ID, map[string]string{
		"type":        "income",
		"amount":      "100.00",
		"description": "Salary",
		"date":        "2026-08-01",
	})
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d, body %s", resp.StatusCode, body)
	}
	var tx core.Transaction
	if err := json.Unmarshal(body, &tx); err != nil {
		t.Fatal(err)
	}
	if tx.Amount.Cents != 10000 {
		t.Errorf("amount = %d cents, want 10000", tx.Amount.Cents)
	}

	// Amount-only update keeps every other field.
	resp, body = doJSON(t, http.MethodPut, ts.URL+"/api/transactions/"+tx.ID, map[string]string{
		"amount": "55.00",
	})
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("update status = %d, body %s", resp.StatusCode, body)
	}
	var updated core.Transaction
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatal(err)
	}
	if updated.Amount.Cents != 5500 {
		t.Errorf("amount = %d cents, want 5500", updated.Amount.Cents)
	}
	if updated.Description != "Salary" || updated.Type != core.Income {
		t.Errorf("unrelated fields changed: %+v", updated)
	}
	if updated.Date.String() != "2026-08-01" {
		t.Errorf("date = %s, want 2026-08-01", updated.Date)
	}

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/transactions/"+tx.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("delete status = %d", resp.StatusCode)
	}

	resp, body = doJSON(t, http.MethodGet, ts.URL+"/api/transactions/"+u.ID, nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var txs []core.Transaction
	if err := json.Unmarshal(body, &txs); err != nil {
		t.Fatal(err)
	}
	if len(txs) != 0 {
		t.Errorf("deleted transaction still listed: %+v", txs)
	}

	resp, _ = doJSON(t, http.MethodDelete, ts.URL+"/api/transactions/"+tx.ID, nil)
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", resp.StatusCode)
	}
}

func TestCreateTransactionValidation(t *testing.T) {
	ts, _ := newTestServer(t)
	u := createTestUser(t, ts.URL, "Ada", "ada@example.com")

	tests := []struct {
		name string
		body map[string]string
	}{
		{"bad type", map[string]string{"type": "transfer", "amount": "1.00", "description": "x"}},
		{"zero amount", map[string]string{"type": "expense", "amount": "0", "description": "x"}},
		{"negative amount", map[string]string{"type": "expense", "amount": "-5.00", "description": "x"}},
		{"missing description", map[string]string{"type": "expense", "amount": "1.00"}},
		{"bad date", map[string]string{"type": "expense", "amount": "1.00", "description": "x", "date": "01/02/2026"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/transactions/"+u.ID, tt.body)
			if resp.StatusCode != http.StatusUnprocessableEntity {
				t.Errorf("status = %d, want 422", resp.StatusCode)
			}
		})
	}
}

func TestCreateTransactionUnknownUser(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/transactions/ghost", map[string]string{
		"type":        "expense",
		"amount":      "1.00",
		"description": "x",
	})
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("status = %d, want 404", resp.StatusCode)
	}
}

func TestListUsersWithSummary(t *testing.T) {
	ts, _ := newTestServer(t)
	u := createTestUser(t, ts.URL, "Ada", "ada@example.com")

	seed := []map[string]string{
		{"type": "income", "amount": "100.00", "description": "Salary"},
		{"type": "expense", "amount": "50.00", "description": "Groceries", "category": "Food"},
		{"type": "expense", "amount": "5.00", "description": "Fuel", "category": "Gas"},
	}
	for _, body := range seed {
		resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/transactions/"+u.ID, body)
		if resp.StatusCode != http.StatusCreated {
			t.Fatalf("seed status = %d", resp.StatusCode)
		}
	}

	resp, body := doJSON(t, http.MethodGet, ts.URL+"/api/users", nil)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("list status = %d", resp.StatusCode)
	}
	var users []core.UserWithSummary
	if err := json.Unmarshal(body, &users); err != nil {
		t.Fatal(err)
	}
	if len(users) != 1 {
		t.Fatalf("got %d users, want 1", len(users))
	}
	got := users[0]
	if got.TotalIncome.Cents != 10000 {
		t.Errorf("total income = %d, want 10000", got.TotalIncome.Cents)
	}
	if got.TotalExpense.Cents != 5500 {
		t.Errorf("total expense = %d, want 5500", got.TotalExpense.Cents)
	}
	if got.CategoryTotals["Food"].Cents != 5000 || got.CategoryTotals["Gas"].Cents != 500 {
		t.Errorf("category totals = %+v", got.CategoryTotals)
	}
	if len(got.Transactions) != 3 {
		t.Errorf("got %d transactions, want 3", len(got.Transactions))
	}
}

func TestRateLimiterAllowsReads(t *testing.T) {
	ts, _ := newTestServer(t)

	// Reads are never rate limited.
	for i := 0; i < 100; i++ {
		resp, err := http.Get(ts.URL + "/api/users")
		if err != nil {
			t.Fatal(err)
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("read %d status = %d", i, resp.StatusCode)
		}
	}
}

func TestRateLimiterBlocksWriteFlood(t *testing.T) {
	ts, _ := newTestServer(t)

	var limited bool
	for i := 0; i < 80; i++ {
		resp, _ := doJSON(t, http.MethodPost, ts.URL+"/api/users", map[string]string{
			"name":  fmt.Sprintf("User %d", i),
			"email": fmt.Sprintf("u%d@example.com", i),
		})
		if resp.StatusCode == http.StatusTooManyRequests {
			limited = true
			break
		}
	}
	if !limited {
		t.Error("write flood never rate limited")
	}
}
