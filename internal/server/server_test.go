package server

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/shiftledger/internal/backup"
	"github.com/julianstephens/shiftledger/internal/constants"
	"github.com/julianstephens/shiftledger/internal/ledger"
	"github.com/julianstephens/shiftledger/internal/models"
	"github.com/julianstephens/shiftledger/internal/reminders"
	"github.com/julianstephens/shiftledger/internal/storage"
	"github.com/julianstephens/shiftledger/internal/storage/sqlite"
)

type fakeNotifier struct {
	to    string
	today string
	sent  []reminders.Reminder
}

func (f *fakeNotifier) Send(to, today string, rs []reminders.Reminder) error {
	f.to, f.today, f.sent = to, today, rs
	return nil
}

type testServer struct {
	*Server
	clock time.Time
	token string
}

func newTestServer(t *testing.T) *testServer {
	return newTestServerWith(t, func(p storage.Provider) storage.Provider { return p })
}

func newTestServerWith(t *testing.T, wrap func(storage.Provider) storage.Provider) *testServer {
	t.Helper()
	dir := t.TempDir()
	db := sqlite.NewStore(filepath.Join(dir, "ledger.db"))
	if err := db.Init(); err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })
	store := wrap(db)

	l, err := ledger.Open(store)
	if err != nil {
		t.Fatalf("ledger.Open() error = %v", err)
	}
	settings := l.Settings()
	settings.Timezone = "UTC"
	if out := l.SaveSettings(settings); !out.OK() {
		t.Fatalf("SaveSettings() = %+v", out)
	}

	ts := &testServer{clock: time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)}
	ts.Server = New(Config{SessionTTL: time.Hour}, l, store, backup.NewManager(dir), &fakeNotifier{}, []byte("0123456789abcdef0123456789abcdef"))
	ts.Server.now = func() time.Time { return ts.clock }
	return ts
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
	if ts.token != "" {
		req.Header.Set("Authorization", "Bearer "+ts.token)
	}
	rec := httptest.NewRecorder()
	ts.Handler().ServeHTTP(rec, req)
	return rec
}

func (ts *testServer) login(t *testing.T) {
	t.Helper()
	rec := ts.do(t, http.MethodPost, "/setup", credentials{Password: "correct horse"})
	if rec.Code != http.StatusOK {
		t.Fatalf("setup status = %d: %s", rec.Code, rec.Body)
	}
	var resp struct {
		Token string `json:"token"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil || resp.Token == "" {
		t.Fatalf("setup response: %v", err)
	}
	ts.token = resp.Token
}

func TestIsPublic(t *testing.T) {
	tests := []struct {
		path string
		want bool
	}{
		{"/setup", true},
		{"/health", true},
		{"/auth/login", true},
		{"/static/app.css", true},
		{"/api/income", false},
		{"/setup/extra", false},
		{"/authz", false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := isPublic(tt.path); got != tt.want {
				t.Errorf("isPublic(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestSessionFlow(t *testing.T) {
	ts := newTestServer(t)

	if rec := ts.do(t, http.MethodGet, "/health", nil); rec.Code != http.StatusOK {
		t.Errorf("health status = %d", rec.Code)
	}
	if rec := ts.do(t, http.MethodGet, "/api/income", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("unauthenticated status = %d, want 401", rec.Code)
	}
	if rec := ts.do(t, http.MethodPost, "/auth/login", credentials{Password: "whatever1"}); rec.Code != http.StatusConflict {
		t.Errorf("login before setup status = %d, want 409", rec.Code)
	}

	ts.login(t)
	if rec := ts.do(t, http.MethodGet, "/api/income", nil); rec.Code != http.StatusOK {
		t.Errorf("authenticated status = %d, want 200", rec.Code)
	}
	if rec := ts.do(t, http.MethodPost, "/setup", credentials{Password: "another one"}); rec.Code != http.StatusConflict {
		t.Errorf("second setup status = %d, want 409", rec.Code)
	}

	token := ts.token
	ts.token = ""
	if rec := ts.do(t, http.MethodPost, "/auth/login", credentials{Password: "wrong password"}); rec.Code != http.StatusUnauthorized {
		t.Errorf("bad login status = %d, want 401", rec.Code)
	}
	if rec := ts.do(t, http.MethodPost, "/auth/login", credentials{Password: "correct horse"}); rec.Code != http.StatusOK {
		t.Errorf("login status = %d, want 200", rec.Code)
	}

	ts.token = token
	ts.clock = ts.clock.Add(2 * time.Hour)
	if rec := ts.do(t, http.MethodGet, "/api/income", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("expired token status = %d, want 401", rec.Code)
	}

	ts.token = "not-a-jwt"
	if rec := ts.do(t, http.MethodGet, "/api/income", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("garbage token status = %d, want 401", rec.Code)
	}
}

func TestSetup_ShortPassword(t *testing.T) {
	ts := newTestServer(t)
	if rec := ts.do(t, http.MethodPost, "/setup", credentials{Password: "short"}); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("status = %d, want 422", rec.Code)
	}
}

func TestIncomeEndpoints(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	entry := models.IncomeEntry{Date: "2025-03-10", Platform: models.PlatformAmazonFlex, BlockLength: 270, Amount: 81}
	rec := ts.do(t, http.MethodPost, "/api/income", entry)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d: %s", rec.Code, rec.Body)
	}
	var created models.IncomeEntry
	json.NewDecoder(rec.Body).Decode(&created)
	if created.ID == "" {
		t.Fatal("created entry has no ID")
	}

	tests := []struct {
		name       string
		method     string
		path       string
		body       any
		wantStatus int
		wantBody   string
	}{
		{"daily cap", http.MethodPost, "/api/income",
			models.IncomeEntry{Date: "2025-03-10", Platform: models.PlatformAmazonFlex, BlockLength: 240, Amount: 72},
			http.StatusConflict, `"cap":{"cap":"daily"`},
		{"invalid entry", http.MethodPost, "/api/income",
			models.IncomeEntry{Date: "bad", Platform: models.PlatformAmazonFlex, Amount: 10},
			http.StatusUnprocessableEntity, "date"},
		{"unknown field", http.MethodPost, "/api/income", map[string]any{"nope": 1}, http.StatusBadRequest, "invalid request body"},
		{"get", http.MethodGet, "/api/income/" + created.ID, nil, http.StatusOK, `"amount":81`},
		{"get missing", http.MethodGet, "/api/income/missing", nil, http.StatusNotFound, "not found"},
		{"range filter", http.MethodGet, "/api/income?from=2025-03-11", nil, http.StatusOK, "[]"},
		{"hours", http.MethodGet, "/api/hours?date=2025-03-10", nil, http.StatusOK, `"daily_hours_used":4.5`},
		{"hours defaults to today", http.MethodGet, "/api/hours", nil, http.StatusOK, `"date":"2025-03-10"`},
		{"daily profit", http.MethodGet, "/api/profit/daily/2025-03-10", nil, http.StatusOK, `"total_income":81`},
		{"bad date", http.MethodGet, "/api/profit/daily/march", nil, http.StatusBadRequest, "YYYY-MM-DD"},
		{"month", http.MethodGet, "/api/profit/monthly/2025-03", nil, http.StatusOK, `"month":"2025-03"`},
		{"bad month", http.MethodGet, "/api/profit/monthly/2025-13", nil, http.StatusBadRequest, ""},
		{"delete", http.MethodDelete, "/api/income/" + created.ID, nil, http.StatusNoContent, ""},
		{"delete again", http.MethodDelete, "/api/income/" + created.ID, nil, http.StatusNotFound, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := ts.do(t, tt.method, tt.path, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.wantStatus, rec.Body)
			}
			if !strings.Contains(rec.Body.String(), tt.wantBody) {
				t.Errorf("body = %s, want it to contain %s", rec.Body, tt.wantBody)
			}
		})
	}
}

func TestPlanAndGoalEndpoints(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	rec := ts.do(t, http.MethodPost, "/api/plans", models.PaymentPlan{
		Name: "Tires", Provider: models.ProviderAffirm, InitialCost: 200, TotalPayments: 2,
		PaymentAmount: 100, StartDate: "2025-03-01", Frequency: models.FrequencyMonthly,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create plan status = %d: %s", rec.Code, rec.Body)
	}
	var plan models.PaymentPlan
	json.NewDecoder(rec.Body).Decode(&plan)

	for range 2 {
		if rec := ts.do(t, http.MethodPost, "/api/plans/"+plan.ID+"/pay", nil); rec.Code != http.StatusOK {
			t.Fatalf("pay status = %d: %s", rec.Code, rec.Body)
		}
	}
	if rec := ts.do(t, http.MethodPost, "/api/plans/"+plan.ID+"/pay", nil); rec.Code != http.StatusConflict {
		t.Errorf("pay on paid-off plan status = %d, want 409", rec.Code)
	}

	rec = ts.do(t, http.MethodPost, "/api/goals", models.Goal{
		Name: "Rent", Period: models.GoalPeriodWeekly, TargetAmount: 100,
		StartDate: "2025-03-10", EndDate: "2025-03-16", IsActive: true, Priority: 1,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("create goal status = %d: %s", rec.Code, rec.Body)
	}
	if rec := ts.do(t, http.MethodGet, "/api/goals/progress?period=weekly", nil); rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"Rent"`) {
		t.Errorf("progress = %d %s", rec.Code, rec.Body)
	}
	if rec := ts.do(t, http.MethodGet, "/api/goals/progress?period=daily", nil); rec.Code != http.StatusBadRequest {
		t.Errorf("bad period status = %d, want 400", rec.Code)
	}
}

func TestSimulateEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	rec := ts.do(t, http.MethodGet, "/api/simulate", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body)
	}
	if !strings.Contains(rec.Body.String(), `"reasoning"`) {
		t.Errorf("body = %s", rec.Body)
	}
}

func TestSettingsEndpoint(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)

	rec := ts.do(t, http.MethodPut, "/api/settings", map[string]any{"daily_limit_hours": 10})
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"daily_limit_hours":10`) {
		t.Fatalf("save settings = %d %s", rec.Code, rec.Body)
	}
	if strings.Contains(rec.Body.String(), "$2a$") {
		t.Error("settings response leaked the password hash")
	}
	if rec := ts.do(t, http.MethodPut, "/api/settings", map[string]any{"timezone": "Mars/Olympus"}); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad timezone status = %d, want 422", rec.Code)
	}
	// The owner can still log in after a settings save.
	ts.token = ""
	if rec := ts.do(t, http.MethodPost, "/auth/login", credentials{Password: "correct horse"}); rec.Code != http.StatusOK {
		t.Errorf("login after settings save = %d", rec.Code)
	}
}

func TestExportImportAndBackups(t *testing.T) {
	ts := newTestServer(t)
	ts.login(t)
	ts.do(t, http.MethodPost, "/api/expenses", models.FixedExpense{Name: "Rent", Amount: 1200, DueDay: 1, IsActive: true})

	rec := ts.do(t, http.MethodGet, "/api/export", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("export status = %d", rec.Code)
	}
	var doc models.ExportDocument
	if err := json.NewDecoder(rec.Body).Decode(&doc); err != nil || len(doc.FixedExpenses) != 1 {
		t.Fatalf("export doc = %+v, %v", doc, err)
	}

	doc.FixedExpenses = nil
	if rec := ts.do(t, http.MethodPost, "/api/import?replace=true", doc); rec.Code != http.StatusOK {
		t.Fatalf("import status = %d: %s", rec.Code, rec.Body)
	}
	if got := ts.ledger.Snapshot().FixedExpenses; len(got) != 0 {
		t.Errorf("ledger not reloaded after import: %+v", got)
	}

	doc.Version = "9.9"
	if rec := ts.do(t, http.MethodPost, "/api/import", doc); rec.Code != http.StatusUnprocessableEntity {
		t.Errorf("bad version status = %d, want 422", rec.Code)
	}

	if rec := ts.do(t, http.MethodPost, "/api/backups", nil); rec.Code != http.StatusCreated {
		t.Fatalf("backup status = %d: %s", rec.Code, rec.Body)
	}
	rec = ts.do(t, http.MethodGet, "/api/backups", nil)
	var list []backup.BackupInfo
	if err := json.NewDecoder(rec.Body).Decode(&list); err != nil || len(list) != 2 {
		t.Errorf("backups = %+v, %v; want the pre-replace snapshot and the manual one", list, err)
	}
}

// brokenExpenseStore refuses to add the fixed expense named badName.
type brokenExpenseStore struct {
	storage.Provider
	badName string
}

func (b *brokenExpenseStore) AddFixedExpense(f models.FixedExpense) error {
	if f.Name == b.badName {
		return errors.New("disk full")
	}
	return b.Provider.AddFixedExpense(f)
}

func TestReplacingImportRollsBack(t *testing.T) {
	ts := newTestServerWith(t, func(p storage.Provider) storage.Provider {
		return &brokenExpenseStore{Provider: p, badName: "Broken"}
	})
	ts.login(t)
	ts.do(t, http.MethodPost, "/api/expenses", models.FixedExpense{Name: "Rent", Amount: 1200, DueDay: 1, IsActive: true})

	doc := models.ExportDocument{
		Version:       constants.ExportVersion,
		FixedExpenses: []models.FixedExpense{{ID: "x1", Name: "Broken", Amount: 10, DueDay: 2, IsActive: true}},
	}
	rec := ts.do(t, http.MethodPost, "/api/import?replace=true", doc)
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("import status = %d, want 500: %s", rec.Code, rec.Body)
	}

	expenses := ts.ledger.Snapshot().FixedExpenses
	if len(expenses) != 1 || expenses[0].Name != "Rent" {
		t.Errorf("expenses after failed replace = %+v, want the original Rent", expenses)
	}
	if ts.ledger.Settings().PasswordHash == "" {
		t.Error("owner password lost after import")
	}

	list, err := ts.backups.ListBackups()
	if err != nil || len(list) != 1 {
		t.Errorf("backups = %+v, %v; want the pre-replace snapshot", list, err)
	}

	// Setup stays closed.
	if rec := ts.do(t, http.MethodPost, "/setup", credentials{Password: "another password"}); rec.Code != http.StatusConflict {
		t.Errorf("setup after import status = %d, want 409", rec.Code)
	}
}

func TestReminderJob(t *testing.T) {
	ts := newTestServer(t)
	notifier := ts.notifier.(*fakeNotifier)

	ts.reminderJob()
	if notifier.to != "" {
		t.Fatal("reminders should not be sent without an address")
	}

	settings := ts.ledger.Settings()
	settings.ReminderEmail = "driver@example.com"
	ts.ledger.SaveSettings(settings)
	ts.ledger.AddFixedExpense(models.FixedExpense{Name: "Insurance", Amount: 90, DueDay: 12, IsActive: true})

	ts.reminderJob()
	if notifier.to != "driver@example.com" || notifier.today != "2025-03-10" {
		t.Errorf("sent to %q on %q", notifier.to, notifier.today)
	}
	if len(notifier.sent) != 1 || notifier.sent[0].DueDate != "2025-03-12" {
		t.Errorf("sent = %+v", notifier.sent)
	}
}
