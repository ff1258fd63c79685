package server

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/taxism/backend/internal/docstore"
	"github.com/taxism/backend/internal/repository"
	"github.com/taxism/backend/internal/service"
)

func newTestHandlers(client docstore.Client) *APIHandlers {
	svc := service.NewPlannerService(repository.New(client))
	return NewAPIHandlers(slog.New(slog.NewTextHandler(io.Discard, nil)), svc)
}

func TestHandleCalculateDepreciation(t *testing.T) {
	handlers := newTestHandlers(docstore.NewMemoryClient())

	body := `{"asset_name":"Office laptop","cost_basis":12000,"placed_in_service":"2024-03-15","life_years":5}`
	req := httptest.NewRequest(http.MethodPost, "/api/depreciation/calc", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handlers.handleCalculateDepreciation(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload depreciationResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.Method != "SL" {
		t.Errorf("expected method SL, got %s", payload.Method)
	}
	if len(payload.Schedule) != 5 {
		t.Fatalf("expected 5 schedule entries, got %d", len(payload.Schedule))
	}
	for i, entry := range payload.Schedule {
		if entry.Year != i+1 {
			t.Errorf("entry %d: expected year %d, got %d", i, i+1, entry.Year)
		}
		if entry.Amount != 2400 {
			t.Errorf("entry %d: expected amount 2400, got %v", i, entry.Amount)
		}
	}
}

func TestHandleCalculateDepreciationValidation(t *testing.T) {
	handlers := newTestHandlers(docstore.NewMemoryClient())

	body := `{"asset_name":"Office laptop","cost_basis":12000,"placed_in_service":"2024-03-15","life_years":50}`
	req := httptest.NewRequest(http.MethodPost, "/api/depreciation/calc", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handlers.handleCalculateDepreciation(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["field"] != "life_years" {
		t.Errorf("expected field life_years, got %s", payload["field"])
	}
}

func TestHandleScanHarvest(t *testing.T) {
	handlers := newTestHandlers(docstore.NewMemoryClient())

	body := `{
		"portfolio_name": "Taxable brokerage",
		"positions": [
			{"symbol":"AAPL","cost_basis":100,"current_price":40,"quantity":10},
			{"symbol":"MSFT","cost_basis":100,"current_price":120,"quantity":10}
		],
		"threshold": 500
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/harvest/scan", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handlers.handleScanHarvest(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload harvestPlanResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.PositionsReviewed != 2 {
		t.Errorf("expected 2 positions reviewed, got %d", payload.PositionsReviewed)
	}
	if len(payload.Candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(payload.Candidates))
	}
	if payload.Candidates[0].Symbol != "AAPL" {
		t.Errorf("expected AAPL candidate, got %s", payload.Candidates[0].Symbol)
	}
	if payload.Candidates[0].Unrealized != -600 {
		t.Errorf("expected unrealized -600, got %v", payload.Candidates[0].Unrealized)
	}
	if payload.Candidates[0].Note == "" {
		t.Error("expected wash-sale note on candidate")
	}
}

func TestHandleWriteOffFlags(t *testing.T) {
	handlers := newTestHandlers(docstore.NewMemoryClient())

	body := `[{"category":"Mileage","amount":120},{"category":"Travel","amount":80}]`
	req := httptest.NewRequest(http.MethodPost, "/api/flags/writeoffs", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handlers.handleWriteOffFlags(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var payload writeOffResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload.TotalReviewed != 200 {
		t.Errorf("expected total 200, got %v", payload.TotalReviewed)
	}
	if len(payload.Flags) != 1 || payload.Flags[0].Category != "Mileage" {
		t.Fatalf("expected single Mileage flag, got %+v", payload.Flags)
	}
}

func TestHandleGenerateMemoDeterministic(t *testing.T) {
	handlers := newTestHandlers(docstore.NewMemoryClient())

	body := `{"title":"Home office deduction","position_summary":"Dedicated room used for client work."}`

	run := func() memoResponse {
		req := httptest.NewRequest(http.MethodPost, "/api/memo/generate", strings.NewReader(body))
		rec := httptest.NewRecorder()
		handlers.handleGenerateMemo(rec, req)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected status 200, got %d: %s", rec.Code, rec.Body.String())
		}
		var payload memoResponse
		if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
			t.Fatalf("failed to decode response: %v", err)
		}
		return payload
	}

	first := run()
	second := run()

	if first.MemoText == "" {
		t.Fatal("expected rendered memo text")
	}
	if first.MemoText != second.MemoText {
		t.Error("expected identical memo text for identical input")
	}
	if first.Citations == nil || len(first.Citations) != 0 {
		t.Errorf("expected empty citations, got %v", first.Citations)
	}
}

func TestCreateAndListProfiles(t *testing.T) {
	handlers := newTestHandlers(docstore.NewMemoryClient())

	body := `{
		"full_name": "Jane Doe",
		"email": "jane@example.com",
		"country": "US",
		"filing_status": "single",
		"employment_type": "consultant",
		"entities": ["LLC"],
		"risk_tolerance": "high"
	}`
	req := httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handlers.handleProfiles(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected status 201, got %d: %s", rec.Code, rec.Body.String())
	}

	var created statusResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &created); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if created.Status != "ok" || created.ID == "" {
		t.Fatalf("unexpected create response: %+v", created)
	}

	listReq := httptest.NewRequest(http.MethodGet, "/api/profile?limit=20", nil)
	listRec := httptest.NewRecorder()

	handlers.handleProfiles(listRec, listReq)

	if listRec.Code != http.StatusOK {
		t.Fatalf("expected status 200, got %d", listRec.Code)
	}

	var profiles []storedProfileResponse
	if err := json.Unmarshal(listRec.Body.Bytes(), &profiles); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if len(profiles) != 1 {
		t.Fatalf("expected 1 profile, got %d", len(profiles))
	}
	if profiles[0].ID != created.ID {
		t.Errorf("expected listed id %s, got %s", created.ID, profiles[0].ID)
	}
	if profiles[0].FilingStatus != "single" {
		t.Errorf("expected filing_status single, got %s", profiles[0].FilingStatus)
	}
}

func TestCreateProfileRejectsUnknownEnum(t *testing.T) {
	handlers := newTestHandlers(docstore.NewMemoryClient())

	body := `{"full_name":"Jane Doe","email":"jane@example.com","country":"US","filing_status":"widowed","employment_type":"consultant"}`
	req := httptest.NewRequest(http.MethodPost, "/api/profile", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handlers.handleProfiles(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected status 400, got %d", rec.Code)
	}

	var payload map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	if payload["field"] != "filing_status" {
		t.Errorf("expected field filing_status, got %s", payload["field"])
	}
}

func TestSaveEndpointsMapStoreErrors(t *testing.T) {
	client := docstore.NewMemoryClient().WithInsertError(io.ErrClosedPipe)
	handlers := newTestHandlers(client)

	body := `{"title":"t","position_summary":"s","memo_text":"m"}`
	req := httptest.NewRequest(http.MethodPost, "/api/memo/save", strings.NewReader(body))
	rec := httptest.NewRecorder()

	handlers.handleSaveMemo(rec, req)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected status 502, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestListEndpointsMapUnavailable(t *testing.T) {
	client := docstore.NewMemoryClient().WithListError(docstore.ErrUnavailable)
	handlers := newTestHandlers(client)

	req := httptest.NewRequest(http.MethodGet, "/api/memo", nil)
	rec := httptest.NewRecorder()

	handlers.handleListMemos(rec, req)

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected status 503, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestMethodNotAllowed(t *testing.T) {
	handlers := newTestHandlers(docstore.NewMemoryClient())

	req := httptest.NewRequest(http.MethodDelete, "/api/depreciation/calc", nil)
	rec := httptest.NewRecorder()

	handlers.handleCalculateDepreciation(rec, req)

	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected status 405, got %d", rec.Code)
	}
	if allow := rec.Header().Get("Allow"); allow != http.MethodPost {
		t.Errorf("expected Allow header POST, got %q", allow)
	}
}
