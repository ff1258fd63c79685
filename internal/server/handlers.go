package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taxism/backend/internal/docstore"
	"github.com/taxism/backend/internal/domain"
	"github.com/taxism/backend/internal/service"
)

const dateLayout = "2006-01-02"

// APIHandlers exposes HTTP handlers for the REST API.
type APIHandlers struct {
	logger  *slog.Logger
	service *service.PlannerService
}

// NewAPIHandlers constructs an APIHandlers instance.
func NewAPIHandlers(logger *slog.Logger, svc *service.PlannerService) *APIHandlers {
	return &APIHandlers{
		logger:  logger,
		service: svc,
	}
}

func (h *APIHandlers) handleProfiles(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.createProfile(w, r)
	case http.MethodGet:
		h.listProfiles(w, r)
	default:
		methodNotAllowed(w, http.MethodGet, http.MethodPost)
	}
}

func (h *APIHandlers) createProfile(w http.ResponseWriter, r *http.Request) {
	var payload profileRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.service.CreateProfile(r.Context(), service.ProfileInput{
		FullName:       payload.FullName,
		Email:          payload.Email,
		Country:        payload.Country,
		FilingStatus:   payload.FilingStatus,
		EmploymentType: payload.EmploymentType,
		Entities:       payload.Entities,
		RiskTolerance:  payload.RiskTolerance,
	})
	if err != nil {
		h.writeServiceError(w, err, "failed to persist profile")
		return
	}

	respondJSON(w, http.StatusCreated, statusResponse{Status: "ok", ID: id})
}

func (h *APIHandlers) listProfiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.service.ListProfiles(r.Context(), parseLimit(r))
	if err != nil {
		h.writeServiceError(w, err, "failed to list profiles")
		return
	}

	items := make([]storedProfileResponse, 0, len(profiles))
	for _, stored := range profiles {
		items = append(items, storedProfileResponse{
			ID:             stored.ID,
			FullName:       stored.Profile.FullName,
			Email:          stored.Profile.Email,
			Country:        stored.Profile.Country,
			FilingStatus:   string(stored.Profile.FilingStatus),
			EmploymentType: string(stored.Profile.EmploymentType),
			Entities:       stored.Profile.Entities,
			RiskTolerance:  string(stored.Profile.RiskTolerance),
		})
	}

	respondJSON(w, http.StatusOK, items)
}

func (h *APIHandlers) handleCalculateDepreciation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload depreciationCalcRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	input, err := payload.toServiceInput()
	if err != nil {
		h.writeServiceError(w, err, "invalid depreciation payload")
		return
	}

	record, err := h.service.CalculateDepreciation(input)
	if err != nil {
		h.writeServiceError(w, err, "failed to calculate depreciation")
		return
	}

	respondJSON(w, http.StatusOK, toDepreciationResponse(record))
}

func (h *APIHandlers) handleSaveDepreciation(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload depreciationRecordRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	input, err := payload.toServiceInput()
	if err != nil {
		h.writeServiceError(w, err, "invalid depreciation payload")
		return
	}

	id, err := h.service.SaveDepreciation(r.Context(), input)
	if err != nil {
		h.writeServiceError(w, err, "failed to persist depreciation record")
		return
	}

	respondJSON(w, http.StatusCreated, statusResponse{Status: "ok", ID: id})
}

func (h *APIHandlers) handleListDepreciations(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	records, err := h.service.ListDepreciations(r.Context(), parseLimit(r))
	if err != nil {
		h.writeServiceError(w, err, "failed to list depreciation records")
		return
	}

	items := make([]storedDepreciationResponse, 0, len(records))
	for _, stored := range records {
		items = append(items, storedDepreciationResponse{
			ID:                   stored.ID,
			depreciationResponse: toDepreciationResponse(stored.Record),
		})
	}

	respondJSON(w, http.StatusOK, items)
}

func (h *APIHandlers) handleScanHarvest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload harvestScanRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	plan, err := h.service.ScanHarvest(payload.toServiceInput())
	if err != nil {
		h.writeServiceError(w, err, "failed to scan portfolio")
		return
	}

	respondJSON(w, http.StatusOK, toHarvestPlanResponse(plan))
}

func (h *APIHandlers) handleSaveHarvestPlan(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload harvestPlanRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.service.SaveHarvestPlan(r.Context(), payload.toServiceInput())
	if err != nil {
		h.writeServiceError(w, err, "failed to persist harvest plan")
		return
	}

	respondJSON(w, http.StatusCreated, statusResponse{Status: "ok", ID: id})
}

func (h *APIHandlers) handleListHarvestPlans(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	plans, err := h.service.ListHarvestPlans(r.Context(), parseLimit(r))
	if err != nil {
		h.writeServiceError(w, err, "failed to list harvest plans")
		return
	}

	items := make([]storedHarvestPlanResponse, 0, len(plans))
	for _, stored := range plans {
		items = append(items, storedHarvestPlanResponse{
			ID:                  stored.ID,
			harvestPlanResponse: toHarvestPlanResponse(stored.Plan),
		})
	}

	respondJSON(w, http.StatusOK, items)
}

func (h *APIHandlers) handleGenerateMemo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload memoGenerateRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	memo, err := h.service.GenerateMemo(service.MemoInput{
		Title:           payload.Title,
		PositionSummary: payload.PositionSummary,
	})
	if err != nil {
		h.writeServiceError(w, err, "failed to generate memo")
		return
	}

	respondJSON(w, http.StatusOK, toMemoResponse(memo))
}

func (h *APIHandlers) handleSaveMemo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload memoRecordRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	id, err := h.service.SaveMemo(r.Context(), service.MemoRecordInput{
		Title:           payload.Title,
		PositionSummary: payload.PositionSummary,
		Citations:       payload.Citations,
		MemoText:        payload.MemoText,
	})
	if err != nil {
		h.writeServiceError(w, err, "failed to persist memo")
		return
	}

	respondJSON(w, http.StatusCreated, statusResponse{Status: "ok", ID: id})
}

func (h *APIHandlers) handleListMemos(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}

	memos, err := h.service.ListMemos(r.Context(), parseLimit(r))
	if err != nil {
		h.writeServiceError(w, err, "failed to list memos")
		return
	}

	items := make([]storedMemoResponse, 0, len(memos))
	for _, stored := range memos {
		items = append(items, storedMemoResponse{
			ID:           stored.ID,
			memoResponse: toMemoResponse(stored.Memo),
		})
	}

	respondJSON(w, http.StatusOK, items)
}

func (h *APIHandlers) handleWriteOffFlags(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}

	var payload []expenseRequest
	if err := decodeJSON(r, &payload); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	inputs := make([]service.ExpenseInput, 0, len(payload))
	for _, expense := range payload {
		inputs = append(inputs, service.ExpenseInput{
			Category: expense.Category,
			Amount:   decimal.NewFromFloat(expense.Amount),
		})
	}

	review := h.service.ReviewWriteOffs(inputs)

	flags := make([]expenseFlagResponse, 0, len(review.Flags))
	for _, flag := range review.Flags {
		flags = append(flags, expenseFlagResponse{
			Category: flag.Category,
			Hint:     flag.Hint,
		})
	}

	respondJSON(w, http.StatusOK, writeOffResponse{
		TotalReviewed: review.TotalReviewed.InexactFloat64(),
		Flags:         flags,
	})
}

// writeServiceError maps service failures onto HTTP statuses: validation
// problems are the caller's to fix, store failures are surfaced without
// retry.
func (h *APIHandlers) writeServiceError(w http.ResponseWriter, err error, logMsg string) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		respondJSON(w, http.StatusBadRequest, map[string]string{
			"error": validationErr.Error(),
			"field": validationErr.Field,
		})
		return
	}

	if errors.Is(err, docstore.ErrUnavailable) {
		h.logger.Error(logMsg, "error", err)
		writeError(w, http.StatusServiceUnavailable, "document store unavailable")
		return
	}

	var writeErr *docstore.WriteError
	if errors.As(err, &writeErr) {
		h.logger.Error(logMsg, "error", err, "collection", writeErr.Collection)
		writeError(w, http.StatusBadGateway, writeErr.Error())
		return
	}

	h.logger.Error(logMsg, "error", err)
	writeError(w, http.StatusInternalServerError, logMsg)
}

// --- Request & Response DTOs ---

type profileRequest struct {
	FullName       string   `json:"full_name"`
	Email          string   `json:"email"`
	Country        string   `json:"country"`
	FilingStatus   string   `json:"filing_status"`
	EmploymentType string   `json:"employment_type"`
	Entities       []string `json:"entities"`
	RiskTolerance  string   `json:"risk_tolerance"`
}

type storedProfileResponse struct {
	ID             string   `json:"id"`
	FullName       string   `json:"full_name"`
	Email          string   `json:"email"`
	Country        string   `json:"country"`
	FilingStatus   string   `json:"filing_status"`
	EmploymentType string   `json:"employment_type"`
	Entities       []string `json:"entities"`
	RiskTolerance  string   `json:"risk_tolerance"`
}

type depreciationCalcRequest struct {
	AssetName       string  `json:"asset_name"`
	CostBasis       float64 `json:"cost_basis"`
	PlacedInService string  `json:"placed_in_service"`
	LifeYears       int     `json:"life_years"`
}

type scheduleEntryPayload struct {
	Year   int     `json:"year"`
	Amount float64 `json:"amount"`
}

type depreciationRecordRequest struct {
	AssetName       string                 `json:"asset_name"`
	CostBasis       float64                `json:"cost_basis"`
	PlacedInService string                 `json:"placed_in_service"`
	Method          string                 `json:"method"`
	LifeYears       int                    `json:"life_years"`
	Schedule        []scheduleEntryPayload `json:"schedule"`
}

type depreciationResponse struct {
	AssetName       string                 `json:"asset_name"`
	CostBasis       float64                `json:"cost_basis"`
	PlacedInService string                 `json:"placed_in_service"`
	Method          string                 `json:"method"`
	LifeYears       int                    `json:"life_years"`
	Schedule        []scheduleEntryPayload `json:"schedule"`
}

type storedDepreciationResponse struct {
	ID string `json:"id"`
	depreciationResponse
}

type positionPayload struct {
	Symbol       string  `json:"symbol"`
	CostBasis    float64 `json:"cost_basis"`
	CurrentPrice float64 `json:"current_price"`
	Quantity     float64 `json:"quantity"`
}

type harvestScanRequest struct {
	PortfolioName string            `json:"portfolio_name"`
	Positions     []positionPayload `json:"positions"`
	Threshold     *float64          `json:"threshold"`
}

type candidatePayload struct {
	Symbol     string  `json:"symbol"`
	Unrealized float64 `json:"unrealized"`
	Note       string  `json:"note"`
}

type harvestPlanRequest struct {
	PortfolioName     string             `json:"portfolio_name"`
	Threshold         float64            `json:"threshold"`
	PositionsReviewed int                `json:"positions_reviewed"`
	Candidates        []candidatePayload `json:"candidates"`
}

type harvestPlanResponse struct {
	PortfolioName     string             `json:"portfolio_name"`
	Threshold         float64            `json:"threshold"`
	PositionsReviewed int                `json:"positions_reviewed"`
	Candidates        []candidatePayload `json:"candidates"`
}

type storedHarvestPlanResponse struct {
	ID string `json:"id"`
	harvestPlanResponse
}

type memoGenerateRequest struct {
	Title           string `json:"title"`
	PositionSummary string `json:"position_summary"`
}

type memoRecordRequest struct {
	Title           string   `json:"title"`
	PositionSummary string   `json:"position_summary"`
	Citations       []string `json:"citations"`
	MemoText        string   `json:"memo_text"`
}

type memoResponse struct {
	Title           string   `json:"title"`
	PositionSummary string   `json:"position_summary"`
	Citations       []string `json:"citations"`
	MemoText        string   `json:"memo_text"`
}

type storedMemoResponse struct {
	ID string `json:"id"`
	memoResponse
}

type expenseRequest struct {
	Category string  `json:"category"`
	Amount   float64 `json:"amount"`
}

type expenseFlagResponse struct {
	Category string `json:"category"`
	Hint     string `json:"hint"`
}

type writeOffResponse struct {
	TotalReviewed float64               `json:"total_reviewed"`
	Flags         []expenseFlagResponse `json:"flags"`
}

type statusResponse struct {
	Status string `json:"status"`
	ID     string `json:"id"`
}

// --- Conversions ---

func (req depreciationCalcRequest) toServiceInput() (service.DepreciationInput, error) {
	placed, err := parseDate("placed_in_service", req.PlacedInService)
	if err != nil {
		return service.DepreciationInput{}, err
	}
	return service.DepreciationInput{
		AssetName:       req.AssetName,
		CostBasis:       decimal.NewFromFloat(req.CostBasis),
		PlacedInService: placed,
		LifeYears:       req.LifeYears,
	}, nil
}

func (req depreciationRecordRequest) toServiceInput() (service.DepreciationRecordInput, error) {
	placed, err := parseDate("placed_in_service", req.PlacedInService)
	if err != nil {
		return service.DepreciationRecordInput{}, err
	}

	method := req.Method
	if method == "" {
		method = domain.MethodStraightLine
	}

	input := service.DepreciationRecordInput{
		AssetName:       req.AssetName,
		CostBasis:       decimal.NewFromFloat(req.CostBasis),
		PlacedInService: placed,
		Method:          method,
		LifeYears:       req.LifeYears,
	}
	for _, entry := range req.Schedule {
		input.Schedule = append(input.Schedule, service.ScheduleEntryInput{
			Year:   entry.Year,
			Amount: decimal.NewFromFloat(entry.Amount),
		})
	}
	return input, nil
}

func (req harvestScanRequest) toServiceInput() service.HarvestInput {
	input := service.HarvestInput{
		PortfolioName: req.PortfolioName,
	}
	if req.Threshold != nil {
		threshold := decimal.NewFromFloat(*req.Threshold)
		input.Threshold = &threshold
	}
	for _, pos := range req.Positions {
		input.Positions = append(input.Positions, service.PositionInput{
			Symbol:       pos.Symbol,
			CostBasis:    decimal.NewFromFloat(pos.CostBasis),
			CurrentPrice: decimal.NewFromFloat(pos.CurrentPrice),
			Quantity:     decimal.NewFromFloat(pos.Quantity),
		})
	}
	return input
}

func (req harvestPlanRequest) toServiceInput() service.HarvestPlanInput {
	input := service.HarvestPlanInput{
		PortfolioName:     req.PortfolioName,
		Threshold:         decimal.NewFromFloat(req.Threshold),
		PositionsReviewed: req.PositionsReviewed,
	}
	for _, candidate := range req.Candidates {
		input.Candidates = append(input.Candidates, service.CandidateInput{
			Symbol:     candidate.Symbol,
			Unrealized: decimal.NewFromFloat(candidate.Unrealized),
			Note:       candidate.Note,
		})
	}
	return input
}

func toDepreciationResponse(record domain.DepreciationRecord) depreciationResponse {
	schedule := make([]scheduleEntryPayload, 0, len(record.Schedule))
	for _, entry := range record.Schedule {
		schedule = append(schedule, scheduleEntryPayload{
			Year:   entry.Year,
			Amount: entry.Amount.InexactFloat64(),
		})
	}
	return depreciationResponse{
		AssetName:       record.AssetName,
		CostBasis:       record.CostBasis.InexactFloat64(),
		PlacedInService: record.PlacedInService.Format(dateLayout),
		Method:          record.Method,
		LifeYears:       record.LifeYears,
		Schedule:        schedule,
	}
}

func toHarvestPlanResponse(plan domain.HarvestPlan) harvestPlanResponse {
	candidates := make([]candidatePayload, 0, len(plan.Candidates))
	for _, candidate := range plan.Candidates {
		candidates = append(candidates, candidatePayload{
			Symbol:     candidate.Symbol,
			Unrealized: candidate.Unrealized.InexactFloat64(),
			Note:       candidate.Note,
		})
	}
	return harvestPlanResponse{
		PortfolioName:     plan.PortfolioName,
		Threshold:         plan.Threshold.InexactFloat64(),
		PositionsReviewed: plan.PositionsReviewed,
		Candidates:        candidates,
	}
}

func toMemoResponse(memo domain.Memo) memoResponse {
	citations := memo.Citations
	if citations == nil {
		citations = []string{}
	}
	return memoResponse{
		Title:           memo.Title,
		PositionSummary: memo.PositionSummary,
		Citations:       citations,
		MemoText:        memo.MemoText,
	}
}

// --- Helpers ---

func parseDate(field, value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, &domain.ValidationError{Field: field, Constraint: "must be a calendar date (YYYY-MM-DD)"}
	}
	ts, err := time.Parse(dateLayout, value)
	if err != nil {
		return time.Time{}, &domain.ValidationError{Field: field, Constraint: "must be a calendar date (YYYY-MM-DD)"}
	}
	return ts, nil
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return errors.New("request body is required")
	}
	defer r.Body.Close()

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(dst); err != nil {
		return err
	}
	return nil
}

func parseLimit(r *http.Request) int {
	value := r.URL.Query().Get("limit")
	if value == "" {
		return 0
	}
	if v, err := strconv.Atoi(value); err == nil {
		return v
	}
	return 0
}

func writeError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, map[string]string{
		"error": msg,
	})
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	writeError(w, http.StatusMethodNotAllowed, "method not allowed")
}
