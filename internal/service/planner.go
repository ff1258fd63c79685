package service

import (
	"context"
	"fmt"

	"github.com/taxism/backend/internal/calc"
	"github.com/taxism/backend/internal/domain"
)

// Store is the persistence contract required by the planner service.
// Implementations surface docstore errors verbatim; the service never
// retries a failed read or write.
type Store interface {
	SaveProfile(ctx context.Context, profile domain.UserProfile) (string, error)
	ListProfiles(ctx context.Context, limit int) ([]domain.StoredProfile, error)
	SaveDepreciation(ctx context.Context, record domain.DepreciationRecord) (string, error)
	ListDepreciations(ctx context.Context, limit int) ([]domain.StoredDepreciation, error)
	SaveHarvestPlan(ctx context.Context, plan domain.HarvestPlan) (string, error)
	ListHarvestPlans(ctx context.Context, limit int) ([]domain.StoredHarvestPlan, error)
	SaveMemo(ctx context.Context, memo domain.Memo) (string, error)
	ListMemos(ctx context.Context, limit int) ([]domain.StoredMemo, error)
}

const (
	defaultListLimit = 20
	maxListLimit     = 200
)

// PlannerService validates inbound payloads, routes them to the matching
// calculator and optionally persists the result. Every calculation is a
// pure function of its input; requests share no state.
type PlannerService struct {
	store Store
}

// NewPlannerService constructs a PlannerService around the given store.
func NewPlannerService(store Store) *PlannerService {
	return &PlannerService{store: store}
}

// CreateProfile validates and persists a user profile, returning the
// assigned document identifier.
func (s *PlannerService) CreateProfile(ctx context.Context, input ProfileInput) (string, error) {
	profile, err := domain.NewUserProfile(domain.NewUserProfileParams{
		FullName:       input.FullName,
		Email:          input.Email,
		Country:        input.Country,
		FilingStatus:   input.FilingStatus,
		EmploymentType: input.EmploymentType,
		Entities:       input.Entities,
		RiskTolerance:  input.RiskTolerance,
	})
	if err != nil {
		return "", err
	}

	id, err := s.store.SaveProfile(ctx, profile)
	if err != nil {
		return "", fmt.Errorf("save profile: %w", err)
	}
	return id, nil
}

// ListProfiles returns stored profiles, newest-bounded by limit.
func (s *PlannerService) ListProfiles(ctx context.Context, limit int) ([]domain.StoredProfile, error) {
	return s.store.ListProfiles(ctx, clampLimit(limit))
}

// CalculateDepreciation validates the input and produces a straight-line
// schedule. Nothing is persisted.
func (s *PlannerService) CalculateDepreciation(input DepreciationInput) (domain.DepreciationRecord, error) {
	if err := validateDepreciationInput(input); err != nil {
		return domain.DepreciationRecord{}, err
	}
	return calc.StraightLine(input.AssetName, input.CostBasis, input.PlacedInService, input.LifeYears), nil
}

// SaveDepreciation validates and persists a complete schedule record.
func (s *PlannerService) SaveDepreciation(ctx context.Context, input DepreciationRecordInput) (string, error) {
	record := domain.DepreciationRecord{
		AssetName:       input.AssetName,
		CostBasis:       input.CostBasis,
		PlacedInService: input.PlacedInService,
		Method:          input.Method,
		LifeYears:       input.LifeYears,
	}
	for _, entry := range input.Schedule {
		record.Schedule = append(record.Schedule, domain.ScheduleEntry{
			Year:   entry.Year,
			Amount: entry.Amount,
		})
	}
	if err := record.Validate(); err != nil {
		return "", err
	}

	id, err := s.store.SaveDepreciation(ctx, record)
	if err != nil {
		return "", fmt.Errorf("save depreciation record: %w", err)
	}
	return id, nil
}

// ListDepreciations returns stored depreciation records.
func (s *PlannerService) ListDepreciations(ctx context.Context, limit int) ([]domain.StoredDepreciation, error) {
	return s.store.ListDepreciations(ctx, clampLimit(limit))
}

// ScanHarvest validates the input and runs the loss-harvest scan.
// Nothing is persisted.
func (s *PlannerService) ScanHarvest(input HarvestInput) (domain.HarvestPlan, error) {
	if err := requireField("portfolio_name", input.PortfolioName); err != nil {
		return domain.HarvestPlan{}, err
	}

	threshold := domain.DefaultHarvestThreshold
	if input.Threshold != nil {
		threshold = *input.Threshold
	}
	if err := domain.ValidateThreshold(threshold); err != nil {
		return domain.HarvestPlan{}, err
	}

	positions := make([]domain.Position, 0, len(input.Positions))
	for _, pos := range input.Positions {
		positions = append(positions, domain.Position{
			Symbol:       pos.Symbol,
			CostBasis:    pos.CostBasis,
			CurrentPrice: pos.CurrentPrice,
			Quantity:     pos.Quantity,
		})
	}

	return calc.ScanHarvest(input.PortfolioName, positions, threshold), nil
}

// SaveHarvestPlan validates and persists a plan snapshot.
func (s *PlannerService) SaveHarvestPlan(ctx context.Context, input HarvestPlanInput) (string, error) {
	plan := domain.HarvestPlan{
		PortfolioName:     input.PortfolioName,
		Threshold:         input.Threshold,
		PositionsReviewed: input.PositionsReviewed,
	}
	for _, candidate := range input.Candidates {
		plan.Candidates = append(plan.Candidates, domain.HarvestCandidate{
			Symbol:     candidate.Symbol,
			Unrealized: candidate.Unrealized,
			Note:       candidate.Note,
		})
	}
	if err := plan.Validate(); err != nil {
		return "", err
	}

	id, err := s.store.SaveHarvestPlan(ctx, plan)
	if err != nil {
		return "", fmt.Errorf("save harvest plan: %w", err)
	}
	return id, nil
}

// ListHarvestPlans returns stored harvest plans.
func (s *PlannerService) ListHarvestPlans(ctx context.Context, limit int) ([]domain.StoredHarvestPlan, error) {
	return s.store.ListHarvestPlans(ctx, clampLimit(limit))
}

// GenerateMemo validates the input and renders a defense memo. Nothing
// is persisted.
func (s *PlannerService) GenerateMemo(input MemoInput) (domain.Memo, error) {
	if err := requireField("title", input.Title); err != nil {
		return domain.Memo{}, err
	}
	if err := requireField("position_summary", input.PositionSummary); err != nil {
		return domain.Memo{}, err
	}
	return calc.GenerateMemo(input.Title, input.PositionSummary), nil
}

// SaveMemo validates and persists a complete memo.
func (s *PlannerService) SaveMemo(ctx context.Context, input MemoRecordInput) (string, error) {
	memo := domain.Memo{
		Title:           input.Title,
		PositionSummary: input.PositionSummary,
		Citations:       input.Citations,
		MemoText:        input.MemoText,
	}
	if memo.Citations == nil {
		memo.Citations = []string{}
	}
	if err := memo.Validate(); err != nil {
		return "", err
	}

	id, err := s.store.SaveMemo(ctx, memo)
	if err != nil {
		return "", fmt.Errorf("save memo: %w", err)
	}
	return id, nil
}

// ListMemos returns stored memos.
func (s *PlannerService) ListMemos(ctx context.Context, limit int) ([]domain.StoredMemo, error) {
	return s.store.ListMemos(ctx, clampLimit(limit))
}

// ReviewWriteOffs scans the expense batch for overlooked write-offs.
// Expenses are transient; nothing is persisted.
func (s *PlannerService) ReviewWriteOffs(inputs []ExpenseInput) domain.WriteOffReview {
	expenses := make([]domain.Expense, 0, len(inputs))
	for _, input := range inputs {
		expenses = append(expenses, domain.Expense{
			Category: input.Category,
			Amount:   input.Amount,
		})
	}
	return calc.ReviewWriteOffs(expenses)
}

func validateDepreciationInput(input DepreciationInput) error {
	if err := requireField("asset_name", input.AssetName); err != nil {
		return err
	}
	if err := domain.ValidateCostBasis(input.CostBasis); err != nil {
		return err
	}
	if err := domain.ValidateLifeYears(input.LifeYears); err != nil {
		return err
	}
	if input.PlacedInService.IsZero() {
		return &domain.ValidationError{Field: "placed_in_service", Constraint: "must be a calendar date"}
	}
	return nil
}

func requireField(field, value string) error {
	if value == "" {
		return &domain.ValidationError{Field: field, Constraint: "must not be empty"}
	}
	return nil
}

func clampLimit(limit int) int {
	if limit <= 0 {
		return defaultListLimit
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
