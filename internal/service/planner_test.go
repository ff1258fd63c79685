package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taxism/backend/internal/domain"
)

type stubStore struct {
	profiles      []domain.UserProfile
	depreciations []domain.DepreciationRecord
	plans         []domain.HarvestPlan
	memos         []domain.Memo

	saveErr   error
	listLimit int
}

func (s *stubStore) SaveProfile(_ context.Context, profile domain.UserProfile) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.profiles = append(s.profiles, profile)
	return "doc-1", nil
}

func (s *stubStore) ListProfiles(_ context.Context, limit int) ([]domain.StoredProfile, error) {
	s.listLimit = limit
	return nil, nil
}

func (s *stubStore) SaveDepreciation(_ context.Context, record domain.DepreciationRecord) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.depreciations = append(s.depreciations, record)
	return "doc-2", nil
}

func (s *stubStore) ListDepreciations(_ context.Context, limit int) ([]domain.StoredDepreciation, error) {
	s.listLimit = limit
	return nil, nil
}

func (s *stubStore) SaveHarvestPlan(_ context.Context, plan domain.HarvestPlan) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.plans = append(s.plans, plan)
	return "doc-3", nil
}

func (s *stubStore) ListHarvestPlans(_ context.Context, limit int) ([]domain.StoredHarvestPlan, error) {
	s.listLimit = limit
	return nil, nil
}

func (s *stubStore) SaveMemo(_ context.Context, memo domain.Memo) (string, error) {
	if s.saveErr != nil {
		return "", s.saveErr
	}
	s.memos = append(s.memos, memo)
	return "doc-4", nil
}

func (s *stubStore) ListMemos(_ context.Context, limit int) ([]domain.StoredMemo, error) {
	s.listLimit = limit
	return nil, nil
}

func validProfileInput() ProfileInput {
	return ProfileInput{
		FullName:       "Jane Doe",
		Email:          "jane@example.com",
		Country:        "US",
		FilingStatus:   "single",
		EmploymentType: "consultant",
	}
}

func TestCreateProfile(t *testing.T) {
	store := &stubStore{}
	svc := NewPlannerService(store)

	id, err := svc.CreateProfile(context.Background(), validProfileInput())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if id != "doc-1" {
		t.Errorf("expected store-assigned id, got %s", id)
	}
	if len(store.profiles) != 1 {
		t.Fatalf("expected 1 stored profile, got %d", len(store.profiles))
	}
	if store.profiles[0].RiskTolerance != domain.RiskMedium {
		t.Errorf("expected default risk tolerance, got %s", store.profiles[0].RiskTolerance)
	}
}

func TestCreateProfileValidationSkipsStore(t *testing.T) {
	store := &stubStore{}
	svc := NewPlannerService(store)

	input := validProfileInput()
	input.Email = "not-an-address"

	_, err := svc.CreateProfile(context.Background(), input)
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != "email" {
		t.Errorf("expected email field, got %s", validationErr.Field)
	}
	if len(store.profiles) != 0 {
		t.Errorf("expected no store write on validation failure")
	}
}

func TestCalculateDepreciation(t *testing.T) {
	svc := NewPlannerService(&stubStore{})

	record, err := svc.CalculateDepreciation(DepreciationInput{
		AssetName:       "Office laptop",
		CostBasis:       decimal.NewFromInt(12000),
		PlacedInService: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		LifeYears:       5,
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if len(record.Schedule) != 5 {
		t.Fatalf("expected 5 entries, got %d", len(record.Schedule))
	}
	for _, entry := range record.Schedule {
		if !entry.Amount.Equal(decimal.NewFromInt(2400)) {
			t.Errorf("year %d: expected 2400, got %s", entry.Year, entry.Amount)
		}
	}
}

func TestCalculateDepreciationRejectsOutOfRangeLife(t *testing.T) {
	svc := NewPlannerService(&stubStore{})

	_, err := svc.CalculateDepreciation(DepreciationInput{
		AssetName:       "Office laptop",
		CostBasis:       decimal.NewFromInt(100),
		PlacedInService: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		LifeYears:       41,
	})
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != "life_years" {
		t.Errorf("expected life_years field, got %s", validationErr.Field)
	}
}

func TestSaveDepreciationValidatesRecord(t *testing.T) {
	store := &stubStore{}
	svc := NewPlannerService(store)

	// Schedule shorter than the recovery period must be rejected.
	_, err := svc.SaveDepreciation(context.Background(), DepreciationRecordInput{
		AssetName:       "Office laptop",
		CostBasis:       decimal.NewFromInt(12000),
		PlacedInService: time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC),
		Method:          domain.MethodStraightLine,
		LifeYears:       5,
		Schedule: []ScheduleEntryInput{
			{Year: 1, Amount: decimal.NewFromInt(2400)},
		},
	})
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if len(store.depreciations) != 0 {
		t.Errorf("expected no store write on validation failure")
	}
}

func TestScanHarvestDefaultThreshold(t *testing.T) {
	svc := NewPlannerService(&stubStore{})

	plan, err := svc.ScanHarvest(HarvestInput{
		PortfolioName: "Taxable brokerage",
		Positions: []PositionInput{
			// Loss of 600 beats the default threshold of 500.
			{Symbol: "AAPL", CostBasis: decimal.NewFromInt(100), CurrentPrice: decimal.NewFromInt(40), Quantity: decimal.NewFromInt(10)},
			// Loss of 400 does not.
			{Symbol: "MSFT", CostBasis: decimal.NewFromInt(100), CurrentPrice: decimal.NewFromInt(60), Quantity: decimal.NewFromInt(10)},
		},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if !plan.Threshold.Equal(decimal.NewFromInt(500)) {
		t.Errorf("expected default threshold 500, got %s", plan.Threshold)
	}
	if plan.PositionsReviewed != 2 {
		t.Errorf("expected 2 positions reviewed, got %d", plan.PositionsReviewed)
	}
	if len(plan.Candidates) != 1 || plan.Candidates[0].Symbol != "AAPL" {
		t.Fatalf("expected single AAPL candidate, got %+v", plan.Candidates)
	}
}

func TestScanHarvestRejectsNegativeThreshold(t *testing.T) {
	svc := NewPlannerService(&stubStore{})

	negative := decimal.NewFromInt(-10)
	_, err := svc.ScanHarvest(HarvestInput{
		PortfolioName: "Taxable brokerage",
		Threshold:     &negative,
	})
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != "threshold" {
		t.Errorf("expected threshold field, got %s", validationErr.Field)
	}
}

func TestGenerateMemoRequiresFields(t *testing.T) {
	svc := NewPlannerService(&stubStore{})

	_, err := svc.GenerateMemo(MemoInput{Title: "", PositionSummary: "summary"})
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
	if validationErr.Field != "title" {
		t.Errorf("expected title field, got %s", validationErr.Field)
	}

	memo, err := svc.GenerateMemo(MemoInput{Title: "t", PositionSummary: "s"})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if memo.MemoText == "" {
		t.Error("expected rendered memo text")
	}
}

func TestReviewWriteOffs(t *testing.T) {
	svc := NewPlannerService(&stubStore{})

	review := svc.ReviewWriteOffs([]ExpenseInput{
		{Category: "Mileage", Amount: decimal.NewFromInt(120)},
		{Category: "Travel", Amount: decimal.NewFromInt(80)},
	})
	if !review.TotalReviewed.Equal(decimal.NewFromInt(200)) {
		t.Errorf("expected total 200, got %s", review.TotalReviewed)
	}
	if len(review.Flags) != 1 || review.Flags[0].Category != "Mileage" {
		t.Fatalf("expected single Mileage flag, got %+v", review.Flags)
	}
}

func TestListLimitsAreClamped(t *testing.T) {
	store := &stubStore{}
	svc := NewPlannerService(store)

	if _, err := svc.ListProfiles(context.Background(), 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.listLimit != defaultListLimit {
		t.Errorf("expected default limit %d, got %d", defaultListLimit, store.listLimit)
	}

	if _, err := svc.ListMemos(context.Background(), 10_000); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if store.listLimit != maxListLimit {
		t.Errorf("expected max limit %d, got %d", maxListLimit, store.listLimit)
	}
}

func TestSaveErrorsSurfaceUnwrapped(t *testing.T) {
	rejection := errors.New("store rejected write")
	store := &stubStore{saveErr: rejection}
	svc := NewPlannerService(store)

	_, err := svc.CreateProfile(context.Background(), validProfileInput())
	if !errors.Is(err, rejection) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}
