package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taxism/backend/internal/docstore"
	"github.com/taxism/backend/internal/domain"
)

const dateLayout = "2006-01-02"

// Repository persists and retrieves planning records through the document
// store. Records are written as new documents, never updated in place.
type Repository struct {
	client docstore.Client
}

// New instantiates a Repository backed by the supplied store client.
func New(client docstore.Client) *Repository {
	return &Repository{client: client}
}

// SaveProfile stores a user profile and returns its assigned identifier.
func (r *Repository) SaveProfile(ctx context.Context, profile domain.UserProfile) (string, error) {
	doc := docstore.Document{
		"full_name":       profile.FullName,
		"email":           profile.Email,
		"country":         profile.Country,
		"filing_status":   string(profile.FilingStatus),
		"employment_type": string(profile.EmploymentType),
		"entities":        profile.Entities,
		"risk_tolerance":  string(profile.RiskTolerance),
	}
	return r.client.Insert(ctx, domain.CollectionUserProfile, doc)
}

// ListProfiles returns up to limit stored profiles in insertion order.
func (r *Repository) ListProfiles(ctx context.Context, limit int) ([]domain.StoredProfile, error) {
	docs, err := r.client.List(ctx, domain.CollectionUserProfile, limit)
	if err != nil {
		return nil, fmt.Errorf("list profiles: %w", err)
	}

	profiles := make([]domain.StoredProfile, 0, len(docs))
	for _, doc := range docs {
		profiles = append(profiles, domain.StoredProfile{
			ID: toString(doc["id"]),
			Profile: domain.UserProfile{
				FullName:       toString(doc["full_name"]),
				Email:          toString(doc["email"]),
				Country:        toString(doc["country"]),
				FilingStatus:   domain.FilingStatus(toString(doc["filing_status"])),
				EmploymentType: domain.EmploymentType(toString(doc["employment_type"])),
				Entities:       toStringSlice(doc["entities"]),
				RiskTolerance:  domain.RiskTolerance(toString(doc["risk_tolerance"])),
			},
		})
	}
	return profiles, nil
}

// SaveDepreciation stores a depreciation record.
func (r *Repository) SaveDepreciation(ctx context.Context, record domain.DepreciationRecord) (string, error) {
	schedule := make([]map[string]any, 0, len(record.Schedule))
	for _, entry := range record.Schedule {
		schedule = append(schedule, map[string]any{
			"year":   entry.Year,
			"amount": entry.Amount.InexactFloat64(),
		})
	}

	doc := docstore.Document{
		"asset_name":        record.AssetName,
		"cost_basis":        record.CostBasis.InexactFloat64(),
		"placed_in_service": record.PlacedInService.Format(dateLayout),
		"method":            record.Method,
		"life_years":        record.LifeYears,
		"schedule":          schedule,
	}
	return r.client.Insert(ctx, domain.CollectionDepreciation, doc)
}

// ListDepreciations returns up to limit stored depreciation records.
func (r *Repository) ListDepreciations(ctx context.Context, limit int) ([]domain.StoredDepreciation, error) {
	docs, err := r.client.List(ctx, domain.CollectionDepreciation, limit)
	if err != nil {
		return nil, fmt.Errorf("list depreciation records: %w", err)
	}

	records := make([]domain.StoredDepreciation, 0, len(docs))
	for _, doc := range docs {
		record := domain.DepreciationRecord{
			AssetName: toString(doc["asset_name"]),
			CostBasis: toDecimal(doc["cost_basis"]),
			Method:    toString(doc["method"]),
			LifeYears: toInt(doc["life_years"]),
		}
		if placed, err := time.Parse(dateLayout, toString(doc["placed_in_service"])); err == nil {
			record.PlacedInService = placed
		}
		for _, raw := range toMapSlice(doc["schedule"]) {
			record.Schedule = append(record.Schedule, domain.ScheduleEntry{
				Year:   toInt(raw["year"]),
				Amount: toDecimal(raw["amount"]),
			})
		}
		records = append(records, domain.StoredDepreciation{
			ID:     toString(doc["id"]),
			Record: record,
		})
	}
	return records, nil
}

// SaveHarvestPlan stores a harvest plan snapshot.
func (r *Repository) SaveHarvestPlan(ctx context.Context, plan domain.HarvestPlan) (string, error) {
	candidates := make([]map[string]any, 0, len(plan.Candidates))
	for _, candidate := range plan.Candidates {
		candidates = append(candidates, map[string]any{
			"symbol":     candidate.Symbol,
			"unrealized": candidate.Unrealized.InexactFloat64(),
			"note":       candidate.Note,
		})
	}

	doc := docstore.Document{
		"portfolio_name":     plan.PortfolioName,
		"threshold":          plan.Threshold.InexactFloat64(),
		"positions_reviewed": plan.PositionsReviewed,
		"candidates":         candidates,
	}
	return r.client.Insert(ctx, domain.CollectionHarvestPlan, doc)
}

// ListHarvestPlans returns up to limit stored harvest plans.
func (r *Repository) ListHarvestPlans(ctx context.Context, limit int) ([]domain.StoredHarvestPlan, error) {
	docs, err := r.client.List(ctx, domain.CollectionHarvestPlan, limit)
	if err != nil {
		return nil, fmt.Errorf("list harvest plans: %w", err)
	}

	plans := make([]domain.StoredHarvestPlan, 0, len(docs))
	for _, doc := range docs {
		plan := domain.HarvestPlan{
			PortfolioName:     toString(doc["portfolio_name"]),
			Threshold:         toDecimal(doc["threshold"]),
			PositionsReviewed: toInt(doc["positions_reviewed"]),
		}
		for _, raw := range toMapSlice(doc["candidates"]) {
			plan.Candidates = append(plan.Candidates, domain.HarvestCandidate{
				Symbol:     toString(raw["symbol"]),
				Unrealized: toDecimal(raw["unrealized"]),
				Note:       toString(raw["note"]),
			})
		}
		plans = append(plans, domain.StoredHarvestPlan{
			ID:   toString(doc["id"]),
			Plan: plan,
		})
	}
	return plans, nil
}

// SaveMemo stores a defense memo.
func (r *Repository) SaveMemo(ctx context.Context, memo domain.Memo) (string, error) {
	doc := docstore.Document{
		"title":            memo.Title,
		"position_summary": memo.PositionSummary,
		"citations":        memo.Citations,
		"memo_text":        memo.MemoText,
	}
	return r.client.Insert(ctx, domain.CollectionMemo, doc)
}

// ListMemos returns up to limit stored memos.
func (r *Repository) ListMemos(ctx context.Context, limit int) ([]domain.StoredMemo, error) {
	docs, err := r.client.List(ctx, domain.CollectionMemo, limit)
	if err != nil {
		return nil, fmt.Errorf("list memos: %w", err)
	}

	memos := make([]domain.StoredMemo, 0, len(docs))
	for _, doc := range docs {
		memos = append(memos, domain.StoredMemo{
			ID: toString(doc["id"]),
			Memo: domain.Memo{
				Title:           toString(doc["title"]),
				PositionSummary: toString(doc["position_summary"]),
				Citations:       toStringSlice(doc["citations"]),
				MemoText:        toString(doc["memo_text"]),
			},
		})
	}
	return memos, nil
}

// --- Document field coercion helpers ---

func toString(value any) string {
	if s, ok := value.(string); ok {
		return s
	}
	return ""
}

func toInt(value any) int {
	switch v := value.(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	}
	return 0
}

func toDecimal(value any) decimal.Decimal {
	switch v := value.(type) {
	case float64:
		return decimal.NewFromFloat(v)
	case int:
		return decimal.NewFromInt(int64(v))
	case int64:
		return decimal.NewFromInt(v)
	case string:
		if d, err := decimal.NewFromString(v); err == nil {
			return d
		}
	}
	return decimal.Zero
}

func toStringSlice(value any) []string {
	switch v := value.(type) {
	case []string:
		out := make([]string, 0, len(v))
		return append(out, v...)
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			out = append(out, toString(item))
		}
		return out
	}
	return []string{}
}

func toMapSlice(value any) []map[string]any {
	switch v := value.(type) {
	case []map[string]any:
		return v
	case []any:
		out := make([]map[string]any, 0, len(v))
		for _, item := range v {
			if m, ok := item.(map[string]any); ok {
				out = append(out, m)
			}
		}
		return out
	}
	return nil
}
