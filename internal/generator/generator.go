package generator

import (
	"context"
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/taxism/backend/internal/service"
)

// Dataset contains generated sample inputs for every planning collection.
type Dataset struct {
	Profiles   []service.ProfileInput      `json:"profiles"`
	Assets     []service.DepreciationInput `json:"assets"`
	Portfolios []service.HarvestInput      `json:"portfolios"`
	Memos      []service.MemoInput         `json:"memos"`
}

// Generator produces deterministic sample data for local development and
// demos. The same seed always yields the same dataset.
type Generator struct {
	cfg  Config
	rand *rand.Rand
}

// New returns a configured Generator instance.
func New(cfg Config) *Generator {
	defaults := DefaultConfig()
	if cfg.NumProfiles <= 0 {
		cfg.NumProfiles = defaults.NumProfiles
	}
	if cfg.NumAssets <= 0 {
		cfg.NumAssets = defaults.NumAssets
	}
	if cfg.NumPortfolios <= 0 {
		cfg.NumPortfolios = defaults.NumPortfolios
	}
	if cfg.PositionsPerPortfolio <= 0 {
		cfg.PositionsPerPortfolio = defaults.PositionsPerPortfolio
	}
	if cfg.NumMemos <= 0 {
		cfg.NumMemos = defaults.NumMemos
	}
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}

	return &Generator{
		cfg:  cfg,
		rand: rand.New(rand.NewSource(cfg.Seed)),
	}
}

var (
	firstNames = []string{"Ava", "Liam", "Maya", "Noah", "Priya", "Diego", "Hana", "Omar", "Lena", "Felix"}
	lastNames  = []string{"Chen", "Okafor", "Silva", "Novak", "Haddad", "Kim", "Moreau", "Patel", "Ivanov", "Reyes"}
	countries  = []string{"US", "CA", "GB", "DE", "IN", "AU"}

	filingStatuses  = []string{"single", "married_joint", "married_separate", "head_of_household"}
	employmentTypes = []string{"salaried", "self_employed", "business_owner", "creator", "consultant"}
	riskTolerances  = []string{"low", "medium", "high"}
	entityLabels    = []string{"LLC", "S-Corp", "Sole Prop", "C-Corp", "Partnership"}

	assetNames = []string{
		"Office laptop", "Studio camera", "Delivery van", "CNC mill",
		"Server rack", "Conference furniture", "Audio workstation", "Forklift",
	}
	symbols = []string{"VTI", "QQQ", "AAPL", "MSFT", "AMZN", "GOOG", "TSLA", "NVDA", "BND", "VXUS", "ARKK", "SCHD"}

	memoTitles = []string{
		"Home office deduction for dual-use studio",
		"Section 179 expensing of studio equipment",
		"Augusta rule rental of primary residence",
	}
	memoSummaries = []string{
		"Taxpayer uses a dedicated room exclusively for client work and claims the simplified method.",
		"Equipment placed in service this year is expensed in full under the small-business election.",
		"Residence rented to the business for fourteen or fewer days with documented market rates.",
	}
)

// Generate synthesises the dataset. It respects context cancellation.
func (g *Generator) Generate(ctx context.Context) (Dataset, error) {
	var dataset Dataset

	for i := 0; i < g.cfg.NumProfiles; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		dataset.Profiles = append(dataset.Profiles, g.profile(i))
	}

	for i := 0; i < g.cfg.NumAssets; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		dataset.Assets = append(dataset.Assets, g.asset(i))
	}

	for i := 0; i < g.cfg.NumPortfolios; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		dataset.Portfolios = append(dataset.Portfolios, g.portfolio(i))
	}

	for i := 0; i < g.cfg.NumMemos; i++ {
		if err := ctx.Err(); err != nil {
			return Dataset{}, err
		}
		dataset.Memos = append(dataset.Memos, service.MemoInput{
			Title:           memoTitles[i%len(memoTitles)],
			PositionSummary: memoSummaries[i%len(memoSummaries)],
		})
	}

	return dataset, nil
}

func (g *Generator) profile(i int) service.ProfileInput {
	first := firstNames[g.rand.Intn(len(firstNames))]
	last := lastNames[g.rand.Intn(len(lastNames))]

	var entities []string
	if g.rand.Intn(2) == 1 {
		entities = append(entities, entityLabels[g.rand.Intn(len(entityLabels))])
	}

	return service.ProfileInput{
		FullName:       fmt.Sprintf("%s %s", first, last),
		Email:          strings.ToLower(fmt.Sprintf("%s.%s.%d@example.com", first, last, i)),
		Country:        countries[g.rand.Intn(len(countries))],
		FilingStatus:   filingStatuses[g.rand.Intn(len(filingStatuses))],
		EmploymentType: employmentTypes[g.rand.Intn(len(employmentTypes))],
		Entities:       entities,
		RiskTolerance:  riskTolerances[g.rand.Intn(len(riskTolerances))],
	}
}

func (g *Generator) asset(i int) service.DepreciationInput {
	cost := decimal.NewFromInt(int64(500 + g.rand.Intn(40000))).Add(decimal.New(int64(g.rand.Intn(100)), -2))
	placed := time.Date(2020+g.rand.Intn(5), time.Month(1+g.rand.Intn(12)), 1+g.rand.Intn(28), 0, 0, 0, 0, time.UTC)

	return service.DepreciationInput{
		AssetName:       assetNames[i%len(assetNames)],
		CostBasis:       cost,
		PlacedInService: placed,
		LifeYears:       []int{3, 5, 7, 10, 15}[g.rand.Intn(5)],
	}
}

func (g *Generator) portfolio(i int) service.HarvestInput {
	positions := make([]service.PositionInput, 0, g.cfg.PositionsPerPortfolio)
	for j := 0; j < g.cfg.PositionsPerPortfolio; j++ {
		cost := decimal.NewFromInt(int64(20 + g.rand.Intn(400)))
		// Drift current price up to 60% in either direction so scans find
		// both winners and harvestable losers.
		drift := decimal.NewFromFloat((g.rand.Float64() - 0.5) * 1.2)
		current := cost.Add(cost.Mul(drift)).RoundBank(2)

		positions = append(positions, service.PositionInput{
			Symbol:       symbols[g.rand.Intn(len(symbols))],
			CostBasis:    cost,
			CurrentPrice: current,
			Quantity:     decimal.NewFromInt(int64(1 + g.rand.Intn(120))),
		})
	}

	return service.HarvestInput{
		PortfolioName: fmt.Sprintf("Sample portfolio %d", i+1),
		Positions:     positions,
	}
}
