package server

import (
	"net/http"

	"github.com/taxism/backend/internal/domain"
)

type schemaCollection struct {
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
	Title  string   `json:"title"`
}

type schemaResponse struct {
	Collections []schemaCollection `json:"collections"`
}

// The field lists mirror the document layout written by the repository.
// They are maintained by hand rather than derived through reflection.
var storeSchema = schemaResponse{
	Collections: []schemaCollection{
		{
			Name:   domain.CollectionUserProfile,
			Fields: []string{"full_name", "email", "country", "filing_status", "employment_type", "entities", "risk_tolerance"},
			Title:  "User Profile",
		},
		{
			Name:   domain.CollectionDepreciation,
			Fields: []string{"asset_name", "cost_basis", "placed_in_service", "method", "life_years", "schedule"},
			Title:  "Depreciation Records",
		},
		{
			Name:   domain.CollectionHarvestPlan,
			Fields: []string{"portfolio_name", "threshold", "positions_reviewed", "candidates"},
			Title:  "Harvest Plans",
		},
		{
			Name:   domain.CollectionMemo,
			Fields: []string{"title", "position_summary", "citations", "memo_text"},
			Title:  "Defense Memos",
		},
	},
}

func handleSchema(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		methodNotAllowed(w, http.MethodGet)
		return
	}
	respondJSON(w, http.StatusOK, storeSchema)
}
