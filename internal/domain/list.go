package domain

// Collection names follow the document-store convention: the lowercase
// of the entity name.
const (
	CollectionUserProfile  = "userprofile"
	CollectionDepreciation = "depreciationrecord"
	CollectionHarvestPlan  = "harvestplan"
	CollectionMemo         = "memo"
)

// StoredProfile pairs a persisted profile with its store identifier.
type StoredProfile struct {
	ID      string
	Profile UserProfile
}

// StoredDepreciation pairs a persisted schedule with its store identifier.
type StoredDepreciation struct {
	ID     string
	Record DepreciationRecord
}

// StoredHarvestPlan pairs a persisted plan with its store identifier.
type StoredHarvestPlan struct {
	ID   string
	Plan HarvestPlan
}

// StoredMemo pairs a persisted memo with its store identifier.
type StoredMemo struct {
	ID   string
	Memo Memo
}
