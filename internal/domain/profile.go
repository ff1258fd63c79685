package domain

// FilingStatus is the closed set of supported filing statuses.
type FilingStatus string

const (
	FilingSingle          FilingStatus = "single"
	FilingMarriedJoint    FilingStatus = "married_joint"
	FilingMarriedSeparate FilingStatus = "married_separate"
	FilingHeadOfHousehold FilingStatus = "head_of_household"
)

// EmploymentType is the closed set of supported primary income types.
type EmploymentType string

const (
	EmploymentSalaried      EmploymentType = "salaried"
	EmploymentSelfEmployed  EmploymentType = "self_employed"
	EmploymentBusinessOwner EmploymentType = "business_owner"
	EmploymentCreator       EmploymentType = "creator"
	EmploymentConsultant    EmploymentType = "consultant"
)

// RiskTolerance is the user's risk posture for strategy pacing.
type RiskTolerance string

const (
	RiskLow    RiskTolerance = "low"
	RiskMedium RiskTolerance = "medium"
	RiskHigh   RiskTolerance = "high"
)

// UserProfile is the primary user profile and eligibility context.
// Profiles are immutable once constructed; an update is a new document.
type UserProfile struct {
	FullName       string
	Email          string
	Country        string
	FilingStatus   FilingStatus
	EmploymentType EmploymentType
	Entities       []string
	RiskTolerance  RiskTolerance
}

// ParseFilingStatus validates a raw filing status value.
func ParseFilingStatus(raw string) (FilingStatus, error) {
	switch FilingStatus(raw) {
	case FilingSingle, FilingMarriedJoint, FilingMarriedSeparate, FilingHeadOfHousehold:
		return FilingStatus(raw), nil
	}
	return "", invalidField("filing_status", "must be one of single, married_joint, married_separate, head_of_household")
}

// ParseEmploymentType validates a raw employment type value.
func ParseEmploymentType(raw string) (EmploymentType, error) {
	switch EmploymentType(raw) {
	case EmploymentSalaried, EmploymentSelfEmployed, EmploymentBusinessOwner, EmploymentCreator, EmploymentConsultant:
		return EmploymentType(raw), nil
	}
	return "", invalidField("employment_type", "must be one of salaried, self_employed, business_owner, creator, consultant")
}

// ParseRiskTolerance validates a raw risk tolerance value. An empty value
// defaults to medium.
func ParseRiskTolerance(raw string) (RiskTolerance, error) {
	if raw == "" {
		return RiskMedium, nil
	}
	switch RiskTolerance(raw) {
	case RiskLow, RiskMedium, RiskHigh:
		return RiskTolerance(raw), nil
	}
	return "", invalidField("risk_tolerance", "must be one of low, medium, high")
}

// NewUserProfileParams carries the raw fields for profile construction.
type NewUserProfileParams struct {
	FullName       string
	Email          string
	Country        string
	FilingStatus   string
	EmploymentType string
	Entities       []string
	RiskTolerance  string
}

// NewUserProfile validates the raw fields and constructs a UserProfile.
func NewUserProfile(params NewUserProfileParams) (UserProfile, error) {
	if err := requireNonEmpty("full_name", params.FullName); err != nil {
		return UserProfile{}, err
	}
	if err := validateEmail("email", params.Email); err != nil {
		return UserProfile{}, err
	}
	if err := requireNonEmpty("country", params.Country); err != nil {
		return UserProfile{}, err
	}

	filing, err := ParseFilingStatus(params.FilingStatus)
	if err != nil {
		return UserProfile{}, err
	}
	employment, err := ParseEmploymentType(params.EmploymentType)
	if err != nil {
		return UserProfile{}, err
	}
	risk, err := ParseRiskTolerance(params.RiskTolerance)
	if err != nil {
		return UserProfile{}, err
	}

	entities := make([]string, 0, len(params.Entities))
	entities = append(entities, params.Entities...)

	return UserProfile{
		FullName:       params.FullName,
		Email:          params.Email,
		Country:        params.Country,
		FilingStatus:   filing,
		EmploymentType: employment,
		Entities:       entities,
		RiskTolerance:  risk,
	}, nil
}
