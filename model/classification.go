package model

// Category is the closed set of failure root-cause categories.
type Category string

const (
	CategoryAuth              Category = "auth"
	CategoryRateLimit         Category = "rate_limit"
	CategoryDataValidation    Category = "data_validation"
	CategoryDataStateMismatch Category = "data_state_mismatch"
	CategoryNetwork           Category = "network"
	CategorySpendingControl   Category = "spending_control"
	CategoryCompliance        Category = "compliance"
	CategoryUnknown           Category = "unknown"
)

type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Classification is the structured, advisory explanation of a failure event's
// root cause and suggested fix. Attached to an event at most once.
type Classification struct {
	Category       Category `json:"category"`
	Severity       Severity `json:"severity"`
	Cause          string   `json:"cause"`
	SuggestedFix   string   `json:"suggested_fix"`
	AffectedData   []string `json:"affected_data,omitempty"`
	BusinessImpact string   `json:"business_impact,omitempty"`
}
