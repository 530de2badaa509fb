package pulseboard

import (
	"fmt"
	"strings"

	"github.com/pulseboard/pulseboard/model"
)

// classificationRule is one prioritized keyword rule of the deterministic
// fallback classifier.
type classificationRule struct {
	category model.Category
	severity model.Severity
	keywords []string
	cause    string // templated with the integration name
	fix      string
	impact   string
}

// fallbackRules are evaluated in order against the lowercased error message
// and code. Ordering matters because categories overlap in vocabulary:
// spending-control terms like "declined" must win over generic auth checks,
// and certified-payroll compliance terms must win over rate-limit vocabulary.
var fallbackRules = []classificationRule{
	{
		category: model.CategorySpendingControl,
		severity: model.SeverityHigh,
		keywords: []string{"declined", "spending limit", "card locked", "insufficient funds", "spend policy"},
		cause:    "%s declined the transaction due to a spending control or limit.",
		fix:      "Review the spending policy or card limits in %s and retry the transaction.",
		impact:   "Purchases or payments are blocked until the control is lifted.",
	},
	{
		category: model.CategoryCompliance,
		severity: model.SeverityCritical,
		keywords: []string{"wage", "fringe", "apprentice", "certified payroll", "prevailing", "davis-bacon", "union rate"},
		cause:    "%s rejected the record for a labor-compliance rule violation.",
		fix:      "Correct the wage, fringe or apprentice data and resubmit to %s.",
		impact:   "Certified payroll filings may be late or inaccurate.",
	},
	{
		category: model.CategoryAuth,
		severity: model.SeverityCritical,
		keywords: []string{"unauthorized", "401", "forbidden", "token", "credential", "expired", "permission", "auth"},
		cause:    "The %s connection is using expired or revoked credentials.",
		fix:      "Reconnect the %s integration to refresh its access token.",
		impact:   "No data flows for this integration until it is reauthorized.",
	},
	{
		category: model.CategoryRateLimit,
		severity: model.SeverityMedium,
		keywords: []string{"rate limit", "too many requests", "429", "throttl", "quota"},
		cause:    "%s is throttling requests because the API quota was exhausted.",
		fix:      "Wait for the %s rate-limit window to reset; the sync retries on its next run.",
		impact:   "Synchronization is delayed but no data is lost.",
	},
	{
		category: model.CategoryDataValidation,
		severity: model.SeverityMedium,
		keywords: []string{"validation", "invalid", "missing required", "malformed", "422", "bad request", "schema"},
		cause:    "%s rejected a record that failed its field validation rules.",
		fix:      "Fix the offending fields in the source record and resync to %s.",
		impact:   "The affected records are skipped until corrected.",
	},
	{
		category: model.CategoryDataStateMismatch,
		severity: model.SeverityMedium,
		keywords: []string{"not found", "404", "conflict", "409", "already exists", "stale", "version mismatch", "deleted"},
		cause:    "A record referenced by the sync no longer matches the state in %s.",
		fix:      "Run a full resync against %s to reconcile the divergent records.",
		impact:   "Reports may show stale or duplicated records until reconciled.",
	},
	{
		category: model.CategoryNetwork,
		severity: model.SeverityMedium,
		keywords: []string{"timeout", "timed out", "connection", "unreachable", "network", "502", "503", "504", "dns"},
		cause:    "The request to %s failed at the network layer before completing.",
		fix:      "No action usually needed; the sync retries %s automatically.",
		impact:   "A single sync run was lost; data catches up on the next run.",
	},
}

// RuleClassify is the deterministic fallback classifier. It always produces
// a result: when no rule matches, the final unknown/medium branch applies.
func RuleClassify(integration model.Integration, errMessage, errCode string) *model.Classification {
	haystack := strings.ToLower(errMessage + " " + errCode)
	name := integrationDisplayName(integration)

	for _, rule := range fallbackRules {
		for _, kw := range rule.keywords {
			if strings.Contains(haystack, kw) {
				return &model.Classification{
					Category:       rule.category,
					Severity:       rule.severity,
					Cause:          fmt.Sprintf(rule.cause, name),
					SuggestedFix:   fmt.Sprintf(rule.fix, name),
					BusinessImpact: rule.impact,
				}
			}
		}
	}

	return &model.Classification{
		Category:       model.CategoryUnknown,
		Severity:       model.SeverityMedium,
		Cause:          fmt.Sprintf("The %s failure did not match any known error pattern.", name),
		SuggestedFix:   "Inspect the raw error detail and payload on the event.",
		BusinessImpact: "Unknown until investigated.",
	}
}

func integrationDisplayName(i model.Integration) string {
	switch i {
	case model.IntegrationProcore:
		return "Procore"
	case model.IntegrationGusto:
		return "Gusto"
	case model.IntegrationQuickBooks:
		return "QuickBooks"
	case model.IntegrationPlaid:
		return "Plaid"
	case model.IntegrationRamp:
		return "Ramp"
	case model.IntegrationNetSuite:
		return "NetSuite"
	default:
		return string(i)
	}
}
