package logs_core

import "strings"

type Severity string

const (
	SeverityDebug Severity = "debug"
	SeverityInfo  Severity = "info"
	SeverityWarn  Severity = "warn"
	SeverityError Severity = "error"
)

// Severities lists every severity in ascending order. Breakdown results
// follow this order.
var Severities = []Severity{SeverityDebug, SeverityInfo, SeverityWarn, SeverityError}

func (s Severity) IsValid() bool {
	switch s {
	case SeverityDebug, SeverityInfo, SeverityWarn, SeverityError:
		return true
	default:
		return false
	}
}

// NormalizeSeverity trims and lower-cases raw input. The result still has
// to pass IsValid.
func NormalizeSeverity(raw string) Severity {
	return Severity(strings.ToLower(strings.TrimSpace(raw)))
}
