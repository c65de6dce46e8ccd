package pricing

import (
	"github.com/fertigov/backend/internal/domain/shared"
	"github.com/shopspring/decimal"
)

// ViolationSeverity classifies how far a published price deviates from the
// applicable reference price.
type ViolationSeverity string

const (
	SeverityNone     ViolationSeverity = "none"
	SeverityMinor    ViolationSeverity = "minor"
	SeverityModerate ViolationSeverity = "moderate"
	SeverityMajor    ViolationSeverity = "major"
	SeveritySevere   ViolationSeverity = "severe"
)

// AlertSeverity is the operator-facing severity of a price alert
type AlertSeverity string

const (
	AlertLow      AlertSeverity = "low"
	AlertMedium   AlertSeverity = "medium"
	AlertHigh     AlertSeverity = "high"
	AlertCritical AlertSeverity = "critical"
)

// ApprovalStatus is the review state of a published price
type ApprovalStatus string

const (
	ApprovalAutoApproved  ApprovalStatus = "auto_approved"
	ApprovalPendingReview ApprovalStatus = "pending_review"
	ApprovalApproved      ApprovalStatus = "approved"
	ApprovalRejected      ApprovalStatus = "rejected"
)

// Markup band thresholds, in percent over the reference price
var (
	markupNoneMax     = decimal.NewFromInt(1)
	markupMinorMax    = decimal.NewFromInt(3)
	markupModerateMax = decimal.NewFromInt(5)
	markupMajorMax    = decimal.NewFromInt(10)

	// ComplianceBandMax is the upper bound of the compliant markup band
	ComplianceBandMax = decimal.NewFromInt(5)

	// MaxPermittedMarkupPct is the ceiling enforced by the pre-submission
	// validation endpoint
	MaxPermittedMarkupPct = decimal.NewFromInt(10)
)

// Evaluation is the outcome of checking a published price against the
// applicable reference price.
type Evaluation struct {
	ReferencePrice decimal.Decimal
	MarkupPct      decimal.Decimal
	Severity       ViolationSeverity
	Compliant      bool
	Approval       ApprovalStatus
	RequiresReview bool
}

// Evaluate computes the markup percentage of price over reference and
// classifies it. The reference price must be positive.
func Evaluate(price, reference decimal.Decimal) (Evaluation, error) {
	if !reference.IsPositive() {
		return Evaluation{}, shared.NewDomainError("INVALID_REFERENCE_PRICE", "Reference price must be greater than zero")
	}
	if price.IsNegative() {
		return Evaluation{}, shared.NewDomainError("INVALID_PRICE", "Price cannot be negative")
	}

	markup := price.Sub(reference).
		Div(reference).
		Mul(decimal.NewFromInt(100)).
		Round(2)

	severity := classifyMarkup(markup)
	compliant := !markup.IsNegative() && markup.LessThanOrEqual(ComplianceBandMax)

	eval := Evaluation{
		ReferencePrice: reference,
		MarkupPct:      markup,
		Severity:       severity,
		Compliant:      compliant,
		Approval:       ApprovalAutoApproved,
	}

	if severity == SeverityMajor || severity == SeveritySevere {
		eval.Approval = ApprovalPendingReview
		eval.RequiresReview = true
	}

	return eval, nil
}

// classifyMarkup maps a markup percentage to a violation severity.
// Below-cost pricing is treated as severe (predatory or data-entry error).
func classifyMarkup(markup decimal.Decimal) ViolationSeverity {
	switch {
	case markup.IsNegative():
		return SeveritySevere
	case markup.LessThanOrEqual(markupNoneMax):
		return SeverityNone
	case markup.LessThanOrEqual(markupMinorMax):
		return SeverityMinor
	case markup.LessThanOrEqual(markupModerateMax):
		return SeverityModerate
	case markup.LessThanOrEqual(markupMajorMax):
		return SeverityMajor
	default:
		return SeveritySevere
	}
}

// AlertSeverityFor maps a violation severity to the alert severity raised
// for it. SeverityNone raises no alert and returns false.
func AlertSeverityFor(severity ViolationSeverity) (AlertSeverity, bool) {
	switch severity {
	case SeverityMinor:
		return AlertLow, true
	case SeverityModerate:
		return AlertMedium, true
	case SeverityMajor:
		return AlertHigh, true
	case SeveritySevere:
		return AlertCritical, true
	default:
		return "", false
	}
}

// WithinPermittedMarkup reports whether the evaluation falls inside the hard
// markup ceiling and is not priced below cost.
func (e Evaluation) WithinPermittedMarkup() bool {
	return !e.MarkupPct.IsNegative() && e.MarkupPct.LessThanOrEqual(MaxPermittedMarkupPct)
}
