package inter

import "fmt"

// Case is the ordinal classification of a validator's compliance with the
// participation/autopay policy for an epoch. Every validator maps to exactly
// one case at epoch seal; cases 3 and 4 fail the audit and are jailed.
type Case uint8

const (
	// CaseCompliant: sufficient participation and autopay enabled.
	CaseCompliant Case = 1

	// CaseNoAutoPay: sufficient participation without autopay enrollment.
	// Still passes the audit.
	CaseNoAutoPay Case = 2

	// CaseBelowThreshold: some participation, but below the seal threshold.
	// Fails the audit.
	CaseBelowThreshold Case = 3

	// CaseInactive: no participation at all. Fails the audit.
	CaseInactive Case = 4
)

// Failed reports whether the case fails the epoch audit (eligible for jail).
func (c Case) Failed() bool {
	return c == CaseBelowThreshold || c == CaseInactive
}

// Valid reports whether the value is one of the four defined cases.
func (c Case) Valid() bool {
	return c >= CaseCompliant && c <= CaseInactive
}

func (c Case) String() string {
	switch c {
	case CaseCompliant:
		return "compliant"
	case CaseNoAutoPay:
		return "compliant-no-autopay"
	case CaseBelowThreshold:
		return "below-threshold"
	case CaseInactive:
		return "inactive"
	}
	return fmt.Sprintf("unknown-case-%d", uint8(c))
}
