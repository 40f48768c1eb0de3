package domain

// FailureKind classifies expected, caller-recoverable outcomes of a scheduling operation
type FailureKind string

const (
	FailureNone           FailureKind = ""
	FailureValidation     FailureKind = "validation"
	FailureConflict       FailureKind = "conflict"
	FailureNotFound       FailureKind = "not_found"
	FailureNoAvailability FailureKind = "no_availability"
)

// IsFailure returns true for any kind other than FailureNone
func (k FailureKind) IsFailure() bool {
	return k != FailureNone
}
