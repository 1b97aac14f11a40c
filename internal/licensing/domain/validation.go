package domain

// Rejection reasons returned by key validation. The strings are part of the
// wire contract and surface verbatim in response messages.
const (
	ReasonInvalidAPI = "invalid api"
	ReasonInvalidKey = "invalid key"
	ReasonBanned     = "key banned"
	ReasonExpired    = "key expired"
	ReasonLimited    = "key limited"
)

// ValidationResult is the outcome of a validate call. Rejections are
// expected, frequent outcomes and are modelled as values, not errors.
type ValidationResult struct {
	OK     bool
	Reason string // empty on acceptance
}

// Accept is the successful validation outcome.
func Accept() ValidationResult {
	return ValidationResult{OK: true}
}

// Reject builds a rejection with one of the Reason constants.
func Reject(reason string) ValidationResult {
	return ValidationResult{OK: false, Reason: reason}
}
