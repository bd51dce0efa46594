package ordering

// Validation error codes. These are stable strings consumed by external
// callers (the portal UI) for field-level messages.
const (
	CodeRetailerNotFound = "NOT_FOUND"
	CodeRetailerInactive = "INACTIVE"
	CodeAddressRequired  = "ADDRESS_REQUIRED"
	CodeEmptyLines       = "EMPTY"
	CodeInvalidQty       = "INVALID_QTY"
	CodeSKUNotFound      = "SKU_NOT_FOUND"
	CodeSKUInactive      = "SKU_INACTIVE"
	CodeSKUNotAvailable  = "SKU_NOT_AVAILABLE"
	CodeInvalidPackSize  = "INVALID_PACK_SIZE"
	CodeBelowMinimum     = "BELOW_MINIMUM"
)

// ValidationError describes a single order validation failure tied to a
// request field
type ValidationError struct {
	Field   string `json:"field"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ValidationResult collects validation failures so the caller can surface
// all violations at once rather than one at a time
type ValidationResult struct {
	Errors []ValidationError
}

// Valid reports whether no violations were recorded
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// Add records a violation
func (r *ValidationResult) Add(field, code, message string) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Code: code, Message: message})
}

// Merge appends another result's violations
func (r *ValidationResult) Merge(other ValidationResult) {
	r.Errors = append(r.Errors, other.Errors...)
}
