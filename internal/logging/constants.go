package logging

// Standardized field names for structured logging.
// These constants ensure consistency across the application's log output,
// making logs easier to parse, filter, and analyze.
const (
	FieldRunID         = "run_id"
	FieldTransactionID = "transaction_id"
	FieldIdentityKey   = "identity_key"
	FieldVendor        = "vendor"
	FieldCategory      = "category"
	FieldCategoryID    = "category_id"
	FieldNeighbors     = "neighbors"
	FieldDistance      = "distance"
	FieldAttempt       = "attempt"
	FieldProvider      = "provider"
	FieldOperation     = "operation"
	FieldCount         = "count"
	FieldError         = "error"
)
