package logger

// Fields is an alias for map[string]interface{} for convenience.
type Fields map[string]interface{}

// Tracing fields propagated through the call chain.
const (
	// FieldRequestID is the HTTP request ID (UUID)
	FieldRequestID = "request_id"

	// FieldSubmissionID identifies one submission pipeline run
	FieldSubmissionID = "submission_id"

	// FieldComponent is the component/module name
	FieldComponent = "component"
)

// Metric fields used for aggregation and alerting.
const (
	// FieldDurationMs is the execution duration in milliseconds
	FieldDurationMs = "duration_ms"

	// FieldStatus is the operation status
	FieldStatus = "status"

	// FieldCount is a generic count field
	FieldCount = "count"

	// FieldMealID is the persisted meal identifier
	FieldMealID = "meal_id"

	// FieldDate is the calendar date a query or record refers to
	FieldDate = "date"
)
