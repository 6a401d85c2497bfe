package constant

const (
	LogFieldErr     = "error"
	LogFieldPayload = "payload"
	LogFieldTraceId = "trace_id"
	LogFieldToken   = "token"
)
