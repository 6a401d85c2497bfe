package errs

import "fmt"

// HttpError is rendered by the HTTP layer as {"error": Message, "data": Data}
// with status Code. Err, when set, is the cause and is never sent to clients.
type HttpError struct {
	Code    int
	Message string
	Data    any
	Err     error
}

func (e *HttpError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("code %d: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("code %d: %s, data: %v", e.Code, e.Message, e.Data)
}

func (e *HttpError) Unwrap() error {
	return e.Err
}
