package domain

// FallbackSubmitError is the user-visible message when the coordinator does
// not provide a structured error body.
const FallbackSubmitError = "Failed to submit analysis request. Please check if the system is running."

// RequestError is a failed analysis submission: transport failure or a
// non-success coordinator response. Message is always human-readable.
type RequestError struct {
	StatusCode int
	Message    string
	Err        error
}

func (e *RequestError) Error() string {
	return e.Message
}

func (e *RequestError) Unwrap() error {
	return e.Err
}
