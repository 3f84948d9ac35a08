package apiclient

const (
	// DefaultErrorMessage is used when a failed response carries no readable
	// "error" or "message" field.
	DefaultErrorMessage = "Request failed"
	// UploadErrorMessage is the fallback for failed image uploads.
	UploadErrorMessage = "Failed to upload image"
)

// Error is the only error kind returned by Client. Message is meant for
// display; the underlying cause is reachable through errors.Unwrap for logs.
type Error struct {
	Message string
	err     error
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.err }
