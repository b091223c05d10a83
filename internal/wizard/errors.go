package wizard

import (
	"errors"

	"github.com/franciscosanchezn/taist-api/internal/client"
	"github.com/franciscosanchezn/taist-api/internal/validation"
)

// ServerError is a success == 0 response. Message is the server's text, or
// the fallback text when the request never got an answer.
type ServerError struct {
	Message string
}

func (e *ServerError) Error() string {
	return e.Message
}

// Check converts a failed response into a ServerError.
func Check(resp client.Response) error {
	if resp.OK() {
		return nil
	}
	return &ServerError{Message: resp.ErrorMessage()}
}

// Toast is the single line shown to the user for err.
func Toast(err error) string {
	if err == nil {
		return ""
	}
	var vErr *validation.Error
	if errors.As(err, &vErr) {
		return vErr.Message
	}
	var sErr *ServerError
	if errors.As(err, &sErr) {
		return sErr.Message
	}
	if errors.Is(err, ErrSubmitInFlight) {
		return "Please wait for the current request to finish."
	}
	return client.FallbackMessage
}
