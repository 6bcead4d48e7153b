package upstream

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"

	apperrors "github.com/agrios/cartedge/pkg/errors"
)

// upstreamErrorBody is the structured error shape the platform API returns.
type upstreamErrorBody struct {
	Error   string `json:"error,omitempty"`
	Message string `json:"message,omitempty"`
}

// parseResponseError reads the body of a non-2xx response and translates it
// into an appropriate error. The response body is fully consumed.
func parseResponseError(resp *http.Response, endpoint string) error {
	bodyBytes, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("%s endpoint returned status %d (failed to read body: %w)", endpoint, resp.StatusCode, err)
	}

	message := string(bodyBytes)
	var structured upstreamErrorBody
	if json.Unmarshal(bodyBytes, &structured) == nil {
		if structured.Message != "" {
			message = structured.Message
		} else if structured.Error != "" {
			message = structured.Error
		}
	}

	switch resp.StatusCode {
	case http.StatusNotFound:
		return apperrors.NotFound(endpoint, message)
	case http.StatusBadRequest:
		return apperrors.InvalidInput(fmt.Sprintf("%s: %s", endpoint, message))
	case http.StatusUnauthorized:
		return apperrors.AuthRequired()
	case http.StatusConflict:
		return apperrors.Conflict(fmt.Sprintf("%s: %s", endpoint, message))
	default:
		return fmt.Errorf("%s endpoint returned status %d: %s", endpoint, resp.StatusCode, message)
	}
}
