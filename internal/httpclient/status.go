package httpclient

import (
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody bounds how much of a failed response is kept on StatusError.
const maxErrorBody = 4096

// StatusError is returned by ReadBody for any non-2xx response.
type StatusError struct {
	StatusCode int
	Method     string
	URL        string
	Body       []byte
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.URL, e.StatusCode, e.Body)
}

// ReadBody drains and closes the response body. A non-2xx status yields
// *StatusError carrying the (truncated) body.
func ReadBody(resp *http.Response) ([]byte, error) {
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("ReadBody: %w", err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		if len(body) > maxErrorBody {
			body = body[:maxErrorBody]
		}
		statusErr := &StatusError{StatusCode: resp.StatusCode, Body: body}
		if resp.Request != nil {
			statusErr.Method = resp.Request.Method
			statusErr.URL = resp.Request.URL.String()
		}
		return nil, statusErr
	}
	return body, nil
}
