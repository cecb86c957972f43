package vendors

import (
	"fmt"
	"io"
	"net/http"
)

// maxErrorBody bounds how much of an upstream error payload gets captured.
const maxErrorBody = 2048

// upstreamError turns a non-2xx vendor response into an error carrying the
// status and a bounded slice of the body. Credentials never appear in vendor
// response bodies, so including the excerpt is safe and saves a round of
// debugging against opaque failures.
func upstreamError(provider string, resp *http.Response) error {
	body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return fmt.Errorf("%s responded %d: %s", provider, resp.StatusCode, string(body))
}
