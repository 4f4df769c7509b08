package pdpmcp

import "context"

// Fetcher retrieves the raw markup of a documentation page.
type Fetcher interface {
	// Fetch performs an HTTP GET against a Guard-validated URL and returns
	// the page body. The context controls timeout and cancellation; an
	// abandoned caller aborts the in-flight request and any pending retry.
	//
	// Failure modes map onto the error taxonomy: ENOTFOUND for 4xx
	// responses, EUNAVAILABLE when transient-failure retries are exhausted,
	// ECONVERSION for non-HTML content.
	Fetch(ctx context.Context, url string) (html string, err error)
}
