package pdpmcp

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the main content as clean HTML.
	// Boilerplate (nav, footer, sidebar, cookie banners) has been removed.
	ContentHTML string
}

// Extractor extracts main content from HTML pages, removing boilerplate.
// Extraction is deterministic: the same input always yields the same output.
type Extractor interface {
	// Extract processes raw HTML and returns the main content.
	// Returns ECONVERSION when the input cannot be parsed as markup or no
	// content region can be identified.
	Extract(html string) (*ExtractResult, error)
}
