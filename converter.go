package pdpmcp

// Converter converts HTML to Markdown.
type Converter interface {
	// Convert transforms HTML content into Markdown. The input should be
	// clean HTML (e.g., from an Extractor). Relative links and images are
	// rewritten to absolute URLs against pageURL, the address the HTML was
	// fetched from. The output contains no residual HTML tags.
	Convert(html, pageURL string) (string, error)
}
