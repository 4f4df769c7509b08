package main

import (
	"fmt"

	pdpmcp "github.com/jpmorgan-payments/pdp-mcp"
)

// Run executes the related command.
func (c *RelatedCmd) Run(deps *Dependencies) error {
	results, err := deps.Service.RelatedDocumentation(deps.Ctx, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pdpmcp.ErrorMessage(err))
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No related content found.")
		return nil
	}

	for _, r := range results {
		fmt.Fprintf(deps.Stdout, "- %s\n  %s\n", r.Title, r.URL)
		if r.Context != "" {
			fmt.Fprintf(deps.Stdout, "  %s\n", r.Context)
		}
	}

	return nil
}
