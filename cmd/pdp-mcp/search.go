package main

import (
	"fmt"

	pdpmcp "github.com/jpmorgan-payments/pdp-mcp"
)

// Run executes the search command.
func (c *SearchCmd) Run(deps *Dependencies) error {
	results, err := deps.Service.SearchDocumentation(deps.Ctx, c.Phrase, c.Limit)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pdpmcp.ErrorMessage(err))
		return err
	}

	if len(results) == 0 {
		fmt.Fprintln(deps.Stdout, "No results found.")
		return nil
	}

	for _, r := range results {
		fmt.Fprintf(deps.Stdout, "%2d. %s\n    %s\n", r.RankOrder, r.Title, r.URL)
		if r.Context != "" {
			fmt.Fprintf(deps.Stdout, "    %s\n", r.Context)
		}
	}

	return nil
}
