package main

import (
	"fmt"

	pdpmcp "github.com/jpmorgan-payments/pdp-mcp"
)

// Run executes the read command.
func (c *ReadCmd) Run(deps *Dependencies) error {
	markdown, err := deps.Service.ReadDocumentation(deps.Ctx, c.URL, c.StartIndex)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", pdpmcp.ErrorMessage(err))
		return err
	}

	fmt.Fprintln(deps.Stdout, markdown)
	return nil
}
