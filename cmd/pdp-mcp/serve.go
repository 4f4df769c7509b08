package main

// Run executes the serve command: the MCP protocol loop on stdio.
func (c *ServeCmd) Run(deps *Dependencies) error {
	deps.Logger.Info("starting PDP documentation MCP server")
	return deps.Server.Run(deps.Ctx, deps.Stdin, deps.Stdout)
}
