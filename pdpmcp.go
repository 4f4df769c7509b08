// Package pdpmcp provides documentation access over the JPMorgan Chase
// Payment Developer Portal (PDP) for AI assistants. It exposes three
// operations: searching the portal's documentation, fetching and converting
// a documentation page to markdown, and discovering related content for a
// page. The operations are surfaced to assistants through a Model Context
// Protocol (MCP) server and through direct CLI subcommands.
//
// This package contains domain types and interfaces following Ben Johnson's
// Standard Package Layout. Implementations live in subdirectories named
// after their primary dependency (e.g., http/, goquery/, htmltomarkdown/).
package pdpmcp
