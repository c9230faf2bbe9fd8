// Package main hosts the shownotes CLI entrypoint and command graph.
//
// The Cobra-based command tree covers the API server (serve), episode
// management, item listing and editing, metadata scraping, Markdown
// generation, and configuration scaffolding. It centralizes configuration
// resolution and store access so subcommands can focus on user experience
// instead of wiring.
package main
