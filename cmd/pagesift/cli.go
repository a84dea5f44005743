package main

import (
	"context"
	"io"

	"github.com/pagesift/pagesift"
	"github.com/pagesift/pagesift/rod"
	"github.com/pagesift/pagesift/sqlite"
	"github.com/pagesift/pagesift/strategy"
)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx          context.Context
	Stdout       io.Writer
	Stderr       io.Writer
	DB           *sqlite.DB
	Cache        *sqlite.ResultCache
	Orchestrator *strategy.Orchestrator
	Executor     pagesift.Executor
	Surface      *rod.Surface
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	Extract    ExtractCmd    `cmd:"" help:"Extract content from one or more URLs"`
	ClearCache ClearCacheCmd `cmd:"" name:"clear-cache" help:"Remove all cached extraction results"`
	Stats      StatsCmd      `cmd:"" help:"Show cache statistics"`
}

// ExtractCmd is the "extract" subcommand.
type ExtractCmd struct {
	URLs        []string `arg:"" help:"URLs to extract"`
	Prefer      string   `short:"p" help:"Method to try first (webview, dom-proxy, privileged, readability)"`
	Disable     []string `short:"d" help:"Disable a method (repeatable)"`
	NoWorker    bool     `help:"Skip the background worker fast path"`
	NoCache     bool     `help:"Bypass the result cache lookup"`
	Render      bool     `short:"r" help:"Render pages in a headless browser before extracting"`
	JSON        bool     `short:"j" help:"Print full results as JSON"`
	Concurrency int      `short:"c" default:"4" help:"Concurrent extraction limit"`
}

// ClearCacheCmd is the "clear-cache" subcommand.
type ClearCacheCmd struct{}

// StatsCmd is the "stats" subcommand.
type StatsCmd struct{}
