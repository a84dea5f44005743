package main

import (
	"encoding/json"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/pagesift/pagesift"
)

// Run executes the extract command.
func (c *ExtractCmd) Run(deps *Dependencies) error {
	opts := pagesift.Options{
		PreferredMethod: pagesift.Method(c.Prefer),
		DisableWorker:   c.NoWorker,
		BypassCache:     c.NoCache,
	}
	for _, d := range c.Disable {
		opts.Disabled = append(opts.Disabled, pagesift.Method(d))
	}

	concurrency := c.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}
	// The surface renders one page at a time.
	if c.Render {
		concurrency = 1
	}

	defer deps.Executor.Cleanup()

	var mu sync.Mutex
	results := make([]*pagesift.ContentResult, len(c.URLs))

	g, ctx := errgroup.WithContext(deps.Ctx)
	g.SetLimit(concurrency)
	for i, url := range c.URLs {
		g.Go(func() error {
			if c.Render && deps.Surface != nil {
				if err := deps.Surface.Open(ctx, url); err != nil {
					fmt.Fprintf(deps.Stderr, "render failed for %s: %s\n", url, err)
				}
			}
			res := deps.Orchestrator.Extract(ctx, url, opts)
			mu.Lock()
			results[i] = res
			mu.Unlock()
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if c.JSON {
		enc := json.NewEncoder(deps.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(results)
	}

	failures := 0
	for _, res := range results {
		if !res.Success {
			failures++
			fmt.Fprintf(deps.Stderr, "FAIL  %s  (%s)\n", res.URL, res.Metadata["error"])
			continue
		}
		fmt.Fprintf(deps.Stdout, "== %s (%s, %dms)\n\n", res.Title, res.Method, res.DurationMS)
		fmt.Fprintln(deps.Stdout, res.Text)
		fmt.Fprintln(deps.Stdout)
	}

	if failures > 0 {
		return fmt.Errorf("%d of %d extractions failed", failures, len(c.URLs))
	}
	return nil
}
