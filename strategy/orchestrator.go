// Package strategy provides the extraction orchestrator. It sequences
// competing extraction methods for a target URL, biases their order by URL
// heuristics and historical success rates, offloads markup parsing to the
// background worker pool when possible, and falls back to a minimal result
// when everything else fails.
package strategy

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/pagesift/pagesift"
)

// DefaultWorkerTimeout bounds the worker fast-path parse task.
const DefaultWorkerTimeout = 10 * time.Second

// Orchestrator coordinates extraction for a target URL. All collaborators
// except Adapters and Fallback are optional; missing ones disable the
// corresponding behavior (no cache lookups, no worker fast path, no
// heuristic ordering).
type Orchestrator struct {
	// Adapters is the default strategy order. The per-call order is derived
	// from it; it is never mutated.
	Adapters []pagesift.Adapter

	// Fallback is the always-succeeding minimal method. It is never part of
	// the strategy order and runs only when every other method failed.
	Fallback pagesift.Adapter

	Tracker    pagesift.Tracker
	Enhancer   pagesift.Enhancer
	Classifier pagesift.URLClassifier

	// Fetcher and Executor together enable the worker fast path: raw markup
	// is fetched and handed to the executor for parsing off the caller's
	// path.
	Fetcher  pagesift.Fetcher
	Executor pagesift.Executor

	Cache  pagesift.ResultCache
	Logger *slog.Logger

	// WorkerTimeout bounds the fast-path parse task.
	// Defaults to DefaultWorkerTimeout.
	WorkerTimeout time.Duration
}

// Extract runs the extraction pipeline for the target URL. It never returns
// nil and never fails: every failure path yields a ContentResult marked with
// MethodFallback or MethodError.
func (o *Orchestrator) Extract(ctx context.Context, target string, opts pagesift.Options) *pagesift.ContentResult {
	begin := time.Now()

	target = strings.TrimSpace(target)
	if target == "" {
		return errorResult(target, begin, "empty target URL")
	}

	if o.Cache != nil && !opts.BypassCache {
		if cached, err := o.Cache.Get(ctx, target); err == nil {
			return cached.Clone()
		}
	}

	attempted := make(map[pagesift.Method]bool)

	// A preferred method runs before anything else. Its failure is recorded
	// but never aborts the call.
	if opts.PreferredMethod != "" {
		if a := o.adapterFor(opts.PreferredMethod); a != nil && a.Available() && !opts.MethodDisabled(a.Method()) {
			attempted[a.Method()] = true
			if res := o.attempt(ctx, a, target, opts); res != nil {
				return o.finish(ctx, res, target)
			}
		}
	}

	if res := o.workerFastPath(ctx, target, opts); res != nil {
		return o.finish(ctx, res, target)
	}

	for _, a := range o.computeOrder(target, opts) {
		if attempted[a.Method()] {
			continue
		}
		attempted[a.Method()] = true
		if res := o.attempt(ctx, a, target, opts); res != nil {
			return o.finish(ctx, res, target)
		}
	}

	if o.Fallback != nil {
		if res := o.attempt(ctx, o.Fallback, target, opts); res != nil {
			return o.finish(ctx, res, target)
		}
	}

	return errorResult(target, begin, "all extraction methods failed")
}

// adapterFor resolves a method identifier against the adapter table.
func (o *Orchestrator) adapterFor(method pagesift.Method) pagesift.Adapter {
	for _, a := range o.Adapters {
		if a.Method() == method {
			return a
		}
	}
	return nil
}

// attempt invokes one adapter and validates its result. The attempt duration
// is recorded into the result before validation, and the outcome is recorded
// into the tracker exactly once. Returns nil when the attempt failed; a
// single method's failure is never fatal to the call.
func (o *Orchestrator) attempt(ctx context.Context, a pagesift.Adapter, target string, opts pagesift.Options) *pagesift.ContentResult {
	begin := time.Now()
	res, err := a.Extract(ctx, target, opts)
	if res != nil {
		res.DurationMS = time.Since(begin).Milliseconds()
	}

	valid := err == nil && pagesift.IsValidResult(res)
	if o.Tracker != nil {
		o.Tracker.RecordAttempt(a.Method(), valid)
	}
	if !valid {
		o.log("strategy failure",
			"method", a.Method(),
			"url", target,
			"duration", time.Since(begin),
			"err", err,
		)
		return nil
	}
	return res
}

// workerFastPath fetches raw markup and offloads parsing to the executor.
// Returns nil when the fast path is unavailable for this call or its result
// failed validation.
func (o *Orchestrator) workerFastPath(ctx context.Context, target string, opts pagesift.Options) *pagesift.ContentResult {
	if opts.DisableWorker || o.Executor == nil || o.Fetcher == nil {
		return nil
	}
	if opts.MethodDisabled(pagesift.MethodWorker) {
		return nil
	}
	// The fast path fetches over the network, so intranet-shaped targets
	// are excluded the same way network-based methods are.
	if o.Classifier != nil && o.Classifier.IsIntranet(target) {
		return nil
	}

	begin := time.Now()
	html, err := o.Fetcher.Fetch(ctx, target)
	if err != nil {
		o.log("worker fast path fetch failed", "url", target, "err", err)
		return nil
	}

	timeout := o.WorkerTimeout
	if timeout <= 0 {
		timeout = DefaultWorkerTimeout
	}

	v, err := o.Executor.Execute(ctx, pagesift.TaskKindParseMarkup,
		pagesift.ParseRequest{URL: target, HTML: html},
		pagesift.TaskOptions{Priority: pagesift.PriorityHigh, Timeout: timeout},
	)

	res, _ := v.(*pagesift.ContentResult)
	if res != nil {
		res.Method = pagesift.MethodWorker
		res.DurationMS = time.Since(begin).Milliseconds()
	}

	valid := err == nil && pagesift.IsValidResult(res)
	if o.Tracker != nil {
		o.Tracker.RecordAttempt(pagesift.MethodWorker, valid)
	}
	if !valid {
		o.log("worker fast path failed", "url", target, "duration", time.Since(begin), "err", err)
		return nil
	}
	return res
}

// finish applies enhancement, enforces the title invariant, and writes the
// result back to the cache. Enhancement failures degrade to the
// pre-enhancement result rather than failing the call.
func (o *Orchestrator) finish(ctx context.Context, res *pagesift.ContentResult, target string) *pagesift.ContentResult {
	res.URL = target

	if o.Enhancer != nil && res.Success {
		enhanced, err := o.Enhancer.Enhance(ctx, res, target)
		if err != nil || enhanced == nil {
			o.log("enhancement failed", "url", target, "err", err)
		} else {
			res = enhanced
		}
	}

	if res.Success && res.Title == "" {
		res.Title = target
	}

	if o.Cache != nil && res.Success {
		if err := o.Cache.Put(ctx, res); err != nil {
			o.log("cache write failed", "url", target, "err", err)
		}
	}

	return res
}

// log emits a record when a logger is wired.
func (o *Orchestrator) log(msg string, args ...any) {
	if o.Logger != nil {
		o.Logger.Warn(msg, args...)
	}
}

// errorResult builds the terminal failure result.
func errorResult(target string, begin time.Time, reason string) *pagesift.ContentResult {
	return &pagesift.ContentResult{
		URL:        target,
		Method:     pagesift.MethodError,
		Success:    false,
		DurationMS: time.Since(begin).Milliseconds(),
		Metadata:   map[string]string{"error": reason},
	}
}
