package strategy

import (
	"sort"

	"github.com/pagesift/pagesift"
)

// computeOrder builds the per-call strategy order from the default adapter
// order:
//
//  1. remove methods disabled by options or structurally unavailable
//  2. reorder previously-attempted methods by descending success rate;
//     methods with zero attempts keep their default positions (no cold-start
//     penalty) and ties keep default order
//  3. move the heuristic match for the target's URL shape to the front
//  4. drop network-based methods for intranet-shaped targets
//
// The fallback method is never part of the order.
func (o *Orchestrator) computeOrder(target string, opts pagesift.Options) []pagesift.Adapter {
	order := make([]pagesift.Adapter, 0, len(o.Adapters))
	for _, a := range o.Adapters {
		if opts.MethodDisabled(a.Method()) || !a.Available() {
			continue
		}
		order = append(order, a)
	}

	if o.Tracker != nil {
		order = reorderByRate(order, o.Tracker)
	}

	if o.Classifier != nil {
		switch {
		case o.Classifier.IsLikelyArticle(target):
			order = moveToFront(order, pagesift.MethodReadability)
		case o.Classifier.IsSocialMedia(target):
			order = moveToFront(order, pagesift.MethodWebview)
		}

		if o.Classifier.IsIntranet(target) {
			kept := order[:0]
			for _, a := range order {
				if !a.Method().UsesNetwork() {
					kept = append(kept, a)
				}
			}
			order = kept
		}
	}

	return order
}

// Order returns the method identifiers the orchestrator would try for the
// target, in order. Computed fresh per call; never persisted.
func (o *Orchestrator) Order(target string, opts pagesift.Options) []pagesift.Method {
	adapters := o.computeOrder(target, opts)
	methods := make([]pagesift.Method, len(adapters))
	for i, a := range adapters {
		methods[i] = a.Method()
	}
	return methods
}

// reorderByRate sorts the subset of adapters that have recorded attempts by
// descending success rate, leaving never-attempted adapters in place.
func reorderByRate(order []pagesift.Adapter, tracker pagesift.Tracker) []pagesift.Adapter {
	type ranked struct {
		adapter pagesift.Adapter
		rate    float64
	}

	var positions []int
	var attempted []ranked
	for i, a := range order {
		stats := tracker.Stats(a.Method())
		if stats.Attempts == 0 {
			continue
		}
		positions = append(positions, i)
		attempted = append(attempted, ranked{adapter: a, rate: stats.Rate()})
	}

	sort.SliceStable(attempted, func(i, j int) bool {
		return attempted[i].rate > attempted[j].rate
	})

	for i, pos := range positions {
		order[pos] = attempted[i].adapter
	}
	return order
}

// moveToFront moves the adapter for the method, if present, to the head of
// the order.
func moveToFront(order []pagesift.Adapter, method pagesift.Method) []pagesift.Adapter {
	for i, a := range order {
		if a.Method() == method {
			front := a
			copy(order[1:i+1], order[:i])
			order[0] = front
			return order
		}
	}
	return order
}
