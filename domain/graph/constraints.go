package graph

import (
	"fmt"

	"godag/domain/core"
)

// EdgeConstraint is a directed node pair used in whitelists and blacklists
type EdgeConstraint struct {
	From int `json:"from"`
	To   int `json:"to"`
}

// Constraints fixes edges in or out of every estimate on the path:
// whitelist edges are guaranteed present, blacklist edges guaranteed absent.
type Constraints struct {
	Whitelist []EdgeConstraint `json:"whitelist,omitempty"`
	Blacklist []EdgeConstraint `json:"blacklist,omitempty"`
}

// Whitelisted reports whether from -> to is forced into every estimate
func (c Constraints) Whitelisted(from, to int) bool {
	for _, e := range c.Whitelist {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}

// Blacklisted reports whether from -> to is excluded from every estimate
func (c Constraints) Blacklisted(from, to int) bool {
	for _, e := range c.Blacklist {
		if e.From == from && e.To == to {
			return true
		}
	}
	return false
}

// Validate bounds-checks both lists against p nodes, rejects pairs that are
// simultaneously white- and blacklisted, and rejects whitelists that already
// contain a directed cycle (no acyclic estimate could honor them).
func (c Constraints) Validate(nodes []string) error {
	p := len(nodes)
	check := func(list []EdgeConstraint, kind string) error {
		for _, e := range list {
			if e.From < 0 || e.From >= p || e.To < 0 || e.To >= p {
				return fmt.Errorf("%w: %s pair (%d, %d) out of range for %d variables",
					core.ErrInvalidConstraint, kind, e.From, e.To, p)
			}
			if e.From == e.To {
				return fmt.Errorf("%w: %s pair (%d, %d) is a self-loop",
					core.ErrInvalidConstraint, kind, e.From, e.To)
			}
		}
		return nil
	}
	if err := check(c.Whitelist, "whitelist"); err != nil {
		return err
	}
	if err := check(c.Blacklist, "blacklist"); err != nil {
		return err
	}

	for _, e := range c.Whitelist {
		if c.Blacklisted(e.From, e.To) {
			return core.NewConstraintError(nodes[e.From], nodes[e.To], "edge is both whitelisted and blacklisted")
		}
	}

	wl := New(nodes)
	for _, e := range c.Whitelist {
		wl.AddEdge(e.From, e.To, 0)
	}
	if _, err := wl.TopologicalOrder(); err != nil {
		return core.ErrCyclicWhitelist
	}

	return nil
}
