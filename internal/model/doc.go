// Package model defines the core data types shared across the crawler:
// actions extracted from a page, observed UI-state transitions, visited
// pages, and the tagged node identity used by the action graph.
//
// All types in this package are plain data. They carry no behavior beyond
// normalization and identity helpers, so every other package can depend on
// model without pulling in browser or storage code.
package model
