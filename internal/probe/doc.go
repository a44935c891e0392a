// Package probe interacts with trigger elements and observes what changes.
//
// For each candidate trigger it snapshots the visible labels in the
// trigger's scope, clicks, waits for the DOM to go quiet, snapshots again,
// and reports the label delta as a transition. The page is reset between
// probes by sending Escape.
package probe
