package model

import "strings"

// NodeKind discriminates the three node identities in the action graph.
type NodeKind int

// Node kinds. Pages are real URLs; transitions and options are synthetic
// nodes representing a detected UI state and one of its exposed choices.
const (
	KindPage NodeKind = iota
	KindTransition
	KindOption
)

// Markers embedded in the encoded string form of synthetic node ids.
// They exist only at the serialization boundary; graph operations compare
// NodeID values directly and never parse strings.
const (
	transMarker  = "::TRANS::"
	optionMarker = "::OPT::"
)

// NodeID is the tagged identity of a graph node.
//
// Design decision: We use a small comparable struct rather than a marker
// string because:
//  1. Internal graph operations never need to parse an identifier
//  2. Map keys and equality come for free from struct comparability
//  3. The string form becomes a pure serialization concern, produced by
//     Encode and consumed by DecodeNodeID in the exporters alone
type NodeID struct {
	// Kind selects which fields below are meaningful.
	Kind NodeKind

	// URL is the canonical page URL. Set for all kinds: synthetic nodes
	// remember the page they belong to.
	URL string

	// Trigger is the trigger label. Set for transition and option nodes.
	Trigger string

	// Option is the option label. Set only for option nodes.
	Option string
}

// PageNode returns the node identity for a visited page.
func PageNode(url string) NodeID {
	return NodeID{Kind: KindPage, URL: url}
}

// TransitionNode returns the synthetic node identity for a UI-state
// transition triggered on the given page.
func TransitionNode(pageURL, trigger string) NodeID {
	return NodeID{Kind: KindTransition, URL: pageURL, Trigger: trigger}
}

// OptionNode returns the synthetic node identity for one choice exposed
// by a transition.
func OptionNode(pageURL, trigger, option string) NodeID {
	return NodeID{Kind: KindOption, URL: pageURL, Trigger: trigger, Option: option}
}

// IsPage reports whether the node is a real page.
func (n NodeID) IsPage() bool { return n.Kind == KindPage }

// Encode renders the node id as a string for exporters and storage.
// Page nodes encode as their canonical URL; synthetic nodes append the
// marker-delimited trigger and option labels, so a downstream consumer can
// recover the (page, trigger, option) triple without a lookup table.
func (n NodeID) Encode() string {
	switch n.Kind {
	case KindTransition:
		return n.URL + transMarker + n.Trigger
	case KindOption:
		return n.URL + transMarker + n.Trigger + optionMarker + n.Option
	default:
		return n.URL
	}
}

// DecodeNodeID parses the string form produced by Encode. Unrecognized
// strings decode as page nodes, matching the rule that anything without a
// synthetic marker is a plain URL.
func DecodeNodeID(s string) NodeID {
	head, rest, ok := strings.Cut(s, transMarker)
	if !ok {
		return PageNode(s)
	}
	trigger, option, ok := strings.Cut(rest, optionMarker)
	if !ok {
		return TransitionNode(head, trigger)
	}
	return OptionNode(head, trigger, option)
}
