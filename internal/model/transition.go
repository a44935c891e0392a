package model

// Transition is an observed UI-state change produced by interacting with
// one trigger element: a menu opening, a modal appearing, a panel toggling.
//
// A Transition is evidence, not proof. The label-set diff is a heuristic
// observation of an untyped DOM; absence of a detected change does not
// imply no transition exists, only that the instrumented diff window did
// not observe one.
type Transition struct {
	// TriggerLabel is the normalized label of the activated element.
	TriggerLabel string `json:"trigger_label"`

	// TriggerSelector is the best-effort CSS locator of the trigger.
	TriggerSelector string `json:"trigger_selector,omitempty"`

	// Actions are the actions visible in the affected region after the
	// interaction settled.
	Actions []Action `json:"actions,omitempty"`

	// Added contains labels present only after the interaction.
	Added []string `json:"added,omitempty"`

	// Removed contains labels present only before the interaction.
	Removed []string `json:"removed,omitempty"`
}

// HasChange reports whether the probe observed any label delta.
// Transitions without a change are not worth a graph node.
func (t Transition) HasChange() bool {
	return len(t.Added) > 0 || len(t.Removed) > 0
}

// OptionLabels returns the labels that become this transition's option
// nodes: the added set, or the removed set when nothing was added (the
// toggle-close case, where interacting hid previously visible choices).
func (t Transition) OptionLabels() []string {
	if len(t.Added) > 0 {
		return t.Added
	}
	return t.Removed
}
