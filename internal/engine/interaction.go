package engine

import "log/slog"

// Interaction is the hit-testing policy layer: it gates pointer events by the
// interactivity zone, tracks the hovered seat, toggles selection and reports
// what happened as events. Geometric picking happens before Dispatch.
type Interaction struct {
	reg     *Registry
	batch   *MarkerBatch
	hovered int
}

func NewInteraction(reg *Registry, batch *MarkerBatch) *Interaction {
	return &Interaction{reg: reg, batch: batch, hovered: NoIndex}
}

// Hovered returns the hovered seat index, or NoIndex.
func (in *Interaction) Hovered() int { return in.hovered }

// State reports the interaction state of seat i.
func (in *Interaction) State(i int) State {
	if !in.reg.Interactive(i) {
		return StateInactive
	}
	s := StateIdle
	if in.hovered == i {
		s |= StateHovered
	}
	if in.reg.selected[i] {
		s |= StateSelected
	}
	return s
}

// Dispatch applies one pointer event and returns the resulting events.
func (in *Interaction) Dispatch(ev Input) []Event {
	switch ev.Kind {
	case InputPointerEnter:
		return in.enter(ev)
	case InputPointerLeave:
		return in.leave()
	case InputClick:
		return in.click(ev)
	}
	slog.Debug("ignored input", "kind", ev.Kind)
	return nil
}

func (in *Interaction) enter(ev Input) []Event {
	if ev.Index == in.hovered && ev.Index != NoIndex {
		return nil
	}
	if !in.reg.Interactive(ev.Index) {
		if in.hovered == NoIndex {
			return nil
		}
		in.hovered = NoIndex
		return []Event{unhoverEvent()}
	}
	in.hovered = ev.Index
	m := in.reg.markers[ev.Index]
	return []Event{{
		Kind:  EventHover,
		Index: ev.Index,
		ID:    m.ID,
		Label: m.Label,
		X:     ev.X,
		Y:     ev.Y,
	}}
}

func (in *Interaction) leave() []Event {
	in.hovered = NoIndex
	return []Event{unhoverEvent()}
}

func unhoverEvent() Event {
	return Event{Kind: EventUnhover, Index: NoIndex}
}

func (in *Interaction) click(ev Input) []Event {
	selected, ok := in.reg.toggle(ev.Index)
	if !ok {
		return nil
	}
	in.batch.UpdateInstance(ev.Index, true)

	m := in.reg.markers[ev.Index]
	slog.Debug("seat toggled", "index", ev.Index, "id", m.ID, "selected", selected)
	return []Event{
		{Kind: EventSelectionChanged, Index: ev.Index, ID: m.ID, Selected: selected},
		{Kind: EventRecenterRequested, Index: ev.Index, ID: m.ID, X: m.Position.X, Y: m.Position.Y},
	}
}
