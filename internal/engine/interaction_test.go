package engine

import "testing"

func newLineInteraction() (*Interaction, *Registry) {
	reg := NewRegistry(lineVenue(), Zone{Lo: 0, Hi: 2})
	return NewInteraction(reg, NewMarkerBatch(reg, DefaultPalette(), 7)), reg
}

func TestInteractionZoneGating(t *testing.T) {
	in, reg := newLineInteraction()

	if got := in.Dispatch(Input{Kind: InputPointerEnter, Index: 0}); len(got) != 0 {
		t.Errorf("enter inactive seat = %v, want no events", kinds(got))
	}
	if got := in.Dispatch(Input{Kind: InputClick, Index: 2}); len(got) != 0 {
		t.Errorf("click inactive seat = %v, want no events", kinds(got))
	}
	if got := in.Dispatch(Input{Kind: InputClick, Index: NoIndex}); len(got) != 0 {
		t.Errorf("click nothing = %v, want no events", kinds(got))
	}
	if reg.SelectionCount() != 0 {
		t.Errorf("selection count = %d, want 0", reg.SelectionCount())
	}
	if s := in.State(0); s != StateInactive {
		t.Errorf("State(0) = %v, want inactive", s)
	}
}

func TestInteractionHover(t *testing.T) {
	in, _ := newLineInteraction()

	got := in.Dispatch(Input{Kind: InputPointerEnter, Index: 1, X: 12, Y: 34})
	if !sameKinds(got, EventHover) {
		t.Fatalf("enter = %v, want hover", kinds(got))
	}
	if ev := got[0]; ev.Label != "Centre" || ev.X != 12 || ev.Y != 34 {
		t.Errorf("hover = %+v", ev)
	}
	if s := in.State(1); s != StateIdle|StateHovered {
		t.Errorf("State(1) = %v, want hovered", s)
	}

	if got := in.Dispatch(Input{Kind: InputPointerEnter, Index: 1, X: 13, Y: 35}); len(got) != 0 {
		t.Errorf("re-enter same seat = %v, want no events", kinds(got))
	}

	if got := in.Dispatch(Input{Kind: InputPointerEnter, Index: 2}); !sameKinds(got, EventUnhover) {
		t.Errorf("enter inactive while hovered = %v, want unhover", kinds(got))
	}
	if in.Hovered() != NoIndex {
		t.Errorf("Hovered() = %d, want none", in.Hovered())
	}

	if got := in.Dispatch(Input{Kind: InputPointerLeave, Index: NoIndex}); !sameKinds(got, EventUnhover) {
		t.Errorf("leave = %v, want unhover", kinds(got))
	}
}

func TestInteractionClickToggles(t *testing.T) {
	in, reg := newLineInteraction()

	got := in.Dispatch(Input{Kind: InputClick, Index: 1})
	if !sameKinds(got, EventSelectionChanged, EventRecenterRequested) {
		t.Fatalf("click = %v", kinds(got))
	}
	if !got[0].Selected || got[0].Index != 1 {
		t.Errorf("selection event = %+v", got[0])
	}
	m := reg.Marker(1)
	if rc := got[1]; rc.ID != m.ID || rc.X != m.Position.X || rc.Y != m.Position.Y {
		t.Errorf("recenter event = %+v, want seat %+v", rc, m)
	}

	got = in.Dispatch(Input{Kind: InputClick, Index: 1})
	if got[0].Selected || reg.Selected(1) {
		t.Errorf("second click left seat selected")
	}
	if !sameKinds(got, EventSelectionChanged, EventRecenterRequested) {
		t.Errorf("second click = %v", kinds(got))
	}
}

func TestInteractionSelectedHovered(t *testing.T) {
	in, _ := newLineInteraction()
	in.Dispatch(Input{Kind: InputPointerEnter, Index: 1})
	in.Dispatch(Input{Kind: InputClick, Index: 1})
	if s := in.State(1); s.String() != "selected+hovered" {
		t.Errorf("State(1) = %v, want selected+hovered", s)
	}
	in.Dispatch(Input{Kind: InputPointerLeave, Index: NoIndex})
	if s := in.State(1); s.String() != "selected" {
		t.Errorf("State(1) = %v, want selected", s)
	}
}
