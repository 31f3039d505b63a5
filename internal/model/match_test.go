package model

import "testing"

func TestEraTimelineAt(t *testing.T) {
	timeline := EraTimeline{
		{Era: EraDark, StartSecs: 0, EndSecs: 600},
		{Era: EraFeudal, StartSecs: 600, EndSecs: 1100},
		{Era: EraCastle, StartSecs: 1100, EndSecs: 1800},
	}

	tests := []struct {
		ts   float64
		want Era
		ok   bool
	}{
		{0, EraDark, true},
		{599.9, EraDark, true},
		{600, EraFeudal, true},
		{1100, EraCastle, true},
		{1800, EraCastle, true}, // last interval includes its end
		{-1, "", false},
	}
	for _, tt := range tests {
		got, ok := timeline.At(tt.ts)
		if ok != tt.ok || got != tt.want {
			t.Errorf("At(%v) = %q, %v; want %q, %v", tt.ts, got, ok, tt.want, tt.ok)
		}
	}
}

func TestEraTimelineInterval(t *testing.T) {
	timeline := EraTimeline{
		{Era: EraDark, StartSecs: 0, EndSecs: 600},
		{Era: EraFeudal, StartSecs: 600, EndSecs: 1100},
	}

	iv, ok := timeline.Interval(EraFeudal)
	if !ok || iv.StartSecs != 600 || iv.EndSecs != 1100 {
		t.Fatalf("Interval(Feudal) = %+v, %v", iv, ok)
	}
	if iv.Duration() != 500 {
		t.Errorf("Duration() = %v, want 500", iv.Duration())
	}
	if _, ok := timeline.Interval(EraImperial); ok {
		t.Error("Interval(Imperial) should not exist")
	}
}

func TestMatchLookups(t *testing.T) {
	m := &Match{
		Players: []Player{{Name: "Alice"}, {Name: "Bob"}},
		AgeUps:  []AgeUp{{Player: "Alice", Age: EraFeudal, TimestampSecs: 612}},
	}

	p, ok := m.PlayerByName("Bob")
	if !ok || p.Name != "Bob" {
		t.Fatalf("PlayerByName(Bob) = %+v, %v", p, ok)
	}
	if _, ok := m.PlayerByName("Carol"); ok {
		t.Error("PlayerByName(Carol) should miss")
	}

	ts, ok := m.AgeUpTimestamp("Alice", EraFeudal)
	if !ok || ts != 612 {
		t.Fatalf("AgeUpTimestamp = %v, %v", ts, ok)
	}
	if _, ok := m.AgeUpTimestamp("Alice", EraCastle); ok {
		t.Error("AgeUpTimestamp(Castle) should miss")
	}
}
