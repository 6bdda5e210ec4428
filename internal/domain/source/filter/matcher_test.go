package filter

import "testing"

func TestMatcher_Match(t *testing.T) {
	tests := []struct {
		patterns []string
		path     string
		want     bool
	}{
		{[]string{"a"}, "a", true},
		{[]string{"a"}, "a.b", true},
		{[]string{"a"}, "ab", false},
		{[]string{"a.b"}, "a", false},
		{[]string{"a.*.c"}, "a.x.c", true},
		{[]string{"a.*.c"}, "a.x.y.c", true},
		{[]string{"a.b*"}, "a.bcd", true},
		{[]string{"a.b*"}, "a.c", false},
		{[]string{"*"}, "anything.at.all", true},
		{[]string{"*.id"}, "user.id", true},
		{[]string{"x", "y"}, "y", true},
		{nil, "a", false},
	}
	for _, tc := range tests {
		m := NewMatcher(tc.patterns)
		if got := m.Match(tc.path); got != tc.want {
			t.Errorf("Match(%v, %q) = %v, want %v", tc.patterns, tc.path, got, tc.want)
		}
	}
}

func TestMatcher_AliveOnPrefix(t *testing.T) {
	m := NewMatcher([]string{"user.comments.text"})

	s := m.StepString(m.Start(), "user")
	if !m.Alive(s) {
		t.Fatal("prefix of an include should stay alive")
	}
	if m.Accepts(s) {
		t.Fatal("prefix should not be accepted")
	}

	s = m.StepString(m.Start(), "other")
	if m.Alive(s) {
		t.Fatal("unrelated key should be dead")
	}
}

func TestMatchAll(t *testing.T) {
	m := MatchAll()
	s := m.StepString(m.Start(), "whatever.path")
	if !m.Accepts(s) || !m.Alive(s) {
		t.Error("MatchAll should accept everything")
	}
}

func TestNewSpec(t *testing.T) {
	s, err := NewSpec(false, []string{" a "}, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !s.FetchSource() {
		t.Error("includes should turn fetching on")
	}
	if !s.Active() {
		t.Error("spec with includes should be active")
	}
	if s.Includes()[0] != "a" {
		t.Errorf("Includes() = %v, want trimmed pattern", s.Includes())
	}

	if FetchAll().Active() || !FetchAll().FetchSource() {
		t.Error("FetchAll should fetch without filtering")
	}
	if NoSource().FetchSource() {
		t.Error("NoSource should not fetch")
	}
}

func TestNewSpec_Invalid(t *testing.T) {
	if _, err := NewSpec(true, []string{""}, nil); err == nil {
		t.Error("expected error for empty include pattern")
	}
	if _, err := NewSpec(true, nil, []string{"  "}); err == nil {
		t.Error("expected error for blank exclude pattern")
	}
	many := make([]string, MaxPatterns+1)
	for i := range many {
		many[i] = "f"
	}
	if _, err := NewSpec(true, many, nil); err == nil {
		t.Error("expected error for too many patterns")
	}
}
