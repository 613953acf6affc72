package mobility

import "testing"

func TestParse(t *testing.T) {
	cases := []struct {
		in   string
		want Assistance
	}{
		{"STRETCHER", Stretcher},
		{"gur", Stretcher},
		{"WHEELCHAIR", Wheelchair},
		{"wc", Wheelchair},
		{"", Ambulatory},
		{"ambulatory", Ambulatory},
		{"walking", Ambulatory},
	}
	for _, c := range cases {
		if got := Parse(c.in); got != c.want {
			t.Errorf("Parse(%q) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestParseIdempotent(t *testing.T) {
	for _, in := range []string{"STRETCHER", "WC", "", "GUR", "random"} {
		a := Parse(in)
		b := Parse(a.String())
		if a != b {
			t.Errorf("Parse not idempotent for %q: first=%v second=%v", in, a, b)
		}
	}
}

func TestParseListFirstNonAmbulatoryWins(t *testing.T) {
	cases := []struct {
		in   []string
		want Assistance
	}{
		{[]string{"ambulatory", "WC", "GUR"}, Wheelchair},
		{[]string{"GUR", "WC"}, Stretcher},
		{nil, Ambulatory},
		{[]string{"", "walking"}, Ambulatory},
	}
	for _, c := range cases {
		if got := ParseList(c.in); got != c.want {
			t.Errorf("ParseList(%v) = %v, want %v", c.in, got, c.want)
		}
	}
}

func TestCompatible(t *testing.T) {
	if !Wheelchair.Compatible(Ambulatory) {
		t.Error("wheelchair vehicle should serve an ambulatory booking")
	}
	if Wheelchair.Compatible(Stretcher) {
		t.Error("wheelchair vehicle should not serve a stretcher booking")
	}
	if !Stretcher.Compatible(Stretcher) {
		t.Error("stretcher vehicle should serve a stretcher booking")
	}
	if !Ambulatory.Compatible(Ambulatory) {
		t.Error("ambulatory vehicle should serve an ambulatory booking")
	}
	if Ambulatory.Compatible(Wheelchair) {
		t.Error("ambulatory-only vehicle should not serve a wheelchair booking")
	}
}

func TestPriorityOrder(t *testing.T) {
	if Stretcher.Priority() >= Wheelchair.Priority() {
		t.Error("stretcher must have lower priority ordinal than wheelchair")
	}
	if Wheelchair.Priority() >= Ambulatory.Priority() {
		t.Error("wheelchair must have lower priority ordinal than ambulatory")
	}
}
