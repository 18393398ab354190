package server

import "testing"

func TestEventSubject(t *testing.T) {
	cases := map[string]string{
		"alice": "tute.tables.alice.events",
		"a.b c": "tute.tables.a_b_c.events",
		"x*>":   "tute.tables.x__.events",
		"":      "tute.tables._.events",
	}
	for id, want := range cases {
		if got := EventSubject(id); got != want {
			t.Fatalf("EventSubject(%q) = %q, want %q", id, got, want)
		}
	}
}
