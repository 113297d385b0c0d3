package raw

import "testing"

func TestGet(t *testing.T) {
	c := New().Prefix("RAWT_")
	t.Setenv("RAWT_NAME", "  playrate ")
	if got := c.Get("NAME", "x"); got != "playrate" {
		t.Fatalf("Get = %q", got)
	}
	if got := c.Get("MISSING", "fallback"); got != "fallback" {
		t.Fatalf("Get default = %q", got)
	}
}

func TestGetBool(t *testing.T) {
	c := New().Prefix("RAWB_")
	cases := map[string]bool{"1": true, "TRUE": true, "yes": true, "on": true, "0": false, "nope": false}
	for in, want := range cases {
		t.Setenv("RAWB_FLAG", in)
		if got := c.GetBool("FLAG", !want); got != want {
			t.Fatalf("GetBool(%q) = %v, want %v", in, got, want)
		}
	}
	if !c.GetBool("UNSET", true) {
		t.Fatalf("unset should return default")
	}
}

func TestGetInt(t *testing.T) {
	c := New().Prefix("RAWI_")
	t.Setenv("RAWI_N", "42")
	if got := c.GetInt("N", 1); got != 42 {
		t.Fatalf("GetInt = %d", got)
	}
	t.Setenv("RAWI_BAD", "4x")
	if got := c.GetInt("BAD", 7); got != 7 {
		t.Fatalf("GetInt bad = %d", got)
	}
	t.Setenv("RAWI_NEG", "-3")
	if got := c.GetInt("NEG", 5); got != 5 {
		t.Fatalf("GetInt negative = %d", got)
	}
}
