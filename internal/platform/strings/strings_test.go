package strings

import (
	"testing"

	kit "playrate/internal/platform/testkit"
)

func TestIfEmpty(t *testing.T) {
	t.Parallel()
	if got := IfEmpty([]int{1, 2}, []int{9}); len(got) != 2 {
		t.Fatalf("IfEmpty replaced a non-empty slice: %v", got)
	}
	if got := IfEmpty(nil, []string{"GET"}); len(got) != 1 || got[0] != "GET" {
		t.Fatalf("IfEmpty did not return default: %v", got)
	}
}

func TestMustString(t *testing.T) {
	t.Parallel()
	if MustString("playcount", "name") != "playcount" {
		t.Fatalf("MustString changed its input")
	}
	kit.MustPanic(t, func() { MustString("  ", "name") })
}

func TestMustPrefix(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"playcount":    "/playcount",
		"/resolve/":    "/resolve",
		"  /meta  ":    "/meta",
		"//playcount/": "/playcount",
	}
	for in, want := range cases {
		if got := MustPrefix(in); got != want {
			t.Fatalf("MustPrefix(%q) = %q, want %q", in, got, want)
		}
	}
	kit.MustPanic(t, func() { MustPrefix(" / ") })
}

func TestMask(t *testing.T) {
	t.Parallel()
	cases := []struct {
		in   string
		want string
	}{
		{"apify_api_abcdef", "apify..."},
		{"short", "..."},
		{"", "..."},
		{"ключ-доступа", "ключ-..."},
	}
	for _, c := range cases {
		if got := Mask(c.in, 5); got != c.want {
			t.Fatalf("Mask(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestPtrDeref(t *testing.T) {
	t.Parallel()
	if Ptr(" ") != nil {
		t.Fatalf("blank should be nil")
	}
	if Deref(Ptr("x")) != "x" || Deref(nil) != "" {
		t.Fatalf("Ptr/Deref round trip failed")
	}
}
