package strings

import "testing"

func TestIfEmpty(t *testing.T) {
	t.Parallel()
	if got := IfEmpty([]int{1, 2}, []int{9}); len(got) != 2 {
		t.Fatalf("IfEmpty kept = %v", got)
	}
	if got := IfEmpty(nil, []string{"x"}); len(got) != 1 || got[0] != "x" {
		t.Fatalf("IfEmpty default = %v", got)
	}
}

func TestMustPrefix(t *testing.T) {
	t.Parallel()
	cases := map[string]string{
		"launches":    "/launches",
		"/launches/":  "/launches",
		"  /meta  ":   "/meta",
		"//a/b//":     "/a/b",
	}
	for in, want := range cases {
		if got := MustPrefix(in); got != want {
			t.Fatalf("MustPrefix(%q) = %q, want %q", in, got, want)
		}
	}
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for root path")
		}
	}()
	MustPrefix(" / ")
}

func TestPtrDeref(t *testing.T) {
	t.Parallel()
	if Ptr("  ") != nil {
		t.Fatal("blank should be nil")
	}
	if p := Ptr("x"); p == nil || *p != "x" {
		t.Fatal("Ptr(x) mismatch")
	}
	if Deref(nil) != "" || Deref(Ptr("y")) != "y" {
		t.Fatal("Deref mismatch")
	}
}

func TestCompact(t *testing.T) {
	t.Parallel()
	got := Compact([]string{" launch:create", "", "launch:update ", "launch:create"})
	if len(got) != 2 || got[0] != "launch:create" || got[1] != "launch:update" {
		t.Fatalf("Compact = %v", got)
	}
}
