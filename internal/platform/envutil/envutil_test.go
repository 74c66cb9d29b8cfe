package envutil

import "testing"

func TestString(t *testing.T) {
	t.Setenv("CB_TEST_STRING", "  value ")
	if got := String("CB_TEST_STRING", "def", nil); got != "value" {
		t.Fatalf("got %q", got)
	}
	if got := String("CB_TEST_STRING_MISSING", "def", nil); got != "def" {
		t.Fatalf("got %q", got)
	}
}

func TestInt(t *testing.T) {
	t.Setenv("CB_TEST_INT", "42")
	if got := Int("CB_TEST_INT", 1, nil); got != 42 {
		t.Fatalf("got %d", got)
	}
	t.Setenv("CB_TEST_INT", "nope")
	if got := Int("CB_TEST_INT", 7, nil); got != 7 {
		t.Fatalf("got %d", got)
	}
}

func TestBool(t *testing.T) {
	cases := map[string]bool{"true": true, "1": true, "off": false, "garbage": true, "": true}
	for raw, want := range cases {
		t.Setenv("CB_TEST_BOOL", raw)
		if got := Bool("CB_TEST_BOOL", true, nil); got != want {
			t.Fatalf("%q: want %v got %v", raw, want, got)
		}
	}
}

func TestSecretFloatList(t *testing.T) {
	t.Setenv("CB_TEST_SECRET", " s3cret ")
	if got := Secret("CB_TEST_SECRET", "", nil); got != "s3cret" {
		t.Fatalf("got %q", got)
	}
	t.Setenv("CB_TEST_FLOAT", "0.25")
	if got := Float("CB_TEST_FLOAT", 1, nil); got != 0.25 {
		t.Fatalf("got %v", got)
	}
	t.Setenv("CB_TEST_FLOAT", "x")
	if got := Float("CB_TEST_FLOAT", 1, nil); got != 1 {
		t.Fatalf("got %v", got)
	}
	t.Setenv("CB_TEST_LIST", " a, ,b ")
	if got := List("CB_TEST_LIST", nil, nil); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Fatalf("got %v", got)
	}
	t.Setenv("CB_TEST_LIST", " , ")
	if got := List("CB_TEST_LIST", []string{"d"}, nil); len(got) != 1 || got[0] != "d" {
		t.Fatalf("got %v", got)
	}
}
