package hash

import "testing"

func TestSHA256Hasher_Deterministic(t *testing.T) {
	h := NewSHA256Hasher()

	a := h.HashBytes([]byte("releases:\n  pkg-a: minor\n"))
	b := h.HashBytes([]byte("releases:\n  pkg-a: minor\n"))
	if a != b {
		t.Errorf("same content hashed differently: %s vs %s", a, b)
	}

	c := h.HashBytes([]byte("releases:\n  pkg-a: major\n"))
	if a == c {
		t.Error("different content produced the same hash")
	}
}

func TestSHA256Hasher_KnownVector(t *testing.T) {
	h := NewSHA256Hasher()

	// sha256("") is a well-known constant.
	got := h.HashBytes(nil)
	want := "e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"
	if got != want {
		t.Errorf("HashBytes(nil) = %s, want %s", got, want)
	}
}

func TestFakeHasher(t *testing.T) {
	h := NewFakeHasher()
	h.SetHash("content", "abc123")

	if got := h.HashBytes([]byte("content")); got != "abc123" {
		t.Errorf("HashBytes = %q, want %q", got, "abc123")
	}
	if got := h.HashBytes([]byte("other")); got == "abc123" {
		t.Error("unset content returned the canned hash")
	}
}
