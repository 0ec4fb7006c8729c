package gate

import (
	"errors"
	"strings"
	"testing"
)

const secret = "open sesame"

func newGate(t *testing.T, attempts int) *Gate {
	t.Helper()
	g, err := New(Hash(secret), attempts)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return g
}

func TestHash(t *testing.T) {
	// sha256("abc")
	want := "ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"
	if got := Hash("abc"); got != want {
		t.Errorf("Hash(abc) = %s, want %s", got, want)
	}
}

func TestNew_RejectsBadDigest(t *testing.T) {
	tests := []string{"", "zz", "abcd", strings.Repeat("a", 63)}
	for _, d := range tests {
		if _, err := New(d, 3); err == nil {
			t.Errorf("New(%q) should fail", d)
		}
	}
}

func TestNew_DefaultAttempts(t *testing.T) {
	g := newGate(t, 0)
	if g.Remaining() != DefaultMaxAttempts {
		t.Errorf("Remaining = %d, want %d", g.Remaining(), DefaultMaxAttempts)
	}
}

func TestNew_AcceptsUppercaseAndWhitespace(t *testing.T) {
	if _, err := New(" "+strings.ToUpper(Hash(secret))+"\n", 1); err != nil {
		t.Errorf("New: %v", err)
	}
}

func TestCheck_Correct(t *testing.T) {
	g := newGate(t, 3)
	if err := g.Check(secret); err != nil {
		t.Fatalf("Check: %v", err)
	}
	if !g.Unlocked() {
		t.Error("gate should be unlocked")
	}
	// Stays open.
	if err := g.Check("anything"); err != nil {
		t.Errorf("Check after unlock = %v, want nil", err)
	}
}

func TestCheck_IncorrectCountsDown(t *testing.T) {
	g := newGate(t, 3)

	if err := g.Check("nope"); !errors.Is(err, ErrIncorrect) {
		t.Fatalf("Check = %v, want ErrIncorrect", err)
	}
	if g.Remaining() != 2 {
		t.Errorf("Remaining = %d, want 2", g.Remaining())
	}
	if g.Unlocked() || g.Locked() {
		t.Error("gate should be neither unlocked nor locked")
	}
}

func TestCheck_LocksAfterMaxAttempts(t *testing.T) {
	g := newGate(t, 3)

	g.Check("a")
	g.Check("b")
	if err := g.Check("c"); !errors.Is(err, ErrLocked) {
		t.Fatalf("third failure = %v, want ErrLocked", err)
	}
	if !g.Locked() {
		t.Error("gate should be locked")
	}
	if err := g.Check(secret); !errors.Is(err, ErrLocked) {
		t.Errorf("correct password on locked gate = %v, want ErrLocked", err)
	}
	if g.Remaining() != 0 {
		t.Errorf("Remaining = %d, want 0", g.Remaining())
	}
}
