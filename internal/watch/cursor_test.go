package watch

import (
	"testing"

	logx "reviewbot/pkg/logx"
)

func TestCursorMonotonicity(t *testing.T) {
	t.Parallel()
	c := NewCursor(0, logx.Nop())
	if c.Value() != InitialCursor {
		t.Fatalf("initial = %d, want %d", c.Value(), InitialCursor)
	}

	if !c.Advance(1000) || c.Value() != 1000 {
		t.Fatalf("advance to 1000 failed, cursor = %d", c.Value())
	}

	// Earlier value is a no-op.
	if c.Advance(999) {
		t.Fatal("advance to 999 accepted")
	}
	if c.Value() != 1000 {
		t.Fatalf("cursor moved backwards: %d", c.Value())
	}

	// Equal value is accepted.
	if !c.Advance(1000) || c.Value() != 1000 {
		t.Fatalf("equal advance rejected, cursor = %d", c.Value())
	}

	// Non-positive values are rejected.
	for _, v := range []int64{0, -5} {
		if c.Advance(v) {
			t.Fatalf("advance to %d accepted", v)
		}
	}
	if c.Value() != 1000 {
		t.Fatalf("cursor = %d after rejections", c.Value())
	}
}
