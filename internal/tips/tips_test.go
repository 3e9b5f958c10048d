package tips

import "testing"

func TestPickReturnsKnownTip(t *testing.T) {
	p := NewPicker("a", "b", "c")
	seen := map[string]bool{}
	for i := 0; i < 100; i++ {
		tip := p.Pick()
		switch tip {
		case "a", "b", "c":
			seen[tip] = true
		default:
			t.Fatalf("unknown tip %q", tip)
		}
	}
	if len(seen) < 2 {
		t.Fatalf("picker looks stuck, saw only %v", seen)
	}
}

func TestDefaultTipsNonEmpty(t *testing.T) {
	p := NewPicker()
	if p.Pick() == "" {
		t.Fatal("default picker returned empty tip")
	}
}
