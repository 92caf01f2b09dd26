package entropy

import "testing"

func TestSeedNonZeroAndVaried(t *testing.T) {
	seen := make(map[int64]bool)
	for i := 0; i < 32; i++ {
		s := Seed()
		if s <= 0 {
			t.Fatalf("expected positive seed, got %d", s)
		}
		seen[s] = true
	}
	if len(seen) < 30 {
		t.Errorf("expected distinct seeds, got %d unique of 32", len(seen))
	}
}
