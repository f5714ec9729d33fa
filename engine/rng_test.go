package engine

import "testing"

func mustRoll(t *testing.T, r *RNG, size int) int {
	t.Helper()
	v, err := r.Roll(size)
	if err != nil {
		t.Fatalf("Roll(%d): %v", size, err)
	}
	return v
}

func TestRNG_Deterministic(t *testing.T) {
	rng1 := NewRNG(42)
	rng2 := NewRNG(42)

	for i := 0; i < 20; i++ {
		a := mustRoll(t, rng1, 6)
		b := mustRoll(t, rng2, 6)
		if a != b {
			t.Fatalf("roll %d: got %d and %d from same seed", i, a, b)
		}
	}
}

func TestRNG_Roll_Range(t *testing.T) {
	rng := NewRNG(99)

	for i := 0; i < 1000; i++ {
		r := mustRoll(t, rng, 7)
		if r < 1 || r > 7 {
			t.Fatalf("roll out of range [1,7]: got %d", r)
		}
	}
}

func TestRNG_Roll_InvalidSize(t *testing.T) {
	rng := NewRNG(1)
	if _, err := rng.Roll(0); err == nil {
		t.Fatal("expected error for zero-sided die")
	}
	if rng.Position() != 0 {
		t.Errorf("invalid roll should not advance position, got %d", rng.Position())
	}
}

func TestRNG_RollN(t *testing.T) {
	rng := NewRNG(5)
	rolls, err := rng.RollN(4, 6)
	if err != nil {
		t.Fatalf("RollN: %v", err)
	}
	if len(rolls) != 4 {
		t.Fatalf("expected 4 rolls, got %d", len(rolls))
	}
	if rng.Position() != 4 {
		t.Errorf("expected position 4, got %d", rng.Position())
	}
	if _, err := rng.RollN(-1, 6); err == nil {
		t.Error("expected error for negative count")
	}
}

func TestRNG_Chance_Bounds(t *testing.T) {
	rng := NewRNG(3)
	for i := 0; i < 50; i++ {
		if rng.Chance(0) {
			t.Fatal("0% chance should never succeed")
		}
		if !rng.Chance(100) {
			t.Fatal("100% chance should always succeed")
		}
	}
	if rng.Position() != 0 {
		t.Errorf("bounded chances should not consume rolls, position %d", rng.Position())
	}
}

func TestRNG_Chance_Distribution(t *testing.T) {
	rng := NewRNG(12345)
	hits := 0
	const trials = 10000
	for i := 0; i < trials; i++ {
		if rng.Chance(30) {
			hits++
		}
	}
	if hits < 2500 || hits > 3500 {
		t.Errorf("expected ~3000 hits for 30%%, got %d", hits)
	}
}

func TestRNG_Restore_MatchesPosition(t *testing.T) {
	rng := NewRNG(42)
	for i := 0; i < 10; i++ {
		mustRoll(t, rng, 8)
	}

	var expected [5]int
	for i := range expected {
		expected[i] = mustRoll(t, rng, 8)
	}

	restored := RestoreRNG(42, 10)
	if restored.Position() != 10 {
		t.Fatalf("expected position 10, got %d", restored.Position())
	}
	if restored.Seed() != 42 {
		t.Fatalf("expected seed 42, got %d", restored.Seed())
	}

	for i, want := range expected {
		if got := mustRoll(t, restored, 8); got != want {
			t.Fatalf("roll %d: expected %d, got %d", i, want, got)
		}
	}
}
