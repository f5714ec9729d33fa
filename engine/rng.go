package engine

import (
	"fmt"
	"math/rand"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

var _ dice.Roller = (*RNG)(nil)

// RNG wraps math/rand.Rand with deterministic position tracking.
// Position increments with every die rolled, enabling replay.
// It satisfies dice.Roller so the resolver can take either it or
// dice.DefaultRoller.
type RNG struct {
	seed int64
	src  *rand.Rand
	pos  int64
}

// NewRNG creates a new deterministic RNG from a seed.
func NewRNG(seed int64) *RNG {
	return &RNG{
		seed: seed,
		src:  rand.New(rand.NewSource(seed)),
	}
}

// Roll returns a random integer in [1, size].
func (r *RNG) Roll(size int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("invalid die size %d", size)
	}
	r.pos++
	return r.src.Intn(size) + 1, nil
}

// RollN rolls count dice of the given size.
func (r *RNG) RollN(count, size int) ([]int, error) {
	if count < 0 {
		return nil, fmt.Errorf("invalid dice count %d", count)
	}
	out := make([]int, 0, count)
	for i := 0; i < count; i++ {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, nil
}

// Chance returns true with the given percent probability.
// Values <= 0 never roll; values >= 100 always succeed without consuming a roll.
func (r *RNG) Chance(percent int) bool {
	if percent <= 0 {
		return false
	}
	if percent >= 100 {
		return true
	}
	v, _ := r.Roll(100)
	return v <= percent
}

// Seed returns the seed the RNG was created with.
func (r *RNG) Seed() int64 {
	return r.seed
}

// Position returns the number of dice rolled since creation.
func (r *RNG) Position() int64 {
	return r.pos
}

// RestoreRNG creates an RNG and advances it to the given position.
func RestoreRNG(seed int64, position int64) *RNG {
	rng := NewRNG(seed)
	for i := int64(0); i < position; i++ {
		rng.src.Int63()
	}
	rng.pos = position
	return rng
}
