package testutils

import (
	"fmt"
	"math/rand/v2"
	"sync"

	"github.com/KirkDiggler/rpg-toolkit/dice"
)

// SeededRoller is a deterministic dice.Roller
type SeededRoller struct {
	mu  sync.Mutex
	rng *rand.Rand
}

var _ dice.Roller = (*SeededRoller)(nil)

// NewSeededRoller creates a roller whose stream depends only on seed
func NewSeededRoller(seed uint64) *SeededRoller {
	return &SeededRoller{rng: rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))}
}

// Roll returns a value in [1, size]
func (r *SeededRoller) Roll(size int) (int, error) {
	if size <= 0 {
		return 0, fmt.Errorf("invalid die size: %d", size)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.rng.IntN(size) + 1, nil
}

// RollN rolls count dice of the given size
func (r *SeededRoller) RollN(count, size int) ([]int, error) {
	out := make([]int, count)
	for i := range out {
		v, err := r.Roll(size)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
