package manifest

import (
	"fmt"
	"math/rand/v2"
)

// DefaultSeed is the default random seed for reproducibility.
const DefaultSeed = uint64(42)

// Random builds a single-group manifest of n items with footprints drawn
// from a die roll: 1-2 gives one unit, 5 gives three, anything else two.
// Every item gets a one-point inset.
func Random(seed uint64, n int) *Manifest {
	r := rand.New(rand.NewPCG(seed, seed))
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{
			Label: fmt.Sprintf("%d", i),
			W:     randomUnits(r),
			H:     randomUnits(r),
		}
	}
	return &Manifest{
		Inset:  1,
		Groups: []Group{{Name: "random", Items: items}},
	}
}

func randomUnits(r *rand.Rand) int {
	switch r.IntN(6) + 1 {
	case 1, 2:
		return 1
	case 5:
		return 3
	default:
		return 2
	}
}
