// Package sample bounds record pools and loads cached states for sampling.
package sample

import (
	"math/rand/v2"

	"github.com/sells-group/addrcache/internal/model"
)

// Shuffler permutes n elements in place through swap.
type Shuffler interface {
	Shuffle(n int, swap func(i, j int))
}

// NewRandom returns a Shuffler seeded from the runtime's random source.
func NewRandom() Shuffler {
	return rand.New(rand.NewPCG(rand.Uint64(), rand.Uint64()))
}

// NewSeeded returns a deterministic Shuffler.
func NewSeeded(seed uint64) Shuffler {
	return rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// Bound shuffles records uniformly and truncates to limit. A non-positive
// limit keeps every record. The input slice is reordered in place.
func Bound(records []model.AddressRecord, limit int, s Shuffler) []model.AddressRecord {
	s.Shuffle(len(records), func(i, j int) {
		records[i], records[j] = records[j], records[i]
	})
	if limit > 0 && len(records) > limit {
		return records[:limit]
	}
	return records
}
