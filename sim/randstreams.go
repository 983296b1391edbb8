package sim

import (
	"hash/fnv"
	"math/rand"
)

// RandStreams hands out named random streams derived from one master seed.
// Each stream's seed is the master seed mixed with a hash of the stream
// name, so the set of streams a model asks for, and the order it asks in,
// never perturbs any other stream. Two runs with the same master seed and
// the same stream names reproduce exactly.
//
// Streams are cached: asking for the same name twice returns the same
// *rand.Rand instance.
type RandStreams struct {
	masterSeed int64
	streams    map[string]*rand.Rand
}

// NewRandStreams creates a stream registry over the given master seed.
func NewRandStreams(masterSeed int64) *RandStreams {
	return &RandStreams{
		masterSeed: masterSeed,
		streams:    make(map[string]*rand.Rand),
	}
}

// Stream returns the random stream with the given name, creating it on
// first use.
func (s *RandStreams) Stream(name string) *rand.Rand {
	if rng, ok := s.streams[name]; ok {
		return rng
	}

	rng := rand.New(rand.NewSource(s.deriveSeed(name)))
	s.streams[name] = rng

	return rng
}

// MasterSeed returns the seed all streams derive from.
func (s *RandStreams) MasterSeed() int64 {
	return s.masterSeed
}

func (s *RandStreams) deriveSeed(name string) int64 {
	h := fnv.New64a()
	h.Write([]byte(name))

	return s.masterSeed ^ int64(h.Sum64())
}
