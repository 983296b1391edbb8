package sim

import (
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

var (
	idGeneratorMutex sync.Mutex
	idGeneratorReady atomic.Bool
	idGenerator      IDGenerator
)

// IDGenerator produces the identifiers assigned to events and generators.
type IDGenerator interface {
	// Generate returns a new ID.
	Generate() string
}

// UseSequentialIDGenerator selects the sequential ID generator. Sequential
// IDs keep runs reproducible and diffs readable. This is the default.
func UseSequentialIDGenerator() {
	setIDGenerator(&sequentialIDGenerator{})
}

// UseXIDGenerator selects globally unique xid identifiers. IDs are no
// longer deterministic across runs, but stay unique across simulations
// whose artifacts end up in the same store.
func UseXIDGenerator() {
	setIDGenerator(xidGenerator{})
}

func setIDGenerator(g IDGenerator) {
	idGeneratorMutex.Lock()
	defer idGeneratorMutex.Unlock()

	if idGeneratorReady.Load() {
		log.Panic("cannot change the ID generator type after use")
	}

	idGenerator = g
	idGeneratorReady.Store(true)
}

// GetIDGenerator returns the ID generator in use, installing the sequential
// one on first call if none was selected.
func GetIDGenerator() IDGenerator {
	if idGeneratorReady.Load() {
		return idGenerator
	}

	idGeneratorMutex.Lock()
	defer idGeneratorMutex.Unlock()

	if !idGeneratorReady.Load() {
		idGenerator = &sequentialIDGenerator{}
		idGeneratorReady.Store(true)
	}

	return idGenerator
}

type sequentialIDGenerator struct {
	nextID uint64
}

func (g *sequentialIDGenerator) Generate() string {
	n := atomic.AddUint64(&g.nextID, 1)

	return strconv.FormatUint(n, 10)
}

type xidGenerator struct{}

func (g xidGenerator) Generate() string {
	return xid.New().String()
}
