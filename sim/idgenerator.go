package sim

import (
	"log"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/rs/xid"
)

// IDGenerator names packets, flits and events.
type IDGenerator interface {
	Generate() string
}

var idGen struct {
	sync.Mutex
	gen  IDGenerator
	used bool
}

// UseUniqueIDs makes the IDs globally unique, so that several runs can record
// into the same database. It must be called before the first ID is
// generated. By default, IDs count up from 1, which keeps logs reproducible.
func UseUniqueIDs() {
	idGen.Lock()
	defer idGen.Unlock()

	if idGen.used {
		log.Panic("cannot switch to unique IDs after IDs are generated")
	}

	idGen.gen = uniqueIDs{}
}

// GetIDGenerator returns the generator of the process.
func GetIDGenerator() IDGenerator {
	idGen.Lock()
	defer idGen.Unlock()

	if idGen.gen == nil {
		idGen.gen = &sequentialIDs{}
	}

	idGen.used = true

	return idGen.gen
}

type sequentialIDs struct {
	last atomic.Uint64
}

func (g *sequentialIDs) Generate() string {
	return strconv.FormatUint(g.last.Add(1), 10)
}

type uniqueIDs struct{}

func (uniqueIDs) Generate() string {
	return xid.New().String()
}
