// Package registry provides a global registry of grid sources.
// Sources register themselves in init() functions, allowing the commands
// to discover and run generators without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/vovakirdan/gridpath/internal/core"
)

// Params are the knobs every source receives. Sources ignore what they don't use.
type Params struct {
	Rows, Cols      int
	WallProbability float64
	Seed            int64
	Loops           int
}

// Generated is a grid together with the endpoints the source picked for it.
type Generated struct {
	Grid  *core.Grid
	Start core.Coord
	Goal  core.Coord
}

// Source produces grids procedurally.
type Source interface {
	// ID returns a unique identifier used on the command line (e.g. "maze").
	ID() string

	// Title returns a human-readable name for listings.
	Title() string

	// Generate builds a grid. The same params always yield the same grid.
	Generate(p Params) (Generated, error)
}

// SourceInfo contains metadata about a registered source.
type SourceInfo struct {
	ID    string
	Title string
}

// Factory creates a new instance of a source.
type Factory func() Source

var (
	factories = make(map[string]Factory)
	titles    = make(map[string]string)
	mu        sync.RWMutex
)

// Register adds a source factory to the registry.
// Panics if a source with the same ID is already registered.
func Register(id string, f Factory) {
	mu.Lock()
	defer mu.Unlock()

	if _, exists := factories[id]; exists {
		panic(fmt.Sprintf("registry: source %q already registered", id))
	}

	factories[id] = f
	titles[id] = f().Title()
}

// List returns information about all registered sources, sorted by ID.
func List() []SourceInfo {
	mu.RLock()
	defer mu.RUnlock()

	result := make([]SourceInfo, 0, len(factories))
	for id := range factories {
		result = append(result, SourceInfo{ID: id, Title: titles[id]})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].ID < result[j].ID
	})
	return result
}

// Create instantiates a source by its ID.
func Create(id string) (Source, error) {
	mu.RLock()
	defer mu.RUnlock()

	f, ok := factories[id]
	if !ok {
		return nil, fmt.Errorf("registry: unknown source %q", id)
	}
	return f(), nil
}

// Exists checks if a source with the given ID is registered.
func Exists(id string) bool {
	mu.RLock()
	defer mu.RUnlock()

	_, ok := factories[id]
	return ok
}
