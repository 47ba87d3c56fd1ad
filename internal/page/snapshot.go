package page

import (
	"math"
	"sort"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/GriffinCanCode/gazeweb/internal/gaze"
)

// Querier answers "which interactive elements are under this point".
type Querier interface {
	ElementsAt(p gaze.Point, radius float64) []Element
}

// Index combines hit-testing with lookup by element id.
type Index interface {
	Querier
	Element(id string) (Element, bool)
}

const hitCacheSize = 256

type hitKey struct {
	x, y   int64
	radius int64
}

// Snapshot hit-tests one page state revision. Lookups are rounded to whole
// pixels and memoized; a new revision gets a new Snapshot.
type Snapshot struct {
	state State
	cache *lru.Cache[hitKey, []Element]
}

// NewSnapshot indexes a page state.
func NewSnapshot(state State) *Snapshot {
	cache, _ := lru.New[hitKey, []Element](hitCacheSize)
	return &Snapshot{state: state, cache: cache}
}

// State returns the indexed page state.
func (s *Snapshot) State() State { return s.state }

// ElementsAt implements Querier. Results are ordered by distance from p,
// closest first, ties broken by id. Generic elements are not interactive
// and never returned.
func (s *Snapshot) ElementsAt(p gaze.Point, radius float64) []Element {
	key := hitKey{x: int64(math.Round(p.X)), y: int64(math.Round(p.Y)), radius: int64(math.Round(radius))}
	if hits, ok := s.cache.Get(key); ok {
		return hits
	}

	at := gaze.Point{X: float64(key.x), Y: float64(key.y)}
	type hit struct {
		el   Element
		dist float64
	}
	var found []hit
	for _, el := range s.state.Elements {
		if el.Kind == KindGeneric {
			continue
		}
		if d := el.Bounds.Distance(at); d <= float64(key.radius) {
			found = append(found, hit{el: el, dist: d})
		}
	}
	sort.SliceStable(found, func(i, j int) bool {
		if found[i].dist != found[j].dist {
			return found[i].dist < found[j].dist
		}
		return found[i].el.ID < found[j].el.ID
	})

	hits := make([]Element, len(found))
	for i, h := range found {
		hits[i] = h.el
	}
	s.cache.Add(key, hits)
	return hits
}

// Element implements Index.
func (s *Snapshot) Element(id string) (Element, bool) {
	return s.state.Element(id)
}
