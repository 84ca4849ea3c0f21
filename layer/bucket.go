package layer

import (
	"maps"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/gogpu/mapstyle"
	"github.com/gogpu/mapstyle/query"
	"github.com/gogpu/mapstyle/style"
)

// Feature is one feature of a tile as handed to CreateBucket.
type Feature struct {
	ID         string
	Properties style.Attributes
	Geometry   mapstyle.Geometry
}

// Bucket holds the features one layer laid out for one tile, in draw order.
// Feature state can be updated while hit tests read the bucket.
type Bucket struct {
	layerID  string
	features []Feature
	index    map[string]int

	mu     sync.Mutex
	states atomic.Pointer[map[string]style.FeatureState]
}

// newBucket keeps the features that have geometry, ordered by the sort-key
// layout property. A hidden layer gets an empty bucket.
func newBucket(layerID, sortKey string, snap *style.Snapshot, features []Feature) *Bucket {
	b := &Bucket{layerID: layerID, index: make(map[string]int)}
	empty := map[string]style.FeatureState{}
	b.states.Store(&empty)

	if snap.Layout().Get("visibility").Enum(nil, nil) == "none" {
		return b
	}

	type keyed struct {
		key float64
		f   Feature
	}
	keyedFeatures := make([]keyed, 0, len(features))
	sk := snap.Layout().Get(sortKey)
	for _, f := range features {
		if f.Geometry.NumPoints() == 0 {
			mapstyle.Logger().Debug("layer: dropping feature without geometry",
				"layer", layerID, "feature", f.ID)
			continue
		}
		keyedFeatures = append(keyedFeatures, keyed{key: sk.Number(f.Properties, nil), f: f})
	}
	slices.SortStableFunc(keyedFeatures, func(a, b keyed) int {
		switch {
		case a.key < b.key:
			return -1
		case a.key > b.key:
			return 1
		}
		return 0
	})

	b.features = make([]Feature, len(keyedFeatures))
	for i, k := range keyedFeatures {
		b.features[i] = k.f
		if k.f.ID != "" {
			b.index[k.f.ID] = i
		}
	}
	return b
}

// LayerID returns the id of the layer the bucket belongs to.
func (b *Bucket) LayerID() string { return b.layerID }

// Len returns the number of features.
func (b *Bucket) Len() int { return len(b.features) }

// At returns feature i with its current state.
func (b *Bucket) At(i int) query.Candidate {
	f := b.features[i]
	return query.Candidate{
		Index:    i,
		ID:       f.ID,
		Feature:  f.Properties,
		State:    (*b.states.Load())[f.ID],
		Geometry: f.Geometry,
	}
}

// Feature returns the feature with the given id.
func (b *Bucket) Feature(id string) (Feature, bool) {
	i, ok := b.index[id]
	if !ok {
		return Feature{}, false
	}
	return b.features[i], true
}

// FeatureState returns the state of a feature, or nil.
func (b *Bucket) FeatureState(id string) style.FeatureState {
	return (*b.states.Load())[id]
}

// SetFeatureState merges state into the feature's current state. It reports
// false when the bucket has no feature with that id.
func (b *Bucket) SetFeatureState(id string, state style.FeatureState) bool {
	if _, ok := b.index[id]; !ok {
		return false
	}
	b.mu.Lock()
	defer b.mu.Unlock()

	old := *b.states.Load()
	next := maps.Clone(old)
	merged := maps.Clone(old[id])
	if merged == nil {
		merged = make(style.FeatureState, len(state))
	}
	maps.Copy(merged, state)
	next[id] = merged
	b.states.Store(&next)
	return true
}

// RemoveFeatureState clears the state of a feature.
func (b *Bucket) RemoveFeatureState(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	old := *b.states.Load()
	if _, ok := old[id]; !ok {
		return
	}
	next := maps.Clone(old)
	delete(next, id)
	b.states.Store(&next)
}
