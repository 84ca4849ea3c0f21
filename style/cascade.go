package style

import (
	"fmt"
	"maps"
	"math"
	"reflect"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gogpu/mapstyle"
	"github.com/gogpu/mapstyle/internal/cache"
	"github.com/gogpu/mapstyle/internal/telemetry"
)

// DefaultSnapshotCacheSize is the number of converged snapshots a cascade
// keeps per layer.
const DefaultSnapshotCacheSize = 32

// CascadeOption configures a Cascade.
type CascadeOption func(*cascadeOptions)

type cascadeOptions struct {
	transition TransitionSpec
	cacheSize  int
}

// WithDefaultTransition sets the transition used by properties that have no
// TransitionSpec of their own.
func WithDefaultTransition(spec TransitionSpec) CascadeOption {
	return func(o *cascadeOptions) { o.transition = spec }
}

// WithSnapshotCacheSize sets how many converged snapshots are kept across
// zoom levels. Zero or negative keeps only the last converged snapshot.
func WithSnapshotCacheSize(n int) CascadeOption {
	return func(o *cascadeOptions) { o.cacheSize = n }
}

// cascadeState is one published version of a layer's raw properties.
// It is never modified after being stored.
type cascadeState struct {
	generation  uint64
	paint       map[string]*transitioning
	layout      map[string]*PropertyValue
	transitions map[string]TransitionSpec
}

func (st *cascadeState) clone() *cascadeState {
	return &cascadeState{
		generation:  st.generation,
		paint:       maps.Clone(st.paint),
		layout:      maps.Clone(st.layout),
		transitions: maps.Clone(st.transitions),
	}
}

type snapshotKey struct {
	generation uint64
	zoom       float64
}

// Cascade owns the property state of one layer and produces snapshots.
//
// Writers (Set* and Resolve) are serialized by a mutex and publish new
// immutable state through atomic pointers. Readers (Snapshot) never lock.
type Cascade struct {
	layerID string
	schema  *Schema
	opts    cascadeOptions

	mu        sync.Mutex
	state     atomic.Pointer[cascadeState]
	latest    atomic.Pointer[Snapshot]
	converged *cache.Cache[snapshotKey, *Snapshot] // nil when disabled
	lastKey   snapshotKey                          // of lastSnap; guarded by mu
	lastSnap  *Snapshot
}

// NewCascade creates a cascade in which every property has its default.
func NewCascade(layerID string, schema *Schema, opts ...CascadeOption) *Cascade {
	o := cascadeOptions{transition: DefaultTransition, cacheSize: DefaultSnapshotCacheSize}
	for _, opt := range opts {
		opt(&o)
	}
	c := &Cascade{
		layerID: layerID,
		schema:  schema,
		opts:    o,
	}
	if o.cacheSize > 0 {
		c.converged = cache.New[snapshotKey, *Snapshot](o.cacheSize)
	}
	c.state.Store(&cascadeState{
		paint:       map[string]*transitioning{},
		layout:      map[string]*PropertyValue{},
		transitions: map[string]TransitionSpec{},
	})
	return c
}

// LayerID returns the id of the layer the cascade belongs to.
func (c *Cascade) LayerID() string { return c.layerID }

// Schema returns the schema the cascade was built with.
func (c *Cascade) Schema() *Schema { return c.schema }

// Generation returns the current style generation. It increases every time
// a raw value changes.
func (c *Cascade) Generation() uint64 { return c.state.Load().generation }

// Apply replaces every raw paint and layout value at once, as when a style
// document is loaded. Nothing animates: all values take effect immediately.
// Either every value is accepted or the cascade is left unchanged.
func (c *Cascade) Apply(paint, layout map[string]any) error {
	next := &cascadeState{
		paint:  make(map[string]*transitioning, len(paint)),
		layout: make(map[string]*PropertyValue, len(layout)),
	}
	for name, raw := range paint {
		spec, ok := c.schema.PaintProperty(name)
		if !ok {
			return fmt.Errorf("apply paint %q on %s: %w", name, c.layerID, ErrUnknownProperty)
		}
		value, err := ParseValue(spec, raw)
		if err != nil {
			return fmt.Errorf("apply paint %q on %s: %w", name, c.layerID, err)
		}
		next.paint[name] = &transitioning{value: value}
	}
	for name, raw := range layout {
		spec, ok := c.schema.LayoutProperty(name)
		if !ok {
			return fmt.Errorf("apply layout %q on %s: %w", name, c.layerID, ErrUnknownProperty)
		}
		value, err := ParseValue(spec, raw)
		if err != nil {
			return fmt.Errorf("apply layout %q on %s: %w", name, c.layerID, err)
		}
		next.layout[name] = value
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.state.Load()
	next.generation = old.generation + 1
	next.transitions = maps.Clone(old.transitions)
	c.publish(next, "*")
	return nil
}

// SetPaintProperty sets a paint property from a raw style value. Setting a
// value equal to the current one is a no-op. For transitioning properties
// the change animates from the value in effect at now, which is the
// property default when it was never set.
func (c *Cascade) SetPaintProperty(name string, raw any, now time.Time) error {
	spec, ok := c.schema.PaintProperty(name)
	if !ok {
		return fmt.Errorf("set paint %q on %s: %w", name, c.layerID, ErrUnknownProperty)
	}
	value, err := ParseValue(spec, raw)
	if err != nil {
		return fmt.Errorf("set paint %q on %s: %w", name, c.layerID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.state.Load()
	prior := old.paint[name]
	if prior != nil && reflect.DeepEqual(prior.value.raw, raw) {
		return nil
	}
	if prior == nil && raw == nil {
		return nil
	}
	if prior == nil {
		// The default has been in effect so far; animate away from it.
		def, _ := ParseValue(spec, nil)
		prior = &transitioning{value: def}
	}

	next := old.clone()
	next.generation++
	next.paint[name] = newTransitioning(value, prior, c.transitionFor(old, name), now)
	c.publish(next, name)
	return nil
}

// SetLayoutProperty sets a layout property. Layout changes take effect
// immediately.
func (c *Cascade) SetLayoutProperty(name string, raw any) error {
	spec, ok := c.schema.LayoutProperty(name)
	if !ok {
		return fmt.Errorf("set layout %q on %s: %w", name, c.layerID, ErrUnknownProperty)
	}
	value, err := ParseValue(spec, raw)
	if err != nil {
		return fmt.Errorf("set layout %q on %s: %w", name, c.layerID, err)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	old := c.state.Load()
	if prev, ok := old.layout[name]; ok && reflect.DeepEqual(prev.raw, raw) {
		return nil
	}
	next := old.clone()
	next.generation++
	next.layout[name] = value
	c.publish(next, name)
	return nil
}

// SetTransition overrides the transition of one paint property. It applies
// to changes made after the call.
func (c *Cascade) SetTransition(name string, spec TransitionSpec) error {
	if _, ok := c.schema.PaintProperty(name); !ok {
		return fmt.Errorf("set transition %q on %s: %w", name, c.layerID, ErrUnknownProperty)
	}
	if spec.Duration < 0 || spec.Delay < 0 {
		return fmt.Errorf("set transition %q on %s: %w: negative duration or delay", name, c.layerID, ErrInvalidValue)
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	next := c.state.Load().clone()
	next.transitions[name] = spec
	c.state.Store(next)
	return nil
}

// PaintValue returns the raw value currently targeted by a paint property,
// or false if the document does not set it.
func (c *Cascade) PaintValue(name string) (*PropertyValue, bool) {
	t, ok := c.state.Load().paint[name]
	if !ok {
		return nil, false
	}
	return t.value, true
}

// LayoutValue returns the raw value of a layout property, or false if the
// document does not set it.
func (c *Cascade) LayoutValue(name string) (*PropertyValue, bool) {
	v, ok := c.state.Load().layout[name]
	return v, ok
}

// ActiveTransitions returns how many paint properties are still animating
// at now.
func (c *Cascade) ActiveTransitions(now time.Time) int {
	n := 0
	for _, t := range c.state.Load().paint {
		if !t.retire(now).settled() {
			n++
		}
	}
	return n
}

// Resolve produces the snapshot for zoom at now. Finished transitions are
// retired first. When nothing is animating, the snapshot for the current
// generation and zoom is reused, so resolving again after convergence
// returns the identical snapshot.
func (c *Cascade) Resolve(zoom float64, now time.Time) *Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	st := c.retire(now)
	key := snapshotKey{generation: st.generation, zoom: zoom}
	// A NaN zoom never equals its own key; non-finite zooms are never kept.
	reusable := st.settled() && !math.IsNaN(zoom) && !math.IsInf(zoom, 0)

	var snap *Snapshot
	source := "built"
	switch {
	case !reusable:
		snap = c.build(st, zoom, now)
	case c.lastSnap != nil && c.lastKey == key:
		snap, source = c.lastSnap, "cached"
	case c.converged == nil:
		snap = c.build(st, zoom, now)
	default:
		source = "cached"
		snap = c.converged.GetOrCreate(key, func() *Snapshot {
			source = "built"
			return c.build(st, zoom, now)
		})
	}
	if reusable {
		c.lastKey, c.lastSnap = key, snap
	}
	telemetry.Resolutions.WithLabelValues(source).Inc()
	c.latest.Store(snap)
	return snap
}

// Snapshot returns the most recently resolved snapshot, or nil before the
// first Resolve.
func (c *Cascade) Snapshot() *Snapshot {
	return c.latest.Load()
}

// retire publishes a state without finished transitions. Caller must hold c.mu.
func (c *Cascade) retire(now time.Time) *cascadeState {
	st := c.state.Load()
	var next *cascadeState
	for name, t := range st.paint {
		r := t.retire(now)
		if r == t {
			continue
		}
		if next == nil {
			next = st.clone()
		}
		next.paint[name] = r
	}
	if next == nil {
		return st
	}
	c.state.Store(next)
	return next
}

func (st *cascadeState) settled() bool {
	for _, t := range st.paint {
		if !t.settled() {
			return false
		}
	}
	return true
}

func (c *Cascade) build(st *cascadeState, zoom float64, now time.Time) *Snapshot {
	snap := &Snapshot{
		layerID:    c.layerID,
		schema:     c.schema,
		zoom:       zoom,
		time:       now,
		generation: st.generation,
		paint: PropertySet{
			section: "paint",
			names:   c.schema.PaintNames(),
			values:  make(map[string]PossiblyEvaluated, len(c.schema.paint)),
		},
		layout: PropertySet{
			section: "layout",
			names:   c.schema.LayoutNames(),
			values:  make(map[string]PossiblyEvaluated, len(c.schema.layout)),
		},
	}
	for _, spec := range c.schema.paint {
		if t, ok := st.paint[spec.Name]; ok {
			snap.paint.values[spec.Name] = t.resolve(zoom, now)
		} else {
			snap.paint.values[spec.Name] = Constant(spec.Default)
		}
	}
	for _, spec := range c.schema.layout {
		if v, ok := st.layout[spec.Name]; ok {
			snap.layout.values[spec.Name] = v.possiblyEvaluate(zoom)
		} else {
			snap.layout.values[spec.Name] = Constant(spec.Default)
		}
	}
	return snap
}

func (c *Cascade) transitionFor(st *cascadeState, name string) TransitionSpec {
	if spec, ok := st.transitions[name]; ok {
		return spec
	}
	return c.opts.transition
}

// publish stores a new state. Caller must hold c.mu.
func (c *Cascade) publish(next *cascadeState, property string) {
	c.state.Store(next)
	mapstyle.Logger().Debug("style: cascade updated",
		"layer", c.layerID, "property", property, "generation", next.generation)
}
