package layer

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"time"

	"github.com/gogpu/mapstyle/query"
	"github.com/gogpu/mapstyle/style"
)

// Type is the tag identifying a layer kind.
type Type string

// Layer kinds.
const (
	TypeCircle Type = "circle"
	TypeFill   Type = "fill"
	TypeLine   Type = "line"
)

// Zoom range a layer is visible in when its document sets no bounds.
const (
	MinZoom = 0
	MaxZoom = 24
)

var (
	// ErrUnknownType is returned for layer types that are not registered.
	ErrUnknownType = errors.New("layer: unknown type")

	// ErrInvalidDocument is returned when a style document is malformed.
	ErrInvalidDocument = errors.New("layer: invalid style document")
)

// Layer is a style layer of any kind.
type Layer interface {
	query.Layer

	// Cascade returns the layer's property cascade.
	Cascade() *style.Cascade

	// Resolve resolves the layer's properties for zoom at now and returns
	// the snapshot. Later calls to Snapshot return it.
	Resolve(zoom float64, now time.Time) *style.Snapshot

	// Visible reports whether the layer is drawn at zoom.
	Visible(zoom float64) bool

	// CreateBucket lays out features for one tile using snap (or the latest
	// snapshot when snap is nil).
	CreateBucket(snap *style.Snapshot, features []Feature) *Bucket
}

type definition struct {
	schema *style.Schema
	build  func(b base) Layer
}

var registry = map[Type]definition{
	TypeCircle: {schema: circleSchema, build: func(b base) Layer { return &Circle{base: b} }},
	TypeFill:   {schema: fillSchema, build: func(b base) Layer { return &Fill{base: b} }},
	TypeLine:   {schema: lineSchema, build: func(b base) Layer { return &Line{base: b} }},
}

// Types returns the registered layer types in sorted order.
func Types() []Type {
	return slices.Sorted(maps.Keys(registry))
}

// SchemaOf returns the property schema of a layer type.
func SchemaOf(typ Type) (*style.Schema, error) {
	def, ok := registry[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	return def.schema, nil
}

// New creates a layer of the given type with every property at its default.
func New(id string, typ Type, opts ...style.CascadeOption) (Layer, error) {
	return newLayer(id, typ, MinZoom, MaxZoom, opts)
}

func newLayer(id string, typ Type, minZoom, maxZoom float64, opts []style.CascadeOption) (Layer, error) {
	def, ok := registry[typ]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownType, typ)
	}
	return def.build(base{
		id:      id,
		typ:     typ,
		schema:  def.schema,
		cascade: style.NewCascade(id, def.schema, opts...),
		minZoom: minZoom,
		maxZoom: maxZoom,
	}), nil
}

// base carries what every layer kind shares.
type base struct {
	id      string
	typ     Type
	schema  *style.Schema
	cascade *style.Cascade
	minZoom float64
	maxZoom float64
}

// ID returns the layer id.
func (b *base) ID() string { return b.id }

// Type returns the layer type tag.
func (b *base) Type() string { return string(b.typ) }

// Schema returns the property schema of the layer type.
func (b *base) Schema() *style.Schema { return b.schema }

// Cascade returns the layer's property cascade.
func (b *base) Cascade() *style.Cascade { return b.cascade }

// Snapshot returns the latest resolved snapshot, or nil.
func (b *base) Snapshot() *style.Snapshot { return b.cascade.Snapshot() }

// Resolve resolves the layer's properties.
func (b *base) Resolve(zoom float64, now time.Time) *style.Snapshot {
	return b.cascade.Resolve(zoom, now)
}

// Visible reports whether zoom is in [minzoom, maxzoom) and the visibility
// layout property evaluates to something other than "none" at zoom, the
// value a snapshot resolved at zoom would hold.
func (b *base) Visible(zoom float64) bool {
	if zoom < b.minZoom || zoom >= b.maxZoom {
		return false
	}
	if v, ok := b.cascade.LayoutValue("visibility"); ok && v.PossiblyEvaluate(zoom).Enum(nil, nil) == "none" {
		return false
	}
	return true
}

// paint returns snap, falling back to the latest snapshot and then to a
// fresh resolution at zoom. The result must match the layer's schema.
func (b *base) paint(snap *style.Snapshot, zoom float64) *style.Snapshot {
	if snap == nil {
		snap = b.cascade.Snapshot()
	}
	if snap == nil {
		snap = b.cascade.Resolve(zoom, time.Now())
	}
	snap.CheckSchema(b.schema)
	return snap
}

func (b *base) CreateBucket(snap *style.Snapshot, features []Feature) *Bucket {
	snap = b.paint(snap, 0)
	return newBucket(b.id, string(b.typ)+"-sort-key", snap, features)
}

func alignment(snap *style.Snapshot, name string) query.Alignment {
	return query.AlignmentOf(snap.Get(name).Enum(nil, nil))
}
