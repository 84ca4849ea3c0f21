package query

import (
	"github.com/gogpu/mapstyle"
	"github.com/gogpu/mapstyle/style"
)

// Params is the input of a narrow-phase test for one feature.
type Params struct {
	// QueryGeometry is the query polygon in the feature's tile space.
	QueryGeometry []mapstyle.Point

	Feature  style.Feature
	State    style.FeatureState
	Geometry mapstyle.Geometry

	Transform *mapstyle.CameraTransform

	// PixelsToTileUnits converts screen pixels to tile units at the
	// feature's tile.
	PixelsToTileUnits float64

	// PixelPosMatrix maps tile space to screen pixels.
	PixelPosMatrix mapstyle.Mat4

	// Paint is the snapshot to evaluate properties from. It must have been
	// built from the layer's schema.
	Paint *style.Snapshot
}

// Layer is the hit-testing capability of a style layer.
type Layer interface {
	// ID returns the layer id.
	ID() string

	// Type returns the layer type tag ("circle", "fill", ...).
	Type() string

	// Schema returns the property schema of the layer type.
	Schema() *style.Schema

	// Snapshot returns the layer's most recently resolved paint snapshot,
	// or nil if the layer has never been resolved.
	Snapshot() *style.Snapshot

	// QueryRadius returns an upper bound, in screen pixels, on how far any
	// feature of bucket extends from its geometry.
	QueryRadius(snap *style.Snapshot, bucket Bucket) float64

	// QueryIntersectsFeature reports whether the query hits one feature.
	QueryIntersectsFeature(p Params) bool
}
