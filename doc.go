// Package mapstyle evaluates vector-map style properties and hit-tests
// rendered features under a perspective camera.
//
// # Overview
//
// A tiled vector-map renderer needs two answers every frame. First, what
// concrete value (radius, color, offset, ...) each feature of a layer uses,
// given a style that may vary by zoom, by feature data, and by transitions
// in time. Second, which features lie under a query region once the camera
// has rotated and tilted the map.
//
// The root package holds the shared geometry: [Point], [Vec2], [Rect],
// [Ring], [Geometry], homogeneous [Mat4] math with an explicit [Projection]
// result, [CameraTransform], and [Color]. The work happens in sub-packages:
//
//   - style: property schemas, the paint cascade, transitions, zoom and
//     feature evaluation, immutable snapshots.
//   - query: translate offsets, perspective projection and size correction,
//     intersection primitives, and the parallel hit tester.
//   - layer: circle, fill and line layers built from style documents.
//   - config: runtime settings from YAML and MAPSTYLE_* variables.
//
// # Quick Start
//
//	layers, _ := layer.LoadStyle(styleFile)
//	l := layers[0]
//	snap := l.Resolve(14, time.Now())
//	bucket := l.CreateBucket(snap, features)
//
//	ht := query.NewHitTester()
//	defer ht.Close()
//	hits, _ := ht.Query(ctx, query.Request{
//	    Layer: l, Bucket: bucket, Paint: snap,
//	    QueryGeometry: []mapstyle.Point{{X: 100, Y: 200}},
//	    Transform: &camera, PixelsToTileUnits: 16, PixelPosMatrix: m,
//	})
//
// # Concurrency
//
// Snapshots are immutable and may be shared by any number of goroutines.
// Cascade updates are serialized internally and published by atomic
// pointer swap.
//
// # Logging
//
// Nothing is logged by default. See [SetLogger].
package mapstyle
