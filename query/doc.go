// Package query implements perspective-correct hit testing of rendered map
// features.
//
// A hit test runs in two phases. The broad phase asks a layer for its query
// radius, a cheap upper bound on how far (in screen pixels) any of its
// features can reach, and drops candidates whose bounding box is out of
// range. The narrow phase asks the layer whether the query geometry
// actually intersects each remaining feature.
//
// The narrow phase works in one of two coordinate frames. With map pitch
// alignment everything stays in tile space. With viewport pitch alignment
// the query and each feature point are projected through the pixel position
// matrix and divided by their homogeneous w. Sizes are then corrected for
// perspective foreshortening by CorrectSize.
//
// Points whose projection has w <= 0 lie at or behind the camera plane.
// They are skipped, never divided by.
package query
