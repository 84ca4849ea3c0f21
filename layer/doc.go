// Package layer provides the style layer kinds a map is drawn with.
//
// Each kind (circle, fill, line) is registered under a Type tag together
// with its property schema. New dispatches on the tag; there is no base
// class to override. Every layer owns a style.Cascade and implements the
// hit-testing capabilities of query.Layer.
//
// Style documents are read with DecodeStyle, which accepts YAML (and
// therefore JSON) in the shape
//
//	version: 8
//	layers:
//	  - id: poi
//	    type: circle
//	    minzoom: 10
//	    paint:
//	      circle-radius: {stops: [[10, 2], [16, 12]]}
//	      circle-radius-transition: {duration: 500, delay: 0}
//
// Transition durations and delays are in milliseconds.
package layer
