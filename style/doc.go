// Package style resolves style properties of map layers.
//
// A layer type declares its properties in a [Schema]. A style document
// supplies raw values, which [ParseValue] checks against the declaration:
// literals, property functions over zoom and feature attributes, or
// [Expression] values. A [Cascade] holds the raw values of one layer and the
// transitions between them, and [Cascade.Resolve] turns them into an
// immutable [Snapshot] for one zoom and time.
//
// Every property in a snapshot is a [PossiblyEvaluated]: either a constant,
// or a deferred evaluator that still needs the feature (and its state).
//
//	snap := cascade.Resolve(14.5, time.Now())
//	radius := snap.Get("circle-radius").Number(feature, state)
//
// Reading a property the schema does not declare panics with a
// [*ContractViolation]; it is a programming error, not a runtime condition.
package style
