package style

import "time"

// TransitionSpec controls how a property animates to a new value.
type TransitionSpec struct {
	Duration time.Duration `yaml:"duration" json:"duration"`
	Delay    time.Duration `yaml:"delay" json:"delay"`
}

// DefaultTransition is used for properties without their own TransitionSpec.
var DefaultTransition = TransitionSpec{Duration: 300 * time.Millisecond}

// transitioning is one link of a property's transition chain: the current
// target value, plus the chain it is animating away from. Nodes are
// immutable; retiring a finished transition produces a new node.
type transitioning struct {
	value *PropertyValue
	prior *transitioning
	begin time.Time
	end   time.Time
}

// newTransitioning starts a transition from prior to value at now. Without a
// prior, or for properties that do not transition, the node is settled.
func newTransitioning(value *PropertyValue, prior *transitioning, spec TransitionSpec, now time.Time) *transitioning {
	t := &transitioning{value: value, begin: now, end: now}
	if prior == nil || !value.spec.Transition {
		return t
	}
	t.prior = prior.retire(now)
	t.begin = now.Add(spec.Delay)
	t.end = t.begin.Add(spec.Duration)
	return t
}

// resolve returns the value at zoom and now: the prior value before the
// delay has elapsed, the exact target once now >= end, and a linear blend
// in between.
func (t *transitioning) resolve(zoom float64, now time.Time) PossiblyEvaluated {
	target := t.value.possiblyEvaluate(zoom)
	if t.prior == nil || !now.Before(t.end) {
		return target
	}
	from := t.prior.resolve(zoom, now)
	if now.Before(t.begin) {
		return from
	}
	k := float64(now.Sub(t.begin)) / float64(t.end.Sub(t.begin))
	return interpolateEvaluated(t.value.spec.Type, from, target, k)
}

// retire drops every part of the chain that has finished by now. It returns
// t itself when nothing changed.
func (t *transitioning) retire(now time.Time) *transitioning {
	if t.prior == nil {
		return t
	}
	if !now.Before(t.end) {
		return &transitioning{value: t.value, begin: t.begin, end: t.end}
	}
	prior := t.prior.retire(now)
	if prior == t.prior {
		return t
	}
	return &transitioning{value: t.value, prior: prior, begin: t.begin, end: t.end}
}

// settled reports whether the node no longer animates.
func (t *transitioning) settled() bool {
	return t.prior == nil
}
