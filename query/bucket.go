package query

import (
	"github.com/gogpu/mapstyle"
	"github.com/gogpu/mapstyle/style"
)

// Candidate is one feature of a bucket as seen by the hit tester.
type Candidate struct {
	// Index is the feature's position in its bucket.
	Index    int
	ID       string
	Feature  style.Feature
	State    style.FeatureState
	Geometry mapstyle.Geometry
}

// Bucket is the set of features a layer has laid out for one tile.
// Implementations must be safe for concurrent reads.
type Bucket interface {
	Len() int
	At(i int) Candidate
}

// MaximumPaintValue returns the largest value a number paint property takes
// over the features of bucket. A constant property returns its value
// without visiting the bucket; a data-driven one over an empty bucket
// returns 0.
func MaximumPaintValue(name string, snap *style.Snapshot, bucket Bucket) float64 {
	pe := snap.Get(name)
	if pe.IsConstant() {
		return pe.Number(nil, nil)
	}
	var out float64
	for i := range bucket.Len() {
		c := bucket.At(i)
		if i == 0 {
			out = pe.Number(c.Feature, c.State)
			continue
		}
		out = max(out, pe.Number(c.Feature, c.State))
	}
	return out
}
