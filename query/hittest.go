package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/gogpu/mapstyle"
	"github.com/gogpu/mapstyle/internal/parallel"
	"github.com/gogpu/mapstyle/internal/telemetry"
	"github.com/gogpu/mapstyle/style"
)

// DefaultChunkSize is the number of candidates tested per unit of pool work.
const DefaultChunkSize = 64

var (
	// ErrNoSnapshot is returned when a request has no paint snapshot and the
	// layer was never resolved.
	ErrNoSnapshot = errors.New("query: layer has no resolved snapshot")

	// ErrInvalidRequest is returned for requests missing a layer, bucket,
	// transform or query geometry.
	ErrInvalidRequest = errors.New("query: invalid request")
)

// Request describes one hit test of one layer's bucket.
type Request struct {
	Layer  Layer
	Bucket Bucket

	// QueryGeometry is the query polygon in the bucket's tile space.
	QueryGeometry []mapstyle.Point

	Transform         *mapstyle.CameraTransform
	PixelsToTileUnits float64
	PixelPosMatrix    mapstyle.Mat4

	// Paint overrides the layer's latest snapshot.
	Paint *style.Snapshot
}

// Hit is a feature the query intersects.
type Hit struct {
	Index   int
	ID      string
	Feature style.Feature
}

// Option configures a HitTester.
type Option func(*options)

type options struct {
	workers   int
	chunkSize int
}

// WithWorkers sets the number of pool workers. Zero or negative selects
// GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(o *options) { o.workers = n }
}

// WithChunkSize sets how many candidates one unit of pool work tests.
func WithChunkSize(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

// HitTester runs hit tests across a worker pool. It is safe for concurrent
// use; Close releases the workers.
type HitTester struct {
	pool      *parallel.Pool
	chunkSize int
}

// NewHitTester creates a hit tester with its own worker pool.
func NewHitTester(opts ...Option) *HitTester {
	o := options{chunkSize: DefaultChunkSize}
	for _, opt := range opts {
		opt(&o)
	}
	return &HitTester{
		pool:      parallel.NewPool(o.workers),
		chunkSize: o.chunkSize,
	}
}

// Close stops the worker pool. Queries issued afterwards run on the calling
// goroutine.
func (h *HitTester) Close() {
	h.pool.Close()
}

// Query returns the features of req.Bucket that req.QueryGeometry hits, in
// bucket order.
//
// A feature whose test panics is logged, counted and treated as a miss;
// it never fails the request. A Paint snapshot built from another schema
// is a contract violation and panics on the calling goroutine. ctx is only
// checked before work starts.
func (h *HitTester) Query(ctx context.Context, req Request) ([]Hit, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := req.validate(); err != nil {
		return nil, err
	}
	snap := req.Paint
	if snap == nil {
		snap = req.Layer.Snapshot()
	}
	if snap == nil {
		return nil, fmt.Errorf("layer %s: %w", req.Layer.ID(), ErrNoSnapshot)
	}
	snap.CheckSchema(req.Layer.Schema())

	layerType := req.Layer.Type()
	requestID := uuid.NewString()
	ctx, span := telemetry.Tracer().Start(ctx, "query.HitTester.Query",
		trace.WithAttributes(
			attribute.String("mapstyle.request_id", requestID),
			attribute.String("mapstyle.layer", req.Layer.ID()),
			attribute.String("mapstyle.layer_type", layerType),
			attribute.Int("mapstyle.bucket_size", req.Bucket.Len()),
		),
	)
	defer span.End()

	start := time.Now()
	candidates := h.broadPhase(req, snap)
	hits := h.narrowPhase(req, snap, candidates)

	elapsed := time.Since(start)
	telemetry.QueryDuration.WithLabelValues(layerType).Observe(elapsed.Seconds())
	span.SetAttributes(
		attribute.Int("mapstyle.candidates", len(candidates)),
		attribute.Int("mapstyle.hits", len(hits)),
	)
	span.SetStatus(codes.Ok, "")

	mapstyle.Logger().LogAttrs(ctx, slog.LevelDebug, "query: hit test",
		slog.String("request_id", requestID),
		slog.String("layer", req.Layer.ID()),
		slog.Int("candidates", len(candidates)),
		slog.Int("hits", len(hits)),
		slog.Duration("elapsed", elapsed),
	)
	return hits, nil
}

func (r *Request) validate() error {
	switch {
	case r.Layer == nil:
		return fmt.Errorf("%w: no layer", ErrInvalidRequest)
	case r.Bucket == nil:
		return fmt.Errorf("%w: no bucket", ErrInvalidRequest)
	case r.Transform == nil:
		return fmt.Errorf("%w: no transform", ErrInvalidRequest)
	case len(r.QueryGeometry) == 0:
		return fmt.Errorf("%w: empty query geometry", ErrInvalidRequest)
	}
	return nil
}

// broadPhase returns the indices of features whose bounding box lies within
// the layer's query radius of the query's bounding box.
//
// The radius is in pixels, while the narrow phase may test in tile space or
// in the frame of PixelPosMatrix, with the size corrected for perspective.
// The box is therefore inflated by the radius times the largest tile-space
// distance one pixel can reach in either frame, times the largest
// perspective correction. When no such bound exists (pitched camera,
// projective or singular PixelPosMatrix) every feature is a candidate.
func (h *HitTester) broadPhase(req Request, snap *style.Snapshot) []int {
	n := req.Bucket.Len()
	all := func() []int {
		out := make([]int, n)
		for i := range out {
			out[i] = i
		}
		return out
	}
	if req.Transform.IsPitched() {
		return all()
	}
	scale, ok := broadPhaseScale(req)
	if !ok {
		return all()
	}
	radius, ok := queryRadius(req.Layer, snap, req.Bucket)
	if !ok {
		return all()
	}

	bounds := mapstyle.Ring(req.QueryGeometry).Bounds().Inflate(radius * scale)
	out := make([]int, 0, n)
	for i := range n {
		fb, ok := req.Bucket.At(i).Geometry.Bounds()
		if ok && bounds.Overlaps(fb) {
			out = append(out, i)
		}
	}
	if rejected := n - len(out); rejected > 0 {
		telemetry.BroadPhaseRejected.WithLabelValues(req.Layer.Type()).Add(float64(rejected))
	}
	return out
}

// broadPhaseScale converts a pixel radius into a tile-space bound that holds
// for both narrow-phase frames and every CorrectSize outcome.
func broadPhaseScale(req Request) (float64, bool) {
	linear, ok := minLinearScale(req.PixelPosMatrix)
	if !ok {
		return 0, false
	}
	ctcd := req.Transform.CameraToCenterDistance
	if !(ctcd > 0) || math.IsInf(ctcd, 0) {
		return 0, false
	}
	w := req.PixelPosMatrix[15]
	correction := max(1, w/ctcd, ctcd/w)

	scale := correction * max(req.PixelsToTileUnits, 1/linear)
	if math.IsNaN(scale) || math.IsInf(scale, 0) {
		return 0, false
	}
	return scale, true
}

// queryRadius recovers from a panicking evaluator, reporting ok == false.
// Negative and non-finite radii are not usable bounds either.
func queryRadius(l Layer, snap *style.Snapshot, b Bucket) (radius float64, ok bool) {
	defer func() {
		if r := recover(); r != nil {
			mapstyle.Logger().Warn("query: query radius failed, broad phase disabled",
				"layer", l.ID(), "panic", r)
			ok = false
		}
	}()
	radius = l.QueryRadius(snap, b)
	if math.IsNaN(radius) || math.IsInf(radius, 0) || radius < 0 {
		return 0, false
	}
	return radius, true
}

func (h *HitTester) narrowPhase(req Request, snap *style.Snapshot, candidates []int) []Hit {
	chunks := (len(candidates) + h.chunkSize - 1) / h.chunkSize
	results := make([][]Hit, chunks)
	work := make([]func(), chunks)
	for c := range chunks {
		lo := c * h.chunkSize
		hi := min(lo+h.chunkSize, len(candidates))
		work[c] = func() {
			for _, i := range candidates[lo:hi] {
				cand := req.Bucket.At(i)
				if testFeature(req, snap, cand) {
					results[c] = append(results[c], Hit{Index: cand.Index, ID: cand.ID, Feature: cand.Feature})
				}
			}
		}
	}
	h.pool.Run(work)

	var hits []Hit
	for _, r := range results {
		hits = append(hits, r...)
	}
	return hits
}

// testFeature runs the narrow phase for one feature. A panic is a miss.
func testFeature(req Request, snap *style.Snapshot, c Candidate) (hit bool) {
	layerType := req.Layer.Type()
	defer func() {
		if r := recover(); r != nil {
			telemetry.FeatureTests.WithLabelValues(layerType, telemetry.ResultPanic).Inc()
			mapstyle.Logger().Warn("query: feature test panicked, treating as miss",
				"layer", req.Layer.ID(), "feature", c.ID, "index", c.Index, "panic", r)
			hit = false
		}
	}()

	hit = req.Layer.QueryIntersectsFeature(Params{
		QueryGeometry:     req.QueryGeometry,
		Feature:           c.Feature,
		State:             c.State,
		Geometry:          c.Geometry,
		Transform:         req.Transform,
		PixelsToTileUnits: req.PixelsToTileUnits,
		PixelPosMatrix:    req.PixelPosMatrix,
		Paint:             snap,
	})
	result := telemetry.ResultMiss
	if hit {
		result = telemetry.ResultHit
	}
	telemetry.FeatureTests.WithLabelValues(layerType, result).Inc()
	return hit
}
