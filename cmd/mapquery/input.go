package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/gogpu/mapstyle"
	"github.com/gogpu/mapstyle/layer"
	"github.com/gogpu/mapstyle/style"
)

// featuresFile is the on-disk form of a tile's features. Geometry is a list
// of rings, each a list of [x, y] tile coordinates.
type featuresFile struct {
	Features []featureDoc `yaml:"features"`
}

type featureDoc struct {
	ID         string         `yaml:"id"`
	Properties map[string]any `yaml:"properties"`
	State      map[string]any `yaml:"state"`
	Geometry   [][][]float64  `yaml:"geometry"`
}

func readStyle(path string, opts []style.CascadeOption) ([]layer.Layer, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open style: %w", err)
	}
	defer f.Close()

	layers, err := layer.LoadStyle(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("load style %s: %w", path, err)
	}
	return layers, nil
}

func readFeatures(ctx context.Context, path string) ([]featureDoc, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("open features: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var doc featuresFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode features %s: %w", path, err)
	}
	for i, fd := range doc.Features {
		for _, ring := range fd.Geometry {
			for _, xy := range ring {
				if len(xy) != 2 {
					return nil, fmt.Errorf("feature %d (%q): coordinate %v is not [x, y]", i, fd.ID, xy)
				}
			}
		}
	}
	return doc.Features, nil
}

func toFeatures(docs []featureDoc) []layer.Feature {
	out := make([]layer.Feature, len(docs))
	for i, fd := range docs {
		geom := make(mapstyle.Geometry, len(fd.Geometry))
		for r, ring := range fd.Geometry {
			geom[r] = make(mapstyle.Ring, len(ring))
			for j, xy := range ring {
				geom[r][j] = mapstyle.Pt(xy[0], xy[1])
			}
		}
		out[i] = layer.Feature{ID: fd.ID, Properties: fd.Properties, Geometry: geom}
	}
	return out
}

// parsePoints parses "x,y;x,y;..." into points.
func parsePoints(s string) ([]mapstyle.Point, error) {
	var pts []mapstyle.Point
	for pair := range strings.SplitSeq(s, ";") {
		pair = strings.TrimSpace(pair)
		if pair == "" {
			continue
		}
		xs, ys, ok := strings.Cut(pair, ",")
		if !ok {
			return nil, fmt.Errorf("point %q: want x,y", pair)
		}
		x, err := parseFinite(xs)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", pair, err)
		}
		y, err := parseFinite(ys)
		if err != nil {
			return nil, fmt.Errorf("point %q: %w", pair, err)
		}
		pts = append(pts, mapstyle.Pt(x, y))
	}
	if len(pts) == 0 {
		return nil, errors.New("query geometry is empty")
	}
	return pts, nil
}

// parseMatrix parses 16 comma separated values in column-major order. An
// empty string yields the identity.
func parseMatrix(s string) (mapstyle.Mat4, error) {
	if strings.TrimSpace(s) == "" {
		return mapstyle.IdentityMat4(), nil
	}
	fields := strings.Split(s, ",")
	if len(fields) != 16 {
		return mapstyle.Mat4{}, fmt.Errorf("matrix: want 16 values, got %d", len(fields))
	}
	var m [16]float64
	for i, f := range fields {
		v, err := parseFinite(f)
		if err != nil {
			return mapstyle.Mat4{}, fmt.Errorf("matrix[%d]: %w", i, err)
		}
		m[i] = v
	}
	return mapstyle.Mat4FromColumnMajor(m), nil
}

func parseFinite(s string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, fmt.Errorf("%s is not finite", s)
	}
	return v, nil
}
