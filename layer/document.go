package layer

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/gogpu/mapstyle/style"
)

// transitionSuffix marks paint keys that configure a property's transition.
const transitionSuffix = "-transition"

// Document is a decoded style document.
type Document struct {
	Version  int             `yaml:"version" validate:"omitempty,eq=8"`
	Name     string          `yaml:"name"`
	Metadata map[string]any  `yaml:"metadata"`
	Layers   []LayerDocument `yaml:"layers" validate:"required,min=1,unique=ID,dive"`
}

// LayerDocument is one entry of a style document's layers array.
type LayerDocument struct {
	ID          string         `yaml:"id" validate:"required"`
	Type        Type           `yaml:"type" validate:"required,layertype"`
	Source      string         `yaml:"source"`
	SourceLayer string         `yaml:"source-layer"`
	MinZoom     *float64       `yaml:"minzoom" validate:"omitempty,gte=0,lte=24"`
	MaxZoom     *float64       `yaml:"maxzoom" validate:"omitempty,gte=0,lte=24"`
	Layout      map[string]any `yaml:"layout"`
	Paint       map[string]any `yaml:"paint"`
	Metadata    map[string]any `yaml:"metadata"`
}

// documentValidate checks decoded documents. Initialized in init() with the
// layer type check.
var documentValidate *validator.Validate

func init() {
	documentValidate = validator.New()
	if err := documentValidate.RegisterValidation("layertype", validateLayerType); err != nil {
		panic(fmt.Sprintf("layer: register layertype validation: %v", err))
	}
}

func validateLayerType(fl validator.FieldLevel) bool {
	_, ok := registry[Type(fl.Field().String())]
	return ok
}

// DecodeStyle reads and validates a style document. Unknown top-level or
// layer keys are rejected.
func DecodeStyle(r io.Reader) (*Document, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var doc Document
	if err := dec.Decode(&doc); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("%w: empty document", ErrInvalidDocument)
		}
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	if err := documentValidate.Struct(&doc); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidDocument, err)
	}
	return &doc, nil
}

// LoadStyle decodes a style document and builds its layers in document
// order.
func LoadStyle(r io.Reader, opts ...style.CascadeOption) ([]Layer, error) {
	doc, err := DecodeStyle(r)
	if err != nil {
		return nil, err
	}
	layers := make([]Layer, 0, len(doc.Layers))
	for _, ld := range doc.Layers {
		l, err := FromDocument(ld, opts...)
		if err != nil {
			return nil, err
		}
		layers = append(layers, l)
	}
	return layers, nil
}

// FromDocument builds a layer from its document entry. Paint and layout
// values take effect immediately; "<property>-transition" paint keys set
// the transition of later changes.
func FromDocument(ld LayerDocument, opts ...style.CascadeOption) (Layer, error) {
	minZoom, maxZoom := float64(MinZoom), float64(MaxZoom)
	if ld.MinZoom != nil {
		minZoom = *ld.MinZoom
	}
	if ld.MaxZoom != nil {
		maxZoom = *ld.MaxZoom
	}
	if minZoom > maxZoom {
		return nil, fmt.Errorf("%w: layer %s: minzoom %v above maxzoom %v", ErrInvalidDocument, ld.ID, minZoom, maxZoom)
	}
	l, err := newLayer(ld.ID, ld.Type, minZoom, maxZoom, opts)
	if err != nil {
		return nil, err
	}

	paint := make(map[string]any, len(ld.Paint))
	transitions := make(map[string]style.TransitionSpec)
	for key, raw := range ld.Paint {
		name, ok := strings.CutSuffix(key, transitionSuffix)
		if !ok {
			paint[key] = raw
			continue
		}
		spec, err := parseTransition(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: layer %s: %s: %w", ErrInvalidDocument, ld.ID, key, err)
		}
		transitions[name] = spec
	}

	c := l.Cascade()
	for name, spec := range transitions {
		if err := c.SetTransition(name, spec); err != nil {
			return nil, fmt.Errorf("%w: layer %s: %w", ErrInvalidDocument, ld.ID, err)
		}
	}
	if err := c.Apply(paint, ld.Layout); err != nil {
		return nil, fmt.Errorf("%w: layer %s: %w", ErrInvalidDocument, ld.ID, err)
	}
	return l, nil
}

// parseTransition reads {duration, delay} in milliseconds.
func parseTransition(raw any) (style.TransitionSpec, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		return style.TransitionSpec{}, errors.New("transition must be an object")
	}
	var spec style.TransitionSpec
	for key, v := range m {
		ms, ok := millis(v)
		if !ok {
			return style.TransitionSpec{}, fmt.Errorf("transition %s must be a non-negative number", key)
		}
		switch key {
		case "duration":
			spec.Duration = ms
		case "delay":
			spec.Delay = ms
		default:
			return style.TransitionSpec{}, fmt.Errorf("unknown transition key %q", key)
		}
	}
	return spec, nil
}

func millis(v any) (time.Duration, bool) {
	var f float64
	switch n := v.(type) {
	case int:
		f = float64(n)
	case float64:
		f = n
	default:
		return 0, false
	}
	if f < 0 {
		return 0, false
	}
	return time.Duration(f * float64(time.Millisecond)), true
}
