package mapstyle

import "math"

// DefaultTileSize is the on-screen size in pixels of one tile at its own zoom.
const DefaultTileSize = 512

// DefaultExtent is the tile-space coordinate range of one vector tile.
const DefaultExtent = 8192

// CameraTransform describes the camera a frame is rendered with. It is owned
// by the caller and only read by this module.
type CameraTransform struct {
	// Zoom is the fractional camera zoom level.
	Zoom float64

	// BearingRadians is the map rotation; positive rotates clockwise on screen.
	BearingRadians float64

	// Pitch is the camera tilt in radians (0 = looking straight down).
	Pitch float64

	// CameraToCenterDistance is the distance from the camera to the screen
	// centre, in pixels. Perspective size correction divides by it.
	CameraToCenterDistance float64

	// ProjMatrix is the camera's view-projection matrix.
	ProjMatrix Mat4
}

// IsPitched reports whether the camera is tilted.
func (t *CameraTransform) IsPitched() bool {
	return t.Pitch != 0
}

// PixelsToTileUnits returns how many tile units one screen pixel covers for
// a tile at tileZoom with the given extent. extent <= 0 selects DefaultExtent.
func (t *CameraTransform) PixelsToTileUnits(tileZoom int, extent float64) float64 {
	if extent <= 0 {
		extent = DefaultExtent
	}
	return extent / (DefaultTileSize * math.Exp2(t.Zoom-float64(tileZoom)))
}
