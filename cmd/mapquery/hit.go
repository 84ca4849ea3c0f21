package main

import (
	"fmt"
	"math"

	"github.com/spf13/cobra"

	"github.com/gogpu/mapstyle"
	"github.com/gogpu/mapstyle/query"
)

type hitFlags struct {
	sceneFlags
	query             string
	bearing           float64
	pitch             float64
	cameraDistance    float64
	projMatrix        string
	pixelMatrix       string
	pixelsToTileUnits float64
}

func newHitCmd(load loadFunc) *cobra.Command {
	var f hitFlags
	cmd := &cobra.Command{
		Use:   "hit",
		Short: "Print the features of a layer that a query polygon hits",
		Long: `Hit tests every feature of the layer's bucket against the query polygon
and prints one "index<TAB>id" line per hit in draw order.

The query polygon is given in tile units. Matrices are 16 comma separated
values in column-major order and default to the identity.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			q, err := parsePoints(f.query)
			if err != nil {
				return err
			}
			proj, err := parseMatrix(f.projMatrix)
			if err != nil {
				return fmt.Errorf("--proj-matrix: %w", err)
			}
			pixelPos, err := parseMatrix(f.pixelMatrix)
			if err != nil {
				return fmt.Errorf("--pixel-matrix: %w", err)
			}

			sc, err := load(cmd, &f.sceneFlags)
			if err != nil {
				return err
			}

			transform := &mapstyle.CameraTransform{
				Zoom:                   f.zoom,
				BearingRadians:         f.bearing * math.Pi / 180,
				Pitch:                  f.pitch * math.Pi / 180,
				CameraToCenterDistance: f.cameraDistance,
				ProjMatrix:             proj,
			}
			ptu := f.pixelsToTileUnits
			if ptu <= 0 {
				ptu = transform.PixelsToTileUnits(int(math.Floor(f.zoom)), mapstyle.DefaultExtent)
			}

			ht := query.NewHitTester(sc.cfg.HitTesterOptions()...)
			defer ht.Close()

			hits, err := ht.Query(cmd.Context(), query.Request{
				Layer:             sc.layer,
				Bucket:            sc.bucket,
				QueryGeometry:     q,
				Transform:         transform,
				PixelsToTileUnits: ptu,
				PixelPosMatrix:    pixelPos,
				Paint:             sc.snap,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, h := range hits {
				fmt.Fprintf(out, "%d\t%s\n", h.Index, h.ID)
			}
			return nil
		},
	}
	f.register(cmd)
	cmd.Flags().StringVar(&f.query, "query", "", `query polygon in tile units, "x,y;x,y;..."`)
	cmd.Flags().Float64Var(&f.bearing, "bearing", 0, "map bearing in degrees")
	cmd.Flags().Float64Var(&f.pitch, "pitch", 0, "camera pitch in degrees")
	cmd.Flags().Float64Var(&f.cameraDistance, "camera-distance", 1, "camera to centre distance in pixels")
	cmd.Flags().StringVar(&f.projMatrix, "proj-matrix", "", "view-projection matrix")
	cmd.Flags().StringVar(&f.pixelMatrix, "pixel-matrix", "", "tile to viewport pixel matrix")
	cmd.Flags().Float64Var(&f.pixelsToTileUnits, "pixels-to-tile-units", 0, "tile units per pixel; 0 derives it from --zoom")
	_ = cmd.MarkFlagRequired("query")
	return cmd
}
