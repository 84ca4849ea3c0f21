package main

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/gogpu/mapstyle"
	"github.com/gogpu/mapstyle/config"
	"github.com/gogpu/mapstyle/layer"
	"github.com/gogpu/mapstyle/style"
)

// sceneFlags are shared by every command that loads a layer.
type sceneFlags struct {
	stylePath    string
	featuresPath string
	layerID      string
	zoom         float64
}

func (f *sceneFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.stylePath, "style", "", "style document (YAML or JSON)")
	cmd.Flags().StringVar(&f.featuresPath, "features", "", "tile features (YAML or JSON)")
	cmd.Flags().StringVar(&f.layerID, "layer", "", "id of the layer to query")
	cmd.Flags().Float64Var(&f.zoom, "zoom", 0, "camera zoom")
	_ = cmd.MarkFlagRequired("style")
	_ = cmd.MarkFlagRequired("features")
	_ = cmd.MarkFlagRequired("layer")
}

// scene is a resolved layer with its bucket for one tile.
type scene struct {
	cfg    config.Config
	layer  layer.Layer
	snap   *style.Snapshot
	bucket *layer.Bucket
}

func newRootCmd() *cobra.Command {
	var configPath string
	root := &cobra.Command{
		Use:           "mapquery",
		Short:         "Evaluate style layers and hit test tile features",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "", "configuration file (MAPSTYLE_* variables override it)")

	load := func(cmd *cobra.Command, f *sceneFlags) (*scene, error) {
		cfg, err := config.Load(configPath)
		if err != nil {
			return nil, err
		}
		mapstyle.SetLogger(cfg.NewLogger(cmd.ErrOrStderr()))
		return loadScene(cmd.Context(), cfg, f)
	}

	root.AddCommand(newRadiusCmd(load), newHitCmd(load))
	return root
}

type loadFunc func(cmd *cobra.Command, f *sceneFlags) (*scene, error)

// loadScene reads the style and the features concurrently, then resolves
// the requested layer at the flag zoom.
func loadScene(ctx context.Context, cfg config.Config, f *sceneFlags) (*scene, error) {
	var (
		layers   []layer.Layer
		features []featureDoc
	)
	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		layers, err = readStyle(f.stylePath, cfg.CascadeOptions())
		return err
	})
	g.Go(func() error {
		var err error
		features, err = readFeatures(ctx, f.featuresPath)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var lyr layer.Layer
	for _, l := range layers {
		if l.ID() == f.layerID {
			lyr = l
			break
		}
	}
	if lyr == nil {
		return nil, fmt.Errorf("layer %q not found in %s", f.layerID, f.stylePath)
	}

	snap := lyr.Resolve(f.zoom, time.Now())
	bucket := lyr.CreateBucket(snap, toFeatures(features))
	for _, fd := range features {
		if len(fd.State) > 0 {
			bucket.SetFeatureState(fd.ID, fd.State)
		}
	}
	mapstyle.Logger().Debug("scene loaded",
		"layer", lyr.ID(),
		"type", lyr.Type(),
		"zoom", f.zoom,
		"features", bucket.Len())
	return &scene{cfg: cfg, layer: lyr, snap: snap, bucket: bucket}, nil
}
