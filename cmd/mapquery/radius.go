package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRadiusCmd(load loadFunc) *cobra.Command {
	var f sceneFlags
	cmd := &cobra.Command{
		Use:   "radius",
		Short: "Print the hit-test query radius of a layer in pixels",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			sc, err := load(cmd, &f)
			if err != nil {
				return err
			}
			r := sc.layer.QueryRadius(sc.snap, sc.bucket)
			fmt.Fprintf(cmd.OutOrStdout(), "%s\t%g\n", sc.layer.ID(), r)
			return nil
		},
	}
	f.register(cmd)
	return cmd
}
