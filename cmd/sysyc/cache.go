package main

import (
	"github.com/spf13/cobra"

	"sysyc/internal/buildpipeline"
)

func newCacheCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Manage the on-disk IR cache",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "clean",
		Short: "Remove every cached unit",
		Args:  cobra.NoArgs,
		RunE: func(*cobra.Command, []string) error {
			dir, err := buildpipeline.DefaultCacheDir()
			if err != nil {
				return err
			}
			c, err := buildpipeline.OpenDiskCache(dir)
			if err != nil {
				return err
			}
			n, err := c.Clean()
			if err != nil {
				return err
			}
			a.infof("removed %d cached unit(s) from %s\n", n, dir)
			return nil
		},
	})
	return cmd
}
