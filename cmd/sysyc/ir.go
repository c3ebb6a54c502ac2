package main

import (
	"github.com/spf13/cobra"

	"sysyc/internal/buildpipeline"
)

func newIRCmd(a *app) *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "ir <file|->",
		Short: "Print the Koopa IR of one source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, id, err := loadOne(args[0], cmd.InOrStdin())
			var u *buildpipeline.Unit
			if err != nil {
				u = &buildpipeline.Unit{Path: args[0], Files: fs, Err: err}
			} else {
				u = buildpipeline.CompileFile(cmd.Context(), fs, id, a.compileOptions())
			}
			if err := a.reportUnits(u); err != nil {
				return err
			}
			return writeText(output, u.IR, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write IR to this file instead of stdout")
	return cmd
}
