package main

import (
	"github.com/spf13/cobra"

	"sysyc/internal/ast"
	"sysyc/internal/buildpipeline"
	"sysyc/internal/lexer"
	"sysyc/internal/parser"
)

func newParseCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "parse <file|->",
		Short: "Print the syntax tree of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, id, err := loadOne(args[0], cmd.InOrStdin())
			if err != nil {
				return a.reportUnits(&buildpipeline.Unit{Path: args[0], Files: fs, Err: err})
			}
			b := ast.NewBuilder(ast.Hints{})
			res := parser.ParseFile(cmd.Context(), lexer.New(fs.Get(id), lexer.Options{}), b, parser.Options{})
			if res.Err != nil {
				return a.reportUnits(&buildpipeline.Unit{Path: args[0], Files: fs, Err: res.Err})
			}
			return ast.Dump(cmd.OutOrStdout(), b, res.File)
		},
	}
}
