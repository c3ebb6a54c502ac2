package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"sysyc/internal/buildpipeline"
	"sysyc/internal/lexer"
	"sysyc/internal/token"
)

func newTokenizeCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokenize <file|->",
		Short: "Print the token stream of a source file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fs, id, err := loadOne(args[0], cmd.InOrStdin())
			if err != nil {
				return a.reportUnits(&buildpipeline.Unit{Path: args[0], Files: fs, Err: err})
			}
			lx := lexer.New(fs.Get(id), lexer.Options{})
			out := cmd.OutOrStdout()
			for _, tok := range lx.All() {
				if tok.Kind == token.EOF {
					break
				}
				pos, _ := fs.Resolve(tok.Span)
				fmt.Fprintf(out, "%d:%d\t%s\t%s\n", pos.Line, pos.Col, tok.Kind, tok.Text)
			}
			if err := lx.Err(); err != nil {
				return a.reportUnits(&buildpipeline.Unit{Path: args[0], Files: fs, Err: err})
			}
			return nil
		},
	}
}
