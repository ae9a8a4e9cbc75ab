package main

import (
	"github.com/spf13/cobra"
)

func headingsCmd(g *globalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "headings <file>",
		Short: "List the section headings detected in a document",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			_, sess, err := openDocument(cfg, g.logger(cfg, cmd.ErrOrStderr()), args[0], nil)
			if err != nil {
				return err
			}
			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"filename": sess.Filename,
				"headings": sess.Headings(),
			})
		},
	}
}
