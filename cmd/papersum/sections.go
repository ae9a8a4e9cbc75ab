package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dgallion1/papersum/internal/pipeline"
	"github.com/dgallion1/papersum/internal/section"
)

func sectionsCmd(g *globalFlags) *cobra.Command {
	var headings []string

	cmd := &cobra.Command{
		Use:   "sections <file>",
		Short: "Print the text of selected sections",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			orch, sess, err := openDocument(cfg, g.logger(cfg, cmd.ErrOrStderr()), args[0], nil)
			if err != nil {
				return err
			}
			selectHeadings(sess, headings, cmd.ErrOrStderr())

			selected := sess.Selected()
			results := make([]pipeline.HeadingResult, 0, len(selected))
			for _, h := range selected {
				res := pipeline.HeadingResult{Heading: h, Status: pipeline.StatusOK}
				sec, err := orch.Section(sess, h)
				var notFound *section.HeadingNotFoundError
				var empty *section.EmptySectionError
				switch {
				case errors.As(err, &notFound):
					res.Status, res.Error = pipeline.StatusNotFound, err.Error()
					res.Start, res.End = section.NotFound, section.NotFound
				case errors.As(err, &empty):
					res.Status, res.Error = pipeline.StatusEmpty, err.Error()
					res.Start, res.End = section.NotFound, section.NotFound
				case err != nil:
					return err
				default:
					res.Start, res.End, res.Body = sec.Start, sec.End, sec.Body
				}
				results = append(results, res)
			}
			warnSkipped(results, cmd.ErrOrStderr())

			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"filename": sess.Filename,
				"sections": results,
			})
		},
	}
	cmd.Flags().StringArrayVarP(&headings, "heading", "H", nil, "heading to extract (repeatable; default: all detected)")
	return cmd
}
