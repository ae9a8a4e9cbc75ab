package main

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/dgallion1/papersum/internal/pipeline"
	"github.com/dgallion1/papersum/internal/summarize"
)

func summarizeCmd(g *globalFlags) *cobra.Command {
	var headings []string
	var provider string

	cmd := &cobra.Command{
		Use:   "summarize <file>",
		Short: "Summarize selected sections with the configured model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			if provider != "" {
				cfg.SummaryProvider = strings.ToLower(provider)
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			log := g.logger(cfg, cmd.ErrOrStderr())

			client, err := summarize.New(cmd.Context(), cfg, log)
			if err != nil {
				return err
			}
			defer client.Close()

			orch, sess, err := openDocument(cfg, log, args[0], client)
			if err != nil {
				return err
			}
			selectHeadings(sess, headings, cmd.ErrOrStderr())

			results, err := orch.Summarize(cmd.Context(), sess, pipeline.RunOptions{})
			if err != nil {
				return err
			}
			warnSkipped(results, cmd.ErrOrStderr())

			return writeJSON(cmd.OutOrStdout(), map[string]any{
				"filename":  sess.Filename,
				"provider":  client.Provider,
				"model":     client.Model,
				"summaries": results,
			})
		},
	}
	cmd.Flags().StringArrayVarP(&headings, "heading", "H", nil, "heading to summarize (repeatable; default: all detected)")
	cmd.Flags().StringVar(&provider, "provider", "", "summarizer: azure|gemini|extractive (default: SUMMARY_PROVIDER)")
	return cmd
}
