package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/JohannesKaufmann/html-to-markdown/v2/converter"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/base"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/commonmark"
	"github.com/JohannesKaufmann/html-to-markdown/v2/plugin/table"
	"github.com/couchcryptid/climate-data-etl/internal/domain"
	"github.com/spf13/cobra"
)

// parseReport is one line of parse output.
type parseReport struct {
	File string `json:"file"`
	domain.Outcome
	TableMarkdown string `json:"table_markdown,omitempty"`
}

func newParseCmd() *cobra.Command {
	var markdown bool
	cmd := &cobra.Command{
		Use:   "parse FILE...",
		Short: "Classify saved HTML pages and print each outcome as JSON",
		Long: "parse runs the table classifier over local HTML files without fetching\n" +
			"anything. Use - to read a document from stdin.",
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			classifier := domain.NewClassifier(nil)
			var md *converter.Converter
			if markdown {
				md = newMarkdownConverter()
			}

			enc := json.NewEncoder(cmd.OutOrStdout())
			for _, path := range args {
				out, err := classifyFile(cmd, classifier, path)
				if err != nil {
					return err
				}
				report := parseReport{File: path, Outcome: out}
				if md != nil && out.TableHTML != "" {
					report.TableMarkdown, err = md.ConvertString(out.TableHTML)
					if err != nil {
						return fmt.Errorf("%s: convert table to markdown: %w", path, err)
					}
				}
				if err := enc.Encode(report); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&markdown, "markdown", false, "include the matched wikitable rendered as Markdown")
	return cmd
}

func classifyFile(cmd *cobra.Command, classifier *domain.Classifier, path string) (domain.Outcome, error) {
	var r io.Reader = cmd.InOrStdin()
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return domain.Outcome{}, err
		}
		defer f.Close()
		r = f
	}

	out, err := classifier.ClassifyReader(r)
	if err != nil {
		return domain.Outcome{}, fmt.Errorf("%s: %w", path, err)
	}
	return out, nil
}

func newMarkdownConverter() *converter.Converter {
	return converter.NewConverter(
		converter.WithPlugins(
			base.NewBasePlugin(),
			commonmark.NewCommonmarkPlugin(),
			// Climate cells carry both units split by <br>.
			table.NewTablePlugin(table.WithNewlineBehavior(table.NewlineBehaviorPreserve)),
		),
	)
}
