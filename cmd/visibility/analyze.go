// cmd/visibility/analyze.go
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"provider-visibility/internal/analysis/export"
	"provider-visibility/internal/analysis/service"
	"provider-visibility/internal/analysis/stats"
	"provider-visibility/internal/analysis/transport"
	apperrors "provider-visibility/internal/common/errors"
)

const sampleTranscript = `OpenAI has released new features in ChatGPT. The GPT-4o model is now integrated
with the latest Sora updates, providing enhanced multimodal capabilities. Customers of OpenAI Inc.
are reporting improved results when using ChatGPT across creative workflows.`

type analyzeOptions struct {
	file      string
	text      string
	provider  string
	aliases   string
	exportDir string
	format    string
	sample    bool
}

func newAnalyzeCmd() *cobra.Command {
	opts := &analyzeOptions{}

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze a transcript and print the normalized result",
		Example: `  visibility analyze --file story.txt
  visibility analyze --text "..." --provider OpenAI --alias "OpenAI, ChatGPT" --export ./out
  cat story.txt | visibility analyze --file -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAnalyze(cmd, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "Read the transcript from a file (- for stdin)")
	cmd.Flags().StringVarP(&opts.text, "text", "t", "", "Transcript text")
	cmd.Flags().StringVar(&opts.provider, "provider", "", "Provider name to mask (default from config)")
	cmd.Flags().StringVar(&opts.aliases, "alias", "", "Comma-separated provider aliases (default from config)")
	cmd.Flags().StringVar(&opts.exportDir, "export", "", "Also write analysis-<storyId>.json into this directory")
	cmd.Flags().StringVarP(&opts.format, "output", "o", "json", "Output format: json or text")
	cmd.Flags().BoolVar(&opts.sample, "sample", false, "Use the built-in sample transcript (requires features.sample_transcript)")

	return cmd
}

func runAnalyze(cmd *cobra.Command, opts *analyzeOptions) error {
	if opts.format != "json" && opts.format != "text" {
		return fmt.Errorf("unknown output format %q", opts.format)
	}

	a, err := newApp()
	if err != nil {
		return err
	}

	text, err := readTranscript(cmd.InOrStdin(), opts, a.cfg.Features.SampleTranscript)
	if err != nil {
		return err
	}

	input := &service.Input{
		Text:         text,
		ProviderName: opts.provider,
	}
	if opts.aliases != "" {
		input.ProviderAliases = transport.ParseAliases(opts.aliases)
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	output, err := a.handler.Execute(ctx, input)
	if err != nil {
		return userError(err)
	}

	if opts.exportDir != "" {
		path, err := export.ToFile(opts.exportDir, output.Result)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "exported %s\n", path)
	}

	if opts.format == "text" {
		return printSummary(cmd.OutOrStdout(), output)
	}
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(output)
}

func readTranscript(stdin io.Reader, opts *analyzeOptions, sampleEnabled bool) (string, error) {
	sources := 0
	for _, set := range []bool{opts.file != "", opts.text != "", opts.sample} {
		if set {
			sources++
		}
	}
	if sources != 1 {
		return "", errors.New("provide exactly one of --file, --text or --sample")
	}

	switch {
	case opts.sample:
		if !sampleEnabled {
			return "", errors.New("the sample transcript is disabled; set features.sample_transcript")
		}
		return sampleTranscript, nil
	case opts.text != "":
		return opts.text, nil
	case opts.file == "-":
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("failed to read stdin: %w", err)
		}
		return string(data), nil
	default:
		data, err := os.ReadFile(opts.file)
		if err != nil {
			return "", fmt.Errorf("failed to read transcript: %w", err)
		}
		return string(data), nil
	}
}

// userError reduces a StandardError to its user-facing message.
func userError(err error) error {
	var stdErr *apperrors.StandardError
	if errors.As(err, &stdErr) {
		return fmt.Errorf("%s [%s]", stdErr.Message, stdErr.Code)
	}
	return err
}

func printSummary(w io.Writer, output *service.Output) error {
	r := output.Result

	var b strings.Builder
	fmt.Fprintf(&b, "Story %s (%s mode)\n", r.StoryID, r.Metadata.Mode)
	if r.Metadata.ClientName != nil {
		fmt.Fprintf(&b, "Client: %s\n", *r.Metadata.ClientName)
	}
	fmt.Fprintf(&b, "Provider: %s\n", r.Metadata.ProviderName)
	fmt.Fprintf(&b, "Recognized in %d of %d questions\n", r.Summary.AIProviderRecognizedIn, r.Summary.TotalQuestions)

	if len(output.Comparison.Models) > 0 {
		b.WriteString("\nInference rate by model\n")
		for _, m := range output.Comparison.Models {
			fmt.Fprintf(&b, "  %-16s %5.0f%%  %-6s (%d/%d)\n", m.Model, m.Rate, stats.Band(m.Rate), m.Inferred, m.Total)
		}
	}

	for _, p := range output.Comparison.Pillars {
		fmt.Fprintf(&b, "\n%s\n", p.Title)
		for _, model := range r.Models {
			s := p.Rates[model]
			fmt.Fprintf(&b, "  %-16s %5.0f%%  %s\n", model, s.Rate, stats.Band(s.Rate))
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
