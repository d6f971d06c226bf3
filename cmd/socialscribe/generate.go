package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"socialscribe/internal/ai"
	"socialscribe/internal/config"
	"socialscribe/internal/prompt"
)

// errGenerationFailed makes `generate` exit non-zero after the sentinel
// message has been printed.
var errGenerationFailed = errors.New("generation failed")

// optionFlags holds the post options shared by `prompt` and `generate`.
type optionFlags struct {
	topic    string
	platform string
	template string
	tone     string
	words    int
	hashtags bool
	emojis   bool
}

func (f *optionFlags) register(cmd *cobra.Command) {
	fl := cmd.Flags()
	fl.StringVar(&f.topic, "topic", "", "topic of the post")
	fl.StringVar(&f.platform, "platform", "", "target platform, e.g. LinkedIn")
	fl.StringVar(&f.template, "template", "", "post template: rewrite, edit, summarize, promotional, company-related, explain")
	fl.StringVar(&f.tone, "tone", "", "tone of voice")
	fl.IntVar(&f.words, "words", 0, "approximate word count (0 omits the clause)")
	fl.BoolVar(&f.hashtags, "hashtags", false, "include hashtags")
	fl.BoolVar(&f.emojis, "emojis", false, "include emojis")
}

func (f *optionFlags) options() (prompt.Options, error) {
	if f.words < 0 {
		return prompt.Options{}, fmt.Errorf("--words must not be negative, got %d", f.words)
	}
	return prompt.Options{
		Topic:           f.topic,
		Platform:        f.platform,
		Template:        prompt.ParseTemplate(f.template),
		Tone:            f.tone,
		WordCount:       prompt.WordCountOf(f.words),
		IncludeHashtags: f.hashtags,
		IncludeEmojis:   f.emojis,
	}, nil
}

func newPromptCmd() *cobra.Command {
	var flags optionFlags
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the prompt that would be sent to Gemini",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), prompt.Build(opts))
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

// providerFactory builds the provider for `generate`. Tests replace it.
var providerFactory = func(cfg *config.Config) ai.Provider {
	return ai.NewGemini(ai.ProviderConfig{
		APIKey:  cfg.GeminiKey,
		Model:   cfg.GeminiModel,
		BaseURL: cfg.GeminiBaseURL,
		Timeout: cfg.GeminiTimeout,
	})
}

func newGenerateCmd() *cobra.Command {
	var flags optionFlags
	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate a single post and print it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts, err := flags.options()
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			setupLogger(cfg)

			gateway := ai.NewGateway(providerFactory(cfg))
			res := gateway.Generate(cmd.Context(), prompt.Build(opts))

			fmt.Fprintln(cmd.OutOrStdout(), res.Message())
			if !res.OK() {
				return fmt.Errorf("%w: %s", errGenerationFailed, res.Kind())
			}
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}
