package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/andrew/page-eval/pkg/config"
	"github.com/andrew/page-eval/pkg/evaluation"
	"github.com/andrew/page-eval/pkg/llm"
	"github.com/andrew/page-eval/pkg/loader"
	"github.com/andrew/page-eval/pkg/logging"
	"github.com/andrew/page-eval/pkg/ollama"
)

func main() {
	if err := newRootCmd(os.Stdout).Execute(); err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "😡 %v\n", err)
		os.Exit(1)
	}
}

// newRootCmd builds the command; the transcript and diagnostics go to stdout
func newRootCmd(stdout io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "page-eval",
		Short: "Ask an Ollama model questions about document pages",
		Long: `page-eval loads documents from a directory or a single file, then for every
row of the evaluation CSV (page, question) puts the whole text of that page into
the prompt and prints the model's answer.

Examples:
  page-eval -d ./data -e ./questions.csv
  page-eval -f handbook.pdf -m llama3.2:latest -u http://gpu-box:11434`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd.Flags())
			if err != nil {
				return err
			}

			logger, err := logging.New(cfg.Debug)
			if err != nil {
				return fmt.Errorf("failed to create logger: %w", err)
			}
			defer func() {
				_ = logger.Sync()
			}()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return run(ctx, cfg, stdout, logger)
		},
	}

	flags := cmd.Flags()
	flags.StringP("file", "f", "", "single input file path")
	flags.StringP("directory", "d", config.DefaultDirectory, "input directory path")
	flags.StringP("model", "m", config.DefaultModel, "Ollama model name")
	flags.StringP("ollama_url", "u", config.DefaultOllamaURL, "Ollama base URL")
	flags.StringP("evaluate_file_path", "e", config.DefaultEvaluateFilePath, "evaluation CSV (page, question)")
	flags.StringP("config", "c", "", "optional YAML config file")
	flags.Bool("debug", false, "enable debug logging on stderr")
	flags.Float32("temperature", 0, "sampling temperature (0 keeps the model default)")
	flags.Float32("top_p", 0, "nucleus sampling (0 keeps the model default)")
	flags.Int("max_tokens", 0, "maximum tokens to generate (0 keeps the model default)")
	flags.StringSlice("stop", nil, "stop sequences, repeat or comma-separate")

	return cmd
}

// resolveConfig layers defaults, the config file, the environment and the flags the user set
func resolveConfig(flags *pflag.FlagSet) (config.Config, error) {
	cfg := config.Default()
	if path, _ := flags.GetString("config"); path != "" {
		if err := cfg.LoadFile(path); err != nil {
			return cfg, err
		}
	}
	cfg.ApplyEnv(os.Getenv)

	if flags.Changed("file") {
		cfg.File, _ = flags.GetString("file")
	}
	if flags.Changed("directory") {
		cfg.Directory, _ = flags.GetString("directory")
		cfg.DirectorySet = true
	}
	if flags.Changed("model") {
		cfg.Model, _ = flags.GetString("model")
	}
	if flags.Changed("ollama_url") {
		cfg.OllamaURL, _ = flags.GetString("ollama_url")
	}
	if flags.Changed("evaluate_file_path") {
		cfg.EvaluateFilePath, _ = flags.GetString("evaluate_file_path")
	}
	if flags.Changed("debug") {
		cfg.Debug, _ = flags.GetBool("debug")
	}
	if flags.Changed("temperature") {
		cfg.Temperature, _ = flags.GetFloat32("temperature")
	}
	if flags.Changed("top_p") {
		cfg.TopP, _ = flags.GetFloat32("top_p")
	}
	if flags.Changed("max_tokens") {
		cfg.MaxTokens, _ = flags.GetInt("max_tokens")
	}
	if flags.Changed("stop") {
		cfg.Stop, _ = flags.GetStringSlice("stop")
	}
	return cfg, nil
}

func run(ctx context.Context, cfg config.Config, out io.Writer, logger *zap.Logger) error {
	directory, file, err := cfg.InputSource()
	if err != nil {
		return fmt.Errorf("%w: %w", evaluation.ErrConfiguration, err)
	}

	documents, err := loader.Load(directory, file, logger)
	if err != nil {
		return err
	}
	logger.Debug("loaded documents", zap.Int("count", len(documents)),
		zap.String("directory", directory), zap.String("file", file))

	svc, err := ollama.NewService(cfg.OllamaURL, nil, logger)
	if err != nil {
		return fmt.Errorf("%w: %v", evaluation.ErrConfiguration, err)
	}
	svc.Diagnostics = out

	if err := evaluation.Gate(ctx, svc, cfg.Model, out); err != nil {
		return err
	}

	client, err := llm.NewOllamaClient(cfg.Model, svc.BaseURL(), cfg.ModelConfig())
	if err != nil {
		return err
	}
	defer client.Close()

	rows, err := evaluation.ReadTable(cfg.EvaluateFilePath)
	if err != nil {
		return err
	}

	return evaluation.NewDriver(documents, client, out, logger).Run(ctx, rows)
}
