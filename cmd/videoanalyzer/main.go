package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"videoanalyzer/internal/config"
	"videoanalyzer/internal/inference"
	"videoanalyzer/internal/logger"
	"videoanalyzer/internal/pipeline"
	"videoanalyzer/internal/protocol"
	"videoanalyzer/internal/transcribe"
)

// main is the service entry point: one JSON command on stdin, JSON protocol
// lines on stdout, diagnostics on stderr
func main() {
	var (
		helpFlag    = flag.Bool("help", false, "Show help message")
		versionFlag = flag.Bool("version", false, "Show version information")
	)
	flag.Parse()

	if *helpFlag {
		printHelp()
		os.Exit(0)
	}

	if *versionFlag {
		printVersion()
		os.Exit(0)
	}

	if err := runService(); err != nil {
		fmt.Fprintf(os.Stderr, "Service error: %v\n", err)
		os.Exit(1)
	}
}

// runService contains the core dispatch logic that can be tested
func runService() error {
	// Cloud credentials may live in a .env next to the binary
	_ = godotenv.Load()

	zapLogger := logger.NewLogger()
	defer zapLogger.Sync()

	var cfg *config.Configuration
	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		fileCfg, err := config.NewConfigurationFromFile(configPath)
		if err != nil {
			return fmt.Errorf("failed to load config from file %s: %w", configPath, err)
		}
		cfg = fileCfg
	} else {
		cfg = config.NewConfigurationFromEnv()
	}

	reporter := protocol.NewReporter(os.Stdout, zapLogger)

	cmd, err := protocol.ReadCommand(os.Stdin)
	if err != nil {
		reporter.Error(fmt.Sprintf("Invalid command: %v", err))
		return err
	}

	// Set up context with cancellation for graceful shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		sig := <-sigChan
		zapLogger.Info("received shutdown signal", zap.String("signal", sig.String()))
		cancel()
	}()

	if err := dispatch(ctx, cmd, cfg, reporter, zapLogger); err != nil {
		reporter.Error(err.Error())
		return err
	}

	return nil
}

// dispatch routes one command to its handler
func dispatch(ctx context.Context, cmd *protocol.Command, cfg *config.Configuration, reporter *protocol.Reporter, zapLogger *zap.Logger) error {
	zapLogger.Info("dispatching command", zap.String("command", cmd.Command))

	switch cmd.Command {
	case protocol.CommandAnalyze:
		return runAnalyze(ctx, cmd, cfg, reporter, zapLogger)
	case protocol.CommandCheckModel:
		return runCheckModel(ctx, cmd, cfg, reporter, zapLogger)
	case protocol.CommandTranscribe:
		return runTranscribe(ctx, cmd, cfg, reporter, zapLogger)
	case protocol.CommandCheckDependencies:
		return runCheckDependencies(ctx, cmd, cfg, reporter, zapLogger)
	default:
		return fmt.Errorf("unknown command: %s", cmd.Command)
	}
}

// runAnalyze drives the full analysis pipeline
func runAnalyze(ctx context.Context, cmd *protocol.Command, cfg *config.Configuration, reporter *protocol.Reporter, zapLogger *zap.Logger) error {
	if cmd.Provider == "" {
		return fmt.Errorf("analyze requires a provider")
	}
	if cmd.Model == "" {
		return fmt.Errorf("analyze requires a model")
	}
	if cmd.OutputFile == "" {
		return fmt.Errorf("analyze requires an output file path")
	}

	ollamaEndpoint := cmd.OllamaEndpoint
	if ollamaEndpoint == "" {
		ollamaEndpoint = cfg.GetOllamaEndpoint()
	}

	registry := inference.NewRegistryWithLogger(registryOptions(cmd, cfg, ollamaEndpoint), zapLogger)

	categories := cmd.Categories
	if len(categories) == 0 {
		configured, err := cfg.GetCategories()
		if err != nil {
			return err
		}
		categories = configured
	}

	opts := pipeline.Options{
		Provider:       inference.Provider(cmd.Provider),
		Model:          cmd.Model,
		TranscriptText: cmd.TranscriptText,
		Segments:       cmd.Segments,
		OutputFile:     cmd.OutputFile,
		CustomPrompt:   cmd.CustomPrompt,
		TitleContext:   cmd.TitleContext,
		Categories:     categories,
		ChunkMinutes:   cfg.GetChunkMinutes(),
		SectionTimeout: cfg.GetSectionTimeout(),
		QuoteTimeout:   cfg.GetQuoteTimeout(),
		SummaryTimeout: cfg.GetSummaryTimeout(),
		TagTimeout:     cfg.GetTagTimeout(),
		TitleTimeout:   cfg.GetTitleTimeout(),
		ProbeTimeout:   cfg.GetProbeTimeout(),
	}

	p, err := pipeline.New(registry, ollamaEndpoint, opts, reporter.Progress, zapLogger)
	if err != nil {
		return err
	}

	result, err := p.Run(ctx)
	if err != nil {
		return err
	}

	reporter.Result(result)
	return nil
}

// runCheckModel runs the two-step availability probe
func runCheckModel(ctx context.Context, cmd *protocol.Command, cfg *config.Configuration, reporter *protocol.Reporter, zapLogger *zap.Logger) error {
	if cmd.Model == "" {
		return fmt.Errorf("check_model requires a model")
	}

	endpoint := cmd.OllamaEndpoint
	if endpoint == "" {
		endpoint = cfg.GetOllamaEndpoint()
	}

	probe := inference.NewProbeWithLogger(endpoint, cfg.GetProbeTimeout(), zapLogger)
	available := probe.CheckModel(ctx, cmd.Model)

	reporter.Result(map[string]bool{"available": available})
	return nil
}

// runTranscribe delegates to the speech-to-text collaborator
func runTranscribe(ctx context.Context, cmd *protocol.Command, cfg *config.Configuration, reporter *protocol.Reporter, zapLogger *zap.Logger) error {
	if cmd.AudioPath == "" {
		return fmt.Errorf("transcribe requires an audio path")
	}

	backend := transcribe.NewWhisperServerBackend(cfg.GetWhisperServerURL(), cfg.GetWhisperTimeout(), zapLogger)

	reporter.Progress("transcription", nil, "Transcribing audio (this may take a few minutes)...")

	result, err := backend.Transcribe(ctx, cmd.AudioPath, cmd.Model, cmd.Language)
	if err != nil {
		return fmt.Errorf("transcription failed: %w", err)
	}

	reporter.Result(result)
	return nil
}

// runCheckDependencies reports which optional runtime capabilities are present
func runCheckDependencies(ctx context.Context, cmd *protocol.Command, cfg *config.Configuration, reporter *protocol.Reporter, zapLogger *zap.Logger) error {
	endpoint := cmd.OllamaEndpoint
	if endpoint == "" {
		endpoint = cfg.GetOllamaEndpoint()
	}

	probe := inference.NewProbeWithLogger(endpoint, cfg.GetProbeTimeout(), zapLogger)
	whisper := transcribe.NewWhisperServerBackend(cfg.GetWhisperServerURL(), cfg.GetWhisperTimeout(), zapLogger)

	registry := inference.NewRegistryWithLogger(registryOptions(cmd, cfg, endpoint), zapLogger)

	reporter.Result(map[string]bool{
		"ollama_server":  probe.ServerReachable(ctx),
		"whisper_server": whisper.Reachable(ctx),
		"openai":         registry.Has(inference.ProviderOpenAI),
		"anthropic":      registry.Has(inference.ProviderAnthropic),
	})
	return nil
}

// registryOptions merges command-supplied credentials over the configured
// ones; an api_key in the command applies to the selected cloud provider
func registryOptions(cmd *protocol.Command, cfg *config.Configuration, ollamaEndpoint string) inference.RegistryOptions {
	opts := inference.RegistryOptions{
		OllamaEndpoint:  ollamaEndpoint,
		OpenAIAPIKey:    cfg.GetOpenAIAPIKey(),
		AnthropicAPIKey: cfg.GetAnthropicAPIKey(),
	}

	if cmd.APIKey != "" {
		switch inference.Provider(cmd.Provider) {
		case inference.ProviderOpenAI:
			opts.OpenAIAPIKey = cmd.APIKey
		case inference.ProviderAnthropic:
			opts.AnthropicAPIKey = cmd.APIKey
		}
	}

	return opts
}

// printHelp displays command line usage information
func printHelp() {
	fmt.Println("Video Analyzer - Transcript Content Analysis Service")
	fmt.Println()
	fmt.Println("USAGE:")
	fmt.Println("    videoanalyzer [OPTIONS] < command.json")
	fmt.Println()
	fmt.Println("OPTIONS:")
	fmt.Println("    -help      Show this help message")
	fmt.Println("    -version   Show version information")
	fmt.Println()
	fmt.Println("COMMANDS (single JSON object on stdin):")
	fmt.Println("    analyze              Run the content analysis pipeline")
	fmt.Println("    transcribe           Transcribe an audio file")
	fmt.Println("    check_model          Probe local model availability")
	fmt.Println("    check_dependencies   Report available runtime capabilities")
	fmt.Println()
	fmt.Println("CONFIGURATION:")
	fmt.Println("    Configuration is loaded from environment variables, or from the")
	fmt.Println("    file named by CONFIG_PATH. Cloud API keys may also be supplied")
	fmt.Println("    in a .env file or in the command payload.")
}

// printVersion displays version and build information
func printVersion() {
	fmt.Println("Video Analyzer")
	fmt.Println("Version: 1.2")
	fmt.Println("Protocol: JSON lines over standard streams")
}
