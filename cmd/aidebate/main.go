// Command aidebate runs a two-model debate (or iterative optimization)
// from the command line and writes the resulting transcript artifacts.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"

	"dev.helix.debate/internal/config"
	"dev.helix.debate/internal/debate"
	"dev.helix.debate/internal/events"
	"dev.helix.debate/internal/llm"
	"dev.helix.debate/internal/models"
	"dev.helix.debate/internal/providers"
	"dev.helix.debate/internal/transcript"
)

// Environment variables consulted, in order, when an API key flag is not
// provided.
var apiKeyEnvVars = []string{
	"OPENAI_API_KEY",
	"ANTHROPIC_API_KEY",
	"DEEPSEEK_API_KEY",
	"MOONSHOT_API_KEY",
	"ZHIPU_API_KEY",
	"ERNIE_API_KEY",
	"BAIDU_API_KEY",
}

func main() {
	var (
		configPath = flag.String("config", "", "YAML session configuration file (overrides other flags)")
		question   = flag.String("question", "Will artificial intelligence surpass human intelligence?", "debate topic / question")
		mode       = flag.String("mode", config.ModeDebate, "workflow: debate or optimize")
		rounds     = flag.Int("rounds", 3, "number of debate rounds")
		iterations = flag.Int("iterations", 3, "number of optimization iterations")
		model1     = flag.String("model1", "gpt-3.5-turbo", "first participant model")
		model2     = flag.String("model2", "gpt-3.5-turbo", "second participant model")
		temp1      = flag.Float64("temp1", 0.7, "first participant temperature")
		temp2      = flag.Float64("temp2", 0.7, "second participant temperature")
		apiKey1    = flag.String("api-key1", "", "first participant API key (falls back to environment)")
		apiKey2    = flag.String("api-key2", "", "second participant API key (falls back to environment)")
		apiBase1   = flag.String("api-base1", "", "first participant API base URL override")
		apiBase2   = flag.String("api-base2", "", "second participant API base URL override")
		streaming  = flag.Bool("stream", false, "stream model output incrementally")
		output     = flag.String("output", "ai_debate_result.txt", "output file for the text transcript")
		logLevel   = flag.String("log-level", "info", "log level: debug, info, warning, error")
	)
	flag.Parse()

	// Optional .env for local development; absence is not an error.
	_ = godotenv.Load()

	sc := &config.SessionConfig{
		Question:   *question,
		Mode:       *mode,
		Rounds:     *rounds,
		Iterations: *iterations,
		Stream:     *streaming,
		Output:     *output,
		LogLevel:   *logLevel,
		Participant1: config.ParticipantConfig{
			Model: *model1, APIKey: *apiKey1, BaseURL: *apiBase1, Temperature: temp1,
		},
		Participant2: config.ParticipantConfig{
			Model: *model2, APIKey: *apiKey2, BaseURL: *apiBase2, Temperature: temp2,
		},
	}

	if *configPath != "" {
		loaded, err := config.NewLoader(*configPath).Load()
		if err != nil {
			fatalf("failed to load configuration: %v", err)
		}
		sc = loaded
	}

	fillAPIKeysFromEnv(sc)
	if sc.Participant1.APIKey == "" || sc.Participant2.APIKey == "" {
		fmt.Fprintln(os.Stderr, "Error: provide API keys for both models via -api-key1/-api-key2 or environment variables.")
		fmt.Fprintf(os.Stderr, "Supported environment variables: %s\n", strings.Join(apiKeyEnvVars, ", "))
		os.Exit(2)
	}

	logger := newLogger(sc.LogLevel)

	backend1, res1 := providers.Backend(sc.Participant1.Model, sc.Participant1.APIKey, sc.Participant1.BaseURL, sc.Participant1.TemperatureValue())
	backend2, res2 := providers.Backend(sc.Participant2.Model, sc.Participant2.APIKey, sc.Participant2.BaseURL, sc.Participant2.TemperatureValue())
	if !res1.Recognized {
		color.Yellow("Warning: provider for model %q unrecognized, assuming OpenAI-compatible API", backend1.Model)
	}
	if !res2.Recognized {
		color.Yellow("Warning: provider for model %q unrecognized, assuming OpenAI-compatible API", backend2.Model)
	}

	color.Cyan("Topic: %s", sc.Question)
	color.Cyan("Models: %s (%s) vs %s (%s)", backend1.Model, backend1.Provider, backend2.Model, backend2.Provider)

	eventStream := events.NewStream(0)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		printEvents(eventStream, sc.Stream)
	}()

	orch := debate.NewOrchestrator(debate.Config{
		Participant1: backend1,
		Participant2: backend2,
		Streaming:    sc.Stream,
	}, llm.NewClient(backend1), llm.NewClient(backend2), eventStream, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	context.AfterFunc(ctx, eventStream.Abort)

	var result *models.SessionResult
	var err error
	if sc.Mode == config.ModeOptimize {
		result, err = orch.RunOptimization(ctx, sc.Question, sc.Iterations)
	} else {
		result, err = orch.RunDebate(ctx, sc.Question, sc.Rounds)
	}
	eventStream.Close()
	wg.Wait()

	if err != nil {
		reportFailure(err)
		os.Exit(1)
	}

	if err := persist(logger, sc, result); err != nil {
		fatalf("failed to save transcript: %v", err)
	}
	color.Green("Done. Transcript saved to %s", sc.Output)
}

func persist(logger *logrus.Logger, sc *config.SessionConfig, result *models.SessionResult) error {
	recorder := transcript.NewRecorder(logger)
	if err := recorder.SaveText(result, sc.Output); err != nil {
		return err
	}
	jsonPath := strings.TrimSuffix(sc.Output, filepath.Ext(sc.Output)) + ".json"
	if err := recorder.SaveJSON(result, jsonPath); err != nil {
		return err
	}
	// Timestamped copy alongside the run logs, mirroring the main output.
	logPath := filepath.Join("logs", fmt.Sprintf("conversation_%d.txt", time.Now().Unix()))
	if err := recorder.SaveText(result, logPath); err != nil {
		logger.Warnf("failed to write conversation log: %v", err)
	}
	return nil
}

func printEvents(stream *events.Stream, streaming bool) {
	speaker := color.New(color.FgCyan, color.Bold)
	finalBanner := color.New(color.FgGreen, color.Bold)

	for event := range stream.Events() {
		switch event.Kind {
		case events.KindText:
			fmt.Print(event.Text)
		case events.KindTurnComplete:
			if streaming {
				fmt.Println()
			}
			banner := speaker
			if event.Turn.Speaker == debate.FinalSpeaker {
				banner = finalBanner
			}
			banner.Printf("\n== %s ==\n", event.Turn.Speaker)
			if !streaming {
				fmt.Println(event.Turn.Content)
			}
		case events.KindError:
			color.Red("\nError: %s", event.Error)
		}
	}
}

func reportFailure(err error) {
	color.Red("Session failed: %v", err)
	if ae, ok := llm.AsAcquisitionError(err); ok {
		color.Red("Hint: %s", ae.Hint)
	}
	if errors.Is(err, context.Canceled) {
		color.Yellow("Session cancelled.")
	}
}

func fillAPIKeysFromEnv(sc *config.SessionConfig) {
	if sc.Participant1.APIKey == "" {
		sc.Participant1.APIKey = firstEnv(apiKeyEnvVars)
	}
	if sc.Participant2.APIKey == "" {
		sc.Participant2.APIKey = firstEnv(apiKeyEnvVars)
	}
}

func firstEnv(vars []string) string {
	for _, v := range vars {
		if value := os.Getenv(v); value != "" {
			return value
		}
	}
	return ""
}

func newLogger(level string) *logrus.Logger {
	logger := logrus.New()
	parsed, err := logrus.ParseLevel(normalizeLevel(level))
	if err != nil {
		parsed = logrus.InfoLevel
	}
	logger.SetLevel(parsed)
	return logger
}

func normalizeLevel(level string) string {
	if level == "warning" {
		return "warn"
	}
	return level
}

func fatalf(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
