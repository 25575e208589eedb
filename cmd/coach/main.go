// Command coach runs simulated technical interviews from the terminal.
package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tailored-agentic-units/coach/interview"
	"github.com/tailored-agentic-units/coach/observability"
)

var (
	configFile  string
	profileFile string
	memoryPath  string
	language    string
	escalation  bool
	verbose     bool
	eventLog    string

	logger    *zap.Logger
	eventFile *os.File
)

var rootCmd = &cobra.Command{
	Use:   "coach",
	Short: "Multi-agent technical interview trainer",
	Long: `coach runs a simulated technical interview. A hidden Mentor evaluates every
answer and steers the Interviewer; when the interview stops, a Reporter writes
a graded assessment with a personal study roadmap.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		config.OutputPaths = []string{"stderr"}
		config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}

		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		var observer observability.Observer = observability.NewZapObserver(logger)
		if eventLog != "" {
			if eventFile, err = os.OpenFile(eventLog, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644); err != nil {
				return fmt.Errorf("failed to open event log: %w", err)
			}
			events := slog.New(slog.NewJSONHandler(eventFile, &slog.HandlerOptions{Level: slog.LevelDebug}))
			observer = observability.NewMultiObserver(observer, observability.NewSlogObserver(events))
		}
		observability.RegisterObserver("zap", observer)
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
		if eventFile != nil {
			_ = eventFile.Close()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Config file (YAML or JSON)")
	rootCmd.PersistentFlags().StringVarP(&profileFile, "profile", "p", "user_info.yaml", "Participant profile (YAML)")
	rootCmd.PersistentFlags().StringVar(&memoryPath, "memory", "", "Directory for transcripts and checkpoints (overrides config)")
	rootCmd.PersistentFlags().StringVar(&language, "language", "", "Language of the interview (overrides config)")
	rootCmd.PersistentFlags().BoolVar(&escalation, "escalation", false, "Let the interviewer recall the mentor once per turn")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging")
	rootCmd.PersistentFlags().StringVar(&eventLog, "event-log", "", "Append every engine event as JSON lines to this file")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(historyCmd)
}

// loadConfig reads the config file and applies command-line overrides.
func loadConfig() (*interview.Config, error) {
	cfg, err := interview.LoadConfig(configFile)
	if err != nil {
		return nil, err
	}

	cfg.Graph.Observer = "zap"
	if memoryPath != "" {
		cfg.Memory.Path = memoryPath
	}
	if language != "" {
		cfg.Roles.Language = language
	}
	if escalation {
		cfg.Roles.Escalation = true
	}
	return cfg, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
