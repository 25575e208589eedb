package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tailored-agentic-units/coach/interview"
	"github.com/tailored-agentic-units/coach/session"
	"github.com/tailored-agentic-units/coach/transcript"
)

const (
	inputFile  = "user_input.txt"
	outputFile = "system_output.txt"
)

var watchDir string

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Drive an interview through files for debugging",
	Long: `watch reads each candidate message from user_input.txt, clears the file,
and writes the interviewer's reply to system_output.txt. The final report is
written to the output file when the interview ends.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runWatch(ctx, watchDir)
	},
}

func init() {
	watchCmd.Flags().StringVar(&watchDir, "dir", ".", "Directory holding the input and output files")
}

func runWatch(ctx context.Context, dir string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	profile, err := session.LoadProfile(profileFile)
	if err != nil {
		return err
	}

	engine, err := interview.New(cfg)
	if err != nil {
		return err
	}
	defer engine.Close()

	in := filepath.Join(dir, inputFile)
	out := filepath.Join(dir, outputFile)
	if err := os.WriteFile(in, nil, 0o644); err != nil {
		return fmt.Errorf("failed to prepare %s: %w", in, err)
	}

	res, err := engine.StartProfile(ctx, profile)
	if res == nil {
		return err
	}
	sessionID := res.Session.ID
	if err := writeOutcome(out, res, err); err != nil {
		return err
	}
	if res.Finished() {
		return nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("failed to watch %s: %w", dir, err)
	}
	logger.Info("watching for input", zap.String("file", in), zap.String("session_id", sessionID))

	for {
		select {
		case <-ctx.Done():
			return nil
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watcher error", zap.Error(err))
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Base(event.Name) != inputFile || !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}

			input, err := readAndClear(in)
			if err != nil {
				logger.Warn("failed to read input", zap.Error(err))
				continue
			}
			if input == "" {
				continue
			}

			done, err := watchTurn(ctx, engine, sessionID, input, out)
			if err != nil {
				return err
			}
			if done {
				return nil
			}
		}
	}
}

// watchTurn submits input and writes the outcome. It reports whether the
// interview has finished.
func watchTurn(ctx context.Context, engine *interview.Engine, sessionID, input, out string) (bool, error) {
	res, err := engine.Submit(ctx, sessionID, input)
	if errors.Is(err, interview.ErrTurnPending) {
		res, err = engine.Retry(ctx, sessionID)
	}
	if err != nil {
		logger.Error("turn failed", zap.String("session_id", sessionID), zap.Error(err))
	}
	return res != nil && res.Finished(), writeOutcome(out, res, err)
}

// writeOutcome writes a turn's reply, or the final report once the interview
// has finished, to the output file. The report is written even when the
// transcript could not be saved.
func writeOutcome(out string, res *interview.Result, err error) error {
	if res == nil || !res.Finished() {
		if err != nil {
			return os.WriteFile(out, []byte("ERROR: "+err.Error()+"\nWrite any text to retry the turn."), 0o644)
		}
		return os.WriteFile(out, []byte(res.Reply), 0o644)
	}

	text := "INTERVIEW FINISHED."
	switch {
	case err != nil:
		text += " Log could not be saved: " + err.Error() + "."
	case res.Transcript != "":
		text += " Log saved to " + res.Transcript + "."
	}
	text += "\n\n" + transcript.Text(*res.Report)
	return os.WriteFile(out, []byte(text), 0o644)
}

func readAndClear(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	content := strings.TrimSpace(string(data))
	if content == "" {
		return "", nil
	}
	return content, os.WriteFile(path, nil, 0o644)
}
