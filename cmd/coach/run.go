package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tailored-agentic-units/coach/interview"
	"github.com/tailored-agentic-units/coach/session"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run an interactive interview in the terminal",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()
		return runInteractive(ctx, cmd.InOrStdin(), cmd.OutOrStdout())
	},
}

func runInteractive(ctx context.Context, in io.Reader, out io.Writer) error {
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

	fmt.Fprintf(out, "=== Interview: %s, %s (%s) ===\n", profile.Participant.Name, profile.Participant.Position, profile.Participant.Grade)
	printNotice(out, "Type 'stop' to finish and get your feedback.")

	res, err := engine.StartProfile(ctx, profile)
	if res == nil {
		return err
	}
	sessionID := res.Session.ID
	logger.Info("session started", zap.String("session_id", sessionID))

	scanner := bufio.NewScanner(in)
	if res, err = recoverTurn(ctx, engine, sessionID, scanner, out, res, err); err != nil {
		return err
	}

	for {
		if res != nil {
			if res.Finished() {
				printReport(out, *res.Report)
				if res.Transcript != "" {
					printNotice(out, "Transcript saved to %s", res.Transcript)
				}
				return nil
			}
			if res.Reply != "" {
				printReply(out, res.Reply)
			}
		}

		fmt.Fprintf(out, "\n%s ", candidateLabel)
		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return err
			}
			printNotice(out, "Input closed; the interview was not finished.")
			return nil
		}

		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			res = nil
			continue
		}
		if interview.IsStopPhrase(input) {
			logger.Info("stop phrase received", zap.String("session_id", sessionID))
		}

		res, err = engine.Submit(ctx, sessionID, input)
		if res, err = recoverTurn(ctx, engine, sessionID, scanner, out, res, err); err != nil {
			return err
		}
	}
}

// recoverTurn offers to retry a failed turn or a failed transcript write
// until it succeeds or the candidate declines. A declined turn is discarded
// and yields a nil result; a declined write keeps the finished result.
func recoverTurn(ctx context.Context, engine *interview.Engine, sessionID string, scanner *bufio.Scanner, out io.Writer, res *interview.Result, err error) (*interview.Result, error) {
	for err != nil {
		printError(out, err)
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		saving := res != nil && res.Finished()
		if saving {
			fmt.Fprint(out, "Retry saving the transcript? [y/N] ")
		} else {
			fmt.Fprint(out, "Retry the turn? [y/N] ")
		}

		if !scanner.Scan() || !strings.EqualFold(strings.TrimSpace(scanner.Text()), "y") {
			if saving {
				printNotice(out, "Transcript not saved.")
				return res, nil
			}
			if err := engine.Discard(sessionID); err != nil {
				return nil, err
			}
			printNotice(out, "Turn discarded; please answer again.")
			return nil, nil
		}

		var retried *interview.Result
		retried, err = engine.Retry(ctx, sessionID)
		if retried != nil {
			res = retried
		}
	}
	return res, nil
}
