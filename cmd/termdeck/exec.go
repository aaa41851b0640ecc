package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"pkt.systems/termdeck/core"
	"pkt.systems/termdeck/schema"
)

func newExecCmd() *cobra.Command {
	var cfgPath string
	var workdir string
	var timeout time.Duration
	cmd := &cobra.Command{
		Use:   "exec <command> [args...]",
		Short: "Run a single command in a terminal session and print its output",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			deck, closeFn, err := openDeck(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			defer closeFn()

			sess, err := deck.Service.CreateSession(cmd.Context(), schema.CreateSessionRequest{WorkingDir: workdir})
			if err != nil {
				return err
			}
			resp, err := deck.Service.ExecuteCommand(cmd.Context(), schema.ExecuteCommandRequest{
				SessionID: sess.Session.ID,
				Input:     strings.Join(args, " "),
			})
			if err != nil {
				return err
			}

			final, err := waitCommand(cmd.Context(), deck.Service, sess.Session.ID, resp.Command.ID, timeout)
			if err != nil {
				return err
			}
			for _, line := range final.Output {
				if line.Stream == schema.StreamStderr {
					fmt.Fprintln(os.Stderr, line.Text)
				} else {
					fmt.Fprintln(cmd.OutOrStdout(), line.Text)
				}
			}
			if final.Status != schema.CommandStatusCompleted {
				return fmt.Errorf("command %s: %s", final.Status, final.Error)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVarP(&workdir, "workdir", "w", "", "working directory for the session")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "abort after this duration (0 waits forever)")
	return cmd
}

func waitCommand(ctx context.Context, svc core.Service, sessionID schema.SessionID, commandID schema.CommandID, timeout time.Duration) (schema.CommandSnapshot, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()
	for {
		resp, err := svc.GetSession(ctx, schema.GetSessionRequest{SessionID: sessionID})
		if err != nil {
			return schema.CommandSnapshot{}, err
		}
		for _, cmd := range resp.Commands {
			if cmd.ID == commandID && cmd.Finished() {
				return cmd, nil
			}
		}
		select {
		case <-ctx.Done():
			_, _ = svc.CancelCommand(context.Background(), schema.CancelCommandRequest{CommandID: commandID})
			return schema.CommandSnapshot{}, ctx.Err()
		case <-ticker.C:
		}
	}
}
