package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"pkt.systems/pslog"

	"pkt.systems/termdeck/internal/eventbus"
	"pkt.systems/termdeck/schema"
)

// defaultModeArgs maps a run mode to the wrapped tool's arguments. Custom
// mode passes through whatever the caller supplies.
func defaultModeArgs(mode schema.RunMode) []string {
	switch mode {
	case schema.RunModeDoctor:
		return []string{"test", "--type", "component", "--skip-build"}
	case schema.RunModeRun:
		return []string{"start"}
	case schema.RunModeEval:
		return []string{"dev"}
	default:
		return nil
	}
}

func newRunCmd() *cobra.Command {
	var cfgPath string
	var mode string
	var workdir string
	cmd := &cobra.Command{
		Use:   "run [-- extra args]",
		Short: "Start a managed run of the configured tool and stream its output",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := pslog.Ctx(cmd.Context())

			runMode := schema.RunMode(mode)
			if !runMode.Valid() {
				return fmt.Errorf("unknown mode %q (doctor, run, eval, custom)", mode)
			}

			deck, closeFn, err := openDeck(cmd.Context(), cfgPath)
			if err != nil {
				return err
			}
			defer closeFn()

			runArgs := append([]string(nil), defaultModeArgs(runMode)...)
			runArgs = append(runArgs, deck.Config.Runner.Args...)
			runArgs = append(runArgs, args...)
			if runMode == schema.RunModeCustom && len(runArgs) == 0 {
				runArgs = []string{"--help"}
			}

			events, cancel := deck.Bus.Subscribe()
			defer cancel()
			printDone := make(chan struct{})
			go func() {
				defer close(printDone)
				for event := range events {
					if event.Type != eventbus.EventLog {
						continue
					}
					switch event.Log.Type {
					case schema.LogTypeStderr:
						fmt.Fprintln(os.Stderr, event.Log.Text)
					default:
						fmt.Fprintln(cmd.OutOrStdout(), event.Log.Text)
					}
				}
			}()

			resp, err := deck.Service.StartRun(cmd.Context(), schema.StartRunRequest{Spec: schema.RunSpec{
				Mode:       runMode,
				Command:    deck.Config.Runner.Binary,
				Args:       runArgs,
				WorkingDir: workdir,
			}})
			if err != nil {
				return err
			}
			logger.Info("run started", "run", resp.Run.ID, "mode", runMode)

			wait, err := deck.Service.WaitRun(cmd.Context(), schema.WaitRunRequest{RunID: resp.Run.ID})
			if err != nil {
				return err
			}
			cancel()
			<-printDone

			if wait.Run.Status != schema.RunStatusCompleted {
				return fmt.Errorf("run %s: %s", wait.Run.Status, wait.Run.Error)
			}
			if wait.Run.ExitCode != nil && *wait.Run.ExitCode != 0 {
				return fmt.Errorf("run exited with code %d", *wait.Run.ExitCode)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&cfgPath, "config", "c", "", "path to config file")
	cmd.Flags().StringVarP(&mode, "mode", "m", string(schema.RunModeRun), "run mode: doctor, run, eval, or custom")
	cmd.Flags().StringVarP(&workdir, "workdir", "w", "", "working directory for the run")
	return cmd
}
