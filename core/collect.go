package core

import (
	"context"
	"errors"
	"io"

	"pkt.systems/termdeck/schema"
)

// CollectOutput drains the handle's output stream to EOF and waits for the
// process to exit, returning the captured lines and the result.
func CollectOutput(ctx context.Context, handle ProcessHandle) ([]schema.OutputLine, ProcessResult, error) {
	stream := handle.Outputs()
	defer func() {
		_ = stream.Close()
	}()
	var lines []schema.OutputLine
	for {
		line, err := stream.Next(ctx)
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return lines, ProcessResult{}, err
		}
		lines = append(lines, line)
	}
	result, err := handle.Wait(ctx)
	if err != nil {
		return lines, ProcessResult{}, err
	}
	return lines, result, nil
}
