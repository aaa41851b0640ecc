package main

import (
	"context"

	"pkt.systems/termdeck"
)

// openDeck wires the full service stack from the config file. The returned
// close function tears it down, killing any running processes.
func openDeck(ctx context.Context, cfgPath string) (*termdeck.Deck, func(), error) {
	deck, err := termdeck.Open(ctx, termdeck.Options{ConfigPath: cfgPath})
	if err != nil {
		return nil, nil, err
	}
	return deck, func() { _ = deck.Close(context.Background()) }, nil
}
