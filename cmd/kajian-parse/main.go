package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"kajianhub/backend/internal/broadcast"
	"kajianhub/backend/internal/broadcast/channel"
	"kajianhub/backend/internal/broadcast/core"
)

type output struct {
	Format  core.Format   `json:"format"`
	Entries []*core.Entry `json:"entries"`
}

func main() {
	fileFlag := flag.String("file", "", "read broadcast text from file instead of stdin")
	channelFlag := flag.String("channel", "", "parse recent messages from a public t.me channel")
	limitFlag := flag.Int("limit", 10, "message limit for -channel")
	timeoutFlag := flag.Duration("timeout", 20*time.Second, "fetch timeout for -channel")
	flag.Parse()

	if *channelFlag != "" {
		parseChannel(*channelFlag, *limitFlag, *timeoutFlag)
		return
	}

	text, err := readInput(*fileFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "read error: %v\n", err)
		os.Exit(2)
	}
	entries, format, err := broadcast.Parse(text)
	if err != nil {
		fmt.Fprintf(os.Stderr, "parse error: %v\n", err)
		os.Exit(1)
	}
	writeOutput(output{Format: format, Entries: entries})
}

func parseChannel(input string, limit int, timeout time.Duration) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	reader := channel.NewReader(nil, logger)

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	messages, err := reader.Messages(ctx, input, limit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "channel error: %v\n", err)
		os.Exit(1)
	}

	var entries []*core.Entry
	var format core.Format
	for _, message := range messages {
		parsed, f, parseErr := broadcast.Parse(message)
		if parseErr != nil {
			continue
		}
		if format == "" && len(parsed) > 0 {
			format = f
		}
		entries = append(entries, parsed...)
	}
	writeOutput(output{Format: format, Entries: entries})
}

func readInput(file string) (string, error) {
	if file != "" {
		data, err := os.ReadFile(file)
		if err != nil {
			return "", err
		}
		return string(data), nil
	}
	data, err := io.ReadAll(os.Stdin)
	if err != nil {
		return "", err
	}
	if strings.TrimSpace(string(data)) == "" {
		return "", fmt.Errorf("empty input; pipe broadcast text or pass -file")
	}
	return string(data), nil
}

func writeOutput(out output) {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	_ = enc.Encode(out)
}
