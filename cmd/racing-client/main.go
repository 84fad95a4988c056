// Package main implements an interactive debugging client for the
// Racing Kings server API.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/chzyer/readline"

	"racingkings/internal/client/api"
	"racingkings/internal/client/commands"
	"racingkings/internal/client/display"
	"racingkings/internal/client/session"
)

func main() {
	s := &session.Session{
		APIBaseURL: "http://localhost:8080",
		Client:     api.New("http://localhost:8080"),
		Verbose:    false,
	}

	rl, err := readline.NewEx(&readline.Config{
		Prompt:          display.Prompt("racing"),
		HistoryFile:     ".racing_history",
		InterruptPrompt: "^C",
		EOFPrompt:       "exit",
	})
	if err != nil {
		fmt.Printf("%s%s%s\n", display.Red, err.Error(), display.Reset)
		os.Exit(1)
	}
	defer rl.Close()

	fmt.Printf("%sRacing Kings Debug Client%s\n", display.Cyan, display.Reset)
	fmt.Printf("%sAPI: %s%s\n", display.Cyan, s.APIBaseURL, display.Reset)
	fmt.Printf("Type 'help' for commands\n\n")

	registry := commands.NewRegistry(s)

	for {
		rl.SetPrompt(buildPrompt(s))

		line, err := rl.Readline()
		if err == io.EOF {
			break
		}
		if err != nil {
			continue
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		if line == "exit" || line == "quit" || line == "x" {
			break
		}

		// Check for verbose flag
		if strings.HasSuffix(line, " -v") {
			s.Verbose = true
			line = strings.TrimSuffix(line, " -v")
		} else {
			s.Verbose = false
		}

		registry.Execute(line)
	}
}

func buildPrompt(s *session.Session) string {
	parts := []string{}

	base := "racing"

	if s.Username != "" {
		parts = append(parts, fmt.Sprintf("%s%s%s", display.Magenta, s.Username, display.Reset))
	}
	if s.Username != "" && s.CurrentGame != "" {
		parts = append(parts, fmt.Sprintf("%s - %s", display.Yellow, display.Reset))
	}
	if s.CurrentGame != "" {
		short := s.CurrentGame
		if len(short) > 8 {
			short = short[:8]
		}
		parts = append(parts, fmt.Sprintf("%s%s%s", display.White, short, display.Reset))
	}

	promptStr := base
	if len(parts) > 0 {
		promptStr += display.Yellow + " [" + display.Reset + strings.Join(parts, "") + display.Yellow + "]"
	}

	if s.CurrentGameState != nil {
		if s.CurrentGameState.Outcome != "unfinished" {
			promptStr += " - " + display.ColorForOutcome(s.CurrentGameState.Outcome)
		} else {
			promptStr += " - Turn:" + display.ColorForTurn(s.CurrentGameState.Turn)
		}
	}

	return display.Prompt(promptStr)
}
