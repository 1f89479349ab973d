package main

import (
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/fatih/color"
	"github.com/joho/godotenv"

	"github.com/harunoki/guildctl/api"
)

func main() {
	// Optional .env next to the binary; absence is fine.
	godotenv.Load()

	if lf := os.Getenv("GUILDCTL_LOG_FILE"); lf != "" {
		f, err := tea.LogToFile(lf, "debug")
		if err != nil {
			color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "cannot open log file: %v\n", err)
			os.Exit(1)
		}
		defer f.Close()
	}

	base := os.Getenv("GUILDCTL_API_BASE")
	var opts []api.Option
	if base != "" {
		opts = append(opts, api.WithBaseURL(base))
	}
	client := api.New(opts...)

	state := newAppState(os.Getenv("GUILDCTL_STATE_FILE"))
	if err := state.Load(); err != nil {
		color.New(color.FgYellow).Fprintf(os.Stderr, "state file unreadable, starting fresh: %v\n", err)
	}

	p := tea.NewProgram(initialModel(client, state), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		color.New(color.FgRed, color.Bold).Fprintf(os.Stderr, "guildctl: %v\n", err)
		os.Exit(1)
	}
}
