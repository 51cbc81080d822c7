package main

import (
	"flag"
	"log"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/joho/godotenv"

	"tracktime/internal/tui"
)

func main() {
	_ = godotenv.Load()

	defaultURL := os.Getenv("API_BASE_URL")
	if defaultURL == "" {
		defaultURL = "http://localhost:8080"
	}
	baseURL := flag.String("api", defaultURL, "base URL of the tracktime API")
	flag.Parse()

	client := tui.NewClient(*baseURL)
	p := tea.NewProgram(tui.NewModel(client), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("tracktime: %v", err)
	}
}
