package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"path/filepath"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/yboost/yboost/internal/client"
	"github.com/yboost/yboost/internal/tui"
	"github.com/yboost/yboost/internal/version"
	"gopkg.in/yaml.v3"
)

// fileConfig is the optional ~/.config/yboost/config.yaml.
type fileConfig struct {
	ServerURL string `yaml:"server_url"`
}

func loadFileConfig() fileConfig {
	cfg := fileConfig{}
	home, err := os.UserHomeDir()
	if err != nil {
		return cfg
	}
	data, err := os.ReadFile(filepath.Join(home, ".config", "yboost", "config.yaml"))
	if err != nil {
		return cfg
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		log.Printf("ignoring malformed config file: %v", err)
		return fileConfig{}
	}
	return cfg
}

func main() {
	cfg := loadFileConfig()
	defaultURL := cfg.ServerURL
	if defaultURL == "" {
		defaultURL = "http://127.0.0.1:3000"
	}
	serverURL := flag.String("server", defaultURL, "Yboost server base URL")
	showVersion := flag.Bool("version", false, "Print version and exit")
	flag.Parse()

	if *showVersion {
		fmt.Println(version.Get().String())
		return
	}

	httpClient, err := client.NewHTTPClient(*serverURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create client: %v\n", err)
		os.Exit(1)
	}

	p := tea.NewProgram(tui.New(httpClient), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}
