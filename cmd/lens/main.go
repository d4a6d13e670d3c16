// Package main implements the lens CLI tool.
package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/tasklens/tasklens/internal/config"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "lens",
	Short: "Tasklens - contextual task prioritization",
}

var (
	rootFile string
	rootNow  string
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootFile, "file", "", "Task document path (default from config)")
	rootCmd.PersistentFlags().StringVar(&rootNow, "now", "", "Evaluation instant as RFC3339 (default: current time)")
}

// evaluationTime returns the instant every command evaluates at. The --now
// override keeps output reproducible in scripts.
func evaluationTime() (time.Time, error) {
	if rootNow == "" {
		return time.Now(), nil
	}
	parsed, err := time.Parse(time.RFC3339, rootNow)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse --now: %w", err)
	}
	return parsed, nil
}

// documentPath resolves where the task document lives: --file flag, then
// LENS_FILE, then config, then the default data directory.
func documentPath() (string, error) {
	if rootFile != "" {
		return rootFile, nil
	}
	if env := os.Getenv("LENS_FILE"); env != "" {
		return env, nil
	}

	cfg, err := loadConfig()
	if err != nil {
		return "", err
	}
	return cfg.DocumentPath()
}

func loadConfig() (*config.Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("get working directory: %w", err)
	}
	return config.Load(cwd)
}
