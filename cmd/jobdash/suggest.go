package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var suggestCmd = &cobra.Command{
	Use:   "suggest",
	Short: "Query the autocomplete services",
}

var suggestTitlesCmd = &cobra.Command{
	Use:   "titles <text>",
	Short: "Print job title suggestions",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSuggestTitles,
}

var suggestLocationsCmd = &cobra.Command{
	Use:   "locations <text>",
	Short: "Print structured location matches",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSuggestLocations,
}

func init() {
	suggestLocationsCmd.Flags().IntP("limit", "k", 0, "maximum matches (default: search.location_suggestions)")
	suggestCmd.AddCommand(suggestTitlesCmd, suggestLocationsCmd)
	rootCmd.AddCommand(suggestCmd)
}

func runSuggestTitles(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
	defer cancel()
	b, closeBackend, err := buildBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeBackend()

	titles, err := b.SuggestTitles(ctx, strings.Join(args, " "))
	if err != nil {
		return err
	}
	if len(titles) == 0 {
		fmt.Println("No suggestions.")
	}
	for _, t := range titles {
		fmt.Println(t)
	}
	return nil
}

func runSuggestLocations(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}
	k, _ := cmd.Flags().GetInt("limit")
	if k < 1 {
		k = cfg.Search.LocationSuggestions
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
	defer cancel()
	b, closeBackend, err := buildBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeBackend()

	matches, err := b.SearchLocations(ctx, strings.Join(args, " "), k)
	if err != nil {
		return err
	}
	if len(matches) == 0 {
		fmt.Println("No matches.")
		return nil
	}
	fmt.Printf("%-8s %s\n", "Type", "Location")
	fmt.Println(strings.Repeat("─", 47))
	for _, m := range matches {
		fmt.Printf("%-8s %s\n", m.Type, m.Label())
	}
	return nil
}
