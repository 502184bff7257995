package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdash/internal/tui"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse jobs interactively (TUI)",
	Long: "Opens the job board: type to search, pick title and location suggestions, " +
		"cycle filters, page through results and open a job by id. Filter flags replace " +
		"the filters remembered from the last session.",
	RunE: runBrowse,
}

func init() {
	registerBrowseFlags(browseCmd)
	rootCmd.AddCommand(browseCmd)
}

func registerBrowseFlags(cmd *cobra.Command) {
	registerFilterFlags(cmd)
	cmd.Flags().String("job", "", "open this job id once the first page loads")
	cmd.Flags().Bool("pick", false, "choose a saved search to start from")
}

func runBrowse(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}

	filters, set, err := filtersFromFlags(cmd)
	if err != nil {
		return err
	}
	deepLink, _ := cmd.Flags().GetString("job")
	pick, _ := cmd.Flags().GetBool("pick")

	logger, closeLog, err := setupFileLogger(cfg.LogFile, debug)
	if err != nil {
		return err
	}
	defer closeLog()

	b, closeBackend, err := buildBackend(context.Background(), cfg, logger)
	if err != nil {
		return err
	}
	defer closeBackend()

	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	opts := tui.Options{
		Backend:   b,
		Engine:    engineConfig(cfg),
		Bookmarks: st,
		Memory:    st,
		DeepLink:  deepLink,
		Logger:    logger,
	}
	if set {
		opts.Filters = &filters
	}

	if pick {
		searches := collectSearches(cfg, st, logger)
		if len(searches) == 0 {
			fmt.Println("No saved searches. Add one with `jobdash searches add`.")
			return nil
		}
		choice, err := tui.RunSearchPicker(searches)
		if err != nil {
			return fmt.Errorf("picker: %w", err)
		}
		if choice < 0 {
			return nil
		}
		opts.Filters = &searches[choice].Filters
	}
	return tui.Run(opts)
}
