package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdash/internal/location"
	"github.com/amishk599/jobdash/internal/model"
	"github.com/amishk599/jobdash/internal/notifier"
	"github.com/amishk599/jobdash/internal/query"
)

var notifyCmd = &cobra.Command{
	Use:   "notify",
	Short: "Notification subcommands",
}

var notifyTestCmd = &cobra.Command{
	Use:   "test",
	Short: "Send a test notification",
	Long: "Sends a test notification using the configured notifier. With --search the " +
		"current top matches of that saved search are sent instead, without marking them seen.",
	RunE: runNotifyTest,
}

func init() {
	notifyTestCmd.Flags().String("search", "", "saved search to preview")
	notifyTestCmd.Flags().Int("limit", 3, "jobs to send with --search")
	rootCmd.AddCommand(notifyCmd)
	notifyCmd.AddCommand(notifyTestCmd)
}

func runNotifyTest(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	httpClient := &http.Client{Timeout: cfg.API.Timeout}
	n := setupNotifier(cfg, httpClient, logger)

	name, _ := cmd.Flags().GetString("search")
	if name == "" {
		if err := notifier.SendTestMessage(n); err != nil {
			logger.Error("test notification failed", "error", err)
			os.Exit(1)
		}
		logger.Info("test notification sent successfully")
		return nil
	}

	limit, _ := cmd.Flags().GetInt("limit")
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()

	var search *model.SavedSearch
	for _, s := range collectSearches(cfg, st, logger) {
		if s.Name == name {
			search = &s
			break
		}
	}
	if search == nil {
		return fmt.Errorf("no saved search named %q", name)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.API.Timeout)
	defer cancel()
	b, closeBackend, err := buildBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeBackend()

	filters := search.Filters
	if filters.Resolved.IsZero() && filters.LocationText != "" {
		filters.Resolved = location.NewResolver(b, logger).Resolve(ctx, filters.LocationText)
	}
	filters.Sort = model.SortRecent
	res, err := b.SearchJobs(ctx, query.NewBuilder(max(limit, 1)).Build(filters, 1))
	if err != nil {
		return fmt.Errorf("searching %s: %w", name, err)
	}
	if len(res.Items) == 0 {
		logger.Info("saved search has no matches", "search", name)
		return nil
	}
	if err := n.Notify(name, res.Items); err != nil {
		logger.Error("test notification failed", "error", err)
		os.Exit(1)
	}
	logger.Info("preview notification sent", "search", name, "jobs", len(res.Items))
	return nil
}
