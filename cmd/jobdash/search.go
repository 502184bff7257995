package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdash/internal/board"
	"github.com/amishk599/jobdash/internal/model"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run one search and print a page of results",
	Long:  "Runs the same query the browse screen would, prints one page and exits. With --job the job is selected, fetched by id if it is not on the page.",
	RunE:  runSearch,
}

func init() {
	registerFilterFlags(searchCmd)
	searchCmd.Flags().Int("page", 1, "page to print")
	searchCmd.Flags().String("job", "", "select this job id")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	logger := setupLogger(debug)

	cfg, err := loadConfig(cfgPath)
	if err != nil {
		logger.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	filters, _, err := filtersFromFlags(cmd)
	if err != nil {
		return err
	}
	page, _ := cmd.Flags().GetInt("page")
	deepLink, _ := cmd.Flags().GetString("job")

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	b, closeBackend, err := buildBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer closeBackend()

	// No one is typing, so there is nothing to debounce.
	ec := engineConfig(cfg)
	ec.FetchSettle = 0
	ec.SuggestSettle = 0
	engine := board.New(b, ec, logger)

	first, err := engine.SetFilters(filters)
	if err != nil {
		return err
	}
	if err := board.Drain(ctx, engine, first); err != nil {
		return err
	}
	if page > 1 {
		if err := board.Drain(ctx, engine, engine.GoTo(page)); err != nil {
			return err
		}
	}
	if err := engine.Err(); err != nil {
		return fmt.Errorf("search failed: %w", err)
	}
	logger.Debug("search complete", "query", engine.LastQuery().Encode())

	if deepLink != "" {
		if err := board.Drain(ctx, engine, engine.SetDeepLink(deepLink)); err != nil {
			return err
		}
		if err := engine.SelectionErr(); err != nil {
			fmt.Fprintf(os.Stderr, "job %s: %v\n", deepLink, err)
		}
	}

	printPage(engine)

	if deepLink != "" {
		if job, ok := engine.Selected(); ok && job.ID == deepLink {
			fmt.Println()
			printJob(job)
		}
	}
	return nil
}

func printPage(e *board.Engine) {
	items := e.Items()
	if len(items) == 0 {
		fmt.Println("No jobs match these filters.")
		return
	}

	fmt.Printf("  %-10s %-36s %-22s %-28s %s\n", "ID", "Title", "Company", "Location", "Salary")
	fmt.Println(strings.Repeat("─", 120))
	selected := e.SelectedID()
	for _, j := range items {
		marker := " "
		if j.ID == selected {
			marker = ">"
		}
		fmt.Printf("%s %-10s %-36s %-22s %-28s %s\n",
			marker, clip(j.ID, 10), clip(j.Title, 36), clip(j.CompanyName, 22), clip(j.LocationLabel(), 28), j.SalaryLabel())
	}

	fmt.Printf("\nPage %d of %d (%d jobs)\n", e.Page(), e.TotalPages(), e.Total())
	if loc := e.ResolvedLocation(); !loc.IsZero() {
		fmt.Printf("Location resolved to %s\n", model.LocationMatch{Country: loc.Country, State: loc.State, City: loc.City}.Label())
	}
}

func clip(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
