package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/amishk599/jobdash/internal/model"
)

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List jobs bookmarked in the browse screen",
	RunE:  runSavedList,
}

var savedRmCmd = &cobra.Command{
	Use:   "rm <id>...",
	Short: "Remove bookmarked jobs",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runSavedRm,
}

var searchesCmd = &cobra.Command{
	Use:   "searches",
	Short: "Manage saved searches watched by `jobdash watch`",
	RunE:  runSearchesList,
}

var searchesAddCmd = &cobra.Command{
	Use:   "add <name>",
	Short: "Save the given filters under a name",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearchesAdd,
}

var searchesRmCmd = &cobra.Command{
	Use:   "rm <name>",
	Short: "Delete a saved search",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearchesRm,
}

func init() {
	savedCmd.AddCommand(savedRmCmd)
	registerFilterFlags(searchesAddCmd)
	searchesCmd.AddCommand(searchesAddCmd, searchesRmCmd)
	rootCmd.AddCommand(savedCmd, searchesCmd)
}

// withStore loads the config, opens the store and runs fn against it.
func withStore(fn func(st appStore) error) error {
	cfg, err := loadConfig(cfgPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	st, err := openStore(cfg)
	if err != nil {
		return err
	}
	defer st.Close()
	return fn(st)
}

func runSavedList(cmd *cobra.Command, args []string) error {
	return withStore(func(st appStore) error {
		jobs, err := st.SavedJobs()
		if err != nil {
			return err
		}
		if len(jobs) == 0 {
			fmt.Println("No saved jobs.")
			return nil
		}
		fmt.Printf("%-10s %-36s %-22s %s\n", "ID", "Title", "Company", "URL")
		fmt.Println(strings.Repeat("─", 100))
		for _, j := range jobs {
			fmt.Printf("%-10s %-36s %-22s %s\n", clip(j.ID, 10), clip(j.Title, 36), clip(j.CompanyName, 22), j.URL)
		}
		fmt.Printf("\nTotal: %d saved jobs\n", len(jobs))
		return nil
	})
}

func runSavedRm(cmd *cobra.Command, args []string) error {
	return withStore(func(st appStore) error {
		for _, id := range args {
			if err := st.RemoveJob(id); err != nil {
				return fmt.Errorf("removing %s: %w", id, err)
			}
			fmt.Printf("removed %s\n", id)
		}
		return nil
	})
}

func runSearchesList(cmd *cobra.Command, args []string) error {
	return withStore(func(st appStore) error {
		searches, err := st.SavedSearches()
		if err != nil {
			return err
		}
		if len(searches) == 0 {
			fmt.Println("No saved searches.")
			return nil
		}
		fmt.Printf("%-20s %s\n", "Name", "Filters")
		fmt.Println(strings.Repeat("─", 60))
		for _, s := range searches {
			fmt.Printf("%-20s %s\n", s.Name, describeFilters(s.Filters))
		}
		return nil
	})
}

func runSearchesAdd(cmd *cobra.Command, args []string) error {
	filters, set, err := filtersFromFlags(cmd)
	if err != nil {
		return err
	}
	if !set {
		return fmt.Errorf("give at least one filter flag, e.g. --text golang")
	}
	name := strings.TrimSpace(args[0])
	if name == "" {
		return fmt.Errorf("name must not be empty")
	}
	return withStore(func(st appStore) error {
		if err := st.SaveSearch(model.SavedSearch{Name: name, Filters: filters}); err != nil {
			return err
		}
		fmt.Printf("saved search %q: %s\n", name, describeFilters(filters))
		return nil
	})
}

func runSearchesRm(cmd *cobra.Command, args []string) error {
	return withStore(func(st appStore) error {
		if err := st.DeleteSearch(args[0]); err != nil {
			return err
		}
		fmt.Printf("deleted %s\n", args[0])
		return nil
	})
}

func describeFilters(f model.FilterState) string {
	var parts []string
	add := func(k, v string) {
		if v != "" {
			parts = append(parts, k+"="+v)
		}
	}
	add("text", f.Text)
	add("location", f.LocationText)
	add("country", f.Resolved.Country)
	add("state", f.Resolved.State)
	add("city", f.Resolved.City)
	add("modality", string(f.Modality))
	add("work_type", string(f.WorkType))
	if f.MinSalary != nil {
		add("min_salary", fmt.Sprint(*f.MinSalary))
	}
	if f.PostedWithinDays != nil {
		add("posted_within", fmt.Sprintf("%dd", *f.PostedWithinDays))
	}
	add("sort", string(f.Sort))
	if len(parts) == 0 {
		return "(all jobs)"
	}
	return strings.Join(parts, " ")
}
