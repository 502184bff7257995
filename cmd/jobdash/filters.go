package main

import (
	"github.com/spf13/cobra"

	"github.com/amishk599/jobdash/internal/model"
)

// Filter flags are shared by browse, search and searches add.
func registerFilterFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringP("text", "t", "", "free-text query (title, skill or company)")
	f.StringP("location", "l", "", "location text, resolved to country/state/city")
	f.String("country", "", "bind the location to this country")
	f.String("state", "", "bind the location to this state (requires --country)")
	f.String("city", "", "bind the location to this city")
	f.String("modality", "", "REMOTE, HYBRID or ONSITE")
	f.String("work-type", "", "FULL_TIME, PART_TIME, CONTRACT, INTERNSHIP or TEMPORARY")
	f.Int("min-salary", 0, "minimum salary")
	f.Int("posted-within", 0, "only jobs listed in the last N days")
	f.String("sort", "", "recent, salary_desc or salary_asc")
}

// filtersFromFlags builds a FilterState from the flags that were set. The
// bool reports whether any filter flag was given at all.
func filtersFromFlags(cmd *cobra.Command) (model.FilterState, bool, error) {
	flags := cmd.Flags()
	var filters model.FilterState
	set := false
	str := func(name string) string {
		if flags.Changed(name) {
			set = true
		}
		v, _ := flags.GetString(name)
		return v
	}
	optInt := func(name string) *int {
		if !flags.Changed(name) {
			return nil
		}
		set = true
		v, _ := flags.GetInt(name)
		return model.IntPtr(v)
	}

	filters.Text = str("text")
	filters.LocationText = str("location")
	filters.Resolved = model.Location{Country: str("country"), State: str("state"), City: str("city")}
	filters.Modality = model.Modality(str("modality"))
	filters.WorkType = model.WorkType(str("work-type"))
	filters.Sort = model.SortKey(str("sort"))
	filters.MinSalary = optInt("min-salary")
	filters.PostedWithinDays = optInt("posted-within")

	nf, err := filters.Normalize()
	if err != nil {
		return model.FilterState{}, set, err
	}
	return nf, set, nil
}
