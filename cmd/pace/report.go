package main

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/pace-org/pace-go/internal/domain"
	"github.com/pace-org/pace-go/internal/pacetime"
)

var nowCmd = &cobra.Command{
	Use:   "now",
	Short: "Show the currently active activity",
	RunE:  runNow,
}

func runNow(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close(ctx)

	current, err := rt.facade.List(ctx, domain.Filter{Kind: domain.FilterActive})
	if err != nil {
		return err
	}
	if current.Len() == 0 {
		dimColor.Println("Nothing is active right now.")
		return nil
	}

	for _, ref := range current.Activities {
		a, err := rt.facade.Read(ctx, ref.ID())
		if err != nil {
			return err
		}
		successColor.Printf("Active: %s", a.Description())
		if a.Category() != "" {
			fmt.Printf(" [%s]", a.Category())
		}
		fmt.Printf(" since %s\n", a.Begin().String())
	}
	return nil
}

var (
	adjustCategory     string
	adjustDescription  string
	adjustTags         string
	adjustOverrideTags bool
)

var adjustCmd = &cobra.Command{
	Use:   "adjust",
	Short: "Adjust the most recently active activity",
	// --start is intentionally not offered: begin is a structural field
	// (ActivityPatch never carries it, see domain.ActivityPatch), so
	// adjust only ever touches the descriptive fields a patch can merge.
	RunE: runAdjust,
}

func init() {
	adjustCmd.Flags().StringVar(&adjustCategory, "category", "", "new category")
	adjustCmd.Flags().StringVar(&adjustDescription, "description", "", "new description")
	adjustCmd.Flags().StringVar(&adjustTags, "tags", "", "comma-separated tags to union (or replace, with --override-tags)")
	adjustCmd.Flags().BoolVar(&adjustOverrideTags, "override-tags", false, "replace the tag set wholesale instead of unioning")
}

func runAdjust(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close(ctx)

	active, ok, err := rt.facade.MostRecentActiveActivity(ctx)
	if err != nil {
		return err
	}
	if !ok {
		dimColor.Println("Nothing is active to adjust.")
		return nil
	}

	patch := domain.ActivityPatch{}
	if adjustDescription != "" {
		patch.Description = &adjustDescription
	}
	if adjustCategory != "" {
		patch.Category = &adjustCategory
	}
	if adjustTags != "" {
		patch.Tags = splitTags(adjustTags)
	}

	updated, err := rt.facade.Update(ctx, active.ID(), patch, domain.UpdateOptions{ReplaceTags: adjustOverrideTags})
	if err != nil {
		return err
	}
	successColor.Printf("Adjusted \"%s\"\n", updated.Description())
	return nil
}

var (
	reflectFrame         string
	reflectFrom          string
	reflectTo            string
	reflectDate          string
	reflectCategory      string
	reflectCaseSensitive bool
)

var reflectCmd = &cobra.Command{
	Use:   "reflect",
	Short: "Summarize time spent by category over a time range",
	RunE:  runReflect,
}

func init() {
	reflectCmd.Flags().StringVar(&reflectFrame, "frame", "today", "today, yesterday, current_week, last_week, current_month, last_month, current_year, last_year")
	reflectCmd.Flags().StringVar(&reflectFrom, "from", "", "range start as YYYY-MM-DD (overrides --frame with --to)")
	reflectCmd.Flags().StringVar(&reflectTo, "to", "", "range end as YYYY-MM-DD (overrides --frame with --from)")
	reflectCmd.Flags().StringVar(&reflectDate, "date", "", "a single day as YYYY-MM-DD (overrides --frame)")
	reflectCmd.Flags().StringVar(&reflectCategory, "category", "", "only show categories matching this substring")
	reflectCmd.Flags().BoolVar(&reflectCaseSensitive, "case-sensitive", false, "match --category case-sensitively")
}

func runReflect(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close(ctx)

	rng, err := resolveReflectRange()
	if err != nil {
		return err
	}

	summary, ok, err := rt.facade.Reflect(ctx, rng)
	if err != nil {
		return err
	}
	if !ok {
		dimColor.Println("No activity in that range.")
		return nil
	}

	headerColor.Printf("Reflection: %s to %s\n", summary.TimeRange.Start.String(), summary.TimeRange.End.String())
	fmt.Printf("Total: %s   Breaks: %s\n", summary.TotalTimeSpent.String(), summary.TotalBreakDuration.String())
	fmt.Println()

	table := tablewriter.NewWriter(os.Stdout)
	table.SetHeader([]string{"Category", "Description", "Time", "Breaks"})
	table.SetBorder(false)

	for key, group := range summary.GroupsByCategory {
		label := key.Category
		if key.Subcategory != "" {
			label = key.Category + "::" + key.Subcategory
		}
		if !categoryMatches(label, reflectCategory, reflectCaseSensitive) {
			continue
		}
		for _, ag := range group.ActivityGroupsByDescription() {
			table.Append([]string{label, ag.Description(), ag.AdjustedDuration().String(), ag.IntermissionDuration().String()})
		}
	}
	table.Render()
	return nil
}

func categoryMatches(label, pattern string, caseSensitive bool) bool {
	if pattern == "" {
		return true
	}
	if caseSensitive {
		return strings.Contains(label, pattern)
	}
	return strings.Contains(strings.ToLower(label), strings.ToLower(pattern))
}

func resolveReflectRange() (pacetime.TimeRange, error) {
	if reflectFrom != "" && reflectTo != "" {
		from, err := parseDateFlag(reflectFrom)
		if err != nil {
			return pacetime.TimeRange{}, err
		}
		to, err := parseDateFlag(reflectTo)
		if err != nil {
			return pacetime.TimeRange{}, err
		}
		return pacetime.DateRangeBetween(from, to, time.Local)
	}

	if reflectDate != "" {
		date, err := parseDateFlag(reflectDate)
		if err != nil {
			return pacetime.TimeRange{}, err
		}
		return pacetime.SpecificDateRange(date, time.Local), nil
	}

	kind, err := parseFrameName(reflectFrame)
	if err != nil {
		return pacetime.TimeRange{}, err
	}
	return pacetime.TimeFrame{Kind: kind}.Resolve(nil, time.Local)
}

func parseFrameName(frame string) (pacetime.TimeFrameKind, error) {
	switch frame {
	case "", "today":
		return pacetime.FrameToday, nil
	case "yesterday":
		return pacetime.FrameYesterday, nil
	case "current_week":
		return pacetime.FrameCurrentWeek, nil
	case "last_week":
		return pacetime.FrameLastWeek, nil
	case "current_month":
		return pacetime.FrameCurrentMonth, nil
	case "last_month":
		return pacetime.FrameLastMonth, nil
	case "current_year":
		return pacetime.FrameCurrentYear, nil
	case "last_year":
		return pacetime.FrameLastYear, nil
	default:
		return 0, fmt.Errorf("pace: unknown --frame %q", frame)
	}
}
