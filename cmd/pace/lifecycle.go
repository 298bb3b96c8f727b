package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pace-org/pace-go/internal/domain"
	"github.com/pace-org/pace-go/internal/pacetime"
	"github.com/pace-org/pace-go/internal/storage"
)

var (
	beginCategory       string
	beginTags           string
	beginAt             string
	beginTimeZone       string
	beginTimeZoneOffset int
)

var beginCmd = &cobra.Command{
	Use:   "begin <description>",
	Short: "Begin a new activity",
	Args:  cobra.ExactArgs(1),
	RunE:  runBegin,
}

func init() {
	beginCmd.Flags().StringVar(&beginCategory, "category", "", "category, optionally \"head::tail\"")
	beginCmd.Flags().StringVar(&beginTags, "tags", "", "comma-separated tags")
	beginCmd.Flags().StringVar(&beginAt, "at", "", "begin time as HH:MM (default: now)")
	beginCmd.Flags().StringVar(&beginTimeZone, "time-zone", "", "IANA zone name to resolve --at against")
	beginCmd.Flags().IntVar(&beginTimeZoneOffset, "time-zone-offset", 0, "fixed UTC offset in minutes to resolve --at against")
}

func runBegin(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close(ctx)

	tz := resolveTimeZone(beginTimeZone, beginTimeZoneOffset, cmd.Flags().Changed("time-zone-offset"), rt.cfg)
	begin, err := resolveWallTime(beginAt, tz, nil)
	if err != nil {
		return err
	}

	activity, err := domain.NewActivity(domain.CreateConfig{
		Description: args[0],
		Category:    beginCategory,
		Tags:        splitTags(beginTags),
		Begin:       begin,
	}, nil)
	if err != nil {
		return err
	}

	stored, err := rt.facade.Begin(ctx, activity)
	if err != nil {
		return err
	}

	successColor.Printf("Began \"%s\"", stored.Description())
	if stored.Category() != "" {
		fmt.Printf(" [%s]", stored.Category())
	}
	fmt.Printf(" at %s\n", stored.Begin().String())
	return nil
}

func splitTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

var (
	endAt             string
	endTimeZone       string
	endTimeZoneOffset int
)

var endCmd = &cobra.Command{
	Use:   "end",
	Short: "End every active or held activity",
	RunE:  runEnd,
}

func init() {
	endCmd.Flags().StringVar(&endAt, "at", "", "end time as HH:MM (default: now)")
	endCmd.Flags().StringVar(&endTimeZone, "time-zone", "", "IANA zone name to resolve --at against")
	endCmd.Flags().IntVar(&endTimeZoneOffset, "time-zone-offset", 0, "fixed UTC offset in minutes to resolve --at against")
}

func runEnd(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close(ctx)

	tz := resolveTimeZone(endTimeZone, endTimeZoneOffset, cmd.Flags().Changed("time-zone-offset"), rt.cfg)
	end, err := resolveWallTime(endAt, tz, nil)
	if err != nil {
		return err
	}

	ended, err := rt.facade.EndAll(ctx, domain.EndOptions{End: end})
	if err != nil {
		return err
	}
	if len(ended) == 0 {
		dimColor.Println("Nothing was active or held.")
		return nil
	}
	successColor.Printf("Ended %d activit", len(ended))
	if len(ended) == 1 {
		fmt.Println("y.")
	} else {
		fmt.Println("ies.")
	}
	for _, a := range ended {
		endOpts, _ := a.EndOptions()
		fmt.Printf("  - %s (%s)\n", a.Description(), endOpts.Duration.String())
	}
	return nil
}

var (
	holdAt             string
	holdReason         string
	holdNewIfExists    bool
	holdTimeZone       string
	holdTimeZoneOffset int
)

var holdCmd = &cobra.Command{
	Use:   "hold",
	Short: "Pause the most recently active activity for a break",
	RunE:  runHold,
}

func init() {
	holdCmd.Flags().StringVar(&holdAt, "pause-at", "", "pause time as HH:MM (default: now)")
	holdCmd.Flags().StringVar(&holdReason, "reason", "", "reason for the break")
	holdCmd.Flags().BoolVar(&holdNewIfExists, "new-if-exists", false, "always start a new break instead of reusing a still-open one")
	holdCmd.Flags().StringVar(&holdTimeZone, "time-zone", "", "IANA zone name to resolve --pause-at against")
	holdCmd.Flags().IntVar(&holdTimeZoneOffset, "time-zone-offset", 0, "fixed UTC offset in minutes to resolve --pause-at against")
}

func runHold(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close(ctx)

	tz := resolveTimeZone(holdTimeZone, holdTimeZoneOffset, cmd.Flags().Changed("time-zone-offset"), rt.cfg)
	pauseAt, err := resolveWallTime(holdAt, tz, nil)
	if err != nil {
		return err
	}

	action := storage.HoldExtend
	if holdNewIfExists {
		action = storage.HoldNew
	}

	parent, intermission, err := rt.facade.HoldMostRecentActive(ctx, storage.HoldOptions{
		Begin:  pauseAt,
		Reason: holdReason,
		Action: action,
	})
	if err != nil {
		return err
	}
	if parent == nil {
		dimColor.Println("Nothing was active to hold.")
		return nil
	}
	if intermission == nil {
		infoColor.Printf("\"%s\" already has an open break.\n", parent.Description())
		return nil
	}
	successColor.Printf("Holding \"%s\"", parent.Description())
	if holdReason != "" {
		fmt.Printf(" (%s)", holdReason)
	}
	fmt.Println()
	return nil
}

var (
	resumeAt   string
	resumeList bool
)

var resumeCmd = &cobra.Command{
	Use:   "resume",
	Short: "Resume the most recently held activity",
	RunE:  runResume,
}

func init() {
	resumeCmd.Flags().StringVar(&resumeAt, "at", "", "resume time as HH:MM (default: now)")
	resumeCmd.Flags().BoolVar(&resumeList, "list", false, "list resumable activities instead of resuming the most recent")
}

func runResume(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	rt, err := openRuntime(ctx)
	if err != nil {
		return err
	}
	defer rt.close(ctx)

	resumeAtDT, err := resolveWallTime(resumeAt, pacetime.NotSetTimeZone(), nil)
	if err != nil {
		return err
	}

	if resumeList {
		recent, err := rt.facade.ListMostRecent(ctx, 0, rt.cfg.General.MostRecentCount)
		if err != nil {
			return err
		}
		headerColor.Println("Resumable activities:")
		for _, a := range recent {
			if a.IsResumable() {
				fmt.Printf("  - %s  [%s]\n", a.Description(), a.ID().String())
			}
		}
		return nil
	}

	resumed, err := rt.facade.ResumeMostRecent(ctx, storage.ResumeOptions{Resume: resumeAtDT})
	if err != nil {
		return err
	}
	if resumed == nil {
		dimColor.Println("Nothing was held to resume.")
		return nil
	}
	successColor.Printf("Resumed \"%s\"\n", resumed.Description())
	return nil
}
