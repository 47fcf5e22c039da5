package cli

import (
	"fmt"
	"strconv"
	"time"

	"zone_heating/internal/engine"
	"zone_heating/internal/service"

	"github.com/spf13/cobra"
)

var (
	resolveAt      string
	resolveHorizon time.Duration
)

var resolveCmd = &cobra.Command{
	Use:   "resolve ZONE_ID",
	Short: "Show which target a zone should have and what changes next",
	Long: `Resolve a zone against the local database, without a running server.
Use --at to evaluate another instant (RFC 3339).`,
	Args:    cobra.ExactArgs(1),
	GroupID: groupInspect,
	RunE:    runResolve,
}

func init() {
	resolveCmd.Flags().StringVar(&resolveAt, "at", "", "instant to resolve at, RFC 3339 (default now)")
	resolveCmd.Flags().DurationVar(&resolveHorizon, "horizon", 24*time.Hour, "how far ahead to list upcoming events")
}

type resolveOutput struct {
	Status   service.ZoneStatus `json:"status"`
	Upcoming []engine.Event     `json:"upcoming"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	zoneID, err := strconv.Atoi(args[0])
	if err != nil || zoneID <= 0 {
		return fmt.Errorf("invalid zone id %q", args[0])
	}

	var at time.Time
	if resolveAt != "" {
		if at, err = time.Parse(time.RFC3339, resolveAt); err != nil {
			return fmt.Errorf("--at: %w", err)
		}
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	opts, err := a.serviceOptions()
	if err != nil {
		return err
	}
	if !at.IsZero() {
		loc := opts.Location
		opts.Now = func() time.Time { return at.In(loc) }
	}
	services := service.NewService(a.repos, opts)

	ctx := cmd.Context()
	st, err := services.Status(ctx, zoneID)
	if err != nil {
		return err
	}
	upcoming, err := services.Upcoming(ctx, zoneID, resolveHorizon)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		if upcoming == nil {
			upcoming = []engine.Event{}
		}
		return outputJSON(out, resolveOutput{Status: st, Upcoming: upcoming})
	}
	printResolution(out, st, upcoming)
	return nil
}
