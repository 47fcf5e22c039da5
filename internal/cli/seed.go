package cli

import (
	"fmt"

	"zone_heating/internal/seed"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed FILE",
	Short: "Load zones, schedules and overrides from a YAML file",
	Long: `Load zones with their weekly schedules and manual overrides from a YAML file.
Zones whose name already exists are skipped together with their schedules and overrides.`,
	Args:    cobra.ExactArgs(1),
	GroupID: groupData,
	RunE:    runSeed,
}

func runSeed(cmd *cobra.Command, args []string) error {
	f, err := seed.Load(args[0])
	if err != nil {
		return err
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	rep, err := seed.Apply(cmd.Context(), a.repos, f)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if jsonOutput {
		return outputJSON(out, rep)
	}
	for _, name := range rep.Skipped {
		printWarning(out, fmt.Sprintf("zone %q already exists, skipped", name))
	}
	if rep.Settings {
		printSuccess(out, "Saved settings")
	}
	printSuccess(out, fmt.Sprintf("Seeded %d zones, %d schedules, %d overrides", rep.Zones, rep.Schedules, rep.Overrides))
	return nil
}
