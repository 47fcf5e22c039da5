package cli

import (
	"fmt"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

const (
	groupService = "service"
	groupData    = "data"
	groupInspect = "inspect"
	groupRemote  = "remote"
)

var (
	// Global flags
	configPath string
	jsonOutput bool

	groupTitleColor = color.New(color.FgCyan, color.Bold)
)

var rootCmd = &cobra.Command{
	Use:     "heating",
	Version: "dev",
	Short:   "Multi-zone heating controller",
	Long: `heating decides, per zone, which target temperature is in effect: a manual override,
the weekly schedule, or the eco fallback. It serves the HTTP API, drives the zone
hardware, and offers local and remote inspection commands.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
}

func SetVersion(v string) {
	if v == "" {
		return
	}
	rootCmd.Version = v
	rootCmd.SetVersionTemplate("{{.Version}}\n")
}

// Execute runs the command line and prints a failing command's error to stderr.
func Execute() error {
	err := rootCmd.Execute()
	if err != nil {
		printError(os.Stderr, err.Error())
	}
	return err
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default configs/config.yml)")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")

	for _, g := range []*cobra.Group{
		{ID: groupService, Title: groupTitleColor.Sprint("Service:")},
		{ID: groupData, Title: groupTitleColor.Sprint("Data:")},
		{ID: groupInspect, Title: groupTitleColor.Sprint("Local Inspection:")},
		{ID: groupRemote, Title: groupTitleColor.Sprint("Remote:")},
	} {
		rootCmd.AddGroup(g)
	}

	rootCmd.AddCommand(serveCmd, seedCmd, resolveCmd, statusCmd, adjustCmd)

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print the heating CLI version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			_, _ = fmt.Fprintln(cmd.OutOrStdout(), rootCmd.Version)
		},
	})
}
