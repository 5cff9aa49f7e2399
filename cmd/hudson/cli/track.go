package cli

import (
	"fmt"

	"github.com/davarch/hudson-remote/internal/infrastructure/config"
	"github.com/spf13/cobra"
)

var trackCmd = &cobra.Command{
	Use:               "track <job>",
	Short:             "Add a job to the watch list in config.yaml",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeJobs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTracked(args[0], true)
	},
}

var untrackCmd = &cobra.Command{
	Use:   "untrack <job>",
	Short: "Stop watching a job; it stays listed in config.yaml",
	Args:  cobra.ExactArgs(1),
	ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
		cfg, err := config.Load(cfgPath)
		if err != nil {
			return nil, cobra.ShellCompDirectiveNoFileComp
		}

		out := make([]string, 0, len(cfg.Poll.Jobs))
		for _, name := range cfg.EnabledJobs() {
			if toComplete == "" || startsWith(name, toComplete) {
				out = append(out, name)
			}
		}

		return out, cobra.ShellCompDirectiveNoFileComp
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return setTracked(args[0], false)
	},
}

func setTracked(name string, enabled bool) error {
	cfg, err := config.LoadFile(cfgPath)
	if err != nil {
		return err
	}

	if !config.SetJobEnabled(&cfg, name, enabled) {
		fmt.Printf("no change (job %q already in that state or not listed)\n", name)
		return nil
	}

	if err := config.Save(cfgPath, cfg); err != nil {
		return err
	}

	if enabled {
		fmt.Printf("tracked: %s\n", name)
	} else {
		fmt.Printf("untracked: %s\n", name)
	}
	return nil
}

func init() {
	rootCmd.AddCommand(trackCmd, untrackCmd)
}
