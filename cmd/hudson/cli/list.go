package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var (
	listActive bool
	listJSON   bool
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List jobs on the server",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.close()

		var names []string
		if listActive {
			names, err = e.server.ListActiveJobs(cmd.Context())
		} else {
			names, err = e.server.ListJobs(cmd.Context())
		}
		if err != nil {
			return err
		}

		if listJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(names)
		}

		for _, n := range names {
			fmt.Println(n)
		}
		return nil
	},
}

var queueCmd = &cobra.Command{
	Use:   "queue",
	Short: "List jobs waiting in the build queue",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.close()

		names, err := e.server.Queue().List(cmd.Context())
		if err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "POS\tJOB")
		for i, n := range names {
			_, _ = fmt.Fprintf(w, "%d\t%s\n", i+1, n)
		}
		return w.Flush()
	},
}

func init() {
	listCmd.Flags().BoolVar(&listActive, "active", false, "show only jobs with a running build")
	listCmd.Flags().BoolVar(&listJSON, "json", false, "print JSON")

	rootCmd.AddCommand(listCmd, queueCmd)
}
