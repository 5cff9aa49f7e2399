package cli

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/davarch/hudson-remote/internal/domain"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

const statusParallelism = 4

type statusRow struct {
	name   string
	state  domain.JobState
	color  string
	last   string
	result string
}

var statusCmd = &cobra.Command{
	Use:               "status [job...]",
	Short:             "Show state and last build of several jobs (default: tracked jobs)",
	ValidArgsFunction: completeJobs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := newEnv()
		if err != nil {
			return err
		}
		defer e.close()

		names := args
		if len(names) == 0 {
			names = e.cfg.EnabledJobs()
		}
		if len(names) == 0 {
			return fmt.Errorf("no jobs given and none tracked in %s", cfgPath)
		}

		rows := make([]statusRow, len(names))
		g, ctx := errgroup.WithContext(cmd.Context())
		g.SetLimit(statusParallelism)

		for i, name := range names {
			i, name := i, name // per-iteration copy; go.mod targets Go 1.21 loop semantics
			g.Go(func() error {
				j, err := e.server.GetJob(ctx, name)
				if err != nil {
					return err
				}
				if j == nil {
					return fmt.Errorf("%w: %s", domain.ErrJobNotFound, name)
				}
				state, err := j.State(ctx)
				if err != nil {
					return err
				}

				row := statusRow{name: name, state: state, color: "-", last: "-", result: "-"}
				st := j.Status()
				if c, ok := st.Color.Get(); ok {
					row.color = string(c)
				}
				if n, ok := st.LastCompletedBuild.Get(); ok {
					row.last = fmt.Sprintf("#%d", n)
					b, err := e.server.LoadBuild(ctx, j, domain.Some(n))
					if err != nil {
						return err
					}
					row.result = string(b.Result().OrElse("-"))
				}
				rows[i] = row
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return err
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		_, _ = fmt.Fprintln(w, "JOB\tSTATE\tCOLOR\tLAST COMPLETED\tRESULT")
		for _, r := range rows {
			_, _ = fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", r.name, r.state, r.color, r.last, r.result)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(statusCmd)
}
