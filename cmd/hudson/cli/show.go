package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/davarch/hudson-remote/internal/application"
	"github.com/davarch/hudson-remote/internal/domain"
	"github.com/spf13/cobra"
)

var (
	showJSON   bool
	showConfig bool
)

type jobView struct {
	Name                      string   `json:"name"`
	URL                       string   `json:"url"`
	Color                     *string  `json:"color,omitempty"`
	LastBuild                 *int     `json:"last_build,omitempty"`
	LastCompletedBuild        *int     `json:"last_completed_build,omitempty"`
	LastFailedBuild           *int     `json:"last_failed_build,omitempty"`
	LastStableBuild           *int     `json:"last_stable_build,omitempty"`
	LastSuccessfulBuild       *int     `json:"last_successful_build,omitempty"`
	LastUnsuccessfulBuild     *int     `json:"last_unsuccessful_build,omitempty"`
	NextBuildNumber           *int     `json:"next_build_number,omitempty"`
	Description               *string  `json:"description,omitempty"`
	RepositoryURL             *string  `json:"repository_url,omitempty"`
	RepositoryURLs            []string `json:"repository_urls,omitempty"`
	RepositoryBrowserLocation *string  `json:"repository_browser_location,omitempty"`
}

func ptr[T any](o domain.Optional[T]) *T {
	v, ok := o.Get()
	if !ok {
		return nil
	}
	return &v
}

func viewOf(j *application.Job) jobView {
	st := j.Status()
	var color *string
	if c, ok := st.Color.Get(); ok {
		s := string(c)
		color = &s
	}
	return jobView{
		Name:                      j.Name(),
		URL:                       j.URL(),
		Color:                     color,
		LastBuild:                 ptr(st.LastBuild),
		LastCompletedBuild:        ptr(st.LastCompletedBuild),
		LastFailedBuild:           ptr(st.LastFailedBuild),
		LastStableBuild:           ptr(st.LastStableBuild),
		LastSuccessfulBuild:       ptr(st.LastSuccessfulBuild),
		LastUnsuccessfulBuild:     ptr(st.LastUnsuccessfulBuild),
		NextBuildNumber:           ptr(st.NextBuildNumber),
		Description:               ptr(j.Description()),
		RepositoryURL:             ptr(j.RepositoryURL()),
		RepositoryURLs:            j.RepositoryURLs(),
		RepositoryBrowserLocation: ptr(j.RepositoryBrowserLocation()),
	}
}

func str[T any](v *T) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprint(*v)
}

var showCmd = &cobra.Command{
	Use:               "show <job>",
	Short:             "Show a job's status and configured attributes",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeJobs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withJob(cmd, args[0], func(ctx context.Context, e *env, j *application.Job) error {
			if showConfig {
				fmt.Print(j.Config())
				return nil
			}

			v := viewOf(j)
			if showJSON {
				enc := json.NewEncoder(os.Stdout)
				enc.SetIndent("", "  ")
				return enc.Encode(v)
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			rows := [][2]string{
				{"name", v.Name},
				{"url", v.URL},
				{"color", str(v.Color)},
				{"last build", str(v.LastBuild)},
				{"last completed", str(v.LastCompletedBuild)},
				{"last failed", str(v.LastFailedBuild)},
				{"last stable", str(v.LastStableBuild)},
				{"last successful", str(v.LastSuccessfulBuild)},
				{"last unsuccessful", str(v.LastUnsuccessfulBuild)},
				{"next build", str(v.NextBuildNumber)},
				{"description", str(v.Description)},
				{"repository", str(v.RepositoryURL)},
				{"repositories", strings.Join(v.RepositoryURLs, ", ")},
				{"browser", str(v.RepositoryBrowserLocation)},
			}
			for _, r := range rows {
				_, _ = fmt.Fprintf(w, "%s\t%s\n", strings.ToUpper(r[0][:1])+r[0][1:], r[1])
			}
			return w.Flush()
		})
	},
}

var buildInfoCmd = &cobra.Command{
	Use:               "build-info <job> [number]",
	Short:             "Show the result and revisions of a build (default: last build)",
	Args:              cobra.RangeArgs(1, 2),
	ValidArgsFunction: completeJobs,
	RunE: func(cmd *cobra.Command, args []string) error {
		number := domain.None[int]()
		if len(args) == 2 {
			n, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("invalid build number %q", args[1])
			}
			number = domain.Some(n)
		}
		return withJob(cmd, args[0], func(ctx context.Context, e *env, j *application.Job) error {
			b, err := e.server.LoadBuild(ctx, j, number)
			if err != nil {
				return err
			}
			fmt.Printf("%s #%d: %s\n", b.JobName(), b.Number(), b.Result().OrElse("running"))
			w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
			for module, rev := range b.Revisions() {
				_, _ = fmt.Fprintf(w, "%s\t%s\n", module, rev)
			}
			return w.Flush()
		})
	},
}

func init() {
	showCmd.Flags().BoolVar(&showJSON, "json", false, "print JSON")
	showCmd.Flags().BoolVar(&showConfig, "config", false, "print the raw config.xml")

	rootCmd.AddCommand(showCmd, buildInfoCmd)
}
