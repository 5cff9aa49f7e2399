package cli

import (
	"context"
	"errors"

	"github.com/davarch/hudson-remote/internal/application"
	"github.com/spf13/cobra"
)

var (
	setDescription    string
	setBrowser        string
	setRepositoryURL  string
	setRepositoryURLs []string
)

var setCmd = &cobra.Command{
	Use:               "set <job>",
	Short:             "Change description, repository or browser location in the job config",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: completeJobs,
	RunE: func(cmd *cobra.Command, args []string) error {
		fl := cmd.Flags()
		if !fl.Changed("description") && !fl.Changed("browser") &&
			!fl.Changed("repository-url") && !fl.Changed("repository-urls") {
			return errors.New("nothing to set")
		}

		return withJob(cmd, args[0], func(ctx context.Context, e *env, j *application.Job) error {
			type edit struct {
				flag  string
				apply func() (bool, error)
			}
			edits := []edit{
				{"description", func() (bool, error) { return j.SetDescription(ctx, setDescription) }},
				{"browser", func() (bool, error) { return j.SetRepositoryBrowserLocation(ctx, setBrowser) }},
				{"repository-url", func() (bool, error) { return j.SetRepositoryURL(ctx, setRepositoryURL) }},
				{"repository-urls", func() (bool, error) { return j.SetRepositoryURLs(ctx, setRepositoryURLs) }},
			}

			var errs []error
			for _, ed := range edits {
				if !fl.Changed(ed.flag) {
					continue
				}
				ok, err := ed.apply()
				if err != nil {
					return err
				}
				errs = append(errs, report(ok, "set "+ed.flag, j.Name()))
			}
			return errors.Join(errs...)
		})
	},
}

func init() {
	setCmd.Flags().StringVar(&setDescription, "description", "", "job description")
	setCmd.Flags().StringVar(&setBrowser, "browser", "", "repository browser location")
	setCmd.Flags().StringVar(&setRepositoryURL, "repository-url", "", "first repository location")
	setCmd.Flags().StringSliceVar(&setRepositoryURLs, "repository-urls", nil, "all repository locations, in order")

	rootCmd.AddCommand(setCmd)
}
