package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/davarch/hudson-remote/internal/application"
	"github.com/davarch/hudson-remote/internal/infrastructure/config"
	"github.com/davarch/hudson-remote/internal/infrastructure/hudson_http"
	"github.com/davarch/hudson-remote/internal/infrastructure/logging"
	"github.com/davarch/hudson-remote/internal/infrastructure/metrics"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfgPath         string
	debug           bool
	metricsTextfile string
	version         = "dev"
)

var rootCmd = &cobra.Command{
	Use:           "hudson",
	Short:         "Remote control for Hudson/Jenkins jobs, builds and the build queue",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func Execute() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	cancel()
	if err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// env is what every server-facing command needs, built from the config file
// once per invocation.
type env struct {
	cfg     config.Config
	log     *zap.Logger
	server  *application.Server
	metrics *metrics.Metrics
}

func newEnv() (*env, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	log := logging.New(debug)
	m := metrics.New()
	hc := hudson_http.New(cfg.Server.Timeout,
		hudson_http.WithBasicAuth(cfg.Server.User, cfg.Server.Password),
		hudson_http.WithCallCounter(m.OutboundCalls),
	)

	return &env{
		cfg:     cfg,
		log:     log,
		server:  application.NewServer(cfg.Server.URL, hc, log),
		metrics: m,
	}, nil
}

func (e *env) close() {
	if metricsTextfile != "" {
		if err := e.metrics.WriteTextfile(metricsTextfile); err != nil {
			e.log.Warn("write metrics", zap.String("path", metricsTextfile), zap.Error(err))
		}
	}
	_ = e.log.Sync()
}

// withJob loads name and runs fn against it; an unknown job is an error here.
func withJob(cmd *cobra.Command, name string, fn func(ctx context.Context, e *env, j *application.Job) error) error {
	e, err := newEnv()
	if err != nil {
		return err
	}
	defer e.close()

	ctx := cmd.Context()
	j, err := e.server.GetJob(ctx, name)
	if err != nil {
		return err
	}
	if j == nil {
		return fmt.Errorf("job %q not found on %s", name, e.server.BaseURL())
	}
	return fn(ctx, e, j)
}

func report(ok bool, action, name string) error {
	if !ok {
		return fmt.Errorf("%s %s: rejected by server", action, name)
	}
	fmt.Printf("%s: %s\n", action, name)
	return nil
}

func completeJobs(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	e, err := newEnv()
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	defer e.close()

	names, err := e.server.ListJobs(cmd.Context())
	if err != nil {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}

	out := make([]string, 0, len(names))
	for _, n := range names {
		if toComplete == "" || startsWith(n, toComplete) {
			out = append(out, n)
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func startsWith(s, pref string) bool {
	if len(pref) > len(s) {
		return false
	}

	return s[:len(pref)] == pref
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "config.yaml", "path to config.yaml")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "debug logging")
	rootCmd.PersistentFlags().StringVar(&metricsTextfile, "metrics-textfile", "", "write prometheus metrics to this file on exit")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version",
		Run: func(*cobra.Command, []string) {
			fmt.Println(version)
		},
	})

	comp := &cobra.Command{
		Use:       "completion [bash|zsh|fish|powershell]",
		Short:     "Generate shell completion scripts",
		Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
		ValidArgs: []string{"bash", "zsh", "fish", "powershell"},
		RunE: func(cmd *cobra.Command, args []string) error {
			switch args[0] {
			case "bash":
				return rootCmd.GenBashCompletion(os.Stdout)
			case "zsh":
				return rootCmd.GenZshCompletion(os.Stdout)
			case "fish":
				return rootCmd.GenFishCompletion(os.Stdout, true)
			case "powershell":
				return rootCmd.GenPowerShellCompletionWithDesc(os.Stdout)
			}
			return nil
		},
	}

	rootCmd.AddCommand(comp)
}
