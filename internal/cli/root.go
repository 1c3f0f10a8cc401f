package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"vineyard-quiz/internal/config"
)

const releaseVersion = "1.0.0"

// overrides holds flag values that win over the config file when set.
type overrides struct {
	configPath  string
	port        string
	bind        string
	prefix      string
	verbose     bool
	store       string
	redisAddr   string
	postgresURL string
}

// Execute runs the CLI.
func Execute() error {
	return newRootCmd().Execute()
}

func newRootCmd() *cobra.Command {
	flags := &overrides{}

	cmd := &cobra.Command{
		Use:           "vineyard-quiz",
		Short:         "Multiplayer wine quiz served over HTTP and websockets",
		Version:       releaseVersion,
		SilenceErrors: true,
		SilenceUsage:  true,
	}

	fs := cmd.PersistentFlags()
	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})
	fs.StringVar(&flags.configPath, "config", "config/config.yaml", "path to YAML config (env: VINEYARD_CONFIG)")
	fs.StringVarP(&flags.port, "port", "p", "", "port to listen on (env: VINEYARD_PORT)")
	fs.StringVarP(&flags.bind, "bind", "b", "", "address to bind to (env: VINEYARD_BIND)")
	fs.StringVar(&flags.prefix, "prefix", "", "path to prepend to all URLs (env: VINEYARD_PREFIX)")
	fs.BoolVarP(&flags.verbose, "verbose", "v", false, "log every request (env: VINEYARD_VERBOSE)")
	fs.StringVar(&flags.store, "store", "", "session backend: memory, redis or postgres (env: VINEYARD_STORE)")
	fs.StringVar(&flags.redisAddr, "redis-addr", "", "redis address (env: VINEYARD_REDIS_ADDR)")
	fs.StringVar(&flags.postgresURL, "postgres-url", "", "postgres connection URL (env: VINEYARD_POSTGRES_URL)")
	bindEnv(fs, "VINEYARD")

	cmd.AddCommand(NewStartCmd(flags))
	cmd.AddCommand(NewMigrateCmd(flags))
	cmd.AddCommand(NewPlayCmd())

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("vineyard-quiz v{{.Version}}\n")
	return cmd
}

// bindEnv lets PREFIX_FLAG_NAME set any flag the command line left alone.
func bindEnv(fs *pflag.FlagSet, prefix string) {
	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})
}

// loadConfig reads the config file and applies any flag overrides.
func (o *overrides) loadConfig() (config.Config, error) {
	cfg, err := config.Read(o.configPath)
	if err != nil {
		return cfg, err
	}
	if o.port != "" {
		cfg.Server.Port = o.port
	}
	if o.bind != "" {
		cfg.Server.Bind = o.bind
	}
	if o.prefix != "" {
		cfg.Server.Prefix = o.prefix
	}
	if o.verbose {
		cfg.Server.Verbose = true
	}
	if o.store != "" {
		cfg.Store.Backend = o.store
	}
	if o.redisAddr != "" {
		cfg.Redis.Addr = o.redisAddr
	}
	if o.postgresURL != "" {
		cfg.Postgres.URL = o.postgresURL
	}
	return cfg, cfg.Validate()
}
