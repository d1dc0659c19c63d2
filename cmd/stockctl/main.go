// Command stockctl browses and exports the stockroom inventory from a terminal.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/stockroom/backend/internal/client"
	"github.com/stockroom/backend/internal/infrastructure/auth"
	"github.com/stockroom/backend/internal/infrastructure/config"
	"github.com/stockroom/backend/internal/infrastructure/logger"
	"github.com/stockroom/backend/internal/infrastructure/storage"
	"go.uber.org/zap"
)

// Settings keys, also readable from STOCKCTL_* environment variables
const (
	keyServer   = "server"
	keyToken    = "token"
	keyOutput   = "output"
	keyLogLevel = "log-level"

	defaultServer = "http://localhost:8080"
)

// app holds the settings and the dependencies that tests replace
type app struct {
	v *viper.Viper

	loadConfig   func() (*config.Config, error)
	newArchiver  func(ctx context.Context, cfg *config.ExportConfig, log *zap.Logger) (storage.Archiver, error)
	newBlacklist func(ctx context.Context, cfg config.RedisConfig) (auth.TokenBlacklist, error)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := NewRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// NewRootCmd builds the stockctl command tree
func NewRootCmd() *cobra.Command {
	return newApp().rootCmd()
}

func newApp() *app {
	v := viper.New()
	v.SetEnvPrefix("STOCKCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	return &app{
		v:            v,
		loadConfig:   config.Load,
		newArchiver:  newS3Archiver,
		newBlacklist: newRedisBlacklist,
	}
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "stockctl",
		Short: "Browse and export the stockroom inventory",
		Long: `stockctl talks to a running stockroom server.

Settings come from flags or STOCKCTL_SERVER, STOCKCTL_TOKEN and STOCKCTL_OUTPUT.`,
		SilenceUsage: true,
	}

	pf := root.PersistentFlags()
	pf.String(keyServer, defaultServer, "stockroom server base URL")
	pf.String(keyToken, "", "bearer token")
	pf.StringP(keyOutput, "o", "table", "output format: table or json")
	pf.String(keyLogLevel, "warn", "log level: debug, info, warn, error")
	_ = a.v.BindPFlags(pf)

	root.AddCommand(
		a.newLogsCmd(),
		a.newItemsCmd(),
		a.newBrowseCmd(),
		a.newExportCmd(),
		a.newTokenCmd(),
	)
	return root
}

func (a *app) client() (*client.Client, error) {
	var opts []client.Option
	if token := a.v.GetString(keyToken); token != "" {
		opts = append(opts, client.WithToken(token))
	}
	return client.New(a.v.GetString(keyServer), opts...)
}

func (a *app) logger() (*zap.Logger, error) {
	return logger.New(&logger.Config{
		Level:      a.v.GetString(keyLogLevel),
		Format:     "console",
		Output:     "stderr",
		TimeFormat: "15:04:05",
	})
}

func (a *app) outputJSON() (bool, error) {
	switch format := a.v.GetString(keyOutput); format {
	case "table", "":
		return false, nil
	case "json":
		return true, nil
	default:
		return false, fmt.Errorf("unknown output format %q (want table or json)", format)
	}
}
