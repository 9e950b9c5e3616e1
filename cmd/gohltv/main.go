package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	default_builder "github.com/superjcd/gohltv/builder/default"
	"github.com/superjcd/gohltv/config"
	"github.com/superjcd/gohltv/logger"
	"go.uber.org/zap"
)

var Version = "dev"

var (
	configFile string
	logLevel   string

	useProxy      bool
	proxyFile     string
	proxies       []string
	removeProxy   bool
	proxyProtocol string
	maxRetries    int
	timeout       time.Duration

	cfg     *config.Config
	log     *zap.Logger
	builder *default_builder.Builder
)

var rootCmd = &cobra.Command{
	Use:           "gohltv",
	Short:         "Fetch and parse hltv.org pages through a rotating proxy pool",
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(configFile); err != nil {
			return err
		}
		applyFlags(cmd, cfg)
		if err := cfg.Validate(); err != nil {
			return err
		}

		if log, err = logger.New(logger.Config{Level: cfg.Logging.Level, Development: cfg.Logging.Development}); err != nil {
			return err
		}
		builder = default_builder.New(cfg, log)
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if builder == nil {
			return nil
		}
		err := builder.Close()
		log.Sync()
		return err
	},
}

func init() {
	f := rootCmd.PersistentFlags()
	f.StringVarP(&configFile, "config", "c", "", "config file (default ./configs/config.yaml)")
	f.StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	f.BoolVar(&useProxy, "use-proxy", false, "route requests through the proxy pool")
	f.StringVar(&proxyFile, "proxy-file", "", "file with one proxy per line")
	f.StringSliceVar(&proxies, "proxy", nil, "proxy entry, repeatable; wins over --proxy-file")
	f.BoolVar(&removeProxy, "remove-proxy", false, "drop a proxy after its first failure")
	f.StringVar(&proxyProtocol, "proxy-protocol", "", "protocol for entries without one: http, https, socks5")
	f.IntVar(&maxRetries, "max-retries", 0, "attempts per fetch through proxies")
	f.DurationVar(&timeout, "timeout", 0, "timeout of a single attempt")
}

// applyFlags lets explicitly set flags win over the config file.
func applyFlags(cmd *cobra.Command, cfg *config.Config) {
	f := cmd.Flags()
	if f.Changed("log-level") {
		cfg.Logging.Level = logLevel
	}
	if f.Changed("use-proxy") {
		cfg.Proxy.UseProxy = useProxy
	}
	if f.Changed("proxy-file") {
		cfg.Proxy.ProxyPath = proxyFile
	}
	if f.Changed("proxy") {
		cfg.Proxy.ProxyList = proxies
	}
	if f.Changed("remove-proxy") {
		cfg.Proxy.RemoveProxy = removeProxy
	}
	if f.Changed("proxy-protocol") {
		cfg.Proxy.ProxyProtocol = proxyProtocol
	}
	if f.Changed("max-retries") {
		cfg.Fetch.MaxRetries = maxRetries
	}
	if f.Changed("timeout") {
		cfg.Fetch.Timeout = timeout
	}
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}
