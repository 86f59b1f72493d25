// peripherald runs a BLE peripheral: it configures the local adapter,
// broadcasts the configured advertising payload and relays attribute
// update notifications to BlueZ until interrupted.
package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fatih/color"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/blekit/peripheral"
	"github.com/blekit/peripheral/bluez"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "peripherald",
		Short:         "BLE peripheral daemon",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().String("log-level", "", "log level: debug, info, warn or error")
	root.PersistentFlags().BoolP("verbose", "v", false, "shorthand for --log-level debug")
	root.AddCommand(runCmd())
	return root
}

func runCmd() *cobra.Command {
	var configPath string
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Configure the adapter and serve until interrupted",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := configureLogger(cmd)
			if err != nil {
				return err
			}
			peripheral.SetLogger(logger)

			cfg, err := loadConfig(configPath)
			if err != nil {
				return err
			}
			return run(cfg, logger)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", "", "path to YAML config")
	return cmd
}

// configureLogger builds the process logger from --log-level, falling
// back to --verbose.
func configureLogger(cmd *cobra.Command) (*logrus.Logger, error) {
	level := logrus.InfoLevel
	if s, _ := cmd.Flags().GetString("log-level"); s != "" {
		var err error
		if level, err = logrus.ParseLevel(s); err != nil {
			return nil, fmt.Errorf("invalid log level %q", s)
		}
	} else if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level = logrus.DebugLevel
	}
	logger := logrus.New()
	logger.SetLevel(level)
	logger.SetFormatter(&logrus.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	return logger, nil
}

func run(cfg *Config, logger *logrus.Logger) error {
	mode, err := cfg.discoverableMode()
	if err != nil {
		return err
	}
	adv, rsp, err := cfg.buildAdvertising()
	if err != nil {
		return err
	}

	opts := []peripheral.Option{
		peripheral.WithAdvertisingName(cfg.AdvertisingName, cfg.AdvertisingShortName),
		peripheral.WithControllerIndex(cfg.Controller),
		peripheral.WithDiscoverable(mode, cfg.DiscoverableTimeout),
		peripheral.WithSecureConnections(cfg.SecureConnections),
		peripheral.WithInitTimeout(cfg.initTimeout()),
		peripheral.WithSettleDelay(cfg.settleDelay()),
	}
	if len(adv) > 0 {
		opts = append(opts, peripheral.WithRawAdvertisingData(adv, rsp))
	}

	emitter, err := bluez.NewEmitter()
	if err != nil {
		logger.Warnf("system bus unavailable, update signals disabled: %v", err)
	} else {
		defer emitter.Close()
		opts = append(opts, peripheral.WithSignalEmitter(emitter))
	}

	srv := peripheral.NewServer(cfg.ServiceName, opts...)
	if !srv.Start() {
		return fmt.Errorf("server failed to start: health %s", srv.Health())
	}
	color.Green("%s advertising as %q on controller %d", cfg.ServiceName, cfg.AdvertisingName, cfg.Controller)

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM)
	<-sig
	color.Yellow("shutting down")

	if !srv.ShutdownAndWait() {
		return fmt.Errorf("server stopped unhealthy: %s", srv.Health())
	}
	return nil
}
