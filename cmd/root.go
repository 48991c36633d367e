// Copyright © 2017 Brian Sorahan <bsorahan@gmail.com>
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/scgolang/wingsync/config"
)

var (
	cfg     = config.DefaultConfig()
	cfgPath string
	log     = config.Logger()
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:   "wingsync",
	Short: "Copy channel names from a WING console to a LiveTrax recorder",
	Long: `wingsync discovers a WING console, resolves the name of every output of a
source group (USB, MOD, CRD, ...) and renames the matching LiveTrax strips.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and runs it.
func Execute() {
	if err := RootCmd.Execute(); err != nil {
		log.Error().Err(err).Msg("wingsync")
		os.Exit(1)
	}
}

func init() {
	flags := RootCmd.PersistentFlags()
	flags.StringVar(&cfgPath, "config", "", "path to config file (default: $HOME/.wingsync/config.toml)")
	flags.StringVar(&cfg.LogLevel, "log-level", cfg.LogLevel, "log level (debug, info, warn, error)")
}

// loadConfig layers the config file and WINGSYNC_* variables under the
// flags that were set on the command line.
func loadConfig(cmd *cobra.Command) error {
	changed := map[string]bool{}
	cmd.Flags().Visit(func(f *pflag.Flag) { changed[f.Name] = true })

	path := cfgPath
	if path == "" {
		path = config.DefaultConfigPath()
	}
	if path != "" && config.FileExists(path) {
		fc, err := config.LoadFileConfig(path)
		if err != nil {
			return errors.Wrap(err, "load config")
		}
		if err := config.ApplyFileConfig(&cfg, fc, changed); err != nil {
			return err
		}
	}
	if err := config.ApplyEnvConfig(&cfg, changed); err != nil {
		return err
	}
	return config.SetLogLevel(cfg.LogLevel)
}

// addEngineFlags binds the ports and timings of a transfer.
func addEngineFlags(flags *pflag.FlagSet) {
	flags.IntVar(&cfg.LocalPort, "local-port", cfg.LocalPort, "local port for console replies (0 picks a free port)")
	flags.IntVar(&cfg.ConsolePort, "console-port", cfg.ConsolePort, "console OSC port")
	flags.IntVar(&cfg.RecorderPort, "recorder-port", cfg.RecorderPort, "recorder OSC port")
	flags.IntVar(&cfg.DiscoveryPort, "discovery-port", cfg.DiscoveryPort, "console discovery port")
	flags.DurationVar(&cfg.DiscoveryTimeout, "discovery-timeout", cfg.DiscoveryTimeout, "how long to wait for the console to answer discovery")
	flags.DurationVar(&cfg.PollInterval, "poll", cfg.PollInterval, "how often to check whether every channel is named")
	flags.DurationVar(&cfg.Deadline, "deadline", cfg.Deadline, "push whatever names are known after this long")
}

// signalContext returns a context cancelled on SIGINT or SIGTERM.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}
