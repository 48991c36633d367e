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
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/scgolang/wingsync/discovery"
)

// discoverCmd represents the discover command
var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Check that a WING console answers at an address",
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		if err := cfg.Validate(); err != nil {
			return err
		}
		if cfg.Console == "" {
			return errors.New("console address is required")
		}
		ctx, cancel := signalContext()
		defer cancel()

		dev, err := discovery.Probe(ctx, cfg.Console, cfg.DiscoveryPort, cfg.DiscoveryTimeout)
		if err != nil {
			return errors.Wrapf(err, "discovering %s", cfg.Console)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "%s %s (%s) serial %s firmware %s\n", dev.IP, dev.Name, dev.Model, dev.Serial, dev.Firmware)
		return nil
	},
}

func init() {
	flags := discoverCmd.Flags()
	flags.StringVar(&cfg.Console, "console", cfg.Console, "console IP address")
	flags.IntVar(&cfg.DiscoveryPort, "discovery-port", cfg.DiscoveryPort, "console discovery port")
	flags.DurationVar(&cfg.DiscoveryTimeout, "discovery-timeout", cfg.DiscoveryTimeout, "how long to wait for an answer")

	RootCmd.AddCommand(discoverCmd)
}
