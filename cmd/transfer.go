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

	"github.com/spf13/cobra"

	"github.com/scgolang/wingsync/namesync"
)

// transferCmd represents the transfer command
var transferCmd = &cobra.Command{
	Use:   "transfer",
	Short: "Copy channel names from the console to the recorder",
	Long: `Copy channel names from the console to the recorder.

Every output of the source group is resolved to the name of the input or
bus feeding it. Whatever is known when all outputs are named, or when the
deadline passes, is pushed to the recorder.`,
	Example: `  wingsync transfer --console 192.168.1.20 --recorder 192.168.1.30 --group USB`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := loadConfig(cmd); err != nil {
			return err
		}
		if err := cfg.ValidateTransfer(); err != nil {
			return err
		}
		ctx, cancel := signalContext()
		defer cancel()

		var (
			out      = cmd.OutOrStdout()
			engine   = namesync.NewEngine(cfg.Engine(), log)
			reporter = namesync.ReporterFunc(func(line string) { fmt.Fprintln(out, line) })
		)
		_, err := engine.Transfer(ctx, namesync.TransferRequest{
			Console:  cfg.Console,
			Recorder: cfg.Recorder,
			Source:   cfg.Group,
		}, reporter)
		return err
	},
}

func init() {
	flags := transferCmd.Flags()
	flags.StringVar(&cfg.Console, "console", cfg.Console, "console IP address")
	flags.StringVar(&cfg.Recorder, "recorder", cfg.Recorder, "recorder IP address")
	flags.StringVar(&cfg.Group, "group", cfg.Group, "source group whose outputs are transferred (USB, MOD, CRD, ...)")
	addEngineFlags(flags)

	RootCmd.AddCommand(transferCmd)
}
