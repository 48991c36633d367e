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
	"fmt"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/scgolang/wingsync/recorder"
)

// recordCmd represents the record command
var recordCmd = &cobra.Command{
	Use:   "record",
	Short: "Start or stop recording on the recorder",
}

var recordStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start recording",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRecord(cmd, "Starting", recorder.StartRecording)
	},
}

var recordStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop recording",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runRecord(cmd, "Stopping", recorder.StopRecording)
	},
}

func init() {
	for _, c := range []*cobra.Command{recordStartCmd, recordStopCmd} {
		c.Flags().StringVar(&cfg.Recorder, "recorder", cfg.Recorder, "recorder IP address")
		c.Flags().IntVar(&cfg.RecorderPort, "recorder-port", cfg.RecorderPort, "recorder OSC port")
		recordCmd.AddCommand(c)
	}
	RootCmd.AddCommand(recordCmd)
}

func runRecord(cmd *cobra.Command, verb string, send func(context.Context, string, int) error) error {
	if err := loadConfig(cmd); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if cfg.Recorder == "" {
		return errors.New("recorder address is required")
	}
	fmt.Fprintf(cmd.OutOrStdout(), "→ %s recording... LiveTrax=%s\n", verb, cfg.Recorder)

	ctx, cancel := signalContext()
	defer cancel()

	return errors.Wrapf(send(ctx, cfg.Recorder, cfg.RecorderPort), "%s recording", verb)
}
