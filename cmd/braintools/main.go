// Copyright (c) 2024, The Emergent Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// braintools tabulates learning rate schedules and reports
// synchrony metrics on generated activity.
package main

import (
	"fmt"
	"os"

	"github.com/emer/braintools/v2/environ"
	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "braintools",
		Short: "Learning rate schedules and synchrony metrics",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			fn, _ := cmd.Flags().GetString("env")
			if fn == "" {
				return nil
			}
			ep, err := environ.Open(fn)
			if err != nil {
				return err
			}
			return environ.Set(ep)
		},
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("env", "", "environment file (.toml or .yaml) setting dt, precision and max_batch_mem")

	rootCmd.AddCommand(
		newLrCmd(),
		newSyncCmd(),
	)
	return rootCmd
}
