// SPDX-FileCopyrightText: 2019 KIM KeepInMind GmbH
//
// SPDX-License-Identifier: MIT

// Package cmd contains the tmuxreap command line interface.
package cmd

import (
	"log"

	"github.com/kim-company/tmuxreap/reaper"
	"github.com/kim-company/tmuxreap/tmux"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "tmuxreap",
	Short: "Kill every tmux session that has no attached clients",
	Long: `tmuxreap lists the running tmux sessions and kills the ones no client is
attached to, printing a line for each session it kills.`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return tmux.Verify()
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		killed, err := reaper.New(reaper.Output(cmd.OutOrStdout())).Reap()
		if err != nil {
			return err
		}
		log.Printf("[INFO] %d session(s) reaped", len(killed))
		return nil
	},
}

// Execute runs the root command. It is called once by main.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		log.Printf("[ERROR] %v", err)
		return err
	}
	return nil
}
