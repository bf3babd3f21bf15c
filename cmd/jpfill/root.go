package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for jpfill.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "jpfill",
		Short: "Fill Japanese web forms with synthetic test data",
		Long: `jpfill classifies the controls of an HTML form and fills them with
plausible Japanese test data.

It recognizes names (kanji, hiragana, katakana, romaji), postal codes,
prefectures, addresses, phone numbers, emails, birth dates and job posting
fields, and it drives custom select, multi-select, number and date picker
widgets through the events their libraries listen for.

Pages are read from local files or fetched over HTTP. Use --browser to
render and fill them in headless Chrome instead.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(NewFillCmd())
	cmd.AddCommand(NewClearCmd())
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
