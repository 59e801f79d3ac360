package cmd

import (
	"github.com/spf13/cobra"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "aiassist",
	Short: "Summarize and chat about web pages, YouTube videos and meeting transcripts",
	Long: `aiassist is a client for a summarization backend. Point it at a web page,
a YouTube video or a meeting transcript to get a summary, then ask
follow-up questions about it from the terminal, a local browser page,
or an AI agent over MCP.`,
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", ".aiassist.yml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
