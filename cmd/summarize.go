package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/ai-assistant/internal/markdown"
	"github.com/ziadkadry99/ai-assistant/internal/progress"
	"github.com/ziadkadry99/ai-assistant/internal/source"
)

var (
	summarizeMode string
	summarizeJSON bool
	summarizeHTML bool
)

var summarizeCmd = &cobra.Command{
	Use:   "summarize <url|file>",
	Short: "Summarize a web page, YouTube video or meeting transcript",
	Long: `Sends the source to the backend and prints the cleaned summary.
Without --mode, an existing file is treated as a transcript, a YouTube link
as a video and anything else as a web page.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if summarizeJSON && summarizeHTML {
			return fmt.Errorf("--json and --html are mutually exclusive")
		}

		ref := args[0]
		mode := inferMode(ref)
		if cmd.Flags().Changed("mode") {
			m, err := source.ParseMode(summarizeMode)
			if err != nil {
				return err
			}
			mode = m
		}

		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		logger, err := newLogger(cfg)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		defer func() { _ = logger.Sync() }()

		store, err := openHistory(cfg)
		if err != nil {
			return err
		}
		if store != nil {
			defer store.Close()
		}

		ctrl := newController(cfg, logger, store, mode)
		if err := setReference(ctrl, mode, ref); err != nil {
			return err
		}
		if mode == source.ModeYouTube {
			if id := source.YouTubeVideoID(ref); id != "" {
				fmt.Fprintf(os.Stderr, "Video: %s\n", id)
			}
		}

		reporter := progress.NewReporter()
		reporter.Start(fmt.Sprintf("Summarizing %s", mode.Subject()))
		err = ctrl.Summarize(context.Background())
		reporter.Stop()
		if err != nil {
			return fmt.Errorf("%s", failureText(err))
		}

		st := ctrl.Snapshot()
		switch {
		case summarizeJSON:
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(st)
		case summarizeHTML:
			html, err := markdown.ToHTML(st.Summary)
			if err != nil {
				return fmt.Errorf("rendering summary: %w", err)
			}
			fmt.Println(html)
		default:
			fmt.Println(st.Summary)
		}
		return nil
	},
}

func init() {
	summarizeCmd.Flags().StringVarP(&summarizeMode, "mode", "m", "", "source mode: web, youtube or transcript")
	summarizeCmd.Flags().BoolVar(&summarizeJSON, "json", false, "print the full state as JSON")
	summarizeCmd.Flags().BoolVar(&summarizeHTML, "html", false, "print the summary rendered as HTML")
	rootCmd.AddCommand(summarizeCmd)
}
