package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/ai-assistant/internal/history"
	"github.com/ziadkadry99/ai-assistant/internal/source"
)

var (
	historySession string
	historyMode    string
	historyLimit   int
	historyPrune   time.Duration
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recent summaries and answers from the local journal",
	Long: `Lists entries from the history journal, newest first. The journal is
written only when history.enabled is set. Use --prune to delete entries
older than a given age, e.g. --prune 720h.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if historyMode != "" {
			if _, err := source.ParseMode(historyMode); err != nil {
				return err
			}
		}
		if _, err := os.Stat(cfg.History.Path); os.IsNotExist(err) {
			fmt.Println("No history recorded yet. Enable it with history.enabled in the config.")
			return nil
		}

		store, err := history.Open(cfg.History.Path)
		if err != nil {
			return fmt.Errorf("opening history: %w", err)
		}
		defer store.Close()

		ctx := context.Background()
		if historyPrune > 0 {
			n, err := store.DeleteBefore(ctx, time.Now().Add(-historyPrune))
			if err != nil {
				return fmt.Errorf("pruning history: %w", err)
			}
			fmt.Printf("Deleted %d entries older than %s\n", n, historyPrune)
			return nil
		}

		entries, err := store.List(ctx, history.Filter{
			SessionID: historySession,
			Mode:      historyMode,
			Limit:     historyLimit,
		})
		if err != nil {
			return fmt.Errorf("listing history: %w", err)
		}
		if len(entries) == 0 {
			fmt.Println("No entries.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tKIND\tMODE\tSOURCE\tSTATUS\tTEXT")
		for _, e := range entries {
			status := "ok"
			if !e.OK {
				status = "failed"
			}
			text := e.Response
			if e.Kind == history.KindChat {
				text = e.Question
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
				e.Timestamp.Local().Format("2006-01-02 15:04"),
				e.Kind, e.Mode, truncate(e.Source, 40), status, truncate(text, 60))
		}
		return w.Flush()
	},
}

func init() {
	historyCmd.Flags().StringVar(&historySession, "session", "", "only show entries from this session")
	historyCmd.Flags().StringVarP(&historyMode, "mode", "m", "", "only show entries for this source mode")
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "n", 20, "maximum entries to show")
	historyCmd.Flags().DurationVar(&historyPrune, "prune", 0, "delete entries older than this age instead of listing")
	rootCmd.AddCommand(historyCmd)
}

// truncate shortens s to max runes on a single line.
func truncate(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-3]) + "..."
}
