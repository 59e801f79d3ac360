package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"

	"github.com/ziadkadry99/ai-assistant/internal/assistant"
	"github.com/ziadkadry99/ai-assistant/internal/progress"
	"github.com/ziadkadry99/ai-assistant/internal/source"
)

var chatMode string

var chatCmd = &cobra.Command{
	Use:   "chat [url|file]",
	Short: "Start an interactive summarize-and-chat session",
	Long: `Starts an interactive session. Lines starting with a slash are commands:

  /mode [web|youtube|transcript]  switch the source mode
  /source <url|file>              set the source for the current mode
  /summarize                      summarize the current source
  /chat                           open the chat
  /state                          print the session state as JSON
  /quit                           leave

Any other line is asked as a question about the current source.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
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

		var mode source.Mode
		switch {
		case cmd.Flags().Changed("mode"):
			if mode, err = source.ParseMode(chatMode); err != nil {
				return err
			}
		case len(args) == 1:
			mode = inferMode(args[0])
		default:
			if mode, err = selectMode(cfg.DefaultMode()); err != nil {
				return err
			}
		}

		ctrl := newController(cfg, logger, store, mode)
		if len(args) == 1 {
			if err := setReference(ctrl, mode, args[0]); err != nil {
				return err
			}
		}

		s := &chatSession{ctrl: ctrl, reporter: progress.NewReporter()}
		fmt.Printf("aiassist %s: session %s. Type /quit to leave.\n", Version, ctrl.SessionID())
		return s.run(context.Background())
	},
}

func init() {
	chatCmd.Flags().StringVarP(&chatMode, "mode", "m", "", "source mode: web, youtube or transcript")
	rootCmd.AddCommand(chatCmd)
}

// chatSession is the terminal rendering of one controller.
type chatSession struct {
	ctrl     *assistant.Controller
	reporter progress.Reporter
	// printed counts transcript messages already shown.
	printed int
}

func (s *chatSession) run(ctx context.Context) error {
	for {
		prompt := promptui.Prompt{
			Label: fmt.Sprintf("%s>", s.ctrl.Snapshot().Mode),
		}
		line, err := prompt.Run()
		if errors.Is(err, promptui.ErrInterrupt) || errors.Is(err, promptui.ErrEOF) {
			return nil
		}
		if err != nil {
			return fmt.Errorf("reading input: %w", err)
		}

		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "/") {
			s.ask(ctx, line)
			continue
		}

		name, arg, _ := strings.Cut(line, " ")
		arg = strings.TrimSpace(arg)
		switch name {
		case "/quit", "/exit":
			return nil
		case "/mode":
			s.switchMode(arg)
		case "/source":
			if arg == "" {
				fmt.Println("usage: /source <url|file>")
				continue
			}
			if err := setReference(s.ctrl, s.ctrl.Snapshot().Mode, arg); err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			}
			s.syncPrinted()
		case "/summarize":
			s.summarize(ctx)
		case "/chat":
			s.ctrl.OpenChat()
			s.printNew()
		case "/state":
			data, err := json.MarshalIndent(s.ctrl.Snapshot(), "", "  ")
			if err != nil {
				fmt.Fprintf(os.Stderr, "Error: %v\n", err)
				continue
			}
			fmt.Println(string(data))
		default:
			fmt.Printf("unknown command %s\n", name)
		}
	}
}

func (s *chatSession) switchMode(arg string) {
	var (
		m   source.Mode
		err error
	)
	if arg == "" {
		m, err = selectMode(s.ctrl.Snapshot().Mode)
	} else {
		m, err = source.ParseMode(arg)
	}
	if err == nil {
		err = s.ctrl.SetMode(m)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

func (s *chatSession) summarize(ctx context.Context) {
	mode := s.ctrl.Snapshot().Mode
	s.reporter.Start(fmt.Sprintf("Summarizing %s", mode.Subject()))
	err := s.ctrl.Summarize(ctx)
	s.reporter.Stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", failureText(err))
		return
	}
	fmt.Printf("\n%s\n\n", s.ctrl.Snapshot().Summary)
}

func (s *chatSession) ask(ctx context.Context, question string) {
	st := s.ctrl.Snapshot()
	if !st.HasSource() {
		fmt.Println("Set a source first with /source <url|file>.")
		return
	}
	if !st.ChatVisible {
		s.ctrl.OpenChat()
		s.printNew()
	}
	// The question was typed on screen already.
	s.printed++

	s.reporter.Start("Thinking")
	err := s.ctrl.Ask(ctx, question)
	s.reporter.Stop()
	if errors.Is(err, assistant.ErrEmptyQuestion) || errors.Is(err, assistant.ErrBusy) {
		s.printed--
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return
	}
	s.printNew()
}

// printNew prints assistant messages appended since the last call.
func (s *chatSession) printNew() {
	msgs := s.ctrl.Snapshot().Messages
	if s.printed > len(msgs) {
		s.printed = 0
	}
	for _, m := range msgs[s.printed:] {
		if m.Role == assistant.RoleAssistant {
			fmt.Printf("assistant: %s\n", m.Content)
		}
	}
	s.printed = len(msgs)
}

// syncPrinted catches up after a source change may have cleared the chat.
func (s *chatSession) syncPrinted() {
	if n := len(s.ctrl.Snapshot().Messages); s.printed > n {
		s.printed = n
	}
}

func selectMode(current source.Mode) (source.Mode, error) {
	items := make([]string, len(source.Modes))
	cursor := 0
	for i, m := range source.Modes {
		items[i] = m.Label()
		if m == current {
			cursor = i
		}
	}
	sel := promptui.Select{
		Label:     "Source",
		Items:     items,
		CursorPos: cursor,
	}
	idx, _, err := sel.Run()
	if err != nil {
		return "", fmt.Errorf("mode selection: %w", err)
	}
	return source.Modes[idx], nil
}
