// Package cli implements the pulse command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/randalmurphal/pulse/internal/config"
	"github.com/randalmurphal/pulse/internal/daily"
	"github.com/randalmurphal/pulse/internal/wizard"
)

// newDailyCmd creates the daily command group
func newDailyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "daily",
		Short: "Keep the daily journal",
		Long: `The journal pairs your own words with the collected evidence: an
intent for the day, plus wins and blockers as they happen. Entries
show up in the recap under "daily".

Examples:
  pulse daily form                 # interactive morning entry
  pulse daily win "Shipped the exporter"
  pulse daily block "Waiting on infra access"
  pulse daily show
  pulse daily history --days 14`,
	}

	cmd.AddCommand(newDailyFormCmd())
	cmd.AddCommand(newDailyShowCmd())
	cmd.AddCommand(newDailyWinCmd())
	cmd.AddCommand(newDailyBlockCmd())
	cmd.AddCommand(newDailyHistoryCmd())
	return cmd
}

func newDailyFormCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "form",
		Short: "Fill in today's journal interactively",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := dailyStore()
			if err != nil {
				return err
			}

			date := time.Now().UTC().Format("2006-01-02")
			existing := store.Load(date)

			intent := wizard.NewInputStep("intent", "What is today about?").
				WithPlaceholder("One line of intent").
				WithStateKey("intent")
			wins := wizard.NewListStep("wins", "Any wins already?").
				WithDescription("Enter adds an item, blank enter finishes").
				WithStateKey("wins")
			blockers := wizard.NewListStep("blockers", "Anything blocking you?").
				WithDescription("Enter adds an item, blank enter finishes").
				WithStateKey("blockers")
			if existing != nil {
				intent = intent.WithDefault(existing.Intent)
				wins = wins.WithSeed(existing.Wins)
				blockers = blockers.WithSeed(existing.Blockers)
			}
			summary := wizard.NewDisplayStep("summary", "Journal for "+date, func(s wizard.State) string {
				return formSummary(s)
			})

			w := wizard.New(intent, wins, blockers, summary)
			if err := w.Run(); err != nil {
				if errors.Is(err, wizard.ErrCancelled) {
					fmt.Println("Cancelled, nothing saved.")
					return nil
				}
				return err
			}

			state := w.State()
			entry := &daily.Entry{
				Date:     date,
				Intent:   stateString(state, "intent"),
				Wins:     stateStrings(state, "wins"),
				Blockers: stateStrings(state, "blockers"),
			}
			if err := store.Save(entry); err != nil {
				return err
			}
			fmt.Printf("✅ Journal saved for %s\n", date)
			return nil
		},
	}
}

func newDailyShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show [date]",
		Short: "Show a journal entry (default today)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := dailyStore()
			if err != nil {
				return err
			}

			date := time.Now().UTC().Format("2006-01-02")
			if len(args) == 1 {
				date = args[0]
			}
			entry := store.Load(date)
			if entry == nil {
				fmt.Printf("No journal entry for %s. Start one: pulse daily form\n", date)
				return nil
			}
			if jsonOut {
				return printJSON(os.Stdout, entry)
			}
			printEntry(entry)
			return nil
		},
	}
}

func newDailyWinCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "win <text>",
		Short: "Log a win for today",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := dailyStore()
			if err != nil {
				return err
			}
			date := time.Now().UTC().Format("2006-01-02")
			if _, err := store.AddWin(date, strings.Join(args, " ")); err != nil {
				return err
			}
			fmt.Println("🏆 Win logged")
			return nil
		},
	}
}

func newDailyBlockCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "block <text>",
		Short: "Log a blocker for today",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := dailyStore()
			if err != nil {
				return err
			}
			date := time.Now().UTC().Format("2006-01-02")
			if _, err := store.AddBlocker(date, strings.Join(args, " ")); err != nil {
				return err
			}
			fmt.Println("🚧 Blocker logged")
			return nil
		},
	}
}

func newDailyHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent journal entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := dailyStore()
			if err != nil {
				return err
			}
			days, _ := cmd.Flags().GetInt("days")

			today := time.Now().UTC().Format("2006-01-02")
			entries := store.History(today, days)
			if jsonOut {
				return printJSON(os.Stdout, entries)
			}
			if len(entries) == 0 {
				fmt.Println("No journal entries yet.")
				return nil
			}
			for _, e := range entries {
				printEntry(e)
				fmt.Println()
			}
			return nil
		},
	}
	cmd.Flags().Int("days", 7, "how many days back to show")
	return cmd
}

// dailyStore is the common preamble of every daily subcommand.
func dailyStore() (*daily.Store, error) {
	if err := config.RequireInit(); err != nil {
		return nil, err
	}
	cfg, err := loadSettings()
	if err != nil {
		return nil, err
	}
	return daily.NewStore(cfg.DailyDir(), nil), nil
}

func printEntry(e *daily.Entry) {
	fmt.Printf("📅 %s\n", e.Date)
	if e.Intent != "" {
		fmt.Printf("   Intent: %s\n", e.Intent)
	}
	for _, w := range e.Wins {
		fmt.Printf("   🏆 %s\n", w)
	}
	for _, b := range e.Blockers {
		fmt.Printf("   🚧 %s\n", b)
	}
}

// formSummary renders the pre-save confirmation screen.
func formSummary(s wizard.State) string {
	var b strings.Builder
	if intent := stateString(s, "intent"); intent != "" {
		fmt.Fprintf(&b, "Intent: %s\n", intent)
	}
	for _, w := range stateStrings(s, "wins") {
		fmt.Fprintf(&b, "🏆 %s\n", w)
	}
	for _, bl := range stateStrings(s, "blockers") {
		fmt.Fprintf(&b, "🚧 %s\n", bl)
	}
	if b.Len() == 0 {
		return "Nothing entered yet — the entry will be saved empty."
	}
	return b.String()
}

func stateString(s wizard.State, key string) string {
	v, _ := s[key].(string)
	return v
}

func stateStrings(s wizard.State, key string) []string {
	v, _ := s[key].([]string)
	return v
}
