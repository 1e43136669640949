package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/abhisek/timez/internal/llm"
	"github.com/abhisek/timez/internal/phrasebook"
	"github.com/abhisek/timez/internal/store"
)

var llmCmd = &cobra.Command{
	Use:   "llm",
	Short: "Inspect phrase generation requests sent to the LLM",
}

var llmListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent LLM requests",
	RunE: func(cmd *cobra.Command, args []string) error {
		limit, _ := cmd.Flags().GetInt("limit")
		lang, _ := cmd.Flags().GetString("lang")

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{Limit: limit})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		writeLLMList(cmd.OutOrStdout(), events, lang)
		return nil
	},
}

var llmViewCmd = &cobra.Command{
	Use:   "view <id>",
	Short: "Show one LLM request and the phrases it produced",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return fmt.Errorf("invalid ID %q: %w", args[0], err)
		}
		raw, _ := cmd.Flags().GetBool("raw")

		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		e, err := s.EventRepo().GetLLMEvent(cmd.Context(), id)
		if err != nil {
			return fmt.Errorf("get event: %w", err)
		}
		if e == nil {
			return fmt.Errorf("event %d not found", id)
		}
		writeLLMEvent(cmd.OutOrStdout(), *e, raw)
		return nil
	},
}

var llmStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show token usage per language and estimated cost per model",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := openStore(cmd)
		if err != nil {
			return err
		}
		defer s.Close()

		events, err := s.EventRepo().QueryLLMEvents(cmd.Context(), store.QueryOpts{})
		if err != nil {
			return fmt.Errorf("query events: %w", err)
		}
		writeLLMStats(cmd.OutOrStdout(), events)
		return nil
	},
}

func init() {
	llmListCmd.Flags().IntP("limit", "n", 20, "Number of events to show")
	llmListCmd.Flags().StringP("lang", "l", "", "Only requests for this language tag")
	llmViewCmd.Flags().Bool("raw", false, "Print the stored request and response bodies")

	llmCmd.AddCommand(llmListCmd)
	llmCmd.AddCommand(llmViewCmd)
	llmCmd.AddCommand(llmStatsCmd)
}

// eventLanguage is the language a request generated phrases for, or "-".
func eventLanguage(e store.LLMRequestEvent) string {
	kind, lang := llm.SplitPurpose(e.Purpose)
	if kind != llm.PurposePhrasebook || lang == "" {
		return "-"
	}
	return lang
}

func writeLLMList(w io.Writer, events []store.LLMRequestEvent, lang string) {
	var shown []store.LLMRequestEvent
	for _, e := range events {
		if lang == "" || strings.EqualFold(eventLanguage(e), lang) {
			shown = append(shown, e)
		}
	}
	if len(shown) == 0 {
		fmt.Fprintln(w, "No LLM requests recorded.")
		return
	}

	fmt.Fprintf(w, "%-5s  %-16s  %-8s  %-10s  %-24s  %11s  %6s  %s\n",
		"ID", "Time", "Lang", "Provider", "Model", "Tokens", "Ms", "OK")
	fmt.Fprintln(w, strings.Repeat("─", 96))
	for _, e := range shown {
		ok := "✓"
		if !e.Success {
			ok = "✗"
		}
		fmt.Fprintf(w, "%-5d  %-16s  %-8s  %-10s  %-24s  %11s  %6d  %s\n",
			e.ID,
			e.Timestamp.Local().Format("2006-01-02 15:04"),
			eventLanguage(e),
			e.Provider,
			truncate(e.Model, 24),
			fmt.Sprintf("%d/%d", e.InputTokens, e.OutputTokens),
			e.LatencyMs,
			ok,
		)
	}
}

// writeLLMEvent prints one event. A successful phrasebook request is shown
// as the phrases it produced, with the operands and score filled in; raw
// prints the journaled bodies instead.
func writeLLMEvent(w io.Writer, e store.LLMRequestEvent, raw bool) {
	fmt.Fprintf(w, "ID:        %d\n", e.ID)
	fmt.Fprintf(w, "Time:      %s\n", e.Timestamp.Local().Format("2006-01-02 15:04:05"))
	if lang := eventLanguage(e); lang != "-" {
		label := lang
		if tag, err := language.Parse(lang); err == nil {
			label = fmt.Sprintf("%s (%s)", lang, phrasebook.Label(tag))
		}
		fmt.Fprintf(w, "Language:  %s\n", label)
	} else {
		fmt.Fprintf(w, "Purpose:   %s\n", e.Purpose)
	}
	fmt.Fprintf(w, "Model:     %s via %s\n", e.Model, e.Provider)
	fmt.Fprintf(w, "Tokens:    %d in / %d out, %dms\n", e.InputTokens, e.OutputTokens, e.LatencyMs)
	if !e.Success {
		fmt.Fprintf(w, "Error:     %s\n", e.ErrorMessage)
	}
	fmt.Fprintln(w)

	var set phrasebook.PhraseSet
	if !raw && e.Success && eventLanguage(e) != "-" &&
		json.Unmarshal([]byte(e.ResponseBody), &set) == nil && set.Validate() == nil {
		fmt.Fprintf(w, "Question:  %s\n", fmt.Sprintf(set.Question, 7, 8))
		fmt.Fprintf(w, "Win:       %s\n", fmt.Sprintf(set.Win, 1000))
		fmt.Fprintln(w, "Compliments:")
		for _, c := range set.Standard {
			fmt.Fprintf(w, "  %s\n", c)
		}
		fmt.Fprintln(w, "Near the win:")
		for _, c := range set.NearWin {
			fmt.Fprintf(w, "  %s\n", c)
		}
		return
	}

	sep := strings.Repeat("─", 60)
	for _, part := range []struct{ title, body string }{
		{"REQUEST", e.RequestBody},
		{"RESPONSE", e.ResponseBody},
	} {
		fmt.Fprintln(w, sep)
		fmt.Fprintln(w, part.title)
		fmt.Fprintln(w, sep)
		if part.body == "" {
			fmt.Fprintln(w, "(not captured)")
			continue
		}
		fmt.Fprintln(w, part.body)
	}
}

func writeLLMStats(w io.Writer, events []store.LLMRequestEvent) {
	if len(events) == 0 {
		fmt.Fprintln(w, "No LLM usage recorded yet.")
		return
	}

	rule := strings.Repeat("─", 64)
	fmt.Fprintln(w, "Usage by language")
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-10s  %6s  %10s  %10s  %8s\n", "Lang", "Calls", "Input", "Output", "Avg Ms")
	fmt.Fprintln(w, rule)
	var calls, in, out int
	for _, u := range usageBy(events, eventLanguage) {
		fmt.Fprintf(w, "%-10s  %6d  %10d  %10d  %8d\n", u.Key, u.Calls, u.InputTokens, u.OutputTokens, u.AvgLatencyMs)
		calls += u.Calls
		in += u.InputTokens
		out += u.OutputTokens
	}
	fmt.Fprintln(w, rule)
	fmt.Fprintf(w, "%-10s  %6d  %10d  %10d\n", "TOTAL", calls, in, out)

	fmt.Fprintln(w)
	fmt.Fprintln(w, "Estimated cost (USD)")
	fmt.Fprintln(w, rule)
	var (
		total   float64
		unknown []string
	)
	for _, u := range usageBy(events, func(e store.LLMRequestEvent) string { return e.Model }) {
		cost := llm.LookupCost(u.Key)
		if cost == nil {
			unknown = append(unknown, u.Key)
			fmt.Fprintf(w, "%-32s  %6d  %10s\n", truncate(u.Key, 32), u.Calls, "?")
			continue
		}
		c := cost.Cost(u.InputTokens, u.OutputTokens)
		total += c
		fmt.Fprintf(w, "%-32s  %6d  %10s\n", truncate(u.Key, 32), u.Calls, formatCost(c))
	}
	fmt.Fprintln(w, rule)
	label := "TOTAL"
	if len(unknown) > 0 {
		label = "TOTAL (partial)"
	}
	fmt.Fprintf(w, "%-32s  %6s  %10s\n", label, "", formatCost(total))
	if len(unknown) > 0 {
		fmt.Fprintf(w, "\nPricing unavailable for: %s\n", strings.Join(unknown, ", "))
	}
}

// usage aggregates LLM calls sharing a key.
type usage struct {
	Key          string
	Calls        int
	InputTokens  int
	OutputTokens int
	AvgLatencyMs int64
}

// usageBy groups events by key, ordered by key.
func usageBy(events []store.LLMRequestEvent, key func(store.LLMRequestEvent) string) []usage {
	byKey := make(map[string]*usage)
	latency := make(map[string]int64)
	for _, e := range events {
		k := key(e)
		u, ok := byKey[k]
		if !ok {
			u = &usage{Key: k}
			byKey[k] = u
		}
		u.Calls++
		u.InputTokens += e.InputTokens
		u.OutputTokens += e.OutputTokens
		latency[k] += e.LatencyMs
	}

	out := make([]usage, 0, len(byKey))
	for k, u := range byKey {
		u.AvgLatencyMs = latency[k] / int64(u.Calls)
		out = append(out, *u)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max]
}

func formatCost(usd float64) string {
	if usd < 0.01 {
		return fmt.Sprintf("$%.4f", usd)
	}
	return fmt.Sprintf("$%.2f", usd)
}
