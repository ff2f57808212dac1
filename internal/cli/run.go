package cli

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"video-summarizer/internal/app"
	"video-summarizer/internal/models"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Interactive session",
		Long:  "Start an interactive session: paste YouTube URLs, read the reports, browse history.",
		Run:   runInteractive,
	}

	RootCmd.AddCommand(cmd)
}

func runInteractive(cmd *cobra.Command, args []string) {
	appCtx, err := buildApp(cmd)
	if err != nil {
		exitErr("startup", err)
	}
	orch := appCtx.orch

	out := os.Stdout
	scanner := bufio.NewScanner(os.Stdin)

	// Identity gate: nothing else works without a display name
	for orch.State() == app.StateCollectingIdentity {
		fmt.Fprint(out, "Choose a display name (2-20 characters): ")
		if !scanner.Scan() {
			return
		}
		if err := orch.SetIdentity(strings.TrimSpace(scanner.Text())); err != nil {
			fmt.Fprintln(out, orch.LastNotice())
		}
	}

	fmt.Fprintf(out, "Logged in as %s. Paste a YouTube URL, or type 'history', 'quit'.\n", orch.Identity())

	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			return
		}
		line := strings.TrimSpace(scanner.Text())

		switch {
		case line == "":
			continue
		case line == "quit" || line == "exit":
			return
		case line == "history":
			browseHistory(cmd, orch, scanner, out)
		case line == "back":
			orch.Dismiss()
			fmt.Fprintln(out, "Back to input.")
		default:
			submitInteractive(cmd, orch, line, out)
		}
	}
}

func submitInteractive(cmd *cobra.Command, orch *app.Orchestrator, url string, out *os.File) {
	fmt.Fprintln(out, "Summarizing, this can take a few minutes...")

	result, err := orch.Submit(commandContext(cmd), url)
	if err != nil {
		printFailure(out, orch, err)
		return
	}

	fmt.Fprintln(out)
	renderReport(out, result)
	fmt.Fprintln(out)
	fmt.Fprintf(out, "Tabs: %s. Type 'back' for a new URL.\n", tabList(result.Tabs))
}

func browseHistory(cmd *cobra.Command, orch *app.Orchestrator, scanner *bufio.Scanner, out *os.File) {
	entries, err := orch.OpenHistory(commandContext(cmd))
	if err != nil {
		printFailure(out, orch, err)
		return
	}

	renderHistoryList(out, entries)
	if len(entries) == 0 {
		orch.Dismiss()
		return
	}

	fmt.Fprint(out, "Entry number (or blank to go back): ")
	if !scanner.Scan() {
		return
	}
	choice := strings.TrimSpace(scanner.Text())
	if choice == "" {
		orch.Dismiss()
		return
	}

	index, convErr := strconv.Atoi(choice)
	if convErr != nil || index < 1 || index > len(entries) {
		fmt.Fprintln(out, "No such entry.")
		orch.Dismiss()
		return
	}

	result := orch.SelectHistoryEntry(entries[index-1])
	fmt.Fprintln(out)
	renderSummary(out, result.Summary)
	if result.Summary.DetailedBody != "" {
		fmt.Fprintln(out)
		fmt.Fprintln(out, result.Summary.DetailedBody)
	}
}

// printFailure shows the user-facing notice, falling back to the error
func printFailure(out *os.File, orch *app.Orchestrator, err error) {
	if notice := orch.LastNotice(); notice != "" {
		fmt.Fprintln(out, notice)
		return
	}
	fmt.Fprintf(out, "error: %v\n", err)
}

func tabList(tabs []models.Tab) string {
	names := make([]string, 0, len(tabs))
	for _, tab := range tabs {
		names = append(names, tabTitles[tab])
	}
	return strings.Join(names, ", ")
}
