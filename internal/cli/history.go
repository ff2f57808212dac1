package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "history [index]",
		Short: "List stored summaries",
		Long:  "List stored summaries newest first. Pass an index to reopen that entry.",
		Args:  cobra.MaximumNArgs(1),
		Run:   runHistory,
	}

	cmd.Flags().Bool("json", false, "Output the raw entries as JSON")

	RootCmd.AddCommand(cmd)
}

func runHistory(cmd *cobra.Command, args []string) {
	appCtx, err := buildApp(cmd)
	if err != nil {
		exitErr("startup", err)
	}

	if appCtx.orch.Identity() == "" {
		fmt.Fprintln(os.Stderr, "No display name set. Run: summarizer login <nickname>")
		os.Exit(1)
	}

	entries, err := appCtx.orch.OpenHistory(commandContext(cmd))
	if err != nil {
		exitNotice(appCtx.orch, err)
	}

	if len(args) == 1 {
		index, convErr := strconv.Atoi(args[0])
		if convErr != nil || index < 1 || index > len(entries) {
			exitErr("history", fmt.Errorf("no entry at index %q", args[0]))
		}
		result := appCtx.orch.SelectHistoryEntry(entries[index-1])
		renderSummary(os.Stdout, result.Summary)
		if result.Summary.DetailedBody != "" {
			fmt.Fprintln(os.Stdout)
			fmt.Fprintln(os.Stdout, result.Summary.DetailedBody)
		}
		return
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		b, _ := json.MarshalIndent(entries, "", "  ")
		fmt.Println(string(b))
		return
	}

	renderHistoryList(os.Stdout, entries)
}
