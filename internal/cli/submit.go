package cli

import (
	"fmt"
	"os"

	"video-summarizer/internal/app"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "submit <url>",
		Short: "Summarize a YouTube video",
		Long:  "Submit a YouTube URL for summarization and print the full report. Requires a display name (see login).",
		Args:  cobra.ExactArgs(1),
		Run:   runSubmit,
	}

	RootCmd.AddCommand(cmd)
}

func runSubmit(cmd *cobra.Command, args []string) {
	// Reject obviously bad input before dialing the backend
	if err := app.ValidateURL(args[0]); err != nil {
		exitErr("submit", err)
	}

	appCtx, err := buildApp(cmd)
	if err != nil {
		exitErr("startup", err)
	}

	if appCtx.orch.Identity() == "" {
		fmt.Fprintln(os.Stderr, "No display name set. Run: summarizer login <nickname>")
		os.Exit(1)
	}

	result, err := appCtx.orch.Submit(commandContext(cmd), args[0])
	if err != nil {
		exitNotice(appCtx.orch, err)
	}

	renderReport(os.Stdout, result)
}
