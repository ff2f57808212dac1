package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "login <nickname>",
		Short: "Set the display name",
		Long:  "Set the display name used for personalized history. Names are 2-20 characters.",
		Args:  cobra.ExactArgs(1),
		Run:   runLogin,
	}

	cmd.Flags().Bool("check", false, "Also ask the backend whether the name is free")

	RootCmd.AddCommand(cmd)
}

func runLogin(cmd *cobra.Command, args []string) {
	appCtx, err := buildApp(cmd)
	if err != nil {
		exitErr("startup", err)
	}

	nickname := args[0]
	if err := appCtx.orch.SetIdentity(nickname); err != nil {
		exitNotice(appCtx.orch, err)
	}

	if check, _ := cmd.Flags().GetBool("check"); check {
		available, message := appCtx.orch.CheckNickname(commandContext(cmd), nickname)
		if !available {
			fmt.Fprintf(os.Stderr, "warning: %s\n", message)
		}
	}

	fmt.Printf("Logged in as %s\n", appCtx.orch.Identity())
}
