package client

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/fitpass-app/fitpass/internal/shared/version"
)

// NewCommands returns the end-user commands of the root command.
func NewCommands(g *Globals) []*cobra.Command {
	return []*cobra.Command{
		newLoginCommand(g),
		newSignupCommand(g),
		newLogoutCommand(g),
		newWhoamiCommand(g),
		newCheckinCommand(g),
		newAcademiesCommand(g),
		newCompetitionsCommand(g),
		newReviewsCommand(g),
		newProfileCommand(g),
		newOnboardingCommand(g),
		newReferralCommand(g),
		newFamilyCommand(g),
		newVersionCommand(),
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the client version",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.ClientInfo())
		},
	}
}
