package main

import "github.com/spf13/cobra"

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "tenderdesk",
		Short:         "Command-line client for the procurement portal",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newLoginCmd(),
		newLogoutCmd(),
		newRegisterCmd(),
		newWhoamiCmd(),
		newProfileCmd(),
		newPasswdCmd(),
		newTendersCmd(),
		newOffersCmd(),
		newNotificationsCmd(),
		newDownloadCmd(),
		newHistoryCmd(),
	)

	return root
}
