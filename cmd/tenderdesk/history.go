package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"tenderdesk/internal/database"
)

func newHistoryCmd() *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent download attempts",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()

			db, err := app.openDB()
			if err != nil {
				return err
			}

			attempts, err := database.NewHistoryRepository(db.Connection()).ListRecent(cmd.Context(), limit)
			if err != nil {
				return err
			}
			if len(attempts) == 0 {
				fmt.Println("No downloads recorded")
				return nil
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "WHEN\tDOCUMENT\tOUTCOME\tFILE")
			for _, a := range attempts {
				fmt.Fprintf(w, "%s\t%s %d\t%s\t%s\n",
					a.CreatedAt.Format("2006-01-02 15:04"), a.DocumentType, a.DocumentID, a.Outcome, a.Filename)
			}
			return w.Flush()
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum rows to show")
	return cmd
}
