package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

func newTendersCmd() *cobra.Command {
	tenders := &cobra.Command{
		Use:   "tenders",
		Short: "Browse tenders",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List tenders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()

			if err := app.requireSession(cmd.Context()); err != nil {
				return err
			}

			items, err := app.client.ListTenders(cmd.Context(), app.manager.Token())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tREFERENCE\tSTATUS\tDEADLINE\tTITLE")
			for _, t := range items {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
					t.ID, t.Reference, t.Status, t.Deadline.Format("2006-01-02"), t.Title)
			}
			return w.Flush()
		},
	}

	tenders.AddCommand(list)
	return tenders
}

func newOffersCmd() *cobra.Command {
	offers := &cobra.Command{
		Use:   "offers",
		Short: "Browse your offers",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List your offers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			app, err := newApp()
			if err != nil {
				return err
			}
			defer app.close()

			if err := app.requireSession(cmd.Context()); err != nil {
				return err
			}

			items, err := app.client.ListOffers(cmd.Context(), app.manager.Token())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTENDER\tSTATUS\tSUBMITTED")
			for _, o := range items {
				fmt.Fprintf(w, "%d\t%d\t%s\t%s\n",
					o.ID, o.TenderID, o.Status, o.SubmittedAt.Format("2006-01-02 15:04"))
			}
			return w.Flush()
		},
	}

	offers.AddCommand(list)
	return offers
}
