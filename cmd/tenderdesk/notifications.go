package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"tenderdesk/models"
)

func newNotificationsCmd() *cobra.Command {
	notifications := &cobra.Command{
		Use:     "notifications",
		Aliases: []string{"notify"},
		Short:   "Read portal notifications",
	}

	var cached bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List notifications",
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

			svc, err := app.notificationsService()
			if err != nil {
				return err
			}

			var items []models.Notification
			if cached {
				items, err = svc.Cached(cmd.Context())
			} else {
				items, err = svc.Refresh(cmd.Context())
			}
			if err != nil {
				return err
			}

			if len(items) == 0 {
				fmt.Println("No notifications")
				return nil
			}
			printNotifications(items)
			return nil
		},
	}
	list.Flags().BoolVar(&cached, "cached", false, "show the local cache without contacting the backend")

	readAll := &cobra.Command{
		Use:   "read-all",
		Short: "Mark all notifications as read",
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

			svc, err := app.notificationsService()
			if err != nil {
				return err
			}
			if err := svc.MarkAllRead(cmd.Context()); err != nil {
				return err
			}
			fmt.Println("All notifications marked read")
			return nil
		},
	}

	var interval time.Duration
	watch := &cobra.Command{
		Use:   "watch",
		Short: "Poll for notifications until interrupted",
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

			svc, err := app.notificationsService()
			if err != nil {
				return err
			}

			return svc.Watch(cmd.Context(), interval, func(items []models.Notification) {
				unread := 0
				for _, n := range items {
					if !n.Read {
						unread++
					}
				}
				fmt.Printf("%s  %d notifications, %d unread\n",
					time.Now().Format("15:04:05"), len(items), unread)
			})
		},
	}
	watch.Flags().DurationVar(&interval, "interval", time.Minute, "poll interval")

	notifications.AddCommand(list, readAll, watch)
	return notifications
}

func printNotifications(items []models.Notification) {
	for _, n := range items {
		marker := " "
		if !n.Read {
			marker = "*"
		}
		fmt.Printf("%s %s  %s\n", marker, n.CreatedAt.Format("2006-01-02 15:04"), n.Message)
	}
}
