package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/dateadmin/internal/events"
	"github.com/alfredjeanlab/dateadmin/internal/model"
	"github.com/alfredjeanlab/dateadmin/internal/ui"
)

var notificationsCmd = &cobra.Command{
	Use:     "notifications",
	Aliases: []string{"notif"},
	Short:   "Read the admin notification feed",
	GroupID: "account",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.RequireAuth(ctx); err != nil {
			return err
		}
		list, err := app.RefreshNotifications(ctx)
		if err != nil {
			return err
		}
		unreadOnly, _ := cmd.Flags().GetBool("unread")
		if unreadOnly {
			kept := list[:0]
			for _, n := range list {
				if !n.IsRead {
					kept = append(kept, n)
				}
			}
			list = kept
		}
		if jsonOutput {
			return printJSON(list)
		}
		printNotifications(list)
		return nil
	},
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark a notification as read",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.RequireAuth(ctx); err != nil {
			return err
		}
		return app.MarkNotificationRead(ctx, args[0])
	},
}

var notificationsReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification as read",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.RequireAuth(ctx); err != nil {
			return err
		}
		return app.MarkAllNotificationsRead(ctx)
	},
}

var notificationsWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print the unread count whenever the feed changes",
	Long: `Print the unread count whenever the feed changes.

With nats_url configured the feed is refreshed on every notification event;
otherwise it is polled at --interval.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		if err := app.RequireAuth(ctx); err != nil {
			return err
		}
		interval, _ := cmd.Flags().GetDuration("interval")

		last := -1
		report := func(list []model.Notification) {
			n := model.CountUnread(list)
			if n == last {
				return
			}
			last = n
			if jsonOutput {
				_ = printJSON(map[string]any{"unread": n, "at": time.Now().UTC()})
				return
			}
			fmt.Printf("%s %d unread\n", ui.RenderMuted(time.Now().Format("15:04:05")), n)
		}

		list, err := app.RefreshNotifications(ctx)
		if err != nil {
			return err
		}
		report(list)

		if cfg.NATSURL != "" {
			sub, err := events.NewNATSSubscriber(cfg.NATSURL)
			if err == nil {
				defer sub.Close()
				err = app.WatchNotifications(ctx, sub, report)
				if ctx.Err() != nil {
					return nil
				}
				return err
			}
			log.WithError(err).Warn("event bus unavailable, falling back to polling")
		}
		return pollNotifications(ctx, interval, report)
	},
}

func pollNotifications(ctx context.Context, interval time.Duration, report func([]model.Notification)) error {
	if interval <= 0 {
		return fmt.Errorf("--interval must be positive, got %s", interval)
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			list, err := app.RefreshNotifications(ctx)
			if err != nil {
				log.WithError(err).Debug("polling notifications")
				continue
			}
			report(list)
		}
	}
}

func printNotifications(list []model.Notification) {
	if len(list) == 0 {
		fmt.Println("No notifications.")
		return
	}
	t := ui.NewTable(os.Stdout, "ID", "When", "Title", "Message", "Read")
	for _, n := range list {
		read := ui.RenderWarning("new")
		if n.IsRead {
			read = ui.RenderMuted("read")
		}
		t.Row(n.ID, formatTime(n.CreatedAt), n.Title, n.Message, read)
	}
	_ = t.Flush()
	fmt.Println(ui.RenderMuted(fmt.Sprintf("%d unread", model.CountUnread(list))))
}

func init() {
	notificationsListCmd.Flags().Bool("unread", false, "only show unread notifications")
	notificationsWatchCmd.Flags().Duration("interval", 30*time.Second, "poll interval when no event bus is configured")
	notificationsCmd.AddCommand(notificationsListCmd, notificationsReadCmd, notificationsReadAllCmd, notificationsWatchCmd)
}
