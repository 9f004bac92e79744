package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matthieukhl/shopctl/internal/api"
	"github.com/matthieukhl/shopctl/internal/notify"
)

var notificationUnreadOnly bool

var notificationsCmd = &cobra.Command{
	Use:   "notifications",
	Short: "View and acknowledge notifications",
}

var notificationsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List notifications",
	RunE:  runNotificationsList,
}

var notificationsReadCmd = &cobra.Command{
	Use:   "read <id>",
	Short: "Mark one notification as read",
	Args:  cobra.ExactArgs(1),
	RunE:  runNotificationsRead,
}

var notificationsReadAllCmd = &cobra.Command{
	Use:   "read-all",
	Short: "Mark every notification as read",
	RunE:  runNotificationsReadAll,
}

var notificationsUnreadCmd = &cobra.Command{
	Use:   "unread",
	Short: "Show the unread count",
	RunE:  runNotificationsUnread,
}

var activityCmd = &cobra.Command{
	Use:   "activity",
	Short: "Show recent admin activity",
	RunE:  runActivity,
}

func init() {
	rootCmd.AddCommand(notificationsCmd, activityCmd)
	notificationsCmd.AddCommand(notificationsListCmd, notificationsReadCmd,
		notificationsReadAllCmd, notificationsUnreadCmd)

	notificationsListCmd.Flags().BoolVar(&notificationUnreadOnly, "unread", false, "Only show unread notifications")
}

func runNotificationsList(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	notifications, total, err := client.Notifications.List(cmd.Context(), api.ListOptions{})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(notifications))
	for _, n := range notifications {
		if notificationUnreadOnly && n.IsRead {
			continue
		}
		marker := " "
		if !n.IsRead {
			marker = "●"
		}
		rows = append(rows, []string{
			marker, n.ID, n.Title, n.Message, n.CreatedAt.Format("2006-01-02 15:04"),
		})
	}
	printTable([]string{"", "ID", "TITLE", "MESSAGE", "WHEN"}, rows)
	fmt.Printf("\n%d notification(s) total\n", total)
	return nil
}

func runNotificationsRead(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	counter := notify.NewCounter(client.Notifications.UnreadCount)
	counter.Refresh(cmd.Context())

	if err := client.Notifications.MarkRead(cmd.Context(), args[0]); err != nil {
		return err
	}
	counter.Decrement(1)

	fmt.Printf("✅ Marked as read (%d unread left)\n", counter.Value())
	return nil
}

func runNotificationsReadAll(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	if err := client.Notifications.MarkAllRead(cmd.Context()); err != nil {
		return err
	}

	counter := notify.NewCounter(client.Notifications.UnreadCount)
	counter.Reset()

	fmt.Println("✅ All notifications marked as read")
	return nil
}

func runNotificationsUnread(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	count, err := client.Notifications.UnreadCount(cmd.Context())
	if err != nil {
		return err
	}

	fmt.Printf("🔔 %d unread notification(s)\n", count)
	return nil
}

func runActivity(cmd *cobra.Command, args []string) error {
	client, err := newClient()
	if err != nil {
		return err
	}

	logs, _, err := client.Notifications.ActivityLogs(cmd.Context(), api.ListOptions{})
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(logs))
	for _, l := range logs {
		rows = append(rows, []string{
			l.CreatedAt.Format("2006-01-02 15:04"), l.Actor, l.Action, l.Target,
		})
	}
	printTable([]string{"WHEN", "ACTOR", "ACTION", "TARGET"}, rows)
	return nil
}
