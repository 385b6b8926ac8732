package main

import (
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/kalambet/deskhub/internal/messages"
)

func newMessageCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:     "message",
		Aliases: []string{"msg"},
		Short:   "Read and send inbox messages",
	}
	cmd.AddCommand(
		newMessageComposeCmd(),
		newMessageListCmd(),
		newMessageOpenCmd(),
		newMessageMarkCmd(),
		newMessageDeleteCmd(),
	)
	return cmd
}

func newMessageComposeCmd() *cobra.Command {
	var title string
	cmd := &cobra.Command{
		Use:   "compose <content>",
		Short: "Send a direct message to the inbox",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				p, err := a.profile.Profile()
				if err != nil {
					return err
				}
				m, err := a.inbox.Compose(title, strings.Join(args, " "), p.Name)
				if err != nil {
					return softFail(cmd.ErrOrStderr(), err)
				}
				printSuccess(cmd.ErrOrStderr(), "Sent %q", m.Title)
				fmt.Fprintln(cmd.OutOrStdout(), m.ID)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&title, "title", "t", "", "subject (required)")
	return cmd
}

func newMessageListCmd() *cobra.Command {
	var query, category, status string
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			f := messages.Filter{Query: query}
			if category != "" {
				c, err := messages.ParseCategory(category)
				if err != nil {
					return err
				}
				f.Category = c
			}
			if status != "" {
				s, err := messages.ParseStatus(status)
				if err != nil {
					return err
				}
				f.Status = s
			}
			return withApp(cmd, func(a *app) error {
				list, err := a.inbox.List(f)
				if err != nil {
					return err
				}
				if asJSON {
					if list == nil {
						list = []messages.Message{}
					}
					return printJSON(cmd.OutOrStdout(), list)
				}
				stats, err := a.inbox.Stats()
				if err != nil {
					return err
				}

				w := cmd.OutOrStdout()
				if len(list) == 0 {
					fmt.Fprintln(w, "No messages.")
				}
				for _, m := range list {
					title := m.Title
					if m.Status == messages.Unread {
						title = colorize(colorBold, title)
					}
					fmt.Fprintf(w, "%s  %-8s %-12s %-14s %s\n",
						colorize(colorCyan, shortID(m.ID)),
						m.Status,
						m.Category,
						humanize.Time(m.Time()),
						title,
					)
				}
				fmt.Fprintf(w, "\n%d messages: %d unread, %d starred, %d archived\n",
					stats.Total, stats.Unread, stats.Starred, stats.Archived)
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "search title and content")
	cmd.Flags().StringVarP(&category, "category", "c", "", "Direct, Reminder, Notification or System")
	cmd.Flags().StringVarP(&status, "status", "s", "", "unread, read, starred or archived")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON")
	return cmd
}

func newMessageOpenCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "open <id>",
		Short: "Show a message and mark it read",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				m, err := a.inbox.Open(args[0])
				if err != nil {
					return err
				}
				w := cmd.OutOrStdout()
				fmt.Fprintln(w, colorize(colorBold, m.Title))
				sender := m.Sender
				if sender == "" {
					sender = "Unknown"
				}
				printStatus(w, "From", "%s", sender)
				printStatus(w, "Category", "%s", m.Category)
				printStatus(w, "Received", "%s", m.Time().Format("2006-01-02 15:04"))
				fmt.Fprintf(w, "\n%s\n", m.Content)
				return nil
			})
		},
	}
}

func newMessageMarkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark <id> <status>",
		Short: "Set a message's status",
		Long:  "Set a message's status to unread, read, starred or archived.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := messages.ParseStatus(args[1])
			if err != nil {
				return err
			}
			return withApp(cmd, func(a *app) error {
				m, err := a.inbox.SetStatus(args[0], s)
				if err != nil {
					return softFail(cmd.ErrOrStderr(), err)
				}
				printSuccess(cmd.ErrOrStderr(), "%q marked %s", m.Title, m.Status)
				return nil
			})
		},
	}
}

func newMessageDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a message",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(a *app) error {
				removed, err := a.inbox.Delete(args[0])
				if err != nil {
					return err
				}
				if !removed {
					printWarning(cmd.ErrOrStderr(), "No message %s", args[0])
					return nil
				}
				printSuccess(cmd.ErrOrStderr(), "Deleted message %s", args[0])
				return nil
			})
		},
	}
}
