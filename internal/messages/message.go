package messages

import (
	"fmt"
	"strings"
	"time"
)

// Category classifies where a message came from.
type Category string

const (
	Direct       Category = "Direct"
	Reminder     Category = "Reminder"
	Notification Category = "Notification"
	System       Category = "System"
)

// Categories lists every category in display order.
var Categories = []Category{Direct, Reminder, Notification, System}

// ParseCategory validates s as a Category. Matching is case-insensitive.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if strings.EqualFold(string(c), s) {
			return c, nil
		}
	}
	return "", fmt.Errorf("invalid category %q (want Direct, Reminder, Notification or System)", s)
}

// Status is the single state a message is in.
type Status string

const (
	Unread   Status = "unread"
	Read     Status = "read"
	Starred  Status = "starred"
	Archived Status = "archived"
)

// Statuses lists every status in display order.
var Statuses = []Status{Unread, Read, Starred, Archived}

// ParseStatus validates s as a Status. Matching is case-insensitive.
func ParseStatus(s string) (Status, error) {
	for _, st := range Statuses {
		if strings.EqualFold(string(st), s) {
			return st, nil
		}
	}
	return "", fmt.Errorf("invalid status %q (want unread, read, starred or archived)", s)
}

// Message is one inbox entry.
type Message struct {
	ID        string   `json:"id" validate:"required"`
	Title     string   `json:"title" validate:"notblank"`
	Content   string   `json:"content"`
	Category  Category `json:"category" validate:"oneof=Direct Reminder Notification System"`
	Status    Status   `json:"status" validate:"oneof=unread read starred archived"`
	Timestamp int64    `json:"timestamp"`
	Sender    string   `json:"sender,omitempty"`
}

func (m Message) RecordID() string { return m.ID }

// Time returns the message timestamp.
func (m Message) Time() time.Time { return time.UnixMilli(m.Timestamp) }

// Processed reports whether the message has been read or archived.
func (m Message) Processed() bool { return m.Status == Read || m.Status == Archived }

// Demo returns the inbox shown before any message has been stored.
func Demo(now time.Time) []Message {
	return []Message{
		{
			ID:        "1",
			Title:     "Welcome to Deskhub",
			Content:   "This is your unified inbox for messages, reminders, and notifications. Compose new messages, categorize them, and star the important ones.",
			Category:  System,
			Status:    Unread,
			Timestamp: now.Add(-time.Hour).UnixMilli(),
			Sender:    "System",
		},
		{
			ID:        "2",
			Title:     "Daily Standup Reminder",
			Content:   "Don't forget your daily standup meeting at 10:00 AM",
			Category:  Reminder,
			Status:    Unread,
			Timestamp: now.Add(-2 * time.Hour).UnixMilli(),
			Sender:    "Calendar",
		},
	}
}
