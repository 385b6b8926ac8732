package collection

// Names of the persisted slices inside a Namespace.
const (
	NameTasks    = "tasks"
	NameFiles    = "files"
	NameMessages = "messages"
	NameNotes    = "quick-notes"
	NameSettings = "settings"
	NameProfile  = "profile"
)

// DefaultPrefix is the key prefix shared by every persisted slice.
const DefaultPrefix = "deskhub-"

// Namespace is the backend key prefix all dashboard keys share.
type Namespace string

// Key returns the backend key for a named slice.
func (n Namespace) Key(name string) string {
	return string(n) + name
}

// Prefix returns the raw prefix, for prefix scans.
func (n Namespace) Prefix() string {
	return string(n)
}
