package profile

// Theme is the colour scheme.
type Theme string

const (
	Light Theme = "light"
	Dark  Theme = "dark"
)

// FontSize is the text size preference.
type FontSize string

const (
	Small  FontSize = "small"
	Medium FontSize = "medium"
	Large  FontSize = "large"
)

// Settings are the application preferences.
type Settings struct {
	Theme         Theme    `json:"theme" validate:"oneof=light dark"`
	FontSize      FontSize `json:"fontSize" validate:"oneof=small medium large"`
	Notifications bool     `json:"notifications"`
}

// Profile identifies the single local user.
type Profile struct {
	Name  string `json:"name" validate:"notblank"`
	Email string `json:"email" validate:"omitempty,email"`
	Role  string `json:"role"`
}

// DefaultSettings are used until settings are first saved.
func DefaultSettings() Settings {
	return Settings{Theme: Dark, FontSize: Medium, Notifications: true}
}

// DefaultProfile is used until the profile is first saved.
func DefaultProfile() Profile {
	return Profile{Name: "Deskhub User", Email: "user@example.com", Role: "Admin"}
}
