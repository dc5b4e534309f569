package domain

import "time"

// DefaultTitle is used when a page has no <title> element.
const DefaultTitle = "No title found"

type Role string

const (
	RoleSystem Role = "system"
	RoleUser   Role = "user"
)

// Page is the extracted content of one fetched URL.
type Page struct {
	URL   string
	Title string
	Text  string
}

type Message struct {
	Role    Role
	Content string
}

type Summary struct {
	ID        string
	UserID    int64
	URL       string
	Title     string
	Text      string
	CreatedAt time.Time
}
