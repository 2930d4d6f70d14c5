package tracker

// Storage keys. The layout matches what the original web build of this app
// wrote to browser local storage, so an exported collection can be imported
// as-is: one record for the session, one record per account for the books.
const (
	userKey        = "booktracker_user"
	booksKeyPrefix = "booktracker_books_"
)

// Status is the reading state of a book.
type Status string

const (
	StatusToRead    Status = "to-read"
	StatusReading   Status = "reading"
	StatusCompleted Status = "completed"
)

// Valid reports whether s is one of the three known states.
func (s Status) Valid() bool {
	switch s {
	case StatusToRead, StatusReading, StatusCompleted:
		return true
	}
	return false
}

// User is the identity minted at login or registration. There is no password
// field: the auth provider is a mock and never stores a credential.
type User struct {
	ID       string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
}

// Book is one entry in a user's collection. Dates are kept as strings
// (addedAt is an RFC 3339 timestamp, startDate/finishDate are YYYY-MM-DD)
// so the serialized form stays identical to existing stored data; parsing
// happens at input validation time only.
type Book struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Author     string `json:"author"`
	CoverImage string `json:"coverImage"`
	Status     Status `json:"status"`
	Rating     int    `json:"rating,omitempty"`
	StartDate  string `json:"startDate"`
	FinishDate string `json:"finishDate"`
	PagesTotal int    `json:"pagesTotal,omitempty"`
	PagesRead  int    `json:"pagesRead"`
	Notes      string `json:"notes"`
	AddedAt    string `json:"addedAt"`
}

// NotificationKind classifies a transient message.
type NotificationKind string

const (
	KindSuccess NotificationKind = "success"
	KindError   NotificationKind = "error"
	KindInfo    NotificationKind = "info"
)

// Notification is a transient user-facing message emitted by store mutations.
type Notification struct {
	ID      string
	Kind    NotificationKind
	Message string
}
