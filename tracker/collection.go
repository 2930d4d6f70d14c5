package tracker

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// BookInput carries the caller-supplied fields for a new book. Zero values
// mean "not provided"; an empty Status defaults to to-read at add time.
// Callers validate with Validate before handing the input to the store.
type BookInput struct {
	Title      string
	Author     string
	CoverImage string
	Status     Status
	Rating     int
	StartDate  string
	FinishDate string
	PagesTotal int
	PagesRead  int
	Notes      string
}

// BookPatch updates a subset of a book's fields. Nil fields are left alone.
// ID and AddedAt are never reassigned and so have no counterpart here.
type BookPatch struct {
	Title      *string
	Author     *string
	CoverImage *string
	Status     *Status
	Rating     *int
	StartDate  *string
	FinishDate *string
	PagesTotal *int
	PagesRead  *int
	Notes      *string
}

// CollectionStore owns the ordered list of books belonging to the active
// user. It is the sole writer of the list; readers only observe snapshots.
// Every successful mutation persists the full list under the user-scoped key
// and emits a notification.
type CollectionStore struct {
	storage  *Storage
	notifier *Notifier
	logger   *zap.Logger

	userID string
	books  []Book
}

// NewCollectionStore creates an empty store. Call SetUser to bind it to an
// account and load that account's books.
func NewCollectionStore(storage *Storage, notifier *Notifier, logger *zap.Logger) *CollectionStore {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CollectionStore{storage: storage, notifier: notifier, logger: logger}
}

// SetUser switches the active user and replaces the in-memory list wholesale
// with whatever is stored under that user's key. A nil user clears the list.
// Absent or malformed stored data yields an empty list, never an error.
func (c *CollectionStore) SetUser(u *User) {
	c.books = nil
	c.userID = ""
	if u == nil {
		return
	}
	c.userID = u.ID

	raw, ok, err := c.storage.Get(booksKeyPrefix + u.ID)
	if err != nil {
		c.logger.Warn("collection load failed, starting empty",
			zap.String("user_id", u.ID), zap.Error(err))
		return
	}
	if !ok {
		return
	}
	var books []Book
	if err := json.Unmarshal([]byte(raw), &books); err != nil {
		c.logger.Warn("discarding malformed collection record",
			zap.String("user_id", u.ID), zap.Error(err))
		return
	}
	c.books = books
	c.logger.Debug("collection loaded",
		zap.String("user_id", u.ID), zap.Int("books", len(books)))
}

// List returns the collection in insertion order.
func (c *CollectionStore) List() []Book {
	out := make([]Book, len(c.books))
	copy(out, c.books)
	return out
}

// CurrentReads returns the books currently being read, in list order.
func (c *CollectionStore) CurrentReads() []Book {
	return c.FilterByStatus(StatusReading)
}

// FilterByStatus returns the subsequence of List with the given status.
func (c *CollectionStore) FilterByStatus(status Status) []Book {
	var out []Book
	for _, b := range c.books {
		if b.Status == status {
			out = append(out, b)
		}
	}
	return out
}

// Search matches query case-insensitively against title and author. An empty
// query matches everything.
func (c *CollectionStore) Search(query string) []Book {
	q := strings.ToLower(strings.TrimSpace(query))
	var out []Book
	for _, b := range c.books {
		if q == "" ||
			strings.Contains(strings.ToLower(b.Title), q) ||
			strings.Contains(strings.ToLower(b.Author), q) {
			out = append(out, b)
		}
	}
	return out
}

// StatusCounts tallies the collection by status.
func (c *CollectionStore) StatusCounts() map[Status]int {
	counts := make(map[Status]int, 3)
	for _, b := range c.books {
		counts[b.Status]++
	}
	return counts
}

// Get returns the book with the given id.
func (c *CollectionStore) Get(id string) (Book, bool) {
	if i := c.index(id); i >= 0 {
		return c.books[i], true
	}
	return Book{}, false
}

// Add constructs a new book from input, assigns a fresh id and addedAt,
// appends it to the list, persists, and emits a success notification. The
// book is visible in List as soon as Add returns.
func (c *CollectionStore) Add(input BookInput) (Book, error) {
	status := input.Status
	if status == "" {
		status = StatusToRead
	}
	book := Book{
		ID:         uuid.NewString(),
		Title:      input.Title,
		Author:     input.Author,
		CoverImage: input.CoverImage,
		Status:     status,
		Rating:     input.Rating,
		StartDate:  input.StartDate,
		FinishDate: input.FinishDate,
		PagesTotal: input.PagesTotal,
		PagesRead:  input.PagesRead,
		Notes:      input.Notes,
		AddedAt:    time.Now().UTC().Format(time.RFC3339),
	}

	c.books = append(c.books, book)
	if err := c.persist(); err != nil {
		return Book{}, err
	}
	c.logger.Debug("book added",
		zap.String("user_id", c.userID), zap.String("book_id", book.ID))
	c.notifier.Publish(KindSuccess,
		fmt.Sprintf("%s has been added to your collection", book.Title))
	return book, nil
}

// Update merges the non-nil patch fields over the book with the given id,
// persists, and emits a success notification. An unknown id leaves the state
// untouched and reports no error.
func (c *CollectionStore) Update(id string, patch BookPatch) error {
	i := c.index(id)
	if i < 0 {
		return nil
	}

	b := &c.books[i]
	if patch.Title != nil {
		b.Title = *patch.Title
	}
	if patch.Author != nil {
		b.Author = *patch.Author
	}
	if patch.CoverImage != nil {
		b.CoverImage = *patch.CoverImage
	}
	if patch.Status != nil {
		b.Status = *patch.Status
	}
	if patch.Rating != nil {
		b.Rating = *patch.Rating
	}
	if patch.StartDate != nil {
		b.StartDate = *patch.StartDate
	}
	if patch.FinishDate != nil {
		b.FinishDate = *patch.FinishDate
	}
	if patch.PagesTotal != nil {
		b.PagesTotal = *patch.PagesTotal
	}
	if patch.PagesRead != nil {
		b.PagesRead = *patch.PagesRead
	}
	if patch.Notes != nil {
		b.Notes = *patch.Notes
	}

	if err := c.persist(); err != nil {
		return err
	}
	c.logger.Debug("book updated",
		zap.String("user_id", c.userID), zap.String("book_id", id))
	c.notifier.Publish(KindSuccess, "Book updated successfully")
	return nil
}

// Remove deletes the book with the given id. A missing id is silently a
// no-op for the list, but the resulting list is persisted either way and an
// info notification goes out, falling back to a generic label when the title
// can no longer be resolved.
func (c *CollectionStore) Remove(id string) error {
	title := "Book"
	if i := c.index(id); i >= 0 {
		title = c.books[i].Title
		c.books = append(c.books[:i], c.books[i+1:]...)
	}

	if err := c.persist(); err != nil {
		return err
	}
	c.notifier.Publish(KindInfo,
		fmt.Sprintf("%s has been removed from your collection", title))
	return nil
}

func (c *CollectionStore) index(id string) int {
	for i, b := range c.books {
		if b.ID == id {
			return i
		}
	}
	return -1
}

// persist writes the entire current list under the user-scoped key. With no
// active user there is nothing durable to write.
func (c *CollectionStore) persist() error {
	if c.userID == "" {
		return nil
	}
	books := c.books
	if books == nil {
		books = []Book{}
	}
	raw, err := json.Marshal(books)
	if err != nil {
		return fmt.Errorf("encode collection: %w", err)
	}
	if err := c.storage.Set(booksKeyPrefix+c.userID, string(raw)); err != nil {
		return fmt.Errorf("persist collection: %w", err)
	}
	return nil
}
