package tracker

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"go.uber.org/zap"
)

func testCollection(t *testing.T) (*CollectionStore, *Storage, *Notifier, *User) {
	t.Helper()
	storage := tempStore(t)
	notifier := NewNotifier(time.Minute)
	user := &User{ID: "user-1", Username: "ada", Email: "ada@example.com"}
	c := NewCollectionStore(storage, notifier, zap.NewNop())
	c.SetUser(user)
	return c, storage, notifier, user
}

func TestAddAppliesDefaults(t *testing.T) {
	c, _, notifier, _ := testCollection(t)

	book, err := c.Add(BookInput{Title: "Dune", Author: "Herbert"})
	if err != nil {
		t.Fatalf("add: %v", err)
	}

	list := c.List()
	if len(list) != 1 {
		t.Fatalf("want 1 book, got %d", len(list))
	}
	got := list[0]
	if got.Title != "Dune" || got.Author != "Herbert" {
		t.Fatalf("wrong fields: %+v", got)
	}
	if got.Status != StatusToRead {
		t.Fatalf("status should default to to-read, got %s", got.Status)
	}
	if got.PagesRead != 0 {
		t.Fatalf("pagesRead should default to 0")
	}
	if got.ID == "" || got.AddedAt == "" {
		t.Fatalf("id and addedAt must be assigned")
	}
	if got.ID != book.ID {
		t.Fatalf("returned book must be the stored one")
	}

	active := notifier.Active()
	if len(active) != 1 || active[0].Kind != KindSuccess || !strings.Contains(active[0].Message, "Dune") {
		t.Fatalf("expected success notification naming the title, got %v", active)
	}
}

func TestAddAssignsDistinctIDs(t *testing.T) {
	c, _, _, _ := testCollection(t)

	seen := make(map[string]bool)
	for i := 0; i < 20; i++ {
		book, err := c.Add(BookInput{Title: "B", Author: "A"})
		if err != nil {
			t.Fatalf("add: %v", err)
		}
		if seen[book.ID] {
			t.Fatalf("duplicate id %s", book.ID)
		}
		seen[book.ID] = true
	}
}

func TestListKeepsInsertionOrder(t *testing.T) {
	c, _, _, _ := testCollection(t)

	titles := []string{"First", "Second", "Third"}
	for _, title := range titles {
		if _, err := c.Add(BookInput{Title: title, Author: "A"}); err != nil {
			t.Fatalf("add %s: %v", title, err)
		}
	}
	list := c.List()
	for i, title := range titles {
		if list[i].Title != title {
			t.Fatalf("position %d: want %s, got %s", i, title, list[i].Title)
		}
	}
}

func TestCurrentReadsIsPureProjection(t *testing.T) {
	c, _, _, _ := testCollection(t)

	c.Add(BookInput{Title: "Reading 1", Author: "A", Status: StatusReading})
	c.Add(BookInput{Title: "Queued", Author: "A", Status: StatusToRead})
	c.Add(BookInput{Title: "Reading 2", Author: "A", Status: StatusReading})
	c.Add(BookInput{Title: "Done", Author: "A", Status: StatusCompleted})

	reads := c.CurrentReads()
	if len(reads) != 2 {
		t.Fatalf("want 2 current reads, got %d", len(reads))
	}
	if reads[0].Title != "Reading 1" || reads[1].Title != "Reading 2" {
		t.Fatalf("current reads must preserve list order: %v", reads)
	}
	for _, b := range reads {
		if b.Status != StatusReading {
			t.Fatalf("non-reading book leaked into currentReads: %+v", b)
		}
	}
}

func TestUpdateMergesPartialFields(t *testing.T) {
	c, _, _, _ := testCollection(t)

	book, _ := c.Add(BookInput{
		Title: "Dune", Author: "Herbert",
		Status: StatusReading, PagesTotal: 412, PagesRead: 100, Notes: "slow start",
	})

	completed := StatusCompleted
	if err := c.Update(book.ID, BookPatch{Status: &completed}); err != nil {
		t.Fatalf("update: %v", err)
	}

	got, ok := c.Get(book.ID)
	if !ok {
		t.Fatalf("book disappeared")
	}
	if got.Status != StatusCompleted {
		t.Fatalf("status not updated")
	}
	// All other fields unchanged.
	if got.Title != "Dune" || got.Author != "Herbert" || got.PagesTotal != 412 ||
		got.PagesRead != 100 || got.Notes != "slow start" ||
		got.ID != book.ID || got.AddedAt != book.AddedAt {
		t.Fatalf("update touched unrelated fields: %+v", got)
	}

	if len(c.CurrentReads()) != 0 {
		t.Fatalf("completed book must leave currentReads")
	}
}

func TestUpdateUnknownIDIsNoOp(t *testing.T) {
	c, _, _, _ := testCollection(t)
	c.Add(BookInput{Title: "Dune", Author: "Herbert"})

	before := c.List()
	title := "Other"
	if err := c.Update("no-such-id", BookPatch{Title: &title}); err != nil {
		t.Fatalf("update unknown id must not error: %v", err)
	}
	if !reflect.DeepEqual(before, c.List()) {
		t.Fatalf("update of unknown id changed the list")
	}
}

func TestRemove(t *testing.T) {
	c, _, notifier, _ := testCollection(t)

	book, _ := c.Add(BookInput{Title: "Dune", Author: "Herbert"})
	keep, _ := c.Add(BookInput{Title: "1984", Author: "Orwell"})
	notifier.Drain()

	if err := c.Remove(book.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	list := c.List()
	if len(list) != 1 || list[0].ID != keep.ID {
		t.Fatalf("wrong book removed: %v", list)
	}

	active := notifier.Active()
	if len(active) != 1 || active[0].Kind != KindInfo || !strings.Contains(active[0].Message, "Dune") {
		t.Fatalf("expected info notification naming the removed title, got %v", active)
	}
}

func TestRemoveUnknownIDLeavesListAndUsesFallbackLabel(t *testing.T) {
	c, _, notifier, _ := testCollection(t)
	c.Add(BookInput{Title: "Dune", Author: "Herbert"})
	notifier.Drain()

	before := c.List()
	if err := c.Remove("no-such-id"); err != nil {
		t.Fatalf("remove unknown id must not error: %v", err)
	}
	if !reflect.DeepEqual(before, c.List()) {
		t.Fatalf("remove of unknown id changed the list")
	}

	active := notifier.Active()
	if len(active) != 1 || !strings.HasPrefix(active[0].Message, "Book has been removed") {
		t.Fatalf("expected generic fallback label, got %v", active)
	}
}

func TestPersistenceRoundTrip(t *testing.T) {
	c, storage, notifier, user := testCollection(t)

	dune, _ := c.Add(BookInput{Title: "Dune", Author: "Herbert", Status: StatusReading, PagesTotal: 412, PagesRead: 50})
	c.Add(BookInput{Title: "1984", Author: "Orwell", Rating: 5, Status: StatusCompleted})
	doomed, _ := c.Add(BookInput{Title: "Mistake", Author: "Nobody"})

	reading := StatusReading
	pages := 200
	c.Update(dune.ID, BookPatch{Status: &reading, PagesRead: &pages})
	c.Remove(doomed.ID)

	before := c.List()

	// Simulate a process restart: a fresh store over the same storage.
	reloaded := NewCollectionStore(storage, notifier, zap.NewNop())
	reloaded.SetUser(user)
	after := reloaded.List()

	if !reflect.DeepEqual(before, after) {
		t.Fatalf("round trip mismatch:\nbefore: %+v\nafter:  %+v", before, after)
	}
}

func TestSetUserIsolatesCollections(t *testing.T) {
	c, _, _, _ := testCollection(t)
	c.Add(BookInput{Title: "Ada's book", Author: "A"})

	grace := &User{ID: "user-2", Username: "grace", Email: "grace@example.com"}
	c.SetUser(grace)
	if len(c.List()) != 0 {
		t.Fatalf("switching user must not leak books across accounts")
	}
	c.Add(BookInput{Title: "Grace's book", Author: "G"})

	c.SetUser(&User{ID: "user-1"})
	list := c.List()
	if len(list) != 1 || list[0].Title != "Ada's book" {
		t.Fatalf("first user's collection lost: %v", list)
	}
}

func TestSetUserNilClearsList(t *testing.T) {
	c, _, _, _ := testCollection(t)
	c.Add(BookInput{Title: "Dune", Author: "Herbert"})

	c.SetUser(nil)
	if len(c.List()) != 0 {
		t.Fatalf("nil user must clear the in-memory list")
	}
}

func TestMalformedCollectionRecordYieldsEmptyList(t *testing.T) {
	c, storage, _, user := testCollection(t)
	if err := storage.Set(booksKeyPrefix+user.ID, "not json at all"); err != nil {
		t.Fatalf("seed corrupt record: %v", err)
	}

	c.SetUser(user)
	if len(c.List()) != 0 {
		t.Fatalf("corrupt record must degrade to empty list")
	}
}

func TestSearchMatchesTitleAndAuthor(t *testing.T) {
	c, _, _, _ := testCollection(t)
	c.Add(BookInput{Title: "Dune", Author: "Frank Herbert"})
	c.Add(BookInput{Title: "Dune Messiah", Author: "Frank Herbert"})
	c.Add(BookInput{Title: "1984", Author: "George Orwell"})

	if got := c.Search("dune"); len(got) != 2 {
		t.Fatalf("title search: want 2, got %d", len(got))
	}
	if got := c.Search("ORWELL"); len(got) != 1 || got[0].Title != "1984" {
		t.Fatalf("author search failed: %v", got)
	}
	if got := c.Search("tolkien"); len(got) != 0 {
		t.Fatalf("no-match search should be empty, got %v", got)
	}
	if got := c.Search("  "); len(got) != 3 {
		t.Fatalf("blank query matches everything, got %d", len(got))
	}
}

func TestStatusCounts(t *testing.T) {
	c, _, _, _ := testCollection(t)
	c.Add(BookInput{Title: "A", Author: "A", Status: StatusReading})
	c.Add(BookInput{Title: "B", Author: "B", Status: StatusReading})
	c.Add(BookInput{Title: "C", Author: "C", Status: StatusCompleted})

	counts := c.StatusCounts()
	if counts[StatusReading] != 2 || counts[StatusCompleted] != 1 || counts[StatusToRead] != 0 {
		t.Fatalf("wrong counts: %v", counts)
	}
}

// TestLogoutLoginRestoresCollection wires session and collection stores
// together the way the CLI does and checks that a user's books survive a
// logout/login cycle.
func TestLogoutLoginRestoresCollection(t *testing.T) {
	storage := tempStore(t)
	notifier := NewNotifier(time.Minute)
	session := NewSessionStore(storage, notifier, zap.NewNop(), 0)
	collection := NewCollectionStore(storage, notifier, zap.NewNop())

	user, err := session.Login("ada@example.com", "pw")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	collection.SetUser(user)
	collection.Add(BookInput{Title: "Dune", Author: "Herbert", Status: StatusReading})
	collection.Add(BookInput{Title: "1984", Author: "Orwell"})
	before := collection.List()

	if err := session.Logout(); err != nil {
		t.Fatalf("logout: %v", err)
	}
	collection.SetUser(nil)
	if len(collection.List()) != 0 {
		t.Fatalf("collection should be empty while anonymous")
	}

	again, err := session.Login("ada@example.com", "different-password")
	if err != nil {
		t.Fatalf("second login: %v", err)
	}
	collection.SetUser(again)

	if !reflect.DeepEqual(before, collection.List()) {
		t.Fatalf("collection not restored after re-login:\nbefore: %+v\nafter:  %+v", before, collection.List())
	}
}
