package main

import (
	"fmt"
	"os"

	"booktracker/tracker"

	"go.uber.org/zap"
)

const dbFile = "booktracker.db"

// seed is the demo collection. Statuses and progress are varied so every
// view (list, reading, search, filters) has something to show.
var seed = []tracker.BookInput{
	{Title: "Dune", Author: "Frank Herbert", Status: tracker.StatusReading, PagesTotal: 412, PagesRead: 180, StartDate: "2026-08-01"},
	{Title: "The Left Hand of Darkness", Author: "Ursula K. Le Guin", Status: tracker.StatusReading, PagesTotal: 304, PagesRead: 40},
	{Title: "1984", Author: "George Orwell", Status: tracker.StatusCompleted, Rating: 5, PagesTotal: 328, PagesRead: 328, FinishDate: "2026-05-20"},
	{Title: "Animal Farm", Author: "George Orwell", Status: tracker.StatusCompleted, Rating: 4, PagesTotal: 112, PagesRead: 112},
	{Title: "The Fellowship of the Ring", Author: "J.R.R. Tolkien", Status: tracker.StatusCompleted, Rating: 5, PagesTotal: 423, PagesRead: 423},
	{Title: "The Two Towers", Author: "J.R.R. Tolkien", Status: tracker.StatusToRead, PagesTotal: 352},
	{Title: "The Return of the King", Author: "J.R.R. Tolkien", Status: tracker.StatusToRead, PagesTotal: 416},
	{Title: "The Art of War", Author: "Sun Tzu", Status: tracker.StatusToRead, Notes: "Recommended by Sam"},
	{Title: "Romeo and Juliet", Author: "William Shakespeare", Status: tracker.StatusToRead},
	{Title: "The Three Musketeers", Author: "Alexandre Dumas", Status: tracker.StatusToRead, CoverImage: "https://covers.example.com/musketeers.jpg"},
}

func main() {
	// Clean up any existing database files
	fmt.Println("Cleaning up existing database files...")
	dbFiles := []string{dbFile, dbFile + "-shm", dbFile + "-wal"}
	for _, file := range dbFiles {
		if err := os.Remove(file); err != nil && !os.IsNotExist(err) {
			fmt.Printf("Warning: Could not remove %s: %v\n", file, err)
		}
	}
	fmt.Println("Database cleanup complete.")

	storage, err := tracker.NewStorage(dbFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating database: %v\n", err)
		os.Exit(1)
	}
	defer storage.Close()

	notifier := tracker.NewNotifier(tracker.DefaultNotificationTTL)
	logger := zap.NewNop()

	// Zero delay: there is no reason to simulate latency while seeding.
	session := tracker.NewSessionStore(storage, notifier, logger, 0)
	user, err := session.Register("demo", "demo@booktracker.local", "demo")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating demo account: %v\n", err)
		os.Exit(1)
	}

	collection := tracker.NewCollectionStore(storage, notifier, logger)
	collection.SetUser(user)

	successCount := 0
	errorCount := 0
	for _, input := range seed {
		fmt.Printf("Adding: %s by %s... ", input.Title, input.Author)
		if fields := input.Validate(); fields != nil {
			fmt.Printf("SKIPPED - invalid seed entry: %v\n", fields)
			errorCount++
			continue
		}
		book, err := collection.Add(input)
		if err != nil {
			fmt.Printf("ERROR - %v\n", err)
			errorCount++
			continue
		}
		fmt.Printf("SUCCESS (id %.8s)\n", book.ID)
		successCount++
	}

	fmt.Printf("\nSeeding complete!\n")
	fmt.Printf("Demo account: %s (log in with any password)\n", user.Email)
	fmt.Printf("Books added: %d\n", successCount)
	fmt.Printf("Errors: %d\n", errorCount)

	if successCount > 0 {
		fmt.Println("\nCollection:")
		fmt.Printf("%-30s %-25s %-10s\n", "Title", "Author", "Status")
		fmt.Println("----------------------------------------------------------------------")
		for _, b := range collection.List() {
			fmt.Printf("%-30s %-25s %-10s\n", b.Title, b.Author, b.Status)
		}
	}
}
