package main

import (
	"bufio"
	"fmt"
	"os"
	"sort"
	"strings"
	"syscall"

	"booktracker/tracker"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// readPassword securely reads a password with masking.
func readPassword(prompt string) (string, error) {
	fmt.Print(prompt)
	bytePassword, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		return "", err
	}
	fmt.Println() // Add newline after password input
	return strings.TrimSpace(string(bytePassword)), nil
}

func promptLine(sc *bufio.Scanner, label string) (string, error) {
	fmt.Print(label)
	if !sc.Scan() {
		return "", fmt.Errorf("input closed")
	}
	return strings.TrimSpace(sc.Text()), nil
}

// requireUser guards commands that operate on a collection.
func requireUser() (*tracker.User, error) {
	if u := session.Current(); u != nil {
		return u, nil
	}
	return nil, fmt.Errorf("not logged in (run 'booktracker login' or 'booktracker register' first)")
}

// ---------------------------------------------------------------------------
// Session commands
// ---------------------------------------------------------------------------

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create an account on this machine",
	RunE: func(cmd *cobra.Command, args []string) error {
		sc := bufio.NewScanner(os.Stdin)
		username, err := promptLine(sc, "Username: ")
		if err != nil {
			return err
		}
		email, err := promptLine(sc, "Email: ")
		if err != nil {
			return err
		}
		password, err := readPassword("Password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}

		user, err := session.Register(username, email, password)
		if err != nil {
			return err
		}
		collection.SetUser(user)
		fmt.Printf("Welcome, %s!\n", user.Username)
		return nil
	},
}

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Log in with any email and password",
	RunE: func(cmd *cobra.Command, args []string) error {
		sc := bufio.NewScanner(os.Stdin)
		email, err := promptLine(sc, "Email: ")
		if err != nil {
			return err
		}
		password, err := readPassword("Password: ")
		if err != nil {
			return fmt.Errorf("read password: %w", err)
		}

		user, err := session.Login(email, password)
		if err != nil {
			return err
		}
		collection.SetUser(user)
		fmt.Printf("Welcome back, %s!\n", user.Username)
		return nil
	},
}

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Return to the anonymous state",
	RunE: func(cmd *cobra.Command, args []string) error {
		if !session.IsAuthenticated() {
			fmt.Println("Not logged in.")
			return nil
		}
		if err := session.Logout(); err != nil {
			return err
		}
		collection.SetUser(nil)
		return nil
	},
}

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current account",
	RunE: func(cmd *cobra.Command, args []string) error {
		user := session.Current()
		if user == nil {
			fmt.Println("Not logged in.")
			return nil
		}
		fmt.Printf("%s <%s>\n", user.Username, user.Email)
		counts := collection.StatusCounts()
		fmt.Printf("Books: %d total | %d reading | %d to read | %d completed\n",
			len(collection.List()),
			counts[tracker.StatusReading],
			counts[tracker.StatusToRead],
			counts[tracker.StatusCompleted])
		return nil
	},
}

// ---------------------------------------------------------------------------
// Collection commands
// ---------------------------------------------------------------------------

var (
	addTitle      string
	addAuthor     string
	addCover      string
	addStatus     string
	addRating     int
	addStartDate  string
	addFinishDate string
	addPagesTotal int
	addPagesRead  int
	addNotes      string
)

var addCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a book to your collection",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireUser(); err != nil {
			return err
		}

		input := tracker.BookInput{
			Title:      addTitle,
			Author:     addAuthor,
			CoverImage: addCover,
			Status:     tracker.Status(addStatus),
			Rating:     addRating,
			StartDate:  addStartDate,
			FinishDate: addFinishDate,
			PagesTotal: addPagesTotal,
			PagesRead:  addPagesRead,
			Notes:      addNotes,
		}
		if fields := input.Validate(); fields != nil {
			printFieldErrors(fields)
			return fmt.Errorf("invalid book input")
		}

		book, err := collection.Add(input)
		if err != nil {
			return err
		}
		fmt.Printf("Added '%s' by %s (id %s)\n", book.Title, book.Author, shortID(book.ID))
		return nil
	},
}

var listStatus string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List your books",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireUser(); err != nil {
			return err
		}

		books := collection.List()
		if listStatus != "" && listStatus != "all" {
			status := tracker.Status(listStatus)
			if !status.Valid() {
				return fmt.Errorf("unknown status %q (use to-read, reading or completed)", listStatus)
			}
			books = collection.FilterByStatus(status)
		}
		printBooks(books)

		counts := collection.StatusCounts()
		fmt.Printf("\n%d reading | %d to read | %d completed\n",
			counts[tracker.StatusReading],
			counts[tracker.StatusToRead],
			counts[tracker.StatusCompleted])
		return nil
	},
}

var readingCmd = &cobra.Command{
	Use:   "reading",
	Short: "Show the books you are currently reading",
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireUser(); err != nil {
			return err
		}

		reads := collection.CurrentReads()
		if len(reads) == 0 {
			fmt.Println("You are not reading anything right now.")
			return nil
		}
		for _, b := range reads {
			progress := ""
			if b.PagesTotal > 0 {
				progress = fmt.Sprintf(" — %d/%d pages (%d%%)",
					b.PagesRead, b.PagesTotal, 100*b.PagesRead/b.PagesTotal)
			}
			fmt.Printf("%-10s %s by %s%s\n", shortID(b.ID), b.Title, b.Author, progress)
		}
		return nil
	},
}

var searchStatus string

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search your books by title or author",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireUser(); err != nil {
			return err
		}

		query := strings.Join(args, " ")
		books := collection.Search(query)
		if searchStatus != "" && searchStatus != "all" {
			status := tracker.Status(searchStatus)
			if !status.Valid() {
				return fmt.Errorf("unknown status %q (use to-read, reading or completed)", searchStatus)
			}
			filtered := books[:0]
			for _, b := range books {
				if b.Status == status {
					filtered = append(filtered, b)
				}
			}
			books = filtered
		}

		if len(books) == 0 {
			fmt.Printf("No books match the search %q.\n", query)
			return nil
		}
		fmt.Printf("Found %d book(s) matching %q:\n", len(books), query)
		printBooks(books)
		return nil
	},
}

var (
	updTitle      string
	updAuthor     string
	updCover      string
	updStatus     string
	updRating     int
	updStartDate  string
	updFinishDate string
	updPagesTotal int
	updPagesRead  int
	updNotes      string
)

var updateCmd = &cobra.Command{
	Use:   "update <book-id>",
	Short: "Change fields of a book",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireUser(); err != nil {
			return err
		}
		book, err := resolveBook(args[0])
		if err != nil {
			return err
		}

		patch := tracker.BookPatch{}
		flags := cmd.Flags()
		if flags.Changed("title") {
			patch.Title = &updTitle
		}
		if flags.Changed("author") {
			patch.Author = &updAuthor
		}
		if flags.Changed("cover") {
			patch.CoverImage = &updCover
		}
		if flags.Changed("status") {
			status := tracker.Status(updStatus)
			patch.Status = &status
		}
		if flags.Changed("rating") {
			patch.Rating = &updRating
		}
		if flags.Changed("start") {
			patch.StartDate = &updStartDate
		}
		if flags.Changed("finish") {
			patch.FinishDate = &updFinishDate
		}
		if flags.Changed("pages-total") {
			patch.PagesTotal = &updPagesTotal
		}
		if flags.Changed("pages-read") {
			patch.PagesRead = &updPagesRead
		}
		if flags.Changed("notes") {
			patch.Notes = &updNotes
		}

		if fields := patch.Validate(book); fields != nil {
			printFieldErrors(fields)
			return fmt.Errorf("invalid book input")
		}
		return collection.Update(book.ID, patch)
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove <book-id>",
	Short: "Remove a book from your collection",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if _, err := requireUser(); err != nil {
			return err
		}
		book, err := resolveBook(args[0])
		if err != nil {
			return err
		}
		return collection.Remove(book.ID)
	},
}

func init() {
	addCmd.Flags().StringVar(&addTitle, "title", "", "book title (required)")
	addCmd.Flags().StringVar(&addAuthor, "author", "", "book author (required)")
	addCmd.Flags().StringVar(&addCover, "cover", "", "cover image URL")
	addCmd.Flags().StringVar(&addStatus, "status", "", "to-read, reading or completed (default to-read)")
	addCmd.Flags().IntVar(&addRating, "rating", 0, "rating 1-5")
	addCmd.Flags().StringVar(&addStartDate, "start", "", "date you started reading (YYYY-MM-DD)")
	addCmd.Flags().StringVar(&addFinishDate, "finish", "", "date you finished reading (YYYY-MM-DD)")
	addCmd.Flags().IntVar(&addPagesTotal, "pages-total", 0, "total page count")
	addCmd.Flags().IntVar(&addPagesRead, "pages-read", 0, "pages read so far")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "free-form notes")

	listCmd.Flags().StringVar(&listStatus, "status", "all", "filter by status (all, to-read, reading, completed)")
	searchCmd.Flags().StringVar(&searchStatus, "status", "all", "filter results by status")

	updateCmd.Flags().StringVar(&updTitle, "title", "", "book title")
	updateCmd.Flags().StringVar(&updAuthor, "author", "", "book author")
	updateCmd.Flags().StringVar(&updCover, "cover", "", "cover image URL")
	updateCmd.Flags().StringVar(&updStatus, "status", "", "to-read, reading or completed")
	updateCmd.Flags().IntVar(&updRating, "rating", 0, "rating 1-5")
	updateCmd.Flags().StringVar(&updStartDate, "start", "", "date you started reading (YYYY-MM-DD)")
	updateCmd.Flags().StringVar(&updFinishDate, "finish", "", "date you finished reading (YYYY-MM-DD)")
	updateCmd.Flags().IntVar(&updPagesTotal, "pages-total", 0, "total page count")
	updateCmd.Flags().IntVar(&updPagesRead, "pages-read", 0, "pages read so far")
	updateCmd.Flags().StringVar(&updNotes, "notes", "", "free-form notes")
}

// ---------------------------------------------------------------------------
// Output helpers
// ---------------------------------------------------------------------------

// resolveBook accepts a full book id or a unique prefix of one.
func resolveBook(idOrPrefix string) (tracker.Book, error) {
	if book, ok := collection.Get(idOrPrefix); ok {
		return book, nil
	}
	var matches []tracker.Book
	for _, b := range collection.List() {
		if strings.HasPrefix(b.ID, idOrPrefix) {
			matches = append(matches, b)
		}
	}
	switch len(matches) {
	case 1:
		return matches[0], nil
	case 0:
		return tracker.Book{}, fmt.Errorf("no book with id %q", idOrPrefix)
	default:
		return tracker.Book{}, fmt.Errorf("id prefix %q is ambiguous (%d matches)", idOrPrefix, len(matches))
	}
}

func printBooks(books []tracker.Book) {
	if len(books) == 0 {
		fmt.Println("No books in your collection.")
		return
	}

	fmt.Printf("%-10s %-30s %-25s %-10s %-10s %s\n", "ID", "Title", "Author", "Status", "Progress", "Rating")
	fmt.Println(strings.Repeat("-", 95))
	for _, b := range books {
		progress := "-"
		if b.PagesTotal > 0 {
			progress = fmt.Sprintf("%d/%d", b.PagesRead, b.PagesTotal)
		}
		rating := "-"
		if b.Rating > 0 {
			rating = fmt.Sprintf("%d/5", b.Rating)
		}
		fmt.Printf("%-10s %-30s %-25s %-10s %-10s %s\n",
			shortID(b.ID),
			truncateString(b.Title, 30),
			truncateString(b.Author, 25),
			b.Status,
			progress,
			rating)
	}
}

func printFieldErrors(fields tracker.Fields) {
	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Printf("  %s: %s\n", name, fields[name])
	}
}

func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}

func truncateString(s string, maxLength int) string {
	if len(s) <= maxLength {
		return s
	}
	return s[:maxLength-3] + "..."
}
