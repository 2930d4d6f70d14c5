package main

import (
	"fmt"
	"os"

	"booktracker/tracker"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const defaultDBFile = "booktracker.db"

var (
	dbPath  string
	verbose bool

	logger     *zap.Logger
	storage    *tracker.Storage
	notifier   *tracker.Notifier
	session    *tracker.SessionStore
	collection *tracker.CollectionStore
)

var rootCmd = &cobra.Command{
	Use:   "booktracker",
	Short: "Track the books you own and read",
	Long: `booktracker keeps a personal reading collection on this machine.

Register or log in first (any password is accepted; there is no server),
then add, list, update and remove books. Each account's collection is kept
under its own storage key and restored at the next login.`,
	SilenceUsage:       true,
	SilenceErrors:      true,
	PersistentPreRunE:  openStores,
	PersistentPostRunE: closeStores,
}

// openStores wires the three stores together before any command runs. The
// session is restored from storage first so a logged-in user stays logged in
// across invocations, then the collection is bound to that user.
func openStores(cmd *cobra.Command, args []string) error {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	var err error
	if logger, err = config.Build(); err != nil {
		return fmt.Errorf("init logger: %w", err)
	}

	if storage, err = tracker.NewStorage(dbPath); err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	notifier = tracker.NewNotifier(tracker.DefaultNotificationTTL)
	session = tracker.NewSessionStore(storage, notifier, logger, tracker.DefaultAuthDelay)
	collection = tracker.NewCollectionStore(storage, notifier, logger)
	collection.SetUser(session.Current())
	return nil
}

// closeStores prints any notifications the command produced, then releases
// the database.
func closeStores(cmd *cobra.Command, args []string) error {
	flushNotifications()
	logger.Sync()
	return storage.Close()
}

// flushNotifications drains the sink and prints each entry once, in the
// order it was published.
func flushNotifications() {
	for _, note := range notifier.Drain() {
		switch note.Kind {
		case tracker.KindSuccess:
			fmt.Printf("✔ %s\n", note.Message)
		case tracker.KindError:
			fmt.Printf("✘ %s\n", note.Message)
		default:
			fmt.Printf("• %s\n", note.Message)
		}
	}
}

func main() {
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", defaultDBFile, "path to the booktracker database file")
	rootCmd.PersistentFlags().BoolVar(&verbose, "verbose", false, "enable debug logging")

	rootCmd.AddCommand(
		registerCmd,
		loginCmd,
		logoutCmd,
		whoamiCmd,
		addCmd,
		listCmd,
		readingCmd,
		searchCmd,
		updateCmd,
		removeCmd,
	)

	if err := rootCmd.Execute(); err != nil {
		// PostRun is skipped on error, so pending notifications (for example
		// the auth failure toast) are flushed here.
		if notifier != nil {
			flushNotifications()
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
