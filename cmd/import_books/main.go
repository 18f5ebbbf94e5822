package main

import (
	"fmt"
	"os"
	"strings"

	"library-catalog/internal/textfmt"
	"library-catalog/library"
	"library-catalog/logging"
)

// import_books loads a CSV file of books into a fresh, empty catalog, prints
// the result sorted by title and optionally writes a SQLite snapshot of it.
//
//	import_books books.csv [snapshot.db]
func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, "usage: import_books <books.csv> [snapshot.db]")
		os.Exit(2)
	}
	csvPath := os.Args[1]

	log := logging.New(os.Getenv("LIBRARY_LOG_LEVEL"), os.Getenv("LIBRARY_LOG_FORMAT"), os.Stderr)
	manager := library.NewLibraryManager(library.WithoutSampleData(), library.WithLogger(log))

	fmt.Printf("Importing books from %s...\n", csvPath)
	res, err := manager.ImportBooksFromFile(csvPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error importing books: %v\n", err)
		os.Exit(1)
	}
	for _, skipped := range res.Skipped {
		fmt.Printf("Skipped %v\n", skipped)
	}

	fmt.Printf("\nImport complete!\n")
	fmt.Printf("Successfully imported: %d books\n", len(res.Added))
	fmt.Printf("Errors: %d\n", len(res.Skipped))

	if len(res.Added) > 0 {
		fmt.Println("\nImported books:")
		fmt.Printf("%-6s %-50s %-30s\n", "ID", "Title", "Author")
		fmt.Println(strings.Repeat("-", 88))
		for _, book := range manager.BooksSortedByTitle() {
			fmt.Printf("%-6s %-50s %-30s\n", book.ID, textfmt.Truncate(book.Title, 50), textfmt.Truncate(book.Author, 30))
		}
	}

	if len(os.Args) > 2 {
		snap, err := manager.ExportSnapshot(os.Args[2])
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error writing snapshot: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("\nSnapshot %s written to %s\n", snap.RunID, snap.Path)
	}
}
