package main

import (
	"fmt"
	"io"
	"strings"

	jsoniter "github.com/json-iterator/go"

	"library-catalog/internal/textfmt"
	"library-catalog/library"
)

const defaultWidth = 120

var json = jsoniter.ConfigCompatibleWithStandardLibrary

// renderer prints store results either as fixed-width tables or as JSON.
type renderer struct {
	out   io.Writer
	json  bool
	width int
}

func newRenderer(out io.Writer, format string, width int) *renderer {
	if width <= 0 {
		width = defaultWidth
	}
	return &renderer{out: out, json: strings.EqualFold(format, "json"), width: width}
}

func (r *renderer) writeJSON(v any) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(r.out, "Error encoding output: %v\n", err)
		return
	}
	fmt.Fprintln(r.out, string(b))
}

// titleWidth gives the title column whatever the fixed columns leave over.
func (r *renderer) titleWidth(fixed int) int {
	w := r.width - fixed
	if w < 12 {
		return 12
	}
	if w > 40 {
		return 40
	}
	return w
}

func (r *renderer) books(books []library.Book, empty string) {
	if r.json {
		r.writeJSON(books)
		return
	}
	if len(books) == 0 {
		fmt.Fprintln(r.out, empty)
		return
	}
	tw := r.titleWidth(6 + 26 + 11 + 12 + 10 + 6)
	fmt.Fprintf(r.out, "%-6s %-*s %-25s %-10s %-11s %-10s\n", "ID", tw, "Title", "Author", "Available", "Published", "Genre")
	fmt.Fprintln(r.out, strings.Repeat("-", tw+6+25+10+11+10+5))
	for _, b := range books {
		avail := "Yes"
		if !b.Available {
			avail = "No"
		}
		fmt.Fprintf(r.out, "%-6s %-*s %-25s %-10s %-11s %-10s\n",
			b.ID, tw, textfmt.Truncate(b.Title, tw), textfmt.Truncate(b.Author, 25), avail,
			library.FormatDate(b.PublicationDate), textfmt.Truncate(b.Genre, 10))
	}
}

func (r *renderer) book(b library.Book) {
	if r.json {
		r.writeJSON(b)
		return
	}
	fmt.Fprintf(r.out, "ID:          %s\n", b.ID)
	fmt.Fprintf(r.out, "Title:       %s\n", b.Title)
	fmt.Fprintf(r.out, "Author:      %s\n", b.Author)
	fmt.Fprintf(r.out, "ISBN:        %s\n", b.ISBN)
	fmt.Fprintf(r.out, "Published:   %s\n", library.FormatDate(b.PublicationDate))
	fmt.Fprintf(r.out, "Genre:       %s\n", b.Genre)
	fmt.Fprintf(r.out, "Available:   %t\n", b.Available)
}

func (r *renderer) patrons(patrons []library.Patron, empty string) {
	if r.json {
		r.writeJSON(patrons)
		return
	}
	if len(patrons) == 0 {
		fmt.Fprintln(r.out, empty)
		return
	}
	fmt.Fprintf(r.out, "%-6s %-25s %-25s %-20s %-12s\n", "ID", "Name", "Contact", "Address", "Member Since")
	fmt.Fprintln(r.out, strings.Repeat("-", 92))
	for _, p := range patrons {
		fmt.Fprintf(r.out, "%-6s %-25s %-25s %-20s %-12s\n",
			p.ID, textfmt.Truncate(p.Name, 25), textfmt.Truncate(p.ContactInfo, 25),
			textfmt.Truncate(p.Address, 20), p.MembershipDate)
	}
}

func (r *renderer) patron(p library.Patron) {
	if r.json {
		r.writeJSON(p)
		return
	}
	fmt.Fprintf(r.out, "ID:           %s\n", p.ID)
	fmt.Fprintf(r.out, "Name:         %s\n", p.Name)
	fmt.Fprintf(r.out, "Contact:      %s\n", p.ContactInfo)
	fmt.Fprintf(r.out, "Address:      %s\n", p.Address)
	fmt.Fprintf(r.out, "Member since: %s\n", p.MembershipDate)
}

func (r *renderer) transactions(txs []library.Transaction, empty string) {
	if r.json {
		r.writeJSON(txs)
		return
	}
	if len(txs) == 0 {
		fmt.Fprintln(r.out, empty)
		return
	}
	fmt.Fprintf(r.out, "%-6s %-6s %-6s %-11s %-11s %-11s %-8s\n", "ID", "Book", "Patron", "Borrowed", "Due", "Returned", "Status")
	fmt.Fprintln(r.out, strings.Repeat("-", 66))
	for _, t := range txs {
		status := "Out"
		if t.Returned {
			status = "Returned"
		}
		fmt.Fprintf(r.out, "%-6s %-6s %-6s %-11s %-11s %-11s %-8s\n",
			t.ID, t.BookID, t.PatronID, library.FormatDate(t.BorrowDate),
			library.FormatDate(t.DueDate), library.FormatDate(t.ReturnDate), status)
	}
}

func (r *renderer) reservations(rs []library.Reservation, empty string) {
	if r.json {
		r.writeJSON(rs)
		return
	}
	if len(rs) == 0 {
		fmt.Fprintln(r.out, empty)
		return
	}
	fmt.Fprintf(r.out, "%-6s %-6s %-6s %-11s %-8s\n", "ID", "Book", "Patron", "Reserved", "Status")
	fmt.Fprintln(r.out, strings.Repeat("-", 41))
	for _, res := range rs {
		status := "Active"
		if !res.Active {
			status = "Closed"
		}
		fmt.Fprintf(r.out, "%-6s %-6s %-6s %-11s %-8s\n",
			res.ID, res.BookID, res.PatronID, library.FormatDate(res.ReservationDate), status)
	}
}
