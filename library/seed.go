package library

import "time"

func loadSampleData(c *Catalog, d *PatronDirectory) {
	c.Add("The Great Gatsby", "F. Scott Fitzgerald", "9780743273565", date(1925, time.April, 10), "Fiction")
	c.Add("To Kill a Mockingbird", "Harper Lee", "9780061120084", date(1960, time.July, 11), "Fiction")
	c.Add("1984", "George Orwell", "9780451524935", date(1949, time.June, 8), "Dystopian")
	c.Add("The Hobbit", "J.R.R. Tolkien", "9780547928227", date(1937, time.September, 21), "Fantasy")
	c.Add("Pride and Prejudice", "Jane Austen", "9780141439518", date(1813, time.January, 28), "Romance")

	d.Add("John Smith", "john@example.com", "123 Main St", "2023-01-15")
	d.Add("Emily Johnson", "emily@example.com", "456 Oak Ave", "2023-02-20")
	d.Add("Michael Brown", "michael@example.com", "789 Pine Rd", "2023-03-10")
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
