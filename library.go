package main

import (
	"context"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"catalog-cart/catalog"
)

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Interactive library catalog",
	Long: `Runs the library command loop over users, books and loans.

Wherever an id is asked for, the row number shown by the matching list
command is accepted too.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, err := catalog.Open(cmd.Context(), kv, log)
		if err != nil {
			return err
		}
		return runLibrary(cmd.Context(), repo, newConsole(cmd.InOrStdin(), cmd.OutOrStdout()))
	},
}

func runLibrary(ctx context.Context, repo *catalog.Repository, c *console) error {
	c.println("Welcome to the Library Catalog!")
	c.println("Available commands:")
	c.println("  Users: add user, list users, update user, delete user")
	c.println("  Books: add book, list books, update book, delete book")
	c.println("  Circulation: loan, return, list loans")
	c.println("  System: exit")

	for {
		c.println()
		cmd, ok := c.ask("> ")
		if !ok {
			return nil
		}

		switch cmd {
		case "add user":
			handleAddUser(ctx, repo, c)
		case "list users":
			handleListUsers(repo, c)
		case "update user":
			handleUpdateUser(ctx, repo, c)
		case "delete user":
			handleDeleteUser(ctx, repo, c)
		case "add book":
			handleAddBook(ctx, repo, c)
		case "list books":
			handleListBooks(repo, c)
		case "update book":
			handleUpdateBook(ctx, repo, c)
		case "delete book":
			handleDeleteBook(ctx, repo, c)
		case "loan":
			handleLoan(ctx, repo, c)
		case "return":
			handleReturn(ctx, repo, c)
		case "list loans":
			handleListLoans(repo, c)
		case "exit":
			c.println("Goodbye!")
			return nil
		case "":
		default:
			c.println("Unknown command. Type one of the available commands listed above.")
		}
	}
}

// resolve maps a 1-based row number onto ids; anything else is taken as an id.
func resolve(answer string, ids []string) string {
	if n, err := strconv.Atoi(answer); err == nil && n >= 1 && n <= len(ids) {
		return ids[n-1]
	}
	return answer
}

func userIDs(repo *catalog.Repository) []string {
	users := repo.Users()
	ids := make([]string, len(users))
	for i, u := range users {
		ids[i] = u.ID
	}
	return ids
}

func bookIDs(books []catalog.Book) []string {
	ids := make([]string, len(books))
	for i, b := range books {
		ids[i] = b.ID
	}
	return ids
}

func loanIDs(loans []catalog.Loan) []string {
	ids := make([]string, len(loans))
	for i, l := range loans {
		ids[i] = l.ID
	}
	return ids
}

// ------------------ Users ------------------

func askUser(c *console) (catalog.UserInput, bool) {
	name, ok := c.ask("Name: ")
	if !ok {
		return catalog.UserInput{}, false
	}
	email, ok := c.ask("Email: ")
	if !ok {
		return catalog.UserInput{}, false
	}
	return catalog.UserInput{Name: name, Email: email}, true
}

func handleAddUser(ctx context.Context, repo *catalog.Repository, c *console) {
	in, ok := askUser(c)
	if !ok {
		return
	}
	u, err := repo.AddUser(ctx, in)
	if err != nil {
		c.report("Error adding user", err)
		return
	}
	c.printf("Added user '%s' with ID %s\n", u.Name, u.ID)
}

func handleListUsers(repo *catalog.Repository, c *console) {
	users := repo.Users()
	if len(users) == 0 {
		c.println("No users registered.")
		return
	}
	c.printf("%-4s %-36s %-25s %-30s\n", "#", "ID", "Name", "Email")
	c.println(strings.Repeat("-", 98))
	for i, u := range users {
		c.printf("%-4d %-36s %-25s %-30s\n", i+1, u.ID, truncateString(u.Name, 25), truncateString(u.Email, 30))
	}
}

func handleUpdateUser(ctx context.Context, repo *catalog.Repository, c *console) {
	answer, ok := c.ask("User ID: ")
	if !ok {
		return
	}
	id := resolve(answer, userIDs(repo))
	in, ok := askUser(c)
	if !ok {
		return
	}
	updated, err := repo.UpdateUser(ctx, id, in)
	switch {
	case err != nil:
		c.report("Error updating user", err)
	case !updated:
		c.printf("No user with ID %s; nothing changed.\n", id)
	default:
		c.println("User updated.")
	}
}

func handleDeleteUser(ctx context.Context, repo *catalog.Repository, c *console) {
	answer, ok := c.ask("User ID: ")
	if !ok {
		return
	}
	id := resolve(answer, userIDs(repo))
	deleted, err := repo.DeleteUser(ctx, id)
	switch {
	case err != nil:
		c.report("Error deleting user", err)
	case !deleted:
		c.printf("No user with ID %s.\n", id)
	default:
		c.println("User deleted.")
	}
}

// ------------------ Books ------------------

func askBook(c *console) (catalog.BookInput, bool) {
	title, ok := c.ask("Title: ")
	if !ok {
		return catalog.BookInput{}, false
	}
	author, ok := c.ask("Author: ")
	if !ok {
		return catalog.BookInput{}, false
	}
	yearStr, ok := c.ask("Year: ")
	if !ok {
		return catalog.BookInput{}, false
	}
	genre, ok := c.ask("Genre: ")
	if !ok {
		return catalog.BookInput{}, false
	}
	// A non-numeric year stays zero and fails validation with the other fields.
	year, _ := strconv.Atoi(yearStr)
	return catalog.BookInput{Title: title, Author: author, Year: year, Genre: genre}, true
}

func handleAddBook(ctx context.Context, repo *catalog.Repository, c *console) {
	in, ok := askBook(c)
	if !ok {
		return
	}
	b, err := repo.AddBook(ctx, in)
	if err != nil {
		c.report("Error adding book", err)
		return
	}
	c.printf("Added book '%s' with ID %s\n", b.Title, b.ID)
}

func handleListBooks(repo *catalog.Repository, c *console) {
	books := repo.Books()
	if len(books) == 0 {
		c.println("No books in library.")
		return
	}
	c.printf("%-4s %-30s %-25s %-6s %-15s %s\n", "#", "Title", "Author", "Year", "Genre", "Available")
	c.println(strings.Repeat("-", 95))
	for i, b := range books {
		availStr := "Yes"
		if !b.Available {
			availStr = "No"
		}
		c.printf("%-4d %-30s %-25s %-6d %-15s %s\n",
			i+1,
			truncateString(b.Title, 30),
			truncateString(b.Author, 25),
			b.Year,
			truncateString(b.Genre, 15),
			availStr)
	}
}

func handleUpdateBook(ctx context.Context, repo *catalog.Repository, c *console) {
	answer, ok := c.ask("Book ID: ")
	if !ok {
		return
	}
	id := resolve(answer, bookIDs(repo.Books()))
	in, ok := askBook(c)
	if !ok {
		return
	}
	updated, err := repo.UpdateBook(ctx, id, in)
	switch {
	case err != nil:
		c.report("Error updating book", err)
	case !updated:
		c.printf("No book with ID %s; nothing changed.\n", id)
	default:
		c.println("Book updated.")
	}
}

func handleDeleteBook(ctx context.Context, repo *catalog.Repository, c *console) {
	answer, ok := c.ask("Book ID: ")
	if !ok {
		return
	}
	id := resolve(answer, bookIDs(repo.Books()))
	deleted, err := repo.DeleteBook(ctx, id)
	switch {
	case err != nil:
		c.report("Error deleting book", err)
	case !deleted:
		c.printf("No book with ID %s.\n", id)
	default:
		c.println("Book deleted.")
	}
}

// ------------------ Circulation ------------------

func handleLoan(ctx context.Context, repo *catalog.Repository, c *console) {
	userAnswer, ok := c.ask("User ID: ")
	if !ok {
		return
	}
	userID := resolve(userAnswer, userIDs(repo))

	available := repo.AvailableBooks()
	if len(available) > 0 {
		c.println("Available books:")
		for i, b := range available {
			c.printf("  %d. %s (%s)\n", i+1, b.Title, b.Author)
		}
	}
	bookAnswer, ok := c.ask("Book ID: ")
	if !ok {
		return
	}
	bookID := resolve(bookAnswer, bookIDs(available))

	loan, err := repo.RegisterLoan(ctx, userID, bookID)
	if err != nil {
		c.report("Error registering loan", err)
		return
	}
	book, _ := repo.Book(loan.BookID)
	user, _ := repo.User(loan.UserID)
	c.printf("Book '%s' loaned to %s on %s\n", book.Title, user.Name, loan.Date)
}

func handleReturn(ctx context.Context, repo *catalog.Repository, c *console) {
	active := repo.ActiveLoans()
	if len(active) == 0 {
		c.println("No active loans.")
		return
	}
	for i, l := range active {
		book, _ := repo.Book(l.BookID)
		c.printf("  %d. %s (since %s)\n", i+1, book.Title, l.Date)
	}
	answer, ok := c.ask("Loan ID: ")
	if !ok {
		return
	}
	id := resolve(answer, loanIDs(active))
	returned, err := repo.ReturnLoan(ctx, id)
	switch {
	case err != nil:
		c.report("Error returning book", err)
	case !returned:
		c.printf("No active loan with ID %s.\n", id)
	default:
		c.println("Book returned and available again.")
	}
}

func handleListLoans(repo *catalog.Repository, c *console) {
	views := repo.LoanViews()
	if len(views) == 0 {
		c.println("No loans recorded.")
		return
	}
	c.printf("%-4s %-25s %-30s %-11s %s\n", "#", "User", "Book", "Date", "Status")
	c.println(strings.Repeat("-", 85))
	for i, v := range views {
		c.printf("%-4d %-25s %-30s %-11s %s\n",
			i+1,
			truncateString(v.UserName, 25),
			truncateString(v.BookTitle, 30),
			v.Date,
			v.Status)
	}
}
