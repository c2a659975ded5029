package catalog

// LoanStatus moves one way only: active, then returned.
type LoanStatus string

const (
	LoanActive   LoanStatus = "active"
	LoanReturned LoanStatus = "returned"
)

// User represents a registered library user.
type User struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// Book represents catalog metadata and current availability. Available is
// false exactly while an active loan references the book.
type Book struct {
	ID        string `json:"id"`
	Title     string `json:"title"`
	Author    string `json:"author"`
	Year      int    `json:"year"`
	Genre     string `json:"genre"`
	Available bool   `json:"available"`
}

// Loan links a user to a book. Loans are never deleted.
type Loan struct {
	ID     string     `json:"id"`
	UserID string     `json:"user_id"`
	BookID string     `json:"book_id"`
	Date   string     `json:"date"` // YYYY-MM-DD
	Status LoanStatus `json:"status"`
}

func (l Loan) Active() bool { return l.Status == LoanActive }

// UserInput carries the mutable fields of a user.
type UserInput struct {
	Name  string `validate:"required"`
	Email string `validate:"required,email"`
}

// BookInput carries the mutable fields of a book.
type BookInput struct {
	Title  string `validate:"required"`
	Author string `validate:"required"`
	Year   int    `validate:"required"`
	Genre  string `validate:"required"`
}

// LoanView is a loan joined with the names it references, for listings.
type LoanView struct {
	Loan
	UserName  string
	BookTitle string
}
