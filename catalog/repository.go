// Package catalog keeps the library's users, books and loans together with
// id indexes, and enforces the rules that tie them to each other.
package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"catalog-cart/apperr"
	"catalog-cart/logger"
	"catalog-cart/store"
)

const dateLayout = "2006-01-02"

// Repository owns the three collections. Each index maps an id to the
// position of its entity in the ordered slice; both change together.
type Repository struct {
	mu    sync.Mutex
	kv    store.KV
	log   *logger.Logger
	newID func() string
	now   func() time.Time

	users []User
	books []Book
	loans []Loan

	userIdx map[string]int
	bookIdx map[string]int
	loanIdx map[string]int
}

type Option func(*Repository)

// WithIDGenerator replaces the default UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(r *Repository) { r.newID = fn }
}

// WithClock replaces time.Now for loan dates.
func WithClock(fn func() time.Time) Option {
	return func(r *Repository) { r.now = fn }
}

// Open loads the persisted collections from kv and builds the indexes.
func Open(ctx context.Context, kv store.KV, log *logger.Logger, opts ...Option) (*Repository, error) {
	if kv == nil {
		return nil, fmt.Errorf("catalog store required")
	}
	if log == nil {
		log = logger.Nop()
	}
	r := &Repository{
		kv:    kv,
		log:   log.Named("catalog"),
		newID: uuid.NewString,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}

	var err error
	if r.users, err = store.Load[User](ctx, kv, store.KeyUsers); err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if r.books, err = store.Load[Book](ctx, kv, store.KeyBooks); err != nil {
		return nil, fmt.Errorf("load books: %w", err)
	}
	if r.loans, err = store.Load[Loan](ctx, kv, store.KeyLoans); err != nil {
		return nil, fmt.Errorf("load loans: %w", err)
	}
	r.rebuildIndexes()
	r.reconcileAvailability()

	r.log.Debug(r.log.WithFields(ctx, map[string]any{
		"users": len(r.users), "books": len(r.books), "loans": len(r.loans),
	}), "catalog loaded")
	return r, nil
}

func (r *Repository) rebuildIndexes() {
	r.userIdx = make(map[string]int, len(r.users))
	for i, u := range r.users {
		r.userIdx[u.ID] = i
	}
	r.bookIdx = make(map[string]int, len(r.books))
	for i, b := range r.books {
		r.bookIdx[b.ID] = i
	}
	r.loanIdx = make(map[string]int, len(r.loans))
	for i, l := range r.loans {
		r.loanIdx[l.ID] = i
	}
}

// reconcileAvailability derives Book.Available from the active loans.
func (r *Repository) reconcileAvailability() {
	loaned := map[string]bool{}
	for _, l := range r.loans {
		if l.Active() {
			loaned[l.BookID] = true
		}
	}
	for i := range r.books {
		r.books[i].Available = !loaned[r.books[i].ID]
	}
}

// ------------------ Persistence ------------------

type snapshot struct {
	users   []User
	books   []Book
	loans   []Loan
	userIdx map[string]int
	bookIdx map[string]int
	loanIdx map[string]int
}

func copyIndex(src map[string]int) map[string]int {
	dst := make(map[string]int, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

func (r *Repository) snapshot() snapshot {
	return snapshot{
		users:   append([]User(nil), r.users...),
		books:   append([]Book(nil), r.books...),
		loans:   append([]Loan(nil), r.loans...),
		userIdx: copyIndex(r.userIdx),
		bookIdx: copyIndex(r.bookIdx),
		loanIdx: copyIndex(r.loanIdx),
	}
}

func (r *Repository) restore(s snapshot) {
	r.users, r.books, r.loans = s.users, s.books, s.loans
	r.userIdx, r.bookIdx, r.loanIdx = s.userIdx, s.bookIdx, s.loanIdx
}

func (r *Repository) saveAll(ctx context.Context) error {
	if err := store.Save(ctx, r.kv, store.KeyUsers, r.users); err != nil {
		return err
	}
	if err := store.Save(ctx, r.kv, store.KeyBooks, r.books); err != nil {
		return err
	}
	return store.Save(ctx, r.kv, store.KeyLoans, r.loans)
}

// apply runs mutate and persists the result. If persisting fails the
// in-memory state is rolled back to what it was before mutate.
func (r *Repository) apply(ctx context.Context, mutate func()) error {
	before := r.snapshot()
	mutate()
	if err := r.saveAll(ctx); err != nil {
		r.restore(before)
		r.log.Error(ctx, "persist catalog", err)
		return apperr.Wrap(apperr.ReasonStorage, err, "persist catalog")
	}
	return nil
}

func (r *Repository) reject(ctx context.Context, err *apperr.Error) error {
	r.log.Warn(ctx, "catalog change rejected", err)
	return err
}

// ------------------ User helpers ------------------

// AddUser validates in and appends a new user with a fresh id.
func (r *Repository) AddUser(ctx context.Context, in UserInput) (User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	in = in.normalized()
	if err := checkInput(in); err != nil {
		return User{}, r.reject(ctx, apperr.As(err))
	}
	u := User{ID: r.newID(), Name: in.Name, Email: in.Email}
	ctx = r.log.WithField(ctx, "user_id", u.ID)

	if err := r.apply(ctx, func() {
		r.users = append(r.users, u)
		r.userIdx[u.ID] = len(r.users) - 1
	}); err != nil {
		return User{}, err
	}
	r.log.Info(ctx, "user added")
	return u, nil
}

// UpdateUser overwrites name and email. An unknown id is a silent no-op and
// reports false.
func (r *Repository) UpdateUser(ctx context.Context, id string, in UserInput) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx = r.log.WithField(ctx, "user_id", id)
	i, ok := r.userIdx[id]
	if !ok {
		r.log.Debug(ctx, "update skipped, user not found")
		return false, nil
	}
	in = in.normalized()
	if err := checkInput(in); err != nil {
		return false, r.reject(ctx, apperr.As(err))
	}
	if err := r.apply(ctx, func() {
		r.users[i].Name = in.Name
		r.users[i].Email = in.Email
	}); err != nil {
		return false, err
	}
	r.log.Info(ctx, "user updated")
	return true, nil
}

// DeleteUser removes a user with no active loans. An unknown id reports false.
func (r *Repository) DeleteUser(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx = r.log.WithField(ctx, "user_id", id)
	i, ok := r.userIdx[id]
	if !ok {
		return false, nil
	}
	for _, l := range r.loans {
		if l.UserID == id && l.Active() {
			return false, r.reject(ctx, apperr.Newf(apperr.ReasonHasActiveLoans,
				"cannot delete user %s with active loans", id))
		}
	}
	if err := r.apply(ctx, func() {
		r.users = append(r.users[:i:i], r.users[i+1:]...)
		delete(r.userIdx, id)
		for j := i; j < len(r.users); j++ {
			r.userIdx[r.users[j].ID] = j
		}
	}); err != nil {
		return false, err
	}
	r.log.Info(ctx, "user deleted")
	return true, nil
}

func (r *Repository) User(id string) (User, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.userIdx[id]
	if !ok {
		return User{}, false
	}
	return r.users[i], true
}

func (r *Repository) Users() []User {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]User{}, r.users...)
}

// ------------------ Book helpers ------------------

// AddBook validates in and appends a new, available book.
func (r *Repository) AddBook(ctx context.Context, in BookInput) (Book, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	in = in.normalized()
	if err := checkInput(in); err != nil {
		return Book{}, r.reject(ctx, apperr.As(err))
	}
	b := Book{
		ID:        r.newID(),
		Title:     in.Title,
		Author:    in.Author,
		Year:      in.Year,
		Genre:     in.Genre,
		Available: true,
	}
	ctx = r.log.WithField(ctx, "book_id", b.ID)

	if err := r.apply(ctx, func() {
		r.books = append(r.books, b)
		r.bookIdx[b.ID] = len(r.books) - 1
	}); err != nil {
		return Book{}, err
	}
	r.log.Info(ctx, "book added")
	return b, nil
}

// UpdateBook overwrites the descriptive fields; availability is untouched.
// An unknown id is a silent no-op and reports false.
func (r *Repository) UpdateBook(ctx context.Context, id string, in BookInput) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx = r.log.WithField(ctx, "book_id", id)
	i, ok := r.bookIdx[id]
	if !ok {
		r.log.Debug(ctx, "update skipped, book not found")
		return false, nil
	}
	in = in.normalized()
	if err := checkInput(in); err != nil {
		return false, r.reject(ctx, apperr.As(err))
	}
	if err := r.apply(ctx, func() {
		b := &r.books[i]
		b.Title, b.Author, b.Year, b.Genre = in.Title, in.Author, in.Year, in.Genre
	}); err != nil {
		return false, err
	}
	r.log.Info(ctx, "book updated")
	return true, nil
}

// DeleteBook removes a book no active loan references. An unknown id
// reports false.
func (r *Repository) DeleteBook(ctx context.Context, id string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx = r.log.WithField(ctx, "book_id", id)
	i, ok := r.bookIdx[id]
	if !ok {
		return false, nil
	}
	for _, l := range r.loans {
		if l.BookID == id && l.Active() {
			return false, r.reject(ctx, apperr.Newf(apperr.ReasonCurrentlyLoaned,
				"cannot delete book %s that is currently loaned", id))
		}
	}
	if err := r.apply(ctx, func() {
		r.books = append(r.books[:i:i], r.books[i+1:]...)
		delete(r.bookIdx, id)
		for j := i; j < len(r.books); j++ {
			r.bookIdx[r.books[j].ID] = j
		}
	}); err != nil {
		return false, err
	}
	r.log.Info(ctx, "book deleted")
	return true, nil
}

func (r *Repository) Book(id string) (Book, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.bookIdx[id]
	if !ok {
		return Book{}, false
	}
	return r.books[i], true
}

func (r *Repository) Books() []Book {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Book{}, r.books...)
}

// AvailableBooks lists the books that can be loaned right now.
func (r *Repository) AvailableBooks() []Book {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Book
	for _, b := range r.books {
		if b.Available {
			out = append(out, b)
		}
	}
	return out
}

// ------------------ Circulation ------------------

// RegisterLoan opens an active loan and marks the book unavailable.
func (r *Repository) RegisterLoan(ctx context.Context, userID, bookID string) (Loan, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx = r.log.WithFields(ctx, map[string]any{"user_id": userID, "book_id": bookID})
	_, userOK := r.userIdx[userID]
	bi, bookOK := r.bookIdx[bookID]
	if !userOK || !bookOK {
		return Loan{}, r.reject(ctx, apperr.New(apperr.ReasonInvalidReference, "invalid user or book selected"))
	}
	if !r.books[bi].Available {
		return Loan{}, r.reject(ctx, apperr.Newf(apperr.ReasonBookUnavailable, "book %q is not available", r.books[bi].Title))
	}

	loan := Loan{
		ID:     r.newID(),
		UserID: userID,
		BookID: bookID,
		Date:   r.now().UTC().Format(dateLayout),
		Status: LoanActive,
	}
	ctx = r.log.WithField(ctx, "loan_id", loan.ID)

	if err := r.apply(ctx, func() {
		r.loans = append(r.loans, loan)
		r.loanIdx[loan.ID] = len(r.loans) - 1
		r.books[bi].Available = false
	}); err != nil {
		return Loan{}, err
	}
	r.log.Info(ctx, "loan registered")
	return loan, nil
}

// ReturnLoan closes an active loan and frees its book. Unknown or already
// returned loans are left alone and report false.
func (r *Repository) ReturnLoan(ctx context.Context, loanID string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx = r.log.WithField(ctx, "loan_id", loanID)
	i, ok := r.loanIdx[loanID]
	if !ok || !r.loans[i].Active() {
		return false, nil
	}
	if err := r.apply(ctx, func() {
		r.loans[i].Status = LoanReturned
		if bi, ok := r.bookIdx[r.loans[i].BookID]; ok {
			r.books[bi].Available = true
		}
	}); err != nil {
		return false, err
	}
	r.log.Info(ctx, "loan returned")
	return true, nil
}

func (r *Repository) Loan(id string) (Loan, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	i, ok := r.loanIdx[id]
	if !ok {
		return Loan{}, false
	}
	return r.loans[i], true
}

func (r *Repository) Loans() []Loan {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Loan{}, r.loans...)
}

func (r *Repository) ActiveLoans() []Loan {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []Loan
	for _, l := range r.loans {
		if l.Active() {
			out = append(out, l)
		}
	}
	return out
}

// LoanViews joins every loan with its user name and book title; missing
// references show as "Unknown".
func (r *Repository) LoanViews() []LoanView {
	r.mu.Lock()
	defer r.mu.Unlock()
	views := make([]LoanView, 0, len(r.loans))
	for _, l := range r.loans {
		v := LoanView{Loan: l, UserName: "Unknown", BookTitle: "Unknown"}
		if i, ok := r.userIdx[l.UserID]; ok {
			v.UserName = r.users[i].Name
		}
		if i, ok := r.bookIdx[l.BookID]; ok {
			v.BookTitle = r.books[i].Title
		}
		views = append(views, v)
	}
	return views
}
