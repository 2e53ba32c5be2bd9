package transport

import (
	"time"

	"github.com/readnest/library-back/internal/db"
	"github.com/readnest/library-back/internal/service"
)

type (
	// OptionalTime is a nullable timestamp that remembers whether the
	// field appeared in the request body at all. `"returnedAt": null`
	// reverses a return, an absent field changes nothing.
	OptionalTime struct {
		Set   bool
		Value *time.Time
	}

	ListResp struct {
		Data interface{}      `json:"data"`
		Meta service.PageMeta `json:"meta"`
	}

	CreateUserReq struct {
		Name     string `json:"name" validate:"required"`
		Email    string `json:"email" validate:"required,email"`
		Password string `json:"password" validate:"required"`
	}

	UpdateUserReq struct {
		Name     *string `json:"name"`
		Email    *string `json:"email" validate:"omitempty,email"`
		Password *string `json:"password"`
	}

	// UserResp never carries the password column.
	UserResp struct {
		ID        uint64     `json:"id"`
		Name      string     `json:"name"`
		Email     string     `json:"email"`
		CreatedAt time.Time  `json:"createdAt"`
		UpdatedAt time.Time  `json:"updatedAt"`
		Loans     []LoanResp `json:"loans,omitempty"`
	}

	UserBrief struct {
		ID    uint64 `json:"id"`
		Name  string `json:"name"`
		Email string `json:"email"`
	}

	CreateAuthorReq struct {
		Name string  `json:"name" validate:"required"`
		Bio  *string `json:"bio"`
	}

	UpdateAuthorReq struct {
		Name *string `json:"name"`
		Bio  *string `json:"bio"`
	}

	AuthorResp struct {
		ID        uint64     `json:"id"`
		Name      string     `json:"name"`
		Bio       *string    `json:"bio"`
		CreatedAt time.Time  `json:"createdAt"`
		UpdatedAt time.Time  `json:"updatedAt"`
		Books     []BookResp `json:"books,omitempty"`
	}

	CreateCategoryReq struct {
		Name        string  `json:"name" validate:"required"`
		Description *string `json:"description"`
	}

	UpdateCategoryReq struct {
		Name        *string `json:"name"`
		Description *string `json:"description"`
	}

	CategoryResp struct {
		ID          uint64     `json:"id"`
		Name        string     `json:"name"`
		Description *string    `json:"description"`
		CreatedAt   time.Time  `json:"createdAt"`
		UpdatedAt   time.Time  `json:"updatedAt"`
		Books       []BookResp `json:"books,omitempty"`
	}

	CreateBookReq struct {
		Title       string    `json:"title" validate:"required"`
		ISBN        string    `json:"isbn" validate:"required"`
		Description *string   `json:"description"`
		Published   time.Time `json:"published" validate:"required"`
		Quantity    int       `json:"quantity" validate:"required,gte=1"`
		Available   *int      `json:"available" validate:"omitempty,gte=0,ltefield=Quantity"`
		AuthorID    uint64    `json:"authorId" validate:"required"`
		CategoryIDs []uint64  `json:"categoryIds"`
	}

	UpdateBookReq struct {
		Title       *string    `json:"title"`
		ISBN        *string    `json:"isbn"`
		Description *string    `json:"description"`
		Published   *time.Time `json:"published"`
		Quantity    *int       `json:"quantity" validate:"omitempty,gte=1"`
		AuthorID    *uint64    `json:"authorId"`
		CategoryIDs *[]uint64  `json:"categoryIds"`
	}

	// BookResp carries the category list flattened: plain category
	// objects, never join rows.
	BookResp struct {
		ID          uint64         `json:"id"`
		Title       string         `json:"title"`
		ISBN        string         `json:"isbn"`
		Description *string        `json:"description"`
		Published   time.Time      `json:"published"`
		Quantity    int            `json:"quantity"`
		Available   int            `json:"available"`
		AuthorID    uint64         `json:"authorId"`
		Author      *AuthorResp    `json:"author,omitempty"`
		Categories  []CategoryResp `json:"categories"`
		Loans       []LoanResp     `json:"loans,omitempty"`
		CreatedAt   time.Time      `json:"createdAt"`
		UpdatedAt   time.Time      `json:"updatedAt"`
	}

	CreateLoanReq struct {
		UserID  uint64    `json:"userId" validate:"required"`
		BookID  uint64    `json:"bookId" validate:"required"`
		DueDate time.Time `json:"dueDate" validate:"required"`
	}

	UpdateLoanReq struct {
		DueDate    *time.Time   `json:"dueDate"`
		ReturnedAt OptionalTime `json:"returnedAt"`
	}

	LoanResp struct {
		ID         uint64     `json:"id"`
		UserID     uint64     `json:"userId"`
		BookID     uint64     `json:"bookId"`
		BorrowedAt time.Time  `json:"borrowedAt"`
		DueDate    time.Time  `json:"dueDate"`
		ReturnedAt *time.Time `json:"returnedAt"`
		User       *UserBrief `json:"user,omitempty"`
		Book       *BookResp  `json:"book,omitempty"`
		CreatedAt  time.Time  `json:"createdAt"`
		UpdatedAt  time.Time  `json:"updatedAt"`
	}
)

func (o *OptionalTime) UnmarshalJSON(b []byte) error {
	o.Set = true
	if string(b) == "null" {
		o.Value = nil
		return nil
	}
	t := time.Time{}
	if err := t.UnmarshalJSON(b); err != nil {
		return err
	}
	o.Value = &t
	return nil
}

func userResp(u *db.User, withLoans bool) UserResp {
	resp := UserResp{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
	if withLoans {
		resp.Loans = make([]LoanResp, len(u.Loans))
		for i := range u.Loans {
			resp.Loans[i] = loanResp(&u.Loans[i], false)
			resp.Loans[i].Book = bookRespPtr(&u.Loans[i].Book)
		}
	}
	return resp
}

func userBrief(u *db.User) *UserBrief {
	if u.ID == 0 {
		return nil
	}
	return &UserBrief{
		ID:    u.ID,
		Name:  u.Name,
		Email: u.Email,
	}
}

func authorResp(a *db.Author, withBooks bool) AuthorResp {
	resp := AuthorResp{
		ID:        a.ID,
		Name:      a.Name,
		Bio:       a.Bio,
		CreatedAt: a.CreatedAt,
		UpdatedAt: a.UpdatedAt,
	}
	if withBooks {
		resp.Books = make([]BookResp, len(a.Books))
		for i := range a.Books {
			resp.Books[i] = bookResp(&a.Books[i], false)
		}
	}
	return resp
}

func categoryResp(c *db.Category, withBooks bool) CategoryResp {
	resp := CategoryResp{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
	if withBooks {
		resp.Books = make([]BookResp, len(c.Books))
		for i := range c.Books {
			resp.Books[i] = bookResp(&c.Books[i], false)
		}
	}
	return resp
}

func bookResp(b *db.Book, withLoans bool) BookResp {
	resp := BookResp{
		ID:          b.ID,
		Title:       b.Title,
		ISBN:        b.ISBN,
		Description: b.Description,
		Published:   b.Published,
		Quantity:    b.Quantity,
		Available:   b.Available,
		AuthorID:    b.AuthorID,
		Categories:  make([]CategoryResp, len(b.Categories)),
		CreatedAt:   b.CreatedAt,
		UpdatedAt:   b.UpdatedAt,
	}
	if b.Author.ID != 0 {
		author := authorResp(&b.Author, false)
		resp.Author = &author
	}
	for i := range b.Categories {
		resp.Categories[i] = categoryResp(&b.Categories[i], false)
	}
	if withLoans {
		resp.Loans = make([]LoanResp, len(b.Loans))
		for i := range b.Loans {
			resp.Loans[i] = loanResp(&b.Loans[i], false)
			resp.Loans[i].User = userBrief(&b.Loans[i].User)
		}
	}
	return resp
}

func bookRespPtr(b *db.Book) *BookResp {
	if b.ID == 0 {
		return nil
	}
	resp := bookResp(b, false)
	return &resp
}

func loanResp(l *db.Loan, withRefs bool) LoanResp {
	resp := LoanResp{
		ID:         l.ID,
		UserID:     l.UserID,
		BookID:     l.BookID,
		BorrowedAt: l.BorrowedAt,
		DueDate:    l.DueDate,
		ReturnedAt: l.ReturnedAt,
		CreatedAt:  l.CreatedAt,
		UpdatedAt:  l.UpdatedAt,
	}
	if withRefs {
		resp.User = userBrief(&l.User)
		resp.Book = bookRespPtr(&l.Book)
	}
	return resp
}
