package service

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/readnest/library-back/internal/db"
)

type (
	// LoanService coordinates every write that touches Book.Available.
	// No other code path mutates that column.
	LoanService struct {
		db     *gorm.DB
		logger *zap.SugaredLogger
	}

	CreateLoanInput struct {
		UserID  uint64
		BookID  uint64
		DueDate time.Time
	}

	UpdateLoanInput struct {
		DueDate *time.Time
		// ReturnedAtSet distinguishes "field absent" from an explicit
		// null, which reverses a return.
		ReturnedAt    *time.Time
		ReturnedAtSet bool
	}
)

func NewLoanService(conn *gorm.DB, l *zap.SugaredLogger) *LoanService {
	return &LoanService{
		db:     conn,
		logger: l,
	}
}

func (s *LoanService) List(page PageRequest, activeOnly bool) ([]db.Loan, PageMeta, error) {
	loans := make([]db.Loan, 0)
	q := s.db.
		Preload("User").
		Preload("Book").
		Preload("Book.Author").
		Order("borrowed_at DESC").
		Offset(page.Offset()).Limit(page.Limit)
	if activeOnly {
		q = q.Where("returned_at IS NULL")
	}
	res := q.Find(&loans)
	if res.Error != nil {
		return nil, PageMeta{}, errors.Wrap(res.Error, "list loans")
	}

	count := s.db.Model(&db.Loan{})
	if activeOnly {
		count = count.Where("returned_at IS NULL")
	}
	var total int64
	res = count.Count(&total)
	if res.Error != nil {
		return nil, PageMeta{}, errors.Wrap(res.Error, "count loans")
	}

	return loans, NewPageMeta(total, page), nil
}

func (s *LoanService) Get(id uint64) (*db.Loan, error) {
	loan := db.Loan{}
	res := s.db.
		Preload("User").
		Preload("Book").
		Preload("Book.Author").
		First(&loan, id)
	if res.Error != nil {
		if res.Error == gorm.ErrRecordNotFound {
			return nil, NotFound("loan not found")
		}
		return nil, errors.Wrap(res.Error, "get loan")
	}
	return &loan, nil
}

// Create borrows a book: the availability check, the decrement and the
// loan insert commit as one transaction or not at all.
func (s *LoanService) Create(in CreateLoanInput) (*db.Loan, error) {
	user := db.User{}
	res := s.db.First(&user, in.UserID)
	if res.Error != nil {
		if res.Error == gorm.ErrRecordNotFound {
			return nil, NotFound("user not found")
		}
		return nil, errors.Wrap(res.Error, "get user")
	}

	book := db.Book{}
	res = s.db.First(&book, in.BookID)
	if res.Error != nil {
		if res.Error == gorm.ErrRecordNotFound {
			return nil, NotFound("book not found")
		}
		return nil, errors.Wrap(res.Error, "get book")
	}

	model := db.Loan{
		UserID:     in.UserID,
		BookID:     in.BookID,
		BorrowedAt: time.Now(),
		DueDate:    in.DueDate,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		current := db.Book{}
		if res := tx.First(&current, in.BookID); res.Error != nil {
			return errors.Wrap(res.Error, "reload book")
		}
		if current.Available <= 0 {
			return Conflict("this book is currently not available")
		}
		if err := decrementAvailability(tx, in.BookID); err != nil {
			return err
		}
		if res := tx.Create(&model); res.Error != nil {
			return errors.Wrap(res.Error, "create loan")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(model.ID)
}

// Update handles three mutually exclusive transitions: returning a
// book, reversing a return, and plain field edits. Whichever branch
// runs commits together with the loan row update.
func (s *LoanService) Update(id uint64, in UpdateLoanInput) (*db.Loan, error) {
	existing := db.Loan{}
	res := s.db.First(&existing, id)
	if res.Error != nil {
		if res.Error == gorm.ErrRecordNotFound {
			return nil, NotFound("loan not found")
		}
		return nil, errors.Wrap(res.Error, "get loan")
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		updates := map[string]interface{}{}
		if in.DueDate != nil {
			updates["due_date"] = *in.DueDate
		}

		switch {
		case in.ReturnedAtSet && in.ReturnedAt != nil && existing.ReturnedAt == nil:
			// return: put the copy back on the shelf
			book := db.Book{}
			if res := tx.First(&book, existing.BookID); res.Error != nil {
				return errors.Wrap(res.Error, "reload book")
			}
			if book.Available >= book.Quantity {
				return Conflict("all copies of this book are already on the shelf")
			}
			if err := incrementAvailability(tx, existing.BookID); err != nil {
				return err
			}
			updates["returned_at"] = *in.ReturnedAt

		case in.ReturnedAtSet && in.ReturnedAt == nil && existing.ReturnedAt != nil:
			// return reversal: the copy may have been lent out again
			book := db.Book{}
			if res := tx.First(&book, existing.BookID); res.Error != nil {
				return errors.Wrap(res.Error, "reload book")
			}
			if book.Available <= 0 {
				return Conflict("this book is currently not available")
			}
			if err := decrementAvailability(tx, existing.BookID); err != nil {
				return err
			}
			updates["returned_at"] = nil

		case in.ReturnedAtSet && in.ReturnedAt != nil && existing.ReturnedAt != nil:
			// already returned, just move the timestamp
			updates["returned_at"] = *in.ReturnedAt
		}

		if len(updates) == 0 {
			return nil
		}
		if res := tx.Model(&db.Loan{}).Where("id = ?", id).Updates(updates); res.Error != nil {
			return errors.Wrap(res.Error, "update loan")
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(id)
}

// Delete removes a loan record. Availability is untouched: it was
// already restored when the loan was returned, and outstanding loans
// cannot be deleted.
func (s *LoanService) Delete(id uint64) error {
	existing := db.Loan{}
	res := s.db.First(&existing, id)
	if res.Error != nil {
		if res.Error == gorm.ErrRecordNotFound {
			return NotFound("loan not found")
		}
		return errors.Wrap(res.Error, "get loan")
	}

	if existing.ReturnedAt == nil {
		return Conflict("cannot delete an outstanding loan")
	}

	res = s.db.Delete(&db.Loan{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete loan")
	}
	return nil
}

func decrementAvailability(tx *gorm.DB, bookID uint64) error {
	res := tx.Model(&db.Book{}).Where("id = ?", bookID).
		UpdateColumn("available", gorm.Expr("available - 1"))
	if res.Error != nil {
		return errors.Wrap(res.Error, "decrement availability")
	}
	return nil
}

func incrementAvailability(tx *gorm.DB, bookID uint64) error {
	res := tx.Model(&db.Book{}).Where("id = ?", bookID).
		UpdateColumn("available", gorm.Expr("available + 1"))
	if res.Error != nil {
		return errors.Wrap(res.Error, "increment availability")
	}
	return nil
}
