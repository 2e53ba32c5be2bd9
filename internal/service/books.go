package service

import (
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/readnest/library-back/internal/db"
)

type (
	BookService struct {
		db     *gorm.DB
		logger *zap.SugaredLogger
	}

	CreateBookInput struct {
		Title       string
		ISBN        string
		Description *string
		Published   time.Time
		Quantity    int
		Available   *int
		AuthorID    uint64
		CategoryIDs []uint64
	}

	UpdateBookInput struct {
		Title       *string
		ISBN        *string
		Description *string
		Published   *time.Time
		Quantity    *int
		AuthorID    *uint64
		// nil leaves the category set untouched, an empty slice clears it
		CategoryIDs *[]uint64
	}
)

func NewBookService(conn *gorm.DB, l *zap.SugaredLogger) *BookService {
	return &BookService{
		db:     conn,
		logger: l,
	}
}

func (s *BookService) List(page PageRequest) ([]db.Book, PageMeta, error) {
	books := make([]db.Book, 0)
	res := s.db.
		Preload("Author").
		Preload("Categories").
		Order("id").Offset(page.Offset()).Limit(page.Limit).
		Find(&books)
	if res.Error != nil {
		return nil, PageMeta{}, errors.Wrap(res.Error, "list books")
	}

	var total int64
	res = s.db.Model(&db.Book{}).Count(&total)
	if res.Error != nil {
		return nil, PageMeta{}, errors.Wrap(res.Error, "count books")
	}

	return books, NewPageMeta(total, page), nil
}

func (s *BookService) Get(id uint64) (*db.Book, error) {
	book := db.Book{}
	res := s.db.
		Preload("Author").
		Preload("Categories").
		Preload("Loans").
		Preload("Loans.User").
		First(&book, id)
	if res.Error != nil {
		if res.Error == gorm.ErrRecordNotFound {
			return nil, NotFound("book not found")
		}
		return nil, errors.Wrap(res.Error, "get book")
	}
	return &book, nil
}

func (s *BookService) Create(in CreateBookInput) (*db.Book, error) {
	var count int64
	res := s.db.Model(&db.Book{}).Where("isbn = ?", in.ISBN).Count(&count)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "check isbn uniqueness")
	}
	if count > 0 {
		return nil, Conflict("isbn is already in use")
	}

	if err := s.checkAuthorExists(in.AuthorID); err != nil {
		return nil, err
	}
	if err := s.checkCategoriesExist(in.CategoryIDs); err != nil {
		return nil, err
	}

	available := in.Quantity
	if in.Available != nil {
		available = *in.Available
	}

	model := db.Book{
		Title:       in.Title,
		ISBN:        in.ISBN,
		Description: in.Description,
		Published:   in.Published,
		Quantity:    in.Quantity,
		Available:   available,
		AuthorID:    in.AuthorID,
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if res := tx.Create(&model); res.Error != nil {
			return errors.Wrap(res.Error, "create book")
		}
		for _, categoryID := range in.CategoryIDs {
			row := db.BookCategory{BookID: model.ID, CategoryID: categoryID}
			if res := tx.Create(&row); res.Error != nil {
				return errors.Wrap(res.Error, "create category link")
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(model.ID)
}

func (s *BookService) Update(id uint64, in UpdateBookInput) (*db.Book, error) {
	book := db.Book{}
	res := s.db.First(&book, id)
	if res.Error != nil {
		if res.Error == gorm.ErrRecordNotFound {
			return nil, NotFound("book not found")
		}
		return nil, errors.Wrap(res.Error, "get book")
	}

	if in.ISBN != nil && *in.ISBN != book.ISBN {
		var count int64
		res := s.db.Model(&db.Book{}).Where("isbn = ?", *in.ISBN).Count(&count)
		if res.Error != nil {
			return nil, errors.Wrap(res.Error, "check isbn uniqueness")
		}
		if count > 0 {
			return nil, Conflict("isbn is already in use")
		}
	}

	if in.AuthorID != nil {
		if err := s.checkAuthorExists(*in.AuthorID); err != nil {
			return nil, err
		}
	}
	if in.CategoryIDs != nil {
		if err := s.checkCategoriesExist(*in.CategoryIDs); err != nil {
			return nil, err
		}
	}

	updates := map[string]interface{}{}
	if in.Title != nil {
		updates["title"] = *in.Title
	}
	if in.ISBN != nil {
		updates["isbn"] = *in.ISBN
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if in.Published != nil {
		updates["published"] = *in.Published
	}
	if in.Quantity != nil {
		updates["quantity"] = *in.Quantity
	}
	if in.AuthorID != nil {
		updates["author_id"] = *in.AuthorID
	}

	err := s.db.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if res := tx.Model(&db.Book{}).Where("id = ?", id).Updates(updates); res.Error != nil {
				return errors.Wrap(res.Error, "update book")
			}
		}

		if in.CategoryIDs != nil {
			if res := tx.Where("book_id = ?", id).Delete(&db.BookCategory{}); res.Error != nil {
				return errors.Wrap(res.Error, "clear category links")
			}
			for _, categoryID := range *in.CategoryIDs {
				row := db.BookCategory{BookID: id, CategoryID: categoryID}
				if res := tx.Create(&row); res.Error != nil {
					return errors.Wrap(res.Error, "create category link")
				}
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.Get(id)
}

func (s *BookService) Delete(id uint64) error {
	book := db.Book{}
	res := s.db.First(&book, id)
	if res.Error != nil {
		if res.Error == gorm.ErrRecordNotFound {
			return NotFound("book not found")
		}
		return errors.Wrap(res.Error, "get book")
	}

	var active int64
	res = s.db.Model(&db.Loan{}).Where("book_id = ? AND returned_at IS NULL", id).Count(&active)
	if res.Error != nil {
		return errors.Wrap(res.Error, "count outstanding loans")
	}
	if active > 0 {
		return Conflict("cannot delete a book that is currently on loan")
	}

	// the book owns its join rows and its loan history
	return s.db.Transaction(func(tx *gorm.DB) error {
		if res := tx.Where("book_id = ?", id).Delete(&db.BookCategory{}); res.Error != nil {
			return errors.Wrap(res.Error, "delete category links")
		}
		if res := tx.Where("book_id = ?", id).Delete(&db.Loan{}); res.Error != nil {
			return errors.Wrap(res.Error, "delete loan history")
		}
		if res := tx.Delete(&db.Book{}, id); res.Error != nil {
			return errors.Wrap(res.Error, "delete book")
		}
		return nil
	})
}

func (s *BookService) checkAuthorExists(id uint64) error {
	author := db.Author{}
	res := s.db.First(&author, id)
	if res.Error != nil {
		if res.Error == gorm.ErrRecordNotFound {
			return NotFound("author not found")
		}
		return errors.Wrap(res.Error, "get author")
	}
	return nil
}

func (s *BookService) checkCategoriesExist(ids []uint64) error {
	if len(ids) == 0 {
		return nil
	}
	var count int64
	res := s.db.Model(&db.Category{}).Where("id IN ?", ids).Count(&count)
	if res.Error != nil {
		return errors.Wrap(res.Error, "count categories")
	}
	if count != int64(len(ids)) {
		return NotFound("some categories were not found")
	}
	return nil
}
