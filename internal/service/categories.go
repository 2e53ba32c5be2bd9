package service

import (
	"github.com/Masterminds/squirrel"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/readnest/library-back/internal/db"
)

type (
	CategoryService struct {
		db     *gorm.DB
		logger *zap.SugaredLogger
	}

	CreateCategoryInput struct {
		Name        string
		Description *string
	}

	UpdateCategoryInput struct {
		Name        *string
		Description *string
	}
)

func NewCategoryService(conn *gorm.DB, l *zap.SugaredLogger) *CategoryService {
	return &CategoryService{
		db:     conn,
		logger: l,
	}
}

func (s *CategoryService) List(page PageRequest) ([]db.Category, PageMeta, error) {
	categories := make([]db.Category, 0)
	res := s.db.Order("id").Offset(page.Offset()).Limit(page.Limit).Find(&categories)
	if res.Error != nil {
		return nil, PageMeta{}, errors.Wrap(res.Error, "list categories")
	}

	var total int64
	res = s.db.Model(&db.Category{}).Count(&total)
	if res.Error != nil {
		return nil, PageMeta{}, errors.Wrap(res.Error, "count categories")
	}

	return categories, NewPageMeta(total, page), nil
}

// Get returns the category with its member books, each carrying its
// author. The membership query goes through the join table directly.
func (s *CategoryService) Get(id uint64) (*db.Category, error) {
	category := db.Category{}
	res := s.db.First(&category, id)
	if res.Error != nil {
		if res.Error == gorm.ErrRecordNotFound {
			return nil, NotFound("category not found")
		}
		return nil, errors.Wrap(res.Error, "get category")
	}

	sql, args, err := squirrel.
		Select("b.*").From("books b").
		Join("book_categories bc ON b.id = bc.book_id").
		Where(squirrel.Eq{"bc.category_id": id}).
		OrderBy("b.id").
		ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "build sql")
	}

	books := make([]db.Book, 0)
	res = s.db.Raw(sql, args...).Scan(&books)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "scan category books")
	}

	if err := s.attachAuthors(books); err != nil {
		return nil, err
	}

	category.Books = books
	return &category, nil
}

func (s *CategoryService) attachAuthors(books []db.Book) error {
	if len(books) == 0 {
		return nil
	}

	ids := make([]uint64, 0, len(books))
	for i := range books {
		ids = append(ids, books[i].AuthorID)
	}

	authors := make([]db.Author, 0)
	res := s.db.Where("id IN ?", ids).Find(&authors)
	if res.Error != nil {
		return errors.Wrap(res.Error, "load book authors")
	}

	byID := make(map[uint64]db.Author, len(authors))
	for i := range authors {
		byID[authors[i].ID] = authors[i]
	}
	for i := range books {
		books[i].Author = byID[books[i].AuthorID]
	}
	return nil
}

func (s *CategoryService) Create(in CreateCategoryInput) (*db.Category, error) {
	var count int64
	res := s.db.Model(&db.Category{}).Where("name = ?", in.Name).Count(&count)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "check name uniqueness")
	}
	if count > 0 {
		return nil, Conflict("category name is already in use")
	}

	model := db.Category{
		Name:        in.Name,
		Description: in.Description,
	}
	res = s.db.Create(&model)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "create category")
	}
	return &model, nil
}

func (s *CategoryService) Update(id uint64, in UpdateCategoryInput) (*db.Category, error) {
	category := db.Category{}
	res := s.db.First(&category, id)
	if res.Error != nil {
		if res.Error == gorm.ErrRecordNotFound {
			return nil, NotFound("category not found")
		}
		return nil, errors.Wrap(res.Error, "get category")
	}

	if in.Name != nil && *in.Name != category.Name {
		var count int64
		res := s.db.Model(&db.Category{}).Where("name = ?", *in.Name).Count(&count)
		if res.Error != nil {
			return nil, errors.Wrap(res.Error, "check name uniqueness")
		}
		if count > 0 {
			return nil, Conflict("category name is already in use")
		}
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Description != nil {
		updates["description"] = *in.Description
	}
	if len(updates) > 0 {
		res = s.db.Model(&category).Updates(updates)
		if res.Error != nil {
			return nil, errors.Wrap(res.Error, "update category")
		}
	}

	res = s.db.First(&category, id)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "reload category")
	}
	return &category, nil
}

func (s *CategoryService) Delete(id uint64) error {
	category := db.Category{}
	res := s.db.First(&category, id)
	if res.Error != nil {
		if res.Error == gorm.ErrRecordNotFound {
			return NotFound("category not found")
		}
		return errors.Wrap(res.Error, "get category")
	}

	var joined int64
	res = s.db.Model(&db.BookCategory{}).Where("category_id = ?", id).Count(&joined)
	if res.Error != nil {
		return errors.Wrap(res.Error, "count referencing books")
	}
	if joined > 0 {
		return Conflict("cannot delete a category with associated books")
	}

	res = s.db.Delete(&db.Category{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete category")
	}
	return nil
}
