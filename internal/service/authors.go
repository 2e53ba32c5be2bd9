package service

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/readnest/library-back/internal/db"
)

type (
	AuthorService struct {
		db     *gorm.DB
		logger *zap.SugaredLogger
	}

	CreateAuthorInput struct {
		Name string
		Bio  *string
	}

	UpdateAuthorInput struct {
		Name *string
		Bio  *string
	}
)

func NewAuthorService(conn *gorm.DB, l *zap.SugaredLogger) *AuthorService {
	return &AuthorService{
		db:     conn,
		logger: l,
	}
}

func (s *AuthorService) List(page PageRequest) ([]db.Author, PageMeta, error) {
	authors := make([]db.Author, 0)
	res := s.db.Order("id").Offset(page.Offset()).Limit(page.Limit).Find(&authors)
	if res.Error != nil {
		return nil, PageMeta{}, errors.Wrap(res.Error, "list authors")
	}

	var total int64
	res = s.db.Model(&db.Author{}).Count(&total)
	if res.Error != nil {
		return nil, PageMeta{}, errors.Wrap(res.Error, "count authors")
	}

	return authors, NewPageMeta(total, page), nil
}

func (s *AuthorService) Get(id uint64) (*db.Author, error) {
	author := db.Author{}
	res := s.db.
		Preload("Books").
		Preload("Books.Categories").
		First(&author, id)
	if res.Error != nil {
		if res.Error == gorm.ErrRecordNotFound {
			return nil, NotFound("author not found")
		}
		return nil, errors.Wrap(res.Error, "get author")
	}
	return &author, nil
}

func (s *AuthorService) Create(in CreateAuthorInput) (*db.Author, error) {
	model := db.Author{
		Name: in.Name,
		Bio:  in.Bio,
	}
	res := s.db.Create(&model)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "create author")
	}
	return &model, nil
}

func (s *AuthorService) Update(id uint64, in UpdateAuthorInput) (*db.Author, error) {
	author := db.Author{}
	res := s.db.First(&author, id)
	if res.Error != nil {
		if res.Error == gorm.ErrRecordNotFound {
			return nil, NotFound("author not found")
		}
		return nil, errors.Wrap(res.Error, "get author")
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Bio != nil {
		updates["bio"] = *in.Bio
	}
	if len(updates) > 0 {
		res = s.db.Model(&author).Updates(updates)
		if res.Error != nil {
			return nil, errors.Wrap(res.Error, "update author")
		}
	}

	res = s.db.First(&author, id)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "reload author")
	}
	return &author, nil
}

func (s *AuthorService) Delete(id uint64) error {
	author := db.Author{}
	res := s.db.First(&author, id)
	if res.Error != nil {
		if res.Error == gorm.ErrRecordNotFound {
			return NotFound("author not found")
		}
		return errors.Wrap(res.Error, "get author")
	}

	var books int64
	res = s.db.Model(&db.Book{}).Where("author_id = ?", id).Count(&books)
	if res.Error != nil {
		return errors.Wrap(res.Error, "count referencing books")
	}
	if books > 0 {
		return Conflict("cannot delete an author with associated books")
	}

	res = s.db.Delete(&db.Author{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete author")
	}
	return nil
}
