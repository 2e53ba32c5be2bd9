package service

import (
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/readnest/library-back/internal/db"
)

type (
	UserService struct {
		db     *gorm.DB
		logger *zap.SugaredLogger
	}

	CreateUserInput struct {
		Name     string
		Email    string
		Password string
	}

	UpdateUserInput struct {
		Name     *string
		Email    *string
		Password *string
	}
)

func NewUserService(conn *gorm.DB, l *zap.SugaredLogger) *UserService {
	return &UserService{
		db:     conn,
		logger: l,
	}
}

func (s *UserService) List(page PageRequest) ([]db.User, PageMeta, error) {
	users := make([]db.User, 0)
	res := s.db.Order("id").Offset(page.Offset()).Limit(page.Limit).Find(&users)
	if res.Error != nil {
		return nil, PageMeta{}, errors.Wrap(res.Error, "list users")
	}

	var total int64
	res = s.db.Model(&db.User{}).Count(&total)
	if res.Error != nil {
		return nil, PageMeta{}, errors.Wrap(res.Error, "count users")
	}

	return users, NewPageMeta(total, page), nil
}

func (s *UserService) Get(id uint64) (*db.User, error) {
	user := db.User{}
	res := s.db.
		Preload("Loans", func(tx *gorm.DB) *gorm.DB { return tx.Order("borrowed_at DESC") }).
		Preload("Loans.Book").
		Preload("Loans.Book.Author").
		First(&user, id)
	if res.Error != nil {
		if res.Error == gorm.ErrRecordNotFound {
			return nil, NotFound("user not found")
		}
		return nil, errors.Wrap(res.Error, "get user")
	}
	return &user, nil
}

func (s *UserService) Create(in CreateUserInput) (*db.User, error) {
	var count int64
	res := s.db.Model(&db.User{}).Where("email = ?", in.Email).Count(&count)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "check email uniqueness")
	}
	if count > 0 {
		return nil, Conflict("email is already in use")
	}

	model := db.User{
		Name:     in.Name,
		Email:    in.Email,
		Password: in.Password,
	}
	res = s.db.Create(&model)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "create user")
	}

	return &model, nil
}

func (s *UserService) Update(id uint64, in UpdateUserInput) (*db.User, error) {
	user := db.User{}
	res := s.db.First(&user, id)
	if res.Error != nil {
		if res.Error == gorm.ErrRecordNotFound {
			return nil, NotFound("user not found")
		}
		return nil, errors.Wrap(res.Error, "get user")
	}

	if in.Email != nil && *in.Email != user.Email {
		var count int64
		res := s.db.Model(&db.User{}).Where("email = ?", *in.Email).Count(&count)
		if res.Error != nil {
			return nil, errors.Wrap(res.Error, "check email uniqueness")
		}
		if count > 0 {
			return nil, Conflict("email is already in use")
		}
	}

	updates := map[string]interface{}{}
	if in.Name != nil {
		updates["name"] = *in.Name
	}
	if in.Email != nil {
		updates["email"] = *in.Email
	}
	if in.Password != nil {
		updates["password"] = *in.Password
	}
	if len(updates) > 0 {
		res = s.db.Model(&user).Updates(updates)
		if res.Error != nil {
			return nil, errors.Wrap(res.Error, "update user")
		}
	}

	res = s.db.First(&user, id)
	if res.Error != nil {
		return nil, errors.Wrap(res.Error, "reload user")
	}
	return &user, nil
}

func (s *UserService) Delete(id uint64) error {
	user := db.User{}
	res := s.db.First(&user, id)
	if res.Error != nil {
		if res.Error == gorm.ErrRecordNotFound {
			return NotFound("user not found")
		}
		return errors.Wrap(res.Error, "get user")
	}

	var active int64
	res = s.db.Model(&db.Loan{}).Where("user_id = ? AND returned_at IS NULL", id).Count(&active)
	if res.Error != nil {
		return errors.Wrap(res.Error, "count outstanding loans")
	}
	if active > 0 {
		return Conflict("cannot delete a user with books on loan")
	}

	res = s.db.Delete(&db.User{}, id)
	if res.Error != nil {
		return errors.Wrap(res.Error, "delete user")
	}
	return nil
}
