package db

import (
	"time"
)

type (
	// BaseModel is gorm.Model without soft deletes; every delete in
	// this API is a hard delete.
	BaseModel struct {
		ID        uint64 `gorm:"primarykey"`
		CreatedAt time.Time
		UpdatedAt time.Time
	}

	User struct {
		BaseModel
		Name     string `gorm:"not null"`
		Email    string `gorm:"unique;not null"`
		Password string `gorm:"not null"`
		Loans    []Loan
	}

	Author struct {
		BaseModel
		Name  string `gorm:"not null"`
		Bio   *string
		Books []Book
	}

	Category struct {
		BaseModel
		Name        string `gorm:"unique;not null"`
		Description *string
		Books       []Book `gorm:"many2many:book_categories;"`
	}

	Book struct {
		BaseModel
		Title       string `gorm:"not null"`
		ISBN        string `gorm:"column:isbn;unique;not null"`
		Description *string
		Published   time.Time
		Quantity    int        `gorm:"not null"`
		Available   int        `gorm:"not null"`
		AuthorID    uint64     `gorm:"not null"`
		Author      Author
		Categories  []Category `gorm:"many2many:book_categories;"`
		Loans       []Loan
	}

	// BookCategory is the join row behind the Book<->Category relation.
	// Registered with SetupJoinTable so the category set of a book can
	// be replaced wholesale with plain row writes.
	BookCategory struct {
		BookID     uint64 `gorm:"primaryKey"`
		CategoryID uint64 `gorm:"primaryKey"`
	}

	Loan struct {
		BaseModel
		UserID     uint64 `gorm:"not null"`
		User       User
		BookID     uint64 `gorm:"not null"`
		Book       Book
		BorrowedAt time.Time `gorm:"not null"`
		DueDate    time.Time `gorm:"not null"`
		ReturnedAt *time.Time
	}
)
