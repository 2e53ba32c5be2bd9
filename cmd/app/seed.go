package main

import (
	"time"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gorm.io/gorm"

	"github.com/readnest/library-back/internal/config"
	"github.com/readnest/library-back/internal/db"
)

func seedCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Wipe the database and load sample data",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.NewConfig()
			if err != nil {
				return err
			}
			conn, err := db.Connect(cfg)
			if err != nil {
				return err
			}
			if err := seed(conn); err != nil {
				return err
			}
			cmd.Println("sample data loaded")
			return nil
		},
	}
}

func seed(conn *gorm.DB) error {
	return conn.Transaction(func(tx *gorm.DB) error {
		// wipe in foreign-key order
		for _, model := range []interface{}{
			&db.Loan{}, &db.BookCategory{}, &db.Book{},
			&db.Author{}, &db.Category{}, &db.User{},
		} {
			if res := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(model); res.Error != nil {
				return errors.Wrap(res.Error, "wipe table")
			}
		}

		str := func(s string) *string { return &s }

		categories := []db.Category{
			{Name: "Fiction", Description: str("Novels and stories")},
			{Name: "Technology", Description: str("Programming and engineering books")},
			{Name: "History", Description: str("History books")},
		}
		for i := range categories {
			if res := tx.Create(&categories[i]); res.Error != nil {
				return errors.Wrap(res.Error, "seed category")
			}
		}

		authors := []db.Author{
			{Name: "Haruki Murakami", Bio: str("Japanese novelist")},
			{Name: "Robert C. Martin", Bio: str("American software engineer")},
			{Name: "Ryotaro Shiba", Bio: str("Japanese novelist and historian")},
		}
		for i := range authors {
			if res := tx.Create(&authors[i]); res.Error != nil {
				return errors.Wrap(res.Error, "seed author")
			}
		}

		date := func(value string) time.Time {
			t, _ := time.Parse("2006-01-02", value)
			return t
		}

		books := []db.Book{
			{
				Title:       "1Q84",
				ISBN:        "9784103534204",
				Description: str("A fantasy novel set in a fictional 1984"),
				Published:   date("2009-05-29"),
				Quantity:    5,
				Available:   5,
				AuthorID:    authors[0].ID,
			},
			{
				Title:       "Clean Code",
				ISBN:        "9780132350884",
				Description: str("A handbook of agile software craftsmanship"),
				Published:   date("2008-08-01"),
				Quantity:    3,
				// one copy is out on the seeded open loan
				Available:   2,
				AuthorID:    authors[1].ID,
			},
			{
				Title:       "Clouds Above the Hill",
				ISBN:        "9784167105075",
				Description: str("A historical novel about Meiji-era Japan"),
				Published:   date("1969-09-01"),
				Quantity:    2,
				Available:   2,
				AuthorID:    authors[2].ID,
			},
		}
		for i := range books {
			if res := tx.Create(&books[i]); res.Error != nil {
				return errors.Wrap(res.Error, "seed book")
			}
		}

		links := []db.BookCategory{
			{BookID: books[0].ID, CategoryID: categories[0].ID},
			{BookID: books[1].ID, CategoryID: categories[1].ID},
			{BookID: books[2].ID, CategoryID: categories[0].ID},
			{BookID: books[2].ID, CategoryID: categories[2].ID},
		}
		for i := range links {
			if res := tx.Create(&links[i]); res.Error != nil {
				return errors.Wrap(res.Error, "seed category link")
			}
		}

		users := []db.User{
			{Name: "Taro Sato", Email: "taro@example.com", Password: "password123"},
			{Name: "Hanako Suzuki", Email: "hanako@example.com", Password: "password123"},
		}
		for i := range users {
			if res := tx.Create(&users[i]); res.Error != nil {
				return errors.Wrap(res.Error, "seed user")
			}
		}

		returned := date("2023-01-10")
		loans := []db.Loan{
			{
				UserID:     users[0].ID,
				BookID:     books[0].ID,
				BorrowedAt: date("2023-01-01"),
				DueDate:    date("2023-01-15"),
				ReturnedAt: &returned,
			},
			{
				UserID:     users[1].ID,
				BookID:     books[1].ID,
				BorrowedAt: date("2023-02-01"),
				DueDate:    date("2023-02-15"),
			},
		}
		for i := range loans {
			if res := tx.Create(&loans[i]); res.Error != nil {
				return errors.Wrap(res.Error, "seed loan")
			}
		}

		return nil
	})
}
