package service

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/readnest/library-back/internal/db"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	return conn
}

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

func createUser(t *testing.T, conn *gorm.DB, email string) db.User {
	t.Helper()

	user := db.User{
		Name:     "Test User",
		Email:    email,
		Password: "secret",
	}
	require.NoError(t, conn.Create(&user).Error)
	return user
}

func createAuthor(t *testing.T, conn *gorm.DB, name string) db.Author {
	t.Helper()

	author := db.Author{Name: name}
	require.NoError(t, conn.Create(&author).Error)
	return author
}

func createCategory(t *testing.T, conn *gorm.DB, name string) db.Category {
	t.Helper()

	category := db.Category{Name: name}
	require.NoError(t, conn.Create(&category).Error)
	return category
}

func createBook(t *testing.T, conn *gorm.DB, authorID uint64, isbn string, quantity, available int) db.Book {
	t.Helper()

	book := db.Book{
		Title:     "Test Book " + isbn,
		ISBN:      isbn,
		Published: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Quantity:  quantity,
		Available: available,
		AuthorID:  authorID,
	}
	require.NoError(t, conn.Create(&book).Error)
	return book
}

func reloadBook(t *testing.T, conn *gorm.DB, id uint64) db.Book {
	t.Helper()

	book := db.Book{}
	require.NoError(t, conn.First(&book, id).Error)
	return book
}
