package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/readnest/library-back/internal/db"
)

func TestCategoryCreateRejectsDuplicateName(t *testing.T) {
	conn := newTestDB(t)
	categories := NewCategoryService(conn, testLogger())

	_, err := categories.Create(CreateCategoryInput{Name: "Fiction"})
	require.NoError(t, err)

	_, err = categories.Create(CreateCategoryInput{Name: "Fiction"})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.EqualError(t, err, "category name is already in use")
}

func TestCategoryGetFlattensMemberBooks(t *testing.T) {
	conn := newTestDB(t)
	categories := NewCategoryService(conn, testLogger())
	books := NewBookService(conn, testLogger())

	fiction := createCategory(t, conn, "Fiction")
	author := createAuthor(t, conn, "Author")

	for _, isbn := range []string{"isbn-1", "isbn-2"} {
		_, err := books.Create(CreateBookInput{
			Title:       "Book " + isbn,
			ISBN:        isbn,
			Published:   time.Now(),
			Quantity:    1,
			AuthorID:    author.ID,
			CategoryIDs: []uint64{fiction.ID},
		})
		require.NoError(t, err)
	}

	got, err := categories.Get(fiction.ID)
	require.NoError(t, err)
	require.Len(t, got.Books, 2)
	for i := range got.Books {
		assert.Equal(t, author.Name, got.Books[i].Author.Name)
	}
}

func TestCategoryUpdateChecksChangedName(t *testing.T) {
	conn := newTestDB(t)
	categories := NewCategoryService(conn, testLogger())

	fiction := createCategory(t, conn, "Fiction")
	createCategory(t, conn, "History")

	taken := "History"
	_, err := categories.Update(fiction.ID, UpdateCategoryInput{Name: &taken})
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))

	renamed := "Novels"
	got, err := categories.Update(fiction.ID, UpdateCategoryInput{Name: &renamed})
	require.NoError(t, err)
	assert.Equal(t, "Novels", got.Name)
}

func TestCategoryDeleteBlockedByJoinRows(t *testing.T) {
	conn := newTestDB(t)
	categories := NewCategoryService(conn, testLogger())

	fiction := createCategory(t, conn, "Fiction")
	author := createAuthor(t, conn, "Author")
	book := createBook(t, conn, author.ID, "isbn-1", 1, 1)

	link := db.BookCategory{BookID: book.ID, CategoryID: fiction.ID}
	require.NoError(t, conn.Create(&link).Error)

	err := categories.Delete(fiction.ID)
	require.Error(t, err)
	assert.Equal(t, KindConflict, KindOf(err))
	assert.EqualError(t, err, "cannot delete a category with associated books")

	require.NoError(t, conn.Where("book_id = ?", book.ID).Delete(&db.BookCategory{}).Error)
	require.NoError(t, categories.Delete(fiction.ID))
}
