package transport

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/fx/fxtest"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/readnest/library-back/internal/config"
	"github.com/readnest/library-back/internal/db"
	"github.com/readnest/library-back/internal/service"
)

func newTestServer(t *testing.T, env string) (*HTTPServer, *gorm.DB) {
	t.Helper()

	conn, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.Migrate(conn))

	cfg := &config.Config{
		Host: "127.0.0.1",
		Port: "0",
		Env:  env,
	}
	log := zap.NewNop().Sugar()

	// the lifecycle hooks are registered but never started, requests
	// go straight through the router
	server := NewHTTPServer(
		fxtest.NewLifecycle(t),
		cfg,
		log,
		service.NewUserService(conn, log),
		service.NewAuthorService(conn, log),
		service.NewCategoryService(conn, log),
		service.NewBookService(conn, log),
		service.NewLoanService(conn, log),
	)
	return server, conn
}

func do(t *testing.T, s *HTTPServer, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	s.echo.ServeHTTP(rec, req)
	return rec
}

func decode(t *testing.T, rec *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), v))
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, config.EnvDevelopment)

	rec := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status": "ok"}`, rec.Body.String())
}

func TestUserResponsesNeverCarryPassword(t *testing.T) {
	s, _ := newTestServer(t, config.EnvDevelopment)

	rec := do(t, s, http.MethodPost, "/api/users", `{
		"name": "Alice",
		"email": "alice@example.com",
		"password": "secret123"
	}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.NotContains(t, rec.Body.String(), "password")
	assert.NotContains(t, rec.Body.String(), "secret123")

	created := map[string]interface{}{}
	decode(t, rec, &created)
	id := int(created["id"].(float64))

	for _, path := range []string{"/api/users", fmt.Sprintf("/api/users/%d", id)} {
		rec := do(t, s, http.MethodGet, path, "")
		require.Equal(t, http.StatusOK, rec.Code)
		assert.NotContains(t, rec.Body.String(), "password")
	}
}

func TestMalformedIDParam(t *testing.T) {
	s, _ := newTestServer(t, config.EnvDevelopment)

	for _, path := range []string{"/api/users/abc", "/api/books/abc", "/api/loans/abc"} {
		rec := do(t, s, http.MethodGet, path, "")
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		assert.Contains(t, rec.Body.String(), "invalid id format")
	}
}

func TestNotFoundTranslation(t *testing.T) {
	s, _ := newTestServer(t, config.EnvDevelopment)

	rec := do(t, s, http.MethodGet, "/api/users/42", "")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"message": "user not found"}`, rec.Body.String())
}

func TestCreateUserValidation(t *testing.T) {
	s, _ := newTestServer(t, config.EnvDevelopment)

	rec := do(t, s, http.MethodPost, "/api/users", `{"name": "No Email"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = do(t, s, http.MethodPost, "/api/users", `{"name": "Bad Email", "email": "nope", "password": "pw"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestBookCategoriesAreFlat(t *testing.T) {
	s, conn := newTestServer(t, config.EnvDevelopment)

	author := db.Author{Name: "Author"}
	require.NoError(t, conn.Create(&author).Error)
	fiction := db.Category{Name: "Fiction"}
	history := db.Category{Name: "History"}
	require.NoError(t, conn.Create(&fiction).Error)
	require.NoError(t, conn.Create(&history).Error)

	rec := do(t, s, http.MethodPost, "/api/books", fmt.Sprintf(`{
		"title": "A Book",
		"isbn": "isbn-1",
		"published": "2020-01-01T00:00:00Z",
		"quantity": 3,
		"authorId": %d,
		"categoryIds": [%d, %d]
	}`, author.ID, fiction.ID, history.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	created := struct {
		ID         uint64 `json:"id"`
		Available  int    `json:"available"`
		Categories []struct {
			ID   uint64 `json:"id"`
			Name string `json:"name"`
		} `json:"categories"`
	}{}
	decode(t, rec, &created)

	assert.Equal(t, 3, created.Available)
	require.Len(t, created.Categories, 2)
	// flat category objects, not join rows
	names := []string{created.Categories[0].Name, created.Categories[1].Name}
	assert.ElementsMatch(t, []string{"Fiction", "History"}, names)

	// an empty list clears the association
	rec = do(t, s, http.MethodPut, fmt.Sprintf("/api/books/%d", created.ID), `{"categoryIds": []}`)
	require.Equal(t, http.StatusOK, rec.Code)

	cleared := struct {
		Categories []interface{} `json:"categories"`
	}{}
	decode(t, rec, &cleared)
	assert.Len(t, cleared.Categories, 0)
}

func TestLoanLifecycleOverHTTP(t *testing.T) {
	s, conn := newTestServer(t, config.EnvDevelopment)

	user := db.User{Name: "Reader", Email: "reader@example.com", Password: "pw"}
	require.NoError(t, conn.Create(&user).Error)
	author := db.Author{Name: "Author"}
	require.NoError(t, conn.Create(&author).Error)
	book := db.Book{
		Title:     "A Book",
		ISBN:      "isbn-1",
		Published: time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		Quantity:  3,
		Available: 3,
		AuthorID:  author.ID,
	}
	require.NoError(t, conn.Create(&book).Error)

	rec := do(t, s, http.MethodPost, "/api/loans", fmt.Sprintf(`{
		"userId": %d,
		"bookId": %d,
		"dueDate": "2030-01-01T00:00:00Z"
	}`, user.ID, book.ID))
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	loan := struct {
		ID         uint64      `json:"id"`
		ReturnedAt interface{} `json:"returnedAt"`
		User       struct {
			Email string `json:"email"`
		} `json:"user"`
	}{}
	decode(t, rec, &loan)
	assert.Nil(t, loan.ReturnedAt)
	assert.Equal(t, user.Email, loan.User.Email)

	assertAvailable := func(want int) {
		rec := do(t, s, http.MethodGet, fmt.Sprintf("/api/books/%d", book.ID), "")
		require.Equal(t, http.StatusOK, rec.Code)
		got := struct {
			Available int `json:"available"`
		}{}
		decode(t, rec, &got)
		assert.Equal(t, want, got.Available)
	}
	assertAvailable(2)

	// delete while outstanding is rejected
	rec = do(t, s, http.MethodDelete, fmt.Sprintf("/api/loans/%d", loan.ID), "")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "cannot delete an outstanding loan")

	// return
	rec = do(t, s, http.MethodPut, fmt.Sprintf("/api/loans/%d", loan.ID), `{"returnedAt": "2030-01-02T00:00:00Z"}`)
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	returned := struct {
		ReturnedAt *string `json:"returnedAt"`
	}{}
	decode(t, rec, &returned)
	assert.NotNil(t, returned.ReturnedAt)
	assertAvailable(3)

	// now it can be deleted
	rec = do(t, s, http.MethodDelete, fmt.Sprintf("/api/loans/%d", loan.ID), "")
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Empty(t, rec.Body.String())
}

func TestBorrowRejectedWhenUnavailable(t *testing.T) {
	s, conn := newTestServer(t, config.EnvDevelopment)

	user := db.User{Name: "Reader", Email: "reader@example.com", Password: "pw"}
	require.NoError(t, conn.Create(&user).Error)
	author := db.Author{Name: "Author"}
	require.NoError(t, conn.Create(&author).Error)
	book := db.Book{
		Title:     "A Book",
		ISBN:      "isbn-1",
		Published: time.Now(),
		Quantity:  2,
		Available: 0,
		AuthorID:  author.ID,
	}
	require.NoError(t, conn.Create(&book).Error)

	rec := do(t, s, http.MethodPost, "/api/loans", fmt.Sprintf(`{
		"userId": %d,
		"bookId": %d,
		"dueDate": "2030-01-01T00:00:00Z"
	}`, user.ID, book.ID))
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "this book is currently not available")

	var count int64
	require.NoError(t, conn.Model(&db.Loan{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestPaginationMetaEchoesParams(t *testing.T) {
	s, conn := newTestServer(t, config.EnvDevelopment)

	for i := 0; i < 7; i++ {
		user := db.User{Name: "U", Email: fmt.Sprintf("u%d@example.com", i), Password: "pw"}
		require.NoError(t, conn.Create(&user).Error)
	}

	rec := do(t, s, http.MethodGet, "/api/users?page=1&limit=5", "")
	require.Equal(t, http.StatusOK, rec.Code)

	got := struct {
		Data []interface{} `json:"data"`
		Meta struct {
			Total      int64 `json:"total"`
			Page       int   `json:"page"`
			Limit      int   `json:"limit"`
			TotalPages int   `json:"totalPages"`
		} `json:"meta"`
	}{}
	decode(t, rec, &got)

	assert.Len(t, got.Data, 5)
	assert.Equal(t, int64(7), got.Meta.Total)
	assert.Equal(t, 1, got.Meta.Page)
	assert.Equal(t, 5, got.Meta.Limit)
	assert.Equal(t, 2, got.Meta.TotalPages)
}

func TestErrorDetailSuppressedInProduction(t *testing.T) {
	cause := errors.New("boom")

	dev, _ := newTestServer(t, config.EnvDevelopment)
	rec := httptest.NewRecorder()
	c := dev.echo.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	dev.handleError(cause, c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), "an unexpected error occurred")
	assert.Contains(t, rec.Body.String(), "boom")

	prod, _ := newTestServer(t, config.EnvProduction)
	rec = httptest.NewRecorder()
	c = prod.echo.NewContext(httptest.NewRequest(http.MethodGet, "/", nil), rec)
	prod.handleError(cause, c)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.NotContains(t, rec.Body.String(), "boom")
}
