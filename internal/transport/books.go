package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/readnest/library-back/internal/service"
)

func (s *HTTPServer) BookList(c echo.Context) error {
	books, meta, err := s.books.List(pageFromQuery(c))
	if err != nil {
		return err
	}

	resp := make([]BookResp, len(books))
	for i := range books {
		resp[i] = bookResp(&books[i], false)
	}
	return c.JSON(http.StatusOK, ListResp{Data: resp, Meta: meta})
}

func (s *HTTPServer) BookGet(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	book, err := s.books.Get(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookResp(book, true))
}

func (s *HTTPServer) BookCreate(c echo.Context) error {
	req := CreateBookReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	book, err := s.books.Create(service.CreateBookInput{
		Title:       req.Title,
		ISBN:        req.ISBN,
		Description: req.Description,
		Published:   req.Published,
		Quantity:    req.Quantity,
		Available:   req.Available,
		AuthorID:    req.AuthorID,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, bookResp(book, false))
}

func (s *HTTPServer) BookUpdate(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	req := UpdateBookReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	book, err := s.books.Update(id, service.UpdateBookInput{
		Title:       req.Title,
		ISBN:        req.ISBN,
		Description: req.Description,
		Published:   req.Published,
		Quantity:    req.Quantity,
		AuthorID:    req.AuthorID,
		CategoryIDs: req.CategoryIDs,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, bookResp(book, false))
}

func (s *HTTPServer) BookDelete(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := s.books.Delete(id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
