package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/readnest/library-back/internal/service"
)

func (s *HTTPServer) AuthorList(c echo.Context) error {
	authors, meta, err := s.authors.List(pageFromQuery(c))
	if err != nil {
		return err
	}

	resp := make([]AuthorResp, len(authors))
	for i := range authors {
		resp[i] = authorResp(&authors[i], false)
	}
	return c.JSON(http.StatusOK, ListResp{Data: resp, Meta: meta})
}

func (s *HTTPServer) AuthorGet(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	author, err := s.authors.Get(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authorResp(author, true))
}

func (s *HTTPServer) AuthorCreate(c echo.Context) error {
	req := CreateAuthorReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	author, err := s.authors.Create(service.CreateAuthorInput{
		Name: req.Name,
		Bio:  req.Bio,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, authorResp(author, false))
}

func (s *HTTPServer) AuthorUpdate(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	req := UpdateAuthorReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	author, err := s.authors.Update(id, service.UpdateAuthorInput{
		Name: req.Name,
		Bio:  req.Bio,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, authorResp(author, false))
}

func (s *HTTPServer) AuthorDelete(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := s.authors.Delete(id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
