package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/readnest/library-back/internal/service"
)

func (s *HTTPServer) CategoryList(c echo.Context) error {
	categories, meta, err := s.categories.List(pageFromQuery(c))
	if err != nil {
		return err
	}

	resp := make([]CategoryResp, len(categories))
	for i := range categories {
		resp[i] = categoryResp(&categories[i], false)
	}
	return c.JSON(http.StatusOK, ListResp{Data: resp, Meta: meta})
}

func (s *HTTPServer) CategoryGet(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	category, err := s.categories.Get(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categoryResp(category, true))
}

func (s *HTTPServer) CategoryCreate(c echo.Context) error {
	req := CreateCategoryReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	category, err := s.categories.Create(service.CreateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, categoryResp(category, false))
}

func (s *HTTPServer) CategoryUpdate(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	req := UpdateCategoryReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	category, err := s.categories.Update(id, service.UpdateCategoryInput{
		Name:        req.Name,
		Description: req.Description,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, categoryResp(category, false))
}

func (s *HTTPServer) CategoryDelete(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := s.categories.Delete(id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
