package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/readnest/library-back/internal/service"
)

func (s *HTTPServer) UserList(c echo.Context) error {
	users, meta, err := s.users.List(pageFromQuery(c))
	if err != nil {
		return err
	}

	resp := make([]UserResp, len(users))
	for i := range users {
		resp[i] = userResp(&users[i], false)
	}
	return c.JSON(http.StatusOK, ListResp{Data: resp, Meta: meta})
}

func (s *HTTPServer) UserGet(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	user, err := s.users.Get(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResp(user, true))
}

func (s *HTTPServer) UserCreate(c echo.Context) error {
	req := CreateUserReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := s.users.Create(service.CreateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, userResp(user, false))
}

func (s *HTTPServer) UserUpdate(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	req := UpdateUserReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	user, err := s.users.Update(id, service.UpdateUserInput{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, userResp(user, false))
}

func (s *HTTPServer) UserDelete(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := s.users.Delete(id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
