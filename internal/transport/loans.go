package transport

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/readnest/library-back/internal/service"
)

func (s *HTTPServer) LoanList(c echo.Context) error {
	activeOnly := c.QueryParam("active") == "true"

	loans, meta, err := s.loans.List(pageFromQuery(c), activeOnly)
	if err != nil {
		return err
	}

	resp := make([]LoanResp, len(loans))
	for i := range loans {
		resp[i] = loanResp(&loans[i], true)
	}
	return c.JSON(http.StatusOK, ListResp{Data: resp, Meta: meta})
}

func (s *HTTPServer) LoanGet(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	loan, err := s.loans.Get(id)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loanResp(loan, true))
}

func (s *HTTPServer) LoanCreate(c echo.Context) error {
	req := CreateLoanReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	loan, err := s.loans.Create(service.CreateLoanInput{
		UserID:  req.UserID,
		BookID:  req.BookID,
		DueDate: req.DueDate,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, loanResp(loan, true))
}

func (s *HTTPServer) LoanUpdate(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	req := UpdateLoanReq{}
	if err := BindAndValidate(c, &req); err != nil {
		return err
	}

	loan, err := s.loans.Update(id, service.UpdateLoanInput{
		DueDate:       req.DueDate,
		ReturnedAt:    req.ReturnedAt.Value,
		ReturnedAtSet: req.ReturnedAt.Set,
	})
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, loanResp(loan, true))
}

func (s *HTTPServer) LoanDelete(c echo.Context) error {
	id, err := parseIDParam(c)
	if err != nil {
		return err
	}

	if err := s.loans.Delete(id); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
