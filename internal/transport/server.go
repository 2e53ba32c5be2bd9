package transport

import (
	"context"
	"net/http"
	"os"
	"strconv"

	"github.com/go-playground/validator"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/readnest/library-back/internal/config"
	"github.com/readnest/library-back/internal/service"
)

const openAPIPath = "api/openapi.yaml"

type (
	CustomValidator struct {
		validator *validator.Validate
	}

	HTTPServer struct {
		echo       *echo.Echo
		cfg        *config.Config
		logger     *zap.SugaredLogger
		users      *service.UserService
		authors    *service.AuthorService
		categories *service.CategoryService
		books      *service.BookService
		loans      *service.LoanService
	}
)

func NewHTTPServer(
	lc fx.Lifecycle,
	cfg *config.Config,
	logger *zap.SugaredLogger,
	users *service.UserService,
	authors *service.AuthorService,
	categories *service.CategoryService,
	books *service.BookService,
	loans *service.LoanService,
) *HTTPServer {
	e := echo.New()
	e.HideBanner = true

	instance := HTTPServer{
		echo:       e,
		cfg:        cfg,
		logger:     logger,
		users:      users,
		authors:    authors,
		categories: categories,
		books:      books,
		loans:      loans,
	}

	e.JSONSerializer = JSONSerializer{}
	e.Validator = &CustomValidator{validator: validator.New()}
	e.HTTPErrorHandler = instance.handleError

	e.Use(middleware.CORS())
	e.Use(middleware.RequestIDWithConfig(middleware.RequestIDConfig{
		Generator: uuid.NewString,
	}))
	e.Use(instance.requestLogger)
	e.Use(middleware.Recover())

	e.GET("/health", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
	})
	if _, err := os.Stat(openAPIPath); err == nil {
		e.File("/api-docs", openAPIPath)
	}

	api := e.Group("/api")

	userG := api.Group("/users")
	userG.GET("", instance.UserList)
	userG.GET("/:id", instance.UserGet)
	userG.POST("", instance.UserCreate)
	userG.PUT("/:id", instance.UserUpdate)
	userG.DELETE("/:id", instance.UserDelete)

	authorG := api.Group("/authors")
	authorG.GET("", instance.AuthorList)
	authorG.GET("/:id", instance.AuthorGet)
	authorG.POST("", instance.AuthorCreate)
	authorG.PUT("/:id", instance.AuthorUpdate)
	authorG.DELETE("/:id", instance.AuthorDelete)

	categoryG := api.Group("/categories")
	categoryG.GET("", instance.CategoryList)
	categoryG.GET("/:id", instance.CategoryGet)
	categoryG.POST("", instance.CategoryCreate)
	categoryG.PUT("/:id", instance.CategoryUpdate)
	categoryG.DELETE("/:id", instance.CategoryDelete)

	bookG := api.Group("/books")
	bookG.GET("", instance.BookList)
	bookG.GET("/:id", instance.BookGet)
	bookG.POST("", instance.BookCreate)
	bookG.PUT("/:id", instance.BookUpdate)
	bookG.DELETE("/:id", instance.BookDelete)

	loanG := api.Group("/loans")
	loanG.GET("", instance.LoanList)
	loanG.GET("/:id", instance.LoanGet)
	loanG.POST("", instance.LoanCreate)
	loanG.PUT("/:id", instance.LoanUpdate)
	loanG.DELETE("/:id", instance.LoanDelete)

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				listen := cfg.Host + ":" + cfg.Port
				if err := e.Start(listen); err != nil && err != http.ErrServerClosed {
					e.Logger.Fatal("shutting down the server")
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			logger.Info("Stopping HTTP server.")
			return e.Shutdown(ctx)
		},
	})

	return &instance
}

////////

func (cv *CustomValidator) Validate(i interface{}) error {
	return cv.validator.Struct(i)
}

func BindAndValidate(c echo.Context, v interface{}) error {
	var err error
	if err = c.Bind(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if err = c.Validate(v); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return nil
}

func parseIDParam(c echo.Context) (uint64, error) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		return 0, service.Invalid("invalid id format")
	}
	return id, nil
}

func pageFromQuery(c echo.Context) service.PageRequest {
	page, _ := strconv.Atoi(c.QueryParam("page"))
	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	return service.NewPageRequest(page, limit)
}
