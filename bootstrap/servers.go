package bootstrap

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"search-adapter/config"
	"search-adapter/domain"
	"search-adapter/rest"
	"search-adapter/usecase"
)

func newHTTPServer(
	cfg *config.Config,
	search *usecase.SearchRecordsUsecase,
	searchPaged *usecase.SearchRecordsPaginatedUsecase,
	searchKeys *usecase.SearchKeysUsecase,
	index *usecase.IndexRecordsUsecase,
	manage *usecase.ManageIndexUsecase,
	pinger rest.Pinger,
	descriptor domain.IndexDescriptor,
) *http.Server {
	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestID())

	handler := rest.NewHandler(search, searchPaged, searchKeys, index, manage, pinger, descriptor)
	handler.Register(e)

	return &http.Server{
		Addr:              cfg.HTTP.Addr,
		Handler:           e,
		ReadHeaderTimeout: cfg.HTTP.ReadHeaderTimeout,
	}
}
