package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/questx-lab/giveaway/internal/middleware"
	"github.com/questx-lab/giveaway/migration"
	"github.com/questx-lab/giveaway/pkg/prometheus"
	"github.com/questx-lab/giveaway/pkg/router"
	"github.com/questx-lab/giveaway/pkg/xcontext"
	"github.com/urfave/cli/v2"
)

func (s *srv) startApi(cctx *cli.Context) error {
	if err := s.loadConfig(cctx); err != nil {
		return err
	}
	s.loadLogger()

	if err := s.loadDatabase(); err != nil {
		return err
	}

	if err := migration.MigrateUp(s.ctx); err != nil {
		return err
	}

	if err := s.loadAuth(); err != nil {
		return err
	}

	defer s.stopServices()
	if err := s.loadServices(); err != nil {
		return err
	}

	s.loadRepos()
	s.loadDomains()
	s.loadRouter()

	cfg := s.configs.ApiServer
	s.server = &http.Server{
		Addr:              fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Handler:           s.router.Handler(cfg.AllowedOrigins),
		ReadHeaderTimeout: 10 * time.Second,
	}

	ctx, stop := signal.NotifyContext(cctx.Context, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			xcontext.Logger(s.ctx).Errorf("Cannot shutdown server: %v", err)
		}
	}()

	xcontext.Logger(s.ctx).Infof("Starting server on port: %s", cfg.Port)

	var err error
	if cfg.Cert != "" && cfg.Key != "" {
		err = s.server.ListenAndServeTLS(cfg.Cert, cfg.Key)
	} else {
		err = s.server.ListenAndServe()
	}
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}

	xcontext.Logger(s.ctx).Infof("Server stop")
	return nil
}

func (s *srv) loadRouter() {
	s.router = router.New(s.ctx)
	s.router.Before(middleware.WithStartTime())
	s.router.AddCloser(middleware.Logger())
	s.router.AddCloser(middleware.Prometheus())
	s.router.Static("/metrics", prometheus.NewHandler())

	// Auth API
	authRouter := s.router.Branch()
	authRouter.After(middleware.HandleSaveSession())
	authRouter.After(middleware.HandleSetAccessToken())
	{
		router.POST(authRouter, "/oauth2/verify", s.authDomain.OAuth2Verify)
		router.POST(authRouter, "/logout", s.authDomain.Logout)
	}

	// These following APIs need authentication with Access Token or Session.
	authVerifier := middleware.NewAuthVerifier().WithAccessToken().WithSession()
	userRouter := s.router.Branch()
	userRouter.Before(authVerifier.Middleware())
	{
		// Giveaway API
		router.GET(userRouter, "/getHome", s.giveawayDomain.GetHome)
		router.GET(userRouter, "/getGiveaway", s.giveawayDomain.Get)
		router.GET(userRouter, "/searchGiveaway", s.giveawayDomain.Search)
		router.POST(userRouter, "/enterGiveaway", s.giveawayDomain.Enter)

		// User API
		router.GET(userRouter, "/getMe", s.userDomain.GetMe)
		router.GET(userRouter, "/getMyTransactions", s.userDomain.GetMyTransactions)
	}

	adminRouter := userRouter.Branch()
	adminRouter.Before(middleware.NewOnlyAdmin(s.userRepo).Middleware())
	{
		router.GET(adminRouter, "/admin/dashboard", s.adminDomain.Dashboard)
		router.GET(adminRouter, "/admin/getListGiveaway", s.adminDomain.GetListGiveaway)
		router.POST(adminRouter, "/admin/createGiveaway", s.adminDomain.CreateGiveaway)
		router.POST(adminRouter, "/admin/updateGiveaway", s.adminDomain.UpdateGiveaway)
		router.POST(adminRouter, "/admin/deleteGiveaway", s.adminDomain.DeleteGiveaway)
		router.POST(adminRouter, "/admin/selectWinner", s.adminDomain.SelectWinner)
		router.POST(adminRouter, "/admin/uploadPrizeImage", s.adminDomain.UploadPrizeImage)
		router.GET(adminRouter, "/admin/getListUser", s.adminDomain.GetListUser)
		router.POST(adminRouter, "/admin/toggleAdmin", s.adminDomain.ToggleAdmin)
		router.POST(adminRouter, "/admin/grantCurrency", s.adminDomain.GrantCurrency)
		router.GET(adminRouter, "/admin/auditLedger", s.adminDomain.AuditLedger)
	}
}
