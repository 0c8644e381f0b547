package main

import (
	"log/slog"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/homebudget/coordinator/internal/auth"
	"github.com/homebudget/coordinator/internal/clients"
	"github.com/homebudget/coordinator/internal/config"
	"github.com/homebudget/coordinator/internal/handlers"
	"github.com/homebudget/coordinator/internal/middleware"
	"github.com/homebudget/coordinator/internal/service"
	"github.com/homebudget/coordinator/pkg/logging"
)

func main() {
	logging.Setup()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	// One shared client for all three collaborators: its timeout is the
	// only hang protection a request has.
	httpClient := &http.Client{Timeout: cfg.HTTPTimeout}

	accounts, err := clients.NewAccountDirectory(cfg.AccountServiceURL, httpClient, cfg.ServiceUser, cfg.ServicePassword)
	if err != nil {
		slog.Error("failed to initialize account directory client", "error", err)
		os.Exit(1)
	}
	families, err := clients.NewFamilyRegistry(cfg.FamilyServiceURL, httpClient, cfg.ServiceUser, cfg.ServicePassword)
	if err != nil {
		slog.Error("failed to initialize family registry client", "error", err)
		os.Exit(1)
	}
	mailer, err := clients.NewNotifier(cfg.MailServiceURL, httpClient, cfg.ServiceUser, cfg.ServicePassword)
	if err != nil {
		slog.Error("failed to initialize mail client", "error", err)
		os.Exit(1)
	}

	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.SessionTTL)

	invitationSvc := service.NewInvitationService(accounts, families, mailer, cfg.GatewayBaseURL)
	accountSvc := service.NewAccountService(accounts, mailer)
	familySvc := service.NewFamilyService(accounts, families)

	invitationHandler := handlers.NewInvitationHandler(invitationSvc)
	accountHandler := handlers.NewAccountHandler(accountSvc, jwtManager, cfg.GatewayBaseURL)
	familyHandler := handlers.NewFamilyHandler(familySvc, invitationSvc, cfg.GatewayBaseURL)

	router := mux.NewRouter()
	router.Use(middleware.Metrics, middleware.Logging)

	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}).Methods(http.MethodGet)

	accountHandler.RegisterRoutes(router)

	// The coded acceptance link arrives by mail and is followed before the
	// invitee logs in.
	public := router.NewRoute().Subrouter()
	public.Use(middleware.OptionalAuth(jwtManager))
	invitationHandler.RegisterPublicRoutes(public)

	loginURL := cfg.GatewayBaseURL + "/login"
	authed := router.NewRoute().Subrouter()
	authed.Use(middleware.RequireAuth(jwtManager, loginURL))
	invitationHandler.RegisterRoutes(authed)
	familyHandler.RegisterRoutes(authed)

	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.GatewayBaseURL},
		AllowedMethods:   []string{http.MethodGet, http.MethodPost},
		AllowCredentials: true,
	}).Handler(router)

	// h2c so the gateway can speak HTTP/2 without TLS on the inside leg.
	h2cHandler := h2c.NewHandler(corsHandler, &http2.Server{})

	slog.Info("coordinator starting", "address", cfg.ListenAddr, "gateway", cfg.GatewayBaseURL)
	if err := http.ListenAndServe(cfg.ListenAddr, h2cHandler); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
