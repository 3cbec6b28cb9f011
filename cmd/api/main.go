package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/cibercrimen/casetrack/internal/auth"
	"github.com/cibercrimen/casetrack/internal/config"
	"github.com/cibercrimen/casetrack/internal/cybercase"
	caseStore "github.com/cibercrimen/casetrack/internal/cybercase/store"
	"github.com/cibercrimen/casetrack/internal/database"
	casetrackHttp "github.com/cibercrimen/casetrack/internal/http"
	casesHandler "github.com/cibercrimen/casetrack/internal/http/cases"
	importHandler "github.com/cibercrimen/casetrack/internal/http/importcsv"
	reportHandler "github.com/cibercrimen/casetrack/internal/http/report"
	statsHandler "github.com/cibercrimen/casetrack/internal/http/stats"
	"github.com/cibercrimen/casetrack/internal/importer"
	"github.com/cibercrimen/casetrack/internal/report"
	"github.com/cibercrimen/casetrack/internal/stats"
	statsStore "github.com/cibercrimen/casetrack/internal/stats/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString(), cfg.DB.MaxOpenConns, cfg.DB.MaxIdleConns)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var (
		caseService   = cybercase.NewService(caseStore.New(db))
		statsService  = stats.NewService(statsStore.New(db))
		importService = importer.NewService()
		reportService = report.NewService(caseService)
	)

	var (
		verifier = auth.NewVerifier(cfg.Auth.Secret)
		casesH   = casesHandler.NewHandler(caseService)
		statsH   = statsHandler.NewHandler(statsService)
		importH  = importHandler.NewHandler(importService, caseService)
		reportH  = reportHandler.NewHandler(reportService)
	)

	router := casetrackHttp.New(verifier, casesH, statsH, importH, reportH)

	port := fmt.Sprintf(":%d", cfg.App.Port)
	slog.Info("starting server", "port", port)

	if err := http.ListenAndServe(port, router); err != nil {
		slog.Error("server failed", "error", err)
		os.Exit(1)
	}
}
