// Combination risk API server. Loads the SIDER adverse-event dataset and a
// pretrained severity classifier, then serves drug lookups and pairwise
// co-prescription rankings over HTTP.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Icyfire18/sider-prediction/config"
	"github.com/Icyfire18/sider-prediction/data"
	"github.com/Icyfire18/sider-prediction/handlers"
	"github.com/Icyfire18/sider-prediction/interfaces"
	"github.com/Icyfire18/sider-prediction/logging"
	"github.com/Icyfire18/sider-prediction/model"
	"github.com/Icyfire18/sider-prediction/scheduler"
	"github.com/Icyfire18/sider-prediction/server"
	"github.com/Icyfire18/sider-prediction/siderparser"
	"github.com/Icyfire18/sider-prediction/validation"
	"github.com/joho/godotenv"
)

func main() {
	// .env is optional; environment variables win either way
	if err := godotenv.Load(); err != nil {
		logging.Warn("No .env file found, using environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		logging.Error("Configuration error", "error", err)
		os.Exit(1)
	}

	logging.InitLogger("logs", cfg.LogRetentionWeeks, cfg.MaxLogFileSize)

	severityModel := loadSeverityModel(cfg)
	defer func() {
		if err := severityModel.Close(); err != nil {
			logging.Error("Failed to close severity model", "error", err)
		}
	}()

	dataContainer := data.NewDataContainer()
	dataContainer.SetServerStartTime(time.Now())

	parser := siderparser.NewParser(cfg)

	sched := scheduler.NewScheduler(dataContainer, parser, severityModel)
	go func() {
		if err := sched.Start(); err != nil {
			logging.Error("Scheduler failed to start", "error", err)
			os.Exit(1)
		}
	}()
	defer sched.Stop()

	validator := validation.NewDataValidator()
	handler := handlers.NewHTTPHandler(dataContainer, validator, severityModel, cfg.ScorerWorkers)

	srv := server.NewServer(cfg, handler)

	// Channel to listen for interrupt signals
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.Error("Server failed to start", "error", err)
			os.Exit(1)
		}
	}()

	// Block until a signal is received
	<-quit

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logging.Error("Shutdown error", "error", err)
	}
}

// loadSeverityModel opens the configured classifier artifact. A missing
// artifact degrades to a neutral static model so the lookup endpoints stay
// up; rankings then carry a constant severity component.
func loadSeverityModel(cfg *config.Config) interfaces.SeverityModel {
	if _, err := os.Stat(cfg.ModelPath); err != nil {
		logging.Warn("Severity model artifact not found, using neutral model",
			"path", cfg.ModelPath, "error", err)
		return model.NewStatic(1, 3)
	}

	m, err := model.Load(model.Options{
		Path:       cfg.ModelPath,
		ClassCount: cfg.ModelClassCount,
		OrtLibrary: cfg.OrtLibrary,
	})
	if err != nil {
		logging.Error("Failed to load severity model", "path", cfg.ModelPath, "error", err)
		os.Exit(1)
	}

	logging.Info("Severity model loaded",
		"path", cfg.ModelPath,
		"classes", m.ClassCount(),
		"vocabulary_fingerprint", m.VocabularyFingerprint())
	return m
}
