// Package scheduler provides automated dataset refreshes and staleness
// monitoring for the combination risk API. It coordinates refresh runs with
// the data container and refuses to swap in a snapshot whose vocabulary no
// longer matches the one the severity model was trained against.
package scheduler

import (
	"fmt"
	"time"

	"github.com/Icyfire18/sider-prediction/interfaces"
	"github.com/Icyfire18/sider-prediction/logging"
	"github.com/Icyfire18/sider-prediction/metrics"
	"github.com/Icyfire18/sider-prediction/validation"
	"github.com/go-co-op/gocron"
)

// Compile-time check to ensure Scheduler implements Scheduler interface
var _ interfaces.Scheduler = (*Scheduler)(nil)

// refreshTime is the daily dataset refresh slot; the SIDER dumps change
// rarely, one slot a day is plenty.
const refreshTime = "06:00"

// Scheduler handles dataset refreshes and health monitoring using
// dependency injection
type Scheduler struct {
	dataStore interfaces.DataStore
	parser    interfaces.Parser
	model     interfaces.SeverityModel
	scheduler *gocron.Scheduler
	stopMon   chan struct{}
}

// NewScheduler creates a new scheduler instance with injected dependencies
func NewScheduler(dataStore interfaces.DataStore, parser interfaces.Parser, model interfaces.SeverityModel) *Scheduler {
	return &Scheduler{
		dataStore: dataStore,
		parser:    parser,
		model:     model,
		scheduler: gocron.NewScheduler(time.Local),
		stopMon:   make(chan struct{}),
	}
}

// Start performs the initial dataset load and schedules daily refreshes
func (s *Scheduler) Start() error {
	// Initial load
	if err := s.refreshDataset(); err != nil {
		logging.Error("Failed to perform initial dataset load", "error", err)
		return fmt.Errorf("initial dataset load failed: %w", err)
	}

	_, err := s.scheduler.Every(1).Days().At(refreshTime).Do(func() {
		if err := s.refreshDataset(); err != nil {
			logging.Error("Failed to refresh dataset", "error", err)
		}
	})

	if err != nil {
		logging.Error("Failed to schedule dataset refresh", "error", err)
		return fmt.Errorf("failed to schedule dataset refresh: %w", err)
	}

	s.scheduler.StartAsync()

	// Start staleness monitoring
	s.startHealthMonitoring()

	return nil
}

// Stop stops the scheduler
func (s *Scheduler) Stop() {
	s.scheduler.Stop()
	close(s.stopMon)
}

// CalculateNextUpdate returns the next scheduled refresh time
func CalculateNextUpdate() time.Time {
	now := time.Now()
	next := time.Date(now.Year(), now.Month(), now.Day(), 6, 0, 0, 0, now.Location())
	if !now.Before(next) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

// refreshDataset performs a complete dataset refresh using the injected
// parser, validating the result before swapping it in
func (s *Scheduler) refreshDataset() error {
	// Prevent concurrent refreshes
	if !s.dataStore.BeginUpdate() {
		logging.Info("Refresh already in progress, skipping...")
		return nil
	}
	defer s.dataStore.EndUpdate()

	logging.Info("Starting dataset refresh", "at", time.Now().Format(time.RFC3339))
	start := time.Now()

	newDataset, err := s.parser.ParseDataset()
	if err != nil {
		return fmt.Errorf("failed to parse dataset: %w", err)
	}

	validator := validation.NewDataValidator()
	if err := validator.ValidateDataIntegrity(newDataset); err != nil {
		return fmt.Errorf("refusing to swap in invalid dataset: %w", err)
	}

	report := validator.ReportDataQuality(newDataset)

	if len(report.DuplicateDrugNames) > 0 {
		logging.Warn("Duplicate drug names detected, first record wins",
			"total", len(report.DuplicateDrugNames),
		)
	}

	if report.DrugsWithoutProfile > 0 {
		logging.Warn("Drugs without any recorded adverse event",
			"total", report.DrugsWithoutProfile,
		)
	}

	if report.OrphanedIndications > 0 {
		logging.Warn("Disease indications referencing unknown drugs",
			"total", report.OrphanedIndications,
		)
	}

	// A model trained against one vocabulary ordering breaks silently with
	// another; keep the previous snapshot in that case.
	if s.model != nil {
		pinned := s.model.VocabularyFingerprint()
		if pinned != "" && pinned != newDataset.Vocabulary.Fingerprint() {
			return fmt.Errorf("vocabulary fingerprint %s does not match the model's pinned %s, keeping previous snapshot",
				newDataset.Vocabulary.Fingerprint(), pinned)
		}
	}

	// Atomic swap (zero downtime replacement)
	s.dataStore.UpdateDataset(newDataset)

	metrics.DatasetDrugs.Set(float64(len(newDataset.Drugs)))
	metrics.DatasetVocabularySize.Set(float64(newDataset.Vocabulary.Size()))

	logging.Info("Dataset refresh completed",
		"duration", time.Since(start).String(),
		"drug_count", len(newDataset.Drugs),
		"vocabulary_size", newDataset.Vocabulary.Size(),
	)

	return nil
}

// startHealthMonitoring warns when the dataset has not refreshed for too
// long
func (s *Scheduler) startHealthMonitoring() {
	go func() {
		ticker := time.NewTicker(1 * time.Hour)
		defer ticker.Stop()

		for {
			select {
			case <-s.stopMon:
				return
			case <-ticker.C:
				lastUpdate := s.dataStore.GetLastUpdated()
				if time.Since(lastUpdate) > 25*time.Hour {
					logging.Warn("Dataset hasn't been refreshed in over 25 hours")
				}
			}
		}
	}()
}
