// Package interfaces defines core abstractions for the combination risk API
// to improve testability, maintainability, and separation of concerns.
package interfaces

import (
	"context"
	"net/http"
	"time"

	"github.com/Icyfire18/sider-prediction/siderparser/entities"
)

// DataQualityReport provides a summary of data quality issues found in a
// parsed dataset snapshot.
type DataQualityReport struct {
	DuplicateDrugNames   []string
	DrugsWithoutProfile  int // Drugs with zero known adverse events
	OrphanedIndications  int // Disease rows naming a drug absent from the dataset
	DiseasesWithoutDrugs int
	VocabularySize       int
	AverageProfileSize   float64
}

// DataStore defines the contract for dataset storage. It provides
// thread-safe access to one immutable dataset snapshot with atomic swaps
// for zero-downtime updates. The drugs, the name index, the vocabulary and
// the disease map of a snapshot are always mutually consistent.
type DataStore interface {
	// Snapshot returns the current dataset snapshot, or nil before the
	// first load completes.
	Snapshot() *entities.Dataset
	GetDrugs() []entities.Drug
	GetDrugsByName() map[string]entities.Drug
	GetVocabulary() *entities.Vocabulary
	GetDiseaseDrugs() map[string][]string
	GetLastUpdated() time.Time
	IsUpdating() bool
	GetServerStartTime() time.Time
	SetServerStartTime(t time.Time)

	// Data update methods
	UpdateDataset(ds *entities.Dataset)
	BeginUpdate() bool
	EndUpdate()
}

// Parser defines the contract for building a dataset snapshot from the
// external SIDER and disease-indication sources. It handles downloading,
// decoding and grouping raw records into entities.
type Parser interface {
	ParseDataset() (*entities.Dataset, error)
}

// SeverityModel is the consumed contract of the pretrained severity
// classifier. Predict returns the raw class prediction for one feature
// vector over the vocabulary the model was trained with; ClassCount is the
// number of distinct severity classes and is used to normalize predictions
// to the 0-100 scale. Implementations must be safe for concurrent Predict
// calls, or document otherwise.
type SeverityModel interface {
	Predict(features []float32) (float64, error)
	ClassCount() int

	// VocabularyFingerprint returns the fingerprint of the vocabulary the
	// model was trained against, or "" if the artifact does not pin one.
	VocabularyFingerprint() string

	Close() error
}

// Ranker defines the contract of the combination scoring core: rank every
// known drug against the anchor, safest first.
type Ranker interface {
	Rank(ctx context.Context, anchor string) (*entities.Ranking, error)
}

// Scheduler defines the contract for job scheduling and health monitoring.
// It manages automated dataset refreshes and staleness checks.
type Scheduler interface {
	Start() error
	Stop()
}

// HTTPHandler defines the contract for HTTP request handlers.
// It provides a consistent interface for all API endpoints.
type HTTPHandler interface {
	ServeHTTP(w http.ResponseWriter, r *http.Request)

	ServePagedDrugs(w http.ResponseWriter, r *http.Request)
	FindDrug(w http.ResponseWriter, r *http.Request)
	FindDrugByName(w http.ResponseWriter, r *http.Request)
	ServeDiseases(w http.ResponseWriter, r *http.Request)
	FindDrugsByDisease(w http.ResponseWriter, r *http.Request)
	RankCombinations(w http.ResponseWriter, r *http.Request)
	ExportCombinations(w http.ResponseWriter, r *http.Request)
	HealthCheck(w http.ResponseWriter, r *http.Request)
}

// HealthChecker defines the contract for health check functionality.
type HealthChecker interface {
	HealthCheck() (status string, details map[string]any, httpStatus int)
	CalculateNextUpdate() time.Time
}

// DataValidator defines the contract for data validation operations.
type DataValidator interface {
	// ValidateDrug checks if a drug entity is valid
	ValidateDrug(d *entities.Drug) error

	// ValidateDataIntegrity performs comprehensive snapshot validation
	ValidateDataIntegrity(ds *entities.Dataset) error

	// ReportDataQuality generates a data quality report with all issues found
	ReportDataQuality(ds *entities.Dataset) *DataQualityReport

	// ValidateInput validates user input strings
	ValidateInput(input string) error
}
