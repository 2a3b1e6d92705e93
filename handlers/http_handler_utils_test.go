package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/Icyfire18/sider-prediction/interfaces"
	"github.com/Icyfire18/sider-prediction/siderparser/entities"
	"github.com/go-chi/chi/v5"
)

// ============================================================================
// TEST DATA FACTORY
// ============================================================================

// TestDataFactory creates consistent test data across all tests
type TestDataFactory struct{}

func NewTestDataFactory() *TestDataFactory {
	return &TestDataFactory{}
}

// CreateDrug creates a single test drug with a realistic profile
func (f *TestDataFactory) CreateDrug(id, name string, effects ...string) entities.Drug {
	return entities.Drug{
		ID:          id,
		Name:        name,
		SideEffects: effects,
	}
}

// CreateDrugs creates count drugs sharing a small rotating effect pool
func (f *TestDataFactory) CreateDrugs(count int) []entities.Drug {
	pool := []string{"Nausea", "Headache", "Dizziness", "Fatigue", "Rash"}
	drugs := make([]entities.Drug, count)
	for i := 0; i < count; i++ {
		drugs[i] = f.CreateDrug(
			fmt.Sprintf("CID%08d", i+1),
			fmt.Sprintf("Test Drug %d", i+1),
			pool[i%len(pool)],
			pool[(i+1)%len(pool)],
		)
	}
	return drugs
}

// CreateDataset builds a consistent snapshot from drugs: name index,
// vocabulary in first-appearance order and an empty disease map
func (f *TestDataFactory) CreateDataset(drugs []entities.Drug) *entities.Dataset {
	byName := make(map[string]entities.Drug, len(drugs))
	var terms []string
	seen := make(map[string]struct{})
	for _, d := range drugs {
		byName[d.Name] = d
		for _, effect := range d.SideEffects {
			if _, ok := seen[effect]; !ok {
				seen[effect] = struct{}{}
				terms = append(terms, effect)
			}
		}
	}

	return &entities.Dataset{
		Drugs:        drugs,
		DrugsByName:  byName,
		Vocabulary:   entities.NewVocabulary(terms),
		DiseaseDrugs: make(map[string][]string),
	}
}

// ============================================================================
// MOCK BUILDERS
// ============================================================================

// MockDataStoreBuilder provides fluent interface for building mock data stores
type MockDataStoreBuilder struct {
	mock *MockDataStore
}

func NewMockDataStoreBuilder() *MockDataStoreBuilder {
	return &MockDataStoreBuilder{
		mock: &MockDataStore{
			dataset: &entities.Dataset{
				Drugs:        []entities.Drug{},
				DrugsByName:  make(map[string]entities.Drug),
				Vocabulary:   entities.NewVocabulary(nil),
				DiseaseDrugs: make(map[string][]string),
			},
			lastUpdated: time.Now(),
			updating:    false,
		},
	}
}

func (b *MockDataStoreBuilder) WithDataset(ds *entities.Dataset) *MockDataStoreBuilder {
	b.mock.dataset = ds
	return b
}

func (b *MockDataStoreBuilder) WithDrugs(drugs []entities.Drug) *MockDataStoreBuilder {
	b.mock.dataset = NewTestDataFactory().CreateDataset(drugs)
	return b
}

func (b *MockDataStoreBuilder) WithDiseaseDrugs(diseaseDrugs map[string][]string) *MockDataStoreBuilder {
	b.mock.dataset.DiseaseDrugs = diseaseDrugs
	return b
}

func (b *MockDataStoreBuilder) WithUpdating(updating bool) *MockDataStoreBuilder {
	b.mock.updating = updating
	return b
}

func (b *MockDataStoreBuilder) WithLastUpdated(lastUpdated time.Time) *MockDataStoreBuilder {
	b.mock.lastUpdated = lastUpdated
	return b
}

func (b *MockDataStoreBuilder) Build() *MockDataStore {
	return b.mock
}

// MockDataValidatorBuilder provides fluent interface for building mock validators
type MockDataValidatorBuilder struct {
	mock *MockDataValidator
}

func NewMockDataValidatorBuilder() *MockDataValidatorBuilder {
	return &MockDataValidatorBuilder{
		mock: &MockDataValidator{},
	}
}

func (b *MockDataValidatorBuilder) WithInputError(err error) *MockDataValidatorBuilder {
	b.mock.validateInputError = err
	return b
}

func (b *MockDataValidatorBuilder) Build() *MockDataValidator {
	return b.mock
}

// ============================================================================
// HTTP TEST UTILITIES
// ============================================================================

// HTTPTestHelper provides utilities for HTTP handler testing
type HTTPTestHelper struct {
	t *testing.T
}

func NewHTTPTestHelper(t *testing.T) *HTTPTestHelper {
	return &HTTPTestHelper{t: t}
}

// ExecuteRequest executes an HTTP handler with given parameters
func (h *HTTPTestHelper) ExecuteRequest(handler http.HandlerFunc, method, path string, urlParams map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)

	if len(urlParams) > 0 {
		rctx := chi.NewRouteContext()
		for key, value := range urlParams {
			rctx.URLParams.Add(key, value)
		}
		req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
	}

	rr := httptest.NewRecorder()
	handler(rr, req)
	return rr
}

// AssertJSONResponse asserts that response contains valid JSON with expected status
func (h *HTTPTestHelper) AssertJSONResponse(resp *httptest.ResponseRecorder, expectedStatus int, target any) {
	if resp.Code != expectedStatus {
		h.t.Errorf("Expected status %d, got %d", expectedStatus, resp.Code)
	}

	bodyStr := resp.Body.String()
	if bodyStr == "" {
		h.t.Error("Response body should not be empty")
	}

	err := json.Unmarshal([]byte(bodyStr), target)
	if err != nil {
		h.t.Errorf("Response should be valid JSON, got error: %v", err)
	}
}

// AssertErrorResponse asserts that response contains an error with expected status
func (h *HTTPTestHelper) AssertErrorResponse(resp *httptest.ResponseRecorder, expectedStatus int) {
	if resp.Code != expectedStatus {
		h.t.Errorf("Expected status %d, got %d", expectedStatus, resp.Code)
	}

	var errorResp map[string]any
	err := json.Unmarshal(resp.Body.Bytes(), &errorResp)
	if err != nil {
		h.t.Errorf("Error response should be valid JSON, got error: %v", err)
	}

	// Check that it has error fields
	if _, ok := errorResp["message"]; !ok {
		h.t.Error("Error response should have message field")
	}
	if _, ok := errorResp["code"]; !ok {
		h.t.Error("Error response should have code field")
	}
}

// AssertPaginationResponse asserts pagination-specific response structure
func (h *HTTPTestHelper) AssertPaginationResponse(resp *httptest.ResponseRecorder, expectedPage, expectedMaxPage, expectedDataCount int) {
	var response map[string]any
	h.AssertJSONResponse(resp, http.StatusOK, &response)

	if response["page"] != float64(expectedPage) {
		h.t.Errorf("Page number mismatch: expected %d, got %v", expectedPage, response["page"])
	}
	if response["maxPage"] != float64(expectedMaxPage) {
		h.t.Errorf("Max page mismatch: expected %d, got %v", expectedMaxPage, response["maxPage"])
	}

	data, ok := response["data"].([]any)
	if !ok {
		h.t.Error("Data field should be an array")
	}
	if len(data) != expectedDataCount {
		h.t.Errorf("Data count mismatch: expected %d, got %d", expectedDataCount, len(data))
	}
}

// ============================================================================
// MOCK IMPLEMENTATIONS
// ============================================================================

// MockDataStore implements interfaces.DataStore for testing
type MockDataStore struct {
	dataset         *entities.Dataset
	lastUpdated     time.Time
	serverStartTime time.Time
	updating        bool

	// Method call tracking
	snapshotCalled      bool
	updateDatasetCalled bool
	beginUpdateCalled   bool
	endUpdateCalled     bool
}

func (m *MockDataStore) Snapshot() *entities.Dataset {
	m.snapshotCalled = true
	return m.dataset
}

func (m *MockDataStore) GetDrugs() []entities.Drug {
	return m.dataset.Drugs
}

func (m *MockDataStore) GetDrugsByName() map[string]entities.Drug {
	return m.dataset.DrugsByName
}

func (m *MockDataStore) GetVocabulary() *entities.Vocabulary {
	return m.dataset.Vocabulary
}

func (m *MockDataStore) GetDiseaseDrugs() map[string][]string {
	return m.dataset.DiseaseDrugs
}

func (m *MockDataStore) GetLastUpdated() time.Time {
	return m.lastUpdated
}

func (m *MockDataStore) IsUpdating() bool {
	return m.updating
}

func (m *MockDataStore) GetServerStartTime() time.Time {
	return m.serverStartTime
}

func (m *MockDataStore) SetServerStartTime(t time.Time) {
	m.serverStartTime = t
}

func (m *MockDataStore) UpdateDataset(ds *entities.Dataset) {
	m.updateDatasetCalled = true
	m.dataset = ds
	m.lastUpdated = time.Now()
}

func (m *MockDataStore) BeginUpdate() bool {
	m.beginUpdateCalled = true
	m.updating = true
	return true
}

func (m *MockDataStore) EndUpdate() {
	m.endUpdateCalled = true
	m.updating = false
}

// MockDataValidator implements interfaces.DataValidator for testing
type MockDataValidator struct {
	validateInputError error

	validateInputCalled bool
	lastValidatedInput  string
}

func (m *MockDataValidator) ValidateDrug(d *entities.Drug) error {
	return nil
}

func (m *MockDataValidator) ValidateDataIntegrity(ds *entities.Dataset) error {
	return nil
}

func (m *MockDataValidator) ReportDataQuality(ds *entities.Dataset) *interfaces.DataQualityReport {
	return &interfaces.DataQualityReport{}
}

func (m *MockDataValidator) ValidateInput(input string) error {
	m.validateInputCalled = true
	m.lastValidatedInput = input
	return m.validateInputError
}
