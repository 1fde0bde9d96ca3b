package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ternarybob/arbor"

	"github.com/ternarybob/scribo/internal/interfaces"
	"github.com/ternarybob/scribo/internal/models"
)

// mockReviewService implements interfaces.ReviewService for testing
type mockReviewService struct {
	checkFunc  func(ctx context.Context, loopName string) (*models.ReviewResult, error)
	cancelFunc func(ctx context.Context, loopName string) error
}

func (m *mockReviewService) ShouldReview(assessment *models.QualityAssessment, complexity string) bool {
	return false
}

func (m *mockReviewService) StartReview(ctx context.Context, req *models.ReviewRequest) (*models.PendingReview, error) {
	return nil, nil
}

func (m *mockReviewService) CheckReview(ctx context.Context, loopName string) (*models.ReviewResult, error) {
	if m.checkFunc != nil {
		return m.checkFunc(ctx, loopName)
	}
	return nil, interfaces.ErrNotFound
}

func (m *mockReviewService) CancelReview(ctx context.Context, loopName string) error {
	if m.cancelFunc != nil {
		return m.cancelFunc(ctx, loopName)
	}
	return nil
}

func (m *mockReviewService) HealthCheck(ctx context.Context) error {
	return nil
}

// mockHistoryStorage implements interfaces.HistoryStorage for testing
type mockHistoryStorage struct {
	records []*models.HistoryRecord
}

func (m *mockHistoryStorage) Save(ctx context.Context, record *models.HistoryRecord) error {
	m.records = append(m.records, record)
	return nil
}

func (m *mockHistoryStorage) Get(ctx context.Context, userID, requestID string) (*models.HistoryRecord, error) {
	for _, record := range m.records {
		if record.UserID == userID && record.RequestID == requestID {
			return record, nil
		}
	}
	return nil, interfaces.ErrNotFound
}

func (m *mockHistoryStorage) FindByRepoURL(ctx context.Context, userID, repoURL string) (*models.HistoryRecord, error) {
	return nil, interfaces.ErrNotFound
}

func (m *mockHistoryStorage) ListByUser(ctx context.Context, userID string, limit int) ([]*models.HistoryRecord, error) {
	var matched []*models.HistoryRecord
	for _, record := range m.records {
		if record.UserID == userID {
			matched = append(matched, record)
		}
	}
	if limit > 0 && len(matched) > limit {
		matched = matched[:limit]
	}
	return matched, nil
}

func (m *mockHistoryStorage) UpdateStatus(ctx context.Context, userID, requestID, status string) error {
	return nil
}

// mockKVStorage implements interfaces.KeyValueStorage for testing
type mockKVStorage struct {
	pairs map[string]*interfaces.KeyValuePair
}

func (m *mockKVStorage) Get(ctx context.Context, key string) (string, error) {
	if pair, ok := m.pairs[key]; ok {
		return pair.Value, nil
	}
	return "", interfaces.ErrKeyNotFound
}

func (m *mockKVStorage) Set(ctx context.Context, key, value, description string) error {
	if m.pairs == nil {
		m.pairs = make(map[string]*interfaces.KeyValuePair)
	}
	m.pairs[key] = &interfaces.KeyValuePair{Key: key, Value: value, Description: description}
	return nil
}

func (m *mockKVStorage) Delete(ctx context.Context, key string) error {
	if _, ok := m.pairs[key]; !ok {
		return interfaces.ErrKeyNotFound
	}
	delete(m.pairs, key)
	return nil
}

func (m *mockKVStorage) List(ctx context.Context) ([]*interfaces.KeyValuePair, error) {
	var pairs []*interfaces.KeyValuePair
	for _, pair := range m.pairs {
		pairs = append(pairs, pair)
	}
	return pairs, nil
}

func decodeBody(t *testing.T, recorder *httptest.ResponseRecorder) models.ResponseBody {
	t.Helper()
	var body models.ResponseBody
	if err := json.Unmarshal(recorder.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response body: %v", err)
	}
	return body
}

func TestWriteEnvelopeAppliesHeadersAndStatus(t *testing.T) {
	recorder := httptest.NewRecorder()
	envelope := models.NewErrorEnvelope(http.StatusConflict, "already processed")

	if err := WriteEnvelope(recorder, envelope); err != nil {
		t.Fatalf("Failed to write envelope: %v", err)
	}

	if recorder.Code != http.StatusConflict {
		t.Errorf("Expected status 409, got %d", recorder.Code)
	}
	if recorder.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("Expected CORS header on response")
	}

	body := decodeBody(t, recorder)
	if body.Success {
		t.Error("Expected success=false")
	}
	if body.Error != "already processed" {
		t.Errorf("Unexpected error message: %s", body.Error)
	}
	if body.Timestamp == "" {
		t.Error("Expected timestamp on response body")
	}
}

func TestReviewHandlerPendingLoop(t *testing.T) {
	handler := NewReviewHandler(&mockReviewService{
		checkFunc: func(ctx context.Context, loopName string) (*models.ReviewResult, error) {
			return nil, interfaces.ErrReviewPending
		},
	}, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/review/widget-abc12345", nil)
	recorder := httptest.NewRecorder()
	handler.ReviewRoutes(recorder, req)

	if recorder.Code != http.StatusAccepted {
		t.Errorf("Expected status 202 for pending review, got %d", recorder.Code)
	}
	body := decodeBody(t, recorder)
	if !body.Success {
		t.Error("Expected success=true for pending review")
	}
}

func TestReviewHandlerCompletedLoop(t *testing.T) {
	handler := NewReviewHandler(&mockReviewService{
		checkFunc: func(ctx context.Context, loopName string) (*models.ReviewResult, error) {
			return &models.ReviewResult{
				LoopName:    loopName,
				Status:      models.ReviewStatusCompleted,
				Score:       92.0,
				Confidence:  0.8,
				CompletedAt: time.Now(),
			}, nil
		},
	}, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/review/widget-abc12345", nil)
	recorder := httptest.NewRecorder()
	handler.ReviewRoutes(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status 200, got %d", recorder.Code)
	}
	body := decodeBody(t, recorder)
	data, ok := body.Data.(map[string]interface{})
	if !ok {
		t.Fatalf("Expected object data, got %T", body.Data)
	}
	if data["status"] != models.ReviewStatusCompleted {
		t.Errorf("Expected completed status, got %v", data["status"])
	}
}

func TestReviewHandlerUnknownLoop(t *testing.T) {
	handler := NewReviewHandler(&mockReviewService{}, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/review/missing-loop", nil)
	recorder := httptest.NewRecorder()
	handler.ReviewRoutes(recorder, req)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected status 404, got %d", recorder.Code)
	}
}

func TestReviewHandlerRequiresLoopName(t *testing.T) {
	handler := NewReviewHandler(&mockReviewService{}, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/review/", nil)
	recorder := httptest.NewRecorder()
	handler.ReviewRoutes(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400 for missing loop name, got %d", recorder.Code)
	}
}

func TestHistoryHandlerListAndLimit(t *testing.T) {
	storage := &mockHistoryStorage{}
	for _, requestID := range []string{"req-1", "req-2", "req-3"} {
		storage.Save(context.Background(), &models.HistoryRecord{
			UserID:    "user-1",
			RequestID: requestID,
			RepoURL:   "https://github.com/acme/widget-tracker",
			Status:    models.HistoryStatusCompleted,
		})
	}
	handler := NewHistoryHandler(storage, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/history/user-1?limit=2", nil)
	recorder := httptest.NewRecorder()
	handler.HistoryRoutes(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}
	body := decodeBody(t, recorder)
	data := body.Data.(map[string]interface{})
	if data["count"].(float64) != 2 {
		t.Errorf("Expected 2 records with limit, got %v", data["count"])
	}
}

func TestHistoryHandlerGetRecord(t *testing.T) {
	storage := &mockHistoryStorage{}
	storage.Save(context.Background(), &models.HistoryRecord{
		UserID:    "user-1",
		RequestID: "req-1",
		Status:    models.HistoryStatusInReview,
	})
	handler := NewHistoryHandler(storage, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/history/user-1/req-1", nil)
	recorder := httptest.NewRecorder()
	handler.HistoryRoutes(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}

	req = httptest.NewRequest("GET", "/api/history/user-1/req-missing", nil)
	recorder = httptest.NewRecorder()
	handler.HistoryRoutes(recorder, req)

	if recorder.Code != http.StatusNotFound {
		t.Errorf("Expected status 404 for unknown record, got %d", recorder.Code)
	}
}

func TestKVHandlerMasksListedValues(t *testing.T) {
	storage := &mockKVStorage{}
	storage.Set(context.Background(), "anthropic_api_key", "sk-ant-1234567890abcd", "Claude API key")
	handler := NewKVHandler(storage, arbor.NewLogger())

	req := httptest.NewRequest("GET", "/api/keys", nil)
	recorder := httptest.NewRecorder()
	handler.KeysHandler(recorder, req)

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status 200, got %d", recorder.Code)
	}
	body := decodeBody(t, recorder)
	entries := body.Data.([]interface{})
	if len(entries) != 1 {
		t.Fatalf("Expected 1 entry, got %d", len(entries))
	}
	value := entries[0].(map[string]interface{})["value"].(string)
	if value != "********abcd" {
		t.Errorf("Expected masked value, got %s", value)
	}
}

func TestKVHandlerSetRequiresKeyAndValue(t *testing.T) {
	handler := NewKVHandler(&mockKVStorage{}, arbor.NewLogger())

	payload, _ := json.Marshal(map[string]string{"key": "", "value": "x"})
	req := httptest.NewRequest("POST", "/api/keys", bytes.NewReader(payload))
	recorder := httptest.NewRecorder()
	handler.KeysHandler(recorder, req)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status 400, got %d", recorder.Code)
	}
}
