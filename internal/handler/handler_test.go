package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"

	"github.com/GuptaAyush04/Drug-Safety-Calculator/internal/dto"
	"github.com/GuptaAyush04/Drug-Safety-Calculator/internal/schema"
	"github.com/GuptaAyush04/Drug-Safety-Calculator/internal/service"
	"github.com/GuptaAyush04/Drug-Safety-Calculator/internal/store"
)

// MockSubmissionService is a mock implementation of service.SubmissionServicer
type MockSubmissionService struct {
	mock.Mock
}

func (m *MockSubmissionService) Submit(ctx context.Context, kind schema.Kind, payload map[string]any) error {
	args := m.Called(ctx, kind, payload)
	return args.Error(0)
}

func postJSON(handler *Handler, path string, body []byte) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)
	return w
}

func TestHandler_HealthCheck(t *testing.T) {
	mockService := new(MockSubmissionService)
	log := zap.NewNop()

	handler := NewHandler(mockService, log)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()

	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "ok", response["status"])
}

func TestHandler_SaveEvaluation_Success(t *testing.T) {
	mockService := new(MockSubmissionService)
	log := zap.NewNop()

	handler := NewHandler(mockService, log)

	mockService.On("Submit", mock.Anything, schema.KindEvaluation, mock.MatchedBy(func(payload map[string]any) bool {
		return payload["researchId"] == "RS-042" && payload["age"] == float64(81)
	})).Return(nil)

	body := []byte(`{"researchId":"RS-042","age":81,"sex":"F"}`)
	w := postJSON(handler, "/save_data", body)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.SubmitResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Evaluation data saved successfully", response.Message)
	mockService.AssertExpectations(t)
}

func TestHandler_SaveSuggestion_Success(t *testing.T) {
	mockService := new(MockSubmissionService)
	log := zap.NewNop()

	handler := NewHandler(mockService, log)

	mockService.On("Submit", mock.Anything, schema.KindSuggestion, mock.Anything).Return(nil)

	body := []byte(`{"medicationName":"Diazepam","details":"Flag for review"}`)
	w := postJSON(handler, "/save_suggestion", body)

	assert.Equal(t, http.StatusOK, w.Code)

	var response dto.SubmitResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "Suggestion saved successfully", response.Message)
	mockService.AssertExpectations(t)
}

func TestHandler_SaveEvaluation_ArrayBody(t *testing.T) {
	mockService := new(MockSubmissionService)
	log := zap.NewNop()

	handler := NewHandler(mockService, log)

	w := postJSON(handler, "/save_data", []byte(`[1,2,3]`))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response dto.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "malformed_request", response.Error)
	mockService.AssertNotCalled(t, "Submit")
}

func TestHandler_SaveSuggestion_StringBody(t *testing.T) {
	mockService := new(MockSubmissionService)
	log := zap.NewNop()

	handler := NewHandler(mockService, log)

	w := postJSON(handler, "/save_suggestion", []byte(`"just a string"`))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response dto.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "malformed_request", response.Error)
	mockService.AssertNotCalled(t, "Submit")
}

func TestHandler_SaveEvaluation_NullBody(t *testing.T) {
	mockService := new(MockSubmissionService)
	log := zap.NewNop()

	handler := NewHandler(mockService, log)

	w := postJSON(handler, "/save_data", []byte(`null`))

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response dto.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "malformed_request", response.Error)
	mockService.AssertNotCalled(t, "Submit")
}

func TestHandler_SaveSuggestion_ValidationError(t *testing.T) {
	mockService := new(MockSubmissionService)
	log := zap.NewNop()

	handler := NewHandler(mockService, log)

	validationErr := fmt.Errorf("%w: missing medicationName or details", service.ErrValidation)
	mockService.On("Submit", mock.Anything, schema.KindSuggestion, mock.Anything).Return(validationErr)

	body := []byte(`{"medicationName":"Diazepam"}`)
	w := postJSON(handler, "/save_suggestion", body)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var response dto.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "validation_error", response.Error)
	assert.Contains(t, response.Message, "missing medicationName or details")
	mockService.AssertExpectations(t)
}

func TestHandler_SaveEvaluation_StorageUnavailable(t *testing.T) {
	mockService := new(MockSubmissionService)
	log := zap.NewNop()

	handler := NewHandler(mockService, log)

	storageErr := fmt.Errorf("failed to append evaluation record: %w", store.ErrUnavailable)
	mockService.On("Submit", mock.Anything, schema.KindEvaluation, mock.Anything).Return(storageErr)

	w := postJSON(handler, "/save_data", []byte(`{"age":81}`))

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response dto.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "storage_error", response.Error)
	mockService.AssertExpectations(t)
}

func TestHandler_SaveSuggestion_InternalError(t *testing.T) {
	mockService := new(MockSubmissionService)
	log := zap.NewNop()

	handler := NewHandler(mockService, log)

	mockService.On("Submit", mock.Anything, schema.KindSuggestion, mock.Anything).
		Return(errors.New("unexpected serialization failure"))

	body := []byte(`{"medicationName":"Diazepam","details":"Flag for review"}`)
	w := postJSON(handler, "/save_suggestion", body)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var response dto.ErrorResponse
	err := json.Unmarshal(w.Body.Bytes(), &response)
	assert.NoError(t, err)
	assert.Equal(t, "internal_error", response.Error)
	mockService.AssertExpectations(t)
}
