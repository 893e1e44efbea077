package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"docvault/internal/model"
	"docvault/internal/service"
	serviceMocks "docvault/internal/service/mocks"
	"docvault/internal/storage"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type testApp struct {
	app      *fiber.App
	docSvc   *serviceMocks.MockDocumentService
	typeSvc  *serviceMocks.MockDocumentTypeService
	classSvc *serviceMocks.MockClassificationService
	dbMock   sqlmock.Sqlmock
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()
	db, dbMock, err := sqlmock.New(sqlmock.MonitorPingsOption(true))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ta := &testApp{
		app:      fiber.New(fiber.Config{ErrorHandler: ErrorHandler()}),
		docSvc:   new(serviceMocks.MockDocumentService),
		typeSvc:  new(serviceMocks.MockDocumentTypeService),
		classSvc: new(serviceMocks.MockClassificationService),
		dbMock:   dbMock,
	}
	RegisterRoutes(ta.app, db, ta.docSvc, ta.typeSvc, ta.classSvc)
	return ta
}

func decodeError(t *testing.T, resp *http.Response) errorPayload {
	t.Helper()
	var res errorPayload
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&res))
	return res
}

func TestHealthCheck(t *testing.T) {
	ta := newTestApp(t)

	t.Run("healthy", func(t *testing.T) {
		ta.dbMock.ExpectPing().WillReturnError(nil)

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "healthy", body["status"])
	})

	t.Run("unhealthy", func(t *testing.T) {
		ta.dbMock.ExpectPing().WillReturnError(errors.New("db error"))

		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusServiceUnavailable, resp.StatusCode)
		assert.Equal(t, "SERVICE_UNAVAILABLE", decodeError(t, resp).Error.Code)
	})
}

func TestSearchDocuments(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ta := newTestApp(t)
		expected := &service.DocumentListResult{
			Items: []model.Document{{ID: uuid.NewString(), Name: "Q3 Invoice"}},
			Total: 1,
		}
		ta.docSvc.On("Search", mock.Anything, "invoice", (*string)(nil), 10, 0).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents?q=invoice&limit=10&offset=0", nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result service.DocumentListResult
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Len(t, result.Items, 1)
		assert.Equal(t, 1, result.Total)
		ta.docSvc.AssertExpectations(t)
	})

	t.Run("invalid limit", func(t *testing.T) {
		ta := newTestApp(t)
		req := httptest.NewRequest(http.MethodGet, "/documents?limit=abc", nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_LIMIT", decodeError(t, resp).Error.Code)
	})

	t.Run("invalid type filter", func(t *testing.T) {
		ta := newTestApp(t)
		req := httptest.NewRequest(http.MethodGet, "/documents?type_id=nope", nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_TYPE_ID", decodeError(t, resp).Error.Code)
	})

	t.Run("service error", func(t *testing.T) {
		ta := newTestApp(t)
		ta.docSvc.On("Search", mock.Anything, "", (*string)(nil), 0, 0).
			Return(nil, errors.New("service error")).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents", nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
		ta.docSvc.AssertExpectations(t)
	})
}

func multipartBody(t *testing.T, fields map[string]string, filename, content string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for k, v := range fields {
		require.NoError(t, writer.WriteField(k, v))
	}
	part, err := writer.CreateFormFile("file", filename)
	require.NoError(t, err)
	part.Write([]byte(content))
	writer.Close()
	return body, writer.FormDataContentType()
}

func TestUploadDocument(t *testing.T) {
	t.Run("success with metadata", func(t *testing.T) {
		ta := newTestApp(t)
		body, contentType := multipartBody(t, map[string]string{
			"name":     "Q3 Invoice",
			"metadata": `{"amount":"120.50"}`,
		}, "invoice.txt", "hello world")

		expected := &model.Document{ID: uuid.NewString(), Name: "Q3 Invoice"}
		ta.docSvc.On("Upload", mock.Anything, mock.Anything, mock.MatchedBy(func(cmd service.UploadCommand) bool {
			return cmd.Name == "Q3 Invoice" && cmd.Filename == "invoice.txt" &&
				cmd.Metadata["amount"] == "120.50"
		})).Return(expected, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)

		var result model.Document
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, expected.ID, result.ID)
		ta.docSvc.AssertExpectations(t)
	})

	t.Run("no file", func(t *testing.T) {
		ta := newTestApp(t)
		req := httptest.NewRequest(http.MethodPost, "/documents", nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "FILE_REQUIRED", decodeError(t, resp).Error.Code)
	})

	t.Run("malformed metadata", func(t *testing.T) {
		ta := newTestApp(t)
		body, contentType := multipartBody(t, map[string]string{"metadata": "{not json"}, "a.txt", "x")

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_METADATA", decodeError(t, resp).Error.Code)
	})

	t.Run("unknown type fails validation", func(t *testing.T) {
		ta := newTestApp(t)
		typeID := uuid.NewString()
		body, contentType := multipartBody(t, map[string]string{"document_type_id": typeID}, "a.txt", "x")

		ta.docSvc.On("Upload", mock.Anything, mock.Anything, mock.Anything).
			Return(nil, &service.ValidationError{Field: "document_type_id", Reason: "unknown document type"}).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents", body)
		req.Header.Set("Content-Type", contentType)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, resp).Error.Code)
		ta.docSvc.AssertExpectations(t)
	})
}

func TestGetDocument(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ta := newTestApp(t)
		id := uuid.NewString()
		ta.docSvc.On("Get", mock.Anything, id).
			Return(&model.Document{ID: id, Name: "test"}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id, nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var result model.Document
		json.NewDecoder(resp.Body).Decode(&result)
		assert.Equal(t, id, result.ID)
		ta.docSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		ta := newTestApp(t)
		id := uuid.NewString()
		ta.docSvc.On("Get", mock.Anything, id).Return(nil, service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id, nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
		ta.docSvc.AssertExpectations(t)
	})

	t.Run("invalid id", func(t *testing.T) {
		ta := newTestApp(t)
		req := httptest.NewRequest(http.MethodGet, "/documents/invalid-uuid", nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "INVALID_ID", decodeError(t, resp).Error.Code)
	})
}

func TestDocumentDownloadURL(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ta := newTestApp(t)
		id := uuid.NewString()
		ta.docSvc.On("DownloadURL", mock.Anything, id).
			Return("https://storage.local/signed", nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id+"/download-url", nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body map[string]string
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "https://storage.local/signed", body["url"])
		ta.docSvc.AssertExpectations(t)
	})

	t.Run("not found", func(t *testing.T) {
		ta := newTestApp(t)
		id := uuid.NewString()
		ta.docSvc.On("DownloadURL", mock.Anything, id).
			Return("", service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id+"/download-url", nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})
}

func TestUpdateDocument(t *testing.T) {
	t.Run("null metadata is passed through as nil", func(t *testing.T) {
		ta := newTestApp(t)
		id := uuid.NewString()
		ta.docSvc.On("Update", mock.Anything, id, mock.MatchedBy(func(cmd service.UpdateCommand) bool {
			return cmd.Name == "renamed" && cmd.Metadata == nil
		})).Return(&model.Document{ID: id, Name: "renamed"}, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/documents/"+id,
			strings.NewReader(`{"name":"renamed"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		ta.docSvc.AssertExpectations(t)
	})

	t.Run("metadata object replaces the set", func(t *testing.T) {
		ta := newTestApp(t)
		id := uuid.NewString()
		ta.docSvc.On("Update", mock.Anything, id, mock.MatchedBy(func(cmd service.UpdateCommand) bool {
			return cmd.Metadata != nil && cmd.Metadata["status"] == "final"
		})).Return(&model.Document{ID: id}, nil).Once()

		req := httptest.NewRequest(http.MethodPut, "/documents/"+id,
			strings.NewReader(`{"name":"n","metadata":{"status":"final"}}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		ta.docSvc.AssertExpectations(t)
	})
}

func TestDeleteDocument(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ta := newTestApp(t)
		id := uuid.NewString()
		ta.docSvc.On("Delete", mock.Anything, id).Return(true, nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		ta.docSvc.AssertExpectations(t)
	})

	t.Run("already deleted", func(t *testing.T) {
		ta := newTestApp(t)
		id := uuid.NewString()
		ta.docSvc.On("Delete", mock.Anything, id).Return(false, nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/documents/"+id, nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
		ta.docSvc.AssertExpectations(t)
	})
}

func TestDocumentTypeEndpoints(t *testing.T) {
	t.Run("create", func(t *testing.T) {
		ta := newTestApp(t)
		ta.typeSvc.On("Create", mock.Anything, service.TypeCommand{Name: "Invoice", Description: "billing"}).
			Return(&model.DocumentType{ID: uuid.NewString(), Name: "Invoice", TypeName: "invoice"}, nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/document-types",
			strings.NewReader(`{"name":"Invoice","description":"billing"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusCreated, resp.StatusCode)
		ta.typeSvc.AssertExpectations(t)
	})

	t.Run("duplicate name", func(t *testing.T) {
		ta := newTestApp(t)
		ta.typeSvc.On("Create", mock.Anything, mock.Anything).
			Return(nil, &service.ValidationError{Field: "name", Reason: "a document type with this name already exists"}).Once()

		req := httptest.NewRequest(http.MethodPost, "/document-types",
			strings.NewReader(`{"name":"Invoice"}`))
		req.Header.Set("Content-Type", "application/json")
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		assert.Equal(t, "VALIDATION_ERROR", decodeError(t, resp).Error.Code)
	})

	t.Run("delete in use", func(t *testing.T) {
		ta := newTestApp(t)
		id := uuid.NewString()
		ta.typeSvc.On("Delete", mock.Anything, id).
			Return(false, &service.ValidationError{Field: "id", Reason: "document type is in use"}).Once()

		req := httptest.NewRequest(http.MethodDelete, "/document-types/"+id, nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
		ta.typeSvc.AssertExpectations(t)
	})

	t.Run("deactivate missing", func(t *testing.T) {
		ta := newTestApp(t)
		id := uuid.NewString()
		ta.typeSvc.On("Deactivate", mock.Anything, id).Return(service.ErrNotFound).Once()

		req := httptest.NewRequest(http.MethodPost, "/document-types/"+id+"/deactivate", nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
	})

	t.Run("list documents of type", func(t *testing.T) {
		ta := newTestApp(t)
		id := uuid.NewString()
		ta.docSvc.On("ListByType", mock.Anything, id, 5, 0).
			Return(&service.DocumentListResult{Total: 0}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/document-types/"+id+"/documents?limit=5", nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		ta.docSvc.AssertExpectations(t)
	})
}

func TestClassificationEndpoints(t *testing.T) {
	t.Run("history", func(t *testing.T) {
		ta := newTestApp(t)
		id := uuid.NewString()
		ta.classSvc.On("History", mock.Anything, id).
			Return([]model.ClassificationResult{{IsSuccessful: true, DocumentType: "Invoice"}}, nil).Once()

		req := httptest.NewRequest(http.MethodGet, "/documents/"+id+"/classifications", nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)
		ta.classSvc.AssertExpectations(t)
	})

	t.Run("classify reports failed outcome with 200", func(t *testing.T) {
		ta := newTestApp(t)
		id := uuid.NewString()
		doc := &model.Document{ID: id, FilePath: "documents/" + id + ".bin"}
		ta.docSvc.On("GetContent", mock.Anything, id).
			Return(io.NopCloser(strings.NewReader("bytes")), storage.ObjectInfo{}, nil).Once()
		ta.docSvc.On("Get", mock.Anything, id).Return(doc, nil).Once()
		ta.classSvc.On("Classify", mock.Anything, mock.Anything, doc.FilePath).
			Return(model.FailedClassification("no text could be extracted", time.Now().UTC()), nil).Once()

		req := httptest.NewRequest(http.MethodPost, "/documents/"+id+"/classify", nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusOK, resp.StatusCode)

		var body struct {
			Result  model.ClassificationResult `json:"result"`
			Applied bool                       `json:"applied"`
		}
		json.NewDecoder(resp.Body).Decode(&body)
		assert.False(t, body.Result.IsSuccessful)
		assert.False(t, body.Applied)
		ta.classSvc.AssertExpectations(t)
	})

	t.Run("reset", func(t *testing.T) {
		ta := newTestApp(t)
		id := uuid.NewString()
		ta.classSvc.On("Reset", mock.Anything, id).Return(true, nil).Once()

		req := httptest.NewRequest(http.MethodDelete, "/documents/"+id+"/classifications", nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusNoContent, resp.StatusCode)
		ta.classSvc.AssertExpectations(t)
	})
}

func TestRouting(t *testing.T) {
	ta := newTestApp(t)

	t.Run("not found route", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/non-existent", nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusNotFound, resp.StatusCode)
		assert.Equal(t, "NOT_FOUND", decodeError(t, resp).Error.Code)
	})

	t.Run("method not allowed", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/health", nil)
		resp, _ := ta.app.Test(req)

		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
		assert.Equal(t, "METHOD_NOT_ALLOWED", decodeError(t, resp).Error.Code)
	})
}
