package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docqa/src/core/docqa"
)

type fakeIngestion struct {
	sessionID string
	documents []docqa.Document
	err       error

	gotFiles   []docqa.UploadFile
	gotSession string
}

func (f *fakeIngestion) Ingest(ctx context.Context, files []docqa.UploadFile, sessionID string) (string, []docqa.Document, error) {
	f.gotFiles = files
	f.gotSession = sessionID
	if f.err != nil {
		return "", nil, f.err
	}
	return f.sessionID, f.documents, nil
}

type fakeChat struct {
	answer *docqa.Answer
	err    error

	gotSession     string
	gotQuestion    string
	gotDocumentIDs []string
}

func (f *fakeChat) Answer(ctx context.Context, sessionID, question string, documentIDs []string) (*docqa.Answer, error) {
	f.gotSession = sessionID
	f.gotQuestion = question
	f.gotDocumentIDs = documentIDs
	if f.err != nil {
		return nil, f.err
	}
	return f.answer, nil
}

func newRouter(ingestion *fakeIngestion, chat *fakeChat) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	NewHandler(ingestion, chat).RegisterRoutes(r)
	return r
}

func multipartBody(t *testing.T, sessionID string, files map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	body := &bytes.Buffer{}
	w := multipart.NewWriter(body)
	if sessionID != "" {
		require.NoError(t, w.WriteField("session_id", sessionID))
	}
	for name, content := range files {
		part, err := w.CreateFormFile("files", name)
		require.NoError(t, err)
		_, err = part.Write([]byte(content))
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())
	return body, w.FormDataContentType()
}

func TestRootBanner(t *testing.T) {
	r := newRouter(&fakeIngestion{}, &fakeChat{})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "docqa backend is running.")
}

func TestUploadDocuments(t *testing.T) {
	ingestion := &fakeIngestion{
		sessionID: "session-1",
		documents: []docqa.Document{{
			DocumentID: "doc-1",
			Filename:   "notes.txt",
			ChunkCount: 3,
		}},
	}
	r := newRouter(ingestion, &fakeChat{})

	body, contentType := multipartBody(t, "session-1", map[string]string{"notes.txt": "The sky is blue."})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
	req.Header.Set("Content-Type", contentType)

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "session-1", ingestion.gotSession)
	require.Len(t, ingestion.gotFiles, 1)
	assert.Equal(t, "notes.txt", ingestion.gotFiles[0].Filename)

	var resp uploadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "session-1", resp.SessionID)
	require.Len(t, resp.Documents, 1)
	assert.Equal(t, "doc-1", resp.Documents[0].DocumentID)
	assert.Equal(t, 3, resp.Documents[0].ChunkCount)
}

func TestUploadDocumentsErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "bad input",
			err:        fmt.Errorf("%w: please upload at least one document", docqa.ErrBadInput),
			wantStatus: http.StatusBadRequest,
			wantCode:   "BAD_INPUT",
		},
		{
			name:       "unsupported format",
			err:        fmt.Errorf("%w: photo.png", docqa.ErrUnsupportedFormat),
			wantStatus: http.StatusUnsupportedMediaType,
			wantCode:   "UNSUPPORTED_FORMAT",
		},
		{
			name:       "missing capability",
			err:        fmt.Errorf("%w: no pdf parser backend is configured", docqa.ErrMissingCapability),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "MISSING_CAPABILITY",
		},
		{
			name:       "upstream failure",
			err:        fmt.Errorf("embedding failed: %w", docqa.ErrUpstream),
			wantStatus: http.StatusBadGateway,
			wantCode:   "UPSTREAM_FAILURE",
		},
		{
			name:       "unexpected error",
			err:        errors.New("disk full"),
			wantStatus: http.StatusInternalServerError,
			wantCode:   "INTERNAL_ERROR",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&fakeIngestion{err: tt.err}, &fakeChat{})

			body, contentType := multipartBody(t, "", map[string]string{"notes.txt": "text"})
			req := httptest.NewRequest(http.MethodPost, "/api/v1/documents/upload", body)
			req.Header.Set("Content-Type", contentType)

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.wantCode, resp.Code)
			assert.NotEmpty(t, resp.Message)
		})
	}
}

func TestQueryDocuments(t *testing.T) {
	chat := &fakeChat{
		answer: &docqa.Answer{
			Answer: "The sky is blue.",
			Citations: []docqa.Citation{{
				DocumentID:  "doc-1",
				Source:      "doc-1_notes.txt",
				ChunkIndex:  0,
				TextSnippet: "The sky is blue.",
			}},
		},
	}
	r := newRouter(&fakeIngestion{}, chat)

	payload := `{"session_id":"session-1","question":"What color is the sky?","document_ids":["doc-1"]}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/query", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "session-1", chat.gotSession)
	assert.Equal(t, "What color is the sky?", chat.gotQuestion)
	assert.Equal(t, []string{"doc-1"}, chat.gotDocumentIDs)

	var resp docqa.Answer
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "The sky is blue.", resp.Answer)
	require.Len(t, resp.Citations, 1)
	assert.Equal(t, "doc-1", resp.Citations[0].DocumentID)
}

func TestQueryDocumentsOmittedFilterStaysNil(t *testing.T) {
	chat := &fakeChat{answer: &docqa.Answer{Answer: docqa.FallbackAnswer, Citations: []docqa.Citation{}}}
	r := newRouter(&fakeIngestion{}, chat)

	payload := `{"session_id":"session-1","question":"Anything?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/query", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Nil(t, chat.gotDocumentIDs, "an omitted filter must stay distinct from an empty one")
}

func TestQueryDocumentsValidation(t *testing.T) {
	tests := []struct {
		name    string
		payload string
	}{
		{name: "missing session id", payload: `{"question":"Anything?"}`},
		{name: "missing question", payload: `{"session_id":"session-1"}`},
		{name: "malformed json", payload: `{"session_id":`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRouter(&fakeIngestion{}, &fakeChat{})

			req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/query", strings.NewReader(tt.payload))
			req.Header.Set("Content-Type", "application/json")

			rec := httptest.NewRecorder()
			r.ServeHTTP(rec, req)

			assert.Equal(t, http.StatusBadRequest, rec.Code)
			var resp ErrorResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, "BAD_INPUT", resp.Code)
		})
	}
}

func TestQueryDocumentsUnknownSession(t *testing.T) {
	chat := &fakeChat{err: fmt.Errorf("%w: ghost", docqa.ErrSessionNotFound)}
	r := newRouter(&fakeIngestion{}, chat)

	payload := `{"session_id":"ghost","question":"Anything?"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/chat/query", strings.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "SESSION_NOT_FOUND", resp.Code)
}
