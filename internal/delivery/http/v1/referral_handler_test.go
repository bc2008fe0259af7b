package v1_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"go-referral-backend/internal/delivery/http/middleware"
	v1 "go-referral-backend/internal/delivery/http/v1"
	"go-referral-backend/internal/domain"
	"go-referral-backend/pkg/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	logger.Init()
	os.Exit(m.Run())
}

type MockReferralUC struct {
	mock.Mock
}

func (m *MockReferralUC) Submit(ctx context.Context, ref *domain.Referral, att *domain.Attachment) (*domain.SubmitResult, error) {
	args := m.Called(ctx, ref, att)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SubmitResult), args.Error(1)
}

func (m *MockReferralUC) CheckStore(ctx context.Context) error {
	return m.Called(ctx).Error(0)
}

func newTestRouter(uc domain.ReferralUsecase, devMode bool) *gin.Engine {
	r := gin.New()
	r.Use(middleware.RequestID())
	r.Use(middleware.ErrorHandler(devMode))
	v1.NewReferralHandler(r.Group("/v1"), uc)
	return r
}

type filePart struct {
	fieldName   string
	filename    string
	contentType string
	data        []byte
}

func multipartRequest(t *testing.T, fields map[string]string, file *filePart) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for name, value := range fields {
		require.NoError(t, w.WriteField(name, value))
	}
	if file != nil {
		header := textproto.MIMEHeader{}
		header.Set("Content-Disposition", fmt.Sprintf(`form-data; name=%q; filename=%q`, file.fieldName, file.filename))
		header.Set("Content-Type", file.contentType)
		part, err := w.CreatePart(header)
		require.NoError(t, err)
		_, err = part.Write(file.data)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/v1/referrals/submit", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func validFields() map[string]string {
	return map[string]string{
		"FirstName": "Jane",
		"LastName":  "Doe",
		"Phone":     "+1 555-123-4567",
		"Email":     "jane@example.com",
		"Message":   "",
	}
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body), "every failure path must return a structured body")
	return body
}

func TestSubmitCreated(t *testing.T) {
	uc := new(MockReferralUC)
	uc.On("Submit", mock.Anything, mock.Anything, (*domain.Attachment)(nil)).
		Return(&domain.SubmitResult{RecordID: "recABC123"}, nil)

	rec := httptest.NewRecorder()
	newTestRouter(uc, false).ServeHTTP(rec, multipartRequest(t, validFields(), nil))

	require.Equal(t, http.StatusCreated, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, true, body["success"])
	assert.Equal(t, "Referral submitted successfully!", body["message"])

	data, ok := body["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "recABC123", data["recordId"])

	// The bound form reaches the usecase as submitted.
	ref := uc.Calls[0].Arguments.Get(1).(*domain.Referral)
	assert.Equal(t, "Jane", ref.FirstName)
	assert.Equal(t, "jane@example.com", ref.Email)
}

func TestSubmitPassesAttachmentThrough(t *testing.T) {
	uc := new(MockReferralUC)
	uc.On("Submit", mock.Anything, mock.Anything, mock.Anything).
		Return(&domain.SubmitResult{RecordID: "recATT"}, nil)

	file := &filePart{
		fieldName:   "attachment",
		filename:    "cv.pdf",
		contentType: "application/pdf",
		data:        []byte("%PDF-1.4 content"),
	}

	rec := httptest.NewRecorder()
	newTestRouter(uc, false).ServeHTTP(rec, multipartRequest(t, validFields(), file))

	require.Equal(t, http.StatusCreated, rec.Code)

	att := uc.Calls[0].Arguments.Get(2).(*domain.Attachment)
	require.NotNil(t, att)
	assert.Equal(t, "cv.pdf", att.Filename)
	assert.Equal(t, "application/pdf", att.ContentType)
	assert.Equal(t, []byte("%PDF-1.4 content"), att.Data)
}

func TestSubmitValidationFailure(t *testing.T) {
	uc := new(MockReferralUC)
	uc.On("Submit", mock.Anything, mock.Anything, mock.Anything).
		Return(nil, &domain.ValidationError{Fields: []domain.FieldError{
			{Field: "Phone", Message: "Invalid phone number format (at least 10 digits, with or without +)"},
		}})

	fields := validFields()
	fields["Phone"] = "123"

	rec := httptest.NewRecorder()
	newTestRouter(uc, false).ServeHTTP(rec, multipartRequest(t, fields, nil))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "Validation error", body["message"])

	errs, ok := body["errors"].([]any)
	require.True(t, ok)
	require.Len(t, errs, 1)
	entry := errs[0].(map[string]any)
	assert.Equal(t, "Phone", entry["field"])
	assert.Contains(t, entry["message"], "phone number")
}

func TestSubmitDuplicate(t *testing.T) {
	uc := new(MockReferralUC)
	uc.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return(nil, domain.ErrDuplicate)

	rec := httptest.NewRecorder()
	newTestRouter(uc, false).ServeHTTP(rec, multipartRequest(t, validFields(), nil))

	require.Equal(t, http.StatusConflict, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.Equal(t, "A referral with this email already exists.", body["message"])
}

func TestSubmitStoreFailure(t *testing.T) {
	storeErr := &domain.StoreError{Op: "create", Err: errors.New("request timed out")}

	t.Run("production mode hides detail", func(t *testing.T) {
		uc := new(MockReferralUC)
		uc.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return(nil, storeErr)

		rec := httptest.NewRecorder()
		newTestRouter(uc, false).ServeHTTP(rec, multipartRequest(t, validFields(), nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Failed to submit referral. Please try again later.", body["message"])
		assert.NotContains(t, body["message"], "timed out")
	})

	t.Run("development mode surfaces detail", func(t *testing.T) {
		uc := new(MockReferralUC)
		uc.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return(nil, storeErr)

		rec := httptest.NewRecorder()
		newTestRouter(uc, true).ServeHTTP(rec, multipartRequest(t, validFields(), nil))

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeBody(t, rec)
		assert.Contains(t, body["message"], "timed out")
	})
}

func TestSubmitUnexpectedError(t *testing.T) {
	uc := new(MockReferralUC)
	uc.On("Submit", mock.Anything, mock.Anything, mock.Anything).Return(nil, errors.New("boom"))

	rec := httptest.NewRecorder()
	newTestRouter(uc, false).ServeHTTP(rec, multipartRequest(t, validFields(), nil))

	require.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeBody(t, rec)
	assert.Equal(t, false, body["success"])
	assert.NotContains(t, body["message"], "boom")
}

func TestStoreProbe(t *testing.T) {
	t.Run("reachable", func(t *testing.T) {
		uc := new(MockReferralUC)
		uc.On("CheckStore", mock.Anything).Return(nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/referrals/test", nil)
		newTestRouter(uc, false).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, true, body["success"])
	})

	t.Run("unreachable", func(t *testing.T) {
		uc := new(MockReferralUC)
		uc.On("CheckStore", mock.Anything).
			Return(&domain.StoreError{Op: "ping", Err: errors.New("unreachable")})

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/v1/referrals/test", nil)
		newTestRouter(uc, false).ServeHTTP(rec, req)

		require.Equal(t, http.StatusInternalServerError, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, false, body["success"])
		assert.Equal(t, "Airtable connection failed", body["message"])
	})
}
