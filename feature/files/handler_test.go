package files

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"filestore/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, *mocks.Client) {
	app := fiber.New()
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, "test-bucket", 6*time.Hour, zap.NewNop())
	handler := NewHandler(svc)
	handler.RegisterRoutes(app)
	return app, mockClient
}

func mustParseURL(t *testing.T, raw string) *url.URL {
	t.Helper()
	u, err := url.Parse(raw)
	require.NoError(t, err)
	return u
}

func TestHandleList(t *testing.T) {
	app, mockClient := setupTestApp(t)

	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(objectChannel(
		minio.ObjectInfo{Key: "ws/a.txt", Size: 3, LastModified: time.Now()},
	))
	mockClient.On("PresignedGetObject", mock.Anything, "test-bucket", "ws/a.txt", 6*time.Hour, mock.Anything).
		Return(mustParseURL(t, "https://s3.local/test-bucket/ws/a.txt"), nil)

	req := httptest.NewRequest("GET", "/files?prefix=ws/", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Files []FileRecord `json:"files"`
		Count int          `json:"count"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "ws/a.txt", body.Files[0].Key)
	assert.NotEmpty(t, body.Files[0].URL)
}

func TestHandleList_WithoutURLs(t *testing.T) {
	app, mockClient := setupTestApp(t)

	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(objectChannel(
		minio.ObjectInfo{Key: "ws/a.txt", Size: 3, LastModified: time.Now()},
	))

	req := httptest.NewRequest("GET", "/files?prefix=ws/&urls=false", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body struct {
		Files []FileRecord `json:"files"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	require.Len(t, body.Files, 1)
	assert.Empty(t, body.Files[0].URL)
	mockClient.AssertNotCalled(t, "PresignedGetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleList_Error(t *testing.T) {
	app, mockClient := setupTestApp(t)

	mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(objectChannel(
		minio.ObjectInfo{Err: assert.AnError},
	))

	req := httptest.NewRequest("GET", "/files", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestHandleUpload(t *testing.T) {
	app, mockClient := setupTestApp(t)

	mockClient.On("PutObject", mock.Anything, "test-bucket", "ws/a.txt", mock.Anything, int64(5), mock.Anything).
		Return(minio.UploadInfo{Key: "ws/a.txt"}, nil)
	mockClient.On("PresignedGetObject", mock.Anything, "test-bucket", "ws/a.txt", 6*time.Hour, mock.Anything).
		Return(mustParseURL(t, "https://s3.local/test-bucket/ws/a.txt"), nil)

	req := httptest.NewRequest("POST", "/files/ws/a.txt", bytes.NewReader([]byte("hello")))
	req.Header.Set(fiber.HeaderContentType, "text/plain")
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 201, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ws/a.txt", body["key"])
	assert.Contains(t, body["url"], "ws/a.txt")
}

func TestHandleUpload_StorageError(t *testing.T) {
	app, mockClient := setupTestApp(t)

	mockClient.On("PutObject", mock.Anything, "test-bucket", "ws/a.txt", mock.Anything, mock.Anything, mock.Anything).
		Return(minio.UploadInfo{}, assert.AnError)

	req := httptest.NewRequest("POST", "/files/ws/a.txt", bytes.NewReader([]byte("hello")))
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 500, resp.StatusCode)
}

func TestHandleDownload(t *testing.T) {
	app, mockClient := setupTestApp(t)

	mockClient.On("StatObject", mock.Anything, "test-bucket", "ws/a.txt", mock.Anything).
		Return(minio.ObjectInfo{Key: "ws/a.txt", Size: 5, ContentType: "text/plain"}, nil)
	mockClient.On("GetObject", mock.Anything, "test-bucket", "ws/a.txt", mock.Anything).
		Return(io.NopCloser(bytes.NewReader([]byte("hello"))), nil)

	req := httptest.NewRequest("GET", "/files/download/ws/a.txt", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	// The stored content type must be echoed, not a generic fallback
	assert.Equal(t, "text/plain", resp.Header.Get(fiber.HeaderContentType))

	content, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(content))
}

func TestHandleDownload_NotFound(t *testing.T) {
	app, mockClient := setupTestApp(t)

	mockClient.On("StatObject", mock.Anything, "test-bucket", "ws/missing.txt", mock.Anything).
		Return(minio.ObjectInfo{}, minio.ErrorResponse{Code: "NoSuchKey", Message: "The specified key does not exist.", StatusCode: 404})

	req := httptest.NewRequest("GET", "/files/download/ws/missing.txt", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 404, resp.StatusCode)
	mockClient.AssertNotCalled(t, "GetObject", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestHandleURL(t *testing.T) {
	app, mockClient := setupTestApp(t)

	mockClient.On("PresignedGetObject", mock.Anything, "test-bucket", "ws/a.txt", time.Minute, mock.Anything).
		Return(mustParseURL(t, "https://s3.local/test-bucket/ws/a.txt"), nil)

	req := httptest.NewRequest("GET", "/files/url/ws/a.txt?expires=60", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Contains(t, body["url"], "ws/a.txt")
	mockClient.AssertExpectations(t)
}

func TestHandleDelete(t *testing.T) {
	app, mockClient := setupTestApp(t)

	mockClient.On("RemoveObject", mock.Anything, "test-bucket", "ws/a.txt", mock.Anything).Return(nil)

	req := httptest.NewRequest("DELETE", "/files/ws/a.txt", nil)
	resp, err := app.Test(req)

	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "deleted", body["status"])
	assert.Equal(t, "ws/a.txt", body["key"])
}

func TestHandleCleanup(t *testing.T) {
	t.Run("MissingPrefix", func(t *testing.T) {
		app, _ := setupTestApp(t)

		req := httptest.NewRequest("DELETE", "/files", nil)
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})

	t.Run("RemovesPrefix", func(t *testing.T) {
		app, mockClient := setupTestApp(t)

		mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).Return(objectChannel(
			minio.ObjectInfo{Key: "ws/a.txt", Size: 3, LastModified: time.Now()},
		))
		errCh := make(chan minio.RemoveObjectError)
		close(errCh)
		mockClient.On("RemoveObjects", mock.Anything, "test-bucket", mock.Anything, mock.Anything).
			Return((<-chan minio.RemoveObjectError)(errCh))

		req := httptest.NewRequest("DELETE", "/files?prefix=ws/", nil)
		resp, err := app.Test(req)

		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		assert.Equal(t, "cleaned", body["status"])
		assert.Equal(t, float64(1), body["removed"])
	})
}
