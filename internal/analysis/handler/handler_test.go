package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cipherworks/cipher-analysis-platform/internal/vigenere"
)

// newTestHandler returns a handler with caching, telemetry, and metrics all
// disabled; the degraded paths are exactly what unit tests should exercise.
func newTestHandler() *Handler {
	return New(nil, nil, nil, vigenere.Options{})
}

func postJSON(t *testing.T, h http.HandlerFunc, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h(rec, req)
	return rec
}

func TestEncryptEndpoint(t *testing.T) {
	rec := postJSON(t, newTestHandler().Encrypt, `{"text":"HELLOWORLD","key":"KEY"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CipherResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "RIJVSUYVJN", resp.Result)
	assert.Equal(t, 10, resp.Length)
}

func TestDecryptEndpoint(t *testing.T) {
	rec := postJSON(t, newTestHandler().Decrypt, `{"text":"RIJVSUYVJN","key":"KEY"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp CipherResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "HELLOWORLD", resp.Result)
}

func TestCipherEndpointEmptyKey(t *testing.T) {
	rec := postJSON(t, newTestHandler().Encrypt, `{"text":"HELLO","key":"123"}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCipherEndpointBadJSON(t *testing.T) {
	rec := postJSON(t, newTestHandler().Encrypt, `{"text":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCrackEndpoint(t *testing.T) {
	plaintext := strings.Repeat("EEEAEEEBEEECEEEDEEEF", 100)
	cipher, err := vigenere.Encrypt(plaintext, "KE")
	require.NoError(t, err)

	body, err := json.Marshal(CrackRequest{Ciphertext: cipher})
	require.NoError(t, err)
	rec := postJSON(t, newTestHandler().Crack, string(body))
	require.Equal(t, http.StatusOK, rec.Code)

	var result vigenere.Result
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, "KE", result.Key)
	assert.Equal(t, 2, result.KeyLength)
	assert.Equal(t, plaintext, result.Plaintext)
}

func TestCrackEndpointInsufficientSignal(t *testing.T) {
	rec := postJSON(t, newTestHandler().Crack, `{"ciphertext":"ABCDEFGHIJ"}`)
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Contains(t, resp["error"], "insufficient signal")
}

func TestCrackEndpointNonAlphabetic(t *testing.T) {
	rec := postJSON(t, newTestHandler().Crack, `{"ciphertext":"123 !? ..."}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCacheStatsDisabled(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec := httptest.NewRecorder()
	newTestHandler().CacheStats(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "disabled", resp["status"])
}

func TestCacheInvalidateDisabled(t *testing.T) {
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	rec := httptest.NewRecorder()
	newTestHandler().CacheInvalidate(rec, req)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}
