package util

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testContext() (*gin.Context, *httptest.ResponseRecorder) {
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	return c, rec
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) Envelope {
	t.Helper()
	var env Envelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env
}

func TestFailMapsErrorCodesToHTTPStatus(t *testing.T) {
	cases := []struct {
		code   ErrorCode
		status int
	}{
		{CodeUnauthenticated, http.StatusUnauthorized},
		{CodeForbidden, http.StatusForbidden},
		{CodeValidation, http.StatusBadRequest},
		{CodeUnknownAction, http.StatusBadRequest},
		{CodeNotFound, http.StatusNotFound},
		{CodeUpstreamFailure, http.StatusBadGateway},
	}

	for _, tc := range cases {
		t.Run(string(tc.code), func(t *testing.T) {
			c, rec := testContext()
			Fail(c, NewAppError(tc.code, "boom"))

			assert.Equal(t, tc.status, rec.Code)
			env := decodeEnvelope(t, rec)
			assert.Equal(t, StatusError, env.Status)
			assert.Contains(t, env.Message, string(tc.code))
		})
	}
}

// 未归类的错误兜底 500，信封里保留原始信息。
func TestFailUnmappedErrorIsInternal(t *testing.T) {
	c, rec := testContext()
	Fail(c, errors.New("disk on fire"))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, StatusError, env.Status)
	assert.Equal(t, "disk on fire", env.Message)
}

func TestFailUnwrapsWrappedAppError(t *testing.T) {
	c, rec := testContext()
	wrapped := errors.Join(errors.New("outer"), NewAppError(CodeNotFound, "gone"))
	Fail(c, wrapped)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestWarningEnvelope(t *testing.T) {
	c, rec := testContext()
	Warning(c, gin.H{"matched_ids": []string{}}, "degraded")

	assert.Equal(t, http.StatusOK, rec.Code)
	env := decodeEnvelope(t, rec)
	assert.Equal(t, StatusWarning, env.Status)
	assert.Equal(t, "degraded", env.Message)
	assert.Contains(t, rec.Body.String(), `"matched_ids":[]`)
}

func TestSuccessEnvelopeOmitsMessage(t *testing.T) {
	c, rec := testContext()
	Success(c, gin.H{"ok": true})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.NotContains(t, rec.Body.String(), "message")
	env := decodeEnvelope(t, rec)
	assert.Equal(t, StatusSuccess, env.Status)
}
