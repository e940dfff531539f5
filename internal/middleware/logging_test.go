package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRequestLoggerAssignsID(t *testing.T) {
	logger, hook := test.NewNullLogger()

	var seen string
	router := gin.New()
	router.Use(RequestLogger(logger))
	router.GET("/ping", func(c *gin.Context) {
		seen = RequestID(c)
		Logger(c, logger).Info("handling")
		c.Status(http.StatusNoContent)
	})

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/ping", nil))

	requestID := rr.Header().Get(RequestIDHeader)
	_, err := uuid.Parse(requestID)
	require.NoError(t, err)
	assert.Equal(t, requestID, seen)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "handling", entries[0].Message)
	assert.Equal(t, requestID, entries[0].Data["request_id"])

	done := entries[1]
	assert.Equal(t, logrus.InfoLevel, done.Level)
	assert.Equal(t, requestID, done.Data["request_id"])
	assert.Equal(t, http.MethodGet, done.Data["method"])
	assert.Equal(t, "/ping", done.Data["path"])
	assert.Equal(t, http.StatusNoContent, done.Data["status"])
}

func TestRequestLoggerHonoursIncomingID(t *testing.T) {
	logger, hook := test.NewNullLogger()

	router := gin.New()
	router.Use(RequestLogger(logger))
	router.POST("/bad", func(c *gin.Context) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "nope"})
	})

	req := httptest.NewRequest(http.MethodPost, "/bad", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, "req-123", rr.Header().Get(RequestIDHeader))

	entry := hook.LastEntry()
	require.NotNil(t, entry)
	assert.Equal(t, logrus.WarnLevel, entry.Level)
	assert.Equal(t, "req-123", entry.Data["request_id"])
}

func TestRequestLoggerWithRecovery(t *testing.T) {
	logger, hook := test.NewNullLogger()

	router := gin.New()
	router.Use(RequestLogger(logger), Recovery(logger))
	router.GET("/panic", func(c *gin.Context) {
		panic("kaboom")
	})

	req := httptest.NewRequest(http.MethodGet, "/panic", nil)
	req.Header.Set(RequestIDHeader, "req-456")
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)

	entries := hook.AllEntries()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-456", entries[0].Data["request_id"])
	assert.Equal(t, "kaboom", entries[0].Data["panic"])
	assert.Equal(t, logrus.ErrorLevel, entries[1].Level)
	assert.Equal(t, http.StatusInternalServerError, entries[1].Data["status"])
}

func TestLoggerFallback(t *testing.T) {
	fallback, _ := test.NewNullLogger()
	c, _ := gin.CreateTestContext(httptest.NewRecorder())

	assert.Same(t, fallback, Logger(c, fallback))
	assert.Empty(t, RequestID(c))
}
