package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bobmcallan/investsync/internal/app"
	"github.com/bobmcallan/investsync/internal/common"
	"github.com/bobmcallan/investsync/internal/models"
	"github.com/bobmcallan/investsync/internal/services/auth"
	"github.com/bobmcallan/investsync/internal/services/holding"
	"github.com/bobmcallan/investsync/internal/services/room"
	"github.com/bobmcallan/investsync/internal/services/trend"
	"github.com/bobmcallan/investsync/internal/storage/memory"
)

// stubAIClient returns canned AI results for handler tests.
type stubAIClient struct {
	drafts     []models.HoldingDraft
	trends     []models.MarketTrend
	extractErr error
}

func (s *stubAIClient) ExtractHoldings(ctx context.Context, image []byte, mimeType string) ([]models.HoldingDraft, error) {
	return s.drafts, s.extractErr
}

func (s *stubAIClient) AnalyzeTrends(ctx context.Context, assets []string) ([]models.MarketTrend, error) {
	return s.trends, nil
}

func newTestServer(t *testing.T, ai *stubAIClient) *Server {
	t.Helper()

	logger := common.NewSilentLogger()
	storage := memory.NewManager(logger)
	config := common.NewDefaultConfig()
	config.Storage.Driver = "memory"

	a := &app.App{
		Config:         config,
		Logger:         logger,
		Storage:        storage,
		AuthService:    auth.NewService(storage, logger, "test-secret", time.Hour),
		RoomService:    room.NewService(storage, logger),
		HoldingService: holding.NewService(storage, logger),
		StartupTime:    time.Now(),
	}
	if ai != nil {
		a.GeminiClient = ai
		a.TrendService = trend.NewService(ai, logger)
	}

	return NewServer(a)
}

func doRequest(t *testing.T, s *Server, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func login(t *testing.T, s *Server, phone, name string) (userID, token string) {
	t.Helper()

	rec := doRequest(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{
		"phone": phone,
		"name":  name,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		User  models.User `json:"user"`
		Token string      `json:"token"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp.User.ID, resp.Token
}

func TestHealthAndVersion(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/health", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rec = doRequest(t, s, http.MethodGet, "/api/version", "", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestAuthLogin(t *testing.T) {
	s := newTestServer(t, nil)

	t.Run("success", func(t *testing.T) {
		userID, token := login(t, s, "+61400000001", "Alice")
		assert.NotEmpty(t, userID)
		assert.NotEmpty(t, token)
	})

	t.Run("missing fields", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/auth/login", "", map[string]string{"phone": "+614"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("wrong method", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/auth/login", "", nil)
		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	})
}

func TestAuthMe(t *testing.T) {
	s := newTestServer(t, nil)
	_, token := login(t, s, "+61400000001", "Alice")

	t.Run("with token", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/auth/me", token, nil)
		require.Equal(t, http.StatusOK, rec.Code)

		var user models.User
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &user))
		assert.Equal(t, "Alice", user.Name)
	})

	t.Run("without token", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/auth/me", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("garbage token", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/auth/me", "garbage", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestRoomFlow(t *testing.T) {
	s := newTestServer(t, nil)
	aliceID, aliceToken := login(t, s, "+61400000001", "Alice")
	bobID, bobToken := login(t, s, "+61400000002", "Bob")

	// Alice creates a room.
	rec := doRequest(t, s, http.MethodPost, "/api/rooms", aliceToken, nil)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var created models.Room
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))
	assert.Len(t, created.Code, 4)
	assert.Equal(t, aliceID, created.HostID)

	// Bob joins.
	rec = doRequest(t, s, http.MethodPost, "/api/rooms/join", bobToken, map[string]string{"code": created.Code})
	require.Equal(t, http.StatusOK, rec.Code)

	// Bob's active room resolves both members.
	rec = doRequest(t, s, http.MethodGet, "/api/rooms/active", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var detail models.RoomDetail
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &detail))
	assert.Equal(t, created.Code, detail.Code)
	require.Len(t, detail.Members, 2)
	assert.Equal(t, "Alice", detail.Members[0].Name)

	// Bob cannot kick the host.
	rec = doRequest(t, s, http.MethodPost, "/api/rooms/kick", bobToken, map[string]string{
		"code":         created.Code,
		"userIdToKick": aliceID,
	})
	assert.Equal(t, http.StatusForbidden, rec.Code)

	// Alice kicks Bob.
	rec = doRequest(t, s, http.MethodPost, "/api/rooms/kick", aliceToken, map[string]string{
		"code":         created.Code,
		"userIdToKick": bobID,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	// Bob is no longer in a room.
	rec = doRequest(t, s, http.MethodGet, "/api/rooms/active", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "null", strings.TrimSpace(rec.Body.String()))

	// Alice leaves, the room is gone.
	rec = doRequest(t, s, http.MethodPost, "/api/rooms/leave", aliceToken, map[string]string{"code": created.Code})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/api/rooms/join", bobToken, map[string]string{"code": created.Code})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHoldingFlow(t *testing.T) {
	s := newTestServer(t, nil)
	_, aliceToken := login(t, s, "+61400000001", "Alice")
	_, bobToken := login(t, s, "+61400000002", "Bob")

	// Add.
	rec := doRequest(t, s, http.MethodPost, "/api/holdings", aliceToken, models.HoldingDraft{
		Symbol: "AAPL", Name: "Apple Inc", Quantity: 10, Profit: 100,
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var holding models.Holding
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &holding))
	require.NotEmpty(t, holding.ID)

	// List mine.
	rec = doRequest(t, s, http.MethodGet, "/api/holdings", aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var holdings []models.Holding
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &holdings))
	assert.Len(t, holdings, 1)

	// Bob sees nothing of Alice's.
	rec = doRequest(t, s, http.MethodGet, "/api/holdings", bobToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, "[]", rec.Body.String())

	// Bob cannot update Alice's holding, and the error looks like a 404.
	rec = doRequest(t, s, http.MethodPut, "/api/holdings/"+holding.ID, bobToken, map[string]float64{"quantity": 1})
	assert.Equal(t, http.StatusNotFound, rec.Code)

	// Alice updates.
	rec = doRequest(t, s, http.MethodPut, "/api/holdings/"+holding.ID, aliceToken, map[string]float64{"quantity": 15})
	require.Equal(t, http.StatusOK, rec.Code)

	var updated models.Holding
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &updated))
	assert.Equal(t, 15.0, updated.Quantity)

	// Alice deletes.
	rec = doRequest(t, s, http.MethodDelete, "/api/holdings/"+holding.ID, aliceToken, nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = doRequest(t, s, http.MethodDelete, "/api/holdings/"+holding.ID, aliceToken, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestHoldingBatch(t *testing.T) {
	s := newTestServer(t, nil)
	_, token := login(t, s, "+61400000001", "Alice")

	rec := doRequest(t, s, http.MethodPost, "/api/holdings/batch", token, map[string]interface{}{
		"holdings": []models.HoldingDraft{
			{Name: "Apple Inc", Symbol: "AAPL", Profit: 100},
			{Profit: -50},
		},
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	var imported []models.Holding
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &imported))
	require.Len(t, imported, 2)
	assert.Equal(t, models.DefaultHoldingSymbol, imported[1].Symbol)
	assert.Equal(t, models.ImportedHoldingNotes, imported[1].Notes)

	t.Run("empty batch imports nothing", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/holdings/batch", token, map[string]interface{}{"holdings": []models.HoldingDraft{}})
		assert.Equal(t, http.StatusCreated, rec.Code)
		assert.JSONEq(t, "[]", rec.Body.String())
	})

	t.Run("missing holdings field rejected", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodPost, "/api/holdings/batch", token, map[string]interface{}{})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHoldingScopeErrors(t *testing.T) {
	s := newTestServer(t, nil)
	_, token := login(t, s, "+61400000001", "Alice")

	t.Run("unknown scope", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/holdings?scope=everything", token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("room scope without code", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/holdings?scope=room", token, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown room", func(t *testing.T) {
		rec := doRequest(t, s, http.MethodGet, "/api/holdings?scope=room&roomCode=0000", token, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestAIExtract(t *testing.T) {
	image := base64.StdEncoding.EncodeToString([]byte("fake-png-bytes"))

	t.Run("success", func(t *testing.T) {
		s := newTestServer(t, &stubAIClient{drafts: []models.HoldingDraft{{Name: "Apple Inc", Symbol: "AAPL", Profit: 10}}})
		_, token := login(t, s, "+61400000001", "Alice")

		rec := doRequest(t, s, http.MethodPost, "/api/ai/extract", token, map[string]string{
			"image":    image,
			"mimeType": "image/png",
		})
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

		var resp struct {
			Holdings []models.HoldingDraft `json:"holdings"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		require.Len(t, resp.Holdings, 1)
		assert.Equal(t, "AAPL", resp.Holdings[0].Symbol)
	})

	t.Run("extraction failure surfaces with the upstream message", func(t *testing.T) {
		s := newTestServer(t, &stubAIClient{extractErr: errors.New("gemini quota exceeded")})
		_, token := login(t, s, "+61400000001", "Alice")

		rec := doRequest(t, s, http.MethodPost, "/api/ai/extract", token, map[string]string{"image": image})
		assert.Equal(t, http.StatusInternalServerError, rec.Code)

		var resp ErrorResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.Contains(t, resp.Error, "gemini quota exceeded")
	})

	t.Run("invalid base64", func(t *testing.T) {
		s := newTestServer(t, &stubAIClient{})
		_, token := login(t, s, "+61400000001", "Alice")

		rec := doRequest(t, s, http.MethodPost, "/api/ai/extract", token, map[string]string{"image": "!!not-base64!!"})
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unconfigured AI", func(t *testing.T) {
		s := newTestServer(t, nil)
		_, token := login(t, s, "+61400000001", "Alice")

		rec := doRequest(t, s, http.MethodPost, "/api/ai/extract", token, map[string]string{"image": image})
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})
}

func TestAITrends(t *testing.T) {
	stub := &stubAIClient{trends: []models.MarketTrend{
		{Symbol: "AAPL", Sentiment: models.SentimentBullish, Summary: "up", Timestamp: time.Now()},
	}}
	s := newTestServer(t, stub)
	_, token := login(t, s, "+61400000001", "Alice")

	// Add a stored holding so the empty-body path has something to analyze.
	rec := doRequest(t, s, http.MethodPost, "/api/holdings", token, models.HoldingDraft{Symbol: "AAPL", Name: "Apple Inc"})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = doRequest(t, s, http.MethodPost, "/api/ai/trends", token, map[string]interface{}{})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	var resp struct {
		Trends []models.MarketTrend `json:"trends"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.Len(t, resp.Trends, 1)
	assert.Equal(t, models.SentimentBullish, resp.Trends[0].Sentiment)

	t.Run("bodyless request analyzes stored holdings", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/ai/trends", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()
		s.Handler().ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
	})
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(t, nil)

	req := httptest.NewRequest(http.MethodOptions, "/api/holdings", nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCorrelationIDHeader(t *testing.T) {
	s := newTestServer(t, nil)

	rec := doRequest(t, s, http.MethodGet, "/api/health", "", nil)
	assert.NotEmpty(t, rec.Header().Get("X-Correlation-ID"))

	req := httptest.NewRequest(http.MethodGet, "/api/health", nil)
	req.Header.Set("X-Request-ID", "req-123")
	rec = httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	assert.Equal(t, "req-123", rec.Header().Get("X-Correlation-ID"))
}
