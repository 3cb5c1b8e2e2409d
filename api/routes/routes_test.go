package routes

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ArowuTest/luckydraw-backend/internal/config"
	"github.com/ArowuTest/luckydraw-backend/internal/draw"
	"github.com/ArowuTest/luckydraw-backend/internal/handlers"
	"github.com/ArowuTest/luckydraw-backend/internal/metrics"
	"github.com/ArowuTest/luckydraw-backend/internal/models"
	"github.com/ArowuTest/luckydraw-backend/internal/repositories/memory"
	"github.com/ArowuTest/luckydraw-backend/internal/rng"
	"github.com/ArowuTest/luckydraw-backend/internal/services"
	"github.com/ArowuTest/luckydraw-backend/pkg/jwt"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

const testPassword = "draw-night"

func setupTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	hash, err := bcrypt.GenerateFromPassword([]byte(testPassword), bcrypt.MinCost)
	require.NoError(t, err)

	cfg := &config.Config{
		Server:   config.ServerConfig{Port: "0", AllowedHosts: []string{"localhost:3000"}},
		Operator: config.OperatorConfig{Username: "operator", PasswordHash: string(hash)},
		Pool:     config.PoolConfig{Start: 1, End: 180, PadWidth: 3, HeaderLabel: "number"},
		Awards:   config.DefaultAwards(),
	}

	prom := metrics.NewPrometheus(prometheus.NewRegistry(), "luckydraw")
	engine := draw.NewEngine(rng.NewSampler(rng.NewSource()))
	eventService := services.NewEventService(memory.NewEventRepository(), prom, engine.BatchID)
	drawService := services.NewDrawService(engine, memory.NewWinnerRepository(), prom, eventService)
	poolService := services.NewPoolService(engine, cfg.Pool, prom, eventService)
	require.NoError(t, drawService.RegisterAwards(t.Context(), cfg.ScheduledAwards()))
	_, err = poolService.LoadDefaultPool(t.Context())
	require.NoError(t, err)

	tokens, err := jwt.NewTokenService("test-secret", time.Hour)
	require.NoError(t, err)

	return SetupRouter(cfg, Dependencies{
		DrawHandler:  handlers.NewDrawHandler(drawService),
		PoolHandler:  handlers.NewPoolHandler(poolService),
		AuthHandler:  handlers.NewAuthHandler(services.NewAuthService(cfg.Operator, tokens)),
		EventHandler: handlers.NewEventHandler(eventService),
		Tokens:       tokens,
		Metrics:      prom.Handler(),
	})
}

func doRequest(router *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, router *gin.Engine) string {
	t.Helper()
	w := doRequest(router, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Username: "operator", Password: testPassword})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var resp models.LoginResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotEmpty(t, resp.Token)
	assert.Equal(t, 3600, resp.ExpiresIn)
	return resp.Token
}

func TestHealth(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/health", "", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"ok"}`, w.Body.String())
	assert.NotEmpty(t, w.Header().Get("X-Request-ID"))
}

func TestLoginRejectsWrongPassword(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{Username: "operator", Password: "nope"})
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/auth/login", "", map[string]string{"username": "operator"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(router, http.MethodPost, "/api/v1/awards/lucky/draw", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/awards/lucky/draw", "garbage", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
}

func TestDrawRoundFlow(t *testing.T) {
	router := setupTestRouter(t)
	token := login(t, router)

	w := doRequest(router, http.MethodPost, "/api/v1/awards/lucky/draw", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result models.RoundResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Len(t, result.Winners, 13)
	assert.Equal(t, 13, result.DrawnCount)
	assert.Equal(t, 43, result.Quota)
	assert.False(t, result.Completed)

	// Begin then commit
	w = doRequest(router, http.MethodPost, "/api/v1/awards/lucky/rounds/begin", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var ticket models.RoundTicket
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ticket))
	assert.Equal(t, 2, ticket.Round)
	assert.Equal(t, 15, ticket.Target)

	w = doRequest(router, http.MethodPost, "/api/v1/awards/lucky/rounds/begin", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/awards/lucky/rounds/commit", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doRequest(router, http.MethodPost, "/api/v1/awards/lucky/rounds/commit", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/awards/lucky/winners", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var winners struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &winners))
	assert.Equal(t, 28, winners.Count)

	w = doRequest(router, http.MethodGet, "/api/v1/pool", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pool struct {
		Status models.PoolStatus `json:"status"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pool))
	assert.Equal(t, models.PoolStatus{Size: 180, Drawn: 28, Available: 152, Default: true}, pool.Status)
}

func TestAbortRound(t *testing.T) {
	router := setupTestRouter(t)
	token := login(t, router)

	w := doRequest(router, http.MethodPost, "/api/v1/awards/first/rounds/abort", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/awards/first/rounds/begin", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(router, http.MethodPost, "/api/v1/awards/first/rounds/abort", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/awards/first", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var progress models.AwardProgress
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &progress))
	assert.Equal(t, 0, progress.DrawnCount)
	assert.False(t, progress.Rolling)
}

func TestUnknownAward(t *testing.T) {
	router := setupTestRouter(t)
	token := login(t, router)

	w := doRequest(router, http.MethodGet, "/api/v1/awards/grand", "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/awards/grand/draw", token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCreateAwards(t *testing.T) {
	router := setupTestRouter(t)
	token := login(t, router)

	w := doRequest(router, http.MethodPost, "/api/v1/awards", token, models.CreateAwardRequest{ID: "grand", Name: "Grand Prize", Quota: 2, Rounds: []int{2}})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doRequest(router, http.MethodPost, "/api/v1/awards", token, models.CreateAwardRequest{ID: "grand", Name: "Grand Prize", Quota: 2, Rounds: []int{2}})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/awards", token, models.CreateAwardRequest{ID: "bad", Name: "Bad", Quota: 3, Rounds: []int{1}})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/awards/adhoc", token, models.CreateAdHocAwardRequest{Name: "Bonus", Quota: 4})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var award models.Award
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &award))
	assert.True(t, strings.HasPrefix(award.ID, draw.AdHocIDPrefix))
	assert.Equal(t, models.AwardKindAdHoc, award.Kind)

	w = doRequest(router, http.MethodPost, "/api/v1/awards/"+award.ID+"/draw", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var result models.RoundResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Len(t, result.Winners, 4)
	assert.True(t, result.Completed)

	w = doRequest(router, http.MethodPost, "/api/v1/awards/"+award.ID+"/draw", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestExportResults(t *testing.T) {
	router := setupTestRouter(t)
	token := login(t, router)

	w := doRequest(router, http.MethodGet, "/api/v1/results/export?format=csv", "", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/awards/first/draw", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/results/export?format=csv", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 6)
	assert.Equal(t, "Award,Number,Drawn At", strings.TrimSpace(lines[0]))

	w = doRequest(router, http.MethodGet, "/api/v1/results/export?format=pdf", "", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/results/export", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
}

func TestPoolReplacementAndReset(t *testing.T) {
	router := setupTestRouter(t)
	token := login(t, router)

	w := doRequest(router, http.MethodPost, "/api/v1/pool", token, models.LoadPoolRequest{Identifiers: []string{"7", "3", "3", "11"}})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var status models.PoolStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, models.PoolStatus{Size: 3, Drawn: 0, Available: 3}, status)

	w = doRequest(router, http.MethodPost, "/api/v1/pool", token, models.LoadPoolRequest{})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// The pool cannot cover a whole award round
	w = doRequest(router, http.MethodPost, "/api/v1/awards/first/draw", token, nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/awards", token, models.CreateAwardRequest{ID: "mini", Name: "Mini", Quota: 1, Rounds: []int{1}})
	require.Equal(t, http.StatusCreated, w.Code)
	w = doRequest(router, http.MethodPost, "/api/v1/awards/mini/draw", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	// Winners exist so the pool is locked until a reset
	w = doRequest(router, http.MethodPost, "/api/v1/pool", token, models.LoadPoolRequest{Identifiers: []string{"1", "2"}})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doRequest(router, http.MethodPost, "/api/v1/draw/reset", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "batchId")

	w = doRequest(router, http.MethodPost, "/api/v1/pool", token, models.LoadPoolRequest{Identifiers: []string{"1", "2"}})
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestImportPool(t *testing.T) {
	router := setupTestRouter(t)
	token := login(t, router)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "pool.csv")
	require.NoError(t, err)
	_, err = part.Write([]byte("number\n010\n002\n010\nnumber\n005\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/v1/pool/import", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var status models.PoolStatus
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &status))
	assert.Equal(t, 3, status.Size)
	assert.False(t, status.Default)

	w = doRequest(router, http.MethodGet, "/api/v1/pool?include=available", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var pool struct {
		Available []string `json:"available"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &pool))
	assert.Equal(t, []string{"002", "005", "010"}, pool.Available)
}

func TestDownloadTemplate(t *testing.T) {
	router := setupTestRouter(t)

	w := doRequest(router, http.MethodGet, "/api/v1/pool/template?format=csv", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	lines := strings.Split(strings.TrimSpace(w.Body.String()), "\n")
	require.Len(t, lines, 181)
	assert.Equal(t, "number", strings.TrimSpace(lines[0]))
	assert.Equal(t, "001", strings.TrimSpace(lines[1]))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "pool_template.csv")
}

func TestArchivedWinners(t *testing.T) {
	router := setupTestRouter(t)
	token := login(t, router)

	w := doRequest(router, http.MethodPost, "/api/v1/awards/second/draw", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/archive/winners", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/archive/winners?limit=5", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Winners []models.WinnerRecord `json:"winners"`
		Limit   int                   `json:"limit"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Len(t, resp.Winners, 5)

	w = doRequest(router, http.MethodGet, "/api/v1/archive/winners?page=x", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestEventLog(t *testing.T) {
	router := setupTestRouter(t)
	token := login(t, router)

	w := doRequest(router, http.MethodPost, "/api/v1/awards/first/rounds/begin", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doRequest(router, http.MethodPost, "/api/v1/awards/first/rounds/commit", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/archive/events?award=first", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var resp struct {
		Events []models.EventRecord `json:"events"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	types := make([]models.EventType, 0, len(resp.Events))
	for _, e := range resp.Events {
		types = append(types, e.Type)
		assert.NotEmpty(t, e.BatchID)
	}
	assert.Equal(t, []models.EventType{
		models.EventRoundStarted,
		models.EventRoundCommitted,
		models.EventAwardCompleted,
	}, types)
}

func TestMetricsEndpoint(t *testing.T) {
	router := setupTestRouter(t)
	token := login(t, router)

	w := doRequest(router, http.MethodPost, "/api/v1/awards/first/draw", token, nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/metrics", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "luckydraw_")
}

func TestCORSPreflight(t *testing.T) {
	router := setupTestRouter(t)

	req := httptest.NewRequest(http.MethodOptions, "/api/v1/awards", nil)
	req.Header.Set("Origin", "http://localhost:3000")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "http://localhost:3000", w.Header().Get("Access-Control-Allow-Origin"))

	req = httptest.NewRequest(http.MethodOptions, "/api/v1/awards", nil)
	req.Header.Set("Origin", "http://evil.example.com")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Empty(t, w.Header().Get("Access-Control-Allow-Origin"))
}
