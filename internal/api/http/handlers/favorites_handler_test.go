package handlers_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	httptransport "github.com/spec-kit/pollution-service/internal/api/http"
	"github.com/spec-kit/pollution-service/internal/api/http/handlers"
	"github.com/spec-kit/pollution-service/internal/auth"
	"github.com/spec-kit/pollution-service/internal/clientstate"
	"github.com/spec-kit/pollution-service/internal/domain"
)

func newFavoritesTestApp(t *testing.T) (*fiber.App, *auth.TokenManager) {
	t.Helper()

	logger := zap.NewNop()
	tokens := auth.NewTokenManager("favorites-test-secret", 120)
	middleware := auth.NewMiddleware(tokens, logger)

	storages := map[string]*clientstate.MemoryStorage{}
	provider := func(clientID string) *clientstate.Store {
		storage, ok := storages[clientID]
		if !ok {
			storage = clientstate.NewMemoryStorage()
			storages[clientID] = storage
		}
		return clientstate.NewStore(storage)
	}
	handler := handlers.NewFavoritesHandler(provider)

	app := fiber.New()
	httptransport.RegisterMiddlewares(app, logger, nil, 0)
	group := app.Group("/api/favorites", middleware.HandleOptional)
	group.Get("/", handler.List)
	group.Post("/", handler.Add)
	group.Delete("/:id", handler.Remove)
	group.Delete("/", handler.Clear)
	return app, tokens
}

func addFavorite(t *testing.T, app *fiber.App, token, clientID, body string) int {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/favorites", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if clientID != "" {
		req.Header.Set("X-Client-ID", clientID)
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	return resp.StatusCode
}

func listFavorites(t *testing.T, app *fiber.App, token, clientID string) (int, []int64) {
	t.Helper()
	req := httptest.NewRequest("GET", "/api/favorites", nil)
	req.Header.Set("X-Client-ID", clientID)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := app.Test(req)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	if resp.StatusCode != 200 {
		return resp.StatusCode, nil
	}
	var payload struct {
		Data []struct {
			ReportID int64 `json:"report_id"`
		} `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	ids := make([]int64, 0, len(payload.Data))
	for _, item := range payload.Data {
		ids = append(ids, item.ReportID)
	}
	return resp.StatusCode, ids
}

func TestFavoritesRequireClientID(t *testing.T) {
	app, _ := newFavoritesTestApp(t)

	if status := addFavorite(t, app, "", "", `{"report_id":1,"title":"x"}`); status != 400 {
		t.Fatalf("expected 400 without client id, got %d", status)
	}
}

func TestFavoritesPartitionSelection(t *testing.T) {
	app, tokens := newFavoritesTestApp(t)

	token, _, err := tokens.Issue(42, domain.RoleUser)
	if err != nil {
		t.Fatalf("Issue failed: %v", err)
	}

	// an anonymous request writes to the guest partition, an authenticated
	// one to the identity's partition, on the same device blob
	if status := addFavorite(t, app, "", "device-1", `{"report_id":10,"title":"guest fav"}`); status != 201 {
		t.Fatalf("anonymous add: expected 201, got %d", status)
	}
	if status := addFavorite(t, app, token, "device-1", `{"report_id":20,"title":"my fav"}`); status != 201 {
		t.Fatalf("authenticated add: expected 201, got %d", status)
	}

	if _, ids := listFavorites(t, app, "", "device-1"); len(ids) != 1 || ids[0] != 10 {
		t.Fatalf("guest partition wrong: %v", ids)
	}
	if _, ids := listFavorites(t, app, token, "device-1"); len(ids) != 1 || ids[0] != 20 {
		t.Fatalf("authenticated partition wrong: %v", ids)
	}

	// another device shares nothing
	if _, ids := listFavorites(t, app, "", "device-2"); len(ids) != 0 {
		t.Fatalf("blob leaked across devices: %v", ids)
	}
}

func TestFavoritesRejectInvalidToken(t *testing.T) {
	app, _ := newFavoritesTestApp(t)

	status, _ := listFavorites(t, app, "not-a-token", "device-1")
	if status != 401 {
		t.Fatalf("expected 401 for invalid token, got %d", status)
	}
}

func TestFavoritesRequireReportID(t *testing.T) {
	app, _ := newFavoritesTestApp(t)

	if status := addFavorite(t, app, "", "device-1", `{"title":"no id"}`); status != 400 {
		t.Fatalf("expected 400 without report_id, got %d", status)
	}
}
