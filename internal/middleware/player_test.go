package middleware

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestEnsurePlayerID(t *testing.T) {
	app := fiber.New()
	app.Get("/who", EnsurePlayerID(), func(c *fiber.Ctx) error {
		return c.SendString(c.Locals("playerID").(string))
	})

	tests := []struct {
		name   string
		target string
		header string
		want   int
		id     string
	}{
		{"header", "/who", "alice", http.StatusOK, "alice"},
		{"query", "/who?playerId=bob", "", http.StatusOK, "bob"},
		{"header wins", "/who?playerId=bob", "alice", http.StatusOK, "alice"},
		{"query trimmed", "/who?playerId=%20bob%20", "", http.StatusOK, "bob"},
		{"blank query", "/who?playerId=%20%20", "", http.StatusUnauthorized, ""},
		{"missing", "/who", "", http.StatusUnauthorized, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, tt.target, nil)
			if tt.header != "" {
				req.Header.Set("X-Player-ID", tt.header)
			}
			resp, err := app.Test(req, -1)
			if err != nil {
				t.Fatalf("Test: %v", err)
			}
			if resp.StatusCode != tt.want {
				t.Fatalf("got %d want %d", resp.StatusCode, tt.want)
			}
			if tt.id == "" {
				return
			}
			body, err := io.ReadAll(resp.Body)
			if err != nil {
				t.Fatalf("read body: %v", err)
			}
			if string(body) != tt.id {
				t.Fatalf("player ID: got %q want %q", body, tt.id)
			}
		})
	}
}

func TestWebSocketUpgradeRequiresUpgrade(t *testing.T) {
	app := fiber.New()
	app.Get("/ws/:gameId", EnsurePlayerID(), WebSocketUpgrade(), func(c *fiber.Ctx) error {
		return c.SendStatus(http.StatusOK)
	})
	req := httptest.NewRequest(http.MethodGet, "/ws/abc", nil)
	req.Header.Set("X-Player-ID", "alice")
	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("Test: %v", err)
	}
	if resp.StatusCode != http.StatusUpgradeRequired {
		t.Fatalf("got %d want 426", resp.StatusCode)
	}
}
