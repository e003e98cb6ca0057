package framesrv

import (
	"bytes"
	"encoding/json"
	"image/png"
	"math"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"alleycats/internal/config"
	"alleycats/internal/mathutil"
	"alleycats/internal/rgb"
	"alleycats/internal/scene"
	"alleycats/internal/workers"
)

func newTestServer(t *testing.T) (*Server, http.Handler) {
	t.Helper()
	cfg := config.Default()
	cfg.Server.SnapshotWidth, cfg.Server.SnapshotHeight = 160, 120
	cfg.Grid.Range = 20
	cfg.Scene.Active = "player"

	store := scene.NewStore()
	store.AddBuilding(mathutil.V3(-5, 0, 20), mathutil.V3(10, 12, 10), rgb.Hex("#4a4a6a"))
	if _, err := store.AddCharacter("player", mathutil.V3(0, 0, 0), rgb.Hex("#ffaa00"), 0); err != nil {
		t.Fatal(err)
	}
	if _, err := store.AddCharacter("boss", mathutil.V3(15, 0, 10), rgb.Black, scene.StatusBoss); err != nil {
		t.Fatal(err)
	}

	pool := workers.NewPool(2)
	pool.Start()
	t.Cleanup(pool.Stop)

	s := NewServer(cfg, store, nil, pool)
	return s, s.Routes()
}

func do(t *testing.T, h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealthz(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK || !strings.Contains(rec.Body.String(), `"ok"`) {
		t.Errorf("Expected ok, got %d %s", rec.Code, rec.Body.String())
	}
}

func TestFrameReturnsPNG(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/frame.png?w=64&h=48&y=20&z=-30&pitch=-0.3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/png" {
		t.Errorf("Expected image/png, got %q", ct)
	}
	img, err := png.Decode(bytes.NewReader(rec.Body.Bytes()))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
		t.Errorf("Expected 64x48, got %v", b)
	}
}

func TestFrameCache(t *testing.T) {
	_, h := newTestServer(t)
	const target = "/frame.png?w=32&h=24"

	if rec := do(t, h, http.MethodGet, target, ""); rec.Header().Get("X-Frame-Cache") != "miss" {
		t.Errorf("Expected first frame to miss, got %q", rec.Header().Get("X-Frame-Cache"))
	}
	first := do(t, h, http.MethodGet, target, "")
	if first.Header().Get("X-Frame-Cache") != "hit" {
		t.Errorf("Expected repeat frame to hit, got %q", first.Header().Get("X-Frame-Cache"))
	}

	do(t, h, http.MethodPatch, "/scene/characters/player", `{"defeated":true}`)
	if rec := do(t, h, http.MethodGet, target, ""); rec.Header().Get("X-Frame-Cache") != "miss" {
		t.Errorf("Expected a scene edit to invalidate the frame, got %q", rec.Header().Get("X-Frame-Cache"))
	}
}

func TestFrameRejectsBadQuery(t *testing.T) {
	_, h := newTestServer(t)
	tests := []string{
		"/frame.png?w=abc",
		"/frame.png?w=0",
		"/frame.png?h=99999",
		"/frame.png?yaw=left",
		"/frame.png?x=NaN",
		"/frame.png?zoom=Inf",
		"/frame.png?y=-Inf",
		"/anchors?pitch=NaN",
		"/anchors?z=1e400",
	}
	for _, target := range tests {
		t.Run(target, func(t *testing.T) {
			if rec := do(t, h, http.MethodGet, target, ""); rec.Code != http.StatusBadRequest {
				t.Errorf("Expected 400, got %d", rec.Code)
			}
		})
	}
}

func TestRespondJSONEncodeFailure(t *testing.T) {
	rec := httptest.NewRecorder()
	respondJSON(rec, http.StatusOK, map[string]float64{"x": math.NaN()})
	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil || body["error"] == "" {
		t.Errorf("Expected an error body, got %q", rec.Body.String())
	}
}

func TestParseViewClampsCamera(t *testing.T) {
	s, _ := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/frame.png?pitch=9&zoom=100&active=boss", nil)
	v, err := s.parseView(req.URL.Query())
	if err != nil {
		t.Fatal(err)
	}
	if v.camera.Width != 160 || v.camera.Height != 120 {
		t.Errorf("Expected the configured snapshot size, got %dx%d", v.camera.Width, v.camera.Height)
	}
	if v.camera.Scale != 3 || v.active != "boss" {
		t.Errorf("Expected zoom clamped to 3 and boss active, got %v %q", v.camera.Scale, v.active)
	}

	req = httptest.NewRequest(http.MethodGet, "/frame.png?iso=1", nil)
	if v, _ = s.parseView(req.URL.Query()); v.camera.Pos.Y != 50 || v.active != "" {
		t.Errorf("Expected isometric camera and no active override, got %+v %q", v.camera.Pos, v.active)
	}
}

func TestAnchors(t *testing.T) {
	_, h := newTestServer(t)
	rec := do(t, h, http.MethodGet, "/anchors?y=20&z=-40&pitch=-0.3", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	var anchors map[string]AnchorJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &anchors); err != nil {
		t.Fatal(err)
	}
	if len(anchors) != 2 {
		t.Fatalf("Expected 2 anchors, got %v", anchors)
	}
	if a := anchors["player"]; !a.Visible || !a.Drawn || a.Size <= 0 {
		t.Errorf("Expected the player drawn, got %+v", a)
	}
}

func TestSceneAndUpdates(t *testing.T) {
	s, h := newTestServer(t)

	rec := do(t, h, http.MethodGet, "/scene", "")
	var sc SceneJSON
	if err := json.Unmarshal(rec.Body.Bytes(), &sc); err != nil {
		t.Fatal(err)
	}
	if sc.Active != "player" || len(sc.Objects) != 3 {
		t.Fatalf("Unexpected scene %+v", sc)
	}
	if sc.Objects[0].Kind != "building" || sc.Objects[2].ID != "boss" || !sc.Objects[2].Boss {
		t.Errorf("Unexpected objects %+v", sc.Objects)
	}

	rec = do(t, h, http.MethodPatch, "/scene/characters/player",
		`{"position":[5,0,5],"tint":"#00ff00","defeated":true}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d %s", rec.Code, rec.Body.String())
	}
	player, _ := s.scene.Get("player")
	if player.Pos != mathutil.V3(5, 0, 5) || !player.Defeated() || player.Tint != (rgb.Color{G: 255}) || !player.HasTint {
		t.Errorf("Update not applied: %+v", player)
	}

	rec = do(t, h, http.MethodPatch, "/scene/characters/player", `{"tint":"","defeated":false}`)
	if rec.Code != http.StatusOK || player.HasTint || player.Defeated() {
		t.Errorf("Expected tint cleared and player revived, got %d %+v", rec.Code, player)
	}

	if rec := do(t, h, http.MethodPatch, "/scene/characters/nobody", `{}`); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPatch, "/scene/characters/player", `{"tint":"green"}`); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for a bad tint, got %d", rec.Code)
	}
}

func TestSetActive(t *testing.T) {
	s, h := newTestServer(t)

	if rec := do(t, h, http.MethodPut, "/scene/active", `{"id":"boss"}`); rec.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", rec.Code)
	}
	if s.active != "boss" {
		t.Errorf("Expected boss active, got %q", s.active)
	}
	if rec := do(t, h, http.MethodPut, "/scene/active", `{"id":"building-1"}`); rec.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for a building, got %d", rec.Code)
	}
	if rec := do(t, h, http.MethodPut, "/scene/active", `not json`); rec.Code != http.StatusBadRequest {
		t.Errorf("Expected 400, got %d", rec.Code)
	}
}

func TestStatsAfterRender(t *testing.T) {
	_, h := newTestServer(t)
	do(t, h, http.MethodGet, "/frame.png?w=32&h=24", "")

	rec := do(t, h, http.MethodGet, "/stats", "")
	var stats map[string]interface{}
	if err := json.Unmarshal(rec.Body.Bytes(), &stats); err != nil {
		t.Fatal(err)
	}
	if stats["frame_count"].(float64) != 1 {
		t.Errorf("Expected one recorded frame, got %v", stats["frame_count"])
	}
}

func TestStoppedPoolIsUnavailable(t *testing.T) {
	s, h := newTestServer(t)
	s.pool.Stop()
	if rec := do(t, h, http.MethodGet, "/frame.png", ""); rec.Code != http.StatusServiceUnavailable {
		t.Errorf("Expected 503, got %d", rec.Code)
	}
}
