// Package framesrv renders scene snapshots over HTTP without a window.
package framesrv

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"log"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"alleycats/internal/config"
	"alleycats/internal/engine"
	"alleycats/internal/mathutil"
	"alleycats/internal/monitoring"
	"alleycats/internal/rgb"
	"alleycats/internal/scene"
	"alleycats/internal/sprite"
	"alleycats/internal/surface"
	"alleycats/internal/workers"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Largest snapshot edge in pixels.
const MaxSnapshotSize = 4096

// RenderTimeout bounds how long a request waits for a render worker.
const RenderTimeout = 10 * time.Second

// Server owns a scene and renders views of it on a worker pool. The scene
// may be updated through the API while renders run on clones.
type Server struct {
	cfg     *config.Config
	sprite  *sprite.Sprite
	pool    *workers.Pool
	monitor *monitoring.PerformanceMonitor
	frames  *FrameCache

	mu      sync.RWMutex
	scene   *scene.Store
	active  string
	version uint64 // bumped on every scene edit
}

// NewServer creates a server for store. The pool must be started by the
// caller.
func NewServer(cfg *config.Config, store *scene.Store, spr *sprite.Sprite, pool *workers.Pool) *Server {
	if spr == nil {
		spr = sprite.Default()
	}
	return &Server{
		cfg:     cfg,
		sprite:  spr,
		pool:    pool,
		monitor: monitoring.NewPerformanceMonitor(),
		frames:  NewFrameCache(),
		scene:   store,
		active:  cfg.Scene.Active,
	}
}

// Routes configures all routes and returns the router
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Get("/frame.png", s.Frame)
	r.Get("/anchors", s.GetAnchors)
	r.Get("/stats", s.GetStats)

	r.Route("/scene", func(r chi.Router) {
		r.Get("/", s.GetScene)
		r.Put("/active", s.SetActive)
		r.Patch("/characters/{id}", s.UpdateCharacter)
	})

	return r
}

// view is one render request after query parsing.
type view struct {
	camera *engine.Camera
	active string
	query  string // canonical form, for caching
}

// parseView builds the camera for a request from the configured camera and
// the query overrides w, h, x, y, z, pitch, yaw, zoom, iso and active.
func (s *Server) parseView(q url.Values) (view, error) {
	w, h := s.cfg.Server.SnapshotWidth, s.cfg.Server.SnapshotHeight
	var err error
	if w, err = intParam(q, "w", w); err != nil {
		return view{}, err
	}
	if h, err = intParam(q, "h", h); err != nil {
		return view{}, err
	}
	if w < 1 || h < 1 || w > MaxSnapshotSize || h > MaxSnapshotSize {
		return view{}, fmt.Errorf("size %dx%d out of range 1..%d", w, h, MaxSnapshotSize)
	}

	cam := s.cfg.NewCamera(w, h)
	if q.Get("iso") == "1" || q.Get("iso") == "true" {
		cam.SetIsometric()
	}
	fields := []struct {
		name string
		dst  *float64
	}{
		{"x", &cam.Pos.X},
		{"y", &cam.Pos.Y},
		{"z", &cam.Pos.Z},
		{"pitch", &cam.Pitch},
		{"yaw", &cam.Yaw},
		{"zoom", &cam.Scale},
	}
	for _, f := range fields {
		if *f.dst, err = floatParam(q, f.name, *f.dst); err != nil {
			return view{}, err
		}
	}
	cam.Pitch = mathutil.Clamp(cam.Pitch, engine.MinPitch, engine.MaxPitch)
	cam.Scale = mathutil.Clamp(cam.Scale, engine.MinZoom, engine.MaxZoom)

	return view{camera: cam, active: q.Get("active"), query: q.Encode()}, nil
}

// snapshot copies the scene so renders never hold the lock.
func (s *Server) snapshot() (store *scene.Store, active string, version uint64) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.scene.Clone(), s.active, s.version
}

// edited marks the scene as changed. Callers hold the write lock.
func (s *Server) edited() {
	s.version++
}

// render draws v of store onto dst on a pool worker.
func (s *Server) render(ctx context.Context, v view, store *scene.Store, active string, dst surface.Surface) (*engine.Renderer, error) {
	if v.active != "" {
		active = v.active
	}
	r := engine.NewRenderer(v.camera, store, s.sprite)
	r.Options = s.cfg.EngineOptions()
	r.SetActive(active)

	ctx, cancel := context.WithTimeout(ctx, RenderTimeout)
	defer cancel()
	err := s.pool.Do(ctx, func() {
		timer := s.monitor.StartFrame()
		r.Render(dst)
		timer.EndFrame()
		s.monitor.RecordRender(r.Stats())
	})
	if err != nil {
		return nil, err
	}
	return r, nil
}

// Frame renders a PNG snapshot. Identical requests against an unchanged
// scene are served from the frame cache.
func (s *Server) Frame(w http.ResponseWriter, r *http.Request) {
	v, err := s.parseView(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	store, active, version := s.snapshot()

	frame, hit, err := s.frames.GetOrCreate(FrameKey{Version: version, Query: v.query}, func() ([]byte, error) {
		img := surface.NewImage(v.camera.Width, v.camera.Height)
		if _, err := s.render(r.Context(), v, store, active, img); err != nil {
			return nil, err
		}
		var buf bytes.Buffer
		if err := png.Encode(&buf, img.RGBA()); err != nil {
			return nil, fmt.Errorf("encode png: %w", err)
		}
		return buf.Bytes(), nil
	})
	if err != nil {
		respondRenderError(w, err)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if hit {
		w.Header().Set("X-Frame-Cache", "hit")
	} else {
		w.Header().Set("X-Frame-Cache", "miss")
	}
	if _, err := w.Write(frame); err != nil {
		log.Printf("Error writing frame: %v", err)
	}
}

// AnchorJSON is the wire form of engine.Anchor.
type AnchorJSON struct {
	X       float64 `json:"x"`
	Y       float64 `json:"y"`
	Size    float64 `json:"size"`
	Visible bool    `json:"visible"`
	Drawn   bool    `json:"drawn"`
}

// GetAnchors renders the requested view without pixels and returns each
// character's screen anchor.
func (s *Server) GetAnchors(w http.ResponseWriter, r *http.Request) {
	v, err := s.parseView(r.URL.Query())
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	store, active, _ := s.snapshot()
	rec := surface.NewRecorder(v.camera.Width, v.camera.Height)
	rend, err := s.render(r.Context(), v, store, active, rec)
	if err != nil {
		respondRenderError(w, err)
		return
	}

	out := make(map[string]AnchorJSON)
	for id, a := range rend.Anchors() {
		out[id] = AnchorJSON{X: a.X, Y: a.Y, Size: a.Size, Visible: a.Visible, Drawn: a.Drawn}
	}
	respondJSON(w, http.StatusOK, out)
}

// GetStats returns the render counters of the most recent snapshot.
func (s *Server) GetStats(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, s.monitor.GetDetailedStats())
}

// ObjectJSON is the wire form of a scene object.
type ObjectJSON struct {
	ID       string     `json:"id"`
	Kind     string     `json:"kind"`
	Position [3]float64 `json:"position"`
	Size     [3]float64 `json:"size"`
	Color    string     `json:"color"`
	Tint     string     `json:"tint,omitempty"`
	Boss     bool       `json:"boss,omitempty"`
	Defeated bool       `json:"defeated,omitempty"`
}

// SceneJSON is the response of GET /scene.
type SceneJSON struct {
	Active  string       `json:"active"`
	Objects []ObjectJSON `json:"objects"`
}

func objectJSON(o *scene.Object) ObjectJSON {
	out := ObjectJSON{
		ID:       o.ID,
		Kind:     o.Kind.String(),
		Position: [3]float64{o.Pos.X, o.Pos.Y, o.Pos.Z},
		Size:     [3]float64{o.Size.X, o.Size.Y, o.Size.Z},
		Color:    o.Color.String(),
		Boss:     o.Boss(),
		Defeated: o.Defeated(),
	}
	if o.HasTint {
		out.Tint = o.Tint.String()
	}
	return out
}

// GetScene lists every object in scene order.
func (s *Server) GetScene(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	resp := SceneJSON{Active: s.active, Objects: make([]ObjectJSON, 0, s.scene.Len())}
	for _, o := range s.scene.All() {
		resp.Objects = append(resp.Objects, objectJSON(o))
	}
	s.mu.RUnlock()
	respondJSON(w, http.StatusOK, resp)
}

// SetActive changes the highlighted character. An empty ID clears it.
func (s *Server) SetActive(w http.ResponseWriter, r *http.Request) {
	var req struct {
		ID string `json:"id"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if req.ID != "" {
		if obj, ok := s.scene.Get(req.ID); !ok || !obj.IsCharacter() {
			respondError(w, http.StatusNotFound, "character not found")
			return
		}
	}
	s.active = req.ID
	s.edited()
	respondJSON(w, http.StatusOK, map[string]string{"active": s.active})
}

// CharacterUpdate is the body of PATCH /scene/characters/{id}. Absent
// fields are left unchanged; an empty tint clears it.
type CharacterUpdate struct {
	Position *[3]float64 `json:"position"`
	Tint     *string     `json:"tint"`
	Defeated *bool       `json:"defeated"`
}

// UpdateCharacter moves, retints or defeats a character.
func (s *Server) UpdateCharacter(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	var req CharacterUpdate
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	var tint rgb.Color
	if req.Tint != nil && *req.Tint != "" {
		c, err := rgb.ParseHex(*req.Tint)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		tint = c
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	obj, ok := s.scene.Get(id)
	if !ok || !obj.IsCharacter() {
		respondError(w, http.StatusNotFound, "character not found")
		return
	}
	if req.Position != nil {
		p := *req.Position
		if err := s.scene.Move(id, mathutil.V3(p[0], p[1], p[2])); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if req.Tint != nil {
		if err := s.scene.SetTint(id, tint, *req.Tint != ""); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	if req.Defeated != nil {
		status := obj.Status &^ scene.StatusDefeated
		if *req.Defeated {
			status |= scene.StatusDefeated
		}
		if err := s.scene.SetStatus(id, status); err != nil {
			respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
	}
	s.edited()
	respondJSON(w, http.StatusOK, objectJSON(obj))
}

func intParam(q url.Values, name string, def int) (int, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %q is not an integer", name, v)
	}
	return n, nil
}

func floatParam(q url.Values, name string, def float64) (float64, error) {
	v := q.Get(name)
	if v == "" {
		return def, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, fmt.Errorf("%s: %q is not a finite number", name, v)
	}
	return f, nil
}

func respondRenderError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, workers.ErrStopped):
		respondError(w, http.StatusServiceUnavailable, "server shutting down")
	case errors.Is(err, context.DeadlineExceeded):
		respondError(w, http.StatusServiceUnavailable, "render timed out")
	default:
		respondError(w, http.StatusInternalServerError, err.Error())
	}
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	body, err := json.Marshal(data)
	if err != nil {
		log.Printf("Error encoding JSON: %v", err)
		status = http.StatusInternalServerError
		body = []byte(`{"error":"response encoding failed"}`)
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(append(body, '\n'))
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
