package engine

import (
	"math"
	"sort"

	"alleycats/internal/mathutil"
	"alleycats/internal/scene"
	"alleycats/internal/sprite"
	"alleycats/internal/surface"
)

// Anchor is a character's last screen placement: the top-centre of its
// sprite. Overlays such as the turn arrow hang off it.
type Anchor struct {
	X, Y float64
	Size float64
	// Visible is false when the character's cell could not be projected
	// this frame; X and Y then hold the last visible placement.
	Visible bool
	// Drawn is false when the sprite was skipped (occluded, far clipped or
	// not visible).
	Drawn bool
}

// Stats counts the work done by the last frame.
type Stats struct {
	Boxes        int
	BoxesSkipped int
	FacesDrawn   int
	FacesCulled  int
	Windows      int
	GridCells    int
	Characters   int
	Occluded     int
	FarClipped   int
	SpritePixels int
}

// Renderer owns a camera and draws a scene store through it. A Renderer is
// used from one goroutine; give each goroutine its own Renderer and a
// scene.Store clone.
type Renderer struct {
	Camera  *Camera
	Scene   *scene.Store
	Sprite  *sprite.Sprite
	Options Options

	active  string
	anchors map[string]Anchor
	stats   Stats
}

// NewRenderer creates a renderer with default options. A nil sprite selects
// the embedded default.
func NewRenderer(cam *Camera, store *scene.Store, spr *sprite.Sprite) *Renderer {
	if spr == nil {
		spr = sprite.Default()
	}
	return &Renderer{
		Camera:  cam,
		Scene:   store,
		Sprite:  spr,
		Options: DefaultOptions(),
		anchors: make(map[string]Anchor),
	}
}

// SetActive selects the character whose ground cell is highlighted. An empty
// id clears the highlight.
func (r *Renderer) SetActive(id string) {
	r.active = id
}

// Active returns the highlighted character id.
func (r *Renderer) Active() string {
	return r.active
}

// Stats returns counters for the last frame.
func (r *Renderer) Stats() Stats {
	return r.stats
}

// Anchor returns the last placement of character id.
func (r *Renderer) Anchor(id string) (Anchor, bool) {
	a, ok := r.anchors[id]
	return a, ok
}

// Anchors returns a copy of every character's last placement.
func (r *Renderer) Anchors() map[string]Anchor {
	out := make(map[string]Anchor, len(r.anchors))
	for id, a := range r.anchors {
		out[id] = a
	}
	return out
}

// Render draws one frame: background, ground grid, buildings back to front,
// then unoccluded characters back to front. Afterwards every character's
// anchor is refreshed, drawn or not.
func (r *Renderer) Render(s surface.Surface) {
	r.stats = Stats{}
	w, h := s.Size()
	r.Camera.SetViewport(w, h)
	eye := r.Camera.Pos

	r.Clear(s)
	r.DrawGrid(s)

	buildings := SortByDistance(r.Scene.Buildings(), eye)
	characters := SortByDistance(r.Scene.Characters(), eye)

	for _, b := range buildings {
		if !r.DrawBox(s, b.Pos, b.Size, b.Color, 1) {
			continue
		}
		if r.Options.Windows {
			r.stats.Windows += r.DrawWindows(s, b)
		}
	}

	drawn := make(map[string]bool, len(characters))
	for _, c := range characters {
		if Hidden(c, buildings, eye) {
			r.stats.Occluded++
			continue
		}
		drawn[c.ID] = r.DrawCharacter(s, c)
	}

	r.refreshAnchors(characters, drawn)
}

func (r *Renderer) refreshAnchors(characters []*scene.Object, drawn map[string]bool) {
	live := make(map[string]bool, len(characters))
	for _, c := range characters {
		live[c.ID] = true
		prev := r.anchors[c.ID]
		pl, ok := r.place(c)
		if !ok {
			prev.Visible = false
			prev.Drawn = false
			r.anchors[c.ID] = prev
			continue
		}
		r.anchors[c.ID] = Anchor{
			X:       pl.ground.X,
			Y:       pl.top,
			Size:    pl.size,
			Visible: true,
			Drawn:   drawn[c.ID],
		}
	}
	for id := range r.anchors {
		if !live[id] {
			delete(r.anchors, id)
		}
	}
}

// Clear paints the background gradient and the fog veil.
func (r *Renderer) Clear(s surface.Surface) {
	s.FillGradient(r.Options.Background)
	if r.Options.Fog {
		w, h := s.Size()
		s.FillRect(0, 0, float64(w), float64(h), r.Options.FogColor)
	}
}

// DrawGrid outlines the ground cells around the origin. A cell is skipped
// when any corner is not visible or when it lies entirely off screen.
func (r *Renderer) DrawGrid(s surface.Surface) {
	step := r.Options.GridSize
	if !(step > 0) {
		return
	}
	w, h := s.Size()
	n := int(math.Floor(2 * r.Options.GridRange / step))
	start := -r.Options.GridRange

	var corners [4]mathutil.Vec3
	var pts [4]Point
	poly := make([]mathutil.Vec2, 4)
	for i := 0; i <= n; i++ {
		x := start + float64(i)*step
		for j := 0; j <= n; j++ {
			z := start + float64(j)*step
			corners = [4]mathutil.Vec3{
				{X: x, Z: z},
				{X: x + step, Z: z},
				{X: x + step, Z: z + step},
				{X: x, Z: z + step},
			}
			if !r.Camera.projectAll(corners[:], pts[:]) {
				continue
			}
			for k, p := range pts {
				poly[k] = p.XY()
			}
			if offscreen(poly, float64(w), float64(h)) {
				continue
			}
			s.StrokePolygon(poly, 1, r.Options.GridColor)
			r.stats.GridCells++
		}
	}
}

func offscreen(poly []mathutil.Vec2, w, h float64) bool {
	left, right, above, below := true, true, true, true
	for _, p := range poly {
		left = left && p.X < 0
		right = right && p.X > w
		above = above && p.Y < 0
		below = below && p.Y > h
	}
	return left || right || above || below
}

// SortByDistance returns objs ordered by the distance of their centres from
// eye, farthest first. objs is not modified.
func SortByDistance(objs []*scene.Object, eye mathutil.Vec3) []*scene.Object {
	type ranked struct {
		obj  *scene.Object
		dist float64
	}
	rs := make([]ranked, len(objs))
	for i, o := range objs {
		rs[i] = ranked{o, o.Center().Dist(eye)}
	}
	sort.SliceStable(rs, func(i, j int) bool {
		return rs[i].dist > rs[j].dist
	})
	out := make([]*scene.Object, len(rs))
	for i, r := range rs {
		out[i] = r.obj
	}
	return out
}
