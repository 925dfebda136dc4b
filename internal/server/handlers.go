package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/mosaic/pkg/buildinfo"
	"github.com/matzehuels/mosaic/pkg/errors"
	"github.com/matzehuels/mosaic/pkg/geom"
	"github.com/matzehuels/mosaic/pkg/manifest"
	"github.com/matzehuels/mosaic/pkg/mosaic"
	"github.com/matzehuels/mosaic/pkg/pipeline"
	"github.com/matzehuels/mosaic/pkg/session"
)

// RandomRequest asks the server to generate a manifest instead of receiving one.
type RandomRequest struct {
	Seed  uint64 `json:"seed"`
	Count int    `json:"count"`
}

// maxRandomCount bounds generated manifests.
const maxRandomCount = 1_000_000

// LayoutRequest is the body of POST /layout and POST /sessions.
type LayoutRequest struct {
	Manifest *manifest.Manifest `json:"manifest,omitempty"`
	Random   *RandomRequest     `json:"random,omitempty"`
	Options  pipeline.Options   `json:"options"`
}

// FramesResponse is returned by frame queries.
type FramesResponse struct {
	Frames []pipeline.Frame `json:"frames"`
	Extent geom.Size        `json:"content_extent"`
}

// ItemResponse is returned by single-item lookups.
type ItemResponse struct {
	Frame  pipeline.Frame `json:"frame"`
	Extent geom.Size      `json:"content_extent"`
}

// ViewportRequest is the body of PUT /sessions/{id}/viewport.
type ViewportRequest struct {
	Width        float64 `json:"width"`
	Height       float64 `json:"height"`
	ContentInset float64 `json:"content_inset"`
}

// ViewportResponse reports the effect of a viewport update.
type ViewportResponse struct {
	Reset    bool      `json:"reset"`
	Capacity int       `json:"capacity"`
	Extent   geom.Size `json:"content_extent"`
}

// ChangeRequest is the body of POST /sessions/{id}/changes.
type ChangeRequest struct {
	Kind string         `json:"kind"`
	ID   string         `json:"id"`
	To   string         `json:"to,omitempty"`
	Item *manifest.Item `json:"item,omitempty"`
}

// PrepareRequest is the body of POST /sessions/{id}/prepare.
type PrepareRequest struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// HealthResponse reports liveness and the running build.
type HealthResponse struct {
	Status string         `json:"status"`
	Build  buildinfo.Info `json:"build"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{Status: "ok", Build: buildinfo.Get()})
}

// resolve returns the request's manifest and validated options, with
// server defaults filling unset fields.
func (s *Server) resolve(req *LayoutRequest) (*manifest.Manifest, pipeline.Options, error) {
	opts := mergeOptions(s.cfg.Defaults, req.Options)
	opts.Logger = s.logger
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, opts, err
	}

	switch {
	case req.Manifest != nil && req.Random != nil:
		return nil, opts, errors.New(errors.ErrCodeInvalidInput, "send either manifest or random, not both")
	case req.Manifest != nil:
		if err := req.Manifest.Validate(); err != nil {
			return nil, opts, err
		}
		return req.Manifest, opts, nil
	case req.Random != nil:
		if req.Random.Count < 0 || req.Random.Count > maxRandomCount {
			return nil, opts, errors.New(errors.ErrCodeInvalidInput, "random count must be in [0, %d]", maxRandomCount)
		}
		return manifest.Random(req.Random.Seed, req.Random.Count), opts, nil
	default:
		return nil, opts, errors.New(errors.ErrCodeInvalidInput, "manifest or random is required")
	}
}

// mergeOptions overlays the non-zero fields of req on base.
func mergeOptions(base, req pipeline.Options) pipeline.Options {
	out := pipeline.Options{
		Axis:           base.Axis,
		UnitWidth:      base.UnitWidth,
		UnitHeight:     base.UnitHeight,
		ViewportWidth:  base.ViewportWidth,
		ViewportHeight: base.ViewportHeight,
		ContentInset:   base.ContentInset,
		Eager:          base.Eager || req.Eager,
		Strict:         base.Strict,
		Rect:           req.Rect,
		Refresh:        req.Refresh,
	}
	if req.Axis != "" {
		out.Axis = req.Axis
	}
	if req.UnitWidth != 0 {
		out.UnitWidth = req.UnitWidth
	}
	if req.UnitHeight != 0 {
		out.UnitHeight = req.UnitHeight
	}
	if req.ViewportWidth != 0 || req.ViewportHeight != 0 {
		out.ViewportWidth = req.ViewportWidth
		out.ViewportHeight = req.ViewportHeight
	}
	if req.ContentInset != 0 {
		out.ContentInset = req.ContentInset
	}
	return out
}

func (s *Server) handleLayout(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	m, opts, err := s.resolve(&req)
	if err != nil {
		s.writeError(w, err)
		return
	}
	snap, hit, err := s.runner.Layout(r.Context(), m, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if hit {
		w.Header().Set("X-Cache", "HIT")
	} else {
		w.Header().Set("X-Cache", "MISS")
	}
	writeJSON(w, http.StatusOK, snap)
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var req LayoutRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	m, opts, err := s.resolve(&req)
	if err != nil {
		s.writeError(w, err)
		return
	}

	sess := session.New(m, opts.LayoutOptions(m), s.cfg.SessionTTL)
	if err := s.store.Set(r.Context(), sess); err != nil {
		s.writeError(w, err)
		return
	}
	s.logger.Info("session created", "id", sess.ID, "items", m.Len())
	w.Header().Set("Location", "/sessions/"+sess.ID)
	writeJSON(w, http.StatusCreated, sess.Info())
}

// session loads the {id} session, writing the error response on failure.
func (s *Server) session(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	sess, err := s.store.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, err)
		return nil, false
	}
	return sess, true
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, sess.Info())
}

func (s *Server) handleDeleteSession(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	rect, err := rectFromQuery(r)
	if err != nil {
		s.writeError(w, err)
		return
	}

	var resp FramesResponse
	_ = sess.Do(func(m *manifest.Manifest, l *mosaic.Layout) error {
		frames := l.FramesForRect(rect)
		resp.Frames = make([]pipeline.Frame, 0, len(frames))
		for _, f := range frames {
			resp.Frames = append(resp.Frames, pipeline.Describe(m, l, f))
		}
		resp.Extent = l.ContentExtent()
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleItem(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	group, err1 := strconv.Atoi(chi.URLParam(r, "group"))
	ordinal, err2 := strconv.Atoi(chi.URLParam(r, "ordinal"))
	if err1 != nil || err2 != nil {
		s.writeError(w, errors.New(errors.ErrCodeInvalidInput, "group and ordinal must be integers"))
		return
	}
	id := mosaic.ItemID{Group: group, Ordinal: ordinal}

	var resp ItemResponse
	err := sess.Do(func(m *manifest.Manifest, l *mosaic.Layout) error {
		f, ok := l.FrameFor(id)
		if !ok {
			return errors.New(errors.ErrCodeItemNotFound, "no item %s", id)
		}
		resp.Frame = pipeline.Describe(m, l, f)
		resp.Extent = l.ContentExtent()
		return nil
	})
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleExtent(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var extent geom.Size
	_ = sess.Do(func(_ *manifest.Manifest, l *mosaic.Layout) error {
		extent = l.ContentExtent()
		return nil
	})
	writeJSON(w, http.StatusOK, map[string]geom.Size{"content_extent": extent})
}

func (s *Server) handleViewport(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req ViewportRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	if err := errors.ValidateViewport(req.Width, req.Height); err != nil {
		s.writeError(w, err)
		return
	}
	if req.ContentInset < 0 {
		s.writeError(w, errors.New(errors.ErrCodeInvalidConfig, "content inset cannot be negative"))
		return
	}

	var resp ViewportResponse
	_ = sess.Do(func(_ *manifest.Manifest, l *mosaic.Layout) error {
		resp.Reset = l.SetViewport(geom.Size{W: req.Width, H: req.Height}, geom.Uniform(req.ContentInset))
		resp.Capacity = l.Capacity()
		resp.Extent = l.ContentExtent()
		return nil
	})
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handlePrepare(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req PrepareRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	var extent geom.Size
	_ = sess.Do(func(_ *manifest.Manifest, l *mosaic.Layout) error {
		l.Prepare(geom.Point{X: req.X, Y: req.Y})
		extent = l.ContentExtent()
		return nil
	})
	writeJSON(w, http.StatusOK, map[string]geom.Size{"content_extent": extent})
}

func (s *Server) handleChange(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	var req ChangeRequest
	if err := decode(r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	id, err := mosaic.ParseItemID(req.ID)
	if err != nil {
		s.writeError(w, err)
		return
	}

	switch req.Kind {
	case "insert":
		if req.Item == nil {
			err = errors.New(errors.ErrCodeInvalidInput, "insert needs an item")
			break
		}
		err = sess.Insert(id, *req.Item)
	case "delete":
		err = sess.Remove(id)
	case "move":
		var to mosaic.ItemID
		if to, err = mosaic.ParseItemID(req.To); err == nil {
			err = sess.Move(id, to)
		}
	default:
		err = errors.New(errors.ErrCodeInvalidInput, "unknown change kind %q (want insert, delete or move)", req.Kind)
	}
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, sess.Info())
}

func (s *Server) handleInvalidate(w http.ResponseWriter, r *http.Request) {
	sess, ok := s.session(w, r)
	if !ok {
		return
	}
	_ = sess.Do(func(_ *manifest.Manifest, l *mosaic.Layout) error {
		l.Invalidate()
		return nil
	})
	w.WriteHeader(http.StatusNoContent)
}

// rectFromQuery reads x, y, w and h query parameters. x and y default to 0;
// w and h are required.
func rectFromQuery(r *http.Request) (geom.Rect, error) {
	q := r.URL.Query()
	if q.Get("w") == "" || q.Get("h") == "" {
		return geom.Rect{}, errors.New(errors.ErrCodeInvalidRect, "w and h query parameters are required")
	}
	get := func(k string) string {
		if v := q.Get(k); v != "" {
			return v
		}
		return "0"
	}
	return pipeline.ParseRect(get("x") + "," + get("y") + "," + get("w") + "," + get("h"))
}
