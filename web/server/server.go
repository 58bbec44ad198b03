package server

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"image/png"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/spectraforge/spectraforge/pkg/log"
	"github.com/spectraforge/spectraforge/pkg/renderer"
	"github.com/spectraforge/spectraforge/pkg/scene"
)

var logger = log.New("web")

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

// Server exposes rendering over HTTP: a blocking PNG endpoint and a
// websocket endpoint that streams tile-level progress
type Server struct {
	port int
}

// NewServer creates a web server listening on the given port
func NewServer(port int) *Server {
	return &Server{port: port}
}

// RenderRequest carries the render parameters from the client
type RenderRequest struct {
	Scene             string  `json:"scene"`
	Width             int     `json:"width"`
	Height            int     `json:"height"`
	SamplesPerPixel   int     `json:"samplesPerPixel"`
	MaxDepth          int     `json:"maxDepth"`
	Workers           int     `json:"workers"`
	Seed              int64   `json:"seed"`
	Adaptive          bool    `json:"adaptive"`
	AdaptiveMin       float64 `json:"adaptiveMin"`
	AdaptiveThreshold float64 `json:"adaptiveThreshold"`
}

// TileUpdate reports one finished tile over the websocket
type TileUpdate struct {
	Index    int     `json:"index"`
	X0       int     `json:"x0"`
	Y0       int     `json:"y0"`
	X1       int     `json:"x1"`
	Y1       int     `json:"y1"`
	Pass     int     `json:"pass"`
	Progress float64 `json:"progress"`
}

// RenderComplete is the final websocket event with the finished image
type RenderComplete struct {
	ImageData      string  `json:"imageData"` // Base64 encoded PNG
	TotalSamples   int64   `json:"totalSamples"`
	AverageSamples float64 `json:"averageSamples"`
	FailedTiles    int     `json:"failedTiles"`
	ElapsedMs      int64   `json:"elapsedMs"`
}

// wsEvent is the envelope for all websocket messages
type wsEvent struct {
	Type string          `json:"type"` // "tile", "complete", "error"
	Data json.RawMessage `json:"data"`
}

// Start registers the handlers and blocks serving HTTP
func (s *Server) Start() error {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleIndex)
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/scenes", s.handleScenes)
	mux.HandleFunc("/api/render", s.handleRender)
	mux.HandleFunc("/ws/render", s.handleRenderWS)

	addr := fmt.Sprintf(":%d", s.port)
	logger.Infof("listening on http://localhost%s", addr)
	return http.ListenAndServe(addr, mux)
}

const indexPage = `<!DOCTYPE html>
<html>
<head><title>spectraforge</title></head>
<body>
<h1>spectraforge render API</h1>
<ul>
<li><code>GET /api/render?scene=default&amp;width=400&amp;height=400&amp;samples=64</code> - render to PNG</li>
<li><code>GET /api/scenes</code> - list built-in scenes</li>
<li><code>GET /api/health</code> - health check</li>
<li><code>/ws/render</code> - websocket: send a JSON render request, receive tile progress and the finished image</li>
</ul>
</body>
</html>
`

// handleIndex serves a minimal landing page describing the API surface
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	fmt.Fprint(w, indexPage)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
}

func (s *Server) handleScenes(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string][]string{
		"scenes": {"default", "cornell", "foggy"},
	})
}

// handleRender renders synchronously and responds with a PNG
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	req, err := parseRenderQuery(r.URL.Query())
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	result, err := s.render(r.Context(), req, nil)
	if err != nil {
		if r.Context().Err() != nil {
			return // Client went away
		}
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "image/png")
	if err := png.Encode(w, result.Framebuffer.ToImage(2.0)); err != nil {
		logger.Errorf("png encode: %v", err)
	}
}

// handleRenderWS upgrades to a websocket, reads one render request, and
// streams tile updates followed by the finished image. All writes go
// through a single writer goroutine; the websocket connection is not safe
// for concurrent writers.
func (s *Server) handleRenderWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logger.Errorf("websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	var req RenderRequest
	if err := conn.ReadJSON(&req); err != nil {
		logger.Warningf("websocket request: %v", err)
		return
	}
	applyDefaults(&req)
	if err := validateRequest(&req); err != nil {
		s.writeEvent(conn, "error", map[string]string{"message": err.Error()})
		return
	}

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	// Cancel the render if the client disconnects
	go func() {
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				cancel()
				return
			}
		}
	}()

	events := make(chan wsEvent, 64)
	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		for event := range events {
			if err := conn.WriteJSON(event); err != nil {
				cancel()
				return
			}
		}
	}()

	start := time.Now()
	result, err := s.render(ctx, &req, func(r *renderer.Renderer) {
		r.OnTileComplete = func(tile renderer.Tile, pass int) {
			data, _ := json.Marshal(TileUpdate{
				Index:    tile.Index,
				X0:       tile.X0,
				Y0:       tile.Y0,
				X1:       tile.X1,
				Y1:       tile.Y1,
				Pass:     pass,
				Progress: r.Progress(),
			})
			select {
			case events <- wsEvent{Type: "tile", Data: data}:
			default:
				// Slow client: drop tile updates rather than stall workers
			}
		}
	})

	if err != nil {
		data, _ := json.Marshal(map[string]string{"message": err.Error()})
		events <- wsEvent{Type: "error", Data: data}
	} else {
		imageData, encErr := imageToBase64PNG(result)
		if encErr != nil {
			data, _ := json.Marshal(map[string]string{"message": encErr.Error()})
			events <- wsEvent{Type: "error", Data: data}
		} else {
			data, _ := json.Marshal(RenderComplete{
				ImageData:      imageData,
				TotalSamples:   result.Stats.TotalSamples,
				AverageSamples: result.Stats.AverageSamples,
				FailedTiles:    result.Stats.FailedTiles,
				ElapsedMs:      time.Since(start).Milliseconds(),
			})
			events <- wsEvent{Type: "complete", Data: data}
		}
	}

	close(events)
	<-writerDone
	conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
}

// render builds the scene and renderer for a request and runs it.
// configure, when non-nil, is called with the renderer before the render
// starts so callers can attach progress callbacks.
func (s *Server) render(ctx context.Context, req *RenderRequest, configure func(*renderer.Renderer)) (*renderer.RenderResult, error) {
	scn := createScene(req.Scene, float64(req.Width)/float64(req.Height))
	if scn == nil {
		return nil, fmt.Errorf("unknown scene: %s", req.Scene)
	}

	config := renderer.DefaultConfig(req.Width, req.Height)
	config.SamplesPerPixel = req.SamplesPerPixel
	config.MaxDepth = req.MaxDepth
	config.Workers = req.Workers
	config.Seed = req.Seed
	config.Adaptive = req.Adaptive
	if req.Adaptive {
		config.AdaptiveMin = req.AdaptiveMin
		config.AdaptiveThreshold = req.AdaptiveThreshold
	}

	r, err := renderer.NewRenderer(config, scn)
	if err != nil {
		return nil, err
	}
	if configure != nil {
		configure(r)
	}
	return r.Render(ctx)
}

func (s *Server) writeEvent(conn *websocket.Conn, eventType string, payload interface{}) {
	data, err := json.Marshal(payload)
	if err != nil {
		return
	}
	if err := conn.WriteJSON(wsEvent{Type: eventType, Data: data}); err != nil {
		logger.Warningf("websocket write: %v", err)
	}
}

func createScene(name string, aspect float64) *scene.Scene {
	switch name {
	case "default", "":
		return scene.NewDefaultScene(aspect)
	case "cornell":
		return scene.NewCornellScene(aspect)
	case "foggy":
		return scene.NewFoggyScene(aspect)
	default:
		return nil
	}
}

func imageToBase64PNG(result *renderer.RenderResult) (string, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, result.Framebuffer.ToImage(2.0)); err != nil {
		return "", err
	}
	return base64.StdEncoding.EncodeToString(buf.Bytes()), nil
}

// parseRenderQuery builds a request from URL query parameters, applying
// the same defaults and limits as the websocket path
func parseRenderQuery(values url.Values) (*RenderRequest, error) {
	req := &RenderRequest{Scene: values.Get("scene")}

	var err error
	if req.Width, err = parseIntParam(values, "width", 400, 16, 4096); err != nil {
		return nil, err
	}
	if req.Height, err = parseIntParam(values, "height", 400, 16, 4096); err != nil {
		return nil, err
	}
	if req.SamplesPerPixel, err = parseIntParam(values, "samples", 64, 1, 16384); err != nil {
		return nil, err
	}
	if req.MaxDepth, err = parseIntParam(values, "maxDepth", 12, 1, 256); err != nil {
		return nil, err
	}
	if req.Workers, err = parseIntParam(values, "workers", 0, 0, 1024); err != nil {
		return nil, err
	}

	seed, err := parseIntParam(values, "seed", 42, 0, 1<<31)
	if err != nil {
		return nil, err
	}
	req.Seed = int64(seed)

	req.Adaptive = values.Get("adaptive") == "true"
	if req.AdaptiveMin, err = parseFloatParam(values, "adaptiveMin", 0.25, 0.01, 1.0); err != nil {
		return nil, err
	}
	if req.AdaptiveThreshold, err = parseFloatParam(values, "adaptiveThreshold", 0.02, 0.001, 0.5); err != nil {
		return nil, err
	}

	return req, nil
}

func applyDefaults(req *RenderRequest) {
	if req.Width == 0 {
		req.Width = 400
	}
	if req.Height == 0 {
		req.Height = 400
	}
	if req.SamplesPerPixel == 0 {
		req.SamplesPerPixel = 64
	}
	if req.MaxDepth == 0 {
		req.MaxDepth = 12
	}
	if req.AdaptiveMin == 0 {
		req.AdaptiveMin = 0.25
	}
	if req.AdaptiveThreshold == 0 {
		req.AdaptiveThreshold = 0.02
	}
}

func validateRequest(req *RenderRequest) error {
	if req.Width < 16 || req.Width > 4096 {
		return fmt.Errorf("width must be between 16 and 4096, got %d", req.Width)
	}
	if req.Height < 16 || req.Height > 4096 {
		return fmt.Errorf("height must be between 16 and 4096, got %d", req.Height)
	}
	if req.SamplesPerPixel < 1 || req.SamplesPerPixel > 16384 {
		return fmt.Errorf("samplesPerPixel must be between 1 and 16384, got %d", req.SamplesPerPixel)
	}
	return nil
}

// parseIntParam parses an integer query parameter with range validation
func parseIntParam(values url.Values, key string, defaultValue, min, max int) (int, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.Atoi(value)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %d and %d, got %d", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}

// parseFloatParam parses a float query parameter with range validation
func parseFloatParam(values url.Values, key string, defaultValue, min, max float64) (float64, error) {
	if value := values.Get(key); value != "" {
		parsed, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid %s: %s", key, value)
		}
		if parsed < min || parsed > max {
			return 0, fmt.Errorf("%s must be between %g and %g, got %g", key, min, max, parsed)
		}
		return parsed, nil
	}
	return defaultValue, nil
}
