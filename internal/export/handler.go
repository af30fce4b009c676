package export

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/inamate/fractalscape/internal/engine"
	"github.com/inamate/fractalscape/internal/metrics"
	"github.com/inamate/fractalscape/internal/scene"
	"github.com/inamate/fractalscape/internal/typeid"
)

type Handler struct {
	cfg       scene.Config
	fixedSeed uint64
	maxSize   int
}

func NewHandler(cfg scene.Config, fixedSeed uint64, maxSize int) *Handler {
	return &Handler{cfg: cfg, fixedSeed: fixedSeed, maxSize: maxSize}
}

// ExportPNG generates the requested scene and streams it as a PNG. The
// optional width parameter sets the image width; height follows the scene's
// aspect ratio.
func (h *Handler) ExportPNG(w http.ResponseWriter, r *http.Request) {
	req, err := engine.ParseSceneRequest(r.URL.Query(), h.fixedSeed)
	if err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}

	width := h.cfg.Width
	if raw := r.URL.Query().Get("width"); raw != "" {
		width, err = strconv.Atoi(raw)
		if err != nil || width <= 0 {
			writeError(w, http.StatusBadRequest, fmt.Errorf("width must be a positive integer"))
			return
		}
	}
	width = min(width, h.maxSize)
	height := max(1, width*h.cfg.Height/h.cfg.Width)
	if height > h.maxSize {
		height = h.maxSize
		width = max(1, height*h.cfg.Width/h.cfg.Height)
	}

	e := engine.NewEngine(h.cfg, engine.WithObserver(metrics.Generation{}))
	if err := e.Generate(req.Kind, req.Seed); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, scene.ErrInvalidConfig) {
			status = http.StatusBadRequest
		}
		writeError(w, status, err)
		return
	}
	e.SetViewport(width, height)

	var buf bytes.Buffer
	if err := WritePNG(&buf, e.Commands(), width, height); err != nil {
		slog.Error("rasterize scene", "seed", req.Seed, "error", err)
		writeError(w, http.StatusInternalServerError, fmt.Errorf("rasterize failed"))
		return
	}

	exportID := typeid.NewExportID()
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Content-Disposition", fmt.Sprintf(`inline; filename="%s-%d.png"`, req.Kind, req.Seed))
	w.Header().Set("Content-Length", strconv.Itoa(buf.Len()))
	w.Header().Set("X-Scene-Seed", strconv.FormatUint(req.Seed, 10))
	w.Header().Set("X-Export-Id", exportID)
	if _, err := w.Write(buf.Bytes()); err != nil {
		slog.Error("write png", "export", exportID, "error", err)
		return
	}
	metrics.PNGWritten(buf.Len())
	slog.Info("export complete", "export", exportID, "kind", req.Kind, "seed", req.Seed, "width", width, "height", height, "size", buf.Len())
}

func writeError(w http.ResponseWriter, status int, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
