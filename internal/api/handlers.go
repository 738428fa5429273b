package api

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"educdash/internal/dashboard"
	"educdash/internal/engine"
	applog "educdash/internal/log"
	"educdash/internal/models"
	"educdash/internal/render"
)

type Handler struct {
	svc      *dashboard.Service
	sessions *Sessions
	logger   *applog.Logger
}

func NewHandler(svc *dashboard.Service, sessions *Sessions, logger *applog.Logger) *Handler {
	if logger == nil {
		logger = applog.Discard()
	}
	return &Handler{svc: svc, sessions: sessions, logger: logger.WithComponent(applog.ComponentHTTP)}
}

func (h *Handler) RegisterRoutes(e *echo.Echo) {
	e.GET("/healthz", h.Health)

	api := e.Group("/api")
	api.GET("/programs", h.GetPrograms)
	api.GET("/state", h.GetState)
	api.POST("/select", h.Select)
	api.GET("/panel", h.GetCurrentPanel)
	api.GET("/programs/:program/panel", h.GetPanel)
	api.GET("/programs/:program/charts/:chart", h.GetChart)
	api.GET("/programs/:program/dataset.arrow", h.GetDataset)
}

// --- REQUEST PARSING ---
func getPaginationParams(c echo.Context, defaultLimit int) (int, int) {
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = defaultLimit
	}
	offset, err := strconv.Atoi(c.QueryParam("offset"))
	if err != nil || offset < 0 {
		offset = 0
	}
	return limit, offset
}

// paginate trims every table of the panel to the requested window.
// Total keeps the unpaginated row count.
func paginate(c echo.Context, panel models.Panel) models.Panel {
	for i, t := range panel.Tables {
		total := len(t.Rows)
		limit, offset := getPaginationParams(c, total)

		if offset >= total {
			panel.Tables[i].Rows = [][]string{}
			continue
		}
		end := offset + limit
		if end > total {
			end = total
		}
		panel.Tables[i].Rows = t.Rows[offset:end]
	}
	return panel
}

// panelRequest reads the panel controls from the query string.
// Repeated "jurisdiction" parameters select jurisdictions; a single empty
// one selects none. Without any, all are selected.
func panelRequest(c echo.Context) (dashboard.Request, error) {
	req := dashboard.DefaultRequest()
	q := c.QueryParams()
	if q.Has("jurisdiction") {
		var names []string
		for _, n := range q["jurisdiction"] {
			if n = strings.TrimSpace(n); n != "" {
				names = append(names, n)
			}
		}
		req.Jurisdictions = engine.OnlyJurisdictions(names...)
	}
	if line := q.Get("line"); line != "" {
		tag, err := engine.ParseLine(line)
		if err != nil {
			return req, echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		req.Line = tag
	}
	return req, nil
}

func programParam(c echo.Context) (dashboard.Program, error) {
	p, err := dashboard.ParseProgram(c.Param("program"))
	if err != nil {
		return dashboard.None, echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if p == dashboard.None {
		return dashboard.None, echo.NewHTTPError(http.StatusBadRequest, "program is required")
	}
	return p, nil
}

// --- HANDLERS ---
func (h *Handler) Health(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]interface{}{
		"status":   "ok",
		"sessions": h.sessions.Len(),
	})
}

func (h *Handler) GetPrograms(c echo.Context) error {
	return c.JSON(http.StatusOK, dashboard.Menu(h.svc.Registry()))
}

func (h *Handler) GetState(c echo.Context) error {
	id := h.sessions.sessionID(c)
	return c.JSON(http.StatusOK, h.sessions.Get(id).View())
}

type selectRequest struct {
	Program string `json:"program" form:"program" query:"program"`
}

// Select records a menu click for the session and returns the new state.
func (h *Handler) Select(c echo.Context) error {
	var body selectRequest
	if err := c.Bind(&body); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	p, err := dashboard.ParseProgram(body.Program)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	id := h.sessions.sessionID(c)
	st := h.sessions.Get(id).Select(p)
	h.sessions.Put(id, st)

	h.logger.InfoContext(c.Request().Context(), "Program selected",
		applog.FieldOperation, applog.OpSelect,
		applog.FieldProgram, string(p),
		applog.FieldSession, id,
	)
	return c.JSON(http.StatusOK, st.View())
}

// GetCurrentPanel draws the panel of the session's selection.
func (h *Handler) GetCurrentPanel(c echo.Context) error {
	req, err := panelRequest(c)
	if err != nil {
		return err
	}
	st := h.sessions.Get(h.sessions.sessionID(c))
	panel := h.svc.Render(c.Request().Context(), st, req)
	return c.JSON(http.StatusOK, paginate(c, panel))
}

func (h *Handler) GetPanel(c echo.Context) error {
	p, err := programParam(c)
	if err != nil {
		return err
	}
	req, err := panelRequest(c)
	if err != nil {
		return err
	}
	panel := h.svc.Panel(c.Request().Context(), p, req)
	return c.JSON(http.StatusOK, paginate(c, panel))
}

// GetChart renders one chart of a program's panel as PNG. A failed panel
// is returned as JSON, like GetPanel.
func (h *Handler) GetChart(c echo.Context) error {
	p, err := programParam(c)
	if err != nil {
		return err
	}
	req, err := panelRequest(c)
	if err != nil {
		return err
	}
	chartID := strings.TrimSuffix(c.Param("chart"), ".png")

	panel := h.svc.Panel(c.Request().Context(), p, req)
	if panel.Error != nil {
		return c.JSON(http.StatusOK, panel)
	}
	var chart *models.Chart
	for i := range panel.Charts {
		if panel.Charts[i].ID == chartID {
			chart = &panel.Charts[i]
			break
		}
	}
	if chart == nil {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("chart %q not found for %s", chartID, p))
	}

	width := intParam(c, "width", render.DefaultWidth)
	height := intParam(c, "height", render.DefaultHeight)
	if width > 4096 || height > 4096 {
		return echo.NewHTTPError(http.StatusBadRequest, "image size must be at most 4096x4096")
	}

	start := time.Now()
	var buf bytes.Buffer
	if err := render.PNG(&buf, *chart, width, height); err != nil {
		return err
	}
	fields := applog.NewFields().
		WithOperation(applog.OpRender).
		WithProgram(string(p)).
		WithDuration(time.Since(start))
	fields[applog.FieldChart] = chartID
	h.logger.DebugContext(c.Request().Context(), "Chart rendered", fields.ToSlice()...)
	return c.Blob(http.StatusOK, "image/png", buf.Bytes())
}

// GetDataset streams a program's normalized dataset as an Arrow IPC stream.
func (h *Handler) GetDataset(c echo.Context) error {
	p, err := programParam(c)
	if err != nil {
		return err
	}
	req, err := panelRequest(c)
	if err != nil {
		return err
	}
	ds, err := h.svc.Dataset(c.Request().Context(), p, req)
	if errors.Is(err, dashboard.ErrNoSource) {
		return echo.NewHTTPError(http.StatusNotFound, fmt.Sprintf("%s has no dataset", p))
	}
	if err != nil {
		return echo.NewHTTPError(http.StatusInternalServerError, map[string]string{
			"kind":    dashboard.ErrorKind(err),
			"message": err.Error(),
		})
	}

	var buf bytes.Buffer
	if err := ds.WriteArrow(&buf); err != nil {
		return err
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", strings.ToLower(string(p))+".arrow"))
	return c.Blob(http.StatusOK, "application/vnd.apache.arrow.stream", buf.Bytes())
}

func intParam(c echo.Context, name string, def int) int {
	v, err := strconv.Atoi(c.QueryParam(name))
	if err != nil || v <= 0 {
		return def
	}
	return v
}
