package handler

import (
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/tryggaplatser/locator/internal/app"
	"github.com/tryggaplatser/locator/internal/config"
	"github.com/tryggaplatser/locator/internal/domain/repository"
	"github.com/tryggaplatser/locator/internal/facade"
	"github.com/tryggaplatser/locator/internal/mapview"
	"github.com/tryggaplatser/locator/internal/nav"
	"github.com/tryggaplatser/locator/internal/pkg/errors"
	"github.com/tryggaplatser/locator/internal/pkg/utils"
	"github.com/tryggaplatser/locator/internal/pkg/validator"
	"github.com/tryggaplatser/locator/internal/render"
	"github.com/tryggaplatser/locator/internal/usecase/dto"
)

// session bundles one device's orchestrator with the logs its frames are
// drained from. Events on a session are serialized by its mutex.
type session struct {
	mu sync.Mutex

	id       string
	deviceID string
	orch     *app.Orchestrator
	ctrl     *mapview.Controller
	nav      *nav.Manager
	geo      *app.SessionGeolocator

	commands     *mapview.CommandLog
	instructions *nav.InstructionLog
	lastSeen     time.Time
}

// Frame is everything a client applies after an event: map commands and
// UI instructions, in order.
type Frame struct {
	Commands     []mapview.Command `json:"commands"`
	Instructions []nav.Instruction `json:"instructions"`
}

func (s *session) drain() Frame {
	return Frame{
		Commands:     s.commands.Drain(),
		Instructions: s.instructions.Drain(),
	}
}

// SessionHandler exposes the orchestration core over HTTP: clients open a
// session, push user events and apply the frames that come back.
type SessionHandler struct {
	mu       sync.Mutex
	sessions map[string]*session

	data     facade.DataFacade
	renderer *render.Renderer
	states   repository.StateRepository
	mapCfg   *config.MapConfig
	logger   *zap.Logger
}

func NewSessionHandler(
	data facade.DataFacade,
	renderer *render.Renderer,
	states repository.StateRepository,
	mapCfg *config.MapConfig,
	logger *zap.Logger,
) *SessionHandler {
	return &SessionHandler{
		sessions: make(map[string]*session),
		data:     data,
		renderer: renderer,
		states:   states,
		mapCfg:   mapCfg,
		logger:   logger,
	}
}

type createSessionRequest struct {
	DeviceID string `json:"device_id"`
}

type createSessionResponse struct {
	SessionID string `json:"session_id"`
	DeviceID  string `json:"device_id"`
	Frame     Frame  `json:"frame"`
}

// EventRequest is one user action pushed into a session.
type EventRequest struct {
	Type      string  `json:"type" validate:"required,oneof=home category post back marker_click close_info search filter locate position toggle_menu toggle_dropdown close_overlays directions"`
	CatID     int64   `json:"cat_id,omitempty"`
	PostID    int64   `json:"post_id,omitempty"`
	SubcatIDs []int64 `json:"subcat_ids,omitempty"`
	Query     string  `json:"query,omitempty"`
	Dropdown  string  `json:"dropdown,omitempty"`
	Lat       float64 `json:"lat,omitempty"`
	Lng       float64 `json:"lng,omitempty"`
}

// Create godoc
// @Summary Open a map session
// @Description Starts an orchestrator for a device and returns the initial frame
// @Tags sessions
// @Accept json
// @Produce json
// @Success 200 {object} utils.SuccessResponse
// @Router /sessions [post]
func (h *SessionHandler) Create(c *fiber.Ctx) error {
	var req createSessionRequest
	if err := c.BodyParser(&req); err != nil && len(c.Body()) > 0 {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if req.DeviceID == "" {
		req.DeviceID = uuid.NewString()
	}

	s := h.newSession(req.DeviceID)

	s.mu.Lock()
	s.orch.Start(c.Context())
	frame := s.drain()
	s.mu.Unlock()

	h.mu.Lock()
	h.sessions[s.id] = s
	h.mu.Unlock()

	h.logger.Info("session opened",
		zap.String("session_id", s.id),
		zap.String("device_id", s.deviceID),
	)

	return utils.SendSuccess(c, createSessionResponse{
		SessionID: s.id,
		DeviceID:  s.deviceID,
		Frame:     frame,
	}, nil)
}

func (h *SessionHandler) newSession(deviceID string) *session {
	commands := mapview.NewCommandLog()
	instructions := nav.NewInstructionLog()
	geolocator := app.NewSessionGeolocator()

	controller := mapview.NewController(commands, h.mapCfg, h.logger, nil)
	navManager := nav.NewManager(h.states, deviceID, instructions, h.logger)
	orch := app.NewOrchestrator(
		controller, navManager, h.data, h.renderer,
		geolocator, instructions, h.mapCfg, h.logger, nil,
	)

	return &session{
		id:           uuid.NewString(),
		deviceID:     deviceID,
		orch:         orch,
		ctrl:         controller,
		nav:          navManager,
		geo:          geolocator,
		commands:     commands,
		instructions: instructions,
		lastSeen:     time.Now(),
	}
}

func (h *SessionHandler) get(id string) (*session, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	s, ok := h.sessions[id]
	return s, ok
}

// Event godoc
// @Summary Push a user action into a session
// @Tags sessions
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param event body EventRequest true "Event"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /sessions/{id}/events [post]
func (h *SessionHandler) Event(c *fiber.Ctx) error {
	s, ok := h.get(c.Params("id"))
	if !ok {
		return utils.SendError(c, errors.ErrSessionNotFound)
	}

	var req EventRequest
	if err := c.BodyParser(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}
	if err := validator.Validate(&req); err != nil {
		return utils.SendError(c, errors.ErrInvalidRequest)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()

	ctx := c.Context()
	switch req.Type {
	case "home":
		s.orch.LoadHomepage(ctx)
	case "category":
		s.orch.LoadCategory(ctx, req.CatID)
	case "post":
		s.orch.LoadSinglePost(ctx, req.PostID, req.CatID)
	case "back":
		s.orch.GoBack(ctx)
	case "marker_click":
		s.ctrl.HandleMarkerClick(req.PostID)
	case "close_info":
		s.orch.CloseLocationInfo()
	case "search":
		s.orch.Search(ctx, req.Query)
	case "filter":
		s.orch.FilterSubcategories(ctx, req.CatID, req.SubcatIDs)
	case "locate":
		s.orch.LocateMe()
	case "position":
		var pos dto.PositionRequest
		pos.Lat, pos.Lng = req.Lat, req.Lng
		if err := validator.Validate(&pos); err != nil {
			return utils.SendError(c, errors.ErrInvalidCoordinates)
		}
		s.geo.ReportPosition(mapview.LatLng{Lat: req.Lat, Lng: req.Lng})
	case "toggle_menu":
		s.nav.ToggleMenu()
	case "toggle_dropdown":
		s.nav.ToggleDropdown(req.Dropdown)
	case "close_overlays":
		s.nav.CloseAllOverlays()
	case "directions":
		s.orch.DirectionsByID(ctx, req.PostID)
	}

	return utils.SendSuccess(c, s.drain(), nil)
}

// Frame godoc
// @Summary Drain pending commands and instructions
// @Tags sessions
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} utils.SuccessResponse
// @Failure 404 {object} utils.ErrorResponse
// @Router /sessions/{id}/frame [get]
func (h *SessionHandler) Frame(c *fiber.Ctx) error {
	s, ok := h.get(c.Params("id"))
	if !ok {
		return utils.SendError(c, errors.ErrSessionNotFound)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastSeen = time.Now()
	return utils.SendSuccess(c, s.drain(), nil)
}

// Close godoc
// @Summary Close a session
// @Tags sessions
// @Param id path string true "Session ID"
// @Success 200 {object} utils.SuccessResponse
// @Router /sessions/{id} [delete]
func (h *SessionHandler) Close(c *fiber.Ctx) error {
	h.mu.Lock()
	delete(h.sessions, c.Params("id"))
	h.mu.Unlock()
	return utils.SendSuccess(c, fiber.Map{"closed": true}, nil)
}

// Sweep drops sessions idle for longer than maxIdle. The server calls it
// on a timer.
func (h *SessionHandler) Sweep(maxIdle time.Duration) int {
	h.mu.Lock()
	defer h.mu.Unlock()

	removed := 0
	cutoff := time.Now().Add(-maxIdle)
	for id, s := range h.sessions {
		s.mu.Lock()
		idle := s.lastSeen.Before(cutoff)
		s.mu.Unlock()
		if idle {
			delete(h.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		h.logger.Info("swept idle sessions", zap.Int("count", removed))
	}
	return removed
}
