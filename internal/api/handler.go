package api

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Kartik-coder753/prism-disaster-management/internal/hub"
	"github.com/Kartik-coder753/prism-disaster-management/internal/models"
	"github.com/Kartik-coder753/prism-disaster-management/internal/notify"
	"github.com/Kartik-coder753/prism-disaster-management/internal/observability"
	"github.com/Kartik-coder753/prism-disaster-management/internal/repository"
)

type Handler struct {
	repo       repository.Repository
	hub        *hub.Hub
	dispatcher *notify.Dispatcher
	metrics    *observability.Metrics
}

func NewHandler(repo repository.Repository, h *hub.Hub, dispatcher *notify.Dispatcher,
	metrics *observability.Metrics) *Handler {
	return &Handler{
		repo:       repo,
		hub:        h,
		dispatcher: dispatcher,
		metrics:    metrics,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.health)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.GET("/ws", h.subscribe)

	r.GET("/api/disasters", h.getDisasters)
	r.GET("/api/disasters/:id", h.getDisasterByID)
	r.POST("/api/disasters", h.createDisaster)

	r.GET("/api/alerts", h.getAlerts)
	r.POST("/api/alerts", h.createAlert)
	r.PATCH("/api/alerts/:id/status", h.updateAlertStatus)

	r.POST("/api/notifications/validate", h.validateNotifications)
	r.POST("/api/notifications/test", h.testNotification)
}

func (h *Handler) health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// getDisasters lists disasters, optionally narrowed by ?type=, ?since= (a
// date), or a proximity query ?lat=&lng=&radius= (radius in km).
func (h *Handler) getDisasters(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		disasters []models.Disaster
		err       error
	)
	switch {
	case c.Query("lat") != "" || c.Query("lng") != "" || c.Query("radius") != "":
		lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
		lng, errLng := strconv.ParseFloat(c.Query("lng"), 64)
		radius, errRad := strconv.ParseFloat(c.Query("radius"), 64)
		if errLat != nil || errLng != nil || errRad != nil || radius < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid coordinates or radius"})
			return
		}
		disasters, err = h.repo.ListDisastersNear(ctx, lat, lng, radius)
	case c.Query("type") != "":
		disasters, err = h.repo.ListDisastersByType(ctx, models.DisasterType(c.Query("type")))
	case c.Query("since") != "":
		since, parseErr := time.Parse("2006-01-02", c.Query("since"))
		if parseErr != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid since date"})
			return
		}
		disasters, err = h.repo.ListDisastersSince(ctx, since)
	default:
		disasters, err = h.repo.ListDisasters(ctx)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch disasters"})
		return
	}

	if disasters == nil {
		disasters = []models.Disaster{}
	}
	c.JSON(http.StatusOK, disasters)
}

func (h *Handler) getDisasterByID(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid disaster id"})
		return
	}

	disaster, err := h.repo.GetDisasterByID(c.Request.Context(), id)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Disaster not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch disaster"})
		return
	}
	c.JSON(http.StatusOK, disaster)
}

type createDisasterRequest struct {
	Type          string           `json:"type" binding:"required"`
	Title         string           `json:"title" binding:"required"`
	Description   string           `json:"description" binding:"required"`
	Location      *models.Location `json:"location" binding:"required"`
	Severity      int              `json:"severity" binding:"required,min=1,max=5"`
	AffectedAreas []string         `json:"affectedAreas" binding:"required,min=1"`

	WindSpeed      float64     `json:"windSpeed"`
	Movement       string      `json:"movement"`
	Depth          float64     `json:"depth"`
	Magnitude      float64     `json:"magnitude"`
	Rainfall       float64     `json:"rainfall"`
	WaterLevel     float64     `json:"waterLevel"`
	ImpactRadius   float64     `json:"impactRadius"`
	EvacuationZone [][]float64 `json:"evacuationZone"`
}

func (h *Handler) createDisaster(c *gin.Context) {
	var req createDisasterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid disaster data"})
		return
	}

	d := &models.Disaster{
		Type:           models.DisasterType(req.Type),
		Title:          req.Title,
		Description:    req.Description,
		Location:       *req.Location,
		Severity:       req.Severity,
		AffectedAreas:  req.AffectedAreas,
		WindSpeed:      req.WindSpeed,
		Movement:       req.Movement,
		Depth:          req.Depth,
		Magnitude:      req.Magnitude,
		Rainfall:       req.Rainfall,
		WaterLevel:     req.WaterLevel,
		ImpactRadius:   req.ImpactRadius,
		EvacuationZone: req.EvacuationZone,
	}
	if err := h.repo.CreateDisaster(c.Request.Context(), d); err != nil {
		slog.Error("error creating disaster", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create disaster"})
		return
	}

	h.hub.Publish(models.Event{Type: models.EventNewDisaster, Data: d})
	c.JSON(http.StatusCreated, d)
}

// getAlerts lists alerts; ?status=active narrows to active ones and
// ?window=72h to active alerts within the lookback window.
func (h *Handler) getAlerts(c *gin.Context) {
	ctx := c.Request.Context()

	var (
		alerts []models.Alert
		err    error
	)
	switch {
	case c.Query("window") == "72h":
		alerts, err = h.repo.ListRecentAlerts(ctx)
	case c.Query("status") == string(models.AlertStatusActive):
		alerts, err = h.repo.ListActiveAlerts(ctx)
	default:
		alerts, err = h.repo.ListAlerts(ctx)
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to fetch alerts"})
		return
	}

	if alerts == nil {
		alerts = []models.Alert{}
	}
	c.JSON(http.StatusOK, alerts)
}

type createAlertRequest struct {
	DisasterID         int64  `json:"disasterId" binding:"required"`
	Message            string `json:"message" binding:"required"`
	Status             string `json:"status" binding:"omitempty,oneof=active resolved"`
	Priority           int    `json:"priority" binding:"required,min=1,max=3"`
	AffectedPopulation int    `json:"affectedPopulation"`
	EvacuationRequired bool   `json:"evacuationRequired"`
	SafetyInstructions string `json:"safetyInstructions"`

	// Optional notification fan-out, dispatched only when recipients are
	// supplied.
	Recipients []string `json:"recipients"`
	Channel    string   `json:"channel" binding:"omitempty,oneof=sms whatsapp"`
}

func (h *Handler) createAlert(c *gin.Context) {
	var req createAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid alert data"})
		return
	}

	a := &models.Alert{
		DisasterID:         req.DisasterID,
		Message:            req.Message,
		Status:             models.AlertStatus(req.Status),
		Priority:           req.Priority,
		AffectedPopulation: req.AffectedPopulation,
		EvacuationRequired: req.EvacuationRequired,
		SafetyInstructions: req.SafetyInstructions,
	}
	err := h.repo.CreateAlert(c.Request.Context(), a)
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Disaster not found"})
		return
	}
	if err != nil {
		slog.Error("error creating alert", "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create alert"})
		return
	}

	h.hub.Publish(models.Event{Type: models.EventNewAlert, Data: a})

	notified := 0
	if len(req.Recipients) > 0 {
		notified = h.notifyRecipients(c.Request.Context(), a.DisasterID, req.Recipients, req.Channel)
	}

	c.JSON(http.StatusCreated, gin.H{
		"alert":         a,
		"notifiedCount": notified,
	})
}

// notifyRecipients renders the alert message from the owning disaster and
// fans it out. Once issued, the sends run to completion even if the HTTP
// request is cancelled.
func (h *Handler) notifyRecipients(ctx context.Context, disasterID int64, recipients []string, channel string) int {
	disaster, err := h.repo.GetDisasterByID(ctx, disasterID)
	if err != nil {
		slog.Error("error loading disaster for notification", "id", disasterID, "error", err)
		return 0
	}

	ch := notify.Channel(channel)
	if ch == "" {
		ch = notify.ChannelWhatsApp
	}
	message := notify.RenderMessage(disaster)
	return h.dispatcher.SendBulk(context.WithoutCancel(ctx), recipients, message, ch)
}

type updateAlertStatusRequest struct {
	Status string `json:"status" binding:"required,oneof=active resolved"`
}

func (h *Handler) updateAlertStatus(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid alert id"})
		return
	}

	var req updateAlertStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid status"})
		return
	}

	alert, err := h.repo.UpdateAlertStatus(c.Request.Context(), id, models.AlertStatus(req.Status))
	if errors.Is(err, repository.ErrNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"message": "Alert not found"})
		return
	}
	if err != nil {
		slog.Error("error updating alert status", "id", id, "error", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update alert"})
		return
	}

	h.hub.Publish(models.Event{Type: models.EventAlertUpdated, Data: alert})
	c.JSON(http.StatusOK, alert)
}

func (h *Handler) validateNotifications(c *gin.Context) {
	status := h.dispatcher.ValidateSetup(c.Request.Context())
	code := http.StatusOK
	if !status.IsValid {
		code = http.StatusServiceUnavailable
	}
	c.JSON(code, status)
}

type testNotificationRequest struct {
	To      string `json:"to" binding:"required"`
	Channel string `json:"channel" binding:"omitempty,oneof=sms whatsapp"`
}

func (h *Handler) testNotification(c *gin.Context) {
	var req testNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid test request"})
		return
	}
	if !notify.ValidateRecipient(req.To) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "Invalid recipient number"})
		return
	}

	ch := notify.Channel(req.Channel)
	if ch == "" {
		ch = notify.ChannelSMS
	}
	ok := h.dispatcher.Send(c.Request.Context(), req.To,
		"PRISM test notification. Your alert channel is working.", ch)
	if !ok {
		c.JSON(http.StatusBadGateway, gin.H{"error": "test send failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "test notification sent"})
}
