// Public content HTTP handlers.
//
// This file exposes the read side of the site plus the like toggle:
//   - GET  /sermons            (list, newest first, ETag support)
//   - GET  /events             (list, newest first, ETag support)
//   - GET  /praise-songs       (list, newest first, ETag support)
//   - GET  /notifications      (list, newest first, ETag support)
//   - GET  /give-details       (payment-instruction singleton)
//   - POST /sermons/{id}/like  (toggle the caller's like)
//
// Handlers are transport-thin: they validate input, call application
// services, and translate results into HTTP responses (including
// conditional responses).
package handlers

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/victorypower/church-backend/internal/domain"
	"github.com/victorypower/church-backend/internal/http/middleware"
	"github.com/victorypower/church-backend/internal/repo"
	"github.com/victorypower/church-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// ContentService defines the cached content reads consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type ContentService interface {
	// Sermons returns all sermons, newest first.
	Sermons(ctx context.Context) ([]domain.Sermon, error)
	// Events returns all events, newest first.
	Events(ctx context.Context) ([]domain.Event, error)
	// PraiseSongs returns all praise songs, newest first.
	PraiseSongs(ctx context.Context) ([]domain.PraiseSong, error)
	// Notifications returns all notifications, newest first.
	Notifications(ctx context.Context) ([]domain.Notification, error)
}

// LikeService defines the sermon like toggle.
type LikeService interface {
	// Toggle flips userID's like of sermonID and returns the committed state.
	Toggle(ctx context.Context, userID, sermonID string) (*services.LikeResult, error)
}

// GiveService defines reads and writes of the giving-details singleton.
type GiveService interface {
	// Get returns the singleton, or services.ErrGiveDetailsNotSet.
	Get(ctx context.Context) (*domain.GiveDetails, error)
	// Update overwrites the three payment-instruction fields.
	Update(ctx context.Context, ecoCash, visa, inbucks string) (*domain.GiveDetails, error)
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for content, likes, giving details,
// authentication, and the admin surface. It depends on abstract service
// interfaces to keep transport concerns separate from business logic.
type Handlers struct {
	contentSvc ContentService
	likeSvc    LikeService
	giveSvc    GiveService
	uploadSvc  UploadService
	noteSvc    NotificationService
	authSvc    AuthService
}

// New constructs a Handlers instance bound to the given services.
func New(contentSvc ContentService, likeSvc LikeService, giveSvc GiveService, uploadSvc UploadService, noteSvc NotificationService, authSvc AuthService) *Handlers {
	return &Handlers{
		contentSvc: contentSvc,
		likeSvc:    likeSvc,
		giveSvc:    giveSvc,
		uploadSvc:  uploadSvc,
		noteSvc:    noteSvc,
		authSvc:    authSvc,
	}
}

// likerID resolves the identity a like toggle is attributed to. An
// authenticated user id wins; anonymous visitors are identified by the
// X-Session-ID header their client generates, and as a last resort by
// client IP. The same visitor must map to the same id or toggles stop
// round-tripping.
func likerID(c *gin.Context) string {
	if v, ok := c.Get("userID"); ok {
		if s, ok := v.(string); ok && s != "" {
			return s
		}
	}
	if c != nil && c.Request != nil {
		if h := strings.TrimSpace(c.GetHeader("X-Session-ID")); h != "" {
			return h
		}
	}
	return c.ClientIP()
}

//
// DTOs
//

// ListSermonsResponse wraps the sermon collection.
type ListSermonsResponse struct {
	Sermons []domain.Sermon `json:"sermons"`
}

// ListEventsResponse wraps the event collection.
type ListEventsResponse struct {
	Events []domain.Event `json:"events"`
}

// ListPraiseSongsResponse wraps the praise-song collection.
type ListPraiseSongsResponse struct {
	PraiseSongs []domain.PraiseSong `json:"praise_songs"`
}

// ListNotificationsResponse wraps the notification collection.
type ListNotificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
}

//
// Helpers
//

// setListETag computes a weak ETag from the collection's row count and
// newest update time, sets the header, and reports whether the client's
// If-None-Match already matches (304 path). Best effort: stats errors are
// ignored and the request proceeds unconditionally.
func (h *Handlers) setListETag(c *gin.Context, kind domain.ContentKind) bool {
	var db *gorm.DB
	if svc, ok := h.contentSvc.(*services.ContentService); ok {
		db = svc.DB
	}
	if db == nil {
		return false
	}
	count, maxTS, err := repo.ContentStats(c.Request.Context(), db, kind)
	if err != nil {
		return false
	}
	var ts int64
	if maxTS != nil {
		ts = maxTS.Unix()
	}
	etag := fmt.Sprintf(`W/"%s:%d:%d"`, kind, count, ts)
	c.Header("ETag", etag)
	if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
		c.Status(http.StatusNotModified)
		return true
	}
	return false
}

//
// Handlers
//

// ListSermons godoc
// @ID          listSermons
// @Summary     List sermons
// @Description Returns all sermons, newest first, with derived public video URLs. Supports weak ETag via If-None-Match.
// @Tags        Content
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"sermons:3:1700000000\")
//
// @Success     200  {object} handlers.ListSermonsResponse
// @Header      200  {string} ETag "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /sermons [get]
func (h *Handlers) ListSermons(c *gin.Context) {
	if h.setListETag(c, domain.KindSermons) {
		return
	}
	items, err := h.contentSvc.Sermons(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListSermonsResponse{Sermons: items})
}

// ListEvents godoc
// @ID          listEvents
// @Summary     List events
// @Description Returns all events, newest first, with derived public image URLs.
// @Tags        Content
// @Produce     json
// @Success     200  {object} handlers.ListEventsResponse
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /events [get]
func (h *Handlers) ListEvents(c *gin.Context) {
	if h.setListETag(c, domain.KindEvents) {
		return
	}
	items, err := h.contentSvc.Events(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListEventsResponse{Events: items})
}

// ListPraiseSongs godoc
// @ID          listPraiseSongs
// @Summary     List praise songs
// @Description Returns all praise songs, newest first, with derived public audio URLs.
// @Tags        Content
// @Produce     json
// @Success     200  {object} handlers.ListPraiseSongsResponse
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /praise-songs [get]
func (h *Handlers) ListPraiseSongs(c *gin.Context) {
	if h.setListETag(c, domain.KindPraiseSongs) {
		return
	}
	items, err := h.contentSvc.PraiseSongs(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListPraiseSongsResponse{PraiseSongs: items})
}

// ListNotifications godoc
// @ID          listNotifications
// @Summary     List notifications
// @Description Returns all notifications, newest first.
// @Tags        Content
// @Produce     json
// @Success     200  {object} handlers.ListNotificationsResponse
// @Success     304  {string} string "Not Modified"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /notifications [get]
func (h *Handlers) ListNotifications(c *gin.Context) {
	if h.setListETag(c, domain.KindNotifications) {
		return
	}
	items, err := h.contentSvc.Notifications(c.Request.Context())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}
	ok(c, http.StatusOK, ListNotificationsResponse{Notifications: items})
}

// GetGiveDetails godoc
// @ID          getGiveDetails
// @Summary     Get giving details
// @Description Returns the payment-instruction singleton (EcoCash, Visa, Inbucks).
// @Tags        Give
// @Produce     json
// @Success     200  {object} domain.GiveDetails
// @Failure     404  {object} handlers.ErrorResponse "Not set yet"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /give-details [get]
func (h *Handlers) GetGiveDetails(c *gin.Context) {
	g, err := h.giveSvc.Get(c.Request.Context())
	if err != nil {
		if err == services.ErrGiveDetailsNotSet {
			fail(c, http.StatusNotFound, ErrCodeNotFound, "giving details not set")
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, g)
}

// ToggleSermonLike godoc
// @ID          toggleSermonLike
// @Summary     Toggle a sermon like
// @Description Flips the caller's like of the sermon and returns the committed counter. The caller's identity is the authenticated user, else the X-Session-ID header, else the client IP.
// @Tags        Content
// @Produce     json
//
// @Param       id            path    string  true  "Sermon ID (UUID)"  format(uuid)
// @Param       X-Session-ID  header  string  false "Anonymous visitor session id"
//
// @Success     200  {object} services.LikeResult
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Sermon not found"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /sermons/{id}/like [post]
func (h *Handlers) ToggleSermonLike(c *gin.Context) {
	sermonID := c.Param("id")
	if _, err := uuid.Parse(sermonID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "sermon id must be a UUID")
		return
	}

	res, err := h.likeSvc.Toggle(c.Request.Context(), likerID(c), sermonID)
	if err != nil {
		switch err {
		case services.ErrSermonNotFound:
			fail(c, http.StatusNotFound, ErrCodeNotFound, "sermon not found")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeLikeFailed, err.Error())
		}
		return
	}
	middleware.RecordLikeToggle(res.Liked)
	ok(c, http.StatusOK, res)
}
