// Admin HTTP handlers.
//
// This file exposes the gated dashboard surface:
//   - POST /admin/sermons        (multipart video upload)
//   - POST /admin/events         (multipart image upload)
//   - POST /admin/praise-songs   (multipart audio upload)
//   - POST /admin/notifications  (publish an announcement)
//   - PUT  /admin/give-details   (overwrite the giving-details singleton)
//
// All routes sit behind the admin middleware; every request re-verifies the
// bearer token against the configured administrator.
//
// Idempotency:
// The upload and notification endpoints honor the Idempotency-Key header.
// When a previous successful result exists for (user, scope, key), the
// handler replays the recorded resource and sets `Idempotency-Replayed:
// true` instead of storing the binary or row again. Scope is the final
// segment of the matched route, so a key used for a sermon upload does not
// collide with the same key used for a notification.
package handlers

import (
	"context"
	"io"
	"net/http"
	"path"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/victorypower/church-backend/internal/domain"
	"github.com/victorypower/church-backend/internal/http/middleware"
	"github.com/victorypower/church-backend/internal/repo"
	"github.com/victorypower/church-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// UploadService defines the admin upload pipeline consumed by HTTP handlers.
type UploadService interface {
	// Upload stores the binary, inserts the metadata row, and refreshes the
	// visible list for the kind.
	Upload(ctx context.Context, kind domain.ContentKind, title, filename string, file io.Reader, contentType string) (*services.UploadResult, error)
}

// NotificationService defines announcement publishing.
type NotificationService interface {
	// Publish validates and inserts a notification.
	Publish(ctx context.Context, title, message string) (*domain.Notification, error)
}

//
// DTOs
//

// PublishNotificationRequest is the JSON payload for an announcement.
type PublishNotificationRequest struct {
	// Title is optional.
	Title string `json:"title" example:"Service moved"`
	// Message is the announcement body; it must be non-empty.
	Message string `json:"message" binding:"required,min=1" example:"Sunday service starts at 09:00 this week."`
}

// UpdateGiveDetailsRequest is the JSON payload for the giving-details upsert.
// All three fields are free text and fully overwrite the stored values.
type UpdateGiveDetailsRequest struct {
	EcoCash string `json:"eco_cash"`
	Visa    string `json:"visa"`
	Inbucks string `json:"inbucks"`
}

//
// Helpers
//

// idemKey returns the validated idempotency key stashed by the middleware,
// falling back to the raw header when the middleware is not mounted (tests,
// stripped-down wiring).
func idemKey(c *gin.Context) string {
	if k, ok := middleware.GetIdempotencyKey(c); ok {
		return k
	}
	return strings.TrimSpace(c.GetHeader(middleware.HeaderIdempotencyKey))
}

// idemScope mirrors the middleware's scope derivation: the final segment of
// the matched route names the mutation target.
func idemScope(c *gin.Context) string {
	p := c.FullPath()
	if p == "" && c.Request != nil && c.Request.URL != nil {
		p = c.Request.URL.Path
	}
	return path.Base(strings.TrimRight(p, "/"))
}

// uploadDB exposes the DB handle of the concrete upload service for
// idempotency bookkeeping. Nil when the handler is wired with a test double.
func (h *Handlers) uploadDB() *gorm.DB {
	if svc, ok := h.uploadSvc.(*services.UploadService); ok {
		return svc.DB
	}
	return nil
}

// replayUpload looks up the record a previous upload with this key created
// and rebuilds the response body from it. Returns false when no usable
// record exists, in which case the request proceeds normally.
func replayUpload(ctx context.Context, db *gorm.DB, kind domain.ContentKind, recordID string) (*services.UploadResult, bool) {
	if db == nil || recordID == "" {
		return nil, false
	}
	switch kind {
	case domain.KindSermons:
		if rec, err := repo.GetSermon(ctx, db, recordID); err == nil {
			return &services.UploadResult{ID: rec.ID, Title: rec.Title, Path: rec.VideoURL, CreatedAt: rec.CreatedAt}, true
		}
	case domain.KindEvents:
		if rec, err := repo.GetEvent(ctx, db, recordID); err == nil {
			return &services.UploadResult{ID: rec.ID, Title: rec.Title, Path: rec.ImageURL, CreatedAt: rec.CreatedAt}, true
		}
	case domain.KindPraiseSongs:
		if rec, err := repo.GetPraiseSong(ctx, db, recordID); err == nil {
			return &services.UploadResult{ID: rec.ID, Title: rec.Title, Path: rec.FilePath, CreatedAt: rec.CreatedAt}, true
		}
	}
	return nil, false
}

// uploadContent is the shared multipart handler behind the three upload
// routes. It parses title and file, runs the replay check, delegates to the
// upload pipeline, and records the idempotency key on success.
func (h *Handlers) uploadContent(c *gin.Context, kind domain.ContentKind) {
	ctx := c.Request.Context()

	title := strings.TrimSpace(c.PostForm("title"))
	fh, fhErr := c.FormFile("file")

	currentUser := c.GetString("userID")
	scope := idemScope(c)

	// Idempotency (replay path).
	key := idemKey(c)
	if key != "" {
		if db := h.uploadDB(); db != nil {
			if rec, err := repo.GetIdempotency(ctx, db, currentUser, scope, key, time.Now().UTC()); err == nil && rec != nil {
				if res, found := replayUpload(ctx, db, kind, rec.RecordID); found {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusCreated, res)
					return
				}
			}
		}
	}

	// Edge validation before touching the pipeline; the service re-checks.
	if title == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "title required")
		return
	}
	if fhErr != nil || fh == nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "file required")
		return
	}
	f, err := fh.Open()
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "unreadable file")
		return
	}
	defer f.Close()

	res, err := h.uploadSvc.Upload(ctx, kind, title, fh.Filename, f, fh.Header.Get("Content-Type"))
	if err != nil {
		switch err {
		case services.ErrEmptyTitle, services.ErrMissingFile, services.ErrUnknownKind:
			middleware.RecordUpload(string(kind), "rejected")
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, err.Error())
		case services.ErrUploadInFlight:
			middleware.RecordUpload(string(kind), "rejected")
			fail(c, http.StatusConflict, ErrCodeUploadInFlight, "an upload for this kind is already in progress")
		case services.ErrOrphanedObject:
			middleware.RecordUpload(string(kind), "orphaned")
			fail(c, http.StatusBadGateway, ErrCodePartialFailure, "upload stored an object but failed to record it")
		default:
			middleware.RecordUpload(string(kind), "failed")
			fail(c, http.StatusInternalServerError, ErrCodeUploadFailed, err.Error())
		}
		return
	}
	middleware.RecordUpload(string(kind), "ok")

	// Idempotency (store path), best effort.
	if key != "" {
		if db := h.uploadDB(); db != nil {
			_, _ = repo.CreateIdempotency(ctx, db, currentUser, scope, key, res.ID, http.StatusCreated, 24*time.Hour)
		}
	}

	ok(c, http.StatusCreated, res)
}

//
// Handlers
//

// UploadSermon godoc
// @ID          uploadSermon
// @Summary     Upload a sermon video
// @Description Stores the video, inserts the sermon row, and refreshes the public list. At most one sermon upload may be in flight.
// @Tags        Admin
// @Accept      multipart/form-data
// @Produce     json
//
// @Param       Authorization    header    string  true  "Bearer token"
// @Param       Idempotency-Key  header    string  false "Idempotency key for safe retries"
// @Param       title            formData  string  true  "Sermon title"
// @Param       file             formData  file    true  "Video file"
//
// @Success     201  {object} services.UploadResult
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     401  {object} handlers.ErrorResponse "Missing token"
// @Failure     403  {object} handlers.ErrorResponse "Not the administrator"
// @Failure     409  {object} handlers.ErrorResponse "Upload already in flight"
// @Failure     502  {object} handlers.ErrorResponse "Partial failure (orphaned object)"
// @Router      /admin/sermons [post]
func (h *Handlers) UploadSermon(c *gin.Context) {
	h.uploadContent(c, domain.KindSermons)
}

// UploadEvent godoc
// @ID          uploadEvent
// @Summary     Upload an event image
// @Tags        Admin
// @Accept      multipart/form-data
// @Produce     json
// @Param       title  formData  string  true  "Event title"
// @Param       file   formData  file    true  "Image file"
// @Success     201  {object} services.UploadResult
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     409  {object} handlers.ErrorResponse "Upload already in flight"
// @Router      /admin/events [post]
func (h *Handlers) UploadEvent(c *gin.Context) {
	h.uploadContent(c, domain.KindEvents)
}

// UploadPraiseSong godoc
// @ID          uploadPraiseSong
// @Summary     Upload a praise-song audio file
// @Description The stored object is named after the song title rather than the uploaded filename.
// @Tags        Admin
// @Accept      multipart/form-data
// @Produce     json
// @Param       title  formData  string  true  "Song title"
// @Param       file   formData  file    true  "Audio file"
// @Success     201  {object} services.UploadResult
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     409  {object} handlers.ErrorResponse "Upload already in flight"
// @Router      /admin/praise-songs [post]
func (h *Handlers) UploadPraiseSong(c *gin.Context) {
	h.uploadContent(c, domain.KindPraiseSongs)
}

// PublishNotification godoc
// @ID          publishNotification
// @Summary     Publish an announcement
// @Description Inserts a notification and refreshes the public list. Title is optional; message is required.
// @Tags        Admin
// @Accept      json
// @Produce     json
//
// @Param       Authorization    header  string  true  "Bearer token"
// @Param       Idempotency-Key  header  string  false "Idempotency key for safe retries"
// @Param       body             body    handlers.PublishNotificationRequest  true  "Announcement payload"
//
// @Success     201  {object} domain.Notification
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /admin/notifications [post]
func (h *Handlers) PublishNotification(c *gin.Context) {
	ctx := c.Request.Context()

	var req PublishNotificationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message required")
		return
	}

	currentUser := c.GetString("userID")
	scope := idemScope(c)

	key := idemKey(c)
	if key != "" {
		if svc, okSvc := h.noteSvc.(*services.NotificationService); okSvc && svc.DB != nil {
			if rec, err := repo.GetIdempotency(ctx, svc.DB, currentUser, scope, key, time.Now().UTC()); err == nil && rec != nil {
				if prev, err2 := repo.GetNotification(ctx, svc.DB, rec.RecordID); err2 == nil {
					c.Header("Idempotency-Replayed", "true")
					ok(c, http.StatusCreated, prev)
					return
				}
			}
		}
	}

	n, err := h.noteSvc.Publish(ctx, req.Title, req.Message)
	if err != nil {
		switch err {
		case services.ErrEmptyMessage:
			fail(c, http.StatusBadRequest, ErrCodeBadRequest, "message required")
		default:
			fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		}
		return
	}

	if key != "" {
		if svc, okSvc := h.noteSvc.(*services.NotificationService); okSvc && svc.DB != nil {
			_, _ = repo.CreateIdempotency(ctx, svc.DB, currentUser, scope, key, n.ID, http.StatusCreated, 24*time.Hour)
		}
	}

	ok(c, http.StatusCreated, n)
}

// UpdateGiveDetails godoc
// @ID          updateGiveDetails
// @Summary     Overwrite giving details
// @Description Upserts the payment-instruction singleton. The write is last-writer-wins and naturally idempotent.
// @Tags        Admin
// @Accept      json
// @Produce     json
//
// @Param       Authorization  header  string  true  "Bearer token"
// @Param       body           body    handlers.UpdateGiveDetailsRequest  true  "Payment instructions"
//
// @Success     200  {object} domain.GiveDetails
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /admin/give-details [put]
func (h *Handlers) UpdateGiveDetails(c *gin.Context) {
	var req UpdateGiveDetailsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	g, err := h.giveSvc.Update(c.Request.Context(), req.EcoCash, req.Visa, req.Inbucks)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeInternal, err.Error())
		return
	}
	ok(c, http.StatusOK, g)
}
