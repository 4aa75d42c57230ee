package handler

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stemsi/mailroom-backend/internal/mailer"
	"github.com/stemsi/mailroom-backend/internal/middleware"
	"github.com/stemsi/mailroom-backend/internal/response"
	"github.com/stemsi/mailroom-backend/internal/service"
	"github.com/stemsi/mailroom-backend/internal/validator"
)

const attachmentsField = "attachments"

// EmailHandler handles broadcast sending, the audit log and recipient previews.
type EmailHandler struct {
	broadcastService *service.BroadcastService
	maxUploadBytes   int64
}

// NewEmailHandler creates a new EmailHandler.
func NewEmailHandler(broadcastService *service.BroadcastService, maxUploadBytes int64) *EmailHandler {
	return &EmailHandler{broadcastService: broadcastService, maxUploadBytes: maxUploadBytes}
}

// SendEmailForm holds the text fields of a send request.
type SendEmailForm struct {
	Subject    string `form:"subject"`
	Message    string `form:"message"`
	Recipients string `form:"recipients" binding:"required"`
	Class      string `form:"class"`
}

// Send godoc
// POST /api/email/send
// Sends an HTML email with optional attachments to a recipient group.
func (h *EmailHandler) Send(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	if h.maxUploadBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUploadBytes)
	}
	if err := c.Request.ParseMultipartForm(h.maxUploadBytes); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			response.Fail(c, http.StatusBadRequest, response.ErrFileTooLarge)
			return
		}
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	var form SendEmailForm
	if fields := validator.BindForm(c, &form); fields != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrNoRecipients)
		return
	}

	attachments, err := readAttachments(c.Request.MultipartForm)
	if err != nil {
		_ = c.Error(err)
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidPayload)
		return
	}

	err = h.broadcastService.Send(c.Request.Context(), service.SendInput{
		Subject:     form.Subject,
		Message:     form.Message,
		Recipients:  form.Recipients,
		Class:       form.Class,
		Attachments: attachments,
		SenderID:    claims.UserID,
	})
	if err != nil {
		var transportErr *service.TransportError
		switch {
		case errors.Is(err, service.ErrNoRecipients):
			response.Fail(c, http.StatusBadRequest, response.ErrNoRecipients)
		case errors.Is(err, service.ErrInvalidClass):
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidClass)
		case errors.As(err, &transportErr):
			_ = c.Error(err)
			response.FailWithDetails(c, http.StatusInternalServerError, response.ErrSendFailed, transportErr.Error())
		default:
			_ = c.Error(err)
			response.FailWithDetails(c, http.StatusInternalServerError, response.ErrSendFailed, err.Error())
		}
		return
	}

	response.OK(c)
}

// Logs godoc
// GET /api/email/logs?page=&pageSize=&search=
// Returns one page of the broadcast audit log, newest first.
func (h *EmailHandler) Logs(c *gin.Context) {
	q := service.ParseLogQuery(c.Query("page"), c.Query("pageSize"), c.Query("search"))

	page, err := h.broadcastService.Logs(c.Request.Context(), q)
	if err != nil {
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrLogsFailed)
		return
	}

	response.Success(c, http.StatusOK, page)
}

// Recipients godoc
// GET /api/email/recipients?group=&classId=
// Previews the addresses a group resolves to, plus the selectable groups and classes.
func (h *EmailHandler) Recipients(c *gin.Context) {
	preview, err := h.broadcastService.Recipients(c.Request.Context(), c.Query("group"), c.Query("classId"))
	if err != nil {
		if errors.Is(err, service.ErrInvalidClass) {
			response.Fail(c, http.StatusBadRequest, response.ErrInvalidClass)
			return
		}
		_ = c.Error(err)
		response.Fail(c, http.StatusInternalServerError, response.ErrRecipientsFailed)
		return
	}

	response.Success(c, http.StatusOK, preview)
}

// readAttachments loads every uploaded file into memory.
func readAttachments(form *multipart.Form) ([]mailer.Attachment, error) {
	if form == nil {
		return nil, nil
	}

	files := form.File[attachmentsField]
	attachments := make([]mailer.Attachment, 0, len(files))
	for _, fh := range files {
		content, err := readFile(fh)
		if err != nil {
			return nil, fmt.Errorf("read attachment %q: %w", fh.Filename, err)
		}
		attachments = append(attachments, mailer.Attachment{
			Filename:    fh.Filename,
			ContentType: fh.Header.Get("Content-Type"),
			Content:     content,
		})
	}
	return attachments, nil
}

func readFile(fh *multipart.FileHeader) ([]byte, error) {
	f, err := fh.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
