package v1

import (
	"errors"
	"io"
	"mime/multipart"
	"net/http"

	"github.com/gin-gonic/gin"

	"go-referral-backend/internal/delivery/http/response"
	"go-referral-backend/internal/domain"
	"go-referral-backend/pkg/apperror"
)

type ReferralHandler struct {
	referralUC domain.ReferralUsecase
}

// NewReferralHandler registers the referral routes (public, no auth
// required). extra middleware applies to the submission route only.
func NewReferralHandler(public *gin.RouterGroup, referralUC domain.ReferralUsecase, extra ...gin.HandlerFunc) {
	handler := &ReferralHandler{
		referralUC: referralUC,
	}

	referrals := public.Group("/referrals")
	submit := append(extra, handler.Submit)
	referrals.POST("/submit", submit...)
	referrals.GET("/test", handler.TestStore)
}

// Submit godoc
// @Summary      Submit a referral
// @Description  Accepts a referral form with an optional attachment, rejects duplicates by email and records it in the external store. Public endpoint.
// @Tags         referrals
// @Accept       multipart/form-data
// @Produce      json
// @Param        FirstName   formData  string  true   "First name (1-50 characters)"
// @Param        LastName    formData  string  true   "Last name (1-50 characters)"
// @Param        Phone       formData  string  true   "Phone number"
// @Param        Email       formData  string  true   "Email address"
// @Param        Message     formData  string  false  "Message (up to 1000 characters)"
// @Param        attachment  formData  file    false  "Attachment (JPEG, PNG, PDF or TXT, max 5 MB)"
// @Success      201  {object}  response.Response
// @Failure      400  {object}  response.Response
// @Failure      409  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /referrals/submit [post]
func (h *ReferralHandler) Submit(c *gin.Context) {
	var req domain.Referral
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request body", nil)
		return
	}

	att, err := readAttachment(c)
	if err != nil {
		h.renderSubmitError(c, &domain.AttachmentError{Err: err})
		return
	}

	result, err := h.referralUC.Submit(c.Request.Context(), &req, att)
	if err != nil {
		h.renderSubmitError(c, err)
		return
	}

	response.Success(c, http.StatusCreated, "Referral submitted successfully!", result)
}

// renderSubmitError maps the pipeline's terminal failure states onto the
// HTTP contract. Validation and duplicate outcomes are surfaced verbatim;
// store and internal failures go through the error middleware, which logs
// detail and keeps the client message generic outside development mode.
func (h *ReferralHandler) renderSubmitError(c *gin.Context, err error) {
	var validationErr *domain.ValidationError
	if errors.As(err, &validationErr) {
		response.Error(c, http.StatusBadRequest, "Validation error", validationErr.Fields)
		return
	}

	if errors.Is(err, domain.ErrDuplicate) {
		response.Error(c, http.StatusConflict, "A referral with this email already exists.", nil)
		return
	}

	var attErr *domain.AttachmentError
	if errors.As(err, &attErr) {
		response.Error(c, http.StatusBadRequest, "Failed to process attachment", nil)
		return
	}

	var storeErr *domain.StoreError
	if errors.As(err, &storeErr) {
		c.Error(apperror.New(http.StatusInternalServerError, "Failed to submit referral. Please try again later.", err))
		return
	}

	c.Error(err)
}

// TestStore godoc
// @Summary      External store connectivity probe
// @Tags         referrals
// @Produce      json
// @Success      200  {object}  response.Response
// @Failure      500  {object}  response.Response
// @Router       /referrals/test [get]
func (h *ReferralHandler) TestStore(c *gin.Context) {
	if err := h.referralUC.CheckStore(c.Request.Context()); err != nil {
		c.Error(apperror.New(http.StatusInternalServerError, "Airtable connection failed", err))
		return
	}
	response.Success(c, http.StatusOK, "Airtable connection successful", nil)
}

// readAttachment pulls the optional "attachment" file out of the multipart
// form. Absence is not an error; a form without a file submits fine.
func readAttachment(c *gin.Context) (*domain.Attachment, error) {
	fileHeader, err := c.FormFile("attachment")
	if err != nil {
		if errors.Is(err, http.ErrMissingFile) || errors.Is(err, http.ErrNotMultipart) {
			return nil, nil
		}
		return nil, err
	}

	data, err := readAll(fileHeader)
	if err != nil {
		return nil, err
	}

	return &domain.Attachment{
		Filename:    fileHeader.Filename,
		ContentType: fileHeader.Header.Get("Content-Type"),
		Data:        data,
	}, nil
}

func readAll(fileHeader *multipart.FileHeader) ([]byte, error) {
	f, err := fileHeader.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return io.ReadAll(f)
}
