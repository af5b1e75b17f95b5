package handler

import (
	"errors"
	"io"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/fadilmartias/jobmate-ml-api/internal/dto"
	"github.com/fadilmartias/jobmate-ml-api/internal/logger"
	"github.com/fadilmartias/jobmate-ml-api/internal/repository"
	"github.com/fadilmartias/jobmate-ml-api/internal/usecase"
	"github.com/fadilmartias/jobmate-ml-api/internal/util"
)

const (
	MaxResumeSize = 5 * 1024 * 1024

	MsgMissingText        = "Missing 'text' in request body"
	MsgMissingDescription = "Missing 'description' in request body"
	MsgMissingResume      = "Missing 'resume' file in request body"
	MsgResumeTooLarge     = "Resume file is too large (max 5MB)"
	MsgUnsupportedResume  = "Unsupported resume file type"
	MsgUnreadableResume   = "Could not extract text from resume"
	MsgJobNotFound        = "Job not found"
)

// TextExtractor pulls plain text out of an uploaded document.
type TextExtractor func(data []byte) (string, error)

type JobHandler struct {
	uc      *usecase.JobUsecase
	extract TextExtractor
	log     *zap.Logger
}

func NewJobHandler(uc *usecase.JobUsecase, extract TextExtractor, log *zap.Logger) *JobHandler {
	return &JobHandler{uc: uc, extract: extract, log: log}
}

func (h *JobHandler) RegisterRoutes(app fiber.Router) {
	app.Get("/", h.Root)
	app.Get("/healthcheck", h.Healthcheck)
	app.Post("/recommend", h.Recommend)
	app.Post("/recommend/upload", h.RecommendUpload)
	app.Post("/predict-category", h.PredictCategory)
	app.Get("/categories", h.Categories)
	app.Get("/jobs/:id<regex(^[0-9]+$)>", h.JobDetail)
}

func (h *JobHandler) Recommend(c *fiber.Ctx) error {
	var query dto.ResumeQuery
	if !bindQuery(c, "text", &query) {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: MsgMissingText,
		})
	}
	return h.recommend(c, query.Text)
}

func (h *JobHandler) RecommendUpload(c *fiber.Ctx) error {
	file, err := c.FormFile("resume")
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: MsgMissingResume,
		})
	}
	if file.Size > MaxResumeSize {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: MsgResumeTooLarge,
		})
	}
	if strings.ToLower(filepath.Ext(file.Filename)) != ".pdf" {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: MsgUnsupportedResume,
		})
	}

	f, err := file.Open()
	if err != nil {
		return h.internalError(c, "open uploaded resume", err)
	}
	defer f.Close()
	data, err := io.ReadAll(f)
	if err != nil {
		return h.internalError(c, "read uploaded resume", err)
	}

	text, err := h.extract(data)
	if err != nil {
		h.log.Warn("resume text extraction failed",
			zap.Error(err),
			zap.String("filename", utils.CopyString(file.Filename)),
			zap.Int64("size", file.Size),
		)
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusUnprocessableEntity,
			Message: MsgUnreadableResume,
		})
	}
	h.log.Debug("resume text extracted", zap.String("preview", logger.TruncateForLog(text, 80)))

	return h.recommend(c, text)
}

func (h *JobHandler) recommend(c *fiber.Ctx, text string) error {
	recommendations, err := h.uc.Recommend(text)
	if err != nil {
		return h.internalError(c, "recommend jobs", err)
	}
	return util.SuccessResponse(c, fiber.StatusOK, dto.RecommendationResponse{Recommendations: recommendations})
}

func (h *JobHandler) PredictCategory(c *fiber.Ctx) error {
	var query dto.DescriptionQuery
	if !bindQuery(c, "description", &query) {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: MsgMissingDescription,
		})
	}

	category, err := h.uc.PredictCategory(query.Description)
	if err != nil {
		return h.internalError(c, "predict category", err)
	}
	return util.SuccessResponse(c, fiber.StatusOK, dto.CategoryPrediction{PredictedCategory: category})
}

func (h *JobHandler) Categories(c *fiber.Ctx) error {
	return util.SuccessResponse(c, fiber.StatusOK, dto.CategoryList{Categories: h.uc.Categories()})
}

func (h *JobHandler) JobDetail(c *fiber.Ctx) error {
	// The route only admits unsigned digits, so a parse error means the value
	// overflows int64 and cannot be a stored id.
	id, err := strconv.ParseInt(c.Params("id"), 10, 64)
	if err != nil {
		return h.jobNotFound(c)
	}

	record, err := h.uc.JobDetail(id)
	if errors.Is(err, repository.ErrJobNotFound) {
		return h.jobNotFound(c)
	}
	if err != nil {
		return h.internalError(c, "job detail", err)
	}
	return util.SuccessResponse(c, fiber.StatusOK, record)
}

func (h *JobHandler) jobNotFound(c *fiber.Ctx) error {
	return util.ErrorResponse(c, util.ErrorResponseFormat{
		Code:    fiber.StatusNotFound,
		Message: MsgJobNotFound,
	})
}

// internalError logs err and hides it behind a generic 500.
func (h *JobHandler) internalError(c *fiber.Ctx, op string, err error) error {
	fields := []zap.Field{
		zap.Error(err),
		zap.String("op", op),
		zap.String("path", utils.CopyString(c.Path())),
	}
	if id, ok := c.Locals("requestid").(string); ok {
		fields = append(fields, zap.String("request_id", utils.CopyString(id)))
	}
	h.log.Error("request failed", fields...)

	return util.ErrorResponse(c, util.ErrorResponseFormat{Code: fiber.StatusInternalServerError})
}

// bindQuery decodes the body into dst once it is known to be a JSON object
// whose key field is a string.
func bindQuery(c *fiber.Ctx, key string, dst any) bool {
	body := c.Body()
	if !gjson.ValidBytes(body) {
		return false
	}
	root := gjson.ParseBytes(body)
	if !root.IsObject() || root.Get(gjson.Escape(key)).Type != gjson.String {
		return false
	}
	return c.App().Config().JSONDecoder(body, dst) == nil
}
