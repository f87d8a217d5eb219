package server

import (
	"bytes"
	"errors"
	"net/http"

	"github.com/esimov/ciya"
	"github.com/esimov/ciya/internal/logger"
	"github.com/gin-gonic/gin"
)

// ciyaRequest holds the form fields accompanying the uploaded image.
type ciyaRequest struct {
	Emotion   string `form:"emotion" validate:"omitempty,oneof=auto smile cry"`
	Antialias int    `form:"aa" validate:"omitempty,min=1,max=8"`
	Format    string `form:"format" validate:"omitempty,oneof=png jpeg jpg"`
}

var contentTypes = map[string]string{
	"png":  "image/png",
	"jpeg": "image/jpeg",
	"jpg":  "image/jpeg",
}

// ciya replaces the mouth of the uploaded image and sends the result back.
func (s *Server) ciya(ctx *gin.Context) {
	ctx.Request.Body = http.MaxBytesReader(ctx.Writer, ctx.Request.Body, s.cfg.MaxUploadSize)

	var req ciyaRequest
	if err := ctx.ShouldBind(&req); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond(ctx, http.StatusRequestEntityTooLarge, "The image is too large.", nil, nil)
			return
		}
		respond(ctx, http.StatusBadRequest, "Invalid request.", nil, []error{err})
		return
	}
	if errs := validateStruct(req); errs != nil {
		respond(ctx, http.StatusBadRequest, "Invalid request.", nil, errs)
		return
	}

	fh, err := ctx.FormFile("image")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond(ctx, http.StatusRequestEntityTooLarge, "The image is too large.", nil, nil)
			return
		}
		respond(ctx, http.StatusBadRequest, "An image file is required.", nil, []error{err})
		return
	}
	file, err := fh.Open()
	if err != nil {
		respond(ctx, http.StatusBadRequest, "Could not read the image.", nil, []error{err})
		return
	}
	defer file.Close()

	emotion, err := ciya.ParseEmotion(req.Emotion)
	if err != nil {
		respond(ctx, http.StatusBadRequest, "Invalid request.", nil, []error{err})
		return
	}
	format := req.Format
	if format == "" {
		format = "png"
	}

	proc := &ciya.Processor{
		Detector:     s.detector,
		Projector:    s.projector,
		Emotion:      emotion,
		Antialias:    req.Antialias,
		MaxImageSize: s.cfg.MaxImageSize,
		Format:       format,
	}

	var buf bytes.Buffer
	if err := proc.Process(file, &buf); err != nil {
		s.fail(ctx, err)
		return
	}
	ctx.Data(http.StatusOK, contentTypes[format], buf.Bytes())
}

// fail maps the processing errors onto HTTP responses.
func (s *Server) fail(ctx *gin.Context, err error) {
	switch {
	case errors.Is(err, ciya.ErrNotFound):
		respond(ctx, http.StatusUnprocessableEntity, "No face or mouth detected.", nil, nil)
	case ciya.IsMathError(err):
		logger.Warning("unable to compose the overlay",
			logger.LoggerOptions{Key: "request_id", Data: ctx.GetString("RequestID")},
			logger.LoggerOptions{Key: "error", Data: err},
		)
		respond(ctx, http.StatusUnprocessableEntity, "Couldn't process this image.", nil, nil)
	case errors.Is(err, ciya.ErrImageTooLarge):
		respond(ctx, http.StatusRequestEntityTooLarge, "The image is too large.", nil, []error{err})
	case errors.Is(err, ciya.ErrDecode), errors.Is(err, ciya.ErrFormat):
		respond(ctx, http.StatusBadRequest, "Unsupported image.", nil, []error{err})
	default:
		logger.Error("image processing failed",
			logger.LoggerOptions{Key: "request_id", Data: ctx.GetString("RequestID")},
			logger.LoggerOptions{Key: "error", Data: err},
		)
		respond(ctx, http.StatusInternalServerError, "Something went wrong.", nil, nil)
	}
}
