package transport

import (
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"jigsaw-bot/config"
	app "jigsaw-bot/internal/application"
	"jigsaw-bot/internal/domain/entity"
	apperrors "jigsaw-bot/internal/errors"
	"jigsaw-bot/internal/infrastructure/vision"
	"jigsaw-bot/internal/logger"
)

type MatchRequest struct {
	A entity.EdgeRef `json:"a"`
	B entity.EdgeRef `json:"b"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Type    string `json:"type,omitempty"`
	Message string `json:"message,omitempty"`
}

type PieceResponse struct {
	ID         string          `json:"id"`
	Points     int             `json:"points"`
	Origin     image.Point     `json:"origin"`
	Bounds     image.Rectangle `json:"bounds"`
	Classified bool            `json:"classified"`
	Corners    []image.Point   `json:"corners,omitempty"`
	Edges      []string        `json:"edges,omitempty"`
}

type OutcomeResponse struct {
	Piece *PieceResponse `json:"piece,omitempty"`
	ID    string         `json:"id"`
	Error string         `json:"error,omitempty"`
}

func NewHandler(pieces *app.PieceService, matches *app.MatchService, cfg *config.Config) http.Handler {
	r := gin.Default()

	r.Use(
		requestSizeLimiter(cfg.MaxRequestBodySize),
		requestTimeout(cfg.RequestTimeout),
	)

	r.GET("/health", healthCheck)
	r.GET("/pieces", listPieces(pieces))
	r.POST("/pieces", uploadPhoto(pieces))
	r.GET("/pieces/:id", getPiece(pieces))
	r.GET("/pieces/:id/render", renderPiece(pieces))
	r.POST("/pieces/:id/classify", classifyPiece(pieces))
	r.POST("/pieces/:id/rotate", rotatePiece(pieces))
	r.GET("/pieces/:id/matches", matchAll(matches))
	r.POST("/match", matchEdges(matches))

	return r
}

func listPieces(s *app.PieceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ids, err := s.List(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"pieces": ids})
	}
}

// uploadPhoto принимает multipart-поле photo, выделяет на нём детали и классифицирует их
func uploadPhoto(s *app.PieceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		startTime := time.Now()

		fh, err := c.FormFile("photo")
		if err != nil {
			respondError(c, apperrors.NewValidationError("multipart field photo is required", err))
			return
		}
		f, err := fh.Open()
		if err != nil {
			respondError(c, apperrors.NewValidationError("cannot open uploaded photo", err))
			return
		}
		defer f.Close()

		data, err := io.ReadAll(f)
		if err != nil {
			respondError(c, apperrors.NewValidationError("cannot read uploaded photo", err))
			return
		}
		data, format, err := vision.NormalizePhoto(data)
		if err != nil {
			respondError(c, err)
			return
		}

		prefix := c.DefaultPostForm("prefix", fmt.Sprintf("api%d", time.Now().UnixNano()))
		outcomes, err := s.Ingest(c.Request.Context(), data, prefix)
		if err != nil {
			respondError(c, err)
			return
		}

		resp := make([]OutcomeResponse, 0, len(outcomes))
		for _, o := range outcomes {
			r := OutcomeResponse{ID: o.ID}
			if o.Piece != nil {
				r.Piece = newPieceResponse(o.Piece)
			}
			if o.Err != nil {
				r.Error = o.Err.Error()
			}
			resp = append(resp, r)
		}

		logger.WithFields(logrus.Fields{
			"prefix":             prefix,
			"format":             format,
			"bytes":              len(data),
			"pieces":             len(outcomes),
			"processing_time_ms": time.Since(startTime).Milliseconds(),
		}).Info("Photo processed")

		c.JSON(http.StatusCreated, gin.H{"pieces": resp})
	}
}

func getPiece(s *app.PieceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := s.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newPieceResponse(p))
	}
}

func renderPiece(s *app.PieceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := s.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		img, err := s.Render(c.Request.Context(), p)
		if err != nil {
			respondError(c, err)
			return
		}
		c.Data(http.StatusOK, "image/jpeg", img)
	}
}

func classifyPiece(s *app.PieceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, _, err := s.Classify(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newPieceResponse(p))
	}
}

func rotatePiece(s *app.PieceService) gin.HandlerFunc {
	return func(c *gin.Context) {
		degrees, err := strconv.ParseFloat(c.Query("degrees"), 64)
		if err != nil {
			respondError(c, apperrors.NewValidationError("query parameter degrees must be a number", err))
			return
		}
		p, err := s.Rotate(c.Request.Context(), c.Param("id"), degrees)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, newPieceResponse(p))
	}
}

func matchEdges(s *app.MatchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req MatchRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			respondError(c, apperrors.NewValidationError("invalid request format", err))
			return
		}
		m, err := s.MatchEdges(c.Request.Context(), req.A, req.B)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, m)
	}
}

func matchAll(s *app.MatchService) gin.HandlerFunc {
	return func(c *gin.Context) {
		ms, err := s.MatchAll(c.Request.Context(), c.Param("id"))
		if err != nil {
			respondError(c, err)
			return
		}
		if ms == nil {
			ms = []entity.EdgeMatch{}
		}
		c.JSON(http.StatusOK, gin.H{"matches": ms})
	}
}

func newPieceResponse(p *entity.Piece) *PieceResponse {
	r := &PieceResponse{
		ID:         p.ID(),
		Points:     p.Len(),
		Origin:     p.Origin(),
		Bounds:     p.Bounds(),
		Classified: p.Classified(),
	}
	if p.Classified() {
		for i := 0; i < entity.EdgeCount; i++ {
			r.Corners = append(r.Corners, p.Corner(i))
			r.Edges = append(r.Edges, p.EdgeType(i).String())
		}
	}
	return r
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "available",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func requestSizeLimiter(maxBytes int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxBytes)
		c.Next()
	}
}

func requestTimeout(timeout time.Duration) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), timeout)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func determineStatusCode(err error) int {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		return appErr.StatusCode
	}

	switch {
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusRequestTimeout
	default:
		return apperrors.GetStatusCode(err)
	}
}

func respondError(c *gin.Context, err error) {
	code := determineStatusCode(err)

	logger.WithError(err).WithFields(logrus.Fields{
		"status_code": code,
		"path":        c.Request.URL.Path,
		"method":      c.Request.Method,
		"ip":          c.ClientIP(),
	}).Error("Request failed")

	resp := ErrorResponse{Error: http.StatusText(code), Message: err.Error()}
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		resp.Type = string(appErr.Type)
	}
	c.AbortWithStatusJSON(code, resp)
}
