// Package api provides the REST API server for mxl2mei
package api

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/james-see/mxl2mei/pkg/cache"
	"github.com/james-see/mxl2mei/pkg/config"
	"github.com/james-see/mxl2mei/pkg/converter"
	"github.com/james-see/mxl2mei/pkg/converter/engine"
	"github.com/james-see/mxl2mei/pkg/logging"
	"github.com/james-see/mxl2mei/pkg/musicxml"
)

// @title mxl2mei API
// @version 1.0
// @description API for converting MusicXML scores to MEI and MIDI previews
// @host localhost:8080
// @BasePath /api/v1

// RequestIDHeader carries the id of each request, echoed back on responses
const RequestIDHeader = "X-Request-ID"

// Server serves conversions over HTTP, caching results by content hash
type Server struct {
	cfg   *config.Config
	conv  *converter.Converter
	cache *cache.TTLCache[string, *cachedConversion]
}

// NewServer creates a Server from the given config
func NewServer(cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	// a negative ttl expires every entry on arrival
	if cfg.Server.CacheTTL < 0 {
		logging.Warn("result cache disabled", "cache_ttl", cfg.Server.CacheTTL.String())
	}
	return &Server{
		cfg: cfg,
		conv: converter.New(
			converter.WithIDPrefix(cfg.IDPrefix),
			converter.WithMIDI(cfg.MIDI.TicksPerQuarter, cfg.MIDI.Velocity),
		),
		cache: cache.New[string, *cachedConversion](cfg.Server.CacheTTL),
	}
}

// Router builds the gin engine with every route registered
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(requestIDMiddleware())
	r.Use(loggingMiddleware())

	// CORS middleware
	r.Use(corsMiddleware())

	// Health check
	r.GET("/health", healthCheck)

	// API v1 routes
	v1 := r.Group("/api/v1")
	{
		v1.GET("/health", healthCheck)
		v1.POST("/convert/musicxml2mei", s.handleMusicXMLToMEI)
		v1.POST("/convert/musicxml2midi", s.handleMusicXMLToMIDI)
		v1.GET("/formats", listFormats)
	}

	// Swagger docs
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}

// Run listens on the configured port until the server fails
func (s *Server) Run() error {
	logging.ServerStartup("api", s.cfg.Server.Port, "cache_ttl", s.cfg.Server.CacheTTL.String())
	return s.Router().Run(fmt.Sprintf(":%d", s.cfg.Server.Port))
}

func requestIDMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader(RequestIDHeader)
		if id == "" {
			id = uuid.New().String()
		}
		c.Request = c.Request.WithContext(logging.WithRequestID(c.Request.Context(), id))
		c.Header(RequestIDHeader, id)
		c.Next()
	}
}

func loggingMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logging.HTTPRequestContext(c.Request.Context(),
			c.Request.Method,
			c.Request.URL.Path,
			c.ClientIP(),
			c.Writer.Status(),
			time.Since(start),
		)
	}
}

func corsMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", "*")
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization, "+RequestIDHeader)
		c.Header("Access-Control-Expose-Headers", "Content-Disposition, X-Conversion-Warnings, X-Cache, "+RequestIDHeader)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	}
}

// healthCheck godoc
// @Summary Health check endpoint
// @Description Returns the health status of the API
// @Tags health
// @Produce json
// @Success 200 {object} map[string]string
// @Router /health [get]
func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "mxl2mei",
	})
}

// listFormats godoc
// @Summary List supported formats
// @Description Returns a list of supported file formats
// @Tags info
// @Produce json
// @Success 200 {object} map[string][]string
// @Router /api/v1/formats [get]
func listFormats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"formats":     []string{"musicxml", "mxl", "mei", "midi"},
		"conversions": converter.GetSupportedConversions(),
	})
}

// handleMusicXMLToMEI godoc
// @Summary Convert MusicXML to MEI
// @Description Upload a MusicXML (.musicxml, .xml or .mxl) file and receive an MEI document
// @Tags convert
// @Accept multipart/form-data
// @Produce application/mei+xml
// @Param file formData file true "MusicXML file to convert"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/convert/musicxml2mei [post]
func (s *Server) handleMusicXMLToMEI(c *gin.Context) {
	s.handleConversion(c, converter.FormatMEI)
}

// handleMusicXMLToMIDI godoc
// @Summary Convert MusicXML to MIDI
// @Description Upload a MusicXML (.musicxml, .xml or .mxl) file and receive a MIDI preview
// @Tags convert
// @Accept multipart/form-data
// @Produce audio/midi
// @Param file formData file true "MusicXML file to convert"
// @Success 200 {file} binary
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /api/v1/convert/musicxml2midi [post]
func (s *Server) handleMusicXMLToMIDI(c *gin.Context) {
	s.handleConversion(c, converter.FormatMIDI)
}

func (s *Server) handleConversion(c *gin.Context, target converter.Format) {
	log := logging.LoggerFromContext(c.Request.Context())

	// Get uploaded file
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "No file uploaded"})
		return
	}
	defer func() { _ = file.Close() }()

	// Read file content
	data, err := io.ReadAll(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Failed to read file"})
		return
	}

	key := cacheKey(data, target)
	conv, hit := s.cache.Get(key)
	if !hit {
		conv, err = s.convert(data, target)
		if err != nil {
			log.Warn("conversion failed", "file", header.Filename, "target", string(target), "error", err)
			c.JSON(statusFor(err), gin.H{"error": err.Error()})
			return
		}
		s.cache.Prune()
		s.cache.Set(key, conv)
	}

	var contentType string
	switch target {
	case converter.FormatMIDI:
		contentType = "audio/midi"
	default:
		contentType = "application/mei+xml"
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s", outputName(header.Filename, target)))
	c.Header("X-Conversion-Warnings", strconv.Itoa(conv.warnings))
	if hit {
		c.Header("X-Cache", "HIT")
	} else {
		c.Header("X-Cache", "MISS")
	}
	c.Data(http.StatusOK, contentType, conv.data)
}

func (s *Server) convert(data []byte, target converter.Format) (*cachedConversion, error) {
	var (
		out    []byte
		result *converter.Result
		err    error
	)
	switch target {
	case converter.FormatMEI:
		out, result, err = s.conv.MusicXMLToMEI(data)
	case converter.FormatMIDI:
		out, result, err = s.conv.MusicXMLToMIDI(data)
	default:
		return nil, fmt.Errorf("%w: musicxml to %s", converter.ErrUnsupportedConversion, target)
	}
	if err != nil {
		return nil, err
	}
	return &cachedConversion{data: out, warnings: len(result.Warnings)}, nil
}

// statusFor maps conversion errors to HTTP status codes
func statusFor(err error) int {
	switch {
	case errors.Is(err, musicxml.ErrInvalidInput):
		return http.StatusBadRequest
	case errors.Is(err, musicxml.ErrUnsupported), errors.Is(err, engine.ErrMissingPart):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

func outputName(filename string, target converter.Format) string {
	base := strings.TrimSuffix(filepath.Base(filename), filepath.Ext(filename))
	if base == "" || base == "." {
		base = "converted"
	}
	return base + target.Extension()
}
