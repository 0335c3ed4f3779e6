// Package server exposes the converter, generator and validator over a
// small HTTP API.
package server

import (
	"bytes"
	"context"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/fakturnia/ksef-processor/internal/config"
	"github.com/fakturnia/ksef-processor/internal/generator"
	"github.com/fakturnia/ksef-processor/internal/ksef"
	"github.com/fakturnia/ksef-processor/internal/llm"
	"github.com/fakturnia/ksef-processor/internal/logging"
	"github.com/fakturnia/ksef-processor/internal/model"
	"github.com/fakturnia/ksef-processor/internal/processor"
)

const maxGenerateCount = 100

// Config holds server configuration
type Config struct {
	Address      string
	APIKey       string
	LLMBaseURL   string
	LLMModel     string
	Variant      model.SchemaVariant
	SchemaDir    string
	Generator    *config.Config
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool
}

// Server represents the HTTP API server
type Server struct {
	config    *Config
	router    *gin.Engine
	log       zerolog.Logger
	pipeline  *processor.Pipeline
	forced    *processor.Pipeline
	validator *ksef.Validator
	genCfg    *config.Config
}

// NewServer creates a new API server
func NewServer(cfg *Config, log zerolog.Logger) *Server {
	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	if cfg.Variant == "" {
		cfg.Variant = model.SchemaFA2
	}
	if cfg.SchemaDir == "" {
		cfg.SchemaDir = processor.DefaultSchemaDir
	}

	router := gin.New()
	router.Use(gin.Recovery())
	if cfg.Debug {
		router.Use(gin.Logger())
	}

	var llmExtractor *llm.Extractor
	if cfg.APIKey != "" {
		var clientOpts []llm.ClientOption
		if cfg.LLMBaseURL != "" {
			clientOpts = append(clientOpts, llm.WithBaseURL(cfg.LLMBaseURL))
		}
		client := llm.NewClient(cfg.APIKey, clientOpts...)

		var extractorOpts []llm.ExtractorOption
		if cfg.LLMModel != "" {
			extractorOpts = append(extractorOpts, llm.WithModel(cfg.LLMModel))
		}
		llmExtractor = llm.NewExtractor(client, extractorOpts...)
	}

	pipelineOpts := []processor.PipelineOption{
		processor.WithVariant(cfg.Variant),
		processor.WithSchemaDir(cfg.SchemaDir),
	}
	if llmExtractor != nil {
		pipelineOpts = append(pipelineOpts, processor.WithLLMExtractor(llmExtractor))
	}

	genCfg := cfg.Generator
	if genCfg == nil {
		genCfg = config.Default()
	}

	s := &Server{
		config:    cfg,
		router:    router,
		log:       log,
		pipeline:  processor.NewPipeline(pipelineOpts...),
		validator: ksef.NewValidator(cfg.SchemaDir),
		genCfg:    genCfg,
	}
	if llmExtractor != nil {
		s.forced = processor.NewPipeline(append(pipelineOpts, processor.WithForceAI(true))...)
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	s.router.Use(s.correlationMiddleware())

	s.router.GET("/health", s.handleHealth)

	v1 := s.router.Group("/api/v1")
	{
		v1.POST("/convert", s.handleConvert)
		v1.POST("/generate", s.handleGenerate)
		v1.POST("/validate", s.handleValidate)
	}
}

// correlationMiddleware tags every request's context logger with a fresh
// correlation ID and echoes it back in the response headers
func (s *Server) correlationMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, id := logging.WithCorrelationID(c.Request.Context(), s.log)
		c.Request = c.Request.WithContext(ctx)
		c.Header("X-Correlation-ID", id)
		c.Next()
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.router,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers and tests
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

// handleConvert accepts a raw PDF body and returns the extracted record
// together with its validated KSeF XML. Nothing is persisted server
// side; the temporary file exists only for the duration of the request.
func (s *Server) handleConvert(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return
	}
	if !bytes.HasPrefix(body, []byte("%PDF")) {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "request body is not a PDF"})
		return
	}

	pipeline := s.pipeline
	if c.Query("force_ai") == "true" {
		if s.forced == nil {
			c.JSON(http.StatusBadRequest, ErrorResponse{Error: "AI extraction is not configured"})
			return
		}
		pipeline = s.forced
	}

	tmp, err := os.CreateTemp("", "ksef-convert-*.pdf")
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to store upload"})
		return
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(body); err != nil {
		tmp.Close()
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to store upload"})
		return
	}
	tmp.Close()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Minute)
	defer cancel()

	res := pipeline.Convert(ctx, tmp.Name(), "")
	if res.Error != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{
			Error:    res.Error.Error(),
			Warnings: res.Warnings,
		})
		return
	}

	c.JSON(http.StatusOK, ConvertResponse{
		Invoice:  res.Invoice,
		Method:   string(res.Method),
		XML:      res.XML,
		Variant:  string(s.config.Variant),
		Warnings: res.Warnings,
	})
}

// handleGenerate produces a batch of synthetic invoices from the
// server's generator configuration
func (s *Server) handleGenerate(c *gin.Context) {
	var req GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}
	if req.Count == 0 {
		req.Count = 1
	}
	if req.Count < 1 || req.Count > maxGenerateCount {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "count must be between 1 and 100"})
		return
	}

	var opts []generator.Option
	if req.Seed != 0 {
		opts = append(opts, generator.WithSeed(req.Seed))
	}

	invoices, err := generator.New(s.genCfg, opts...).Generate(req.Count)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	c.JSON(http.StatusOK, GenerateResponse{
		Count:    len(invoices),
		Invoices: invoices,
	})
}

// handleValidate checks a raw XML body against the KSeF schema. The
// variant query parameter selects FA2 or FA3; the server default
// applies otherwise.
func (s *Server) handleValidate(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return
	}
	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return
	}

	variant, ok := parseVariant(c.Query("variant"), s.config.Variant)
	if !ok {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "variant must be FA2 or FA3"})
		return
	}

	violations, err := s.validator.Validate(string(body), variant)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: err.Error()})
		return
	}

	out := make([]ViolationOutput, 0, len(violations))
	for _, v := range violations {
		out = append(out, ViolationOutput{Line: v.Line, Message: v.Message})
	}

	c.JSON(http.StatusOK, ValidateResponse{
		Valid:      len(violations) == 0,
		Variant:    string(variant),
		Violations: out,
	})
}

func parseVariant(q string, fallback model.SchemaVariant) (model.SchemaVariant, bool) {
	switch strings.ToUpper(q) {
	case "":
		return fallback, true
	case "FA2", "2":
		return model.SchemaFA2, true
	case "FA3", "3":
		return model.SchemaFA3, true
	default:
		return fallback, false
	}
}
