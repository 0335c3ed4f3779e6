package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/fakturnia/ksef-processor/internal/config"
	"github.com/fakturnia/ksef-processor/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	serverConfig string
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for converting, generating and
validating invoices.

The API provides:
  - POST /api/v1/convert   - Convert a PDF body to KSeF XML
  - POST /api/v1/generate  - Generate synthetic invoices
  - POST /api/v1/validate  - Validate a KSeF XML body
  - GET  /health           - Health check

Examples:
  # Start server on default port
  ksef-processor serve

  # Start on custom port with the AI fallback enabled
  ksef-processor serve --address :8080 --api-key <key>

  # Start in debug mode
  ksef-processor serve --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", ":8080", "Server listen address")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().StringVarP(&serverConfig, "config", "c", "config.yaml", "Generator configuration file")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 5*time.Minute, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	variant, err := schemaVariant()
	if err != nil {
		return err
	}

	genCfg, err := config.Load(serverConfig)
	if err != nil {
		return err
	}

	log := newLogger()

	srv := server.NewServer(&server.Config{
		Address:      serverAddr,
		APIKey:       apiKey,
		LLMBaseURL:   llmBaseURL,
		LLMModel:     llmModel,
		Variant:      variant,
		SchemaDir:    schemaDir,
		Generator:    genCfg,
		ReadTimeout:  readTimeout,
		WriteTimeout: writeTimeout,
		Debug:        serverDebug,
	}, log)

	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Info().Msg("shutting down server")
		os.Exit(0)
	}()

	fmt.Printf("Starting server on %s\n", serverAddr)
	if apiKey != "" {
		fmt.Println("AI extraction enabled")
	} else {
		fmt.Println("AI extraction disabled (no API key)")
	}

	return srv.Run()
}
