package main

import (
	_ "embed"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"

	"github.com/zombor/invoice-tracker/internal/invoice"
	"github.com/zombor/invoice-tracker/internal/scanning"
)

//go:embed VERSION.txt
var versionFile string

var version = strings.TrimSpace(versionFile)

// newLogger builds the process logger from the --log-level and --log-format flags
func newLogger(w io.Writer, level, format string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	opts := &slog.HandlerOptions{Level: lvl}
	switch format {
	case "text":
		return slog.New(slog.NewTextHandler(w, opts)), nil
	case "json":
		return slog.New(slog.NewJSONHandler(w, opts)), nil
	default:
		return nil, fmt.Errorf("invalid log format %q, want text or json", format)
	}
}

func main() {
	for _, arg := range os.Args[1:] {
		if arg == "--version" || arg == "-version" || arg == "-v" {
			fmt.Println(version)
			os.Exit(0)
		}
	}

	fs := ff.NewFlagSet("invoice-tracker")
	var (
		port           = fs.IntLong("port", 8080, "HTTP server port")
		dbPath         = fs.StringLong("db", "invoice-tracker.db", "Database file path")
		storageBackend = fs.StringLong("storage-backend", "local", "Document storage: 'local' or 's3'")
		storagePath    = fs.StringLong("storage", "./invoices", "Local storage directory path")
		s3Bucket       = fs.StringLong("s3-bucket", "", "S3 bucket for invoice documents")
		s3Prefix       = fs.StringLong("s3-prefix", "invoices", "S3 key prefix")
		s3Endpoint     = fs.StringLong("s3-endpoint", "", "Custom S3 endpoint (MinIO, LocalStack)")
		awsRegion      = fs.StringLong("aws-region", "", "AWS region for S3 and Textract")
		awsAccessKey   = fs.StringLong("aws-access-key", "", "AWS access key (default credential chain when empty)")
		awsSecretKey   = fs.StringLong("aws-secret-key", "", "AWS secret key")
		scannerType    = fs.StringLong("scanner", "textract", "Scanner type: 'textract', 'gemini' or 'ollama'")
		geminiKey      = fs.StringLong("gemini-key", "", "Google Gemini API key (or set GEMINI_API_KEY env var)")
		geminiModel    = fs.StringLong("gemini-model", "gemini-2.5-pro", "Google Gemini model name")
		ollamaURL      = fs.StringLong("ollama-url", "http://localhost:11434", "Ollama API base URL")
		ollamaModel    = fs.StringLong("ollama-model", "llava", "Ollama model name")
		authUser       = fs.StringLong("auth-user", "", "Basic auth username (optional)")
		authPass       = fs.StringLong("auth-pass", "", "Basic auth password (optional)")
		logLevel       = fs.StringLong("log-level", "info", "Log level: debug, info, warn, error")
		logFormat      = fs.StringLong("log-format", "text", "Log format: text or json")
		showVersion    = fs.BoolLong("version", "Show version information")
	)

	if err := ff.Parse(fs, os.Args[1:],
		ff.WithEnvVarPrefix("INVOICE_TRACKER"),
	); err != nil {
		fmt.Fprintf(os.Stderr, "%s\n", ffhelp.Flags(fs))
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}

	if *showVersion {
		fmt.Println(version)
		os.Exit(0)
	}

	logger, err := newLogger(os.Stderr, *logLevel, *logFormat)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)

	slog.Info("Initializing database...", "path", *dbPath)
	db, err := invoice.NewBoltDB(*dbPath)
	if err != nil {
		slog.Error("Failed to initialize database", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	var scanner scanning.Scanner
	switch *scannerType {
	case "textract":
		slog.Info("Initializing Textract scanner...", "region", *awsRegion)
		scanner, err = scanning.NewTextract(scanning.TextractConfig{
			Region:    *awsRegion,
			AccessKey: *awsAccessKey,
			SecretKey: *awsSecretKey,
		})
		if err != nil {
			slog.Error("Failed to initialize Textract", "error", err)
			os.Exit(1)
		}
	case "gemini":
		apiKey := *geminiKey
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			slog.Error("Gemini API key is required. Set --gemini-key flag or GEMINI_API_KEY environment variable")
			os.Exit(1)
		}
		slog.Info("Initializing Gemini scanner...", "model", *geminiModel)
		scanner, err = scanning.NewGemini(apiKey, *geminiModel)
		if err != nil {
			slog.Error("Failed to initialize Gemini", "error", err)
			os.Exit(1)
		}
	case "ollama":
		slog.Info("Initializing Ollama scanner...", "url", *ollamaURL, "model", *ollamaModel)
		scanner, err = scanning.NewOllama(*ollamaURL, *ollamaModel)
		if err != nil {
			slog.Error("Failed to initialize Ollama", "error", err)
			os.Exit(1)
		}
	default:
		slog.Error("Invalid scanner type", "type", *scannerType, "valid", "textract, gemini or ollama")
		os.Exit(1)
	}
	defer scanner.Close()

	var store invoice.Storage
	switch *storageBackend {
	case "local":
		slog.Info("Initializing local storage...", "path", *storagePath)
		store, err = invoice.NewLocalStorage(*storagePath)
	case "s3":
		slog.Info("Initializing S3 storage...", "bucket", *s3Bucket, "prefix", *s3Prefix)
		store, err = invoice.NewS3Storage(invoice.S3Config{
			Bucket:    *s3Bucket,
			Prefix:    *s3Prefix,
			Region:    *awsRegion,
			Endpoint:  *s3Endpoint,
			AccessKey: *awsAccessKey,
			SecretKey: *awsSecretKey,
		})
	default:
		err = fmt.Errorf("invalid storage backend %q, want local or s3", *storageBackend)
	}
	if err != nil {
		slog.Error("Failed to initialize storage", "error", err)
		os.Exit(1)
	}

	service := invoice.NewService(db, scanner, store)
	server := invoice.NewServer(service, invoice.BasicAuth{
		Username: *authUser,
		Password: *authPass,
	}, version)

	addr := fmt.Sprintf(":%d", *port)
	go func() {
		if err := server.Start(addr); err != nil {
			slog.Error("Server error", "error", err)
			os.Exit(1)
		}
	}()

	slog.Info("Server started", "address", fmt.Sprintf("http://localhost%s", addr))
	if *authUser != "" || *authPass != "" {
		slog.Info("Basic auth enabled", "user", *authUser)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
	<-sigChan

	slog.Info("Shutting down...")
}
