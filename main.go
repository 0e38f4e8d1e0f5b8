package main

import (
	"context"
	"errors"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/foomo/contentserver/requests"
	"github.com/foomo/globalcontent-mcp/mcp"
	"github.com/foomo/globalcontent-mcp/service"
	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"
)

func envOr(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func main() {
	defaults := service.DefaultSiteSettings()

	// Define command line flags
	stdioMode := flag.Bool("stdio", true, "Run in stdio mode")
	httpAddr := flag.String("http", "", "HTTP server address (e.g., ':8080')")
	endpoint := flag.String("endpoint", "/mcp", "HTTP endpoint path")
	source := flag.String("source", envOr("GLOBALCONTENT_SOURCE", string(defaults.Source)), "Content source: strapi or contentserver")
	strapiURL := flag.String("strapi-url", envOr("STRAPI_URL", defaults.StrapiURL), "Strapi base URL")
	strapiPath := flag.String("strapi-path", defaults.StrapiPath, "Strapi path of the global single type")
	strapiToken := flag.String("strapi-token", os.Getenv("STRAPI_API_TOKEN"), "Strapi API token")
	retries := flag.Uint("retries", defaults.Retries, "Attempts per Strapi request")
	contentServerURL := flag.String("contentserver-url", envOr("CONTENTSERVER_URL", ""), "Content server URL")
	uri := flag.String("uri", defaults.URI, "Content server URI holding the global content")
	dimension := flag.String("dimension", "", "Content server dimension")
	groups := flag.String("groups", "", "Comma separated content server groups")
	concurrency := flag.Int("concurrency", 0, "Workers validating sequence entries")
	failFast := flag.Bool("fail-fast", false, "Report the first validation failure only")
	debug := flag.Bool("debug", false, "Enable debug logging")
	flag.Parse()

	logger, err := newLogger(*debug)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	siteSettings := defaults
	siteSettings.Source = service.SourceType(*source)
	siteSettings.StrapiURL = *strapiURL
	siteSettings.StrapiPath = *strapiPath
	siteSettings.StrapiToken = *strapiToken
	siteSettings.Retries = *retries
	siteSettings.ContentServerURL = *contentServerURL
	siteSettings.URI = *uri
	siteSettings.Env = &requests.Env{}
	if *dimension != "" {
		siteSettings.Env.Dimensions = []string{*dimension}
	}
	if *groups != "" {
		siteSettings.Env.Groups = strings.Split(*groups, ",")
	}
	siteSettings.Concurrency = *concurrency
	siteSettings.FailFast = *failFast

	httpClient := &http.Client{Timeout: 10 * time.Second}
	contentSource, err := service.NewSource(siteSettings, httpClient)
	if err != nil {
		logger.Fatal("failed to create content source", zap.Error(err))
	}
	serviceInstance := service.NewService(logger, siteSettings, contentSource)

	s := mcp.NewServer(logger, serviceInstance)

	if *httpAddr != "" {
		serveHTTP(logger, s, serviceInstance, *httpAddr, *endpoint)
		return
	}
	// Start the stdio server
	if *stdioMode {
		logger.Info("starting MCP server in stdio mode")
	} else {
		logger.Info("starting MCP server in stdio mode (default)")
	}
	if err := server.ServeStdio(s); err != nil {
		logger.Fatal("stdio server failed", zap.Error(err))
	}
}

func newLogger(debug bool) (*zap.Logger, error) {
	var config zap.Config
	if debug {
		config = zap.NewDevelopmentConfig()
	} else {
		config = zap.NewProductionConfig()
	}
	// stdout belongs to the stdio transport
	config.OutputPaths = []string{"stderr"}
	return config.Build()
}

func serveHTTP(logger *zap.Logger, s *server.MCPServer, serviceInstance service.Service, addr, endpoint string) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	handler := mcp.NewMcpHTTPSSEServer(logger, s, serviceInstance, endpoint, nil)
	defer handler.Close()

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		handler.Close()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("failed to shut down HTTP server", zap.Error(err))
		}
	}()

	logger.Info("starting MCP server", zap.String("addr", addr), zap.String("endpoint", endpoint))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("HTTP server failed", zap.Error(err))
	}
}
