package cmd

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	weaviateClient "github.com/weaviate/weaviate-go-client/v4/weaviate"

	httpHdlr "docqa/handler/http"
	"docqa/src/core/docqa"
	"docqa/src/fsutil"
	"docqa/src/infrastructure/extract"
	"docqa/src/infrastructure/integrations/ollama"
	"docqa/src/infrastructure/integrations/unstructured"
	"docqa/src/infrastructure/log"
	"docqa/src/storage/minioctrl"
	"docqa/src/storage/sqlindex"
	weaviateIndex "docqa/src/storage/weaviate"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the document question-answering server",
	Long:  `The serve command starts an HTTP server providing document upload and grounded chat endpoints.`,
	Run:   RunServer,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	settingDefaultConfig()
}

func RunServer(cmd *cobra.Command, args []string) {
	ctx := context.Background()

	if viper.GetBool("log.production") {
		if err := log.UseProduction(); err != nil {
			log.Error(err, "Failed to switch to production logging")
			return
		}
	}

	// Parse the client timeout for external capabilities
	timeout, err := time.ParseDuration(viper.GetString("ollama.timeout"))
	if err != nil {
		log.Error(err, "Invalid ollama timeout, using default 60s")
		timeout = 60 * time.Second
	}

	// Initialize Ollama client and model adapters
	oc := ollama.NewClient(viper.GetString("ollama.url"), &http.Client{
		Timeout: timeout,
	})
	embedder := ollama.NewEmbedder(oc, viper.GetString("rag.embedding_model"))
	completionModel := ollama.NewCompletionModel(oc, viper.GetString("rag.chat_model"))

	// Build the extractor registry; PDF and DOCX support requires a
	// configured Unstructured API instance.
	registry := extract.NewRegistry()
	if unstructuredURL := viper.GetString("unstructured.url"); unstructuredURL != "" {
		us := unstructured.NewUnstructuredService(unstructuredURL, &http.Client{Timeout: timeout})
		registry.Register(extract.KindPDF, us)
		registry.Register(extract.KindDOCX, us)
	} else {
		log.Info("unstructured API not configured, PDF and DOCX uploads will be rejected")
	}

	// Initialize the blob store for raw uploads
	var blobs docqa.BlobStore
	switch backend := viper.GetString("storage.blob_backend"); backend {
	case "minio":
		minioService, err := minioctrl.NewMinioService(
			viper.GetString("minio.endpoint"),
			viper.GetString("minio.access_key"),
			viper.GetString("minio.secret_key"),
			false,
			viper.GetString("minio.bucket"),
		)
		if err != nil {
			log.Error(err, "Failed to create minio service")
			return
		}
		if err := minioService.EnsureBucketExists(ctx); err != nil {
			log.Error(err, "Failed to ensure upload bucket")
			return
		}
		blobs = minioService
	default:
		localBlobs, err := fsutil.NewLocalBlobStore(viper.GetString("storage.upload_root"))
		if err != nil {
			log.Error(err, "Failed to create local blob store")
			return
		}
		blobs = localBlobs
	}

	// Initialize the session index provider
	var indexes docqa.IndexProvider
	switch backend := viper.GetString("storage.index_backend"); backend {
	case "weaviate":
		wc := weaviateClient.New(weaviateClient.Config{
			Host:   viper.GetString("weaviate.url"),
			Scheme: "http",
		})
		indexes = weaviateIndex.NewProvider(wc)
	default:
		provider, err := sqlindex.NewProvider(viper.GetString("storage.index_root"))
		if err != nil {
			log.Error(err, "Failed to create session index provider")
			return
		}
		indexes = provider
	}

	// Build the core services
	chunkSize := viper.GetInt("rag.chunk_size")
	if chunkSize < docqa.MinChunkSize {
		log.Error(nil, "Chunk size below minimum", "chunk_size", chunkSize, "minimum", docqa.MinChunkSize)
		return
	}
	chunker, err := docqa.NewChunker(chunkSize, viper.GetInt("rag.chunk_overlap"))
	if err != nil {
		log.Error(err, "Invalid chunking configuration")
		return
	}

	ingestionService := docqa.NewIngestionService(chunker, embedder, registry, blobs, indexes)
	retriever := docqa.NewRetriever(indexes, embedder)
	chatService, err := docqa.NewChatService(retriever, completionModel, viper.GetInt("rag.top_k"))
	if err != nil {
		log.Error(err, "Invalid retrieval configuration")
		return
	}

	// Setup gin router
	r := gin.Default()

	// Register routes
	handler := httpHdlr.NewHandler(ingestionService, chatService)
	handler.RegisterRoutes(r)

	// Create HTTP server
	srv := &http.Server{
		Addr:    ":" + viper.GetString("server.port"),
		Handler: r,
	}

	// Start server in a goroutine
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error(err, "Failed to start server")
			return
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	// Parse shutdown timeout
	shutdownTimeout, err := time.ParseDuration(viper.GetString("server.shutdown_timeout"))
	if err != nil {
		log.Error(err, "Invalid shutdown timeout, using default 5s")
		shutdownTimeout = 5 * time.Second
	}

	// Create context with timeout for shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	// Attempt graceful shutdown
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error(err, "Server forced to shutdown")
	}

	log.Info("Server exited")
}
