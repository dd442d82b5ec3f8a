package cmd

import "github.com/spf13/viper"

func settingDefaultConfig() {
	// Enable automatic environment variable binding
	viper.AutomaticEnv()

	// Map environment variables to Viper keys for the server
	viper.BindEnv("server.port", "SERVER_PORT")
	viper.BindEnv("server.shutdown_timeout", "SERVER_SHUTDOWN_TIMEOUT")

	// Map environment variables to Viper keys for the RAG pipeline
	viper.BindEnv("rag.embedding_model", "RAG_EMBEDDING_MODEL")
	viper.BindEnv("rag.chat_model", "RAG_CHAT_MODEL")
	viper.BindEnv("rag.chunk_size", "RAG_CHUNK_SIZE")
	viper.BindEnv("rag.chunk_overlap", "RAG_CHUNK_OVERLAP")
	viper.BindEnv("rag.top_k", "RAG_TOP_K")

	// Map environment variables to Viper keys for storage
	viper.BindEnv("storage.upload_root", "STORAGE_UPLOAD_ROOT")
	viper.BindEnv("storage.index_root", "STORAGE_INDEX_ROOT")
	viper.BindEnv("storage.blob_backend", "STORAGE_BLOB_BACKEND")
	viper.BindEnv("storage.index_backend", "STORAGE_INDEX_BACKEND")

	// Map environment variables to Viper keys for MinIO
	viper.BindEnv("minio.endpoint", "MINIO_ENDPOINT")
	viper.BindEnv("minio.access_key", "MINIO_ACCESS_KEY")
	viper.BindEnv("minio.secret_key", "MINIO_SECRET_KEY")
	viper.BindEnv("minio.bucket", "MINIO_BUCKET")

	// Map environment variables to Viper keys for external capabilities
	viper.BindEnv("log.production", "LOG_PRODUCTION")
	viper.BindEnv("ollama.url", "OLLAMA_URL")
	viper.BindEnv("ollama.timeout", "OLLAMA_TIMEOUT")
	viper.BindEnv("unstructured.url", "UNSTRUCTURED_API_URL")
	viper.BindEnv("weaviate.url", "WEAVIATE_URL")

	// Set default values for the server
	viper.SetDefault("server.port", "8080")
	viper.SetDefault("server.shutdown_timeout", "5s")

	// Set default values for the RAG pipeline
	viper.SetDefault("rag.embedding_model", "nomic-embed-text")
	viper.SetDefault("rag.chat_model", "llama3.1:8b")
	viper.SetDefault("rag.chunk_size", 512)
	viper.SetDefault("rag.chunk_overlap", 128)
	viper.SetDefault("rag.top_k", 4)

	// Set default values for storage
	viper.SetDefault("storage.upload_root", "uploads")
	viper.SetDefault("storage.index_root", "vectorstores")
	viper.SetDefault("storage.blob_backend", "local")
	viper.SetDefault("storage.index_backend", "sqlite")

	// Set default values for MinIO
	viper.SetDefault("minio.endpoint", "localhost:9000")
	viper.SetDefault("minio.access_key", "minioadmin")
	viper.SetDefault("minio.secret_key", "minioadmin")
	viper.SetDefault("minio.bucket", "uploads")

	// Set default values for external capabilities
	viper.SetDefault("log.production", false)
	viper.SetDefault("ollama.url", "http://localhost:11434/api")
	viper.SetDefault("ollama.timeout", "60s")
	viper.SetDefault("unstructured.url", "")
	viper.SetDefault("weaviate.url", "")
}
