package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"time"

	"notes-generator/internal/api"
	"notes-generator/internal/config"
	"notes-generator/internal/db"
	"notes-generator/internal/services"
)

func main() {
	cfg := config.Load()

	conn, err := db.Open(cfg.Database)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer conn.Close()

	ctx := context.Background()
	aiService, err := services.NewAIService(ctx, cfg.Provider, cfg.GeminiKey, cfg.GeminiModel, cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIEndpoint)
	if err != nil {
		log.Fatalf("init ai provider: %v", err)
	}
	defer aiService.Close()
	if !aiService.Configured() {
		log.Printf("warning: no AI provider configured, generation requests will fail")
	}

	deckService := services.NewDeckService(conn, cfg.UploadDir)
	materialService := services.NewMaterialService(conn)
	pipeline := services.NewPipelineService(
		deckService,
		services.NewPPTXService(),
		aiService,
		services.NewPDFRenderService(),
		materialService,
		cfg.OutputDir,
	)

	server := api.NewServer(pipeline, materialService, aiService.Configured())
	mux := http.NewServeMux()
	mux.Handle("/api", server.Handler())
	mux.Handle("/api/", server.Handler())

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	log.Printf("listening on :%s", port)

	srv := &http.Server{
		Addr:         ":" + port,
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 180 * time.Second,
	}

	if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatalf("server failed: %v", err)
	}
}
