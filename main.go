// main.go
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/inngest/inngestgo"
	"github.com/joho/godotenv"
	"github.com/qdrant/go-client/qdrant"
	"github.com/typesense/typesense-go/v2/typesense"
	typesenseapi "github.com/typesense/typesense-go/v2/typesense/api"

	"github.com/AI-Template-SDK/geo-workflows/internal/config"
	"github.com/AI-Template-SDK/geo-workflows/internal/models"
	"github.com/AI-Template-SDK/geo-workflows/internal/storage"
	"github.com/AI-Template-SDK/geo-workflows/services"
	"github.com/AI-Template-SDK/geo-workflows/workflows"
)

// latestRunFinder is the slice of the audit repository the run lookup
// route needs.
type latestRunFinder interface {
	LatestRunID(ctx context.Context, brand string) (uuid.UUID, error)
}

// latestAuditHandler serves GET /api/audits/latest?brand=X, returning the
// most recent persisted run ID for a brand.
func latestAuditHandler(repo latestRunFinder) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		brand := r.URL.Query().Get("brand")
		if brand == "" {
			w.WriteHeader(http.StatusBadRequest)
			w.Write([]byte(`{"error":"brand query parameter is required"}`))
			return
		}
		runID, err := repo.LatestRunID(r.Context(), brand)
		if err != nil {
			log.Printf("Failed to look up latest run for %s: %v", brand, err)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(`{"error":"failed to look up latest run"}`))
			return
		}
		if runID == uuid.Nil {
			w.WriteHeader(http.StatusNotFound)
			w.Write([]byte(fmt.Sprintf(`{"error":"no audit runs found for %s"}`, brand)))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(fmt.Sprintf(`{"brand":%q,"run_id":%q}`, brand, runID)))
	}
}

func main() {
	if err := godotenv.Load(); err != nil {
		if err := godotenv.Load("dev.env"); err != nil {
			log.Printf("Note: No .env or dev.env file loaded: %v", err)
		} else {
			log.Printf("Loaded dev.env file for local development")
		}
	} else {
		log.Printf("Loaded .env file")
	}

	cfg := config.Load()

	log.Printf("Environment: %s", cfg.Environment)
	log.Printf("Port: %s", cfg.Port)
	log.Printf("Database Host: %s", cfg.Database.Host)
	log.Printf("Database Name: %s", cfg.Database.Name)

	if cfg.OpenAIAPIKey == "" {
		log.Printf("WARNING: OpenAI API key not loaded!")
	} else {
		log.Printf("OpenAI API key loaded (length: %d)", len(cfg.OpenAIAPIKey))
	}
	if cfg.AnthropicAPIKey == "" {
		log.Printf("WARNING: Anthropic API key not loaded!")
	} else {
		log.Printf("Anthropic API key loaded (length: %d)", len(cfg.AnthropicAPIKey))
	}

	ctx := context.Background()
	dbClient, err := storage.Connect(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer dbClient.Close()
	log.Printf("Successfully connected to database")

	if err := dbClient.EnsureSchema(ctx); err != nil {
		log.Fatalf("Failed to ensure database schema: %v", err)
	}
	auditRepo := storage.NewAuditRepo(dbClient)
	log.Printf("Audit repository initialized")

	if cfg.Environment == "development" || cfg.Environment == "" {
		os.Unsetenv("INNGEST_SIGNING_KEY")
		cfg.InngestSigningKey = ""
		log.Printf("Running in development mode - signing key verification disabled")
	}

	log.Println("Attempting to initialize Qdrant client...")
	qdrantClient, err := qdrant.NewClient(&qdrant.Config{
		Host: cfg.Qdrant.Host,
		Port: cfg.Qdrant.Port,
	})
	if err != nil {
		log.Fatalf("Failed to create Qdrant client: %v", err)
	}

	err = qdrantClient.CreateCollection(ctx, &qdrant.CreateCollection{
		CollectionName: services.ResponseCollection,
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     services.EmbeddingDims,
			Distance: qdrant.Distance_Cosine,
		}),
	})
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		log.Fatalf("Failed to create Qdrant collection: %v", err)
	}
	log.Printf("Qdrant collection %q is ready", services.ResponseCollection)

	log.Println("Attempting to initialize Typesense client...")
	typesenseClient := typesense.NewClient(
		typesense.WithServer(fmt.Sprintf("http://%s:%d", cfg.Typesense.Host, cfg.Typesense.Port)),
		typesense.WithAPIKey(cfg.Typesense.APIKey),
	)

	facet := true
	responsesSchema := &typesenseapi.CollectionSchema{
		Name: services.ResponseCollection,
		Fields: []typesenseapi.Field{
			{Name: "id", Type: "string"},
			{Name: "run_id", Type: "string", Facet: &facet},
			{Name: "query", Type: "string"},
			{Name: "category", Type: "string", Facet: &facet},
			{Name: "platform", Type: "string", Facet: &facet},
			{Name: "response", Type: "string"},
		},
	}
	_, err = typesenseClient.Collections().Create(ctx, responsesSchema)
	if err != nil && !strings.Contains(err.Error(), "already exists") {
		log.Fatalf("Failed to create Typesense collection: %v", err)
	}
	log.Printf("Typesense collection %q is ready", services.ResponseCollection)

	// Initialize providers and services
	costService := services.NewCostService()
	openAIProvider := services.NewOpenAIProvider(cfg, cfg.OpenAIModel, costService)
	anthropicProvider := services.NewAnthropicProvider(cfg, cfg.AnthropicModel, costService)
	perplexityProvider := services.NewPerplexityProvider(cfg, cfg.PerplexityModel, costService)
	providers := []services.AIProvider{openAIProvider, anthropicProvider, perplexityProvider}

	extractor := services.NewMentionExtractor()
	sentiment := services.NewOpenAISentimentScorer(cfg)
	discoveryService := services.NewCompetitorDiscoveryService(extractor, sentiment)
	gapService := services.NewGapAnalysisService(extractor, models.DefaultThemeConfig())
	recommendationService := services.NewRecommendationService()
	auditService := services.NewAuditService(discoveryService, gapService, recommendationService)
	queryGenerator := services.NewQueryGeneratorService(cfg)
	questionRunner := services.NewQuestionRunnerService(providers)
	reportService := services.NewReportService()

	embedder, _ := openAIProvider.(services.Embedder)
	indexingService := services.NewIndexingService(qdrantClient, typesenseClient, embedder, cfg.EmbeddingModel)
	log.Printf("All services initialized")

	client, err := inngestgo.NewClient(
		inngestgo.ClientOpts{
			AppID:    "geo-workflows",
			EventKey: inngestgo.StrPtr(cfg.InngestEventKey),
			Env:      inngestgo.StrPtr(cfg.Environment),
		},
	)
	if err != nil {
		log.Fatalf("Failed to create Inngest client: %v", err)
	}

	log.Printf("Initializing AuditProcessor workflow...")
	auditProcessor := workflows.NewAuditProcessor(queryGenerator, questionRunner, auditService, reportService, indexingService, auditRepo, cfg)
	auditProcessor.SetClient(client)
	auditProcessor.ProcessAudit()

	log.Printf("Initializing ScheduledProcessor workflow...")
	scheduledProcessor := workflows.NewScheduledProcessor(cfg)
	scheduledProcessor.SetClient(client)
	scheduledProcessor.DailyAuditProcessor()

	log.Printf("All processors initialized and functions registered")

	h := client.Serve()
	mux := http.NewServeMux()
	mux.Handle("/api/inngest", h)

	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"service":"geo-workflows","status":"running"}`))
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})
	mux.HandleFunc("/api/audits/latest", latestAuditHandler(auditRepo))
	mux.HandleFunc("/test/trigger-audit", func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			w.WriteHeader(http.StatusMethodNotAllowed)
			return
		}
		brand := r.URL.Query().Get("brand")
		if brand == "" {
			brand = "Nike"
		}
		evt := inngestgo.Event{
			Name: "audit.process",
			Data: map[string]interface{}{
				"brand":        brand,
				"industry":     models.DetectIndustry(brand),
				"triggered_by": "manual_test",
			},
		}
		result, err := client.Send(r.Context(), evt)
		if err != nil {
			log.Printf("Failed to send test event: %v", err)
			w.WriteHeader(http.StatusInternalServerError)
			w.Write([]byte(fmt.Sprintf(`{"error":"Failed to send event: %v"}`, err)))
			return
		}
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(fmt.Sprintf(`{"status":"success","message":"Audit triggered for %s","event_ids":["%s"]}`, brand, result)))
	})

	port := cfg.Port
	log.Printf("Starting GEO Workflows service on port %s", port)
	if err := http.ListenAndServe(":"+port, mux); err != nil {
		log.Fatal(err)
	}
}
