// services/indexing_service.go
package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/qdrant/go-client/qdrant"
	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"

	"github.com/AI-Template-SDK/geo-workflows/internal/models"
)

const (
	ResponseCollection = "audit_responses"
	EmbeddingDims      = 1536
)

// Embedder turns response text into a vector for the semantic index.
// The OpenAI provider satisfies this.
type Embedder interface {
	CreateEmbedding(ctx context.Context, text, model string) ([]float32, error)
}

type indexingService struct {
	qdrantClient    *qdrant.Client
	typesenseClient *typesense.Client
	embedder        Embedder
	embeddingModel  string
}

// NewIndexingService indexes raw platform responses in Typesense (keyword
// search) and Qdrant (semantic search). Either client may be nil, in which
// case that store is skipped; the indexing layer never blocks an audit.
func NewIndexingService(qdrantClient *qdrant.Client, typesenseClient *typesense.Client, embedder Embedder, embeddingModel string) IndexingService {
	return &indexingService{
		qdrantClient:    qdrantClient,
		typesenseClient: typesenseClient,
		embedder:        embedder,
		embeddingModel:  embeddingModel,
	}
}

func (s *indexingService) IndexQueryResponses(ctx context.Context, runID uuid.UUID, results []models.QueryResult) error {
	fmt.Printf("[IndexQueryResponses] Indexing responses for run %s (%d results)\n", runID, len(results))

	type responseDoc struct {
		id       string
		query    string
		category string
		platform string
		text     string
	}

	var docs []responseDoc
	for _, result := range results {
		for _, platform := range sortedPlatforms(result.Responses) {
			text := result.Responses[platform]
			if text == "" {
				continue
			}
			docs = append(docs, responseDoc{
				id:       uuid.New().String(),
				query:    result.QueryText,
				category: string(result.Category),
				platform: platform,
				text:     text,
			})
		}
	}
	if len(docs) == 0 {
		return nil
	}

	if s.typesenseClient != nil {
		typesenseDocs := make([]interface{}, len(docs))
		for i, d := range docs {
			typesenseDocs[i] = map[string]interface{}{
				"id":       d.id,
				"run_id":   runID.String(),
				"query":    d.query,
				"category": d.category,
				"platform": d.platform,
				"response": d.text,
			}
		}
		action := "upsert"
		if _, err := s.typesenseClient.Collection(ResponseCollection).Documents().Import(ctx, typesenseDocs, &api.ImportDocumentsParams{Action: &action}); err != nil {
			return fmt.Errorf("typesense import failed: %w", err)
		}
		fmt.Printf("[IndexQueryResponses] Imported %d documents into Typesense\n", len(docs))
	}

	if s.qdrantClient != nil && s.embedder != nil {
		points := make([]*qdrant.PointStruct, 0, len(docs))
		for _, d := range docs {
			vec, err := s.embedder.CreateEmbedding(ctx, d.text, s.embeddingModel)
			if err != nil {
				// One bad embedding drops one point, never the batch.
				fmt.Printf("[IndexQueryResponses] Embedding failed for %s/%q: %v\n", d.platform, d.query, err)
				continue
			}
			points = append(points, &qdrant.PointStruct{
				Id:      qdrant.NewID(d.id),
				Vectors: qdrant.NewVectors(vec...),
				Payload: qdrant.NewValueMap(map[string]any{
					"run_id":   runID.String(),
					"query":    d.query,
					"category": d.category,
					"platform": d.platform,
					"response": d.text,
				}),
			})
		}

		if len(points) > 0 {
			waitUpsert := true
			if _, err := s.qdrantClient.Upsert(ctx, &qdrant.UpsertPoints{
				CollectionName: ResponseCollection,
				Points:         points,
				Wait:           &waitUpsert,
			}); err != nil {
				return fmt.Errorf("qdrant upsert failed: %w", err)
			}
			fmt.Printf("[IndexQueryResponses] Upserted %d points into Qdrant\n", len(points))
		}
	}

	return nil
}
