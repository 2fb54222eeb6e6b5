package queue

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	awss3 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rabbitmq/amqp091-go"

	"plexus/internal/store"
	"plexus/internal/timing"
	"plexus/internal/util"
	"plexus/pkg/ai"
	"plexus/pkg/extract"
	"plexus/pkg/loader"
	"plexus/pkg/loader/doc"
	s3loader "plexus/pkg/loader/s3"
	"plexus/pkg/logger"
)

// ProcessExtractMessage rebuilds a notebook's graph from every document
// it holds. The previous graph is replaced, not merged, so repeated
// extraction stays idempotent. On success a layout job is enqueued.
func ProcessExtractMessage(
	ctx context.Context,
	s3Client *awss3.Client,
	aiClient ai.GraphAIClient,
	ch *amqp091.Channel,
	conn *pgxpool.Pool,
	msg string,
) (err error) {
	data := new(ExtractJobMsg)
	if err = json.Unmarshal([]byte(msg), data); err != nil {
		return err
	}

	st := store.New(conn)
	started := time.Now()

	defer func() {
		if err == nil {
			return
		}
		updateCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if updateErr := st.SetNotebookStatus(updateCtx, data.NotebookID, store.NotebookStatusFailed); updateErr != nil {
			logger.Warn("[Queue] Failed to mark notebook as failed", "notebook_id", data.NotebookID, "err", updateErr)
		}
		if data.DocumentID != "" {
			if updateErr := st.SetDocumentStatus(updateCtx, data.DocumentID, store.DocumentStatusFailed); updateErr != nil {
				logger.Warn("[Queue] Failed to mark document as failed", "document_id", data.DocumentID, "err", updateErr)
			}
		}
	}()

	if err = st.SetNotebookStatus(ctx, data.NotebookID, store.NotebookStatusProcessing); err != nil {
		return err
	}
	if data.DocumentID != "" {
		if err = st.SetDocumentStatus(ctx, data.DocumentID, store.DocumentStatusProcessing); err != nil {
			return err
		}
	}

	documents, err := st.ListDocuments(ctx, data.NotebookID)
	if err != nil {
		return err
	}
	if len(documents) == 0 {
		return fmt.Errorf("notebook %s has no documents to extract", data.NotebookID)
	}

	corpus, err := loadCorpus(ctx, s3Client, documents)
	if err != nil {
		return err
	}

	extractor := extract.New(aiClient, extract.Options{
		Model: util.GetEnv("AI_CHAT_EXTRACT_MODEL"),
	})

	logger.Info("[Queue] Extracting graph", "notebook_id", data.NotebookID, "documents", len(documents), "corpus_bytes", len(corpus))
	graph, err := extractor.Extract(ctx, corpus)
	if err != nil {
		return fmt.Errorf("extraction failed: %w", err)
	}

	embeddings, err := extractor.TagClusters(ctx, graph, extract.ClusterOptions{
		Model: util.GetEnv("AI_CHAT_DESCRIBE_MODEL"),
	})
	if err != nil {
		return fmt.Errorf("cluster tagging failed: %w", err)
	}

	if err = st.ReplaceGraph(ctx, data.NotebookID, graph, embeddings); err != nil {
		return fmt.Errorf("failed to store graph: %w", err)
	}

	if data.DocumentID != "" {
		if err = st.SetDocumentStatus(ctx, data.DocumentID, store.DocumentStatusProcessed); err != nil {
			return err
		}
	}

	if recordErr := timing.RecordJobDuration(ctx, conn, timing.JobTypeExtract, time.Since(started), len(graph.Nodes)); recordErr != nil {
		logger.Warn("[Queue] Failed to record extract duration", "err", recordErr)
	}

	logger.Info("[Queue] Graph extracted", "notebook_id", data.NotebookID, "nodes", len(graph.Nodes), "links", len(graph.Links))

	return PublishLayoutJob(ch, LayoutJobMsg{NotebookID: data.NotebookID})
}

// loadCorpus pulls every document's text out of object storage,
// routing docx files through the document parser.
func loadCorpus(ctx context.Context, s3Client *awss3.Client, documents []store.Document) (string, error) {
	bucket := util.GetEnvString("AWS_BUCKET", "plexus")
	rawLoader := s3loader.NewS3GraphFileLoaderWithClient(bucket, s3Client)
	docLoader := doc.NewDocGraphLoader(rawLoader)

	var sb strings.Builder
	for _, d := range documents {
		ext := strings.ToLower(filepath.Ext(d.ObjectKey))

		var file loader.GraphFile
		switch ext {
		case ".docx":
			file = loader.NewGraphDocumentFile(loader.NewGraphFileParams{
				ID:       d.PublicID,
				FilePath: d.ObjectKey,
				Loader:   docLoader,
			})
		default:
			file = loader.NewGraphTextFile(loader.NewGraphFileParams{
				ID:       d.PublicID,
				FilePath: d.ObjectKey,
				Loader:   rawLoader,
			})
		}

		text, err := file.GetText(ctx)
		if err != nil {
			return "", fmt.Errorf("failed to load document %s: %w", d.PublicID, err)
		}
		if sb.Len() > 0 {
			sb.WriteString("\n\n")
		}
		sb.WriteString(util.SanitizeText(string(text)))
	}

	return sb.String(), nil
}
