package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"nofap-ai/models"
	"nofap-ai/utils"

	openai "github.com/sashabaranov/go-openai"
	"gorm.io/gorm"
)

// analysisBatchSize caps how many journals one poll pass sends to the LLM.
const analysisBatchSize = 5

// JournalAnalysisWorker fills in analysis_summary/analysis_category for
// journal entries. Failures are swallowed: the record keeps null analysis and
// gets picked up again on a later pass.
type JournalAnalysisWorker struct {
	DB     *gorm.DB
	Client *openai.Client
	Model  string
}

func NewJournalAnalysisWorker(db *gorm.DB) *JournalAnalysisWorker {
	apiKey := os.Getenv("OPENAI_API_KEY")
	if apiKey == "" {
		log.Fatal("OPENAI_API_KEY environment variable is required for journal analysis")
	}

	cfg := openai.DefaultConfig(apiKey)
	if baseURL := os.Getenv("AI_BASE_URL"); baseURL != "" {
		cfg.BaseURL = baseURL
	}
	cfg.HTTPClient = utils.HTTPClient

	model := os.Getenv("AI_MODEL")
	if model == "" {
		model = "gpt-4o-mini"
	}

	return &JournalAnalysisWorker{
		DB:     db,
		Client: openai.NewClientWithConfig(cfg),
		Model:  model,
	}
}

// PollJournals runs the analysis loop until ctx is done.
func PollJournals(ctx context.Context, worker *JournalAnalysisWorker, pollInterval time.Duration) {
	log.Println("Starting journal analysis worker...")

	ticker := time.NewTicker(pollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("Journal analysis worker stopped")
			return
		case <-ticker.C:
			worker.analyzePending(ctx)
		}
	}
}

func (w *JournalAnalysisWorker) analyzePending(ctx context.Context) {
	var records []models.DailyRecord
	err := w.DB.Where("journal <> '' AND analysis_summary IS NULL").
		Order("updated_at ASC").
		Limit(analysisBatchSize).
		Find(&records).Error
	if err != nil {
		log.Printf("[JournalWorker] DB error: %v", err)
		return
	}

	for _, rec := range records {
		summary, category, err := w.analyze(ctx, rec.Journal)
		if err != nil {
			// Not fatal: record keeps null analysis, retried next pass.
			log.Printf("[JournalWorker] analysis failed for record %s: %v", rec.ID, err)
			continue
		}
		err = w.DB.Model(&models.DailyRecord{}).
			Where("id = ?", rec.ID).
			Updates(map[string]interface{}{
				"analysis_summary":  summary,
				"analysis_category": category,
			}).Error
		if err != nil {
			log.Printf("[JournalWorker] failed to store analysis for %s: %v", rec.ID, err)
			continue
		}
		log.Printf("📝 Journal analyzed: record=%s category=%s", rec.ID, category)
	}
}

// analyze asks the LLM for a one-line summary and a category. The model is
// told to answer with bare JSON; anything else fails the tolerant parse.
func (w *JournalAnalysisWorker) analyze(ctx context.Context, journal string) (string, string, error) {
	resp, err := w.Client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: w.Model,
		Messages: []openai.ChatCompletionMessage{
			{
				Role: openai.ChatMessageRoleSystem,
				Content: "Summarize the user's recovery journal entry in one sentence and " +
					"classify it. Reply with JSON only, no prose: " +
					`{"summary": "...", "category": "urge|trigger|progress|reflection"}`,
			},
			{
				Role:    openai.ChatMessageRoleUser,
				Content: journal,
			},
		},
	})
	if err != nil {
		return "", "", fmt.Errorf("completion failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", "", fmt.Errorf("empty completion response")
	}

	content := strings.TrimSpace(resp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var parsed struct {
		Summary  string `json:"summary"`
		Category string `json:"category"`
	}
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &parsed); err != nil {
		return "", "", fmt.Errorf("unparseable analysis response: %w", err)
	}
	if parsed.Summary == "" {
		return "", "", fmt.Errorf("analysis response missing summary")
	}
	if parsed.Category == "" {
		parsed.Category = "reflection"
	}
	return parsed.Summary, parsed.Category, nil
}
