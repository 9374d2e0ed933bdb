package enrichment

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/sirupsen/logrus"

	"jobscout/pkg/models"
)

// ClaudeScorer is the optional LLM-backed Enricher, grounded on the
// teacher's ClaudeProvider.ExtractJobData: a single-turn prompt asking for a
// strict JSON object back, with the same truncate-to-fit-tokens discipline.
type ClaudeScorer struct {
	client    anthropic.Client
	maxTokens int
	log       *logrus.Entry
}

// NewClaudeScorer builds a Claude-backed enricher. apiKey must be non-empty;
// callers should fall back to KeywordScorer when no key is configured.
func NewClaudeScorer(apiKey string, maxTokens int, log *logrus.Entry) *ClaudeScorer {
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	return &ClaudeScorer{
		client:    anthropic.NewClient(option.WithAPIKey(apiKey)),
		maxTokens: maxTokens,
		log:       log.WithField("component", "claude_enricher"),
	}
}

type scoreResponse struct {
	MatchedSkills []string `json:"matched_skills"`
	MissingSkills []string `json:"missing_skills"`
	MatchScore    int      `json:"match_score"`
}

// Enrich asks Claude to compare the job's text against the user's declared
// skills and returns a 0-100 match score plus the matched/missing skill
// lists. A pacing delay of ~500ms is the caller's responsibility between
// successive Enrich calls (orchestrator-level, not here), per §12.
func (c *ClaudeScorer) Enrich(ctx context.Context, job *models.CanonicalJob, userSkills []string) error {
	if len(userSkills) == 0 {
		return nil
	}

	prompt := c.buildPrompt(job, userSkills)

	resp, err := c.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.ModelClaude3_7SonnetLatest,
		MaxTokens: int64(c.maxTokens),
		Messages: []anthropic.MessageParam{{
			Content: []anthropic.ContentBlockParamUnion{{
				OfText: &anthropic.TextBlockParam{Text: prompt},
			}},
			Role: anthropic.MessageParamRoleUser,
		}},
	})
	if err != nil {
		return fmt.Errorf("claude enrichment call: %w", err)
	}

	text := extractText(resp)
	text = stripCodeFence(text)
	var parsed scoreResponse
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return fmt.Errorf("parse claude enrichment response: %w", err)
	}

	job.MatchedSkills = parsed.MatchedSkills
	job.MissingSkills = parsed.MissingSkills
	job.MatchScore = parsed.MatchScore
	job.RequiredSkills = userSkills

	return nil
}

func (c *ClaudeScorer) buildPrompt(job *models.CanonicalJob, userSkills []string) string {
	content := job.Title + "\n" + job.Company + "\n" + job.Snippet + "\n" + job.Description
	maxLen := c.maxTokens * 3
	if len(content) > maxLen {
		content = content[:maxLen] + "..."
	}

	return fmt.Sprintf(`Compare the candidate's skills against this job posting and return ONLY a JSON object with exactly these fields:

{
  "matched_skills": ["skills from the candidate's list that the posting mentions wanting"],
  "missing_skills": ["skills from the candidate's list the posting does not mention"],
  "match_score": integer 0-100, the percentage of the candidate's skills the posting wants
}

CANDIDATE SKILLS: %s

JOB POSTING:
%s`, strings.Join(userSkills, ", "), content)
}

func extractText(msg *anthropic.Message) string {
	if len(msg.Content) == 0 {
		return ""
	}
	return msg.Content[0].AsText().Text
}

func stripCodeFence(text string) string {
	text = strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(text, "```json"):
		text = strings.TrimPrefix(text, "```json")
		text = strings.TrimSuffix(text, "```")
	case strings.HasPrefix(text, "```"):
		text = strings.TrimPrefix(text, "```")
		text = strings.TrimSuffix(text, "```")
	}
	return strings.TrimSpace(text)
}
