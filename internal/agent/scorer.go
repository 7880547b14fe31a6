package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/chronohq/chrono-interviews/internal/models"
	"github.com/chronohq/chrono-interviews/internal/providers/llm"
)

// Scorer turns a full interview transcript into the four-field rubric.
// Scoring failure is never fatal: any backend or parse problem yields the
// all-zero score and a log entry.
type Scorer struct {
	llm llm.Provider
	log *logrus.Logger
}

func NewScorer(provider llm.Provider, log *logrus.Logger) *Scorer {
	if log == nil {
		log = logrus.New()
	}
	return &Scorer{llm: provider, log: log}
}

func (s *Scorer) Score(ctx context.Context, turns []models.Turn, mode TranscriptMode) models.Score {
	transcript := FormatTranscript(turns, mode)

	prompt := fmt.Sprintf(`You are an AI agent which evaluates an interview conversation.
Interviewer = AI bot
Interviewee = Human

Conversation transcript:
%s

Return ONLY a JSON object with these fields (1-10 scale for each):
{
  "confidence_level": number,
  "technical_knowledge": number,
  "communication": number,
  "problem_solving": number
}`, transcript)

	callCtx, cancel := context.WithTimeout(ctx, llmTimeout)
	defer cancel()

	reply, err := s.llm.Generate(callCtx, prompt)
	if err != nil {
		s.log.WithError(err).Error("scoring backend call failed")
		return models.ZeroScore()
	}

	score, err := parseScore(reply)
	if err != nil {
		s.log.WithError(err).WithField("reply", reply).Error("scoring response unparseable")
		return models.ZeroScore()
	}
	return score
}

// parseScore extracts the JSON object from the model's reply and clamps
// every field to the declared 1-10 range. The model's output is untrusted.
func parseScore(reply string) (models.Score, error) {
	start := strings.Index(reply, "{")
	end := strings.LastIndex(reply, "}")
	if start == -1 || end == -1 || end < start {
		return models.Score{}, fmt.Errorf("no JSON object in reply")
	}

	var score models.Score
	if err := json.Unmarshal([]byte(reply[start:end+1]), &score); err != nil {
		return models.Score{}, fmt.Errorf("unmarshal score: %w", err)
	}

	score.ConfidenceLevel = clampRubric(score.ConfidenceLevel)
	score.TechnicalKnowledge = clampRubric(score.TechnicalKnowledge)
	score.Communication = clampRubric(score.Communication)
	score.ProblemSolving = clampRubric(score.ProblemSolving)
	return score, nil
}

func clampRubric(v int) int {
	if v < 1 {
		return 1
	}
	if v > 10 {
		return 10
	}
	return v
}
