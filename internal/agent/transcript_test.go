package agent

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/chronohq/chrono-interviews/internal/models"
)

func TestFormatTranscript_Empty(t *testing.T) {
	assert.Equal(t, "", FormatTranscript(nil, ModeBot))
	assert.Equal(t, "", FormatTranscript([]models.Turn{}, ModeLive))
}

func TestFormatTranscript_BotMode(t *testing.T) {
	turns := []models.Turn{
		{Speaker: models.SpeakerUser, Text: "hello"},
	}
	assert.Equal(t, "Interviewee: hello", FormatTranscript(turns, ModeBot))

	turns = append(turns, models.Turn{Speaker: models.SpeakerAI, Text: "welcome"})
	assert.Equal(t, "Interviewee: hello\n\nInterviewer: welcome", FormatTranscript(turns, ModeBot))
}

func TestFormatTranscript_BotModeNormalizesUnknownSpeakers(t *testing.T) {
	turns := []models.Turn{
		{Speaker: "Assistant", Text: "hi"},
	}
	// anything that is not the user role tag counts as the interviewer
	assert.Equal(t, "Interviewer: hi", FormatTranscript(turns, ModeBot))
}

func TestFormatTranscript_LiveModeKeepsLabels(t *testing.T) {
	turns := []models.Turn{
		{Speaker: "Alice", Text: "tell me about yourself"},
		{Speaker: "Bob", Text: "sure"},
	}
	assert.Equal(t, "Alice: tell me about yourself\n\nBob: sure", FormatTranscript(turns, ModeLive))
}

func TestFormatTranscript_PreservesOrderAndIsDeterministic(t *testing.T) {
	turns := []models.Turn{
		{Speaker: models.SpeakerUser, Text: "one"},
		{Speaker: models.SpeakerAI, Text: "two"},
		{Speaker: models.SpeakerUser, Text: "three"},
	}

	first := FormatTranscript(turns, ModeBot)
	assert.Equal(t, "Interviewee: one\n\nInterviewer: two\n\nInterviewee: three", first)
	assert.Equal(t, first, FormatTranscript(turns, ModeBot))
}
