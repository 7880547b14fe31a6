package agent

import (
	"strings"

	"github.com/chronohq/chrono-interviews/internal/models"
)

// TranscriptMode selects the speaker-labeling convention for a transcript.
type TranscriptMode int

const (
	// ModeBot normalizes the recorded role tags of an AI interview:
	// "User" renders as Interviewee, everything else as Interviewer.
	ModeBot TranscriptMode = iota
	// ModeLive renders the speaker label of a meeting transcript verbatim.
	ModeLive
)

// FormatTranscript renders turns as a prompt-ready block, one "<Label>: <text>"
// per turn separated by blank lines, in original order. Pure function.
func FormatTranscript(turns []models.Turn, mode TranscriptMode) string {
	var b strings.Builder
	for _, t := range turns {
		label := t.Speaker
		if mode == ModeBot {
			if t.Speaker == models.SpeakerUser {
				label = "Interviewee"
			} else {
				label = "Interviewer"
			}
		}
		b.WriteString(label)
		b.WriteString(": ")
		b.WriteString(t.Text)
		b.WriteString("\n\n")
	}
	return strings.TrimSpace(b.String())
}
