package note

import (
	"fmt"
	"strings"

	"voicenote/internal/domain"
)

// FormatTranscript renders a transcription result as a markdown fragment.
// Diarized results get one line per spoken turn; distinct speaker labels are
// numbered from 1 in order of first rendered appearance. Turns with blank
// text are dropped; rendered text is carried verbatim. Without utterances
// the plain text is returned verbatim.
func FormatTranscript(result domain.TranscriptionResult) string {
	if len(result.Utterances) == 0 {
		return result.Text
	}

	speakers := make(map[string]int)
	lines := make([]string, 0, len(result.Utterances))

	for _, u := range result.Utterances {
		if strings.TrimSpace(u.Text) == "" {
			continue
		}

		var b strings.Builder
		if u.Start != nil {
			fmt.Fprintf(&b, "[%s] ", FormatTimestamp(*u.Start))
		}
		if u.Speaker != "" {
			number, ok := speakers[u.Speaker]
			if !ok {
				number = len(speakers) + 1
				speakers[u.Speaker] = number
			}
			fmt.Fprintf(&b, "**Speaker %d:** ", number)
		}
		b.WriteString(u.Text)
		lines = append(lines, b.String())
	}

	return strings.Join(lines, "\n")
}

// HasTimestamps reports whether any renderable utterance carries a start
// offset.
func HasTimestamps(result domain.TranscriptionResult) bool {
	for _, u := range result.Utterances {
		if u.Start != nil && strings.TrimSpace(u.Text) != "" {
			return true
		}
	}
	return false
}

// FormatTimestamp converts a millisecond offset into zero-padded HH:MM:SS,
// floored to whole seconds.
func FormatTimestamp(ms int64) string {
	if ms < 0 {
		ms = 0
	}
	total := ms / 1000
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total/60)%60, total%60)
}
