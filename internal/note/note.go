package note

import (
	"fmt"
	"path"
	"strings"
	"time"
)

const (
	// RecordingHeading is the source-note section that collects transcript
	// backlinks.
	RecordingHeading = "## Recording"

	// SummaryHeading marks the AI-generated section of a transcript note.
	SummaryHeading = "## AI Meeting Summary"

	transcriptHeading = "## Transcript"
	defaultBaseName   = "Meeting"
)

// unsafe filename characters stripped from generated names.
const unsafeFileChars = `\/:"*?<>|`

// SanitizeFileName strips characters that are not portable across
// filesystems.
func SanitizeFileName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if strings.ContainsRune(unsafeFileChars, r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// AudioFileName generates the durable name for a finished capture.
func AudioFileName(at time.Time, extension string) string {
	if extension == "" {
		extension = "wav"
	}
	return fmt.Sprintf("%s_meeting-audio.%s", at.Format("2006-01-02_15-04-05"), extension)
}

// TranscriptFileName generates the transcript note name, derived from the
// source note's name when the recording was started from one.
func TranscriptFileName(sourceName string, at time.Time) string {
	base := SanitizeFileName(sourceName)
	if base == "" {
		base = defaultBaseName
	}
	return fmt.Sprintf("%s - Meeting Transcript %s.md", base, at.Format("2006-01-02 15.04"))
}

// UniquePath probes for a free path, appending -1, -2, ... before the
// extension until exists reports a miss.
func UniquePath(exists func(string) bool, candidate string) string {
	if !exists(candidate) {
		return candidate
	}
	ext := path.Ext(candidate)
	stem := strings.TrimSuffix(candidate, ext)
	for i := 1; ; i++ {
		next := fmt.Sprintf("%s-%d%s", stem, i, ext)
		if !exists(next) {
			return next
		}
	}
}

// Meta describes the frontmatter of a transcript note.
type Meta struct {
	SourceNote string
	AudioFile  string
	Created    time.Time
}

// BuildTranscript assembles a complete transcript note: frontmatter, an
// audio embed when the capture was persisted, and the formatted body.
func BuildTranscript(meta Meta, body string) string {
	var b strings.Builder

	b.WriteString("---\n")
	b.WriteString("type: meeting-transcript\n")
	if meta.SourceNote != "" {
		fmt.Fprintf(&b, "source_note: %s\n", meta.SourceNote)
	}
	if meta.AudioFile != "" {
		fmt.Fprintf(&b, "audio_file: %s\n", meta.AudioFile)
	}
	fmt.Fprintf(&b, "created: %s\n", meta.Created.Format(time.RFC3339))
	b.WriteString("---\n\n")

	if meta.AudioFile != "" {
		fmt.Fprintf(&b, "![[%s]]\n\n", meta.AudioFile)
	}

	b.WriteString(transcriptHeading)
	b.WriteString("\n\n")
	b.WriteString(body)
	b.WriteString("\n")

	return b.String()
}

// Backlink renders the wiki-style link for a transcript note path.
func Backlink(notePath string) string {
	name := strings.TrimSuffix(path.Base(notePath), path.Ext(notePath))
	return fmt.Sprintf("[[%s]]", name)
}

// AppendBacklink inserts a transcript link under the Recording section of a
// source note. A link already present anywhere in the note is not
// duplicated; the section is created at the end of the note when absent.
func AppendBacklink(content string, link string) string {
	if strings.Contains(content, link) {
		return content
	}

	idx := strings.Index(content, RecordingHeading)
	if idx < 0 {
		return strings.TrimRight(content, "\n") + "\n\n" + RecordingHeading + "\n\n" + link + "\n"
	}

	lineEnd := strings.Index(content[idx:], "\n")
	if lineEnd < 0 {
		return content + "\n\n" + link + "\n"
	}

	insertAt := idx + lineEnd + 1
	return content[:insertAt] + "\n" + link + "\n" + content[insertAt:]
}

// AppendSummary adds the AI summary section to a transcript note. A note
// that already has the section is returned unchanged, which keeps a
// duplicate invocation safe.
func AppendSummary(content string, summary string) string {
	summary = strings.TrimSpace(summary)
	if summary == "" || strings.Contains(content, SummaryHeading) {
		return content
	}
	return strings.TrimRight(content, "\n") + "\n\n" + SummaryHeading + "\n\n" + summary + "\n"
}
