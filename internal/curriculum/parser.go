package curriculum

import (
	"fmt"
	"math"
	"regexp"
	"strings"
)

// The parser works off a small documented micro-format: sections separated by
// a line that is exactly "===", an optional "Chapter N:" heading per section,
// and an optional "Learning Objectives:" block of dash-prefixed lines. These
// strings are a contract with curriculum authors, not inferred structure.
var (
	sectionDelim  = regexp.MustCompile(`(?m)^===$`)
	chapterLine   = regexp.MustCompile(`(?i)^chapter\s+\d+`)
	chapterPrefix = regexp.MustCompile(`(?i)^chapter\s+\d+:\s*`)
	fileExt       = regexp.MustCompile(`\.[^.]+$`)
)

const (
	objectivesHeading = "Learning Objectives:"
	descriptionLimit  = 200
)

// Parse splits raw curriculum text into an ordered module chain. It is pure
// and total: missing structure degrades to sensible fallbacks instead of
// failing, and any non-empty input yields at least one node.
func Parse(content, subject string) Curriculum {
	var sections []string
	for _, s := range sectionDelim.Split(content, -1) {
		if s = strings.TrimSpace(s); s != "" {
			sections = append(sections, s)
		}
	}

	nodes := make([]Node, 0, len(sections))
	for i, section := range sections {
		nodes = append(nodes, parseSection(section, i))
	}

	return Curriculum{Subject: subject, Nodes: nodes}
}

func parseSection(section string, index int) Node {
	var lines []string
	for _, l := range strings.Split(section, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}

	titleLine := ""
	for _, l := range lines {
		if chapterLine.MatchString(l) {
			titleLine = l
			break
		}
	}
	if titleLine == "" && len(lines) > 0 {
		titleLine = lines[0]
	}
	if titleLine == "" {
		titleLine = fmt.Sprintf("Module %d", index+1)
	}
	title := strings.TrimSpace(chapterPrefix.ReplaceAllString(titleLine, ""))

	objectives := []string{}
	if at := strings.Index(section, objectivesHeading); at != -1 {
		blockLines := strings.Split(section[at:], "\n")
		for _, l := range blockLines[1:] {
			trimmed := strings.TrimSpace(l)
			if strings.HasPrefix(trimmed, "-") {
				objectives = append(objectives, strings.TrimSpace(trimmed[1:]))
			}
		}
	}

	// Description: first content line that is not the title and not part of
	// the objectives block.
	description := ""
	for _, l := range lines {
		if l == titleLine || strings.HasPrefix(l, "Learning Objectives") || strings.HasPrefix(l, "-") {
			continue
		}
		description = truncate(l, descriptionLimit)
		break
	}
	if description == "" {
		description = title
	}

	prerequisites := []string{}
	if index > 0 {
		prerequisites = []string{fmt.Sprintf("node-%d", index)}
	}

	return Node{
		ID:          fmt.Sprintf("node-%d", index+1),
		Title:       title,
		Description: description,
		// Synthetic placeholder, not content analysis.
		Difficulty:         math.Min(1, 0.3+0.15*float64(index)),
		Prerequisites:      prerequisites,
		LearningObjectives: objectives,
		Content:            section,
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

// SubjectFromFilename derives a human-readable subject from an uploaded
// file name: extension stripped, underscores and dashes become spaces.
func SubjectFromFilename(name string) string {
	s := fileExt.ReplaceAllString(name, "")
	s = strings.NewReplacer("_", " ", "-", " ").Replace(s)
	return strings.TrimSpace(s)
}
