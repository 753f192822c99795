package editor

import (
	"bytes"
	"fmt"
	"os"
	"strings"
	"text/template"

	"github.com/BurntSushi/toml"
	"github.com/amonks/sidequest/quest"
)

// QuestData is rendered into the editable quest document.
type QuestData struct {
	// IsUpdate is true when editing an existing quest. The period cannot
	// change after creation, so it is only offered on create.
	IsUpdate bool

	Title  string
	Period string
	Slot   string
	Energy string
	Kind   string
	Target int
	Notes  string

	// TimeSlots and EnergyTags are listed as comments next to their fields.
	TimeSlots  []string
	EnergyTags []string
}

// DefaultCreateData returns the document for a new daily binary quest.
func DefaultCreateData(timeSlots, energyTags []string) QuestData {
	return QuestData{
		Period:     string(quest.PeriodDaily),
		Kind:       string(quest.KindBinary),
		TimeSlots:  timeSlots,
		EnergyTags: energyTags,
	}
}

// DataFromQuest creates QuestData from an existing quest for editing.
func DataFromQuest(q *quest.Quest, timeSlots, energyTags []string) QuestData {
	return QuestData{
		IsUpdate:   true,
		Title:      q.Title,
		Period:     string(q.Period),
		Slot:       q.TimeSlot,
		Energy:     q.EnergyTag,
		Kind:       string(q.Kind),
		Target:     q.Target,
		Notes:      q.Notes,
		TimeSlots:  timeSlots,
		EnergyTags: energyTags,
	}
}

var questTemplate = template.Must(template.New("quest").Funcs(template.FuncMap{
	"join": func(values []string) string { return strings.Join(values, ", ") },
}).Parse(`title = {{ printf "%q" .Title }}
{{ if not .IsUpdate -}}
period = {{ printf "%q" .Period }} # daily, weekly, monthly
{{ end -}}
slot = {{ printf "%q" .Slot }} # {{ join .TimeSlots }}
energy = {{ printf "%q" .Energy }} # {{ join .EnergyTags }}
{{ if not .IsUpdate -}}
target = {{ .Target }} # 0 for a binary quest
{{ else if eq .Kind "progressive" -}}
target = {{ .Target }}
{{ end -}}
---
{{ .Notes }}
`))

// RenderQuestTOML renders the quest data as a TOML document for editing.
func RenderQuestTOML(data QuestData) (string, error) {
	var buf bytes.Buffer
	if err := questTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render template: %w", err)
	}
	return buf.String(), nil
}

// ParsedQuest is the result of editing a quest document.
type ParsedQuest struct {
	Title  string  `toml:"title"`
	Period *string `toml:"period"`
	Slot   string  `toml:"slot"`
	Energy string  `toml:"energy"`
	Target *int    `toml:"target"`
	Notes  string
}

// ParseQuestTOML parses an edited quest document.
func ParseQuestTOML(content string) (*ParsedQuest, error) {
	frontmatter, body := splitFrontmatter(content)

	var parsed ParsedQuest
	if _, err := toml.Decode(frontmatter, &parsed); err != nil {
		return nil, fmt.Errorf("parse TOML: %w", err)
	}
	parsed.Title = strings.TrimSpace(parsed.Title)
	parsed.Slot = strings.TrimSpace(parsed.Slot)
	parsed.Energy = strings.TrimSpace(parsed.Energy)
	parsed.Notes = strings.TrimSpace(body)

	if err := quest.ValidateTitle(parsed.Title); err != nil {
		return nil, err
	}
	if parsed.Period != nil {
		period := strings.ToLower(strings.TrimSpace(*parsed.Period))
		parsed.Period = &period
		if err := quest.ValidatePeriod(quest.Period(period)); err != nil {
			return nil, err
		}
	}
	if parsed.Target != nil && *parsed.Target < 0 {
		return nil, fmt.Errorf("%w: got %d", quest.ErrInvalidTarget, *parsed.Target)
	}
	return &parsed, nil
}

func splitFrontmatter(content string) (string, string) {
	content = strings.TrimLeft(content, "\n")
	if content == "" {
		return "", ""
	}

	lines := strings.Split(content, "\n")
	separatorIndex := -1
	for i, line := range lines {
		if strings.TrimSpace(line) == "---" {
			separatorIndex = i
			break
		}
	}
	if separatorIndex == -1 {
		return content, ""
	}

	frontmatter := strings.Join(lines[:separatorIndex], "\n")
	body := strings.Join(lines[separatorIndex+1:], "\n")
	return frontmatter, body
}

// EditQuest opens the editor on data and returns the parsed result.
func EditQuest(data QuestData) (*ParsedQuest, error) {
	content, err := RenderQuestTOML(data)
	if err != nil {
		return nil, err
	}

	tmpfile, err := os.CreateTemp("", "sq-quest-*.md")
	if err != nil {
		return nil, fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmpfile.Name()
	defer os.Remove(tmpPath)

	if _, err := tmpfile.WriteString(content); err != nil {
		tmpfile.Close()
		return nil, fmt.Errorf("write temp file: %w", err)
	}
	if err := tmpfile.Close(); err != nil {
		return nil, fmt.Errorf("close temp file: %w", err)
	}

	if err := Edit(tmpPath); err != nil {
		return nil, err
	}

	edited, err := os.ReadFile(tmpPath)
	if err != nil {
		return nil, fmt.Errorf("read edited file: %w", err)
	}
	return ParseQuestTOML(string(edited))
}

// ToCreateOptions converts the parsed document into quest.CreateOptions.
// A positive target makes the quest progressive.
func (p *ParsedQuest) ToCreateOptions() quest.CreateOptions {
	opts := quest.CreateOptions{
		Title:     p.Title,
		TimeSlot:  p.Slot,
		EnergyTag: p.Energy,
		Notes:     p.Notes,
	}
	if p.Period != nil {
		opts.Period = quest.Period(*p.Period)
	}
	if p.Target != nil && *p.Target > 0 {
		opts.Kind = quest.KindProgressive
		opts.Target = *p.Target
	}
	return opts
}

// ToUpdateOptions converts the parsed document into quest.UpdateOptions.
func (p *ParsedQuest) ToUpdateOptions() quest.UpdateOptions {
	opts := quest.UpdateOptions{
		Title:     &p.Title,
		TimeSlot:  &p.Slot,
		EnergyTag: &p.Energy,
		Notes:     &p.Notes,
	}
	if p.Target != nil {
		opts.Target = p.Target
	}
	return opts
}
