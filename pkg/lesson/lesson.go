// Package lesson defines the project and slide records a script report is
// built from, together with the default-resolution rules for optional fields.
package lesson

import (
	"sort"
	"strings"
	"unicode/utf8"
)

// Placeholder text used when a display field is missing.
const (
	UntitledSlide   = "Untitled"
	NotAvailable    = "N/A"
	UnknownSpeaker  = "Unknown"
	DefaultVoice    = "default"
	UnknownGender   = "unknown"
	DefaultDocTitle = "Educational Script"
)

// DefaultVisualDuration is the slide duration in seconds assumed when a slide
// carries none.
const DefaultVisualDuration = 4.0

// Speaker describes one voice in the lesson.
type Speaker struct {
	Name   string `json:"name,omitempty" yaml:"name,omitempty"`
	Voice  string `json:"voice,omitempty" yaml:"voice,omitempty"`
	Gender string `json:"gender,omitempty" yaml:"gender,omitempty"`
}

// VoiceOrDefault returns the configured voice or "default".
func (s Speaker) VoiceOrDefault() string {
	if s.Voice == "" {
		return DefaultVoice
	}
	return s.Voice
}

// GenderOrUnknown returns the configured gender or "unknown".
func (s Speaker) GenderOrUnknown() string {
	if s.Gender == "" {
		return UnknownGender
	}
	return s.Gender
}

// Project is the lesson-level metadata.
type Project struct {
	ID       string             `json:"id" yaml:"id"`
	Title    string             `json:"title,omitempty" yaml:"title,omitempty"`
	Speakers map[string]Speaker `json:"speakers,omitempty" yaml:"speakers,omitempty"`
}

// SpeakerKeys returns the speaker mapping keys in sorted order.
func (p *Project) SpeakerKeys() []string {
	if p == nil {
		return nil
	}
	keys := make([]string, 0, len(p.Speakers))
	for k := range p.Speakers {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ResolveSpeaker maps a speaker key to its display name. Unknown keys resolve
// to the key itself; an empty key resolves to "Unknown".
func (p *Project) ResolveSpeaker(key string) string {
	if key == "" {
		return UnknownSpeaker
	}
	if p != nil {
		if s, ok := p.Speakers[key]; ok && s.Name != "" {
			return s.Name
		}
	}
	return key
}

// DisplayID returns the first eight characters of the project ID, or "N/A".
func (p *Project) DisplayID() string {
	if p == nil || p.ID == "" {
		return NotAvailable
	}
	if utf8.RuneCountInString(p.ID) <= 8 {
		return p.ID
	}
	return string([]rune(p.ID)[:8])
}

// Visual references a parameterised illustration attached to a slide.
type Visual struct {
	Type   string `json:"type,omitempty" yaml:"type,omitempty"`
	Params Params `json:"params,omitempty" yaml:"params,omitempty"`
}

// Signature renders the visual as "type(p1, p2)".
func (v Visual) Signature() string {
	return v.Type + "(" + strings.Join(v.Params, ", ") + ")"
}

// Slide is one unit of lesson content.
type Slide struct {
	Speaker        string   `json:"speaker" yaml:"speaker"`
	Title          string   `json:"title,omitempty" yaml:"title,omitempty"`
	Content        string   `json:"content,omitempty" yaml:"content,omitempty"`
	Content2       string   `json:"content2,omitempty" yaml:"content2,omitempty"`
	Narration      string   `json:"narration,omitempty" yaml:"narration,omitempty"`
	VisualDuration *float64 `json:"visualDuration,omitempty" yaml:"visualDuration,omitempty"`
	IsComplex      bool     `json:"isComplex,omitempty" yaml:"isComplex,omitempty"`
	Visual         *Visual  `json:"visual,omitempty" yaml:"visual,omitempty"`
}

// Duration returns the slide duration in seconds, defaulting to 4.
func (s Slide) Duration() float64 {
	if s.VisualDuration == nil {
		return DefaultVisualDuration
	}
	return *s.VisualDuration
}

// HasDuration reports whether the slide carries an explicit duration.
func (s Slide) HasDuration() bool {
	return s.VisualDuration != nil
}

// DisplayTitle returns the slide title or "Untitled".
func (s Slide) DisplayTitle() string {
	if strings.TrimSpace(s.Title) == "" {
		return UntitledSlide
	}
	return s.Title
}

// SpeakerKey returns the raw speaker key or "Unknown".
func (s Slide) SpeakerKey() string {
	if s.Speaker == "" {
		return UnknownSpeaker
	}
	return s.Speaker
}

// VisualType returns the visual function type, or "" when the slide has none.
func (s Slide) VisualType() string {
	if s.Visual == nil {
		return ""
	}
	return s.Visual.Type
}

// Seconds is a convenience for building a VisualDuration value.
func Seconds(v float64) *float64 {
	return &v
}

// Lesson is the envelope read from files, documents, and API requests.
type Lesson struct {
	Project Project `json:"project" yaml:"project"`
	Slides  []Slide `json:"slides" yaml:"slides"`
}

// DocumentTitle resolves the report title: project title, then the first
// slide title, then "Educational Script".
func DocumentTitle(p *Project, slides []Slide) string {
	if p != nil && strings.TrimSpace(p.Title) != "" {
		return p.Title
	}
	if len(slides) > 0 && strings.TrimSpace(slides[0].Title) != "" {
		return slides[0].Title
	}
	return DefaultDocTitle
}

// DefaultID sets the project ID to id when the lesson carries none.
func (p *Project) DefaultID(id string) {
	if p.ID == "" {
		p.ID = id
	}
}
