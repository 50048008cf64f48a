package taskscase

import (
	"fmt"
	"sort"
	"strings"

	"github.com/jrazmi/tasktracker/sdk/validation"
)

// Field limits, counted in characters.
const (
	MaxTitleLength       = 200
	MaxDescriptionLength = 2000
)

// FieldErrors is returned when input fails validation. Keys are the field
// names used on the wire.
type FieldErrors map[string]string

func (fe FieldErrors) Error() string {
	keys := make([]string, 0, len(fe))
	for k := range fe {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s: %s", k, fe[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func validateTitle(fe FieldErrors, title string) string {
	title = strings.TrimSpace(title)
	switch {
	case title == "":
		fe["title"] = "must not be empty"
	case !validation.MaxRunes(title, MaxTitleLength):
		fe["title"] = fmt.Sprintf("must be at most %d characters", MaxTitleLength)
	}
	return title
}

func validateDescription(fe FieldErrors, desc *string) *string {
	desc = validation.TrimPtr(desc)
	if desc != nil && !validation.MaxRunes(*desc, MaxDescriptionLength) {
		fe["description"] = fmt.Sprintf("must be at most %d characters", MaxDescriptionLength)
	}
	return desc
}

// normalize trims nt and checks its bounds.
func (nt NewTask) normalize() (NewTask, error) {
	fe := FieldErrors{}
	nt.Title = validateTitle(fe, nt.Title)
	nt.Description = validateDescription(fe, nt.Description)
	if len(fe) > 0 {
		return NewTask{}, fe
	}
	return nt, nil
}

// normalize trims the supplied fields of p and checks their bounds.
func (p Patch) normalize() (Patch, error) {
	fe := FieldErrors{}
	if p.Title != nil {
		title := validateTitle(fe, *p.Title)
		p.Title = &title
	}
	p.Description = validateDescription(fe, p.Description)
	if len(fe) > 0 {
		return Patch{}, fe
	}
	return p, nil
}
