package models

import (
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"
)

var (
	// ErrInvalidJSON is returned when the export body is not JSON.
	ErrInvalidJSON = errors.New("signals export is not valid JSON")
	// ErrNotObject is returned when the export's top level is not an object.
	ErrNotObject = errors.New("signals export is not a JSON object")
)

// ParseDocument parses a signals_by_theme export. Object key order is kept.
// Malformed nested units are skipped and listed in Document.Issues; only a
// body that is not JSON or not an object fails the parse.
func ParseDocument(data []byte) (*Document, error) {
	if !gjson.ValidBytes(data) {
		return nil, ErrInvalidJSON
	}
	root := gjson.ParseBytes(data)
	if !root.IsObject() {
		return nil, ErrNotObject
	}

	doc := &Document{}
	// Issues are kept per theme so a replaced duplicate takes its issues with it.
	var issues []issueList
	seen := make(map[string]int)
	root.ForEach(func(key, value gjson.Result) bool {
		name := key.String()
		theme, themeIssues := parseTheme(name, value)
		// A repeated key keeps its first position and its last value.
		if i, ok := seen[name]; ok {
			doc.Themes[i] = theme
			issues[i] = themeIssues
			return true
		}
		seen[name] = len(doc.Themes)
		doc.Themes = append(doc.Themes, theme)
		issues = append(issues, themeIssues)
		return true
	})
	for _, list := range issues {
		doc.Issues = append(doc.Issues, list...)
	}
	return doc, nil
}

type issueList []Issue

func (l *issueList) add(path, format string, args ...any) {
	*l = append(*l, Issue{Path: path, Reason: fmt.Sprintf(format, args...)})
}

func parseTheme(name string, value gjson.Result) (Theme, issueList) {
	theme := Theme{Name: name}
	var issues issueList
	if !value.IsArray() {
		issues.add(name, "theme value is %s, not an array", kind(value))
		return theme, issues
	}
	for i, group := range value.Array() {
		path := fmt.Sprintf("%s[%d]", name, i)
		if !group.IsObject() {
			issues.add(path, "raw group is %s, not an object", kind(group))
			continue
		}
		groups, groupIssues := parseGroup(path, group)
		theme.Groups = append(theme.Groups, groups...)
		issues = append(issues, groupIssues...)
	}
	return theme, issues
}

// labelSlot is one raw label of a group; a nil group means the value was
// not an array.
type labelSlot struct {
	group  *RawGroup
	issues issueList
}

func parseGroup(path string, group gjson.Result) ([]RawGroup, issueList) {
	var slots []labelSlot
	seen := make(map[string]int)
	group.ForEach(func(key, value gjson.Result) bool {
		label := key.String()
		slot := parseLabel(label, path+"."+label, value)
		// Same rule as theme keys: first position, last value.
		if i, ok := seen[label]; ok {
			slots[i] = slot
			return true
		}
		seen[label] = len(slots)
		slots = append(slots, slot)
		return true
	})

	var groups []RawGroup
	var issues issueList
	for _, slot := range slots {
		if slot.group != nil {
			groups = append(groups, *slot.group)
		}
		issues = append(issues, slot.issues...)
	}
	return groups, issues
}

func parseLabel(label, path string, value gjson.Result) labelSlot {
	var slot labelSlot
	if !value.IsArray() {
		slot.issues.add(path, "signals value is %s, not an array", kind(value))
		return slot
	}
	entries := value.Array()
	rg := RawGroup{Label: label, Count: len(entries)}
	for j, entry := range entries {
		if !entry.IsObject() {
			slot.issues.add(fmt.Sprintf("%s[%d]", path, j), "signal is %s, not an object", kind(entry))
			continue
		}
		rg.Signals = append(rg.Signals, parseSignal(entry))
	}
	slot.group = &rg
	return slot
}

func parseSignal(obj gjson.Result) Signal {
	label := strings.TrimSpace(text(obj.Get("priority")))
	return Signal{
		Ask:             text(obj.Get("ask")),
		Priority:        ResolvePriority(label),
		PriorityLabel:   label,
		TranscriptID:    truthy(obj.Get("transcript_id")),
		TranscriptTitle: text(obj.Get("transcript_title")),
		Started:         text(obj.Get("started")),
		Evidence:        text(obj.Get("evidence")),
	}
}

// text renders a field as display text; missing and null fields are empty.
func text(r gjson.Result) string {
	if !r.Exists() || r.Type == gjson.Null {
		return ""
	}
	return r.String()
}

// truthy returns the field's text only when the exported value is truthy:
// false, null, 0 and "" all yield "".
func truthy(r gjson.Result) string {
	switch r.Type {
	case gjson.Null, gjson.False:
		return ""
	case gjson.Number:
		if r.Num == 0 {
			return ""
		}
		return r.Raw
	case gjson.String:
		return r.Str
	case gjson.True:
		return "true"
	default:
		return r.Raw
	}
}

func kind(r gjson.Result) string {
	switch {
	case !r.Exists():
		return "missing"
	case r.IsArray():
		return "an array"
	case r.IsObject():
		return "an object"
	}
	switch r.Type {
	case gjson.Null:
		return "null"
	case gjson.String:
		return "a string"
	case gjson.Number:
		return "a number"
	default:
		return "a boolean"
	}
}
