package recipe

import (
	"errors"
	"fmt"
	"strings"

	"github.com/rambo1111/sous-chef-bot/internal/database"
)

// ErrMalformed marks payloads that don't match the expected command grammar.
// Callers reply with a format hint and mutate nothing.
var ErrMalformed = errors.New("malformed payload")

// Health metric keys as stored in the preference record.
const (
	KeyBloodPressure = "blood_pressure"
	KeyBloodSugar    = "blood_sugar"
	KeyCholesterol   = "cholesterol"
)

// healthKeyAliases maps accepted payload keys to canonical metric names.
var healthKeyAliases = map[string]string{
	"bp":             KeyBloodPressure,
	"blood_pressure": KeyBloodPressure,
	"pressure":       KeyBloodPressure,
	"sugar":          KeyBloodSugar,
	"blood_sugar":    KeyBloodSugar,
	"chol":           KeyCholesterol,
	"cholesterol":    KeyCholesterol,
}

// healthLabels maps canonical option values to their display labels.
var healthLabels = map[string]map[string]string{
	KeyBloodPressure: {
		"normal":      "Normal (120/80)",
		"elevated":    "Elevated (120-129/80)",
		"high_stage1": "High Stage 1 (130-139/80-89)",
		"high_stage2": "High Stage 2 (140+/90+)",
	},
	KeyBloodSugar: {
		"normal":      "Normal (70-100 mg/dL)",
		"prediabetic": "Prediabetic (100-125 mg/dL)",
		"diabetic":    "Diabetic (126+ mg/dL)",
	},
	KeyCholesterol: {
		"normal":     "Normal (Less than 200 mg/dL)",
		"borderline": "Borderline (200-239 mg/dL)",
		"high":       "High (240+ mg/dL)",
	},
}

// HealthLabel returns the display label for a stored metric value. Values
// outside the canonical option set (free-form readings like "120/80") are
// returned as-is.
func HealthLabel(metric, value string) string {
	if labels, ok := healthLabels[metric]; ok {
		if label, ok := labels[value]; ok {
			return label
		}
	}
	return value
}

// ParseHealthPayload parses a comma-separated list of key:value pairs into a
// typed partial update, e.g. "bp:120/80, sugar:normal". Keys are restricted
// to the known metrics (with aliases); values are free-form readings or one
// of the canonical option names.
func ParseHealthPayload(payload string) (database.HealthUpdate, error) {
	var update database.HealthUpdate

	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return update, fmt.Errorf("%w: empty health payload", ErrMalformed)
	}

	for _, part := range strings.Split(trimmed, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}

		key, value, found := strings.Cut(part, ":")
		if !found {
			return database.HealthUpdate{}, fmt.Errorf("%w: %q is not a key:value pair", ErrMalformed, part)
		}

		metric, ok := healthKeyAliases[strings.ToLower(strings.TrimSpace(key))]
		if !ok {
			return database.HealthUpdate{}, fmt.Errorf("%w: unknown health metric %q", ErrMalformed, strings.TrimSpace(key))
		}

		value = strings.TrimSpace(value)
		if value == "" {
			return database.HealthUpdate{}, fmt.Errorf("%w: empty value for %q", ErrMalformed, metric)
		}
		if normalized := normalizeHealthValue(metric, value); normalized != "" {
			value = normalized
		}

		switch metric {
		case KeyBloodPressure:
			update.BloodPressure = &value
		case KeyBloodSugar:
			update.BloodSugar = &value
		case KeyCholesterol:
			update.Cholesterol = &value
		}
	}

	if update.IsZero() {
		return database.HealthUpdate{}, fmt.Errorf("%w: no health metrics in payload", ErrMalformed)
	}

	return update, nil
}

// normalizeHealthValue maps a value to its canonical option name when it
// matches one case-insensitively, otherwise returns "".
func normalizeHealthValue(metric, value string) string {
	lowered := strings.ToLower(strings.ReplaceAll(value, " ", "_"))
	if _, ok := healthLabels[metric][lowered]; ok {
		return lowered
	}
	return ""
}

// ParseDietPayload parses the /diet payload. The grammar is a restriction
// list optionally followed by "; allergies: <list>", e.g.
// "vegan, keto; allergies: nuts, dairy". The literal "none" clears a part.
func ParseDietPayload(payload string) (restrictions, allergies string, err error) {
	trimmed := strings.TrimSpace(payload)
	if trimmed == "" {
		return "", "", fmt.Errorf("%w: empty diet payload", ErrMalformed)
	}

	restrictionsPart := trimmed
	allergiesPart := ""
	if before, after, found := strings.Cut(trimmed, ";"); found {
		restrictionsPart = before
		allergiesPart = after
	}

	// The restrictions part may itself carry a "restrictions:" prefix.
	restrictionsPart = stripLabel(restrictionsPart, "restrictions")
	restrictions = normalizeLabelList(restrictionsPart)

	if allergiesPart != "" {
		stripped := stripLabel(allergiesPart, "allergies")
		if stripped == strings.TrimSpace(allergiesPart) {
			return "", "", fmt.Errorf("%w: expected \"allergies:\" after \";\"", ErrMalformed)
		}
		allergies = normalizeLabelList(stripped)
	}

	return restrictions, allergies, nil
}

func stripLabel(s, label string) string {
	trimmed := strings.TrimSpace(s)
	if len(trimmed) >= len(label)+1 && strings.EqualFold(trimmed[:len(label)], label) && trimmed[len(label)] == ':' {
		return strings.TrimSpace(trimmed[len(label)+1:])
	}
	return trimmed
}

// normalizeLabelList trims each comma-separated label and drops empties.
// "none" (the explicit empty marker) yields "".
func normalizeLabelList(s string) string {
	if strings.EqualFold(strings.TrimSpace(s), "none") {
		return ""
	}

	var labels []string
	for _, label := range strings.Split(s, ",") {
		label = strings.TrimSpace(label)
		if label != "" {
			labels = append(labels, label)
		}
	}
	return strings.Join(labels, ", ")
}
