// Package prompt assembles the instruction text sent to the model. One
// builder with options replaces per-feature prompt forks: text, file and
// image requests all share the same language/mode/tone knobs.
package prompt

import (
	"fmt"
	"strings"

	"transmate/internal/apperrors"
)

// Mode selects between literal translation and meaning-focused interpretation.
type Mode string

const (
	ModeTranslate Mode = "translate"
	ModeInterpret Mode = "interpret"
)

// ToneDefault leaves tone unconstrained; any other value is quoted into the prompt.
const ToneDefault = "default"

// Options carries the user-selected prompt parameters.
type Options struct {
	TargetLang string
	Mode       Mode
	Tone       string
	KeepFormat bool
}

// Normalize fills empty fields from the supplied defaults.
func (o *Options) Normalize(defaultLang, defaultTone string) {
	if strings.TrimSpace(o.TargetLang) == "" {
		o.TargetLang = defaultLang
	}
	if o.Mode == "" {
		o.Mode = ModeTranslate
	}
	if strings.TrimSpace(o.Tone) == "" {
		o.Tone = defaultTone
	}
	if o.Tone == "" {
		o.Tone = ToneDefault
	}
}

// Validate rejects unknown modes and a missing target language.
func (o Options) Validate() error {
	if strings.TrimSpace(o.TargetLang) == "" {
		return apperrors.InvalidArgument("target_lang is required")
	}
	switch o.Mode {
	case ModeTranslate, ModeInterpret:
		return nil
	default:
		return apperrors.InvalidArgument(fmt.Sprintf("unknown mode %q (expected %q or %q)", o.Mode, ModeTranslate, ModeInterpret))
	}
}

// Build produces the full prompt for one text chunk.
func (o Options) Build(text string) string {
	var lines []string
	switch o.Mode {
	case ModeInterpret:
		lines = append(lines, fmt.Sprintf("Interpret the following content in %s so it is easy to understand. Focus on conveying the meaning rather than a word-for-word translation.", o.TargetLang))
	default:
		lines = append(lines, fmt.Sprintf("Translate the following content into natural %s.", o.TargetLang))
	}
	if o.Tone != "" && o.Tone != ToneDefault {
		lines = append(lines, fmt.Sprintf("Match the tone to %q.", o.Tone))
	}
	if o.KeepFormat {
		lines = append(lines, "Preserve the original line breaks, lists and formatting as much as possible.")
	}
	lines = append(lines, "", text)
	return strings.TrimSpace(strings.Join(lines, "\n"))
}

// BuildImage produces the OCR-and-translate prompt for an uploaded image.
// The model is asked to echo the extracted text so the user can verify it.
func (o Options) BuildImage() string {
	action := "translate it into natural " + o.TargetLang
	if o.Mode == ModeInterpret {
		action = "interpret its meaning in " + o.TargetLang
	}
	lines := []string{
		"You are an OCR and translation assistant.",
		"1) Extract the text inside the image as accurately as possible.",
		"2) Then " + action + ".",
	}
	if o.Tone != "" && o.Tone != ToneDefault {
		lines = append(lines, fmt.Sprintf("3) Match the tone to %q.", o.Tone))
		lines = append(lines, "4) Answer in the following format:")
	} else {
		lines = append(lines, "3) Answer in the following format:")
	}
	lines = append(lines,
		"",
		"[extracted text]",
		"...",
		"",
		"[result]",
		"...",
	)
	return strings.Join(lines, "\n")
}

// Summary renders the options as a short note, used when tagging vocabulary
// entries with the settings that produced a result.
func (o Options) Summary() string {
	return fmt.Sprintf("%s / %s / %s", o.TargetLang, o.Mode, o.Tone)
}
