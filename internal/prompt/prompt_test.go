package prompt

import (
	"strings"
	"testing"
)

func TestNormalizeDefaults(t *testing.T) {
	o := Options{}
	o.Normalize("Korean", "default")
	if o.TargetLang != "Korean" || o.Mode != ModeTranslate || o.Tone != "default" {
		t.Fatalf("unexpected normalized options: %+v", o)
	}
}

func TestNormalizeKeepsExplicitValues(t *testing.T) {
	o := Options{TargetLang: "Japanese", Mode: ModeInterpret, Tone: "business"}
	o.Normalize("Korean", "default")
	if o.TargetLang != "Japanese" || o.Mode != ModeInterpret || o.Tone != "business" {
		t.Fatalf("normalize overwrote explicit options: %+v", o)
	}
}

func TestValidateRejectsUnknownMode(t *testing.T) {
	o := Options{TargetLang: "Korean", Mode: "summarize"}
	if err := o.Validate(); err == nil {
		t.Fatal("expected error for unknown mode")
	}
	o.Mode = ModeTranslate
	if err := o.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestBuildTranslate(t *testing.T) {
	o := Options{TargetLang: "English", Mode: ModeTranslate, Tone: "polite", KeepFormat: true}
	p := o.Build("안녕하세요")
	if !strings.Contains(p, "Translate the following content into natural English.") {
		t.Fatalf("missing translate instruction: %q", p)
	}
	if !strings.Contains(p, `"polite"`) {
		t.Fatalf("missing tone instruction: %q", p)
	}
	if !strings.Contains(p, "Preserve the original line breaks") {
		t.Fatalf("missing format instruction: %q", p)
	}
	if !strings.HasSuffix(p, "안녕하세요") {
		t.Fatalf("source text must end the prompt: %q", p)
	}
}

func TestBuildInterpretDefaultTone(t *testing.T) {
	o := Options{TargetLang: "Korean", Mode: ModeInterpret, Tone: ToneDefault}
	p := o.Build("text")
	if !strings.Contains(p, "Interpret the following content in Korean") {
		t.Fatalf("missing interpret instruction: %q", p)
	}
	if strings.Contains(p, "Match the tone") {
		t.Fatalf("default tone must not add a tone line: %q", p)
	}
}

func TestBuildImageFormatTemplate(t *testing.T) {
	o := Options{TargetLang: "Vietnamese", Mode: ModeTranslate, Tone: "casual"}
	p := o.BuildImage()
	for _, want := range []string{"OCR", "[extracted text]", "[result]", "Vietnamese", `"casual"`} {
		if !strings.Contains(p, want) {
			t.Fatalf("image prompt missing %q: %q", want, p)
		}
	}
}
