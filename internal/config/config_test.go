package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/abhisek/edututor/internal/api"
	"github.com/abhisek/edututor/internal/llm"
	"github.com/abhisek/edututor/internal/tutor"
)

const sample = `
llm:
  provider: openai
  model: gpt-4o
  base_url: http://localhost:8080/v1
  timeout: 30s
  max_attempts: 5
tutor:
  default_questions: 4
  max_questions: 8
  difficulty: hard
  preview_chars: 120
  temperature: 0
server:
  addr: ":9090"
  session_secret: s3cret
  secure_cookie: true
  max_upload_bytes: 1048576
`

func TestParse(t *testing.T) {
	f, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if f.LLM.Provider != "openai" {
		t.Errorf("LLM.Provider = %q", f.LLM.Provider)
	}
	if f.LLM.Timeout != 30*time.Second {
		t.Errorf("LLM.Timeout = %v", f.LLM.Timeout)
	}
	if f.Tutor.DefaultQuestions != 4 {
		t.Errorf("Tutor.DefaultQuestions = %d", f.Tutor.DefaultQuestions)
	}
	if f.Tutor.Temperature == nil || *f.Tutor.Temperature != 0 {
		t.Errorf("an explicit zero temperature must be kept, got %v", f.Tutor.Temperature)
	}
	if f.Tutor.QuizTemperature != nil {
		t.Errorf("QuizTemperature = %v, want unset", *f.Tutor.QuizTemperature)
	}
	if f.Server.Addr != ":9090" {
		t.Errorf("Server.Addr = %q", f.Server.Addr)
	}
}

func TestParse_Empty(t *testing.T) {
	f, err := Parse(nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(f, File{}) {
		t.Errorf("expected zero File, got %+v", f)
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "llm:\n  providr: openai\n"},
		{"unknown section", "database:\n  path: x\n"},
		{"multiple documents", "llm:\n  provider: openai\n---\nllm:\n  provider: gemini\n"},
		{"default above max", "tutor:\n  default_questions: 9\n  max_questions: 5\n"},
		{"negative count", "tutor:\n  max_questions: -1\n"},
		{"bad duration", "llm:\n  timeout: soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse([]byte(tt.yaml)); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestLoad(t *testing.T) {
	f, err := Load("")
	if err != nil {
		t.Fatalf("empty path: %v", err)
	}
	if !reflect.DeepEqual(f, File{}) {
		t.Errorf("empty path should give a zero File, got %+v", f)
	}

	path := filepath.Join(t.TempDir(), "edututor.yaml")
	if err := os.WriteFile(path, []byte(sample), 0o644); err != nil {
		t.Fatal(err)
	}
	f, err = Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if f.Tutor.Difficulty != "hard" {
		t.Errorf("Tutor.Difficulty = %q", f.Tutor.Difficulty)
	}

	if _, err := Load(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("expected error for a missing file")
	}
}

func TestApply(t *testing.T) {
	f, err := Parse([]byte(sample))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	lc := llm.DefaultConfig()
	f.ApplyLLM(&lc)
	if lc.Provider != "openai" || lc.OpenAI.Model != "gpt-4o" || lc.OpenAI.BaseURL != "http://localhost:8080/v1" {
		t.Errorf("OpenAI settings not applied: provider=%q model=%q base=%q", lc.Provider, lc.OpenAI.Model, lc.OpenAI.BaseURL)
	}
	if lc.OpenRouter.Model != "meta-llama/llama-3.3-8b-instruct:free" {
		t.Errorf("model leaked into another provider: %q", lc.OpenRouter.Model)
	}
	if lc.Timeout != 30*time.Second || lc.Retry.MaxAttempts != 5 {
		t.Errorf("timeout=%v attempts=%d, want 30s and 5", lc.Timeout, lc.Retry.MaxAttempts)
	}

	tc := tutor.DefaultConfig()
	f.ApplyTutor(&tc)
	if tc.DefaultQuestions != 4 || tc.MaxQuestions != 8 {
		t.Errorf("question counts = %d/%d, want 4/8", tc.DefaultQuestions, tc.MaxQuestions)
	}
	if tc.Difficulty != "hard" || tc.PreviewChars != 120 {
		t.Errorf("difficulty=%q preview=%d", tc.Difficulty, tc.PreviewChars)
	}
	if tc.Temperature != 0 {
		t.Errorf("Temperature = %v, want 0", tc.Temperature)
	}
	if tc.QuizTemperature != 0.4 {
		t.Errorf("QuizTemperature = %v, want the 0.4 default", tc.QuizTemperature)
	}

	ac := api.DefaultConfig()
	f.ApplyServer(&ac)
	if ac.Addr != ":9090" || ac.SessionSecret != "s3cret" || !ac.SecureCookie || ac.MaxUploadBytes != 1048576 {
		t.Errorf("server settings not applied: %+v", ac)
	}
}

func TestApply_EmptyFileKeepsDefaults(t *testing.T) {
	var f File

	lc := llm.DefaultConfig()
	f.ApplyLLM(&lc)
	if !reflect.DeepEqual(lc, llm.DefaultConfig()) {
		t.Errorf("llm defaults changed: %+v", lc)
	}

	tc := tutor.DefaultConfig()
	f.ApplyTutor(&tc)
	if !reflect.DeepEqual(tc, tutor.DefaultConfig()) {
		t.Errorf("tutor defaults changed: %+v", tc)
	}

	ac := api.DefaultConfig()
	f.ApplyServer(&ac)
	if !reflect.DeepEqual(ac, api.DefaultConfig()) {
		t.Errorf("server defaults changed: %+v", ac)
	}
}
