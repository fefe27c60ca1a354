// Package config reads the optional YAML configuration file. Values in
// the file override built-in defaults; environment variables and flags
// are applied on top by the caller.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/abhisek/edututor/internal/api"
	"github.com/abhisek/edututor/internal/llm"
	"github.com/abhisek/edututor/internal/tutor"
)

// File is the shape of edututor.yaml. Zero values mean "not set".
// API keys are read from the environment only.
type File struct {
	LLM    LLM    `yaml:"llm"`
	Tutor  Tutor  `yaml:"tutor"`
	Server Server `yaml:"server"`
}

// LLM configures the completion provider.
type LLM struct {
	Provider    string        `yaml:"provider"`
	Model       string        `yaml:"model"`
	BaseURL     string        `yaml:"base_url"`
	Timeout     time.Duration `yaml:"timeout"`
	MaxAttempts int           `yaml:"max_attempts"`
}

// Tutor configures quiz sizes and generation parameters.
type Tutor struct {
	DefaultQuestions int      `yaml:"default_questions"`
	MaxQuestions     int      `yaml:"max_questions"`
	Difficulty       string   `yaml:"difficulty"`
	PreviewChars     int      `yaml:"preview_chars"`
	Model            string   `yaml:"model"`
	TextMaxTokens    int      `yaml:"text_max_tokens"`
	QuizMaxTokens    int      `yaml:"quiz_max_tokens"`
	Temperature      *float64 `yaml:"temperature"`
	QuizTemperature  *float64 `yaml:"quiz_temperature"`
}

// Server configures `edututor serve`.
type Server struct {
	Addr           string `yaml:"addr"`
	SessionSecret  string `yaml:"session_secret"`
	SecureCookie   *bool  `yaml:"secure_cookie"`
	MaxUploadBytes int64  `yaml:"max_upload_bytes"`
}

// Load reads and parses the file at path. An empty path yields an empty
// File.
func Load(path string) (File, error) {
	if path == "" {
		return File{}, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return File{}, fmt.Errorf("read config: %w", err)
	}
	return Parse(data)
}

// Parse decodes a single YAML document, rejecting unknown keys.
func Parse(data []byte) (File, error) {
	var f File
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(&f); err != nil {
		if errors.Is(err, io.EOF) {
			return File{}, nil
		}
		return File{}, fmt.Errorf("parse config: %w", err)
	}
	if err := decoder.Decode(&struct{}{}); err != io.EOF {
		if err == nil {
			return File{}, fmt.Errorf("parse config: multiple YAML documents are not supported")
		}
		return File{}, fmt.Errorf("parse config: %w", err)
	}
	if err := f.validate(); err != nil {
		return File{}, fmt.Errorf("parse config: %w", err)
	}
	return f, nil
}

func (f File) validate() error {
	if f.Tutor.DefaultQuestions < 0 || f.Tutor.MaxQuestions < 0 {
		return fmt.Errorf("tutor: question counts must not be negative")
	}
	if f.Tutor.MaxQuestions > 0 && f.Tutor.DefaultQuestions > f.Tutor.MaxQuestions {
		return fmt.Errorf("tutor: default_questions %d exceeds max_questions %d",
			f.Tutor.DefaultQuestions, f.Tutor.MaxQuestions)
	}
	if f.LLM.Timeout < 0 {
		return fmt.Errorf("llm: timeout must not be negative")
	}
	if f.Server.MaxUploadBytes < 0 {
		return fmt.Errorf("server: max_upload_bytes must not be negative")
	}
	return nil
}

// ApplyLLM overlays the llm section onto cfg. The model and base URL go
// to whichever provider the resulting config selects.
func (f File) ApplyLLM(cfg *llm.Config) {
	l := f.LLM
	if l.Provider != "" {
		cfg.Provider = l.Provider
	}
	if l.Timeout > 0 {
		cfg.Timeout = l.Timeout
	}
	if l.MaxAttempts > 0 {
		cfg.Retry.MaxAttempts = l.MaxAttempts
	}
	if l.Model != "" {
		switch cfg.Provider {
		case "openrouter":
			cfg.OpenRouter.Model = l.Model
		case "openai":
			cfg.OpenAI.Model = l.Model
		case "anthropic":
			cfg.Anthropic.Model = l.Model
		case "gemini":
			cfg.Gemini.Model = l.Model
		}
	}
	if l.BaseURL != "" {
		switch cfg.Provider {
		case "openrouter":
			cfg.OpenRouter.BaseURL = l.BaseURL
		case "openai":
			cfg.OpenAI.BaseURL = l.BaseURL
		}
	}
}

// ApplyTutor overlays the tutor section onto cfg.
func (f File) ApplyTutor(cfg *tutor.Config) {
	t := f.Tutor
	if t.DefaultQuestions > 0 {
		cfg.DefaultQuestions = t.DefaultQuestions
	}
	if t.MaxQuestions > 0 {
		cfg.MaxQuestions = t.MaxQuestions
	}
	if t.Difficulty != "" {
		cfg.Difficulty = t.Difficulty
	}
	if t.PreviewChars > 0 {
		cfg.PreviewChars = t.PreviewChars
	}
	if t.Model != "" {
		cfg.Model = t.Model
	}
	if t.TextMaxTokens > 0 {
		cfg.TextMaxTokens = t.TextMaxTokens
	}
	if t.QuizMaxTokens > 0 {
		cfg.QuizMaxTokens = t.QuizMaxTokens
	}
	if t.Temperature != nil {
		cfg.Temperature = *t.Temperature
	}
	if t.QuizTemperature != nil {
		cfg.QuizTemperature = *t.QuizTemperature
	}
}

// ApplyServer overlays the server section onto cfg.
func (f File) ApplyServer(cfg *api.Config) {
	s := f.Server
	if s.Addr != "" {
		cfg.Addr = s.Addr
	}
	if s.SessionSecret != "" {
		cfg.SessionSecret = s.SessionSecret
	}
	if s.SecureCookie != nil {
		cfg.SecureCookie = *s.SecureCookie
	}
	if s.MaxUploadBytes > 0 {
		cfg.MaxUploadBytes = s.MaxUploadBytes
	}
}
