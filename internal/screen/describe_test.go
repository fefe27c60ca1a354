package screen

import (
	"errors"
	"fmt"
	"testing"

	"github.com/abhisek/edututor/internal/llm"
	"github.com/abhisek/edututor/internal/quiz"
	"github.com/abhisek/edututor/internal/tutor"
)

func TestDescribe(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"nil", nil, ""},
		{"empty content", fmt.Errorf("wrap: %w", tutor.ErrEmptyContent), "Nothing to work with yet. Type or paste some text first."},
		{"no context", tutor.ErrNoContext, "Process some text before asking about it."},
		{"nothing parsed", fmt.Errorf("%w: 2 block(s) rejected", quiz.ErrNothingParsed), "The AI reply had no readable questions. Try again."},
		{"completion", fmt.Errorf("simplify: %w", &llm.CompletionError{Purpose: "simplify", Err: errors.New("timeout")}), "The AI service failed: timeout"},
		{"other", errors.New("boom"), "boom"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Describe(tt.err); got != tt.want {
				t.Errorf("Describe() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestWorkspace_SwitchRole(t *testing.T) {
	ws := &Workspace{}
	if ws.Ready() {
		t.Error("workspace without a tutor should not be ready")
	}

	ws.Session.StudentText = "photosynthesis"
	ws.SwitchRole(tutor.RoleTeacher)
	if ws.Session.Role != tutor.RoleTeacher {
		t.Errorf("Role = %q, want %q", ws.Session.Role, tutor.RoleTeacher)
	}
	if ws.Session.StudentText != "" {
		t.Errorf("StudentText = %q, want it cleared", ws.Session.StudentText)
	}

	var nilWS *Workspace
	if nilWS.Ready() {
		t.Error("nil workspace should not be ready")
	}
}
