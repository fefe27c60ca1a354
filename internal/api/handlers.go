package api

import (
	"errors"
	"io"
	"net/http"

	"github.com/abhisek/edututor/internal/extract"
	"github.com/abhisek/edututor/internal/quiz"
	"github.com/abhisek/edututor/internal/tutor"
)

type roleRequest struct {
	Role string `json:"role"`
}

type personalizeRequest struct {
	Content    string `json:"content"`
	Difficulty string `json:"difficulty"`

	// Full personalizes the whole content instead of the preview prefix.
	Full bool `json:"full"`
}

type personalizeResponse struct {
	Personalized string `json:"personalized"`
}

type quizRequest struct {
	Content string `json:"content"`
	Count   int    `json:"count"`
}

type textRequest struct {
	Text string `json:"text"`
}

type simplifyResponse struct {
	Simplified string `json:"simplified"`
}

type processResponse struct {
	Simplified string     `json:"simplified"`
	Quiz       quiz.Batch `json:"quiz"`
	Warning    string     `json:"warning,omitempty"`
}

type askRequest struct {
	Question string `json:"question"`
}

type askResponse struct {
	Answer       string           `json:"answer"`
	Conversation []tutor.Exchange `json:"conversation"`
}

type gradeRequest struct {
	Answers quiz.Answers `json:"answers"`
}

type uploadResponse struct {
	Text     string `json:"text"`
	MIMEType string `json:"mime_type"`
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleSession(w http.ResponseWriter, _ *http.Request, e *entry) {
	writeJSON(w, http.StatusOK, e.sess)
}

// handleRole switches role, discarding everything in the session.
func (s *Server) handleRole(w http.ResponseWriter, r *http.Request, e *entry) {
	var req roleRequest
	if !s.decode(w, r, "role", &req) {
		return
	}
	role, _ := tutor.ParseRole(req.Role)
	e.sess = e.sess.Reset(role)
	writeJSON(w, http.StatusOK, e.sess)
}

func (s *Server) handlePersonalize(w http.ResponseWriter, r *http.Request, e *entry) {
	var req personalizeRequest
	if !s.decode(w, r, "personalize", &req) {
		return
	}

	if req.Full {
		out, err := s.svc.Personalize(r.Context(), req.Content, req.Difficulty)
		if err != nil {
			fail(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, personalizeResponse{Personalized: out})
		return
	}

	next, err := s.svc.PreviewPersonalized(r.Context(), e.sess.WithTeacherContent(req.Content), req.Difficulty)
	if err != nil {
		fail(w, r, err)
		return
	}
	e.sess = next
	writeJSON(w, http.StatusOK, personalizeResponse{Personalized: next.Preview})
}

// handleQuiz builds the teacher quiz. Content in the request replaces the
// session's teacher content; without it the stored content is used.
func (s *Server) handleQuiz(w http.ResponseWriter, r *http.Request, e *entry) {
	var req quizRequest
	if !s.decode(w, r, "quiz", &req) {
		return
	}
	n := req.Count
	if n == 0 {
		n = s.svc.Config().DefaultQuestions
	}

	sess := e.sess
	if req.Content != "" {
		sess = sess.WithTeacherContent(req.Content)
	}
	next, err := s.svc.TeacherQuiz(r.Context(), sess, n)
	if err != nil {
		fail(w, r, err)
		return
	}
	e.sess = next

	if err := next.TeacherQuiz.Err(); err != nil {
		writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
			Error: err.Error(),
			Raw:   next.TeacherQuiz.Raw,
		})
		return
	}
	writeJSON(w, http.StatusOK, next.TeacherQuiz)
}

func (s *Server) handleSimplify(w http.ResponseWriter, r *http.Request, _ *entry) {
	var req textRequest
	if !s.decode(w, r, "simplify", &req) {
		return
	}
	out, err := s.svc.Simplify(r.Context(), req.Text)
	if err != nil {
		fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, simplifyResponse{Simplified: out})
}

// handleProcess simplifies the student's text and quizzes them on it.
// Without text in the request the last uploaded or submitted text is used.
func (s *Server) handleProcess(w http.ResponseWriter, r *http.Request, e *entry) {
	var req textRequest
	if !s.decode(w, r, "process", &req) {
		return
	}

	sess := e.sess
	if req.Text != "" {
		sess = sess.WithStudentText(req.Text)
	}
	next, err := s.svc.ProcessStudentText(r.Context(), sess)
	if err != nil {
		fail(w, r, err)
		return
	}
	e.sess = next

	resp := processResponse{Simplified: next.Simplified, Quiz: next.StudentQuiz}
	if err := next.StudentQuiz.Err(); err != nil {
		resp.Warning = err.Error()
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request, e *entry) {
	var req askRequest
	if !s.decode(w, r, "ask", &req) {
		return
	}
	next, err := s.svc.Ask(r.Context(), e.sess, req.Question)
	if err != nil {
		fail(w, r, err)
		return
	}
	e.sess = next

	last := next.Conversation[len(next.Conversation)-1]
	writeJSON(w, http.StatusOK, askResponse{Answer: last.Answer, Conversation: next.Conversation})
}

func (s *Server) handleGrade(w http.ResponseWriter, r *http.Request, e *entry) {
	var req gradeRequest
	if !s.decode(w, r, "grade", &req) {
		return
	}
	next, err := s.svc.Submit(e.sess, req.Answers)
	if err != nil {
		fail(w, r, err)
		return
	}
	e.sess = next
	writeJSON(w, http.StatusOK, next.Result)
}

// handleUpload extracts text from a multipart "file" field and stores it
// as the student's text.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request, e *entry) {
	if limit := s.cfg.MaxUploadBytes; limit > 0 {
		if r.ContentLength > limit {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, limit)
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			writeError(w, http.StatusRequestEntityTooLarge, "upload too large")
			return
		}
		writeError(w, http.StatusBadRequest, "missing file field")
		return
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		writeError(w, http.StatusBadRequest, "could not read upload")
		return
	}

	declared := header.Header.Get("Content-Type")
	text, err := extract.Document(data, declared)
	if err != nil {
		fail(w, r, err)
		return
	}
	e.sess = e.sess.WithStudentText(text)

	kind := declared
	if kind == "" || kind == "application/octet-stream" {
		kind = extract.Detect(data)
	}
	writeJSON(w, http.StatusOK, uploadResponse{Text: text, MIMEType: kind})
}
