package api

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/abhisek/edututor/internal/llm"
	"github.com/abhisek/edututor/internal/quiz"
	"github.com/abhisek/edututor/internal/tutor"
)

const twoQuestions = `Q1: What do plants need for photosynthesis?
A) Sunlight
B) Darkness
C) Salt
D) Sand
ANSWER: A
Q2: What gas do plants release?
A) Carbon dioxide
B) Oxygen
C) Helium
D) Neon
ANSWER: B`

func newTestServer(t *testing.T, responses ...llm.MockResponse) (*Server, *llm.MockProvider) {
	t.Helper()
	mock := llm.NewMockProvider(responses...)
	svc := tutor.NewService(llm.NewGateway(mock), tutor.DefaultConfig())
	cfg := DefaultConfig()
	cfg.SessionSecret = "test-secret-test-secret-test-sec"
	srv, err := NewServer(svc, cfg)
	require.NoError(t, err)
	return srv, mock
}

// client carries the session cookie between requests like a browser.
type client struct {
	t       *testing.T
	h       http.Handler
	cookies []*http.Cookie
}

func newClient(t *testing.T, srv *Server) *client {
	return &client{t: t, h: srv.Handler()}
}

func (c *client) send(req *http.Request) *httptest.ResponseRecorder {
	for _, ck := range c.cookies {
		req.AddCookie(ck)
	}
	rec := httptest.NewRecorder()
	c.h.ServeHTTP(rec, req)
	if cks := rec.Result().Cookies(); len(cks) > 0 {
		c.cookies = cks
	}
	return rec
}

func (c *client) do(method, path string, body any) *httptest.ResponseRecorder {
	c.t.Helper()
	var rd io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		rd = strings.NewReader(b)
	default:
		data, err := json.Marshal(b)
		require.NoError(c.t, err)
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	req.Header.Set("Content-Type", "application/json")
	return c.send(req)
}

func (c *client) upload(name string, data []byte) *httptest.ResponseRecorder {
	c.t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", name)
	require.NoError(c.t, err)
	_, err = fw.Write(data)
	require.NoError(c.t, err)
	require.NoError(c.t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/api/upload", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	return c.send(req)
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestHealth(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := newClient(t, srv).do(http.MethodGet, "/healthz", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestSession_CookieReusesSession(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newClient(t, srv)

	rec := c.do(http.MethodGet, "/api/session", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, c.cookies)

	c.do(http.MethodPost, "/api/role", roleRequest{Role: "teacher"})
	sess := decodeBody[tutor.Session](t, c.do(http.MethodGet, "/api/session", nil))
	assert.Equal(t, tutor.RoleTeacher, sess.Role)
	assert.Equal(t, 1, srv.sessions.len())

	// A second browser gets its own session.
	other := decodeBody[tutor.Session](t, newClient(t, srv).do(http.MethodGet, "/api/session", nil))
	assert.Equal(t, tutor.RoleNone, other.Role)
	assert.Equal(t, 2, srv.sessions.len())
}

func TestSession_ForeignCookieStartsFresh(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newClient(t, srv)
	c.cookies = []*http.Cookie{{Name: cookieName, Value: "forged"}}

	rec := c.do(http.MethodGet, "/api/session", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	require.NotEmpty(t, c.cookies)
	assert.NotEqual(t, "forged", c.cookies[0].Value)
}

func TestRole(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newClient(t, srv)

	rec := c.do(http.MethodPost, "/api/role", roleRequest{Role: "admin"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/api/role", `{"role":"student","extra":1}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/api/role", `{"role":`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = c.do(http.MethodPost, "/api/role", roleRequest{Role: "student"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, tutor.RoleStudent, decodeBody[tutor.Session](t, rec).Role)
}

func TestPersonalize_PreviewAndFull(t *testing.T) {
	srv, mock := newTestServer(t,
		llm.MockResponse{Content: "short preview"},
		llm.MockResponse{Content: "full rewrite"},
	)
	c := newClient(t, srv)
	content := strings.Repeat("Photosynthesis feeds plants. ", 10)

	rec := c.do(http.MethodPost, "/api/personalize", personalizeRequest{Content: content, Difficulty: "easy"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "short preview", decodeBody[personalizeResponse](t, rec).Personalized)
	assert.NotContains(t, mock.LastCall().Messages[0].Content, content)

	rec = c.do(http.MethodPost, "/api/personalize", personalizeRequest{Content: content, Full: true})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "full rewrite", decodeBody[personalizeResponse](t, rec).Personalized)
	assert.Contains(t, mock.LastCall().Messages[0].Content, content)

	rec = c.do(http.MethodPost, "/api/personalize", personalizeRequest{Content: content, Difficulty: "extreme"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestQuiz(t *testing.T) {
	srv, _ := newTestServer(t, llm.MockResponse{Content: twoQuestions})
	c := newClient(t, srv)

	rec := c.do(http.MethodPost, "/api/quiz", quizRequest{Content: "Plants.", Count: 2})
	require.Equal(t, http.StatusOK, rec.Code)
	batch := decodeBody[quiz.Batch](t, rec)
	assert.Equal(t, 2, batch.Len())
	assert.Equal(t, 2, batch.Requested)

	sess := decodeBody[tutor.Session](t, c.do(http.MethodGet, "/api/session", nil))
	assert.Equal(t, "Plants.", sess.TeacherContent)
	assert.Equal(t, 2, sess.TeacherQuiz.Len())
}

func TestQuiz_NothingParsed(t *testing.T) {
	srv, _ := newTestServer(t, llm.MockResponse{Content: "Sorry, I can't do that."})

	rec := newClient(t, srv).do(http.MethodPost, "/api/quiz", quizRequest{Content: "Plants."})
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
	body := decodeBody[errorResponse](t, rec)
	assert.Equal(t, "Sorry, I can't do that.", body.Raw)
	assert.Contains(t, body.Error, quiz.ErrNothingParsed.Error())
}

func TestQuiz_CompletionFailure(t *testing.T) {
	srv, _ := newTestServer(t) // no canned responses: provider unavailable

	rec := newClient(t, srv).do(http.MethodPost, "/api/quiz", quizRequest{Content: "Plants."})
	assert.Equal(t, http.StatusBadGateway, rec.Code)
}

func TestQuiz_Validation(t *testing.T) {
	srv, mock := newTestServer(t)
	c := newClient(t, srv)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/quiz", quizRequest{Content: "x", Count: 11}).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/quiz", `{"content":"x","count":0}`).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/quiz", `{"count":"three"}`).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/quiz", nil).Code, "no stored content")
	assert.Equal(t, 0, mock.CallCount())
}

func TestSimplify(t *testing.T) {
	srv, _ := newTestServer(t, llm.MockResponse{Content: "Plants eat light."})
	c := newClient(t, srv)

	rec := c.do(http.MethodPost, "/api/simplify", textRequest{Text: "Photosynthesis."})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Plants eat light.", decodeBody[simplifyResponse](t, rec).Simplified)

	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/simplify", `{}`).Code)
	assert.Equal(t, http.StatusBadRequest, c.do(http.MethodPost, "/api/simplify", textRequest{Text: "   "}).Code)
}

func TestStudentFlow(t *testing.T) {
	srv, _ := newTestServer(t,
		llm.MockResponse{Content: "Simple."},
		llm.MockResponse{Content: twoQuestions},
		llm.MockResponse{Content: "Chlorophyll."},
	)
	c := newClient(t, srv)

	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/api/ask", askRequest{Question: "Why?"}).Code)
	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/api/grade", gradeRequest{Answers: quiz.Answers{}}).Code)

	rec := c.do(http.MethodPost, "/api/process", textRequest{Text: "Leaves are green."})
	require.Equal(t, http.StatusOK, rec.Code)
	processed := decodeBody[processResponse](t, rec)
	assert.Equal(t, "Simple.", processed.Simplified)
	require.Equal(t, 2, processed.Quiz.Len())
	assert.Empty(t, processed.Warning)

	rec = c.do(http.MethodPost, "/api/ask", askRequest{Question: "Why green?"})
	require.Equal(t, http.StatusOK, rec.Code)
	asked := decodeBody[askResponse](t, rec)
	assert.Equal(t, "Chlorophyll.", asked.Answer)
	assert.Len(t, asked.Conversation, 1)

	answers := quiz.Answers{processed.Quiz.Questions[0].ID: "A) Sunlight"}
	rec = c.do(http.MethodPost, "/api/grade", gradeRequest{Answers: answers})
	require.Equal(t, http.StatusOK, rec.Code)
	result := decodeBody[quiz.GradeResult](t, rec)
	assert.Equal(t, 1, result.Score)
	assert.Equal(t, 2, result.Total)

	assert.Equal(t, http.StatusConflict, c.do(http.MethodPost, "/api/grade", gradeRequest{Answers: answers}).Code)
}

func TestUpload(t *testing.T) {
	srv, mock := newTestServer(t,
		llm.MockResponse{Content: "Simple."},
		llm.MockResponse{Content: twoQuestions},
	)
	c := newClient(t, srv)

	rec := c.upload("notes.txt", []byte("The water cycle moves water around."))
	require.Equal(t, http.StatusOK, rec.Code)
	up := decodeBody[uploadResponse](t, rec)
	assert.Equal(t, "The water cycle moves water around.", up.Text)
	assert.Equal(t, "text/plain", up.MIMEType)

	rec = c.do(http.MethodPost, "/api/process", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, mock.Calls[0].Messages[0].Content, "The water cycle moves water around.")
}

func TestUpload_Failures(t *testing.T) {
	srv, _ := newTestServer(t)
	c := newClient(t, srv)

	rec := c.upload("image.png", []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR"))
	assert.Equal(t, http.StatusUnsupportedMediaType, rec.Code)

	rec = c.upload("blank.txt", []byte("   "))
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	rec = c.do(http.MethodPost, "/api/upload", `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	srv.cfg.MaxUploadBytes = 16
	rec = c.upload("big.txt", bytes.Repeat([]byte("a"), 1024))
	assert.Equal(t, http.StatusRequestEntityTooLarge, rec.Code)
}

func TestMethodNotAllowed(t *testing.T) {
	srv, _ := newTestServer(t)
	rec := newClient(t, srv).do(http.MethodGet, "/api/quiz", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRegistry_EvictsIdleSessions(t *testing.T) {
	r := newRegistry(time.Hour)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	oldID, _ := r.create(start)
	newID, _ := r.create(start.Add(2 * time.Hour))

	now := start.Add(2 * time.Hour)
	_, ok := r.get(oldID, now)
	assert.False(t, ok)
	_, ok = r.get(newID, now)
	assert.True(t, ok)
	_, ok = r.get("", now)
	assert.False(t, ok)
}

func TestRegistry_GetKeepsSessionAliveAgainstCreate(t *testing.T) {
	r := newRegistry(time.Hour)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	id, _ := r.create(start)

	// A returning visitor is looked up after a long idle spell. Another
	// visitor arrives before the first request locks its entry.
	later := start.Add(2 * time.Hour)
	e, ok := r.get(id, later)
	require.True(t, ok)
	r.create(later)

	again, ok := r.get(id, later)
	require.True(t, ok, "session evicted between lookup and lock")
	assert.Same(t, e, again)
}

func TestRegistry_BusySessionNotEvicted(t *testing.T) {
	r := newRegistry(time.Hour)
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	id, e := r.create(start)

	e.mu.Lock()
	r.create(start.Add(2 * time.Hour))
	e.mu.Unlock()

	_, ok := r.get(id, start.Add(2*time.Hour))
	assert.True(t, ok)
}
