package handlers

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PrathamAgarwal1/SkillSkirmish/internal/data/repos"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/data/repos/testutil"
	types "github.com/PrathamAgarwal1/SkillSkirmish/internal/domain"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/modules/assessment"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/modules/rooms"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/ctxutil"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/platform/logger"
	"github.com/PrathamAgarwal1/SkillSkirmish/internal/realtime"
)

// asUser stands in for the auth middleware; the user id comes from the X-Test-User header.
func asUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		if id, err := uuid.Parse(c.GetHeader("X-Test-User")); err == nil {
			ctx := ctxutil.WithRequestData(c.Request.Context(), &ctxutil.RequestData{UserID: id})
			c.Request = c.Request.WithContext(ctx)
		}
		c.Next()
	}
}

func call(r http.Handler, method, path string, user uuid.UUID, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if user != uuid.Nil {
		req.Header.Set("X-Test-User", user.String())
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	return env.Error.Code
}

type fakeEngine struct {
	err         error
	lastSkill   string
	lastAnswer  string
	lastVersion *int64
}

func (f *fakeEngine) Start(_ context.Context, _ uuid.UUID, skill string) (assessment.StartResult, error) {
	f.lastSkill = skill
	if f.err != nil {
		return assessment.StartResult{}, f.err
	}
	return assessment.StartResult{
		QuestionView: assessment.QuestionView{Question: "Q1", Options: []string{"A", "B"}, Type: types.QuestionObjective},
		Skill:        skill,
		StartElo:     1200,
		Version:      1,
	}, nil
}

func (f *fakeEngine) Submit(_ context.Context, _ uuid.UUID, answer string, v *int64) (assessment.SubmitResult, error) {
	f.lastAnswer, f.lastVersion = answer, v
	if f.err != nil {
		return assessment.SubmitResult{}, f.err
	}
	return assessment.SubmitResult{ScorePercentage: 100, Feedback: "Correct!", EloBefore: 1200, EloAfter: 1210, EloDelta: 10, Version: 3}, nil
}

func (f *fakeEngine) Skip(_ context.Context, _ uuid.UUID, v *int64) (assessment.SubmitResult, error) {
	f.lastVersion = v
	if f.err != nil {
		return assessment.SubmitResult{}, f.err
	}
	return assessment.SubmitResult{Feedback: "Skipped.", Version: 3}, nil
}

func assessmentRouter(engine AssessmentService) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(asUser())
	h := NewAssessmentHandler(logger.NewNop(), engine)
	r.POST("/assessment/start", h.Start)
	r.POST("/assessment/submit", h.Submit)
	r.POST("/assessment/skip", h.Skip)
	return r
}

func TestAssessmentHandlers(t *testing.T) {
	engine := &fakeEngine{}
	r := assessmentRouter(engine)
	user := uuid.New()

	rec := call(r, http.MethodPost, "/assessment/start", user, map[string]string{"skill": "Go"})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Go", engine.lastSkill)
	var start map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &start))
	assert.Equal(t, "Q1", start["question"])
	assert.EqualValues(t, 1200, start["startElo"])

	rec = call(r, http.MethodPost, "/assessment/submit", user, map[string]any{"user_answer": "A", "version": 2})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "A", engine.lastAnswer)
	require.NotNil(t, engine.lastVersion)
	assert.EqualValues(t, 2, *engine.lastVersion)

	req := httptest.NewRequest(http.MethodPost, "/assessment/skip", nil)
	req.Header.Set("X-Test-User", user.String())
	skipRec := httptest.NewRecorder()
	r.ServeHTTP(skipRec, req)
	require.Equal(t, http.StatusOK, skipRec.Code)
	assert.Nil(t, engine.lastVersion)
}

func TestAssessmentErrorsMapToStatus(t *testing.T) {
	cases := []struct {
		err    error
		status int
		code   string
	}{
		{assessment.ErrSkillRequired, http.StatusBadRequest, "skill_required"},
		{assessment.ErrNoActiveSession, http.StatusNotFound, "no_active_assessment"},
		{fmt.Errorf("save: %w", assessment.ErrStaleSession), http.StatusConflict, "stale_assessment"},
		{assessment.ErrSessionExpired, http.StatusGone, "assessment_expired"},
		{fmt.Errorf("boom"), http.StatusInternalServerError, "internal_error"},
	}
	for _, tc := range cases {
		r := assessmentRouter(&fakeEngine{err: tc.err})
		rec := call(r, http.MethodPost, "/assessment/submit", uuid.New(), map[string]string{"user_answer": "x"})
		assert.Equal(t, tc.status, rec.Code, tc.err.Error())
		assert.Equal(t, tc.code, errorCode(t, rec), tc.err.Error())
	}
}

func TestMissingCallerIsUnauthorized(t *testing.T) {
	r := assessmentRouter(&fakeEngine{})
	rec := call(r, http.MethodPost, "/assessment/start", uuid.Nil, map[string]string{"skill": "Go"})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

type roomsFixture struct {
	router *gin.Engine
	svc    *rooms.Service
	owner  *types.User
	guest  *types.User
	room   *types.Room
}

func newRoomsFixture(t *testing.T) *roomsFixture {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := testutil.DB(t)
	log := testutil.Logger(t)
	ctx := context.Background()
	hub := realtime.NewHub(log, realtime.Options{})

	svc, err := rooms.NewService(rooms.Deps{
		DB:            db,
		Log:           log,
		Hub:           hub,
		Users:         repos.NewUserRepo(db, log),
		Rooms:         repos.NewRoomRepo(db, log),
		Messages:      repos.NewChatMessageRepo(db, log),
		Notifications: repos.NewNotificationRepo(db, log),
	})
	require.NoError(t, err)

	f := &roomsFixture{svc: svc}
	f.owner = testutil.SeedUser(t, ctx, db, "owner")
	f.guest = testutil.SeedUser(t, ctx, db, "guest")
	f.room = testutil.SeedRoom(t, ctx, db, f.owner.ID, "Graphs")

	rt := NewRealtimeHandler(log, svc, hub)
	rh := NewRoomHandler(log, svc)
	nh := NewNotificationHandler(log, svc)

	r := gin.New()
	r.Use(asUser())
	r.GET("/realtime/stream", rt.Stream)
	r.POST("/realtime/register", rt.Register)
	r.POST("/rooms/:id/join", rh.Join)
	r.POST("/rooms/:id/leave", rh.Leave)
	r.POST("/rooms/:id/timer", rh.SyncTimer)
	r.POST("/rooms/:id/messages", rh.SendMessage)
	r.GET("/rooms/:id/messages", rh.ListMessages)
	r.POST("/rooms/:id/request-join", rh.RequestJoin)
	r.POST("/rooms/:id/approve-join", rh.ApproveJoin)
	r.GET("/notifications", nh.List)
	r.POST("/notifications/invite", nh.Invite)
	r.POST("/notifications/:id/read", nh.MarkRead)
	r.DELETE("/notifications/:id", nh.Delete)
	f.router = r
	return f
}

func TestChatOverHTTP(t *testing.T) {
	f := newRoomsFixture(t)
	path := "/rooms/" + f.room.ID.String() + "/messages"

	rec := call(f.router, http.MethodPost, path, f.guest.ID, map[string]string{"text": "hi all"})
	require.Equal(t, http.StatusAccepted, rec.Code)

	rec = call(f.router, http.MethodPost, path, f.guest.ID, map[string]string{"text": ""})
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "empty_message", errorCode(t, rec))

	rec = call(f.router, http.MethodPost, "/rooms/not-a-uuid/messages", f.guest.ID, map[string]string{"text": "x"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = call(f.router, http.MethodGet, path+"?limit=10", f.guest.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var body struct {
		Messages []realtime.ChatPayload `json:"messages"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	require.Len(t, body.Messages, 1)
	assert.Equal(t, "guest", body.Messages[0].Sender.Username)

	rec = call(f.router, http.MethodGet, path+"?limit=-1", f.guest.ID, nil)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestJoinUnknownConnection(t *testing.T) {
	f := newRoomsFixture(t)
	rec := call(f.router, http.MethodPost, "/rooms/"+f.room.ID.String()+"/join", f.guest.ID,
		map[string]string{"connection_id": uuid.NewString()})
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "unknown_connection", errorCode(t, rec))
}

func chatTexts(c *realtime.Conn) []string {
	var out []string
	for {
		select {
		case m := <-c.Outbound:
			if p, ok := m.Data.(realtime.ChatPayload); ok && m.Event == realtime.EventMessage {
				out = append(out, p.Text)
			}
		default:
			return out
		}
	}
}

func TestRoomIDSpellingsShareOneRoom(t *testing.T) {
	f := newRoomsFixture(t)
	canonical := f.room.ID.String()
	conn := f.svc.Connect(f.guest.ID)
	join := map[string]string{"connection_id": conn.ID.String()}

	rec := call(f.router, http.MethodPost, "/rooms/"+strings.ToUpper(canonical)+"/join", f.guest.ID, join)
	if rec.Code != http.StatusOK {
		t.Fatalf("join upper-case id: status=%d body=%s", rec.Code, rec.Body.String())
	}
	rec = call(f.router, http.MethodPost, "/rooms/urn:uuid:"+canonical+"/join", f.guest.ID, join)
	if rec.Code != http.StatusOK {
		t.Fatalf("join urn id: status=%d body=%s", rec.Code, rec.Body.String())
	}

	rec = call(f.router, http.MethodPost, "/rooms/"+canonical+"/messages", f.owner.ID, map[string]string{"text": "hello"})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("send: status=%d", rec.Code)
	}
	if got := chatTexts(conn); len(got) != 1 || got[0] != "hello" {
		t.Fatalf("chat received by member joined via upper-case id: %v", got)
	}

	rec = call(f.router, http.MethodPost, "/rooms/"+strings.ToUpper(canonical)+"/leave", f.guest.ID, join)
	if rec.Code != http.StatusOK {
		t.Fatalf("leave: status=%d", rec.Code)
	}
	rec = call(f.router, http.MethodPost, "/rooms/"+canonical+"/messages", f.owner.ID, map[string]string{"text": "bye"})
	if rec.Code != http.StatusAccepted {
		t.Fatalf("send after leave: status=%d", rec.Code)
	}
	if got := chatTexts(conn); len(got) != 0 {
		t.Fatalf("chat after leave: %v", got)
	}

	rec = call(f.router, http.MethodPost, "/rooms/not-a-room/join", f.guest.ID, join)
	if rec.Code != http.StatusBadRequest || errorCode(t, rec) != "invalid_room_id" {
		t.Fatalf("bad room id: status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestTimerWithAnotherUsersConnectionIsRejected(t *testing.T) {
	f := newRoomsFixture(t)
	ownerConn := f.svc.Connect(f.owner.ID)

	body := map[string]any{"connection_id": ownerConn.ID.String(), "timer": 30, "is_running": true, "mode": "focus"}
	rec := call(f.router, http.MethodPost, "/rooms/"+f.room.ID.String()+"/timer", f.guest.ID, body)
	if rec.Code != http.StatusNotFound || errorCode(t, rec) != "unknown_connection" {
		t.Fatalf("foreign timer: status=%d body=%s", rec.Code, rec.Body.String())
	}
	rec = call(f.router, http.MethodPost, "/rooms/"+f.room.ID.String()+"/timer", f.owner.ID, body)
	if rec.Code != http.StatusAccepted {
		t.Fatalf("own timer: status=%d body=%s", rec.Code, rec.Body.String())
	}
}

func TestNotificationsOverHTTP(t *testing.T) {
	f := newRoomsFixture(t)

	rec := call(f.router, http.MethodPost, "/notifications/invite", f.owner.ID, map[string]string{
		"target_user_id": f.guest.ID.String(),
		"room_id":        f.room.ID.String(),
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	rec = call(f.router, http.MethodGet, "/notifications", f.guest.ID, nil)
	require.Equal(t, http.StatusOK, rec.Code)
	var list struct {
		Notifications []types.Notification `json:"notifications"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
	require.Len(t, list.Notifications, 1)
	id := list.Notifications[0].ID.String()

	rec = call(f.router, http.MethodPost, "/notifications/"+id+"/read", f.owner.ID, nil)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	rec = call(f.router, http.MethodPost, "/notifications/"+id+"/read", f.guest.ID, nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = call(f.router, http.MethodDelete, "/notifications/"+id, f.guest.ID, nil)
	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestJoinRequestOverHTTP(t *testing.T) {
	f := newRoomsFixture(t)
	base := "/rooms/" + f.room.ID.String()

	rec := call(f.router, http.MethodPost, base+"/request-join", f.guest.ID, nil)
	require.Equal(t, http.StatusCreated, rec.Code)
	var created struct {
		Notification types.Notification `json:"notification"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &created))

	rec = call(f.router, http.MethodPost, base+"/request-join", f.guest.ID, nil)
	assert.Equal(t, "request_pending", errorCode(t, rec))

	approve := map[string]string{"user_id": f.guest.ID.String(), "notification_id": created.Notification.ID.String()}
	rec = call(f.router, http.MethodPost, base+"/approve-join", f.guest.ID, approve)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	rec = call(f.router, http.MethodPost, base+"/approve-join", f.owner.ID, approve)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestStreamAnnouncesConnection(t *testing.T) {
	f := newRoomsFixture(t)
	srv := httptest.NewServer(f.router)
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/realtime/stream", nil)
	require.NoError(t, err)
	req.Header.Set("X-Test-User", f.guest.ID.String())
	resp, err := srv.Client().Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	sc := bufio.NewScanner(resp.Body)
	var event, data string
	for sc.Scan() {
		line := sc.Text()
		if v, ok := strings.CutPrefix(line, "event: "); ok {
			event = v
		}
		if v, ok := strings.CutPrefix(line, "data: "); ok {
			data = v
			break
		}
	}
	require.Equal(t, string(realtime.EventConnected), event)

	var msg struct {
		Data struct {
			ConnectionID string `json:"connection_id"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal([]byte(data), &msg))

	rec := call(f.router, http.MethodPost, "/realtime/register", f.guest.ID, map[string]string{"connection_id": msg.Data.ConnectionID})
	assert.Equal(t, http.StatusOK, rec.Code)
	rec = call(f.router, http.MethodPost, "/rooms/"+f.room.ID.String()+"/join", f.guest.ID, map[string]string{"connection_id": msg.Data.ConnectionID})
	assert.Equal(t, http.StatusOK, rec.Code)
}
