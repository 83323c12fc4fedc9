package relay

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"firedev/api"
	"firedev/bot/client"
	"firedev/bot/session"
)

type fakeMessenger struct {
	texts     []string
	prompts   []string
	edits     []string
	callbacks []string
}

func (f *fakeMessenger) SendText(chatID int64, text string) error {
	f.texts = append(f.texts, text)
	return nil
}

func (f *fakeMessenger) SendCategoryPrompt(chatID int64, text string) error {
	f.prompts = append(f.prompts, text)
	return nil
}

func (f *fakeMessenger) EditText(chatID int64, messageID int, text string) error {
	f.edits = append(f.edits, text)
	return nil
}

func (f *fakeMessenger) AnswerCallback(callbackID, text string) error {
	f.callbacks = append(f.callbacks, text)
	return nil
}

type recordedRequest struct {
	method string
	path   string
	report api.Report
}

type fakeBackend struct {
	requests []recordedRequest
	failWith int
}

func (f *fakeBackend) handler(w http.ResponseWriter, r *http.Request) {
	var report api.Report
	_ = json.NewDecoder(r.Body).Decode(&report)
	f.requests = append(f.requests, recordedRequest{method: r.Method, path: r.URL.Path, report: report})

	if f.failWith != 0 {
		http.Error(w, "boom", f.failWith)
		return
	}
	if r.Method == http.MethodPost {
		w.WriteHeader(http.StatusCreated)
	}
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}

func newTestRelay(t *testing.T) (*Relay, *fakeMessenger, *fakeBackend) {
	t.Helper()

	fb := &fakeBackend{}
	srv := httptest.NewServer(http.HandlerFunc(fb.handler))
	t.Cleanup(srv.Close)

	msgr := &fakeMessenger{}
	rl := New(session.NewMemoryStore(0), client.New(srv.URL), msgr)
	rl.now = func() time.Time { return time.Date(2025, 8, 9, 10, 0, 0, 0, time.UTC) }
	rl.newLiveID = func() string { return "live-test-id" }
	return rl, msgr, fb
}

var (
	bob  = User{ID: 42, Username: "bob"}
	anon = User{ID: 42}
)

func TestCategoryChoiceWithoutLocation(t *testing.T) {
	rl, msgr, fb := newTestRelay(t)

	rl.HandleCategory(context.Background(), bob, 1, 10, "cb1", "fire")

	require.Len(t, msgr.callbacks, 1)
	assert.Equal(t, staleChoiceText, msgr.callbacks[0])
	assert.Empty(t, msgr.edits)
	assert.Empty(t, fb.requests, "stale choice must not hit the backend")
}

func TestStaticReportFlow(t *testing.T) {
	rl, msgr, fb := newTestRelay(t)
	ctx := context.Background()

	rl.HandleLocation(ctx, bob, 1, 1.0, 2.0, false)

	require.Len(t, msgr.prompts, 1)
	assert.Equal(t, locationPrompt, msgr.prompts[0])

	rl.HandleCategory(ctx, bob, 1, 10, "cb1", "fire")

	require.Len(t, fb.requests, 1)
	req := fb.requests[0]
	assert.Equal(t, http.MethodPost, req.method)
	assert.Equal(t, "/report", req.path)
	assert.Equal(t, "fire", req.report.Category)
	assert.Equal(t, 1.0, req.report.Lat)
	assert.Equal(t, 2.0, req.report.Lon)
	assert.Equal(t, "bob", req.report.User)
	assert.Equal(t, "active", req.report.Action)
	assert.Equal(t, "2025-08-09T10:00:00Z", req.report.Timestamp)

	require.Len(t, msgr.edits, 1)
	assert.Contains(t, msgr.edits[0], "🔥")
	assert.Contains(t, msgr.edits[0], "fire location saved")
	require.Len(t, msgr.callbacks, 1)
}

func TestUsernameFallback(t *testing.T) {
	rl, _, fb := newTestRelay(t)
	ctx := context.Background()

	rl.HandleLocation(ctx, anon, 1, 1.0, 2.0, false)
	rl.HandleCategory(ctx, anon, 1, 10, "cb1", "brigade")

	require.Len(t, fb.requests, 1)
	assert.Equal(t, "id_42", fb.requests[0].report.User)
}

func TestLiveTrackingFlow(t *testing.T) {
	rl, msgr, fb := newTestRelay(t)
	ctx := context.Background()

	rl.HandleLocation(ctx, bob, 1, 1.0, 2.0, true)

	require.Len(t, msgr.prompts, 1)
	assert.Equal(t, liveLocationPrompt, msgr.prompts[0])

	rl.HandleCategory(ctx, bob, 1, 10, "cb1", "plane")

	require.Len(t, fb.requests, 1)
	assert.Equal(t, http.MethodPut, fb.requests[0].method)
	assert.Equal(t, "/report/live-test-id", fb.requests[0].path)
	require.Len(t, msgr.edits, 1)
	assert.Contains(t, msgr.edits[0], "tracking started")

	rl.HandleEditedLocation(ctx, bob, 3.0, 4.0)

	require.Len(t, fb.requests, 2)
	assert.Equal(t, http.MethodPut, fb.requests[1].method)
	assert.Equal(t, "/report/live-test-id", fb.requests[1].path, "updates must reuse the same id")
	assert.Equal(t, 3.0, fb.requests[1].report.Lat)
	assert.Equal(t, 4.0, fb.requests[1].report.Lon)
	assert.Equal(t, "plane", fb.requests[1].report.Category)

	// Background updates never message the user.
	assert.Len(t, msgr.edits, 1)
	assert.Empty(t, msgr.texts)
}

func TestEditedLocationWithoutSessionIgnored(t *testing.T) {
	rl, msgr, fb := newTestRelay(t)

	rl.HandleEditedLocation(context.Background(), bob, 3.0, 4.0)

	assert.Empty(t, fb.requests)
	assert.Empty(t, msgr.texts)
	assert.Empty(t, msgr.prompts)
}

func TestEditedLocationBeforeCategoryDoesNotSubmit(t *testing.T) {
	rl, _, fb := newTestRelay(t)
	ctx := context.Background()

	rl.HandleLocation(ctx, bob, 1, 1.0, 2.0, true)
	rl.HandleEditedLocation(ctx, bob, 3.0, 4.0)

	assert.Empty(t, fb.requests, "no submission before a category is chosen")

	// The update is not lost: the next submission carries it.
	rl.HandleCategory(ctx, bob, 1, 10, "cb1", "fire")
	require.Len(t, fb.requests, 1)
	assert.Equal(t, 3.0, fb.requests[0].report.Lat)
}

func TestCancelClearsSession(t *testing.T) {
	rl, msgr, fb := newTestRelay(t)
	ctx := context.Background()

	rl.HandleLocation(ctx, bob, 1, 1.0, 2.0, false)
	rl.HandleCancel(ctx, bob, 1)

	require.Len(t, msgr.texts, 1)
	assert.Equal(t, canceledText, msgr.texts[0])

	rl.HandleCategory(ctx, bob, 1, 10, "cb1", "fire")

	require.Len(t, msgr.callbacks, 1)
	assert.Equal(t, staleChoiceText, msgr.callbacks[0])
	assert.Empty(t, fb.requests)
}

func TestSubmitFailureLeavesSessionRetryable(t *testing.T) {
	rl, msgr, fb := newTestRelay(t)
	ctx := context.Background()

	rl.HandleLocation(ctx, bob, 1, 1.0, 2.0, false)

	fb.failWith = http.StatusInternalServerError
	rl.HandleCategory(ctx, bob, 1, 10, "cb1", "fire")

	require.Len(t, msgr.edits, 1)
	assert.Equal(t, saveFailedText, msgr.edits[0])
	require.Len(t, msgr.callbacks, 1)

	// Same choice again after the backend recovers.
	fb.failWith = 0
	rl.HandleCategory(ctx, bob, 1, 10, "cb2", "fire")

	require.Len(t, fb.requests, 2)
	assert.Contains(t, msgr.edits[1], "fire location saved")
}

func TestStopLiveKeepsSessionAndId(t *testing.T) {
	rl, msgr, fb := newTestRelay(t)
	ctx := context.Background()

	rl.HandleLocation(ctx, bob, 1, 1.0, 2.0, true)
	rl.HandleCategory(ctx, bob, 1, 10, "cb1", "volunteer")
	require.Len(t, fb.requests, 1)

	rl.HandleStopLive(ctx, bob, 1)
	require.Len(t, msgr.texts, 1)
	assert.Equal(t, stopLiveText, msgr.texts[0])

	// Stopped: live updates are dropped.
	rl.HandleEditedLocation(ctx, bob, 3.0, 4.0)
	assert.Len(t, fb.requests, 1)

	// A fresh live share reuses the allocated id.
	rl.HandleLocation(ctx, bob, 1, 5.0, 6.0, true)
	rl.HandleCategory(ctx, bob, 1, 11, "cb2", "volunteer")

	require.Len(t, fb.requests, 2)
	assert.Equal(t, "/report/live-test-id", fb.requests[1].path)
	assert.Equal(t, 5.0, fb.requests[1].report.Lat)
}

func TestRepeatedStaticLocationReprompts(t *testing.T) {
	rl, msgr, fb := newTestRelay(t)
	ctx := context.Background()

	rl.HandleLocation(ctx, bob, 1, 1.0, 2.0, false)
	rl.HandleCategory(ctx, bob, 1, 10, "cb1", "fire")
	require.Len(t, fb.requests, 1)

	rl.HandleLocation(ctx, bob, 1, 7.0, 8.0, false)
	require.Len(t, msgr.prompts, 2)

	rl.HandleCategory(ctx, bob, 1, 11, "cb2", "brigade")
	require.Len(t, fb.requests, 2)
	assert.Equal(t, http.MethodPost, fb.requests[1].method)
	assert.Equal(t, 7.0, fb.requests[1].report.Lat)
	assert.Equal(t, "brigade", fb.requests[1].report.Category)
}
