// Package relay turns Telegram updates into report submissions. It
// holds the per-user state machine: idle → awaiting category →
// submitted or live tracking.
package relay

import (
	"context"
	"fmt"
	"time"

	"github.com/apex/log"
	"github.com/google/uuid"

	"firedev/api"
	"firedev/bot/session"
)

const (
	submitTimeout     = 10 * time.Second
	liveUpdateTimeout = 5 * time.Second
)

// Messenger is the outbound half of the Telegram conversation.
type Messenger interface {
	SendText(chatID int64, text string) error
	SendCategoryPrompt(chatID int64, text string) error
	EditText(chatID int64, messageID int, text string) error
	AnswerCallback(callbackID, text string) error
}

// Backend submits reports to the report store service.
type Backend interface {
	CreateReport(ctx context.Context, r *api.Report) error
	UpsertReport(ctx context.Context, id string, r *api.Report) error
}

// User identifies the Telegram user an update came from.
type User struct {
	ID       int64
	Username string
}

// DisplayName is the name stored on reports: the username, or a
// fallback built from the numeric id.
func (u User) DisplayName() string {
	if u.Username != "" {
		return u.Username
	}
	return fmt.Sprintf("id_%d", u.ID)
}

type Relay struct {
	sessions session.Store
	backend  Backend
	msgr     Messenger

	now       func() time.Time
	newLiveID func() string
}

func New(sessions session.Store, backend Backend, msgr Messenger) *Relay {
	return &Relay{
		sessions:  sessions,
		backend:   backend,
		msgr:      msgr,
		now:       time.Now,
		newLiveID: uuid.NewString,
	}
}

func (r *Relay) HandleStart(chatID int64) {
	r.send(chatID, startText)
}

func (r *Relay) HandleHelp(chatID int64) {
	r.send(chatID, helpText)
}

// HandleCancel discards the whole session, returning the user to idle.
func (r *Relay) HandleCancel(ctx context.Context, user User, chatID int64) {
	if err := r.sessions.Delete(ctx, user.ID); err != nil {
		log.Errorf("Failed to delete session for %d: %v", user.ID, err)
	}
	r.send(chatID, canceledText)
}

// HandleStopLive stops live tracking but keeps the category and last
// location, so a later location message starts fresh with the same id.
func (r *Relay) HandleStopLive(ctx context.Context, user User, chatID int64) {
	s, ok, err := r.sessions.Get(ctx, user.ID)
	if err != nil {
		log.Errorf("Failed to load session for %d: %v", user.ID, err)
	}
	if ok && s.Live != nil {
		s.Live.Active = false
		if s.State == session.StateLiveTracking {
			s.State = session.StateSubmitted
		}
		if err := r.sessions.Put(ctx, user.ID, s); err != nil {
			log.Errorf("Failed to save session for %d: %v", user.ID, err)
		}
	}
	r.send(chatID, stopLiveText)
}

// HandleLocation records a freshly sent location and asks for a
// category. A repeated location keeps the previous category and live
// id but always re-prompts.
func (r *Relay) HandleLocation(ctx context.Context, user User, chatID int64, lat, lon float64, live bool) {
	s, ok, err := r.sessions.Get(ctx, user.ID)
	if err != nil {
		log.Errorf("Failed to load session for %d: %v", user.ID, err)
	}
	if !ok {
		s = &session.Session{}
	}

	s.Location = session.Location{Lat: lat, Lon: lon}
	s.State = session.StateAwaitingCategory

	prompt := locationPrompt
	if live {
		if s.Live == nil {
			s.Live = &session.LiveTrack{ID: r.newLiveID()}
		}
		s.Live.Active = true
		prompt = liveLocationPrompt
	}

	if err := r.sessions.Put(ctx, user.ID, s); err != nil {
		log.Errorf("Failed to save session for %d: %v", user.ID, err)
		return
	}
	if err := r.msgr.SendCategoryPrompt(chatID, prompt); err != nil {
		log.Errorf("Failed to send category prompt to %d: %v", chatID, err)
	}
}

// HandleEditedLocation processes a live location update. No session
// means no implicit tracking: the update is dropped.
func (r *Relay) HandleEditedLocation(ctx context.Context, user User, lat, lon float64) {
	s, ok, err := r.sessions.Get(ctx, user.ID)
	if err != nil {
		log.Errorf("Failed to load session for %d: %v", user.ID, err)
		return
	}
	if !ok {
		return
	}

	s.Location = session.Location{Lat: lat, Lon: lon}
	if err := r.sessions.Put(ctx, user.ID, s); err != nil {
		log.Errorf("Failed to save session for %d: %v", user.ID, err)
		return
	}

	if s.State != session.StateLiveTracking {
		return
	}

	uctx, cancel := context.WithTimeout(ctx, liveUpdateTimeout)
	defer cancel()
	if err := r.backend.UpsertReport(uctx, s.Live.ID, r.buildReport(user, s, s.Category)); err != nil {
		// Background path: log only, never message the user.
		log.Warnf("Live update failed for %s: %v", user.DisplayName(), err)
	}
}

// HandleCategory submits the report for a chosen category. On failure
// the session is left untouched so the same choice can be retried.
func (r *Relay) HandleCategory(ctx context.Context, user User, chatID int64, messageID int, callbackID, category string) {
	s, ok, err := r.sessions.Get(ctx, user.ID)
	if err != nil {
		log.Errorf("Failed to load session for %d: %v", user.ID, err)
	}
	if !ok {
		r.answer(callbackID, staleChoiceText)
		return
	}

	report := r.buildReport(user, s, category)
	live := s.Live != nil && s.Live.Active

	sctx, cancel := context.WithTimeout(ctx, submitTimeout)
	defer cancel()

	var submitErr error
	if live {
		submitErr = r.backend.UpsertReport(sctx, s.Live.ID, report)
	} else {
		submitErr = r.backend.CreateReport(sctx, report)
	}

	if submitErr != nil {
		log.Errorf("Failed to save %s report for %s: %v", category, user.DisplayName(), submitErr)
		failure := saveFailedText
		if live {
			failure = liveSaveFailedText
		}
		r.edit(chatID, messageID, failure)
		r.answer(callbackID, "")
		return
	}

	s.Category = category
	if live {
		s.State = session.StateLiveTracking
	} else {
		s.State = session.StateSubmitted
	}
	if err := r.sessions.Put(ctx, user.ID, s); err != nil {
		log.Errorf("Failed to save session for %d: %v", user.ID, err)
	}

	r.edit(chatID, messageID, confirmationText(category, live))
	r.answer(callbackID, "")
}

func (r *Relay) buildReport(user User, s *session.Session, category string) *api.Report {
	return &api.Report{
		Category:  category,
		Lat:       s.Location.Lat,
		Lon:       s.Location.Lon,
		User:      user.DisplayName(),
		Timestamp: r.now().UTC().Format(time.RFC3339),
		Action:    "active",
	}
}

func confirmationText(category string, live bool) string {
	emoji := emojiFor(category)
	if live {
		return fmt.Sprintf("✅ Live %s %s tracking started!\n\n"+
			"I'll keep updating your position automatically.\n"+
			"Use /stop_live to end tracking.", emoji, category)
	}
	return fmt.Sprintf("✅ %s %s location saved!\n\nView the map: %s", emoji, category, mapURL)
}

func (r *Relay) send(chatID int64, text string) {
	if err := r.msgr.SendText(chatID, text); err != nil {
		log.Errorf("Failed to send message to %d: %v", chatID, err)
	}
}

func (r *Relay) edit(chatID int64, messageID int, text string) {
	if err := r.msgr.EditText(chatID, messageID, text); err != nil {
		log.Errorf("Failed to edit message %d in %d: %v", messageID, chatID, err)
	}
}

func (r *Relay) answer(callbackID, text string) {
	if err := r.msgr.AnswerCallback(callbackID, text); err != nil {
		log.Errorf("Failed to answer callback %s: %v", callbackID, err)
	}
}
