package wizard

import (
	"context"
	"errors"
	"fmt"

	"github.com/orgball2608/events-telegram-bot/internal/blob"
	"github.com/orgball2608/events-telegram-bot/internal/calendar"
	"github.com/orgball2608/events-telegram-bot/internal/domain"
	"github.com/orgball2608/events-telegram-bot/internal/moderation"
	"github.com/orgball2608/events-telegram-bot/internal/repositories/category"
	"github.com/orgball2608/events-telegram-bot/internal/repositories/post"
	"github.com/orgball2608/events-telegram-bot/internal/screening"
	"github.com/orgball2608/events-telegram-bot/internal/session"
	"github.com/orgball2608/events-telegram-bot/pkg/config"
	apperrors "github.com/orgball2608/events-telegram-bot/pkg/errors"
	"github.com/orgball2608/events-telegram-bot/pkg/logger"
	"github.com/samber/lo"
	"go.uber.org/fx"
)

// ImageSource loads the bytes of an attached image and its file extension.
// It is called only when the wizard is waiting for an image.
type ImageSource func(ctx context.Context) ([]byte, string, error)

type Input struct {
	UserID int64
	ChatID int64
	Event  Event
	Image  ImageSource
}

// Result is what the caller renders after one event.
type Result struct {
	// Session is the state after the event; nil once the session is gone.
	Session *domain.WizardSession
	Effect  Effect
	Err     error

	// NoSession is set when a continuation event found no active session.
	NoSession bool

	// Post and Verdict are set once the post is created.
	Post    *domain.Post
	Verdict screening.Verdict
}

// Presenter shows a result to the user and returns the id of the message
// carrying a selection keyboard, or zero.
type Presenter func(ctx context.Context, res Result) int

type Opts struct {
	fx.In

	Config     *config.Config
	Calendar   *calendar.Calendar
	Sessions   session.Store
	Locks      *session.KeyLock
	Posts      post.Repository
	Categories category.Repository
	Blobs      blob.Store
	Handoff    moderation.Handoff
	Logger     logger.Logger
}

type Service struct {
	machine    *Machine
	calendar   *calendar.Calendar
	sessions   session.Store
	locks      *session.KeyLock
	posts      post.Repository
	categories category.Repository
	blobs      blob.Store
	handoff    moderation.Handoff
	logger     logger.Logger
}

func New(opts Opts) *Service {
	return &Service{
		machine:    NewMachine(opts.Config.Wizard.Cities, opts.Config.Wizard.MinLead, opts.Calendar),
		calendar:   opts.Calendar,
		sessions:   opts.Sessions,
		locks:      opts.Locks,
		posts:      opts.Posts,
		categories: opts.Categories,
		blobs:      opts.Blobs,
		handoff:    opts.Handoff,
		logger:     opts.Logger.WithComponent("Wizard"),
	}
}

func (s *Service) Cities() []string {
	return s.machine.Cities()
}

func (s *Service) Categories(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

// Active reports whether the user is in the middle of the flow.
func (s *Service) Active(ctx context.Context, userID int64) bool {
	sess, err := s.sessions.Get(ctx, userID)
	return err == nil && !sess.State.Terminal()
}

// Handle runs one event under the user's lock. present is called while the
// lock is held so the menu message id lands in the same session version.
func (s *Service) Handle(ctx context.Context, in Input, present Presenter) {
	unlock := s.locks.Lock(in.UserID)
	defer unlock()

	log := s.logger.With("user_id", in.UserID)
	res, err := s.handle(ctx, in, log)
	if err != nil {
		log.Error("Wizard step failed", "error", err)
		res = Result{Effect: EffectFailed, Err: err}
	}

	menuID := present(ctx, res)
	if menuID != 0 && res.Session != nil {
		res.Session.MenuMessageID = menuID
		if err := s.sessions.Save(ctx, res.Session); err != nil {
			log.Warn("Failed to remember menu message", "error", err)
		}
	}
}

func (s *Service) handle(ctx context.Context, in Input, log logger.Logger) (Result, error) {
	now := s.calendar.Now()

	if in.Event.Kind == EventStart {
		out := s.machine.Step(domain.WizardSession{UserID: in.UserID, ChatID: in.ChatID}, in.Event, now)
		if err := s.sessions.Save(ctx, &out.Session); err != nil {
			return Result{}, err
		}
		log.Info("Post creation started")
		return Result{Session: &out.Session, Effect: out.Effect}, nil
	}

	current, err := s.sessions.Get(ctx, in.UserID)
	if err != nil {
		if errors.Is(err, session.ErrCorrupt) {
			_ = s.sessions.Delete(ctx, in.UserID)
		}
		if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrCorrupt) {
			return Result{NoSession: true}, nil
		}
		return Result{}, err
	}

	// Stored times keep only their offset; pin them back to the calendar zone.
	current.EventAt = s.calendar.Civil(current.EventAt)

	ev := in.Event
	switch {
	case ev.Kind == EventToggleCategory && current.State == domain.StateSelectingCategories:
		known, err := s.categories.List(ctx)
		if err != nil {
			return Result{}, fmt.Errorf("load categories: %w", err)
		}
		if !lo.ContainsBy(known, func(c domain.Category) bool { return c.ID == ev.CategoryID }) {
			return Result{Session: current, Effect: EffectIgnored}, nil
		}
	case ev.Kind == EventImage && current.State == domain.StateAwaitingImage:
		ref, err := s.upload(ctx, in.Image)
		if err != nil {
			log.Warn("Failed to store image", "code", apperrors.GetCode(err), "error", err)
			return Result{Session: current, Effect: EffectReprompt, Err: &ValidationError{Step: current.State, Reason: "the image could not be stored, try again or skip"}}, nil
		}
		ev.MediaRef = ref
	}

	out := s.machine.Step(*current, ev, now)
	next := out.Session

	switch out.Effect {
	case EffectIgnored:
		return Result{Session: current, Effect: EffectIgnored}, nil
	case EffectCancelled:
		if err := s.sessions.Delete(ctx, in.UserID); err != nil {
			return Result{}, err
		}
		log.Info("Post creation cancelled", "state", string(current.State))
		return Result{Effect: EffectCancelled}, nil
	case EffectAbort:
		s.discard(ctx, in.UserID, next.ImageID, log)
		log.Warn("Incomplete submission aborted")
		return Result{Effect: EffectAbort, Err: post.ErrIncompleteSubmission}, nil
	case EffectCommit:
		return s.commit(ctx, &next, log), nil
	case EffectReprompt:
		return Result{Session: current, Effect: EffectReprompt, Err: out.Err}, nil
	}

	if err := s.sessions.Save(ctx, &next); err != nil {
		return Result{}, err
	}
	return Result{Session: &next, Effect: out.Effect}, nil
}

// commit creates the post, screens it and hands it to moderation.
func (s *Service) commit(ctx context.Context, sess *domain.WizardSession, log logger.Logger) Result {
	if err := s.handoff.Ready(); err != nil {
		s.discard(ctx, sess.UserID, sess.ImageID, log)
		log.Error("Moderation is not configured, submission refused")
		return Result{Effect: EffectFailed, Err: err}
	}

	created, err := s.posts.Create(ctx, sess.Draft())
	if err != nil {
		if errors.Is(err, post.ErrIncompleteSubmission) {
			s.discard(ctx, sess.UserID, sess.ImageID, log)
			return Result{Effect: EffectAbort, Err: err}
		}
		// The stored session is still at the image step, so the user can retry.
		log.Error("Failed to create post", "error", err)
		if sess.ImageID != "" {
			if _, err := s.blobs.Delete(ctx, sess.ImageID); err != nil {
				log.Warn("Failed to delete uploaded image", "media", sess.ImageID, "error", err)
			}
		}
		return Result{Effect: EffectFailed, Err: err}
	}

	log = log.With("post_id", created.ID)
	verdict := screening.Check(created.Title, created.Content, created.URL)

	sess.State = domain.StateCommitted
	if err := s.sessions.Delete(ctx, sess.UserID); err != nil {
		log.Warn("Failed to clear committed session", "error", err)
	}

	if err := s.handoff.Submit(ctx, created, verdict); err != nil {
		log.Error("Failed to hand post to moderation", "code", apperrors.GetCode(err), "error", err)
		return Result{Effect: EffectFailed, Err: err, Post: created, Verdict: verdict}
	}

	log.Info("Post submitted", "suspicious", verdict.Suspicious, "reasons", verdict.Summary())
	return Result{Effect: EffectCommitted, Post: created, Verdict: verdict}
}

func (s *Service) upload(ctx context.Context, src ImageSource) (string, error) {
	if src == nil {
		return "", errors.New("no image attached")
	}
	data, ext, err := src(ctx)
	if err != nil {
		return "", err
	}
	return s.blobs.Save(ctx, data, ext)
}

// discard clears the session and the image it uploaded, best effort.
func (s *Service) discard(ctx context.Context, userID int64, imageID string, log logger.Logger) {
	if err := s.sessions.Delete(ctx, userID); err != nil {
		log.Warn("Failed to clear session", "error", err)
	}
	if imageID != "" {
		if _, err := s.blobs.Delete(ctx, imageID); err != nil {
			log.Warn("Failed to delete uploaded image", "media", imageID, "error", err)
		}
	}
}
