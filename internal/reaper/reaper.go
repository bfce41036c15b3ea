// Package reaper removes posts whose event is long over, together with their
// media. It is the only component that deletes posts.
package reaper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/orgball2608/events-telegram-bot/internal/blob"
	"github.com/orgball2608/events-telegram-bot/internal/calendar"
	"github.com/orgball2608/events-telegram-bot/internal/domain"
	"github.com/orgball2608/events-telegram-bot/internal/repositories/post"
	"github.com/orgball2608/events-telegram-bot/pkg/config"
	apperrors "github.com/orgball2608/events-telegram-bot/pkg/errors"
	"github.com/orgball2608/events-telegram-bot/pkg/logger"
)

// cycleTimeout bounds one sweep so a hung store cannot stall the schedule.
const cycleTimeout = 5 * time.Minute

type Result struct {
	Expired       int
	Deleted       int64
	MediaAttempts int
	MediaFailures int
}

type Reaper struct {
	posts    post.Repository
	blobs    blob.Store
	calendar *calendar.Calendar
	grace    time.Duration
	interval time.Duration
	logger   logger.Logger

	scheduler gocron.Scheduler
}

func New(posts post.Repository, blobs blob.Store, cal *calendar.Calendar, grace, interval time.Duration, logger logger.Logger) *Reaper {
	return &Reaper{
		posts:    posts,
		blobs:    blobs,
		calendar: cal,
		grace:    grace,
		interval: interval,
		logger:   logger.WithComponent("Reaper"),
	}
}

func NewFromConfig(posts post.Repository, blobs blob.Store, cal *calendar.Calendar, cfg *config.Config, logger logger.Logger) *Reaper {
	return New(posts, blobs, cal, cfg.Retention.Grace, cfg.Retention.Interval, logger)
}

// Start schedules a sweep every interval, the first one immediately. A
// failing sweep is logged and the next one runs on schedule.
func (r *Reaper) Start(ctx context.Context) error {
	scheduler, err := gocron.NewScheduler(gocron.WithLocation(r.calendar.Location()))
	if err != nil {
		return fmt.Errorf("failed to create scheduler: %w", err)
	}

	_, err = scheduler.NewJob(
		gocron.DurationJob(r.interval),
		gocron.NewTask(func() {
			if ctx.Err() != nil {
				return
			}

			cycleCtx, cancel := context.WithTimeout(ctx, cycleTimeout)
			defer cancel()

			if _, err := r.RunCycle(cycleCtx); err != nil {
				r.logger.Error("Retention cycle failed", "error", err)
			}
		}),
		gocron.WithName("retention-reaper"),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
		gocron.WithStartAt(gocron.WithStartImmediately()),
	)
	if err != nil {
		_ = scheduler.Shutdown()
		return fmt.Errorf("failed to schedule retention job: %w", err)
	}

	scheduler.Start()
	r.scheduler = scheduler
	r.logger.Info("Retention reaper started", "interval", r.interval.String(), "grace", r.grace.String())
	return nil
}

func (r *Reaper) Stop() error {
	if r.scheduler == nil {
		return nil
	}
	return r.scheduler.Shutdown()
}

// RunCycle snapshots expired posts, deletes them and then tries once to
// delete every snapshotted media ref. Both store calls share one cutoff so
// the deleted set is the snapshotted set.
func (r *Reaper) RunCycle(ctx context.Context) (Result, error) {
	var res Result
	cutoff := r.calendar.Now().Add(-r.grace)

	expired, err := r.posts.ListExpiredInfo(ctx, cutoff)
	if err != nil {
		return res, fmt.Errorf("list expired posts: %w", err)
	}
	res.Expired = len(expired)
	if len(expired) == 0 {
		return res, nil
	}

	res.Deleted, err = r.posts.DeleteExpired(ctx, cutoff)
	if err != nil {
		return res, fmt.Errorf("delete expired posts: %w", err)
	}

	for _, info := range expired {
		if info.ImageID == "" {
			continue
		}
		res.MediaAttempts++
		if !r.deleteMedia(ctx, info) {
			res.MediaFailures++
		}
	}

	r.logger.Info("Retention cycle finished",
		"cutoff", r.calendar.Format(cutoff),
		"expired", res.Expired,
		"deleted", res.Deleted,
		"media_failures", res.MediaFailures,
	)
	return res, nil
}

// Purge deletes one post on behalf of a moderator or an admin and reports
// whether it existed.
func (r *Reaper) Purge(ctx context.Context, postID int64) (bool, error) {
	p, err := r.posts.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, post.ErrNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("load post %d: %w", postID, err)
	}

	found, err := r.posts.Delete(ctx, postID)
	if err != nil {
		return false, fmt.Errorf("delete post %d: %w", postID, err)
	}

	if found && p.ImageID != "" {
		r.deleteMedia(ctx, domain.ExpiredInfo{ID: p.ID, ImageID: p.ImageID})
	}

	r.logger.Info("Post purged", "post_id", postID, "found", found)
	return found, nil
}

// deleteMedia never fails the caller; an orphaned file is acceptable.
func (r *Reaper) deleteMedia(ctx context.Context, info domain.ExpiredInfo) bool {
	removed, err := r.blobs.Delete(ctx, info.ImageID)
	if err != nil {
		r.logger.Warn("Failed to delete media", "post_id", info.ID, "media", info.ImageID, "code", apperrors.GetCode(err), "error", err)
		return false
	}
	if !removed {
		r.logger.Debug("Media already gone", "post_id", info.ID, "media", info.ImageID)
	}
	return true
}
