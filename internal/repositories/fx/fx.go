package fx

import (
	"github.com/orgball2608/events-telegram-bot/internal/repositories/category"
	"github.com/orgball2608/events-telegram-bot/internal/repositories/like"
	"github.com/orgball2608/events-telegram-bot/internal/repositories/post"
	"github.com/orgball2608/events-telegram-bot/internal/repositories/preference"
	"go.uber.org/fx"
)

var Module = fx.Options(
	post.Module,
	like.Module,
	category.Module,
	preference.Module,
)
