package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"telegram-community-bot/internal/application"
	"telegram-community-bot/internal/config"
	"telegram-community-bot/internal/domain/model"
	"telegram-community-bot/internal/domain/ports/adapter"
	"telegram-community-bot/internal/infra/logging"
	"telegram-community-bot/internal/infra/metrics"
	red "telegram-community-bot/internal/infra/redis"
	"telegram-community-bot/internal/usecase"
)

const replyOperational = "Servicio no disponible en este momento. Inténtalo más tarde."

// RealTelegramBotAdapter polls updates and routes every one of them
// through the activation gate before any handler runs.
type RealTelegramBotAdapter struct {
	bot         *tgbotapi.BotAPI
	outbound    adapter.TelegramBotAdapter
	cfg         *config.Config
	facade      *application.BotFacade
	rateLimiter *red.RateLimiter
	log         *zerolog.Logger

	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(
	cfg *config.Config,
	bot *tgbotapi.BotAPI,
	outbound adapter.TelegramBotAdapter,
	facade *application.BotFacade,
	rateLimiter *red.RateLimiter,
	logger *zerolog.Logger,
) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("config is nil")
	}
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	workers := cfg.Bot.Workers
	if workers <= 0 {
		workers = 5
	}
	compLog := logger.With().Str("component", "telegram").Logger()
	return &RealTelegramBotAdapter{
		bot:           bot,
		outbound:      outbound,
		cfg:           cfg,
		facade:        facade,
		rateLimiter:   rateLimiter,
		log:           &compLog,
		updateWorkers: workers,
	}, nil
}

func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	var wg sync.WaitGroup
	updateChan := make(chan tgbotapi.Update, 100)

	for i := 0; i < r.updateWorkers; i++ {
		wg.Add(1)
		go func(id int) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case up := <-updateChan:
					if err := r.handleUpdate(ctx, up); err != nil {
						r.log.Error().Err(err).Int("worker", id).Msg("update handling failed")
					}
				}
			}
		}(i)
	}

	for {
		select {
		case <-ctx.Done():
			close(updateChan)
			wg.Wait()
			return ctx.Err()
		case up := <-updates:
			updateChan <- up
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.Chat == nil {
		return nil
	}

	// bot added to a group: register it as the report destination
	if len(msg.NewChatMembers) > 0 {
		return r.handleNewChatMembers(ctx, msg)
	}

	if msg.From == nil {
		return nil
	}

	ev, report, ok := r.classify(msg)
	if !ok {
		return nil
	}

	ctx = logging.WithTraceID(ctx, uuid.NewString())
	ctx = logging.WithChatID(ctx, ev.ChatID)
	ctx = logging.WithTgID(ctx, ev.UserID)

	if r.rateLimiter != nil {
		allowed, err := r.rateLimiter.Allow(ctx, red.UserCommandKey(ev.UserID, ev.Command), r.cfg.Redis.RateLimit, r.cfg.Redis.RateWin)
		if err != nil {
			logging.With(ctx, r.log).Warn().Err(err).Msg("rate limiter unavailable")
		} else if !allowed {
			return r.reply(ctx, ev.ChatID, "Demasiadas solicitudes. Inténtalo de nuevo en un momento.")
		}
	}
	metrics.IncCommand(ev.Command)

	// the gate runs before every dispatch; its store read happens-before
	// any handler logic for this event
	denial, err := r.facade.Gate(ctx, ev)
	if err != nil {
		logging.With(ctx, r.log).Error().Err(err).Msg("gate store read failed")
		return r.reply(ctx, ev.ChatID, replyOperational)
	}
	if denial != nil {
		return r.reply(ctx, ev.ChatID, denial.Reply)
	}

	return r.dispatch(ctx, ev, msg, report)
}

// classify turns a raw message into an Event plus, for the media path,
// a prepared report. ok=false means the update carries nothing for us.
func (r *RealTelegramBotAdapter) classify(msg *tgbotapi.Message) (usecase.Event, *model.Report, bool) {
	ev := usecase.Event{
		ChatKind: usecase.ChatKind(msg.Chat.Type),
		ChatID:   msg.Chat.ID,
		UserID:   msg.From.ID,
		Username: displayName(msg.From),
	}

	if msg.IsCommand() {
		ev.Command = strings.ToLower(msg.Command())
		return ev, nil, true
	}

	// media report: photo/video whose caption matches the report pattern
	if len(msg.Photo) > 0 || msg.Video != nil {
		body, matched := model.ParseReportCaption(msg.Caption)
		if !matched {
			return ev, nil, false
		}
		ev.Command = "reporte"
		rep := &model.Report{
			FromID:          ev.UserID,
			FromName:        ev.Username,
			Text:            body,
			SourceChatID:    ev.ChatID,
			SourceMessageID: msg.MessageID,
		}
		if len(msg.Photo) > 0 {
			rep.Kind = model.ReportPhoto
			// the last variant is the highest resolution
			rep.FileID = msg.Photo[len(msg.Photo)-1].FileID
		} else {
			rep.Kind = model.ReportVideo
			rep.FileID = msg.Video.FileID
		}
		return ev, rep, true
	}

	return ev, nil, false
}

func (r *RealTelegramBotAdapter) dispatch(ctx context.Context, ev usecase.Event, msg *tgbotapi.Message, rep *model.Report) error {
	args := strings.TrimSpace(msg.CommandArguments())

	var (
		reply string
		err   error
	)
	switch ev.Command {
	case "start":
		reply, err = r.facade.HandleStart(ctx, ev)

	case "help":
		reply, err = r.facade.HandleHelp(ctx, ev)

	case "solicitar_activacion":
		if !ev.InPrivate() {
			return r.reply(ctx, ev.ChatID, "Este comando solo puede usarse en privado.")
		}
		reply, err = r.facade.HandleRequestActivation(ctx, ev)

	case "clave":
		if !ev.InGroup() {
			return r.reply(ctx, ev.ChatID, "Este comando solo puede usarse en grupos.")
		}
		reply, err = r.facade.HandleActivateGroup(ctx, ev, args)

	case "activar":
		if !ev.InGroup() {
			return r.reply(ctx, ev.ChatID, "Este comando solo puede usarse en grupos.")
		}
		reply, err = r.facade.HandleActivateUser(ctx, ev, args)

	case "eco":
		if !ev.InGroup() {
			return r.reply(ctx, ev.ChatID, "Este comando solo puede usarse en grupos.")
		}
		rawMinutes, message := splitFirst(args)
		reply, err = r.facade.HandleEchoStart(ctx, ev, rawMinutes, message)

	case "eco_stop":
		if !ev.InGroup() {
			return r.reply(ctx, ev.ChatID, "Este comando solo puede usarse en grupos.")
		}
		reply, err = r.facade.HandleEchoStop(ctx, ev)

	case "cadena":
		if !ev.InGroup() {
			return r.reply(ctx, ev.ChatID, "Este comando solo puede usarse en grupos.")
		}
		reply, err = r.facade.HandleBroadcast(ctx, ev, args)

	case "grupo_id":
		if !ev.InGroup() {
			return r.reply(ctx, ev.ChatID, "Este comando solo puede usarse en un grupo.")
		}
		reply, err = r.facade.HandleGroupID(ctx, ev)

	case "reporte":
		if !ev.InPrivate() {
			return r.reply(ctx, ev.ChatID, "Este comando solo puede usarse en privado.")
		}
		if rep == nil {
			rep = &model.Report{
				Kind:            model.ReportText,
				FromID:          ev.UserID,
				FromName:        ev.Username,
				Text:            args,
				SourceChatID:    ev.ChatID,
				SourceMessageID: msg.MessageID,
			}
		}
		reply, err = r.facade.HandleReport(ctx, rep)

	default:
		return nil
	}

	if err != nil {
		logging.With(ctx, r.log).Error().Err(err).Str("command", ev.Command).Msg("handler failed")
		return r.reply(ctx, ev.ChatID, replyOperational)
	}
	if reply == "" {
		return nil
	}
	return r.reply(ctx, ev.ChatID, reply)
}

func (r *RealTelegramBotAdapter) handleNewChatMembers(ctx context.Context, msg *tgbotapi.Message) error {
	self := r.bot.Self.ID
	for _, member := range msg.NewChatMembers {
		if member.ID != self {
			continue
		}
		ctx = logging.WithTraceID(ctx, uuid.NewString())
		greeting, err := r.facade.HandleBotJoinedGroup(ctx, msg.Chat.ID)
		if err != nil {
			logging.With(ctx, r.log).Error().Err(err).Int64("chat_id", msg.Chat.ID).Msg("group registration failed")
			return nil
		}
		return r.reply(ctx, msg.Chat.ID, greeting)
	}
	return nil
}

// reply goes through the outbound port so mode selection (real/noop)
// applies to gate denials and handler replies too.
func (r *RealTelegramBotAdapter) reply(ctx context.Context, chatID int64, text string) error {
	if _, err := r.outbound.SendText(ctx, chatID, text); err != nil {
		logging.With(ctx, r.log).Warn().Err(err).Msg("reply delivery failed")
	}
	return nil
}

func displayName(u *tgbotapi.User) string {
	if u.UserName != "" {
		return u.UserName
	}
	return u.FirstName
}

// splitFirst cuts "5 hello world" into "5" and "hello world".
func splitFirst(s string) (string, string) {
	first, rest, found := strings.Cut(s, " ")
	if !found {
		return first, ""
	}
	return first, strings.TrimSpace(rest)
}
