// Package bot is the Telegram frontend. It dispatches chat commands to the
// tide service and formats results as plain-text messages; all tide logic
// lives elsewhere.
package bot

import (
	"context"
	"errors"
	"log"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/AntIg86/TideTimeBot/pkg/data"
	"github.com/AntIg86/TideTimeBot/pkg/geocode"
	"github.com/AntIg86/TideTimeBot/pkg/metrics"
	"github.com/AntIg86/TideTimeBot/pkg/openmeteo"
	"github.com/AntIg86/TideTimeBot/pkg/service"
)

const helpText = `I answer tide questions for coastal cities.

/tide <city> - today's tides, trend and next event
/setcity <city> - save your city so /tide needs no argument
/mycity - show your saved city
/help - this message`

// Bot polls Telegram for updates and answers tide commands.
type Bot struct {
	api  *tgbotapi.BotAPI
	svc  *service.Service
	favs *data.DB // nil when favorites are disabled
}

func New(token string, svc *service.Service, favs *data.DB) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}
	return &Bot{api: api, svc: svc, favs: favs}, nil
}

// Run polls for updates until ctx is cancelled.
func (b *Bot) Run(ctx context.Context) {
	cfg := tgbotapi.NewUpdate(0)
	cfg.Timeout = 30
	updates := b.api.GetUpdatesChan(cfg)

	go func() {
		<-ctx.Done()
		b.api.StopReceivingUpdates()
	}()

	log.Printf("bot %s polling for commands", b.api.Self.UserName)
	for update := range updates {
		if update.Message == nil || !update.Message.IsCommand() {
			continue
		}
		b.handleCommand(ctx, update.Message)
	}
}

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	command := msg.Command()
	args := strings.TrimSpace(msg.CommandArguments())

	var reply string
	outcome := "ok"
	switch command {
	case "start", "help":
		reply = helpText
	case "tide":
		reply, outcome = b.tideReply(ctx, msg.Chat.ID, args)
	case "setcity":
		reply, outcome = b.setCityReply(ctx, msg.Chat.ID, args)
	case "mycity":
		reply, outcome = b.myCityReply(msg.Chat.ID)
	default:
		reply = "I don't know that one.\n\n" + helpText
		outcome = "unknown"
	}
	metrics.ObserveCommand(command, outcome)

	if _, err := b.api.Send(tgbotapi.NewMessage(msg.Chat.ID, reply)); err != nil {
		log.Printf("failed to send reply to chat %d: %v", msg.Chat.ID, err)
	}
}

func (b *Bot) tideReply(ctx context.Context, chatID int64, city string) (string, string) {
	if city == "" && b.favs != nil {
		saved, err := b.favs.City(chatID)
		if err != nil {
			log.Printf("favorites lookup for chat %d: %v", chatID, err)
		}
		city = saved
	}
	if city == "" {
		return "Which city? Try /tide Brighton, or save one with /setcity.", "missing_city"
	}

	res, place, err := b.svc.BriefForCity(ctx, city)
	if err != nil {
		return errorReply(city, err)
	}
	return FormatBrief(place, res), "ok"
}

func (b *Bot) setCityReply(ctx context.Context, chatID int64, city string) (string, string) {
	if b.favs == nil {
		return "Saving cities is not available right now.", "disabled"
	}
	if city == "" {
		return "Tell me which city to save: /setcity Brighton", "missing_city"
	}

	// Resolve before saving so typos surface immediately.
	place, err := b.svc.Lookup(ctx, city)
	if err != nil {
		reply, outcome := errorReply(city, err)
		return reply, outcome
	}
	if err := b.favs.SetCity(chatID, place.Name); err != nil {
		log.Printf("failed to save city for chat %d: %v", chatID, err)
		return "I couldn't save that right now, sorry.", "error"
	}
	return "Saved " + place.Name + ", " + place.Country + ". /tide now works without an argument.", "ok"
}

func (b *Bot) myCityReply(chatID int64) (string, string) {
	if b.favs == nil {
		return "Saving cities is not available right now.", "disabled"
	}
	city, err := b.favs.City(chatID)
	if err != nil {
		log.Printf("favorites lookup for chat %d: %v", chatID, err)
		return "I couldn't check that right now, sorry.", "error"
	}
	if city == "" {
		return "No city saved yet. Use /setcity <city>.", "ok"
	}
	return "Your saved city is " + city + ".", "ok"
}

func errorReply(city string, err error) (string, string) {
	var upstream *openmeteo.UpstreamError
	switch {
	case errors.Is(err, geocode.ErrNotFound):
		return "I couldn't find a city called \"" + city + "\".", "not_found"
	case errors.As(err, &upstream):
		log.Printf("upstream failure for %q: %v", city, err)
		return "The tide data source is unreachable right now, try again in a bit.", "upstream_error"
	default:
		log.Printf("brief for %q failed: %v", city, err)
		return "Something went wrong on my end, sorry.", "error"
	}
}
