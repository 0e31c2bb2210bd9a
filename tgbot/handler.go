// Package tgbot exposes the kompas agent through a telegram bot.
package tgbot

import (
	"context"
	"fmt"
	"log/slog"

	tele "gopkg.in/telebot.v4"

	"github.com/kompas-ai/kompas/api"
)

func Handle(ctx context.Context, bot *tele.Bot, ai *api.Client, cache *ChatCache) {
	bot.Handle("/start", func(c tele.Context) error {
		return c.Send("hi.. ask me about the weather, the time in a city, or directions")
	})

	bot.Handle("/count", func(c tele.Context) error {
		n := cache.CountMessages(c.Chat().ID)
		return c.Send(fmt.Sprintf("%d", n))
	})

	bot.Handle("/clear", func(c tele.Context) error {
		cache.Clear(c.Chat().ID)
		return c.Send("context clear")
	})

	h := Handler{
		ctx:   ctx,
		ai:    ai,
		cache: cache,
	}

	bot.Handle(tele.OnText, h.HandleText)
	bot.Handle(tele.OnLocation, h.HandleLoc)
}

type Handler struct {
	ctx   context.Context
	ai    *api.Client
	cache *ChatCache
}

func (h *Handler) HandleText(c tele.Context) error {
	slog.Debug("bot got text", "chat", c.Chat().ID)

	text, err := h.do(h.ctx, c.Chat().ID, c.Text())
	if err != nil {
		slog.Error("bot completion failed", "error", err)
		return c.Send("service unavailable")
	}
	return c.Send(text)
}

func (h *Handler) HandleLoc(c tele.Context) error {
	slog.Debug("bot got location", "chat", c.Chat().ID)

	loc := c.Message().Location
	text, err := h.do(h.ctx, c.Chat().ID, fmt.Sprintf(
		"I am at Lat:%f, Long:%f",
		loc.Lat,
		loc.Lng,
	))
	if err != nil {
		slog.Error("bot completion failed", "error", err)
		return c.Send("service unavailable")
	}
	return c.Send(text)
}

func (h *Handler) do(ctx context.Context, id int64, query string) (string, error) {
	sc := h.cache.Get(id)
	sc.Add(api.NewTextMessage("user", query))

	resp, err := h.ai.Chat(ctx, api.ChatRequest{Content: sc.Messages()})
	if err != nil {
		return "", err
	}

	sc.Add(api.NewTextMessage("assistant", resp.Text))
	return resp.Text, nil
}
