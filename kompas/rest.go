package kompas

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"go.opentelemetry.io/contrib/instrumentation/github.com/labstack/echo/otelecho"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"

	"github.com/kompas-ai/kompas/kompas/agent"
	"github.com/kompas-ai/kompas/kompas/session"
)

// Request
type ChatRequest struct {
	Content []*agent.Message `json:"content"`
}

// Response
type ChatResponse struct {
	Created time.Time `json:"created"`
	Text    string    `json:"text"`
}

func (cr *ChatRequest) validate() error {
	if len(cr.Content) == 0 {
		return fmt.Errorf("messages cannot be nil")
	}
	for _, msg := range cr.Content {
		if len(msg.Parts) == 0 {
			return fmt.Errorf("some message has no parts")
		}
	}
	return nil
}

type SessionResponse struct {
	ID    string         `json:"id"`
	State session.State  `json:"state"`
	Turns []session.Turn `json:"turns"`
}

type SendRequest struct {
	Content string `json:"content"`
}

func RestHandler(a Agent, sessions *session.Manager, e *echo.Echo) {
	if e == nil {
		panic("got nil parameter")
	}

	meter := otel.Meter("kompas.rest")
	requestCounter, err := meter.Int64Counter(
		"kompas.http.request_total",
		metric.WithDescription("total number of HTTP request"),
	)
	if err != nil {
		panic(err)
	}

	// otel middleware
	e.Use(otelecho.Middleware("kompas-server"))

	//custom middleware to counter request
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			err := next(c)
			requestCounter.Add(c.Request().Context(), 1)
			return err
		}
	})

	// stateless completion, caller carries the history.
	e.POST("/v1/chat/completions", func(c echo.Context) error {
		slog.Debug("got request")
		if ok := IsJsonContentType(c.Request()); !ok {
			return c.JSON(400, echo.Map{"error": "expecting json body"})
		}

		var input ChatRequest
		if err := c.Bind(&input); err != nil {
			slog.Error("failed binding", "error", err, "type", input)
			return c.JSON(400, echo.Map{"error": "bad json format"})
		}

		if err := input.validate(); err != nil {
			slog.Error("validate error", "error", err)
			return c.JSON(400, echo.Map{"error": "bad json format."})
		}

		output, err := a.Completion(c.Request().Context(), input.Content)

		if err != nil {
			slog.Error("failed completion", "error", err)
			return c.JSON(400, echo.Map{"error": "server unavailable"})
		}

		slog.Debug("request finish")
		return c.JSON(200, ChatResponse{
			Created: time.Now(),
			Text:    output.Text(),
		})
	})

	// stateful conversation, server keeps the history.
	e.POST("/v1/sessions", func(c echo.Context) error {
		s := sessions.Create()
		return c.JSON(201, SessionResponse{
			ID:    s.ID(),
			State: s.State(),
			Turns: s.Turns(),
		})
	})

	e.GET("/v1/sessions/:id", func(c echo.Context) error {
		s, ok := sessions.Get(c.Param("id"))
		if !ok {
			return c.JSON(404, echo.Map{"error": "session not found"})
		}
		return c.JSON(200, SessionResponse{
			ID:    s.ID(),
			State: s.State(),
			Turns: s.Turns(),
		})
	})

	e.POST("/v1/sessions/:id/messages", func(c echo.Context) error {
		if ok := IsJsonContentType(c.Request()); !ok {
			return c.JSON(400, echo.Map{"error": "expecting json body"})
		}

		s, ok := sessions.Get(c.Param("id"))
		if !ok {
			return c.JSON(404, echo.Map{"error": "session not found"})
		}

		var input SendRequest
		if err := c.Bind(&input); err != nil {
			return c.JSON(400, echo.Map{"error": "bad json format"})
		}

		reply, err := s.Send(c.Request().Context(), input.Content)
		switch {
		case errors.Is(err, session.ErrEmpty):
			return c.JSON(400, echo.Map{"error": "message cannot be empty"})
		case errors.Is(err, session.ErrBusy):
			return c.JSON(409, echo.Map{"error": "reply still pending"})
		case err != nil:
			slog.Error("failed session send", "error", err)
			return c.JSON(500, echo.Map{"error": "server unavailable"})
		}

		return c.JSON(200, reply)
	})

	e.POST("/v1/sessions/:id/reset", func(c echo.Context) error {
		s, ok := sessions.Get(c.Param("id"))
		if !ok {
			return c.JSON(404, echo.Map{"error": "session not found"})
		}
		s.Reset()
		return c.JSON(200, SessionResponse{
			ID:    s.ID(),
			State: s.State(),
			Turns: s.Turns(),
		})
	})

	e.DELETE("/v1/sessions/:id", func(c echo.Context) error {
		if _, ok := sessions.Get(c.Param("id")); !ok {
			return c.JSON(404, echo.Map{"error": "session not found"})
		}
		sessions.Remove(c.Param("id"))
		return c.NoContent(204)
	})
}

func IsJsonContentType(req *http.Request) bool {
	ct := req.Header.Get("Content-Type")
	return ct == "application/json"
}
