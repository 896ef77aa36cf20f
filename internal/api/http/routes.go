package httpapi

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/just-the-temperature/internal/skill"
	"github.com/i474232898/just-the-temperature/internal/store"
)

const serviceName = "just-the-temperature"

var validate = validator.New()

// SkillHandler handles one verified platform event.
type SkillHandler interface {
	Handle(ctx context.Context, env skill.RequestEnvelope) (skill.ResponseEnvelope, error)
}

// ProbeHistory is the read side of the provider probe store.
type ProbeHistory interface {
	Latest() (store.ProbeResult, error)
	Range(from, to time.Time) ([]store.ProbeResult, error)
}

// ErrorHandler renders every handler error as {"error":true,"message":...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}

// RegisterRoutes wires the HTTP handlers into the Fiber app. Each skill
// event gets requestTimeout to produce its response.
func RegisterRoutes(app *fiber.App, handler SkillHandler, history ProbeHistory, requestTimeout time.Duration) {
	app.Get("/health", func(c *fiber.Ctx) error {
		body := fiber.Map{
			"status":  "ok",
			"service": serviceName,
		}
		if latest, err := history.Latest(); err == nil {
			body["probe"] = latest
			if !latest.OK {
				body["status"] = "degraded"
			}
		}
		return c.JSON(body)
	})

	v1 := app.Group("/api/v1")

	v1.Post("/skill", func(c *fiber.Ctx) error {
		var env skill.RequestEnvelope
		if err := c.BodyParser(&env); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body: "+err.Error())
		}
		if err := validate.Struct(env); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		ctx, cancel := context.WithTimeout(c.UserContext(), requestTimeout)
		defer cancel()

		resp, err := handler.Handle(ctx, env)
		if err != nil {
			return fiber.NewError(statusFor(err), err.Error())
		}
		return c.JSON(resp)
	})

	v1.Get("/probes", func(c *fiber.Ctx) error {
		var req historyQuery
		if err := req.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		probes, err := history.Range(req.From, req.To)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "no probe results for requested range")
			}
			return fiber.NewError(fiber.StatusInternalServerError, "failed to fetch probe history")
		}

		return c.JSON(fiber.Map{
			"from":   req.From,
			"to":     req.To,
			"probes": probes,
		})
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, skill.ErrInvalidApplication):
		return fiber.StatusForbidden
	case errors.Is(err, skill.ErrStaleRequest), errors.Is(err, skill.ErrUnsupportedRequest):
		return fiber.StatusBadRequest
	default:
		return fiber.StatusInternalServerError
	}
}

// historyQuery holds query parameters for the probe history endpoint.
type historyQuery struct {
	From time.Time `validate:"required"`
	To   time.Time `validate:"required,gtefield=From"`
}

func (h *historyQuery) bind(c *fiber.Ctx) error {
	fromStr := c.Query("from")
	toStr := c.Query("to")
	if fromStr == "" || toStr == "" {
		return errors.New("from and to query parameters are required")
	}

	from, err := parseTime(fromStr)
	if err != nil {
		return err
	}
	to, err := parseTime(toStr)
	if err != nil {
		return err
	}

	h.From = from
	h.To = to
	return nil
}

// parseTime tries to parse either RFC3339 or Unix seconds.
func parseTime(s string) (time.Time, error) {
	if ts, err := time.Parse(time.RFC3339, s); err == nil {
		return ts, nil
	}
	if unix, err := strconv.ParseInt(s, 10, 64); err == nil {
		return time.Unix(unix, 0).UTC(), nil
	}
	return time.Time{}, errors.New("invalid time format; use RFC3339 or unix seconds")
}
