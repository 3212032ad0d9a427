package httpapi

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/weather-outlook/internal/logging"
	"github.com/i474232898/weather-outlook/internal/view"
	"github.com/i474232898/weather-outlook/internal/weather"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("timewindow", func(fl validator.FieldLevel) bool {
		_, ok := weather.LookupWindow(fl.Field().String())
		return ok
	})
	_ = v.RegisterValidation("weekday", func(fl validator.FieldLevel) bool {
		_, err := weather.ParseWeekday(fl.Field().String())
		return err == nil
	})
	return v
}

// Deps are the collaborators the handlers need.
type Deps struct {
	Service *weather.Service
	Builder *view.Builder
	// Now is the clock used to resolve weekday names; defaults to time.Now.
	Now func() time.Time
}

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, deps Deps) {
	if deps.Now == nil {
		deps.Now = time.Now
	}

	v1 := app.Group("/api/v1")

	v1.Get("/windows", func(c *fiber.Ctx) error {
		return c.JSON(weather.Windows())
	})

	v1.Get("/outlook", func(c *fiber.Ctx) error {
		out, err := buildOutlook(c, deps)
		if err != nil {
			return err
		}
		return c.JSON(out)
	})

	v1.Get("/chart", func(c *fiber.Ctx) error {
		var q chartQuery
		if err := c.QueryParser(&q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if q.Panel == "" {
			q.Panel = "this"
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		out, err := buildOutlook(c, deps)
		if err != nil {
			return err
		}

		p := out.This
		if q.Panel == "next" {
			p = out.Next
		}
		c.Set(fiber.HeaderContentType, "image/svg+xml")
		return c.SendString(p.Surface().String())
	})
}

// outlookQuery holds the query parameters shared by the outlook and chart endpoints.
type outlookQuery struct {
	Location string `query:"location"`
	Day      string `query:"day" validate:"omitempty,weekday"`
	Window   string `query:"window" validate:"omitempty,timewindow"`
}

type chartQuery struct {
	Panel string `query:"panel" validate:"oneof=this next"`
}

func buildOutlook(c *fiber.Ctx, deps Deps) (view.Outlook, error) {
	var q outlookQuery
	if err := c.QueryParser(&q); err != nil {
		return view.Outlook{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	loc, err := weather.NewLocation(q.Location)
	if err != nil {
		return view.Outlook{}, toHTTPError(err)
	}
	if err := validate.Struct(q); err != nil {
		return view.Outlook{}, fiber.NewError(fiber.StatusBadRequest, err.Error())
	}

	w := weather.Morning
	if q.Window != "" {
		w, _ = weather.LookupWindow(q.Window)
	}

	day := weather.DateOnly(deps.Now())
	if q.Day != "" {
		wd, _ := weather.ParseWeekday(q.Day)
		day = weather.NextWeekday(day, wd)
	}

	outlook, err := deps.Service.GetOutlook(c.UserContext(), loc, day)
	if err != nil {
		logging.FromContext(c.UserContext()).Debug().Err(err).Str("location", loc.Key()).Msg("outlook lookup failed")
		return view.Outlook{}, toHTTPError(err)
	}

	return deps.Builder.Build(outlook, w), nil
}

func toHTTPError(err error) error {
	switch {
	case errors.Is(err, weather.ErrInvalidLocation):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	case errors.Is(err, weather.ErrNoHourlyData):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, weather.ErrProviderFailure), errors.Is(err, weather.ErrNoProviders):
		return fiber.NewError(fiber.StatusBadGateway, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "failed to build weather outlook")
	}
}

// ErrorHandler renders every error as {"error": true, "message": ...}.
func ErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(fiber.Map{
		"error":   true,
		"message": err.Error(),
	})
}
