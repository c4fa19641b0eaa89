package httpapi

import (
	"bytes"
	"errors"
	"io"
	"net/url"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/i474232898/sensor-dashboard/internal/sensor"
	"github.com/i474232898/sensor-dashboard/internal/store"
)

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *sensor.Service) {
	v1 := app.Group("/api/v1")

	v1.Post("/sessions", func(c *fiber.Ctx) error {
		sess, err := service.CreateSession()
		if err != nil {
			return fiber.NewError(fiber.StatusInternalServerError, "failed to create session")
		}
		return c.Status(fiber.StatusCreated).JSON(toSessionDTO(sess))
	})

	v1.Delete("/sessions/:id", func(c *fiber.Ctx) error {
		if err := service.DeleteSession(c.Params("id")); err != nil {
			return mapError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	sessions := v1.Group("/sessions/:id")

	sessions.Get("/files", func(c *fiber.Ctx) error {
		sess, err := service.Session(c.Params("id"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(toSessionDTO(sess))
	})

	sessions.Post("/files", func(c *fiber.Ctx) error {
		form, err := c.MultipartForm()
		if err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "expected multipart form with files")
		}
		files := form.File["files"]
		if len(files) == 0 {
			return fiber.NewError(fiber.StatusBadRequest, "no files uploaded")
		}
		rooms := form.Value["rooms"]

		stored := make([]fileDTO, 0, len(files))
		for i, fh := range files {
			room := ""
			if i < len(rooms) {
				room = rooms[i]
			}

			f, err := fh.Open()
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "failed to read "+fh.Filename)
			}
			var buf bytes.Buffer
			_, err = io.Copy(&buf, f)
			f.Close()
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "failed to read "+fh.Filename)
			}

			uf, err := service.AddFile(c.Params("id"), fh.Filename, room, buf.Bytes())
			if err != nil {
				return mapError(err)
			}
			stored = append(stored, toFileDTO(*uf))
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{"files": stored})
	})

	sessions.Put("/files/:name", func(c *fiber.Ctx) error {
		var req roomRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := service.SetRoom(c.Params("id"), fileName(c), req.Room); err != nil {
			return mapError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	sessions.Delete("/files/:name", func(c *fiber.Ctx) error {
		if err := service.RemoveFile(c.Params("id"), fileName(c)); err != nil {
			return mapError(err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	})

	sessions.Post("/imports", func(c *fiber.Ctx) error {
		var req importRequest
		if err := c.BodyParser(&req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
		}
		if err := validate.Struct(req); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		uf, err := service.ImportRemote(c.UserContext(), c.Params("id"), req.Name, req.URL, req.Room)
		if err != nil {
			if errors.Is(err, store.ErrNotFound) {
				return mapError(err)
			}
			if errors.Is(err, sensor.ErrImportsDisabled) {
				return fiber.NewError(fiber.StatusForbidden, err.Error())
			}
			return fiber.NewError(fiber.StatusBadGateway, err.Error())
		}
		return c.Status(fiber.StatusCreated).JSON(toFileDTO(*uf))
	})

	sessions.Post("/process", func(c *fiber.Ctx) error {
		rep, err := service.Process(c.Params("id"))
		if err != nil {
			return mapError(err)
		}
		return c.JSON(toReportDTO(rep))
	})

	sessions.Get("/summary", func(c *fiber.Ctx) error {
		sum, err := service.Summary(c.Params("id"))
		if err != nil {
			if errors.Is(err, sensor.ErrEmptyResult) {
				return emptyResult(c)
			}
			return mapError(err)
		}
		return c.JSON(toSummaryDTO(sum))
	})

	sessions.Get("/dashboard", func(c *fiber.Ctx) error {
		var q dashboardQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		d, err := service.Dashboard(c.Params("id"), q.toQuery())
		if err != nil {
			if errors.Is(err, sensor.ErrEmptyResult) {
				return emptyResult(c)
			}
			return mapError(err)
		}
		return c.JSON(toDashboardDTO(d))
	})

	sessions.Get("/export.csv", func(c *fiber.Ctx) error {
		var q dashboardQuery
		if err := q.bind(c); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		var buf bytes.Buffer
		if err := service.Export(c.Params("id"), q.toQuery().Filter, &buf); err != nil {
			if errors.Is(err, sensor.ErrEmptyResult) {
				return emptyResult(c)
			}
			return mapError(err)
		}
		c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
		c.Set(fiber.HeaderContentDisposition, `attachment; filename="sensor_daily.csv"`)
		return c.Send(buf.Bytes())
	})
}

// mapError converts service errors into HTTP errors.
func mapError(err error) error {
	switch {
	case errors.Is(err, store.ErrNotFound):
		return fiber.NewError(fiber.StatusNotFound, "session not found")
	case errors.Is(err, sensor.ErrFileNotFound):
		return fiber.NewError(fiber.StatusNotFound, err.Error())
	case errors.Is(err, sensor.ErrUnknownParameter):
		return fiber.NewError(fiber.StatusBadRequest, err.Error())
	default:
		return fiber.NewError(fiber.StatusInternalServerError, "request failed")
	}
}

// fileName returns the unescaped :name route parameter.
func fileName(c *fiber.Ctx) string {
	name := c.Params("name")
	if unescaped, err := url.PathUnescape(name); err == nil {
		return unescaped
	}
	return name
}

// emptyResult is the non-fatal "nothing to show" state.
func emptyResult(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"empty":   true,
		"message": "No valid data was processed.",
	})
}

// roomRequest relabels an uploaded file.
type roomRequest struct {
	Room string `json:"room" validate:"max=128"`
}

// importRequest identifies a remote CSV log.
type importRequest struct {
	URL  string `json:"url" validate:"required,url"`
	Name string `json:"name" validate:"max=256"`
	Room string `json:"room" validate:"max=128"`
}

// dashboardQuery holds the selection inputs of the dashboard.
type dashboardQuery struct {
	From       time.Time
	To         time.Time `validate:"omitempty,gtefield=From"`
	Rooms      []string  `validate:"omitempty,dive,required"`
	Parameters []string  `validate:"omitempty,dive,required"`
}
