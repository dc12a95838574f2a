// Copyright Mia srl
// SPDX-License-Identifier: AGPL-3.0-only or Commercial

package server

import (
	"encoding/json"
	"fmt"
	"maps"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/mia-platform/aggregator/internal/connector"
	"github.com/mia-platform/aggregator/internal/info"
	"github.com/mia-platform/aggregator/internal/source"
)

const (
	modelParam  = "model"
	idParam     = "id"
	filterQuery = "filter"
	whereQuery  = "where"
)

type statusResponse struct {
	Status  string `json:"status"`
	Name    string `json:"name,omitempty"`
	Version string `json:"version,omitempty"`
}

type countResponse struct {
	Count int `json:"count"`
}

func statusRoutes(app *fiber.App, conn connector.DataAccessConnector) {
	status := app.Group("/-")

	status.Get("/healthz", func(c *fiber.Ctx) error {
		return c.JSON(statusResponse{Status: "OK", Name: info.AppName, Version: info.Version})
	})

	status.Get("/ready", func(c *fiber.Ctx) error {
		if err := conn.Ping(c.UserContext()); err != nil {
			return c.Status(http.StatusServiceUnavailable).JSON(statusResponse{Status: "KO"})
		}
		return c.JSON(statusResponse{Status: "OK", Name: info.AppName, Version: info.Version})
	})

	status.Get("/types", func(c *fiber.Ctx) error {
		return c.JSON(conn.Types())
	})
}

type modelHandlers struct {
	conn connector.DataAccessConnector
}

func modelRoutes(app *fiber.App, conn connector.DataAccessConnector) {
	handlers := &modelHandlers{conn: conn}
	models := app.Group("/models")

	models.Get("/:model", handlers.all)
	models.Get("/:model/count", handlers.count)
	models.Post("/:model", handlers.create)
	models.Put("/:model", handlers.updateOrCreate)
	models.Patch("/:model", handlers.update)
	models.Delete("/:model", handlers.destroyAll)
	models.Post("/:model/find-or-create", handlers.findOrCreate)
	models.Put("/:model/:id", handlers.save)
	models.Patch("/:model/:id", handlers.updateAttributes)
	models.Delete("/:model/:id", handlers.destroy)
}

// parseFilter decodes the JSON object found in the query parameter named key, an absent
// parameter returns a nil filter.
func parseFilter(c *fiber.Ctx, key string) (connector.Filter, error) {
	raw := c.Query(key)
	if raw == "" {
		return nil, nil
	}

	var filter connector.Filter
	if err := json.Unmarshal([]byte(raw), &filter); err != nil {
		return nil, fmt.Errorf("%w: %s is not a valid JSON object: %w", errInvalidRequest, key, err)
	}
	return filter, nil
}

func parseBody(c *fiber.Ctx) (source.Document, error) {
	body := c.Body()
	if len(body) == 0 {
		return nil, nil
	}

	var data source.Document
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("%w: body is not a valid JSON object: %w", errInvalidRequest, err)
	}
	return data, nil
}

// requestOptions forwards the query parameters that are not filters as call options.
func requestOptions(c *fiber.Ctx) source.Options {
	options := make(source.Options)
	for key, value := range c.Queries() {
		if key == filterQuery || key == whereQuery {
			continue
		}
		options[key] = value
	}
	return options
}

func (h *modelHandlers) all(c *fiber.Ctx) error {
	filter, err := parseFilter(c, filterQuery)
	if err != nil {
		return respondError(c, err)
	}

	documents, err := h.conn.All(c.UserContext(), c.Params(modelParam), filter, requestOptions(c))
	if err != nil {
		return respondError(c, fmt.Errorf("%w: %w", errSourceFailure, err))
	}
	return c.JSON(documents)
}

func (h *modelHandlers) count(c *fiber.Ctx) error {
	where, err := parseFilter(c, whereQuery)
	if err != nil {
		return respondError(c, err)
	}

	count, err := h.conn.Count(c.UserContext(), c.Params(modelParam), where, requestOptions(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(countResponse{Count: count})
}

func (h *modelHandlers) create(c *fiber.Ctx) error {
	data, err := parseBody(c)
	if err != nil {
		return respondError(c, err)
	}

	document, err := h.conn.Create(c.UserContext(), c.Params(modelParam), data, requestOptions(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(http.StatusCreated).JSON(document)
}

func (h *modelHandlers) updateOrCreate(c *fiber.Ctx) error {
	data, err := parseBody(c)
	if err != nil {
		return respondError(c, err)
	}

	document, err := h.conn.UpdateOrCreate(c.UserContext(), c.Params(modelParam), data, requestOptions(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(document)
}

func (h *modelHandlers) findOrCreate(c *fiber.Ctx) error {
	filter, err := parseFilter(c, filterQuery)
	if err != nil {
		return respondError(c, err)
	}
	data, err := parseBody(c)
	if err != nil {
		return respondError(c, err)
	}

	document, err := h.conn.FindOrCreate(c.UserContext(), c.Params(modelParam), filter, data, requestOptions(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(document)
}

func (h *modelHandlers) update(c *fiber.Ctx) error {
	where, err := parseFilter(c, whereQuery)
	if err != nil {
		return respondError(c, err)
	}
	data, err := parseBody(c)
	if err != nil {
		return respondError(c, err)
	}

	count, err := h.conn.Update(c.UserContext(), c.Params(modelParam), where, data, requestOptions(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(countResponse{Count: count})
}

func (h *modelHandlers) destroyAll(c *fiber.Ctx) error {
	where, err := parseFilter(c, whereQuery)
	if err != nil {
		return respondError(c, err)
	}

	count, err := h.conn.DestroyAll(c.UserContext(), c.Params(modelParam), where, requestOptions(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(countResponse{Count: count})
}

func (h *modelHandlers) save(c *fiber.Ctx) error {
	data, err := parseBody(c)
	if err != nil {
		return respondError(c, err)
	}

	data = maps.Clone(data)
	if data == nil {
		data = make(source.Document)
	}
	data[idParam] = c.Params(idParam)

	document, err := h.conn.Save(c.UserContext(), c.Params(modelParam), data, requestOptions(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(document)
}

func (h *modelHandlers) updateAttributes(c *fiber.Ctx) error {
	data, err := parseBody(c)
	if err != nil {
		return respondError(c, err)
	}

	document, err := h.conn.UpdateAttributes(c.UserContext(), c.Params(modelParam), c.Params(idParam), data, requestOptions(c))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(document)
}

func (h *modelHandlers) destroy(c *fiber.Ctx) error {
	if err := h.conn.Destroy(c.UserContext(), c.Params(modelParam), c.Params(idParam), requestOptions(c)); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(http.StatusNoContent)
}
