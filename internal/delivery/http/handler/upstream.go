package handler

import (
	"strconv"

	"github.com/gofiber/fiber/v3"

	"ats-gateway/internal/pkg/response"
	"ats-gateway/internal/resource"
)

const HeaderUpstreamStatus = "X-Upstream-Status"

// writeResult renders an upstream outcome. Server failures keep the upstream
// status and body; they bypass the error middleware so 5xx bodies survive.
func writeResult[R any](c fiber.Ctx, res resource.Result[R]) error {
	if res.Status > 0 {
		c.Set(HeaderUpstreamStatus, strconv.Itoa(res.Status))
	}
	if res.OK() {
		return response.Success(c, fiber.StatusOK, response.MessageOK, res.Value)
	}

	f := res.Failure
	switch f.Kind {
	case resource.FailureServer:
		return response.Error(c, f.Status, response.MessageUpstreamError, f.Payload())
	case resource.FailureTransport:
		return response.Error(c, fiber.StatusBadGateway, response.MessageBadGateway, nil)
	default:
		// A local failure with a status means a 2xx body did not decode.
		if f.Status > 0 {
			return response.Error(c, fiber.StatusInternalServerError, response.MessageInternalServerError, nil)
		}
		return response.Error(c, fiber.StatusBadRequest, f.Message, nil)
	}
}
