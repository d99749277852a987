package middleware

import (
	"errors"
	"fmt"

	pkgError "github.com/AzielCF/az-content/pkg/error"
	"github.com/AzielCF/az-content/pkg/utils"
	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// Recovery turns panics raised by handlers (usually through utils.PanicIfNeeded)
// into a ResponseData body. GenericErrors keep their status and code, anything
// else is reported as a 500.
func Recovery() fiber.Handler {
	return func(ctx *fiber.Ctx) error {
		defer func() {
			rec := recover()
			if rec == nil {
				return
			}

			res := utils.ResponseData{
				Status:  fiber.StatusInternalServerError,
				Code:    "INTERNAL_SERVER_ERROR",
				Message: fmt.Sprintf("%v", rec),
			}

			var generic pkgError.GenericError
			if err, ok := rec.(error); ok && errors.As(err, &generic) {
				res.Status = generic.StatusCode()
				res.Code = generic.ErrCode()
				res.Message = generic.Error()
			}

			entry := logrus.WithFields(logrus.Fields{
				"method":     ctx.Method(),
				"path":       ctx.Path(),
				"request_id": ctx.GetRespHeader(fiber.HeaderXRequestID),
				"code":       res.Code,
			})
			if res.Status >= fiber.StatusInternalServerError {
				entry.Errorf("[REST] Panic recovered: %v", rec)
			} else {
				entry.Debugf("[REST] Request rejected: %v", rec)
			}

			_ = ctx.Status(res.Status).JSON(res)
		}()

		return ctx.Next()
	}
}
