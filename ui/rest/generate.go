package rest

import (
	domainGenerator "github.com/AzielCF/az-content/domains/generator"
	pkgError "github.com/AzielCF/az-content/pkg/error"
	"github.com/AzielCF/az-content/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type Generator struct {
	Service domainGenerator.IGeneratorUsecase
}

func InitRestGenerator(app fiber.Router, service domainGenerator.IGeneratorUsecase) Generator {
	rest := Generator{Service: service}
	app.Post("/generate/outline", rest.GenerateOutline)
	app.Post("/generate/outline/prefetch", rest.PrefetchOutline)
	app.Post("/generate/content", rest.GenerateContent)

	return rest
}

func (handler *Generator) GenerateOutline(c *fiber.Ctx) error {
	var request domainGenerator.OutlineRequest
	if err := c.BodyParser(&request); err != nil {
		utils.PanicIfNeeded(pkgError.ValidationError(err.Error()))
	}

	result, err := handler.Service.GenerateOutline(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	message := "Outline generated"
	if result.Cached {
		message = "Outline served from cache"
	}
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: message,
		Results: result,
	})
}

func (handler *Generator) GenerateContent(c *fiber.Ctx) error {
	var request domainGenerator.ContentRequest
	if err := c.BodyParser(&request); err != nil {
		utils.PanicIfNeeded(pkgError.ValidationError(err.Error()))
	}

	result, err := handler.Service.GenerateContent(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	message := "Content generated"
	if result.Cached {
		message = "Content served from cache"
	}
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: message,
		Results: result,
	})
}

func (handler *Generator) PrefetchOutline(c *fiber.Ctx) error {
	var request domainGenerator.OutlineRequest
	if err := c.BodyParser(&request); err != nil {
		utils.PanicIfNeeded(pkgError.ValidationError(err.Error()))
	}

	result, err := handler.Service.PrefetchOutline(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	status := fiber.StatusAccepted
	if result.Status != domainGenerator.PrefetchQueued {
		status = fiber.StatusOK
	}
	return c.Status(status).JSON(utils.ResponseData{
		Status:  status,
		Code:    "SUCCESS",
		Message: "Outline prefetch " + result.Status,
		Results: result,
	})
}
