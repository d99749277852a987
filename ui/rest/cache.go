package rest

import (
	cacheDomain "github.com/AzielCF/az-content/contentcache/domain"
	domainCache "github.com/AzielCF/az-content/domains/cache"
	pkgError "github.com/AzielCF/az-content/pkg/error"
	"github.com/AzielCF/az-content/pkg/utils"
	"github.com/gofiber/fiber/v2"
)

type Cache struct {
	Service domainCache.ICacheUsecase
}

func InitRestCache(app fiber.Router, service domainCache.ICacheUsecase) Cache {
	rest := Cache{Service: service}
	app.Get("/cache/stats", rest.GetStats)
	app.Get("/cache/cluster", rest.GetClusterStats)
	app.Post("/cache/clear", rest.Clear)
	app.Post("/cache/purge", rest.PurgeExpired)
	app.Get("/cache/settings", rest.GetSettings)
	app.Put("/cache/settings", rest.UpdateSettings)

	app.Get("/cache/outlines", rest.ListOutlines)
	app.Get("/cache/outlines/:key", rest.GetOutline)
	app.Put("/cache/outlines/:key", rest.SetOutline)
	app.Post("/cache/outlines/:key/warm", rest.WarmOutline)
	app.Delete("/cache/outlines/:key", rest.RemoveOutline)

	app.Get("/cache/contents", rest.ListContents)
	app.Get("/cache/contents/:key", rest.GetContent)
	app.Put("/cache/contents/:key", rest.SetContent)
	app.Post("/cache/contents/:key/warm", rest.WarmContent)
	app.Delete("/cache/contents/:key", rest.RemoveContent)
	app.Get("/cache/contents/:key/score", rest.ScoreContent)

	return rest
}

func (handler *Cache) GetStats(c *fiber.Ctx) error {
	stats, err := handler.Service.GetStats(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Cache stats retrieved",
		Results: stats,
	})
}

func (handler *Cache) GetClusterStats(c *fiber.Ctx) error {
	stats, err := handler.Service.GetClusterStats(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Cluster cache stats retrieved",
		Results: stats,
	})
}

func (handler *Cache) Clear(c *fiber.Ctx) error {
	err := handler.Service.Clear(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Cache cleared successfully",
	})
}

func (handler *Cache) PurgeExpired(c *fiber.Ctx) error {
	removed, err := handler.Service.PurgeExpired(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Expired entries purged",
		Results: fiber.Map{"removed": removed},
	})
}

func (handler *Cache) GetSettings(c *fiber.Ctx) error {
	settings, err := handler.Service.GetSettings(c.UserContext())
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Cache settings retrieved",
		Results: settings,
	})
}

func (handler *Cache) UpdateSettings(c *fiber.Ctx) error {
	var request domainCache.CacheSettings
	err := c.BodyParser(&request)
	utils.PanicIfNeeded(err)

	settings, err := handler.Service.SaveSettings(c.UserContext(), request)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Cache settings saved, restart to apply",
		Results: settings,
	})
}

func (handler *Cache) ListOutlines(c *fiber.Ctx) error {
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Cached outlines listed",
		Results: handler.Service.ListOutlines(c.UserContext()),
	})
}

func (handler *Cache) GetOutline(c *fiber.Ctx) error {
	entry, err := handler.Service.GetOutline(c.UserContext(), c.Params("key"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Outline retrieved",
		Results: entry,
	})
}

func (handler *Cache) SetOutline(c *fiber.Ctx) error {
	var outline cacheDomain.Outline
	if err := c.BodyParser(&outline); err != nil {
		utils.PanicIfNeeded(pkgError.ValidationError(err.Error()))
	}

	err := handler.Service.SetOutline(c.UserContext(), c.Params("key"), outline)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Outline cached",
	})
}

func (handler *Cache) WarmOutline(c *fiber.Ctx) error {
	var outline cacheDomain.Outline
	if err := c.BodyParser(&outline); err != nil {
		utils.PanicIfNeeded(pkgError.ValidationError(err.Error()))
	}

	err := handler.Service.WarmOutline(c.UserContext(), c.Params("key"), outline)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Outline warmed",
	})
}

func (handler *Cache) RemoveOutline(c *fiber.Ctx) error {
	err := handler.Service.RemoveOutline(c.UserContext(), c.Params("key"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Outline removed",
	})
}

func (handler *Cache) ListContents(c *fiber.Ctx) error {
	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Cached contents listed",
		Results: handler.Service.ListContents(c.UserContext()),
	})
}

func (handler *Cache) GetContent(c *fiber.Ctx) error {
	entry, err := handler.Service.GetContent(c.UserContext(), c.Params("key"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Content retrieved",
		Results: entry,
	})
}

func (handler *Cache) SetContent(c *fiber.Ctx) error {
	var content cacheDomain.Content
	if err := c.BodyParser(&content); err != nil {
		utils.PanicIfNeeded(pkgError.ValidationError(err.Error()))
	}

	err := handler.Service.SetContent(c.UserContext(), c.Params("key"), content)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Content cached",
	})
}

func (handler *Cache) WarmContent(c *fiber.Ctx) error {
	var content cacheDomain.Content
	if err := c.BodyParser(&content); err != nil {
		utils.PanicIfNeeded(pkgError.ValidationError(err.Error()))
	}

	err := handler.Service.WarmContent(c.UserContext(), c.Params("key"), content)
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Content warmed",
	})
}

func (handler *Cache) RemoveContent(c *fiber.Ctx) error {
	err := handler.Service.RemoveContent(c.UserContext(), c.Params("key"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Content removed",
	})
}

func (handler *Cache) ScoreContent(c *fiber.Ctx) error {
	report, err := handler.Service.ScoreContent(c.UserContext(), c.Params("key"), c.Query("keyword"))
	utils.PanicIfNeeded(err)

	return c.JSON(utils.ResponseData{
		Status:  200,
		Code:    "SUCCESS",
		Message: "Content scored",
		Results: report,
	})
}
