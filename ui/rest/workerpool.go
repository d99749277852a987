package rest

import (
	"github.com/AzielCF/az-content/pkg/genworker"
	"github.com/gofiber/fiber/v2"
)

var generatorPool *genworker.Pool

// SetGeneratorPool exposes pool on the stats endpoint.
func SetGeneratorPool(pool *genworker.Pool) {
	generatorPool = pool
}

func InitRestWorkerPool(app fiber.Router) {
	app.Get("/generate/pool/stats", GetGeneratorPoolStats)
}

// GetGeneratorPoolStats returns real-time generation worker pool statistics
func GetGeneratorPoolStats(c *fiber.Ctx) error {
	if generatorPool == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "Generation worker pool not initialized",
		})
	}

	stats := generatorPool.GetStats()
	return c.JSON(stats)
}
