package controller

import (
	"user-directory-be/internal/pkg/serverutils"
	"user-directory-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDirectoryController interface {
	RegisterRoutes(r fiber.Router)
	Status(ctx *fiber.Ctx) error
}

type directoryController struct {
	service service.IDirectoryService
}

func NewDirectoryController(service service.IDirectoryService) IDirectoryController {
	return &directoryController{service: service}
}

func (c *directoryController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/directory")
	h.Get("/status", c.Status)
}

func (c *directoryController) Status(ctx *fiber.Ctx) error {
	return ctx.JSON(serverutils.SuccessResponse("Directory status", c.service.Status()))
}
