// FILE: internal/controller/user_controller.go
package controller

import (
	"user-directory-be/internal/dto"
	"user-directory-be/internal/mapper"
	"user-directory-be/internal/pkg/serverutils"
	"user-directory-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IUserController interface {
	RegisterRoutes(r fiber.Router)
	List(ctx *fiber.Ctx) error
	Get(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
	Delete(ctx *fiber.Ctx) error
}

type userController struct {
	service service.IUserService
	mapper  *mapper.UserMapper
}

func NewUserController(service service.IUserService) IUserController {
	return &userController{service: service, mapper: mapper.NewUserMapper()}
}

func (c *userController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/users")
	h.Use(serverutils.FormSessionMiddleware)
	h.Get("/", c.List)
	h.Get("/:id", c.Get)
	h.Post("/", c.Create)
	h.Put("/:id", c.Update)
	h.Delete("/:id", c.Delete)
}

func (c *userController) List(ctx *fiber.Ctx) error {
	users := c.service.List(ctx.UserContext())
	return ctx.JSON(serverutils.SuccessResponse("Users", c.mapper.ToResponses(users)))
}

func (c *userController) Get(ctx *fiber.Ctx) error {
	user, err := c.service.Get(ctx.UserContext(), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("User", c.mapper.ToResponse(user)))
}

func (c *userController) Create(ctx *fiber.Ctx) error {
	var req dto.CreateUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	user, err := c.service.Add(ctx.UserContext(), c.mapper.ToDraft(req))
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse(service.MsgUserAdded, c.mapper.ToResponse(user)))
}

func (c *userController) Update(ctx *fiber.Ctx) error {
	var req dto.UpdateUserRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	user, err := c.service.Update(ctx.UserContext(), ctx.Params("id"), c.mapper.ToPatch(req))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse(service.MsgUserUpdated, c.mapper.ToResponse(user)))
}

func (c *userController) Delete(ctx *fiber.Ctx) error {
	if err := c.service.Remove(ctx.UserContext(), ctx.Params("id")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any](service.MsgUserDeleted, nil))
}
