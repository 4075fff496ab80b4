package controller

import (
	"user-directory-be/internal/dto"
	"user-directory-be/internal/pkg/serverutils"
	"user-directory-be/internal/service"
	"user-directory-be/pkg/form"

	"github.com/gofiber/fiber/v2"
)

type IFormController interface {
	RegisterRoutes(r fiber.Router)
	Open(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	ChangeField(ctx *fiber.Ctx) error
	StartEdit(ctx *fiber.Ctx) error
	Submit(ctx *fiber.Ctx) error
	Cancel(ctx *fiber.Ctx) error
	Close(ctx *fiber.Ctx) error
}

type formController struct {
	service service.IFormService
}

func NewFormController(service service.IFormService) IFormController {
	return &formController{service: service}
}

func (c *formController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/forms")
	h.Post("/", c.Open)
	h.Get("/:sid", c.Show)
	h.Patch("/:sid/fields", c.ChangeField)
	h.Post("/:sid/edit/:id", c.StartEdit)
	h.Post("/:sid/submit", c.Submit)
	h.Post("/:sid/cancel", c.Cancel)
	h.Delete("/:sid", c.Close)
}

func (c *formController) Open(ctx *fiber.Ctx) error {
	res := c.service.Open(ctx.UserContext())
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Form session opened", res))
}

func (c *formController) Show(ctx *fiber.Ctx) error {
	res, err := c.service.Get(ctx.UserContext(), ctx.Params("sid"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Form session", res))
}

func (c *formController) ChangeField(ctx *fiber.Ctx) error {
	var req dto.FieldChangeRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(serverutils.ErrorResponse(400, "Invalid request body"))
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.service.ChangeField(ctx.UserContext(), ctx.Params("sid"), req.Field, req.Value)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Field updated", res))
}

func (c *formController) StartEdit(ctx *fiber.Ctx) error {
	res, err := c.service.StartEdit(ctx.UserContext(), ctx.Params("sid"), ctx.Params("id"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Editing user", res))
}

func (c *formController) Submit(ctx *fiber.Ctx) error {
	res, err := c.service.Submit(ctx.UserContext(), ctx.Params("sid"))
	if err != nil {
		return err
	}

	message := service.MsgUserAdded
	if res.Transition != nil && res.Transition.From == form.ModeEditing {
		message = service.MsgUserUpdated
	}
	return ctx.JSON(serverutils.SuccessResponse(message, res))
}

func (c *formController) Cancel(ctx *fiber.Ctx) error {
	res, err := c.service.Cancel(ctx.UserContext(), ctx.Params("sid"))
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Edit cancelled", res))
}

func (c *formController) Close(ctx *fiber.Ctx) error {
	if err := c.service.Close(ctx.UserContext(), ctx.Params("sid")); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Form session closed", nil))
}
