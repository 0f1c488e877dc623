package handlers

import (
	"errors"
	"strconv"

	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/app"
	vehiclesController "github.com/simonlarsson92/GreaseMonkeyJournal/internal/controllers/vehicles"
	"github.com/simonlarsson92/GreaseMonkeyJournal/internal/logger"

	"github.com/gofiber/fiber/v2"
)

type VehicleHandler struct {
	Handler
	vehicleController vehiclesController.VehicleControllerInterface
}

func NewVehicleHandler(app app.App, router fiber.Router) *VehicleHandler {
	log := logger.New("handlers").File("vehicle_handler")
	return &VehicleHandler{
		vehicleController: app.Controllers.Vehicle,
		Handler: Handler{
			log:        log,
			router:     router,
			middleware: app.Middleware,
		},
	}
}

func (h *VehicleHandler) Register() {
	vehicles := h.router.Group("/vehicles")
	vehicles.Get("", h.getVehicles)
	vehicles.Get("/:id", h.getVehicle)
	vehicles.Post("", h.createVehicle)
	vehicles.Put("/:id", h.updateVehicle)
	vehicles.Delete("/:id", h.deleteVehicle)
}

func vehicleErrorStatus(err error) int {
	switch {
	case errors.Is(err, vehiclesController.ErrValidation):
		return fiber.StatusBadRequest
	case errors.Is(err, vehiclesController.ErrNotFound):
		return fiber.StatusNotFound
	default:
		return fiber.StatusInternalServerError
	}
}

func (h *VehicleHandler) getVehicles(c *fiber.Ctx) error {
	vehicles, err := h.vehicleController.GetVehicles(c.UserContext())
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to get vehicles",
		})
	}

	return c.JSON(fiber.Map{
		"vehicles": vehicles,
	})
}

func (h *VehicleHandler) getVehicle(c *fiber.Ctx) error {
	vehicleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid vehicle ID",
		})
	}

	vehicle, err := h.vehicleController.GetVehicle(c.UserContext(), vehicleID)
	if err != nil {
		return c.Status(vehicleErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"vehicle": vehicle,
	})
}

func (h *VehicleHandler) createVehicle(c *fiber.Ctx) error {
	var req vehiclesController.CreateVehicleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	vehicle, err := h.vehicleController.CreateVehicle(c.UserContext(), &req)
	if err != nil {
		return c.Status(vehicleErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"vehicle": vehicle,
	})
}

func (h *VehicleHandler) updateVehicle(c *fiber.Ctx) error {
	vehicleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid vehicle ID",
		})
	}

	var req vehiclesController.UpdateVehicleRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	vehicle, err := h.vehicleController.UpdateVehicle(c.UserContext(), vehicleID, &req)
	if err != nil {
		return c.Status(vehicleErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.JSON(fiber.Map{
		"vehicle": vehicle,
	})
}

func (h *VehicleHandler) deleteVehicle(c *fiber.Ctx) error {
	vehicleID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid vehicle ID",
		})
	}

	if err := h.vehicleController.DeleteVehicle(c.UserContext(), vehicleID); err != nil {
		return c.Status(vehicleErrorStatus(err)).JSON(fiber.Map{
			"error": err.Error(),
		})
	}

	return c.Status(fiber.StatusNoContent).Send(nil)
}
