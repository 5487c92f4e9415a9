package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/greenhouse/plants-api/internal/core/domain"
	"github.com/greenhouse/plants-api/internal/core/ports"
)

// PlantHandler handles HTTP requests for plant operations.
type PlantHandler struct {
	service ports.PlantService
}

func NewPlantHandler(service ports.PlantService) *PlantHandler {
	return &PlantHandler{service: service}
}

// List handles GET /plants.
//
// @Summary      List plants
// @Tags         plants
// @Produce      json
// @Param        care_level  query     string  false  "Filter by care level"
// @Success      200         {array}   domain.Plant
// @Failure      503         {object}  errorResponse
// @Router       /plants [get]
func (h *PlantHandler) List(c echo.Context) error {
	plants, err := h.service.ListPlants(c.Request().Context(), domain.PlantFilter{
		CareLevel: c.QueryParam("care_level"),
	})
	if err != nil {
		return err
	}
	if plants == nil {
		plants = []*domain.Plant{}
	}
	return c.JSON(http.StatusOK, plants)
}

// Get handles GET /plants/:id.
//
// @Summary      Get a plant
// @Tags         plants
// @Produce      json
// @Param        id   path      string  true  "Plant id (24 hex characters)"
// @Success      200  {object}  domain.Plant
// @Failure      400  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Router       /plants/{id} [get]
func (h *PlantHandler) Get(c echo.Context) error {
	plant, err := h.service.GetPlant(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, plant)
}

// Create handles POST /plants.
//
// @Summary      Create a plant
// @Tags         plants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      createPlantRequest  true  "Plant"
// @Success      201   {object}  createPlantResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /plants [post]
func (h *PlantHandler) Create(c echo.Context) error {
	var req createPlantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}
	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: err.Error()})
	}

	plant, err := h.service.CreatePlant(c.Request().Context(), ports.CreatePlantInput{
		Name:      req.Name,
		Type:      req.Type,
		CareLevel: req.CareLevel,
	})
	if err != nil {
		return err
	}

	c.Response().Header().Set(echo.HeaderLocation, "/plants/"+plant.ID)
	return c.JSON(http.StatusCreated, createPlantResponse{
		Message: "plant created",
		ID:      plant.ID,
		Data:    plant,
	})
}

// Update handles PUT /plants/:id. Only the fields present in the body change.
//
// @Summary      Update a plant
// @Tags         plants
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string              true  "Plant id"
// @Param        body  body      updatePlantRequest  true  "Fields to change"
// @Success      200   {object}  plantResponse
// @Failure      400   {object}  errorResponse
// @Failure      401   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /plants/{id} [put]
func (h *PlantHandler) Update(c echo.Context) error {
	var req updatePlantRequest
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, errorResponse{Error: "invalid payload"})
	}

	plant, err := h.service.UpdatePlant(c.Request().Context(), c.Param("id"), domain.PlantPatch{
		Name:      req.Name,
		Type:      req.Type,
		CareLevel: req.CareLevel,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, plantResponse{Message: "plant updated", Data: plant})
}

// Delete handles DELETE /plants/:id.
//
// @Summary      Delete a plant
// @Tags         plants
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "Plant id"
// @Success      200  {object}  messageResponse
// @Failure      400  {object}  errorResponse
// @Failure      401  {object}  errorResponse
// @Failure      404  {object}  errorResponse
// @Failure      422  {object}  errorResponse
// @Router       /plants/{id} [delete]
func (h *PlantHandler) Delete(c echo.Context) error {
	if err := h.service.DeletePlant(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Message: "plant deleted"})
}
