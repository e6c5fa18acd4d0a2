package handlers

import (
	"net/http"

	"firetrack-backend/internal/services"
	"firetrack-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type VehicleHandler struct {
	vehicleService *services.VehicleService
	validator      *validator.Validate
}

func NewVehicleHandler(vehicleService *services.VehicleService) *VehicleHandler {
	return &VehicleHandler{
		vehicleService: vehicleService,
		validator:      validator.New(),
	}
}

// GetVehicles retrieves the fleet with equipment and history embedded
func (h *VehicleHandler) GetVehicles(c *gin.Context) {
	vehicles, err := h.vehicleService.GetAllVehicles()
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve vehicles", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicles retrieved successfully", vehicles)
}

// GetVehicle retrieves a specific vehicle by ID
func (h *VehicleHandler) GetVehicle(c *gin.Context) {
	vehicleID := c.Param("id")
	if vehicleID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Vehicle ID is required", nil)
		return
	}

	vehicle, err := h.vehicleService.GetVehicleByID(vehicleID)
	if err != nil {
		respondServiceError(c, "Vehicle not found", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle retrieved successfully", vehicle)
}

// CreateVehicle commissions a new vehicle
func (h *VehicleHandler) CreateVehicle(c *gin.Context) {
	var req services.CreateVehicleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	vehicle, err := h.vehicleService.CreateVehicle(&req, actorFrom(c))
	if err != nil {
		respondServiceError(c, "Failed to create vehicle", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Vehicle created successfully", vehicle)
}

// UpdateStatus changes a vehicle's operational status
func (h *VehicleHandler) UpdateStatus(c *gin.Context) {
	vehicleID := c.Param("id")
	if vehicleID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Vehicle ID is required", nil)
		return
	}

	var req services.UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	if err := h.vehicleService.UpdateStatus(vehicleID, &req, actorFrom(c)); err != nil {
		respondServiceError(c, "Failed to update status", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Status updated successfully", nil)
}

// DeleteVehicle removes a vehicle including its equipment and history
func (h *VehicleHandler) DeleteVehicle(c *gin.Context) {
	vehicleID := c.Param("id")
	if vehicleID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Vehicle ID is required", nil)
		return
	}

	if err := h.vehicleService.DeleteVehicle(vehicleID, actorFrom(c)); err != nil {
		respondServiceError(c, "Failed to delete vehicle", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Vehicle deleted successfully", nil)
}

// GetFleetStats returns vehicle counts per operational status
func (h *VehicleHandler) GetFleetStats(c *gin.Context) {
	stats, err := h.vehicleService.GetFleetStats()
	if err != nil {
		utils.ErrorResponse(c, http.StatusInternalServerError, "Failed to retrieve fleet stats", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Fleet stats retrieved successfully", stats)
}

// GetHistory returns a vehicle's log, optionally filtered
// (?filter=all|anomaly|verification|other)
func (h *VehicleHandler) GetHistory(c *gin.Context) {
	vehicleID := c.Param("id")
	if vehicleID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Vehicle ID is required", nil)
		return
	}

	filter := c.DefaultQuery("filter", services.FilterAll)

	entries, err := h.vehicleService.GetHistory(vehicleID, filter)
	if err != nil {
		respondServiceError(c, "Failed to retrieve history", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "History retrieved successfully", entries)
}

// AddNote appends a free-text note to a vehicle's log
func (h *VehicleHandler) AddNote(c *gin.Context) {
	vehicleID := c.Param("id")
	if vehicleID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Vehicle ID is required", nil)
		return
	}

	var req services.AddNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	entry, err := h.vehicleService.AddNote(vehicleID, &req, actorFrom(c))
	if err != nil {
		respondServiceError(c, "Failed to add note", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Note added successfully", entry)
}
