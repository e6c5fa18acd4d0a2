package handlers

import (
	"net/http"

	"firetrack-backend/internal/services"
	"firetrack-backend/pkg/utils"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type EquipmentHandler struct {
	equipmentService *services.EquipmentService
	validator        *validator.Validate
}

func NewEquipmentHandler(equipmentService *services.EquipmentService) *EquipmentHandler {
	return &EquipmentHandler{
		equipmentService: equipmentService,
		validator:        validator.New(),
	}
}

// ListEquipment returns a vehicle's inventory with search, location facet
// and verification-first sorting applied (?search=...&location=...)
func (h *EquipmentHandler) ListEquipment(c *gin.Context) {
	vehicleID := c.Param("id")
	if vehicleID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Vehicle ID is required", nil)
		return
	}

	view, err := h.equipmentService.ListEquipment(vehicleID, services.EquipmentQuery{
		Search:   c.Query("search"),
		Location: c.Query("location"),
	})
	if err != nil {
		respondServiceError(c, "Failed to retrieve equipment", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Equipment retrieved successfully", view)
}

// AddEquipment attaches a new item to a vehicle
func (h *EquipmentHandler) AddEquipment(c *gin.Context) {
	vehicleID := c.Param("id")
	if vehicleID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Vehicle ID is required", nil)
		return
	}

	var req services.AddEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	eq, err := h.equipmentService.AddEquipment(vehicleID, &req, actorFrom(c))
	if err != nil {
		respondServiceError(c, "Failed to add equipment", err)
		return
	}

	utils.SuccessResponse(c, http.StatusCreated, "Equipment added successfully", eq)
}

// RemoveEquipment removes an item from a vehicle
func (h *EquipmentHandler) RemoveEquipment(c *gin.Context) {
	vehicleID := c.Param("id")
	equipmentID := c.Param("eqId")
	if vehicleID == "" || equipmentID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Vehicle and equipment IDs are required", nil)
		return
	}

	if err := h.equipmentService.RemoveEquipment(vehicleID, equipmentID, actorFrom(c)); err != nil {
		respondServiceError(c, "Failed to remove equipment", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Equipment removed successfully", nil)
}

// VerifyItem marks an item inspected today
func (h *EquipmentHandler) VerifyItem(c *gin.Context) {
	vehicleID := c.Param("id")
	equipmentID := c.Param("eqId")
	if vehicleID == "" || equipmentID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Vehicle and equipment IDs are required", nil)
		return
	}

	result, err := h.equipmentService.VerifyItem(vehicleID, equipmentID, actorFrom(c))
	if err != nil {
		respondServiceError(c, "Failed to verify equipment", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Equipment verified successfully", result)
}

// ReportAnomaly opens an anomaly on an item, or resolves it when the report
// is empty
func (h *EquipmentHandler) ReportAnomaly(c *gin.Context) {
	vehicleID := c.Param("id")
	equipmentID := c.Param("eqId")
	if vehicleID == "" || equipmentID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Vehicle and equipment IDs are required", nil)
		return
	}

	var req services.ReportAnomalyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	if err := h.validator.Struct(&req); err != nil {
		utils.ValidationErrorResponse(c, err)
		return
	}

	item, err := h.equipmentService.ReportAnomaly(vehicleID, equipmentID, &req, actorFrom(c))
	if err != nil {
		respondServiceError(c, "Failed to report anomaly", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Anomaly recorded successfully", item)
}

// QuickResolve clears an open anomaly without the report form
func (h *EquipmentHandler) QuickResolve(c *gin.Context) {
	vehicleID := c.Param("id")
	equipmentID := c.Param("eqId")
	if vehicleID == "" || equipmentID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Vehicle and equipment IDs are required", nil)
		return
	}

	item, err := h.equipmentService.QuickResolve(vehicleID, equipmentID, actorFrom(c))
	if err != nil {
		respondServiceError(c, "Failed to resolve anomaly", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Anomaly resolved successfully", item)
}

// UpdateNotes replaces an item's free-text notes
func (h *EquipmentHandler) UpdateNotes(c *gin.Context) {
	vehicleID := c.Param("id")
	equipmentID := c.Param("eqId")
	if vehicleID == "" || equipmentID == "" {
		utils.ErrorResponse(c, http.StatusBadRequest, "Vehicle and equipment IDs are required", nil)
		return
	}

	var req struct {
		Notes string `json:"notes"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.ErrorResponse(c, http.StatusBadRequest, "Invalid request format", err)
		return
	}

	item, err := h.equipmentService.UpdateNotes(vehicleID, equipmentID, req.Notes, actorFrom(c))
	if err != nil {
		respondServiceError(c, "Failed to update notes", err)
		return
	}

	utils.SuccessResponse(c, http.StatusOK, "Notes updated successfully", item)
}
