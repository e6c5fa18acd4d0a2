package services

import (
	"fmt"
	"strings"
	"time"

	"firetrack-backend/internal/models"
	"firetrack-backend/pkg/cache"
	"firetrack-backend/pkg/clock"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleService handles vehicle lifecycle, status changes and the vehicle
// history log.
type VehicleService struct {
	store VehicleStore
	clk   clock.Clock
	cache cache.FleetCache
}

func NewVehicleService(store VehicleStore, clk clock.Clock) *VehicleService {
	return &VehicleService{
		store: store,
		clk:   clk,
	}
}

// SetFleetCache allows setting the cache for read-through and invalidation.
func (s *VehicleService) SetFleetCache(c cache.FleetCache) {
	s.cache = c
}

type CreateVehicleRequest struct {
	CallSign     string `json:"callSign" validate:"required,min=1,max=30"`
	Type         string `json:"type" validate:"required,min=1,max=100"`
	Mileage      int    `json:"mileage" validate:"min=0"`
	Location     string `json:"location"`
	LastService  string `json:"lastService,omitempty"`
	CrewCapacity int    `json:"crewCapacity" validate:"min=0"`
	ImageURL     string `json:"imageUrl,omitempty"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=available out_on_call maintenance out_of_service"`
}

type AddNoteRequest struct {
	Text        string `json:"text" validate:"required,min=1"`
	EquipmentID string `json:"equipmentId,omitempty"`
}

// GetAllVehicles returns the fleet with equipment and history embedded,
// cache-first when a cache is configured.
func (s *VehicleService) GetAllVehicles() ([]*models.Vehicle, error) {
	if s.cache != nil {
		cached, err := s.cache.GetVehicleList(cache.AllVehiclesKey)
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil {
			fmt.Printf("Cache error for GetAllVehicles: %v\n", err)
		}
	}

	vehicles, err := s.store.FindAll()
	if err != nil {
		return nil, err
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetVehicleList(cache.AllVehiclesKey, vehicles); cacheErr != nil {
			fmt.Printf("Failed to cache vehicle list: %v\n", cacheErr)
		}
	}

	return vehicles, nil
}

func (s *VehicleService) GetVehicleByID(id string) (*models.Vehicle, error) {
	if s.cache != nil {
		cached, err := s.cache.GetVehicle(id)
		if err == nil && cached != nil {
			return cached, nil
		}
		if err != nil {
			fmt.Printf("Cache error for GetVehicleByID(%s): %v\n", id, err)
		}
	}

	vehicle, err := s.store.FindByID(id)
	if err != nil {
		return nil, fmt.Errorf("%w: vehicle %s", ErrNotFound, id)
	}

	if s.cache != nil {
		if cacheErr := s.cache.SetVehicle(id, vehicle); cacheErr != nil {
			fmt.Printf("Failed to cache vehicle %s: %v\n", id, cacheErr)
		}
	}

	return vehicle, nil
}

// CreateVehicle commissions a new vehicle. The vehicle starts available and
// its first history entry is stored in the same insert.
func (s *VehicleService) CreateVehicle(req *CreateVehicleRequest, actor Actor) (*models.Vehicle, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.CallSign) == "" || strings.TrimSpace(req.Type) == "" {
		return nil, fmt.Errorf("%w: call sign and type are required", ErrValidation)
	}

	existing, _ := s.store.FindByCallSign(req.CallSign)
	if existing != nil {
		return nil, fmt.Errorf("%w: call sign already in use", ErrValidation)
	}

	commissioned := DeriveHistoryEntry(Event{Kind: EventVehicleCommissioned}, actor, s.clk)

	now := time.Now()
	vehicle := &models.Vehicle{
		ID:           primitive.NewObjectID(),
		CallSign:     req.CallSign,
		Type:         req.Type,
		Status:       models.StatusAvailable,
		Mileage:      req.Mileage,
		Location:     req.Location,
		LastService:  req.LastService,
		CrewCapacity: req.CrewCapacity,
		ImageURL:     req.ImageURL,
		Equipment:    []models.Equipment{},
		History:      []models.HistoryEntry{commissioned},
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	created, err := s.store.Create(vehicle)
	if err != nil {
		return nil, err
	}

	s.invalidate(created.ID.Hex())
	return created, nil
}

// UpdateStatus moves a vehicle to a new operational status and records the
// change atomically.
func (s *VehicleService) UpdateStatus(id string, req *UpdateStatusRequest, actor Actor) error {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return err
	}
	if !models.IsValidStatus(req.Status) {
		return fmt.Errorf("%w: unknown status %q", ErrValidation, req.Status)
	}
	if _, err := s.store.FindByID(id); err != nil {
		return fmt.Errorf("%w: vehicle %s", ErrNotFound, id)
	}

	entry := DeriveHistoryEntry(Event{Kind: EventStatusChanged, Status: req.Status}, actor, s.clk)
	if err := s.store.UpdateStatusWithHistory(id, req.Status, entry); err != nil {
		return err
	}

	s.invalidate(id)
	return nil
}

// DeleteVehicle removes a vehicle and everything it owns.
func (s *VehicleService) DeleteVehicle(id string, actor Actor) error {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return err
	}
	if _, err := s.store.FindByID(id); err != nil {
		return fmt.Errorf("%w: vehicle %s", ErrNotFound, id)
	}
	if err := s.store.Delete(id); err != nil {
		return err
	}

	s.invalidate(id)
	return nil
}

// AddNote appends a free-text note to the vehicle log. The text is recorded
// verbatim; date, time and attribution are stamped server-side.
func (s *VehicleService) AddNote(id string, req *AddNoteRequest, actor Actor) (*models.HistoryEntry, error) {
	if err := requireRole(actor, models.RoleOperator); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Text) == "" {
		return nil, fmt.Errorf("%w: note text is required", ErrValidation)
	}
	if _, err := s.store.FindByID(id); err != nil {
		return nil, fmt.Errorf("%w: vehicle %s", ErrNotFound, id)
	}

	entry := DeriveHistoryEntry(Event{Kind: EventNote, Description: req.Text}, actor, s.clk)
	entry.EquipmentID = req.EquipmentID

	if err := s.store.AppendHistoryEntry(id, entry); err != nil {
		return nil, err
	}

	s.invalidate(id)
	return &entry, nil
}

// GetHistory returns a vehicle's log filtered by category bucket, always
// newest-first.
func (s *VehicleService) GetHistory(id, filter string) ([]models.HistoryEntry, error) {
	vehicle, err := s.GetVehicleByID(id)
	if err != nil {
		return nil, err
	}
	return FilterHistory(vehicle.History, filter), nil
}

// GetFleetStats counts vehicles per operational status.
func (s *VehicleService) GetFleetStats() (*models.FleetStats, error) {
	vehicles, err := s.GetAllVehicles()
	if err != nil {
		return nil, err
	}

	stats := &models.FleetStats{TotalVehicles: len(vehicles)}
	for _, v := range vehicles {
		switch v.Status {
		case models.StatusAvailable:
			stats.Available++
		case models.StatusMaintenance:
			stats.Maintenance++
		case models.StatusOutOnCall:
			stats.OutOnCall++
		case models.StatusOutOfService:
			stats.OutOfService++
		}
	}
	return stats, nil
}

func (s *VehicleService) invalidate(vehicleID string) {
	if s.cache != nil {
		if err := s.cache.InvalidateVehicle(vehicleID); err != nil {
			fmt.Printf("Failed to invalidate vehicle cache for %s: %v\n", vehicleID, err)
		}
		if err := s.cache.InvalidateVehicleLists(); err != nil {
			fmt.Printf("Failed to invalidate vehicle list cache: %v\n", err)
		}
	}
}
