package services

import (
	"fmt"

	"firetrack-backend/internal/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// VehicleStore is the persistence surface the services mutate through. A
// vehicle owns its equipment and history, and every mutating call that takes
// a history entry must commit the state change and the entry as one atomic
// unit — or fail without applying either.
type VehicleStore interface {
	FindAll() ([]*models.Vehicle, error)
	FindByID(id string) (*models.Vehicle, error)
	FindByCallSign(callSign string) (*models.Vehicle, error)
	Create(vehicle *models.Vehicle) (*models.Vehicle, error)
	Delete(id string) error

	UpdateStatusWithHistory(vehicleID, status string, entry models.HistoryEntry) error
	CreateEquipmentWithHistory(vehicleID string, eq models.Equipment, entry models.HistoryEntry) error
	UpdateEquipmentWithHistory(vehicleID string, eq models.Equipment, entry *models.HistoryEntry) error
	DeleteEquipmentWithHistory(vehicleID string, equipmentID primitive.ObjectID, entry models.HistoryEntry) error
	AppendHistoryEntry(vehicleID string, entry models.HistoryEntry) error
}

// Actor identifies the authenticated user performing an operation. It is
// built from JWT claims by the auth middleware; services never trust
// client-supplied attribution.
type Actor struct {
	ID          string
	DisplayName string
	Role        string
}

var roleRank = map[string]int{
	models.RoleReader:   0,
	models.RoleOperator: 1,
	models.RoleAdmin:    2,
}

// requireRole rejects the operation when the actor's role ranks below the
// minimum. Unknown roles never pass.
func requireRole(actor Actor, minimum string) error {
	rank, ok := roleRank[actor.Role]
	if !ok || rank < roleRank[minimum] {
		return fmt.Errorf("%w: %s requires at least %s role", ErrAuthorization, actor.Role, minimum)
	}
	return nil
}
