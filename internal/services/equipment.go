package services

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"firetrack-backend/internal/models"
	"firetrack-backend/pkg/cache"
	"firetrack-backend/pkg/clock"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// EquipmentService carries the inspection and anomaly rules for equipment
// items: verification with completion edge detection, the anomaly lifecycle,
// and inventory search and filtering.
type EquipmentService struct {
	store VehicleStore
	clk   clock.Clock
	cache cache.FleetCache
}

func NewEquipmentService(store VehicleStore, clk clock.Clock) *EquipmentService {
	return &EquipmentService{
		store: store,
		clk:   clk,
	}
}

// SetFleetCache allows setting the cache for invalidation on mutations.
func (s *EquipmentService) SetFleetCache(c cache.FleetCache) {
	s.cache = c
}

type AddEquipmentRequest struct {
	Name         string `json:"name" validate:"required,min=1,max=100"`
	Category     string `json:"category" validate:"required,min=1,max=50"`
	Location     string `json:"location"`
	Quantity     int    `json:"quantity" validate:"required,min=1"`
	Condition    string `json:"condition" validate:"omitempty,oneof=good fair poor needs_replacement"`
	Notes        string `json:"notes,omitempty"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
}

type ReportAnomalyRequest struct {
	Tags        []string `json:"tags"`
	Description string   `json:"description"`
	MissingQty  int      `json:"missingQty" validate:"min=0"`
}

// AddEquipment attaches a new item to a vehicle and records the addition.
// Admin only.
func (s *EquipmentService) AddEquipment(vehicleID string, req *AddEquipmentRequest, actor Actor) (*models.Equipment, error) {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return nil, err
	}
	if strings.TrimSpace(req.Name) == "" || strings.TrimSpace(req.Category) == "" {
		return nil, fmt.Errorf("%w: equipment name and category are required", ErrValidation)
	}
	if req.Quantity < 1 {
		return nil, fmt.Errorf("%w: quantity must be at least 1", ErrValidation)
	}
	if _, err := s.store.FindByID(vehicleID); err != nil {
		return nil, fmt.Errorf("%w: vehicle %s", ErrNotFound, vehicleID)
	}

	condition := req.Condition
	if condition == "" {
		condition = models.ConditionGood
	}

	eq := models.Equipment{
		ID:           primitive.NewObjectID(),
		Name:         req.Name,
		Category:     req.Category,
		Location:     req.Location,
		Quantity:     req.Quantity,
		Condition:    condition,
		Notes:        req.Notes,
		ThumbnailURL: req.ThumbnailURL,
	}

	entry := DeriveHistoryEntry(Event{Kind: EventEquipmentAdded, Equipment: &eq}, actor, s.clk)
	if err := s.store.CreateEquipmentWithHistory(vehicleID, eq, entry); err != nil {
		return nil, err
	}

	s.invalidate(vehicleID)
	return &eq, nil
}

// RemoveEquipment destroys an item and records the removal. Admin only.
func (s *EquipmentService) RemoveEquipment(vehicleID, equipmentID string, actor Actor) error {
	if err := requireRole(actor, models.RoleAdmin); err != nil {
		return err
	}

	_, item, err := s.findItem(vehicleID, equipmentID)
	if err != nil {
		return err
	}

	entry := DeriveHistoryEntry(Event{Kind: EventEquipmentRemoved, Equipment: item}, actor, s.clk)
	if err := s.store.DeleteEquipmentWithHistory(vehicleID, item.ID, entry); err != nil {
		return err
	}

	s.invalidate(vehicleID)
	return nil
}

// VerificationResult reports the outcome of a verify call.
type VerificationResult struct {
	Item       *models.Equipment    `json:"item"`
	Completion int                  `json:"completion"`
	Completed  *models.HistoryEntry `json:"completedEntry,omitempty"`
}

// VerifyItem marks an item checked for today. Only the call that completes
// the vehicle's last unverified item produces the synthetic completion entry;
// re-verifying an already-verified item is a harmless no-op.
func (s *EquipmentService) VerifyItem(vehicleID, equipmentID string, actor Actor) (*VerificationResult, error) {
	if err := requireRole(actor, models.RoleOperator); err != nil {
		return nil, err
	}

	vehicle, item, err := s.findItem(vehicleID, equipmentID)
	if err != nil {
		return nil, err
	}

	today := s.clk.Today()
	preVerified := countVerified(vehicle.Equipment, today)
	alreadyVerified := item.LastVerified == today

	item.LastVerified = today

	postVerified := preVerified
	if !alreadyVerified {
		postVerified++
	}

	// Edge detection: emit the synthetic entry only on the transition from
	// not-all-verified to all-verified.
	var completed *models.HistoryEntry
	if postVerified == len(vehicle.Equipment) && preVerified < len(vehicle.Equipment) {
		entry := DeriveHistoryEntry(Event{Kind: EventInspectionComplete}, actor, s.clk)
		completed = &entry
	}

	if err := s.store.UpdateEquipmentWithHistory(vehicleID, *item, completed); err != nil {
		return nil, err
	}

	s.invalidate(vehicleID)
	return &VerificationResult{
		Item:       item,
		Completion: completionPercent(postVerified, len(vehicle.Equipment)),
		Completed:  completed,
	}, nil
}

// Completion returns a vehicle's inspection completion ratio for today as a
// whole percent. A vehicle with no equipment counts as fully inspected.
func (s *EquipmentService) Completion(vehicleID string) (int, error) {
	vehicle, err := s.store.FindByID(vehicleID)
	if err != nil {
		return 0, fmt.Errorf("%w: vehicle %s", ErrNotFound, vehicleID)
	}
	today := s.clk.Today()
	return completionPercent(countVerified(vehicle.Equipment, today), len(vehicle.Equipment)), nil
}

// ReportAnomaly opens or resolves an anomaly on an item. An empty report
// (no tags, no description) is a resolution; anything else opens the anomaly,
// flags the item for replacement and counts as today's inspection touch.
func (s *EquipmentService) ReportAnomaly(vehicleID, equipmentID string, req *ReportAnomalyRequest, actor Actor) (*models.Equipment, error) {
	if err := requireRole(actor, models.RoleOperator); err != nil {
		return nil, err
	}

	for _, tag := range req.Tags {
		if !models.IsValidAnomalyTag(tag) {
			return nil, fmt.Errorf("%w: unknown anomaly tag %q", ErrValidation, tag)
		}
	}

	_, item, err := s.findItem(vehicleID, equipmentID)
	if err != nil {
		return nil, err
	}

	if len(req.Tags) == 0 && strings.TrimSpace(req.Description) == "" {
		return s.resolve(vehicleID, item, actor, false)
	}

	today := s.clk.Today()

	// Missing quantity only applies when the item is tagged missing, clamped
	// to what the item actually holds.
	missing := 0
	if hasTag(req.Tags, models.TagMissing) {
		missing = req.MissingQty
		if missing < 0 {
			missing = 0
		}
		if missing > item.Quantity {
			missing = item.Quantity
		}
	}

	item.Anomaly = &models.AnomalyRecord{
		Description: req.Description,
		Tags:        req.Tags,
		MissingQty:  missing,
		ReportedBy:  actor.DisplayName,
		ReportedAt:  today,
	}
	item.Condition = models.ConditionNeedsReplacement
	item.LastVerified = today
	if missing > 0 {
		item.Quantity -= missing
	}

	entry := DeriveHistoryEntry(Event{
		Kind:        EventAnomalyReported,
		Equipment:   item,
		Tags:        req.Tags,
		MissingQty:  missing,
		Description: req.Description,
	}, actor, s.clk)

	if err := s.store.UpdateEquipmentWithHistory(vehicleID, *item, &entry); err != nil {
		return nil, err
	}

	s.invalidate(vehicleID)
	return item, nil
}

// QuickResolve clears an open anomaly without going through the report form.
func (s *EquipmentService) QuickResolve(vehicleID, equipmentID string, actor Actor) (*models.Equipment, error) {
	if err := requireRole(actor, models.RoleOperator); err != nil {
		return nil, err
	}

	_, item, err := s.findItem(vehicleID, equipmentID)
	if err != nil {
		return nil, err
	}

	return s.resolve(vehicleID, item, actor, true)
}

// resolve clears the anomaly record and restores the item to compliant
// service. Resolving twice is rejected so double submissions cannot produce
// duplicate history entries.
func (s *EquipmentService) resolve(vehicleID string, item *models.Equipment, actor Actor, quick bool) (*models.Equipment, error) {
	if !item.Anomaly.IsOpen() {
		return nil, ErrNoOpenAnomaly
	}

	item.Anomaly = nil
	item.Condition = models.ConditionGood

	entry := DeriveHistoryEntry(Event{
		Kind:         EventAnomalyResolved,
		Equipment:    item,
		QuickResolve: quick,
	}, actor, s.clk)

	if err := s.store.UpdateEquipmentWithHistory(vehicleID, *item, &entry); err != nil {
		return nil, err
	}

	s.invalidate(vehicleID)
	return item, nil
}

// UpdateNotes replaces the free-text notes on an item. Notes edits do not
// produce history entries.
func (s *EquipmentService) UpdateNotes(vehicleID, equipmentID, notes string, actor Actor) (*models.Equipment, error) {
	if err := requireRole(actor, models.RoleOperator); err != nil {
		return nil, err
	}

	_, item, err := s.findItem(vehicleID, equipmentID)
	if err != nil {
		return nil, err
	}

	item.Notes = notes
	if err := s.store.UpdateEquipmentWithHistory(vehicleID, *item, nil); err != nil {
		return nil, err
	}

	s.invalidate(vehicleID)
	return item, nil
}

// EquipmentQuery filters a vehicle's inventory. An empty Location means all
// locations.
type EquipmentQuery struct {
	Search   string
	Location string
}

// InventoryView is a vehicle's filtered inventory plus its facet values and
// today's completion ratio.
type InventoryView struct {
	Items      []models.Equipment `json:"items"`
	Locations  []string           `json:"locations"`
	Categories []string           `json:"categories"`
	Completion int                `json:"completion"`
}

// ListEquipment applies search then the location facet, and sorts items
// unverified-today first, alphabetical within each group.
func (s *EquipmentService) ListEquipment(vehicleID string, query EquipmentQuery) (*InventoryView, error) {
	vehicle, err := s.store.FindByID(vehicleID)
	if err != nil {
		return nil, fmt.Errorf("%w: vehicle %s", ErrNotFound, vehicleID)
	}

	today := s.clk.Today()
	items := filterEquipment(vehicle.Equipment, query)
	sortEquipment(items, today)

	return &InventoryView{
		Items:      items,
		Locations:  facetValues(vehicle.Equipment, func(e models.Equipment) string { return e.Location }),
		Categories: facetValues(vehicle.Equipment, func(e models.Equipment) string { return e.Category }),
		Completion: completionPercent(countVerified(vehicle.Equipment, today), len(vehicle.Equipment)),
	}, nil
}

func (s *EquipmentService) findItem(vehicleID, equipmentID string) (*models.Vehicle, *models.Equipment, error) {
	vehicle, err := s.store.FindByID(vehicleID)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: vehicle %s", ErrNotFound, vehicleID)
	}
	for i := range vehicle.Equipment {
		if vehicle.Equipment[i].ID.Hex() == equipmentID {
			return vehicle, &vehicle.Equipment[i], nil
		}
	}
	return nil, nil, fmt.Errorf("%w: equipment %s", ErrNotFound, equipmentID)
}

func (s *EquipmentService) invalidate(vehicleID string) {
	if s.cache != nil {
		if err := s.cache.InvalidateVehicle(vehicleID); err != nil {
			fmt.Printf("Failed to invalidate vehicle cache for %s: %v\n", vehicleID, err)
		}
		if err := s.cache.InvalidateVehicleLists(); err != nil {
			fmt.Printf("Failed to invalidate vehicle list cache: %v\n", err)
		}
	}
}

func countVerified(items []models.Equipment, today string) int {
	n := 0
	for _, e := range items {
		if e.LastVerified == today {
			n++
		}
	}
	return n
}

// completionPercent rounds to the nearest whole percent. Zero items means
// there is nothing left to inspect, so completion is 100 by convention.
func completionPercent(verified, total int) int {
	if total == 0 {
		return 100
	}
	return int(math.Round(float64(verified) / float64(total) * 100))
}

func hasTag(tags []string, tag string) bool {
	for _, t := range tags {
		if t == tag {
			return true
		}
	}
	return false
}

func filterEquipment(items []models.Equipment, query EquipmentQuery) []models.Equipment {
	out := make([]models.Equipment, 0, len(items))
	search := strings.ToLower(strings.TrimSpace(query.Search))
	for _, e := range items {
		if search != "" {
			if !strings.Contains(strings.ToLower(e.Name), search) &&
				!strings.Contains(strings.ToLower(e.Category), search) &&
				!strings.Contains(strings.ToLower(e.Location), search) {
				continue
			}
		}
		if query.Location != "" && e.Location != query.Location {
			continue
		}
		out = append(out, e)
	}
	return out
}

// sortEquipment puts items not yet verified today first, alphabetical by
// name within each group.
func sortEquipment(items []models.Equipment, today string) {
	sort.SliceStable(items, func(i, j int) bool {
		iVerified := items[i].LastVerified == today
		jVerified := items[j].LastVerified == today
		if iVerified != jVerified {
			return !iVerified
		}
		return strings.ToLower(items[i].Name) < strings.ToLower(items[j].Name)
	})
}

func facetValues(items []models.Equipment, key func(models.Equipment) string) []string {
	seen := make(map[string]bool)
	var values []string
	for _, e := range items {
		v := key(e)
		if v != "" && !seen[v] {
			seen[v] = true
			values = append(values, v)
		}
	}
	sort.Strings(values)
	return values
}
