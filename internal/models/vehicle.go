package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Vehicle statuses
const (
	StatusAvailable    = "available"
	StatusOutOnCall    = "out_on_call"
	StatusMaintenance  = "maintenance"
	StatusOutOfService = "out_of_service"
)

// VehicleStatuses lists every valid operational status.
var VehicleStatuses = []string{
	StatusAvailable,
	StatusOutOnCall,
	StatusMaintenance,
	StatusOutOfService,
}

// IsValidStatus reports whether s is a known operational status.
func IsValidStatus(s string) bool {
	for _, v := range VehicleStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type Vehicle struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	CallSign     string             `bson:"call_sign" json:"callSign" validate:"required"`
	Type         string             `bson:"type" json:"type" validate:"required"`
	Status       string             `bson:"status" json:"status"`
	Mileage      int                `bson:"mileage" json:"mileage"`
	Location     string             `bson:"location" json:"location"`
	LastService  string             `bson:"last_service" json:"lastService"`
	CrewCapacity int                `bson:"crew_capacity" json:"crewCapacity"`
	ImageURL     string             `bson:"image_url,omitempty" json:"imageUrl,omitempty"`
	Equipment    []Equipment        `bson:"equipment" json:"equipment"`
	History      []HistoryEntry     `bson:"history" json:"history"`
	CreatedAt    time.Time          `bson:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `bson:"updated_at" json:"updatedAt"`
}

// Equipment conditions
const (
	ConditionGood             = "good"
	ConditionFair             = "fair"
	ConditionPoor             = "poor"
	ConditionNeedsReplacement = "needs_replacement"
)

type Equipment struct {
	ID           primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name         string             `bson:"name" json:"name" validate:"required"`
	Category     string             `bson:"category" json:"category" validate:"required"`
	Location     string             `bson:"location" json:"location"`
	Quantity     int                `bson:"quantity" json:"quantity" validate:"min=0"`
	Condition    string             `bson:"condition" json:"condition"`
	LastVerified string             `bson:"last_verified,omitempty" json:"lastVerified,omitempty"`
	Notes        string             `bson:"notes,omitempty" json:"notes,omitempty"`
	Anomaly      *AnomalyRecord     `bson:"anomaly,omitempty" json:"anomaly,omitempty"`
	ThumbnailURL string             `bson:"thumbnail_url,omitempty" json:"thumbnailUrl,omitempty"`
	VideoURL     string             `bson:"video_url,omitempty" json:"videoUrl,omitempty"`
	Documents    []Document         `bson:"documents,omitempty" json:"documents,omitempty"`
}

// Anomaly tag vocabulary
const (
	TagDirty       = "dirty"
	TagDamaged     = "damaged"
	TagMissing     = "missing"
	TagUnavailable = "unavailable"
)

// AnomalyTags lists the fixed tag vocabulary.
var AnomalyTags = []string{TagDirty, TagDamaged, TagMissing, TagUnavailable}

// IsValidAnomalyTag reports whether tag belongs to the fixed vocabulary.
func IsValidAnomalyTag(tag string) bool {
	for _, t := range AnomalyTags {
		if t == tag {
			return true
		}
	}
	return false
}

// AnomalyRecord describes an open defect or shortage on an equipment item.
// The record is open while the description or tag set is non-empty; resolving
// it clears the whole record from the item.
type AnomalyRecord struct {
	Description string   `bson:"description" json:"description"`
	Tags        []string `bson:"tags" json:"tags"`
	MissingQty  int      `bson:"missing_qty,omitempty" json:"missingQty,omitempty"`
	ReportedBy  string   `bson:"reported_by" json:"reportedBy"`
	ReportedAt  string   `bson:"reported_at" json:"reportedAt"`
}

// IsOpen reports whether the record still counts as an open anomaly.
func (a *AnomalyRecord) IsOpen() bool {
	return a != nil && (a.Description != "" || len(a.Tags) > 0)
}

type Document struct {
	ID   primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Name string             `bson:"name" json:"name"`
	URL  string             `bson:"url" json:"url"`
	Type string             `bson:"type" json:"type"`
}

// History entry categories
const (
	HistoryStatusChange   = "status"
	HistoryMaintenance    = "maintenance"
	HistoryNote           = "note"
	HistoryEquipmentEvent = "equipment"
)

// History entry severities
const (
	SeverityInfo    = "info"
	SeveritySuccess = "success"
	SeverityWarning = "warning"
	SeverityDanger  = "danger"
)

// HistoryEntry is an immutable log record of a state change on a vehicle.
// Entries are only ever appended and are presented newest-first.
type HistoryEntry struct {
	ID          primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	Date        string             `bson:"date" json:"date"`
	Time        string             `bson:"time" json:"time"`
	Category    string             `bson:"category" json:"category"`
	Severity    string             `bson:"severity" json:"severity"`
	Description string             `bson:"description" json:"description"`
	PerformedBy string             `bson:"performed_by" json:"performedBy"`
	EquipmentID string             `bson:"equipment_id,omitempty" json:"equipmentId,omitempty"`
}

// FleetStats aggregates vehicle counts per operational status.
type FleetStats struct {
	TotalVehicles int `json:"totalVehicles"`
	Available     int `json:"available"`
	Maintenance   int `json:"maintenance"`
	OutOnCall     int `json:"outOnCall"`
	OutOfService  int `json:"outOfService"`
}
