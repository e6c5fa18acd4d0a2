package services

import (
	"fmt"
	"sort"
	"strings"

	"firetrack-backend/internal/models"
	"firetrack-backend/pkg/clock"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Event kinds handled by the history derivation.
const (
	EventVehicleCommissioned = "vehicle_commissioned"
	EventStatusChanged       = "status_changed"
	EventEquipmentAdded      = "equipment_added"
	EventEquipmentRemoved    = "equipment_removed"
	EventAnomalyReported     = "anomaly_reported"
	EventAnomalyResolved     = "anomaly_resolved"
	EventInspectionComplete  = "inspection_complete"
	EventNote                = "note"
)

// Event is the payload a mutation hands to DeriveHistoryEntry. Only the
// fields relevant to the Kind are read.
type Event struct {
	Kind         string
	Status       string
	Equipment    *models.Equipment
	Tags         []string
	MissingQty   int
	Description  string
	QuickResolve bool
}

var tagLabels = map[string]string{
	models.TagDirty:       "Dirty",
	models.TagDamaged:     "Damaged",
	models.TagMissing:     "Missing",
	models.TagUnavailable: "Unavailable",
}

// DeriveHistoryEntry turns an event into the history entry that records it.
// Every mutating path routes through here so message formats and severity
// classification stay in one place. Attribution and timestamps come from the
// actor and clock, never from the client.
func DeriveHistoryEntry(ev Event, actor Actor, clk clock.Clock) models.HistoryEntry {
	entry := models.HistoryEntry{
		ID:          primitive.NewObjectID(),
		Date:        clk.Today(),
		Time:        clk.Now().Format("15:04:05"),
		PerformedBy: actor.DisplayName,
	}
	if ev.Equipment != nil {
		entry.EquipmentID = ev.Equipment.ID.Hex()
	}

	switch ev.Kind {
	case EventVehicleCommissioned:
		entry.Category = models.HistoryStatusChange
		entry.Severity = models.SeveritySuccess
		entry.Description = "Vehicle commissioned and entered into fleet service."
	case EventStatusChanged:
		entry.Category = models.HistoryStatusChange
		entry.Severity = statusSeverity(ev.Status)
		entry.Description = fmt.Sprintf("Status updated to: %s.", ev.Status)
	case EventEquipmentAdded:
		entry.Category = models.HistoryEquipmentEvent
		entry.Severity = models.SeverityInfo
		entry.Description = fmt.Sprintf("Inventory addition: %s (x%d) added at %s.",
			ev.Equipment.Name, ev.Equipment.Quantity, ev.Equipment.Location)
	case EventEquipmentRemoved:
		entry.Category = models.HistoryEquipmentEvent
		entry.Severity = models.SeverityInfo
		entry.Description = fmt.Sprintf("Inventory removal: %s removed from vehicle.", ev.Equipment.Name)
	case EventAnomalyReported:
		entry.Category = models.HistoryEquipmentEvent
		entry.Severity = models.SeverityWarning
		entry.Description = anomalyMessage(ev)
	case EventAnomalyResolved:
		entry.Category = models.HistoryMaintenance
		entry.Severity = models.SeveritySuccess
		if ev.QuickResolve {
			entry.Description = fmt.Sprintf("Resolution — %s: quick resolution — incident closed.", ev.Equipment.Name)
		} else {
			entry.Description = fmt.Sprintf("Resolution — %s: returned to normal (anomaly cleared).", ev.Equipment.Name)
		}
	case EventInspectionComplete:
		entry.Category = models.HistoryStatusChange
		entry.Severity = models.SeveritySuccess
		entry.Description = "Full verification — inventory validated at 100%."
	case EventNote:
		entry.Category = models.HistoryNote
		entry.Severity = models.SeverityInfo
		entry.Description = ev.Description
	default:
		entry.Category = models.HistoryNote
		entry.Severity = models.SeverityInfo
		entry.Description = ev.Description
	}

	return entry
}

// statusSeverity is a total mapping over the status enum. New statuses must
// get an explicit case; the default is reserved for unknown values.
func statusSeverity(status string) string {
	switch status {
	case models.StatusAvailable:
		return models.SeveritySuccess
	case models.StatusMaintenance:
		return models.SeverityWarning
	case models.StatusOutOfService:
		return models.SeverityDanger
	case models.StatusOutOnCall:
		return models.SeverityInfo
	default:
		return models.SeverityInfo
	}
}

func anomalyMessage(ev Event) string {
	labels := make([]string, 0, len(ev.Tags))
	hasMissing := false
	for _, tag := range ev.Tags {
		if label, ok := tagLabels[tag]; ok {
			labels = append(labels, label)
		} else {
			labels = append(labels, tag)
		}
		if tag == models.TagMissing {
			hasMissing = true
		}
	}

	msg := fmt.Sprintf("Anomaly reported — %s: %s", ev.Equipment.Name, strings.Join(labels, ", "))
	if hasMissing && ev.MissingQty > 0 {
		msg += fmt.Sprintf(" (Qty: %d)", ev.MissingQty)
	}
	msg += "."
	if ev.Description != "" {
		msg += " " + ev.Description
	}
	return msg
}

// History filter names
const (
	FilterAll          = "all"
	FilterAnomaly      = "anomaly"
	FilterVerification = "verification"
	FilterOther        = "other"
)

// FilterHistory partitions entries by filter name and returns them
// newest-first regardless of stored order. Unknown filters behave like "all".
func FilterHistory(entries []models.HistoryEntry, filter string) []models.HistoryEntry {
	out := make([]models.HistoryEntry, 0, len(entries))
	for _, e := range entries {
		switch filter {
		case FilterAnomaly:
			if e.Severity == models.SeverityWarning || e.Severity == models.SeverityDanger ||
				e.Category == models.HistoryEquipmentEvent || e.Category == models.HistoryMaintenance {
				out = append(out, e)
			}
		case FilterVerification:
			if e.Category == models.HistoryStatusChange &&
				e.Severity != models.SeverityWarning && e.Severity != models.SeverityDanger {
				out = append(out, e)
			}
		case FilterOther:
			if e.Category == models.HistoryNote {
				out = append(out, e)
			}
		default:
			out = append(out, e)
		}
	}
	sortNewestFirst(out)
	return out
}

// sortNewestFirst orders entries by (date, time) descending. The sort is
// stable so same-timestamp entries keep their insertion order.
func sortNewestFirst(entries []models.HistoryEntry) {
	sort.SliceStable(entries, func(i, j int) bool {
		if entries[i].Date != entries[j].Date {
			return entries[i].Date > entries[j].Date
		}
		return entries[i].Time > entries[j].Time
	})
}
