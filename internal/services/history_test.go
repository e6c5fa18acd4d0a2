package services

import (
	"testing"

	"firetrack-backend/internal/models"
	"firetrack-backend/pkg/clock"

	"github.com/stretchr/testify/assert"
)

func TestDeriveHistoryEntry_Stamps(t *testing.T) {
	clk := &clock.Fixed{T: testInstant()}

	entry := DeriveHistoryEntry(Event{Kind: EventStatusChanged, Status: models.StatusMaintenance}, testAdmin, clk)

	assert.False(t, entry.ID.IsZero())
	assert.Equal(t, "2025-03-14", entry.Date)
	assert.Equal(t, "08:30:00", entry.Time)
	assert.Equal(t, "Cpt. Miller", entry.PerformedBy)
}

func TestDeriveHistoryEntry_StatusChange(t *testing.T) {
	clk := &clock.Fixed{T: testInstant()}

	tests := []struct {
		status   string
		severity string
	}{
		{models.StatusAvailable, models.SeveritySuccess},
		{models.StatusMaintenance, models.SeverityWarning},
		{models.StatusOutOfService, models.SeverityDanger},
		{models.StatusOutOnCall, models.SeverityInfo},
	}

	for _, tt := range tests {
		t.Run(tt.status, func(t *testing.T) {
			entry := DeriveHistoryEntry(Event{Kind: EventStatusChanged, Status: tt.status}, testAdmin, clk)
			assert.Equal(t, models.HistoryStatusChange, entry.Category)
			assert.Equal(t, tt.severity, entry.Severity)
			assert.Equal(t, "Status updated to: "+tt.status+".", entry.Description)
		})
	}
}

func TestDeriveHistoryEntry_EquipmentEvents(t *testing.T) {
	clk := &clock.Fixed{T: testInstant()}
	item := newTestItem("Halligan bar", 2)

	t.Run("added", func(t *testing.T) {
		entry := DeriveHistoryEntry(Event{Kind: EventEquipmentAdded, Equipment: &item}, testAdmin, clk)
		assert.Equal(t, models.HistoryEquipmentEvent, entry.Category)
		assert.Equal(t, models.SeverityInfo, entry.Severity)
		assert.Equal(t, "Inventory addition: Halligan bar (x2) added at Left locker.", entry.Description)
		assert.Equal(t, item.ID.Hex(), entry.EquipmentID)
	})

	t.Run("removed", func(t *testing.T) {
		entry := DeriveHistoryEntry(Event{Kind: EventEquipmentRemoved, Equipment: &item}, testAdmin, clk)
		assert.Equal(t, models.SeverityInfo, entry.Severity)
		assert.Equal(t, "Inventory removal: Halligan bar removed from vehicle.", entry.Description)
	})
}

func TestDeriveHistoryEntry_AnomalyReported(t *testing.T) {
	clk := &clock.Fixed{T: testInstant()}
	item := newTestItem("Rescue rope", 5)

	t.Run("tags with missing quantity and description", func(t *testing.T) {
		entry := DeriveHistoryEntry(Event{
			Kind:        EventAnomalyReported,
			Equipment:   &item,
			Tags:        []string{models.TagDamaged, models.TagMissing},
			MissingQty:  2,
			Description: "torn strap",
		}, testOperator, clk)

		assert.Equal(t, models.HistoryEquipmentEvent, entry.Category)
		assert.Equal(t, models.SeverityWarning, entry.Severity)
		assert.Equal(t, "Anomaly reported — Rescue rope: Damaged, Missing (Qty: 2). torn strap", entry.Description)
	})

	t.Run("no missing tag omits quantity", func(t *testing.T) {
		entry := DeriveHistoryEntry(Event{
			Kind:      EventAnomalyReported,
			Equipment: &item,
			Tags:      []string{models.TagDirty},
		}, testOperator, clk)

		assert.Equal(t, "Anomaly reported — Rescue rope: Dirty.", entry.Description)
	})
}

func TestDeriveHistoryEntry_AnomalyResolved(t *testing.T) {
	clk := &clock.Fixed{T: testInstant()}
	item := newTestItem("Rescue rope", 5)

	t.Run("form resolution", func(t *testing.T) {
		entry := DeriveHistoryEntry(Event{Kind: EventAnomalyResolved, Equipment: &item}, testOperator, clk)
		assert.Equal(t, models.HistoryMaintenance, entry.Category)
		assert.Equal(t, models.SeveritySuccess, entry.Severity)
		assert.Equal(t, "Resolution — Rescue rope: returned to normal (anomaly cleared).", entry.Description)
	})

	t.Run("quick resolution", func(t *testing.T) {
		entry := DeriveHistoryEntry(Event{Kind: EventAnomalyResolved, Equipment: &item, QuickResolve: true}, testOperator, clk)
		assert.Equal(t, "Resolution — Rescue rope: quick resolution — incident closed.", entry.Description)
	})
}

func TestDeriveHistoryEntry_InspectionComplete(t *testing.T) {
	clk := &clock.Fixed{T: testInstant()}

	entry := DeriveHistoryEntry(Event{Kind: EventInspectionComplete}, testOperator, clk)

	assert.Equal(t, models.HistoryStatusChange, entry.Category)
	assert.Equal(t, models.SeveritySuccess, entry.Severity)
	assert.Equal(t, "Full verification — inventory validated at 100%.", entry.Description)
}

func TestDeriveHistoryEntry_Commissioned(t *testing.T) {
	clk := &clock.Fixed{T: testInstant()}

	entry := DeriveHistoryEntry(Event{Kind: EventVehicleCommissioned}, testAdmin, clk)

	assert.Equal(t, models.HistoryStatusChange, entry.Category)
	assert.Equal(t, models.SeveritySuccess, entry.Severity)
	assert.Equal(t, "Vehicle commissioned and entered into fleet service.", entry.Description)
}

func historyFixture() []models.HistoryEntry {
	return []models.HistoryEntry{
		{Date: "2025-03-12", Time: "09:00:00", Category: models.HistoryNote, Severity: models.SeverityInfo, Description: "note one"},
		{Date: "2025-03-13", Time: "10:15:00", Category: models.HistoryEquipmentEvent, Severity: models.SeverityWarning, Description: "anomaly"},
		{Date: "2025-03-13", Time: "18:40:00", Category: models.HistoryStatusChange, Severity: models.SeveritySuccess, Description: "full verification"},
		{Date: "2025-03-14", Time: "07:05:00", Category: models.HistoryMaintenance, Severity: models.SeveritySuccess, Description: "resolution"},
		{Date: "2025-03-14", Time: "08:30:00", Category: models.HistoryStatusChange, Severity: models.SeverityDanger, Description: "out of service"},
	}
}

func TestFilterHistory_Partition(t *testing.T) {
	entries := historyFixture()

	t.Run("all keeps everything newest first", func(t *testing.T) {
		out := FilterHistory(entries, FilterAll)
		assert.Len(t, out, 5)
		assert.Equal(t, "out of service", out[0].Description)
		assert.Equal(t, "resolution", out[1].Description)
		assert.Equal(t, "full verification", out[2].Description)
		assert.Equal(t, "anomaly", out[3].Description)
		assert.Equal(t, "note one", out[4].Description)
	})

	t.Run("anomaly bucket", func(t *testing.T) {
		out := FilterHistory(entries, FilterAnomaly)
		descriptions := make([]string, 0, len(out))
		for _, e := range out {
			descriptions = append(descriptions, e.Description)
		}
		assert.Equal(t, []string{"out of service", "resolution", "anomaly"}, descriptions)
	})

	t.Run("verification bucket", func(t *testing.T) {
		out := FilterHistory(entries, FilterVerification)
		assert.Len(t, out, 1)
		assert.Equal(t, "full verification", out[0].Description)
	})

	t.Run("other bucket", func(t *testing.T) {
		out := FilterHistory(entries, FilterOther)
		assert.Len(t, out, 1)
		assert.Equal(t, "note one", out[0].Description)
	})

	t.Run("unknown filter behaves like all", func(t *testing.T) {
		out := FilterHistory(entries, "bogus")
		assert.Len(t, out, 5)
	})

	t.Run("buckets cover every entry", func(t *testing.T) {
		anomaly := FilterHistory(entries, FilterAnomaly)
		verification := FilterHistory(entries, FilterVerification)
		other := FilterHistory(entries, FilterOther)
		assert.Equal(t, len(entries), len(anomaly)+len(verification)+len(other))
	})
}

func TestFilterHistory_StableForSameTimestamp(t *testing.T) {
	entries := []models.HistoryEntry{
		{Date: "2025-03-14", Time: "08:30:00", Category: models.HistoryNote, Description: "first"},
		{Date: "2025-03-14", Time: "08:30:00", Category: models.HistoryNote, Description: "second"},
	}

	out := FilterHistory(entries, FilterAll)

	assert.Equal(t, "first", out[0].Description)
	assert.Equal(t, "second", out[1].Description)
}

func TestFilterHistory_DoesNotMutateInput(t *testing.T) {
	entries := historyFixture()
	first := entries[0].Description

	FilterHistory(entries, FilterAll)

	assert.Equal(t, first, entries[0].Description)
}
