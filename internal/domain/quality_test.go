package domain

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validProduction() ProductionRecord {
	return ProductionRecord{
		StateName:       "Karnataka",
		DistrictName:    "Mandya",
		Year:            2015,
		Season:          "Kharif",
		Crop:            "Rice",
		AreaHa:          1200,
		ProductionTonne: 3400,
	}
}

func TestValidateProductionTable(t *testing.T) {
	t.Run("valid table", func(t *testing.T) {
		report := ValidateProductionTable([]ProductionRecord{validProduction()})
		assert.True(t, report.Valid())
		assert.Equal(t, 1, report.RecordCount)
		assert.Empty(t, report.Violations)
		assert.Equal(t, 1.0, report.Score())
	})

	t.Run("blank district reported with row index", func(t *testing.T) {
		bad := validProduction()
		bad.DistrictName = ""
		report := ValidateProductionTable([]ProductionRecord{validProduction(), bad})

		require.False(t, report.Valid())
		require.Len(t, report.Violations, 1)
		assert.Equal(t, 1, report.Violations[0].Row)
		assert.Equal(t, "district_name", report.Violations[0].Field)
		assert.Equal(t, 0.5, report.Score())
	})

	t.Run("non-positive production is a violation", func(t *testing.T) {
		bad := validProduction()
		bad.ProductionTonne = 0
		report := ValidateProductionTable([]ProductionRecord{bad})

		require.Len(t, report.Violations, 1)
		assert.Equal(t, "production_tonne", report.Violations[0].Field)
	})

	t.Run("multiple violations on one row all reported", func(t *testing.T) {
		bad := ProductionRecord{Year: 2015}
		report := ValidateProductionTable([]ProductionRecord{bad})

		fields := make([]string, 0, len(report.Violations))
		for _, v := range report.Violations {
			fields = append(fields, v.Field)
		}
		assert.ElementsMatch(t, []string{"state_name", "district_name", "crop", "production_tonne"}, fields)
	})

	t.Run("year bounds", func(t *testing.T) {
		SetClock(clockwork.NewFakeClockAt(time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)))
		defer SetClock(nil)

		old := validProduction()
		old.Year = 1850
		future := validProduction()
		future.Year = 2026
		nextYear := validProduction()
		nextYear.Year = 2025 // now+1 is allowed for financial-year labels

		report := ValidateProductionTable([]ProductionRecord{old, future, nextYear})
		require.Len(t, report.Violations, 2)
		assert.Equal(t, 0, report.Violations[0].Row)
		assert.Equal(t, 1, report.Violations[1].Row)
	})

	t.Run("implausible magnitude is a warning not a violation", func(t *testing.T) {
		huge := validProduction()
		huge.ProductionTonne = 200_000_000
		report := ValidateProductionTable([]ProductionRecord{huge})

		assert.True(t, report.Valid())
		require.Len(t, report.Warnings, 1)
		assert.Equal(t, "production_tonne", report.Warnings[0].Field)
	})
}

func TestValidateRainfallTable(t *testing.T) {
	valid := RainfallRecord{SubdivisionName: "Kerala", Year: 2005, RainfallMM: 2890}

	t.Run("valid table", func(t *testing.T) {
		report := ValidateRainfallTable([]RainfallRecord{valid})
		assert.True(t, report.Valid())
	})

	t.Run("blank subdivision and zero rainfall", func(t *testing.T) {
		report := ValidateRainfallTable([]RainfallRecord{{Year: 2005}})
		require.Len(t, report.Violations, 2)
		assert.Equal(t, "subdivision_name", report.Violations[0].Field)
		assert.Equal(t, "rainfall_mm", report.Violations[1].Field)
	})

	t.Run("rainfall above physical bound warns", func(t *testing.T) {
		wet := RainfallRecord{SubdivisionName: "Kerala", Year: 2005, RainfallMM: 15000}
		report := ValidateRainfallTable([]RainfallRecord{wet})
		assert.True(t, report.Valid())
		require.Len(t, report.Warnings, 1)
	})

	t.Run("empty table scores zero", func(t *testing.T) {
		report := ValidateRainfallTable(nil)
		assert.True(t, report.Valid())
		assert.Equal(t, 0.0, report.Score())
	})
}
