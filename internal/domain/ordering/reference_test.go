package ordering

import (
	"regexp"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

func TestGenerateExternalRef(t *testing.T) {
	retailerID := uuid.MustParse("6e1cc0b8-3c53-4a9f-9f41-9a2ff41a2b40")
	day := time.Date(2026, 1, 15, 10, 30, 0, 0, time.UTC)

	input := RefInput{
		RetailerID: retailerID,
		Lines: []RefLine{
			{SKUCode: "WID-001", Qty: 24},
			{SKUCode: "WID-002", Qty: 12},
		},
		PONumber: "PO-77",
	}

	t.Run("has the expected shape", func(t *testing.T) {
		ref := GenerateExternalRef("RP", day, input)
		assert.Regexp(t, regexp.MustCompile(`^RP-20260115-[0-9A-F]{8}$`), ref)
	})

	t.Run("is deterministic", func(t *testing.T) {
		a := GenerateExternalRef("RP", day, input)
		b := GenerateExternalRef("RP", day, input)
		assert.Equal(t, a, b)
	})

	t.Run("ignores line order", func(t *testing.T) {
		reversed := input
		reversed.Lines = []RefLine{
			{SKUCode: "WID-002", Qty: 12},
			{SKUCode: "WID-001", Qty: 24},
		}
		assert.Equal(t,
			GenerateExternalRef("RP", day, input),
			GenerateExternalRef("RP", day, reversed),
		)
	})

	t.Run("varies with content", func(t *testing.T) {
		changed := input
		changed.Lines = []RefLine{
			{SKUCode: "WID-001", Qty: 48},
			{SKUCode: "WID-002", Qty: 12},
		}
		assert.NotEqual(t,
			GenerateExternalRef("RP", day, input),
			GenerateExternalRef("RP", day, changed),
		)

		withPO := input
		withPO.PONumber = "PO-78"
		assert.NotEqual(t,
			GenerateExternalRef("RP", day, input),
			GenerateExternalRef("RP", day, withPO),
		)
	})

	t.Run("scopes duplicates to the submission day", func(t *testing.T) {
		nextDay := day.Add(24 * time.Hour)
		assert.NotEqual(t,
			GenerateExternalRef("RP", day, input),
			GenerateExternalRef("RP", nextDay, input),
		)
	})

	t.Run("same-day resubmission collides regardless of time", func(t *testing.T) {
		evening := time.Date(2026, 1, 15, 22, 5, 0, 0, time.UTC)
		assert.Equal(t,
			GenerateExternalRef("RP", day, input),
			GenerateExternalRef("RP", evening, input),
		)
	})

	t.Run("empty prefix falls back to the default", func(t *testing.T) {
		ref := GenerateExternalRef("", day, input)
		assert.Regexp(t, regexp.MustCompile(`^RP-20260115-[0-9A-F]{8}$`), ref)
	})
}
