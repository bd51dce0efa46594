package ordering

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultRefPrefix is the prefix used for generated external references
const DefaultRefPrefix = "RP"

// RefLine is one line of the canonical reference input
type RefLine struct {
	SKUCode string
	Qty     int
}

// RefInput carries the order content that determines the external reference.
// Optional fields serialize as empty strings so their absence never varies
// the hash.
type RefInput struct {
	RetailerID            uuid.UUID
	Lines                 []RefLine
	PONumber              string
	RequestedDeliveryDate string
}

// canonicalRef is the serialized tuple that gets hashed. Field order is
// fixed by the struct definition, which json.Marshal preserves.
type canonicalRef struct {
	RetailerID string             `json:"retailerId"`
	Lines      []canonicalRefLine `json:"lines"`
	PO         string             `json:"po"`
	Date       string             `json:"date"`
}

type canonicalRefLine struct {
	SKU string `json:"sku"`
	Qty int    `json:"qty"`
}

// GenerateExternalRef derives the deterministic external reference for an
// order: `<prefix>-<YYYYMMDD>-<HASH8>`. The date component is the submission
// day, so identical carts submitted on different calendar days produce
// different references; duplicate detection is scoped to same day, same
// content.
func GenerateExternalRef(prefix string, submittedAt time.Time, input RefInput) string {
	lines := make([]RefLine, len(input.Lines))
	copy(lines, input.Lines)
	sort.Slice(lines, func(i, j int) bool {
		return lines[i].SKUCode < lines[j].SKUCode
	})

	canonical := canonicalRef{
		RetailerID: input.RetailerID.String(),
		Lines:      make([]canonicalRefLine, len(lines)),
		PO:         input.PONumber,
		Date:       input.RequestedDeliveryDate,
	}
	for i, l := range lines {
		canonical.Lines[i] = canonicalRefLine{SKU: l.SKUCode, Qty: l.Qty}
	}

	// Marshal of a flat struct cannot fail
	data, _ := json.Marshal(canonical)
	sum := sha256.Sum256(data)
	shortHash := strings.ToUpper(hex.EncodeToString(sum[:])[:8])

	if prefix == "" {
		prefix = DefaultRefPrefix
	}
	return fmt.Sprintf("%s-%s-%s", prefix, submittedAt.Format("20060102"), shortHash)
}
