package auditlog

import (
	"sync"

	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/goliatone/go-masker"
)

var defaultMaskerOnce sync.Once

// DefaultMasker returns a masker instance with the default denylist
// for audit detail payloads.
func DefaultMasker() *masker.Masker {
	defaultMaskerOnce.Do(func() {
		if masker.Default == nil {
			return
		}
		registerDefaultMaskFields(masker.Default)
	})
	return masker.Default
}

// SanitizeRecord masks sensitive values in the audit detail payload.
// When masking fails the details are dropped entirely rather than
// stored unmasked.
func SanitizeRecord(mask *masker.Masker, record types.AuditRecord) types.AuditRecord {
	if len(record.Details) == 0 {
		return record
	}
	if mask == nil {
		mask = DefaultMasker()
	}
	if mask == nil {
		record.Details = map[string]any{}
		return record
	}

	cloned := cloneStringMap(record.Details)
	masked, err := mask.Mask(cloned)
	if err != nil {
		record.Details = map[string]any{}
		return record
	}

	switch masked := masked.(type) {
	case map[string]any:
		record.Details = masked
	default:
		record.Details = map[string]any{}
	}
	return record
}

// SanitizeRecords masks sensitive values for every record in the slice.
func SanitizeRecords(mask *masker.Masker, records []types.AuditRecord) []types.AuditRecord {
	if len(records) == 0 {
		return records
	}
	out := make([]types.AuditRecord, 0, len(records))
	for _, record := range records {
		out = append(out, SanitizeRecord(mask, record))
	}
	return out
}

func registerDefaultMaskFields(mask *masker.Masker) {
	if mask == nil {
		return
	}
	mask.RegisterMaskField("Password", "filled4")
	mask.RegisterMaskField("password", "filled4")
	mask.RegisterMaskField("Secret", "filled4")
	mask.RegisterMaskField("secret", "filled4")
}

func cloneStringMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return map[string]any{}
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
