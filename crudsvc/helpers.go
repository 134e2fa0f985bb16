package crudsvc

import (
	"strconv"
	"strings"
	"time"

	"github.com/goliatone/go-crud"
	"github.com/goliatone/go-fieldlog/pkg/types"
	"github.com/google/uuid"
)

const dateOnlyLayout = "2006-01-02"

func queryUUID(ctx crud.Context, key string) uuid.UUID {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return uuid.Nil
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil
	}
	return id
}

func queryInt(ctx crud.Context, key string, def int) int {
	if value := ctx.Query(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return def
}

// queryActivityTypes passes raw values through unparsed; downstream
// filter normalization drops unknown values instead of erroring.
func queryActivityTypes(ctx crud.Context, key string) []types.ActivityType {
	var result []types.ActivityType
	for _, value := range ctx.QueryValues(key) {
		for _, part := range strings.Split(value, ",") {
			part = strings.TrimSpace(part)
			if part == "" {
				continue
			}
			result = append(result, types.ActivityType(part))
		}
	}
	return result
}

func queryStringSlice(ctx crud.Context, key string) []string {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part != "" {
			result = append(result, part)
		}
	}
	return result
}

// queryDate accepts date-only or RFC3339 values. Unparseable values
// read as absent.
func queryDate(ctx crud.Context, key string) *time.Time {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return nil
	}
	if parsed, err := time.Parse(dateOnlyLayout, raw); err == nil {
		return &parsed
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return &parsed
	}
	return nil
}

// queryEndDate widens date-only upper bounds to the end of the day so
// records logged later that day still fall inside the range.
func queryEndDate(ctx crud.Context, key string) *time.Time {
	raw := strings.TrimSpace(ctx.Query(key))
	if raw == "" {
		return nil
	}
	if parsed, err := time.Parse(dateOnlyLayout, raw); err == nil {
		end := parsed.Add(24*time.Hour - time.Nanosecond)
		return &end
	}
	if parsed, err := time.Parse(time.RFC3339, raw); err == nil {
		return &parsed
	}
	return nil
}

func parsePreferenceLevel(value string) types.PreferenceLevel {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case string(types.PreferenceLevelSystem):
		return types.PreferenceLevelSystem
	case string(types.PreferenceLevelUser):
		return types.PreferenceLevelUser
	default:
		return ""
	}
}
