package types

import "strings"

// ActivityType categorizes a logged field activity.
type ActivityType string

const (
	ActivityTraining      ActivityType = "training"
	ActivitySupport       ActivityType = "support"
	ActivityPublication   ActivityType = "publication"
	ActivityEvent         ActivityType = "event"
	ActivityTravel        ActivityType = "travel"
	ActivityCourse        ActivityType = "course"
	ActivityInterview     ActivityType = "interview"
	ActivityOmbudsman     ActivityType = "ombudsman"
	ActivityCommunication ActivityType = "communication"
	ActivityOther         ActivityType = "other"
)

var activityTypes = []ActivityType{
	ActivityTraining,
	ActivitySupport,
	ActivityPublication,
	ActivityEvent,
	ActivityTravel,
	ActivityCourse,
	ActivityInterview,
	ActivityOmbudsman,
	ActivityCommunication,
	ActivityOther,
}

// ActivityTypes returns the known categories in a stable order.
func ActivityTypes() []ActivityType {
	out := make([]ActivityType, len(activityTypes))
	copy(out, activityTypes)
	return out
}

// ParseActivityType normalizes raw category input. Callers that filter
// fail-open should drop the filter when ok is false rather than error.
func ParseActivityType(raw string) (ActivityType, bool) {
	t := ActivityType(strings.ToLower(strings.TrimSpace(raw)))
	if t.Valid() {
		return t, true
	}
	return "", false
}

// Valid reports whether t names a known category.
func (t ActivityType) Valid() bool {
	for _, known := range activityTypes {
		if t == known {
			return true
		}
	}
	return false
}

func (t ActivityType) String() string { return string(t) }
