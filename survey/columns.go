package survey

import (
	"fmt"
	"strings"
)

// ColumnRole is a semantic role a source column can play. Roles are resolved
// against the header row once, at pipeline entry; the rest of the engine
// works with resolved indices and never re-inspects header text.
type ColumnRole int

const (
	RoleSensorDistance ColumnRole = iota
	RoleLatitude
	RoleLongitude
	RoleOnVoltage
	RoleOffVoltage
	RoleComment
	RoleAuxDistance
	RoleAuxLabel
)

// String returns the human-readable role name used in error messages.
func (r ColumnRole) String() string {
	switch r {
	case RoleSensorDistance:
		return "sensor distance"
	case RoleLatitude:
		return "latitude"
	case RoleLongitude:
		return "longitude"
	case RoleOnVoltage:
		return "on voltage"
	case RoleOffVoltage:
		return "off voltage"
	case RoleComment:
		return "comment"
	case RoleAuxDistance:
		return "annotation distance"
	case RoleAuxLabel:
		return "annotation label"
	}
	return "unknown"
}

// ColumnMap maps resolved roles to column indices in the source header row.
type ColumnMap map[ColumnRole]int

// requiredRoles are the survey roles that must resolve for a run to start.
var requiredRoles = []ColumnRole{
	RoleSensorDistance,
	RoleLatitude,
	RoleLongitude,
	RoleOnVoltage,
	RoleOffVoltage,
}

// containsFold reports whether s contains substr, case-insensitively.
func containsFold(s, substr string) bool {
	return strings.Contains(strings.ToLower(s), strings.ToLower(substr))
}

func containsAny(s string, subs ...string) bool {
	for _, sub := range subs {
		if strings.Contains(s, sub) {
			return true
		}
	}
	return false
}

// matchRole reports whether a header name looks like the given role.
// Matching is by case-insensitive substring, which is how field equipment
// exports actually vary ("Distance (m)", "CHAINAGE", "Off Voltage (V)", ...).
func matchRole(role ColumnRole, header string) bool {
	h := strings.ToLower(strings.TrimSpace(header))
	switch role {
	case RoleSensorDistance, RoleAuxDistance:
		return containsAny(h, "distance", "chainage", "station", "odometer", "abscis", "pk")
	case RoleLatitude:
		return strings.Contains(h, "lat")
	case RoleLongitude:
		return containsAny(h, "lon", "lng")
	case RoleOnVoltage:
		return containsAny(h, "volt", "potential", "mv") &&
			strings.Contains(h, "on") && !strings.Contains(h, "off")
	case RoleOffVoltage:
		return containsAny(h, "volt", "potential", "mv") && strings.Contains(h, "off")
	case RoleComment:
		return containsAny(h, "comment", "remark", "observ", "nota")
	case RoleAuxLabel:
		return containsAny(h, "anomal", "feature", "comment", "label", "descri", "observ")
	}
	return false
}

// findRole returns the index of the first header matching the role, or -1.
func findRole(role ColumnRole, headers []string) int {
	for i, h := range headers {
		if matchRole(role, h) {
			return i
		}
	}
	return -1
}

// ResolveColumns maps the survey roles onto a header row. Every required
// role must resolve; the comment role is optional and is simply absent from
// the map when no header matches.
func ResolveColumns(headers []string) (ColumnMap, error) {
	cm := make(ColumnMap)
	for _, role := range requiredRoles {
		idx := findRole(role, headers)
		if idx < 0 {
			return nil, fmt.Errorf("%w: %s", ErrMissingColumn, role)
		}
		cm[role] = idx
	}
	if idx := findRole(RoleComment, headers); idx >= 0 {
		cm[RoleComment] = idx
	}
	return cm, nil
}

// ResolveAuxColumns identifies the distance-like and label-like columns of an
// auxiliary table. ok is false when either cannot be identified; the caller
// logs a no-op and skips the merge rather than failing the run.
func ResolveAuxColumns(headers []string) (distIdx, labelIdx int, ok bool) {
	distIdx = findRole(RoleAuxDistance, headers)
	labelIdx = -1
	for i, h := range headers {
		if i == distIdx {
			continue
		}
		if matchRole(RoleAuxLabel, h) {
			labelIdx = i
			break
		}
	}
	return distIdx, labelIdx, distIdx >= 0 && labelIdx >= 0
}
