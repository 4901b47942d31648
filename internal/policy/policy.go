// Package policy evaluates rank and role predicates for community members.
// All functions are total: absent or malformed input degrades to "no
// permission" or "lowest rank" instead of returning an error, so callers can
// gate actions without error plumbing.
package policy

import (
	"strings"

	"frontier/hub/internal/model"
)

// Rank names from lowest to highest privilege. Unknown or absent ranks map to
// ordinal 0, strictly below vagrant. The table is immutable; rank changes are
// config/data, never runtime mutation.
var rankOrder = map[string]int{
	"vagrant":   1,
	"affiliate": 2,
	"scout":     3,
	"voyager":   4,
	"founder":   5,
	"pioneer":   6,
}

// Suspension role tags. A profile carrying either tag is barred from
// instruction requests and session brokering.
var suspensionTags = []string{"brigged", "brig"}

// RankValue returns the ordinal of a rank name, case-insensitive.
// Unknown input yields 0.
func RankValue(rank string) int {
	return rankOrder[strings.ToLower(strings.TrimSpace(rank))]
}

// HasMinRank reports whether the user meets the given minimum rank. An empty
// minimum means no requirement; a nil user never qualifies.
func HasMinRank(user *model.Profile, minRank string) bool {
	if strings.TrimSpace(minRank) == "" {
		return true
	}
	if user == nil || user.Rank == "" {
		return false
	}
	return RankValue(user.Rank) >= RankValue(minRank)
}

// HasRole reports whether the user carries the given role tag.
func HasRole(user *model.Profile, roleTag string) bool {
	if user == nil {
		return false
	}
	for _, tag := range user.Roles {
		if tag == roleTag {
			return true
		}
	}
	return false
}

// IsSuspended reports whether the user carries a suspension tag.
func IsSuspended(user *model.Profile) bool {
	for _, tag := range suspensionTags {
		if HasRole(user, tag) {
			return true
		}
	}
	return false
}

// CanAccessChannel applies the channel's rank gate and role-tag gate. The two
// gates are independent: a channel may restrict by rank, by tags, by both, or
// by neither.
func CanAccessChannel(user *model.Profile, channel *model.Channel) bool {
	if user == nil || channel == nil {
		return false
	}
	if channel.AccessMinRank != nil && !HasMinRank(user, *channel.AccessMinRank) {
		return false
	}
	if len(channel.AllowedRoleTags) > 0 {
		held := false
		for _, tag := range channel.AllowedRoleTags {
			if HasRole(user, tag) {
				held = true
				break
			}
		}
		if !held {
			return false
		}
	}
	return true
}

// CanPostInChannel is access plus, for read-only channels, minimum rank
// voyager.
func CanPostInChannel(user *model.Profile, channel *model.Channel) bool {
	if !CanAccessChannel(user, channel) {
		return false
	}
	if channel.IsReadOnly {
		return HasMinRank(user, "voyager")
	}
	return true
}

// CanCreateEvent requires minimum rank scout.
func CanCreateEvent(user *model.Profile) bool {
	return HasMinRank(user, "scout")
}

// CanEditEvent allows the event creator regardless of rank, or anyone at
// founder and above.
func CanEditEvent(user *model.Profile, event *model.Event) bool {
	if user == nil || event == nil {
		return false
	}
	if event.CreatedBy != "" && event.CreatedBy == user.ID {
		return true
	}
	return HasMinRank(user, "founder")
}

// CanEditResources is a named-exception predicate: pioneers and shamans only,
// not a rank threshold.
func CanEditResources(user *model.Profile) bool {
	if user == nil {
		return false
	}
	if strings.EqualFold(user.Rank, "pioneer") {
		return true
	}
	return user.IsShaman
}
