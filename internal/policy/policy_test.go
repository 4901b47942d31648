package policy

import (
	"testing"

	"frontier/hub/internal/model"
)

func TestRankValueOrdering(t *testing.T) {
	order := []string{"vagrant", "affiliate", "scout", "voyager", "founder", "pioneer"}
	for i := 1; i < len(order); i++ {
		if RankValue(order[i]) <= RankValue(order[i-1]) {
			t.Fatalf("expected %s > %s", order[i], order[i-1])
		}
	}
	for i, name := range order {
		if RankValue(name) != i+1 {
			t.Fatalf("expected ordinal %d for %s, got %d", i+1, name, RankValue(name))
		}
	}
}

func TestRankValueUnknownAndCase(t *testing.T) {
	if RankValue("PIONEER") != RankValue("pioneer") {
		t.Fatalf("expected case-insensitive rank lookup")
	}
	if RankValue(" Voyager ") != RankValue("voyager") {
		t.Fatalf("expected trimmed rank lookup")
	}
	for _, unknown := range []string{"", "admiral", "vagrant2", "none"} {
		if RankValue(unknown) != 0 {
			t.Fatalf("expected 0 for unknown rank %q, got %d", unknown, RankValue(unknown))
		}
	}
	if RankValue("unknown") >= RankValue("vagrant") {
		t.Fatalf("unknown rank must sit below vagrant")
	}
}

func TestHasMinRank(t *testing.T) {
	scout := &model.Profile{ID: "u1", Rank: "scout"}

	if !HasMinRank(scout, "") {
		t.Fatalf("empty requirement must always pass")
	}
	if !HasMinRank(nil, "") {
		t.Fatalf("empty requirement must pass even without a user")
	}
	if HasMinRank(nil, "vagrant") {
		t.Fatalf("nil user must never meet a rank requirement")
	}
	if HasMinRank(&model.Profile{ID: "u2"}, "vagrant") {
		t.Fatalf("rankless user must never meet a rank requirement")
	}
	if !HasMinRank(scout, "affiliate") {
		t.Fatalf("scout must meet affiliate requirement")
	}
	if !HasMinRank(scout, "scout") {
		t.Fatalf("scout must meet scout requirement")
	}
	if HasMinRank(scout, "voyager") {
		t.Fatalf("scout must not meet voyager requirement")
	}
}

func TestHasRoleAndSuspension(t *testing.T) {
	user := &model.Profile{ID: "u1", Rank: "scout", Roles: []string{"medic", "brigged"}}
	if !HasRole(user, "medic") {
		t.Fatalf("expected role medic")
	}
	if HasRole(user, "pilot") {
		t.Fatalf("unexpected role pilot")
	}
	if HasRole(nil, "medic") {
		t.Fatalf("nil user has no roles")
	}
	if !IsSuspended(user) {
		t.Fatalf("brigged user must be suspended")
	}
	if IsSuspended(&model.Profile{ID: "u2", Roles: []string{"medic"}}) {
		t.Fatalf("unsuspended user flagged")
	}
	if !IsSuspended(&model.Profile{ID: "u3", Roles: []string{"brig"}}) {
		t.Fatalf("brig tag must count as suspension")
	}
}

func TestCanAccessChannel(t *testing.T) {
	voyager := &model.Profile{ID: "u1", Rank: "voyager", Roles: []string{"medic"}}
	minRank := "scout"

	open := &model.Channel{ID: "c1"}
	if !CanAccessChannel(voyager, open) {
		t.Fatalf("unrestricted channel must be accessible")
	}
	if CanAccessChannel(nil, open) {
		t.Fatalf("nil user must be denied")
	}

	ranked := &model.Channel{ID: "c2", AccessMinRank: &minRank}
	if !CanAccessChannel(voyager, ranked) {
		t.Fatalf("voyager must access scout-gated channel")
	}
	if CanAccessChannel(&model.Profile{ID: "u2", Rank: "affiliate"}, ranked) {
		t.Fatalf("affiliate must not access scout-gated channel")
	}

	tagged := &model.Channel{ID: "c3", AllowedRoleTags: []string{"medic", "pilot"}}
	if !CanAccessChannel(voyager, tagged) {
		t.Fatalf("medic must access medic/pilot channel")
	}
	if CanAccessChannel(&model.Profile{ID: "u3", Rank: "pioneer"}, tagged) {
		t.Fatalf("role gate must hold regardless of rank")
	}

	// Both gates are ANDed.
	both := &model.Channel{ID: "c4", AccessMinRank: &minRank, AllowedRoleTags: []string{"medic"}}
	if !CanAccessChannel(voyager, both) {
		t.Fatalf("user passing both gates must be allowed")
	}
	if CanAccessChannel(&model.Profile{ID: "u4", Rank: "founder"}, both) {
		t.Fatalf("missing role tag must deny despite rank")
	}
	if CanAccessChannel(&model.Profile{ID: "u5", Rank: "vagrant", Roles: []string{"medic"}}, both) {
		t.Fatalf("insufficient rank must deny despite role tag")
	}
}

func TestCanPostInChannel(t *testing.T) {
	readOnly := &model.Channel{ID: "c1", IsReadOnly: true}
	writable := &model.Channel{ID: "c2"}

	scout := &model.Profile{ID: "u1", Rank: "scout"}
	voyager := &model.Profile{ID: "u2", Rank: "voyager"}

	if CanPostInChannel(scout, readOnly) {
		t.Fatalf("scout must not post in read-only channel")
	}
	if !CanPostInChannel(voyager, readOnly) {
		t.Fatalf("voyager must post in read-only channel")
	}
	if !CanPostInChannel(scout, writable) {
		t.Fatalf("scout must post in writable channel")
	}

	// Posting is never allowed where access is denied.
	minRank := "founder"
	gated := &model.Channel{ID: "c3", AccessMinRank: &minRank}
	if CanPostInChannel(voyager, gated) {
		t.Fatalf("post must imply access")
	}
	if CanPostInChannel(nil, writable) {
		t.Fatalf("nil user must not post anywhere")
	}
}

func TestEventAndResourcePredicates(t *testing.T) {
	scout := &model.Profile{ID: "u1", Rank: "scout"}
	affiliate := &model.Profile{ID: "u2", Rank: "affiliate"}
	founder := &model.Profile{ID: "u3", Rank: "founder"}
	pioneer := &model.Profile{ID: "u4", Rank: "pioneer"}
	shaman := &model.Profile{ID: "u5", Rank: "affiliate", IsShaman: true}

	if !CanCreateEvent(scout) || CanCreateEvent(affiliate) {
		t.Fatalf("event creation threshold must be scout")
	}

	event := &model.Event{ID: "e1", CreatedBy: "u2"}
	if !CanEditEvent(affiliate, event) {
		t.Fatalf("creator must edit own event regardless of rank")
	}
	if CanEditEvent(scout, event) {
		t.Fatalf("non-creator below founder must not edit")
	}
	if !CanEditEvent(founder, event) {
		t.Fatalf("founder must edit any event")
	}

	if !CanEditResources(pioneer) {
		t.Fatalf("pioneer must edit resources")
	}
	if !CanEditResources(shaman) {
		t.Fatalf("shaman flag must grant resource editing")
	}
	if CanEditResources(founder) {
		t.Fatalf("founder without shaman flag must not edit resources")
	}
	if CanEditResources(nil) {
		t.Fatalf("nil user must not edit resources")
	}
}
