// internal/mutation/input_test.go
//
// Wire-shape tests for the mutation inputs and the change-log
// classification.  The HTTP layer decodes request bodies straight into
// these structs, so their json tags are part of the public contract.

package mutation

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/yanizio/seonet/internal/audit"
	"github.com/yanizio/seonet/internal/structure"
)

func strRef(s string) *string { return &s }
func intRef(i int) *int       { return &i }

func TestCreateInput_DecodesSnakeCase(t *testing.T) {
	payload := `{
		"network_id": 9,
		"asset_domain_id": 13,
		"optimized_path": "/promo",
		"domain_role": "supporting",
		"target_entry_id": 1,
		"ranking_position": 4,
		"change_note": "add a promo feeder node",
		"actor": "spoof@example.com"
	}`

	var in CreateInput
	if err := json.Unmarshal([]byte(payload), &in); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if in.AssetDomainID != 13 {
		t.Errorf("AssetDomainID = %d, want 13", in.AssetDomainID)
	}
	if in.OptimizedPath != "/promo" {
		t.Errorf("OptimizedPath = %q, want /promo", in.OptimizedPath)
	}
	if in.Role != structure.RoleSupporting {
		t.Errorf("Role = %q, want supporting", in.Role)
	}
	if in.TargetEntryID == nil || *in.TargetEntryID != 1 {
		t.Errorf("TargetEntryID = %v, want 1", in.TargetEntryID)
	}
	if in.RankingPosition == nil || *in.RankingPosition != 4 {
		t.Errorf("RankingPosition = %v, want 4", in.RankingPosition)
	}
	if in.ChangeNote != "add a promo feeder node" {
		t.Errorf("ChangeNote = %q, want the note", in.ChangeNote)
	}

	// Path and header own these; the body must not be able to set them.
	if in.NetworkID != 0 {
		t.Errorf("NetworkID = %d, want 0 (body-settable)", in.NetworkID)
	}
	if in.Actor != "" {
		t.Errorf("Actor = %q, want empty (body-settable)", in.Actor)
	}
}

func TestUpdateInput_DecodesSnakeCase(t *testing.T) {
	payload := `{
		"entry_id": 5,
		"set_target": true,
		"target_entry_id": null,
		"index_status": "index",
		"ranking_url": "https://hub.example/promo",
		"change_note": "clear the feeder target"
	}`

	var in UpdateInput
	if err := json.Unmarshal([]byte(payload), &in); err != nil {
		t.Fatalf("decode: %v", err)
	}

	if !in.SetTarget {
		t.Error("SetTarget = false, want true")
	}
	if in.TargetEntryID != nil {
		t.Errorf("TargetEntryID = %v, want nil (explicit clear)", in.TargetEntryID)
	}
	if in.IndexStatus == nil || *in.IndexStatus != structure.IndexStatusIndex {
		t.Errorf("IndexStatus = %v, want index", in.IndexStatus)
	}
	if in.RankingURL == nil || *in.RankingURL != "https://hub.example/promo" {
		t.Errorf("RankingURL = %v, want the URL", in.RankingURL)
	}
	if in.ChangeNote != "clear the feeder target" {
		t.Errorf("ChangeNote = %q, want the note", in.ChangeNote)
	}
	if in.EntryID != 0 {
		t.Errorf("EntryID = %d, want 0 (body-settable)", in.EntryID)
	}
}

func TestClassify_PlainEditSnapshotsOnlyChangedFields(t *testing.T) {
	cur := supportingEntry(2, ref(1))
	next := cur
	next.RankingURL = strRef("https://hub.example/promo")
	next.RankingPosition = intRef(4)

	action, fields := classify(false, false, false, &cur, &next)
	if action != audit.ActionUpdateNode {
		t.Fatalf("action = %q, want update_node", action)
	}
	want := []string{"ranking_url", "ranking_position"}
	if !reflect.DeepEqual(fields, want) {
		t.Fatalf("fields = %v, want %v", fields, want)
	}

	// A status-only edit names only the status.
	next = cur
	next.DomainStatus = structure.Status301Redirect
	if _, fields := classify(false, false, false, &cur, &next); !reflect.DeepEqual(fields, []string{"domain_status"}) {
		t.Fatalf("fields = %v, want [domain_status]", fields)
	}
}
