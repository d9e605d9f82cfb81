package models_test

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/netrika/netrika/internal/models"
)

func TestProposeRequestValidate(t *testing.T) {
	empty := ""
	target := "b7a9c2f0-0000-0000-0000-000000000001"

	tests := []struct {
		name    string
		req     models.ProposeRequest
		wantErr error
	}{
		{
			name: "new entity proposal",
			req: models.ProposeRequest{
				EntityType: models.EntityTypePolitician,
				Data:       json.RawMessage(`{"full_name":"A"}`),
			},
		},
		{
			name: "field edit proposal",
			req: models.ProposeRequest{
				EntityType:   models.EntityTypePolitician,
				EntityID:     &target,
				Data:         json.RawMessage(`{"party":"PP"}`),
				ChangeReason: "party switch reported",
			},
		},
		{
			name:    "missing entity type",
			req:     models.ProposeRequest{Data: json.RawMessage(`{}`)},
			wantErr: models.ErrMissingEntityType,
		},
		{
			name: "empty entity id",
			req: models.ProposeRequest{
				EntityType: models.EntityTypePolitician,
				EntityID:   &empty,
				Data:       json.RawMessage(`{}`),
			},
			wantErr: models.ErrMissingEntityID,
		},
		{
			name:    "missing data",
			req:     models.ProposeRequest{EntityType: models.EntityTypePolitician},
			wantErr: models.ErrMissingData,
		},
		{
			name: "null data",
			req: models.ProposeRequest{
				EntityType: models.EntityTypePolitician,
				Data:       json.RawMessage(`null`),
			},
			wantErr: models.ErrMissingData,
		},
		{
			name: "reason too long",
			req: models.ProposeRequest{
				EntityType:   models.EntityTypePolitician,
				Data:         json.RawMessage(`{}`),
				ChangeReason: strings.Repeat("x", 2001),
			},
			wantErr: models.ErrInvalidPayload,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if tt.wantErr == nil {
				if err != nil {
					t.Fatalf("expected no error, got %v", err)
				}
				return
			}
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("expected %v, got %v", tt.wantErr, err)
			}
		})
	}
}

func TestEditStatusTerminal(t *testing.T) {
	if models.EditStatusPending.Terminal() {
		t.Error("pending must not be terminal")
	}
	if !models.EditStatusApproved.Terminal() {
		t.Error("approved must be terminal")
	}
	if !models.EditStatusDenied.Terminal() {
		t.Error("denied must be terminal")
	}
}

func TestFieldPatchValidate(t *testing.T) {
	tests := []struct {
		name    string
		patch   models.FieldPatch
		wantErr bool
	}{
		{
			name:  "valid scalar patch",
			patch: models.FieldPatch{"party": json.RawMessage(`"New Party"`)},
		},
		{
			name: "valid section patch",
			patch: models.FieldPatch{
				"career": json.RawMessage(`[{"organization":"Senate","position":"Senator"}]`),
			},
		},
		{
			name:  "null clears nullable field",
			patch: models.FieldPatch{"photo_asset_id": json.RawMessage(`null`)},
		},
		{
			name:    "empty patch",
			patch:   models.FieldPatch{},
			wantErr: true,
		},
		{
			name:    "unknown field",
			patch:   models.FieldPatch{"salary": json.RawMessage(`100`)},
			wantErr: true,
		},
		{
			name:    "wrong value type",
			patch:   models.FieldPatch{"full_name": json.RawMessage(`123`)},
			wantErr: true,
		},
		{
			name:    "bad date value",
			patch:   models.FieldPatch{"date_of_birth": json.RawMessage(`"yesterday"`)},
			wantErr: true,
		},
		{
			name: "section with unknown key",
			patch: models.FieldPatch{
				"contact_info": json.RawMessage(`{"email":"a@b.c","fax":"123"}`),
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.wantErr && err == nil {
				t.Fatal("expected error, got nil")
			}
			if !tt.wantErr && err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	}
}

func TestFieldPatchValidate_WrapsInvalidPayload(t *testing.T) {
	err := models.FieldPatch{"salary": json.RawMessage(`1`)}.Validate()
	if !errors.Is(err, models.ErrInvalidPayload) {
		t.Fatalf("expected ErrInvalidPayload, got %v", err)
	}
}

func TestDecodeFieldPatch(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		patch, err := models.DecodeFieldPatch(json.RawMessage(`{"biography":"Updated bio"}`))
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(patch) != 1 {
			t.Errorf("expected 1 key, got %d", len(patch))
		}
	})

	t.Run("not an object", func(t *testing.T) {
		if _, err := models.DecodeFieldPatch(json.RawMessage(`[1,2]`)); err == nil {
			t.Fatal("expected error for non-object payload")
		}
	})

	t.Run("empty", func(t *testing.T) {
		if _, err := models.DecodeFieldPatch(nil); !errors.Is(err, models.ErrMissingData) {
			t.Fatalf("expected ErrMissingData, got %v", err)
		}
	})
}

func TestIdentity(t *testing.T) {
	admin := models.Identity{ID: "a1", Role: models.RoleAdmin}
	user := models.Identity{ID: "u1", Role: models.RoleUser}
	anon := models.Identity{}

	if !admin.IsAdmin() || user.IsAdmin() {
		t.Error("IsAdmin should reflect the admin role only")
	}
	if !admin.Authenticated() || !user.Authenticated() {
		t.Error("identities with IDs are authenticated")
	}
	if anon.Authenticated() {
		t.Error("zero identity must not be authenticated")
	}
}
