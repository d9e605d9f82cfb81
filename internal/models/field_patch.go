package models

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// FieldPatch is a merge-patch over a politician record: only the keys
// present are applied, everything else is left untouched.
type FieldPatch map[string]json.RawMessage

// patchDecoders maps patchable field names to a strict decode check for the
// field's value. Keys absent from this map are rejected at the boundary.
var patchDecoders = map[string]func(json.RawMessage) error{
	"full_name":          decodeAs[string],
	"date_of_birth":      decodeDateField,
	"gender":             decodeAs[string],
	"party":              decodeAs[string],
	"constituency":       decodeAs[string],
	"biography":          decodeAs[string],
	"photo_asset_id":     decodeAs[string],
	"education":          decodeAs[[]EducationEntry],
	"career":             decodeAs[[]CareerEntry],
	"criminal_records":   decodeAs[[]CriminalRecord],
	"asset_declarations": decodeAs[[]AssetDeclaration],
	"contact_info":       decodeAs[ContactInfo],
	"social_links":       decodeAs[SocialLinks],
}

// decodeAs strictly decodes raw into T, discarding the result.
func decodeAs[T any](raw json.RawMessage) error {
	var v T

	return newStrictDecoder(raw).Decode(&v)
}

// decodeDateField checks a date_of_birth patch value.
func decodeDateField(raw json.RawMessage) error {
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return err
	}

	in := PoliticianInput{DateOfBirth: &s}

	return in.Validate()
}

// Validate checks that the patch is non-empty, addresses only known fields,
// and that every value decodes to the field's schema.
func (p FieldPatch) Validate() error {
	if len(p) == 0 {
		return ErrMissingData
	}

	for key, raw := range p {
		check, ok := patchDecoders[key]
		if !ok {
			return fmt.Errorf("%w: unknown field %q", ErrInvalidPayload, key)
		}

		if err := check(raw); err != nil {
			return fmt.Errorf("%w: invalid value for %q: %s", ErrInvalidPayload, key, err)
		}
	}

	return nil
}

// DecodeFieldPatch strictly decodes a proposed-data payload into a FieldPatch
// and validates every key against the politician field schema.
func DecodeFieldPatch(data json.RawMessage) (FieldPatch, error) {
	if len(data) == 0 {
		return nil, ErrMissingData
	}

	var patch FieldPatch
	if err := json.Unmarshal(data, &patch); err != nil {
		return nil, fmt.Errorf("decoding field patch: %w", err)
	}

	if err := patch.Validate(); err != nil {
		return nil, err
	}

	return patch, nil
}

// newStrictDecoder returns a JSON decoder that rejects unknown fields.
func newStrictDecoder(data []byte) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()

	return dec
}
