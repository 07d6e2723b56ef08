// SPDX-License-Identifier: Apache-2.0

// Package schema validates the shape of checkpoint documents before they
// are decoded into domain types, giving callers a precise diagnostic
// instead of a confusing field-by-field decode failure.
//
// The reference implementation treats malformed input as undefined
// behavior (the core trusts its collaborators); this package is purely an
// ambient nicety layered on top of that boundary, grounded on the
// teacher's heavy reliance on OpenAPI schemas (github.com/getkin/kin-openapi)
// to describe and validate wire shapes.
package schema

import (
	"context"
	"fmt"

	"github.com/getkin/kin-openapi/openapi3"
)

// checkpointSchema describes the checkpoint document's shape:
//
//	{ "now": <int>, "jobs": [ [tid, arr, ot, dl, c], ... ] }
var checkpointSchema = func() *openapi3.Schema {
	jobTuple := openapi3.NewArraySchema().WithItems(openapi3.NewInt64Schema())
	jobTuple.MinItems = 5
	jobTuple.MaxItems = uint64Ptr(5)

	jobs := openapi3.NewArraySchema().WithItems(jobTuple)

	doc := openapi3.NewObjectSchema().
		WithProperty("now", openapi3.NewInt64Schema()).
		WithProperty("jobs", jobs)
	doc.Required = []string{"now", "jobs"}
	return doc
}()

func uint64Ptr(v uint64) *uint64 { return &v }

// ValidateCheckpoint checks that decoded JSON value doc (as produced by
// encoding/json.Unmarshal into interface{} or map[string]interface{})
// conforms to the checkpoint document shape.
func ValidateCheckpoint(doc interface{}) error {
	if err := checkpointSchema.VisitJSON(doc); err != nil {
		return fmt.Errorf("schema: checkpoint document invalid: %w", err)
	}
	return nil
}

// ValidateCheckpointJSON decodes a document through unmarshal and validates
// it against the checkpoint schema, returning the decoded generic document
// on success.
func ValidateCheckpointJSON(ctx context.Context, unmarshal func(interface{}) error) (interface{}, error) {
	var doc interface{}
	if err := unmarshal(&doc); err != nil {
		return nil, fmt.Errorf("schema: decoding checkpoint: %w", err)
	}
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}
	if err := ValidateCheckpoint(doc); err != nil {
		return nil, err
	}
	return doc, nil
}
