package safe

import (
	"context"
	"strings"
	"testing"

	"github.com/matryer/is"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func testDocument(t *testing.T) bson.Raw {
	return document(t, bson.D{
		{Key: "name", Value: "a"},
		{Key: "count", Value: "not-a-number"},
		{Key: "small", Value: int32(7)},
		{Key: "large", Value: int64(1 << 40)},
		{Key: "ratio", Value: 0.25},
		{Key: "enabled", Value: true},
		{Key: "expression", Value: bson.D{{Key: "q", Value: "temperature>20"}}},
		{Key: "tags", Value: bson.A{"x", "y", "z"}},
		{Key: "mixed", Value: bson.A{"x", int32(7), "z"}},
		{Key: "_id", Value: primitive.NewObjectID()},
	})
}

func TestGetStringField(t *testing.T) {
	is := is.New(t)
	ctx, rec := testSetup(t)

	is.Equal(GetStringField(ctx, testDocument(t), "name"), "a")
	is.Equal(rec.count(), 0) // a present field should not be reported
}

func TestIntFieldWithStringValueReturnsSentinel(t *testing.T) {
	is := is.New(t)
	ctx, rec := testSetup(t)

	is.Equal(GetIntField(ctx, testDocument(t), "count"), int32(-1))
	is.Equal(rec.count(), 1)
	is.True(strings.Contains(rec.last().Message, "unexpected field type"))
	is.Equal(rec.attr("field"), "count")
	is.Equal(rec.attr("expected"), "int32")
	is.Equal(rec.attr("actual"), "string")
}

func TestMissingFieldsReturnSentinels(t *testing.T) {
	doc := testDocument(t)

	checks := map[string]func(t *testing.T) bool{
		"object": func(t *testing.T) bool {
			ctx, _ := testSetup(t)
			obj := GetObjectField(ctx, doc, "nope")
			values, err := obj.Values()
			return err == nil && len(values) == 0
		},
		"array": func(t *testing.T) bool {
			ctx, _ := testSetup(t)
			arr := GetArrayField(ctx, doc, "nope")
			values, err := arr.Values()
			return err == nil && len(values) == 0
		},
		"string": func(t *testing.T) bool {
			ctx, _ := testSetup(t)
			return GetStringField(ctx, doc, "nope") == ""
		},
		"double": func(t *testing.T) bool {
			ctx, _ := testSetup(t)
			return GetNumberField(ctx, doc, "nope") == -1
		},
		"int32": func(t *testing.T) bool {
			ctx, _ := testSetup(t)
			return GetIntField(ctx, doc, "nope") == -1
		},
		"int64": func(t *testing.T) bool {
			ctx, _ := testSetup(t)
			return GetLongField(ctx, doc, "nope") == -1
		},
		"int or long": func(t *testing.T) bool {
			ctx, _ := testSetup(t)
			return GetIntOrLongFieldAsLong(ctx, doc, "nope") == -1
		},
		"bool": func(t *testing.T) bool {
			ctx, _ := testSetup(t)
			return !GetBoolField(ctx, doc, "nope")
		},
		"element": func(t *testing.T) bool {
			ctx, _ := testSetup(t)
			return GetField(ctx, doc, "nope").IsZero()
		},
		"string slice": func(t *testing.T) bool {
			ctx, _ := testSetup(t)
			s := GetStringSlice(ctx, doc, "nope")
			return s != nil && len(s) == 0
		},
	}

	for name, check := range checks {
		t.Run(name, func(t *testing.T) {
			is := is.New(t)
			is.True(check(t)) // should return the sentinel for a missing field
		})
	}
}

func TestMissingFieldIsReportedExactlyOnce(t *testing.T) {
	is := is.New(t)
	doc := testDocument(t)

	accessors := []func(ctx context.Context){
		func(ctx context.Context) { GetObjectField(ctx, doc, "nope") },
		func(ctx context.Context) { GetArrayField(ctx, doc, "nope") },
		func(ctx context.Context) { GetStringField(ctx, doc, "nope") },
		func(ctx context.Context) { GetNumberField(ctx, doc, "nope") },
		func(ctx context.Context) { GetIntField(ctx, doc, "nope") },
		func(ctx context.Context) { GetLongField(ctx, doc, "nope") },
		func(ctx context.Context) { GetIntOrLongFieldAsLong(ctx, doc, "nope") },
		func(ctx context.Context) { GetBoolField(ctx, doc, "nope") },
		func(ctx context.Context) { GetField(ctx, doc, "nope") },
		func(ctx context.Context) { GetStringSlice(ctx, doc, "nope") },
	}

	for _, access := range accessors {
		ctx, rec := testSetup(t)
		access(ctx)

		is.Equal(rec.count(), 1) // a missing field should be reported once
		is.Equal(rec.attr("field"), "nope")
		is.True(strings.Contains(rec.last().Message, "field is missing"))
	}
}

func TestTypeMismatchNamesBothTypes(t *testing.T) {
	is := is.New(t)
	doc := testDocument(t)

	mismatches := []struct {
		access   func(ctx context.Context)
		expected string
		actual   string
	}{
		{func(ctx context.Context) { GetObjectField(ctx, doc, "tags") }, "object", "array"},
		{func(ctx context.Context) { GetArrayField(ctx, doc, "expression") }, "array", "object"},
		{func(ctx context.Context) { GetStringField(ctx, doc, "small") }, "string", "int32"},
		{func(ctx context.Context) { GetNumberField(ctx, doc, "small") }, "double", "int32"},
		{func(ctx context.Context) { GetIntField(ctx, doc, "large") }, "int32", "int64"},
		{func(ctx context.Context) { GetLongField(ctx, doc, "small") }, "int64", "int32"},
		{func(ctx context.Context) { GetIntOrLongFieldAsLong(ctx, doc, "ratio") }, "int32 or int64", "double"},
		{func(ctx context.Context) { GetBoolField(ctx, doc, "name") }, "bool", "string"},
		{func(ctx context.Context) { GetStringSlice(ctx, doc, "name") }, "array", "string"},
	}

	for _, m := range mismatches {
		ctx, rec := testSetup(t)
		m.access(ctx)

		is.Equal(rec.count(), 1) // a type mismatch should be reported once
		is.Equal(rec.attr("expected"), m.expected)
		is.Equal(rec.attr("actual"), m.actual)
	}
}

func TestMatchingFieldsRoundTrip(t *testing.T) {
	is := is.New(t)
	ctx, rec := testSetup(t)
	doc := testDocument(t)

	is.Equal(GetIntField(ctx, doc, "small"), int32(7))
	is.Equal(GetLongField(ctx, doc, "large"), int64(1<<40))
	is.Equal(GetNumberField(ctx, doc, "ratio"), 0.25)
	is.Equal(GetBoolField(ctx, doc, "enabled"), true)
	is.Equal(GetStringField(ctx, GetObjectField(ctx, doc, "expression"), "q"), "temperature>20")

	values, err := GetArrayField(ctx, doc, "tags").Values()
	is.NoErr(err)
	is.Equal(len(values), 3)
	is.Equal(values[2].StringValue(), "z")

	is.Equal(rec.count(), 0) // nothing should be reported
}

func TestGetIntOrLongFieldAsLongWidensInt32(t *testing.T) {
	is := is.New(t)
	ctx, rec := testSetup(t)
	doc := testDocument(t)

	is.Equal(GetIntOrLongFieldAsLong(ctx, doc, "small"), int64(7))
	is.Equal(GetIntOrLongFieldAsLong(ctx, doc, "large"), int64(1<<40))
	is.Equal(rec.count(), 0)
}

func TestGetFieldDoesNotCheckType(t *testing.T) {
	is := is.New(t)
	ctx, rec := testSetup(t)

	v := GetField(ctx, testDocument(t), "_id")

	is.Equal(v.Type, bsontype.ObjectID)
	_, ok := v.ObjectIDOK()
	is.True(ok)
	is.Equal(rec.count(), 0)
}

func TestGetStringSlice(t *testing.T) {
	is := is.New(t)
	ctx, rec := testSetup(t)

	is.Equal(GetStringSlice(ctx, testDocument(t), "tags"), []string{"x", "y", "z"})
	is.Equal(rec.count(), 0)
}

func TestGetStringSliceWithNonStringMemberReturnsEmptySlice(t *testing.T) {
	is := is.New(t)
	ctx, rec := testSetup(t)

	tags := GetStringSlice(ctx, testDocument(t), "mixed")

	is.Equal(len(tags), 0) // partial results should be discarded
	is.Equal(rec.count(), 1)
	is.Equal(rec.attr("index"), "1")
	is.Equal(rec.attr("actual"), "int32")
}

func TestMalformedDocumentsAreReportedNotPanicked(t *testing.T) {
	is := is.New(t)

	for _, doc := range []bson.Raw{nil, {0x0a, 0x00}, {0xff, 0x00, 0x00, 0x00, 0x02, 'a'}} {
		ctx, rec := testSetup(t)

		is.Equal(GetStringField(ctx, doc, "name"), "")
		is.Equal(len(GetStringSlice(ctx, doc, "tags")), 0)
		is.Equal(rec.count(), 2) // one report per call
		is.True(strings.Contains(rec.last().Message, "malformed document"))
	}
}

func TestDiagnosticsIdentifyTheCallSite(t *testing.T) {
	is := is.New(t)
	ctx, rec := testSetup(t)

	GetStringField(ctx, testDocument(t), "nope")

	caller := rec.attr("caller")
	is.True(strings.Contains(caller, "TestDiagnosticsIdentifyTheCallSite"))
	is.True(strings.Contains(caller, "fields_test.go:"))
}
