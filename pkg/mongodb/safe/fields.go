package safe

import (
	"context"
	"errors"
	"fmt"

	"github.com/diwise/service-chassis/pkg/infrastructure/o11y/logging"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/bsontype"
	"go.mongodb.org/mongo-driver/x/bsonx/bsoncore"
)

// accessor is the single lookup, presence check, type check and extract
// algorithm shared by every typed getter in this package.
type accessor[T any] struct {
	kind     string
	accepts  []bsontype.Type
	sentinel func() T
	extract  func(bson.RawValue) (T, bool)
}

var objectField = accessor[bson.Raw]{
	kind:     "object",
	accepts:  []bsontype.Type{bsontype.EmbeddedDocument},
	sentinel: emptyDocument,
	extract:  bson.RawValue.DocumentOK,
}

var arrayField = accessor[bson.Raw]{
	kind:     "array",
	accepts:  []bsontype.Type{bsontype.Array},
	sentinel: emptyDocument,
	extract:  bson.RawValue.ArrayOK,
}

var stringField = accessor[string]{
	kind:     "string",
	accepts:  []bsontype.Type{bsontype.String},
	sentinel: func() string { return "" },
	extract:  bson.RawValue.StringValueOK,
}

var numberField = accessor[float64]{
	kind:     "double",
	accepts:  []bsontype.Type{bsontype.Double},
	sentinel: func() float64 { return -1 },
	extract:  bson.RawValue.DoubleOK,
}

var intField = accessor[int32]{
	kind:     "int32",
	accepts:  []bsontype.Type{bsontype.Int32},
	sentinel: func() int32 { return -1 },
	extract:  bson.RawValue.Int32OK,
}

var longField = accessor[int64]{
	kind:     "int64",
	accepts:  []bsontype.Type{bsontype.Int64},
	sentinel: func() int64 { return -1 },
	extract:  bson.RawValue.Int64OK,
}

var intOrLongField = accessor[int64]{
	kind:     "int32 or int64",
	accepts:  []bsontype.Type{bsontype.Int64, bsontype.Int32},
	sentinel: func() int64 { return -1 },
	extract: func(v bson.RawValue) (int64, bool) {
		if v.Type == bsontype.Int32 {
			i, ok := v.Int32OK()
			return int64(i), ok
		}
		return v.Int64OK()
	},
}

var boolField = accessor[bool]{
	kind:     "bool",
	accepts:  []bsontype.Type{bsontype.Boolean},
	sentinel: func() bool { return false },
	extract:  bson.RawValue.BooleanOK,
}

// GetObjectField returns the embedded document stored in field, or an empty document.
func GetObjectField(ctx context.Context, doc bson.Raw, field string) bson.Raw {
	return objectField.get(ctx, doc, field, callerAt(1))
}

// GetArrayField returns the array stored in field, or an empty array.
// The members of the returned value can be enumerated with bson.Raw.Values.
func GetArrayField(ctx context.Context, doc bson.Raw, field string) bson.Raw {
	return arrayField.get(ctx, doc, field, callerAt(1))
}

// GetStringField returns the string stored in field, or "".
func GetStringField(ctx context.Context, doc bson.Raw, field string) string {
	return stringField.get(ctx, doc, field, callerAt(1))
}

// GetNumberField returns the double stored in field, or -1.
func GetNumberField(ctx context.Context, doc bson.Raw, field string) float64 {
	return numberField.get(ctx, doc, field, callerAt(1))
}

// GetIntField returns the 32 bit integer stored in field, or -1.
func GetIntField(ctx context.Context, doc bson.Raw, field string) int32 {
	return intField.get(ctx, doc, field, callerAt(1))
}

// GetLongField returns the 64 bit integer stored in field, or -1.
func GetLongField(ctx context.Context, doc bson.Raw, field string) int64 {
	return longField.get(ctx, doc, field, callerAt(1))
}

// GetIntOrLongFieldAsLong accepts a field stored with either integer width
// and returns it widened to int64, or -1 if it is neither.
func GetIntOrLongFieldAsLong(ctx context.Context, doc bson.Raw, field string) int64 {
	return intOrLongField.get(ctx, doc, field, callerAt(1))
}

// GetBoolField returns the boolean stored in field, or false.
func GetBoolField(ctx context.Context, doc bson.Raw, field string) bool {
	return boolField.get(ctx, doc, field, callerAt(1))
}

// GetField returns the raw element stored in field without checking its type.
// Only a missing field is reported, in which case the zero RawValue is returned.
func GetField(ctx context.Context, doc bson.Raw, field string) (value bson.RawValue) {
	c := callerAt(1)
	defer recoverMalformed(ctx, field, c, &value, bson.RawValue{})

	value, _ = lookup(ctx, doc, field, "element", c)
	return value
}

// HasField reports whether field is present in doc. It never logs, which
// makes it suitable for probing optional fields before reading them.
func HasField(doc bson.Raw, field string) (found bool) {
	defer func() {
		if recover() != nil {
			found = false
		}
	}()

	_, err := doc.LookupErr(field)
	return err == nil
}

// GetStringSlice decodes an array of strings stored in field. If the field is
// not an array, or any member is not a string, the failure is reported and an
// empty slice is returned. Partial results are never returned.
func GetStringSlice(ctx context.Context, doc bson.Raw, field string) (result []string) {
	c := callerAt(1)
	defer recoverMalformed(ctx, field, c, &result, []string{})

	arr := arrayField.get(ctx, doc, field, c)

	values, err := arr.Values()
	if err != nil {
		reportMalformed(ctx, field, c, err)
		return []string{}
	}

	result = make([]string, 0, len(values))

	for idx, v := range values {
		s, ok := v.StringValueOK()
		if !ok {
			logging.GetFromContext(ctx).Error(
				"runtime error: unexpected array element type",
				"field", field, "index", idx,
				"expected", "string", "actual", typeName(v.Type),
				"caller", c.String(),
			)
			return []string{}
		}
		result = append(result, s)
	}

	return result
}

func (a accessor[T]) get(ctx context.Context, doc bson.Raw, field string, c Caller) (result T) {
	defer recoverMalformed(ctx, field, c, &result, a.sentinel())

	v, found := lookup(ctx, doc, field, a.kind, c)
	if !found {
		return a.sentinel()
	}

	for _, t := range a.accepts {
		if v.Type != t {
			continue
		}

		value, ok := a.extract(v)
		if !ok {
			reportMalformed(ctx, field, c, fmt.Errorf("unable to read %s value", a.kind))
			return a.sentinel()
		}

		return value
	}

	logging.GetFromContext(ctx).Error(
		"runtime error: unexpected field type",
		"field", field, "expected", a.kind, "actual", typeName(v.Type),
		"document", describe(doc), "caller", c.String(),
	)

	return a.sentinel()
}

// lookup finds field in doc and reports, exactly once, why it could not.
func lookup(ctx context.Context, doc bson.Raw, field, kind string, c Caller) (bson.RawValue, bool) {
	v, err := doc.LookupErr(field)
	if err == nil {
		return v, true
	}

	if errors.Is(err, bsoncore.ErrElementNotFound) {
		logging.GetFromContext(ctx).Error(
			"runtime error: field is missing",
			"kind", kind, "field", field,
			"document", describe(doc), "caller", c.String(),
		)
	} else {
		reportMalformed(ctx, field, c, err)
	}

	return bson.RawValue{}, false
}

func reportMalformed(ctx context.Context, field string, c Caller, err error) {
	logging.GetFromContext(ctx).Error(
		"runtime error: malformed document",
		"field", field, "err", describeFault(err), "caller", c.String(),
	)
}

// recoverMalformed must be deferred directly. It turns a panic raised while
// reading a document into a malformed document report and a sentinel result.
func recoverMalformed[T any](ctx context.Context, field string, c Caller, result *T, sentinel T) {
	if r := recover(); r != nil {
		reportMalformed(ctx, field, c, faultError(r))
		*result = sentinel
	}
}

func describe(doc bson.Raw) (s string) {
	defer func() {
		if recover() != nil {
			s = "<unprintable>"
		}
	}()

	if err := doc.Validate(); err != nil {
		return "<invalid>"
	}

	return doc.String()
}

func emptyDocument() bson.Raw {
	return bson.Raw{0x05, 0x00, 0x00, 0x00, 0x00}
}

func typeName(t bsontype.Type) string {
	switch t {
	case bsontype.String:
		return "string"
	case bsontype.Int32:
		return "int32"
	case bsontype.Int64:
		return "int64"
	case bsontype.Double:
		return "double"
	case bsontype.Boolean:
		return "bool"
	case bsontype.EmbeddedDocument:
		return "object"
	case bsontype.Array:
		return "array"
	}

	return t.String()
}
