package subscriptions

import (
	"context"
	"fmt"

	"github.com/diwise/context-broker-mongo/pkg/mongodb/safe"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Collection holds one document per subscription
const Collection string = "csubs"

// Permanent is the expiration stored for subscriptions that never expire
const Permanent int64 = 9223372036854775807

type Subscription struct {
	ID          string
	Description string
	Status      string
	ServicePath string

	Reference string
	Format    string
	Custom    bool

	Entities    []EntityInfo
	Attributes  []string
	Conditions  []string
	Expression  *Expression
	OnlyChanged bool

	Expiration       int64
	Throttling       float64
	MaxFailsLimit    int32
	LastNotification int64
	Count            int64
}

func (s Subscription) Expires() bool {
	return s.Expiration > 0 && s.Expiration != Permanent
}

type EntityInfo struct {
	ID        string
	Type      string
	IsPattern bool
}

type Expression struct {
	Q        string
	GeoRel   string
	Geometry string
	Coords   string
}

// FromBSON converts a stored subscription. Only a missing or invalid _id makes
// the document unusable, every other field falls back to its zero value.
func FromBSON(ctx context.Context, doc bson.Raw) (Subscription, error) {
	id, ok := safe.GetField(ctx, doc, "_id").ObjectIDOK()
	if !ok {
		return Subscription{}, fmt.Errorf("subscription document without a valid _id")
	}

	s := Subscription{
		ID:          id.Hex(),
		Reference:   safe.GetStringField(ctx, doc, "reference"),
		ServicePath: safe.GetStringField(ctx, doc, "servicePath"),
		Expiration:  safe.GetIntOrLongFieldAsLong(ctx, doc, "expiration"),
		Entities:    entitiesFromBSON(ctx, doc),
		Attributes:  safe.GetStringSlice(ctx, doc, "attrs"),
		Conditions:  safe.GetStringSlice(ctx, doc, "conditions"),
	}

	if safe.HasField(doc, "description") {
		s.Description = safe.GetStringField(ctx, doc, "description")
	}

	s.Status = "active"
	if safe.HasField(doc, "status") {
		s.Status = safe.GetStringField(ctx, doc, "status")
	}

	s.Format = "normalized"
	if safe.HasField(doc, "format") {
		s.Format = safe.GetStringField(ctx, doc, "format")
	}

	if safe.HasField(doc, "custom") {
		s.Custom = safe.GetBoolField(ctx, doc, "custom")
	}

	if safe.HasField(doc, "onlyChanged") {
		s.OnlyChanged = safe.GetBoolField(ctx, doc, "onlyChanged")
	}

	if safe.HasField(doc, "throttling") {
		s.Throttling = safe.GetNumberField(ctx, doc, "throttling")
	}

	if safe.HasField(doc, "maxFailsLimit") {
		s.MaxFailsLimit = safe.GetIntField(ctx, doc, "maxFailsLimit")
	}

	if safe.HasField(doc, "lastNotification") {
		s.LastNotification = safe.GetLongField(ctx, doc, "lastNotification")
	}

	if safe.HasField(doc, "count") {
		s.Count = safe.GetLongField(ctx, doc, "count")
	}

	if safe.HasField(doc, "expression") {
		expr := safe.GetObjectField(ctx, doc, "expression")
		s.Expression = &Expression{
			Q:        optionalString(ctx, expr, "q"),
			GeoRel:   optionalString(ctx, expr, "georel"),
			Geometry: optionalString(ctx, expr, "geometry"),
			Coords:   optionalString(ctx, expr, "coords"),
		}
	}

	return s, nil
}

func entitiesFromBSON(ctx context.Context, doc bson.Raw) []EntityInfo {
	values, err := safe.GetArrayField(ctx, doc, "entities").Values()
	if err != nil {
		return []EntityInfo{}
	}

	entities := make([]EntityInfo, 0, len(values))

	for _, v := range values {
		e, ok := v.DocumentOK()
		if !ok {
			continue
		}

		entities = append(entities, EntityInfo{
			ID:        safe.GetStringField(ctx, e, "id"),
			Type:      optionalString(ctx, e, "type"),
			IsPattern: optionalString(ctx, e, "isPattern") == "true",
		})
	}

	return entities
}

func optionalString(ctx context.Context, doc bson.Raw, field string) string {
	if !safe.HasField(doc, field) {
		return ""
	}
	return safe.GetStringField(ctx, doc, field)
}

func objectID(id primitive.ObjectID) bson.D {
	return bson.D{{Key: "_id", Value: id}}
}
