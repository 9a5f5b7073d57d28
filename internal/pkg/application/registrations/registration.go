package registrations

import (
	"context"
	"fmt"

	"github.com/diwise/context-broker-mongo/pkg/mongodb/safe"
	"go.mongodb.org/mongo-driver/bson"
)

const Collection string = "registrations"

type Registration struct {
	ID          string
	Description string
	Status      string
	ServicePath string
	Format      string
	ForwardMode string
	Expiration  int64

	ContextRegistrations []ContextRegistration
}

type ContextRegistration struct {
	Entities             []EntityInfo
	Attributes           []Attribute
	ProvidingApplication string
}

type EntityInfo struct {
	ID        string
	Type      string
	IsPattern bool
}

type Attribute struct {
	Name string
	Type string
}

func FromBSON(ctx context.Context, doc bson.Raw) (Registration, error) {
	id, ok := safe.GetField(ctx, doc, "_id").ObjectIDOK()
	if !ok {
		return Registration{}, fmt.Errorf("registration document without a valid _id")
	}

	r := Registration{
		ID:          id.Hex(),
		ServicePath: safe.GetStringField(ctx, doc, "servicePath"),
		Expiration:  safe.GetIntOrLongFieldAsLong(ctx, doc, "expiration"),
		Description: optionalString(ctx, doc, "description"),
		Status:      optionalString(ctx, doc, "status"),
		Format:      optionalString(ctx, doc, "format"),
		ForwardMode: optionalString(ctx, doc, "fwdMode"),
	}

	if r.Format == "" {
		r.Format = "JSON"
	}

	if r.ForwardMode == "" {
		r.ForwardMode = "all"
	}

	values, err := safe.GetArrayField(ctx, doc, "contextRegistration").Values()
	if err != nil {
		return Registration{}, fmt.Errorf("unreadable contextRegistration in registration %s: %w", r.ID, err)
	}

	r.ContextRegistrations = make([]ContextRegistration, 0, len(values))

	for _, v := range values {
		cr, ok := v.DocumentOK()
		if !ok {
			continue
		}

		r.ContextRegistrations = append(r.ContextRegistrations, ContextRegistration{
			Entities:             entitiesFromBSON(ctx, cr),
			Attributes:           attributesFromBSON(ctx, cr),
			ProvidingApplication: safe.GetStringField(ctx, cr, "providingApplication"),
		})
	}

	return r, nil
}

func entitiesFromBSON(ctx context.Context, cr bson.Raw) []EntityInfo {
	values, err := safe.GetArrayField(ctx, cr, "entities").Values()
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

func attributesFromBSON(ctx context.Context, cr bson.Raw) []Attribute {
	if !safe.HasField(cr, "attrs") {
		return []Attribute{}
	}

	values, err := safe.GetArrayField(ctx, cr, "attrs").Values()
	if err != nil {
		return []Attribute{}
	}

	attributes := make([]Attribute, 0, len(values))

	for _, v := range values {
		a, ok := v.DocumentOK()
		if !ok {
			continue
		}

		attributes = append(attributes, Attribute{
			Name: safe.GetStringField(ctx, a, "name"),
			Type: optionalString(ctx, a, "type"),
		})
	}

	return attributes
}

func optionalString(ctx context.Context, doc bson.Raw, field string) string {
	if !safe.HasField(doc, field) {
		return ""
	}
	return safe.GetStringField(ctx, doc, field)
}
