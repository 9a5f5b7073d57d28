package types

// SubscriptionID is the identifier of a subscription as supplied by a client.
// It is not known to be well formed until it has been parsed.
type SubscriptionID string

// RegistrationID is the identifier of a context source registration as
// supplied by a client.
type RegistrationID string
