package types

// EntityInfo selects entities either by exact id or by an id pattern
type EntityInfo struct {
	ID        string `json:"id,omitempty"`
	IDPattern string `json:"idPattern,omitempty"`
	Type      string `json:"type,omitempty"`
}

type Endpoint struct {
	URI    string `json:"uri"`
	Accept string `json:"accept"`
}

type NotificationParams struct {
	Attributes       []string `json:"attributes,omitempty"`
	Format           string   `json:"format"`
	Endpoint         Endpoint `json:"endpoint"`
	LastNotification string   `json:"lastNotification,omitempty"`
	TimesSent        int64    `json:"timesSent,omitempty"`
}

type Subscription struct {
	ID                string             `json:"id"`
	Type              string             `json:"type"`
	Description       string             `json:"description,omitempty"`
	Entities          []EntityInfo       `json:"entities,omitempty"`
	WatchedAttributes []string           `json:"watchedAttributes,omitempty"`
	Q                 string             `json:"q,omitempty"`
	Notification      NotificationParams `json:"notification"`
	ExpiresAt         string             `json:"expiresAt,omitempty"`
	Throttling        float64            `json:"throttling,omitempty"`
	Status            string             `json:"status"`
	IsActive          bool               `json:"isActive"`
}
