package services

import (
	"context"
	"time"
)

// ExternalContact is one record pulled from a provider: an opaque key-value
// bag keyed by the provider's native field names, plus the provider-stable id
// and, when the provider supplies one, a last-modified timestamp.
type ExternalContact struct {
	ID        string
	Fields    map[string]string
	UpdatedAt *time.Time
}

// ContactSource abstracts one external contact store's paginated read and
// create-or-update write capability. Adapters own their credentials,
// pagination and transient-error retry; the reconciliation engine only sees
// this interface.
type ContactSource interface {
	// FetchContacts pages through the provider until it signals no more
	// pages or limit contacts have been collected.
	FetchContacts(ctx context.Context, limit int) ([]ExternalContact, error)

	// CreateOrUpdateContact performs provider-side matching (by email) to
	// decide between creating a new record and updating an existing one.
	// Fields are keyed by provider-native names.
	CreateOrUpdateContact(ctx context.Context, fields map[string]string) (map[string]string, error)
}
