package storeapi

import (
	"context"
	"fmt"
	"time"
)

// SettingsSection names an editable group of store settings. The admin UI
// edits one section at a time; updating a section must never clobber fields
// belonging to another section.
type SettingsSection string

const (
	SectionGeneral       SettingsSection = "general"
	SectionNotifications SettingsSection = "notifications"
	SectionSecurity      SettingsSection = "security"
)

// StoreSettings is the flat store configuration record.
type StoreSettings struct {
	// General section.
	StoreName        string `json:"store_name"`
	StoreDescription string `json:"store_description"`
	StoreEmail       string `json:"store_email"`
	StorePhone       string `json:"store_phone"`
	Currency         string `json:"currency"`
	Timezone         string `json:"timezone"`

	// Notifications section.
	EmailNotifications bool `json:"email_notifications"`
	OrderNotifications bool `json:"order_notifications"`
	InventoryAlerts    bool `json:"inventory_alerts"`

	// Security section.
	MaintenanceMode          bool `json:"maintenance_mode"`
	AllowGuestCheckout       bool `json:"allow_guest_checkout"`
	RequireEmailVerification bool `json:"require_email_verification"`

	CreatedAt time.Time `json:"created_at,omitzero"`
	UpdatedAt time.Time `json:"updated_at,omitzero"`
}

// MergeSection copies only the fields belonging to the given section from
// updated into current and returns the result. Fields outside the section
// keep their current values, so a partial-section response can never clobber
// the rest of the record.
func MergeSection(current, updated StoreSettings, section SettingsSection) StoreSettings {
	out := current
	switch section {
	case SectionGeneral:
		out.StoreName = updated.StoreName
		out.StoreDescription = updated.StoreDescription
		out.StoreEmail = updated.StoreEmail
		out.StorePhone = updated.StorePhone
		out.Currency = updated.Currency
		out.Timezone = updated.Timezone
	case SectionNotifications:
		out.EmailNotifications = updated.EmailNotifications
		out.OrderNotifications = updated.OrderNotifications
		out.InventoryAlerts = updated.InventoryAlerts
	case SectionSecurity:
		out.MaintenanceMode = updated.MaintenanceMode
		out.AllowGuestCheckout = updated.AllowGuestCheckout
		out.RequireEmailVerification = updated.RequireEmailVerification
	}
	if !updated.UpdatedAt.IsZero() {
		out.UpdatedAt = updated.UpdatedAt
	}
	return out
}

// ValidSection reports whether s names a known settings section.
func ValidSection(s SettingsSection) bool {
	switch s {
	case SectionGeneral, SectionNotifications, SectionSecurity:
		return true
	}
	return false
}

// GetStoreSettings fetches the current store settings. Admin only.
func (c *Client) GetStoreSettings(ctx context.Context) (*StoreSettings, error) {
	var s StoreSettings
	if err := c.get(ctx, "/admin/settings/", nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateStoreSettings replaces the full settings record. Admin only.
func (c *Client) UpdateStoreSettings(ctx context.Context, in StoreSettings) (*StoreSettings, error) {
	var s StoreSettings
	if err := c.put(ctx, "/admin/settings/", in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// UpdateSettingsSection updates one named section. The backend validates and
// applies only the fields belonging to the section; the response carries the
// section's new values.
func (c *Client) UpdateSettingsSection(ctx context.Context, section SettingsSection, in StoreSettings) (*StoreSettings, error) {
	if !ValidSection(section) {
		return nil, fmt.Errorf("unknown settings section %q", section)
	}
	var s StoreSettings
	if err := c.patch(ctx, "/admin/settings/"+string(section)+"/", in, &s); err != nil {
		return nil, err
	}
	return &s, nil
}
