package storeapi

import "testing"

func baseSettings() StoreSettings {
	return StoreSettings{
		StoreName:          "Meridian",
		StoreEmail:         "shop@meridian.example",
		Currency:           "USD",
		EmailNotifications: true,
		OrderNotifications: true,
		MaintenanceMode:    false,
		AllowGuestCheckout: true,
	}
}

func TestMergeSectionKeepsOtherSections(t *testing.T) {
	current := baseSettings()
	updated := StoreSettings{
		// Notification fields changed; the response also carries zero
		// values for every other section.
		EmailNotifications: false,
		OrderNotifications: true,
		InventoryAlerts:    true,
	}

	merged := MergeSection(current, updated, SectionNotifications)

	if merged.EmailNotifications {
		t.Error("notifications section should be taken from the update")
	}
	if !merged.InventoryAlerts {
		t.Error("notifications section should be taken from the update")
	}
	if merged.StoreName != "Meridian" || merged.Currency != "USD" {
		t.Error("general section must keep its current values")
	}
	if !merged.AllowGuestCheckout {
		t.Error("security section must keep its current values")
	}
}

func TestMergeSectionGeneral(t *testing.T) {
	current := baseSettings()
	updated := StoreSettings{StoreName: "Meridian EU", Currency: "EUR"}

	merged := MergeSection(current, updated, SectionGeneral)

	if merged.StoreName != "Meridian EU" || merged.Currency != "EUR" {
		t.Error("general fields should be taken from the update")
	}
	if !merged.EmailNotifications {
		t.Error("notification fields must keep their current values")
	}
}

func TestValidSection(t *testing.T) {
	for _, s := range []SettingsSection{SectionGeneral, SectionNotifications, SectionSecurity} {
		if !ValidSection(s) {
			t.Errorf("%s should be valid", s)
		}
	}
	if ValidSection("shipping") {
		t.Error("unknown section should be invalid")
	}
}
