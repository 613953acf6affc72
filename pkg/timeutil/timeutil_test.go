package timeutil

import "testing"

func TestResolvePickupInstantRoundTrip(t *testing.T) {
	instant, err := ResolvePickupInstant("January 1, 2024", "08:00", "123 Main St, New York, NY 10001")
	if err != nil {
		t.Fatalf("ResolvePickupInstant: %v", err)
	}
	if got := To24Hour(instant); got != "08:00" {
		t.Errorf("To24Hour = %q, want 08:00", got)
	}
	if instant.Location().String() != "America/New_York" {
		t.Errorf("location = %q, want America/New_York", instant.Location().String())
	}
}

func TestTo12Hour(t *testing.T) {
	instant, err := ResolvePickupInstant("June 1, 2024", "13:30", "1 Infinite Loop, Cupertino, CA 95014")
	if err != nil {
		t.Fatalf("ResolvePickupInstant: %v", err)
	}
	if got := To12Hour(instant); got != "01:30 PM" {
		t.Errorf("To12Hour = %q, want 01:30 PM", got)
	}
}

func TestTimezoneForAddressUnknownZip(t *testing.T) {
	if _, ok := TimezoneForAddress("somewhere with no zip at all"); ok {
		t.Error("expected lookup to fail for a non-numeric trailing token")
	}
}

func TestResolvePickupInstantUnresolvableAddress(t *testing.T) {
	_, err := ResolvePickupInstant("June 1, 2024", "09:00", "nowhere 00000")
	if err == nil {
		t.Error("expected an error for a ZIP code outside every known range")
	}
}
