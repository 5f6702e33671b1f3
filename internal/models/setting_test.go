package models

import (
	"testing"
	"time"

	"gorm.io/datatypes"
)

func clock(hour, minute int) time.Time {
	return time.Date(2025, time.November, 17, hour, minute, 0, 0, time.UTC)
}

func TestQuietHoursCovers(t *testing.T) {
	cases := []struct {
		name   string
		window QuietHours
		at     time.Time
		want   bool
	}{
		{"inside plain window", QuietHours{Start: "08:00", End: "12:00"}, clock(10, 30), true},
		{"start is inclusive", QuietHours{Start: "08:00", End: "12:00"}, clock(8, 0), true},
		{"end is exclusive", QuietHours{Start: "08:00", End: "12:00"}, clock(12, 0), false},
		{"before plain window", QuietHours{Start: "08:00", End: "12:00"}, clock(7, 59), false},
		{"wrapped evening side", QuietHours{Start: "22:00", End: "07:00"}, clock(23, 15), true},
		{"wrapped morning side", QuietHours{Start: "22:00", End: "07:00"}, clock(6, 59), true},
		{"wrapped midday gap", QuietHours{Start: "22:00", End: "07:00"}, clock(12, 0), false},
		{"equal bounds cover nothing", QuietHours{Start: "09:00", End: "09:00"}, clock(9, 0), false},
		{"malformed start", QuietHours{Start: "2pm", End: "07:00"}, clock(3, 0), false},
	}
	for _, tc := range cases {
		if got := tc.window.Covers(tc.at); got != tc.want {
			t.Errorf("%s: Covers(%s)=%v, want %v", tc.name, tc.at.Format("15:04"), got, tc.want)
		}
	}
}

func TestQuietHoursValidate(t *testing.T) {
	if err := (QuietHours{Start: "22:00", End: "07:00"}).Validate(); err != nil {
		t.Errorf("valid window rejected: %v", err)
	}
	invalid := []QuietHours{
		{Start: "25:00", End: "07:00"},
		{Start: "22:00", End: "07:99"},
		{Start: "2pm", End: "07:00"},
		{Start: "", End: "07:00"},
	}
	for _, w := range invalid {
		if err := w.Validate(); err == nil {
			t.Errorf("expected error for window %+v", w)
		}
	}
}

func TestDefaultReminderSetting(t *testing.T) {
	s := DefaultReminderSetting("acc-1")
	if !s.EmailEnabled || s.EmailDaysBefore != DefaultEmailDaysBefore {
		t.Errorf("unexpected email defaults: %+v", s)
	}
	if s.WhatsappEnabled || s.WhatsappDaysBefore != DefaultWhatsappDaysBefore {
		t.Errorf("unexpected whatsapp defaults: %+v", s)
	}
	if s.Window() != nil {
		t.Errorf("defaults must carry no quiet hours")
	}

	if !s.ChannelEnabled(ChannelEmail) || s.ChannelEnabled(ChannelWhatsapp) {
		t.Errorf("channel accessors disagree with defaults")
	}
	if s.LeadDays(ChannelEmail) != DefaultEmailDaysBefore || s.LeadDays(ChannelWhatsapp) != DefaultWhatsappDaysBefore {
		t.Errorf("lead day accessors disagree with defaults")
	}
}

func TestWindowIgnoresUnparseableJSON(t *testing.T) {
	s := ReminderSetting{QuietHours: datatypes.JSON(`not json`)}
	if s.Window() != nil {
		t.Errorf("unparseable quiet hours must read as no window")
	}
	s.QuietHours = datatypes.JSON(`{"start":"","end":""}`)
	if s.Window() != nil {
		t.Errorf("empty bounds must read as no window")
	}
	s.QuietHours = datatypes.JSON(`{"start":"22:00","end":"07:00"}`)
	w := s.Window()
	if w == nil || w.Start != "22:00" || w.End != "07:00" {
		t.Errorf("expected parsed window, got %+v", w)
	}
}

func TestDocumentTypeLabel(t *testing.T) {
	cases := map[DocumentType]string{
		DocumentInsurance:  "insurance policy",
		DocumentInspection: "vehicle inspection",
		DocumentLicensing:  "vehicle licensing",
	}
	for typ, want := range cases {
		if got := typ.Label(); got != want {
			t.Errorf("%s: expected %q got %q", typ, want, got)
		}
	}
}
