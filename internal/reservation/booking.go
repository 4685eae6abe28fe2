// Package reservation holds the state of the four step booking wizard
// (booking info, room, confirmation, payment) kept in session storage.
package reservation

import (
	"encoding/json"
	"math"
	"strings"
	"time"
)

const (
	BookingKey   = "reservation.bookingInfo"
	RoomKey      = "reservation.selectedRoomId"
	ConfirmedKey = "reservation.confirmed"
	PaymentKey   = "reservation.paymentMeta"
)

const dateLayout = "2006-01-02"

// BookingInfo is the first wizard step. Field names match the stored JSON.
type BookingInfo struct {
	FirstName            string `json:"firstName" form:"firstName" validate:"required,max=100"`
	LastName             string `json:"lastName" form:"lastName" validate:"required,max=100"`
	Gender               string `json:"gender" form:"gender" validate:"required,is-gender"`
	PhoneNumber          string `json:"phoneNumber" form:"phoneNumber" validate:"required,max=32"`
	CountryCode          string `json:"countryCode" form:"countryCode"`
	TownCity             string `json:"townCity" form:"townCity" validate:"required"`
	Country              string `json:"country" form:"country" validate:"required"`
	Adults               string `json:"adults" form:"adults" validate:"required"`
	Children             string `json:"children" form:"children"`
	CheckIn              string `json:"checkIn" form:"checkIn" validate:"required,iso-date"`
	CheckOut             string `json:"checkOut" form:"checkOut" validate:"required,iso-date,date-gte=CheckIn"`
	NextOfKinName        string `json:"nextOfKinName" form:"nextOfKinName" validate:"required"`
	NextOfKinPhone       string `json:"nextOfKinPhone" form:"nextOfKinPhone" validate:"required"`
	NextOfKinCountryCode string `json:"nextOfKinCountryCode" form:"nextOfKinCountryCode"`
	NextOfKinTownCity    string `json:"nextOfKinTownCity" form:"nextOfKinTownCity" validate:"required"`
	NextOfKinCountry     string `json:"nextOfKinCountry" form:"nextOfKinCountry" validate:"required"`
	Remark               string `json:"remark" form:"remark" validate:"max=1000"`
}

// RequiredFields lists, in form order, the fields a booking cannot go without.
var RequiredFields = []string{
	"firstName", "lastName", "gender", "phoneNumber",
	"townCity", "country", "adults", "checkIn", "checkOut",
	"nextOfKinName", "nextOfKinPhone", "nextOfKinTownCity", "nextOfKinCountry",
}

// DefaultBookingInfo is what an empty form starts with.
func DefaultBookingInfo() BookingInfo {
	return BookingInfo{CountryCode: "+234", NextOfKinCountryCode: "+234"}
}

func (b BookingInfo) fields() map[string]string {
	return map[string]string{
		"firstName":         b.FirstName,
		"lastName":          b.LastName,
		"gender":            b.Gender,
		"phoneNumber":       b.PhoneNumber,
		"townCity":          b.TownCity,
		"country":           b.Country,
		"adults":            b.Adults,
		"checkIn":           b.CheckIn,
		"checkOut":          b.CheckOut,
		"nextOfKinName":     b.NextOfKinName,
		"nextOfKinPhone":    b.NextOfKinPhone,
		"nextOfKinTownCity": b.NextOfKinTownCity,
		"nextOfKinCountry":  b.NextOfKinCountry,
	}
}

// Normalize trims surrounding whitespace from every field.
func (b *BookingInfo) Normalize() {
	for _, f := range []*string{
		&b.FirstName, &b.LastName, &b.Gender, &b.PhoneNumber, &b.CountryCode,
		&b.TownCity, &b.Country, &b.Adults, &b.Children, &b.CheckIn, &b.CheckOut,
		&b.NextOfKinName, &b.NextOfKinPhone, &b.NextOfKinCountryCode,
		&b.NextOfKinTownCity, &b.NextOfKinCountry, &b.Remark,
	} {
		*f = strings.TrimSpace(*f)
	}
}

// Problems maps each failing required field to its message. Check-out dates
// are compared as strings, which orders ISO dates correctly.
func (b BookingInfo) Problems() map[string]string {
	problems := make(map[string]string)
	values := b.fields()
	for _, name := range RequiredFields {
		if strings.TrimSpace(values[name]) == "" {
			problems[name] = "Required"
		}
	}
	if _, missing := problems["checkOut"]; !missing && b.CheckIn != "" && b.CheckOut < b.CheckIn {
		problems["checkOut"] = "Must be after check in"
	}
	return problems
}

func (b BookingInfo) Complete() bool {
	return len(b.Problems()) == 0
}

func (b BookingInfo) FullName() string {
	return strings.TrimSpace(b.FirstName + " " + b.LastName)
}

// Nights counts the nights between check-in and check-out, rounding partial
// days up. Unparseable or inverted dates give 0.
func (b BookingInfo) Nights() int {
	in, err := time.Parse(dateLayout, b.CheckIn)
	if err != nil {
		return 0
	}
	out, err := time.Parse(dateLayout, b.CheckOut)
	if err != nil {
		return 0
	}
	d := out.Sub(in)
	if d <= 0 {
		return 0
	}
	return int(math.Ceil(d.Hours() / 24))
}

func decodeBooking(raw string) (BookingInfo, bool) {
	if strings.TrimSpace(raw) == "" {
		return BookingInfo{}, false
	}
	var info BookingInfo
	if err := json.Unmarshal([]byte(raw), &info); err != nil {
		return BookingInfo{}, false
	}
	return info, true
}
