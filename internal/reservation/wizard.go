package reservation

import (
	"encoding/json"
	"strings"

	"accommodation_portal/internal/apiclient"
)

type Stage string

const (
	StageBooking      Stage = "booking"
	StageRoom         Stage = "room"
	StageConfirmation Stage = "confirmation"
	StagePayment      Stage = "payment"
)

const (
	BookingPath      = "/reservations/booking-info"
	RoomPath         = "/reservations/choose-room"
	ConfirmationPath = "/reservations/confirmation"
	PaymentPath      = "/reservations/payment"
)

// Step is one entry of the wizard progress bar.
type Step struct {
	ID        Stage
	Name      string
	Path      string
	Active    bool
	Completed bool
}

var stages = []Step{
	{ID: StageBooking, Name: "Booking Info", Path: BookingPath},
	{ID: StageRoom, Name: "Choose Room", Path: RoomPath},
	{ID: StageConfirmation, Name: "Confirmation", Path: ConfirmationPath},
	{ID: StagePayment, Name: "Payment", Path: PaymentPath},
}

// Steps renders the progress bar with current active and earlier steps completed.
func Steps(current Stage) []Step {
	out := make([]Step, len(stages))
	reached := false
	for i, s := range stages {
		s.Active = s.ID == current
		if s.Active {
			reached = true
		}
		s.Completed = !reached
		out[i] = s
	}
	return out
}

func LoadBooking(storage apiclient.Storage) (BookingInfo, bool) {
	raw, _ := storage.GetItem(BookingKey)
	return decodeBooking(raw)
}

// HasBooking reports whether stored booking info passes every required field check.
func HasBooking(storage apiclient.Storage) bool {
	info, ok := LoadBooking(storage)
	return ok && info.Complete()
}

func HasRoom(storage apiclient.Storage) bool {
	room, _ := storage.GetItem(RoomKey)
	return strings.TrimSpace(room) != ""
}

func HasConfirmation(storage apiclient.Storage) bool {
	confirmed, _ := storage.GetItem(ConfirmedKey)
	return confirmed == "1"
}

// FirstIncomplete returns the path of the earliest unfinished step, or "" when
// the wizard is ready for payment.
func FirstIncomplete(storage apiclient.Storage) string {
	switch {
	case !HasBooking(storage):
		return BookingPath
	case !HasRoom(storage):
		return RoomPath
	case !HasConfirmation(storage):
		return ConfirmationPath
	}
	return ""
}

// Guard decides whether stage may be shown. When it may not, redirect names
// the first incomplete step.
func Guard(storage apiclient.Storage, stage Stage) (redirect string, ok bool) {
	var allowed bool
	switch stage {
	case StageRoom:
		allowed = HasBooking(storage)
	case StageConfirmation:
		allowed = HasBooking(storage) && HasRoom(storage)
	case StagePayment:
		allowed = HasBooking(storage) && HasRoom(storage) && HasConfirmation(storage)
	default:
		allowed = true
	}
	if allowed {
		return "", true
	}
	return FirstIncomplete(storage), false
}

// SaveBookingInfo stores info as entered, complete or not, so the form can be resumed.
func SaveBookingInfo(storage apiclient.Storage, info BookingInfo) error {
	raw, err := json.Marshal(info)
	if err != nil {
		return err
	}
	storage.SetItem(BookingKey, string(raw))
	return nil
}

func SelectRoom(storage apiclient.Storage, roomCode string) {
	storage.SetItem(RoomKey, strings.TrimSpace(roomCode))
}

func SelectedRoom(storage apiclient.Storage) string {
	room, _ := storage.GetItem(RoomKey)
	return room
}

func Confirm(storage apiclient.Storage) {
	storage.SetItem(ConfirmedKey, "1")
}

// Unconfirm drops the confirmation and any payment made for it, so a changed
// booking has to be confirmed and paid again.
func Unconfirm(storage apiclient.Storage) {
	storage.RemoveItem(ConfirmedKey)
	storage.RemoveItem(PaymentKey)
}

// Reset forgets every wizard key.
func Reset(storage apiclient.Storage) {
	for _, key := range []string{BookingKey, RoomKey, ConfirmedKey, PaymentKey} {
		storage.RemoveItem(key)
	}
}
