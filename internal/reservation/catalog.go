package reservation

import (
	"math"
	"strconv"
)

// Room is one bookable suite of the guest house.
type Room struct {
	ID          int
	Type        string
	Price       int
	Capacity    int
	Period      string
	Images      []string
	Description string
	Amenities   []string
}

func (r Room) Code() string {
	return strconv.Itoa(r.ID)
}

var catalog = []Room{
	{ID: 101, Type: "Standard Suite", Price: 6000, Capacity: 2, Period: "/Night",
		Images:      []string{"/assets/images/101a.jpeg", "/assets/images/101b.jpeg", "/assets/images/101c.jpeg", "/assets/images/101d.jpeg"},
		Description: "A simple, serene room designed for personal reflection and rest.",
		Amenities:   []string{"Free WiFi", "Restaurant", "Swimming Pool", "Laundry", "Easy Checkout"}},
	{ID: 201, Type: "Executive Suite", Price: 15000, Capacity: 3, Period: "/Night",
		Images:      []string{"/assets/images/201a.jpeg", "/assets/images/201b.jpeg", "/assets/images/201c.jpeg", "/assets/images/201d.jpeg"},
		Description: "Spacious suite with executive workspace and premium finish.",
		Amenities:   []string{"Free WiFi", "Restaurant", "Laundry", "Easy Checkout"}},
	{ID: 301, Type: "Exquisite Suite", Price: 25000, Capacity: 5, Period: "/Night",
		Images:      []string{"/assets/images/301a.jpg", "/assets/images/301b.jpg", "/assets/images/301c.jpg"},
		Description: "Luxury suite featuring elegant decor and lounge area.",
		Amenities:   []string{"Free WiFi", "Restaurant", "Swimming Pool", "Laundry", "Easy Checkout"}},
	{ID: 102, Type: "Standard Suite", Price: 6000, Capacity: 2, Period: "/Night",
		Images:      []string{"/assets/images/102a.jpg", "/assets/images/102b.jpeg", "/assets/images/102c.jpg", "/assets/images/102d.jpg"},
		Description: "Comfort-focused standard suite.",
		Amenities:   []string{"Free WiFi", "Laundry", "Easy Checkout"}},
	{ID: 202, Type: "Executive Suite", Price: 15000, Capacity: 3, Period: "/Night",
		Images:      []string{"/assets/images/202a.jpg", "/assets/images/202b.jpg", "/assets/images/202c.jpeg", "/assets/images/202d.jpg"},
		Description: "Executive comfort and style.",
		Amenities:   []string{"Free WiFi", "Restaurant", "Laundry"}},
	{ID: 302, Type: "Exquisite Suite", Price: 25000, Capacity: 5, Period: "/Night",
		Images:      []string{"/assets/images/302a.jpg", "/assets/images/302b.jpg", "/assets/images/302c.jpg", "/assets/images/302d.jpg"},
		Description: "Premium comfort and luxury.",
		Amenities:   []string{"Restaurant", "Swimming Pool", "Laundry"}},
	{ID: 103, Type: "Standard Suite", Price: 6000, Capacity: 2, Period: "/Night",
		Images:      []string{"/assets/images/103a.jpg", "/assets/images/103b.jpeg", "/assets/images/103c.jpeg", "/assets/images/103d.jpeg"},
		Description: "Serene, minimal, and comfortable.",
		Amenities:   []string{"Free WiFi", "Easy Checkout"}},
	{ID: 203, Type: "Executive Suite", Price: 15000, Capacity: 3, Period: "/Night",
		Images:      []string{"/assets/images/203a.jpg", "/assets/images/203b.jpeg", "/assets/images/203c.jpeg", "/assets/images/203d.jpeg"},
		Description: "Executive suite with workspace.",
		Amenities:   []string{"Free WiFi", "Restaurant"}},
	{ID: 303, Type: "Exquisite Suite", Price: 25000, Capacity: 5, Period: "/Night",
		Images:      []string{"/assets/images/303a.jpg", "/assets/images/303b.jpg", "/assets/images/303c.jpg", "/assets/images/303d.jpg"},
		Description: "Top-tier suite for distinguished guests.",
		Amenities:   []string{"Restaurant", "Swimming Pool", "Laundry"}},
}

// Rooms returns a copy of the catalog in display order.
func Rooms() []Room {
	out := make([]Room, len(catalog))
	copy(out, catalog)
	return out
}

func FindRoom(code string) (Room, bool) {
	for _, r := range catalog {
		if r.Code() == code {
			return r, true
		}
	}
	return Room{}, false
}

// SimilarRooms lists the other rooms of the same type, at most limit of them
// when limit is positive.
func SimilarRooms(room Room, limit int) []Room {
	var out []Room
	for _, r := range catalog {
		if r.Type == room.Type && r.ID != room.ID {
			out = append(out, r)
		}
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

const (
	fallbackNights = 5
	fallbackRate   = 10000
	vatRate        = 0.05
)

// Quote is the price breakdown shown on the payment step.
type Quote struct {
	Nights      int
	NightlyRate int
	Subtotal    int
	VAT         int
	Total       int
}

func NewQuote(info BookingInfo, roomCode string) Quote {
	nights := info.Nights()
	if nights == 0 {
		nights = fallbackNights
	}
	rate := fallbackRate
	if room, ok := FindRoom(roomCode); ok {
		rate = room.Price
	}
	subtotal := nights * rate
	vat := int(math.Round(float64(subtotal) * vatRate))
	return Quote{
		Nights:      nights,
		NightlyRate: rate,
		Subtotal:    subtotal,
		VAT:         vat,
		Total:       subtotal + vat,
	}
}
