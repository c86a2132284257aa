package backend

// Booking statuses as reported by the backend. Transitions are one-directional
// and backend-driven; the front-end only ever flips active to cancelled after a
// confirmed cancel.
const (
	StatusActive    = "active"
	StatusCompleted = "completed"
	StatusCancelled = "cancelled"
)

// Credentials is the record returned by a successful login.
type Credentials struct {
	Token     string `json:"token"`
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Role      string `json:"role"`
}

// User is the record returned by registration.
type User struct {
	StudentID string `json:"studentId"`
	Name      string `json:"name"`
	Email     string `json:"email,omitempty"`
	Role      string `json:"role"`
}

// CourtAvailability reports whether a single court is free for the requested
// date and time slot. It is stale as soon as that selection changes.
type CourtAvailability struct {
	CourtNumber int  `json:"courtNumber"`
	IsAvailable bool `json:"isAvailable"`
}

// Availability is the full court list for one (date, startTime, endTime) query.
type Availability struct {
	BookingDate string              `json:"bookingDate"`
	StartTime   string              `json:"startTime"`
	EndTime     string              `json:"endTime"`
	Courts      []CourtAvailability `json:"courts"`
}

// Booking is a server-assigned booking record.
type Booking struct {
	ID          string `json:"id"`
	CourtNumber int    `json:"courtNumber"`
	BookingDate string `json:"bookingDate"` // YYYY-MM-DD
	StartTime   string `json:"startTime"`   // HH:MM
	EndTime     string `json:"endTime"`     // HH:MM
	Status      string `json:"status"`
}

// CreateBookingRequest is the payload for creating a booking.
type CreateBookingRequest struct {
	CourtNumber int    `json:"courtNumber"`
	BookingDate string `json:"bookingDate"`
	StartTime   string `json:"startTime"`
	EndTime     string `json:"endTime"`
}

// Profile holds the user's profile fields. Only Name and Email are editable.
type Profile struct {
	Name           string `json:"name"`
	StudentID      string `json:"studentId"`
	Email          string `json:"email"`
	Phone          string `json:"phone"`
	ProfilePicture string `json:"profilePicture"`
}
