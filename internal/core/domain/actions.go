package domain

import "time"

// Listing actions selected by the "action" query parameter on GET /home.
const (
	ActionAllUsersDefault      = "getAllUsersOrderedByDefault"
	ActionAllUsersSortedByName = "getAllUsersSortedByLastNameAndDateOfBirth"
	ActionAllUsersFoundByParam = "getAllUsersFoundByParameter"
	ActionGetSelectedUser      = "getSelectedUser"
)

// Search fields selected by the "selectedSearchOption" query parameter.
const (
	SearchByFirstName   = "firstName"
	SearchByLastName    = "lastName"
	SearchByPhoneNumber = "phoneNumber"
	SearchByEmail       = "email"
)

// Legacy display formats carried over from the original system: birth dates
// arrive as ISO dates and are stored as dd/MM/yyyy strings.
const (
	BirthDateInputLayout = "2006-01-02"
	DateLayout           = "02/01/2006"
	RegisterDateLayout   = "02/01/2006 15:04:05"
)

// BirthDateSortKey converts a stored dd/MM/yyyy birth date into a string
// that orders chronologically. The display format sorts by day first, so it
// cannot be compared directly. Unparseable values sort as-is.
func BirthDateSortKey(dateOfBirth string) string {
	t, err := time.Parse(DateLayout, dateOfBirth)
	if err != nil {
		return dateOfBirth
	}
	return t.Format(BirthDateInputLayout)
}

// EmailExistsMessage is the one server message surfaced verbatim to users,
// on the distinguished registration-conflict status.
const EmailExistsMessage = "An account with this email already exists."
