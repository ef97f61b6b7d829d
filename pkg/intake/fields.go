package intake

import "slices"

// Field identifies a named slot in the form record.
type Field string

const (
	FieldLocation     Field = "location"
	FieldSquareMeters Field = "squareMeters"
	FieldRooms        Field = "rooms"
	FieldBudgetMin    Field = "budgetMin"
	FieldBudgetMax    Field = "budgetMax"
	FieldPurpose      Field = "purpose"
	FieldPreferences  Field = "preferences"
	FieldDealbreakers Field = "dealbreakers"
	FieldEmail        Field = "email"
	FieldPhone        Field = "phone"
)

// Fields lists every form field in display order.
func Fields() []Field {
	return []Field{
		FieldLocation,
		FieldSquareMeters,
		FieldRooms,
		FieldBudgetMin,
		FieldBudgetMax,
		FieldPurpose,
		FieldPreferences,
		FieldDealbreakers,
		FieldPhone,
		FieldEmail,
	}
}

// ValidatedFields lists the fields that own an error slot.
func ValidatedFields() []Field {
	return []Field{FieldLocation, FieldPreferences, FieldDealbreakers, FieldEmail, FieldPhone}
}

// TextFields lists the letters-only free-text fields accepted by SetText.
func TextFields() []Field {
	return []Field{FieldLocation, FieldPreferences, FieldDealbreakers}
}

// IsTextField reports whether f is a letters-only free-text field.
func IsTextField(f Field) bool {
	return slices.Contains(TextFields(), f)
}

// IsValidated reports whether f owns an error slot.
func IsValidated(f Field) bool {
	return slices.Contains(ValidatedFields(), f)
}

// Purpose is the intended use of the apartment.
type Purpose string

const (
	PurposeResidence  Purpose = "מגורים"
	PurposeInvestment Purpose = "השקעה"
	PurposeRental     Purpose = "השכרה"
)

// Purposes lists the purpose options; the first one is the default.
func Purposes() []Purpose {
	return []Purpose{PurposeResidence, PurposeInvestment, PurposeRental}
}

// Valid reports whether p is one of the known purposes.
func (p Purpose) Valid() bool {
	return slices.Contains(Purposes(), p)
}

// Budget slider domain. The engine stores BudgetMax verbatim; the bounds
// describe the input control it is paired with.
const (
	BudgetFloor   = 200000
	BudgetCeiling = 5000000
	BudgetStep    = 50000
)

// SquareMeterOptions returns the square-meter chip values in display order.
// The last option stands for "200 or more".
func SquareMeterOptions() []int {
	return []int{90, 88, 150, 200}
}

// RoomOptions returns the room-count chip values in display order. The last
// option stands for "6 or more".
func RoomOptions() []int {
	return []int{1, 2, 3, 4, 5, 6}
}

// Options returns the chip values for a toggle-group field, or nil when f is
// not a chip group.
func Options(f Field) []int {
	switch f {
	case FieldSquareMeters:
		return SquareMeterOptions()
	case FieldRooms:
		return RoomOptions()
	default:
		return nil
	}
}
