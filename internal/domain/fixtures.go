package domain

// ContractFixture is one shared validation case. The server-side validator
// (pkg/validation) and the pre-flight client validator (package client) are
// independent implementations of the same constraint table above; the
// contract test runs both over ContractFixtures and fails on any divergence.
type ContractFixture struct {
	Name      string
	Referral  Referral
	BadFields []string // fields expected to carry at least one error; empty means valid
}

// ContractFixtures covers every constraint in the table, boundary values
// included.
func ContractFixtures() []ContractFixture {
	longName := make([]byte, NameMaxLen+1)
	maxName := make([]byte, NameMaxLen)
	longMessage := make([]byte, MessageMaxLen+1)
	maxMessage := make([]byte, MessageMaxLen)
	for _, b := range [][]byte{longName, maxName, longMessage, maxMessage} {
		for i := range b {
			b[i] = 'a'
		}
	}

	valid := Referral{
		FirstName: "Jane",
		LastName:  "Doe",
		Phone:     "+1 555-123-4567",
		Email:     "jane@example.com",
	}

	return []ContractFixture{
		{Name: "valid minimal", Referral: valid},
		{Name: "valid with message", Referral: Referral{
			FirstName: "Jane", LastName: "Doe", Phone: "(020) 7946 0958",
			Email: "jane@example.com", Message: "Met her at the conference.",
		}},
		{Name: "valid names at max length", Referral: Referral{
			FirstName: string(maxName), LastName: string(maxName),
			Phone: "5551234567", Email: "jane@example.com",
		}},
		{Name: "valid message at max length", Referral: Referral{
			FirstName: "Jane", LastName: "Doe", Phone: "5551234567",
			Email: "jane@example.com", Message: string(maxMessage),
		}},
		{Name: "whitespace-padded fields trimmed before checks", Referral: Referral{
			FirstName: "  Jane  ", LastName: " Doe ", Phone: " +1 555-123-4567 ",
			Email: " jane@example.com ",
		}},
		{Name: "all required fields missing", Referral: Referral{},
			BadFields: []string{"FirstName", "LastName", "Phone", "Email"}},
		{Name: "first name blank after trim", Referral: Referral{
			FirstName: "   ", LastName: "Doe", Phone: "5551234567", Email: "jane@example.com",
		}, BadFields: []string{"FirstName"}},
		{Name: "first name too long", Referral: Referral{
			FirstName: string(longName), LastName: "Doe", Phone: "5551234567", Email: "jane@example.com",
		}, BadFields: []string{"FirstName"}},
		{Name: "last name too long", Referral: Referral{
			FirstName: "Jane", LastName: string(longName), Phone: "5551234567", Email: "jane@example.com",
		}, BadFields: []string{"LastName"}},
		{Name: "phone too short", Referral: Referral{
			FirstName: "Jane", LastName: "Doe", Phone: "123", Email: "jane@example.com",
		}, BadFields: []string{"Phone"}},
		{Name: "phone with letters", Referral: Referral{
			FirstName: "Jane", LastName: "Doe", Phone: "555-CALL-NOW", Email: "jane@example.com",
		}, BadFields: []string{"Phone"}},
		{Name: "phone plus sign not leading", Referral: Referral{
			FirstName: "Jane", LastName: "Doe", Phone: "555+123-4567890", Email: "jane@example.com",
		}, BadFields: []string{"Phone"}},
		{Name: "email without at sign", Referral: Referral{
			FirstName: "Jane", LastName: "Doe", Phone: "5551234567", Email: "jane.example.com",
		}, BadFields: []string{"Email"}},
		{Name: "email without domain", Referral: Referral{
			FirstName: "Jane", LastName: "Doe", Phone: "5551234567", Email: "jane@",
		}, BadFields: []string{"Email"}},
		{Name: "message too long", Referral: Referral{
			FirstName: "Jane", LastName: "Doe", Phone: "5551234567",
			Email: "jane@example.com", Message: string(longMessage),
		}, BadFields: []string{"Message"}},
		{Name: "every field invalid at once", Referral: Referral{
			FirstName: string(longName), LastName: "", Phone: "abc",
			Email: "not-an-email", Message: string(longMessage),
		}, BadFields: []string{"FirstName", "LastName", "Phone", "Email", "Message"}},
	}
}
