package validate

import "fmt"

// Registry resolves validator names used by the rule pack
type Registry map[string]Func

// NewRegistry returns the built-in validators bound to the given phone policy
func NewRegistry(phone PhonePolicy) Registry {
	return Registry{
		"pesel": NationalID,
		"luhn":  Luhn,
		"bank":  BankAccount,
		"phone": phone.Valid,
	}
}

// Lookup returns the validator for name; an empty name means no validator
func (r Registry) Lookup(name string) (Func, error) {
	if name == "" {
		return nil, nil
	}
	fn, ok := r[name]
	if !ok {
		return nil, fmt.Errorf("validate: unknown validator %q", name)
	}
	return fn, nil
}
