package model

// Foreign keys are weak references: the target may have been deleted in
// another session. Lookups degrade to a placeholder instead of failing the
// read.

const unknownRef = "(not found)"

// ContactName resolves a contact FK against a sibling cache.
func ContactName(contacts []Contact, id *int) string {
	if id == nil {
		return ""
	}
	for _, c := range contacts {
		if c.ID == *id {
			return c.Name
		}
	}
	return unknownRef
}

// CompanyName resolves a company FK against a sibling cache.
func CompanyName(companies []Company, id *int) string {
	if id == nil {
		return ""
	}
	for _, c := range companies {
		if c.ID == *id {
			return c.Name
		}
	}
	return unknownRef
}

// DealTitle resolves a deal FK against a sibling cache.
func DealTitle(deals []Deal, id *int) string {
	if id == nil {
		return ""
	}
	for _, d := range deals {
		if d.ID == *id {
			return d.Title
		}
	}
	return unknownRef
}
