package domain

// Outcome is the per-identifier result of one batch run: a message count and
// archive locator on success, or the error that stopped that identifier.
type Outcome struct {
	Identifier     string
	MessageCount   int
	ArchiveLocator string
	Err            error
}

func (o Outcome) Failed() bool { return o.Err != nil }

// Summary holds exactly one Outcome per requested identifier, in input order.
type Summary []Outcome
