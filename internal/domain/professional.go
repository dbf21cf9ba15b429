package domain

// Professional is the read-only view of a professional needed by the engine.
type Professional struct {
	ID   int64
	Name string
	// ExpressRate is the cost of an express appointment, nil when not offered
	ExpressRate *float64
}

// OffersExpress returns true if the professional has an express rate
func (p *Professional) OffersExpress() bool {
	return p.ExpressRate != nil && *p.ExpressRate >= 0
}
