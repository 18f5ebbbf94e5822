package library

import "library-catalog/datastruct"

// PatronDirectory owns the patrons. There is no secondary index; every lookup
// scans the list.
type PatronDirectory struct {
	patrons *datastruct.List[*Patron]
	ids     *sequence
}

func NewPatronDirectory() *PatronDirectory {
	return &PatronDirectory{
		patrons: datastruct.NewList[*Patron](),
		ids:     newSequence("P"),
	}
}

// Add registers a patron and returns it with its assigned id.
func (d *PatronDirectory) Add(name, contactInfo, address, membershipDate string) Patron {
	p := &Patron{
		ID:             d.ids.next(),
		Name:           name,
		ContactInfo:    contactInfo,
		Address:        address,
		MembershipDate: membershipDate,
	}
	d.patrons.Add(p)
	return *p
}

func (d *PatronDirectory) Remove(id string) error {
	p, ok := d.lookup(id)
	if !ok {
		return notFound("patron", id)
	}
	d.patrons.Remove(p)
	return nil
}

func (d *PatronDirectory) FindByID(id string) (Patron, error) {
	p, ok := d.lookup(id)
	if !ok {
		return Patron{}, notFound("patron", id)
	}
	return *p, nil
}

func (d *PatronDirectory) Contains(id string) bool {
	_, ok := d.lookup(id)
	return ok
}

// FindByName returns patrons whose name contains sub, ignoring case.
func (d *PatronDirectory) FindByName(sub string) []Patron {
	return d.filter(func(p *Patron) bool { return containsFold(p.Name, sub) })
}

func (d *PatronDirectory) All() []Patron {
	return d.filter(func(*Patron) bool { return true })
}

func (d *PatronDirectory) Len() int { return d.patrons.Size() }

// Update replaces every field of the stored patron except ID.
func (d *PatronDirectory) Update(patron Patron) error {
	p, ok := d.lookup(patron.ID)
	if !ok {
		return notFound("patron", patron.ID)
	}
	p.Name = patron.Name
	p.ContactInfo = patron.ContactInfo
	p.Address = patron.Address
	p.MembershipDate = patron.MembershipDate
	return nil
}

func (d *PatronDirectory) lookup(id string) (*Patron, bool) {
	return d.patrons.Find(func(p *Patron) bool { return p.ID == id })
}

func (d *PatronDirectory) filter(pred func(*Patron) bool) []Patron {
	matches := d.patrons.Filter(pred)
	out := make([]Patron, len(matches))
	for i, p := range matches {
		out[i] = *p
	}
	return out
}
