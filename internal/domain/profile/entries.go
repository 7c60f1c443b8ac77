package profile

import "github.com/google/uuid"

// AddExperience prepends e, assigning it a fresh id.
func (p *Profile) AddExperience(e Experience) Experience {
	e.ID = uuid.New()
	p.Experience = append([]Experience{e}, p.Experience...)
	return e
}

// AddEducation prepends e, assigning it a fresh id.
func (p *Profile) AddEducation(e Education) Education {
	e.ID = uuid.New()
	p.Education = append([]Education{e}, p.Education...)
	return e
}

func (p *Profile) RemoveExperience(id uuid.UUID) error {
	idx := -1
	for i, e := range p.Experience {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrEntryNotFound
	}
	p.Experience = append(p.Experience[:idx:idx], p.Experience[idx+1:]...)
	return nil
}

func (p *Profile) RemoveEducation(id uuid.UUID) error {
	idx := -1
	for i, e := range p.Education {
		if e.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return ErrEntryNotFound
	}
	p.Education = append(p.Education[:idx:idx], p.Education[idx+1:]...)
	return nil
}
