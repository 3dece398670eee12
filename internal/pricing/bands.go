// Package pricing holds the availability/pricing sub-wizard of a booking option
package pricing

import (
	"strings"

	"github.com/google/uuid"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"
)

const (
	MinAge = 0
	MaxAge = 99

	// Stable ids of the bands every per-person option must keep
	BandChildren = "children"
	BandAdults   = "adults"
)

// DefaultBands returns the initial partition of ages 0-99
func DefaultBands() []domain.AgeBand {
	return []domain.AgeBand{
		{ID: "infants", Name: "Infantes", MinAge: 0, MaxAge: 3},
		{ID: BandChildren, Name: "Niños", MinAge: 4, MaxAge: 12, Protected: true},
		{ID: BandAdults, Name: "Adultos", MinAge: 13, MaxAge: 64, Protected: true},
		{ID: "seniors", Name: "Adultos mayores", MinAge: 65, MaxAge: 99},
	}
}

func isProtectedID(id string) bool {
	return id == BandChildren || id == BandAdults
}

// protectedName returns the fixed display name of a protected band
func protectedName(id string) string {
	for _, b := range DefaultBands() {
		if b.ID == id {
			return b.Name
		}
	}
	return ""
}

// Editor edits an ordered, gap-free partition of ages 0-99
type Editor struct {
	bands []domain.AgeBand
}

// NewEditor starts from bands, or from the defaults when bands is empty
func NewEditor(bands []domain.AgeBand) *Editor {
	if len(bands) == 0 {
		bands = DefaultBands()
	}
	cp := make([]domain.AgeBand, len(bands))
	copy(cp, bands)
	for i := range cp {
		if isProtectedID(cp[i].ID) {
			cp[i].Protected = true
		}
	}
	return &Editor{bands: cp}
}

// Bands returns a copy of the current bands
func (e *Editor) Bands() []domain.AgeBand {
	cp := make([]domain.AgeBand, len(e.bands))
	copy(cp, e.bands)
	return cp
}

func (e *Editor) index(id string) (int, error) {
	for i, b := range e.bands {
		if b.ID == id {
			return i, nil
		}
	}
	return -1, domain.ErrBandNotFound
}

// SetMaxAge sets the band's maximum age and moves the next band's minimum to max+1
func (e *Editor) SetMaxAge(id string, max int) error {
	i, err := e.index(id)
	if err != nil {
		return err
	}
	b := &e.bands[i]
	if max < b.MinAge {
		return domain.ErrBandOverlap
	}
	if i == len(e.bands)-1 {
		if max != MaxAge {
			return domain.ErrBandsIncomplete
		}
		return nil
	}
	next := &e.bands[i+1]
	if max+1 > next.MaxAge {
		return domain.ErrBandOverlap
	}
	b.MaxAge = max
	next.MinAge = max + 1
	return nil
}

// Insert adds a band right after the band afterID (or first when afterID is empty),
// covering ages up to maxAge; the following band starts at maxAge+1
func (e *Editor) Insert(afterID, name string, maxAge int) (domain.AgeBand, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.AgeBand{}, domain.ValidationErrors{{Field: "name", Message: "el nombre es obligatorio"}}
	}

	pos := 0
	minAge := MinAge
	if afterID != "" {
		i, err := e.index(afterID)
		if err != nil {
			return domain.AgeBand{}, err
		}
		pos = i + 1
		minAge = e.bands[i].MaxAge + 1
	}
	if pos >= len(e.bands) {
		return domain.AgeBand{}, domain.ErrBandOverlap
	}
	next := &e.bands[pos]
	if maxAge < minAge || maxAge+1 > next.MaxAge {
		return domain.AgeBand{}, domain.ErrBandOverlap
	}

	band := domain.AgeBand{ID: uuid.NewString(), Name: name, MinAge: minAge, MaxAge: maxAge}
	next.MinAge = maxAge + 1

	e.bands = append(e.bands, domain.AgeBand{})
	copy(e.bands[pos+1:], e.bands[pos:])
	e.bands[pos] = band
	return band, nil
}

// Delete removes a band; its ages go to the previous band, or to the next one
// when it was the first
func (e *Editor) Delete(id string) error {
	i, err := e.index(id)
	if err != nil {
		return err
	}
	if e.bands[i].Protected {
		return domain.ErrProtectedBand
	}
	if len(e.bands) == 1 {
		return domain.ErrBandsIncomplete
	}

	removed := e.bands[i]
	if i > 0 {
		e.bands[i-1].MaxAge = removed.MaxAge
	} else {
		e.bands[i+1].MinAge = removed.MinAge
	}
	e.bands = append(e.bands[:i], e.bands[i+1:]...)
	return nil
}

// Rename changes the display name of an unprotected band
func (e *Editor) Rename(id, name string) error {
	i, err := e.index(id)
	if err != nil {
		return err
	}
	if e.bands[i].Protected {
		return domain.ErrProtectedBand
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return domain.ValidationErrors{{Field: "name", Message: "el nombre es obligatorio"}}
	}
	e.bands[i].Name = name
	return nil
}

// Validate checks the partition before it is sent to the backend
func (e *Editor) Validate() error {
	return ValidateBands(e.bands)
}

// ValidateBands checks that bands cover 0-99 contiguously and keep the protected
// ones under their fixed names
func ValidateBands(bands []domain.AgeBand) error {
	if len(bands) == 0 || bands[0].MinAge != MinAge || bands[len(bands)-1].MaxAge != MaxAge {
		return domain.ErrBandsIncomplete
	}
	seen := map[string]bool{}
	names := map[string]bool{}
	for i, b := range bands {
		if b.MinAge > b.MaxAge {
			return domain.ErrBandOverlap
		}
		if i > 0 && b.MinAge != bands[i-1].MaxAge+1 {
			return domain.ErrBandsIncomplete
		}
		name := strings.ToLower(strings.TrimSpace(b.Name))
		if name == "" || names[name] {
			return domain.ValidationErrors{{Field: "bands", Message: "cada categoría necesita un nombre único"}}
		}
		names[name] = true
		if isProtectedID(b.ID) && strings.TrimSpace(b.Name) != protectedName(b.ID) {
			return domain.ErrProtectedBand
		}
		seen[b.ID] = true
	}
	if !seen[BandChildren] || !seen[BandAdults] {
		return domain.ErrProtectedBand
	}
	return nil
}
