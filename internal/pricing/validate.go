package pricing

import (
	"fmt"
	"strings"
	"time"

	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"
)

const (
	dateLayout = "2006-01-02"
	timeLayout = "15:04"
)

var weekdays = map[string]bool{
	"monday": true, "tuesday": true, "wednesday": true, "thursday": true,
	"friday": true, "saturday": true, "sunday": true,
}

// ValidateSchedule checks the weekly schedule for the availability mode
func ValidateSchedule(s domain.Schedule, mode domain.AvailabilityMode) error {
	var errs domain.ValidationErrors

	start, err := time.Parse(dateLayout, s.StartDate)
	if err != nil {
		errs.Add("startDate", "fecha de inicio inválida (AAAA-MM-DD)")
	}
	if s.EndDate != "" {
		end, err := time.Parse(dateLayout, s.EndDate)
		switch {
		case err != nil:
			errs.Add("endDate", "fecha de fin inválida (AAAA-MM-DD)")
		case !start.IsZero() && end.Before(start):
			errs.Add("endDate", "la fecha de fin no puede ser anterior al inicio")
		}
	}

	withSlots := 0
	days := map[string]bool{}
	for i, d := range s.Days {
		field := fmt.Sprintf("days[%d]", i)
		day := strings.ToLower(d.Day)
		if !weekdays[day] {
			errs.Add(field, "día inválido")
			continue
		}
		if days[day] {
			errs.Add(field, "día repetido")
			continue
		}
		days[day] = true
		if len(d.Slots) > 0 {
			withSlots++
		}
		validateSlots(&errs, field, d.Slots, mode)
	}
	if withSlots == 0 {
		errs.Add("days", "agrega al menos un horario")
	}

	dates := map[string]bool{}
	for i, ex := range s.Exceptions {
		field := fmt.Sprintf("exceptions[%d]", i)
		if _, err := time.Parse(dateLayout, ex.Date); err != nil {
			errs.Add(field, "fecha inválida (AAAA-MM-DD)")
		} else if dates[ex.Date] {
			errs.Add(field, "fecha repetida")
		}
		dates[ex.Date] = true
		if strings.TrimSpace(ex.Description) == "" {
			errs.Add(field, "la descripción es obligatoria")
		}
	}

	return errs.Err()
}

func validateSlots(errs *domain.ValidationErrors, field string, slots []domain.TimeSlot, mode domain.AvailabilityMode) {
	starts := map[string]bool{}
	for j, slot := range slots {
		sf := fmt.Sprintf("%s.slots[%d]", field, j)
		open, err := time.Parse(timeLayout, slot.Start)
		if err != nil {
			errs.Add(sf, "hora inválida (HH:MM)")
			continue
		}
		switch mode {
		case domain.AvailabilityOpeningHours:
			closing, err := time.Parse(timeLayout, slot.End)
			if err != nil {
				errs.Add(sf, "hora de cierre inválida (HH:MM)")
			} else if !open.Before(closing) {
				errs.Add(sf, "la apertura debe ser anterior al cierre")
			}
		default:
			if starts[slot.Start] {
				errs.Add(sf, "horario repetido")
			}
			starts[slot.Start] = true
		}
	}
}

// ValidateCapacity checks participant limits per slot
func ValidateCapacity(c domain.Capacity) error {
	var errs domain.ValidationErrors
	if c.Min < 1 {
		errs.Add("min", "el mínimo debe ser al menos 1")
	}
	if c.Max < c.Min {
		errs.Add("max", "el máximo no puede ser menor que el mínimo")
	}
	return errs.Err()
}

// ValidatePricing checks the price form against the pricing mode. Per-person
// pricing is either one flat price or one price per age band, never both.
func ValidatePricing(p domain.Pricing, mode domain.PricingMode, bands []domain.AgeBand) error {
	var errs domain.ValidationErrors
	if p.Mode != "" && p.Mode != mode {
		errs.Add("mode", "el modo de precio no coincide con la opción")
		return errs.Err()
	}

	switch mode {
	case domain.PricingPerGroup:
		if p.GroupPrice <= 0 {
			errs.Add("groupPrice", "el precio por grupo debe ser mayor a 0")
		}
		if p.MaxGroupSize < 1 {
			errs.Add("maxGroupSize", "el tamaño del grupo debe ser al menos 1")
		}
	default:
		hasFlat := p.FlatPrice != nil
		hasBands := len(p.BandPrices) > 0
		switch {
		case hasFlat && hasBands:
			errs.Add("price", "usa un precio único o precios por edad, no ambos")
		case hasFlat:
			if *p.FlatPrice < 0 {
				errs.Add("flatPrice", "el precio no puede ser negativo")
			}
		case hasBands:
			for _, b := range bands {
				price, ok := p.BandPrices[b.ID]
				if !ok {
					errs.Add("bandPrices."+b.ID, "falta el precio de "+b.Name)
				} else if price < 0 {
					errs.Add("bandPrices."+b.ID, "el precio no puede ser negativo")
				}
			}
		default:
			errs.Add("price", "ingresa un precio")
		}
	}
	return errs.Err()
}

// ValidateAddons checks optional extras
func ValidateAddons(addons []domain.Addon) error {
	var errs domain.ValidationErrors
	for i, a := range addons {
		field := fmt.Sprintf("addons[%d]", i)
		if strings.TrimSpace(a.Name) == "" {
			errs.Add(field, "el nombre es obligatorio")
		}
		if a.Price < 0 {
			errs.Add(field, "el precio no puede ser negativo")
		}
	}
	return errs.Err()
}
