// Package meeting validates where travellers meet the provider: a fixed
// meeting point or a pickup service with its own address lists
package meeting

import (
	"fmt"
	"strings"

	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"
)

// AddressList selects which list of a pickup configuration is edited
type AddressList string

const (
	ListPickup AddressList = "pickup"
	ListReturn AddressList = "return"
)

// NewDraft returns the empty form for the given sub-flow
func NewDraft(t domain.MeetingType) domain.MeetingPickup {
	if t == "" {
		t = domain.MeetingTypeMeetingPoint
	}
	return domain.MeetingPickup{Type: t, ReturnSameAsPickup: true}
}

// SwitchType moves the draft to the other sub-flow, dropping fields the new one does not use
func SwitchType(d domain.MeetingPickup, t domain.MeetingType) domain.MeetingPickup {
	if d.Type == t {
		return d
	}
	next := NewDraft(t)
	switch t {
	case domain.MeetingTypePickup:
		next.PickupInstructions = d.PickupInstructions
	default:
		next.Instructions = d.Instructions
	}
	return next
}

// AddAddress appends a location picked on the map to one of the lists
func AddAddress(d *domain.MeetingPickup, list AddressList, loc domain.Location) error {
	if strings.TrimSpace(loc.Address) == "" || !loc.HasCoordinates() {
		return domain.ValidationErrors{{Field: string(list), Message: "elige una dirección en el mapa"}}
	}
	switch list {
	case ListPickup:
		d.PickupAddresses = append(d.PickupAddresses, loc)
	case ListReturn:
		d.ReturnAddresses = append(d.ReturnAddresses, loc)
		d.ReturnSameAsPickup = false
	default:
		return unknownList(list)
	}
	return nil
}

// FromPlace turns a place search result into a picked location
func FromPlace(p domain.Place) domain.Location {
	lat, lng := p.Latitude, p.Longitude
	addr := strings.TrimSpace(p.Address)
	if addr == "" {
		addr = strings.TrimSpace(p.Name)
	}
	return domain.Location{Address: addr, Latitude: &lat, Longitude: &lng, PlaceID: p.ID}
}

// RemoveAddress drops the address at index i of a list
func RemoveAddress(d *domain.MeetingPickup, list AddressList, i int) error {
	var target *[]domain.Location
	switch list {
	case ListPickup:
		target = &d.PickupAddresses
	case ListReturn:
		target = &d.ReturnAddresses
	default:
		return unknownList(list)
	}
	if i < 0 || i >= len(*target) {
		return domain.ValidationErrors{{Field: string(list), Message: fmt.Sprintf("no existe la dirección %d", i)}}
	}
	*target = append((*target)[:i], (*target)[i+1:]...)
	return nil
}

func unknownList(list AddressList) error {
	return domain.ValidationErrors{{Field: "list", Message: fmt.Sprintf("lista de direcciones desconocida %q", list)}}
}

// Validate checks the required fields of the chosen sub-flow; it runs only at submit
func Validate(d domain.MeetingPickup) error {
	var errs domain.ValidationErrors

	switch d.Type {
	case domain.MeetingTypeMeetingPoint:
		if d.MeetingPoint == nil || strings.TrimSpace(d.MeetingPoint.Address) == "" {
			errs.Add("meetingPoint.address", "indica la dirección del punto de encuentro")
		} else if !d.MeetingPoint.HasCoordinates() {
			errs.Add("meetingPoint.coordinates", "marca el punto de encuentro en el mapa")
		}
		if strings.TrimSpace(d.Instructions) == "" {
			errs.Add("instructions", "agrega instrucciones para llegar")
		}

	case domain.MeetingTypePickup:
		if len(d.PickupAddresses) == 0 {
			errs.Add("pickupAddresses", "agrega al menos una dirección de recojo")
		}
		validateLocations(&errs, "pickupAddresses", d.PickupAddresses)
		if strings.TrimSpace(d.TransportModeID) == "" {
			errs.Add("transportModeId", "elige el medio de transporte")
		}
		if d.MinutesBeforeStart == nil || *d.MinutesBeforeStart < 0 {
			errs.Add("minutesBeforeStart", "indica con cuántos minutos de anticipación se recoge")
		}
		if !d.ReturnSameAsPickup {
			if len(d.ReturnAddresses) == 0 {
				errs.Add("returnAddresses", "agrega al menos una dirección de retorno")
			}
			validateLocations(&errs, "returnAddresses", d.ReturnAddresses)
		}

	default:
		errs.Add("type", "elige punto de encuentro o servicio de recojo")
	}

	return errs.Err()
}

func validateLocations(errs *domain.ValidationErrors, field string, locs []domain.Location) {
	for i, l := range locs {
		if strings.TrimSpace(l.Address) == "" || !l.HasCoordinates() {
			errs.Add(fmt.Sprintf("%s[%d]", field, i), "dirección incompleta")
		}
	}
}

// Normalize drops the fields of the sub-flow that was not chosen before sending
func Normalize(d domain.MeetingPickup) domain.MeetingPickup {
	switch d.Type {
	case domain.MeetingTypeMeetingPoint:
		d.PickupAddresses = nil
		d.ReturnAddresses = nil
		d.TransportModeID = ""
		d.MinutesBeforeStart = nil
		d.PickupInstructions = ""
		d.ReturnSameAsPickup = false
	case domain.MeetingTypePickup:
		d.MeetingPoint = nil
		d.Instructions = ""
		if d.ReturnSameAsPickup {
			d.ReturnAddresses = nil
		}
	}
	return d
}
