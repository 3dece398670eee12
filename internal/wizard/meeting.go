package wizard

import (
	"context"
	"errors"

	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/draft"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/meeting"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
)

// Meeting edit actions
const (
	MeetingSetType       = "set_type"
	MeetingAddAddress    = "add_address"
	MeetingRemoveAddress = "remove_address"
)

// MeetingOp is one edit of the meeting/pickup draft made from the map picker
type MeetingOp struct {
	Action   string              `json:"action" binding:"required"`
	Type     domain.MeetingType  `json:"type"`
	List     meeting.AddressList `json:"list"`
	Index    int                 `json:"index"`
	Location *domain.Location    `json:"location"`
	Place    *domain.Place       `json:"place"`
}

func (s *service) EditMeeting(ctx context.Context, sessionID string, op MeetingOp) (*domain.MeetingPickup, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.wizard.edit_meeting")
	defer span.End()
	span.SetAttributes(attribute.String("action", op.Action))

	state, _, err := s.prepare(ctx, sessionID, domain.StepMeetingPickup)
	if err != nil {
		return nil, err
	}

	d := meeting.NewDraft("")
	err = s.drafts.Load(ctx, sessionID, domain.StepMeetingPickup, state.OptionID, &d)
	if err != nil && !errors.Is(err, draft.ErrNoDraft) {
		return nil, err
	}

	switch op.Action {
	case MeetingSetType:
		switch op.Type {
		case domain.MeetingTypeMeetingPoint, domain.MeetingTypePickup:
			d = meeting.SwitchType(d, op.Type)
		default:
			return nil, domain.ValidationErrors{{Field: "type", Message: "elige punto de encuentro o servicio de recojo"}}
		}
	case MeetingAddAddress:
		if d.Type != domain.MeetingTypePickup {
			return nil, domain.ValidationErrors{{Field: "type", Message: "las direcciones solo aplican al servicio de recojo"}}
		}
		loc := domain.Location{}
		switch {
		case op.Place != nil:
			loc = meeting.FromPlace(*op.Place)
		case op.Location != nil:
			loc = *op.Location
		}
		err = meeting.AddAddress(&d, op.List, loc)
	case MeetingRemoveAddress:
		err = meeting.RemoveAddress(&d, op.List, op.Index)
	default:
		err = domain.ValidationErrors{{Field: "action", Message: "acción desconocida"}}
	}
	if err != nil {
		return nil, err
	}

	if err := s.drafts.Save(ctx, sessionID, domain.StepMeetingPickup, state.OptionID, d); err != nil {
		return nil, err
	}
	return &d, nil
}
