package wizard

import (
	"context"
	"fmt"

	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/domain"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/gateway"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/internal/media"
	"github.com/jBoadaEspinoza/PeruTripsAdventures-sub000/pkg/telemetry"
	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
)

func (s *service) ValidateImages(files []media.File) *ImagesOutcome {
	ws := media.NewWorkingSet(s.rules)
	ws.Add(files...)
	out := &ImagesOutcome{
		Outcome:  Outcome{Success: ws.Ready() == nil, Step: domain.StepImages},
		Accepted: ws.Images(),
		Rejected: ws.Rejected(),
	}
	if err := ws.Ready(); err != nil {
		out.Message = err.Error()
	}
	return out
}

func (s *service) SubmitImages(ctx context.Context, sessionID string, files []media.File) (*ImagesOutcome, error) {
	ctx, span := telemetry.StartSpan(ctx, "service.wizard.submit_images")
	defer span.End()
	span.SetAttributes(attribute.Int("files", len(files)))

	state, def, err := s.prepare(ctx, sessionID, domain.StepImages)
	if err != nil {
		return nil, err
	}

	ws := media.NewWorkingSet(s.rules)
	ws.Add(files...)
	if err := ws.Ready(); err != nil {
		verrs := domain.ValidationErrors{{Field: "images", Message: err.Error()}}
		for _, r := range ws.Rejected() {
			verrs.Add("images."+r.Name, r.Message)
		}
		return &ImagesOutcome{
			Outcome:  *s.stay(state, def, err.Error()),
			Accepted: ws.Images(),
			Rejected: ws.Rejected(),
		}, verrs
	}

	slots, err := s.uploader.Upload(ctx, state.ActivityID, ws.Images(), func(i int, sent, total int64) {
		if sent == total {
			s.log.Debug("Image uploaded",
				zap.String("activity_id", state.ActivityID),
				zap.Int("index", i),
				zap.Int64("bytes", total),
			)
		}
	})
	out := &ImagesOutcome{Accepted: ws.Images(), Rejected: ws.Rejected(), Slots: slots}
	if err != nil {
		span.RecordError(err)
		failed := 0
		for _, sl := range slots {
			if sl.Err != nil {
				failed++
			}
		}
		if slots == nil {
			failed = len(ws.Images())
		}
		out.Outcome = *s.stay(state, def, fmt.Sprintf("no se pudieron subir %d imagen(es): %v", failed, err))
		return out, nil
	}

	images := make([]domain.Image, len(slots))
	for i, sl := range slots {
		images[i] = domain.Image{URL: sl.URL, Position: i, Cover: i == 0}
	}
	res, err := s.api.CreateImages(ctx, state.ActivityID, gateway.ImagesRequest{Images: images})
	if err != nil {
		return nil, err
	}
	if !res.Success {
		out.Outcome = *s.stay(state, def, res.Message)
		return out, nil
	}

	done, err := s.complete(ctx, sessionID, state, domain.StepImages, stepResult{success: true, message: res.Message})
	if err != nil {
		return nil, err
	}
	out.Outcome = *done
	return out, nil
}
