package telemetry

import (
	"context"
	"encoding/json"
	"strings"

	"controllerboard/internal/logger"
	"controllerboard/internal/models"
	"controllerboard/internal/repository"

	"github.com/google/uuid"
)

// PublishedEventRepo stores an event and then mirrors it to
// <prefix>/<type>, e.g. controllerboard/eightport/activate.
// Publishing is best effort: the stored event is what counts.
type PublishedEventRepo struct {
	repository.EventRepo
	pub    Publisher
	prefix string
	log    *logger.Logger
}

func NewPublishedEventRepo(next repository.EventRepo, pub Publisher, prefix string, log *logger.Logger) *PublishedEventRepo {
	if log == nil {
		log = logger.Nop()
	}
	return &PublishedEventRepo{
		EventRepo: next,
		pub:       pub,
		prefix:    strings.TrimSuffix(prefix, "/"),
		log:       log,
	}
}

func (r *PublishedEventRepo) Append(ctx context.Context, e models.NodeEvent) error {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if err := r.EventRepo.Append(ctx, e); err != nil {
		return err
	}

	payload, err := json.Marshal(e)
	if err != nil {
		r.log.Warnw("mqtt_encode_failed", "type", e.Type, "err", err)
		return nil
	}
	topic := r.Topic(e.Type)
	if err := r.pub.Publish(topic, payload); err != nil {
		r.log.Warnw("mqtt_publish_failed", "topic", topic, "err", err)
	}
	return nil
}

// Topic is the topic events of type typ are published on.
func (r *PublishedEventRepo) Topic(typ string) string {
	return r.prefix + "/" + strings.ToLower(typ)
}
