package main

import (
	"controllerboard/internal/config"
	"controllerboard/internal/logger"
	"controllerboard/internal/repository"
	"controllerboard/internal/telemetry"
)

// instrumentEvents wraps the event log so every appended event also feeds the
// metrics and, when a broker is configured, the MQTT mirror. The returned func
// releases the broker connection.
func instrumentEvents(cfg *config.Config, repos *repository.Repository, m *telemetry.Metrics, log *logger.Logger) func() {
	var events repository.EventRepo = telemetry.NewObservedEventRepo(repos.EventRepo, m)

	closeFn := func() {}
	if cfg.MQTT.Broker != "" {
		pub, err := telemetry.NewMQTTPublisher(telemetry.MQTTConfig{
			Broker:      cfg.MQTT.Broker,
			ClientID:    cfg.MQTT.ClientID,
			Username:    cfg.MQTT.Username,
			Password:    cfg.MQTT.Password,
			TopicPrefix: cfg.MQTT.TopicPrefix,
		}, log.Component("mqtt"))
		if err != nil {
			// Events still go to the local log; the mirror is optional.
			log.Warnw("mqtt_disabled", "err", err)
		} else {
			events = telemetry.NewPublishedEventRepo(events, pub, cfg.MQTT.TopicPrefix, log.Component("mqtt"))
			closeFn = pub.Close
		}
	}

	repos.EventRepo = events
	return closeFn
}
