// Package integrations wraps the third-party services the API depends on:
// Gemini for menu writing help, Cloudinary for profile photos, Stripe for
// saved cards, Redis for phone codes and RabbitMQ for domain events. Each
// concern is an interface with a production implementation and a local one
// used when the service is not configured.
package integrations

import (
	"errors"

	"github.com/sirupsen/logrus"
)

var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.InfoLevel)
}

// SetLogLevel follows the server's APP_ENV level.
func SetLogLevel(level logrus.Level) {
	log.SetLevel(level)
}

// ErrDisabled is returned by integrations that have no credentials configured.
var ErrDisabled = errors.New("integration disabled")
