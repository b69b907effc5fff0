package push

import (
	"encoding/json"

	webpush "github.com/SherClockHolmes/webpush-go"
	"github.com/danbi-app/danbi-backend/internal/domain"
	"github.com/danbi-app/danbi-backend/internal/repository"
	"github.com/danbi-app/danbi-backend/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	pushSentTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "danbi_push_sent_total",
		Help: "Number of web push messages delivered",
	})
	pushFailedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "danbi_push_failed_total",
		Help: "Number of web push messages that failed to deliver",
	})
)

// Payload is the push message body shown by the service worker
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url"`
}

// Notifier delivers a push message to all of a user's devices.
// Implementations must be fire-and-forget safe: delivery failure never
// propagates to the triggering write.
type Notifier interface {
	NotifyAsync(userID string, payload Payload)
}

// Sender sends web push messages via VAPID
type Sender struct {
	repo            repository.PushSubscriptionRepository
	vapidPublicKey  string
	vapidPrivateKey string
	subscriber      string
	ttl             int
}

// NewSender creates a web push sender. With empty VAPID keys the sender
// becomes a no-op, mirroring an unconfigured environment.
func NewSender(repo repository.PushSubscriptionRepository, publicKey, privateKey, subscriber string) *Sender {
	return &Sender{
		repo:            repo,
		vapidPublicKey:  publicKey,
		vapidPrivateKey: privateKey,
		subscriber:      subscriber,
		ttl:             60 * 60 * 24,
	}
}

// NotifyAsync delivers the payload to every subscription of the user in
// the background. Errors are logged and counted, never returned.
func (s *Sender) NotifyAsync(userID string, payload Payload) {
	if s.vapidPublicKey == "" || s.vapidPrivateKey == "" {
		return
	}
	go s.send(userID, payload)
}

func (s *Sender) send(userID string, payload Payload) {
	subs, err := s.repo.ListByUser(userID)
	if err != nil {
		logger.GetLogger().Error().Err(err).Str("user_id", userID).Msg("push: failed to load subscriptions")
		return
	}
	if len(subs) == 0 {
		return
	}

	message, err := json.Marshal(payload)
	if err != nil {
		logger.GetLogger().Error().Err(err).Msg("push: failed to marshal payload")
		return
	}

	for _, sub := range subs {
		resp, err := webpush.SendNotification(message, &webpush.Subscription{
			Endpoint: sub.Endpoint,
			Keys:     webpush.Keys{P256dh: sub.P256dh, Auth: sub.Auth},
		}, &webpush.Options{
			Subscriber:      s.subscriber,
			VAPIDPublicKey:  s.vapidPublicKey,
			VAPIDPrivateKey: s.vapidPrivateKey,
			TTL:             s.ttl,
		})
		if err != nil {
			pushFailedTotal.Inc()
			logger.GetLogger().Warn().Err(err).Str("user_id", userID).Msg("push: delivery failed")
			continue
		}
		if resp.StatusCode == 404 || resp.StatusCode == 410 {
			// Endpoint is gone; prune the subscription
			pushFailedTotal.Inc()
			if err := s.repo.DeleteByID(sub.ID); err != nil {
				logger.GetLogger().Warn().Err(err).Msg("push: failed to prune stale subscription")
			}
		} else {
			pushSentTotal.Inc()
		}
		resp.Body.Close()
	}
}

var _ Notifier = (*Sender)(nil)

// Subscribe stores (or rebinds) a device subscription for a user
func Subscribe(repo repository.PushSubscriptionRepository, userID string, req *domain.SubscribeRequest) error {
	return repo.Upsert(&domain.PushSubscription{
		UserID:   userID,
		Endpoint: req.Endpoint,
		P256dh:   req.Keys.P256dh,
		Auth:     req.Keys.Auth,
	})
}
