package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
	"github.com/wasabi52ngg/restaurant-chain/models"
	"github.com/wasabi52ngg/restaurant-chain/utils"
	"gorm.io/gorm"
)

type RetryPolicy struct {
	MaxRetries int
	Backoff    time.Duration
}

func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxRetries: 3, Backoff: 60 * time.Second}
}

type DeliveryResult struct {
	Status    models.DeliveryStatus
	Recipient string
	Subject   string
}

type delayedMessage struct {
	msg NotificationMessage
	due time.Time
}

// NotificationDispatcher mails customers about reservation status changes.
// Messages flow through the queue to a pool of workers; transient failures are
// parked and republished by a cron tick once their backoff has elapsed.
type NotificationDispatcher struct {
	db      *gorm.DB
	queue   NotificationQueue
	mailer  Mailer
	policy  RetryPolicy
	workers int
	now     func() time.Time

	cron     *cron.Cron
	mutex    sync.Mutex
	delayed  []delayedMessage
	inflight map[string]struct{} // published here, not yet handled
	cancel   context.CancelFunc
	wg       sync.WaitGroup
}

func NewNotificationDispatcher(db *gorm.DB, queue NotificationQueue, mailer Mailer, policy RetryPolicy, workers int) *NotificationDispatcher {
	if workers <= 0 {
		workers = 1
	}
	return &NotificationDispatcher{
		db:       db,
		queue:    queue,
		mailer:   mailer,
		policy:   policy,
		workers:  workers,
		now:      time.Now,
		cron:     cron.New(cron.WithSeconds()),
		inflight: make(map[string]struct{}),
	}
}

// Notify queues a mail for the reservation and returns without waiting for it.
func (d *NotificationDispatcher) Notify(ctx context.Context, reservationID uint, action models.NotificationAction) error {
	if !action.Valid() {
		return fmt.Errorf("notify reservation %d: invalid action %q", reservationID, action)
	}
	msg := NotificationMessage{
		ID:            uuid.NewString(),
		ReservationID: reservationID,
		Action:        action,
	}
	d.track(msg.ID)
	if err := d.queue.Publish(ctx, msg); err != nil {
		d.untrack(msg.ID)
		return fmt.Errorf("queue notification for reservation %d: %w", reservationID, err)
	}
	utils.InfoLogger.Debugf("Queued %s notification %s for reservation %d", action, msg.ID, reservationID)
	return nil
}

func (d *NotificationDispatcher) Start(ctx context.Context) error {
	ctx, d.cancel = context.WithCancel(ctx)

	if _, err := d.cron.AddFunc("* * * * * *", func() { d.flushDue(ctx) }); err != nil {
		d.cancel()
		return fmt.Errorf("schedule notification retries: %w", err)
	}

	for i := 0; i < d.workers; i++ {
		d.wg.Add(1)
		go func(worker int) {
			defer d.wg.Done()
			if err := d.queue.Consume(ctx, d.handle); err != nil && !errors.Is(err, context.Canceled) {
				utils.ErrorLogger.Printf("Notification worker %d stopped: %v", worker, err)
			}
		}(i)
	}
	d.cron.Start()

	utils.InfoLogger.Printf("Notification dispatcher started with %d workers (max retries %d, backoff %v)",
		d.workers, d.policy.MaxRetries, d.policy.Backoff)
	return nil
}

// Stop halts workers and the retry scheduler. Parked retries are dropped.
func (d *NotificationDispatcher) Stop() {
	if d.cancel != nil {
		d.cancel()
	}
	<-d.cron.Stop().Done()
	d.wg.Wait()

	if pending := d.Pending(); pending > 0 {
		utils.ErrorLogger.Warnf("Notification dispatcher stopped with %d retries pending", pending)
	}
}

// Drain waits until every message published through Notify has had its
// delivery attempt, or until ctx is done. Call it before Stop so messages
// queued by the last requests are not lost.
func (d *NotificationDispatcher) Drain(ctx context.Context) error {
	ticker := time.NewTicker(10 * time.Millisecond)
	defer ticker.Stop()
	for {
		d.mutex.Lock()
		left := len(d.inflight)
		d.mutex.Unlock()
		if left == 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			return fmt.Errorf("drain notifications, %d left: %w", left, ctx.Err())
		case <-ticker.C:
		}
	}
}

func (d *NotificationDispatcher) track(id string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.inflight[id] = struct{}{}
}

func (d *NotificationDispatcher) untrack(id string) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	delete(d.inflight, id)
}

// Pending reports the number of messages waiting for their retry delay.
func (d *NotificationDispatcher) Pending() int {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	return len(d.delayed)
}

// Deliver makes one delivery attempt. A nil error means the message is done,
// whatever the result status; a non-nil error is worth retrying.
func (d *NotificationDispatcher) Deliver(ctx context.Context, msg NotificationMessage) (DeliveryResult, error) {
	log := utils.InfoLogger.WithFields(logrus.Fields{
		"message_id":     msg.ID,
		"reservation_id": msg.ReservationID,
		"action":         msg.Action,
		"attempt":        msg.Attempt,
	})

	var reservation models.Reservation
	err := d.db.WithContext(ctx).
		Preload("Customer").
		Preload("Table.Restaurant").
		First(&reservation, msg.ReservationID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		utils.ErrorLogger.Printf("Reservation %d not found, dropping %s notification", msg.ReservationID, msg.Action)
		return DeliveryResult{Status: models.DeliveryNotFound}, nil
	}
	if err != nil {
		return DeliveryResult{}, fmt.Errorf("load reservation %d: %w", msg.ReservationID, err)
	}

	if !reservation.Customer.HasEmail() {
		utils.ErrorLogger.Warnf("Reservation %d has no customer email, skipping %s notification", msg.ReservationID, msg.Action)
		return DeliveryResult{Status: models.DeliverySkipped}, nil
	}

	subject, body, err := ComposeReservationMail(&reservation, msg.Action)
	if err != nil {
		return DeliveryResult{}, err
	}

	recipient := *reservation.Customer.Email
	if err := d.mailer.Send(ctx, recipient, subject, body); err != nil {
		return DeliveryResult{}, err
	}

	log.Infof("Reservation notification sent to %s", recipient)
	return DeliveryResult{Status: models.DeliverySent, Recipient: recipient, Subject: subject}, nil
}

func (d *NotificationDispatcher) handle(ctx context.Context, msg NotificationMessage) {
	defer d.untrack(msg.ID)

	result, err := d.Deliver(ctx, msg)
	if err == nil {
		d.record(ctx, msg, result, nil)
		return
	}

	if errors.Is(err, ErrUnknownAction) || msg.Attempt >= d.policy.MaxRetries {
		utils.ErrorLogger.Printf("Giving up on notification %s for reservation %d after %d retries: %v",
			msg.ID, msg.ReservationID, msg.Attempt, err)
		d.record(ctx, msg, DeliveryResult{Status: models.DeliveryFailed}, err)
		return
	}

	utils.ErrorLogger.Printf("Notification %s for reservation %d failed, retrying in %v: %v",
		msg.ID, msg.ReservationID, d.policy.Backoff, err)
	msg.Attempt++
	d.park(msg, d.now().Add(d.policy.Backoff))
}

func (d *NotificationDispatcher) park(msg NotificationMessage, due time.Time) {
	d.mutex.Lock()
	defer d.mutex.Unlock()
	d.delayed = append(d.delayed, delayedMessage{msg: msg, due: due})
}

// flushDue republishes every parked message whose delay has elapsed.
func (d *NotificationDispatcher) flushDue(ctx context.Context) {
	now := d.now()

	d.mutex.Lock()
	var due []NotificationMessage
	waiting := d.delayed[:0]
	for _, item := range d.delayed {
		if !item.due.After(now) {
			due = append(due, item.msg)
		} else {
			waiting = append(waiting, item)
		}
	}
	d.delayed = waiting
	d.mutex.Unlock()

	for _, msg := range due {
		if err := d.queue.Publish(ctx, msg); err != nil {
			// the queue is saturated, not the message; wait another backoff
			utils.ErrorLogger.Printf("Requeue of notification %s failed: %v", msg.ID, err)
			d.park(msg, now.Add(d.policy.Backoff))
		}
	}
}

func (d *NotificationDispatcher) record(ctx context.Context, msg NotificationMessage, result DeliveryResult, deliveryErr error) {
	entry := models.Notification{
		MessageID:     msg.ID,
		ReservationID: msg.ReservationID,
		Action:        msg.Action,
		Status:        result.Status,
		Attempts:      msg.Attempt + 1,
	}
	if result.Recipient != "" {
		entry.Recipient = &result.Recipient
	}
	if result.Subject != "" {
		entry.Subject = &result.Subject
	}
	if deliveryErr != nil {
		text := deliveryErr.Error()
		entry.Error = &text
	}
	if err := d.db.WithContext(ctx).Create(&entry).Error; err != nil {
		utils.ErrorLogger.Printf("Failed to record notification %s: %v", msg.ID, err)
	}
}
