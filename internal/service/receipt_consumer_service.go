package service

import (
	"context"
	"encoding/json"
	"strings"

	"meal-subscription-be/internal/dto"
	"meal-subscription-be/internal/pkg/logger"
	"meal-subscription-be/internal/pkg/mailer"
	"meal-subscription-be/internal/repository/specification"
	"meal-subscription-be/internal/repository/unitofwork"

	"github.com/ThreeDotsLabs/watermill/message"
)

type IConsumerService interface {
	Consume(ctx context.Context) error
}

// receiptConsumerService turns queued ReceiptMessages into e-mails.
type receiptConsumerService struct {
	subscriber message.Subscriber
	topicName  string
	uowFactory unitofwork.RepositoryFactory
	mailer     mailer.IEmailService
	logger     logger.ILogger
}

func NewReceiptConsumerService(
	subscriber message.Subscriber,
	topicName string,
	uowFactory unitofwork.RepositoryFactory,
	emailService mailer.IEmailService,
	log logger.ILogger,
) IConsumerService {
	return &receiptConsumerService{
		subscriber: subscriber,
		topicName:  topicName,
		uowFactory: uowFactory,
		mailer:     emailService,
		logger:     log,
	}
}

func (cs *receiptConsumerService) Consume(ctx context.Context) error {
	messages, err := cs.subscriber.Subscribe(ctx, cs.topicName)
	if err != nil {
		return err
	}

	go func() {
		for msg := range messages {
			cs.processMessage(ctx, msg)
		}
	}()

	return nil
}

var receiptTitles = map[string]string{
	"purchase": "Your meal subscription is active",
	"renewal":  "Your meal subscription has been renewed",
	"upgrade":  "Your meal subscription has been upgraded",
}

func (cs *receiptConsumerService) processMessage(ctx context.Context, msg *message.Message) {
	var payload dto.ReceiptMessage
	if err := json.Unmarshal(msg.Payload, &payload); err != nil {
		cs.logger.Error("RECEIPT", "Failed to unmarshal receipt message", map[string]interface{}{"error": err.Error()})
		msg.Ack() // poison message, retrying will not help
		return
	}

	uow := cs.uowFactory.NewUnitOfWork(ctx)
	user, err := uow.UserRepository().FindOne(ctx, specification.ByID{ID: payload.UserId})
	if err != nil {
		cs.logger.Error("RECEIPT", "Failed to load receipt recipient", map[string]interface{}{
			"error":   err.Error(),
			"user_id": payload.UserId.String(),
		})
		msg.Nack()
		return
	}
	if user == nil || strings.TrimSpace(user.Email) == "" {
		cs.logger.Warn("RECEIPT", "Receipt recipient has no e-mail, skipping", map[string]interface{}{
			"user_id": payload.UserId.String(),
		})
		msg.Ack()
		return
	}

	lines := make([]mailer.ReceiptLine, 0, len(payload.Items))
	for _, item := range payload.Items {
		lines = append(lines, mailer.ReceiptLine{Name: item.Name, Quantity: item.Quantity, Price: item.Price})
	}

	title, ok := receiptTitles[payload.Purpose]
	if !ok {
		title = "Payment received"
	}

	receipt := mailer.Receipt{
		CustomerName:    user.Name,
		Title:           title,
		PaymentId:       payload.PaymentId,
		Lines:           lines,
		Total:           payload.Total,
		Currency:        payload.Currency,
		DeliveryAddress: payload.DeliveryAddress,
	}
	if !payload.ValidUntil.IsZero() {
		receipt.ValidUntil = payload.ValidUntil.Format("02 Jan 2006")
	}

	if err := cs.mailer.SendReceipt(user.Email, receipt); err != nil {
		// SMTP failures are not retried; the order record is the source of truth.
		cs.logger.Error("RECEIPT", "Failed to send receipt", map[string]interface{}{
			"error":      err.Error(),
			"payment_id": payload.PaymentId,
		})
		msg.Ack()
		return
	}

	cs.logger.Info("RECEIPT", "Receipt sent", map[string]interface{}{
		"payment_id": payload.PaymentId,
		"purpose":    payload.Purpose,
	})
	msg.Ack()
}
