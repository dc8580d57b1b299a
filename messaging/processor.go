package messaging

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/messaging/azservicebus"
	"github.com/rs/zerolog/log"

	"example.com/storebunk/services/pos/handlers"
	"example.com/storebunk/services/pos/utils"
)

// Command type tags carried by uploaded terminal messages
const (
	StartNewOrderOffline = "StartNewOrderOffline"
	MarkOrderPendingSync = "MarkOrderPendingSync"
	SyncOrderOnline      = "SyncOrderOnline"
	ParkOrder            = "ParkOrder"
	ResumeOrder          = "ResumeOrder"
	InitiateCheckout     = "InitiateCheckout"
	RequestPayment       = "RequestPayment"
	CompleteOrder        = "CompleteOrder"
	CancelOrder          = "CancelOrder"
	RecordCashDrop       = "RecordCashDrop"
	EndSession           = "EndSession"
)

// AzureBusMessage is the common message structure
type AzureBusMessage struct {
	CommandType string          `json:"commandType"`
	Data        json.RawMessage `json:"data"`
}

type MessageProcessor interface {
	ProcessMessage(ctx context.Context, message *azservicebus.ReceivedMessage) error
}

// Processor dispatches uploaded terminal commands to the handlers. These
// are the commands a terminal queued while offline and replays in order
// once connectivity returns.
type Processor struct {
	sessionHandler *handlers.SessionHandler
	offlineHandler *handlers.OfflineHandler
	shiftHandler   *handlers.ShiftHandler
}

func NewProcessor(
	sessionHandler *handlers.SessionHandler,
	offlineHandler *handlers.OfflineHandler,
	shiftHandler *handlers.ShiftHandler,
) *Processor {
	return &Processor{
		sessionHandler: sessionHandler,
		offlineHandler: offlineHandler,
		shiftHandler:   shiftHandler,
	}
}

func (p *Processor) ProcessMessage(ctx context.Context, message *azservicebus.ReceivedMessage) error {
	var msg AzureBusMessage
	if err := json.Unmarshal(message.Body, &msg); err != nil {
		return fmt.Errorf("error unmarshalling message: %w", err)
	}

	log.Info().Str("commandType", msg.CommandType).Msg("Processing message")

	switch msg.CommandType {
	case StartNewOrderOffline:
		var cmd handlers.StartNewOrderOfflineCommand
		if err := decode(msg.Data, &cmd); err != nil {
			return err
		}
		return p.offlineHandler.HandleStartNewOrderOffline(ctx, cmd)

	case MarkOrderPendingSync:
		var cmd handlers.MarkOrderPendingSyncCommand
		if err := decode(msg.Data, &cmd); err != nil {
			return err
		}
		return p.offlineHandler.HandleMarkOrderPendingSync(ctx, cmd)

	case SyncOrderOnline:
		var cmd handlers.SyncOrderOnlineCommand
		if err := decode(msg.Data, &cmd); err != nil {
			return err
		}
		return p.offlineHandler.HandleSyncOrderOnline(ctx, cmd)

	case ParkOrder:
		var cmd handlers.ParkOrderCommand
		if err := decode(msg.Data, &cmd); err != nil {
			return err
		}
		return p.sessionHandler.HandleParkOrder(ctx, cmd)

	case ResumeOrder:
		var cmd handlers.ResumeOrderCommand
		if err := decode(msg.Data, &cmd); err != nil {
			return err
		}
		return p.sessionHandler.HandleResumeOrder(ctx, cmd)

	case InitiateCheckout:
		var cmd handlers.InitiateCheckoutCommand
		if err := decode(msg.Data, &cmd); err != nil {
			return err
		}
		return p.sessionHandler.HandleInitiateCheckout(ctx, cmd)

	case RequestPayment:
		var cmd handlers.RequestPaymentCommand
		if err := decode(msg.Data, &cmd); err != nil {
			return err
		}
		return p.sessionHandler.HandleRequestPayment(ctx, cmd)

	case CompleteOrder:
		var cmd handlers.CompleteOrderCommand
		if err := decode(msg.Data, &cmd); err != nil {
			return err
		}
		return p.sessionHandler.HandleCompleteOrder(ctx, cmd)

	case CancelOrder:
		var cmd handlers.CancelOrderCommand
		if err := decode(msg.Data, &cmd); err != nil {
			return err
		}
		return p.sessionHandler.HandleCancelOrder(ctx, cmd)

	case RecordCashDrop:
		var cmd handlers.RecordCashDropCommand
		if err := decode(msg.Data, &cmd); err != nil {
			return err
		}
		return p.shiftHandler.HandleRecordCashDrop(ctx, cmd)

	case EndSession:
		var cmd handlers.EndSessionCommand
		if err := decode(msg.Data, &cmd); err != nil {
			return err
		}
		return p.sessionHandler.HandleEndSession(ctx, cmd)

	default:
		return fmt.Errorf("unsupported command type: %s", msg.CommandType)
	}
}

// decode unmarshals and validates one command payload
func decode(data json.RawMessage, cmd interface{}) error {
	if err := json.Unmarshal(data, cmd); err != nil {
		return fmt.Errorf("error unmarshalling command: %w", err)
	}
	if err := utils.ValidateStruct(cmd); err != nil {
		return fmt.Errorf("invalid command payload: %w", err)
	}
	return nil
}
