package billing

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"gorm.io/datatypes"
)

type ContextType string

const (
	ContextStandalone  ContextType = "standalone"
	ContextReservation ContextType = "reservation"
	ContextRefund      ContextType = "refund"
)

// PaymentContext is the tagged variant stored in Transaction.Metadata. It is
// validated at construction so confirmation never has to sniff field shapes.
type PaymentContext struct {
	Type ContextType `json:"type"`

	// reservation
	ReservationID  uint       `json:"reservationId,omitempty"`
	CommonAreaID   uint       `json:"commonAreaId,omitempty"`
	CommonAreaName string     `json:"commonAreaName,omitempty"`
	StartDateTime  *time.Time `json:"startDateTime,omitempty"`
	EndDateTime    *time.Time `json:"endDateTime,omitempty"`

	// refund
	OriginalTransactionID string `json:"originalTransactionId,omitempty"`
	RefundReason          string `json:"refundReason,omitempty"`
	RefundType            string `json:"refundType,omitempty"`
}

func StandaloneContext() PaymentContext {
	return PaymentContext{Type: ContextStandalone}
}

func NewReservationContext(reservationID, areaID uint, areaName string, start, end time.Time) (PaymentContext, error) {
	if reservationID == 0 {
		return PaymentContext{}, errors.New("reservation context requires a reservation id")
	}
	return PaymentContext{
		Type:           ContextReservation,
		ReservationID:  reservationID,
		CommonAreaID:   areaID,
		CommonAreaName: areaName,
		StartDateTime:  &start,
		EndDateTime:    &end,
	}, nil
}

func RefundContext(originalTransactionID, reason, refundType string) PaymentContext {
	return PaymentContext{
		Type:                  ContextRefund,
		OriginalTransactionID: originalTransactionID,
		RefundReason:          reason,
		RefundType:            refundType,
	}
}

func (pc PaymentContext) Validate() error {
	switch pc.Type {
	case ContextStandalone:
		return nil
	case ContextReservation:
		if pc.ReservationID == 0 {
			return errors.New("reservation context requires a reservation id")
		}
		return nil
	case ContextRefund:
		if pc.OriginalTransactionID == "" {
			return errors.New("refund context requires the original transaction id")
		}
		return nil
	default:
		return fmt.Errorf("unknown payment context type %q", pc.Type)
	}
}

func (pc PaymentContext) JSON() (datatypes.JSON, error) {
	if err := pc.Validate(); err != nil {
		return nil, err
	}
	raw, err := json.Marshal(pc)
	if err != nil {
		return nil, err
	}
	return datatypes.JSON(raw), nil
}

// ParseContext decodes the metadata column. Empty metadata is treated as a
// standalone payment for rows written before contexts were tagged.
func ParseContext(raw datatypes.JSON) (PaymentContext, error) {
	if len(raw) == 0 {
		return StandaloneContext(), nil
	}
	var pc PaymentContext
	if err := json.Unmarshal(raw, &pc); err != nil {
		return PaymentContext{}, err
	}
	if pc.Type == "" {
		pc.Type = ContextStandalone
	}
	if err := pc.Validate(); err != nil {
		return PaymentContext{}, err
	}
	return pc, nil
}
