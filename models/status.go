package models

import (
	"encoding/json"
	"fmt"
)

type TableStatus string

const (
	TableFree     TableStatus = "FREE"
	TableOccupied TableStatus = "OCCUPIED"
	TableReserved TableStatus = "RESERVED"
)

func ParseTableStatus(s string) (TableStatus, error) {
	st := TableStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid table status %q", s)
	}
	return st, nil
}

func (s TableStatus) Valid() bool {
	switch s {
	case TableFree, TableOccupied, TableReserved:
		return true
	}
	return false
}

func (s *TableStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, ParseTableStatus)
}

type ReservationStatus string

const (
	ReservationConfirmed ReservationStatus = "CONFIRMED"
	ReservationCancelled ReservationStatus = "CANCELLED"
	ReservationCompleted ReservationStatus = "COMPLETED"
)

func ParseReservationStatus(s string) (ReservationStatus, error) {
	st := ReservationStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid reservation status %q", s)
	}
	return st, nil
}

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationConfirmed, ReservationCancelled, ReservationCompleted:
		return true
	}
	return false
}

func (s *ReservationStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, ParseReservationStatus)
}

type OrderStatus string

const (
	OrderPending   OrderStatus = "PENDING"
	OrderCompleted OrderStatus = "COMPLETED"
	OrderCancelled OrderStatus = "CANCELLED"
)

func ParseOrderStatus(s string) (OrderStatus, error) {
	st := OrderStatus(s)
	if !st.Valid() {
		return "", fmt.Errorf("invalid order status %q", s)
	}
	return st, nil
}

func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderCompleted, OrderCancelled:
		return true
	}
	return false
}

func (s *OrderStatus) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, s, ParseOrderStatus)
}

type ProductUnit string

const (
	UnitKG  ProductUnit = "KG"
	UnitL   ProductUnit = "L"
	UnitPCS ProductUnit = "PCS"
)

func ParseProductUnit(s string) (ProductUnit, error) {
	u := ProductUnit(s)
	if !u.Valid() {
		return "", fmt.Errorf("invalid unit %q", s)
	}
	return u, nil
}

func (u ProductUnit) Valid() bool {
	switch u {
	case UnitKG, UnitL, UnitPCS:
		return true
	}
	return false
}

func (u *ProductUnit) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, u, ParseProductUnit)
}

type PaymentMethod string

const (
	PaymentCash   PaymentMethod = "CASH"
	PaymentCard   PaymentMethod = "CARD"
	PaymentOnline PaymentMethod = "ONLINE"
)

func ParsePaymentMethod(s string) (PaymentMethod, error) {
	m := PaymentMethod(s)
	if !m.Valid() {
		return "", fmt.Errorf("invalid payment method %q", s)
	}
	return m, nil
}

func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentCard, PaymentOnline:
		return true
	}
	return false
}

func (m *PaymentMethod) UnmarshalJSON(data []byte) error {
	return unmarshalEnum(data, m, ParsePaymentMethod)
}

func unmarshalEnum[T ~string](data []byte, dst *T, parse func(string) (T, error)) error {
	var raw string
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	v, err := parse(raw)
	if err != nil {
		return err
	}
	*dst = v
	return nil
}
