package handler

import "time"

type createInvoiceRequest struct {
	InvoiceNumber string    `json:"invoiceNumber" validate:"required"`
	InvoiceDate   time.Time `json:"invoiceDate"   validate:"required"`
	Amount        float64   `json:"amount"        validate:"required,gt=0"`
}

// updateInvoiceRequest carries a partial update; absent fields stay
// unchanged.
type updateInvoiceRequest struct {
	InvoiceNumber *string    `json:"invoiceNumber"`
	InvoiceDate   *time.Time `json:"invoiceDate"`
	Amount        *float64   `json:"amount" validate:"omitempty,gt=0"`
}

type nextNumberData struct {
	InvoiceNumber string `json:"invoiceNumber"`
}
