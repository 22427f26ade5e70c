package application

// Services bundles what the inbound adapters call into.
type Services struct {
	Invoices *InvoiceService
	Payments *PaymentService
	Exports  *ExportService
}
