package model

type LavaInvoiceData struct {
	ID  string `json:"id"`
	URL string `json:"url"`
}

type LavaInvoiceResult struct {
	Success bool             `json:"success"`
	Message string           `json:"message"`
	Data    *LavaInvoiceData `json:"data"`
}
