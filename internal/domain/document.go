package domain

// Document is a generated account document (tariff, contract, receipt).
type Document struct {
	URL      string `json:"url" validate:"http_url" fake:"url"`
	Document string `json:"document" fake:"text"` // opaque body
}

// GetTariffDocumentResponse wraps the account tariff.
type GetTariffDocumentResponse struct {
	Tariff Document `json:"tariff"`
}

// GetContractDocumentResponse wraps the account contract.
type GetContractDocumentResponse struct {
	Contract Document `json:"contract"`
}
