package providers

import (
	"strings"

	"github.com/shopspring/decimal"
)

// PayoutRequest is the outbound transfer order sent to a gateway.
type PayoutRequest struct {
	ReferenceID     string          `json:"reference_id"`
	Amount          decimal.Decimal `json:"amount"`
	AccountNumber   string          `json:"account_number"`
	AccountIFSC     string          `json:"account_ifsc"`
	BankName        string          `json:"bank_name"`
	BeneficiaryName string          `json:"beneficiary_name"`
	Remark          string          `json:"remark"`
}

type PayoutResult struct {
	GatewayRef string `json:"gateway_ref"`
	Status     string `json:"status"`
	Message    string `json:"message"`
}

type PayoutGateway interface {
	CreatePayout(req PayoutRequest) (*PayoutResult, error)
	CheckStatus(gatewayRef string) (*PayoutResult, error)
}

var gateways = map[string]PayoutGateway{}

func RegisterGateway(name string, g PayoutGateway) {
	gateways[strings.ToLower(name)] = g
}

func GetGateway(name string) PayoutGateway {
	return gateways[strings.ToLower(name)]
}
