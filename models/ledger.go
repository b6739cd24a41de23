package models

import (
	"github.com/shopspring/decimal"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	EntryTypeSettlement = "settlement"
	EntryTypePayout     = "payout"
	EntryTypeRefund     = "refund"

	StatusPending   = "pending"
	StatusCompleted = "completed"
	StatusFailed    = "failed"
	StatusReversed  = "reversed"
)

// LedgerEntry is the immutable record of one settlement or payout action.
// Only Status and the gateway fields change after creation, and only through
// services.ResolvePayout; everything else is written once.
type LedgerEntry struct {
	gorm.Model

	ReferenceID  string `gorm:"uniqueIndex;size:64" json:"reference_id"`
	MerchantID   uint   `gorm:"index" json:"merchant_id"`
	MerchantCode string `gorm:"size:32;index" json:"merchant_code"`
	EntryType    string `gorm:"size:16;index" json:"entry_type"`

	Amount         decimal.Decimal `gorm:"type:numeric(20,2)" json:"amount"`
	AdminCharge    decimal.Decimal `gorm:"type:numeric(20,2)" json:"admin_charge"`
	AgentCharge    decimal.Decimal `gorm:"type:numeric(20,2)" json:"agent_charge"`
	PlatformFee    decimal.Decimal `gorm:"type:numeric(20,2)" json:"platform_fee"`
	GSTAmount      decimal.Decimal `gorm:"type:numeric(20,2);column:gst_amount" json:"gst_amount"`
	TotalDeduction decimal.Decimal `gorm:"type:numeric(20,2)" json:"total_deduction"`
	BalanceBefore  decimal.Decimal `gorm:"type:numeric(20,2)" json:"balance_before"`
	BalanceAfter   decimal.Decimal `gorm:"type:numeric(20,2)" json:"balance_after"`

	AccountNumber   string `gorm:"size:32" json:"account_number,omitempty"`
	AccountIFSC     string `gorm:"size:16;column:account_ifsc" json:"account_ifsc,omitempty"`
	BankName        string `gorm:"size:64" json:"bank_name,omitempty"`
	BeneficiaryName string `gorm:"size:128" json:"beneficiary_name,omitempty"`

	Status         string         `gorm:"size:16;index" json:"status"`
	Remark         string         `gorm:"size:255" json:"remark"`
	GatewayRef     string         `gorm:"size:64;index" json:"gateway_ref,omitempty"`
	GatewayPayload datatypes.JSON `json:"gateway_payload,omitempty"`
	CreatedBy      string         `gorm:"size:64" json:"created_by"`
}
