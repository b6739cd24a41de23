package providers

import (
	"bytes"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// FastPayGateway is the HTTP client for the FastPay disbursement API.
// Requests carry an MD5 digest of body+secret in the Digest header.
type FastPayGateway struct {
	ApiURL    string
	ClientID  string
	SecretKey string
	Client    *http.Client
}

type fastPayResponse struct {
	Code       int    `json:"code"`
	Message    string `json:"message"`
	TransferID string `json:"transfer_id"`
	Status     string `json:"status"`
}

func (g *FastPayGateway) CreatePayout(req PayoutRequest) (*PayoutResult, error) {
	payload := map[string]any{
		"client_id":        g.ClientID,
		"reference_id":     req.ReferenceID,
		"amount":           req.Amount.StringFixed(2),
		"account_number":   req.AccountNumber,
		"account_ifsc":     req.AccountIFSC,
		"bank_name":        req.BankName,
		"beneficiary_name": req.BeneficiaryName,
		"remark":           req.Remark,
	}
	return g.post("/api/v1/transfers", payload)
}

func (g *FastPayGateway) CheckStatus(gatewayRef string) (*PayoutResult, error) {
	payload := map[string]any{
		"client_id":   g.ClientID,
		"transfer_id": gatewayRef,
	}
	return g.post("/api/v1/transfers/status", payload)
}

func (g *FastPayGateway) post(path string, payload map[string]any) (*PayoutResult, error) {
	jsonBody, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal payload failed: %w", err)
	}

	digestRaw := string(jsonBody) + g.SecretKey
	digestHash := md5.Sum([]byte(digestRaw))
	digest := hex.EncodeToString(digestHash[:])

	httpReq, err := http.NewRequest("POST", g.ApiURL+path, bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("create request failed: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Digest", digest)

	resp, err := g.Client.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("http request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response failed: %w", err)
	}
	if resp.StatusCode != 200 {
		return nil, fmt.Errorf("gateway request failed, status=%d body=%s", resp.StatusCode, string(bodyBytes))
	}

	var result fastPayResponse
	if err := json.Unmarshal(bodyBytes, &result); err != nil {
		return nil, fmt.Errorf("decode response failed: %w", err)
	}

	if result.Code != 0 {
		return nil, fmt.Errorf("gateway rejected request (code %d): %s", result.Code, result.Message)
	}

	return &PayoutResult{
		GatewayRef: result.TransferID,
		Status:     result.Status,
		Message:    result.Message,
	}, nil
}

func init() {
	_ = godotenv.Load()

	RegisterGateway("FASTPAY", &FastPayGateway{
		ApiURL:    os.Getenv("FASTPAY_API_URL"),
		ClientID:  os.Getenv("FASTPAY_CLIENT_ID"),
		SecretKey: os.Getenv("FASTPAY_SECRET_KEY"),
		Client:    &http.Client{Timeout: 30 * time.Second},
	})
}
