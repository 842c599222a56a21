package refundgateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/huayhub/huay-engine-backend/internal/models"
	"golang.org/x/exp/slog"
)

// Client notifies the upstream wallet service that a cancelled draw's admitted
// stakes must be returned. With Mock set it only logs, used in development.
type Client struct {
	BaseURL string
	APIKey  string
	Mock    bool
	client  *http.Client
}

// refundRequest is the wire payload for one cancelled draw.
type refundRequest struct {
	DrawID      string       `json:"drawId"`
	LotteryCode string       `json:"lotteryCode"`
	Positions   []refundLine `json:"positions"`
}

// refundLine is one sold position to be returned.
type refundLine struct {
	OptionType string `json:"optionType"`
	Number     string `json:"number"`
	MemberID   string `json:"memberId,omitempty"`
	Amount     int64  `json:"amount"`
}

// NewClient creates a new refund gateway client
func NewClient(baseURL, apiKey string, mock bool) *Client {
	return &Client{
		BaseURL: baseURL,
		APIKey:  apiKey,
		Mock:    mock,
		client:  &http.Client{Timeout: 10 * time.Second},
	}
}

// RefundDraw submits the sold positions of a cancelled draw for compensation.
func (c *Client) RefundDraw(drawID string, lotteryCode string, counters []*models.QuotaCounter) error {
	req := refundRequest{
		DrawID:      drawID,
		LotteryCode: lotteryCode,
	}
	// Member rows carry the identity the wallet service needs; whatever part of a
	// number pool no member row accounts for still goes back as a pool row, so the
	// payload always sums to the full admitted total.
	memberTotals := make(map[string]int64)
	for _, counter := range counters {
		if counter.MemberID == "" {
			continue
		}
		memberTotals[positionKey(counter)] += counter.Cumulative
		req.Positions = append(req.Positions, refundLine{
			OptionType: string(counter.OptionType),
			Number:     counter.Number,
			MemberID:   counter.MemberID,
			Amount:     counter.Cumulative,
		})
	}
	for _, counter := range counters {
		if counter.MemberID != "" {
			continue
		}
		residual := counter.Cumulative - memberTotals[positionKey(counter)]
		if residual > 0 {
			req.Positions = append(req.Positions, refundLine{
				OptionType: string(counter.OptionType),
				Number:     counter.Number,
				Amount:     residual,
			})
		}
	}

	if c.Mock {
		slog.Info("Mock refund submitted", "drawId", drawID, "lottery", lotteryCode, "positions", len(req.Positions))
		return nil
	}

	body, err := json.Marshal(req)
	if err != nil {
		return fmt.Errorf("failed to encode refund request: %w", err)
	}
	httpReq, err := http.NewRequest(http.MethodPost, c.BaseURL+"/refunds", bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("failed to build refund request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("X-API-Key", c.APIKey)

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return fmt.Errorf("refund gateway unreachable: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("refund gateway returned status %d", resp.StatusCode)
	}
	return nil
}

func positionKey(c *models.QuotaCounter) string {
	return string(c.OptionType) + "|" + c.Number
}
