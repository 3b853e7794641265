// Package gateway is the storefront's HTTP client for the raffle backend:
// the taken-number snapshot, recent buyers, charge creation and charge
// status polling, and the sold-ticket list for the draw page.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"charity-raffle/common/constant"
	"charity-raffle/common/errs"
	"charity-raffle/model"
)

type Client struct {
	BaseUrl    string
	HttpClient *http.Client
}

func NewClient(baseUrl string, timeout time.Duration) *Client {
	return &Client{
		BaseUrl:    baseUrl,
		HttpClient: &http.Client{Timeout: timeout},
	}
}

func (c *Client) UnavailableNumbers(ctx context.Context) ([]int32, error) {
	var resp model.UnavailableNumbersResponse
	if err := c.getJSON(ctx, "/rifas/unavailable", &resp); err != nil {
		return nil, err
	}
	return resp.Unavailable, nil
}

func (c *Client) RecentBuyers(ctx context.Context) ([]model.RecentBuyer, error) {
	var resp model.RecentBuyersResponse
	if err := c.getJSON(ctx, "/rifas/recent-buyers", &resp); err != nil {
		return nil, err
	}
	return resp.Buyers, nil
}

func (c *Client) SoldNumbers(ctx context.Context) ([]model.SoldTicket, error) {
	var resp model.SoldNumbersResponse
	if err := c.getJSON(ctx, "/rifas/sold", &resp); err != nil {
		return nil, err
	}
	return resp.Sold, nil
}

func (c *Client) CreateCharge(ctx context.Context, req model.CreateChargeRequest) (model.PixTransaction, error) {
	body, err := json.Marshal(req)
	if err != nil {
		return model.PixTransaction{}, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.BaseUrl+"/payment", bytes.NewReader(body))
	if err != nil {
		return model.PixTransaction{}, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	var resp model.CreateChargeResponse
	if err := c.do(httpReq, &resp); err != nil {
		return model.PixTransaction{}, err
	}

	return model.PixTransaction{
		TransactionId: resp.TransactionId,
		QrCodeImage:   resp.QrCode,
		CopyPasteCode: resp.PixCopyPaste,
		AmountCents:   int64(len(req.Numbers)) * constant.TicketPriceCents,
	}, nil
}

func (c *Client) ChargeStatus(ctx context.Context, transactionId string) (string, error) {
	var resp model.ChargeStatusResponse
	if err := c.getJSON(ctx, "/payment/"+transactionId, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.BaseUrl+path, nil)
	if err != nil {
		return err
	}
	return c.do(req, out)
}

func (c *Client) do(req *http.Request, out any) error {
	resp, err := c.HttpClient.Do(req)
	if err != nil {
		return &errs.NetworkError{Op: fmt.Sprintf("%s %s", req.Method, req.URL.Path), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var errResp model.ErrorResponse
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errResp); decodeErr == nil && errResp.Error != "" {
			return &errs.HttpError{Code: resp.StatusCode, Message: errResp.Error, Data: errResp.Data}
		}
		return &errs.HttpError{Code: resp.StatusCode, Message: http.StatusText(resp.StatusCode)}
	}

	if out == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return &errs.NetworkError{Op: fmt.Sprintf("decode %s", req.URL.Path), Err: err}
	}

	return nil
}
