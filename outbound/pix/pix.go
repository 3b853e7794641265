// Package pix talks to the PIX payment provider's cob API: create a charge,
// fetch its QR code and copy-paste payload, and read its status. The
// provider reports a paid cob with status "CONCLUIDA".
package pix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/spf13/viper"

	"charity-raffle/common/errs"
)

type Charge struct {
	TransactionId string
	QrCodeImage   string
	CopyPaste     string
}

type PixOutbound struct {
	Cfg        *viper.Viper
	HttpClient *http.Client

	baseUrl    string
	token      string
	key        string
	expiration int
}

func (out *PixOutbound) Init() {
	out.baseUrl = out.Cfg.GetString("pix.base_url")
	out.token = out.Cfg.GetString("pix.token")
	out.key = out.Cfg.GetString("pix.key")
	out.expiration = out.Cfg.GetInt("pix.expiration_seconds")

	if out.HttpClient == nil {
		out.HttpClient = &http.Client{Timeout: 15 * time.Second}
	}
}

type createCobRequest struct {
	Calendario struct {
		Expiracao int `json:"expiracao"`
	} `json:"calendario"`
	Devedor struct {
		Cpf  string `json:"cpf"`
		Nome string `json:"nome"`
	} `json:"devedor"`
	Valor struct {
		Original string `json:"original"`
	} `json:"valor"`
	Chave              string `json:"chave"`
	SolicitacaoPagador string `json:"solicitacaoPagador"`
}

type createCobResponse struct {
	Txid string `json:"txid"`
	Loc  struct {
		Id int64 `json:"id"`
	} `json:"loc"`
}

type qrCodeResponse struct {
	QrCode       string `json:"qrcode"`
	ImagemQrCode string `json:"imagemQrcode"`
}

type cobStatusResponse struct {
	Status string `json:"status"`
}

// CreateCharge opens a cob for the given amount and returns the txid plus
// the payable artifacts (QR image, copia-e-cola).
func (out *PixOutbound) CreateCharge(ctx context.Context, amountCents int64, payerName, payerCpf, description string) (Charge, error) {
	var req createCobRequest
	req.Calendario.Expiracao = out.expiration
	req.Devedor.Cpf = payerCpf
	req.Devedor.Nome = payerName
	req.Valor.Original = fmt.Sprintf("%d.%02d", amountCents/100, amountCents%100)
	req.Chave = out.key
	req.SolicitacaoPagador = description

	var cob createCobResponse
	if err := out.doJSON(ctx, http.MethodPost, "/v2/cob", req, &cob); err != nil {
		return Charge{}, err
	}

	var qr qrCodeResponse
	path := fmt.Sprintf("/v2/loc/%d/qrcode", cob.Loc.Id)
	if err := out.doJSON(ctx, http.MethodGet, path, nil, &qr); err != nil {
		return Charge{}, err
	}

	return Charge{
		TransactionId: cob.Txid,
		QrCodeImage:   qr.ImagemQrCode,
		CopyPaste:     qr.QrCode,
	}, nil
}

// ChargeStatus reads the cob status for a txid.
func (out *PixOutbound) ChargeStatus(ctx context.Context, transactionId string) (string, error) {
	var resp cobStatusResponse
	if err := out.doJSON(ctx, http.MethodGet, "/v2/cob/"+transactionId, nil, &resp); err != nil {
		return "", err
	}
	return resp.Status, nil
}

func (out *PixOutbound) doJSON(ctx context.Context, method, path string, body, result any) error {
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req, err := http.NewRequestWithContext(ctx, method, out.baseUrl+path, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+out.token)

	resp, err := out.HttpClient.Do(req)
	if err != nil {
		return &errs.NetworkError{Op: fmt.Sprintf("pix %s %s", method, path), Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return &errs.NetworkError{
			Op:  fmt.Sprintf("pix %s %s", method, path),
			Err: fmt.Errorf("unexpected status %d", resp.StatusCode),
		}
	}

	if result == nil {
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return &errs.NetworkError{Op: fmt.Sprintf("pix decode %s", path), Err: err}
	}

	return nil
}
