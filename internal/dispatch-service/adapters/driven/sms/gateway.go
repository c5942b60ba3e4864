package sms

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"safri360/internal/config"
	"safri360/internal/dispatch-service/core/myerrors"
	"safri360/internal/dispatch-service/core/ports"
	"safri360/internal/mylogger"
)

// Gateway posts messages to an HTTP SMS provider. When sending is disabled
// by config, Send fails up front so callers abort before touching any state.
type Gateway struct {
	cfg    *config.Smsconfig
	mylog  mylogger.Logger
	client *http.Client
}

func New(cfg *config.Smsconfig, mylog mylogger.Logger) ports.ISmsSender {
	return &Gateway{
		cfg:   cfg,
		mylog: mylog,
		client: &http.Client{
			Timeout: time.Second * 10,
		},
	}
}

type sendRequest struct {
	To      string `json:"to"`
	From    string `json:"from"`
	Message string `json:"message"`
}

func (g *Gateway) Send(ctx context.Context, phoneNumber, message string) error {
	log := g.mylog.Action("SendSms")

	if !g.cfg.Enabled {
		return myerrors.ErrSmsDisabled
	}

	body, err := json.Marshal(sendRequest{
		To:      phoneNumber,
		From:    g.cfg.Sender,
		Message: message,
	})
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.cfg.GatewayURL, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	if g.cfg.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+g.cfg.APIKey)
	}

	resp, err := g.client.Do(req)
	if err != nil {
		log.Error("sms gateway unreachable", err)
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("sms gateway returned %s", resp.Status)
	}
	log.Info("sms accepted", "to", phoneNumber)
	return nil
}
