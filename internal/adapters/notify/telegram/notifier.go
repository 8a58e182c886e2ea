// Package telegram delivers contact-form requests to the shop's Telegram chats.
package telegram

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/arazdetector/mdbaku/internal/domain"
)

const defaultAPI = "https://api.telegram.org"

type Notifier struct {
	token      string
	chatIDs    []string
	apiBase    string
	httpClient *http.Client
}

func New(token string, chatIDs []string) *Notifier {
	ids := make([]string, 0, len(chatIDs))
	for _, id := range chatIDs {
		if id = strings.TrimSpace(id); id != "" {
			ids = append(ids, id)
		}
	}
	return &Notifier{token: token, chatIDs: ids, apiBase: defaultAPI, httpClient: &http.Client{Timeout: 10 * time.Second}}
}

var mdEscaper = strings.NewReplacer("_", `\_`, "*", `\*`, "`", "\\`", "[", `\[`)

// Text renders the request as a Markdown message.
func Text(req domain.ContactRequest) string {
	var b strings.Builder
	b.WriteString("🔥 *Новая заявка с сайта MD Baku*\n\n")
	fmt.Fprintf(&b, "👤 *Имя:* %s\n", mdEscaper.Replace(req.Name))
	fmt.Fprintf(&b, "📞 *Телефон:* %s\n", mdEscaper.Replace(req.Phone))
	fmt.Fprintf(&b, "💬 *Сообщение:* %s", mdEscaper.Replace(req.Message))
	return b.String()
}

type sendMessage struct {
	ChatID                string `json:"chat_id"`
	Text                  string `json:"text"`
	ParseMode             string `json:"parse_mode"`
	DisableWebPagePreview bool   `json:"disable_web_page_preview"`
}

// NotifyContact sends to every chat. It succeeds when at least one chat received the
// message and otherwise returns the last failure.
func (n *Notifier) NotifyContact(ctx context.Context, req domain.ContactRequest) error {
	if n.token == "" || len(n.chatIDs) == 0 {
		return fmt.Errorf("telegram not configured")
	}
	apiURL := n.apiBase + "/bot" + n.token + "/sendMessage"
	text := Text(req)
	var (
		lastErr   error
		delivered int
	)
	for _, id := range n.chatIDs {
		body, _ := json.Marshal(sendMessage{ChatID: id, Text: text, ParseMode: "Markdown", DisableWebPagePreview: true})
		httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, apiURL, bytes.NewReader(body))
		if err != nil {
			return err
		}
		httpReq.Header.Set("Content-Type", "application/json")
		resp, err := n.httpClient.Do(httpReq)
		if err != nil {
			lastErr = err
			log.Warn().Err(err).Str("chat_id", id).Msg("telegram send failed")
			continue
		}
		func() {
			defer resp.Body.Close()
			if resp.StatusCode >= 300 {
				raw, _ := io.ReadAll(io.LimitReader(resp.Body, 2048))
				lastErr = fmt.Errorf("telegram status %d: %s", resp.StatusCode, string(raw))
				log.Warn().Str("chat_id", id).Int("status", resp.StatusCode).Msg("telegram send failed")
				return
			}
			delivered++
		}()
	}
	if delivered > 0 {
		return nil
	}
	return lastErr
}
