// README: iFlytek (xfyun) speech recognition client over websocket.
package speech

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"roam/internal/keys"
)

const (
	xfyunHost = "iat-api.xfyun.cn"
	xfyunPath = "/v2/iat"

	// frameSize is the audio payload per websocket frame (40ms of 16k/16bit PCM).
	frameSize = 1280
)

// ErrSpeechKeysMissing is returned before any network attempt when the xfyun
// credentials are incomplete.
var ErrSpeechKeysMissing = errors.New("xfyun credentials not configured")

type credentialSource interface {
	Snapshot() keys.ApiKeys
}

// Recognizer converts base64 PCM audio into text via the xfyun IAT service.
type Recognizer struct {
	creds credentialSource

	dial func(ctx context.Context, url string) (*websocket.Conn, error)
}

func NewRecognizer(creds credentialSource) *Recognizer {
	return &Recognizer{
		creds: creds,
		dial: func(ctx context.Context, u string) (*websocket.Conn, error) {
			conn, _, err := websocket.DefaultDialer.DialContext(ctx, u, nil)
			return conn, err
		},
	}
}

// signedURL builds the authenticated websocket URL. The signature is an
// HMAC-SHA256 over "host: ...\ndate: ...\nGET /v2/iat HTTP/1.1" with the API
// secret, base64-encoded twice per the vendor's scheme.
func signedURL(k keys.XfyunKeys, date time.Time) string {
	dateStr := date.UTC().Format("Mon, 02 Jan 2006 15:04:05 GMT")

	origin := fmt.Sprintf("host: %s\ndate: %s\nGET %s HTTP/1.1", xfyunHost, dateStr, xfyunPath)
	mac := hmac.New(sha256.New, []byte(k.APISecret))
	mac.Write([]byte(origin))
	signature := base64.StdEncoding.EncodeToString(mac.Sum(nil))

	authOrigin := fmt.Sprintf(
		`api_key="%s", algorithm="hmac-sha256", headers="host date request-line", signature="%s"`,
		k.APIKey, signature,
	)
	authorization := base64.StdEncoding.EncodeToString([]byte(authOrigin))

	params := url.Values{}
	params.Set("authorization", authorization)
	params.Set("date", dateStr)
	params.Set("host", xfyunHost)
	return "wss://" + xfyunHost + xfyunPath + "?" + params.Encode()
}

type iatFrame struct {
	Common *struct {
		AppID string `json:"app_id"`
	} `json:"common,omitempty"`
	Business *struct {
		Language string `json:"language"`
		Domain   string `json:"domain"`
		Accent   string `json:"accent"`
	} `json:"business,omitempty"`
	Data struct {
		Status   int    `json:"status"`
		Format   string `json:"format"`
		Encoding string `json:"encoding"`
		Audio    string `json:"audio"`
	} `json:"data"`
}

type iatResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    struct {
		Status int `json:"status"`
		Result struct {
			Ws []struct {
				Cw []struct {
					W string `json:"w"`
				} `json:"cw"`
			} `json:"ws"`
		} `json:"result"`
	} `json:"data"`
}

// Recognize streams base64-encoded 16kHz PCM audio to xfyun and returns the
// transcript. The caller's context bounds the whole exchange.
func (r *Recognizer) Recognize(ctx context.Context, audioBase64 string) (string, error) {
	bundle := r.creds.Snapshot()
	if !bundle.XfyunConfigured() {
		return "", ErrSpeechKeysMissing
	}
	audio, err := base64.StdEncoding.DecodeString(audioBase64)
	if err != nil {
		return "", fmt.Errorf("speech: decode audio: %w", err)
	}
	if len(audio) == 0 {
		return "", errors.New("speech: empty audio")
	}

	conn, err := r.dial(ctx, signedURL(bundle.Xfyun, time.Now()))
	if err != nil {
		return "", fmt.Errorf("speech: dial xfyun: %w", err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetReadDeadline(deadline)
		_ = conn.SetWriteDeadline(deadline)
	}

	if err := r.sendFrames(conn, bundle.Xfyun.AppID, audio); err != nil {
		return "", err
	}
	return r.collect(conn)
}

// sendFrames chunks the audio onto the stream: status 0 opens (with common and
// business sections), 1 continues, 2 closes.
func (r *Recognizer) sendFrames(conn *websocket.Conn, appID string, audio []byte) error {
	for offset := 0; offset < len(audio); offset += frameSize {
		end := offset + frameSize
		if end > len(audio) {
			end = len(audio)
		}

		var frame iatFrame
		if offset == 0 {
			frame.Common = &struct {
				AppID string `json:"app_id"`
			}{AppID: appID}
			frame.Business = &struct {
				Language string `json:"language"`
				Domain   string `json:"domain"`
				Accent   string `json:"accent"`
			}{Language: "zh_cn", Domain: "iat", Accent: "mandarin"}
		}
		frame.Data.Status = 1
		if offset == 0 {
			frame.Data.Status = 0
		}
		if end == len(audio) {
			frame.Data.Status = 2
		}
		frame.Data.Format = "audio/L16;rate=16000"
		frame.Data.Encoding = "raw"
		frame.Data.Audio = base64.StdEncoding.EncodeToString(audio[offset:end])

		if err := conn.WriteJSON(frame); err != nil {
			return fmt.Errorf("speech: send frame: %w", err)
		}
	}
	return nil
}

// collect reads result messages until the vendor marks the session complete.
func (r *Recognizer) collect(conn *websocket.Conn) (string, error) {
	var sb strings.Builder
	for {
		var resp iatResponse
		if err := conn.ReadJSON(&resp); err != nil {
			return "", fmt.Errorf("speech: read result: %w", err)
		}
		if resp.Code != 0 {
			return "", fmt.Errorf("speech: xfyun error %d: %s", resp.Code, resp.Message)
		}
		for _, ws := range resp.Data.Result.Ws {
			for _, cw := range ws.Cw {
				sb.WriteString(cw.W)
			}
		}
		if resp.Data.Status == 2 {
			return sb.String(), nil
		}
	}
}
