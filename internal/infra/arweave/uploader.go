// internal/infra/arweave/uploader.go
package arweave

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	assetdom "narratives-nft/internal/domain/asset"
)

var ErrNotConfigured = errors.New("arweave: baseURL is empty; uploader endpoint not configured")

// HTTPUploader は Irys Uploader (Cloud Run) などの HTTP API を叩いて
// metadata JSON を Arweave に置きます。
type HTTPUploader struct {
	client  *http.Client
	baseURL string // 例: "https://narratives-irys-uploader-xxxx.asia-northeast1.run.app"
	apiKey  string // 認証が必要な場合に使用（IRYS_SERVICE_API_KEY など）
	log     *zap.Logger
}

var _ assetdom.MetadataUploader = (*HTTPUploader)(nil)

// NewHTTPUploader は Arweave/Irys 用の HTTP uploader を生成します。
func NewHTTPUploader(baseURL, apiKey string, log *zap.Logger) *HTTPUploader {
	if log == nil {
		log = zap.NewNop()
	}
	return &HTTPUploader{
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
		baseURL: strings.TrimRight(strings.TrimSpace(baseURL), "/"),
		apiKey:  strings.TrimSpace(apiKey),
		log:     log.Named("arweave"),
	}
}

// UploadMetadata は asset.MetadataUploader の実装です。
func (u *HTTPUploader) UploadMetadata(ctx context.Context, data []byte) (string, error) {
	return u.UploadJSON(ctx, data)
}

// UploadJSON は metadataJSON を POST {baseURL}/upload/json に送り、返ってきた uri を返します。
func (u *HTTPUploader) UploadJSON(ctx context.Context, metadataJSON []byte) (string, error) {
	if len(metadataJSON) == 0 {
		return "", fmt.Errorf("arweave: metadataJSON is empty")
	}
	if !json.Valid(metadataJSON) {
		return "", fmt.Errorf("arweave: metadataJSON is not valid JSON")
	}
	if u.baseURL == "" {
		return "", ErrNotConfigured
	}

	u.log.Debug("upload start", zap.String("baseURL", u.baseURL), zap.Int("len", len(metadataJSON)))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, u.baseURL+"/upload/json", bytes.NewReader(metadataJSON))
	if err != nil {
		return "", fmt.Errorf("arweave: create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	if u.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+u.apiKey)
	}

	resp, err := u.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("arweave: upload metadata: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		u.log.Warn("upload failed", zap.Int("status", resp.StatusCode), zap.ByteString("body", body))
		return "", fmt.Errorf("arweave: upload metadata failed: status=%d body=%s", resp.StatusCode, string(body))
	}

	var res struct {
		URI string `json:"uri"` // 例: "https://gateway.irys.xyz/xxxx"
	}
	if err := json.Unmarshal(body, &res); err != nil {
		return "", fmt.Errorf("arweave: decode upload response: %w", err)
	}
	if strings.TrimSpace(res.URI) == "" {
		return "", fmt.Errorf("arweave: upload response has empty uri")
	}

	u.log.Info("metadata uploaded", zap.String("uri", res.URI))
	return res.URI, nil
}
