// Package gateway 负责内容寻址引用（ipfs://CID）的解析与上传固定。
// 引用缺失或无法解析时一律退化为空结果/占位引用，绝不作为错误上抛。
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"

	"github.com/hetansh2220/hoperise/internal/config"
	"github.com/hetansh2220/hoperise/internal/logger"
)

const (
	// Scheme 内容寻址引用的固定前缀
	Scheme = "ipfs://"
	// PlaceholderRef 未配置固定服务时上传返回的占位引用
	PlaceholderRef = "ipfs://placeholder"
)

// Resolve 把内容寻址引用替换为可抓取地址。
// 空引用和占位引用解析为空字符串；非 ipfs 引用原样返回。
func Resolve(ref, prefix string) string {
	if ref == "" || ref == PlaceholderRef {
		return ""
	}
	if !strings.HasPrefix(ref, Scheme) {
		return ref
	}
	return prefix + strings.TrimPrefix(ref, Scheme)
}

// Client 固定服务客户端：上传文件/文本并返回 ipfs:// 引用
type Client struct {
	endpoint string
	prefix   string
	jwt      string
	retry    bool
	http     *http.Client
}

// NewClient 创建固定服务客户端
func NewClient(cfg config.GatewayConfig) *Client {
	return &Client{
		endpoint: cfg.PinEndpoint,
		prefix:   cfg.Prefix,
		jwt:      cfg.PinJWT,
		retry:    cfg.Retry,
		http:     &http.Client{Timeout: 60 * time.Second},
	}
}

// Resolve 按配置的网关前缀解析引用
func (c *Client) Resolve(ref string) string {
	return Resolve(ref, c.prefix)
}

type pinResponse struct {
	IpfsHash string `json:"IpfsHash"`
}

// PinFile 上传文件内容并返回 ipfs:// 引用。
// 未配置令牌时返回占位引用（降级而非报错），内容不会被固定。
func (c *Client) PinFile(ctx context.Context, filename string, content io.Reader) (string, error) {
	if c.jwt == "" {
		logger.Warn("Pin JWT not configured, returning placeholder reference")
		return PlaceholderRef, nil
	}

	body, err := io.ReadAll(content)
	if err != nil {
		return "", fmt.Errorf("failed to read content: %w", err)
	}

	operation := func() (string, error) {
		return c.pin(ctx, filename, body)
	}

	if c.retry {
		return backoff.Retry(ctx, operation,
			backoff.WithBackOff(backoff.NewExponentialBackOff()),
			backoff.WithMaxTries(3))
	}
	return operation()
}

// PinText 上传一段文本（活动故事等）并返回 ipfs:// 引用
func (c *Client) PinText(ctx context.Context, text, filename string) (string, error) {
	if filename == "" {
		filename = "story.txt"
	}
	return c.PinFile(ctx, filename, strings.NewReader(text))
}

// pin 单次上传尝试
func (c *Client) pin(ctx context.Context, filename string, content []byte) (string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return "", err
	}
	if _, err := part.Write(content); err != nil {
		return "", err
	}
	if err := writer.Close(); err != nil {
		return "", err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, &buf)
	if err != nil {
		return "", err
	}
	req.Header.Set("Authorization", "Bearer "+c.jwt)
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("pin upload failed: %s: %s", resp.Status, strings.TrimSpace(string(raw)))
	}

	var pinned pinResponse
	if err := json.NewDecoder(resp.Body).Decode(&pinned); err != nil {
		return "", fmt.Errorf("failed to decode pin response: %w", err)
	}
	if pinned.IpfsHash == "" {
		return "", fmt.Errorf("pin response missing content hash")
	}

	return Scheme + pinned.IpfsHash, nil
}
