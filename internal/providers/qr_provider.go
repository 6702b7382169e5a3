package providers

import (
	"context"
	"fmt"
	"fvm/internal/structures"
	"net/url"
	"strconv"

	"github.com/go-resty/resty/v2"
)

type QRProviderInterface interface {
	ImageURL(data string) string
	Fetch(ctx context.Context, data string) ([]byte, error)
}

// QRProvider talks to an external QR image endpoint (qrserver.com compatible).
// Rendered images are cached by their full request URL.
type QRProvider struct {
	client  *resty.Client
	cache   CacheProviderInterface
	logger  Logger
	baseURL string
	size    int
	margin  int
}

func NewQRProvider(conf *structures.Config, cache CacheProviderInterface, logger Logger) QRProviderInterface {
	size := conf.Share.QRSize
	if size <= 0 {
		size = 200
	}
	client := resty.New().
		SetTimeout(conf.Share.QRTimeout).
		SetRetryCount(1)
	return &QRProvider{
		client:  client,
		cache:   cache,
		logger:  logger,
		baseURL: conf.Share.QRApiURL,
		size:    size,
		margin:  conf.Share.QRMargin,
	}
}

func (q *QRProvider) ImageURL(data string) string {
	params := url.Values{}
	params.Set("data", data)
	params.Set("size", strconv.Itoa(q.size)+"x"+strconv.Itoa(q.size))
	params.Set("margin", strconv.Itoa(q.margin))
	params.Set("color", "000000")
	params.Set("bgcolor", "ffffff")
	params.Set("format", "png")
	return q.baseURL + "?" + params.Encode()
}

func (q *QRProvider) Fetch(ctx context.Context, data string) ([]byte, error) {
	imageURL := q.ImageURL(data)
	cacheKey := "qr:" + imageURL
	if img, ok := q.cache.Get(cacheKey); ok {
		return img, nil
	}

	resp, err := q.client.R().SetContext(ctx).Get(imageURL)
	if err != nil {
		return nil, fmt.Errorf("qr request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("qr endpoint answered %d", resp.StatusCode())
	}

	img := resp.Body()
	if len(img) == 0 {
		return nil, fmt.Errorf("qr endpoint returned an empty image")
	}
	q.cache.Set(cacheKey, img)
	q.logger.Debugf(TypeApp, "QR image fetched: %d bytes", len(img))
	return img, nil
}
