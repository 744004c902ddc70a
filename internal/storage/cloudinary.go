// Package storage abstracts the external blob store for profile photos.
package storage

import (
	"bytes"
	"context"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"time"

	"backend/internal/apperr"
)

// UploadResult carries the public URL and the handle needed to delete later.
type UploadResult struct {
	URL      string
	PublicID string
}

// Uploader stores and removes image blobs.
type Uploader interface {
	Upload(ctx context.Context, data []byte, filename string) (*UploadResult, error)
	Delete(ctx context.Context, publicID string) error
}

type cloudinaryUploader struct {
	http      *http.Client
	cloudName string
	apiKey    string
	apiSecret string
	folder    string
}

// NewCloudinaryUploader builds an Uploader against the Cloudinary upload API.
func NewCloudinaryUploader(cloudName, apiKey, apiSecret string) Uploader {
	return &cloudinaryUploader{
		http:      &http.Client{Timeout: 30 * time.Second},
		cloudName: cloudName,
		apiKey:    apiKey,
		apiSecret: apiSecret,
		folder:    "club-match/profile",
	}
}

func (c *cloudinaryUploader) Upload(ctx context.Context, data []byte, filename string) (*UploadResult, error) {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"folder":    c.folder,
		"timestamp": ts,
	}

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range params {
		_ = w.WriteField(k, v)
	}
	_ = w.WriteField("api_key", c.apiKey)
	_ = w.WriteField("signature", c.sign(params))
	part, err := w.CreateFormFile("file", filename)
	if err != nil {
		return nil, err
	}
	if _, err := part.Write(data); err != nil {
		return nil, err
	}
	if err := w.Close(); err != nil {
		return nil, err
	}

	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/upload", c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, &buf)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindExternal, "photo upload failed", err)
	}
	req.Header.Set("Content-Type", w.FormDataContentType())

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindExternal, "photo upload failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
		return nil, apperr.Wrap(apperr.KindExternal, "photo upload failed",
			fmt.Errorf("cloudinary returned %d: %s", resp.StatusCode, body))
	}

	var result struct {
		SecureURL string `json:"secure_url"`
		PublicID  string `json:"public_id"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return nil, apperr.Wrap(apperr.KindExternal, "photo upload failed", err)
	}
	return &UploadResult{URL: result.SecureURL, PublicID: result.PublicID}, nil
}

func (c *cloudinaryUploader) Delete(ctx context.Context, publicID string) error {
	ts := strconv.FormatInt(time.Now().Unix(), 10)
	params := map[string]string{
		"public_id": publicID,
		"timestamp": ts,
	}

	form := url.Values{}
	for k, v := range params {
		form.Set(k, v)
	}
	form.Set("api_key", c.apiKey)
	form.Set("signature", c.sign(params))

	endpoint := fmt.Sprintf("https://api.cloudinary.com/v1_1/%s/image/destroy", c.cloudName)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint,
		bytes.NewBufferString(form.Encode()))
	if err != nil {
		return apperr.Wrap(apperr.KindExternal, "photo delete failed", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return apperr.Wrap(apperr.KindExternal, "photo delete failed", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return apperr.Wrap(apperr.KindExternal, "photo delete failed",
			fmt.Errorf("cloudinary returned %d", resp.StatusCode))
	}
	return nil
}

// sign computes the Cloudinary API signature: SHA1 over the sorted params
// concatenated with the API secret.
func (c *cloudinaryUploader) sign(params map[string]string) string {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	var b bytes.Buffer
	for i, k := range keys {
		if i > 0 {
			b.WriteByte('&')
		}
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(params[k])
	}
	b.WriteString(c.apiSecret)

	sum := sha1.Sum(b.Bytes())
	return hex.EncodeToString(sum[:])
}
