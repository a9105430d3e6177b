package fs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/fwojciec/orderscrape"
	"golang.org/x/net/html/charset"
)

// Ensure DocumentSource implements orderscrape.Gateway at compile time.
var _ orderscrape.Gateway = (*DocumentSource)(nil)

// DocumentSource serves a previously saved orders page from disk in place
// of the portal. Login is a no-op.
type DocumentSource struct {
	Path string
}

// NewDocumentSource creates a DocumentSource reading path.
func NewDocumentSource(path string) *DocumentSource {
	return &DocumentSource{Path: path}
}

// Login does nothing; a saved page needs no session.
func (s *DocumentSource) Login(ctx context.Context) error {
	return nil
}

// FetchOrders reads the saved page. The byte encoding is sniffed from the
// document's meta tags and converted to UTF-8.
func (s *DocumentSource) FetchOrders(ctx context.Context) (*orderscrape.RawDocument, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(s.Path)
	if os.IsNotExist(err) {
		return nil, orderscrape.Errorf(orderscrape.ENOTFOUND, "saved page %s not found", s.Path)
	} else if err != nil {
		return nil, orderscrape.WrapError(orderscrape.EIO, err, "read saved page %s", s.Path)
	}

	html, err := DecodeHTML(data, "")
	if err != nil {
		return nil, orderscrape.WrapError(orderscrape.EIO, err, "decode saved page %s", s.Path)
	}

	abs, err := filepath.Abs(s.Path)
	if err != nil {
		abs = s.Path
	}
	return &orderscrape.RawDocument{URL: "file://" + filepath.ToSlash(abs), HTML: html}, nil
}

// DecodeHTML converts an HTML body to UTF-8 using the content type header
// when given and the document's own declarations otherwise.
func DecodeHTML(body []byte, contentType string) (string, error) {
	enc, _, _ := charset.DetermineEncoding(body, contentType)
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
