package main

import (
	"context"
	"encoding/json"
	"time"

	"github.com/fwojciec/postpdf"
)

var _ postpdf.Renderer = (*JSONRenderer)(nil)

// JSONRenderer renders a conversion as indented JSON.
type JSONRenderer struct {
	now func() time.Time
}

// NewJSONRenderer creates a JSONRenderer.
func NewJSONRenderer() *JSONRenderer {
	return &JSONRenderer{now: time.Now}
}

type jsonDocument struct {
	SourceURL   string              `json:"sourceUrl"`
	Type        postpdf.ContentType `json:"type"`
	ExtractedAt time.Time           `json:"extractedAt"`
	Content     postpdf.Content     `json:"content"`
}

// Render implements postpdf.Renderer.
func (r *JSONRenderer) Render(ctx context.Context, conv *postpdf.Conversion) (*postpdf.Output, error) {
	if conv == nil || conv.Content == nil {
		return nil, postpdf.Errorf(postpdf.ERENDER, "nothing to render")
	}

	data, err := json.MarshalIndent(jsonDocument{
		SourceURL:   conv.SourceURL,
		Type:        conv.Type(),
		ExtractedAt: conv.ExtractedAt,
		Content:     conv.Content,
	}, "", "  ")
	if err != nil {
		return nil, postpdf.Errorf(postpdf.ERENDER, "encoding JSON: %v", err)
	}

	return &postpdf.Output{
		Filename: postpdf.Filename(conv.Content, "json", r.now()),
		MIMEType: "application/json",
		Data:     append(data, '\n'),
	}, nil
}
