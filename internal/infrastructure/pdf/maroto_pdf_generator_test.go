package pdf

import (
	"bytes"
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bakano/bakano-web/internal/domain/entity"
)

func TestDocumentPlaceholder_GeneraPDF(t *testing.T) {
	doc := &entity.Document{
		ID:           "doc_1",
		Name:         "Contrato de Servicios 2024",
		OriginalName: "contrato_servicios_2024.pdf",
		Type:         entity.DocumentContract,
		Size:         2048576,
		Description:  "Contrato principal para servicios de consultoría",
		UploadedAt:   time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Metadata:     &entity.DocumentMetadata{Pages: 15},
	}
	out, err := NewMarotoPDFGenerator().DocumentPlaceholder(context.Background(), doc)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")), "debe ser un PDF")
}

func TestDocumentPlaceholder_Nil(t *testing.T) {
	_, err := NewMarotoPDFGenerator().DocumentPlaceholder(context.Background(), nil)
	assert.Error(t, err)
}

func TestFormatThousands(t *testing.T) {
	assert.Equal(t, "512", formatThousands("512"))
	assert.Equal(t, "25.000", formatThousands("25000"))
	assert.Equal(t, "2.048.576", formatThousands("2048576"))
}
