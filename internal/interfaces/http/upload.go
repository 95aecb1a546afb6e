package http

import (
	"fmt"
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/bakano/bakano-web/internal/application/dto"
)

// maxUploadSize límite por archivo recibido del navegador.
const maxUploadSize = 50 << 20

// formFile lee el archivo field del formulario multipart.
func formFile(c *fiber.Ctx, field string) (dto.File, error) {
	fh, err := c.FormFile(field)
	if err != nil {
		return dto.File{}, fmt.Errorf("campo %s: %w", field, err)
	}
	return readPart(fh)
}

// formFiles lee todos los archivos del campo field.
func formFiles(c *fiber.Ctx, field string) ([]dto.File, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return nil, fmt.Errorf("formulario: %w", err)
	}
	headers := form.File[field]
	files := make([]dto.File, 0, len(headers))
	for _, fh := range headers {
		f, err := readPart(fh)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}
	return files, nil
}

func readPart(fh *multipart.FileHeader) (dto.File, error) {
	if fh.Size > maxUploadSize {
		return dto.File{}, fmt.Errorf("%s supera el tamaño máximo", fh.Filename)
	}
	f, err := fh.Open()
	if err != nil {
		return dto.File{}, fmt.Errorf("abrir %s: %w", fh.Filename, err)
	}
	defer f.Close()
	content, err := io.ReadAll(f)
	if err != nil {
		return dto.File{}, fmt.Errorf("leer %s: %w", fh.Filename, err)
	}
	ct := fh.Header.Get("Content-Type")
	if ct == "" {
		ct = "application/octet-stream"
	}
	return dto.File{Name: fh.Filename, ContentType: ct, Content: content}, nil
}
