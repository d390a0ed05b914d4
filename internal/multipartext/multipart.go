package multipartext

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/textproto"
	"strings"
)

var quoteEscaper = strings.NewReplacer("\\", "\\\\", `"`, "\\\"")

// NewMultipartReader creates a seekable multipart form-data body that streams src as the file part named field.
// Also returns the form data content type (see multipart.Writer#FormDataContentType).
func NewMultipartReader(field, filename string, src io.ReadSeeker) (io.ReadSeeker, string, error) {
	buffy := &bytes.Buffer{}
	writer := multipart.NewWriter(buffy)
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition",
		fmt.Sprintf(`form-data; name="%s"; filename="%s"`, quoteEscaper.Replace(field), quoteEscaper.Replace(filename)))
	header.Set("Content-Type", "application/octet-stream")

	// The part holding the file is left empty. Its content is spliced in between head and tail.
	if _, err := writer.CreatePart(header); err != nil {
		return nil, "", err
	}
	headerSize := buffy.Len()

	if err := writer.Close(); err != nil {
		return nil, "", err
	}

	body, err := MultiReadSeeker(
		bytes.NewReader(buffy.Bytes()[:headerSize]),
		src,
		bytes.NewReader(buffy.Bytes()[headerSize:]),
	)
	if err != nil {
		return nil, "", err
	}

	return body, writer.FormDataContentType(), nil
}
