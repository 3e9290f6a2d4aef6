package respond

import (
	"io"
	"net/http"

	"github.com/user/labconsole/apperror"
	"github.com/user/labconsole/httpclient"
)

// maxUploadMemory bounds how much of a multipart body is held in memory
// before spilling to temporary files.
const maxUploadMemory = 32 << 20

// ParseMultipart parses a multipart request body. The returned cleanup
// removes any temporary files and must always be called.
func ParseMultipart(r *http.Request) (func(), error) {
	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		return func() {}, apperror.NewBadRequestError("invalid multipart body", err)
	}
	return func() { r.MultipartForm.RemoveAll() }, nil
}

// Uploads opens the files posted under field of a parsed multipart request.
// The returned func closes them and must always be called.
func Uploads(r *http.Request, field string) ([]httpclient.Upload, func(), error) {
	var files []io.Closer
	closeAll := func() {
		for _, f := range files {
			f.Close()
		}
	}
	if r.MultipartForm == nil {
		return nil, closeAll, nil
	}
	headers := r.MultipartForm.File[field]
	uploads := make([]httpclient.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, closeAll, apperror.NewBadRequestError("cannot read upload "+fh.Filename, err)
		}
		files = append(files, f)
		uploads = append(uploads, httpclient.Upload{Filename: fh.Filename, Content: f})
	}
	return uploads, closeAll, nil
}
