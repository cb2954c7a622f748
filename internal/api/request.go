package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/erazemk/sladica/internal/imaging"
	"github.com/erazemk/sladica/internal/validate"
)

// errBadRequest marks a body that could not be decoded.
var errBadRequest = errors.New("malformed request body")

// multipartMemory is the part of a multipart body kept in memory; the rest
// spills to temporary files.
const multipartMemory = 8 << 20

// formBody reports whether r carries a form submission.
func formBody(r *http.Request) bool {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return ct == "multipart/form-data" || ct == "application/x-www-form-urlencoded"
}

// parseForm parses a form body once; later calls are no-ops.
func parseForm(r *http.Request) error {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	var err error
	if ct == "multipart/form-data" {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err == nil {
		return nil
	}
	var maxErr *http.MaxBytesError
	if errors.As(err, &maxErr) {
		return err
	}
	return fmt.Errorf("%w: %v", errBadRequest, err)
}

// readPayload decodes the request body into a Payload. JSON objects and
// form submissions are accepted; an empty body is an empty payload.
func readPayload(r *http.Request) (validate.Payload, error) {
	if formBody(r) {
		if err := parseForm(r); err != nil {
			return nil, err
		}
		return formPayload(r), nil
	}

	defer r.Body.Close()
	var p validate.Payload
	dec := json.NewDecoder(r.Body)
	dec.UseNumber()
	if err := dec.Decode(&p); err != nil && !errors.Is(err, io.EOF) {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if p == nil {
		p = validate.Payload{}
	}
	return p, nil
}

// formPayload collects the first value of each form field. Fields named
// like constants[key] are gathered into a nested object.
func formPayload(r *http.Request) validate.Payload {
	values := r.PostForm
	if r.MultipartForm != nil {
		values = r.MultipartForm.Value
	}

	p := validate.Payload{}
	for key, vals := range values {
		if key == "_method" || len(vals) == 0 {
			continue
		}
		name, sub, nested := strings.Cut(key, "[")
		if nested && strings.HasSuffix(sub, "]") {
			obj, _ := p[name].(map[string]any)
			if obj == nil {
				obj = map[string]any{}
				p[name] = obj
			}
			obj[strings.TrimSuffix(sub, "]")] = vals[0]
			continue
		}
		p[key] = vals[0]
	}
	return p
}

// pathID parses the {id} path value.
func pathID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	return id, err == nil && id > 0
}

// uploader validates and stores uploaded images.
type uploader struct {
	storage  imaging.Storage
	maxBytes int64
}

// process reads the "image" file of a multipart request and converts it to a
// stored JPEG body. It returns nil when the request carries no image file.
// Problems with the file itself are recorded in errs.
func (u uploader) process(r *http.Request, p validate.Payload, errs validate.Errors) ([]byte, error) {
	if r.MultipartForm == nil || len(r.MultipartForm.File["image"]) == 0 {
		if p.Filled("image") {
			errs.Add("image", "The image field must be an image.")
		}
		return nil, nil
	}

	f, err := r.MultipartForm.File["image"][0].Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer f.Close()

	result, err := imaging.Process(f, u.maxBytes)
	switch {
	case errors.Is(err, imaging.ErrTooLarge):
		errs.Add("image", fmt.Sprintf("The image field must not be greater than %d kilobytes.", u.maxBytes>>10))
		return nil, nil
	case errors.Is(err, imaging.ErrUnsupported):
		errs.Add("image", "The image field must be an image.")
		return nil, nil
	case err != nil:
		return nil, err
	}
	return result.Data, nil
}

// save writes data below dir and returns its relative path, or nil when
// there is nothing to save.
func (u uploader) save(dir string, data []byte) (*string, error) {
	if data == nil {
		return nil, nil
	}
	rel, err := u.storage.Save(dir, data)
	if err != nil {
		return nil, err
	}
	return &rel, nil
}

// discard removes an image saved by a request that then failed.
func (u uploader) discard(rel *string) {
	if rel == nil {
		return
	}
	if err := u.storage.Remove(*rel); err != nil {
		slog.Warn("failed to remove unused image", "path", *rel, "error", err)
	}
}
