package echoapi

import (
	"io"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/pkg/errors"

	"github.com/charbel-francis/saleaf/core"
)

var orderingParam = "ordering"

type Ordering struct {
	Orderings []core.DBOrdering
}

func (ord *Ordering) Bind(ctx echo.Context) {
	data := ctx.QueryParams()
	if len(data) == 0 {
		return
	}
	val, ok := data[orderingParam]
	if !ok || len(val) == 0 || val[0] == "" {
		return
	}

	for _, field := range strings.Split(val[0], ",") {
		field = strings.TrimSpace(field)
		descending := strings.HasPrefix(field, "-")
		if descending {
			field = field[1:] // drop "-"
		}
		ord.Orderings = append(ord.Orderings, core.DBOrdering{Field: field, Ascending: !descending})
	}
}

// bindUpload reads a multipart file field into a core.Upload.
// A missing field is not an error; it yields nil.
func bindUpload(ctx echo.Context, field string) (*core.Upload, error) {
	fh, err := ctx.FormFile(field)
	if err != nil {
		if err == http.ErrMissingFile || errors.Cause(err) == http.ErrMissingFile {
			return nil, nil
		}
		// echo returns the raw *multipart* error for absent fields too
		if strings.Contains(err.Error(), "no such file") {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "reading form file %q", field)
	}

	f, err := fh.Open()
	if err != nil {
		return nil, errors.Wrapf(err, "opening form file %q", field)
	}
	defer f.Close()

	content, err := io.ReadAll(f)
	if err != nil {
		return nil, errors.Wrapf(err, "reading form file %q", field)
	}

	up := &core.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get(echo.HeaderContentType),
		Content:     content,
	}
	up.Sniff()
	return up, nil
}
