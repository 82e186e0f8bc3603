package backend

import (
	"bytes"
	"strconv"
	"sync"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"

	rerrors "github.com/r3d91ll/scriptpdf/pkg/errors"
)

var disablePDFCPUConfig sync.Once

// VerifyPDF parses PDF bytes and returns the page count. When wantPages is
// positive a different page count is reported as PAGE_COUNT_MISMATCH.
func VerifyPDF(data []byte, wantPages int) (int, error) {
	// keep pdfcpu from writing a config directory under the user's home
	disablePDFCPUConfig.Do(func() { model.ConfigPath = "disable" })

	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed

	ctx, err := api.ReadValidateAndOptimize(bytes.NewReader(data), conf)
	if err != nil {
		return 0, rerrors.WrapBackend(err, rerrors.ErrVerifyFailed, "exported PDF could not be parsed")
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return 0, rerrors.WrapBackend(err, rerrors.ErrVerifyFailed, "exported PDF has no readable page tree")
	}

	if wantPages > 0 && ctx.PageCount != wantPages {
		return ctx.PageCount, rerrors.Newf(rerrors.ErrPageCountMismatch, rerrors.CategoryBackend,
			"exported PDF has %d pages, expected %d", ctx.PageCount, wantPages).
			WithContext("got", strconv.Itoa(ctx.PageCount)).
			WithContext("want", strconv.Itoa(wantPages))
	}
	return ctx.PageCount, nil
}
