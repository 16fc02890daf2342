package admin

import (
	"errors"
	"io"
	"net/http"

	"github.com/getmockd/mockapi/pkg/httputil"
	"github.com/getmockd/mockapi/pkg/model"
)

// MaxAssetSize caps a single uploaded console file.
const MaxAssetSize = 10 << 20

// AssetInfo describes a stored console file.
type AssetInfo struct {
	Name        string `json:"name"`
	ContentType string `json:"contentType"`
	Size        int    `json:"size"`
}

func (a *API) handleListAssets(w http.ResponseWriter, r *http.Request) {
	names, err := a.backend.Assets().List(r.Context())
	if err != nil {
		a.writeStoreError(w, err, "list assets", ErrMsgNotFound)
		return
	}
	httputil.WriteOK(w, names)
}

// handlePutAsset stores the raw request body as a console file. The
// Content-Type header wins; without one it is derived from the extension.
func (a *API) handlePutAsset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if !model.ValidAssetName(name) {
		httputil.WriteBadRequest(w, ErrMsgInvalidAssetName)
		return
	}

	data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, MaxAssetSize))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			httputil.WriteError(w, http.StatusRequestEntityTooLarge, "Payload Too Large", ErrMsgAssetTooLarge)
			return
		}
		httputil.WriteBadRequest(w, "failed to read request body")
		return
	}

	asset := &model.Asset{Name: name, ContentType: r.Header.Get("Content-Type"), Data: data}
	if asset.ContentType == "" {
		asset.ContentType = model.AssetContentType(name)
	}
	if err := a.backend.Assets().Put(r.Context(), asset); err != nil {
		a.writeStoreError(w, err, "put asset", ErrMsgAssetNotFound, "asset", name)
		return
	}
	a.log.Info("console file stored", "asset", name, "bytes", len(data))
	httputil.WriteOK(w, AssetInfo{Name: name, ContentType: asset.ContentType, Size: len(data)})
}

func (a *API) handleDeleteAsset(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if err := a.backend.Assets().Delete(r.Context(), name); err != nil {
		a.writeStoreError(w, err, "delete asset", ErrMsgAssetNotFound, "asset", name)
		return
	}
	httputil.WriteNoContent(w)
}
